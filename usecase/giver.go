package usecase

import (
	"dominum/domain"

	errorsmod "cosmossdk.io/errors"
	"github.com/tonkeeper/tongo"
	"github.com/tonkeeper/tongo/tlb"
)

const KindGiver = "giver"

type GiverConfig struct {
	Address      tongo.AccountID
	Manager      tongo.AccountID
	Wallet       *tongo.AccountID
	FirstTarget  *tongo.AccountID
	SecondTarget *tongo.AccountID
}

// Giver re-splits everything its token account receives 50/50 between two
// targets, so its balance is zero at rest.
type Giver struct {
	cfg GiverConfig
}

func NewGiver(cfg GiverConfig) *Giver {
	return &Giver{cfg: cfg}
}

func (g *Giver) Address() tongo.AccountID {
	return g.cfg.Address
}

func (g *Giver) Kind() string {
	return KindGiver
}

func (g *Giver) Data() any {
	return domain.GiverData{
		Address:      g.cfg.Address,
		Manager:      g.cfg.Manager,
		Wallet:       clone(g.cfg.Wallet),
		FirstTarget:  clone(g.cfg.FirstTarget),
		SecondTarget: clone(g.cfg.SecondTarget),
	}
}

func (g *Giver) Receive(ctx *MessageContext, env Envelope) error {
	if env.Bounced {
		return nil
	}

	switch body := env.Body.(type) {
	case domain.SetWallet:
		if env.Src != g.cfg.Manager {
			return errorsmod.Wrapf(domain.ErrUnauthorized, "set wallet from %v", env.Src.ToRaw())
		}
		wallet := body.Wallet
		g.cfg.Wallet = &wallet
		ctx.Log().Info("giver wallet set", "giver", g.cfg.Address.ToRaw(), "wallet", wallet.ToRaw())
		return nil
	case domain.TransferNotification:
		return g.distribute(ctx, env, body)
	default:
		return errorsmod.Wrapf(domain.ErrUnknownOp, "op %#x", env.Body.Opcode())
	}
}

func (g *Giver) distribute(ctx *MessageContext, env Envelope, body domain.TransferNotification) error {
	if g.cfg.Wallet == nil || g.cfg.FirstTarget == nil || g.cfg.SecondTarget == nil {
		return domain.ErrGiverNotWired
	}
	if env.Src != *g.cfg.Wallet {
		return errorsmod.Wrapf(domain.ErrUnauthorized, "notification from %v", env.Src.ToRaw())
	}

	first, second := SplitHalves(body.Amount)
	if second < domain.TaxTotal {
		return errorsmod.Wrapf(domain.ErrAmountBelowTax, "half %v cannot carry the tax", second)
	}

	// Plain transfers: no custom payload, no forward payload.
	ctx.Send(*g.cfg.Wallet, domain.Transfer{
		QueryID:     body.QueryID,
		Amount:      first,
		Destination: *g.cfg.FirstTarget,
	})
	ctx.Send(*g.cfg.Wallet, domain.Transfer{
		QueryID:     body.QueryID,
		Amount:      second,
		Destination: *g.cfg.SecondTarget,
	})

	ctx.Log().Debug("giver split", "giver", g.cfg.Address.ToRaw(), "first", first, "second", second)
	return nil
}

// SplitHalves floors the second half; an odd unit goes to the first target.
func SplitHalves(amount tlb.Grams) (first, second tlb.Grams) {
	second = amount / 2
	first = amount - second
	return first, second
}

func clone(id *tongo.AccountID) *tongo.AccountID {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}
