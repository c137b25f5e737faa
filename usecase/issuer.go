package usecase

import (
	"dominum/domain"

	errorsmod "cosmossdk.io/errors"
	"github.com/tonkeeper/tongo"
	"github.com/tonkeeper/tongo/tlb"
)

const KindIssuer = "issuer"

type IssuerConfig struct {
	Address  tongo.AccountID
	Minter   tongo.AccountID
	Template *domain.WalletTemplate
	Givers   [domain.GiverCount]tongo.AccountID
	Shares   [domain.GiverCount]uint32
	Content  domain.Content
}

// Issuer mints supply and fans every emission out to the four givers.
type Issuer struct {
	cfg         IssuerConfig
	totalSupply tlb.Grams
}

func NewIssuer(cfg IssuerConfig) (*Issuer, error) {
	var sum uint32
	for _, share := range cfg.Shares {
		sum += share
	}
	if sum != domain.ShareBase {
		return nil, errorsmod.Wrapf(domain.ErrInvalidAmount, "giver shares sum to %v, want %v", sum, domain.ShareBase)
	}
	if cfg.Template == nil || cfg.Template.Issuer != cfg.Address {
		return nil, errorsmod.Wrap(domain.ErrUnauthorized, "wallet template does not belong to this issuer")
	}
	return &Issuer{cfg: cfg}, nil
}

func (i *Issuer) Address() tongo.AccountID {
	return i.cfg.Address
}

func (i *Issuer) Kind() string {
	return KindIssuer
}

func (i *Issuer) Data() any {
	return domain.IssuerData{
		Address:     i.cfg.Address,
		TotalSupply: i.totalSupply,
		Minter:      i.cfg.Minter,
		GasProxy:    i.cfg.Template.GasProxy,
		Givers:      i.cfg.Givers,
		Content:     i.cfg.Content,
	}
}

// WalletAddress is the issuer's get method for an owner's token account.
func (i *Issuer) WalletAddress(owner tongo.AccountID) (tongo.AccountID, error) {
	return i.cfg.Template.AddressOf(owner)
}

func (i *Issuer) Receive(ctx *MessageContext, env Envelope) error {
	if env.Bounced {
		return i.onBounce(ctx, env)
	}

	switch body := env.Body.(type) {
	case domain.Mint:
		return i.mint(ctx, env, body)
	default:
		return errorsmod.Wrapf(domain.ErrUnknownOp, "op %#x", env.Body.Opcode())
	}
}

func (i *Issuer) mint(ctx *MessageContext, env Envelope, body domain.Mint) error {
	if env.Src != i.cfg.Minter {
		return errorsmod.Wrapf(domain.ErrUnauthorized, "mint from %v", env.Src.ToRaw())
	}
	if body.Amount == 0 {
		return domain.ErrInvalidTransferAmount
	}
	if i.totalSupply+body.Amount < i.totalSupply {
		return domain.ErrSupplyOverflow
	}

	wallets := make([]*JettonWallet, domain.GiverCount)
	for k, giver := range i.cfg.Givers {
		wallet, err := NewJettonWallet(i.cfg.Template, giver)
		if err != nil {
			return err
		}
		wallets[k] = wallet
	}

	parts := SplitShares(body.Amount, i.cfg.Shares)
	i.totalSupply += body.Amount

	for k, wallet := range wallets {
		if parts[k] == 0 {
			continue
		}
		ctx.Send(wallet.Address(), domain.InternalTransfer{
			QueryID: body.QueryID,
			Amount:  parts[k],
			From:    i.cfg.Address,
			To:      i.cfg.Givers[k],
		}, WithBounce(), WithInit(wallet))
	}

	ctx.Log().Info("minted", "amount", body.Amount, "total_supply", i.totalSupply)
	return nil
}

// A giver that cannot distribute yet hands its part of a mint back, and the
// part leaves the supply again.
func (i *Issuer) onBounce(ctx *MessageContext, env Envelope) error {
	body, ok := env.Body.(domain.InternalTransfer)
	if !ok {
		return nil
	}
	if body.From != i.cfg.Address || !i.isGiver(body.To) {
		return errorsmod.Wrapf(domain.ErrUnauthorized, "bounced mint to %v", body.To.ToRaw())
	}
	wallet, err := i.cfg.Template.AddressOf(body.To)
	if err != nil {
		return err
	}
	if env.Src != wallet {
		return errorsmod.Wrapf(domain.ErrUnauthorized, "bounced mint from %v", env.Src.ToRaw())
	}
	if body.Amount > i.totalSupply {
		return errorsmod.Wrapf(domain.ErrInsufficientBalance, "returned %v exceeds supply %v", body.Amount, i.totalSupply)
	}

	i.totalSupply -= body.Amount
	ctx.Log().Warn("🟡 mint part returned",
		"giver", body.To.ToRaw(),
		"amount", body.Amount,
		"total_supply", i.totalSupply)
	return nil
}

func (i *Issuer) isGiver(addr tongo.AccountID) bool {
	for _, giver := range i.cfg.Givers {
		if giver == addr {
			return true
		}
	}
	return false
}

// SplitShares divides amount by basis points. The last part takes the
// rounding remainder, so the parts always sum to amount.
func SplitShares(amount tlb.Grams, shares [domain.GiverCount]uint32) [domain.GiverCount]tlb.Grams {
	var parts [domain.GiverCount]tlb.Grams
	var given tlb.Grams
	for k := 0; k < domain.GiverCount-1; k++ {
		parts[k] = mulDiv(amount, shares[k], domain.ShareBase)
		given += parts[k]
	}
	parts[domain.GiverCount-1] = amount - given
	return parts
}

// mulDiv computes amount*num/den without overflowing for any uint64 amount.
func mulDiv(amount tlb.Grams, num, den uint32) tlb.Grams {
	q := amount / tlb.Grams(den)
	r := amount % tlb.Grams(den)
	return q*tlb.Grams(num) + r*tlb.Grams(num)/tlb.Grams(den)
}
