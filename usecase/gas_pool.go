package usecase

import (
	"dominum/domain"

	errorsmod "cosmossdk.io/errors"
	"github.com/tonkeeper/tongo"
	"github.com/tonkeeper/tongo/tlb"
)

const KindGasPool = "gas_pool"

type GasPoolConfig struct {
	Address  tongo.AccountID
	Admin    tongo.AccountID
	Proxy    tongo.AccountID
	Treasury tongo.AccountID
}

// GasPool accumulates the gas half of every transfer tax. It trusts the
// proxy address only, and checks the fee constants again on arrival.
type GasPool struct {
	address  tongo.AccountID
	admin    tongo.AccountID
	proxy    tongo.AccountID
	treasury tongo.AccountID
	change   timelock

	domBalance tlb.Grams
	tonReserve tlb.Grams
}

func NewGasPool(cfg GasPoolConfig) *GasPool {
	return &GasPool{
		address:  cfg.Address,
		admin:    cfg.Admin,
		proxy:    cfg.Proxy,
		treasury: cfg.Treasury,
	}
}

func (p *GasPool) Address() tongo.AccountID {
	return p.address
}

func (p *GasPool) Kind() string {
	return KindGasPool
}

// With fixed fees nothing of the reserve is owed to subsidies, so all of it
// is available.
func (p *GasPool) Data() any {
	return domain.GasPoolData{
		Address:         p.address,
		Admin:           p.admin,
		Proxy:           p.proxy,
		Treasury:        p.treasury,
		DomBalance:      p.domBalance,
		TonReserve:      p.tonReserve,
		AvailableTon:    p.tonReserve,
		PendingTreasury: p.change.snapshot(),
	}
}

func (p *GasPool) Receive(ctx *MessageContext, env Envelope) error {
	if env.Bounced {
		return nil
	}

	switch body := env.Body.(type) {
	case domain.RelayFee:
		if env.Src != p.proxy {
			return errorsmod.Wrapf(domain.ErrUnauthorized, "fee relay from %v", env.Src.ToRaw())
		}
		if err := checkFees(body.TreasuryFee, body.GasPoolFee); err != nil {
			return err
		}
		p.domBalance += body.GasPoolFee
		return nil
	case domain.TopUpReserve:
		p.tonReserve += env.Value
		ctx.Log().Info("ton reserve topped up", "value", env.Value, "reserve", p.tonReserve)
		return nil
	case domain.RequestChangeTreasury:
		if env.Src != p.admin {
			return errorsmod.Wrapf(domain.ErrUnauthorized, "request change treasury from %v", env.Src.ToRaw())
		}
		if err := p.change.request(body.Candidate, ctx.Now()); err != nil {
			return err
		}
		ctx.Log().Warn("🟡 treasury change requested", "candidate", body.Candidate.ToRaw())
		return nil
	case domain.ConfirmChangeTreasury:
		if env.Src != p.admin {
			return errorsmod.Wrapf(domain.ErrUnauthorized, "confirm change treasury from %v", env.Src.ToRaw())
		}
		candidate, err := p.change.confirm(ctx.Now())
		if err != nil {
			return err
		}
		p.treasury = candidate
		ctx.Log().Warn("🟡 treasury changed", "treasury", candidate.ToRaw())
		return nil
	default:
		return errorsmod.Wrapf(domain.ErrUnknownOp, "op %#x", env.Body.Opcode())
	}
}
