package usecase

import (
	"dominum/domain"

	errorsmod "cosmossdk.io/errors"
	"github.com/tonkeeper/tongo"
	"github.com/tonkeeper/tongo/tlb"
)

const KindGasProxy = "gas_proxy"

type walletConfigState uint8

const (
	walletConfigUnset walletConfigState = iota
	walletConfigReady
)

type GasProxyConfig struct {
	Address  tongo.AccountID
	Admin    tongo.AccountID
	RealPool *tongo.AccountID
}

// GasProxy is the stable address token accounts pay gas fees to. The pool
// behind it changes only through the timelock, and the wallet config used to
// authenticate depositors is written exactly once.
type GasProxy struct {
	address  tongo.AccountID
	admin    tongo.AccountID
	realPool *tongo.AccountID
	pool     timelock

	state      walletConfigState
	master     tongo.AccountID
	walletCode []byte
}

func NewGasProxy(cfg GasProxyConfig) *GasProxy {
	return &GasProxy{
		address:  cfg.Address,
		admin:    cfg.Admin,
		realPool: clone(cfg.RealPool),
	}
}

func (p *GasProxy) Address() tongo.AccountID {
	return p.address
}

func (p *GasProxy) Kind() string {
	return KindGasProxy
}

func (p *GasProxy) Data() any {
	data := domain.GasProxyData{
		Address:           p.address,
		Admin:             p.admin,
		RealPool:          clone(p.realPool),
		WalletConfigReady: p.state == walletConfigReady,
		Pending:           p.pool.snapshot(),
	}
	if data.WalletConfigReady {
		data.Master = clone(&p.master)
	}
	return data
}

func (p *GasProxy) Receive(ctx *MessageContext, env Envelope) error {
	if env.Bounced {
		return p.onBounce(ctx, env)
	}

	switch body := env.Body.(type) {
	case domain.SetProxyWalletConfig:
		return p.setWalletConfig(ctx, env, body)
	case domain.RequestChangePool:
		return p.requestChangePool(ctx, env, body)
	case domain.ConfirmChangePool:
		return p.confirmChangePool(ctx, env)
	case domain.DepositFee:
		return p.depositFee(ctx, env, body)
	case domain.TopUpReserve:
		return p.topUpReserve(ctx, env, body)
	default:
		return errorsmod.Wrapf(domain.ErrUnknownOp, "op %#x", env.Body.Opcode())
	}
}

// The wallet config goes from unset to ready once and never back.
func (p *GasProxy) markReady() error {
	if p.state == walletConfigReady {
		return domain.ErrAlreadyInitialized
	}
	p.state = walletConfigReady
	return nil
}

func (p *GasProxy) setWalletConfig(ctx *MessageContext, env Envelope, body domain.SetProxyWalletConfig) error {
	if env.Src != p.admin {
		return errorsmod.Wrapf(domain.ErrUnauthorized, "set wallet config from %v", env.Src.ToRaw())
	}
	if err := p.markReady(); err != nil {
		return err
	}
	p.master = body.Master
	p.walletCode = append([]byte(nil), body.WalletCode...)

	ctx.Log().Info("proxy wallet config set", "master", body.Master.ToRaw())
	return nil
}

func (p *GasProxy) requestChangePool(ctx *MessageContext, env Envelope, body domain.RequestChangePool) error {
	if env.Src != p.admin {
		return errorsmod.Wrapf(domain.ErrUnauthorized, "request change pool from %v", env.Src.ToRaw())
	}
	if err := p.pool.request(body.Candidate, ctx.Now()); err != nil {
		return err
	}

	ctx.Log().Warn("🟡 gas pool change requested",
		"candidate", body.Candidate.ToRaw(),
		"not_before", p.pool.deadline().UTC())
	return nil
}

func (p *GasProxy) confirmChangePool(ctx *MessageContext, env Envelope) error {
	if env.Src != p.admin {
		return errorsmod.Wrapf(domain.ErrUnauthorized, "confirm change pool from %v", env.Src.ToRaw())
	}
	candidate, err := p.pool.confirm(ctx.Now())
	if err != nil {
		return err
	}
	p.realPool = &candidate

	ctx.Log().Warn("🟡 gas pool changed", "pool", candidate.ToRaw())
	return nil
}

func (p *GasProxy) depositFee(ctx *MessageContext, env Envelope, body domain.DepositFee) error {
	if p.state != walletConfigReady {
		return domain.ErrProxyNotConfigured
	}
	expected, err := domain.WalletAddress(p.master, p.walletCode, body.Owner)
	if err != nil {
		return err
	}
	if env.Src != expected {
		return errorsmod.Wrapf(domain.ErrUnauthorized, "fee deposit from %v", env.Src.ToRaw())
	}
	if err := checkFees(body.TreasuryFee, body.GasPoolFee); err != nil {
		return err
	}
	if p.realPool == nil {
		return domain.ErrPoolNotSet
	}

	ctx.Send(*p.realPool, domain.RelayFee{
		QueryID:     body.QueryID,
		Origin:      env.Src,
		Owner:       body.Owner,
		TreasuryFee: body.TreasuryFee,
		GasPoolFee:  body.GasPoolFee,
	}, WithBounce())
	return nil
}

func (p *GasProxy) topUpReserve(ctx *MessageContext, env Envelope, body domain.TopUpReserve) error {
	if p.realPool == nil {
		return domain.ErrPoolNotSet
	}
	ctx.Send(*p.realPool, body, WithValue(env.Value), WithBounce())
	return nil
}

// A relay the pool refused goes back to the token account that paid it.
func (p *GasProxy) onBounce(ctx *MessageContext, env Envelope) error {
	relay, ok := env.Body.(domain.RelayFee)
	if !ok {
		return nil
	}
	ctx.Return(relay.Origin, domain.DepositFee{
		QueryID:     relay.QueryID,
		Owner:       relay.Owner,
		TreasuryFee: relay.TreasuryFee,
		GasPoolFee:  relay.GasPoolFee,
	}, env.Value)
	return nil
}

func checkFees(treasuryFee, gasPoolFee tlb.Grams) error {
	if treasuryFee != domain.TaxAmount {
		return errorsmod.Wrapf(domain.ErrInvalidAmount, "treasury fee %v", treasuryFee)
	}
	if gasPoolFee != domain.TaxHalf {
		return errorsmod.Wrapf(domain.ErrInvalidAmount, "gas pool fee %v", gasPoolFee)
	}
	return nil
}
