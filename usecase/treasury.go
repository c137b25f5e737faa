package usecase

import (
	"dominum/domain"

	errorsmod "cosmossdk.io/errors"
	"github.com/tonkeeper/tongo"
	"github.com/tonkeeper/tongo/tlb"
)

const KindTreasury = "treasury"

// Treasury is the terminal sink of the treasury half of the transfer tax. It
// accepts a payment only from the token account of the owner it names.
type Treasury struct {
	template *domain.WalletTemplate
	balance  tlb.Grams
}

func NewTreasury(template *domain.WalletTemplate) *Treasury {
	return &Treasury{template: template}
}

func (t *Treasury) Address() tongo.AccountID {
	return t.template.Treasury
}

func (t *Treasury) Kind() string {
	return KindTreasury
}

func (t *Treasury) Data() any {
	return domain.TreasuryData{
		Address: t.template.Treasury,
		Balance: t.balance,
	}
}

func (t *Treasury) Receive(ctx *MessageContext, env Envelope) error {
	if env.Bounced {
		return nil
	}
	body, ok := env.Body.(domain.TaxPayment)
	if !ok {
		return errorsmod.Wrapf(domain.ErrUnknownOp, "op %#x", env.Body.Opcode())
	}
	expected, err := t.template.AddressOf(body.Owner)
	if err != nil {
		return err
	}
	if env.Src != expected {
		return errorsmod.Wrapf(domain.ErrUnauthorized, "tax payment from %v", env.Src.ToRaw())
	}
	if body.Amount != domain.TaxAmount {
		return errorsmod.Wrapf(domain.ErrInvalidAmount, "tax payment %v", body.Amount)
	}
	t.balance += body.Amount
	return nil
}
