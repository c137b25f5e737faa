package usecase

import (
	"dominum/domain"

	errorsmod "cosmossdk.io/errors"
	"github.com/tonkeeper/tongo"
	"github.com/tonkeeper/tongo/tlb"
)

const KindJettonWallet = "jetton_wallet"

// JettonWallet is the per-owner balance cell of the fungible asset. Every
// owner-initiated transfer pays TaxAmount to the treasury and TaxHalf to the
// gas proxy, whatever the transfer carries.
type JettonWallet struct {
	address  tongo.AccountID
	owner    tongo.AccountID
	template *domain.WalletTemplate
	balance  tlb.Grams
}

func NewJettonWallet(template *domain.WalletTemplate, owner tongo.AccountID) (*JettonWallet, error) {
	address, err := template.AddressOf(owner)
	if err != nil {
		return nil, err
	}
	return &JettonWallet{
		address:  address,
		owner:    owner,
		template: template,
	}, nil
}

func (w *JettonWallet) Address() tongo.AccountID {
	return w.address
}

func (w *JettonWallet) Kind() string {
	return KindJettonWallet
}

func (w *JettonWallet) Data() any {
	return domain.JettonWalletData{
		Address:  w.address,
		Balance:  w.balance,
		Owner:    w.owner,
		Issuer:   w.template.Issuer,
		GasProxy: w.template.GasProxy,
	}
}

func (w *JettonWallet) Receive(ctx *MessageContext, env Envelope) error {
	if env.Bounced {
		return w.onBounce(ctx, env)
	}

	switch body := env.Body.(type) {
	case domain.Transfer:
		return w.transfer(ctx, env, body)
	case domain.InternalTransfer:
		return w.receiveTransfer(ctx, env, body)
	default:
		return errorsmod.Wrapf(domain.ErrUnknownOp, "op %#x", env.Body.Opcode())
	}
}

func (w *JettonWallet) transfer(ctx *MessageContext, env Envelope, body domain.Transfer) error {
	if env.Src != w.owner {
		return errorsmod.Wrapf(domain.ErrUnauthorized, "transfer from %v", env.Src.ToRaw())
	}
	if body.Amount == 0 {
		return domain.ErrInvalidTransferAmount
	}
	if body.Amount > w.balance {
		return errorsmod.Wrapf(domain.ErrInsufficientBalance, "balance %v, requested %v", w.balance, body.Amount)
	}
	if body.Amount < domain.TaxTotal {
		return errorsmod.Wrapf(domain.ErrAmountBelowTax, "amount %v, tax %v", body.Amount, domain.TaxTotal)
	}

	recipient, err := NewJettonWallet(w.template, body.Destination)
	if err != nil {
		return err
	}

	// Fees come from the protocol constants only.
	treasuryFee := domain.TaxAmount
	gasPoolFee := domain.TaxHalf
	net := body.Amount - treasuryFee - gasPoolFee

	w.balance -= body.Amount

	ctx.Send(recipient.Address(), domain.InternalTransfer{
		QueryID:        body.QueryID,
		Amount:         net,
		From:           w.owner,
		To:             body.Destination,
		ForwardPayload: body.ForwardPayload,
	}, WithBounce(), WithInit(recipient))

	ctx.Send(w.template.Treasury, domain.TaxPayment{
		QueryID: body.QueryID,
		Owner:   w.owner,
		Amount:  treasuryFee,
	})

	ctx.Send(w.template.GasProxy, domain.DepositFee{
		QueryID:     body.QueryID,
		Owner:       w.owner,
		TreasuryFee: treasuryFee,
		GasPoolFee:  gasPoolFee,
	}, WithBounce())

	ctx.Log().Debug("transfer sent",
		"owner", w.owner.ToRaw(),
		"to", body.Destination.ToRaw(),
		"amount", body.Amount,
		"net", net)
	return nil
}

func (w *JettonWallet) receiveTransfer(ctx *MessageContext, env Envelope, body domain.InternalTransfer) error {
	if env.Src != w.template.Issuer {
		expected, err := w.template.AddressOf(body.From)
		if err != nil {
			return err
		}
		if env.Src != expected {
			return errorsmod.Wrapf(domain.ErrUnauthorized, "internal transfer from %v", env.Src.ToRaw())
		}
	}

	w.balance += body.Amount

	// An owner that rejects the notification gets the value sent back.
	ctx.Send(w.owner, domain.TransferNotification{
		QueryID:        body.QueryID,
		Amount:         body.Amount,
		Sender:         body.From,
		ForwardPayload: body.ForwardPayload,
	}, WithBounce())
	return nil
}

// A bounced message returns value that already left the balance. Only the
// party the message was addressed to can bounce it.
func (w *JettonWallet) onBounce(ctx *MessageContext, env Envelope) error {
	switch body := env.Body.(type) {
	case domain.InternalTransfer:
		recipient, err := w.template.AddressOf(body.To)
		if err != nil {
			return err
		}
		if body.From != w.owner || env.Src != recipient {
			return errorsmod.Wrapf(domain.ErrUnauthorized, "bounced transfer from %v", env.Src.ToRaw())
		}
		w.balance += body.Amount
	case domain.DepositFee:
		if body.Owner != w.owner || env.Src != w.template.GasProxy {
			return errorsmod.Wrapf(domain.ErrUnauthorized, "bounced fee deposit from %v", env.Src.ToRaw())
		}
		w.balance += body.GasPoolFee
	case domain.TransferNotification:
		return w.refund(ctx, env, body)
	default:
		return nil
	}
	ctx.Log().Info("🟡 bounced value restored",
		"wallet", w.address.ToRaw(),
		"op", domain.OpName(env.Body.Opcode()))
	return nil
}

// refund hands a notified amount the owner refused back to where it came
// from: the sender's token account, or the issuer for a mint. It travels as
// a returned internal transfer, so no tax is charged twice.
func (w *JettonWallet) refund(ctx *MessageContext, env Envelope, body domain.TransferNotification) error {
	if env.Src != w.owner {
		return errorsmod.Wrapf(domain.ErrUnauthorized, "bounced notification from %v", env.Src.ToRaw())
	}
	if body.Amount > w.balance {
		return errorsmod.Wrapf(domain.ErrInsufficientBalance, "balance %v, refund %v", w.balance, body.Amount)
	}

	origin := w.template.Issuer
	if body.Sender != w.template.Issuer {
		var err error
		if origin, err = w.template.AddressOf(body.Sender); err != nil {
			return err
		}
	}

	w.balance -= body.Amount
	ctx.Return(origin, domain.InternalTransfer{
		QueryID:        body.QueryID,
		Amount:         body.Amount,
		From:           body.Sender,
		To:             w.owner,
		ForwardPayload: body.ForwardPayload,
	}, env.Value)

	ctx.Log().Info("🟡 refused transfer refunded",
		"wallet", w.address.ToRaw(),
		"to", origin.ToRaw(),
		"amount", body.Amount)
	return nil
}
