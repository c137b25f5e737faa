package usecase

import (
	"context"
	"dominum/domain"

	"github.com/jonboulle/clockwork"
	"github.com/tonkeeper/tongo"
	"github.com/tonkeeper/tongo/tlb"
)

// MessageSender delivers a body to a live contract.
type MessageSender interface {
	Send(ctx context.Context, dest tongo.AccountID, body domain.Body, value tlb.Grams) error
}

// AdminInteractor runs the administrative operations of a deployed
// settlement network from the operator wallet.
type AdminInteractor struct {
	sender MessageSender
	clock  clockwork.Clock
	value  tlb.Grams
}

func NewAdminInteractor(sender MessageSender, clock clockwork.Clock, attachedValue tlb.Grams) *AdminInteractor {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &AdminInteractor{
		sender: sender,
		clock:  clock,
		value:  attachedValue,
	}
}

func (interactor *AdminInteractor) queryId() uint64 {
	return uint64(interactor.clock.Now().Unix())
}

func (interactor *AdminInteractor) Mint(ctx context.Context, issuer tongo.AccountID, amount tlb.Grams) error {
	if amount == 0 {
		return domain.ErrInvalidTransferAmount
	}
	return interactor.sender.Send(ctx, issuer, domain.Mint{
		QueryID: interactor.queryId(),
		Amount:  amount,
	}, interactor.value)
}

func (interactor *AdminInteractor) SetGiverWallet(ctx context.Context, registry, giver, wallet tongo.AccountID) error {
	return interactor.sender.Send(ctx, registry, domain.SetGiverWallet{
		QueryID: interactor.queryId(),
		Giver:   giver,
		Wallet:  wallet,
	}, interactor.value)
}

func (interactor *AdminInteractor) SetWalletConfig(ctx context.Context, proxy, master tongo.AccountID, walletCode []byte) error {
	return interactor.sender.Send(ctx, proxy, domain.SetProxyWalletConfig{
		QueryID:    interactor.queryId(),
		Master:     master,
		WalletCode: walletCode,
	}, interactor.value)
}

func (interactor *AdminInteractor) RequestChangePool(ctx context.Context, proxy, candidate tongo.AccountID) error {
	return interactor.sender.Send(ctx, proxy, domain.RequestChangePool{
		QueryID:   interactor.queryId(),
		Candidate: candidate,
	}, interactor.value)
}

func (interactor *AdminInteractor) ConfirmChangePool(ctx context.Context, proxy tongo.AccountID) error {
	return interactor.sender.Send(ctx, proxy, domain.ConfirmChangePool{
		QueryID: interactor.queryId(),
	}, interactor.value)
}
