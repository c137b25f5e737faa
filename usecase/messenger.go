package usecase

import (
	"context"
	"dominum/domain"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/tonkeeper/tongo"
	"github.com/tonkeeper/tongo/tlb"
	tgwallet "github.com/tonkeeper/tongo/wallet"
)

var ErrorTimeOut = fmt.Errorf("timeout for new seqno")

const (
	seqnoTimeout      = 30 * time.Second
	seqnoPollInterval = 500 * time.Millisecond
)

// WalletSender is the operator wallet, satisfied by *tgwallet.Wallet.
type WalletSender interface {
	GetAddress() tongo.AccountID
	Send(ctx context.Context, messages ...tgwallet.Sendable) error
}

// SeqnoReader is the part of liteapi.Client used to follow the wallet.
type SeqnoReader interface {
	GetSeqno(ctx context.Context, account tongo.AccountID) (uint32, error)
}

// MessengerInteractor delivers one body at a time from the operator wallet
// and waits until the wallet seqno moves, so consecutive sends never reuse a
// seqno.
type MessengerInteractor struct {
	client   SeqnoReader
	operator WalletSender
	clock    clockwork.Clock
	log      *slog.Logger
}

func NewMessengerInteractor(client SeqnoReader, operator WalletSender, clock clockwork.Clock, log *slog.Logger) *MessengerInteractor {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MessengerInteractor{
		client:   client,
		operator: operator,
		clock:    clock,
		log:      log,
	}
}

func (interactor *MessengerInteractor) Operator() tongo.AccountID {
	return interactor.operator.GetAddress()
}

func (interactor *MessengerInteractor) Send(ctx context.Context, dest tongo.AccountID, body domain.Body, value tlb.Grams) error {
	cell, err := domain.EncodeBody(body)
	if err != nil {
		return err
	}

	operator := interactor.operator.GetAddress()
	seqno, err := interactor.client.GetSeqno(ctx, operator)
	if err != nil {
		return fmt.Errorf("getting operator seqno: %w", err)
	}

	msg := tgwallet.Message{
		Amount:  value,
		Address: dest,
		Body:    cell,
		Bounce:  true,
		Mode:    1, // pay transfer fees separately
	}
	if err := interactor.operator.Send(ctx, msg); err != nil {
		interactor.log.Error("🔴 sending message",
			"op", domain.OpName(body.Opcode()),
			"dest", domain.FormatAddress(&dest, domain.AddrFormatBouncable),
			"error", err)
		return err
	}

	if _, err := interactor.waitForNextSeqno(ctx, seqno); err != nil {
		return err
	}

	interactor.log.Info("🟢 message sent",
		"op", domain.OpName(body.Opcode()),
		"query_id", body.QueryId(),
		"dest", domain.FormatAddress(&dest, domain.AddrFormatBouncable))
	return nil
}

func (interactor *MessengerInteractor) waitForNextSeqno(ctx context.Context, seqno uint32) (uint32, error) {
	operator := interactor.operator.GetAddress()
	deadline := interactor.clock.After(seqnoTimeout)

	for {
		current, err := interactor.client.GetSeqno(ctx, operator)
		if err != nil {
			interactor.log.Warn("🟡 getting current operator seqno", "error", err)
		} else if current > seqno {
			return current, nil
		}

		select {
		case <-ctx.Done():
			return seqno, ctx.Err()
		case <-deadline:
			return seqno, ErrorTimeOut
		case <-interactor.clock.After(seqnoPollInterval):
		}
	}
}
