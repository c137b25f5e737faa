package usecase

import (
	"dominum/domain"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/tonkeeper/tongo"
)

// timelock is a two-phase address change that can be confirmed
// domain.TimelockPeriod after the request. The deadline is checked against
// the message time on confirmation; nothing is scheduled.
type timelock struct {
	pending *domain.PendingChange
}

func (t *timelock) request(candidate tongo.AccountID, now time.Time) error {
	if t.pending != nil {
		return errorsmod.Wrapf(domain.ErrPendingChangeExists, "candidate %v requested at %v",
			t.pending.Candidate.ToRaw(), t.pending.RequestedAt.UTC())
	}
	t.pending = &domain.PendingChange{Candidate: candidate, RequestedAt: now}
	return nil
}

func (t *timelock) confirm(now time.Time) (tongo.AccountID, error) {
	if t.pending == nil {
		return tongo.AccountID{}, domain.ErrNoPendingChange
	}
	deadline := t.deadline()
	if now.Before(deadline) {
		return tongo.AccountID{}, errorsmod.Wrapf(domain.ErrTimelockActive, "%v left", deadline.Sub(now))
	}
	candidate := t.pending.Candidate
	t.pending = nil
	return candidate, nil
}

func (t *timelock) deadline() time.Time {
	return t.pending.Deadline(domain.TimelockPeriod)
}

func (t *timelock) snapshot() *domain.PendingChange {
	if t.pending == nil {
		return nil
	}
	p := *t.pending
	return &p
}
