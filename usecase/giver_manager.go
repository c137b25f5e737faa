package usecase

import (
	"dominum/domain"

	errorsmod "cosmossdk.io/errors"
	"github.com/tonkeeper/tongo"
)

const KindGiverManager = "giver_manager"

// GiverManager points givers at their token accounts. It never holds funds.
type GiverManager struct {
	address tongo.AccountID
	owner   tongo.AccountID
	givers  map[tongo.AccountID]struct{}
	order   []tongo.AccountID
}

func NewGiverManager(address, owner tongo.AccountID, givers []tongo.AccountID) *GiverManager {
	m := &GiverManager{
		address: address,
		owner:   owner,
		givers:  make(map[tongo.AccountID]struct{}, len(givers)),
	}
	for _, giver := range givers {
		if _, exist := m.givers[giver]; exist {
			continue
		}
		m.givers[giver] = struct{}{}
		m.order = append(m.order, giver)
	}
	return m
}

func (m *GiverManager) Address() tongo.AccountID {
	return m.address
}

func (m *GiverManager) Kind() string {
	return KindGiverManager
}

func (m *GiverManager) Data() any {
	givers := make([]tongo.AccountID, len(m.order))
	copy(givers, m.order)
	return domain.GiverManagerData{
		Address: m.address,
		Owner:   m.owner,
		Givers:  givers,
	}
}

func (m *GiverManager) Receive(ctx *MessageContext, env Envelope) error {
	if env.Bounced {
		return nil
	}

	body, ok := env.Body.(domain.SetGiverWallet)
	if !ok {
		return errorsmod.Wrapf(domain.ErrUnknownOp, "op %#x", env.Body.Opcode())
	}
	if env.Src != m.owner {
		return errorsmod.Wrapf(domain.ErrUnauthorized, "set giver wallet from %v", env.Src.ToRaw())
	}
	if _, exist := m.givers[body.Giver]; !exist {
		return errorsmod.Wrapf(domain.ErrUnknownGiver, "giver %v", body.Giver.ToRaw())
	}

	ctx.Send(body.Giver, domain.SetWallet{
		QueryID: body.QueryID,
		Wallet:  body.Wallet,
	})
	return nil
}
