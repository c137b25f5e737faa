package usecase

import (
	"context"
	"dominum/domain"
	"fmt"

	"github.com/tonkeeper/tongo"
	"github.com/tonkeeper/tongo/tlb"
)

// StateInteractor exposes typed get methods of contracts running on a
// Network.
type StateInteractor struct {
	network *Network
}

func NewStateInteractor(network *Network) *StateInteractor {
	return &StateInteractor{network: network}
}

func getData[T any](ctx context.Context, network *Network, addr tongo.AccountID) (T, error) {
	var zero T
	data, err := network.Get(ctx, addr)
	if err != nil {
		return zero, err
	}
	typed, ok := data.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %T at %v", ErrorInvalidStateShape, data, addr.ToRaw())
	}
	return typed, nil
}

func (interactor *StateInteractor) Wallet(ctx context.Context, addr tongo.AccountID) (domain.JettonWalletData, error) {
	return getData[domain.JettonWalletData](ctx, interactor.network, addr)
}

// WalletOf returns the token account of owner, or a zero balance view when
// the account has not been deployed yet.
func (interactor *StateInteractor) WalletOf(ctx context.Context, template *domain.WalletTemplate, owner tongo.AccountID) (domain.JettonWalletData, error) {
	addr, err := template.AddressOf(owner)
	if err != nil {
		return domain.JettonWalletData{}, err
	}
	if !interactor.network.IsDeployed(addr) {
		return domain.JettonWalletData{
			Address:  addr,
			Owner:    owner,
			Issuer:   template.Issuer,
			GasProxy: template.GasProxy,
		}, nil
	}
	return interactor.Wallet(ctx, addr)
}

func (interactor *StateInteractor) Issuer(ctx context.Context, addr tongo.AccountID) (domain.IssuerData, error) {
	return getData[domain.IssuerData](ctx, interactor.network, addr)
}

func (interactor *StateInteractor) TotalSupply(ctx context.Context, addr tongo.AccountID) (tlb.Grams, error) {
	data, err := interactor.Issuer(ctx, addr)
	if err != nil {
		return 0, err
	}
	return data.TotalSupply, nil
}

func (interactor *StateInteractor) Giver(ctx context.Context, addr tongo.AccountID) (domain.GiverData, error) {
	return getData[domain.GiverData](ctx, interactor.network, addr)
}

func (interactor *StateInteractor) GiverManager(ctx context.Context, addr tongo.AccountID) (domain.GiverManagerData, error) {
	return getData[domain.GiverManagerData](ctx, interactor.network, addr)
}

func (interactor *StateInteractor) GasProxy(ctx context.Context, addr tongo.AccountID) (domain.GasProxyData, error) {
	return getData[domain.GasProxyData](ctx, interactor.network, addr)
}

func (interactor *StateInteractor) GasPool(ctx context.Context, addr tongo.AccountID) (domain.GasPoolData, error) {
	return getData[domain.GasPoolData](ctx, interactor.network, addr)
}

func (interactor *StateInteractor) Treasury(ctx context.Context, addr tongo.AccountID) (domain.TreasuryData, error) {
	return getData[domain.TreasuryData](ctx, interactor.network, addr)
}
