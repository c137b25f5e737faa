package usecase

import (
	"context"
	"dominum/domain"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/tonkeeper/tongo"
	"github.com/tonkeeper/tongo/tlb"
)

// ChainClient is the part of liteapi.Client used to read contracts.
type ChainClient interface {
	RunSmcMethod(ctx context.Context, accountID tongo.AccountID, method string, params tlb.VmStack) (uint32, tlb.VmStack, error)
	GetAccountState(ctx context.Context, accountID tongo.AccountID) (tlb.ShardAccount, error)
}

// ContractInteractor reads settlement contracts deployed on a live chain.
type ContractInteractor struct {
	client ChainClient
	log    *slog.Logger
}

func NewContractInteractor(client ChainClient, log *slog.Logger) *ContractInteractor {
	return &ContractInteractor{
		client: client,
		log:    log,
	}
}

// GetPoolData runs getPoolData: admin, proxy, treasury, domBalance,
// tonReserve, availableTon.
func (interactor *ContractInteractor) GetPoolData(ctx context.Context, pool tongo.AccountID) (*domain.GasPoolData, error) {
	stack, err := interactor.run(ctx, pool, "getPoolData", 6)
	if err != nil {
		return nil, err
	}

	result := &domain.GasPoolData{Address: pool}

	for i, target := range []*tongo.AccountID{&result.Admin, &result.Proxy, &result.Treasury} {
		addr, err := readStackAddress(stack[i])
		if err != nil {
			return nil, fmt.Errorf("getPoolData item %v: %w", i, err)
		}
		*target = addr
	}

	for i, target := range []*tlb.Grams{&result.DomBalance, &result.TonReserve, &result.AvailableTon} {
		value, err := readStackUint(stack[3+i])
		if err != nil {
			return nil, fmt.Errorf("getPoolData item %v: %w", 3+i, err)
		}
		*target = tlb.Grams(value)
	}

	return result, nil
}

// GetMarketData runs getMarketData of a market maker: owner, token account,
// whitelist size.
func (interactor *ContractInteractor) GetMarketData(ctx context.Context, marketMaker tongo.AccountID) (*domain.MarketMakerData, error) {
	stack, err := interactor.run(ctx, marketMaker, "getMarketData", 3)
	if err != nil {
		return nil, err
	}

	result := &domain.MarketMakerData{Address: marketMaker}
	if result.Owner, err = readStackAddress(stack[0]); err != nil {
		return nil, fmt.Errorf("getMarketData owner: %w", err)
	}
	if result.Wallet, err = readStackAddress(stack[1]); err != nil {
		return nil, fmt.Errorf("getMarketData wallet: %w", err)
	}
	if result.WhitelistCount, err = readStackUint(stack[2]); err != nil {
		return nil, fmt.Errorf("getMarketData whitelist count: %w", err)
	}
	return result, nil
}

// GetWalletData runs getWalletData of a token account: balance, owner,
// issuer, gas pool.
func (interactor *ContractInteractor) GetWalletData(ctx context.Context, wallet tongo.AccountID) (*domain.JettonWalletData, error) {
	stack, err := interactor.run(ctx, wallet, "getWalletData", 4)
	if err != nil {
		return nil, err
	}

	result := &domain.JettonWalletData{Address: wallet}
	balance, err := readStackUint(stack[0])
	if err != nil {
		return nil, fmt.Errorf("getWalletData balance: %w", err)
	}
	result.Balance = tlb.Grams(balance)

	for i, target := range []*tongo.AccountID{&result.Owner, &result.Issuer, &result.GasProxy} {
		if *target, err = readStackAddress(stack[1+i]); err != nil {
			return nil, fmt.Errorf("getWalletData item %v: %w", 1+i, err)
		}
	}
	return result, nil
}

// GetBalance returns the native balance of an account; zero when the account
// does not exist.
func (interactor *ContractInteractor) GetBalance(ctx context.Context, account tongo.AccountID) (tlb.Grams, error) {
	state, err := interactor.client.GetAccountState(ctx, account)
	if err != nil {
		interactor.log.Error("🔴 reading account state", "account", account.ToRaw(), "error", err)
		return 0, fmt.Errorf("account state: %w", err)
	}
	if state.Account.SumType != "Account" {
		return 0, nil
	}
	return state.Account.Account.Storage.Balance.Grams, nil
}

func (interactor *ContractInteractor) run(ctx context.Context, account tongo.AccountID, method string, size int) (tlb.VmStack, error) {
	code, stack, err := interactor.client.RunSmcMethod(ctx, account, method, tlb.VmStack{})
	if err != nil {
		interactor.log.Error("🔴 running get method", "method", method, "code", code, "error", err)
		return nil, fmt.Errorf("%v: %w", method, err)
	}
	if code != 0 && code != 1 {
		return nil, fmt.Errorf("%v exit code %v: %w", method, code, ErrorInvalidStateShape)
	}
	if len(stack) != size {
		return nil, fmt.Errorf("%v returned %v items: %w", method, len(stack), ErrorInvalidStateShape)
	}
	return stack, nil
}

func readStackUint(entry tlb.VmStackValue) (uint64, error) {
	switch entry.SumType {
	case "VmStkTinyInt":
		if entry.VmStkTinyInt < 0 {
			return 0, fmt.Errorf("negative value: %w", ErrorInvalidStateShape)
		}
		return uint64(entry.VmStkTinyInt), nil
	case "VmStkInt":
		value := (*big.Int)(&entry.VmStkInt)
		if !value.IsUint64() {
			return 0, fmt.Errorf("value out of range: %w", ErrorInvalidStateShape)
		}
		return value.Uint64(), nil
	default:
		return 0, fmt.Errorf("%v is not an integer: %w", entry.SumType, ErrorInvalidStateShape)
	}
}

func readStackAddress(entry tlb.VmStackValue) (tongo.AccountID, error) {
	if entry.SumType != "VmStkSlice" {
		return tongo.AccountID{}, ErrorInvalidStateShape
	}
	var msgAddress tlb.MsgAddress
	if err := entry.VmStkSlice.UnmarshalToTlbStruct(&msgAddress); err != nil {
		return tongo.AccountID{}, err
	}
	id, err := tongo.AccountIDFromTlb(msgAddress)
	if err != nil {
		return tongo.AccountID{}, err
	}
	if id == nil {
		return tongo.AccountID{}, ErrorInvalidStateShape
	}
	return *id, nil
}
