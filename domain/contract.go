package domain

import (
	"time"

	"github.com/tonkeeper/tongo"
	"github.com/tonkeeper/tongo/tlb"
)

// Read-only views returned by the contracts' get methods.

type PendingChange struct {
	Candidate   tongo.AccountID `json:"candidate"`
	RequestedAt time.Time       `json:"requested_at"`
}

func (p PendingChange) Deadline(period time.Duration) time.Time {
	return p.RequestedAt.Add(period)
}

type IssuerData struct {
	Address     tongo.AccountID             `json:"address"`
	TotalSupply tlb.Grams                   `json:"total_supply"`
	Minter      tongo.AccountID             `json:"minter"`
	GasProxy    tongo.AccountID             `json:"gas_proxy"`
	Givers      [GiverCount]tongo.AccountID `json:"givers"`
	Content     Content                     `json:"content"`
}

type Content struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

type GiverData struct {
	Address      tongo.AccountID  `json:"address"`
	Manager      tongo.AccountID  `json:"manager"`
	Wallet       *tongo.AccountID `json:"wallet"`
	FirstTarget  *tongo.AccountID `json:"first_target"`
	SecondTarget *tongo.AccountID `json:"second_target"`
}

type GiverManagerData struct {
	Address tongo.AccountID   `json:"address"`
	Owner   tongo.AccountID   `json:"owner"`
	Givers  []tongo.AccountID `json:"givers"`
}

const (
	PoolStateUnset     = "unset"
	PoolStatePending   = "pending"
	PoolStateConfirmed = "confirmed"
)

type GasProxyData struct {
	Address           tongo.AccountID  `json:"address"`
	Admin             tongo.AccountID  `json:"admin"`
	RealPool          *tongo.AccountID `json:"real_pool"`
	WalletConfigReady bool             `json:"wallet_config_ready"`
	Master            *tongo.AccountID `json:"master"`
	Pending           *PendingChange   `json:"pending"`
}

func (d GasProxyData) HasPending() bool {
	return d.Pending != nil
}

func (d GasProxyData) PoolState() string {
	switch {
	case d.Pending != nil:
		return PoolStatePending
	case d.RealPool != nil:
		return PoolStateConfirmed
	default:
		return PoolStateUnset
	}
}

type GasPoolData struct {
	Address         tongo.AccountID `json:"address"`
	Admin           tongo.AccountID `json:"admin"`
	Proxy           tongo.AccountID `json:"proxy"`
	Treasury        tongo.AccountID `json:"treasury"`
	DomBalance      tlb.Grams       `json:"dom_balance"`
	TonReserve      tlb.Grams       `json:"ton_reserve"`
	AvailableTon    tlb.Grams       `json:"available_ton"`
	PendingTreasury *PendingChange  `json:"pending_treasury"`
}

// MarketMakerData combines getMarketData of a market maker with
// getWalletData of its token account.
type MarketMakerData struct {
	Address        tongo.AccountID `json:"address"`
	Owner          tongo.AccountID `json:"owner"`
	Wallet         tongo.AccountID `json:"wallet"`
	WalletGasPool  tongo.AccountID `json:"wallet_gas_pool"`
	WhitelistCount uint64          `json:"whitelist_count"`
	DomBalance     tlb.Grams       `json:"dom_balance"`
	TonBalance     tlb.Grams       `json:"ton_balance"`
}

type TreasuryData struct {
	Address tongo.AccountID `json:"address"`
	Balance tlb.Grams       `json:"balance"`
}
