package domain

import (
	"time"

	"github.com/tonkeeper/tongo/tlb"
)

const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
	ResultBounced  = "bounced"
	ResultDropped  = "dropped"
)

// JournalEntry records the outcome of one handled message.
type JournalEntry struct {
	Contract  string    `json:"contract"`
	Src       string    `json:"src"`
	Dest      string    `json:"dest"`
	Opcode    uint32    `json:"opcode"`
	QueryId   uint64    `json:"query_id"`
	Value     tlb.Grams `json:"value"`
	Bounced   bool      `json:"bounced"`
	Result    string    `json:"result"`
	ExitCode  uint32    `json:"exit_code"`
	Error     string    `json:"error,omitempty"`
	HandledAt time.Time `json:"handled_at"`
}

// PoolSnapshot is the monitor's periodic view of a gas pool.
type PoolSnapshot struct {
	RunId          string       `json:"run_id"`
	ReadAt         time.Time    `json:"read_at"`
	Network        string       `json:"network"`
	Address        string       `json:"address"`
	Admin          string       `json:"admin"`
	Proxy          string       `json:"proxy"`
	Treasury       string       `json:"treasury"`
	PriceTonPerDom string       `json:"price_ton_per_dom"`
	Balances       PoolBalances `json:"balances"`
	Raw            PoolRaw      `json:"raw"`
	Volumes        VolumeDelta  `json:"volumes"`

	MarketMaker *MarketMakerSnapshot `json:"market_maker,omitempty"`
}

type PoolBalances struct {
	Dom          string `json:"dom"`
	TonReserve   string `json:"ton_reserve"`
	TonAvailable string `json:"ton_available"`
}

type PoolRaw struct {
	DomBalance   tlb.Grams `json:"dom_balance"`
	TonReserve   tlb.Grams `json:"ton_reserve"`
	AvailableTon tlb.Grams `json:"available_ton"`
}

type VolumeDelta struct {
	DomDelta string `json:"dom_delta"`
	TonDelta string `json:"ton_delta"`
	// Nil on the first reading.
	Interval *time.Duration `json:"interval"`
}

// MarketMakerSnapshot is read next to the pool when a market maker is
// configured. Its TON balance is the contract's own native balance.
type MarketMakerSnapshot struct {
	ReadAt         time.Time           `json:"read_at"`
	Address        string              `json:"address"`
	Owner          string              `json:"owner"`
	Wallet         string              `json:"wallet"`
	WalletGasPool  string              `json:"wallet_gas_pool"`
	WhitelistCount uint64              `json:"whitelist_count"`
	Balances       MarketMakerBalances `json:"balances"`
	Raw            MarketMakerRaw      `json:"raw"`
	Volumes        VolumeDelta         `json:"volumes"`
}

type MarketMakerBalances struct {
	Dom string `json:"dom"`
	Ton string `json:"ton"`
}

type MarketMakerRaw struct {
	DomBalance tlb.Grams `json:"dom_balance"`
	TonBalance tlb.Grams `json:"ton_balance"`
}
