package domain

import (
	"github.com/tonkeeper/tongo"
	"github.com/tonkeeper/tongo/tlb"
)

type HolderBalance struct {
	Label   string          `json:"label,omitempty"`
	Owner   tongo.AccountID `json:"owner"`
	Wallet  tongo.AccountID `json:"wallet"`
	Balance tlb.Grams       `json:"balance"`
}

// SettlementReport is the ledger of a settlement network at a quiescent
// point.
type SettlementReport struct {
	TotalSupply  tlb.Grams       `json:"total_supply"`
	Holders      []HolderBalance `json:"holders"`
	HoldersTotal tlb.Grams       `json:"holders_total"`
	Treasury     tlb.Grams       `json:"treasury"`
	GasPoolDom   tlb.Grams       `json:"gas_pool_dom"`
	GasPoolTon   tlb.Grams       `json:"gas_pool_ton"`
}

// Accounted is everything the supply can be found in.
func (r SettlementReport) Accounted() tlb.Grams {
	return r.HoldersTotal + r.Treasury + r.GasPoolDom
}

func (r SettlementReport) Conserved() bool {
	return r.Accounted() == r.TotalSupply
}
