package domain

import (
	"github.com/tonkeeper/tongo"
	"github.com/tonkeeper/tongo/tlb"
)

type JettonWalletData struct {
	Address  tongo.AccountID `json:"address"`
	Balance  tlb.Grams       `json:"balance"`
	Owner    tongo.AccountID `json:"owner"`
	Issuer   tongo.AccountID `json:"issuer"`
	GasProxy tongo.AccountID `json:"gas_proxy"`
}
