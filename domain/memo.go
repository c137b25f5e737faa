package domain

import (
	"encoding/json"
	"time"

	"github.com/tonkeeper/tongo/tlb"
)

type Memorable interface {
	ToJson() string
	FromJson(jstr string) error
}

type Memo struct {
	Key  string `json:"key"`
	Memo string `json:"memo"`
}

// PoolReadingMemo keeps the previous gas pool reading so that deltas survive
// a monitor restart.
type PoolReadingMemo struct {
	DomBalance   tlb.Grams `json:"dom_balance"`
	AvailableTon tlb.Grams `json:"available_ton"`
	ReadAt       time.Time `json:"read_at"`
}

func (obj *PoolReadingMemo) ToJson() string {
	jstr, err := json.Marshal(obj)
	if err != nil {
		return err.Error()
	}
	return string(jstr)
}

func (obj *PoolReadingMemo) FromJson(jstr string) error {
	err := json.Unmarshal([]byte(jstr), obj)
	return err
}

// MarketMakerReadingMemo is the market maker counterpart of PoolReadingMemo.
type MarketMakerReadingMemo struct {
	DomBalance tlb.Grams `json:"dom_balance"`
	TonBalance tlb.Grams `json:"ton_balance"`
	ReadAt     time.Time `json:"read_at"`
}

func (obj *MarketMakerReadingMemo) ToJson() string {
	jstr, err := json.Marshal(obj)
	if err != nil {
		return err.Error()
	}
	return string(jstr)
}

func (obj *MarketMakerReadingMemo) FromJson(jstr string) error {
	return json.Unmarshal([]byte(jstr), obj)
}
