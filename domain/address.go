package domain

import (
	"crypto/sha256"
	"fmt"

	"github.com/tonkeeper/tongo"
	"github.com/tonkeeper/tongo/boc"
	"github.com/tonkeeper/tongo/tlb"
)

const (
	AddrFormatRaw          = "raw"
	AddrFormatBouncable    = "bouncable"
	AddrFormatNonBouncable = "non-bouncable"
)

// AddressFromSeed returns a stable basechain address for a label. It is used
// for contracts and actors created in-process, where no state init exists.
func AddressFromSeed(seed string) tongo.AccountID {
	sum := sha256.Sum256([]byte(seed))
	id := tongo.AccountID{Workchain: 0}
	copy(id.Address[:], sum[:])
	return id
}

// WalletAddress derives the token account of an owner. The derivation only
// depends on the issuer, the wallet code and the owner, so every party that
// knows the first two can compute it.
func WalletAddress(issuer tongo.AccountID, walletCode []byte, owner tongo.AccountID) (tongo.AccountID, error) {
	codeHash := sha256.Sum256(walletCode)

	cell := boc.NewCell()
	if err := cell.WriteBytes(codeHash[:]); err != nil {
		return tongo.AccountID{}, fmt.Errorf("writing code hash: %w", err)
	}
	if err := tlb.Marshal(cell, issuer.ToMsgAddress()); err != nil {
		return tongo.AccountID{}, fmt.Errorf("writing issuer address: %w", err)
	}
	if err := tlb.Marshal(cell, owner.ToMsgAddress()); err != nil {
		return tongo.AccountID{}, fmt.Errorf("writing owner address: %w", err)
	}

	hash, err := cell.Hash()
	if err != nil {
		return tongo.AccountID{}, fmt.Errorf("hashing wallet state: %w", err)
	}

	id := tongo.AccountID{Workchain: 0}
	copy(id.Address[:], hash)
	return id, nil
}

func MsgAddress(id *tongo.AccountID) tlb.MsgAddress {
	if id == nil {
		return tlb.MsgAddress{SumType: "AddrNone"}
	}
	return id.ToMsgAddress()
}

func FormatAddress(id *tongo.AccountID, format string) string {
	if id == nil {
		return "<none>"
	}
	switch format {
	case AddrFormatBouncable:
		return id.ToHuman(true, IsTestNet())
	case AddrFormatNonBouncable:
		return id.ToHuman(false, IsTestNet())
	default:
		return id.ToRaw()
	}
}

// WalletTemplate carries everything a token account needs to know at
// creation. It is identical for every holder of the same issuer.
type WalletTemplate struct {
	Issuer   tongo.AccountID
	GasProxy tongo.AccountID
	Treasury tongo.AccountID
	Code     []byte
}

func (t *WalletTemplate) AddressOf(owner tongo.AccountID) (tongo.AccountID, error) {
	return WalletAddress(t.Issuer, t.Code, owner)
}
