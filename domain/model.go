package domain

import (
	"fmt"

	"github.com/tonkeeper/tongo/boc"
	"github.com/tonkeeper/tongo/tlb"
)

// TL-B layouts of the administrative bodies, as the contracts parse them.

type TlbMintMessage struct {
	Opcode  tlb.Uint32
	QueryId tlb.Uint64
	Amount  tlb.Grams
}

type TlbSetGiverWalletMessage struct {
	Opcode  tlb.Uint32
	QueryId tlb.Uint64
	Giver   tlb.MsgAddress
	Wallet  tlb.MsgAddress
}

// The wallet code is stored as a reference after the master address.
type TlbSetProxyWalletConfigMessage struct {
	Opcode  tlb.Uint32
	QueryId tlb.Uint64
	Master  tlb.MsgAddress
}

type TlbRequestChangeMessage struct {
	Opcode    tlb.Uint32
	QueryId   tlb.Uint64
	Candidate tlb.MsgAddress
}

type TlbQueryMessage struct {
	Opcode  tlb.Uint32
	QueryId tlb.Uint64
}

type TlbTransferMessage struct {
	Opcode      tlb.Uint32
	QueryId     tlb.Uint64
	Amount      tlb.Grams
	Destination tlb.MsgAddress
}

// EncodeBody serializes the bodies an operator can submit to live contracts.
func EncodeBody(body Body) (*boc.Cell, error) {
	cell := boc.NewCell()

	var value any
	var refs []*boc.Cell

	op := tlb.Uint32(body.Opcode())
	qid := tlb.Uint64(body.QueryId())

	switch b := body.(type) {
	case Mint:
		value = TlbMintMessage{Opcode: op, QueryId: qid, Amount: b.Amount}
	case SetGiverWallet:
		value = TlbSetGiverWalletMessage{Opcode: op, QueryId: qid, Giver: MsgAddress(&b.Giver), Wallet: MsgAddress(&b.Wallet)}
	case SetProxyWalletConfig:
		value = TlbSetProxyWalletConfigMessage{Opcode: op, QueryId: qid, Master: MsgAddress(&b.Master)}
		cells, err := boc.DeserializeBoc(b.WalletCode)
		if err != nil || len(cells) == 0 {
			return nil, fmt.Errorf("wallet code is not a valid boc: %v", err)
		}
		refs = append(refs, cells[0])
	case RequestChangePool:
		value = TlbRequestChangeMessage{Opcode: op, QueryId: qid, Candidate: MsgAddress(&b.Candidate)}
	case RequestChangeTreasury:
		value = TlbRequestChangeMessage{Opcode: op, QueryId: qid, Candidate: MsgAddress(&b.Candidate)}
	case ConfirmChangePool, ConfirmChangeTreasury, TopUpReserve:
		value = TlbQueryMessage{Opcode: op, QueryId: qid}
	case Transfer:
		value = TlbTransferMessage{Opcode: op, QueryId: qid, Amount: b.Amount, Destination: MsgAddress(&b.Destination)}
	default:
		return nil, fmt.Errorf("op %#x (%v) is not submittable", body.Opcode(), OpName(body.Opcode()))
	}

	if err := tlb.Marshal(cell, value); err != nil {
		return nil, fmt.Errorf("encoding %v: %w", OpName(body.Opcode()), err)
	}
	for _, ref := range refs {
		if err := cell.AddRef(ref); err != nil {
			return nil, fmt.Errorf("adding reference: %w", err)
		}
	}

	return cell, nil
}
