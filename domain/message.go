package domain

import (
	"github.com/tonkeeper/tongo"
	"github.com/tonkeeper/tongo/tlb"
)

const (
	OpTransfer             = uint32(0x0f8a7ea5)
	OpInternalTransfer     = uint32(0x178d4519)
	OpTransferNotification = uint32(0x7362d09c)

	OpMint           = uint32(0x15)
	OpSetGiverWallet = uint32(0x41)
	OpSetWallet      = uint32(0x42)

	OpRequestChangePool     = uint32(0xB0)
	OpConfirmChangePool     = uint32(0xB1)
	OpDepositFee            = uint32(0xB2)
	OpRelayFee              = uint32(0xB3)
	OpSetProxyWalletConfig  = uint32(0xB4)
	OpTaxPayment            = uint32(0xB5)
	OpRequestChangeTreasury = uint32(0xB6)
	OpConfirmChangeTreasury = uint32(0xB7)
	OpTopUpReserve          = uint32(0xB8)
)

var OpNames = map[uint32]string{
	OpTransfer:              "transfer",
	OpInternalTransfer:      "internal_transfer",
	OpTransferNotification:  "transfer_notification",
	OpMint:                  "mint",
	OpSetGiverWallet:        "set_giver_wallet",
	OpSetWallet:             "set_wallet",
	OpRequestChangePool:     "request_change_pool",
	OpConfirmChangePool:     "confirm_change_pool",
	OpDepositFee:            "deposit_fee",
	OpRelayFee:              "relay_fee",
	OpSetProxyWalletConfig:  "set_proxy_wallet_config",
	OpTaxPayment:            "tax_payment",
	OpRequestChangeTreasury: "request_change_treasury",
	OpConfirmChangeTreasury: "confirm_change_treasury",
	OpTopUpReserve:          "top_up_reserve",
}

func OpName(op uint32) string {
	if name, ok := OpNames[op]; ok {
		return name
	}
	return "unknown"
}

// Body is the decoded payload of an internal message.
type Body interface {
	Opcode() uint32
	QueryId() uint64
}

// Transfer is sent by an owner to its own token account.
type Transfer struct {
	QueryID     uint64
	Amount      tlb.Grams
	Destination tongo.AccountID
	// Carried to the recipient as is. It never influences the tax.
	ForwardPayload []byte
}

// InternalTransfer moves value between two token accounts. From and To are
// the owners of the sending and the receiving account.
type InternalTransfer struct {
	QueryID        uint64
	Amount         tlb.Grams
	From           tongo.AccountID
	To             tongo.AccountID
	ForwardPayload []byte
}

type TransferNotification struct {
	QueryID        uint64
	Amount         tlb.Grams
	Sender         tongo.AccountID
	ForwardPayload []byte
}

type Mint struct {
	QueryID uint64
	Amount  tlb.Grams
}

// SetGiverWallet asks the registry to point a giver at a token account.
type SetGiverWallet struct {
	QueryID uint64
	Giver   tongo.AccountID
	Wallet  tongo.AccountID
}

// SetWallet is pushed by the registry into a giver.
type SetWallet struct {
	QueryID uint64
	Wallet  tongo.AccountID
}

type SetProxyWalletConfig struct {
	QueryID    uint64
	Master     tongo.AccountID
	WalletCode []byte
}

type RequestChangePool struct {
	QueryID   uint64
	Candidate tongo.AccountID
}

type ConfirmChangePool struct {
	QueryID uint64
}

// DepositFee is sent by a token account to the gas proxy on every transfer.
type DepositFee struct {
	QueryID     uint64
	Owner       tongo.AccountID
	TreasuryFee tlb.Grams
	GasPoolFee  tlb.Grams
}

// RelayFee is the deposit as forwarded by the proxy to the active pool.
type RelayFee struct {
	QueryID     uint64
	Origin      tongo.AccountID
	Owner       tongo.AccountID
	TreasuryFee tlb.Grams
	GasPoolFee  tlb.Grams
}

// TaxPayment is sent by the token account of Owner to the treasury.
type TaxPayment struct {
	QueryID uint64
	Owner   tongo.AccountID
	Amount  tlb.Grams
}

type RequestChangeTreasury struct {
	QueryID   uint64
	Candidate tongo.AccountID
}

type ConfirmChangeTreasury struct {
	QueryID uint64
}

// TopUpReserve credits the attached native value to the pool reserve.
type TopUpReserve struct {
	QueryID uint64
}

func (Transfer) Opcode() uint32              { return OpTransfer }
func (InternalTransfer) Opcode() uint32      { return OpInternalTransfer }
func (TransferNotification) Opcode() uint32  { return OpTransferNotification }
func (Mint) Opcode() uint32                  { return OpMint }
func (SetGiverWallet) Opcode() uint32        { return OpSetGiverWallet }
func (SetWallet) Opcode() uint32             { return OpSetWallet }
func (SetProxyWalletConfig) Opcode() uint32  { return OpSetProxyWalletConfig }
func (RequestChangePool) Opcode() uint32     { return OpRequestChangePool }
func (ConfirmChangePool) Opcode() uint32     { return OpConfirmChangePool }
func (DepositFee) Opcode() uint32            { return OpDepositFee }
func (RelayFee) Opcode() uint32              { return OpRelayFee }
func (TaxPayment) Opcode() uint32            { return OpTaxPayment }
func (RequestChangeTreasury) Opcode() uint32 { return OpRequestChangeTreasury }
func (ConfirmChangeTreasury) Opcode() uint32 { return OpConfirmChangeTreasury }
func (TopUpReserve) Opcode() uint32          { return OpTopUpReserve }

func (m Transfer) QueryId() uint64              { return m.QueryID }
func (m InternalTransfer) QueryId() uint64      { return m.QueryID }
func (m TransferNotification) QueryId() uint64  { return m.QueryID }
func (m Mint) QueryId() uint64                  { return m.QueryID }
func (m SetGiverWallet) QueryId() uint64        { return m.QueryID }
func (m SetWallet) QueryId() uint64             { return m.QueryID }
func (m SetProxyWalletConfig) QueryId() uint64  { return m.QueryID }
func (m RequestChangePool) QueryId() uint64     { return m.QueryID }
func (m ConfirmChangePool) QueryId() uint64     { return m.QueryID }
func (m DepositFee) QueryId() uint64            { return m.QueryID }
func (m RelayFee) QueryId() uint64              { return m.QueryID }
func (m TaxPayment) QueryId() uint64            { return m.QueryID }
func (m RequestChangeTreasury) QueryId() uint64 { return m.QueryID }
func (m ConfirmChangeTreasury) QueryId() uint64 { return m.QueryID }
func (m TopUpReserve) QueryId() uint64          { return m.QueryID }
