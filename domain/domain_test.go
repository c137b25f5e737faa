package domain

import (
	"testing"

	errorsmod "cosmossdk.io/errors"
	"github.com/stretchr/testify/require"
	"github.com/tonkeeper/tongo/tlb"
)

func TestExitCodes(t *testing.T) {
	tests := []struct {
		err   error
		code  uint32
		class ErrorClass
	}{
		{err: nil, code: 0, class: ClassNone},
		{err: ErrUnauthorized, code: 73, class: ClassAuthorization},
		{err: ErrInsufficientBalance, code: 74, class: ClassResource},
		{err: ErrAmountBelowTax, code: 75, class: ClassAmountIntegrity},
		{err: ErrInvalidAmount, code: 76, class: ClassAmountIntegrity},
		{err: ErrTimelockActive, code: 92, class: ClassSequencing},
		{err: ErrAlreadyInitialized, code: 94, class: ClassSequencing},
		{err: ErrProxyNotConfigured, code: 95, class: ClassSequencing},
		{err: ErrUnknownGiver, code: 97, class: ClassAuthorization},
		{err: ErrUnknownOp, code: 0xffff, class: ClassSequencing},
		{err: errorsmod.Wrapf(ErrPoolNotSet, "pool %v", "x"), code: 93, class: ClassSequencing},
		{err: ErrorInvalidNetwork, code: 1, class: ClassInternal},
	}

	for _, tt := range tests {
		require.Equal(t, tt.code, ExitCode(tt.err), "%v", tt.err)
		require.Equal(t, tt.class, Classify(tt.err), "%v", tt.err)
	}
}

func TestWalletAddress(t *testing.T) {
	issuer := AddressFromSeed("issuer")
	owner := AddressFromSeed("owner")

	first, err := WalletAddress(issuer, []byte("code"), owner)
	require.NoError(t, err)
	second, err := WalletAddress(issuer, []byte("code"), owner)
	require.NoError(t, err)
	require.Equal(t, first, second)

	template := &WalletTemplate{Issuer: issuer, Code: []byte("code")}
	fromTemplate, err := template.AddressOf(owner)
	require.NoError(t, err)
	require.Equal(t, first, fromTemplate)

	for _, other := range []struct {
		issuer, owner string
		code          string
	}{
		{issuer: "other", owner: "owner", code: "code"},
		{issuer: "issuer", owner: "other", code: "code"},
		{issuer: "issuer", owner: "owner", code: "other"},
	} {
		addr, err := WalletAddress(AddressFromSeed(other.issuer), []byte(other.code), AddressFromSeed(other.owner))
		require.NoError(t, err)
		require.NotEqual(t, first, addr)
	}
}

func TestFormatAddress(t *testing.T) {
	require.Equal(t, "<none>", FormatAddress(nil, AddrFormatRaw))

	id := AddressFromSeed("pool")
	require.Equal(t, id.ToRaw(), FormatAddress(&id, AddrFormatRaw))
	require.NotEqual(t, FormatAddress(&id, AddrFormatBouncable), FormatAddress(&id, AddrFormatNonBouncable))
	require.Equal(t, "AddrNone", string(MsgAddress(nil).SumType))
}

func TestEncodeBody(t *testing.T) {
	candidate := AddressFromSeed("pool")

	tests := []struct {
		name string
		body Body
	}{
		{name: "mint", body: Mint{QueryID: 3, Amount: 4_000_000_000}},
		{name: "set giver wallet", body: SetGiverWallet{QueryID: 3, Giver: candidate, Wallet: candidate}},
		{name: "request change pool", body: RequestChangePool{QueryID: 3, Candidate: candidate}},
		{name: "confirm change pool", body: ConfirmChangePool{QueryID: 3}},
		{name: "request change treasury", body: RequestChangeTreasury{QueryID: 3, Candidate: candidate}},
		{name: "top up reserve", body: TopUpReserve{QueryID: 3}},
		{name: "transfer", body: Transfer{QueryID: 3, Amount: 1, Destination: candidate}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell, err := EncodeBody(tt.body)
			require.NoError(t, err)

			cell.ResetCounters()
			op, err := cell.ReadUint(32)
			require.NoError(t, err)
			require.Equal(t, uint64(tt.body.Opcode()), op)
			qid, err := cell.ReadUint(64)
			require.NoError(t, err)
			require.Equal(t, uint64(3), qid)
		})
	}

	_, err := EncodeBody(RelayFee{})
	require.Error(t, err)

	_, err = EncodeBody(SetProxyWalletConfig{Master: candidate, WalletCode: []byte("not a boc")})
	require.Error(t, err)
}

func TestSettlementReport(t *testing.T) {
	report := SettlementReport{
		TotalSupply:  4_000_000_000,
		HoldersTotal: 2_800_000_000,
		Treasury:     8 * TaxAmount,
		GasPoolDom:   8 * TaxHalf,
	}
	require.Equal(t, tlb.Grams(4_000_000_000), report.Accounted())
	require.True(t, report.Conserved())

	report.Treasury -= 1
	require.False(t, report.Conserved())
}

func TestPoolReadingMemo(t *testing.T) {
	memo := &PoolReadingMemo{DomBalance: 400_000_000, AvailableTon: 2_000_000_000}
	var restored PoolReadingMemo
	require.NoError(t, restored.FromJson(memo.ToJson()))
	require.Equal(t, memo.DomBalance, restored.DomBalance)
	require.Equal(t, memo.AvailableTon, restored.AvailableTon)

	require.Error(t, restored.FromJson("{"))
}

func TestOpName(t *testing.T) {
	require.Equal(t, "deposit_fee", OpName(OpDepositFee))
	require.Equal(t, "unknown", OpName(0xdeadbeef))
}

func TestTaxConstants(t *testing.T) {
	require.Equal(t, tlb.Grams(150_000_000), TaxTotal)

	var sum uint32
	for _, share := range GiverShares {
		sum += share
	}
	require.Equal(t, uint32(ShareBase), sum)
}
