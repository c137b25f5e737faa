package usecase

import (
	"dominum/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tonkeeper/tongo"
	"github.com/tonkeeper/tongo/tlb"
)

func TestGasPool(t *testing.T) {
	network, clock := newTestNetwork(t)
	admin := domain.AddressFromSeed("admin")
	proxy := domain.AddressFromSeed("gas-proxy")
	treasury := domain.AddressFromSeed("treasury")
	address := domain.AddressFromSeed("gas-pool")
	require.NoError(t, network.Deploy(NewGasPool(GasPoolConfig{
		Address:  address,
		Admin:    admin,
		Proxy:    proxy,
		Treasury: treasury,
	})))
	state := NewStateInteractor(network)

	relay := domain.RelayFee{TreasuryFee: domain.TaxAmount, GasPoolFee: domain.TaxHalf}

	read := func(t *testing.T) domain.GasPoolData {
		data, err := state.GasPool(testContext(t), address)
		require.NoError(t, err)
		return data
	}

	t.Run("relay only from proxy", func(t *testing.T) {
		err := call(t, network, domain.AddressFromSeed("wallet"), address, relay)
		require.ErrorIs(t, err, domain.ErrUnauthorized)
		require.Zero(t, read(t).DomBalance)
	})

	t.Run("relay with spoofed fees", func(t *testing.T) {
		for _, fees := range [][2]tlb.Grams{
			{domain.TaxAmount, domain.TaxHalf + 1},
			{domain.TaxAmount - 1, domain.TaxHalf},
			{0, 0},
		} {
			spoofed := relay
			spoofed.TreasuryFee, spoofed.GasPoolFee = fees[0], fees[1]
			require.ErrorIs(t, call(t, network, proxy, address, spoofed), domain.ErrInvalidAmount)
		}
		require.Zero(t, read(t).DomBalance)
	})

	t.Run("relay accumulates", func(t *testing.T) {
		require.NoError(t, call(t, network, proxy, address, relay))
		require.NoError(t, call(t, network, proxy, address, relay))
		require.Equal(t, 2*domain.TaxHalf, read(t).DomBalance)
	})

	t.Run("top up reserve", func(t *testing.T) {
		require.NoError(t, call(t, network, domain.AddressFromSeed("anyone"), address, domain.TopUpReserve{}, WithValue(7_000_000_000)))
		data := read(t)
		require.Equal(t, tlb.Grams(7_000_000_000), data.TonReserve)
		require.Equal(t, data.TonReserve, data.AvailableTon)
	})

	t.Run("treasury change", func(t *testing.T) {
		candidate := domain.AddressFromSeed("new-treasury")

		err := call(t, network, domain.AddressFromSeed("stranger"), address, domain.RequestChangeTreasury{Candidate: candidate})
		require.ErrorIs(t, err, domain.ErrUnauthorized)

		require.NoError(t, call(t, network, admin, address, domain.RequestChangeTreasury{Candidate: candidate}))
		require.NotNil(t, read(t).PendingTreasury)

		clock.Advance(time.Hour)
		require.ErrorIs(t, call(t, network, admin, address, domain.ConfirmChangeTreasury{}), domain.ErrTimelockActive)

		clock.Advance(domain.TimelockPeriod)
		require.NoError(t, call(t, network, admin, address, domain.ConfirmChangeTreasury{}))
		data := read(t)
		require.Equal(t, candidate, data.Treasury)
		require.Nil(t, data.PendingTreasury)
	})
}

func TestTreasuryAcceptsOnlyTheTax(t *testing.T) {
	network, _ := newTestNetwork(t)
	template := testTemplate()
	require.NoError(t, network.Deploy(NewTreasury(template)))
	owner := domain.AddressFromSeed("w")
	wallet := walletOf(t, template, owner)

	tests := []struct {
		name string
		src  tongo.AccountID
		body domain.TaxPayment
		err  error
	}{
		{
			name: "not a token account",
			src:  domain.AddressFromSeed("stranger"),
			body: domain.TaxPayment{Owner: owner, Amount: domain.TaxAmount},
			err:  domain.ErrUnauthorized,
		},
		{
			name: "another owner's account",
			src:  wallet,
			body: domain.TaxPayment{Owner: domain.AddressFromSeed("other"), Amount: domain.TaxAmount},
			err:  domain.ErrUnauthorized,
		},
		{
			name: "wrong amount",
			src:  wallet,
			body: domain.TaxPayment{Owner: owner, Amount: 1},
			err:  domain.ErrInvalidAmount,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, call(t, network, tt.src, template.Treasury, tt.body), tt.err)
		})
	}

	require.NoError(t, call(t, network, wallet, template.Treasury, domain.TaxPayment{Owner: owner, Amount: domain.TaxAmount}))

	data, err := NewStateInteractor(network).Treasury(testContext(t), template.Treasury)
	require.NoError(t, err)
	require.Equal(t, domain.TaxAmount, data.Balance)
}

func TestForgedTaxPaymentKeepsSupplyConserved(t *testing.T) {
	dep, network, _ := deployReference(t)
	ctx := testContext(t)
	require.NoError(t, dep.Mint(ctx, 4_000_000_000))

	stranger := domain.AddressFromSeed("stranger")
	err := call(t, network, stranger, dep.Treasury, domain.TaxPayment{Owner: stranger, Amount: domain.TaxAmount})
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	report, err := dep.Report(ctx)
	require.NoError(t, err)
	require.Equal(t, 8*domain.TaxAmount, report.Treasury)
	require.True(t, report.Conserved(), "accounted %v", report.Accounted())
}
