package usecase

import (
	"dominum/domain"
	"dominum/infrastructure/logger"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"github.com/tonkeeper/tongo"
	"github.com/tonkeeper/tongo/tlb"
)

func deployReference(t *testing.T) (*Deployment, *Network, *clockwork.FakeClock) {
	t.Helper()
	network, clock := newTestNetwork(t)
	dep, err := NewDeployer(network, logger.Discard()).Deploy(testContext(t), DefaultDeploymentConfig())
	require.NoError(t, err)
	return dep, network, clock
}

func balanceOf(t *testing.T, dep *Deployment, owner tongo.AccountID) tlb.Grams {
	t.Helper()
	data, err := dep.State().WalletOf(testContext(t), dep.Template, owner)
	require.NoError(t, err)
	return data.Balance
}

func TestDeployWiresEverything(t *testing.T) {
	dep, _, _ := deployReference(t)
	ctx := testContext(t)

	proxy, err := dep.State().GasProxy(ctx, dep.GasProxy)
	require.NoError(t, err)
	require.True(t, proxy.WalletConfigReady)
	require.Equal(t, dep.Issuer, *proxy.Master)
	require.Equal(t, dep.GasPool, *proxy.RealPool)
	require.Equal(t, domain.PoolStateConfirmed, proxy.PoolState())

	for k, giver := range dep.Givers {
		data, err := dep.State().Giver(ctx, giver)
		require.NoError(t, err)
		require.NotNil(t, data.Wallet)
		require.Equal(t, dep.GiverWallets[k], *data.Wallet)
	}

	issuer, err := dep.State().Issuer(ctx, dep.Issuer)
	require.NoError(t, err)
	require.Equal(t, dep.Givers, issuer.Givers)
	require.Equal(t, "DOM", issuer.Content.Symbol)
}

func TestDeployOnRealClockLeavesPoolPending(t *testing.T) {
	network, err := NewNetwork(NetworkConfig{Logger: logger.Discard(), Clock: clockwork.NewRealClock()})
	require.NoError(t, err)
	defer network.Close()

	dep, err := NewDeployer(network, logger.Discard()).Deploy(testContext(t), DefaultDeploymentConfig())
	require.ErrorIs(t, err, ErrorTimelockPending)
	require.NotNil(t, dep)

	proxy, err := dep.State().GasProxy(testContext(t), dep.GasProxy)
	require.NoError(t, err)
	require.Equal(t, domain.PoolStatePending, proxy.PoolState())
	require.Nil(t, proxy.RealPool)
}

func TestMintSettlesThroughGivers(t *testing.T) {
	dep, _, _ := deployReference(t)
	ctx := testContext(t)

	require.NoError(t, dep.Mint(ctx, 4_000_000_000))

	expected := [domain.GiverCount]tlb.Grams{450_000_000, 250_000_000, 350_000_000, 350_000_000}
	for k, targets := range dep.Config.Targets {
		require.Equal(t, expected[k], balanceOf(t, dep, targets.First), domain.GiverNames[k])
		require.Equal(t, expected[k], balanceOf(t, dep, targets.Second), domain.GiverNames[k])
	}
	for _, giver := range dep.Givers {
		require.Zero(t, balanceOf(t, dep, giver))
	}

	report, err := dep.Report(ctx)
	require.NoError(t, err)
	require.Equal(t, tlb.Grams(4_000_000_000), report.TotalSupply)
	require.Equal(t, 8*domain.TaxAmount, report.Treasury)
	require.Equal(t, 8*domain.TaxHalf, report.GasPoolDom)
	require.True(t, report.Conserved())
	require.Len(t, report.Holders, 12)
}

func TestMintRejectsStranger(t *testing.T) {
	dep, _, _ := deployReference(t)

	err := dep.call(testContext(t), domain.AddressFromSeed("stranger"), dep.Issuer, domain.Mint{Amount: 1_000_000_000})
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	supply, err := dep.State().TotalSupply(testContext(t), dep.Issuer)
	require.NoError(t, err)
	require.Zero(t, supply)
}

func TestConservationAcrossTransfers(t *testing.T) {
	dep, _, _ := deployReference(t)
	ctx := testContext(t)

	require.NoError(t, dep.Mint(ctx, 4_000_000_000))
	require.NoError(t, dep.Mint(ctx, 1_000_000_001))

	frs := dep.Config.Targets[domain.GiverAllodium].First
	bank := dep.Config.Targets[domain.GiverDefi].First
	outsider := domain.AddressFromSeed("outsider")

	require.NoError(t, dep.Transfer(ctx, frs, outsider, 200_000_000))
	require.NoError(t, dep.Transfer(ctx, bank, frs, 150_000_000))
	require.Error(t, dep.Transfer(ctx, outsider, bank, 1_000_000_000))

	// Of the second mint only the allodium part splits into halves that
	// carry the tax; the other parts come back to the issuer.
	report, err := dep.Report(ctx)
	require.NoError(t, err)
	require.Equal(t, tlb.Grams(4_300_000_000), report.TotalSupply)
	for _, giver := range dep.Givers {
		require.Zero(t, balanceOf(t, dep, giver))
	}
	require.True(t, report.Conserved(), "accounted %v", report.Accounted())
	require.Equal(t, tlb.Grams(50_000_000), balanceOf(t, dep, outsider))
}

func TestTopUpReserveReachesPool(t *testing.T) {
	dep, _, _ := deployReference(t)
	ctx := testContext(t)

	require.NoError(t, dep.TopUpReserve(ctx, domain.AddressFromSeed("sponsor"), 3_000_000_000))

	pool, err := dep.State().GasPool(ctx, dep.GasPool)
	require.NoError(t, err)
	require.Equal(t, tlb.Grams(3_000_000_000), pool.TonReserve)
	require.Equal(t, tlb.Grams(3_000_000_000), pool.AvailableTon)
}
