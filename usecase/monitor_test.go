package usecase

import (
	"context"
	"dominum/domain"
	"dominum/infrastructure/logger"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"github.com/tonkeeper/tongo"
	"github.com/tonkeeper/tongo/tlb"
)

type fakePoolReader struct {
	mu    sync.Mutex
	pool  tongo.AccountID
	data  domain.GasPoolData
	err   error
	reads int
}

func (r *fakePoolReader) Pool() tongo.AccountID {
	return r.pool
}

func (r *fakePoolReader) ReadPool(ctx context.Context) (*domain.GasPoolData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	if r.err != nil {
		return nil, r.err
	}
	data := r.data
	return &data, nil
}

func (r *fakePoolReader) set(dom, ton tlb.Grams) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data.DomBalance = dom
	r.data.TonReserve = ton
	r.data.AvailableTon = ton
}

func (r *fakePoolReader) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reads
}

type fakeMakerReader struct {
	mu   sync.Mutex
	data domain.MarketMakerData
	err  error
}

func (r *fakeMakerReader) MarketMaker() tongo.AccountID {
	return r.data.Address
}

func (r *fakeMakerReader) ReadMarketMaker(ctx context.Context) (*domain.MarketMakerData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	data := r.data
	return &data, nil
}

func (r *fakeMakerReader) set(dom, ton tlb.Grams) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data.DomBalance = dom
	r.data.TonBalance = ton
}

func newFakeMakerReader() *fakeMakerReader {
	return &fakeMakerReader{data: domain.MarketMakerData{
		Address:        domain.AddressFromSeed("market-maker"),
		Owner:          domain.AddressFromSeed("owner"),
		Wallet:         domain.AddressFromSeed("maker-wallet"),
		WalletGasPool:  domain.AddressFromSeed("gas-pool"),
		WhitelistCount: 4,
	}}
}

type memoryMemos struct {
	memos map[string]string
}

func (m *memoryMemos) Find(key string) (*domain.Memo, error) {
	jstr, exist := m.memos[key]
	if !exist {
		return nil, nil
	}
	return &domain.Memo{Key: key, Memo: jstr}, nil
}

func (m *memoryMemos) Upsert(key string, memo domain.Memorable) (*domain.Memo, error) {
	m.memos[key] = memo.ToJson()
	return &domain.Memo{Key: key, Memo: m.memos[key]}, nil
}

type memorySnapshots struct {
	inserted []*domain.PoolSnapshot
}

func (s *memorySnapshots) Insert(snapshot *domain.PoolSnapshot) error {
	s.inserted = append(s.inserted, snapshot)
	return nil
}

func newFakePoolReader() *fakePoolReader {
	pool := domain.AddressFromSeed("gas-pool")
	return &fakePoolReader{
		pool: pool,
		data: domain.GasPoolData{
			Address:  pool,
			Admin:    domain.AddressFromSeed("admin"),
			Proxy:    domain.AddressFromSeed("gas-proxy"),
			Treasury: domain.AddressFromSeed("treasury"),
		},
	}
}

func TestMonitorConfigValidate(t *testing.T) {
	cfg := MonitorConfig{Logger: logger.Discard(), Reader: newFakePoolReader()}
	require.ErrorIs(t, cfg.Validate(), domain.ErrorInvalidPollInterval)

	cfg.PollInterval = time.Minute
	require.NoError(t, cfg.Validate())
	require.Equal(t, defaultRetryDelay, cfg.RetryDelay)
	require.NotNil(t, cfg.Clock)

	_, err := NewMonitorInteractor(MonitorConfig{Logger: logger.Discard(), PollInterval: time.Minute})
	require.Error(t, err)
}

func TestMonitorPoll(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)
	reader := newFakePoolReader()
	reader.set(400_000_000, 2_000_000_000)
	snapshots := &memorySnapshots{}
	output := filepath.Join(t.TempDir(), "out", "pool.json")

	monitor, err := NewMonitorInteractor(MonitorConfig{
		Logger:         logger.Discard(),
		Clock:          clock,
		Reader:         reader,
		Snapshots:      snapshots,
		Network:        "testnet",
		OutputFilePath: output,
		PollInterval:   time.Minute,
		DomDecimals:    domain.DomDecimals,
		TonDecimals:    domain.TonDecimals,
	})
	require.NoError(t, err)
	require.NotEmpty(t, monitor.RunId())

	first, err := monitor.Poll(testContext(t))
	require.NoError(t, err)
	require.Equal(t, "0.005", first.PriceTonPerDom)
	require.Equal(t, "400", first.Balances.Dom)
	require.Equal(t, "2", first.Balances.TonAvailable)
	require.Equal(t, "0", first.Volumes.DomDelta)
	require.Equal(t, "0", first.Volumes.TonDelta)
	require.Nil(t, first.Volumes.Interval)
	require.Equal(t, epoch, first.ReadAt)
	require.Equal(t, monitor.RunId(), first.RunId)

	clock.Advance(30 * time.Second)
	reader.set(400_050_000, 1_750_000_000)

	second, err := monitor.Poll(testContext(t))
	require.NoError(t, err)
	require.Equal(t, "0.05", second.Volumes.DomDelta)
	require.Equal(t, "0.25", second.Volumes.TonDelta)
	require.NotNil(t, second.Volumes.Interval)
	require.Equal(t, 30*time.Second, *second.Volumes.Interval)
	require.Len(t, snapshots.inserted, 2)
	require.Nil(t, second.MarketMaker)

	jstr, err := os.ReadFile(output)
	require.NoError(t, err)
	var written domain.PoolSnapshot
	require.NoError(t, json.Unmarshal(jstr, &written))
	require.Equal(t, second.Raw, written.Raw)
	require.Equal(t, second.Address, written.Address)
}

func TestMonitorZeroDomBalance(t *testing.T) {
	monitor, err := NewMonitorInteractor(MonitorConfig{
		Logger:       logger.Discard(),
		Reader:       newFakePoolReader(),
		PollInterval: time.Minute,
		DomDecimals:  domain.DomDecimals,
		TonDecimals:  domain.TonDecimals,
	})
	require.NoError(t, err)

	snapshot := monitor.Snapshot(&domain.GasPoolData{AvailableTon: 1_000_000_000}, epoch)
	require.Equal(t, "0", snapshot.PriceTonPerDom)
}

func TestMonitorRestoresPreviousReading(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)
	reader := newFakePoolReader()
	memos := &memoryMemos{memos: map[string]string{}}
	memo := NewMemoInteractor(memos)

	require.NoError(t, memo.SetPoolReading(reader.pool, &domain.PoolReadingMemo{
		DomBalance:   100_000_000,
		AvailableTon: 1_000_000_000,
		ReadAt:       epoch.Add(-time.Hour),
	}))
	reader.set(150_000_000, 1_000_000_000)

	monitor, err := NewMonitorInteractor(MonitorConfig{
		Logger:       logger.Discard(),
		Clock:        clock,
		Reader:       reader,
		Memo:         memo,
		PollInterval: time.Minute,
		DomDecimals:  domain.DomDecimals,
		TonDecimals:  domain.TonDecimals,
	})
	require.NoError(t, err)

	snapshot, err := monitor.Poll(testContext(t))
	require.NoError(t, err)
	require.Equal(t, "50", snapshot.Volumes.DomDelta)
	require.Equal(t, "0", snapshot.Volumes.TonDelta)
	require.Equal(t, time.Hour, *snapshot.Volumes.Interval)

	stored, err := memo.GetPoolReading(reader.pool)
	require.NoError(t, err)
	require.Equal(t, tlb.Grams(150_000_000), stored.DomBalance)
	require.True(t, epoch.Equal(stored.ReadAt))
}

func TestMonitorRunRetriesAfterFailure(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)
	reader := newFakePoolReader()
	reader.err = errors.New("lite server unavailable")

	monitor, err := NewMonitorInteractor(MonitorConfig{
		Logger:       logger.Discard(),
		Clock:        clock,
		Reader:       reader,
		PollInterval: time.Minute,
		RetryDelay:   time.Second,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(testContext(t))
	done := make(chan error, 1)
	go func() {
		done <- monitor.Run(ctx)
	}()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	require.Equal(t, 1, reader.count())

	clock.Advance(time.Second)
	require.Eventually(t, func() bool { return reader.count() == 2 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestMonitorPollsMarketMaker(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)
	maker := newFakeMakerReader()
	maker.set(250_000_000, 7_000_000_000)
	memo := NewMemoInteractor(&memoryMemos{memos: map[string]string{}})

	monitor, err := NewMonitorInteractor(MonitorConfig{
		Logger:       logger.Discard(),
		Clock:        clock,
		Reader:       newFakePoolReader(),
		MarketMaker:  maker,
		Memo:         memo,
		PollInterval: time.Minute,
		DomDecimals:  domain.DomDecimals,
		TonDecimals:  domain.TonDecimals,
	})
	require.NoError(t, err)

	first, err := monitor.Poll(testContext(t))
	require.NoError(t, err)
	require.NotNil(t, first.MarketMaker)
	require.Equal(t, "250", first.MarketMaker.Balances.Dom)
	require.Equal(t, "7", first.MarketMaker.Balances.Ton)
	require.Equal(t, uint64(4), first.MarketMaker.WhitelistCount)
	require.Equal(t, "0", first.MarketMaker.Volumes.DomDelta)
	require.Nil(t, first.MarketMaker.Volumes.Interval)
	require.Equal(t, domain.FormatAddress(&maker.data.Wallet, domain.AddrFormatBouncable), first.MarketMaker.Wallet)

	clock.Advance(30 * time.Second)
	maker.set(200_000_000, 7_500_000_000)

	second, err := monitor.Poll(testContext(t))
	require.NoError(t, err)
	require.Equal(t, "50", second.MarketMaker.Volumes.DomDelta)
	require.Equal(t, "0.5", second.MarketMaker.Volumes.TonDelta)
	require.Equal(t, 30*time.Second, *second.MarketMaker.Volumes.Interval)

	stored, err := memo.GetMarketMakerReading(maker.MarketMaker())
	require.NoError(t, err)
	require.Equal(t, tlb.Grams(200_000_000), stored.DomBalance)
	require.Equal(t, tlb.Grams(7_500_000_000), stored.TonBalance)
}

func TestMonitorRestoresMarketMakerReading(t *testing.T) {
	maker := newFakeMakerReader()
	maker.set(100_000_000, 1_000_000_000)
	memo := NewMemoInteractor(&memoryMemos{memos: map[string]string{}})
	require.NoError(t, memo.SetMarketMakerReading(maker.MarketMaker(), &domain.MarketMakerReadingMemo{
		DomBalance: 40_000_000,
		TonBalance: 3_000_000_000,
		ReadAt:     epoch.Add(-2 * time.Minute),
	}))

	monitor, err := NewMonitorInteractor(MonitorConfig{
		Logger:       logger.Discard(),
		Clock:        clockwork.NewFakeClockAt(epoch),
		Reader:       newFakePoolReader(),
		MarketMaker:  maker,
		Memo:         memo,
		PollInterval: time.Minute,
		DomDecimals:  domain.DomDecimals,
		TonDecimals:  domain.TonDecimals,
	})
	require.NoError(t, err)

	snapshot, err := monitor.Poll(testContext(t))
	require.NoError(t, err)
	require.Equal(t, "60", snapshot.MarketMaker.Volumes.DomDelta)
	require.Equal(t, "2", snapshot.MarketMaker.Volumes.TonDelta)
	require.Equal(t, 2*time.Minute, *snapshot.MarketMaker.Volumes.Interval)
}

func TestMonitorMarketMakerFailureFailsThePoll(t *testing.T) {
	maker := newFakeMakerReader()
	maker.err = errors.New("getMarketData exit code 11")
	snapshots := &memorySnapshots{}

	monitor, err := NewMonitorInteractor(MonitorConfig{
		Logger:       logger.Discard(),
		Reader:       newFakePoolReader(),
		MarketMaker:  maker,
		Snapshots:    snapshots,
		PollInterval: time.Minute,
	})
	require.NoError(t, err)

	_, err = monitor.Poll(testContext(t))
	require.ErrorContains(t, err, "reading market maker")
	require.Empty(t, snapshots.inserted)
}
