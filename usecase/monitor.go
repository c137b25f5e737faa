package usecase

import (
	"context"
	"dominum/domain"
	"dominum/domain/util"
	"dominum/interface/exporter"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/tonkeeper/tongo"
)

const (
	PollStatusOk    = "ok"
	PollStatusError = "error"

	defaultRetryDelay = 5 * time.Second
	ratioPrecision    = 9
)

// GasPoolReader returns the current state of one gas pool.
type GasPoolReader interface {
	Pool() tongo.AccountID
	ReadPool(ctx context.Context) (*domain.GasPoolData, error)
}

// NetworkPoolReader reads a pool running on an in-process Network.
type NetworkPoolReader struct {
	state *StateInteractor
	pool  tongo.AccountID
}

func NewNetworkPoolReader(state *StateInteractor, pool tongo.AccountID) *NetworkPoolReader {
	return &NetworkPoolReader{state: state, pool: pool}
}

func (r *NetworkPoolReader) Pool() tongo.AccountID {
	return r.pool
}

func (r *NetworkPoolReader) ReadPool(ctx context.Context) (*domain.GasPoolData, error) {
	data, err := r.state.GasPool(ctx, r.pool)
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// ChainPoolReader reads a pool deployed on chain through its get method.
type ChainPoolReader struct {
	contract *ContractInteractor
	pool     tongo.AccountID
}

func NewChainPoolReader(contract *ContractInteractor, pool tongo.AccountID) *ChainPoolReader {
	return &ChainPoolReader{contract: contract, pool: pool}
}

func (r *ChainPoolReader) Pool() tongo.AccountID {
	return r.pool
}

func (r *ChainPoolReader) ReadPool(ctx context.Context) (*domain.GasPoolData, error) {
	return r.contract.GetPoolData(ctx, r.pool)
}

// MarketMakerReader returns the current state of one market maker.
type MarketMakerReader interface {
	MarketMaker() tongo.AccountID
	ReadMarketMaker(ctx context.Context) (*domain.MarketMakerData, error)
}

// ChainMarketMakerReader reads a market maker, its token account and its
// native balance on chain.
type ChainMarketMakerReader struct {
	contract    *ContractInteractor
	marketMaker tongo.AccountID
}

func NewChainMarketMakerReader(contract *ContractInteractor, marketMaker tongo.AccountID) *ChainMarketMakerReader {
	return &ChainMarketMakerReader{contract: contract, marketMaker: marketMaker}
}

func (r *ChainMarketMakerReader) MarketMaker() tongo.AccountID {
	return r.marketMaker
}

func (r *ChainMarketMakerReader) ReadMarketMaker(ctx context.Context) (*domain.MarketMakerData, error) {
	data, err := r.contract.GetMarketData(ctx, r.marketMaker)
	if err != nil {
		return nil, err
	}
	wallet, err := r.contract.GetWalletData(ctx, data.Wallet)
	if err != nil {
		return nil, err
	}
	data.DomBalance = wallet.Balance
	data.WalletGasPool = wallet.GasProxy

	if data.TonBalance, err = r.contract.GetBalance(ctx, r.marketMaker); err != nil {
		return nil, err
	}
	return data, nil
}

type SnapshotRepository interface {
	Insert(snapshot *domain.PoolSnapshot) error
}

type MonitorConfig struct {
	Logger *slog.Logger
	Clock  clockwork.Clock
	Reader GasPoolReader

	// Optional, read next to the pool on every poll.
	MarketMaker MarketMakerReader

	// Optional sinks.
	Snapshots SnapshotRepository
	Memo      *MemoInteractor

	Network        string
	OutputFilePath string
	PollInterval   time.Duration
	RetryDelay     time.Duration
	DomDecimals    int
	TonDecimals    int
}

func (cfg *MonitorConfig) Validate() error {
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if cfg.Reader == nil {
		return errors.New("gas pool reader is required")
	}
	if cfg.PollInterval <= 0 {
		return domain.ErrorInvalidPollInterval
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	return nil
}

// MonitorInteractor periodically reads a gas pool, and optionally a market
// maker, and publishes a snapshot with balances, the TON/DOM ratio and the
// change since the previous poll.
type MonitorInteractor struct {
	cfg           MonitorConfig
	log           *slog.Logger
	runId         string
	previous      *domain.PoolReadingMemo
	previousMaker *domain.MarketMakerReadingMemo
	restored      bool
}

func NewMonitorInteractor(cfg MonitorConfig) (*MonitorInteractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &MonitorInteractor{
		cfg:   cfg,
		log:   cfg.Logger.With("pool", cfg.Reader.Pool().ToRaw()),
		runId: uuid.NewString(),
	}, nil
}

func (m *MonitorInteractor) RunId() string {
	return m.runId
}

// Run polls until ctx is done. A failed poll is retried after RetryDelay.
func (m *MonitorInteractor) Run(ctx context.Context) error {
	m.log.Info("🟢 monitor started",
		"run_id", m.runId,
		"network", m.cfg.Network,
		"poll", m.cfg.PollInterval)

	for {
		delay := m.cfg.PollInterval
		if _, err := m.Poll(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			m.log.Error("🔴 monitor cycle failed", "error", err)
			delay = m.cfg.RetryDelay
		}

		select {
		case <-ctx.Done():
			m.log.Info("monitor stopped")
			return nil
		case <-m.cfg.Clock.After(delay):
		}
	}
}

// Poll reads the pool, and the market maker when one is configured, once
// and publishes the snapshot to every sink. A failed read fails the poll.
func (m *MonitorInteractor) Poll(ctx context.Context) (*domain.PoolSnapshot, error) {
	if !m.restored {
		m.restore()
	}

	data, err := m.cfg.Reader.ReadPool(ctx)
	if err != nil {
		exporter.IncPoll(PollStatusError)
		return nil, fmt.Errorf("reading gas pool: %w", err)
	}
	var maker *domain.MarketMakerData
	if m.cfg.MarketMaker != nil {
		if maker, err = m.cfg.MarketMaker.ReadMarketMaker(ctx); err != nil {
			exporter.IncPoll(PollStatusError)
			return nil, fmt.Errorf("reading market maker: %w", err)
		}
	}

	now := m.cfg.Clock.Now()
	snapshot := m.Snapshot(data, now)
	m.previous = &domain.PoolReadingMemo{
		DomBalance:   data.DomBalance,
		AvailableTon: data.AvailableTon,
		ReadAt:       snapshot.ReadAt,
	}
	if maker != nil {
		snapshot.MarketMaker = m.MarketMakerSnapshot(maker, now)
		m.previousMaker = &domain.MarketMakerReadingMemo{
			DomBalance: maker.DomBalance,
			TonBalance: maker.TonBalance,
			ReadAt:     snapshot.MarketMaker.ReadAt,
		}
	}

	exporter.IncPoll(PollStatusOk)
	exporter.SetPoolBalances(snapshot.Address, uint64(data.DomBalance), uint64(data.TonReserve), uint64(data.AvailableTon))
	if maker != nil {
		exporter.SetMarketMakerBalances(snapshot.MarketMaker.Address, uint64(maker.DomBalance), uint64(maker.TonBalance))
	}

	m.remember()
	if m.cfg.Snapshots != nil {
		if err := m.cfg.Snapshots.Insert(snapshot); err != nil {
			exporter.IncErrorCount()
			m.log.Error("🔴 storing snapshot", "error", err)
		}
	}
	if m.cfg.OutputFilePath != "" {
		if err := writeSnapshot(m.cfg.OutputFilePath, snapshot); err != nil {
			return snapshot, err
		}
	}

	m.log.Info("pool snapshot",
		"price_ton_per_dom", snapshot.PriceTonPerDom,
		"dom_delta", snapshot.Volumes.DomDelta,
		"ton_delta", snapshot.Volumes.TonDelta)
	if snapshot.MarketMaker != nil {
		m.log.Info("market maker snapshot",
			"dom_delta", snapshot.MarketMaker.Volumes.DomDelta,
			"ton_delta", snapshot.MarketMaker.Volumes.TonDelta,
			"whitelist", snapshot.MarketMaker.WhitelistCount)
	}
	return snapshot, nil
}

// restore loads the previous readings once, so deltas survive a restart.
func (m *MonitorInteractor) restore() {
	m.restored = true
	if m.cfg.Memo == nil {
		return
	}

	previous, err := m.cfg.Memo.GetPoolReading(m.cfg.Reader.Pool())
	if err != nil {
		m.log.Warn("🟡 previous reading is not available", "error", err)
	}
	m.previous = previous

	if m.cfg.MarketMaker == nil {
		return
	}
	previousMaker, err := m.cfg.Memo.GetMarketMakerReading(m.cfg.MarketMaker.MarketMaker())
	if err != nil {
		m.log.Warn("🟡 previous market maker reading is not available", "error", err)
	}
	m.previousMaker = previousMaker
}

func (m *MonitorInteractor) remember() {
	if m.cfg.Memo == nil {
		return
	}
	if err := m.cfg.Memo.SetPoolReading(m.cfg.Reader.Pool(), m.previous); err != nil {
		exporter.IncErrorCount()
		m.log.Error("🔴 storing pool reading", "error", err)
	}
	if m.cfg.MarketMaker != nil && m.previousMaker != nil {
		if err := m.cfg.Memo.SetMarketMakerReading(m.cfg.MarketMaker.MarketMaker(), m.previousMaker); err != nil {
			exporter.IncErrorCount()
			m.log.Error("🔴 storing market maker reading", "error", err)
		}
	}
}

// Snapshot turns a reading into the published view. Deltas are relative to
// the previous reading; the first reading has zero deltas and no interval.
func (m *MonitorInteractor) Snapshot(data *domain.GasPoolData, now time.Time) *domain.PoolSnapshot {
	dom, ton := m.cfg.DomDecimals, m.cfg.TonDecimals

	snapshot := &domain.PoolSnapshot{
		RunId:          m.runId,
		ReadAt:         now.UTC(),
		Network:        m.cfg.Network,
		Address:        domain.FormatAddress(&data.Address, domain.AddrFormatBouncable),
		Admin:          domain.FormatAddress(&data.Admin, domain.AddrFormatBouncable),
		Proxy:          domain.FormatAddress(&data.Proxy, domain.AddrFormatBouncable),
		Treasury:       domain.FormatAddress(&data.Treasury, domain.AddrFormatBouncable),
		PriceTonPerDom: util.FormatRatio(data.AvailableTon, ton, data.DomBalance, dom, ratioPrecision),
		Balances: domain.PoolBalances{
			Dom:          util.FormatUnits(data.DomBalance, dom),
			TonReserve:   util.FormatUnits(data.TonReserve, ton),
			TonAvailable: util.FormatUnits(data.AvailableTon, ton),
		},
		Raw: domain.PoolRaw{
			DomBalance:   data.DomBalance,
			TonReserve:   data.TonReserve,
			AvailableTon: data.AvailableTon,
		},
		Volumes: domain.VolumeDelta{DomDelta: "0", TonDelta: "0"},
	}

	if m.previous != nil {
		interval := snapshot.ReadAt.Sub(m.previous.ReadAt)
		snapshot.Volumes = domain.VolumeDelta{
			DomDelta: util.FormatUnits(util.AbsDiff(data.DomBalance, m.previous.DomBalance), dom),
			TonDelta: util.FormatUnits(util.AbsDiff(data.AvailableTon, m.previous.AvailableTon), ton),
			Interval: &interval,
		}
	}
	return snapshot
}

// MarketMakerSnapshot is the market maker counterpart of Snapshot.
func (m *MonitorInteractor) MarketMakerSnapshot(data *domain.MarketMakerData, now time.Time) *domain.MarketMakerSnapshot {
	dom, ton := m.cfg.DomDecimals, m.cfg.TonDecimals

	snapshot := &domain.MarketMakerSnapshot{
		ReadAt:         now.UTC(),
		Address:        domain.FormatAddress(&data.Address, domain.AddrFormatBouncable),
		Owner:          domain.FormatAddress(&data.Owner, domain.AddrFormatBouncable),
		Wallet:         domain.FormatAddress(&data.Wallet, domain.AddrFormatBouncable),
		WalletGasPool:  domain.FormatAddress(&data.WalletGasPool, domain.AddrFormatBouncable),
		WhitelistCount: data.WhitelistCount,
		Balances: domain.MarketMakerBalances{
			Dom: util.FormatUnits(data.DomBalance, dom),
			Ton: util.FormatUnits(data.TonBalance, ton),
		},
		Raw: domain.MarketMakerRaw{
			DomBalance: data.DomBalance,
			TonBalance: data.TonBalance,
		},
		Volumes: domain.VolumeDelta{DomDelta: "0", TonDelta: "0"},
	}

	if m.previousMaker != nil {
		interval := snapshot.ReadAt.Sub(m.previousMaker.ReadAt)
		snapshot.Volumes = domain.VolumeDelta{
			DomDelta: util.FormatUnits(util.AbsDiff(data.DomBalance, m.previousMaker.DomBalance), dom),
			TonDelta: util.FormatUnits(util.AbsDiff(data.TonBalance, m.previousMaker.TonBalance), ton),
			Interval: &interval,
		}
	}
	return snapshot
}

func writeSnapshot(path string, snapshot *domain.PoolSnapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	jstr, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, jstr, 0o644)
}
