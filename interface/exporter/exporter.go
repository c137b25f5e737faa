package exporter

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	METRIC_ERROR_COUNT          = "error_count"
	METRIC_MESSAGES_HANDLED     = "messages_handled_total"
	METRIC_POLL_COUNT           = "monitor_poll_total"
	METRIC_POOL_BALANCE         = "gas_pool_balance"
	METRIC_MARKET_MAKER_BALANCE = "market_maker_balance"
)

// Values of the balance label.
const (
	BALANCE_DOM           = "dom"
	BALANCE_TON           = "ton"
	BALANCE_TON_RESERVE   = "ton_reserve"
	BALANCE_TON_AVAILABLE = "ton_available"
)

// Collectors exist from package load so callers never hit a nil metric;
// Init only registers them.
var (
	errorCount = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "dominum",
		Subsystem: "settlement",
		Name:      METRIC_ERROR_COUNT,
		Help:      "Counts the number of infrastructure errors",
	})

	messagesHandled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dominum",
		Subsystem: "settlement",
		Name:      METRIC_MESSAGES_HANDLED,
		Help:      "Counts handled messages by contract, op, result and error class",
	}, []string{"contract", "op", "result", "class"})

	pollCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dominum",
		Subsystem: "monitor",
		Name:      METRIC_POLL_COUNT,
		Help:      "Counts gas pool polls by status",
	}, []string{"status"})

	poolGauges = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "dominum",
		Subsystem: "monitor",
		Name:      METRIC_POOL_BALANCE,
		Help:      "Latest gas pool balances in raw units",
	}, []string{"pool", "balance"})

	marketMakerGauges = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "dominum",
		Subsystem: "monitor",
		Name:      METRIC_MARKET_MAKER_BALANCE,
		Help:      "Latest market maker balances in raw units",
	}, []string{"market_maker", "balance"})

	registerOnce sync.Once
)

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(errorCount, messagesHandled, pollCount, poolGauges, marketMakerGauges)
	})
}

func IncErrorCount() {
	errorCount.Inc()
}

func IncMessage(contract, op, result, class string) {
	messagesHandled.WithLabelValues(contract, op, result, class).Inc()
}

func IncPoll(status string) {
	pollCount.WithLabelValues(status).Inc()
}

func SetPoolBalances(pool string, domBalance, tonReserve, tonAvailable uint64) {
	poolGauges.WithLabelValues(pool, BALANCE_DOM).Set(float64(domBalance))
	poolGauges.WithLabelValues(pool, BALANCE_TON_RESERVE).Set(float64(tonReserve))
	poolGauges.WithLabelValues(pool, BALANCE_TON_AVAILABLE).Set(float64(tonAvailable))
}

func SetMarketMakerBalances(marketMaker string, domBalance, tonBalance uint64) {
	marketMakerGauges.WithLabelValues(marketMaker, BALANCE_DOM).Set(float64(domBalance))
	marketMakerGauges.WithLabelValues(marketMaker, BALANCE_TON).Set(float64(tonBalance))
}

func PoolBalance(pool, balance string) prometheus.Gauge {
	return poolGauges.WithLabelValues(pool, balance)
}

func MarketMakerBalance(marketMaker, balance string) prometheus.Gauge {
	return marketMakerGauges.WithLabelValues(marketMaker, balance)
}

func MessageCounter(contract, op, result, class string) prometheus.Counter {
	return messagesHandled.WithLabelValues(contract, op, result, class)
}
