package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// 订单指标
	orderExecutedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickmill_order_executed_total",
			Help: "Total number of orders executed (filled)",
		},
		[]string{"symbol", "side"},
	)

	orderRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickmill_order_rejected_total",
			Help: "Total number of orders rejected by the execution engine",
		},
		[]string{"symbol", "reason"},
	)

	orderInvalidTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickmill_order_invalid_total",
			Help: "Total number of orders dropped by validation",
		},
		[]string{"symbol", "reason"},
	)

	// 交易指标
	tradeVolumeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickmill_trade_volume_total",
			Help: "Total traded quantity",
		},
		[]string{"symbol", "side"},
	)

	tradeAmountTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickmill_trade_amount_total",
			Help: "Total traded amount in quote currency",
		},
		[]string{"symbol", "side"},
	)

	// 账户指标
	cashGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tickmill_cash",
			Help: "Current cash balance of the ledger",
		},
	)

	equityGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tickmill_equity",
			Help: "Latest mark-to-market equity per symbol pass",
		},
		[]string{"symbol"},
	)

	// 回放指标
	tickProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickmill_tick_processed_total",
			Help: "Total number of ticks processed",
		},
		[]string{"symbol"},
	)

	strategyFaultTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickmill_strategy_fault_total",
			Help: "Total number of recovered strategy faults",
		},
		[]string{"strategy"},
	)

	runDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tickmill_run_duration_seconds",
			Help:    "Backtest run duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
	)
)

// RecordOrderExecuted 记录成交订单
func RecordOrderExecuted(symbol, side string, quantity int, amount float64) {
	orderExecutedTotal.WithLabelValues(symbol, side).Inc()
	tradeVolumeTotal.WithLabelValues(symbol, side).Add(float64(quantity))
	tradeAmountTotal.WithLabelValues(symbol, side).Add(amount)
}

// RecordOrderRejected 记录被执行引擎拒绝的订单
func RecordOrderRejected(symbol, reason string) {
	orderRejectedTotal.WithLabelValues(symbol, reason).Inc()
}

// RecordOrderInvalid 记录被校验丢弃的订单
func RecordOrderInvalid(symbol, reason string) {
	orderInvalidTotal.WithLabelValues(symbol, reason).Inc()
}

// SetCash 更新现金余额
func SetCash(cash float64) {
	cashGauge.Set(cash)
}

// SetEquity 更新指定标的的最新权益
func SetEquity(symbol string, equity float64) {
	equityGauge.WithLabelValues(symbol).Set(equity)
}

// RecordTickProcessed 记录已处理的tick
func RecordTickProcessed(symbol string) {
	tickProcessedTotal.WithLabelValues(symbol).Inc()
}

// RecordStrategyFault 记录被恢复的策略异常
func RecordStrategyFault(strategy string) {
	strategyFaultTotal.WithLabelValues(strategy).Inc()
}

// ObserveRunDuration 记录一次回测耗时
func ObserveRunDuration(seconds float64) {
	runDuration.Observe(seconds)
}
