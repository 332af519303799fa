package backtest

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"tickmill/event"
	"tickmill/logger"
	"tickmill/market"
	"tickmill/metrics"
	"tickmill/order"
	"tickmill/position"
	"tickmill/strategy"
)

// EquityPoint 权益点
type EquityPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Equity    float64   `json:"equity"`
}

// Engine 执行引擎
// 持有现金、持仓表、最新价格与成交日志；账本没有进程级全局状态，
// 所有共享可变状态都在引擎实例内，由单一互斥边界保护（每次最多执行一笔订单）
type Engine struct {
	mu sync.Mutex

	initialCash float64
	cash        float64
	positions   map[string]*position.Position
	lastPrice   map[string]float64
	trades      []*order.Trade

	equityBySymbol map[string][]EquityPoint

	// 故障注入（默认关闭，随机源可设定种子保证测试可复现）
	failProbability float64
	rng             *rand.Rand

	bus *event.EventBus
}

// RunResult 回测结果
type RunResult struct {
	StartTime   time.Time                      `json:"start_time"`
	EndTime     time.Time                      `json:"end_time"`
	InitialCash float64                        `json:"initial_cash"`
	FinalCash   float64                        `json:"final_cash"`
	Positions   map[string]*position.Position  `json:"positions"`
	EquityCurve map[string][]EquityPoint       `json:"equity_curve"`
	Trades      []*order.Trade                 `json:"trades"`
	Metrics     map[string]*PerformanceMetrics `json:"metrics"`
	RiskMetrics map[string]RiskMetrics         `json:"risk_metrics"`

	// 单个标的回放失败只中止该标的，错误在这里汇报，由调用方决定整体成败
	SymbolErrors map[string]string `json:"symbol_errors,omitempty"`
}

// NewEngine 创建执行引擎
func NewEngine(initialCash float64) *Engine {
	return &Engine{
		initialCash:    initialCash,
		cash:           initialCash,
		positions:      make(map[string]*position.Position),
		lastPrice:      make(map[string]float64),
		trades:         make([]*order.Trade, 0),
		equityBySymbol: make(map[string][]EquityPoint),
		rng:            rand.New(rand.NewSource(1)),
	}
}

// SetFaultInjection 配置模拟执行失败（p=0 关闭；随机源由种子确定）
func (e *Engine) SetFaultInjection(probability float64, seed int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failProbability = probability
	e.rng = rand.New(rand.NewSource(seed))
}

// SetEventBus 设置事件总线（可选）
func (e *Engine) SetEventBus(bus *event.EventBus) {
	e.bus = bus
}

// Cash 当前现金余额
func (e *Engine) Cash() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cash
}

// Position 获取指定标的的持仓快照
func (e *Engine) Position(symbol string) position.Position {
	e.mu.Lock()
	defer e.mu.Unlock()
	if pos, ok := e.positions[symbol]; ok {
		return *pos
	}
	return position.Position{Symbol: symbol}
}

// Trades 成交日志快照（只追加，不修改）
func (e *Engine) Trades() []*order.Trade {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*order.Trade, len(e.trades))
	copy(out, e.trades)
	return out
}

// Run 运行回测
// 行情按标的分组，按标的名排序后逐个回放（共享同一个账本，结果可复现）；
// 每个标的内部按时间戳升序处理
func (e *Engine) Run(ticks []market.Tick, strategies map[string][]strategy.Strategy) (*RunResult, error) {
	if len(ticks) == 0 {
		logger.Error("❌ 回测失败: 行情数据为空")
		return nil, fmt.Errorf("ticks data is empty")
	}

	startedAt := time.Now()
	e.publish(event.EventTypeRunStarted, map[string]interface{}{
		"ticks":        len(ticks),
		"initial_cash": e.initialCash,
	})

	grouped := market.GroupBySymbol(ticks)

	// 配置了策略但没有行情的标的：该标的回放失败，其他标的继续
	symbolErrors := make(map[string]string)
	for symbol := range strategies {
		if len(grouped[symbol]) == 0 {
			symbolErrors[symbol] = "no ticks were provided"
			logger.Error("❌ 标的 %s 回放失败: 行情序列为空", symbol)
			e.publish(event.EventTypeSymbolFailed, map[string]interface{}{
				"symbol": symbol,
				"reason": "no ticks were provided",
			})
		}
	}

	symbols := make([]string, 0, len(grouped))
	for symbol := range grouped {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	logger.Info("🚀 开始回测: %d 个标的, %d 条行情", len(symbols), len(ticks))

	for _, symbol := range symbols {
		e.runSymbol(symbol, grouped[symbol], strategies[symbol])
	}

	finishedAt := time.Now()
	metrics.ObserveRunDuration(finishedAt.Sub(startedAt).Seconds())

	result := &RunResult{
		StartTime:   startedAt,
		EndTime:     finishedAt,
		InitialCash: e.initialCash,
		FinalCash:   e.cash,
		Positions:   e.snapshotPositions(),
		EquityCurve: e.snapshotEquity(),
		Trades:      e.Trades(),
		Metrics:     make(map[string]*PerformanceMetrics),
		RiskMetrics: make(map[string]RiskMetrics),
	}
	if len(symbolErrors) > 0 {
		result.SymbolErrors = symbolErrors
	}

	for symbol, curve := range result.EquityCurve {
		if m := CalculatePerformance(curve); m != nil {
			result.Metrics[symbol] = m
		}
		result.RiskMetrics[symbol] = CalculateRiskMetrics(curve)
	}

	logger.Info("✅ 回测完成: %d 笔成交, 最终现金 %.2f", len(result.Trades), result.FinalCash)
	e.publish(event.EventTypeRunFinished, map[string]interface{}{
		"trades":     len(result.Trades),
		"final_cash": result.FinalCash,
	})

	return result, nil
}

// runSymbol 回放单个标的的行情序列
func (e *Engine) runSymbol(symbol string, ticks []market.Tick, strats []strategy.Strategy) {
	// 按时间戳升序（稳定排序，相同时间戳保持输入顺序）
	sorted := make([]market.Tick, len(ticks))
	copy(sorted, ticks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	curve := make([]EquityPoint, 0, len(sorted))

	for _, tick := range sorted {
		// 更新最新价格
		e.mu.Lock()
		e.lastPrice[tick.Symbol] = tick.Price
		e.mu.Unlock()

		// 收集所有策略的信号（单个策略出错不中止tick循环）
		signals := make([]*order.Signal, 0)
		for _, strat := range strats {
			signals = append(signals, e.collectSignals(strat, tick)...)
		}

		// 信号转订单并执行（每笔订单独立处理）
		for _, sig := range signals {
			o := order.NewOrderFromSignal(sig)

			if err := order.Validate(o); err != nil {
				logger.Error("❌ %v（信号: %s %s x%d @ %.4f）", err, sig.Side, sig.Symbol, sig.Quantity, sig.Price)
				metrics.RecordOrderInvalid(o.Symbol, "validation")
				e.publish(event.EventTypeOrderInvalid, event.BuildOrderData(o.Symbol, string(o.Side), o.Quantity, o.Price, err.Error()))
				continue
			}

			if err := e.Execute(o, tick.Timestamp); err != nil {
				logger.Error("❌ %v", err)
				continue
			}
		}

		// 记录本tick处理后的权益（无论是否产生信号）
		equity := e.ComputeEquity()
		curve = append(curve, EquityPoint{Timestamp: tick.Timestamp, Equity: equity})

		metrics.RecordTickProcessed(tick.Symbol)
		metrics.SetEquity(tick.Symbol, equity)
	}

	if len(curve) > 0 {
		e.mu.Lock()
		e.equityBySymbol[symbol] = curve
		e.mu.Unlock()
	}
}

// collectSignals 调用单个策略并隔离其panic
// 策略内部异常被恢复为 StrategyError：记日志后该策略本次不贡献信号
func (e *Engine) collectSignals(strat strategy.Strategy, tick market.Tick) (signals []*order.Signal) {
	defer func() {
		if r := recover(); r != nil {
			serr := order.NewStrategyError(strat.Name(), "%v", r)
			logger.Error("❌ %v（tick: %s）", serr, tick)
			metrics.RecordStrategyFault(strat.Name())
			e.publish(event.EventTypeStrategyFault, map[string]interface{}{
				"strategy": strat.Name(),
				"symbol":   tick.Symbol,
				"reason":   serr.Reason,
			})
			signals = nil
		}
	}()

	return strat.GenerateSignals(tick)
}

// ComputeEquity 计算当前权益 = 现金 + Σ(持仓数量 × 标记价格)
// 标记价格取最新成交价，没有观测过价格时退回持仓均价；空仓贡献为0
func (e *Engine) ComputeEquity() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	equity := e.cash
	for symbol, pos := range e.positions {
		if pos.Flat() {
			continue
		}
		mark, ok := e.lastPrice[symbol]
		if !ok {
			mark = pos.AvgPrice
		}
		equity += pos.MarketValue(mark)
	}
	return equity
}

// snapshotPositions 持仓快照
func (e *Engine) snapshotPositions() map[string]*position.Position {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(map[string]*position.Position, len(e.positions))
	for symbol, pos := range e.positions {
		cp := *pos
		out[symbol] = &cp
	}
	return out
}

// snapshotEquity 权益曲线快照
func (e *Engine) snapshotEquity() map[string][]EquityPoint {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(map[string][]EquityPoint, len(e.equityBySymbol))
	for symbol, curve := range e.equityBySymbol {
		cp := make([]EquityPoint, len(curve))
		copy(cp, curve)
		out[symbol] = cp
	}
	return out
}

// publish 发布事件（事件总线未配置时为空操作）
func (e *Engine) publish(eventType event.EventType, data map[string]interface{}) {
	if e.bus == nil {
		return
	}
	e.bus.Publish(&event.Event{Type: eventType, Data: data})
}
