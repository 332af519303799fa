package backtest

import (
	"time"

	"tickmill/event"
	"tickmill/logger"
	"tickmill/metrics"
	"tickmill/order"
	"tickmill/position"
)

// Execute 执行一笔已校验的订单
// 成功时更新持仓与现金、标记 FILLED 并追加成交记录；
// 失败时账本保持原状，订单标记 REJECTED，返回 ExecutionError
func (e *Engine) Execute(o *order.Order, at time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	// 状态机: PENDING → FILLED / REJECTED 各一次，重复执行是契约违规
	if o.Status != order.StatusPending {
		return order.NewExecutionError("订单 %s 状态为 %s，只有 PENDING 订单可以执行", o.ClientOrderID, o.Status)
	}

	// 模拟执行失败（在触碰任何账本状态之前）
	if e.failProbability > 0 && e.rng.Float64() < e.failProbability {
		o.Reject()
		metrics.RecordOrderRejected(o.Symbol, "simulated")
		e.publishRejected(o, "simulated failure")
		return order.NewExecutionError("模拟执行失败")
	}

	// 成交价: 该标的最近观测到的价格，没有观测过时退回订单自身价格
	fillPrice, ok := e.lastPrice[o.Symbol]
	if !ok {
		fillPrice = o.Price
	}

	pos, ok := e.positions[o.Symbol]
	if !ok {
		pos = position.NewPosition(o.Symbol)
		e.positions[o.Symbol] = pos
	}

	switch o.Side {
	case order.SideBuy:
		cost := fillPrice * float64(o.Quantity)
		if cost > e.cash {
			o.Reject()
			metrics.RecordOrderRejected(o.Symbol, "insufficient_cash")
			e.publishRejected(o, "insufficient cash")
			return order.NewExecutionError("资金不足: BUY %d %s @ %.2f 需要 %.2f，可用 %.2f",
				o.Quantity, o.Symbol, fillPrice, cost, e.cash)
		}
		pos.ApplyFill(order.SideBuy, o.Quantity, fillPrice)
		e.cash -= cost

	case order.SideSell:
		// 允许做空: 超过多头持仓的卖出转为开空，成本基准在反转点重置
		proceeds := fillPrice * float64(o.Quantity)
		pos.ApplyFill(order.SideSell, o.Quantity, fillPrice)
		e.cash += proceeds

	default:
		o.Reject()
		metrics.RecordOrderRejected(o.Symbol, "unknown_side")
		return order.NewExecutionError("未知订单方向: %q", o.Side)
	}

	o.Fill()
	trade := &order.Trade{
		Timestamp: at,
		Side:      o.Side,
		Symbol:    o.Symbol,
		Quantity:  o.Quantity,
		Price:     fillPrice,
		CashAfter: e.cash,
	}
	e.trades = append(e.trades, trade)

	metrics.RecordOrderExecuted(o.Symbol, string(o.Side), o.Quantity, fillPrice*float64(o.Quantity))
	metrics.SetCash(e.cash)
	e.publishFilled(o, fillPrice)

	logger.Info("📈 FILLED %s %d %s @ %.2f，现金: %.2f", o.Side, o.Quantity, o.Symbol, fillPrice, e.cash)
	return nil
}

// publishFilled 发布成交事件
func (e *Engine) publishFilled(o *order.Order, fillPrice float64) {
	if e.bus == nil {
		return
	}
	e.bus.Publish(&event.Event{
		Type: event.EventTypeOrderFilled,
		Data: event.BuildOrderData(o.Symbol, string(o.Side), o.Quantity, fillPrice, ""),
	})
}

// publishRejected 发布拒单事件
func (e *Engine) publishRejected(o *order.Order, reason string) {
	if e.bus == nil {
		return
	}
	e.bus.Publish(&event.Event{
		Type: event.EventTypeOrderRejected,
		Data: event.BuildOrderData(o.Symbol, string(o.Side), o.Quantity, o.Price, reason),
	})
}
