package strategy

import (
	"tickmill/market"
	"tickmill/order"
)

// Strategy 策略接口
// GenerateSignals 每个tick调用一次，只读写策略自身的滚动状态，不触碰账本；
// 非本策略标的的tick直接忽略（返回空）
type Strategy interface {
	Name() string
	Symbol() string
	GenerateSignals(tick market.Tick) []*order.Signal
}

// movingAverage 计算最近 window 个价格的算术平均
// 数据不足时返回 false
func movingAverage(prices []float64, window int) (float64, bool) {
	if window <= 0 || len(prices) < window {
		return 0, false
	}
	sum := 0.0
	for _, p := range prices[len(prices)-window:] {
		sum += p
	}
	return sum / float64(window), true
}
