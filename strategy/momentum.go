package strategy

import (
	"fmt"

	"tickmill/market"
	"tickmill/order"
)

// Momentum 动量策略
// 最近 lookback 个价格单调不减时买入、单调不增时卖出，每次固定数量
// 窗口内的平价视为仍然满足条件（非严格单调）；全部相等时按买入处理
type Momentum struct {
	symbol   string
	lookback int
	quantity int

	prices []float64
}

// NewMomentum 创建动量策略
func NewMomentum(symbol string, lookback, quantity int) (*Momentum, error) {
	if lookback < 2 {
		return nil, fmt.Errorf("动量回看窗口至少为2: %d", lookback)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("信号数量必须大于0: %d", quantity)
	}
	return &Momentum{
		symbol:   symbol,
		lookback: lookback,
		quantity: quantity,
		prices:   make([]float64, 0, lookback),
	}, nil
}

// Name 返回策略名称
func (s *Momentum) Name() string {
	return fmt.Sprintf("momentum(%d)", s.lookback)
}

// Symbol 返回策略绑定的交易标的
func (s *Momentum) Symbol() string {
	return s.symbol
}

// GenerateSignals 处理一个tick，窗口满且价格单调时产生信号
func (s *Momentum) GenerateSignals(tick market.Tick) []*order.Signal {
	if tick.Symbol != s.symbol {
		return nil
	}

	s.prices = append(s.prices, tick.Price)
	if len(s.prices) > s.lookback {
		s.prices = s.prices[1:]
	}
	if len(s.prices) < s.lookback {
		return nil
	}

	increasing := true
	decreasing := true
	for i := 0; i < len(s.prices)-1; i++ {
		if s.prices[i] > s.prices[i+1] {
			increasing = false
		}
		if s.prices[i] < s.prices[i+1] {
			decreasing = false
		}
	}

	switch {
	case increasing:
		return []*order.Signal{{
			Side:     order.SideBuy,
			Symbol:   tick.Symbol,
			Quantity: s.quantity,
			Price:    tick.Price,
		}}
	case decreasing:
		return []*order.Signal{{
			Side:     order.SideSell,
			Symbol:   tick.Symbol,
			Quantity: s.quantity,
			Price:    tick.Price,
		}}
	}

	return nil
}
