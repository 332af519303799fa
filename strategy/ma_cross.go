package strategy

import (
	"fmt"

	"tickmill/market"
	"tickmill/order"
)

// MovingAverageCrossover 均线交叉策略
// 短期均线上穿长期均线时买入固定数量；下穿时卖出累计的逻辑持仓（一次性平掉），
// 而不是固定数量——两种口径中选择了"平仓"口径并在此固定
type MovingAverageCrossover struct {
	symbol      string
	shortWindow int
	longWindow  int
	quantity    int

	// 滚动状态
	prices    []float64
	prevShort float64
	prevLong  float64
	lastCross order.Side // 最近一次触发的交叉方向，防止平位重复触发
	netQty    int        // 策略自身跟踪的逻辑持仓（仅用于决定SELL数量）
}

// NewMovingAverageCrossover 创建均线交叉策略
// 要求 0 < shortWindow < longWindow，quantity > 0
func NewMovingAverageCrossover(symbol string, shortWindow, longWindow, quantity int) (*MovingAverageCrossover, error) {
	if shortWindow <= 0 || longWindow <= 0 || shortWindow >= longWindow {
		return nil, fmt.Errorf("均线窗口参数非法: short=%d long=%d", shortWindow, longWindow)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("信号数量必须大于0: %d", quantity)
	}
	return &MovingAverageCrossover{
		symbol:      symbol,
		shortWindow: shortWindow,
		longWindow:  longWindow,
		quantity:    quantity,
		prices:      make([]float64, 0, longWindow),
	}, nil
}

// Name 返回策略名称
func (s *MovingAverageCrossover) Name() string {
	return fmt.Sprintf("ma_cross(%d,%d)", s.shortWindow, s.longWindow)
}

// Symbol 返回策略绑定的交易标的
func (s *MovingAverageCrossover) Symbol() string {
	return s.symbol
}

// GenerateSignals 处理一个tick，在均线交叉点产生信号
func (s *MovingAverageCrossover) GenerateSignals(tick market.Tick) []*order.Signal {
	if tick.Symbol != s.symbol {
		return nil
	}

	// 有界滚动窗口，只保留最近 longWindow 个价格
	s.prices = append(s.prices, tick.Price)
	if len(s.prices) > s.longWindow {
		s.prices = s.prices[1:]
	}

	shortMA, okShort := movingAverage(s.prices, s.shortWindow)
	longMA, okLong := movingAverage(s.prices, s.longWindow)
	if !okShort || !okLong {
		// 窗口未满，均线未定义
		return nil
	}

	var signals []*order.Signal

	// 两侧均线始终持平不构成交叉，避免平位反复触发
	flatTie := s.prevShort == s.prevLong && shortMA == longMA

	upCross := s.prevShort <= s.prevLong && shortMA >= longMA
	downCross := s.prevShort >= s.prevLong && shortMA <= longMA

	switch {
	case upCross && !flatTie && s.lastCross != order.SideBuy:
		signals = append(signals, &order.Signal{
			Side:     order.SideBuy,
			Symbol:   tick.Symbol,
			Quantity: s.quantity,
			Price:    tick.Price,
		})
		s.netQty += s.quantity
		s.lastCross = order.SideBuy

	case downCross && !flatTie && s.lastCross != order.SideSell:
		// 下穿时平掉累计持仓；没有持仓就只记录交叉方向，不发信号
		if s.netQty > 0 {
			signals = append(signals, &order.Signal{
				Side:     order.SideSell,
				Symbol:   tick.Symbol,
				Quantity: s.netQty,
				Price:    tick.Price,
			})
			s.netQty = 0
		}
		s.lastCross = order.SideSell
	}

	s.prevShort = shortMA
	s.prevLong = longMA

	return signals
}
