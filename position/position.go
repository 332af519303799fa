package position

import (
	"fmt"

	"tickmill/order"
)

// Position 持仓
// Quantity 带符号：正数为净多头，负数为净空头，0为空仓
// 不变量: AvgPrice == 0 当且仅当 Quantity == 0
type Position struct {
	Symbol   string  `json:"symbol"`
	Quantity int     `json:"quantity"`
	AvgPrice float64 `json:"avg_price"`
}

// NewPosition 创建空仓
func NewPosition(symbol string) *Position {
	return &Position{Symbol: symbol}
}

// Flat 是否空仓
func (p *Position) Flat() bool {
	return p.Quantity == 0
}

// ApplyFill 将一笔成交计入持仓，维护带符号数量与移动平均成本
// 规则（多空对称）:
//   - 空仓建仓: 成本基准为成交价
//   - 同向加仓: 按数量加权混合平均成本
//   - 同向减仓（未过零）: 平均成本不变
//   - 恰好平仓: 平均成本归零
//   - 穿越零点反向: 成本基准重置为本次成交价，不与已平掉的一侧混合
func (p *Position) ApplyFill(side order.Side, qty int, fillPrice float64) {
	delta := qty
	if side == order.SideSell {
		delta = -qty
	}
	newQty := p.Quantity + delta

	switch {
	case p.Quantity == 0:
		// 空仓建仓（多头或空头）
		p.AvgPrice = fillPrice
	case newQty == 0:
		// 恰好平仓
		p.AvgPrice = 0.0
	case (p.Quantity > 0) == (newQty > 0):
		// 同向
		if abs(newQty) > abs(p.Quantity) {
			// 加仓：数量加权混合
			oldAbs := float64(abs(p.Quantity))
			newAbs := float64(abs(newQty))
			p.AvgPrice = (oldAbs*p.AvgPrice + float64(qty)*fillPrice) / newAbs
		}
		// 减仓：平均成本不变
	default:
		// 穿越零点，成本基准重置为反转成交价
		p.AvgPrice = fillPrice
	}

	p.Quantity = newQty
}

// MarketValue 按标记价格计算持仓市值（带符号）
func (p *Position) MarketValue(markPrice float64) float64 {
	if p.Quantity == 0 {
		return 0
	}
	return float64(p.Quantity) * markPrice
}

// UnrealizedPnL 按标记价格计算浮动盈亏
func (p *Position) UnrealizedPnL(markPrice float64) float64 {
	if p.Quantity == 0 {
		return 0
	}
	return float64(p.Quantity) * (markPrice - p.AvgPrice)
}

// CheckInvariant 校验持仓不变量（用于测试与对账）
func (p *Position) CheckInvariant() error {
	if (p.Quantity == 0) != (p.AvgPrice == 0.0) {
		return fmt.Errorf("持仓不变量被破坏: %s quantity=%d avg_price=%.8f", p.Symbol, p.Quantity, p.AvgPrice)
	}
	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
