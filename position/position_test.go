package position

import (
	"math"
	"testing"

	"tickmill/order"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestApplyFillBuildAndBlend 测试建仓与同向加仓的平均成本混合
func TestApplyFillBuildAndBlend(t *testing.T) {
	t.Log("测试建仓与加仓的平均成本...")

	pos := NewPosition("BTCUSDT")

	pos.ApplyFill(order.SideBuy, 10, 100)
	if pos.Quantity != 10 || !almostEqual(pos.AvgPrice, 100) {
		t.Errorf("建仓后持仓错误: qty=%d avg=%.4f", pos.Quantity, pos.AvgPrice)
	}

	// 10@100 + 10@110 → 20@105
	pos.ApplyFill(order.SideBuy, 10, 110)
	if pos.Quantity != 20 || !almostEqual(pos.AvgPrice, 105) {
		t.Errorf("加仓后持仓错误: qty=%d avg=%.4f，期望 20@105", pos.Quantity, pos.AvgPrice)
	}

	if err := pos.CheckInvariant(); err != nil {
		t.Errorf("持仓不变量被破坏: %v", err)
	}

	t.Logf("✅ 加仓混合正确: %d @ %.2f", pos.Quantity, pos.AvgPrice)
}

// TestApplyFillReduce 测试减仓不改变平均成本
func TestApplyFillReduce(t *testing.T) {
	pos := NewPosition("BTCUSDT")
	pos.ApplyFill(order.SideBuy, 20, 105)

	pos.ApplyFill(order.SideSell, 5, 120)
	if pos.Quantity != 15 {
		t.Errorf("减仓后数量错误: %d", pos.Quantity)
	}
	if !almostEqual(pos.AvgPrice, 105) {
		t.Errorf("减仓不应改变平均成本: %.4f", pos.AvgPrice)
	}
}

// TestApplyFillClose 测试恰好平仓后成本归零
func TestApplyFillClose(t *testing.T) {
	pos := NewPosition("ETHUSDT")
	pos.ApplyFill(order.SideBuy, 10, 3000)
	pos.ApplyFill(order.SideSell, 10, 3100)

	if !pos.Flat() {
		t.Errorf("平仓后应为空仓: qty=%d", pos.Quantity)
	}
	if pos.AvgPrice != 0 {
		t.Errorf("平仓后平均成本应归零: %.4f", pos.AvgPrice)
	}
	if err := pos.CheckInvariant(); err != nil {
		t.Errorf("持仓不变量被破坏: %v", err)
	}
}

// TestApplyFillCrossZero 测试穿越零点后成本基准重置
func TestApplyFillCrossZero(t *testing.T) {
	t.Log("测试多头穿越零点转空头...")

	pos := NewPosition("BTCUSDT")
	pos.ApplyFill(order.SideBuy, 10, 100)

	// 卖出15：平掉10个多头后开5个空头，成本基准重置为110
	pos.ApplyFill(order.SideSell, 15, 110)
	if pos.Quantity != -5 {
		t.Errorf("穿越后数量错误: %d，期望 -5", pos.Quantity)
	}
	if !almostEqual(pos.AvgPrice, 110) {
		t.Errorf("穿越后成本基准应重置为110: %.4f", pos.AvgPrice)
	}

	t.Logf("✅ 穿越零点正确: %d @ %.2f", pos.Quantity, pos.AvgPrice)
}

// TestApplyFillShortSide 测试空头方向的对称行为
func TestApplyFillShortSide(t *testing.T) {
	pos := NewPosition("BTCUSDT")

	// 空仓直接卖出开空
	pos.ApplyFill(order.SideSell, 10, 200)
	if pos.Quantity != -10 || !almostEqual(pos.AvgPrice, 200) {
		t.Errorf("开空后持仓错误: qty=%d avg=%.4f", pos.Quantity, pos.AvgPrice)
	}

	// 空头加仓: -10@200 再卖10@180 → -20@190
	pos.ApplyFill(order.SideSell, 10, 180)
	if pos.Quantity != -20 || !almostEqual(pos.AvgPrice, 190) {
		t.Errorf("空头加仓错误: qty=%d avg=%.4f，期望 -20@190", pos.Quantity, pos.AvgPrice)
	}

	// 空头减仓不改成本
	pos.ApplyFill(order.SideBuy, 5, 170)
	if pos.Quantity != -15 || !almostEqual(pos.AvgPrice, 190) {
		t.Errorf("空头减仓错误: qty=%d avg=%.4f", pos.Quantity, pos.AvgPrice)
	}
}

// TestMarketValueAndPnL 测试市值与浮动盈亏
func TestMarketValueAndPnL(t *testing.T) {
	pos := NewPosition("BTCUSDT")
	pos.ApplyFill(order.SideBuy, 10, 100)

	if !almostEqual(pos.MarketValue(110), 1100) {
		t.Errorf("市值计算错误: %.4f", pos.MarketValue(110))
	}
	if !almostEqual(pos.UnrealizedPnL(110), 100) {
		t.Errorf("浮动盈亏计算错误: %.4f", pos.UnrealizedPnL(110))
	}

	// 空头: 价格下跌盈利
	short := NewPosition("ETHUSDT")
	short.ApplyFill(order.SideSell, 10, 100)
	if !almostEqual(short.UnrealizedPnL(90), 100) {
		t.Errorf("空头浮动盈亏计算错误: %.4f", short.UnrealizedPnL(90))
	}

	// 空仓贡献为0
	flat := NewPosition("X")
	if flat.MarketValue(100) != 0 || flat.UnrealizedPnL(100) != 0 {
		t.Error("空仓市值与盈亏应为0")
	}
}
