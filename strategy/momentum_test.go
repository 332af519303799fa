package strategy

import (
	"testing"

	"tickmill/order"
)

// TestMomentumIncreasing 测试单调上涨触发买入
func TestMomentumIncreasing(t *testing.T) {
	t.Log("测试动量策略: 单调上涨...")

	s, err := NewMomentum("BTCUSDT", 3, 5)
	if err != nil {
		t.Fatalf("创建策略失败: %v", err)
	}

	batches := feedPrices(s, "BTCUSDT", 100, 101, 102)

	// 窗口未满的前两个tick不产生信号
	if len(batches[0]) != 0 || len(batches[1]) != 0 {
		t.Error("窗口未满时不应有信号")
	}
	if len(batches[2]) != 1 {
		t.Fatalf("窗口满且单调上涨应触发信号: 得到 %d 个", len(batches[2]))
	}
	sig := batches[2][0]
	if sig.Side != order.SideBuy || sig.Quantity != 5 {
		t.Errorf("信号错误: %s x%d", sig.Side, sig.Quantity)
	}

	t.Logf("✅ 上涨触发 %s x%d", sig.Side, sig.Quantity)
}

// TestMomentumDecreasing 测试单调下跌触发卖出
func TestMomentumDecreasing(t *testing.T) {
	s, err := NewMomentum("BTCUSDT", 3, 5)
	if err != nil {
		t.Fatalf("创建策略失败: %v", err)
	}

	signals := flatten(feedPrices(s, "BTCUSDT", 102, 101, 100))
	if len(signals) != 1 {
		t.Fatalf("单调下跌应触发一次卖出: 得到 %d 个", len(signals))
	}
	if signals[0].Side != order.SideSell {
		t.Errorf("信号方向错误: %s", signals[0].Side)
	}
}

// TestMomentumNonStrict 测试平价视为仍满足单调条件
func TestMomentumNonStrict(t *testing.T) {
	t.Log("测试动量策略: 非严格单调...")

	s, err := NewMomentum("BTCUSDT", 3, 5)
	if err != nil {
		t.Fatalf("创建策略失败: %v", err)
	}

	// [100, 100, 101] 非严格上涨 → 买入
	signals := flatten(feedPrices(s, "BTCUSDT", 100, 100, 101))
	if len(signals) != 1 || signals[0].Side != order.SideBuy {
		t.Errorf("非严格上涨应触发买入: %v", signals)
	}

	// 全部相等同时满足两个条件，买入优先
	s2, _ := NewMomentum("BTCUSDT", 3, 5)
	signals2 := flatten(feedPrices(s2, "BTCUSDT", 100, 100, 100))
	if len(signals2) != 1 || signals2[0].Side != order.SideBuy {
		t.Errorf("全部相等应按买入处理: %v", signals2)
	}

	t.Log("✅ 非严格单调行为正确")
}

// TestMomentumMixed 测试震荡行情不产生信号
func TestMomentumMixed(t *testing.T) {
	s, err := NewMomentum("BTCUSDT", 3, 5)
	if err != nil {
		t.Fatalf("创建策略失败: %v", err)
	}

	// [100, 103, 101] 既非上涨也非下跌
	signals := flatten(feedPrices(s, "BTCUSDT", 100, 103, 101))
	if len(signals) != 0 {
		t.Errorf("震荡行情不应有信号: 得到 %d 个", len(signals))
	}
}

// TestMomentumSlidingWindow 测试滚动窗口只看最近lookback个价格
func TestMomentumSlidingWindow(t *testing.T) {
	s, err := NewMomentum("BTCUSDT", 3, 5)
	if err != nil {
		t.Fatalf("创建策略失败: %v", err)
	}

	// 前段震荡，最后3个单调上涨 → 最后一个tick触发买入
	batches := feedPrices(s, "BTCUSDT", 105, 100, 103, 104, 106)
	last := batches[len(batches)-1]
	if len(last) != 1 || last[0].Side != order.SideBuy {
		t.Errorf("窗口滚动后应按最近3个价格判断: %v", last)
	}
}

// TestMomentumInvalidParams 测试非法参数被拒绝
func TestMomentumInvalidParams(t *testing.T) {
	if _, err := NewMomentum("BTCUSDT", 1, 5); err == nil {
		t.Error("回看窗口小于2应返回错误")
	}
	if _, err := NewMomentum("BTCUSDT", 3, 0); err == nil {
		t.Error("数量为0应返回错误")
	}
}
