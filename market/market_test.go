package market

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestGeneratorDeterministic 测试相同种子生成相同序列
func TestGeneratorDeterministic(t *testing.T) {
	t.Log("测试生成器可复现性...")

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	a := NewGenerator(42, time.Minute).Generate("BTCUSDT", 100, 65000, 0.01, start)
	b := NewGenerator(42, time.Minute).Generate("BTCUSDT", 100, 65000, 0.01, start)

	if len(a) != 100 || len(b) != 100 {
		t.Fatalf("生成数量错误: %d / %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("第 %d 个tick不一致: %v vs %v", i, a[i], b[i])
		}
	}

	// 不同种子应产生不同序列
	c := NewGenerator(43, time.Minute).Generate("BTCUSDT", 100, 65000, 0.01, start)
	same := true
	for i := range a {
		if a[i].Price != c[i].Price {
			same = false
			break
		}
	}
	if same {
		t.Error("不同种子不应产生完全相同的序列")
	}

	t.Log("✅ 生成器可复现")
}

// TestGeneratorPriceFloor 测试价格下限保护
func TestGeneratorPriceFloor(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// 强负漂移行情，价格应被压在下限之上而不是变成负数
	ticks := NewGenerator(7, time.Second).GenerateTrending("BTCUSDT", 5000, 100, -0.05, 0.01, start)
	for _, tick := range ticks {
		if tick.Price <= 0 {
			t.Fatalf("价格不应为非正数: %v", tick)
		}
	}
}

// TestGeneratorTimestamps 测试时间戳按间隔递增
func TestGeneratorTimestamps(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ticks := NewGenerator(1, time.Minute).Generate("BTCUSDT", 10, 100, 0.01, start)

	for i, tick := range ticks {
		expected := start.Add(time.Duration(i) * time.Minute)
		if !tick.Timestamp.Equal(expected) {
			t.Errorf("第 %d 个tick时间戳错误: %v", i, tick.Timestamp)
		}
	}
}

// TestGroupBySymbol 测试按标的分组且保持组内顺序
func TestGroupBySymbol(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ticks := []Tick{
		{Timestamp: start, Symbol: "BTCUSDT", Price: 100},
		{Timestamp: start.Add(time.Minute), Symbol: "ETHUSDT", Price: 10},
		{Timestamp: start.Add(2 * time.Minute), Symbol: "BTCUSDT", Price: 101},
	}

	grouped := GroupBySymbol(ticks)
	if len(grouped) != 2 {
		t.Fatalf("分组数量错误: %d", len(grouped))
	}
	if len(grouped["BTCUSDT"]) != 2 || len(grouped["ETHUSDT"]) != 1 {
		t.Errorf("组内数量错误: BTC=%d ETH=%d", len(grouped["BTCUSDT"]), len(grouped["ETHUSDT"]))
	}
	if grouped["BTCUSDT"][0].Price != 100 || grouped["BTCUSDT"][1].Price != 101 {
		t.Error("组内顺序应与输入一致")
	}
}

// TestCSVRoundTrip 测试行情CSV落盘与加载
func TestCSVRoundTrip(t *testing.T) {
	t.Log("测试CSV读写...")

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	original := NewGenerator(42, time.Minute).Generate("BTCUSDT", 50, 65000, 0.01, start)

	path := filepath.Join(t.TempDir(), "ticks.csv")
	if err := SaveCSV(path, original); err != nil {
		t.Fatalf("保存CSV失败: %v", err)
	}

	loaded, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("加载CSV失败: %v", err)
	}
	if len(loaded) != len(original) {
		t.Fatalf("加载数量错误: %d，期望 %d", len(loaded), len(original))
	}
	for i := range loaded {
		if loaded[i].Symbol != original[i].Symbol {
			t.Errorf("第 %d 条标的不一致", i)
		}
		if !loaded[i].Timestamp.Equal(original[i].Timestamp) {
			t.Errorf("第 %d 条时间戳不一致", i)
		}
		if loaded[i].Price != original[i].Price {
			t.Errorf("第 %d 条价格不一致: %v vs %v", i, loaded[i].Price, original[i].Price)
		}
	}

	t.Logf("✅ CSV往返一致: %d 条", len(loaded))
}

// TestLoadCSVSkipsBadRows 测试坏行被跳过而不是中止加载
func TestLoadCSVSkipsBadRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	content := "timestamp,symbol,price\n" +
		"2024-01-01T00:00:00Z,BTCUSDT,100.5\n" +
		"not-a-time,BTCUSDT,101\n" +
		"2024-01-01T00:02:00Z,BTCUSDT,abc\n" +
		"2024-01-01 00:03:00,BTCUSDT,102.5\n"

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("写入测试文件失败: %v", err)
	}

	ticks, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("加载CSV失败: %v", err)
	}
	// 第一行与无时区格式的最后一行有效，中间两行被跳过
	if len(ticks) != 2 {
		t.Errorf("有效行数量错误: %d，期望 2", len(ticks))
	}
}
