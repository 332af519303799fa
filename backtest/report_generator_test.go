package backtest

import (
	"os"
	"strings"
	"testing"
	"time"

	"tickmill/order"
	"tickmill/position"
)

func sampleResult() *RunResult {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &RunResult{
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
		InitialCash: 100000,
		FinalCash:   99000,
		Positions: map[string]*position.Position{
			"BTCUSDT": {Symbol: "BTCUSDT", Quantity: 10, AvgPrice: 100},
		},
		EquityCurve: map[string][]EquityPoint{
			"BTCUSDT": {
				{Timestamp: start, Equity: 100000},
				{Timestamp: start.Add(time.Minute), Equity: 100100},
			},
		},
		Trades: []*order.Trade{
			{Timestamp: start, Side: order.SideBuy, Symbol: "BTCUSDT", Quantity: 10, Price: 100, CashAfter: 99000},
		},
		Metrics: map[string]*PerformanceMetrics{
			"BTCUSDT": {InitialEquity: 100000, FinalEquity: 100100, TotalReturn: 0.001},
		},
		RiskMetrics: map[string]RiskMetrics{
			"BTCUSDT": {VaR95: 0.01, CVaR95: 0.015},
		},
		SymbolErrors: map[string]string{
			"ETHUSDT": "no ticks were provided",
		},
	}
}

// TestGenerateReport 测试Markdown报告生成
func TestGenerateReport(t *testing.T) {
	t.Log("测试报告生成...")

	dir := t.TempDir()
	path, err := GenerateReport(sampleResult(), dir)
	if err != nil {
		t.Fatalf("生成报告失败: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取报告失败: %v", err)
	}
	content := string(data)

	for _, want := range []string{"BTCUSDT", "100000.00", "99000.00", "ETHUSDT: no ticks were provided"} {
		if !strings.Contains(content, want) {
			t.Errorf("报告缺少内容: %q", want)
		}
	}

	t.Logf("✅ 报告已生成: %s", path)
}

// TestGenerateReportNil 测试空结果被拒绝
func TestGenerateReportNil(t *testing.T) {
	if _, err := GenerateReport(nil, t.TempDir()); err == nil {
		t.Error("空结果应返回错误")
	}
}

// TestSaveEquityCurveCSV 测试权益曲线导出
func TestSaveEquityCurveCSV(t *testing.T) {
	dir := t.TempDir()
	paths, err := SaveEquityCurveCSV(sampleResult(), dir)
	if err != nil {
		t.Fatalf("导出权益曲线失败: %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("导出文件数量错误: %d", len(paths))
	}

	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatalf("读取权益曲线文件失败: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	// 表头 + 2个权益点
	if len(lines) != 3 {
		t.Errorf("权益曲线行数错误: %d", len(lines))
	}
	if lines[0] != "timestamp,equity" {
		t.Errorf("表头错误: %s", lines[0])
	}
}
