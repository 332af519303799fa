package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("写入临时配置失败: %v", err)
	}
	return path
}

// TestLoadConfigDefaults 测试缺省项被填充默认值
func TestLoadConfigDefaults(t *testing.T) {
	t.Log("测试配置默认值...")

	path := writeTempConfig(t, `
backtest:
  initial_cash: 50000
strategies:
  - type: ma_cross
    symbols: [BTCUSDT]
    short_window: 3
    long_window: 9
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}

	if cfg.App.LogLevel != "info" {
		t.Errorf("默认日志级别错误: %s", cfg.App.LogLevel)
	}
	if cfg.App.Timezone != "UTC" {
		t.Errorf("默认时区错误: %s", cfg.App.Timezone)
	}
	if cfg.Backtest.InitialCash != 50000 {
		t.Errorf("初始资金应保留配置值: %.2f", cfg.Backtest.InitialCash)
	}
	if cfg.Backtest.ReportDir != "reports" {
		t.Errorf("默认报告目录错误: %s", cfg.Backtest.ReportDir)
	}
	if cfg.Storage.Type != "sqlite" {
		t.Errorf("默认存储类型错误: %s", cfg.Storage.Type)
	}
	if cfg.Web.Listen != ":8080" {
		t.Errorf("默认监听地址错误: %s", cfg.Web.Listen)
	}
	if cfg.Strategies[0].Quantity != 10 {
		t.Errorf("策略默认数量错误: %d", cfg.Strategies[0].Quantity)
	}

	t.Log("✅ 默认值填充正确")
}

// TestLoadConfigInvalidFailProbability 测试失败概率越界被拒绝
func TestLoadConfigInvalidFailProbability(t *testing.T) {
	path := writeTempConfig(t, `
backtest:
  fail_probability: 1.5
`)
	if _, err := LoadConfig(path); err == nil {
		t.Error("失败概率大于1应返回错误")
	}
}

// TestLoadConfigInvalidWindows 测试均线窗口关系校验
func TestLoadConfigInvalidWindows(t *testing.T) {
	path := writeTempConfig(t, `
strategies:
  - type: ma_cross
    symbols: [BTCUSDT]
    short_window: 10
    long_window: 5
`)
	if _, err := LoadConfig(path); err == nil {
		t.Error("短期窗口不小于长期窗口应返回错误")
	}
}

// TestLoadConfigUnknownStrategy 测试未知策略类型被拒绝
func TestLoadConfigUnknownStrategy(t *testing.T) {
	path := writeTempConfig(t, `
strategies:
  - type: arbitrage
    symbols: [BTCUSDT]
`)
	if _, err := LoadConfig(path); err == nil {
		t.Error("未知策略类型应返回错误")
	}
}

// TestLoadConfigMissingSymbols 测试策略缺少标的被拒绝
func TestLoadConfigMissingSymbols(t *testing.T) {
	path := writeTempConfig(t, `
strategies:
  - type: momentum
    lookback: 5
`)
	if _, err := LoadConfig(path); err == nil {
		t.Error("策略未配置标的应返回错误")
	}
}

// TestLoadConfigMissingFile 测试文件不存在报错
func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("配置文件不存在应返回错误")
	}
}

// TestLoadConfigUnknownStorageType 测试未知存储类型被拒绝
func TestLoadConfigUnknownStorageType(t *testing.T) {
	path := writeTempConfig(t, `
storage:
  type: mongodb
  dsn: mongodb://localhost
`)
	if _, err := LoadConfig(path); err == nil {
		t.Error("未知存储类型应返回错误")
	}
}
