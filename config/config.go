package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// StrategyConfig 单个策略配置
type StrategyConfig struct {
	Type    string   `yaml:"type" json:"type"`       // ma_cross / momentum
	Symbols []string `yaml:"symbols" json:"symbols"` // 绑定的交易标的，每个标的一个独立实例

	// ma_cross 参数
	ShortWindow int `yaml:"short_window" json:"short_window"`
	LongWindow  int `yaml:"long_window" json:"long_window"`

	// momentum 参数
	Lookback int `yaml:"lookback" json:"lookback"`

	// 通用参数
	Quantity int `yaml:"quantity" json:"quantity"` // 每次信号的固定数量
}

// GeneratorSymbolConfig 行情生成器的单标的配置
type GeneratorSymbolConfig struct {
	Symbol     string  `yaml:"symbol"`
	BasePrice  float64 `yaml:"base_price"`
	Count      int     `yaml:"count"`
	Volatility float64 `yaml:"volatility"`
	TrendRate  float64 `yaml:"trend_rate"` // 每步漂移比例，0 表示纯随机游走
}

// Config 回测系统配置
type Config struct {
	App struct {
		LogLevel string `yaml:"log_level"` // debug/info/warn/error
		Timezone string `yaml:"timezone"`  // 如 UTC、Asia/Shanghai
	} `yaml:"app"`

	Backtest struct {
		InitialCash     float64 `yaml:"initial_cash"`
		FailProbability float64 `yaml:"fail_probability"` // 模拟执行失败概率，生产默认0
		Seed            int64   `yaml:"seed"`             // 故障注入随机源种子
		DataFile        string  `yaml:"data_file"`        // 行情CSV路径，为空时使用生成器
		ReportDir       string  `yaml:"report_dir"`
	} `yaml:"backtest"`

	Generator struct {
		Seed            int64                   `yaml:"seed"`
		IntervalSeconds int                     `yaml:"interval_seconds"`
		Symbols         []GeneratorSymbolConfig `yaml:"symbols"`
	} `yaml:"generator"`

	Strategies []StrategyConfig `yaml:"strategies"`

	Storage struct {
		Enabled bool   `yaml:"enabled"`
		Type    string `yaml:"type"` // sqlite / postgres / mysql
		DSN     string `yaml:"dsn"`
	} `yaml:"storage"`

	Web struct {
		Enabled   bool    `yaml:"enabled"`
		Listen    string  `yaml:"listen"`
		RateLimit float64 `yaml:"rate_limit"` // 每秒请求数
		RateBurst int     `yaml:"rate_burst"`
	} `yaml:"web"`

	Monitor struct {
		Enabled         bool `yaml:"enabled"`
		IntervalSeconds int  `yaml:"interval_seconds"`
	} `yaml:"monitor"`
}

// LoadConfig 加载配置文件
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyDefaults 填充默认值
func (c *Config) ApplyDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.Timezone == "" {
		c.App.Timezone = "UTC"
	}
	if c.Backtest.InitialCash == 0 {
		c.Backtest.InitialCash = 100000
	}
	if c.Backtest.Seed == 0 {
		c.Backtest.Seed = 1
	}
	if c.Backtest.ReportDir == "" {
		c.Backtest.ReportDir = "reports"
	}
	if c.Generator.IntervalSeconds <= 0 {
		c.Generator.IntervalSeconds = 1
	}
	if c.Generator.Seed == 0 {
		c.Generator.Seed = 1
	}
	if c.Storage.Type == "" {
		c.Storage.Type = "sqlite"
	}
	if c.Storage.DSN == "" {
		c.Storage.DSN = "data/tickmill.db"
	}
	if c.Web.Listen == "" {
		c.Web.Listen = ":8080"
	}
	if c.Web.RateLimit <= 0 {
		c.Web.RateLimit = 50
	}
	if c.Web.RateBurst <= 0 {
		c.Web.RateBurst = 100
	}
	if c.Monitor.IntervalSeconds <= 0 {
		c.Monitor.IntervalSeconds = 30
	}

	for i := range c.Strategies {
		sc := &c.Strategies[i]
		if sc.Quantity <= 0 {
			sc.Quantity = 10
		}
		switch sc.Type {
		case "ma_cross":
			if sc.ShortWindow <= 0 {
				sc.ShortWindow = 5
			}
			if sc.LongWindow <= 0 {
				sc.LongWindow = 10
			}
		case "momentum":
			if sc.Lookback <= 0 {
				sc.Lookback = 5
			}
		}
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.Backtest.InitialCash < 0 {
		return fmt.Errorf("初始资金不能为负: %.2f", c.Backtest.InitialCash)
	}
	if c.Backtest.FailProbability < 0 || c.Backtest.FailProbability > 1 {
		return fmt.Errorf("模拟失败概率必须在 [0,1] 区间: %.4f", c.Backtest.FailProbability)
	}

	for i, sc := range c.Strategies {
		if len(sc.Symbols) == 0 {
			return fmt.Errorf("策略 #%d (%s) 未配置交易标的", i, sc.Type)
		}
		switch sc.Type {
		case "ma_cross":
			if sc.ShortWindow >= sc.LongWindow {
				return fmt.Errorf("策略 #%d 短期窗口必须小于长期窗口: short=%d long=%d", i, sc.ShortWindow, sc.LongWindow)
			}
		case "momentum":
			if sc.Lookback < 2 {
				return fmt.Errorf("策略 #%d 动量回看窗口至少为2: %d", i, sc.Lookback)
			}
		default:
			return fmt.Errorf("策略 #%d 类型未知: %q", i, sc.Type)
		}
	}

	switch c.Storage.Type {
	case "sqlite", "postgres", "postgresql", "mysql":
	default:
		return fmt.Errorf("不支持的存储类型: %s", c.Storage.Type)
	}

	return nil
}
