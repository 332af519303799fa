package storage

import "time"

// RunRecord 回测运行记录
type RunRecord struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	StartTime   time.Time `gorm:"index"`
	EndTime     time.Time
	InitialCash float64
	FinalCash   float64
	TradeCount  int
	CreatedAt   time.Time
}

// TradeRecord 成交记录
type TradeRecord struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	RunID     int64  `gorm:"index"`
	Symbol    string `gorm:"index"`
	Side      string
	Quantity  int
	Price     float64
	CashAfter float64
	Timestamp time.Time `gorm:"index"`
	CreatedAt time.Time
}

// EquityRecord 权益点记录
type EquityRecord struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	RunID     int64  `gorm:"index"`
	Symbol    string `gorm:"index"`
	Equity    float64
	Timestamp time.Time `gorm:"index"`
}

// MetricsRecord 分标的绩效记录
type MetricsRecord struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	RunID         int64  `gorm:"index"`
	Symbol        string `gorm:"index"`
	InitialEquity float64
	FinalEquity   float64
	TotalReturn   float64
	Sharpe        float64
	MaxDrawdown   float64
	VaR95         float64
	CVaR95        float64
}

// EventRecord 事件记录
type EventRecord struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Type      string `gorm:"index"`
	Details   string // JSON
	Timestamp time.Time
	CreatedAt time.Time
}

// LogRecord 日志记录
type LogRecord struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Level     string `gorm:"index"`
	Message   string
	CreatedAt time.Time `gorm:"index"`
}

// SystemMetricsRecord 系统资源采样记录
type SystemMetricsRecord struct {
	ID            int64 `gorm:"primaryKey;autoIncrement"`
	Timestamp     time.Time
	CPUPercent    float64
	MemoryMB      float64
	MemoryPercent float64
	ProcessID     int
}
