package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	"tickmill/backtest"
	"tickmill/event"
	"tickmill/logger"
	"tickmill/utils"
)

// Storage 存储服务
// 负责回测结果、成交、权益曲线、事件与日志的持久化
type Storage struct {
	db *gorm.DB
}

// New 创建存储服务并完成建表迁移
func New(dbType, dsn string) (*Storage, error) {
	// sqlite 需要保证数据目录存在
	if dbType == "sqlite" {
		dataDir := filepath.Dir(dsn)
		if dataDir != "" && dataDir != "." {
			if err := os.MkdirAll(dataDir, 0755); err != nil {
				return nil, fmt.Errorf("创建数据目录失败: %w", err)
			}
		}
	}

	db, err := openDB(dbType, dsn)
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&RunRecord{},
		&TradeRecord{},
		&EquityRecord{},
		&MetricsRecord{},
		&EventRecord{},
		&LogRecord{},
		&SystemMetricsRecord{},
	); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	logger.Info("✅ 存储已初始化: %s (%s)", dsn, dbType)
	return &Storage{db: db}, nil
}

// SaveRunResult 保存完整的回测结果（运行记录、成交、权益曲线、绩效）
func (s *Storage) SaveRunResult(result *backtest.RunResult) (int64, error) {
	if result == nil {
		return 0, fmt.Errorf("回测结果为空")
	}

	run := &RunRecord{
		StartTime:   utils.ToUTC(result.StartTime),
		EndTime:     utils.ToUTC(result.EndTime),
		InitialCash: result.InitialCash,
		FinalCash:   result.FinalCash,
		TradeCount:  len(result.Trades),
		CreatedAt:   utils.NowUTC(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return fmt.Errorf("保存运行记录失败: %w", err)
		}

		for _, trade := range result.Trades {
			record := &TradeRecord{
				RunID:     run.ID,
				Symbol:    trade.Symbol,
				Side:      string(trade.Side),
				Quantity:  trade.Quantity,
				Price:     trade.Price,
				CashAfter: trade.CashAfter,
				Timestamp: utils.ToUTC(trade.Timestamp),
				CreatedAt: utils.NowUTC(),
			}
			if err := tx.Create(record).Error; err != nil {
				return fmt.Errorf("保存成交记录失败: %w", err)
			}
		}

		for symbol, curve := range result.EquityCurve {
			for _, point := range curve {
				record := &EquityRecord{
					RunID:     run.ID,
					Symbol:    symbol,
					Equity:    point.Equity,
					Timestamp: utils.ToUTC(point.Timestamp),
				}
				if err := tx.Create(record).Error; err != nil {
					return fmt.Errorf("保存权益点失败: %w", err)
				}
			}
		}

		for symbol, m := range result.Metrics {
			risk := result.RiskMetrics[symbol]
			record := &MetricsRecord{
				RunID:         run.ID,
				Symbol:        symbol,
				InitialEquity: m.InitialEquity,
				FinalEquity:   m.FinalEquity,
				TotalReturn:   m.TotalReturn,
				Sharpe:        m.Sharpe,
				MaxDrawdown:   m.MaxDrawdown,
				VaR95:         risk.VaR95,
				CVaR95:        risk.CVaR95,
			}
			if err := tx.Create(record).Error; err != nil {
				return fmt.Errorf("保存绩效记录失败: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Info("✅ 回测结果已保存: run_id=%d, %d 笔成交", run.ID, len(result.Trades))
	return run.ID, nil
}

// SaveEvent 保存事件（实现 event.Sink）
func (s *Storage) SaveEvent(ev *event.Event) error {
	details, err := json.Marshal(ev.Data)
	if err != nil {
		details = []byte("{}")
	}

	record := &EventRecord{
		Type:      string(ev.Type),
		Details:   string(details),
		Timestamp: utils.ToUTC(ev.Timestamp),
		CreatedAt: utils.NowUTC(),
	}
	return s.db.Create(record).Error
}

// WriteLog 保存日志（挂接到 logger.InitLogStorage）
func (s *Storage) WriteLog(level, message string) {
	record := &LogRecord{
		Level:     level,
		Message:   message,
		CreatedAt: utils.NowUTC(),
	}
	// 日志写入失败不再递归记日志
	_ = s.db.Create(record).Error
}

// SaveSystemMetrics 保存系统资源采样
func (s *Storage) SaveSystemMetrics(timestamp time.Time, cpuPercent, memoryMB, memoryPercent float64, pid int) error {
	record := &SystemMetricsRecord{
		Timestamp:     utils.ToUTC(timestamp),
		CPUPercent:    cpuPercent,
		MemoryMB:      memoryMB,
		MemoryPercent: memoryPercent,
		ProcessID:     pid,
	}
	return s.db.Create(record).Error
}

// QueryRuns 查询最近的运行记录
func (s *Storage) QueryRuns(limit int) ([]*RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []*RunRecord
	err := s.db.Order("id DESC").Limit(limit).Find(&runs).Error
	return runs, err
}

// QueryTrades 查询指定运行的成交记录
func (s *Storage) QueryTrades(runID int64, limit, offset int) ([]*TradeRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	var trades []*TradeRecord
	query := s.db.Order("timestamp ASC").Limit(limit).Offset(offset)
	if runID > 0 {
		query = query.Where("run_id = ?", runID)
	}
	err := query.Find(&trades).Error
	return trades, err
}

// QueryEquityCurve 查询指定运行与标的的权益曲线
func (s *Storage) QueryEquityCurve(runID int64, symbol string) ([]*EquityRecord, error) {
	var points []*EquityRecord
	err := s.db.Where("run_id = ? AND symbol = ?", runID, symbol).
		Order("timestamp ASC").Find(&points).Error
	return points, err
}

// QueryMetrics 查询指定运行的绩效记录
func (s *Storage) QueryMetrics(runID int64) ([]*MetricsRecord, error) {
	var records []*MetricsRecord
	err := s.db.Where("run_id = ?", runID).Order("symbol ASC").Find(&records).Error
	return records, err
}

// CleanupLogs 清理过期日志
func (s *Storage) CleanupLogs(before time.Time) error {
	return s.db.Where("created_at < ?", utils.ToUTC(before)).Delete(&LogRecord{}).Error
}

// Close 关闭数据库连接
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
