package market

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"tickmill/logger"
)

// LoadCSV 从CSV文件加载行情数据
// 文件格式: timestamp,symbol,price（第一行为表头）
func LoadCSV(path string) ([]Tick, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开行情文件失败: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("读取行情文件失败: %w", err)
	}

	ticks := make([]Tick, 0, len(records))
	for i, record := range records {
		// 第一行是表头
		if i == 0 {
			continue
		}
		if len(record) < 3 {
			logger.Warn("⚠️ 第 %d 行字段不足，已跳过: %v", i+1, record)
			continue
		}

		timestamp, err := time.Parse(time.RFC3339, record[0])
		if err != nil {
			// 兼容无时区的时间格式
			timestamp, err = time.Parse("2006-01-02 15:04:05", record[0])
			if err != nil {
				logger.Warn("⚠️ 第 %d 行时间戳解析失败，已跳过: %s", i+1, record[0])
				continue
			}
		}

		price, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			logger.Warn("⚠️ 第 %d 行价格解析失败，已跳过: %s", i+1, record[2])
			continue
		}

		ticks = append(ticks, Tick{
			Timestamp: timestamp,
			Symbol:    record[1],
			Price:     price,
		})
	}

	logger.Info("✅ 行情数据加载完成: %s, 共 %d 条", path, len(ticks))
	return ticks, nil
}

// SaveCSV 将行情数据写入CSV文件（供生成器落盘复用）
func SaveCSV(path string, ticks []Tick) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建行情文件失败: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"timestamp", "symbol", "price"}); err != nil {
		return fmt.Errorf("写入表头失败: %w", err)
	}

	for _, t := range ticks {
		record := []string{
			t.Timestamp.Format(time.RFC3339),
			t.Symbol,
			strconv.FormatFloat(t.Price, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("写入行情记录失败: %w", err)
		}
	}

	return nil
}
