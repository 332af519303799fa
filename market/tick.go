package market

import (
	"fmt"
	"time"
)

// Tick 单个时间戳的价格观测（不可变值对象）
type Tick struct {
	Timestamp time.Time `json:"timestamp"`
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
}

// String 返回可读的Tick描述
func (t Tick) String() string {
	return fmt.Sprintf("%s %s @ %.4f", t.Timestamp.Format(time.RFC3339), t.Symbol, t.Price)
}

// GroupBySymbol 按交易标的分组行情序列（每组内保持原有顺序）
func GroupBySymbol(ticks []Tick) map[string][]Tick {
	grouped := make(map[string][]Tick)
	for _, t := range ticks {
		grouped[t.Symbol] = append(grouped[t.Symbol], t)
	}
	return grouped
}
