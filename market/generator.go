package market

import (
	"math/rand"
	"time"
)

// Generator 随机游走行情生成器（可设定种子，保证回测可复现）
type Generator struct {
	rng      *rand.Rand
	interval time.Duration
}

// NewGenerator 创建行情生成器
func NewGenerator(seed int64, interval time.Duration) *Generator {
	if interval <= 0 {
		interval = time.Second
	}
	return &Generator{
		rng:      rand.New(rand.NewSource(seed)),
		interval: interval,
	}
}

// Generate 为单个交易标的生成随机游走行情序列
// basePrice 为起始价格，volatility 为每步的最大波动比例（如 0.01 表示 1%）
func (g *Generator) Generate(symbol string, count int, basePrice, volatility float64, start time.Time) []Tick {
	ticks := make([]Tick, 0, count)
	price := basePrice

	for i := 0; i < count; i++ {
		// 随机波动，均值为0
		change := (g.rng.Float64()*2 - 1) * volatility * price
		price += change
		if price < basePrice*0.01 {
			price = basePrice * 0.01
		}

		ticks = append(ticks, Tick{
			Timestamp: start.Add(time.Duration(i) * g.interval),
			Symbol:    symbol,
			Price:     price,
		})
	}

	return ticks
}

// GenerateTrending 生成带趋势的行情序列（trendRate 为每步漂移比例，可为负）
func (g *Generator) GenerateTrending(symbol string, count int, basePrice, trendRate, volatility float64, start time.Time) []Tick {
	ticks := make([]Tick, 0, count)
	price := basePrice

	for i := 0; i < count; i++ {
		drift := price * trendRate
		noise := (g.rng.Float64()*2 - 1) * volatility * price
		price += drift + noise
		if price < basePrice*0.01 {
			price = basePrice * 0.01
		}

		ticks = append(ticks, Tick{
			Timestamp: start.Add(time.Duration(i) * g.interval),
			Symbol:    symbol,
			Price:     price,
		})
	}

	return ticks
}
