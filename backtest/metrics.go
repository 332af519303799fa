package backtest

import (
	"math"
)

// 年化因子: 假设每个周期为一个交易日，一年252个交易日
const annualizationPeriods = 252

// PerformanceMetrics 绩效指标
type PerformanceMetrics struct {
	InitialEquity float64   `json:"initial_equity"`
	FinalEquity   float64   `json:"final_equity"`
	TotalReturn   float64   `json:"total_return"`
	PeriodReturns []float64 `json:"period_returns"`
	Sharpe        float64   `json:"sharpe"`
	MaxDrawdown   float64   `json:"max_drawdown"`
}

// CalculatePerformance 从完整的权益曲线计算绩效指标
// 曲线为空时返回 nil——表示"尚未回测"，不是错误
func CalculatePerformance(equity []EquityPoint) *PerformanceMetrics {
	if len(equity) == 0 {
		return nil
	}

	initial := equity[0].Equity
	final := equity[len(equity)-1].Equity

	totalReturn := 0.0
	if initial != 0 {
		totalReturn = final/initial - 1.0
	}

	returns := calculatePeriodReturns(equity)

	return &PerformanceMetrics{
		InitialEquity: initial,
		FinalEquity:   final,
		TotalReturn:   totalReturn,
		PeriodReturns: returns,
		Sharpe:        calculateSharpe(returns),
		MaxDrawdown:   calculateMaxDrawdown(equity),
	}
}

// calculatePeriodReturns 计算逐期收益率序列
// 前一期权益为0时该期收益记0，避免除零
func calculatePeriodReturns(equity []EquityPoint) []float64 {
	if len(equity) < 2 {
		return []float64{}
	}

	returns := make([]float64, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].Equity
		if prev == 0 {
			returns[i-1] = 0.0
			continue
		}
		returns[i-1] = equity[i].Equity/prev - 1.0
	}
	return returns
}

// calculateSharpe 计算年化夏普比率
// 使用样本标准差（n-1）；收益率不足2个或标准差为0时返回0
func calculateSharpe(returns []float64) float64 {
	if len(returns) < 2 {
		return 0.0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		diff := r - mean
		variance += diff * diff
	}
	variance /= float64(len(returns) - 1)
	stdDev := math.Sqrt(variance)

	if stdDev == 0 {
		return 0.0
	}

	return mean / stdDev * math.Sqrt(annualizationPeriods)
}

// calculateMaxDrawdown 计算最大回撤
// 对每个点取 (峰值-当前)/峰值，峰值为0时记0
func calculateMaxDrawdown(equity []EquityPoint) float64 {
	if len(equity) == 0 {
		return 0.0
	}

	peak := equity[0].Equity
	maxDrawdown := 0.0

	for _, point := range equity {
		if point.Equity > peak {
			peak = point.Equity
		}
		if peak > 0 {
			drawdown := (peak - point.Equity) / peak
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}

	return maxDrawdown
}
