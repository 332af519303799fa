package backtest

import (
	"math"
	"sort"
)

// RiskMetrics 风险指标
type RiskMetrics struct {
	VaR95  float64 `json:"var_95"`  // 95% 置信度的风险价值
	VaR99  float64 `json:"var_99"`  // 99% 置信度的风险价值
	CVaR95 float64 `json:"cvar_95"` // 95% 置信度的条件风险价值
	CVaR99 float64 `json:"cvar_99"` // 99% 置信度的条件风险价值
}

// CalculateRiskMetrics 从权益曲线计算风险指标（历史模拟法）
func CalculateRiskMetrics(equity []EquityPoint) RiskMetrics {
	if len(equity) < 2 {
		return RiskMetrics{}
	}

	returns := calculatePeriodReturns(equity)

	return RiskMetrics{
		VaR95:  calculateHistoricalVaR(returns, 0.95),
		VaR99:  calculateHistoricalVaR(returns, 0.99),
		CVaR95: calculateCVaR(returns, 0.95),
		CVaR99: calculateCVaR(returns, 0.99),
	}
}

// calculateHistoricalVaR 历史模拟法计算 VaR
func calculateHistoricalVaR(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)

	index := int(float64(len(sorted)) * (1 - confidence))
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	if index < 0 {
		index = 0
	}

	// VaR 是正数，表示损失
	return math.Abs(sorted[index])
}

// calculateCVaR 计算条件风险价值（尾部损失的均值）
func calculateCVaR(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)

	index := int(float64(len(sorted)) * (1 - confidence))
	if index < 1 {
		index = 1
	}
	if index > len(sorted) {
		index = len(sorted)
	}

	sum := 0.0
	for _, r := range sorted[:index] {
		sum += r
	}
	avg := sum / float64(index)

	return math.Abs(avg)
}
