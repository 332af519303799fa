package strategy

import (
	"fmt"

	"tickmill/config"
	"tickmill/logger"
)

// BuildFromConfig 根据配置构建每个标的的策略列表
// 同一个策略配置在多个标的上会创建互相独立的实例（滚动状态不共享）
func BuildFromConfig(cfgs []config.StrategyConfig) (map[string][]Strategy, error) {
	strategies := make(map[string][]Strategy)

	for i, sc := range cfgs {
		for _, symbol := range sc.Symbols {
			var (
				s   Strategy
				err error
			)

			switch sc.Type {
			case "ma_cross":
				s, err = NewMovingAverageCrossover(symbol, sc.ShortWindow, sc.LongWindow, sc.Quantity)
			case "momentum":
				s, err = NewMomentum(symbol, sc.Lookback, sc.Quantity)
			default:
				err = fmt.Errorf("未知策略类型: %q", sc.Type)
			}

			if err != nil {
				return nil, fmt.Errorf("策略 #%d 构建失败: %w", i, err)
			}

			strategies[symbol] = append(strategies[symbol], s)
			logger.Info("✅ 策略已注册: %s → %s", symbol, s.Name())
		}
	}

	return strategies, nil
}
