package order

// Validate 校验订单是否合法
// 规则: 数量必须大于0（平仓用方向+正数量表达，不允许负数穿透）；方向必须是 BUY/SELL
func Validate(o *Order) error {
	if o.Quantity <= 0 {
		return NewValidationError("订单数量必须大于0，得到 %d", o.Quantity)
	}

	switch o.Side {
	case SideBuy, SideSell:
	default:
		return NewValidationError("未知订单方向: %q", o.Side)
	}

	return nil
}
