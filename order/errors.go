package order

import "fmt"

// ValidationError 订单校验错误（可恢复：丢弃订单，继续处理）
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("订单校验失败: %s", e.Reason)
}

// NewValidationError 创建订单校验错误
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ExecutionError 订单执行错误（可恢复：账本保持原状，继续处理下一笔）
type ExecutionError struct {
	Reason string
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("订单执行失败: %s", e.Reason)
}

// NewExecutionError 创建订单执行错误
func NewExecutionError(format string, args ...interface{}) *ExecutionError {
	return &ExecutionError{Reason: fmt.Sprintf(format, args...)}
}

// StrategyError 策略信号生成错误（可恢复：该策略本次不产生信号）
type StrategyError struct {
	Strategy string
	Reason   string
}

func (e *StrategyError) Error() string {
	return fmt.Sprintf("策略 %s 信号生成失败: %s", e.Strategy, e.Reason)
}

// NewStrategyError 创建策略错误
func NewStrategyError(strategy, format string, args ...interface{}) *StrategyError {
	return &StrategyError{Strategy: strategy, Reason: fmt.Sprintf(format, args...)}
}
