package order

import (
	"time"

	"tickmill/utils"
)

// Side 订单方向
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Status 订单状态
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusFilled   Status = "FILLED"
	StatusRejected Status = "REJECTED"
)

// Signal 策略产生的交易信号（进入校验前的原始建议）
type Signal struct {
	Side     Side    `json:"side"`
	Symbol   string  `json:"symbol"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Order 订单
// 由信号转换而来，状态只允许 PENDING → FILLED 或 PENDING → REJECTED 各一次
type Order struct {
	ClientOrderID string  `json:"client_order_id"`
	Symbol        string  `json:"symbol"`
	Quantity      int     `json:"quantity"`
	Price         float64 `json:"price"`
	Side          Side    `json:"side"`
	Status        Status  `json:"status"`
}

// NewOrderFromSignal 从信号创建订单（初始状态 PENDING）
func NewOrderFromSignal(sig *Signal) *Order {
	return &Order{
		ClientOrderID: utils.GenerateOrderID(sig.Price, string(sig.Side), 8),
		Symbol:        sig.Symbol,
		Quantity:      sig.Quantity,
		Price:         sig.Price,
		Side:          sig.Side,
		Status:        StatusPending,
	}
}

// Fill 标记订单已成交
// 重复成交是调用方的契约违规，由执行引擎在执行前拦截
func (o *Order) Fill() {
	o.Status = StatusFilled
}

// Reject 标记订单被拒绝
func (o *Order) Reject() {
	o.Status = StatusRejected
}

// Trade 成交记录（只追加，不修改）
type Trade struct {
	Timestamp time.Time `json:"timestamp"`
	Side      Side      `json:"side"`
	Symbol    string    `json:"symbol"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
	CashAfter float64   `json:"cash_after"`
}
