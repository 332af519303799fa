package event

import (
	"time"

	"tickmill/logger"
)

// EventType 事件类型
type EventType string

const (
	EventTypeRunStarted    EventType = "run_started"
	EventTypeRunFinished   EventType = "run_finished"
	EventTypeSymbolFailed  EventType = "symbol_failed"
	EventTypeOrderFilled   EventType = "order_filled"
	EventTypeOrderRejected EventType = "order_rejected"
	EventTypeOrderInvalid  EventType = "order_invalid"
	EventTypeStrategyFault EventType = "strategy_fault"
)

// Event 事件结构
type Event struct {
	Type      EventType
	Timestamp time.Time
	Data      map[string]interface{}
}

// EventBus 事件总线（带缓冲通道，发布非阻塞）
type EventBus struct {
	eventCh    chan *Event
	bufferSize int
}

// NewEventBus 创建事件总线
func NewEventBus(bufferSize int) *EventBus {
	if bufferSize <= 0 {
		bufferSize = 1000 // 默认1000
	}
	return &EventBus{
		eventCh:    make(chan *Event, bufferSize),
		bufferSize: bufferSize,
	}
}

// Publish 发布事件（非阻塞，缓冲满时丢弃并告警）
func (eb *EventBus) Publish(event *Event) {
	if event == nil {
		return
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case eb.eventCh <- event:
	default:
		logger.Warn("⚠️ 事件缓冲区已满，事件被丢弃: %s", event.Type)
	}
}

// Subscribe 获取事件通道
func (eb *EventBus) Subscribe() <-chan *Event {
	return eb.eventCh
}

// Close 关闭事件总线
func (eb *EventBus) Close() {
	close(eb.eventCh)
}
