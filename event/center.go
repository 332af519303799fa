package event

import (
	"context"
	"fmt"
	"sync"

	"tickmill/logger"
)

// Sink 事件落地接口（由存储层实现，接口放在这里避免循环依赖）
type Sink interface {
	SaveEvent(event *Event) error
}

// Center 事件中心
// 消费事件总线，写日志并转发给落地接口
type Center struct {
	bus    *EventBus
	sink   Sink
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewCenter 创建事件中心（sink 可以为 nil，表示只记日志）
func NewCenter(bus *EventBus, sink Sink) *Center {
	ctx, cancel := context.WithCancel(context.Background())
	return &Center{
		bus:    bus,
		sink:   sink,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start 启动事件中心
func (c *Center) Start() {
	c.wg.Add(1)
	go c.processEvents()
	logger.Info("✅ 事件中心已启动")
}

// Stop 停止事件中心（排空剩余事件后退出）
func (c *Center) Stop() {
	c.cancel()
	c.wg.Wait()
	logger.Info("✅ 事件中心已停止")
}

// processEvents 事件处理循环
func (c *Center) processEvents() {
	defer c.wg.Done()

	eventCh := c.bus.Subscribe()
	for {
		select {
		case <-c.ctx.Done():
			// 退出前排空缓冲区里的剩余事件
			for {
				select {
				case event, ok := <-eventCh:
					if !ok {
						return
					}
					c.handleEvent(event)
				default:
					return
				}
			}
		case event, ok := <-eventCh:
			if !ok {
				return
			}
			c.handleEvent(event)
		}
	}
}

// handleEvent 处理单个事件
func (c *Center) handleEvent(event *Event) {
	if event == nil {
		return
	}

	logger.Debug("📨 事件: %s %v", event.Type, event.Data)

	if c.sink != nil {
		if err := c.sink.SaveEvent(event); err != nil {
			logger.Error("❌ 保存事件失败: %v", err)
		}
	}
}

// BuildOrderData 构建订单事件数据
func BuildOrderData(symbol, side string, quantity int, price float64, reason string) map[string]interface{} {
	data := map[string]interface{}{
		"symbol":   symbol,
		"side":     side,
		"quantity": quantity,
		"price":    price,
	}
	if reason != "" {
		data["reason"] = reason
	}
	return data
}

// Describe 返回事件的可读描述
func Describe(event *Event) string {
	if event == nil {
		return ""
	}
	return fmt.Sprintf("%s @ %s: %v", event.Type, event.Timestamp.Format("2006-01-02 15:04:05"), event.Data)
}
