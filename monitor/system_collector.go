package monitor

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"tickmill/logger"
)

// SystemMetrics 系统资源指标
type SystemMetrics struct {
	Timestamp     time.Time `json:"timestamp"`
	CPUPercent    float64   `json:"cpu_percent"`
	MemoryMB      float64   `json:"memory_mb"`
	MemoryPercent float64   `json:"memory_percent"`
	ProcessID     int       `json:"process_id"`
}

// MetricsSink 采样落地接口（由存储层实现）
type MetricsSink interface {
	SaveSystemMetrics(timestamp time.Time, cpuPercent, memoryMB, memoryPercent float64, pid int) error
}

// CollectSystemMetrics 采集当前进程的系统资源指标
func CollectSystemMetrics() (*SystemMetrics, error) {
	pid := os.Getpid()
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return nil, fmt.Errorf("获取进程失败: %w", err)
	}

	cpuPercent, err := p.CPUPercent()
	if err != nil {
		// 进程级获取失败时退回系统CPU使用率
		cpuPercent, err = getSystemCPUPercent()
		if err != nil {
			return nil, fmt.Errorf("获取CPU占用率失败: %w", err)
		}
	}

	// RSS 实际物理内存
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return nil, fmt.Errorf("获取内存信息失败: %w", err)
	}
	memoryMB := float64(memInfo.RSS) / 1024 / 1024

	var memoryPercent float64
	if memStat, err := mem.VirtualMemory(); err == nil && memStat.Total > 0 {
		memoryPercent = (float64(memInfo.RSS) / float64(memStat.Total)) * 100
	}

	return &SystemMetrics{
		Timestamp:     time.Now(),
		CPUPercent:    cpuPercent,
		MemoryMB:      memoryMB,
		MemoryPercent: memoryPercent,
		ProcessID:     pid,
	}, nil
}

// getSystemCPUPercent 获取系统CPU使用率（备用方法）
func getSystemCPUPercent() (float64, error) {
	percentages, err := cpu.Percent(time.Second, false)
	if err != nil {
		return 0, err
	}
	if len(percentages) == 0 {
		return 0, fmt.Errorf("无法获取CPU使用率")
	}
	return percentages[0], nil
}

// Collector 资源采样器
// 周期性采集进程CPU/内存并写入落地接口
type Collector struct {
	sink     MetricsSink
	interval time.Duration
	cancel   context.CancelFunc
}

// NewCollector 创建资源采样器（sink 可以为 nil，表示只记日志）
func NewCollector(sink MetricsSink, interval time.Duration) *Collector {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Collector{sink: sink, interval: interval}
}

// Start 启动采样
func (c *Collector) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	go c.collectLoop(ctx)
	logger.Info("✅ 资源采样已启动，间隔 %s", c.interval)
}

// Stop 停止采样
func (c *Collector) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
}

// collectLoop 采样循环
func (c *Collector) collectLoop(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.collect()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.collect()
		}
	}
}

// collect 采集一次
func (c *Collector) collect() {
	m, err := CollectSystemMetrics()
	if err != nil {
		logger.Warn("⚠️ 系统资源采集失败: %v", err)
		return
	}

	logger.Debug("📊 资源采样: CPU %.1f%%, 内存 %.1fMB (%.1f%%)", m.CPUPercent, m.MemoryMB, m.MemoryPercent)

	if c.sink != nil {
		if err := c.sink.SaveSystemMetrics(m.Timestamp, m.CPUPercent, m.MemoryMB, m.MemoryPercent, m.ProcessID); err != nil {
			logger.Warn("⚠️ 保存资源采样失败: %v", err)
		}
	}
}
