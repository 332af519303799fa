package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tickmill/backtest"
	"tickmill/config"
	"tickmill/event"
	"tickmill/logger"
	"tickmill/market"
	"tickmill/monitor"
	"tickmill/storage"
	"tickmill/strategy"
	"tickmill/utils"
	"tickmill/web"
)

// Version 版本号
var Version = "1.2.0"

func main() {
	// 检查版本参数
	if len(os.Args) > 1 && (os.Args[1] == "-version" || os.Args[1] == "--version") {
		fmt.Printf("TickMill Backtest Engine\n")
		fmt.Printf("Version: %s\n", Version)
		os.Exit(0)
	}

	configPath := "config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 日志与时区初始化
	logger.SetLevel(logger.ParseLogLevel(cfg.App.LogLevel))
	if err := utils.SetLocation(cfg.App.Timezone); err != nil {
		logger.Warn("⚠️ 时区设置失败，使用UTC: %v", err)
	}
	logger.SetLocation(utils.GlobalLocation)
	defer logger.Close()

	logger.Info("🚀 TickMill 回测系统启动...")
	logger.Info("📦 版本号: %s", Version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 存储（可选）
	var store *storage.Storage
	if cfg.Storage.Enabled {
		store, err = storage.New(cfg.Storage.Type, cfg.Storage.DSN)
		if err != nil {
			logger.Warn("⚠️ 存储初始化失败，将继续运行但不持久化: %v", err)
			store = nil
		} else {
			defer store.Close()
			logger.InitLogStorage(store.WriteLog)
		}
	}

	// 事件中心
	eventBus := event.NewEventBus(1000)
	var sink event.Sink
	if store != nil {
		sink = store
	}
	center := event.NewCenter(eventBus, sink)
	center.Start()
	defer center.Stop()

	// 资源采样（可选）
	if cfg.Monitor.Enabled {
		collector := monitor.NewCollector(metricsSinkFor(store), time.Duration(cfg.Monitor.IntervalSeconds)*time.Second)
		collector.Start(ctx)
		defer collector.Stop()
	}

	// 回测引擎
	engine := backtest.NewEngine(cfg.Backtest.InitialCash)
	engine.SetEventBus(eventBus)
	if cfg.Backtest.FailProbability > 0 {
		engine.SetFaultInjection(cfg.Backtest.FailProbability, cfg.Backtest.Seed)
		logger.Warn("⚠️ 故障注入已启用: 概率=%.4f 种子=%d", cfg.Backtest.FailProbability, cfg.Backtest.Seed)
	}

	// 配置热更新（日志级别与故障注入概率）
	watcher, err := config.NewWatcher(configPath, func(newCfg *config.Config) {
		logger.SetLevel(logger.ParseLogLevel(newCfg.App.LogLevel))
		engine.SetFaultInjection(newCfg.Backtest.FailProbability, newCfg.Backtest.Seed)
		logger.Info("🔄 配置已热更新: log_level=%s fail_probability=%.4f",
			newCfg.App.LogLevel, newCfg.Backtest.FailProbability)
	})
	if err != nil {
		logger.Warn("⚠️ 创建配置监控器失败: %v", err)
	} else {
		if err := watcher.Start(ctx); err != nil {
			logger.Warn("⚠️ 启动配置监控失败: %v", err)
		}
		defer watcher.Stop()
	}

	// 行情数据：优先CSV文件，否则使用生成器
	ticks, err := loadTicks(cfg)
	if err != nil {
		logger.Fatal("❌ 加载行情数据失败: %v", err)
	}
	logger.Info("📨 行情数据就绪: %d 条", len(ticks))

	// 构建策略
	strategies, err := strategy.BuildFromConfig(cfg.Strategies)
	if err != nil {
		logger.Fatal("❌ 构建策略失败: %v", err)
	}

	// 执行回测
	result, err := engine.Run(ticks, strategies)
	if err != nil {
		logger.Fatal("❌ 回测执行失败: %v", err)
	}

	logger.Info("✅ 回测完成: 初始资金 %.2f -> 最终现金 %.2f, %d 笔成交",
		result.InitialCash, result.FinalCash, len(result.Trades))

	// 生成报告与权益曲线
	reportPath, err := backtest.GenerateReport(result, cfg.Backtest.ReportDir)
	if err != nil {
		logger.Error("❌ 生成报告失败: %v", err)
	} else {
		logger.Info("📈 回测报告已生成: %s", reportPath)
	}
	if paths, err := backtest.SaveEquityCurveCSV(result, cfg.Backtest.ReportDir); err != nil {
		logger.Error("❌ 导出权益曲线失败: %v", err)
	} else if len(paths) > 0 {
		logger.Info("📈 权益曲线已导出: %d 个文件", len(paths))
	}

	// 持久化回测结果
	if store != nil {
		if runID, err := store.SaveRunResult(result); err != nil {
			logger.Error("❌ 保存回测结果失败: %v", err)
		} else {
			logger.Info("✅ 回测结果已入库: run_id=%d", runID)
		}
	}

	// Web服务器（可选，启用后常驻直到收到退出信号）
	if cfg.Web.Enabled {
		server := web.NewWebServer(cfg, store)
		if err := server.Start(ctx); err != nil {
			logger.Error("❌ 启动Web服务器失败: %v", err)
		} else {
			waitForShutdown()
		}
	}

	logger.Info("✅ TickMill 已退出")
}

// metricsSinkFor 存储未启用时返回真正的nil接口
// 直接把nil的 *storage.Storage 塞进接口会带上类型信息，绕过采样器的判空
func metricsSinkFor(store *storage.Storage) monitor.MetricsSink {
	if store == nil {
		return nil
	}
	return store
}

// loadTicks 加载行情：配置了数据文件时读CSV，否则按配置生成
func loadTicks(cfg *config.Config) ([]market.Tick, error) {
	if cfg.Backtest.DataFile != "" {
		logger.Info("📨 从CSV加载行情: %s", cfg.Backtest.DataFile)
		return market.LoadCSV(cfg.Backtest.DataFile)
	}

	if len(cfg.Generator.Symbols) == 0 {
		return nil, fmt.Errorf("未配置行情数据文件，也未配置行情生成器标的")
	}

	gen := market.NewGenerator(cfg.Generator.Seed, time.Duration(cfg.Generator.IntervalSeconds)*time.Second)
	start := utils.NowUTC()

	var ticks []market.Tick
	for _, sc := range cfg.Generator.Symbols {
		count := sc.Count
		if count <= 0 {
			count = 1000
		}
		var generated []market.Tick
		if sc.TrendRate != 0 {
			generated = gen.GenerateTrending(sc.Symbol, count, sc.BasePrice, sc.TrendRate, sc.Volatility, start)
		} else {
			generated = gen.Generate(sc.Symbol, count, sc.BasePrice, sc.Volatility, start)
		}
		logger.Info("📨 生成行情: %s %d 条 (基准价 %.2f)", sc.Symbol, len(generated), sc.BasePrice)
		ticks = append(ticks, generated...)
	}

	return ticks, nil
}

// waitForShutdown 等待退出信号
func waitForShutdown() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("🔄 收到退出信号: %v，正在关闭...", sig)
}
