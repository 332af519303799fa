package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"tickmill/logger"
)

// ReloadFunc 配置变更回调
type ReloadFunc func(cfg *Config)

// Watcher 配置文件监控器
// 监听配置文件写入事件，重新加载并通知回调（日志级别等可热更新项）
type Watcher struct {
	configPath  string
	watcher     *fsnotify.Watcher
	onReload    ReloadFunc
	mu          sync.Mutex
	isWatching  bool
	lastModTime time.Time
}

// NewWatcher 创建配置监控器
func NewWatcher(configPath string, onReload ReloadFunc) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("创建文件监控器失败: %w", err)
	}

	configDir := filepath.Dir(configPath)
	if configDir == "" || configDir == "." {
		cwd, err := os.Getwd()
		if err != nil {
			watcher.Close()
			return nil, fmt.Errorf("获取当前目录失败: %w", err)
		}
		configPath = filepath.Join(cwd, filepath.Base(configPath))
	}

	var lastModTime time.Time
	if info, err := os.Stat(configPath); err == nil {
		lastModTime = info.ModTime()
	}

	return &Watcher{
		configPath:  configPath,
		watcher:     watcher,
		onReload:    onReload,
		lastModTime: lastModTime,
	}, nil
}

// Start 开始监控配置文件
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isWatching {
		return fmt.Errorf("配置监控器已经在运行")
	}

	// 监控所在目录，编辑器原子替换时文件本身的watch会失效
	if err := w.watcher.Add(filepath.Dir(w.configPath)); err != nil {
		return fmt.Errorf("添加监控目录失败: %w", err)
	}

	w.isWatching = true
	go w.watchLoop(ctx)

	logger.Info("✅ 配置热重载已启动: %s", w.configPath)
	return nil
}

// Stop 停止监控
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.isWatching {
		return nil
	}
	w.isWatching = false
	return w.watcher.Close()
}

// watchLoop 监控循环
func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name != w.configPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			// 延迟处理，避免文件正在写入时读取
			time.Sleep(100 * time.Millisecond)
			w.handleChange()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Error("❌ 配置监控错误: %v", err)
		}
	}
}

// handleChange 处理配置文件变更
func (w *Watcher) handleChange() {
	info, err := os.Stat(w.configPath)
	if err != nil {
		logger.Warn("⚠️ 读取配置文件状态失败: %v", err)
		return
	}

	w.mu.Lock()
	if !info.ModTime().After(w.lastModTime) {
		w.mu.Unlock()
		return
	}
	w.lastModTime = info.ModTime()
	w.mu.Unlock()

	cfg, err := LoadConfig(w.configPath)
	if err != nil {
		logger.Error("❌ 配置重载失败，保持旧配置: %v", err)
		return
	}

	logger.Info("🔄 配置已重载: %s", w.configPath)
	if w.onReload != nil {
		w.onReload(cfg)
	}
}
