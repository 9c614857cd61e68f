package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/palemoky/scout/internal/config"
	"github.com/palemoky/scout/internal/logger"
	"github.com/palemoky/scout/internal/server"
)

var (
	configFile      string
	logLevel        string
	shutdownTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:          "scout-server",
	Short:        "Scout 房间服务",
	Long:         `Scout 纸牌游戏的权威服务端：房间、发牌、出牌校验与事件广播`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 加载配置
		cfg, err := config.Load(configFile)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return err
			}
			logger.Warn("配置文件 %s 不存在，使用默认配置", configFile)
			cfg = config.Default()
		}

		if cmd.Flags().Changed("log-level") {
			cfg.Log.Level = logLevel
		}
		logger.Init(cfg.Log.Level, os.Stdout)

		// 创建服务器
		srv, err := server.NewServer(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("🎪 Scout 服务器启动中...")
			errCh <- srv.Start()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		// 优雅关闭
		logger.Info("正在关闭服务器，最多等待 %v...", shutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.GracefulShutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "configs/config.yaml", "配置文件路径")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "日志级别 (debug/info/warn/error)")
	rootCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 30*time.Second, "等待进行中对局结束的最长时间")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("服务器退出: %v", err)
		os.Exit(1)
	}
}
