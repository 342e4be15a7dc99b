package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/betbot/subsweep/internal/audit"
	"github.com/betbot/subsweep/internal/console"
	"github.com/betbot/subsweep/internal/sweep"
	"github.com/betbot/subsweep/okx/client"
	"github.com/betbot/subsweep/pkg/config"
	"github.com/betbot/subsweep/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "配置文件路径（YAML/JSON，可选）")
	envFile := flag.String("env-file", ".env", ".env 文件路径（不存在时忽略）")
	dryRun := flag.Bool("dry-run", false, "只打印计划划转，不调用划转接口")
	flag.Parse()

	if err := config.LoadEnvFile(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		_ = logger.InitDefault()
		logger.Errorf("加载配置失败: %v", err)
		return 1
	}
	if *dryRun {
		cfg.DryRun = true
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.LogLevel,
		OutputFile: cfg.LogFile,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     7,
		Compress:   true,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		return 1
	}

	// 不提前拦截：空凭证由交易所拒绝
	if missing := cfg.MissingCredentials(); len(missing) > 0 {
		logger.Warnf("以下凭证为空，请求将被交易所拒绝: %s", strings.Join(missing, ", "))
	}

	auditLog, err := audit.OpenFile(audit.FileConfig{Path: cfg.AuditFile})
	if err != nil {
		logger.Errorf("打开审计日志失败: %v", err)
		return 1
	}
	defer auditLog.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	okx := client.NewClient(client.Config{
		Host:    cfg.BaseURL,
		Creds:   cfg.Creds,
		Timeout: cfg.HTTPTimeout,
	})
	reporter := console.NewReporter(os.Stdout)

	logger.Infof("开始清扫 host=%s dry_run=%v audit=%s", okx.GetHost(), cfg.DryRun, cfg.AuditFile)
	summary, err := sweep.NewSweeper(okx, auditLog, reporter, sweep.Options{DryRun: cfg.DryRun}).Run(ctx)
	if summary != nil {
		reporter.Summary(summary)
	}
	if err != nil {
		logger.Errorf("清扫中止: %v", err)
		return 1
	}
	return 0
}
