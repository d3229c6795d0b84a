// Package main 提供 notifd 命令行入口
//
// 两种模式：
//
//	notifd listen -listen 127.0.0.1:4001 -handshake hi
//	notifd send -msg hello 127.0.0.1:4001
//
// send 模式未指定 -msg 时逐行发送 stdin。
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	notif "github.com/dep2p/go-notif"
	"github.com/dep2p/go-notif/config"
	"github.com/dep2p/go-notif/pkg/lib/log"
)

var logger = log.Logger("notif/cmd")

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
//
//   命令行参数：运行时覆盖
//   JSON 配置文件：持久化配置
//
// ═══════════════════════════════════════════════════════════════════════════

// cliFlags 命令行参数
type cliFlags struct {
	configFile  string
	listenAddr  string
	protocol    string
	handshake   string
	logLevel    string
	metricsAddr string
	refuse      bool
	msg         string
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		printUsage()
		return errors.New("missing mode")
	}

	mode, args := args[0], args[1:]
	fs := flag.NewFlagSet(mode, flag.ContinueOnError)

	var f cliFlags
	fs.StringVar(&f.configFile, "config", "", "配置文件路径")
	fs.StringVar(&f.listenAddr, "listen", "", "TCP 监听地址")
	fs.StringVar(&f.protocol, "protocol", "", "通知协议名")
	fs.StringVar(&f.handshake, "handshake", "", "接受子流时回复的握手")
	fs.StringVar(&f.logLevel, "log-level", "", "日志级别 (debug/info/warn/error)")
	fs.StringVar(&f.metricsAddr, "metrics", "", "Prometheus 指标 HTTP 地址")
	fs.BoolVar(&f.refuse, "refuse", false, "拒绝所有入站子流")
	fs.StringVar(&f.msg, "msg", "", "发送的单条通知（send 模式）")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := buildConfig(fs, &f)
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}

	closeLog, err := setupLogging(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch mode {
	case "listen":
		return runListen(ctx, cfg, &f)
	case "send":
		if fs.NArg() != 1 {
			return errors.New("send 模式需要一个目标地址")
		}
		cfg.Swarm.ListenAddr = ""
		return runSend(ctx, cfg, &f, fs.Arg(0))
	default:
		printUsage()
		return fmt.Errorf("unknown mode %q", mode)
	}
}

// buildConfig 构建配置
//
// 优先级（从高到低）：命令行参数 > 环境变量 > 配置文件 > 默认值
func buildConfig(fs *flag.FlagSet, f *cliFlags) (*config.Config, error) {
	cfg := config.NewConfig()
	if f.configFile != "" {
		var err error
		cfg, err = config.LoadFile(f.configFile)
		if err != nil {
			return nil, fmt.Errorf("加载配置文件失败: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if isFlagSet(fs, "listen") {
		cfg.Swarm.ListenAddr = f.listenAddr
	}
	if isFlagSet(fs, "protocol") {
		cfg.Notifications.Protocol = f.protocol
	}
	if isFlagSet(fs, "log-level") {
		cfg.Log.Level = f.logLevel
	}
	if isFlagSet(fs, "metrics") {
		cfg.Metrics.Enable = true
		cfg.Metrics.ListenAddr = f.metricsAddr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// isFlagSet 检查命令行参数是否被显式设置
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			found = true
		}
	})
	return found
}

// setupLogging 按配置设置日志输出，返回的函数关闭日志文件
func setupLogging(cfg config.LogConfig) (func(), error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	format, err := log.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	if cfg.File == "" {
		log.Setup(os.Stderr, level, format)
		return func() {}, nil
	}

	file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("打开日志文件失败: %w", err)
	}
	log.Setup(file, level, format)
	return func() { _ = file.Close() }, nil
}

// serveMetrics 提供 /metrics，ctx 结束时关闭服务
func serveMetrics(ctx context.Context, addr string, node *notif.Node) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(node.Registry(), promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("指标服务已启动", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("指标服务: %w", err)
	}
	return nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `用法:
  notifd listen [flags]         监听并接受通知子流
  notifd send [flags] <addr>    打开通知子流并发送通知

flags:
  -config     配置文件路径
  -listen     TCP 监听地址
  -protocol   通知协议名
  -handshake  接受子流时回复的握手
  -log-level  日志级别
  -metrics    Prometheus 指标 HTTP 地址
  -refuse     拒绝所有入站子流
  -msg        发送的单条通知`)
}

// ═══════════════════════════════════════════════════════════════════════════
// 运行模式
// ═══════════════════════════════════════════════════════════════════════════

// runListen 运行节点，按 -refuse 接受或拒绝每个 OpenRequest
func runListen(ctx context.Context, cfg *config.Config, f *cliFlags) error {
	node, err := notif.New(cfg)
	if err != nil {
		return err
	}
	defer node.Close()

	if err := node.Start(ctx); err != nil {
		return fmt.Errorf("启动失败: %w", err)
	}

	fmt.Printf("监听 %s，协议 %s\n", node.ListenAddr(), node.Protocol())

	eng := &engine{
		node:      node,
		handshake: []byte(f.handshake),
		refuse:    f.refuse,
		out:       os.Stdout,
	}

	// 事件通道关闭后引擎返回 nil，此时也要停止指标服务
	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		defer stop()
		return eng.run(gctx)
	})
	if cfg.Metrics.Enable && cfg.Metrics.ListenAddr != "" {
		g.Go(func() error {
			return serveMetrics(gctx, cfg.Metrics.ListenAddr, node)
		})
	}
	return g.Wait()
}

// runSend 打开通知子流并发送 -msg 或 stdin 的每一行
func runSend(ctx context.Context, cfg *config.Config, f *cliFlags, addr string) error {
	cfg.Metrics.Enable = false

	node, err := notif.New(cfg)
	if err != nil {
		return err
	}
	defer node.Close()

	if err := node.Start(ctx); err != nil {
		return fmt.Errorf("启动失败: %w", err)
	}
	go drainEvents(node)

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	sub, err := node.OpenNotifications(openCtx, addr)
	cancel()
	if err != nil {
		return err
	}
	defer sub.Close()

	fmt.Printf("已打开通知子流，对端握手: %q\n", sub.Handshake())

	if f.msg != "" {
		return sub.Send([]byte(f.msg))
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		if err := sub.Send(scanner.Bytes()); err != nil {
			return fmt.Errorf("发送失败: %w", err)
		}
	}
	return scanner.Err()
}

// drainEvents 丢弃发送端的连接事件
func drainEvents(node *notif.Node) {
	for ev := range node.Events() {
		logger.Debug("连接事件", "event", ev.String())
	}
}
