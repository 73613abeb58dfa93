package main

//	@title			NetPanel API
//	@version		0.1.0
//	@description	Zabbix-backed monitoring dashboard API.
//	@BasePath		/api/v1

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/HerbHall/netpanel/api/swagger"
	"github.com/HerbHall/netpanel/internal/collector"
	"github.com/HerbHall/netpanel/internal/config"
	"github.com/HerbHall/netpanel/internal/dashboard"
	"github.com/HerbHall/netpanel/internal/event"
	"github.com/HerbHall/netpanel/internal/server"
	"github.com/HerbHall/netpanel/internal/version"
	"github.com/HerbHall/netpanel/internal/wol"
	"github.com/HerbHall/netpanel/internal/ws"
	"github.com/HerbHall/netpanel/internal/zabbix"
	"github.com/HerbHall/netpanel/pkg/plugin"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Println(version.Info())
		return
	}

	configPath := flag.String("config", "", "path to configuration file")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	// Load configuration (before logger, so log level/format can be configured).
	viperCfg, err := server.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(viperCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("NetPanel server starting", zap.String("version", version.Short()))

	if f := viperCfg.ConfigFileUsed(); f != "" {
		logger.Info("configuration loaded",
			zap.String("component", "config"),
			zap.String("source", f),
		)
	} else {
		logger.Warn("no configuration file found, using defaults and environment",
			zap.String("component", "config"),
		)
	}

	srvCfg := server.ServerConfig(viperCfg)
	zbxCfg := server.ZabbixConfig(viperCfg)
	colCfg := server.CollectorConfig(viperCfg)
	wolCfg := server.WOLConfig(viperCfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := event.NewBus(logger.Named("event"))

	// Upstream session. The first login happens before the server reports
	// ready; a failure here is retried lazily by the first API call.
	zbxLogger := logger.Named("zabbix")
	session := zabbix.NewSession(zabbix.NewClient(zbxCfg, zbxLogger), zbxCfg.User, zbxCfg.Password, zbxCfg.ReauthInterval, zbxLogger)
	if _, err := session.Authenticate(ctx); err != nil {
		logger.Warn("initial zabbix login failed",
			zap.String("component", "zabbix"),
			zap.String("url", zbxCfg.URL),
			zap.Error(err),
		)
	} else {
		logger.Info("zabbix session established",
			zap.String("component", "zabbix"),
			zap.String("url", zbxCfg.URL),
		)
	}
	session.Start(ctx)
	api := zabbix.NewAPI(session, zbxCfg.GroupSelector)

	// Collector pipeline.
	colLogger := logger.Named("collector")
	normalizer := collector.NewNormalizer(collector.NewFetcher(api, colLogger), colLogger)
	agg := collector.NewAggregator(api, normalizer, colCfg.ChunkSize, colLogger)
	history := collector.NewHistory(api, colCfg.HistoryWindow, colLogger)
	hostHandler := collector.NewHandler(agg, history, colLogger)

	var wsHandler *ws.Handler
	refresher := collector.NewRefresher(agg, bus, func() int { return wsHandler.ClientCount() }, colCfg.PushInterval, colLogger.Named("refresher"))
	wsHandler = ws.NewHandler(bus, refresher.Latest, originPatterns(srvCfg.CORSOrigin), logger.Named("ws"))
	defer wsHandler.Close()

	wolHandler := wol.NewHandler(wol.NewSender(wolCfg, logger.Named("wol")), bus, logger.Named("wol"))
	unsubWake := bus.Subscribe(event.TopicWakeSent, func(_ context.Context, e plugin.Event) {
		logger.Info("wake-on-lan packet sent",
			zap.String("component", "wol"),
			zap.Any("mac", e.Payload),
		)
	})
	defer unsubWake()

	refresher.Start(ctx)
	if colCfg.PushInterval > 0 {
		go refresher.Refresh(ctx)
	}

	dashboardHandler := dashboardFor(srvCfg.WebDir, logger)

	readyCheck := server.ReadinessChecker(session.Ready)
	checks := map[string]plugin.HealthChecker{
		"zabbix":    session,
		"refresher": refresher,
	}
	srv := server.New(srvCfg, logger, readyCheck, dashboardHandler, checks,
		server.Mount{Prefix: server.APIPrefix, Provider: hostHandler},
		server.Mount{Prefix: server.APIPrefix, Provider: wolHandler},
		server.Mount{Prefix: server.APIPrefix, Provider: wsHandler},
		server.Mount{Prefix: server.LegacyPrefix, Provider: plugin.RouteList(hostHandler.LegacyRoutes())},
		server.Mount{Prefix: server.LegacyPrefix, Provider: wolHandler},
	)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	logger.Info("NetPanel server ready", zap.String("addr", srvCfg.Addr()))
	fmt.Fprintf(os.Stderr, "\n  NetPanel %s is ready!\n  Open http://localhost:%d in your browser.\n\n", version.Short(), srvCfg.Port)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	refresher.Stop()
	session.Stop()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("NetPanel server stopped")
}

// dashboardFor returns the static UI handler, or nil when no web directory
// is configured or it cannot be served.
func dashboardFor(webDir string, logger *zap.Logger) http.Handler {
	if webDir == "" {
		logger.Info("static UI disabled (server.web_dir not set)", zap.String("component", "dashboard"))
		return nil
	}
	h, err := dashboard.New(webDir)
	if err != nil {
		logger.Warn("static UI unavailable", zap.String("component", "dashboard"), zap.Error(err))
		return nil
	}
	logger.Info("serving static UI", zap.String("component", "dashboard"), zap.String("dir", webDir))
	return h
}

// originPatterns turns the CORS origin setting into WebSocket origin host
// patterns.
func originPatterns(origin string) []string {
	switch {
	case origin == "":
		return nil
	case origin == "*":
		return []string{"*"}
	case strings.Contains(origin, "://"):
		if u, err := url.Parse(origin); err == nil && u.Host != "" {
			return []string{u.Host}
		}
	}
	return []string{origin}
}
