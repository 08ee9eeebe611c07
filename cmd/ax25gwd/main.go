package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/parsat-ground/ax25link/pkg/ax25"
	"github.com/parsat-ground/ax25link/pkg/config"
	"github.com/parsat-ground/ax25link/pkg/gateway"
	"github.com/parsat-ground/ax25link/pkg/logger"
	"github.com/parsat-ground/ax25link/pkg/metrics"
	"github.com/parsat-ground/ax25link/pkg/monitor"
	"github.com/parsat-ground/ax25link/pkg/store"
)

var (
	version   = "dev"
	gitCommit = "unknown"
	buildTime = "unknown"
)

func main() {
	configFile := pflag.StringP("config", "c", "config.yaml", "Path to configuration file")
	showVersion := pflag.BoolP("version", "v", false, "Show version information")
	validateOnly := pflag.Bool("validate", false, "Validate configuration and exit")
	pflag.Parse()

	if *showVersion {
		fmt.Printf("ax25gwd %s\n", version)
		fmt.Printf("Git Commit: %s\n", gitCommit)
		fmt.Printf("Built: %s\n", buildTime)
		os.Exit(0)
	}

	log := logger.New(logger.Config{Level: "info", Format: "text"})
	log.Info("starting ax25gwd",
		logger.String("version", version),
		logger.String("commit", gitCommit),
		logger.String("build_time", buildTime))

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Error("failed to load configuration", logger.Error(err))
		os.Exit(1)
	}

	if *validateOnly {
		log.Info("configuration is valid")
		os.Exit(0)
	}

	log.Info("configuration loaded", logger.String("config_file", *configFile))

	log = logger.New(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	codec, err := ax25.NewCodec(
		ax25.Station{Callsign: cfg.Station.LocalCallsign, SSID: cfg.Station.LocalSSID},
		ax25.Station{Callsign: cfg.Station.RemoteCallsign, SSID: cfg.Station.RemoteSSID},
	)
	if err != nil {
		log.Error("failed to build station codec", logger.Error(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup

	metricsCollector := metrics.NewCollector()

	db, err := store.NewDB(store.Config{Path: cfg.Store.DSN}, log.WithComponent(logger.ComponentStore))
	if err != nil {
		log.Error("failed to initialize store", logger.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	frameRepo := store.NewFrameRepository(db.GetDB())
	sessionRepo := store.NewMatrixSessionRepository(db.GetDB())
	log.Info("store initialized", logger.String("dsn", cfg.Store.DSN))

	if cfg.Metrics.Enabled && cfg.Metrics.Prometheus.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			metricsServer := metrics.NewPrometheusServer(
				metrics.PrometheusConfig{
					Enabled: cfg.Metrics.Prometheus.Enabled,
					Port:    cfg.Metrics.Prometheus.Port,
					Path:    cfg.Metrics.Prometheus.Path,
				},
				metricsCollector,
				log.WithComponent(logger.ComponentMetrics),
			)
			if err := metricsServer.Start(ctx); err != nil && err != context.Canceled {
				log.Error("prometheus metrics server error", logger.Error(err))
			}
		}()
		log.Info("prometheus metrics server started",
			logger.Int("port", cfg.Metrics.Prometheus.Port),
			logger.String("path", cfg.Metrics.Prometheus.Path))
	}

	var hub *monitor.Hub
	if cfg.Web.Enabled {
		webServer := monitor.NewServer(cfg.Web, log.WithComponent(logger.ComponentMonitor)).
			WithStore(frameRepo, sessionRepo)
		hub = webServer.Hub()

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := webServer.Start(ctx); err != nil && err != context.Canceled {
				log.Error("monitor server error", logger.Error(err))
			}
		}()
		log.Info("monitor server started",
			logger.String("host", cfg.Web.Host),
			logger.Int("port", cfg.Web.Port))
	}

	ingest := gateway.NewIngest(codec, frameRepo, sessionRepo, metricsCollector, hub, log.WithComponent(logger.ComponentGateway), cfg.Matrix.MaxRows, cfg.Matrix.MaxCols)

	sessionTTL := time.Duration(cfg.Matrix.SessionTTLMs) * time.Millisecond
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(sessionTTL)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				ingest.CleanupStale(sessionTTL)
			}
		}
	}()

	conn, err := net.ListenPacket("udp", cfg.Server.ListenAddr)
	if err != nil {
		log.Error("failed to open wire frame listener", logger.Error(err))
		os.Exit(1)
	}
	defer conn.Close()
	log.Info("listening for wire frames", logger.String("address", cfg.Server.ListenAddr))

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer conn.Close()

		buf := make([]byte, 4096)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			conn.SetReadDeadline(time.Now().Add(1 * time.Second))
			n, addr, err := conn.ReadFrom(buf)
			if err != nil {
				if ne, ok := err.(net.Error); ok && ne.Timeout() {
					continue
				}
				if ctx.Err() != nil {
					return
				}
				log.Warn("wire frame read error", logger.Error(err))
				continue
			}

			wire := make([]byte, n)
			copy(wire, buf[:n])
			if err := ingest.HandleWireFrame(wire); err != nil {
				log.Debug("dropped wire frame",
					logger.String("from", addr.String()),
					logger.Error(err))
			}
		}
	}()

	log.Info("ax25gwd initialized",
		logger.String("server_name", cfg.Server.Name),
		logger.String("local_station", cfg.Station.LocalCallsign),
		logger.String("remote_station", cfg.Station.RemoteCallsign))

	sig := <-sigChan
	log.Info("received shutdown signal", logger.String("signal", sig.String()))

	cancel()
	wg.Wait()

	log.Info("ax25gwd stopped")
}
