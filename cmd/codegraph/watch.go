package main

import (
	"codegraph/internal/crawler"
	"codegraph/internal/pipeline"
	"codegraph/internal/watcher"
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Keep the graph database in sync while files change",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		root := projectRoot(cfg, args)
		debounce, err := cfg.DebounceDuration()
		if err != nil {
			log.Fatalf("Invalid config: %v", err)
		}
		if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
			cfg.Watch.MetricsAddr = addr
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store := initStore(cfg)
		defer store.Close()

		g, err := store.LoadGraph(ctx)
		if err != nil {
			log.Fatalf("Failed to load graph: %v", err)
		}

		engine := initEngine(cfg, 0)
		s := pipeline.NewIncrementalSync(store, engine, root)
		s.Graph = g

		fmt.Printf("📂 Initial sync of %s\n", root)
		if _, err := s.Run(ctx, false); err != nil {
			log.Fatalf("Initial sync failed: %v", err)
		}

		if cfg.Watch.MetricsAddr != "" {
			srv := startMetricsServer(cfg.Watch.MetricsAddr)
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()
		}

		changes := make(chan []string, 1)
		excludeDirs := append(append([]string{}, crawler.DefaultIgnoredDirs...), cfg.Project.IgnoredDirs...)
		w, err := watcher.NewWatcher(debounce, excludeDirs, cfg.Project.Exclude, func(paths []string) {
			select {
			case changes <- paths:
			case <-ctx.Done():
			}
		})
		if err != nil {
			log.Fatalf("Failed to create watcher: %v", err)
		}
		defer w.Close()

		if err := w.Watch([]string{root}); err != nil {
			log.Fatalf("Failed to watch %s: %v", root, err)
		}
		fmt.Printf("👀 Watching %s (debounce %v). Press Ctrl+C to stop.\n", root, debounce)

		for {
			select {
			case <-ctx.Done():
				fmt.Println("👋 Stopped watching.")
				return
			case paths := <-changes:
				paths = engine.Crawler().Relevant(root, paths)
				if len(paths) == 0 {
					continue
				}
				fmt.Printf("📝 Detected %d changed files.\n", len(paths))
				if _, err := s.Run(ctx, false); err != nil {
					if errors.Is(ctx.Err(), context.Canceled) {
						continue
					}
					log.Printf("⚠️ Sync failed: %v", err)
				}
			}
		}
	},
}

func startMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	slog.Info("metrics server starting", "addr", addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server failed", "error", err)
		}
	}()

	return srv
}
