// streamwatch connects to the Stellar Insights WebSocket feed and streams
// decoded updates to the console.
//
// Usage: go run ./cmd/streamwatch --config configs/streamwatch.example.yaml
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/adetumilara/stellar-insights/internal/config"
	"github.com/adetumilara/stellar-insights/internal/feed"
	"github.com/adetumilara/stellar-insights/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/streamwatch.example.yaml", "path to config file")
	verbose := flag.Bool("verbose", false, "print full envelope JSON")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("streamwatch", version.String())
		return
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	client := feed.New(clientConfig(cfg), logger)

	logger.Info("starting feed client", "url", cfg.Stream.URL, "channels", cfg.Stream.Channels)
	if err := client.Start(ctx); err != nil {
		logger.Error("failed to start feed client", "error", err)
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return printUpdates(gctx, client, *verbose)
	})
	g.Go(func() error {
		return printStats(gctx, client, logger)
	})

	logger.Info("streaming started - press Ctrl+C to stop")

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("run loop failed", "error", err)
	}

	logger.Info("shutting down...")
	client.Close()
	logger.Info("shutdown complete")
}

func clientConfig(cfg *config.StreamConfig) feed.Config {
	fc := feed.Config{
		Channels:     cfg.Stream.Channels,
		PingInterval: cfg.Stream.PingInterval,
		MaxCorridors: cfg.Collections.MaxCorridors,
		MaxAnchors:   cfg.Collections.MaxAnchors,
		MaxPayments:  cfg.Collections.MaxPayments,
	}
	fc.Connection.URL = cfg.Stream.URL
	fc.Connection.ReconnectBaseDelay = cfg.Stream.ReconnectBaseDelay
	fc.Connection.ReconnectMaxDelay = cfg.Stream.ReconnectMaxDelay
	fc.Connection.HandshakeTimeout = cfg.Stream.HandshakeTimeout
	fc.Connection.HeartbeatInterval = cfg.Stream.HeartbeatInterval
	fc.Connection.PingTimeout = cfg.Stream.PingTimeout
	fc.Connection.WriteTimeout = cfg.Stream.WriteTimeout
	fc.Connection.FrameBufferSize = cfg.Stream.FrameBufferSize
	return fc
}

// printUpdates polls the last envelope and prints it when it changed. This
// samples the stream rather than tailing it: of a burst of frames landing
// between two ticks, only the newest is printed. Counts in printStats stay
// exact regardless.
func printUpdates(ctx context.Context, client *feed.Client, verbose bool) error {
	var lastPrinted any

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			env := client.LastEnvelope()
			if env == nil || env == lastPrinted {
				continue
			}
			lastPrinted = env

			if verbose {
				data, _ := json.MarshalIndent(json.RawMessage(env.Raw), "", "  ")
				fmt.Printf("[%s] %s\n", env.Type, data)
				continue
			}

			switch {
			case env.Corridor != nil:
				fmt.Printf("[corridor] %s (%s/%s)\n",
					env.Corridor.CorridorKey, env.Corridor.AssetACode, env.Corridor.AssetBCode)
			case env.Anchor != nil:
				fmt.Printf("[anchor] %s score=%.1f status=%s\n",
					env.Anchor.AnchorID, env.Anchor.ReliabilityScore, env.Anchor.Status)
			case env.Payment != nil:
				fmt.Printf("[payment] %s %s %s -> %s\n",
					env.Payment.ID, env.Payment.Amount,
					env.Payment.SourceAccount, env.Payment.DestinationAccount)
			case env.Alert != nil:
				fmt.Printf("[alert] %s %s: %s\n",
					env.Alert.Severity, env.Alert.CorridorID, env.Alert.Message)
			default:
				fmt.Printf("[%s]\n", env.Type)
			}
		}
	}
}

// printStats logs feed counters every 10s.
func printStats(ctx context.Context, client *feed.Client, logger *slog.Logger) error {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			stats := client.Stats()
			logger.Info("stats",
				"state", client.State().String(),
				"frames", stats.FramesReceived,
				"decode_errors", stats.DecodeErrors,
				"unknown_types", stats.UnknownTypes,
				"corridors", len(client.Corridors()),
				"anchors", len(client.Anchors()),
				"payments", len(client.Payments()),
			)
		}
	}
}
