package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/vango-dev/lazydom/pkg/metrics"
	"github.com/vango-dev/lazydom/pkg/preview"
	"github.com/vango-dev/lazydom/pkg/scenario"
	"github.com/vango-dev/lazydom/pkg/vdom"
)

func serveCmd(configPath *string) *cobra.Command {
	var (
		port int
		host string
		loop bool
		save bool
	)

	cmd := &cobra.Command{
		Use:   "serve <scenario.yaml>",
		Short: "Play a scenario in the browser",
		Long: `Start the preview server and play a scenario.

Open the printed URL to watch each frame as it is flushed.

Examples:
  lazydom serve reorder.yaml
  lazydom serve reorder.yaml --loop --port=8080`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, *configPath, args[0], port, host, loop, save)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from lazydom.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from lazydom.json)")
	cmd.Flags().BoolVarP(&loop, "loop", "l", false, "Replay the scenario until interrupted")
	cmd.Flags().BoolVar(&save, "save", false, "Store every frame as a snapshot")

	return cmd
}

func runServe(ctx context.Context, configPath, file string, port int, host string, loop, save bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Preview.Port = port
	}
	if host != "" {
		cfg.Preview.Host = host
	}
	logger := newLogger(cfg, os.Stderr)
	tracer := newTracer(cfg)

	sc, err := scenario.Load(file)
	if err != nil {
		return err
	}

	pc := preview.DefaultConfig()
	pc.Addr = cfg.Addr()
	pc.FrameInterval = cfg.FrameInterval()
	pc.WriteTimeout = cfg.WriteTimeout()
	pc.Logger = logger.With("component", "preview")
	if cfg.Tracing.Enabled {
		pc.Tracer = tracer
	}

	vopts := []vdom.Option{vdom.WithTracer(tracer)}
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		c := metrics.New(metrics.WithRegistry(reg), metrics.WithNamespace(cfg.Metrics.Namespace))
		vopts = append(vopts, vdom.WithObserver(c))
		pc.Gatherer = reg
	}
	if save {
		if pc.Store, err = newStore(ctx, cfg); err != nil {
			return err
		}
	}

	srv := preview.New(pc)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run(ctx)
	}()

	fmt.Println()
	success("Preview at http://%s", cfg.Addr())
	fmt.Println()

	for {
		_, err := srv.Play(ctx, sc,
			scenario.WithLogger(logger),
			scenario.WithReconcilerOptions(vopts...),
		)
		if err != nil && ctx.Err() == nil {
			return err
		}
		if !loop || ctx.Err() != nil {
			break
		}
	}

	if ctx.Err() == nil {
		info("Scenario finished, press Ctrl+C to stop")
	}
	return <-errCh
}
