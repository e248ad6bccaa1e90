package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vango-dev/lazydom/pkg/scenario"
	"github.com/vango-dev/lazydom/pkg/snapshot"
	"github.com/vango-dev/lazydom/pkg/vdom"
)

func replayCmd(configPath *string) *cobra.Command {
	var (
		save      bool
		mutations bool
	)

	cmd := &cobra.Command{
		Use:   "replay <scenario.yaml>",
		Short: "Run a scenario and print every frame",
		Long: `Run a scenario and print the markup produced by each flush.

Examples:
  lazydom replay reorder.yaml
  lazydom replay reorder.yaml --mutations
  lazydom replay reorder.yaml --save`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runReplay(ctx, *configPath, args[0], save, mutations)
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Store every frame as a snapshot")
	cmd.Flags().BoolVarP(&mutations, "mutations", "m", false, "Print the tree mutations of each frame")

	return cmd
}

func runReplay(ctx context.Context, configPath, file string, save, mutations bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stderr)

	sc, err := scenario.Load(file)
	if err != nil {
		return err
	}
	name := sc.Name
	if name == "" {
		name = "scenario"
	}

	var store snapshot.Store
	if save {
		if store, err = newStore(ctx, cfg); err != nil {
			return err
		}
	}

	handler := func(_ context.Context, f scenario.Frame) error {
		fmt.Printf("\033[1mframe\033[0m step %d (line %d): %d created, %d operations\n",
			f.Step, f.Line, f.Stats.Created, f.Stats.Operations())
		if mutations {
			for _, m := range f.Mutations {
				info("%s", m)
			}
		}
		info("%s", f.HTML)
		return nil
	}

	res, err := scenario.NewRunner(sc,
		scenario.WithLogger(logger),
		scenario.WithReconcilerOptions(vdom.WithTracer(newTracer(cfg))),
		scenario.WithFrameHandler(handler),
	).Run(ctx)
	if err != nil {
		return err
	}

	if store != nil {
		for i, f := range res.Frames {
			if err := store.Put(ctx, snapshot.FromFrame(name, i, f)); err != nil {
				return err
			}
		}
		success("Saved %d snapshots", len(res.Frames))
	}
	success("%s: %d frames", name, len(res.Frames))
	return nil
}
