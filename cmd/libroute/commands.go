package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/libroute/internal/config"
	"github.com/udisondev/libroute/internal/geo"
	"github.com/udisondev/libroute/internal/library"
	"github.com/udisondev/libroute/internal/route"
)

// pollInterval is how often the CLI checks for a finished computation.
const pollInterval = 10 * time.Millisecond

type rootOptions struct {
	configPath string
	mapPath    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "libroute",
		Short:         "Shortest walking route through library bookcases",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default $LIBROUTE_CONFIG or "+DefaultConfigPath+")")
	root.PersistentFlags().StringVar(&opts.mapPath, "map", "", "Collision map archive (overrides collision_map)")

	root.AddCommand(newRouteCmd(opts))
	root.AddCommand(newPathCmd(opts))
	return root
}

func newRouteCmd(opts *rootOptions) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "route --from x,y,level TARGET...",
		Short: "Compute the optimal visiting order and walk for bookcase tiles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := geo.ParseTile(from)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			targets := make([]library.Bookcase, 0, len(args))
			for i, arg := range args {
				tile, err := geo.ParseTile(arg)
				if err != nil {
					return err
				}
				targets = append(targets, library.Bookcase{ID: i + 1, Tile: tile})
			}

			svc, err := setup(cmd, opts)
			if err != nil {
				return err
			}

			res, err := computeRoute(cmd.Context(), svc, start, targets)
			if err != nil {
				return err
			}
			printRoute(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Start tile as x,y,level")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}

func newPathCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path FROM TO",
		Short: "Print the shortest walk between two x,y,level tiles",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := geo.ParseTile(args[0])
			if err != nil {
				return err
			}
			to, err := geo.ParseTile(args[1])
			if err != nil {
				return err
			}

			svc, err := setup(cmd, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			dist := svc.Distance(from, to)
			if dist == route.UnreachableCost {
				fmt.Fprintf(out, "%s -> %s: unreachable\n", from, to)
				return nil
			}
			fmt.Fprintf(out, "%s -> %s: %d hops\n", from, to, dist)
			for _, t := range svc.Path(from, to) {
				fmt.Fprintln(out, t)
			}
			return nil
		},
	}
}

// setup loads config, installs the logger and builds the route service.
func setup(cmd *cobra.Command, opts *rootOptions) (*route.Service[library.Bookcase], error) {
	cfgPath := opts.configPath
	if cfgPath == "" {
		cfgPath = DefaultConfigPath
		if p := os.Getenv("LIBROUTE_CONFIG"); p != "" {
			cfgPath = p
		}
	}
	cfg, err := config.LoadRouter(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	mapPath := cfg.CollisionMap
	if opts.mapPath != "" {
		mapPath = opts.mapPath
	}
	walk, err := geo.LoadArchive(mapPath, cfg.RegionSize, cfg.Levels)
	if err != nil {
		return nil, err
	}

	links, err := cfg.Links()
	if err != nil {
		return nil, fmt.Errorf("loading transports: %w", err)
	}
	transports := geo.NewTransports(links...)
	if cfg.LibraryTransports {
		transports = library.Transports(links...)
	}
	slog.Debug("transports loaded", "edges", transports.Len())

	finder := geo.NewPathfinder(walk, transports)
	return route.NewService[library.Bookcase](finder, route.Options{
		ExactLimit:  cfg.ExactLimit,
		CacheShards: cfg.CacheShards,
	}), nil
}

// computeRoute runs the service worker until one computation has finished.
func computeRoute[T route.Target](ctx context.Context, svc *route.Service[T], from geo.Tile, targets []T) (*route.Result[T], error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := svc.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("route service: %w", err)
		}
		return nil
	})

	var res *route.Result[T]
	g.Go(func() error {
		defer cancel()

		if !svc.RequestCompute(from, targets) {
			return errors.New("route computation rejected")
		}

		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for svc.IsComputing() {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
			}
		}

		res = svc.Result()
		if res == nil {
			return errors.New("route computation produced no result")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

func printRoute[T route.Target](w io.Writer, res *route.Result[T]) {
	fmt.Fprintln(w, "order:")
	for i, t := range res.Order {
		fmt.Fprintf(w, "  %d. %v\n", i+1, t)
	}
	fmt.Fprintf(w, "path: %d tiles\n", len(res.Path))
	for _, t := range res.Path {
		fmt.Fprintf(w, "  %s\n", t)
	}
	if !res.Complete() {
		fmt.Fprintf(w, "unreachable legs: %v\n", res.Missing)
	}
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
