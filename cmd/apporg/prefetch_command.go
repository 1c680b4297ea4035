package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/ytget/app-organizer/internal/bootstrap"
	"github.com/ytget/app-organizer/internal/fetch"
	"github.com/ytget/app-organizer/internal/imagecache"
	"github.com/ytget/app-organizer/internal/model"
	"github.com/ytget/app-organizer/internal/platform"
)

const defaultPrefetchTimeout = 5 * time.Minute

func newPrefetchCommand(ctx *commandContext) *cobra.Command {
	var parallel int
	var timeout time.Duration
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "prefetch <file>",
		Short: "Download and store the icons of every app in a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := inputFormat(formatFlag)
			if err != nil {
				return err
			}
			apps, err := platform.ReadAppsFile(args[0], format)
			if err != nil {
				return err
			}

			return ctx.withServices(func(services *bootstrap.Services) error {
				if services.Config.Cache.Disabled {
					fmt.Fprintln(cmd.ErrOrStderr(), "warning: icon cache is disabled; icons will not be kept")
				}
				if !cmd.Flags().Changed("parallel") {
					parallel = services.Config.Fetch.MaxParallel
				}

				runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
				defer stop()
				runCtx, cancel := context.WithTimeout(runCtx, timeout)
				defer cancel()

				result, err := prefetch(runCtx, services, model.IDs(apps), parallel)
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Fetched %d of %d icons in %s\n", result.stored, result.requested, result.elapsed.Round(time.Millisecond))
				for _, id := range result.failed {
					fmt.Fprintf(out, "  missing: %s\n", id)
				}
				return err
			})
		},
	}

	cmd.Flags().IntVarP(&parallel, "parallel", "j", 0, "Concurrent fetches (default from config, 0 = unlimited)")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultPrefetchTimeout, "Give up after this long")
	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Input format (json, lma); detected when empty")
	return cmd
}

type prefetchResult struct {
	requested int
	stored    int64
	failed    []string
	elapsed   time.Duration
}

// prefetch runs one batch through a coordinator and waits for it to drain.
// The cache only tracks presence, so its handle type carries nothing.
func prefetch(ctx context.Context, services *bootstrap.Services, ids []string, parallel int) (prefetchResult, error) {
	start := time.Now()
	batch := model.NewFetchBatch(ids)
	result := prefetchResult{requested: batch.Len()}

	cache := imagecache.New[struct{}]()
	coordinator := fetch.NewCoordinator(services.Fetcher, cache, parallel, services.Logger)

	var stored atomic.Int64
	coordinator.SetStoredCallback(func(string) { stored.Add(1) })

	if batch.Len() > 0 {
		coordinator.EnsureCached(batch.IDs)
	}
	waitErr := coordinator.Wait(ctx)
	coordinator.Shutdown()

	result.stored = stored.Load()
	for _, id := range batch.IDs {
		if _, ok := cache.Get(id); !ok {
			result.failed = append(result.failed, id)
		}
	}
	result.elapsed = time.Since(start)
	return result, waitErr
}
