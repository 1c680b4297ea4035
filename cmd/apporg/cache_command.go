package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ytget/app-organizer/internal/bootstrap"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the icon store",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show icon store usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(func(services *bootstrap.Services) error {
				stats, err := services.Store.Stats()
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				path := stats.Path
				if path == "" {
					path = "(memory only)"
				}
				fmt.Fprintf(out, "Store:  %s\n", path)
				fmt.Fprintf(out, "Icons:  %d\n", stats.Icons)
				fmt.Fprintf(out, "Size:   %s\n", humanBytes(stats.Bytes))
				if stats.Icons > 0 {
					const stampLayout = "2006-01-02 15:04"
					fmt.Fprintf(out, "Oldest: %s\n", stats.Oldest.Local().Format(stampLayout))
					fmt.Fprintf(out, "Newest: %s\n", stats.Newest.Local().Format(stampLayout))
				}
				return nil
			})
		},
	}
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored icons",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(func(services *bootstrap.Services) error {
				ids, err := services.Store.IDs()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(ids) == 0 {
					fmt.Fprintln(out, "Stored icons: none")
					return nil
				}

				rows := make([][]string, 0, len(ids))
				for _, id := range ids {
					data, _, err := services.Store.Get(id)
					if err != nil {
						return err
					}
					fetched := "unknown"
					if at, ok := services.Store.FetchedAt(id); ok {
						fetched = at.Local().Format(time.DateTime)
					}
					rows = append(rows, []string{id, humanBytes(int64(len(data))), fetched})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Size", "Fetched"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every stored icon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(func(services *bootstrap.Services) error {
				n, err := services.Store.Clear()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d icons\n", n)
				return nil
			})
		},
	}
}
