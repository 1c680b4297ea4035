package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ytget/app-organizer/internal/bootstrap"
	"github.com/ytget/app-organizer/internal/model"
	"github.com/ytget/app-organizer/internal/platform"
	"github.com/ytget/app-organizer/internal/search"
)

const notesPreviewLen = 40

func newListCommand(ctx *commandContext) *cobra.Command {
	var filter string
	var flagged bool
	var jsonOutput bool
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "list <file>",
		Short: "Show the apps of a list",
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

			indices := search.FilterApps(apps, filter)
			if flagged {
				indices = search.FilterFlagged(apps, indices)
			}
			selected := make([]model.AndroidApp, 0, len(indices))
			for _, i := range indices {
				selected = append(selected, apps[i])
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				data, err := platform.EncodeAppsJSON(selected, true)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			if len(selected) == 0 {
				fmt.Fprintln(out, "No apps")
				return nil
			}

			return ctx.withServices(func(services *bootstrap.Services) error {
				rows := make([][]string, 0, len(selected))
				for _, app := range selected {
					_, cached, _ := services.Store.Get(app.ID)
					rows = append(rows, []string{
						app.DisplayName(),
						app.ID,
						yesNo(app.Delete),
						yesNo(cached),
						preview(app.Notes),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Name", "ID", "Delete", "Icon", "Notes"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
				))
				fmt.Fprintf(out, "%d of %d apps, %d to delete\n", len(selected), len(apps), model.CountFlagged(selected))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Fuzzy filter on name and id")
	cmd.Flags().BoolVar(&flagged, "flagged", false, "Only apps marked for deletion")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the selected apps as JSON")
	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Input format (json, lma); detected when empty")
	return cmd
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// preview flattens notes to one short line
func preview(notes string) string {
	line := strings.Join(strings.Fields(notes), " ")
	runes := []rune(line)
	if len(runes) > notesPreviewLen {
		return string(runes[:notesPreviewLen-1]) + "…"
	}
	return line
}
