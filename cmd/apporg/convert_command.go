package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ytget/app-organizer/internal/platform"
)

func newConvertCommand() *cobra.Command {
	var pretty bool
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "convert <input> <output.json>",
		Short: "Convert an LMA text export or JSON list to JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := inputFormat(formatFlag)
			if err != nil {
				return err
			}

			apps, err := platform.ReadAppsFile(args[0], format)
			if err != nil {
				return err
			}
			if err := platform.WriteAppsFile(args[1], apps, pretty); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d apps to %s\n", len(apps), args[1])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "Indent the JSON output")
	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Input format (json, lma); detected when empty")
	return cmd
}

// inputFormat parses an optional --format flag
func inputFormat(flag string) (platform.Format, error) {
	if flag == "" {
		return "", nil
	}
	return platform.ParseFormat(flag)
}
