package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// presetsCommand lists the built-in presets.
func (c *CLI) presetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in texture presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := presetEntries()
			rows := make([][]string, len(entries))
			for i, p := range entries {
				rows[i] = []string{"", p.Name, p.Description}
			}
			fmt.Fprintln(cmd.OutOrStdout(), presetTable(rows, nil).Render())
			return nil
		},
	}
}
