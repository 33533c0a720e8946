package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/proctex/pkg/generator"
	"github.com/matzehuels/proctex/pkg/preset"
	"github.com/matzehuels/proctex/pkg/render/nodelink"
)

// graphCommand creates the graph command, which writes the node-link
// diagram of a preset.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		output   string
		format   string
		detailed bool
		seed     int64
	)

	cmd := &cobra.Command{
		Use:   "graph [preset]",
		Short: "Write the node-link diagram of a preset (DOT or SVG)",
		Args:  cobra.MaximumNArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return preset.Names(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			name := preset.DefaultName
			if len(args) == 1 {
				name = args[0]
			}
			if !cmd.Flags().Changed("seed") {
				seed = c.Config.Noise.Seed
			}

			g, err := preset.Build(name, preset.Params{Seed: seed, Scale: c.Config.Noise.Scale},
				generator.WithLogger(c.Logger))
			if err != nil {
				return err
			}
			dot := nodelink.ToDOT(g, nodelink.Options{Detailed: detailed})

			var data []byte
			switch format {
			case "dot":
				data = []byte(dot)
			case "svg":
				if data, err = nodelink.RenderSVG(cmd.Context(), dot); err != nil {
					return err
				}
			default:
				return fmt.Errorf("invalid format: %s (must be 'dot' or 'svg')", format)
			}

			if output == "" {
				_, err := os.Stdout.Write(data)
				return err
			}
			if err := writeFile(output, data); err != nil {
				return err
			}
			printSuccess("Wrote graph of %s", StyleValue.Render(name))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot, svg")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show node parameters")
	cmd.Flags().Int64Var(&seed, "seed", 0, "noise seed")

	return cmd
}
