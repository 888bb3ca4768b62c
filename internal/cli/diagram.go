package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/krhatland/cloudnetdraw-go/pkg/config"
	"github.com/krhatland/cloudnetdraw-go/pkg/layout"
	"github.com/krhatland/cloudnetdraw-go/pkg/render/drawio"
	"github.com/krhatland/cloudnetdraw-go/pkg/topology"
)

// diagramOpts holds the command-line flags for the hld and mld commands.
type diagramOpts struct {
	output string // draw.io output path
	config string // configuration file (.yaml or .toml)
}

// newDiagramCmd creates the hld or mld command. Both run the same pipeline;
// the mode only changes box heights and subnet visibility.
func newDiagramCmd(mode string) *cobra.Command {
	var opts diagramOpts

	short := "Render a high-level diagram (VNet boxes only)"
	if mode == "mld" {
		short = "Render a mid-level diagram (VNets with subnet rows)"
	}

	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s [topology.json]", mode),
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := defaultTopologyFile
			if len(args) == 1 {
				input = args[0]
			}
			return runDiagram(cmd.Context(), layout.Mode(mode), input, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", fmt.Sprintf("output file (default <input>_%s.drawio)", mode))
	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "configuration file (.yaml or .toml)")

	return cmd
}

func runDiagram(ctx context.Context, mode layout.Mode, input string, opts *diagramOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(opts.config)
	if err != nil {
		return err
	}

	topo, err := topology.ReadFile(input)
	if err != nil {
		return err
	}
	logger.Debug("loaded topology", "file", input, "networks", len(topo.Nodes))

	d, err := layout.NewEngine(cfg, mode, logger).Build(topo)
	if err != nil {
		return err
	}
	logger.Debug("computed layout",
		"groups", len(d.Groups), "boxes", len(d.Boxes), "edges", len(d.Edges))

	output := opts.output
	if output == "" {
		output = strings.TrimSuffix(input, ".json") + "_" + string(mode) + ".drawio"
	}
	if err := drawio.WriteFile(output, d, cfg); err != nil {
		return err
	}

	printSuccess("Rendered %s diagram with %d networks", strings.ToUpper(string(mode)), len(topo.Nodes))
	printFile(output)
	return nil
}
