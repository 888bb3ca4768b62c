package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/krhatland/cloudnetdraw-go/pkg/config"
	"github.com/krhatland/cloudnetdraw-go/pkg/render/nodelink"
	"github.com/krhatland/cloudnetdraw-go/pkg/topology"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	output   string // output path
	format   string // svg, png, or dot
	detailed bool   // include address space and subscription in labels
	config   string // configuration file
}

// newGraphCmd creates the graph command rendering the peering structure
// with Graphviz.
func newGraphCmd() *cobra.Command {
	var opts graphOpts

	cmd := &cobra.Command{
		Use:   "graph [topology.json]",
		Short: "Render the peering structure as a node-link graph",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateGraphFormat(opts.format); err != nil {
				return err
			}
			input := defaultTopologyFile
			if len(args) == 1 {
				input = args[0]
			}
			return runGraph(cmd.Context(), input, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <input>_graph.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "svg", "output format: svg, png, dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include address space and subscription in labels")
	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "configuration file (.yaml or .toml)")

	return cmd
}

func validateGraphFormat(f string) error {
	switch f {
	case "svg", "png", "dot":
		return nil
	default:
		return fmt.Errorf("invalid format: %s (must be 'svg', 'png', or 'dot')", f)
	}
}

func runGraph(ctx context.Context, input string, opts *graphOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(opts.config)
	if err != nil {
		return err
	}
	topo, err := topology.ReadFile(input)
	if err != nil {
		return err
	}

	logger.Info("Generating peering graph")
	dot := nodelink.ToDOT(topo, cfg, nodelink.Options{Detailed: opts.detailed})

	var data []byte
	switch opts.format {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, err = nodelink.RenderSVG(ctx, dot)
	case "png":
		data, err = nodelink.RenderPNG(ctx, dot)
	}
	if err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		output = strings.TrimSuffix(input, ".json") + "_graph." + opts.format
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return err
	}

	printSuccess("Rendered peering graph with %d networks", len(topo.Nodes))
	printFile(output)
	return nil
}
