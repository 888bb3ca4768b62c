package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/krhatland/cloudnetdraw-go/pkg/azure"
	"github.com/krhatland/cloudnetdraw-go/pkg/config"
	apperrors "github.com/krhatland/cloudnetdraw-go/pkg/errors"
	"github.com/krhatland/cloudnetdraw-go/pkg/topology"
)

// defaultTopologyFile is where query writes and the diagram commands read
// unless told otherwise.
const defaultTopologyFile = "network_topology.json"

// queryOpts holds the command-line flags for the query command.
type queryOpts struct {
	output           string // topology output path
	subscriptions    string // comma-separated subscription names or IDs
	subscriptionFile string // file with one subscription per line
	all              bool   // query every visible subscription
	vnets            string // comma-separated subscription/rg/vnet paths
	servicePrincipal bool   // use env credentials instead of the az CLI session
	cache            cacheFlags
}

// newQueryCmd creates the query command that collects the Azure inventory
// into a topology file.
func newQueryCmd() *cobra.Command {
	var opts queryOpts

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query Azure and write the network topology to a JSON file",
		Long: `Query collects virtual networks, subnets, peerings, and Virtual WAN hubs
from the selected subscriptions into a topology JSON file.

Subscriptions come from --subscriptions, --subscriptions-file, or --all;
with none of these an interactive picker is shown. --vnets scopes the
query to specific networks (and their peers) instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			given := 0
			for _, set := range []bool{opts.subscriptions != "", opts.subscriptionFile != "", opts.all, opts.vnets != ""} {
				if set {
					given++
				}
			}
			if given > 1 {
				return apperrors.New(apperrors.ErrCodeInvalidInput,
					"--subscriptions, --subscriptions-file, --all, and --vnets are mutually exclusive")
			}
			return runQuery(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", defaultTopologyFile, "topology output file")
	cmd.Flags().StringVarP(&opts.subscriptions, "subscriptions", "s", "", "subscription names or IDs (comma-separated)")
	cmd.Flags().StringVarP(&opts.subscriptionFile, "subscriptions-file", "f", "", "file with one subscription name or ID per line")
	cmd.Flags().BoolVarP(&opts.all, "all", "a", false, "query all visible subscriptions")
	cmd.Flags().StringVarP(&opts.vnets, "vnets", "n", "", "specific VNets as subscription/resource-group/vnet (comma-separated), keeps their peers too")
	cmd.Flags().BoolVarP(&opts.servicePrincipal, "service-principal", "p", false, "authenticate with AZURE_CLIENT_ID/SECRET/TENANT_ID")
	addCacheFlags(cmd, &opts.cache)

	return cmd
}

func addCacheFlags(cmd *cobra.Command, flags *cacheFlags) {
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "bypass the Azure response cache")
	cmd.Flags().StringVar(&flags.cacheDir, "cache-dir", "", "file cache directory (default ~/.cache/cloudnetdraw)")
	cmd.Flags().StringVar(&flags.redisAddr, "redis", "", "Redis address for a shared cache (host:port)")
}

func runQuery(ctx context.Context, opts *queryOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	client, err := newAzureClient(ctx, &opts.cache, opts.servicePrincipal)
	if err != nil {
		return err
	}

	var specs []vnetSpec
	if opts.vnets != "" {
		if specs, err = parseVNetSpecs(opts.vnets); err != nil {
			return err
		}
	}

	subs, err := resolveSubscriptions(ctx, client, opts, specs)
	if err != nil {
		return err
	}
	logger.Debug("resolved subscriptions", "count", len(subs))

	spinner := newSpinner(ctx, fmt.Sprintf("Querying %d subscription(s)...", len(subs)))
	spinner.Start()
	topo, err := client.BuildTopology(ctx, subs)
	if err != nil {
		spinner.StopWithError("Query failed")
		return err
	}
	spinner.Stop()

	if len(specs) > 0 {
		if topo, err = filterToVNets(topo, specs); err != nil {
			return err
		}
		logger.Debug("filtered to requested vnets", "networks", len(topo.Nodes))
	}

	if err := topology.WriteFile(topo, opts.output); err != nil {
		return err
	}

	prog.done(fmt.Sprintf("Queried %d subscription(s)", len(subs)))
	printSuccess("Wrote topology with %d networks", len(topo.Nodes))
	printFile(opts.output)

	class := topology.Classify(topo.Nodes, config.Default().HubThreshold())
	printStats(len(topo.Nodes), len(class.Hubs), len(class.NonPeeredSpokes))
	printNextStep("Render it", "cloudnetdraw hld "+opts.output)
	return nil
}

// resolveSubscriptions turns the flag inputs into concrete subscriptions,
// falling back to the interactive picker when nothing was specified.
func resolveSubscriptions(ctx context.Context, client *azure.Client, opts *queryOpts, specs []vnetSpec) ([]azure.Subscription, error) {
	switch {
	case opts.all:
		return client.Subscriptions(ctx)
	case opts.subscriptions != "":
		return matchSubscriptions(ctx, client, splitList(opts.subscriptions))
	case opts.subscriptionFile != "":
		names, err := readLines(opts.subscriptionFile)
		if err != nil {
			return nil, err
		}
		return matchSubscriptions(ctx, client, names)
	case len(specs) > 0:
		return matchSubscriptions(ctx, client, specSubscriptions(specs))
	default:
		all, err := client.Subscriptions(ctx)
		if err != nil {
			return nil, err
		}
		return pickSubscriptions(all)
	}
}

// matchSubscriptions resolves a mix of display names and subscription IDs.
func matchSubscriptions(ctx context.Context, client *azure.Client, wanted []string) ([]azure.Subscription, error) {
	all, err := client.Subscriptions(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]azure.Subscription, len(all))
	byName := make(map[string]azure.Subscription, len(all))
	for _, s := range all {
		byID[s.ID] = s
		byName[s.Name] = s
	}

	out := make([]azure.Subscription, 0, len(wanted))
	for _, w := range wanted {
		if s, ok := byID[w]; ok {
			out = append(out, s)
			continue
		}
		if s, ok := byName[w]; ok {
			out = append(out, s)
			continue
		}
		return nil, apperrors.New(apperrors.ErrCodeSubscriptionNotFound, "subscription %q not found", w)
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.New(apperrors.ErrCodeFileNotFound, "subscriptions file %s not found", path)
		}
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "subscriptions file %s is empty", path)
	}
	return lines, nil
}
