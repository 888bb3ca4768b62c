package cli

import (
	"strings"

	apperrors "github.com/krhatland/cloudnetdraw-go/pkg/errors"
	"github.com/krhatland/cloudnetdraw-go/pkg/topology"
)

// vnetSpec identifies one VNet as subscription/resource-group/name. The
// subscription part may be a display name or a subscription ID.
type vnetSpec struct {
	subscription  string
	resourceGroup string
	name          string
}

func parseVNetSpecs(s string) ([]vnetSpec, error) {
	var specs []vnetSpec
	for _, part := range splitList(s) {
		fields := strings.Split(part, "/")
		if len(fields) != 3 || fields[0] == "" || fields[1] == "" || fields[2] == "" {
			return nil, apperrors.New(apperrors.ErrCodeInvalidInput,
				"invalid vnet path %q (want subscription/resource-group/vnet)", part)
		}
		specs = append(specs, vnetSpec{
			subscription:  fields[0],
			resourceGroup: fields[1],
			name:          fields[2],
		})
	}
	if len(specs) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "no vnet paths given")
	}
	return specs, nil
}

// specSubscriptions returns the distinct subscription parts in input order.
func specSubscriptions(specs []vnetSpec) []string {
	seen := make(map[string]bool, len(specs))
	var out []string
	for _, spec := range specs {
		if !seen[spec.subscription] {
			seen[spec.subscription] = true
			out = append(out, spec.subscription)
		}
	}
	return out
}

func (v vnetSpec) matches(n *topology.Node) bool {
	return strings.EqualFold(n.Name, v.name) &&
		strings.EqualFold(n.ResourceGroupName, v.resourceGroup) &&
		(strings.EqualFold(n.SubscriptionName, v.subscription) ||
			strings.EqualFold(n.SubscriptionID, v.subscription))
}

// filterToVNets narrows the topology to the named VNets plus every network
// directly peered with one of them, in either direction. A spec that
// matches nothing is an error: a silently empty diagram hides typos.
func filterToVNets(topo *topology.Topology, specs []vnetSpec) (*topology.Topology, error) {
	seeds := make(map[*topology.Node]bool)
	for _, spec := range specs {
		found := false
		for _, n := range topo.Nodes {
			if spec.matches(n) {
				seeds[n] = true
				found = true
			}
		}
		if !found {
			return nil, apperrors.New(apperrors.ErrCodeNotFound,
				"vnet %s/%s/%s not found", spec.subscription, spec.resourceGroup, spec.name)
		}
	}

	keep := make(map[*topology.Node]bool, len(seeds))
	for n := range seeds {
		keep[n] = true
	}
	for _, n := range topo.Nodes {
		if keep[n] {
			continue
		}
		for seed := range seeds {
			if n.PeersWith(seed.ResourceID) || seed.PeersWith(n.ResourceID) {
				keep[n] = true
				break
			}
		}
	}

	out := &topology.Topology{}
	for _, n := range topo.Nodes {
		if keep[n] {
			out.Nodes = append(out.Nodes, n)
		}
	}
	return out, nil
}
