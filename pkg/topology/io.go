package topology

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	apperrors "github.com/krhatland/cloudnetdraw-go/pkg/errors"
)

// Marshal converts a topology to indented JSON bytes.
func Marshal(t *Topology) ([]byte, error) {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode topology: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteFile writes a topology to a JSON file.
func WriteFile(t *Topology, path string) error {
	data, err := Marshal(t)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Read decodes a topology document from an io.Reader and validates it.
func Read(r io.Reader) (*Topology, error) {
	var t Topology
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidTopology, err, "decode topology")
	}
	if err := Validate(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// ReadFile reads and validates a topology JSON file.
func ReadFile(path string) (*Topology, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.New(apperrors.ErrCodeFileNotFound, "topology file %s not found", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Validate enforces the document invariants: a non-empty node list, a name
// on every node, and resource-id uniqueness among the nodes that carry one.
// An empty inventory is the fatal case — there is nothing to draw.
func Validate(t *Topology) error {
	if len(t.Nodes) == 0 {
		return apperrors.New(apperrors.ErrCodeEmptyTopology, "topology contains no networks")
	}

	seen := make(map[string]string, len(t.Nodes))
	for i, n := range t.Nodes {
		if n.Name == "" {
			return apperrors.New(apperrors.ErrCodeInvalidTopology, "node %d has no name", i)
		}
		if n.ResourceID == "" {
			continue
		}
		if prev, dup := seen[n.ResourceID]; dup {
			return apperrors.New(apperrors.ErrCodeInvalidTopology,
				"duplicate resource_id %s (nodes %q and %q)", n.ResourceID, prev, n.Name)
		}
		seen[n.ResourceID] = n.Name
	}
	return nil
}
