package runner

import (
	"fmt"
	"os"
	"path/filepath"
)

// Discovery lists the pending task config paths for a network. The returned
// order is authoritative: the runner executes tasks exactly in this order and
// never re-sorts them.
type Discovery interface {
	ListPendingTasks(network string) ([]string, error)
}

// FSDiscovery discovers tasks from a directory tree laid out as
// <root>/<network>/<task-name>/config.toml. Task directories are returned in
// lexical order, which by convention carries a numeric ordering prefix
// (e.g. "001-op-gas-config").
type FSDiscovery struct {
	root string
}

// NewFSDiscovery creates a filesystem Discovery rooted at root.
func NewFSDiscovery(root string) *FSDiscovery {
	return &FSDiscovery{root: root}
}

// ListPendingTasks returns the config paths of every task directory under the
// network, in lexical order.
func (d *FSDiscovery) ListPendingTasks(network string) ([]string, error) {
	networkDir := filepath.Join(d.root, network)

	entries, err := os.ReadDir(networkDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read tasks for network %q: %w", network, err)
	}

	var paths []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		configPath := filepath.Join(networkDir, entry.Name(), "config.toml")
		if _, err := os.Stat(configPath); err != nil {
			// Directories without a descriptor are not tasks.
			continue
		}

		paths = append(paths, configPath)
	}

	return paths, nil
}
