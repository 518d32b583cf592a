package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NodeConfig is one node's bootstrap configuration: its own id and
// listen address, where it keeps its local filesystem database, and
// the addresses of every peer node it might route to.
type NodeConfig struct {
	NodeID     uint32            `yaml:"node_id"`
	ListenAddr string            `yaml:"listen_addr"`
	DataDir    string            `yaml:"data_dir"`
	Peers      map[uint32]string `yaml:"peers"`
}

// Load reads a NodeConfig from a YAML file, filling in
// DefaultPort/DefaultDataDir where the file leaves them blank; the
// values it reads are not otherwise checked. An
// empty path yields an all-defaults single-node config, so a node can
// be started without any bootstrap file for local experimentation.
func Load(path string) (*NodeConfig, error) {
	var cfg NodeConfig

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = fmt.Sprintf(":%d", DefaultPort)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir
	}
	if cfg.Peers == nil {
		cfg.Peers = make(map[uint32]string)
	}

	return &cfg, nil
}

// PeerAddr implements router.NodeDirectory.
func (c *NodeConfig) PeerAddr(nodeID uint32) (string, bool) {
	addr, ok := c.Peers[nodeID]
	return addr, ok
}
