// Package bootstrap loads a cluster's frozen membership and timing
// configuration from a YAML file and builds the NodeId list a
// constructor needs to send each peer its Init message.
package bootstrap

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	raft "github.com/CynthiaZ92/raft"
	"github.com/CynthiaZ92/raft/timing"
)

// PeerConfig names one cluster member in the config file. Id is left
// blank to have one minted automatically via NodeId(uuid.New()).
type PeerConfig struct {
	Id      string `yaml:"id"`
	Address string `yaml:"address"`
}

// TimingConfig overrides the default election/heartbeat ranges.
type TimingConfig struct {
	ElectionTimeoutLowMs  int64 `yaml:"election_timeout_low_ms"`
	ElectionTimeoutHighMs int64 `yaml:"election_timeout_high_ms"`
	HeartbeatLowMs        int64 `yaml:"heartbeat_low_ms"`
	HeartbeatHighMs       int64 `yaml:"heartbeat_high_ms"`
}

// Config is the top-level shape of a cluster config file.
type Config struct {
	Peers  []PeerConfig `yaml:"peers"`
	Timing TimingConfig `yaml:"timing"`
}

// Load reads and validates a cluster config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("bootstrap: parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("bootstrap: invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Peers) < 1 {
		return fmt.Errorf("peers must name at least 1 cluster member")
	}
	seen := make(map[string]bool, len(c.Peers))
	for _, p := range c.Peers {
		if p.Id == "" {
			continue // minted at NodeIds() time
		}
		if seen[p.Id] {
			return fmt.Errorf("duplicate peer id: %s", p.Id)
		}
		seen[p.Id] = true
	}
	if c.Timing.ElectionTimeoutLowMs > 0 && c.Timing.ElectionTimeoutHighMs <= c.Timing.ElectionTimeoutLowMs {
		return fmt.Errorf("election_timeout_high_ms must be greater than election_timeout_low_ms")
	}
	if c.Timing.HeartbeatLowMs > 0 && c.Timing.HeartbeatHighMs <= c.Timing.HeartbeatLowMs {
		return fmt.Errorf("heartbeat_high_ms must be greater than heartbeat_low_ms")
	}
	if c.Timing.ElectionTimeoutLowMs > 0 && c.Timing.HeartbeatHighMs > 0 &&
		c.Timing.HeartbeatHighMs > c.Timing.ElectionTimeoutLowMs {
		return fmt.Errorf("heartbeat_high_ms must not exceed election_timeout_low_ms")
	}
	return nil
}

// NodeIds mints a raft.NodeId for every peer that didn't name one
// explicitly (via google/uuid) and returns the full, stable membership
// list in file order.
func (c *Config) NodeIds() []raft.NodeId {
	ids := make([]raft.NodeId, len(c.Peers))
	for i, p := range c.Peers {
		if p.Id != "" {
			ids[i] = raft.NodeId(p.Id)
		} else {
			ids[i] = raft.NodeId(uuid.New().String())
		}
	}
	return ids
}

// ElectionTimeout returns the configured election timeout range, or
// timing.DefaultElectionTimeout if unset.
func (c *Config) ElectionTimeout() timing.Range {
	if c.Timing.ElectionTimeoutLowMs <= 0 {
		return timing.DefaultElectionTimeout
	}
	return timing.Range{
		Low:  time.Duration(c.Timing.ElectionTimeoutLowMs) * time.Millisecond,
		High: time.Duration(c.Timing.ElectionTimeoutHighMs) * time.Millisecond,
	}
}

// HeartbeatInterval returns the configured heartbeat range, or
// timing.DefaultHeartbeatInterval if unset.
func (c *Config) HeartbeatInterval() timing.Range {
	if c.Timing.HeartbeatLowMs <= 0 {
		return timing.DefaultHeartbeatInterval
	}
	return timing.Range{
		Low:  time.Duration(c.Timing.HeartbeatLowMs) * time.Millisecond,
		High: time.Duration(c.Timing.HeartbeatHighMs) * time.Millisecond,
	}
}
