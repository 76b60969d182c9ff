package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/libroute/internal/geo"
	"github.com/udisondev/libroute/internal/routecache"
	"github.com/udisondev/libroute/internal/tsp"
)

// Router holds all configuration for the route planner.
type Router struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	// Collision map
	CollisionMap string `yaml:"collision_map"` // zip archive of region payloads
	RegionSize   int32  `yaml:"region_size"`
	Levels       int32  `yaml:"levels"`

	// Solver / cache
	ExactLimit  int `yaml:"exact_limit"`  // max nodes (start + targets) solved exactly
	CacheShards int `yaml:"cache_shards"`

	// Transports
	LibraryTransports bool        `yaml:"library_transports"` // install built-in staircases
	Transports        []Transport `yaml:"transports"`
}

// Transport is an extra bidirectional link between two [x, y, level] tiles.
type Transport struct {
	From []int32 `yaml:"from"`
	To   []int32 `yaml:"to"`
}

// Link converts the transport to a geo.Link.
func (t Transport) Link() (geo.Link, error) {
	from, err := tileOf(t.From)
	if err != nil {
		return geo.Link{}, fmt.Errorf("transport from: %w", err)
	}
	to, err := tileOf(t.To)
	if err != nil {
		return geo.Link{}, fmt.Errorf("transport to: %w", err)
	}
	return geo.Link{A: from, B: to}, nil
}

func tileOf(v []int32) (geo.Tile, error) {
	if len(v) != 3 {
		return geo.Tile{}, fmt.Errorf("want [x, y, level], got %d values", len(v))
	}
	return geo.T(v[0], v[1], v[2]), nil
}

// DefaultRouter returns Router config with sensible defaults.
func DefaultRouter() Router {
	return Router{
		LogLevel:          "info",
		CollisionMap:      "data/collision-map.zip",
		RegionSize:        geo.DefaultRegionSize,
		Levels:            geo.DefaultLevels,
		ExactLimit:        tsp.DefaultExactLimit,
		CacheShards:       routecache.DefaultShards,
		LibraryTransports: true,
	}
}

// Validate checks value ranges and transport coordinates.
func (c Router) Validate() error {
	var errs []error
	if c.RegionSize <= 0 {
		errs = append(errs, fmt.Errorf("region_size must be positive, got %d", c.RegionSize))
	}
	if c.Levels <= 0 {
		errs = append(errs, fmt.Errorf("levels must be positive, got %d", c.Levels))
	}
	if c.ExactLimit < 1 || c.ExactLimit > tsp.MaxExactLimit {
		errs = append(errs, fmt.Errorf("exact_limit must be in 1..%d, got %d", tsp.MaxExactLimit, c.ExactLimit))
	}
	if c.CacheShards <= 0 {
		errs = append(errs, fmt.Errorf("cache_shards must be positive, got %d", c.CacheShards))
	}
	for i, t := range c.Transports {
		if _, err := t.Link(); err != nil {
			errs = append(errs, fmt.Errorf("transports[%d]: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Links returns the configured extra transport links.
func (c Router) Links() ([]geo.Link, error) {
	links := make([]geo.Link, 0, len(c.Transports))
	for i, t := range c.Transports {
		l, err := t.Link()
		if err != nil {
			return nil, fmt.Errorf("transports[%d]: %w", i, err)
		}
		links = append(links, l)
	}
	return links, nil
}

// LoadRouter loads router config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadRouter(path string) (Router, error) {
	cfg := DefaultRouter()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}
