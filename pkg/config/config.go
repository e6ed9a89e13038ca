// Package config loads the optional scene.yaml runtime configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/scene/pkg/instrument"
	"github.com/go-drift/scene/pkg/node"
	"github.com/go-drift/scene/pkg/trace"
)

// FileName is the file LoadOptional looks for.
const FileName = "scene.yaml"

// CurrentAPIVersion is the API version this build implements.
const CurrentAPIVersion = "v1.2.0"

// Config represents scene.yaml.
type Config struct {
	API             APIConfig             `yaml:"api"`
	Tree            TreeConfig            `yaml:"tree"`
	Instrumentation InstrumentationConfig `yaml:"instrumentation"`
	Vsync           VsyncConfig           `yaml:"vsync"`
	Log             LogConfig             `yaml:"log"`
}

// APIConfig selects the API version a host expects.
type APIConfig struct {
	Version string `yaml:"version,omitempty"`
}

// TreeConfig holds the tree mutation policy.
type TreeConfig struct {
	InsertFallback string `yaml:"insertFallback,omitempty"`
	AllowReparent  bool   `yaml:"allowReparent,omitempty"`
}

// PhaseDelays is the injected latency for one node type.
type PhaseDelays struct {
	Create  time.Duration `yaml:"create,omitempty"`
	Measure time.Duration `yaml:"measure,omitempty"`
	Layout  time.Duration `yaml:"layout,omitempty"`
	Draw    time.Duration `yaml:"draw,omitempty"`
}

// InstrumentationConfig maps node type names to delays.
type InstrumentationConfig struct {
	Delays map[string]PhaseDelays `yaml:"delays,omitempty"`
}

// VsyncConfig paces the frame ticker.
type VsyncConfig struct {
	Interval time.Duration `yaml:"interval,omitempty"`
}

// LogConfig controls the trace sink.
type LogConfig struct {
	Verbose bool     `yaml:"verbose,omitempty"`
	Groups  []string `yaml:"groups,omitempty"`
}

// Default returns the configuration used when no scene.yaml exists.
func Default() *Config {
	return &Config{
		API:   APIConfig{Version: CurrentAPIVersion},
		Tree:  TreeConfig{InsertFallback: node.FallbackAppend.String()},
		Vsync: VsyncConfig{Interval: 16 * time.Millisecond},
	}
}

// Load reads and validates the file at path. Missing fields keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	return Parse(data)
}

// LoadOptional reads scene.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Parse decodes and validates YAML.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field that needs resolving.
func (c *Config) Validate() error {
	v := strings.TrimSpace(c.API.Version)
	if v != "" && !semver.IsValid(v) {
		return fmt.Errorf("api.version %q is not a valid semantic version (want e.g. v1.2.0)", v)
	}
	if _, err := c.Policy(); err != nil {
		return fmt.Errorf("tree.insertFallback: %w", err)
	}
	if _, err := c.Delays(); err != nil {
		return fmt.Errorf("instrumentation.delays: %w", err)
	}
	if _, err := c.LogGroups(); err != nil {
		return fmt.Errorf("log.groups: %w", err)
	}
	if c.Vsync.Interval < 0 {
		return fmt.Errorf("vsync.interval must not be negative (got %s)", c.Vsync.Interval)
	}
	return nil
}

// APIVersion returns the configured version, or CurrentAPIVersion.
func (c *Config) APIVersion() string {
	if v := strings.TrimSpace(c.API.Version); v != "" {
		return v
	}
	return CurrentAPIVersion
}

// Policy resolves the tree section.
func (c *Config) Policy() (node.Policy, error) {
	fallback, err := node.ParseFallback(c.Tree.InsertFallback)
	if err != nil {
		return node.Policy{}, err
	}
	return node.Policy{Fallback: fallback, AllowReparent: c.Tree.AllowReparent}, nil
}

// Delays builds the instrumentation table. Type names are resolved with
// node.ParseType.
func (c *Config) Delays() (*instrument.Table, error) {
	table := instrument.NewTable()
	names := make([]string, 0, len(c.Instrumentation.Delays))
	for name := range c.Instrumentation.Delays {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		typ, err := node.ParseType(name)
		if err != nil {
			return nil, err
		}
		d := c.Instrumentation.Delays[name]
		for _, p := range []struct {
			phase instrument.Phase
			delay time.Duration
		}{
			{instrument.PhaseCreate, d.Create},
			{instrument.PhaseMeasure, d.Measure},
			{instrument.PhaseLayout, d.Layout},
			{instrument.PhaseDraw, d.Draw},
		} {
			if p.delay < 0 {
				return nil, fmt.Errorf("%s %s delay must not be negative", name, p.phase)
			}
			table.Set(p.phase, typ, p.delay)
		}
	}
	return table, nil
}

// LogGroups resolves the group names to start at startup.
func (c *Config) LogGroups() ([]trace.Kind, error) {
	kinds := make([]trace.Kind, 0, len(c.Log.Groups))
	for _, name := range c.Log.Groups {
		k, err := trace.ParseKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}
