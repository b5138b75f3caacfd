package scan

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/recenthist/browser"
	"github.com/hazyhaar/recenthist/history"
)

// Config holds everything a scan needs besides the reference time.
type Config struct {
	Window      time.Duration `yaml:"window"`
	SnapshotDir string        `yaml:"snapshot_dir"`
	LogLevel    string        `yaml:"log_level"`
	Browsers    []string      `yaml:"browsers"`
	Stores      []StoreConfig `yaml:"stores"`
}

// StoreConfig names an explicit History file.
type StoreConfig struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// Defaults fills unset fields. A nil Browsers list means the default set;
// an empty one (browsers: []) means none.
func (c *Config) Defaults() {
	if c.Window == 0 {
		c.Window = history.DefaultWindow
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Browsers == nil {
		c.Browsers = append([]string(nil), browser.Defaults...)
	}
}

// Validate rejects configurations that cannot produce a scan.
func (c *Config) Validate() error {
	if c.Window < 0 {
		return history.ErrNegativeWindow
	}
	for i, s := range c.Stores {
		if s.Path == "" {
			return fmt.Errorf("scan: stores[%d]: empty path", i)
		}
	}
	for _, id := range c.Browsers {
		if _, err := browser.Lookup(id); err != nil {
			return err
		}
	}
	return nil
}

// LoadConfigFile reads a YAML config file. Defaults are not applied.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("scan: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Resolver maps a browser to its History path.
type Resolver func(browser.Browser) (string, error)

// Targets lists the configured browsers, then the explicit stores. A store
// without a name is named after its path. A browser whose path cannot be
// resolved is an error; a resolved path that does not exist is not, it
// fails later as a per-store diagnostic.
func (c *Config) Targets(resolve Resolver) ([]Target, error) {
	if resolve == nil {
		resolve = browser.DefaultHistoryPath
	}
	var targets []Target
	var errs []error
	for _, id := range c.Browsers {
		b, err := browser.Lookup(id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		p, err := resolve(b)
		if err != nil {
			errs = append(errs, fmt.Errorf("scan: %s: %w", b.Name, err))
			continue
		}
		targets = append(targets, Target{Name: b.Name, Path: p})
	}
	for _, s := range c.Stores {
		name := s.Name
		if name == "" {
			name = s.Path
		}
		targets = append(targets, Target{Name: name, Path: s.Path})
	}
	return targets, errors.Join(errs...)
}
