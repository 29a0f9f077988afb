// Package scenario loads YAML files describing a set of coroutine threads
// to start and the tick length to drive them with, for the corun CLI.
package scenario

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	coroutine "github.com/dispatchloop/corostate"
	"github.com/dispatchloop/corostate/examples"
)

// Config is the root scenario document.
type Config struct {
	Name    string         `yaml:"name"`
	Tick    time.Duration  `yaml:"tick"`
	Threads []ThreadConfig `yaml:"threads"`
}

// ThreadConfig names one generator method to start as a top-level thread.
type ThreadConfig struct {
	Method string `yaml:"method"`
	Start  int    `yaml:"start,omitempty"`
	Tag    string `yaml:"tag,omitempty"`
}

// Load reads and parses a scenario file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing scenario file: %w", err)
	}
	if len(cfg.Threads) == 0 {
		return nil, fmt.Errorf("scenario %q declares no threads", path)
	}
	return &cfg, nil
}

// Build starts every thread the scenario declares on exec, in document
// order, and tags each with its ThreadConfig.Tag (when set) for later
// identification in output.
func (c *Config) Build(exec *coroutine.CoroutineExecutor) error {
	for _, th := range c.Threads {
		id := coroutine.NewIdentifier(th.Method).In("examples")
		gen, err := examples.New(id, th.Start)
		if err != nil {
			return fmt.Errorf("thread %q: %w", th.Method, err)
		}
		thread, err := exec.Start(id, gen)
		if err != nil {
			return fmt.Errorf("thread %q: %w", th.Method, err)
		}
		if th.Tag != "" {
			thread.SetTag(th.Tag)
		}
	}
	return nil
}
