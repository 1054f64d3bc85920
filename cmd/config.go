package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/WarpedWartWars/lips/lisp"
	"gopkg.in/yaml.v3"
)

// Config is the contents of a lips configuration file.
type Config struct {
	Prompt             string `yaml:"prompt"`
	ContinuationPrompt string `yaml:"continuation_prompt"`
	HistoryFile        string `yaml:"history_file"`
	// MaxDepth overrides lisp.DefaultMaxDepth when set.  Zero disables the
	// limit.
	MaxDepth *int   `yaml:"max_depth"`
	LogLevel string `yaml:"log_level"`
	// Preload lists source files evaluated before any user code.
	Preload []string `yaml:"preload"`
	// Globals are exposed to lisp code as host values.
	Globals map[string]interface{} `yaml:"globals"`
}

// LoadConfig reads the configuration file at path.  An empty path yields the
// zero Config.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// DecodeConfig parses a YAML configuration document.  Unknown keys are an
// error.
func DecodeConfig(r io.Reader) (*Config, error) {
	c := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	err := dec.Decode(c)
	if err == io.EOF {
		return c, nil
	}
	if err != nil {
		return nil, err
	}
	if _, err := c.Level(); err != nil {
		return nil, err
	}
	return c, nil
}

// Level returns the configured log level, defaulting to warnings.
func (c *Config) Level() (slog.Level, error) {
	if c.LogLevel == "" {
		return slog.LevelWarn, nil
	}
	var level slog.Level
	err := level.UnmarshalText([]byte(c.LogLevel))
	if err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// LispConfig returns the environment configuration described by c.  Preload
// files are evaluated last and must settle before ctx is done.
func (c *Config) LispConfig(ctx context.Context, logger *slog.Logger) []lisp.Config {
	var config []lisp.Config
	if logger != nil {
		config = append(config, lisp.WithLogger(logger))
	}
	if c.MaxDepth != nil {
		config = append(config, lisp.WithMaximumDepth(*c.MaxDepth))
	}
	if len(c.Globals) > 0 {
		config = append(config, lisp.WithFallback(lisp.MapFallback(c.Globals)))
	}
	for _, path := range c.Preload {
		config = append(config, withPreload(ctx, path))
	}
	return config
}

func withPreload(ctx context.Context, path string) lisp.Config {
	return func(env *lisp.Env) error {
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		env.Runtime.Logger.Info("preload", "path", path)
		_, err = runSource(ctx, env, path, string(b))
		return err
	}
}

// runSource evaluates src and waits for every form to settle.
func runSource(ctx context.Context, env *lisp.Env, name string, src string) ([]*lisp.LVal, error) {
	v, err := lisp.ExecNamed(name, src, env, false)
	if err != nil {
		return nil, err
	}
	v, err = env.Runtime.Await(ctx, v)
	if err != nil {
		return nil, err
	}
	return lisp.ToSlice(v), nil
}
