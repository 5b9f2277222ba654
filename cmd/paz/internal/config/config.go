// Package config provides the configuration system for the paz CLI.
//
// Configuration is stored under os.UserConfigDir()/paz/, or under
// $PAZ_CONFIG_DIR when set:
//
//	~/Library/Application Support/paz/   (macOS)
//	~/.config/paz/                       (Linux)
//	%AppData%/paz/                       (Windows)
//
// Layout:
//
//	paz/
//	├── current-context          # plain text: name of current context
//	├── data/                    # default wellness database
//	├── sounds/                  # default ambient sound directory
//	└── contexts/
//	    ├── home/
//	    │   ├── data.yaml
//	    │   ├── sounds.yaml
//	    │   ├── gemini.yaml
//	    │   └── openai.yaml
//	    └── travel/
//	        └── ...
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// appDir is the directory name under os.UserConfigDir().
	appDir = "paz"

	// EnvDir overrides the configuration directory.
	EnvDir = "PAZ_CONFIG_DIR"

	// currentContextFile stores the name of the current context.
	currentContextFile = "current-context"

	// contextsDir is the subdirectory holding all context directories.
	contextsDir = "contexts"

	dataDir   = "data"
	soundsDir = "sounds"
)

// Config holds the root configuration state.
type Config struct {
	// Dir is the root configuration directory.
	Dir string

	// CurrentContext is the name of the active context.
	CurrentContext string
}

// Load loads the configuration from $PAZ_CONFIG_DIR or the default location.
func Load() (*Config, error) {
	if dir := os.Getenv(EnvDir); dir != "" {
		return LoadFrom(dir)
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("cannot determine config directory: %w", err)
	}
	return LoadFrom(filepath.Join(base, appDir))
}

// LoadFrom loads the configuration from a specific root directory.
func LoadFrom(dir string) (*Config, error) {
	cfg := &Config{Dir: dir}

	// current-context is absent until the first use-context.
	if data, err := os.ReadFile(filepath.Join(dir, currentContextFile)); err == nil {
		cfg.CurrentContext = strings.TrimSpace(string(data))
	}
	return cfg, nil
}

// ValidateContextName checks that a context name is usable as a directory
// name.
func ValidateContextName(name string) error {
	if name == "" {
		return fmt.Errorf("context name cannot be empty")
	}
	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("context name %q must not contain path separators", name)
	}
	if strings.HasPrefix(name, ".") {
		return fmt.Errorf("context name %q must not start with '.'", name)
	}
	return nil
}

// ContextsDir returns the path to the contexts directory.
func (c *Config) ContextsDir() string {
	return filepath.Join(c.Dir, contextsDir)
}

// ContextDir returns the directory path for a named context.
func (c *Config) ContextDir(name string) string {
	return filepath.Join(c.Dir, contextsDir, name)
}

// CurrentContextDir returns the directory path for the current context.
// Returns an error if no current context is set.
func (c *Config) CurrentContextDir() (string, error) {
	if c.CurrentContext == "" {
		return "", fmt.Errorf("no current context set; use 'paz config use-context <name>'")
	}
	return c.ContextDir(c.CurrentContext), nil
}

// DataDir is the default wellness database directory, used when the data
// service does not name one.
func (c *Config) DataDir() string {
	return filepath.Join(c.Dir, dataDir)
}

// SoundsDir is the default ambient sample directory.
func (c *Config) SoundsDir() string {
	return filepath.Join(c.Dir, soundsDir)
}

// ResolveContext returns the directory for the given context name,
// or the current context if name is empty.
func (c *Config) ResolveContext(name string) (string, error) {
	if name == "" {
		return c.CurrentContextDir()
	}
	return c.existing(name)
}

// existing validates name and returns its directory if the context exists.
func (c *Config) existing(name string) (string, error) {
	if err := ValidateContextName(name); err != nil {
		return "", err
	}
	dir := c.ContextDir(name)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return "", fmt.Errorf("context %q not found", name)
	}
	return dir, nil
}

// ListContexts returns the names of all available contexts.
func (c *Config) ListContexts() ([]string, error) {
	entries, err := os.ReadDir(c.ContextsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list contexts: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// AddContext creates a new context directory.
func (c *Config) AddContext(name string) error {
	if err := ValidateContextName(name); err != nil {
		return err
	}

	dir := c.ContextDir(name)
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("context %q already exists", name)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create context %q: %w", name, err)
	}
	return nil
}

// DeleteContext removes a context directory and all its service configs.
// Deleting the current context leaves no context selected.
func (c *Config) DeleteContext(name string) error {
	dir, err := c.existing(name)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("delete context %q: %w", name, err)
	}
	if c.CurrentContext != name {
		return nil
	}
	c.CurrentContext = ""
	return c.saveCurrentContext()
}

// UseContext switches the current context.
func (c *Config) UseContext(name string) error {
	if _, err := c.existing(name); err != nil {
		return err
	}
	c.CurrentContext = name
	return c.saveCurrentContext()
}

// saveCurrentContext writes the current-context file.
func (c *Config) saveCurrentContext() error {
	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	path := filepath.Join(c.Dir, currentContextFile)
	return os.WriteFile(path, []byte(c.CurrentContext+"\n"), 0644)
}
