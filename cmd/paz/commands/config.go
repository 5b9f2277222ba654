package commands

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pazhealth/paz/cmd/paz/internal/config"
)

// validateServiceName checks that a service name is non-empty and safe for use as a filename.
func validateServiceName(service string) error {
	if service == "" {
		return fmt.Errorf("service name cannot be empty")
	}
	if strings.ContainsAny(service, "/\\") {
		return fmt.Errorf("service name %q must not contain path separators", service)
	}
	if strings.HasPrefix(service, ".") {
		return fmt.Errorf("service name %q must not start with '.'", service)
	}
	return nil
}

// secretKeys are masked by 'config show'.
var secretKeys = map[string]bool{
	"api_key":           true,
	"secret_access_key": true,
}

func maskSecret(s string) string {
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "****" + s[len(s)-4:]
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage contexts and service configurations.

A context is a named directory holding per-service YAML config files:
  data.yaml     dir, user, language
  sounds.yaml   dir or bucket/prefix/region/endpoint, volume
  gemini.yaml   api_key, model, base_url
  openai.yaml   api_key, model, base_url

Examples:
  paz config list
  paz config add-context home
  paz config use-context home
  paz config set home gemini api_key AIza...
  paz config set home sounds volume 0.4
  paz config show home gemini`,
}

var configListContextsCmd = &cobra.Command{
	Use:     "list-contexts",
	Aliases: []string{"list", "ls"},
	Short:   "List all contexts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		names, err := cfg.ListContexts()
		if err != nil {
			return err
		}

		if len(names) == 0 {
			fmt.Println("No contexts configured.")
			fmt.Println("Create one with: paz config add-context <name>")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CURRENT\tNAME\tSERVICES")

		for _, name := range names {
			current := ""
			if name == cfg.CurrentContext {
				current = "*"
			}
			services, _ := config.ListServices(cfg.ContextDir(name))
			fmt.Fprintf(w, "%s\t%s\t%s\n", current, name, strings.Join(services, ", "))
		}
		return w.Flush()
	},
}

var configAddContextCmd = &cobra.Command{
	Use:   "add-context <name>",
	Short: "Create a new context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		name := args[0]

		if err := cfg.AddContext(name); err != nil {
			return err
		}
		fmt.Printf("Context %q created.\n", name)
		fmt.Printf("Configure services with: paz config set %s <service> <key> <value>\n", name)
		return nil
	},
}

var configDeleteContextCmd = &cobra.Command{
	Use:   "delete-context <name>",
	Short: "Delete a context and all its service configs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		name := args[0]

		if err := cfg.DeleteContext(name); err != nil {
			return err
		}
		fmt.Printf("Context %q deleted.\n", name)
		return nil
	},
}

var configUseContextCmd = &cobra.Command{
	Use:   "use-context <name>",
	Short: "Set the current context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		name := args[0]

		if err := cfg.UseContext(name); err != nil {
			return err
		}
		fmt.Printf("Switched to context %q.\n", name)
		return nil
	},
}

var configCurrentContextCmd = &cobra.Command{
	Use:   "current-context",
	Short: "Display the current context name",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		if cfg.CurrentContext == "" {
			fmt.Println("No current context set.")
			return nil
		}
		fmt.Println(cfg.CurrentContext)
		return nil
	},
}

// loadServiceMap reads a service file as a generic map. A missing file
// yields an empty map.
func loadServiceMap(contextDir, service string) (map[string]any, error) {
	if _, err := os.Stat(filepath.Join(contextDir, service+".yaml")); os.IsNotExist(err) {
		return map[string]any{}, nil
	}
	existing, err := config.LoadService[map[string]any](contextDir, service)
	if err != nil {
		return nil, fmt.Errorf("cannot read existing %s config: %w", service, err)
	}
	// Empty YAML files unmarshal to a nil map.
	if *existing == nil {
		return map[string]any{}, nil
	}
	return *existing, nil
}

// serviceDir validates the context and service names and returns the
// context directory, which must exist.
func serviceDir(ctxName, service string) (string, error) {
	cfg, err := GetConfig()
	if err != nil {
		return "", err
	}
	if err := config.ValidateContextName(ctxName); err != nil {
		return "", err
	}
	if err := validateServiceName(service); err != nil {
		return "", err
	}
	dir := cfg.ContextDir(ctxName)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return "", fmt.Errorf("context %q not found", ctxName)
	}
	return dir, nil
}

var configSetCmd = &cobra.Command{
	Use:   "set <context> <service> <key> <value>",
	Short: "Set a service config value",
	Long: `Set a key-value pair in a service's YAML config file. Numbers and
booleans are stored as such.

Examples:
  paz config set home gemini api_key AIza...
  paz config set home openai model gpt-4o-mini
  paz config set home data user alice
  paz config set home sounds volume 0.4`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctxName, service, key, value := args[0], args[1], args[2], args[3]
		contextDir, err := serviceDir(ctxName, service)
		if err != nil {
			return err
		}
		m, err := loadServiceMap(contextDir, service)
		if err != nil {
			return err
		}
		m[key] = config.ParseValue(value)
		if err := config.SaveService(contextDir, service, &m); err != nil {
			return err
		}

		shown := value
		if secretKeys[key] {
			shown = maskSecret(value)
		}
		fmt.Printf("Set %s.%s = %s (context: %s)\n", service, key, shown, ctxName)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <context> <service> <key>",
	Short: "Get a service config value",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctxName, service, key := args[0], args[1], args[2]
		contextDir, err := serviceDir(ctxName, service)
		if err != nil {
			return err
		}
		m, err := config.LoadService[map[string]any](contextDir, service)
		if err != nil {
			return err
		}
		val, ok := (*m)[key]
		if !ok {
			return fmt.Errorf("key %q not found in %s config", key, service)
		}
		fmt.Println(val)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show <context> <service>",
	Short: "Show a service config with secrets masked",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctxName, service := args[0], args[1]
		contextDir, err := serviceDir(ctxName, service)
		if err != nil {
			return err
		}
		m, err := config.LoadService[map[string]any](contextDir, service)
		if err != nil {
			return err
		}
		shown := make(map[string]any, len(*m))
		for k, v := range *m {
			if s, ok := v.(string); ok && secretKeys[k] {
				v = maskSecret(s)
			}
			shown[k] = v
		}
		return printResult(shown)
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit <context> <service>",
	Short: "Open a service config in the default editor",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctxName, service := args[0], args[1]
		contextDir, err := serviceDir(ctxName, service)
		if err != nil {
			return err
		}

		path := filepath.Join(contextDir, service+".yaml")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte("# "+service+" configuration\n"), 0600); err != nil {
				return fmt.Errorf("create %s: %w", path, err)
			}
		}

		editor := os.Getenv("EDITOR")
		if editor == "" {
			editor = "vi"
		}

		c := exec.Command(editor, path)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		return c.Run()
	},
}

func init() {
	configCmd.AddCommand(configListContextsCmd)
	configCmd.AddCommand(configAddContextCmd)
	configCmd.AddCommand(configDeleteContextCmd)
	configCmd.AddCommand(configUseContextCmd)
	configCmd.AddCommand(configCurrentContextCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)

	rootCmd.AddCommand(configCmd)
}
