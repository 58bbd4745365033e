package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage gen-ibd-vcf configuration",
		Long:  "Show, get, or set default option values. Config is stored in ~/.gen-ibd-vcf.yaml.",
		Example: `  gen-ibd-vcf config                  # show all config
  gen-ibd-vcf config set dist 1000    # place markers every 1kb by default
  gen-ibd-vcf config get dist         # get a value`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigShow()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigSet(args[0], args[1])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigGet(args[0])
		},
	})

	return cmd
}

// configKeys are the settings accepted by "config set".
var configKeys = map[string]bool{
	"size":  true,
	"lambd": true,
	"dist":  true,
	"out":   true,
	"seed":  true,
	"db":    true,
}

func (a *app) runConfigShow() error {
	settings := a.fileSettings()
	if len(settings) == 0 {
		fmt.Fprintln(a.stdout, "# No configuration set. Config file: ~/.gen-ibd-vcf.yaml")
		return nil
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Fprint(a.stdout, string(out))
	return nil
}

func (a *app) runConfigSet(key, value string) error {
	if !configKeys[key] {
		return &flagError{err: fmt.Errorf("unknown config key %q", key)}
	}

	// Ensure config file exists
	cfgFile := a.v.ConfigFileUsed()
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgFile = filepath.Join(home, configName+".yaml")
	}

	// Only persist values from the file itself, not flag defaults or
	// environment overrides.
	settings := a.fileSettings()
	settings[key] = parseConfigValue(value)

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(cfgFile, out, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(a.stdout, "Set %s = %s in %s\n", key, value, cfgFile)
	return nil
}

// fileSettings returns the known keys present in the loaded config file.
func (a *app) fileSettings() map[string]interface{} {
	settings := make(map[string]interface{})
	for key := range configKeys {
		if a.v.InConfig(key) {
			settings[key] = a.v.Get(key)
		}
	}
	return settings
}

// parseConfigValue stores numbers as YAML numbers and everything else as
// strings.
func parseConfigValue(value string) interface{} {
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	return value
}

func (a *app) runConfigGet(key string) error {
	if !a.v.InConfig(key) {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Fprintln(a.stdout, a.v.Get(key))
	return nil
}
