package commands

import (
	"fmt"

	"gymctl/internal/config"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Variables to hold flag values
	serverURL string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage gymctl configuration",
	Long:  "View and update gymctl configuration settings",
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get configuration value",
	Long:  "Display a specific configuration value such as gym.name, or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			value, err := globalConfig.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Println(value)
			return nil
		}

		t := newTable("Key", "Value")
		for _, key := range globalConfig.Keys() {
			value, err := globalConfig.Get(key)
			if err != nil {
				return err
			}
			t.Row(key, value)
		}
		fmt.Println(t.String())
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key value]",
	Short: "Set configuration values",
	Long:  "Update a configuration key, or the server URL with --server-url",
	Args:  cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return fmt.Errorf("missing value for %s", args[0])
		}

		configUpdated := false

		if serverURL != "" {
			oldURL := globalConfig.ServerURL
			if err := globalConfig.Set("server_url", serverURL); err != nil {
				return err
			}
			fmt.Printf("Server URL updated: %s -> %s\n", oldURL, serverURL)
			configUpdated = true
		}

		if len(args) == 2 {
			oldValue, err := globalConfig.Get(args[0])
			if err != nil {
				return err
			}
			if err := globalConfig.Set(args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("%s updated: %s -> %s\n", args[0], oldValue, args[1])
			configUpdated = true
		}

		if !configUpdated {
			return cmd.Help()
		}

		path, err := configPath()
		if err != nil {
			return err
		}
		if err := globalConfig.Save(path); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}

		color.Green("Configuration saved to %s", path)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the configuration file",
	Long:  "Write the current configuration, defaults included, so it can be edited by hand",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPath()
		if err != nil {
			return err
		}
		if err := globalConfig.Save(path); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}

		color.Green("Configuration written to %s", path)
		return nil
	},
}

var configPathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show where gymctl keeps its files",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.GetGlobalConfigDir()
		if err != nil {
			return err
		}
		path, err := configPath()
		if err != nil {
			return err
		}

		t := newTable("File", "Path")
		t.Row("Config directory", dir)
		t.Row("Config file", path)
		t.Row("Token", sess.TokenFile())
		t.Row("Log", globalConfig.LogFile(dir))
		fmt.Println(t.String())
		return nil
	},
}

// configPath is the file config changes are written to
func configPath() (string, error) {
	if configFile != "" {
		return configFile, nil
	}
	return config.GetGlobalConfigPath()
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathsCmd)

	configSetCmd.Flags().StringVar(&serverURL, "server-url", "", "Set the server URL")
}
