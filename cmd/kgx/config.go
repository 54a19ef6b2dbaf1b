package main

import (
	"github.com/knotted/kgx/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and set workspace configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root := mustFindWorkspace()
		cfg, err := config.Load(root)
		if err != nil {
			exitWithError(ExitWorkspaceError, "%v", err)
		}

		effective := struct {
			ServiceURL string `json:"service_url"`
			Model      string `json:"model,omitempty"`
		}{
			ServiceURL: config.GetServiceURL(cfg),
			Model:      cfg.Model,
		}

		if humanOutput {
			outputHuman("service_url: %s\n", effective.ServiceURL)
			if effective.Model != "" {
				outputHuman("model: %s\n", effective.Model)
			}
			return nil
		}
		return outputJSON(effective)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a workspace configuration value",
	Long: `Set a workspace configuration value.

Keys: service_url, model.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := mustFindWorkspace()
		cfg, err := config.Load(root)
		if err != nil {
			exitWithError(ExitWorkspaceError, "%v", err)
		}

		switch args[0] {
		case "service_url":
			cfg.ServiceURL = args[1]
		case "model":
			cfg.Model = args[1]
		default:
			exitWithError(ExitError, "unknown key %q (valid: service_url, model)", args[0])
		}

		if err := cfg.Save(root); err != nil {
			exitWithError(ExitError, "%v", err)
		}

		if humanOutput {
			outputHuman("%s = %s\n", args[0], args[1])
			return nil
		}
		return outputJSON(cfg)
	},
}
