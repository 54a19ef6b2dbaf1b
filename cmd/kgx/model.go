package main

import (
	"github.com/knotted/kgx/internal/config"
	"github.com/knotted/kgx/internal/storage"
	"github.com/knotted/kgx/internal/stream"
	"github.com/spf13/cobra"
)

func init() {
	modelCmd.AddCommand(modelListCmd, modelUseCmd)
	rootCmd.AddCommand(modelCmd)
}

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "List and select generation models",
}

// ModelList is the model list output.
type ModelList struct {
	Selected  string   `json:"selected"`
	Default   string   `json:"default"`
	Available []string `json:"available"`
}

var modelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available models",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root := mustFindWorkspace()
		filter := config.AvailableModelFilter()

		res := ModelList{
			Selected:  storage.ReadModelSelection(config.ModelPath(root)).SelectedModel,
			Default:   stream.DefaultModel(filter),
			Available: stream.AvailableModels(filter),
		}

		if humanOutput {
			for _, m := range res.Available {
				marker := " "
				if m == res.Selected {
					marker = "*"
				} else if res.Selected == "" && m == res.Default {
					marker = "-"
				}
				outputHuman("%s %s\n", marker, m)
			}
			return nil
		}
		return outputJSON(res)
	},
}

var modelUseCmd = &cobra.Command{
	Use:   "use <model>",
	Short: "Persist a model selection for this workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := mustFindWorkspace()
		filter := config.AvailableModelFilter()

		if !stream.ValidModel(args[0], filter) {
			exitWithError(ExitDataError, "unknown model %q (see 'kgx model list')", args[0])
		}

		sel := &storage.ModelSelection{SelectedModel: args[0]}
		if err := storage.WriteModelSelection(config.ModelPath(root), sel); err != nil {
			return err
		}

		if humanOutput {
			outputHuman("Selected model %s\n", args[0])
			return nil
		}
		return outputJSON(sel)
	},
}
