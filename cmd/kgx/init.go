package main

import (
	"fmt"
	"os"

	"github.com/knotted/kgx/internal/collection"
	"github.com/knotted/kgx/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a kgx workspace in the current directory",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

// InitResult reports a created workspace.
type InitResult struct {
	Root    string `json:"root"`
	Graphs  int    `json:"graphs"`
	Created bool   `json:"created"`
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	if config.IsWorkspace(cwd) {
		return fmt.Errorf("workspace already exists at %s", config.KgxPath(cwd))
	}

	if err := os.MkdirAll(config.CachePath(cwd), 0755); err != nil {
		return fmt.Errorf("creating workspace: %w", err)
	}

	// Seeds graphs.jsonl with the built-in examples.
	c, err := collection.Load(cwd)
	if err != nil {
		return err
	}
	if err := c.ReplaceAll(c.All()); err != nil {
		return err
	}

	res := InitResult{Root: cwd, Graphs: len(c.Visible()), Created: true}
	if humanOutput {
		outputHuman("Initialized kgx workspace at %s (%d example graphs)\n", config.KgxPath(cwd), res.Graphs)
		return nil
	}
	return outputJSON(res)
}
