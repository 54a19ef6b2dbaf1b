package main

import (
	"strconv"

	"github.com/knotted/kgx/internal/collection"
	"github.com/spf13/cobra"
)

func init() {
	navCmd.AddCommand(navNextCmd, navPrevCmd, navGoCmd, navCurrentCmd)
	rootCmd.AddCommand(navCmd)
}

var navCmd = &cobra.Command{
	Use:   "nav",
	Short: "Navigate the visible graph sequence",
}

// NavResult reports the cursor position after a navigation command.
type NavResult struct {
	Index int    `json:"index"`
	Total int    `json:"total"`
	ID    string `json:"id,omitempty"`
	Title string `json:"title,omitempty"`
}

var navNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Move to the next graph (clamped at the end)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return navigate(func(c *collection.Collection) error { return c.Next() })
	},
}

var navPrevCmd = &cobra.Command{
	Use:   "prev",
	Short: "Move to the previous graph (clamped at the start)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return navigate(func(c *collection.Collection) error { return c.Previous() })
	},
}

var navGoCmd = &cobra.Command{
	Use:   "go <graph-id|index>",
	Short: "Jump to a graph by id or visible index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return navigate(func(c *collection.Collection) error {
			if idx, err := strconv.Atoi(args[0]); err == nil {
				return c.GoTo(idx)
			}
			return c.GoToByID(args[0])
		})
	},
}

var navCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the current position",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return navigate(func(c *collection.Collection) error { return nil })
	},
}

// navigate applies a cursor move and reports the resulting position.
func navigate(move func(*collection.Collection) error) error {
	root := mustFindWorkspace()
	col := mustLoadCollection(root)

	if err := move(col); err != nil {
		return err
	}

	res := NavResult{Index: col.CurrentIndex(), Total: len(col.Visible())}
	if g := col.Current(); g != nil {
		res.ID = g.ID
		res.Title = g.DisplayTitle()
	}

	if humanOutput {
		if res.ID == "" {
			outputHuman("no visible graphs\n")
		} else {
			outputHuman("%d/%d  %s [%s]\n", res.Index, res.Total, res.Title, res.ID)
		}
		return nil
	}
	return outputJSON(res)
}
