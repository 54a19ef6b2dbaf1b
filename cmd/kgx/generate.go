package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/knotted/kgx/internal/config"
	"github.com/knotted/kgx/internal/graph"
	"github.com/knotted/kgx/internal/storage"
	"github.com/knotted/kgx/internal/stream"
	"github.com/spf13/cobra"
)

var (
	generateModel    string
	generateTitle    string
	generateNoStream bool
)

func init() {
	generateCmd.Flags().StringVar(&generateModel, "model", "", "Generation model (default: selected model)")
	generateCmd.Flags().StringVar(&generateTitle, "title", "", "Title for the new graph")
	generateCmd.Flags().BoolVar(&generateNoStream, "no-stream", false, "Use the single-shot endpoint instead of streaming")
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate <subject>",
	Short: "Generate a knowledge graph for a subject",
	Long: `Generate a knowledge graph for a subject.

Streams nodes and edges from the generation service as they are produced,
then stores the completed graph and makes it current. Ctrl-C cancels the
in-flight generation; partial data is discarded.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

// GraphResult summarizes a stored graph for command output.
type GraphResult struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Subject   string `json:"subject"`
	Model     string `json:"model"`
	Nodes     int    `json:"nodes"`
	Edges     int    `json:"edges"`
	CreatedAt int64  `json:"createdAt"`
	Index     int    `json:"index"`
}

func runGenerate(cmd *cobra.Command, args []string) error {
	subject := strings.TrimSpace(strings.Join(args, " "))
	if subject == "" {
		exitWithError(ExitDataError, "subject must not be empty")
	}

	root := mustFindWorkspace()
	col := mustLoadCollection(root)

	req := stream.Request{
		Subject: subject,
		Model:   resolveModel(root, generateModel),
		Title:   generateTitle,
	}

	g := runGeneration(root, req)

	if err := col.Add(g); err != nil {
		return err
	}
	return outputGraphResult(g, col.CurrentIndex())
}

// runGeneration executes one generation request against the service,
// exiting with the appropriate code on failure.
func runGeneration(root string, req stream.Request) *graph.Graph {
	wcfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitWorkspaceError, "%v", err)
	}
	serviceURL := config.GetServiceURL(wcfg)
	if serviceURL == "" {
		exitWithError(ExitWorkspaceError,
			"no generation service configured (set service_url in %s or %s)",
			config.ConfigPath(root), config.EnvServiceURL)
	}

	client := stream.NewClient(serviceURL, stream.WithToken(config.GetVerificationToken()))

	// Cooperative cancellation: Ctrl-C aborts the transport, the session
	// transitions to cancelled on its next turn.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var g *graph.Graph
	session := stream.NewSession()

	if generateNoStream {
		g, err = client.Generate(ctx, req)
	} else {
		g, err = client.Stream(ctx, req, session, progressReporter())
	}

	if err != nil {
		switch {
		case stream.IsCancelled(err):
			snap := session.Snapshot()
			exitWithError(ExitError, "generation cancelled (%d nodes, %d edges discarded)",
				snap.NodeCount, snap.EdgeCount)
		case stream.IsTokenExpired(err):
			exitWithError(ExitTokenExpired,
				"verification token expired; set a fresh token via %s and rerun the same command",
				config.EnvToken)
		default:
			exitWithError(ExitServiceError, "%v", err)
		}
	}

	if req.Title != "" {
		g.Title = req.Title
	}
	return g
}

// progressReporter returns a per-event progress callback for human mode.
// Counts only grow within a session, so a carriage-return line is enough.
func progressReporter() func(stream.Progress) {
	if !humanOutput {
		return nil
	}
	return func(p stream.Progress) {
		fmt.Fprintf(os.Stderr, "\r%s: %d nodes, %d edges", p.State, p.NodeCount, p.EdgeCount)
	}
}

// resolveModel picks the model for a generation: explicit flag, then the
// persisted selection, then the workspace preference, then the strongest
// available model.
func resolveModel(root, flagModel string) string {
	filter := config.AvailableModelFilter()
	if flagModel != "" {
		return stream.BestAvailableModel(flagModel, filter)
	}
	if sel := storage.ReadModelSelection(config.ModelPath(root)); sel.SelectedModel != "" {
		return stream.BestAvailableModel(sel.SelectedModel, filter)
	}
	if wcfg, err := config.Load(root); err == nil && wcfg.Model != "" {
		return stream.BestAvailableModel(wcfg.Model, filter)
	}
	return stream.DefaultModel(filter)
}

// outputGraphResult reports a stored graph in the selected output mode.
func outputGraphResult(g *graph.Graph, index int) error {
	if humanOutput {
		outputHuman("\nStored %q (%d nodes, %d edges) as graph %d [%s]\n",
			g.DisplayTitle(), len(g.Data.Nodes), len(g.Data.Edges), index, g.ID)
		return nil
	}
	return outputJSON(GraphResult{
		ID:        g.ID,
		Title:     g.DisplayTitle(),
		Subject:   g.Subject,
		Model:     g.Model,
		Nodes:     len(g.Data.Nodes),
		Edges:     len(g.Data.Edges),
		CreatedAt: g.CreatedAt,
		Index:     index,
	})
}
