// Package storage persists the graph collection: a JSONL file as the source
// of truth, small JSON preference files, and a derived SQLite search index.
package storage

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/knotted/kgx/internal/graph"
)

// MaxLineCapacity is the maximum buffer size for reading JSONL lines (4MB
// per line; a graph with a few hundred nodes stays well under this).
const MaxLineCapacity = 4 * 1024 * 1024

// ReadGraphs reads all stored graphs from a JSONL file. A missing file
// yields an empty slice. Malformed lines are skipped and reported on
// stderr; they never fail the load.
func ReadGraphs(path string) ([]*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening graphs file: %w", err)
	}
	defer f.Close()

	var graphs []*graph.Graph
	scanner := bufio.NewScanner(f)
	buf := make([]byte, MaxLineCapacity)
	scanner.Buffer(buf, MaxLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var g graph.Graph
		if err := json.Unmarshal(line, &g); err != nil {
			fmt.Fprintf(os.Stderr, "warning: skipping malformed graph at %s:%d: %v\n", path, lineNum, err)
			continue
		}
		graphs = append(graphs, &g)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading graphs file: %w", err)
	}

	return graphs, nil
}

// AppendGraph appends a single graph to a JSONL file.
func AppendGraph(path string, g *graph.Graph) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening graphs file for append: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encoding graph: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing graph: %w", err)
	}
	if _, err := f.WriteString("\n"); err != nil {
		return fmt.Errorf("writing newline: %w", err)
	}

	return nil
}

// WriteGraphs writes all graphs to a JSONL file atomically.
// Uses temp file + rename for atomic operation.
func WriteGraphs(path string, graphs []*graph.Graph) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".tmp-*.jsonl")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	for i, g := range graphs {
		data, err := json.Marshal(g)
		if err != nil {
			tmpFile.Close()
			return fmt.Errorf("encoding graph %d: %w", i, err)
		}

		if _, err := tmpFile.Write(data); err != nil {
			tmpFile.Close()
			return fmt.Errorf("writing graph %d: %w", i, err)
		}
		if _, err := tmpFile.WriteString("\n"); err != nil {
			tmpFile.Close()
			return fmt.Errorf("writing newline: %w", err)
		}
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	success = true
	return nil
}

// ComputeFileHash computes a SHA256 hash of a file's contents. A missing
// file hashes as empty content, so an unindexed empty store is "in sync".
func ComputeFileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			h := sha256.Sum256([]byte{})
			return hex.EncodeToString(h[:]), nil
		}
		return "", fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
