package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/madstone-tech/katnipc/internal/adapters/filesystem"
)

// WatchCommand recompiles a Katnip project whenever its sprite sources change.
type WatchCommand struct {
	projectRoot string
	outputDir   string
	debounceMs  int
}

// NewWatchCommand creates a new watch command.
func NewWatchCommand(projectRoot string) *WatchCommand {
	return &WatchCommand{projectRoot: projectRoot, outputDir: "dist", debounceMs: 500}
}

// WithOutputDir sets the staging/archive output directory.
func (c *WatchCommand) WithOutputDir(dir string) *WatchCommand {
	if dir != "" {
		c.outputDir = dir
	}
	return c
}

// WithDebounce sets the debounce delay in milliseconds.
func (c *WatchCommand) WithDebounce(ms int) *WatchCommand {
	if ms > 0 {
		c.debounceMs = ms
	}
	return c
}

// Execute watches the project directory and recompiles on every change,
// spinning up a fresh compilation context per change event: the watcher
// never reaches into compiler internals, only invokes the pipeline.
func (c *WatchCommand) Execute(ctx context.Context) error {
	watcher, err := filesystem.NewFileWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Stop()

	events, err := watcher.Watch(ctx, c.projectRoot)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}

	fmt.Println("watching for changes...")
	fmt.Printf("  project: %s\n", c.projectRoot)
	fmt.Printf("  output:  %s\n", c.outputDir)
	fmt.Println("  press Ctrl+C to stop")
	fmt.Println()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	c.recompile(ctx)

	debounceTimer := time.NewTimer(time.Duration(c.debounceMs) * time.Millisecond)
	debounceTimer.Stop()

	for {
		select {
		case <-sigChan:
			fmt.Println("\nwatch stopped")
			return nil

		case event, ok := <-events:
			if !ok {
				return nil
			}
			debounceTimer.Reset(time.Duration(c.debounceMs) * time.Millisecond)
			fmt.Printf("change detected: %s (%s)\n", event.Path, event.Op)

		case <-debounceTimer.C:
			c.recompile(ctx)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *WatchCommand) recompile(ctx context.Context) {
	start := time.Now()
	result, compileErrs, err := runCompile(ctx, c.projectRoot)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	if compileErrs.HasErrors() {
		printCompileErrors(compileErrs)
		return
	}
	result.Stats.Duration = time.Since(start)

	id := fmt.Sprintf("build-%d", time.Now().UnixNano())
	archivePath, err := newPackager(id).Write(ctx, result, c.outputDir, id)
	if err != nil {
		fmt.Printf("packaging failed: %v\n", err)
		return
	}
	fmt.Printf("rebuilt in %v -> %s\n\n", result.Stats.Duration.Round(time.Millisecond), archivePath)
}
