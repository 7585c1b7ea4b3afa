package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"scenegen/internal/core/services"
	"scenegen/pkg/ui"
)

var (
	watchQuiet bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [dataset-root]",
	Short: "Watch the dataset and re-patch changed objects",
	Long: `Watch the dataset root for mesh and description changes and re-run the
inertia patch pass when files settle.

This command monitors the object directories for:
  - New .stl or .urdf files created
  - Existing files modified
  - Files removed or renamed

Changes are debounced so a bulk export triggers a single patch pass.
Descriptions that already carry an inertial block are skipped as usual.

Use --quiet to suppress per-pass notifications.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVarP(&watchQuiet, "quiet", "q", false, "Suppress patch notifications")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	root := cfg.DatasetRoot
	if len(args) > 0 {
		root = args[0]
	}

	// Create file watcher
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the root plus each object subdirectory; fsnotify is not
	// recursive.
	if err := watcher.Add(root); err != nil {
		return fmt.Errorf("failed to watch dataset root: %w", err)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("failed to read dataset root: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			if err := watcher.Add(filepath.Join(root, entry.Name())); err != nil {
				return fmt.Errorf("failed to watch %s: %w", entry.Name(), err)
			}
		}
	}

	if !watchQuiet {
		fmt.Println(ui.FormatInfo("Watching dataset: " + root))
		fmt.Println(ui.FormatMuted("Press Ctrl+C to stop"))
		fmt.Println()
	}

	// Debounce timer so a bulk mesh export patches once
	var debounceTimer *time.Timer
	debounceDuration := time.Duration(cfg.WatchDebounceMS) * time.Millisecond
	needsPatch := false

	doPatch := func() {
		if !needsPatch {
			return
		}
		needsPatch = false

		if !watchQuiet {
			fmt.Println(ui.FormatInfo("Dataset changes detected, patching..."))
		}

		resp, err := patchService.Execute(ctx, services.PatchRequest{
			Root:    root,
			Density: cfg.Density,
		})
		if err != nil {
			if !watchQuiet {
				fmt.Println(ui.FormatError("Patch failed: " + err.Error()))
			}
			log.Printf("Patch error: %v", err)
			return
		}

		if !watchQuiet {
			fmt.Println(ui.FormatSuccess(fmt.Sprintf(
				"Patched %d objects (%d skipped, %d failed)",
				resp.Patched, resp.Skipped, resp.Failed)))
		}
	}

	// Event loop
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			// A new object directory needs its own watch
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						log.Printf("Watch add error: %v", err)
					}
					continue
				}
			}

			// Only care about meshes and descriptions
			ext := strings.ToLower(filepath.Ext(event.Name))
			if ext != ".stl" && ext != ".urdf" {
				continue
			}

			// Filter out temporary/cache files
			baseName := filepath.Base(event.Name)
			if strings.HasPrefix(baseName, ".") || strings.HasPrefix(baseName, "~") {
				continue
			}

			if event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Write) ||
				event.Has(fsnotify.Remove) ||
				event.Has(fsnotify.Rename) {

				needsPatch = true

				// Reset debounce timer
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounceDuration, doPatch)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Watcher error: %v", err)

		case <-ctx.Done():
			if !watchQuiet {
				fmt.Println()
				fmt.Println(ui.FormatMuted("Watch stopped"))
			}
			return nil
		}
	}
}
