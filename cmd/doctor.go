package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scenegen/internal/core/services"
	"scenegen/pkg/config"
	"scenegen/pkg/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the health of your scenegen setup",
	Long: `Diagnose issues with the scenegen setup.

Checks for:
  - Configuration file existence and validity
  - Simulator bridge reachability
  - Dataset and model library directories
  - Object directories with a usable urdf+stl pair`,
	Run: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) {
	fmt.Println(ui.FormatTitle("Scenegen Doctor"))
	fmt.Println()

	checkStep("Configuration File", func() error {
		path := configPath
		if path == "" {
			p, err := config.DefaultPath()
			if err != nil {
				return err
			}
			path = p
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("missing at %s (using defaults)", path)
		}
		return nil
	})

	checkStep("Simulator Bridge", func() error {
		if err := simClient.Ping(getContext()); err != nil {
			return fmt.Errorf("unreachable at %s: %v", cfg.BridgeURL, err)
		}
		return nil
	})

	checkStep("Model Library", func() error {
		if _, err := os.Stat(cfg.MeshDir); os.IsNotExist(err) {
			return fmt.Errorf("missing at %s", cfg.MeshDir)
		}
		return nil
	})

	checkStep("Dataset Root", func() error {
		if _, err := os.Stat(cfg.DatasetRoot); os.IsNotExist(err) {
			return fmt.Errorf("missing at %s", cfg.DatasetRoot)
		}
		return nil
	})

	checkStep("EDITOR Variable", func() error {
		if os.Getenv("EDITOR") == "" {
			return fmt.Errorf("not set (using fallback 'vi')")
		}
		return nil
	})

	fmt.Println()
	fmt.Println(ui.FormatInfo("Checking dataset integrity..."))

	checkStep("Object Pairs", func() error {
		dirs, err := objectDirs(cfg.DatasetRoot)
		if err != nil {
			return err
		}

		brokenCount := 0
		for _, dir := range dirs {
			if _, _, err := services.FindPair(dir); err != nil {
				if brokenCount == 0 {
					fmt.Println()
				}
				fmt.Printf("    %s (no urdf+stl pair)\n", dir)
				brokenCount++
			}
		}

		if brokenCount > 0 {
			return fmt.Errorf("found %d incomplete object directories", brokenCount)
		}
		return nil
	})
}

// checkStep runs a check function and prints the result nicely
func checkStep(name string, check func() error) {
	err := check()
	if err == nil {
		fmt.Printf("%s %s\n", ui.FormatSuccess("✔"), name)
	} else {
		fmt.Printf("%s %s\n", ui.FormatError("✘"), name)
		fmt.Printf("    %s\n", ui.StyleMuted.Render(err.Error()))
	}
}
