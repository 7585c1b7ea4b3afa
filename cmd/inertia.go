package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"scenegen/internal/core/services"
	"scenegen/pkg/ui"
)

var (
	inertiaDensity float64
	inertiaPick    bool
)

var inertiaCmd = &cobra.Command{
	Use:   "inertia [dataset-root]",
	Short: "Estimate inertia from meshes and patch object descriptions",
	Long: `Estimate mass, center of mass, and the inertia tensor for every object in
the dataset and write an <inertial> block into its description file.

Each object lives in its own subdirectory with one .urdf and one .stl.
Descriptions that already carry an inertial block are skipped, so reruns
are safe. Use --pick to patch a single object chosen interactively.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInertia,
}

func init() {
	inertiaCmd.Flags().Float64VarP(&inertiaDensity, "density", "d", 0, "Material density in kg/m^3 (default from config)")
	inertiaCmd.Flags().BoolVarP(&inertiaPick, "pick", "p", false, "Pick a single object interactively")
}

func runInertia(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	root := cfg.DatasetRoot
	if len(args) > 0 {
		root = args[0]
	}
	density := cfg.Density
	if inertiaDensity > 0 {
		density = inertiaDensity
	}

	if inertiaPick {
		return runInertiaPick(root, density)
	}

	fmt.Println(ui.FormatInfo(fmt.Sprintf("Patching dataset %s (density %g kg/m^3)...", root, density)))

	resp, err := patchService.Execute(ctx, services.PatchRequest{Root: root, Density: density})
	if err != nil {
		return err
	}

	printPatchResults(resp.Results)
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Patched", fmt.Sprintf("%d", resp.Patched)))
	fmt.Println(ui.RenderKeyValue("Skipped", fmt.Sprintf("%d", resp.Skipped)))
	fmt.Println(ui.RenderKeyValue("Failed", fmt.Sprintf("%d", resp.Failed)))

	if resp.Failed > 0 {
		return fmt.Errorf("%d of %d objects failed", resp.Failed, resp.Total)
	}
	fmt.Println()
	fmt.Println(ui.FormatSuccess("Dataset patched"))
	return nil
}

// runInertiaPick patches one object chosen through the fuzzy finder.
func runInertiaPick(root string, density float64) error {
	dirs, err := objectDirs(root)
	if err != nil {
		return err
	}
	if len(dirs) == 0 {
		return fmt.Errorf("no object directories under %s", root)
	}

	idx, err := fuzzyfinder.Find(
		dirs,
		func(i int) string {
			return filepath.Base(dirs[i])
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			urdfPath, meshPath, err := services.FindPair(dirs[i])
			if err != nil {
				return err.Error()
			}
			return fmt.Sprintf("Description: %s\nMesh: %s",
				filepath.Base(urdfPath), filepath.Base(meshPath))
		}),
	)
	if err != nil {
		fmt.Println(ui.FormatInfo("Operation cancelled."))
		return nil
	}

	urdfPath, meshPath, err := services.FindPair(dirs[idx])
	if err != nil {
		return err
	}

	result := patchService.PatchPair(urdfPath, meshPath, density)
	printPatchResults([]services.PatchResult{result})
	if result.Err != nil {
		return result.Err
	}
	return nil
}

func printPatchResults(results []services.PatchResult) {
	table := ui.NewTable([]ui.TableColumn{
		{Header: "Object"},
		{Header: "Status"},
		{Header: "Mass (kg)", RightAlign: true},
		{Header: "Source"},
	})
	for _, r := range results {
		mass := "-"
		source := "-"
		if r.Status == services.StatusPatched {
			mass = fmt.Sprintf("%.4f", r.Props.Mass)
			source = string(r.Props.Source)
		}
		status := string(r.Status)
		if r.Err != nil {
			status = status + ": " + r.Err.Error()
		}
		table.AddRow(filepath.Base(r.Dir), status, mass, source)
	}
	fmt.Println()
	fmt.Print(table.Render())
}

// objectDirs lists the object subdirectories of the dataset root, sorted.
func objectDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset root: %w", err)
	}
	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(root, entry.Name()))
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}
