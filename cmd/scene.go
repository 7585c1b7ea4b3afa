package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"scenegen/internal/core/domain"
	"scenegen/internal/core/services"
	"scenegen/pkg/ui"
)

var (
	sceneObstacles int
	sceneMeshDir   string
)

var sceneCmd = &cobra.Command{
	Use:   "scene",
	Short: "Generate and tear down randomized simulator scenes",
}

var sceneGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Spawn a randomized cluttered scene in the simulator",
	Long: `Spawn a randomized scene: a target object dropped into the drop zone and
a set of obstacle models placed around it under distance constraints, then
nudged toward the cluster center so the arrangement settles tightly.

The spawned model names are recorded in a session file so that
'scenegen scene clear' can remove exactly what was created.`,
	RunE: runSceneGenerate,
}

var sceneClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the models spawned by the last generate run",
	RunE:  runSceneClear,
}

func init() {
	sceneGenerateCmd.Flags().IntVarP(&sceneObstacles, "obstacles", "n", 0, "Number of obstacle models (default from config)")
	sceneGenerateCmd.Flags().StringVarP(&sceneMeshDir, "mesh-dir", "m", "", "Model library directory (default from config)")

	sceneCmd.AddCommand(sceneGenerateCmd)
	sceneCmd.AddCommand(sceneClearCmd)
}

func runSceneGenerate(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	numObstacles := cfg.NumObstacles
	if sceneObstacles > 0 {
		numObstacles = sceneObstacles
	}
	meshDir := cfg.MeshDir
	if sceneMeshDir != "" {
		meshDir = sceneMeshDir
	}

	fmt.Println(ui.FormatScene(fmt.Sprintf("Generating scene with %d obstacles...", numObstacles)))

	req := services.GenerateRequest{
		MeshDir:        meshDir,
		NumObstacles:   numObstacles,
		DropZone:       toWorkspace(cfg.DropZone),
		Workspace:      toWorkspace(cfg.Workspace),
		MinDist:        cfg.MinDist,
		MaxDist:        cfg.MaxDist,
		MaxAttempts:    cfg.MaxAttempts,
		ForceMagnitude: cfg.ForceMagnitude,
		ForceDuration:  time.Duration(cfg.ForceDurationMS) * time.Millisecond,
		SettleDelay:    time.Duration(cfg.SettleDelayMS) * time.Millisecond,
	}

	resp, err := sceneService.Execute(ctx, req)
	if err != nil {
		fmt.Println(ui.FormatError("Scene generation failed"))
		return err
	}

	table := ui.NewTable([]ui.TableColumn{
		{Header: "Model"},
		{Header: "X", RightAlign: true},
		{Header: "Y", RightAlign: true},
		{Header: "Z", RightAlign: true},
	})
	for i, name := range resp.Session.Models {
		p := resp.Session.Positions[i]
		table.AddRow(name,
			fmt.Sprintf("%.4f", p.X),
			fmt.Sprintf("%.4f", p.Y),
			fmt.Sprintf("%.4f", p.Z))
	}
	fmt.Println()
	fmt.Print(table.Render())
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Placed", fmt.Sprintf("%d", resp.Placed)))
	fmt.Println(ui.RenderKeyValue("Nudged", fmt.Sprintf("%d", resp.Nudged)))
	fmt.Println(ui.RenderKeyValue("Cluster center", fmt.Sprintf("(%.4f, %.4f, %.4f)",
		resp.Center.X, resp.Center.Y, resp.Center.Z)))

	if len(resp.Warnings) > 0 {
		fmt.Println()
		fmt.Println(ui.FormatWarning(fmt.Sprintf("%d warnings:", len(resp.Warnings))))
		fmt.Print(ui.RenderSimpleList(resp.Warnings))
	}

	if err := saveSession(cfg.SessionFile, resp.Session); err != nil {
		return fmt.Errorf("scene is up but session file could not be written: %w", err)
	}
	fmt.Println()
	fmt.Println(ui.FormatSuccess("Scene ready, session saved to " + cfg.SessionFile))
	return nil
}

func runSceneClear(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	session, err := loadSession(cfg.SessionFile)
	if err != nil {
		return err
	}
	if session.Len() == 0 {
		fmt.Println(ui.FormatInfo("No active session, nothing to clear"))
		return nil
	}

	deleted, warnings := sceneService.Clear(ctx, session)
	for _, w := range warnings {
		fmt.Println(ui.FormatWarning(w))
	}

	if err := os.Remove(cfg.SessionFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}

	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Deleted %d of %d models", deleted, session.Len())))
	return nil
}

// saveSession persists the spawned model list for a later clear.
func saveSession(path string, session domain.SceneSession) error {
	data, err := yaml.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// loadSession reads a previously saved session. A missing file is an empty
// session, not an error.
func loadSession(path string) (domain.SceneSession, error) {
	var session domain.SceneSession
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return session, nil
		}
		return session, fmt.Errorf("failed to read session file: %w", err)
	}
	if err := yaml.Unmarshal(data, &session); err != nil {
		return session, fmt.Errorf("failed to parse session file: %w", err)
	}
	return session, nil
}
