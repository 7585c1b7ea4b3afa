package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"scenegen/internal/adapters/meshio"
	"scenegen/internal/adapters/simulator"
	"scenegen/internal/core/domain"
	"scenegen/internal/core/services"
	"scenegen/pkg/config"
	"scenegen/pkg/ui"
)

var (
	// Global config instance
	cfg        *config.Config
	configPath string

	// Adapters
	simClient  *simulator.Client
	meshLoader *meshio.STLLoader

	// Services
	samplerService *services.SamplerService
	inertiaService *services.InertiaService
	patchService   *services.PatchService
	pathService    *services.PathService
	sceneService   *services.SceneService
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scenegen",
	Short: "Scenegen - workcell scene and asset preparation",
	Long: ui.StyleTitle.Render("Scenegen") + " - Simulation Scene Toolkit\n\n" +
		"A CLI for preparing simulated manipulation workcells: randomized scene\n" +
		"generation against a simulator bridge, mesh-derived inertia estimation\n" +
		"for object descriptions, and mesh path normalization.",
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: XDG config dir)")

	// Add subcommands
	rootCmd.AddCommand(sceneCmd)
	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(inertiaCmd)
	rootCmd.AddCommand(pathsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(plotCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp initializes the application components
func initializeApp(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return fmt.Errorf("failed to resolve config path: %w", err)
		}
		path = p
	}

	c, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg = c

	ui.SetTheme(cfg.ColorTheme)

	// Initialize adapters
	simClient = simulator.NewClient(cfg.BridgeURL, time.Duration(cfg.RequestTimeoutMS)*time.Millisecond)
	meshLoader = meshio.NewSTLLoader()

	// Initialize services
	samplerService = services.NewSamplerService(cfg.SamplerSeed)
	inertiaService = services.NewInertiaService(meshLoader)
	patchService = services.NewPatchService(inertiaService)
	pathService = services.NewPathService()
	sceneService = services.NewSceneService(simClient, samplerService, cfg.SamplerSeed)

	return nil
}

// getContext returns a context for operations
func getContext() context.Context {
	return context.Background()
}

// toWorkspace converts a config box into the domain form used by services.
func toWorkspace(b config.Box) domain.Workspace {
	return domain.Workspace{
		X: domain.Interval{Min: b.X.Min, Max: b.X.Max},
		Y: domain.Interval{Min: b.Y.Min, Max: b.Y.Max},
		Z: domain.Interval{Min: b.Z.Min, Max: b.Z.Max},
	}
}
