package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"scenegen/internal/core/domain"
	"scenegen/internal/core/services"
	"scenegen/pkg/ui"
)

var (
	sampleMinDist  float64
	sampleMaxDist  float64
	sampleAttempts int
	sampleCopy     bool
)

var sampleCmd = &cobra.Command{
	Use:   "sample <x,y,z> [x,y,z ...]",
	Short: "Sample a safe position near the given points",
	Long: `Sample one workspace position that keeps the configured minimum distance
from every given point while staying within the maximum distance of its
nearest neighbor.

Points are given as comma-separated coordinates:

  scenegen sample -- -0.5,0.0,0.025
  scenegen sample --copy -- -0.5,0.0,0.025 -0.45,0.08,0.025`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSample,
}

func init() {
	sampleCmd.Flags().Float64Var(&sampleMinDist, "min-dist", 0, "Minimum separation in meters (default from config)")
	sampleCmd.Flags().Float64Var(&sampleMaxDist, "max-dist", 0, "Maximum nearest-neighbor distance in meters (default from config)")
	sampleCmd.Flags().IntVar(&sampleAttempts, "attempts", 0, "Rejection sampling budget (default from config)")
	sampleCmd.Flags().BoolVarP(&sampleCopy, "copy", "c", false, "Copy the sampled coordinates to the clipboard")
}

func runSample(cmd *cobra.Command, args []string) error {
	existing := make([]domain.Point3, 0, len(args))
	for _, arg := range args {
		p, err := parsePoint(arg)
		if err != nil {
			return err
		}
		existing = append(existing, p)
	}

	minDist := cfg.MinDist
	if sampleMinDist > 0 {
		minDist = sampleMinDist
	}
	maxDist := cfg.MaxDist
	if sampleMaxDist > 0 {
		maxDist = sampleMaxDist
	}
	attempts := cfg.MaxAttempts
	if sampleAttempts > 0 {
		attempts = sampleAttempts
	}

	resp, err := samplerService.FindSafePosition(services.SampleRequest{
		Existing:    existing,
		Workspace:   toWorkspace(cfg.Workspace),
		MinDist:     minDist,
		MaxDist:     maxDist,
		MaxAttempts: attempts,
	})
	if err != nil {
		return err
	}

	if !resp.Found {
		fmt.Println(ui.FormatWarning(fmt.Sprintf(
			"No valid position found after %d attempts", resp.Attempts)))
		return fmt.Errorf("sampling budget exhausted")
	}

	coords := fmt.Sprintf("%.4f,%.4f,%.4f", resp.Point.X, resp.Point.Y, resp.Point.Z)
	fmt.Println(ui.FormatSuccess("Found position in " + strconv.Itoa(resp.Attempts) + " attempts"))
	fmt.Println(ui.RenderKeyValue("Position", coords))

	if sampleCopy {
		// Clipboard access is best effort; headless machines lack one.
		if err := clipboard.WriteAll(coords); err != nil {
			fmt.Println(ui.FormatMuted("(clipboard unavailable: " + err.Error() + ")"))
		} else {
			fmt.Println(ui.FormatMuted("(copied to clipboard)"))
		}
	}
	return nil
}

// parsePoint parses "x,y,z" into a point.
func parsePoint(s string) (domain.Point3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return domain.Point3{}, fmt.Errorf("invalid point %q: want x,y,z", s)
	}
	var coords [3]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return domain.Point3{}, fmt.Errorf("invalid coordinate %q in %q", part, s)
		}
		coords[i] = v
	}
	return domain.Point3{X: coords[0], Y: coords[1], Z: coords[2]}, nil
}
