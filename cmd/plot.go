package cmd

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/spf13/cobra"

	"scenegen/pkg/ui"
)

var plotOutput string

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render a top-down chart of the current scene",
	Long: `Render the current session's model placements as a top-down scatter chart
(x/y plane) written to an HTML file. Open it in a browser to inspect the
arrangement without a simulator GUI.`,
	RunE: runPlot,
}

func init() {
	plotCmd.Flags().StringVarP(&plotOutput, "output", "o", "scene.html", "Output HTML file")
}

func runPlot(cmd *cobra.Command, args []string) error {
	session, err := loadSession(cfg.SessionFile)
	if err != nil {
		return err
	}
	if session.Len() == 0 {
		return fmt.Errorf("no active session; run 'scenegen scene generate' first")
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Scene layout (top-down)",
			Subtitle: fmt.Sprintf("%d models", session.Len()),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "x (m)", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "y (m)", Type: "value"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	items := make([]opts.ScatterData, 0, session.Len())
	for i, name := range session.Models {
		p := session.Positions[i]
		items = append(items, opts.ScatterData{
			Name:       name,
			Value:      []interface{}{p.X, p.Y},
			SymbolSize: 12,
		})
	}
	scatter.AddSeries("models", items)

	center := session.Centroid()
	scatter.AddSeries("center", []opts.ScatterData{{
		Name:       "cluster center",
		Value:      []interface{}{center.X, center.Y},
		Symbol:     "diamond",
		SymbolSize: 16,
	}})

	f, err := os.Create(plotOutput)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := scatter.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	fmt.Println(ui.FormatSuccess("Chart written to " + plotOutput))
	return nil
}
