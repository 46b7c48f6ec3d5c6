package cmd

import (
	"bytes"
	"fmt"

	"github.com/df07/rtiaw/pkg/renderer"
	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/cpu"
)

func displayRenderStats(stats renderer.RenderStats) {
	logger.Noticef("render statistics\n%s", renderStatsTable(stats, hostDescription()))
}

func renderStatsTable(stats renderer.RenderStats, host string) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Scene", "Size", "SPP", "Depth", "Workers", "Tiles", "Samples", "Samples/s"})
	table.Append([]string{
		stats.Scene.String(),
		fmt.Sprintf("%dx%d", stats.Width, stats.Height),
		fmt.Sprintf("%d", stats.SamplesPerPixel),
		fmt.Sprintf("%d", stats.MaxRayDepth),
		fmt.Sprintf("%d", stats.Workers),
		fmt.Sprintf("%d/%d", stats.TilesCompleted, stats.Tiles),
		fmt.Sprintf("%d", stats.TotalSamples),
		fmt.Sprintf("%.0f", stats.SamplesPerSecond()),
	})

	status := "FINISHED"
	if stats.Cancelled {
		status = fmt.Sprintf("STOPPED %02.1f %%", 100*stats.Progress())
	}
	table.SetFooter([]string{host, "", "", "", "", "", status, stats.Duration.String()})

	table.Render()
	return buf.String()
}

// hostDescription names the CPU the render ran on
func hostDescription() string {
	threads, err := cpu.Counts(true)
	if err != nil {
		return "unknown cpu"
	}

	infos, err := cpu.Info()
	if err != nil || len(infos) == 0 || infos[0].ModelName == "" {
		return fmt.Sprintf("%d threads", threads)
	}
	return fmt.Sprintf("%s (%d threads)", infos[0].ModelName, threads)
}
