package cmd

import (
	"fmt"
	"io"

	"github.com/df07/rtiaw/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// ListScenes prints the built-in scenes
func ListScenes(ctx *cli.Context) error {
	setupLogging(ctx)
	writeSceneTable(ctx.App.Writer, scene.List())
	return nil
}

func writeSceneTable(w io.Writer, infos []scene.Info) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"ID", "Name", "Description", "Objects", "Materials"})
	for _, info := range infos {
		table.Append([]string{
			fmt.Sprintf("%d", info.ID),
			info.Name,
			info.Description,
			fmt.Sprintf("%d", info.Objects),
			fmt.Sprintf("%d", info.Materials),
		})
	}
	table.Render()
}
