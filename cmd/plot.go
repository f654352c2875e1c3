/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/notargets/gocfd-amg/mesh"
	"github.com/notargets/gocfd-amg/plot"
)

// PlotCmd represents the plot command
var PlotCmd = &cobra.Command{
	Use:   "plot <mesh> [solution]",
	Short: "Display a 2D mesh, optionally shaded by a solution field",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var m *mesh.Mesh
		if m, err = readInput(args); err != nil {
			return
		}
		field, _ := cmd.Flags().GetString("field")
		wait, _ := cmd.Flags().GetInt("wait")
		log.Info().Str("mesh", args[0]).Str("size", m.Size()).Str("field", field).Msg("plotting")
		return plot.Show(m, plot.Options{
			Field: field,
			Wait:  time.Duration(wait) * time.Second,
		})
	},
}

func init() {
	rootCmd.AddCommand(PlotCmd)
	PlotCmd.Flags().StringP("field", "f", "", "solution field to shade, e.g. Mach")
	PlotCmd.Flags().IntP("wait", "w", 60, "seconds to keep the plot open")
}
