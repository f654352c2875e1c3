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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/notargets/gocfd-amg/mesh"
)

// ConvertCmd represents the convert command
var ConvertCmd = &cobra.Command{
	Use:   "convert <mesh in> <mesh out>",
	Short: "Convert a mesh, and optionally its solution, between formats",
	Long: `
Converts between the formats chosen by file extension: .meshb/.mesh and .su2
for meshes, .solb/.sol and .csv/.dat for solutions.

gocfd-amg convert naca0012.su2 current.meshb -s restart_flow.csv -o current.solb`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			solIn, _  = cmd.Flags().GetString("solution")
			solOut, _ = cmd.Flags().GetString("solutionOut")
			m         *mesh.Mesh
		)
		if (solIn == "") != (solOut == "") {
			return fmt.Errorf("--solution and --solutionOut go together")
		}
		if m, err = readInput([]string{args[0], solIn}); err != nil {
			return
		}
		a := newAdapter()
		if solOut != "" {
			err = a.WriteMeshAndSolution(args[1], solOut, m)
		} else {
			err = a.WriteMesh(args[1], m)
		}
		if err != nil {
			return
		}
		log.Info().Str("from", args[0]).Str("to", args[1]).Str("size", m.Size()).Msg("converted mesh")
		return
	},
}

func init() {
	rootCmd.AddCommand(ConvertCmd)
	ConvertCmd.Flags().StringP("solution", "s", "", "solution file of the input mesh")
	ConvertCmd.Flags().StringP("solutionOut", "o", "", "solution file to write")
}
