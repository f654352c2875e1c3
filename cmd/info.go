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
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/notargets/gocfd-amg/mesh"
)

// InfoCmd represents the info command
var InfoCmd = &cobra.Command{
	Use:   "info <mesh> [solution]",
	Short: "Print the size, markers and solution fields of a mesh",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var m *mesh.Mesh
		if m, err = readInput(args); err != nil {
			return
		}
		printInfo(cmd.OutOrStdout(), args[0], m)
		return
	},
}

func init() {
	rootCmd.AddCommand(InfoCmd)
}

// readInput reads args[0] as a mesh, with args[1] as its solution if given
func readInput(args []string) (m *mesh.Mesh, err error) {
	a := newAdapter()
	if len(args) > 1 && args[1] != "" {
		return a.ReadMeshAndSolution(args[0], args[1])
	}
	return a.ReadMesh(args[0])
}

func printInfo(w io.Writer, name string, m *mesh.Mesh) {
	fmt.Fprintf(w, "%s: %dD, %s\n", name, m.Dimension, m.Size())
	if len(m.Markers) > 1 {
		fmt.Fprintf(w, "Markers: %s\n", strings.Join(m.Markers[1:], ", "))
	}
	fmt.Fprint(w, m.Stats())
	if m.Solution != nil {
		nr, nc := m.Solution.Dims()
		fmt.Fprintf(w, "Solution: %d x %d [%s]\n", nr, nc, strings.Join(m.SolutionTag, ", "))
	}
}
