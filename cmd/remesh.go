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

	"github.com/spf13/cobra"

	"github.com/notargets/gocfd-amg/InputParameters"
	"github.com/notargets/gocfd-amg/amgio"
	"github.com/notargets/gocfd-amg/mesh"
	"github.com/notargets/gocfd-amg/orient"
	"github.com/notargets/gocfd-amg/remesh"
)

// Replaced in tests
var newRunner = func() remesh.Runner { return remesh.ExecRunner{} }

// RemeshCmd represents the remesh command
var RemeshCmd = &cobra.Command{
	Use:   "remesh",
	Short: "Run one mesh adaptation cycle with the remesher",
	Long: `
Runs one adaptation cycle: reconciles the background mesh orientation when
adap_back and solver_mesh are set, writes the sensor extracted from the
flow solution, then runs the remesher and checks its output.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ap := InputParameters.NewAdaptParameters()
		icFile, _ := cmd.Flags().GetString("inputConditionsFile")
		if icFile == "" {
			return fmt.Errorf("must supply an adaptation parameters file (-I, --inputConditionsFile), example:%s", exampleFile)
		}
		if err = ap.ReadFile(icFile); err != nil {
			return
		}
		if dry, _ := cmd.Flags().GetBool("dryRun"); dry {
			ap.Print(cmd.OutOrStdout())
			return ap.Validate()
		}
		return runCycle(cmd.OutOrStdout(), newAdapter(), newRunner(), ap)
	},
}

const exampleFile = `
########################################
mesh_in: current.meshb
sol_itp_in: current.solb
sol_in: current_sensor.solb
mesh_out: current.new.meshb
adap_sensor: MACH_PRES
size: 2000
hgrad: 1.5
hmin: 1.e-8
hmax: 2
amg_log: amg.out
########################################
`

func init() {
	rootCmd.AddCommand(RemeshCmd)
	RemeshCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for adaptation parameters")
	RemeshCmd.Flags().BoolP("dryRun", "n", false, "print and check the parameters without running")
}

func runCycle(w io.Writer, a *amgio.Adapter, runner remesh.Runner, ap *InputParameters.AdaptParameters) (err error) {
	if err = ap.Validate(); err != nil {
		return
	}
	ap.Print(w)
	if ap.Back != "" && ap.SolverMesh != "" {
		var flipped bool
		if flipped, err = orient.Reconcile(a, ap.SolverMesh, ap.Back); err != nil {
			return
		}
		log.Info().Bool("flipped", flipped).Str("back", ap.Back).Msg("background orientation")
	}
	if ap.MetricIn == "" {
		kind, _ := ap.SensorKind()
		if err = writeSensor(a, ap.MeshIn, ap.SolItpIn, ap.SolIn, kind); err != nil {
			return
		}
	}
	var res remesh.Result
	if res, err = remesh.NewSubprocess(runner, log).Run(ap.ToParams()); err != nil {
		return
	}
	if !res.OK() {
		return fmt.Errorf("remesher failed: exit code %d, output mesh present: %v, see %s",
			res.ExitCode, res.OutputExists, ap.AmgLog)
	}
	var m *mesh.Mesh
	if m, err = a.ReadMesh(ap.MeshOut); err != nil {
		return
	}
	fmt.Fprintf(w, "%s: %s\n", ap.MeshOut, m.Size())
	return
}
