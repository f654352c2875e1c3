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
	"github.com/spf13/cobra"

	"github.com/notargets/gocfd-amg/amgio"
	"github.com/notargets/gocfd-amg/sensor"
)

// SensorCmd represents the sensor command
var SensorCmd = &cobra.Command{
	Use:   "sensor <mesh> <solution> <sensor out>",
	Short: "Write the adaptation sensor extracted from a flow solution",
	Long: `
Extracts the sensor driving the remesher from a flow solution, one of
MACH, PRES, MACH_PRES or GOAL.

gocfd-amg sensor current.meshb current.solb current_sensor.solb -k MACH_PRES`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var kind sensor.Kind
		name, _ := cmd.Flags().GetString("kind")
		if kind, err = sensor.ParseKind(name); err != nil {
			return
		}
		return writeSensor(newAdapter(), args[0], args[1], args[2], kind)
	},
}

func init() {
	rootCmd.AddCommand(SensorCmd)
	SensorCmd.Flags().StringP("kind", "k", string(sensor.MACH), "sensor: MACH, PRES, MACH_PRES or GOAL")
}

func writeSensor(a *amgio.Adapter, meshPath, solPath, sensorPath string, kind sensor.Kind) (err error) {
	sol, err := a.ReadMeshAndSolution(meshPath, solPath)
	if err != nil {
		return
	}
	out, err := sensor.Extract(sol, kind)
	if err != nil {
		return
	}
	if err = a.WriteSolution(sensorPath, out); err != nil {
		return
	}
	log.Info().Str("sensor", string(kind)).Strs("fields", out.SolutionTag).
		Str("out", sensorPath).Msg("wrote sensor")
	return
}
