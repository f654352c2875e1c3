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

	"github.com/notargets/gocfd-amg/orient"
)

// OrientCmd represents the orient command
var OrientCmd = &cobra.Command{
	Use:   "orient <solver mesh> <background mesh>",
	Short: "Flip the background mesh triangles if they wind opposite to the solver mesh",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var flipped bool
		if flipped, err = orient.Reconcile(newAdapter(), args[0], args[1]); err != nil {
			return
		}
		if flipped {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: triangles flipped\n", args[1])
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: orientation matches\n", args[1])
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(OrientCmd)
}
