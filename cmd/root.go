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
	"os"
	"strings"

	"github.com/google/uuid"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/gocfd-amg/amgio"
	"github.com/notargets/gocfd-amg/logging"
	"github.com/notargets/gocfd-amg/meshio"
)

var (
	cfgFile  string
	log      = zerolog.Nop()
	profiler interface{ Stop() }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gocfd-amg",
	Short: "Mesh and solution exchange with an anisotropic remesher",
	Long: `
Reads and writes meshes and per-vertex solutions in the remesher's binary
format (.meshb/.solb) and in SU2 format (.su2/.csv), builds adaptation
sensors, reconciles background mesh orientation and drives the remesher.

gocfd-amg remesh -I adap.yaml`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if profiler != nil {
			profiler.Stop()
			profiler = nil
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.gocfd-amg.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error or off")
	rootCmd.PersistentFlags().String("profile", "", "profile the command: cpu or mem")
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".gocfd-amg" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".gocfd-amg")
	}

	viper.SetEnvPrefix("GOCFD_AMG")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setup(cmd *cobra.Command, args []string) (err error) {
	log = logging.New(logging.ProfileRuntime, cmd.ErrOrStderr())
	if raw := viper.GetString("log-level"); raw != "" {
		lvl, ok := logging.ParseLevel(raw)
		if !ok {
			return fmt.Errorf("unknown log level %q", raw)
		}
		log = log.Level(lvl)
	}
	log = log.With().Str("run", uuid.New().String()).Str("cmd", cmd.Name()).Logger()

	switch p := strings.ToLower(viper.GetString("profile")); p {
	case "":
	case "cpu":
		profiler = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet)
	case "mem":
		profiler = profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet)
	default:
		return fmt.Errorf("unknown profile %q, expected cpu or mem", p)
	}
	return
}

func newAdapter() *amgio.Adapter {
	return amgio.NewAdapter(meshio.NewEngine(), log)
}
