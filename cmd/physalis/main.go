package main

import (
	"fmt"
	"os"

	"github.com/chazu/physalis/pkg/config"
	"github.com/chazu/physalis/pkg/logging"
	"github.com/spf13/cobra"
)

var (
	configPath string
	debug      bool

	cfg    config.Config
	logger logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "physalis",
	Short: "Headless driver for the physalis 3D viewport",
	Long: `physalis evaluates scene scripts into a live viewport and drives it
without a window: picking objects at pixels, framing the camera on a
selection and snapping to view cube faces.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
		} else {
			cfg = config.Default()
		}
		if cmd.Flags().Changed("debug") {
			cfg.Debug = debug
		}
		logger = logging.NewDefaultLogger("physalis", cfg.Debug)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
