// Command worldcored runs a world server daemon.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/ebonhold/worldcore/daemon"
)

var version = "dev"

var (
	configPath    string
	openDashboard bool
)

var rootCmd = &cobra.Command{
	Use:   "worldcored",
	Short: "worldcored hosts a persistent game world.",
	Long: `worldcored hosts a persistent game world. It runs the shard tick ` +
		`loops, keeps the realm databases, and serves a management API and a ` +
		`remote console.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := daemon.LoadConfig(configPath)
		if err != nil {
			return err
		}

		b := daemon.MakeBuilder().WithConfig(cfg)
		if openDashboard {
			b = b.WithBrowserOnStart()
		}

		d, err := b.Build()
		if err != nil {
			return err
		}

		return d.Run(context.Background())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the worldcored version.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("worldcored", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to an environment file with WORLDCORE_* settings")
	rootCmd.Flags().BoolVar(&openDashboard, "open-dashboard", false,
		"open the management dashboard in a browser on startup")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}

	atexit.Exit(0)
}
