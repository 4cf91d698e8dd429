// Command server runs the battle chess engine behind an HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"battle_chess_tft/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "bchess",
	Short: "Battle chess auto-battler server",
	Long: `Runs a two-player chess auto-battler: pieces carry hit points and attack,
players earn coins each round and spend them in a rotating shop.

Settings come from built-in defaults, an optional YAML file (--config) and
BCHESS_ environment variables such as BCHESS_SERVER_ADDR.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
}

func loadConfig() (config.Config, error) {
	return config.Load(configPath)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
