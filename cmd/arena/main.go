package main

import (
	"os"

	"dmag/config"
	"dmag/logger"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	configPath string
	v          = config.New()
)

var rootCmd = &cobra.Command{
	Use:   "arena",
	Short: "Pit MCTS agents against each other in a card drafting game",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(v.GetString("log_level"))
	},
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "YAML config file")
	flags.String("log-level", "info", "trace, debug, info, warn or error")
	if err := v.BindPFlag("log_level", flags.Lookup("log-level")); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(playCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("arena failed")
		os.Exit(1)
	}
}
