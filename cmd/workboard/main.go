package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// cfgFile is an optional YAML config layered under the environment.
var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "workboard",
	Short: "Workboard is a personal planning agent you talk to over Telegram.",
	Long: `Workboard keeps a weekly task board, packs each day into time blocks,
checks in when blocks end and nudges when check-ins go unanswered.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML), env vars take precedence")
	rootCmd.AddCommand(serveCmd, triggerCmd, planCmd, sayCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
