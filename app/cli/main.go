package main

import (
	"os"

	"behaviorOpt/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()
	logger.Init(os.Getenv("APP_ENV"))
	defer logger.Sync()

	if err := buildRootCmd().Execute(); err != nil {
		logger.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

// buildRootCmd is separate from main so tests can execute the tree.
func buildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "behaviorctl",
		Short: "Operator tools for the behaviorOpt experimentation service",
		Long: `behaviorctl plans experiment sample sizes, previews deterministic
variant assignment offline and mints development tokens.`,
		SilenceUsage: true,
	}
	rootCmd.AddCommand(
		buildSampleSizeCmd(),
		buildAssignCmd(),
		buildTokenCmd(),
	)
	return rootCmd
}
