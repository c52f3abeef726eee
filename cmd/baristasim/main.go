// baristasim is a customer-service training simulator: an external agent
// plays aggrieved coffee-shop customers, real speech-like pacing included,
// and the operator practices picking the right reply under pressure.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"baristasim/internal/logging"
)

var version = "0.3.0"

var (
	// Global flags
	verbose   bool
	workspace string
	provider  string

	// Logger
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "baristasim",
	Short: "baristasim - coffee shop customer service trainer",
	Long: `baristasim runs a simulated shift behind the counter.

An agent provider (OpenAI, Gemini, or the built-in scripted customer) plays
a roster of unhappy customers one at a time. Each complaint is classified,
two candidate replies are generated, and you pick one. Your choice is
relayed back to the customer and the satisfaction meter moves.

Run 'baristasim run' to start a shift.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Serve the configured customer roster",
	Long: `Starts a shift: every customer in the roster is served in order.
For each complaint you are shown two candidate replies and pick one.
The shift ends after the last customer or on Ctrl-C.`,
	RunE: runShift,
}

var classifyCmd = &cobra.Command{
	Use:   "classify [text]",
	Short: "Classify a complaint and show the candidate replies",
	Long: `Runs a single line of customer speech through the classifier and
response generator without starting a session. Useful for tuning the
roster and inspecting what the trainer would offer.`,
	Args: cobra.MinimumNArgs(1),
	RunE: classifyText,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the baristasim version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("baristasim %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", ".", "workspace directory holding .baristasim/")

	runCmd.Flags().StringVar(&provider, "provider", "", "agent provider override (openai, gemini, scripted)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
