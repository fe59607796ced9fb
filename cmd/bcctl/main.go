// bcctl is a command line front for the ballchasing API: ping, replay
// search, uploads and downloads, all through one rate-governed client.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/replaylab/ballchasing-client/pkg/client"
	"github.com/replaylab/ballchasing-client/pkg/logging"
)

var (
	flagAPIKey   string
	flagBaseURL  string
	flagLogLevel string
	flagPretty   bool
)

var rootCmd = &cobra.Command{
	Use:           "bcctl",
	Short:         "Command line client for the ballchasing API",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(logging.Config{
			Level:  logging.LogLevel(flagLogLevel),
			Pretty: flagPretty,
			Output: os.Stderr,
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIKey, "api-key", "",
		"ballchasing API key (defaults to BALLCHASING_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", client.DefaultBaseURL,
		"API base URL")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&flagPretty, "pretty", true,
		"human-readable log output")
}

// newClient builds the governed client from the global flags.
func newClient() (*client.Client, error) {
	key := flagAPIKey
	if key == "" {
		key = os.Getenv("BALLCHASING_API_KEY")
	}
	if key == "" {
		return nil, fmt.Errorf("no API key: set --api-key or BALLCHASING_API_KEY")
	}

	cfg := client.DefaultConfig(key)
	cfg.BaseURL = flagBaseURL
	return client.New(cfg)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
