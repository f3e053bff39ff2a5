// Command alloyctl is a command-line client for the alloyrpc service.
//
// It reads a model from a file or stdin, sends it to the service over gRPC
// and prints the verdict and solution.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rhuss/alloyrpc/pkg/client"
)

// Version holds the CLI version. It is set at build time using -ldflags.
var Version = "0.0.0-dev"

var (
	addr    string
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:           "alloyctl",
	Short:         "Client for the alloyrpc model solving service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	defaults := client.DefaultConfig()
	rootCmd.PersistentFlags().StringVar(&addr, "addr", envOr("ALLOYRPC_ADDR", defaults.Target), "gRPC address of the service")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", defaults.Timeout, "per-call timeout")

	rootCmd.AddCommand(newSolveCmd(), newPingCmd(), newVersionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// dial connects to the service using the persistent flags.
func dial() (*client.Client, error) {
	return client.New(client.Config{Target: addr, Timeout: timeout})
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
