// Command ferrum runs the Ferrum in-memory relational database engine,
// either as an interactive REPL client or (eventually) a network listener
// (spec.md §1: "an interactive REPL and a future network listener").
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ferrumdb/ferrum/internal/cli"
	"github.com/ferrumdb/ferrum/internal/config"
	"github.com/ferrumdb/ferrum/internal/diagnostics"
)

var rootCmd = &cobra.Command{
	Use:   "ferrum",
	Short: "Ferrum is an in-memory relational database engine",
	Long:  `Ferrum is an in-memory relational database engine with an interactive SQL REPL.`,
	// A bare "ferrum" with no subcommand has nothing to run; fail instead of
	// falling through to cobra's default help-and-exit-0 behavior (spec.md
	// §6: running without a recognized mode is an error).
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = cmd.Help()
		return fmt.Errorf("no subcommand given; see 'ferrum --help'")
	},
}

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Run the interactive REPL client",
	Run: func(cmd *cobra.Command, args []string) {
		repl := cli.New(os.Stdin, os.Stdout)
		repl.Run()
	},
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the network listener (not yet supported)",
	Run: func(cmd *cobra.Command, args []string) {
		// Load only reads an env var and applies a built-in default; it has
		// no failure mode today. Mustv documents that as an invariant rather
		// than threading a dead error branch through every caller.
		cfg := diagnostics.Mustv(config.Load())
		fmt.Printf("Mode server is not supported yet. Try 'client'. (would listen on %s)\n", cfg.ListenAddr)
	},
}

func init() {
	rootCmd.AddCommand(clientCmd)
	rootCmd.AddCommand(serverCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
