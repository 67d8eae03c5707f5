// Package main provides poolctl, a small command-line harness for
// exercising a resource pool of AMQP channels end to end: load a YAML
// config, start a pool, drive acquires against it, then drain.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poolctl",
		Short: "Drive a resource pool of AMQP channels from the command line",
	}
	cmd.AddCommand(buildRunCmd(), buildDrainCmd())
	return cmd
}
