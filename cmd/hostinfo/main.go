// Package main provides the hostinfo command line interface.
package main

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var gVersion = "9.9.9" // overwritten by ldflags at release build

const appName = "hostinfo"

var examples = []string{
	fmt.Sprintf("  Show the host CPU identity:            $ %s show", appName),
	fmt.Sprintf("  Show the host CPU identity as YAML:    $ %s show --format yaml", appName),
	fmt.Sprintf("  Serve the host CPU identity as gauges: $ %s metrics --listen :9401", appName),
}

var rootCmd = &cobra.Command{
	Use:           appName,
	Short:         "Host CPU introspection utility",
	Long:          fmt.Sprintf("%s reports the microarchitecture name, instruction-set features, and physical core count of the machine it runs on.", appName),
	Example:       strings.Join(examples, "\n"),
	Version:       gVersion,
	SilenceErrors: true,
	SilenceUsage:  true,
}

var flagDebug bool

const flagDebugName = "debug"

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, flagDebugName, false, "enable debug logging")
	rootCmd.PersistentPreRun = initLogging
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(metricsCmd)
}

// initLogging configures the default logger before any subcommand runs.
func initLogging(cmd *cobra.Command, args []string) {
	var logOpts slog.HandlerOptions
	if flagDebug {
		logOpts.Level = slog.LevelDebug
		logOpts.AddSource = true
	} else {
		logOpts.Level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &logOpts)))
	cmd.Flags().Visit(func(f *pflag.Flag) {
		slog.Debug("flag set on command line", slog.String("name", f.Name), slog.String("value", f.Value.String()))
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
