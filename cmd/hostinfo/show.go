package main

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"hostcpu"
)

const (
	formatText = "text"
	formatYAML = "yaml"
)

var flagFormat string

const flagFormatName = "format"

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "print the host CPU identity",
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&flagFormat, flagFormatName, formatText, fmt.Sprintf("output format, one of: %s, %s", formatText, formatYAML))
}

type hostIdentity struct {
	CPUName       string   `yaml:"cpu_name"`
	Triple        string   `yaml:"process_triple"`
	PhysicalCores int      `yaml:"physical_cores"`
	Features      []string `yaml:"features"`
}

func collectIdentity() hostIdentity {
	identity := hostIdentity{
		CPUName:       hostcpu.GetHostCPUName(),
		Triple:        hostcpu.GetProcessTriple(),
		PhysicalCores: hostcpu.GetHostNumPhysicalCores(),
	}
	if features, ok := hostcpu.GetHostCPUFeatures(); ok {
		for name, present := range features {
			if present {
				identity.Features = append(identity.Features, name)
			}
		}
		sort.Strings(identity.Features)
	}
	return identity
}

func runShow(cmd *cobra.Command, args []string) error {
	identity := collectIdentity()
	switch flagFormat {
	case formatText:
		fmt.Printf("CPU name:       %s\n", identity.CPUName)
		fmt.Printf("Process triple: %s\n", identity.Triple)
		fmt.Printf("Physical cores: %d\n", identity.PhysicalCores)
		for _, feature := range identity.Features {
			fmt.Printf("Feature:        %s\n", feature)
		}
	case formatYAML:
		out, err := yaml.Marshal(identity)
		if err != nil {
			return errors.Wrap(err, "failed to marshal host identity")
		}
		fmt.Print(string(out))
	default:
		return errors.Errorf("unsupported format: %s", flagFormat)
	}
	return nil
}
