package main

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestCollectIdentity(t *testing.T) {
	identity := collectIdentity()
	assert.NotEmpty(t, identity.CPUName)
	assert.NotEmpty(t, identity.Triple)
	// Feature names are emitted sorted for stable output.
	for i := 1; i < len(identity.Features); i++ {
		assert.Less(t, identity.Features[i-1], identity.Features[i])
	}
}

func TestIdentityYAML(t *testing.T) {
	identity := hostIdentity{
		CPUName:       "skylake",
		Triple:        "x86_64-unknown-linux-gnu",
		PhysicalCores: 4,
		Features:      []string{"avx2", "sse4.2"},
	}
	out, err := yaml.Marshal(identity)
	require.NoError(t, err)
	assert.Contains(t, string(out), "cpu_name: skylake")
	assert.Contains(t, string(out), "physical_cores: 4")
	assert.Contains(t, string(out), "- avx2")
}
