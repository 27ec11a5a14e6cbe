//go:build amd64 || 386

package hostcpu

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import "hostcpu/internal/cpuid"

func hostCPUName() string {
	return cpuNameFromRegisters(cpuid.HostQuery, cpuid.HostXCR0)
}

func hostCPUFeatures() (map[string]bool, bool) {
	return cpuid.DecodeFeatureMap(cpuid.HostQuery, cpuid.HostXCR0)
}
