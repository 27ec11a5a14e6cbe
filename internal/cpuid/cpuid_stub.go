//go:build !amd64 && !386

package cpuid

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// HostQuery reports that the host has no identification registers.
func HostQuery(leaf, subleaf uint32) (Registers, bool) {
	return Registers{}, false
}

// HostXCR0 reports that the host has no extended control register.
func HostXCR0() (lo, hi uint32, ok bool) {
	return 0, 0, false
}
