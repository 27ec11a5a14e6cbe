//go:build !(linux && (amd64 || 386)) && !darwin

package hostcpu

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// No enumeration method on this platform.
func computeHostNumPhysicalCores() int {
	return -1
}
