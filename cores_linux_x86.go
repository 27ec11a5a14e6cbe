//go:build linux && (amd64 || 386)

package hostcpu

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"log/slog"

	"hostcpu/internal/cpuinfo"
)

// The physical core count comes from the number of unique
// physical id / core id pairs the kernel reports.
func computeHostNumPhysicalCores() int {
	content, err := cpuinfo.Read(cpuinfo.DefaultPath)
	if err != nil {
		slog.Warn("cannot read cpu information", slog.String("error", err.Error()))
		return -1
	}
	return cpuinfo.CountPhysicalCores(content)
}
