//go:build linux && (ppc64 || ppc64le)

package hostcpu

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"log/slog"

	"hostcpu/internal/cpuinfo"
)

func hostCPUName() string {
	content, err := cpuinfo.Read(cpuinfo.DefaultPath)
	if err != nil {
		slog.Warn("cannot read cpu information", slog.String("error", err.Error()))
		return generic
	}
	return cpuinfo.CPUNameForPowerPC(content)
}

func hostCPUFeatures() (map[string]bool, bool) {
	return nil, false
}
