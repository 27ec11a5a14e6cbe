//go:build linux && s390x

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
	return cpuinfo.CPUNameForS390x(content)
}

func hostCPUFeatures() (map[string]bool, bool) {
	return nil, false
}
