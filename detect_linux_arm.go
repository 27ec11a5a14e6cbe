//go:build linux && arm

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
	return cpuinfo.CPUNameForARM(content)
}

func hostCPUFeatures() (map[string]bool, bool) {
	content, err := cpuinfo.Read(cpuinfo.DefaultPath)
	if err != nil {
		slog.Warn("cannot read cpu information", slog.String("error", err.Error()))
		return nil, false
	}
	return cpuinfo.FeatureNamesARM(cpuinfo.FeatureTokens(content)), true
}
