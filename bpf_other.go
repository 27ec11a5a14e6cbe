//go:build !(linux && amd64)

package hostcpu

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

func hostCPUNameForBPF() string {
	return generic
}
