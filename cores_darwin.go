//go:build darwin

package hostcpu

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import "golang.org/x/sys/unix"

func computeHostNumPhysicalCores() int {
	count, err := unix.SysctlUint32("hw.physicalcpu")
	if err == nil && count >= 1 {
		return int(count)
	}
	count, err = unix.SysctlUint32("hw.activecpu")
	if err == nil && count >= 1 {
		return int(count)
	}
	return -1
}
