//go:build !amd64 && !386 && !(linux && (arm || arm64 || ppc64 || ppc64le || s390x))

package hostcpu

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

func hostCPUName() string {
	return generic
}

func hostCPUFeatures() (map[string]bool, bool) {
	return nil, false
}
