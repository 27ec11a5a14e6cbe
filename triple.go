package hostcpu

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"runtime"
	"strconv"

	"hostcpu/internal/triple"
)

// BaselineTriple overrides the built-in host descriptor when set, e.g. with
// -ldflags "-X hostcpu.BaselineTriple=x86_64-unknown-linux-musl".
var BaselineTriple string

// baselineTriples gives the default host descriptor per GOOS/GOARCH.
var baselineTriples = map[string]string{
	"linux/amd64":    "x86_64-unknown-linux-gnu",
	"linux/386":      "i386-unknown-linux-gnu",
	"linux/arm64":    "aarch64-unknown-linux-gnu",
	"linux/arm":      "arm-unknown-linux-gnueabihf",
	"linux/ppc64":    "powerpc64-unknown-linux-gnu",
	"linux/ppc64le":  "powerpc64le-unknown-linux-gnu",
	"linux/s390x":    "s390x-ibm-linux",
	"linux/riscv64":  "riscv64-unknown-linux-gnu",
	"linux/mips64":   "mips64-unknown-linux-gnuabi64",
	"linux/mips64le": "mips64el-unknown-linux-gnuabi64",
	"darwin/amd64":   "x86_64-apple-darwin",
	"darwin/arm64":   "arm64-apple-darwin",
	"windows/amd64":  "x86_64-pc-windows-msvc",
	"windows/386":    "i686-pc-windows-msvc",
	"freebsd/amd64":  "x86_64-unknown-freebsd",
}

func baselineTriple() string {
	if BaselineTriple != "" {
		return BaselineTriple
	}
	if t, ok := baselineTriples[runtime.GOOS+"/"+runtime.GOARCH]; ok {
		return t
	}
	return runtime.GOARCH + "-unknown-" + runtime.GOOS
}

// processTriple normalizes the baseline descriptor and adjusts its
// architecture to the given pointer width.
func processTriple(baseline string, pointerBits int) string {
	t := triple.Normalize(baseline)
	if pointerBits == 64 && t.Is32Bit() {
		t = t.To64BitVariant()
	}
	if pointerBits == 32 && t.Is64Bit() {
		t = t.To32BitVariant()
	}
	return t.String()
}

// GetProcessTriple returns the normalized architecture-OS-ABI descriptor of
// the running process: the compile-time baseline widened or narrowed to the
// process pointer width.
func GetProcessTriple() string {
	return processTriple(baselineTriple(), strconv.IntSize)
}
