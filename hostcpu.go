/*
Package hostcpu determines facts about the machine the current process runs
on: the canonical microarchitecture name of its CPU, the set of
instruction-set-extension features the CPU and operating system jointly
support, and the number of physical cores. Compiler toolchains use these for
native-target code generation and parallel build scheduling.

All queries are total: anything undetectable degrades to "generic", an empty
feature set, or a negative core count, never an error.
*/
package hostcpu

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"sync"

	"hostcpu/internal/cpuid"
	"hostcpu/internal/cpus"
)

const generic = "generic"

// GetHostCPUName returns the canonical microarchitecture name of the host
// CPU, or "generic" when the host cannot be identified.
func GetHostCPUName() string {
	return hostCPUName()
}

// GetHostCPUFeatures returns the named instruction-set-extension features
// the host CPU and OS jointly support. ok is false only when the host has
// no usable identification facility; the map is nil in that case.
func GetHostCPUFeatures() (features map[string]bool, ok bool) {
	return hostCPUFeatures()
}

var numPhysicalCores = sync.OnceValue(computeHostNumPhysicalCores)

// GetHostNumPhysicalCores returns the number of physical cores, or -1 when
// the platform has no enumeration method. The count is computed once per
// process.
func GetHostNumPhysicalCores() int {
	return numPhysicalCores()
}

// GetHostCPUNameForBPF reports the BPF instruction-set generation the
// kernel accepts: "v2" when second-generation jumps verify, "v1" when they
// do not, "generic" where the probe is unavailable.
func GetHostCPUNameForBPF() string {
	return hostCPUNameForBPF()
}

// cpuNameFromRegisters runs the x86 identification pipeline over the given
// register sources: vendor signature, family/model extraction, feature
// decode, classification, and name resolution.
func cpuNameFromRegisters(query cpuid.QueryFunc, readXCR0 cpuid.XCR0Func) string {
	leaf0, ok := query(0, 0)
	if !ok || leaf0.EAX < 1 {
		return generic
	}
	vendor := cpuid.VendorFromSignature(leaf0.EBX)
	leaf1, ok := query(1, 0)
	if !ok {
		return generic
	}
	family, model := cpuid.SignatureFamilyModel(leaf1.EAX)
	brandID := leaf1.EBX & 0xff
	feats := cpuid.DecodeMasks(query, readXCR0, leaf0.EAX, leaf1)
	switch vendor {
	case cpuid.VendorIntel:
		return cpus.Name(vendor, cpus.ClassifyIntel(family, model, brandID, feats))
	case cpuid.VendorAMD:
		return cpus.Name(vendor, cpus.ClassifyAMD(family, model, feats))
	}
	return generic
}
