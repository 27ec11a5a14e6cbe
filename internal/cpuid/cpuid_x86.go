//go:build amd64 || 386

package cpuid

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// cpuid executes the CPUID instruction for the given leaf and subleaf.
// Implemented in assembly.
func cpuid(leaf, subleaf uint32) (eax, ebx, ecx, edx uint32)

// xgetbv reads the extended control register selected by index.
// Only valid when CPUID reports OSXSAVE. Implemented in assembly.
func xgetbv(index uint32) (eax, edx uint32)

// HostQuery reads the host's identification registers.
func HostQuery(leaf, subleaf uint32) (Registers, bool) {
	eax, ebx, ecx, edx := cpuid(leaf, subleaf)
	return Registers{EAX: eax, EBX: ebx, ECX: ecx, EDX: edx}, true
}

// HostXCR0 reads the host's extended control register 0.
func HostXCR0() (lo, hi uint32, ok bool) {
	lo, hi = xgetbv(0)
	return lo, hi, true
}
