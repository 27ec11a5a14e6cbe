/*
Package triple manipulates processor-OS-ABI descriptor strings of the form
"arch-vendor-os-environment". It covers the subset needed to describe the
running process: parsing, normalization of short forms, and switching an
architecture between its 32-bit and 64-bit variants.
*/
package triple

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import "strings"

// Triple is a parsed descriptor. Empty components print as "unknown".
type Triple struct {
	Arch        string
	Vendor      string
	OS          string
	Environment string
}

const unknown = "unknown"

// Parse splits a descriptor string into its components. Short forms are
// accepted: two components are treated as arch-os, one as just the arch.
func Parse(s string) Triple {
	parts := strings.SplitN(s, "-", 4)
	switch len(parts) {
	case 1:
		return Triple{Arch: parts[0]}
	case 2:
		return Triple{Arch: parts[0], OS: parts[1]}
	case 3:
		return Triple{Arch: parts[0], Vendor: parts[1], OS: parts[2]}
	default:
		return Triple{Arch: parts[0], Vendor: parts[1], OS: parts[2], Environment: parts[3]}
	}
}

// String renders the triple, filling missing arch/vendor/os components with
// "unknown". The environment is omitted when empty.
func (t Triple) String() string {
	arch, vendor, os := t.Arch, t.Vendor, t.OS
	if arch == "" {
		arch = unknown
	}
	if vendor == "" {
		vendor = unknown
	}
	if os == "" {
		os = unknown
	}
	s := arch + "-" + vendor + "-" + os
	if t.Environment != "" {
		s += "-" + t.Environment
	}
	return s
}

// arch64To32 maps each 64-bit architecture to its 32-bit variant, and
// arch32To64 the reverse. Architectures absent from both have no variant of
// the other width and are left unchanged.
var arch64To32 = map[string]string{
	"x86_64":      "i386",
	"aarch64":     "arm",
	"aarch64_be":  "armeb",
	"arm64":       "arm",
	"powerpc64":   "powerpc",
	"powerpc64le": "powerpc",
	"mips64":      "mips",
	"mips64el":    "mipsel",
	"sparcv9":     "sparc",
	"riscv64":     "riscv32",
	"wasm64":      "wasm32",
}

var arch32To64 = map[string]string{
	"i386":    "x86_64",
	"i486":    "x86_64",
	"i586":    "x86_64",
	"i686":    "x86_64",
	"arm":     "aarch64",
	"armeb":   "aarch64_be",
	"thumb":   "aarch64",
	"powerpc": "powerpc64",
	"mips":    "mips64",
	"mipsel":  "mips64el",
	"sparc":   "sparcv9",
	"riscv32": "riscv64",
	"wasm32":  "wasm64",
}

// Is64Bit reports whether the architecture is a 64-bit one.
func (t Triple) Is64Bit() bool {
	_, ok := arch64To32[t.Arch]
	return ok
}

// Is32Bit reports whether the architecture is a 32-bit one.
func (t Triple) Is32Bit() bool {
	_, ok := arch32To64[t.Arch]
	return ok
}

// To64BitVariant returns the triple with the architecture widened to its
// 64-bit variant. Architectures with no 64-bit variant are unchanged.
func (t Triple) To64BitVariant() Triple {
	if arch, ok := arch32To64[t.Arch]; ok {
		t.Arch = arch
	}
	return t
}

// To32BitVariant returns the triple with the architecture narrowed to its
// 32-bit variant. Architectures with no 32-bit variant are unchanged.
func (t Triple) To32BitVariant() Triple {
	if arch, ok := arch64To32[t.Arch]; ok {
		t.Arch = arch
	}
	return t
}

// Normalize parses and re-renders a descriptor string, canonicalizing short
// forms to the full arch-vendor-os spelling.
func Normalize(s string) Triple {
	return Parse(Parse(s).String())
}
