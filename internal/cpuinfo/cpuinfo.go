/*
Package cpuinfo decodes the kernel's CPU information text. On platforms where
the identification registers are privileged (ARM, PowerPC, s390x) the kernel
exposes the processor identity through /proc/cpuinfo; this package maps that
text to canonical microarchitecture names, feature sets, and the physical
core count.
*/
package cpuinfo

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
)

// DefaultPath is the kernel's CPU information pseudo-file.
const DefaultPath = "/proc/cpuinfo"

// Generic is the universal fallback name.
const Generic = "generic"

// Read returns the whole CPU information text.
func Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", path)
	}
	return string(data), nil
}

// fieldValue returns the value of "<key><spaces>: <value>" when the line
// carries the given key, trimming the separator characters the kernel uses.
func fieldValue(line, key string) (string, bool) {
	if !strings.HasPrefix(line, key) {
		return "", false
	}
	return strings.TrimLeft(line[len(key):], "\t :"), true
}

// powerPCNames maps the PVR-derived cpu line token to a canonical name.
var powerPCNames = map[string]string{
	"604e":      "604e",
	"604":       "604",
	"7400":      "7400",
	"7410":      "7400",
	"7447":      "7400",
	"7455":      "7450",
	"G4":        "g4",
	"POWER4":    "970",
	"PPC970FX":  "970",
	"PPC970MP":  "970",
	"G5":        "g5",
	"POWER5":    "g5",
	"A2":        "a2",
	"POWER6":    "pwr6",
	"POWER7":    "pwr7",
	"POWER8":    "pwr8",
	"POWER8E":   "pwr8",
	"POWER8NVL": "pwr8",
	"POWER9":    "pwr9",
}

// CPUNameForPowerPC extracts the processor type from the first "cpu :"
// line. Reading the Processor Version Register is privileged on PowerPC,
// so the kernel's text is the only identification source.
func CPUNameForPowerPC(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if !strings.HasPrefix(line, "cpu") {
			continue
		}
		rest := strings.TrimLeft(line[len("cpu"):], " \t")
		if !strings.HasPrefix(rest, ":") {
			continue
		}
		// The value may carry qualifiers, e.g. "POWER8E (raw), altivec
		// supported"; only the first token identifies the processor.
		token := strings.TrimLeft(rest[1:], " \t")
		if i := strings.IndexAny(token, " \t,"); i >= 0 {
			token = token[:i]
		}
		if token == "" {
			continue
		}
		if name, ok := powerPCNames[token]; ok {
			return name
		}
		return Generic
	}
	return Generic
}

// armPartNames maps "CPU part" codes for implementer 0x41 (ARM Ltd.) to
// canonical names. The part codes correspond to the CP15/c0 register
// contents documented in the processor manuals.
var armPartNames = map[string]string{
	"0x926": "arm926ej-s",
	"0xb02": "mpcore",
	"0xb36": "arm1136j-s",
	"0xb56": "arm1156t2-s",
	"0xb76": "arm1176jz-s",
	"0xc08": "cortex-a8",
	"0xc09": "cortex-a9",
	"0xc0f": "cortex-a15",
	"0xc20": "cortex-m0",
	"0xc23": "cortex-m3",
	"0xc24": "cortex-m4",
	"0xd04": "cortex-a35",
	"0xd03": "cortex-a53",
	"0xd07": "cortex-a57",
	"0xd08": "cortex-a72",
	"0xd09": "cortex-a73",
}

// qualcommPartNames maps "CPU part" codes for implementer 0x51 (Qualcomm).
var qualcommPartNames = map[string]string{
	"0x06f": "krait", // APQ8064
	"0x201": "kryo",
	"0x205": "kryo",
	"0x211": "kryo",
	"0x800": "cortex-a73",
	"0x801": "cortex-a73",
	"0xc00": "falkor",
	"0xc01": "saphira",
}

// CPUNameForARM extracts the processor name from the implementer and part
// lines. The identification register is not readable from user space on
// ARM, so the kernel's text is the identification source.
func CPUNameForARM(content string) string {
	lines := strings.Split(content, "\n")

	var implementer, hardware string
	for _, line := range lines {
		if v, ok := fieldValue(line, "CPU implementer"); ok {
			implementer = v
		}
		if v, ok := fieldValue(line, "Hardware"); ok {
			hardware = v
		}
	}

	var parts map[string]string
	switch implementer {
	case "0x41": // ARM Ltd.
		// MSM8992/8994 report the part of whichever core the kernel
		// happens to be running on, which rotates between clusters.
		// Always treat these SoCs as cortex-a53.
		if strings.HasSuffix(hardware, "MSM8994") || strings.HasSuffix(hardware, "MSM8996") {
			return "cortex-a53"
		}
		parts = armPartNames
	case "0x51": // Qualcomm Technologies, Inc.
		parts = qualcommPartNames
	default:
		return Generic
	}

	for _, line := range lines {
		if v, ok := fieldValue(line, "CPU part"); ok {
			if name, ok := parts[v]; ok {
				return name
			}
			return Generic
		}
	}
	return Generic
}

// CPUNameForS390x derives the name from the machine type thresholds. Vector
// support is checked independently of the machine type: the vector register
// set is usable only when the kernel (and hypervisor) enable it.
func CPUNameForS390x(content string) string {
	lines := strings.Split(content, "\n")

	haveVectorSupport := false
	for _, line := range lines {
		if v, ok := fieldValue(line, "features"); ok {
			for _, f := range strings.Fields(v) {
				if f == "vx" {
					haveVectorSupport = true
				}
			}
			break
		}
	}

	for _, line := range lines {
		if !strings.HasPrefix(line, "processor ") {
			continue
		}
		const marker = "machine = "
		pos := strings.Index(line, marker)
		if pos >= 0 {
			id, err := strconv.Atoi(strings.TrimSpace(line[pos+len(marker):]))
			if err == nil {
				switch {
				case id >= 3906 && haveVectorSupport:
					return "z14"
				case id >= 2964 && haveVectorSupport:
					return "z13"
				case id >= 2827:
					return "zEC12"
				case id >= 2817:
					return "z196"
				}
			}
		}
		break
	}
	return Generic
}

// FeatureTokens returns the whitespace-delimited tokens of the first
// "Features" line.
func FeatureTokens(content string) []string {
	for _, line := range strings.Split(content, "\n") {
		if v, ok := fieldValue(line, "Features"); ok {
			return strings.Fields(v)
		}
	}
	return nil
}

// armFeatureNames maps 32-bit ARM kernel feature tokens to canonical
// feature names. Unrecognized tokens contribute nothing.
var armFeatureNames = map[string]string{
	"half":     "fp16",
	"neon":     "neon",
	"vfpv3":    "vfp3",
	"vfpv3d16": "d16",
	"vfpv4":    "vfp4",
	"idiva":    "hwdiv-arm",
	"idivt":    "hwdiv",
}

// aarch64FeatureNames maps 64-bit ARM kernel feature tokens to canonical
// feature names.
var aarch64FeatureNames = map[string]string{
	"asimd": "neon",
	"fp":    "fp-armv8",
	"crc32": "crc",
}

// FeatureNamesARM maps 32-bit ARM feature tokens to the canonical set.
func FeatureNamesARM(tokens []string) map[string]bool {
	features := make(map[string]bool)
	for _, tok := range tokens {
		if name, ok := armFeatureNames[tok]; ok {
			features[name] = true
		}
	}
	return features
}

// FeatureNamesAArch64 maps 64-bit ARM feature tokens to the canonical set.
// The crypto feature is synthesized only when all four of aes, pmull, sha1,
// and sha2 are present; partial crypto support is deliberately not reported.
func FeatureNamesAArch64(tokens []string) map[string]bool {
	const (
		capAES = 1 << iota
		capPMULL
		capSHA1
		capSHA2
	)
	crypto := 0

	features := make(map[string]bool)
	for _, tok := range tokens {
		if name, ok := aarch64FeatureNames[tok]; ok {
			features[name] = true
		}
		switch tok {
		case "aes":
			crypto |= capAES
		case "pmull":
			crypto |= capPMULL
		case "sha1":
			crypto |= capSHA1
		case "sha2":
			crypto |= capSHA2
		}
	}
	if crypto == capAES|capPMULL|capSHA1|capSHA2 {
		features["crypto"] = true
	}
	return features
}

// CountPhysicalCores counts the unique (physical id, core id) pairs in the
// text. The kernel emits the two fields as a pair per logical CPU; a
// repeated field before its partner means the source text is malformed, and
// the pending pair is discarded rather than trusted.
func CountPhysicalCores(content string) int {
	pairs := mapset.NewThreadUnsafeSet[[2]int]()
	curPhysicalID := -1
	curCoreID := -1
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "physical id") && !strings.HasPrefix(line, "core id") {
			continue
		}
		name, val, _ := strings.Cut(line, ":")
		name = strings.TrimSpace(name)
		id, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			slog.Warn("malformed cpuinfo id field", slog.String("line", line))
			continue
		}
		switch name {
		case "physical id":
			if curPhysicalID != -1 {
				slog.Warn("repeated physical id without a core id; discarding pending pair", slog.Int("physicalID", curPhysicalID))
			}
			curPhysicalID = id
		case "core id":
			if curCoreID != -1 {
				slog.Warn("repeated core id without a physical id; discarding pending pair", slog.Int("coreID", curCoreID))
			}
			curCoreID = id
		}
		if curPhysicalID != -1 && curCoreID != -1 {
			pairs.Add([2]int{curPhysicalID, curCoreID})
			curPhysicalID = -1
			curCoreID = -1
		}
	}
	return pairs.Cardinality()
}
