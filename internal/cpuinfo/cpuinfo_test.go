// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package cpuinfo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cpuinfo")
	require.NoError(t, os.WriteFile(path, []byte("processor\t: 0\n"), 0644))

	content, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "processor\t: 0\n", content)

	_, err = Read(filepath.Join(dir, "missing"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestCPUNameForPowerPC(t *testing.T) {
	power8 := "processor\t: 0\ncpu\t\t: POWER8E (raw), altivec supported\nclock\t\t: 3425.000000MHz\n"
	assert.Equal(t, "pwr8", CPUNameForPowerPC(power8))

	power9 := "cpu\t\t: POWER9, altivec supported\n"
	assert.Equal(t, "pwr9", CPUNameForPowerPC(power9))

	g4 := "cpu\t\t: 7447A, altivec supported\n"
	// 7447A is not in the table; unknown processors degrade to generic.
	assert.Equal(t, Generic, CPUNameForPowerPC(g4))

	assert.Equal(t, Generic, CPUNameForPowerPC(""))

	// "cpus detected" style lines must not be mistaken for the cpu field.
	assert.Equal(t, Generic, CPUNameForPowerPC("cpus detected\t: 4\n"))
}

const cpuinfoCortexA72 = `processor	: 0
BogoMIPS	: 108.00
Features	: fp asimd evtstrm aes pmull sha1 sha2 crc32
CPU implementer	: 0x41
CPU architecture: 8
CPU variant	: 0x0
CPU part	: 0xd08
CPU revision	: 3
`

const cpuinfoKryo = `processor	: 0
Features	: fp asimd evtstrm aes pmull sha1 sha2 crc32
CPU implementer	: 0x51
CPU architecture: 8
CPU variant	: 0xa
CPU part	: 0x201
CPU revision	: 1
`

func TestCPUNameForARM(t *testing.T) {
	assert.Equal(t, "cortex-a72", CPUNameForARM(cpuinfoCortexA72))
	assert.Equal(t, "kryo", CPUNameForARM(cpuinfoKryo))

	// Unknown implementer.
	unknown := "CPU implementer\t: 0x99\nCPU part\t: 0xd08\n"
	assert.Equal(t, Generic, CPUNameForARM(unknown))

	// Known implementer, unknown part.
	unknownPart := "CPU implementer\t: 0x41\nCPU part\t: 0xfff\n"
	assert.Equal(t, Generic, CPUNameForARM(unknownPart))

	assert.Equal(t, Generic, CPUNameForARM(""))
}

func TestCPUNameForARM_MSMOverride(t *testing.T) {
	// The MSM8994/8996 big.LITTLE SoCs report whichever cluster the kernel
	// sampled; the part line must be ignored for them.
	msm := "CPU implementer\t: 0x41\nCPU part\t: 0xd07\nHardware\t: Qualcomm Technologies, Inc MSM8996\n"
	assert.Equal(t, "cortex-a53", CPUNameForARM(msm))
}

const cpuinfoZ13 = `vendor_id       : IBM/S390
features	: esan3 zarch stfle msa ldisp eimm dfp edat etf3eh highgprs te vx sie
processor 0: version = FF,  identification = 1A33E7,  machine = 2964
`

func TestCPUNameForS390x(t *testing.T) {
	assert.Equal(t, "z13", CPUNameForS390x(cpuinfoZ13))

	// Same machine without kernel vector support steps down a generation.
	noVX := `features	: esan3 zarch stfle msa ldisp
processor 0: version = FF,  identification = 1A33E7,  machine = 2964
`
	assert.Equal(t, "zEC12", CPUNameForS390x(noVX))

	z14 := `features	: vx
processor 0: version = FF,  identification = 1A33E7,  machine = 3906
`
	assert.Equal(t, "z14", CPUNameForS390x(z14))

	z196 := "processor 0: version = FF,  identification = 1A33E7,  machine = 2817\n"
	assert.Equal(t, "z196", CPUNameForS390x(z196))

	old := "processor 0: version = FF,  identification = 1A33E7,  machine = 2097\n"
	assert.Equal(t, Generic, CPUNameForS390x(old))

	assert.Equal(t, Generic, CPUNameForS390x(""))
}

func TestFeatureTokens(t *testing.T) {
	tokens := FeatureTokens(cpuinfoCortexA72)
	assert.Equal(t, []string{"fp", "asimd", "evtstrm", "aes", "pmull", "sha1", "sha2", "crc32"}, tokens)
	assert.Nil(t, FeatureTokens("processor\t: 0\n"))
}

func TestFeatureNamesARM(t *testing.T) {
	features := FeatureNamesARM([]string{"half", "neon", "vfpv3", "idiva", "tls", "swp"})
	assert.True(t, features["fp16"])
	assert.True(t, features["neon"])
	assert.True(t, features["vfp3"])
	assert.True(t, features["hwdiv-arm"])
	// Tokens without a canonical name contribute nothing.
	assert.NotContains(t, features, "tls")
	assert.NotContains(t, features, "swp")
}

func TestFeatureNamesAArch64_CryptoBundle(t *testing.T) {
	full := FeatureNamesAArch64([]string{"fp", "asimd", "aes", "pmull", "sha1", "sha2", "crc32"})
	assert.True(t, full["fp-armv8"])
	assert.True(t, full["neon"])
	assert.True(t, full["crc"])
	assert.True(t, full["crypto"])

	// Partial crypto support must not report the bundle.
	partial := FeatureNamesAArch64([]string{"asimd", "aes", "sha1"})
	assert.True(t, partial["neon"])
	assert.False(t, partial["crypto"])
}

const cpuinfoTwoCoresHT = `processor	: 0
physical id	: 0
core id		: 0
processor	: 1
physical id	: 0
core id		: 1
processor	: 2
physical id	: 0
core id		: 0
processor	: 3
physical id	: 0
core id		: 1
`

func TestCountPhysicalCores(t *testing.T) {
	// Two cores with two hyperthreads each.
	assert.Equal(t, 2, CountPhysicalCores(cpuinfoTwoCoresHT))

	// Two sockets sharing core ids still count separately.
	twoSockets := "physical id\t: 0\ncore id\t: 0\nphysical id\t: 1\ncore id\t: 0\n"
	assert.Equal(t, 2, CountPhysicalCores(twoSockets))

	one := "physical id\t: 0\ncore id\t: 0\nphysical id\t: 0\ncore id\t: 0\n"
	assert.Equal(t, 1, CountPhysicalCores(one))

	// No topology fields at all, e.g. inside some VMs.
	assert.Equal(t, 0, CountPhysicalCores("processor\t: 0\nmodel name\t: Virtual CPU\n"))
}

func TestCountPhysicalCores_Malformed(t *testing.T) {
	// A repeated field before its partner discards the pending value; the
	// counter recovers on the next complete pair.
	repeated := "physical id\t: 0\nphysical id\t: 1\ncore id\t: 0\nphysical id\t: 1\ncore id\t: 1\n"
	assert.Equal(t, 2, CountPhysicalCores(repeated))

	// Non-numeric values are skipped, not counted.
	garbage := "physical id\t: zero\ncore id\t: 0\nphysical id\t: 0\ncore id\t: 0\n"
	assert.Equal(t, 1, CountPhysicalCores(garbage))
}
