/*
Package cpuid reads and decodes the x86 CPU identification registers: vendor
signature, family/model codes, and instruction-set-extension feature bits with
the OS context-save gating applied.
*/
package cpuid

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import "math"

// Registers holds the four identification register words returned for one
// leaf/subleaf query.
type Registers struct {
	EAX uint32
	EBX uint32
	ECX uint32
	EDX uint32
}

// QueryFunc returns the identification registers for a leaf/subleaf pair.
// ok is false when the host has no identification facility.
type QueryFunc func(leaf, subleaf uint32) (regs Registers, ok bool)

// XCR0Func returns the extended control register 0 halves, which describe
// the register state the OS preserves across context switches. ok is false
// when the register cannot be read.
type XCR0Func func() (lo, hi uint32, ok bool)

// Vendor identifies the CPU manufacturer from the leaf 0 signature.
type Vendor int

const (
	VendorOther Vendor = iota
	VendorIntel
	VendorAMD
)

// Leaf 0 EBX signatures: "Genu"(ineIntel) and "Auth"(enticAMD).
const (
	sigIntel = 0x756e6547
	sigAMD   = 0x68747541
)

// VendorFromSignature maps the leaf 0 EBX word to a vendor.
func VendorFromSignature(ebx uint32) Vendor {
	switch ebx {
	case sigIntel:
		return VendorIntel
	case sigAMD:
		return VendorAMD
	}
	return VendorOther
}

// Feature identifies one instruction-set extension. Values 0-31 live in the
// low mask, 32-63 in the high mask.
type Feature uint32

const (
	FeatureCMOV Feature = iota
	FeatureMMX
	FeaturePOPCNT
	FeatureSSE
	FeatureSSE2
	FeatureSSE3
	FeatureSSSE3
	FeatureSSE41
	FeatureSSE42
	FeatureAVX
	FeatureAVX2
	FeatureSSE4A
	FeatureFMA4
	FeatureXOP
	FeatureFMA
	FeatureAVX512F
	FeatureBMI
	FeatureBMI2
	FeatureAES
	FeaturePCLMUL
	FeatureAVX512VL
	FeatureAVX512BW
	FeatureAVX512DQ
	FeatureAVX512CD
	FeatureAVX512ER
	FeatureAVX512PF
	FeatureAVX512VBMI
	FeatureAVX512IFMA
	FeatureAVX5124VNNIW
	FeatureAVX5124FMAPS
	FeatureAVX512VPOPCNTDQ
)

const (
	FeatureMOVBE Feature = iota + 32
	FeatureADX
	FeatureEM64T
	FeatureCLFLUSHOPT
	FeatureSHA
)

// FeatureNone marks an unused feature slot in rule tables.
const FeatureNone Feature = math.MaxUint32

// Masks is the two-word feature bitset used by the classification tables.
type Masks struct {
	Lo uint32 // features 0-31
	Hi uint32 // features 32-63
}

// Has reports whether the feature bit is set.
func (m Masks) Has(f Feature) bool {
	if f < 32 {
		return m.Lo&(1<<f) != 0
	}
	return m.Hi&(1<<(f-32)) != 0
}

// Set sets the feature bit.
func (m *Masks) Set(f Feature) {
	if f < 32 {
		m.Lo |= 1 << f
	} else {
		m.Hi |= 1 << (f - 32)
	}
}

// SignatureFamilyModel extracts the family and model codes from the leaf 1
// EAX word. The extended family/model fields are folded in only for base
// family 6 and 0xF, and must be applied before any table lookup.
func SignatureFamilyModel(eax uint32) (family, model uint32) {
	family = (eax >> 8) & 0xf // bits 8-11
	model = (eax >> 4) & 0xf  // bits 4-7
	if family == 6 || family == 0xf {
		if family == 0xf {
			family += (eax >> 20) & 0xff // bits 20-27
		}
		model += ((eax >> 16) & 0xf) << 4 // bits 16-19
	}
	return
}

func bit(word uint32, n uint) bool {
	return (word>>n)&1 != 0
}

// avxSave reports whether the OS preserves the AVX and AVX-512 register
// state. The XCR0 register is consulted only when the CPU reports both
// XSAVE-enabled-by-OS and AVX support, matching the short-circuit the
// classification tables depend on.
func avxSave(leaf1ECX uint32, readXCR0 XCR0Func) (hasAVXSave, hasAVX512Save bool) {
	const avxBits = 1<<27 | 1<<28 // OSXSAVE and AVX
	if leaf1ECX&avxBits != avxBits {
		return false, false
	}
	lo, _, ok := readXCR0()
	if !ok {
		return false, false
	}
	hasAVXSave = lo&0x6 == 0x6
	hasAVX512Save = hasAVXSave && lo&0xe0 == 0xe0
	return
}

// DecodeMasks builds the classification feature bitset from the leaf 1
// registers, consulting the extended-feature and extended-function leaves
// only when the CPU's maximum leaf numbers permit. Absent leaves simply
// contribute no bits.
func DecodeMasks(query QueryFunc, readXCR0 XCR0Func, maxLeaf uint32, leaf1 Registers) Masks {
	var m Masks
	ecx, edx := leaf1.ECX, leaf1.EDX

	if bit(edx, 15) {
		m.Set(FeatureCMOV)
	}
	if bit(edx, 23) {
		m.Set(FeatureMMX)
	}
	if bit(edx, 25) {
		m.Set(FeatureSSE)
	}
	if bit(edx, 26) {
		m.Set(FeatureSSE2)
	}

	if bit(ecx, 0) {
		m.Set(FeatureSSE3)
	}
	if bit(ecx, 1) {
		m.Set(FeaturePCLMUL)
	}
	if bit(ecx, 9) {
		m.Set(FeatureSSSE3)
	}
	if bit(ecx, 12) {
		m.Set(FeatureFMA)
	}
	if bit(ecx, 19) {
		m.Set(FeatureSSE41)
	}
	if bit(ecx, 20) {
		m.Set(FeatureSSE42)
	}
	if bit(ecx, 22) {
		m.Set(FeatureMOVBE)
	}
	if bit(ecx, 23) {
		m.Set(FeaturePOPCNT)
	}
	if bit(ecx, 25) {
		m.Set(FeatureAES)
	}

	hasAVXSave, hasAVX512Save := avxSave(ecx, readXCR0)
	if hasAVXSave {
		m.Set(FeatureAVX)
	}

	leaf7, ok := query(7, 0)
	hasLeaf7 := maxLeaf >= 7 && ok
	if hasLeaf7 {
		ebx7, ecx7, edx7 := leaf7.EBX, leaf7.ECX, leaf7.EDX
		if bit(ebx7, 3) {
			m.Set(FeatureBMI)
		}
		if bit(ebx7, 5) && hasAVXSave {
			m.Set(FeatureAVX2)
		}
		if bit(ebx7, 9) {
			m.Set(FeatureBMI2)
		}
		if bit(ebx7, 16) && hasAVX512Save {
			m.Set(FeatureAVX512F)
		}
		if bit(ebx7, 17) && hasAVX512Save {
			m.Set(FeatureAVX512DQ)
		}
		if bit(ebx7, 19) {
			m.Set(FeatureADX)
		}
		if bit(ebx7, 21) && hasAVX512Save {
			m.Set(FeatureAVX512IFMA)
		}
		if bit(ebx7, 23) {
			m.Set(FeatureCLFLUSHOPT)
		}
		if bit(ebx7, 26) && hasAVX512Save {
			m.Set(FeatureAVX512PF)
		}
		if bit(ebx7, 27) && hasAVX512Save {
			m.Set(FeatureAVX512ER)
		}
		if bit(ebx7, 28) && hasAVX512Save {
			m.Set(FeatureAVX512CD)
		}
		if bit(ebx7, 29) {
			m.Set(FeatureSHA)
		}
		if bit(ebx7, 30) && hasAVX512Save {
			m.Set(FeatureAVX512BW)
		}
		if bit(ebx7, 31) && hasAVX512Save {
			m.Set(FeatureAVX512VL)
		}
		if bit(ecx7, 1) && hasAVX512Save {
			m.Set(FeatureAVX512VBMI)
		}
		if bit(ecx7, 14) && hasAVX512Save {
			m.Set(FeatureAVX512VPOPCNTDQ)
		}
		if bit(edx7, 2) && hasAVX512Save {
			m.Set(FeatureAVX5124VNNIW)
		}
		if bit(edx7, 3) && hasAVX512Save {
			m.Set(FeatureAVX5124FMAPS)
		}
	}

	extLeaf0, ok := query(0x80000000, 0)
	if ok && extLeaf0.EAX >= 0x80000001 {
		ext1, ok := query(0x80000001, 0)
		if ok {
			if bit(ext1.ECX, 6) {
				m.Set(FeatureSSE4A)
			}
			if bit(ext1.ECX, 11) {
				m.Set(FeatureXOP)
			}
			if bit(ext1.ECX, 16) {
				m.Set(FeatureFMA4)
			}
			if bit(ext1.EDX, 29) {
				m.Set(FeatureEM64T)
			}
		}
	}

	return m
}

// DecodeFeatureMap produces the named feature flags reported to callers.
// ok is false only when the identification facility itself is unusable.
// Wide-register features are reported only when the OS preserves the
// corresponding state; the CPU advertising a bit is not sufficient.
func DecodeFeatureMap(query QueryFunc, readXCR0 XCR0Func) (map[string]bool, bool) {
	leaf0, ok := query(0, 0)
	if !ok || leaf0.EAX < 1 {
		return nil, false
	}
	maxLeaf := leaf0.EAX
	leaf1, _ := query(1, 0)
	ecx, edx := leaf1.ECX, leaf1.EDX

	features := make(map[string]bool)
	features["cmov"] = bit(edx, 15)
	features["mmx"] = bit(edx, 23)
	features["sse"] = bit(edx, 25)
	features["sse2"] = bit(edx, 26)
	features["sse3"] = bit(ecx, 0)
	features["ssse3"] = bit(ecx, 9)
	features["sse4.1"] = bit(ecx, 19)
	features["sse4.2"] = bit(ecx, 20)

	features["pclmul"] = bit(ecx, 1)
	features["cx16"] = bit(ecx, 13)
	features["movbe"] = bit(ecx, 22)
	features["popcnt"] = bit(ecx, 23)
	features["aes"] = bit(ecx, 25)
	features["rdrnd"] = bit(ecx, 30)

	hasAVXSave, hasAVX512Save := avxSave(ecx, readXCR0)
	features["avx"] = hasAVXSave
	features["fma"] = hasAVXSave && bit(ecx, 12)
	features["f16c"] = hasAVXSave && bit(ecx, 29)

	// XSAVE is only useful when the OS enables YMM state saving.
	features["xsave"] = hasAVXSave && bit(ecx, 26)

	extLeaf0, ok := query(0x80000000, 0)
	maxExtLeaf := uint32(0)
	if ok {
		maxExtLeaf = extLeaf0.EAX
	}

	ext1, ok := query(0x80000001, 0)
	hasExtLeaf1 := maxExtLeaf >= 0x80000001 && ok
	features["lzcnt"] = hasExtLeaf1 && bit(ext1.ECX, 5)
	features["sse4a"] = hasExtLeaf1 && bit(ext1.ECX, 6)
	features["prfchw"] = hasExtLeaf1 && bit(ext1.ECX, 8)
	features["xop"] = hasExtLeaf1 && bit(ext1.ECX, 11) && hasAVXSave
	features["lwp"] = hasExtLeaf1 && bit(ext1.ECX, 15)
	features["fma4"] = hasExtLeaf1 && bit(ext1.ECX, 16) && hasAVXSave
	features["tbm"] = hasExtLeaf1 && bit(ext1.ECX, 21)
	features["mwaitx"] = hasExtLeaf1 && bit(ext1.ECX, 29)

	ext8, ok := query(0x80000008, 0)
	hasExtLeaf8 := maxExtLeaf >= 0x80000008 && ok
	features["clzero"] = hasExtLeaf8 && bit(ext8.EBX, 0)

	leaf7, ok := query(7, 0)
	hasLeaf7 := maxLeaf >= 7 && ok

	// AVX2 needs the same OS save support as AVX.
	features["avx2"] = hasAVXSave && hasLeaf7 && bit(leaf7.EBX, 5)

	features["fsgsbase"] = hasLeaf7 && bit(leaf7.EBX, 0)
	features["sgx"] = hasLeaf7 && bit(leaf7.EBX, 2)
	features["bmi"] = hasLeaf7 && bit(leaf7.EBX, 3)
	features["bmi2"] = hasLeaf7 && bit(leaf7.EBX, 8)
	features["rtm"] = hasLeaf7 && bit(leaf7.EBX, 11)
	features["rdseed"] = hasLeaf7 && bit(leaf7.EBX, 18)
	features["adx"] = hasLeaf7 && bit(leaf7.EBX, 19)
	features["clflushopt"] = hasLeaf7 && bit(leaf7.EBX, 23)
	features["clwb"] = hasLeaf7 && bit(leaf7.EBX, 24)
	features["sha"] = hasLeaf7 && bit(leaf7.EBX, 29)

	// AVX-512 additionally needs the opmask/upper-register state saved.
	features["avx512f"] = hasLeaf7 && bit(leaf7.EBX, 16) && hasAVX512Save
	features["avx512dq"] = hasLeaf7 && bit(leaf7.EBX, 17) && hasAVX512Save
	features["avx512ifma"] = hasLeaf7 && bit(leaf7.EBX, 21) && hasAVX512Save
	features["avx512pf"] = hasLeaf7 && bit(leaf7.EBX, 26) && hasAVX512Save
	features["avx512er"] = hasLeaf7 && bit(leaf7.EBX, 27) && hasAVX512Save
	features["avx512cd"] = hasLeaf7 && bit(leaf7.EBX, 28) && hasAVX512Save
	features["avx512bw"] = hasLeaf7 && bit(leaf7.EBX, 30) && hasAVX512Save
	features["avx512vl"] = hasLeaf7 && bit(leaf7.EBX, 31) && hasAVX512Save

	features["prefetchwt1"] = hasLeaf7 && bit(leaf7.ECX, 0)
	features["avx512vbmi"] = hasLeaf7 && bit(leaf7.ECX, 1) && hasAVX512Save
	features["avx512vpopcntdq"] = hasLeaf7 && bit(leaf7.ECX, 14) && hasAVX512Save
	features["pku"] = hasLeaf7 && bit(leaf7.ECX, 4)

	leafD, ok := query(0xd, 1)
	hasLeafD := maxLeaf >= 0xd && ok
	features["xsaveopt"] = hasAVXSave && hasLeafD && bit(leafD.EAX, 0)
	features["xsavec"] = hasAVXSave && hasLeafD && bit(leafD.EAX, 1)
	features["xsaves"] = hasAVXSave && hasLeafD && bit(leafD.EAX, 3)

	return features, true
}
