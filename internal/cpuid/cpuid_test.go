// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package cpuid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeQuery builds a QueryFunc from a fixed leaf/subleaf table. Leaves
// absent from the table report ok=false, like a host that stops short of
// them.
func fakeQuery(table map[[2]uint32]Registers) QueryFunc {
	return func(leaf, subleaf uint32) (Registers, bool) {
		regs, ok := table[[2]uint32{leaf, subleaf}]
		return regs, ok
	}
}

func xcr0All() (uint32, uint32, bool)  { return 0xe7, 0, true }
func xcr0SSE() (uint32, uint32, bool)  { return 0x3, 0, true }
func xcr0None() (uint32, uint32, bool) { return 0, 0, false }

func TestVendorFromSignature(t *testing.T) {
	assert.Equal(t, VendorIntel, VendorFromSignature(0x756e6547))
	assert.Equal(t, VendorAMD, VendorFromSignature(0x68747541))
	assert.Equal(t, VendorOther, VendorFromSignature(0x746e6543)) // Centaur
	assert.Equal(t, VendorOther, VendorFromSignature(0))
}

func TestSignatureFamilyModel(t *testing.T) {
	// Kaby Lake desktop: family 6, model 0x9e, via the extended model field.
	family, model := SignatureFamilyModel(0x000906e9)
	assert.Equal(t, uint32(6), family)
	assert.Equal(t, uint32(0x9e), model)

	// Zen: base family 0xf plus extended family 8 gives 23.
	family, model = SignatureFamilyModel(0x00800f11)
	assert.Equal(t, uint32(23), family)
	assert.Equal(t, uint32(0x01), model)

	// Pentium III: neither extension applies.
	family, model = SignatureFamilyModel(0x00000673)
	assert.Equal(t, uint32(6), family)
	assert.Equal(t, uint32(7), model)

	// Family 5 must not fold in the extended model field.
	family, model = SignatureFamilyModel(0x00010543)
	assert.Equal(t, uint32(5), family)
	assert.Equal(t, uint32(4), model)
}

func TestMasks(t *testing.T) {
	var m Masks
	m.Set(FeatureCMOV)
	m.Set(FeatureAVX512VPOPCNTDQ)
	m.Set(FeatureSHA)
	assert.True(t, m.Has(FeatureCMOV))
	assert.True(t, m.Has(FeatureAVX512VPOPCNTDQ))
	assert.True(t, m.Has(FeatureSHA))
	assert.False(t, m.Has(FeatureAVX))
	assert.False(t, m.Has(FeatureEM64T))
}

func TestDecodeMasks_AVXRequiresOSSave(t *testing.T) {
	leaf1 := Registers{
		// OSXSAVE, AVX, and the low SIMD generations.
		ECX: 1<<28 | 1<<27 | 1<<20 | 1<<19 | 1<<9 | 1<<0,
		EDX: 1<<26 | 1<<25 | 1<<23 | 1<<15,
	}
	table := map[[2]uint32]Registers{
		{7, 0}: {EBX: 1 << 5}, // AVX2
	}

	m := DecodeMasks(fakeQuery(table), xcr0All, 7, leaf1)
	assert.True(t, m.Has(FeatureAVX))
	assert.True(t, m.Has(FeatureAVX2))
	assert.True(t, m.Has(FeatureSSE42))

	// Same CPU bits, but the OS saves only x87/SSE state: no AVX, and no
	// AVX2 either even though leaf 7 advertises it.
	m = DecodeMasks(fakeQuery(table), xcr0SSE, 7, leaf1)
	assert.False(t, m.Has(FeatureAVX))
	assert.False(t, m.Has(FeatureAVX2))
	assert.True(t, m.Has(FeatureSSE42))
}

func TestDecodeMasks_AVX512RequiresOpmaskSave(t *testing.T) {
	leaf1 := Registers{ECX: 1<<28 | 1<<27}
	table := map[[2]uint32]Registers{
		{7, 0}: {EBX: 1<<16 | 1<<31 | 1<<5}, // AVX512F, AVX512VL, AVX2
	}

	m := DecodeMasks(fakeQuery(table), xcr0All, 7, leaf1)
	assert.True(t, m.Has(FeatureAVX512F))
	assert.True(t, m.Has(FeatureAVX512VL))

	// YMM state saved but not the opmask/upper registers.
	ymmOnly := func() (uint32, uint32, bool) { return 0x7, 0, true }
	m = DecodeMasks(fakeQuery(table), ymmOnly, 7, leaf1)
	assert.False(t, m.Has(FeatureAVX512F))
	assert.True(t, m.Has(FeatureAVX2))
}

func TestDecodeMasks_Leaf7GatedByMaxLeaf(t *testing.T) {
	leaf1 := Registers{EDX: 1 << 26}
	table := map[[2]uint32]Registers{
		{7, 0}: {EBX: 1 << 3}, // BMI
	}

	// A host whose maximum leaf is below 7 must ignore the leaf 7 bits even
	// if the query function answers for them.
	m := DecodeMasks(fakeQuery(table), xcr0None, 4, leaf1)
	assert.False(t, m.Has(FeatureBMI))
	assert.True(t, m.Has(FeatureSSE2))

	m = DecodeMasks(fakeQuery(table), xcr0None, 7, leaf1)
	assert.True(t, m.Has(FeatureBMI))
}

func TestDecodeMasks_ExtendedLeaves(t *testing.T) {
	table := map[[2]uint32]Registers{
		{0x80000000, 0}: {EAX: 0x80000001},
		{0x80000001, 0}: {ECX: 1<<16 | 1<<11 | 1<<6, EDX: 1 << 29},
	}
	m := DecodeMasks(fakeQuery(table), xcr0None, 1, Registers{})
	assert.True(t, m.Has(FeatureSSE4A))
	assert.True(t, m.Has(FeatureXOP))
	assert.True(t, m.Has(FeatureFMA4))
	assert.True(t, m.Has(FeatureEM64T))

	// Extended function range not implemented at all.
	m = DecodeMasks(fakeQuery(map[[2]uint32]Registers{}), xcr0None, 1, Registers{})
	assert.False(t, m.Has(FeatureEM64T))
}

func TestDecodeFeatureMap_NoIdentification(t *testing.T) {
	_, ok := DecodeFeatureMap(fakeQuery(map[[2]uint32]Registers{}), xcr0None)
	assert.False(t, ok)

	// Leaf 0 present but reports no further leaves.
	table := map[[2]uint32]Registers{{0, 0}: {EAX: 0}}
	_, ok = DecodeFeatureMap(fakeQuery(table), xcr0None)
	assert.False(t, ok)
}

func TestDecodeFeatureMap_AVXGating(t *testing.T) {
	table := map[[2]uint32]Registers{
		{0, 0}: {EAX: 0xd},
		{1, 0}: {ECX: 1<<28 | 1<<27 | 1<<12 | 1<<0, EDX: 1<<26 | 1<<25},
		{7, 0}: {EBX: 1<<5 | 1<<3},
	}

	features, ok := DecodeFeatureMap(fakeQuery(table), xcr0All)
	assert.True(t, ok)
	assert.True(t, features["avx"])
	assert.True(t, features["avx2"])
	assert.True(t, features["fma"])
	assert.True(t, features["bmi"])
	assert.False(t, features["avx512f"])

	// Without OS save support the AVX family drops out while the scalar
	// features stay.
	features, ok = DecodeFeatureMap(fakeQuery(table), xcr0SSE)
	assert.True(t, ok)
	assert.False(t, features["avx"])
	assert.False(t, features["avx2"])
	assert.False(t, features["fma"])
	assert.True(t, features["bmi"])
	assert.True(t, features["sse2"])
}

func TestDecodeFeatureMap_XSaveSubleaf(t *testing.T) {
	table := map[[2]uint32]Registers{
		{0, 0}:   {EAX: 0xd},
		{1, 0}:   {ECX: 1<<28 | 1<<27 | 1<<26},
		{0xd, 1}: {EAX: 1<<3 | 1<<1 | 1<<0},
	}
	features, ok := DecodeFeatureMap(fakeQuery(table), xcr0All)
	assert.True(t, ok)
	assert.True(t, features["xsave"])
	assert.True(t, features["xsaveopt"])
	assert.True(t, features["xsavec"])
	assert.True(t, features["xsaves"])
}
