// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package cpus classifies x86 CPUs into a microarchitecture class from the
// vendor, family, model, and feature codes reported by the identification
// registers, and resolves the class to its canonical name. The vendor tables
// are ordered data, looked up row by row; unknown family-6 Intel models fall
// back to a feature cascade evaluated most-advanced-feature-first.
package cpus

import (
	"fmt"

	"hostcpu/internal/cpuid"
)

// Type is the microarchitecture family of a classified CPU.
type Type int

const (
	TypeUnset Type = iota
	IntelBonnell
	IntelCore2
	IntelCorei7
	AMDFam10h
	AMDFam15h
	IntelSilvermont
	IntelKNL
	AMDBtver1
	AMDBtver2
	AMDFam17h
	Inteli386
	Inteli486
	IntelPentium
	IntelPentiumPro
	IntelPentiumII
	IntelPentiumIII
	IntelPentiumIV
	IntelPentiumM
	IntelCoreDuo
	IntelX8664
	IntelNocona
	IntelPrescott
	AMDi486
	AMDPentium
	AMDAthlon
	IntelGoldmont
)

// Subtype is the specific generation within a Type. It is meaningful only
// for some Types and stays SubtypeUnset otherwise.
type Subtype int

const (
	SubtypeUnset Subtype = iota
	IntelCorei7Nehalem
	IntelCorei7Westmere
	IntelCorei7Sandybridge
	AMDFam10hBarcelona
	AMDFam10hShanghai
	AMDFam10hIstanbul
	AMDFam15hBdver1
	AMDFam15hBdver2
	AMDFam15hBdver3
	AMDFam15hBdver4
	AMDFam17hZnver1
	IntelCorei7Ivybridge
	IntelCorei7Haswell
	IntelCorei7Broadwell
	IntelCorei7Skylake
	IntelCorei7SkylakeAVX512
	IntelPentiumMMX
	IntelCore265
	IntelCore245
	AMDPentiumK6
	AMDPentiumK62
	AMDPentiumK63
	AMDPentiumGeode
	AMDAthlonClassic
	AMDAthlonXP
	AMDAthlonK8
	AMDAthlonK8SSE3
)

// Class is the classification result.
type Class struct {
	Type    Type
	Subtype Subtype
}

// modelSpan maps an inclusive model code range to a class. Single models use
// lo == hi. Spans within a table are disjoint by construction, so lookup
// order does not matter; they are kept sorted for readability.
type modelSpan struct {
	lo, hi uint32
	class  Class
}

func lookupModel(spans []modelSpan, model uint32) (Class, bool) {
	for _, s := range spans {
		if model >= s.lo && model <= s.hi {
			return s.class, true
		}
	}
	return Class{}, false
}

// intelFamily6Models maps the known family-6 model codes to their class.
// One class typically covers several silicon steppings.
var intelFamily6Models = []modelSpan{
	{0x01, 0x01, Class{Type: IntelPentiumPro}},                                // Pentium Pro
	{0x03, 0x03, Class{Type: IntelPentiumII}},                                 // Pentium II OverDrive, Pentium II model 03
	{0x05, 0x06, Class{Type: IntelPentiumII}},                                 // Pentium II / Pentium II Xeon / Celeron models 05-06
	{0x07, 0x08, Class{Type: IntelPentiumIII}},                                // Pentium III / Pentium III Xeon / Celeron models 07-08
	{0x09, 0x09, Class{Type: IntelPentiumM}},                                  // Pentium M / Celeron M model 09
	{0x0a, 0x0b, Class{Type: IntelPentiumIII}},                                // Pentium III Xeon model 0A, Pentium III model 0B
	{0x0d, 0x0d, Class{Type: IntelPentiumM}},                                  // Pentium M / Celeron M model 0D (90 nm)
	{0x0e, 0x0e, Class{Type: IntelCoreDuo}},                                   // Core Duo / Core Solo (Yonah, 65 nm)
	{0x0f, 0x0f, Class{Type: IntelCore2, Subtype: IntelCore265}},              // Core 2 Duo / Quad / Extreme, Xeon model 0F (65 nm)
	{0x15, 0x15, Class{Type: IntelPentiumM}},                                  // EP80579 integrated processor
	{0x16, 0x16, Class{Type: IntelCore2, Subtype: IntelCore265}},              // Celeron model 16 (65 nm)
	{0x17, 0x17, Class{Type: IntelCore2, Subtype: IntelCore245}},              // Penryn, Wolfdale, Yorkfield (45 nm)
	{0x1a, 0x1a, Class{Type: IntelCorei7, Subtype: IntelCorei7Nehalem}},       // Nehalem (45 nm)
	{0x1c, 0x1c, Class{Type: IntelBonnell}},                                   // most 45 nm Atoms
	{0x1d, 0x1d, Class{Type: IntelCore2, Subtype: IntelCore245}},              // Xeon MP (45 nm)
	{0x1e, 0x1f, Class{Type: IntelCorei7, Subtype: IntelCorei7Nehalem}},       // Nehalem (Lynnfield, Clarksfield)
	{0x25, 0x25, Class{Type: IntelCorei7, Subtype: IntelCorei7Westmere}},      // Westmere mobile
	{0x26, 0x27, Class{Type: IntelBonnell}},                                   // Atom Lincroft (45 nm), Medfield (32 nm)
	{0x2a, 0x2a, Class{Type: IntelCorei7, Subtype: IntelCorei7Sandybridge}},   // Sandy Bridge (32 nm)
	{0x2c, 0x2c, Class{Type: IntelCorei7, Subtype: IntelCorei7Westmere}},      // Westmere (32 nm)
	{0x2d, 0x2d, Class{Type: IntelCorei7, Subtype: IntelCorei7Sandybridge}},   // Sandy Bridge EP
	{0x2e, 0x2e, Class{Type: IntelCorei7, Subtype: IntelCorei7Nehalem}},       // Nehalem EX
	{0x2f, 0x2f, Class{Type: IntelCorei7, Subtype: IntelCorei7Westmere}},      // Westmere EX
	{0x35, 0x36, Class{Type: IntelBonnell}},                                   // Atom Midview (32 nm)
	{0x37, 0x37, Class{Type: IntelSilvermont}},                                // Silvermont
	{0x3a, 0x3a, Class{Type: IntelCorei7, Subtype: IntelCorei7Ivybridge}},     // Ivy Bridge
	{0x3c, 0x3c, Class{Type: IntelCorei7, Subtype: IntelCorei7Haswell}},       // Haswell
	{0x3d, 0x3d, Class{Type: IntelCorei7, Subtype: IntelCorei7Broadwell}},     // Broadwell
	{0x3e, 0x3e, Class{Type: IntelCorei7, Subtype: IntelCorei7Ivybridge}},     // Ivy Bridge EP
	{0x3f, 0x3f, Class{Type: IntelCorei7, Subtype: IntelCorei7Haswell}},       // Haswell EP
	{0x45, 0x46, Class{Type: IntelCorei7, Subtype: IntelCorei7Haswell}},       // Haswell ULT, Haswell GT3e
	{0x47, 0x47, Class{Type: IntelCorei7, Subtype: IntelCorei7Broadwell}},     // Broadwell H
	{0x4a, 0x4a, Class{Type: IntelSilvermont}},                                // Silvermont (Tangier)
	{0x4c, 0x4c, Class{Type: IntelSilvermont}},                                // Airmont
	{0x4d, 0x4d, Class{Type: IntelSilvermont}},                                // Silvermont (Avoton)
	{0x4e, 0x4e, Class{Type: IntelCorei7, Subtype: IntelCorei7Skylake}},       // Skylake mobile
	{0x4f, 0x4f, Class{Type: IntelCorei7, Subtype: IntelCorei7Broadwell}},     // Broadwell EP
	{0x55, 0x55, Class{Type: IntelCorei7, Subtype: IntelCorei7SkylakeAVX512}}, // Skylake Xeon
	{0x56, 0x56, Class{Type: IntelCorei7, Subtype: IntelCorei7Broadwell}},     // Broadwell DE
	{0x57, 0x57, Class{Type: IntelKNL}},                                       // Knights Landing
	{0x5a, 0x5a, Class{Type: IntelSilvermont}},                                // Silvermont (Anniedale)
	{0x5c, 0x5c, Class{Type: IntelGoldmont}},                                  // Goldmont
	{0x5d, 0x5d, Class{Type: IntelSilvermont}},                                // Silvermont (SoFIA)
	{0x5e, 0x5e, Class{Type: IntelCorei7, Subtype: IntelCorei7Skylake}},       // Skylake desktop
	{0x5f, 0x5f, Class{Type: IntelGoldmont}},                                  // Goldmont (Denverton)
	{0x8e, 0x8e, Class{Type: IntelCorei7, Subtype: IntelCorei7Skylake}},       // Kaby Lake mobile
	{0x9e, 0x9e, Class{Type: IntelCorei7, Subtype: IntelCorei7Skylake}},       // Kaby Lake desktop
}

// cascadeRule approximates an unknown CPU by one distinguishing feature.
// When the rule's feature is present the rule fires: with no refining
// feature the result is hit; otherwise the refining feature selects between
// hit and miss.
type cascadeRule struct {
	when   cpuid.Feature
	refine cpuid.Feature
	hit    Class
	miss   Class
}

// intelFamily6Cascade guesses a class for family-6 models not in the table.
// Newer silicon satisfies several of these predicates at once, so the rules
// must stay ordered most-advanced-feature-first.
var intelFamily6Cascade = []cascadeRule{
	{cpuid.FeatureAVX512F, cpuid.FeatureAVX512VL,
		Class{Type: IntelCorei7, Subtype: IntelCorei7SkylakeAVX512},
		Class{Type: IntelKNL}},
	{cpuid.FeatureCLFLUSHOPT, cpuid.FeatureSHA,
		Class{Type: IntelGoldmont},
		Class{Type: IntelCorei7, Subtype: IntelCorei7Skylake}},
	{cpuid.FeatureADX, cpuid.FeatureNone,
		Class{Type: IntelCorei7, Subtype: IntelCorei7Broadwell}, Class{}},
	{cpuid.FeatureAVX2, cpuid.FeatureNone,
		Class{Type: IntelCorei7, Subtype: IntelCorei7Haswell}, Class{}},
	{cpuid.FeatureAVX, cpuid.FeatureNone,
		Class{Type: IntelCorei7, Subtype: IntelCorei7Sandybridge}, Class{}},
	{cpuid.FeatureSSE42, cpuid.FeatureMOVBE,
		Class{Type: IntelSilvermont},
		Class{Type: IntelCorei7, Subtype: IntelCorei7Nehalem}},
	{cpuid.FeatureSSE41, cpuid.FeatureNone,
		Class{Type: IntelCore2, Subtype: IntelCore245}, Class{}},
	{cpuid.FeatureSSSE3, cpuid.FeatureMOVBE,
		Class{Type: IntelBonnell},
		Class{Type: IntelCore2, Subtype: IntelCore265}},
	{cpuid.FeatureEM64T, cpuid.FeatureNone,
		Class{Type: IntelX8664}, Class{}},
	{cpuid.FeatureSSE2, cpuid.FeatureNone,
		Class{Type: IntelPentiumM}, Class{}},
	{cpuid.FeatureSSE, cpuid.FeatureNone,
		Class{Type: IntelPentiumIII}, Class{}},
	{cpuid.FeatureMMX, cpuid.FeatureNone,
		Class{Type: IntelPentiumII}, Class{}},
}

func runCascade(rules []cascadeRule, feats cpuid.Masks, fallback Class) Class {
	for _, r := range rules {
		if !feats.Has(r.when) {
			continue
		}
		if r.refine == cpuid.FeatureNone || feats.Has(r.refine) {
			return r.hit
		}
		return r.miss
	}
	return fallback
}

// ClassifyIntel maps an Intel family/model pair to its class. A nonzero
// brand id means the CPU encodes its identity in the brand string instead,
// so the family/model tables do not apply.
func ClassifyIntel(family, model, brandID uint32, feats cpuid.Masks) Class {
	if brandID != 0 {
		return Class{}
	}
	switch family {
	case 3:
		return Class{Type: Inteli386}
	case 4:
		// Intel486 DX/SX/SL, Intel487, IntelDX2/DX4 all share one class.
		return Class{Type: Inteli486}
	case 5:
		if model == 4 {
			// Pentium with MMX technology.
			return Class{Type: IntelPentium, Subtype: IntelPentiumMMX}
		}
		return Class{Type: IntelPentium}
	case 6:
		if class, ok := lookupModel(intelFamily6Models, model); ok {
			return class
		}
		// Unknown family-6 model: guess from the feature set.
		return runCascade(intelFamily6Cascade, feats, Class{Type: IntelPentiumPro})
	case 15:
		em64t := feats.Has(cpuid.FeatureEM64T)
		switch model {
		case 0, 1, 2: // Pentium 4 (0.18 and 0.13 micron)
			if em64t {
				return Class{Type: IntelX8664}
			}
			return Class{Type: IntelPentiumIV}
		case 3, 4, 6: // Prescott and derivatives (90 and 65 nm)
			if em64t {
				return Class{Type: IntelNocona}
			}
			return Class{Type: IntelPrescott}
		default:
			if em64t {
				return Class{Type: IntelX8664}
			}
			return Class{Type: IntelPentiumIV}
		}
	}
	return Class{}
}

// amdFamily5Models distinguishes the K6 generations.
var amdFamily5Models = []modelSpan{
	{6, 7, Class{Type: AMDPentium, Subtype: AMDPentiumK6}},      // K6
	{8, 8, Class{Type: AMDPentium, Subtype: AMDPentiumK62}},     // K6-2
	{9, 9, Class{Type: AMDPentium, Subtype: AMDPentiumK63}},     // K6-III
	{10, 10, Class{Type: AMDPentium, Subtype: AMDPentiumGeode}}, // Geode
	{13, 13, Class{Type: AMDPentium, Subtype: AMDPentiumK63}},   // K6-2+ / K6-III+
}

// amdFamily16Models maps family 10h models to their generation.
var amdFamily16Models = []modelSpan{
	{2, 2, Class{Type: AMDFam10h, Subtype: AMDFam10hBarcelona}}, // Barcelona
	{4, 4, Class{Type: AMDFam10h, Subtype: AMDFam10hShanghai}},  // Shanghai
	{8, 8, Class{Type: AMDFam10h, Subtype: AMDFam10hIstanbul}},  // Istanbul
}

// amdFamily21Models maps the family 15h model ranges to the four Bulldozer
// generations. Ranges are disjoint by construction.
var amdFamily21Models = []modelSpan{
	{0x00, 0x0f, Class{Type: AMDFam15h, Subtype: AMDFam15hBdver1}}, // Bulldozer
	{0x10, 0x1f, Class{Type: AMDFam15h, Subtype: AMDFam15hBdver2}}, // Piledriver
	{0x30, 0x3f, Class{Type: AMDFam15h, Subtype: AMDFam15hBdver3}}, // Steamroller
	{0x60, 0x7f, Class{Type: AMDFam15h, Subtype: AMDFam15hBdver4}}, // Excavator
}

// ClassifyAMD maps an AMD family/model pair to its class.
func ClassifyAMD(family, model uint32, feats cpuid.Masks) Class {
	switch family {
	case 4:
		return Class{Type: AMDi486}
	case 5:
		if class, ok := lookupModel(amdFamily5Models, model); ok {
			return class
		}
		return Class{Type: AMDPentium}
	case 6:
		if feats.Has(cpuid.FeatureSSE) {
			return Class{Type: AMDAthlon, Subtype: AMDAthlonXP}
		}
		return Class{Type: AMDAthlon, Subtype: AMDAthlonClassic}
	case 15:
		if feats.Has(cpuid.FeatureSSE3) {
			return Class{Type: AMDAthlon, Subtype: AMDAthlonK8SSE3}
		}
		return Class{Type: AMDAthlon, Subtype: AMDAthlonK8}
	case 16:
		if class, ok := lookupModel(amdFamily16Models, model); ok {
			return class
		}
		return Class{Type: AMDFam10h}
	case 20:
		return Class{Type: AMDBtver1}
	case 21:
		if class, ok := lookupModel(amdFamily21Models, model); ok {
			return class
		}
		return Class{Type: AMDFam15h}
	case 22:
		return Class{Type: AMDBtver2}
	case 23:
		return Class{Type: AMDFam17h, Subtype: AMDFam17hZnver1}
	}
	return Class{}
}

// Generic is the universal fallback name.
const Generic = "generic"

// nameEntry resolves one Type to its canonical name. Types whose name
// depends on the generation carry a subtype table; strict entries treat an
// unlisted subtype as table drift rather than recoverable data.
type nameEntry struct {
	name     string
	subtypes map[Subtype]string
	strict   bool
}

var intelNames = map[Type]nameEntry{
	Inteli386:       {name: "i386"},
	Inteli486:       {name: "i486"},
	IntelPentium:    {name: "pentium", subtypes: map[Subtype]string{IntelPentiumMMX: "pentium-mmx"}},
	IntelPentiumPro: {name: "pentiumpro"},
	IntelPentiumII:  {name: "pentium2"},
	IntelPentiumIII: {name: "pentium3"},
	IntelPentiumIV:  {name: "pentium4"},
	IntelPentiumM:   {name: "pentium-m"},
	IntelCoreDuo:    {name: "yonah"},
	IntelCore2: {strict: true, subtypes: map[Subtype]string{
		IntelCore265: "core2",
		IntelCore245: "penryn",
	}},
	IntelCorei7: {strict: true, subtypes: map[Subtype]string{
		IntelCorei7Nehalem:       "nehalem",
		IntelCorei7Westmere:      "westmere",
		IntelCorei7Sandybridge:   "sandybridge",
		IntelCorei7Ivybridge:     "ivybridge",
		IntelCorei7Haswell:       "haswell",
		IntelCorei7Broadwell:     "broadwell",
		IntelCorei7Skylake:       "skylake",
		IntelCorei7SkylakeAVX512: "skylake-avx512",
	}},
	IntelBonnell:    {name: "bonnell"},
	IntelSilvermont: {name: "silvermont"},
	IntelGoldmont:   {name: "goldmont"},
	IntelKNL:        {name: "knl"},
	IntelX8664:      {name: "x86-64"},
	IntelNocona:     {name: "nocona"},
	IntelPrescott:   {name: "prescott"},
}

var amdNames = map[Type]nameEntry{
	AMDi486: {name: "i486"},
	AMDPentium: {name: "pentium", subtypes: map[Subtype]string{
		AMDPentiumK6:    "k6",
		AMDPentiumK62:   "k6-2",
		AMDPentiumK63:   "k6-3",
		AMDPentiumGeode: "geode",
	}},
	AMDAthlon: {strict: true, subtypes: map[Subtype]string{
		AMDAthlonClassic: "athlon",
		AMDAthlonXP:      "athlon-xp",
		AMDAthlonK8:      "k8",
		AMDAthlonK8SSE3:  "k8-sse3",
	}},
	AMDFam10h: {name: "amdfam10"},
	AMDBtver1: {name: "btver1"},
	// Subtype detection has gaps; unmatched models resolve to the first
	// generation.
	AMDFam15h: {name: "bdver1", subtypes: map[Subtype]string{
		AMDFam15hBdver1: "bdver1",
		AMDFam15hBdver2: "bdver2",
		AMDFam15hBdver3: "bdver3",
		AMDFam15hBdver4: "bdver4",
	}},
	AMDBtver2: {name: "btver2"},
	AMDFam17h: {name: "znver1"},
}

func resolve(names map[Type]nameEntry, class Class) string {
	entry, ok := names[class.Type]
	if !ok {
		return Generic
	}
	if entry.subtypes != nil {
		if name, ok := entry.subtypes[class.Subtype]; ok {
			return name
		}
		if entry.strict {
			// The classifier produced a subtype the resolver does not
			// know. The two tables have drifted apart; there is no valid
			// answer to degrade to.
			panic(fmt.Sprintf("cpus: no name for type %d subtype %d, classifier and name tables out of sync", class.Type, class.Subtype))
		}
	}
	return entry.name
}

// Name resolves a classified CPU to its canonical microarchitecture name.
// Anything the classifier left unset resolves to "generic".
func Name(vendor cpuid.Vendor, class Class) string {
	switch vendor {
	case cpuid.VendorIntel:
		return resolve(intelNames, class)
	case cpuid.VendorAMD:
		return resolve(amdNames, class)
	}
	return Generic
}
