//go:build linux && amd64

package hostcpu

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// bpfProgLoadAttr mirrors the bpf(2) BPF_PROG_LOAD attribute layout.
type bpfProgLoadAttr struct {
	progType    uint32
	insnCnt     uint32
	insns       uint64
	license     uint64
	logLevel    uint32
	logSize     uint32
	logBuf      uint64
	kernVersion uint32
	progFlags   uint32
}

// hostCPUNameForBPF probes which BPF instruction-set generation the kernel
// verifier accepts by loading a socket-filter program that uses a
// second-generation jump (BPF_JLT).
func hostCPUNameForBPF() string {
	insns := [5]uint64{
		0x00000000000000b7, // mov64 r0, 0
		0x00000001000002b7, // mov64 r2, 1
		0x00000000000120ad, // jlt r0, r2, +1
		0x00000001000000b7, // mov64 r0, 1
		0x0000000000000095, // exit
	}
	license := []byte("DUMMY\x00")
	attr := bpfProgLoadAttr{
		progType: 1, // BPF_PROG_TYPE_SOCKET_FILTER
		insnCnt:  uint32(len(insns)),
		insns:    uint64(uintptr(unsafe.Pointer(&insns[0]))),
		license:  uint64(uintptr(unsafe.Pointer(&license[0]))),
	}
	fd, _, errno := unix.Syscall(unix.SYS_BPF, 5, /* BPF_PROG_LOAD */
		uintptr(unsafe.Pointer(&attr)), unsafe.Sizeof(attr))
	if errno == 0 {
		_ = unix.Close(int(fd))
		return "v2"
	}
	return "v1"
}
