// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build cgo && !ktx_nonative

package sys

/*
#include "shim.h"
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"

	"github.com/gogpu/ktx"
)

// The callbacks below are installed into a ktxStream by gogpuStreamInit. The
// custom_ptr slot carries a cgo.Handle to the Go-side object; nothing native
// ever dereferences it.

func streamOf(str *C.ktxStream) *ktx.Stream {
	h := cgo.Handle(uintptr(C.gogpuStreamHandle(str)))
	return h.Value().(*ktx.Stream)
}

//export goStreamRead
func goStreamRead(str *C.ktxStream, dst unsafe.Pointer, count C.ktx_size_t) C.KTX_error_code {
	if count == 0 {
		return C.KTX_SUCCESS
	}
	buf := unsafe.Slice((*byte)(dst), int(count))
	return C.KTX_error_code(streamOf(str).Read(buf))
}

//export goStreamSkip
func goStreamSkip(str *C.ktxStream, count C.ktx_size_t) C.KTX_error_code {
	return C.KTX_error_code(streamOf(str).Skip(int64(count)))
}

//export goStreamWrite
func goStreamWrite(str *C.ktxStream, src unsafe.Pointer, size, count C.ktx_size_t) C.KTX_error_code {
	n := int(size) * int(count)
	if n == 0 {
		return C.KTX_SUCCESS
	}
	buf := unsafe.Slice((*byte)(src), n)
	return C.KTX_error_code(streamOf(str).Write(buf))
}

//export goStreamGetPos
func goStreamGetPos(str *C.ktxStream, offset *C.ktx_off_t) C.KTX_error_code {
	pos, code := streamOf(str).Pos()
	if code != ktx.Success {
		return C.KTX_error_code(code)
	}
	*offset = C.ktx_off_t(pos)
	return C.KTX_SUCCESS
}

//export goStreamSetPos
func goStreamSetPos(str *C.ktxStream, offset C.ktx_off_t) C.KTX_error_code {
	return C.KTX_error_code(streamOf(str).SetPos(int64(offset)))
}

//export goStreamGetSize
func goStreamGetSize(str *C.ktxStream, size *C.ktx_size_t) C.KTX_error_code {
	n, code := streamOf(str).Size()
	if code != ktx.Success {
		return C.KTX_error_code(code)
	}
	*size = C.ktx_size_t(n)
	return C.KTX_SUCCESS
}

//export goIterateLevelFaces
func goIterateLevelFaces(miplevel, face, width, height, depth C.int,
	faceLodSize C.ktx_uint64_t, pixels, userdata unsafe.Pointer) C.KTX_error_code {
	h := cgo.Handle(uintptr(userdata))
	visit := h.Value().(ktx.LevelVisitor)

	var buf []byte
	if pixels != nil && faceLodSize > 0 {
		buf = unsafe.Slice((*byte)(pixels), int(faceLodSize))
	}
	return C.KTX_error_code(visit(int32(miplevel), int32(face),
		int32(width), int32(height), int32(depth), buf))
}
