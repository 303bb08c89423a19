// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !cgo || ktx_nonative

package sys

// Enabled reports whether the native binding is compiled into this build.
// In this mode no binding is registered and native operations in the ktx
// package fail with LibraryNotLinked.
func Enabled() bool { return false }
