// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package sys binds the native libktx (KTX-Software) library with cgo and
// registers itself as the active binding of the parent ktx package on import:
//
//	import _ "github.com/gogpu/ktx/sys"
//
// Nothing else is needed; after the blank import the ktx package's OpenFile,
// OpenMemory, OpenStream and NewTexture go through the native library.
//
// # Build modes
//
// By default the package builds the real binding. It needs CGO and the libktx
// development files, located via `pkg-config ktx`.
//
// With CGO_ENABLED=0, or when building with
//
//	-tags ktx_nonative
//
// the package compiles to a stub that registers nothing. The ktx package then
// fails every native operation with a LibraryNotLinked error, which keeps
// pure-Go builds (and tests using mock bindings) working on machines without
// libktx installed.
package sys
