// Package ktx provides a safe Go wrapper over the native KTX texture library
// (KhronosGroup/KTX-Software).
//
// # Overview
//
// ktx reads, writes and transcodes textures in the Khronos KTX1 and KTX2
// container formats. All format parsing, mip-chain layout, Basis Universal
// transcoding and GPU compression codecs live in the native libktx library;
// this package owns the handles, bridges byte streams across the call
// boundary, and translates native status codes into structured errors.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/ktx"
//	    _ "github.com/gogpu/ktx/sys" // link the native libktx binding
//	)
//
//	tex, err := ktx.OpenFile("albedo.ktx2", ktx.CreateFlagLoadImageData)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tex.Destroy()
//
//	if k2, ok := tex.KTX2(); ok && k2.NeedsTranscoding() {
//	    if err := k2.TranscodeBasis(ktx.TranscodeBC7RGBA, 0); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Architecture
//
// The native boundary is pluggable. The root package defines the Binding and
// TextureHandle interfaces; the sys subpackage implements them with cgo and
// registers itself on import. Without a registered binding every operation
// fails with the LibraryNotLinked code. Tests substitute mock bindings, so the
// wrapper's ownership and error semantics are verified without the native
// library installed.
//
// The library is organized into:
//   - Public API: Texture, Stream, Code/Error, create/open/write/transcode
//   - sys: raw cgo binding over libktx and the ktxStream callback table
//   - upload: GPU upload of mip chains via gogpu/wgpu
//   - imageutil: building level data from image.Image sources
//   - cache: content-addressed cache for transcoded level data
//
// # Ownership
//
// A Texture owns exactly one native handle. Destroy releases it exactly once
// and is safe to call multiple times. Byte slices returned by Data and level
// iteration borrow native memory and must not be retained after the owning
// Texture is destroyed.
//
// # Concurrency
//
// The native library is not thread-safe per handle. A Texture may be moved
// between goroutines, but concurrent calls on the same Texture require
// external synchronization. Independent Textures are independent.
package ktx

// Version information
const (
	// Version is the current version of the library
	Version = "0.2.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 2

	// VersionPatch is the patch version
	VersionPatch = 0
)
