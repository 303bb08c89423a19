// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ktx

import "sync"

// Binding is the native libktx boundary.
//
// The sys subpackage implements Binding with cgo and registers itself on
// import. Tests register mock bindings. The high-level API in this package
// talks to whichever binding is registered and never touches cgo itself.
type Binding interface {
	// Name returns the binding identifier (e.g. "libktx", "mock").
	Name() string

	// CreateFromNamedFile constructs a texture handle from a file on disk.
	CreateFromNamedFile(path string, flags CreateFlags) (TextureHandle, Code)

	// CreateFromMemory constructs a texture handle from an in-memory container.
	CreateFromMemory(data []byte, flags CreateFlags) (TextureHandle, Code)

	// CreateFromStream constructs a texture handle by reading s. The binding
	// may retain s for deferred image loading; the caller keeps s alive until
	// the handle is destroyed.
	CreateFromStream(s *Stream, flags CreateFlags) (TextureHandle, Code)

	// CreateKTX1 allocates a fresh KTX1 texture per info.
	CreateKTX1(info *KTX1CreateInfo, storage StorageAllocation) (TextureHandle, Code)

	// CreateKTX2 allocates a fresh KTX2 texture per info.
	CreateKTX2(info *KTX2CreateInfo, storage StorageAllocation) (TextureHandle, Code)
}

// TextureHandle is an owned native texture object. It mirrors the accessor
// and operation surface of ktxTexture; the wrapper's Texture type adds the
// destroy-exactly-once guarantee on top.
//
// Handles for KTX1 textures additionally implement KTX1Handle, and handles
// for KTX2 textures implement KTX2Handle.
type TextureHandle interface {
	// Class reports whether the handle is a KTX1 or KTX2 texture.
	Class() TextureClass

	// Destroy releases the native object. Called at most once by the wrapper.
	Destroy()

	// DataSize returns the total size of image data in bytes.
	DataSize() uint64

	// Data returns a view of the native image data buffer, or nil when no
	// data is loaded. The view borrows native memory.
	Data() []byte

	// DataSizeUncompressed returns the size the image data would have once
	// inflated from any supercompression.
	DataSizeUncompressed() (uint64, Code)

	// RowPitch returns the byte pitch of an image row at the given level.
	RowPitch(level uint32) uint32

	// ElementSize returns the size in bytes of one image element.
	ElementSize() uint32

	BaseWidth() uint32
	BaseHeight() uint32
	BaseDepth() uint32
	NumDimensions() uint32
	NumLevels() uint32
	NumLayers() uint32
	NumFaces() uint32
	IsArray() bool
	IsCubemap() bool
	IsCompressed() bool

	// Orientation returns the logical orientation in X, Y and Z.
	Orientation() Orientation

	// ImageOffset returns the byte offset into Data for the image at the
	// given mip level, array layer and face or depth slice.
	ImageOffset(level, layer, faceSlice uint32) (uint64, Code)

	// ImageSize returns the byte size of a single image at the given level.
	ImageSize(level uint32) (uint64, Code)

	// LoadImageData loads (or reloads) the image data into the native buffer.
	LoadImageData() Code

	// IterateLevels walks all mip levels (and cubemap faces), invoking visit
	// for each. A non-Success return from visit aborts the walk and is
	// propagated.
	IterateLevels(visit LevelVisitor) Code

	// SetImageFromMemory copies data into the storage for one image.
	SetImageFromMemory(level, layer, faceSlice uint32, data []byte) Code

	// WriteToNamedFile serializes the texture container to a file on disk.
	WriteToNamedFile(path string) Code

	// WriteToMemory serializes the texture container to a fresh byte slice
	// owned by the caller.
	WriteToMemory() ([]byte, Code)

	// WriteToStream serializes the texture container through s.
	WriteToStream(s *Stream) Code

	// FindMetadata looks up a key in the key/value data block.
	FindMetadata(key string) ([]byte, Code)

	// SetMetadata adds or replaces a key/value pair.
	SetMetadata(key string, value []byte) Code

	// DeleteMetadata removes a key/value pair.
	DeleteMetadata(key string) Code
}

// KTX1Handle is the KTX1-specific surface of a TextureHandle.
type KTX1Handle interface {
	GLFormat() uint32
	GLInternalFormat() uint32
	GLBaseInternalFormat() uint32
	GLType() uint32
	NeedsTranscoding() bool
}

// KTX2Handle is the KTX2-specific surface of a TextureHandle.
type KTX2Handle interface {
	VkFormat() uint32
	SupercompressionScheme() SupercompressionScheme
	NeedsTranscoding() bool
	TranscodeBasis(format TranscodeFormat, flags TranscodeFlags) Code
	CompressBasisEx(params *BasisParams) Code
	CompressAstcEx(params *AstcParams) Code
	DeflateZstd(level uint32) Code
	DeflateZLIB(level uint32) Code
	NumComponents() uint32
	ComponentInfo() (numComponents, componentByteLength uint32)
	OETF() uint32
	PremultipliedAlpha() bool
	IsVideo() bool
	Duration() uint32
	Timescale() uint32
	LoopCount() uint32
}

// LevelVisitor is invoked once per mip level (and per cubemap face) during
// IterateLevels. pixels borrows native memory and is valid only for the
// duration of the call.
type LevelVisitor func(miplevel, face int32, width, height, depth int32, pixels []byte) Code

// bindingMu guards the registered binding. A single binding is active at a
// time; sys registers the real one from init(), tests swap in doubles.
var (
	bindingMu     sync.RWMutex
	activeBinding Binding
)

// RegisterBinding installs b as the active native binding. Passing nil
// uninstalls the current binding. This is typically called from an init()
// function in a binding package.
func RegisterBinding(b Binding) {
	bindingMu.Lock()
	defer bindingMu.Unlock()
	activeBinding = b
}

// ActiveBinding returns the registered binding, or nil if none is linked.
func ActiveBinding() Binding {
	bindingMu.RLock()
	defer bindingMu.RUnlock()
	return activeBinding
}

// binding returns the registered binding or a LibraryNotLinked error.
func binding(op string) (Binding, error) {
	bindingMu.RLock()
	b := activeBinding
	bindingMu.RUnlock()
	if b == nil {
		return nil, &Error{Op: op, Code: LibraryNotLinked}
	}
	return b, nil
}
