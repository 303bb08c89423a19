// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ktx

// CreateFlags control how much of a container is materialized when a texture
// is created from a file, memory or stream.
type CreateFlags uint32

const (
	// CreateFlagLoadImageData loads the image data eagerly at create time.
	// Without it, call Texture.LoadImageData before touching pixel data.
	CreateFlagLoadImageData CreateFlags = 1 << iota

	// CreateFlagRawKVData keeps the key/value data block in raw serialized
	// form instead of deserializing it.
	CreateFlagRawKVData

	// CreateFlagSkipKVData skips the key/value data block entirely.
	CreateFlagSkipKVData
)

// StorageAllocation selects whether NewTexture allocates backing storage for
// image data up front.
type StorageAllocation uint32

const (
	// NoStorage creates the texture without image storage. Image data is
	// supplied later, level by level, or generated by the native library.
	NoStorage StorageAllocation = iota

	// AllocStorage allocates zero-filled storage for every image at create
	// time, ready for SetImageFromMemory.
	AllocStorage
)

// CommonCreateInfo holds the geometry shared by KTX1 and KTX2 creation.
//
// The native library validates the combination: dimensions must agree with
// NumDimensions, cubemaps need NumFaces 6 and square base dimensions, array
// textures need NumLayers >= 1, and NumLevels must fit the base dimensions.
// Violations surface as InvalidValue or UnsupportedTextureType.
type CommonCreateInfo struct {
	BaseWidth  uint32
	BaseHeight uint32
	BaseDepth  uint32

	// NumDimensions is 1, 2 or 3.
	NumDimensions uint32

	// NumLevels is the number of mip levels, >= 1. Use MaxLevels to compute
	// a full mip chain.
	NumLevels uint32

	// NumLayers is the number of array layers, >= 1.
	NumLayers uint32

	// NumFaces is 6 for cubemaps, 1 otherwise.
	NumFaces uint32

	IsArray         bool
	GenerateMipmaps bool
}

// KTX1CreateInfo describes a fresh KTX1 texture. The GL enums identify the
// pixel format the way the KTX1 container stores it.
type KTX1CreateInfo struct {
	CommonCreateInfo

	// GLInternalFormat is the OpenGL internalformat, e.g. GL_RGBA8.
	GLInternalFormat uint32
}

// KTX2CreateInfo describes a fresh KTX2 texture identified by Vulkan format.
type KTX2CreateInfo struct {
	CommonCreateInfo

	// VkFormat is the VkFormat value, e.g. VK_FORMAT_R8G8B8A8_UNORM (37).
	VkFormat uint32
}

// MaxLevels returns the number of levels in a full mip chain down to 1x1 for
// the largest of the given dimensions. Zero dimensions count as 1.
func MaxLevels(width, height, depth uint32) uint32 {
	max := width
	if height > max {
		max = height
	}
	if depth > max {
		max = depth
	}
	levels := uint32(1)
	for max > 1 {
		max >>= 1
		levels++
	}
	return levels
}

// NewTexture creates a fresh KTX1 or KTX2 texture from a create info, which
// must be *KTX1CreateInfo or *KTX2CreateInfo. With AllocStorage the texture
// gets zero-filled image storage, ready for SetImageFromMemory; with
// NoStorage image data is attached later.
//
// The returned texture owns a native object; call Destroy when done.
func NewTexture(info any, storage StorageAllocation) (*Texture, error) {
	b, err := binding("NewTexture")
	if err != nil {
		return nil, err
	}

	var (
		handle TextureHandle
		code   Code
	)
	switch ci := info.(type) {
	case *KTX1CreateInfo:
		handle, code = b.CreateKTX1(ci, storage)
	case *KTX2CreateInfo:
		handle, code = b.CreateKTX2(ci, storage)
	default:
		return nil, &Error{Op: "NewTexture", Code: InvalidValue}
	}
	if code != Success {
		return nil, &Error{Op: "NewTexture", Code: code}
	}
	Logger().Debug("ktx: texture created",
		"class", handle.Class().String(),
		"width", handle.BaseWidth(),
		"height", handle.BaseHeight(),
		"levels", handle.NumLevels())
	return newTexture(handle, nil), nil
}
