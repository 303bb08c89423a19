// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package upload

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/ktx"
)

// Vulkan format values as stored in a KTX2 container (VkFormat).
const (
	vkFormatR8Unorm        = 9
	vkFormatRGBA8Unorm     = 37
	vkFormatRGBA8Srgb      = 43
	vkFormatBGRA8Unorm     = 44
	vkFormatBGRA8Srgb      = 50
	vkFormatR32Float       = 100
	vkFormatRG32Float      = 103
	vkFormatRGBA32Float    = 109
	vkFormatD24UnormS8Uint = 129
)

// FormatFor maps the pixel format of a KTX2 texture to the wgpu texture
// format. Formats outside the supported uncompressed set (including all
// block-compressed formats) return an error; transcode to RGBA32 first or
// upload through engine-specific paths.
func FormatFor(vkFormat uint32) (gputypes.TextureFormat, error) {
	switch vkFormat {
	case vkFormatR8Unorm:
		return gputypes.TextureFormatR8Unorm, nil
	case vkFormatRGBA8Unorm:
		return gputypes.TextureFormatRGBA8Unorm, nil
	case vkFormatRGBA8Srgb:
		return gputypes.TextureFormatRGBA8UnormSrgb, nil
	case vkFormatBGRA8Unorm:
		return gputypes.TextureFormatBGRA8Unorm, nil
	case vkFormatBGRA8Srgb:
		return gputypes.TextureFormatBGRA8UnormSrgb, nil
	case vkFormatR32Float:
		return gputypes.TextureFormatR32Float, nil
	case vkFormatRG32Float:
		return gputypes.TextureFormatRG32Float, nil
	case vkFormatRGBA32Float:
		return gputypes.TextureFormatRGBA32Float, nil
	case vkFormatD24UnormS8Uint:
		return gputypes.TextureFormatDepth24PlusStencil8, nil
	default:
		return gputypes.TextureFormatUndefined,
			fmt.Errorf("upload: no wgpu format for VkFormat %d", vkFormat)
	}
}

// bytesPerTexel returns the texel size for supported uncompressed formats.
func bytesPerTexel(f gputypes.TextureFormat) uint32 {
	switch f {
	case gputypes.TextureFormatR8Unorm:
		return 1
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA8UnormSrgb,
		gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatBGRA8UnormSrgb,
		gputypes.TextureFormatR32Float, gputypes.TextureFormatDepth24PlusStencil8:
		return 4
	case gputypes.TextureFormatRG32Float:
		return 8
	case gputypes.TextureFormatRGBA32Float:
		return 16
	default:
		return 0
	}
}

// formatForTexture resolves the upload format of a texture: the VkFormat of
// a KTX2 container, or a GL-based lookup for KTX1.
func formatForTexture(t *ktx.Texture) (gputypes.TextureFormat, error) {
	if k2, ok := t.KTX2(); ok {
		if k2.NeedsTranscoding() {
			return gputypes.TextureFormatUndefined, ErrNeedsTranscode
		}
		return FormatFor(k2.VkFormat())
	}
	if k1, ok := t.KTX1(); ok {
		return formatForGL(k1.GLInternalFormat())
	}
	return gputypes.TextureFormatUndefined, fmt.Errorf("upload: destroyed or unknown texture")
}

// OpenGL internalformats for the KTX1 path.
const (
	glR8          = 0x8229
	glRGBA8       = 0x8058
	glSRGB8Alpha8 = 0x8C43
	glR32F        = 0x822E
	glRG32F       = 0x8230
	glRGBA32F     = 0x8814
)

func formatForGL(internalFormat uint32) (gputypes.TextureFormat, error) {
	switch internalFormat {
	case glR8:
		return gputypes.TextureFormatR8Unorm, nil
	case glRGBA8:
		return gputypes.TextureFormatRGBA8Unorm, nil
	case glSRGB8Alpha8:
		return gputypes.TextureFormatRGBA8UnormSrgb, nil
	case glR32F:
		return gputypes.TextureFormatR32Float, nil
	case glRG32F:
		return gputypes.TextureFormatRG32Float, nil
	case glRGBA32F:
		return gputypes.TextureFormatRGBA32Float, nil
	default:
		return gputypes.TextureFormatUndefined,
			fmt.Errorf("upload: no wgpu format for GL internalformat %#x", internalFormat)
	}
}
