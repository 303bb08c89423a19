// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package imageutil converts between image.Image and KTX texture level data.
//
// FromImage builds a KTX2 texture from a decoded image, optionally with a
// CPU-generated mip chain. ToImage extracts a level back into an image.RGBA.
// All conversion happens in 8-bit RGBA; color-managed or float pipelines
// should prepare level data themselves and use SetImageFromMemory directly.
package imageutil

import (
	"fmt"
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/ktx"
)

// Vulkan formats produced by FromImage.
const (
	vkFormatRGBA8Unorm = 37
	vkFormatRGBA8Srgb  = 43
)

// FromImageOptions tune FromImage.
type FromImageOptions struct {
	// SRGB marks the texture as sRGB-encoded (VK_FORMAT_R8G8B8A8_SRGB
	// instead of UNORM).
	SRGB bool

	// GenerateMipmaps builds the full mip chain down to 1x1 by repeated
	// CatmullRom downscaling.
	GenerateMipmaps bool
}

// FromImage creates a KTX2 texture holding img as 8-bit RGBA. With
// GenerateMipmaps set, every mip level down to 1x1 is generated on the CPU.
//
// The caller owns the returned texture and must call Destroy.
func FromImage(img image.Image, opts FromImageOptions) (*ktx.Texture, error) {
	if img == nil {
		return nil, fmt.Errorf("imageutil: image is nil")
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("imageutil: empty image %dx%d", width, height)
	}

	levels := uint32(1)
	if opts.GenerateMipmaps {
		levels = ktx.MaxLevels(uint32(width), uint32(height), 1)
	}
	vkFormat := uint32(vkFormatRGBA8Unorm)
	if opts.SRGB {
		vkFormat = vkFormatRGBA8Srgb
	}

	tex, err := ktx.NewTexture(&ktx.KTX2CreateInfo{
		CommonCreateInfo: ktx.CommonCreateInfo{
			BaseWidth:     uint32(width),
			BaseHeight:    uint32(height),
			BaseDepth:     1,
			NumDimensions: 2,
			NumLevels:     levels,
			NumLayers:     1,
			NumFaces:      1,
		},
		VkFormat: vkFormat,
	}, ktx.AllocStorage)
	if err != nil {
		return nil, err
	}

	base := toRGBA(img)
	if err := tex.SetImageFromMemory(0, 0, 0, base.Pix); err != nil {
		tex.Destroy()
		return nil, err
	}

	prev := base
	for level := uint32(1); level < levels; level++ {
		w, h, _ := tex.LevelDimensions(level)
		mip := scaleRGBA(prev, int(w), int(h))
		if err := tex.SetImageFromMemory(level, 0, 0, mip.Pix); err != nil {
			tex.Destroy()
			return nil, err
		}
		prev = mip
	}
	return tex, nil
}

// ToImage extracts one mip level of an 8-bit RGBA texture into an image.RGBA.
// The pixel data is copied; the image stays valid after the texture is
// destroyed.
func ToImage(tex *ktx.Texture, level uint32) (*image.RGBA, error) {
	k2, ok := tex.KTX2()
	if !ok {
		return nil, fmt.Errorf("imageutil: not a live KTX2 texture")
	}
	switch k2.VkFormat() {
	case vkFormatRGBA8Unorm, vkFormatRGBA8Srgb:
	default:
		return nil, fmt.Errorf("imageutil: unsupported VkFormat %d, want RGBA8", k2.VkFormat())
	}

	pixels, err := tex.Image(level, 0, 0)
	if err != nil {
		return nil, err
	}
	w, h, _ := tex.LevelDimensions(level)
	if uint64(len(pixels)) != uint64(w)*uint64(h)*4 {
		return nil, fmt.Errorf("imageutil: level %d has %d bytes, want %d", level, len(pixels), w*h*4)
	}

	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	copy(img.Pix, pixels)
	return img, nil
}

// toRGBA returns img as an *image.RGBA with origin-anchored bounds, copying
// only when the representation does not already match.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return dst
}

// scaleRGBA downscales src to w x h with high-quality resampling.
func scaleRGBA(src *image.RGBA, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}
