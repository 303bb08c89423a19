// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package upload

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/ktx"
)

// Upload errors.
var (
	// ErrNeedsTranscode is returned when the texture still holds Basis
	// Universal intermediate data. Transcode it before uploading.
	ErrNeedsTranscode = errors.New("upload: texture needs transcoding to a GPU format first")

	// ErrNilDevice is returned when constructing an Uploader without a device.
	ErrNilDevice = errors.New("upload: device is nil")

	// ErrNilQueue is returned when constructing an Uploader without a queue.
	ErrNilQueue = errors.New("upload: queue is nil")

	// ErrGPUTextureDestroyed is returned when operating on a destroyed GPU texture.
	ErrGPUTextureDestroyed = errors.New("upload: GPU texture has been destroyed")

	// ErrUnsupportedLayout is returned for cubemap, array and 3D sources.
	// The uploader creates plain 2D textures; other layouts would collapse
	// their faces and slices onto a single image.
	ErrUnsupportedLayout = errors.New("upload: only non-array 2D textures are supported")
)

// Device is the subset of hal.Device the uploader needs.
type Device interface {
	CreateTexture(desc *hal.TextureDescriptor) (hal.Texture, error)
	DestroyTexture(texture hal.Texture)
}

// Queue is the subset of hal.Queue the uploader needs.
type Queue interface {
	WriteTexture(dst *hal.ImageCopyTexture, data []byte, layout *hal.ImageDataLayout, size *hal.Extent3D) error
}

// Uploader creates GPU textures from KTX containers and writes every mip
// level through the queue.
//
// Uploader is safe for concurrent use; it holds no mutable state.
type Uploader struct {
	device Device
	queue  Queue
}

// NewUploader returns an uploader writing through the given device and queue.
// hal.Device and hal.Queue satisfy the parameter interfaces directly.
func NewUploader(device Device, queue Queue) (*Uploader, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if queue == nil {
		return nil, ErrNilQueue
	}
	return &Uploader{device: device, queue: queue}, nil
}

// Options tune an upload.
type Options struct {
	// Label is the debug name for the GPU texture.
	Label string

	// Usage overrides the texture usage flags. Zero selects
	// CopyDst|TextureBinding.
	Usage gputypes.TextureUsage

	// BaseLevelOnly uploads only mip level 0 and creates a single-level
	// GPU texture.
	BaseLevelOnly bool
}

// Upload creates a GPU texture matching src and writes all its mip levels.
// src must hold loaded, GPU-consumable image data: textures that still need
// transcoding are rejected with ErrNeedsTranscode, cubemap, array and 3D
// sources with ErrUnsupportedLayout.
//
// The returned GPUTexture owns the hal texture; call Destroy when done. src
// is only read during the call and stays owned by the caller.
func (u *Uploader) Upload(src *ktx.Texture, opts Options) (*GPUTexture, error) {
	format, err := formatForTexture(src)
	if err != nil {
		return nil, err
	}
	if src.IsCubemap() || src.IsArray() || src.NumDimensions() != 2 {
		return nil, ErrUnsupportedLayout
	}

	if _, err := src.Data(); err != nil {
		return nil, fmt.Errorf("upload: image data not loaded: %w", err)
	}

	levels := src.NumLevels()
	if opts.BaseLevelOnly {
		levels = 1
	}
	usage := opts.Usage
	if usage == 0 {
		usage = gputypes.TextureUsageCopyDst | gputypes.TextureUsageTextureBinding
	}

	desc := &hal.TextureDescriptor{
		Label: opts.Label,
		Size: hal.Extent3D{
			Width:              src.BaseWidth(),
			Height:             src.BaseHeight(),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: levels,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	}
	raw, err := u.device.CreateTexture(desc)
	if err != nil {
		return nil, fmt.Errorf("upload: create texture: %w", err)
	}

	texel := bytesPerTexel(format)
	writeErr := src.IterateLevels(func(img ktx.LevelImage) error {
		if uint32(img.Level) >= levels {
			return nil
		}
		dst := &hal.ImageCopyTexture{
			Texture:  raw,
			MipLevel: uint32(img.Level),
			Origin:   hal.Origin3D{X: 0, Y: 0, Z: 0},
			Aspect:   gputypes.TextureAspectAll,
		}
		layout := &hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(img.Width) * texel,
			RowsPerImage: uint32(img.Height),
		}
		size := &hal.Extent3D{
			Width:              uint32(img.Width),
			Height:             uint32(img.Height),
			DepthOrArrayLayers: 1,
		}
		return u.queue.WriteTexture(dst, img.Pixels, layout, size)
	})
	if writeErr != nil {
		u.device.DestroyTexture(raw)
		return nil, fmt.Errorf("upload: write levels: %w", writeErr)
	}

	ktx.Logger().Debug("ktx: uploaded texture",
		"label", opts.Label,
		"width", src.BaseWidth(),
		"height", src.BaseHeight(),
		"levels", levels)

	return &GPUTexture{
		raw:    raw,
		device: u.device,
		width:  src.BaseWidth(),
		height: src.BaseHeight(),
		levels: levels,
		format: format,
	}, nil
}

// GPUTexture owns a hal texture created by Upload.
//
// Destroy is idempotent; accessors return zero values after destruction.
type GPUTexture struct {
	mu        sync.RWMutex
	raw       hal.Texture
	device    Device
	destroyed bool

	width  uint32
	height uint32
	levels uint32
	format gputypes.TextureFormat
}

// Raw returns the underlying hal texture, or nil after Destroy.
func (t *GPUTexture) Raw() hal.Texture {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.destroyed {
		return nil
	}
	return t.raw
}

// Width returns the base level width in texels.
func (t *GPUTexture) Width() uint32 { return t.width }

// Height returns the base level height in texels.
func (t *GPUTexture) Height() uint32 { return t.height }

// MipLevelCount returns the number of uploaded mip levels.
func (t *GPUTexture) MipLevelCount() uint32 { return t.levels }

// Format returns the GPU pixel format.
func (t *GPUTexture) Format() gputypes.TextureFormat { return t.format }

// Destroyed reports whether Destroy has been called.
func (t *GPUTexture) Destroyed() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.destroyed
}

// Destroy releases the hal texture. Only the first call has any effect.
func (t *GPUTexture) Destroy() {
	t.mu.Lock()
	if t.destroyed {
		t.mu.Unlock()
		return
	}
	t.destroyed = true
	raw := t.raw
	t.raw = nil
	t.mu.Unlock()

	if raw != nil {
		t.device.DestroyTexture(raw)
	}
}
