// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package upload

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/ktx"
)

// ErrNotRGBA8 is returned by RGBA8ToContext for textures whose pixel format
// is not 8-bit RGBA.
var ErrNotRGBA8 = fmt.Errorf("upload: texture is not RGBA8")

// RGBA8ToContext creates a GPU texture from the base level of an RGBA8
// texture through a gpucontext.TextureCreator, the integration surface
// application frameworks expose. The returned value is the framework's
// texture object, opaque to this package.
//
// Only 8-bit RGBA textures qualify; anything else is rejected with
// ErrNotRGBA8. For other formats, full mip chains or explicit usage flags,
// use Uploader.
func RGBA8ToContext(creator gpucontext.TextureCreator, src *ktx.Texture) (any, error) {
	if creator == nil {
		return nil, fmt.Errorf("upload: texture creator is nil")
	}
	format, err := formatForTexture(src)
	if err != nil {
		return nil, err
	}
	if format != gputypes.TextureFormatRGBA8Unorm && format != gputypes.TextureFormatRGBA8UnormSrgb {
		return nil, fmt.Errorf("%w (format %v)", ErrNotRGBA8, format)
	}

	pixels, err := src.Image(0, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("upload: base level: %w", err)
	}
	tex, err := creator.NewTextureFromRGBA(int(src.BaseWidth()), int(src.BaseHeight()), pixels)
	if err != nil {
		return nil, fmt.Errorf("upload: NewTextureFromRGBA: %w", err)
	}
	return tex, nil
}
