// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ktx

// LevelImage describes one image surfaced by IterateLevels.
type LevelImage struct {
	// Level is the mip level, 0 being the base.
	Level int32

	// Face is the cubemap face index in [0, 5], 0 for non-cubemaps.
	Face int32

	// Width, Height and Depth are the level dimensions in texels.
	Width  int32
	Height int32
	Depth  int32

	// Pixels borrows native memory and is valid only for the duration of
	// the visit.
	Pixels []byte
}

// LoadImageData loads the image data for a texture created without
// CreateFlagLoadImageData. Loading twice fails with InvalidOperation.
func (t *Texture) LoadImageData() error {
	h, err := t.h("LoadImageData")
	if err != nil {
		return err
	}
	return errFromCode("LoadImageData", h.LoadImageData())
}

// ImageOffset returns the byte offset into Data for the image at the given
// mip level, array layer and face (cubemaps) or depth slice (3D textures).
// Out-of-range indices fail with InvalidOperation.
func (t *Texture) ImageOffset(level, layer, faceSlice uint32) (uint64, error) {
	h, err := t.h("ImageOffset")
	if err != nil {
		return 0, err
	}
	off, code := h.ImageOffset(level, layer, faceSlice)
	return off, errFromCode("ImageOffset", code)
}

// ImageSize returns the byte size of a single image at the given mip level.
func (t *Texture) ImageSize(level uint32) (uint64, error) {
	h, err := t.h("ImageSize")
	if err != nil {
		return 0, err
	}
	n, code := h.ImageSize(level)
	return n, errFromCode("ImageSize", code)
}

// Image returns the data of one image as a view into Data. The slice borrows
// native memory; see Data for the lifetime rules.
func (t *Texture) Image(level, layer, faceSlice uint32) ([]byte, error) {
	h, err := t.h("Image")
	if err != nil {
		return nil, err
	}
	data := h.Data()
	if data == nil {
		return nil, &Error{Op: "Image", Code: InvalidValue}
	}
	off, code := h.ImageOffset(level, layer, faceSlice)
	if code != Success {
		return nil, &Error{Op: "Image", Code: code}
	}
	size, code := h.ImageSize(level)
	if code != Success {
		return nil, &Error{Op: "Image", Code: code}
	}
	if off+size > uint64(len(data)) {
		return nil, &Error{Op: "Image", Code: InvalidValue}
	}
	return data[off : off+size], nil
}

// IterateLevels walks all mip levels (and cubemap faces) of the texture,
// calling visit once per image. Returning an error from visit aborts the walk
// and propagates the error; native errors from visit keep their code, other
// errors surface as InvalidValue.
//
// Image data must be loaded.
func (t *Texture) IterateLevels(visit func(img LevelImage) error) error {
	h, err := t.h("IterateLevels")
	if err != nil {
		return err
	}
	var visitErr error
	code := h.IterateLevels(func(level, face, width, height, depth int32, pixels []byte) Code {
		err := visit(LevelImage{
			Level:  level,
			Face:   face,
			Width:  width,
			Height: height,
			Depth:  depth,
			Pixels: pixels,
		})
		if err == nil {
			return Success
		}
		visitErr = err
		if c, ok := CodeOf(err); ok {
			return c
		}
		return InvalidValue
	})
	if visitErr != nil {
		return visitErr
	}
	return errFromCode("IterateLevels", code)
}

// LevelInfo describes the placement of one mip level inside Data.
type LevelInfo struct {
	// Level is the mip level, 0 being the base.
	Level uint32

	// Width, Height and Depth are the level dimensions in texels.
	Width  uint32
	Height uint32
	Depth  uint32

	// Offset is the byte offset of the level's first image into Data.
	Offset uint64

	// Size is the byte size of a single image at this level.
	Size uint64
}

// Levels returns a descriptor for every mip level, computed from the native
// offsets. Unlike IterateLevels it does not require loaded image data and the
// result can be walked any number of times.
func (t *Texture) Levels() ([]LevelInfo, error) {
	h, err := t.h("Levels")
	if err != nil {
		return nil, err
	}
	n := h.NumLevels()
	infos := make([]LevelInfo, 0, n)
	for level := uint32(0); level < n; level++ {
		off, code := h.ImageOffset(level, 0, 0)
		if code != Success {
			return nil, &Error{Op: "Levels", Code: code}
		}
		size, code := h.ImageSize(level)
		if code != Success {
			return nil, &Error{Op: "Levels", Code: code}
		}
		w, hh, d := t.LevelDimensions(level)
		infos = append(infos, LevelInfo{
			Level:  level,
			Width:  w,
			Height: hh,
			Depth:  d,
			Offset: off,
			Size:   size,
		})
	}
	return infos, nil
}

// LevelDimensions returns the texel dimensions of the given mip level,
// computed from the base dimensions. Dimensions never drop below 1.
func (t *Texture) LevelDimensions(level uint32) (width, height, depth uint32) {
	mip := func(base uint32) uint32 {
		v := base >> level
		if v < 1 {
			return 1
		}
		return v
	}
	return mip(t.BaseWidth()), mip(t.BaseHeight()), mip(t.BaseDepth())
}
