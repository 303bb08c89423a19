// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ktx

import "sync"

// TextureClass identifies the container format behind a texture handle.
type TextureClass int

const (
	// ClassUnknown is reported by handles of unknown provenance.
	ClassUnknown TextureClass = iota

	// ClassKTX1 identifies a KTX1 texture.
	ClassKTX1

	// ClassKTX2 identifies a KTX2 texture.
	ClassKTX2
)

// String returns "KTX1", "KTX2" or "unknown".
func (c TextureClass) String() string {
	switch c {
	case ClassKTX1:
		return "KTX1"
	case ClassKTX2:
		return "KTX2"
	default:
		return "unknown"
	}
}

// Orientation describes the logical orientation of a texture along each axis,
// using the character codes of the KTXorientation metadata key.
type Orientation struct {
	X OrientationX
	Y OrientationY
	Z OrientationZ
}

// OrientationX is the logical X direction of a texture.
type OrientationX byte

// OrientationY is the logical Y direction of a texture.
type OrientationY byte

// OrientationZ is the logical Z direction of a texture.
type OrientationZ byte

// Orientation character codes, as used in KTXorientation metadata.
const (
	OrientationXRight OrientationX = 'r'
	OrientationXLeft  OrientationX = 'l'

	OrientationYUp   OrientationY = 'u'
	OrientationYDown OrientationY = 'd'

	OrientationZOut OrientationZ = 'o'
	OrientationZIn  OrientationZ = 'i'
)

// Texture owns a native KTX texture object.
//
// Lifecycle:
//  1. Create via OpenFile, OpenMemory, OpenStream or NewTexture.
//  2. Query metadata, read or set level data, transcode, write.
//  3. Call Destroy when done. Destroy is idempotent; the native object is
//     released exactly once.
//
// Data views returned by Data and IterateLevels borrow native memory owned by
// the texture and are valid only until Destroy.
//
// Calling Destroy while another goroutine is inside an accessor is not safe:
// the destroyed flag is checked under the lock, but the native call that
// follows runs outside it. The caller must ensure no other call on the same
// Texture is in flight when destroying it; the native library is not
// thread-safe per handle either.
type Texture struct {
	// mu protects handle and destroyed.
	mu sync.RWMutex

	// handle is the owned native texture object.
	handle TextureHandle

	// source keeps the stream a texture was created from alive: the native
	// object retains it for deferred image loading.
	source *Stream

	// destroyed indicates whether the native object has been released.
	destroyed bool
}

// newTexture wraps a native handle. source may be nil for textures not
// created from a stream.
func newTexture(handle TextureHandle, source *Stream) *Texture {
	return &Texture{handle: handle, source: source}
}

// Destroy releases the native texture object and, if the texture was created
// from a stream, the stream. It is idempotent — only the first call has any
// effect — and the matching native destructor runs exactly once.
func (t *Texture) Destroy() {
	t.mu.Lock()
	if t.destroyed {
		t.mu.Unlock()
		return
	}
	t.destroyed = true
	handle := t.handle
	source := t.source
	t.handle = nil
	t.source = nil
	t.mu.Unlock()

	if handle != nil {
		handle.Destroy()
	}
	if source != nil {
		source.Destroy()
	}
}

// Destroyed reports whether Destroy has been called.
func (t *Texture) Destroyed() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.destroyed
}

// h returns the live handle, or ErrTextureDestroyed when the texture has
// been destroyed.
func (t *Texture) h(op string) (TextureHandle, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.destroyed {
		return nil, ErrTextureDestroyed
	}
	return t.handle, nil
}

// live returns the handle or nil after destruction. Used by the zero-value
// metadata accessors.
func (t *Texture) live() TextureHandle {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.destroyed {
		return nil
	}
	return t.handle
}

// Class reports whether this is a KTX1 or KTX2 texture.
func (t *Texture) Class() TextureClass {
	h := t.live()
	if h == nil {
		return ClassUnknown
	}
	return h.Class()
}

// BaseWidth returns the width in texels of the base level, or 0 after Destroy.
func (t *Texture) BaseWidth() uint32 {
	if h := t.live(); h != nil {
		return h.BaseWidth()
	}
	return 0
}

// BaseHeight returns the height in texels of the base level, or 0 after Destroy.
func (t *Texture) BaseHeight() uint32 {
	if h := t.live(); h != nil {
		return h.BaseHeight()
	}
	return 0
}

// BaseDepth returns the depth in texels of the base level, or 0 after Destroy.
func (t *Texture) BaseDepth() uint32 {
	if h := t.live(); h != nil {
		return h.BaseDepth()
	}
	return 0
}

// NumDimensions returns the number of dimensions (1, 2 or 3).
func (t *Texture) NumDimensions() uint32 {
	if h := t.live(); h != nil {
		return h.NumDimensions()
	}
	return 0
}

// NumLevels returns the number of mip levels.
func (t *Texture) NumLevels() uint32 {
	if h := t.live(); h != nil {
		return h.NumLevels()
	}
	return 0
}

// NumLayers returns the number of array layers.
func (t *Texture) NumLayers() uint32 {
	if h := t.live(); h != nil {
		return h.NumLayers()
	}
	return 0
}

// NumFaces returns 6 for cubemaps and 1 otherwise.
func (t *Texture) NumFaces() uint32 {
	if h := t.live(); h != nil {
		return h.NumFaces()
	}
	return 0
}

// IsArray reports whether this is an array texture.
func (t *Texture) IsArray() bool {
	if h := t.live(); h != nil {
		return h.IsArray()
	}
	return false
}

// IsCubemap reports whether this is a cubemap.
func (t *Texture) IsCubemap() bool {
	if h := t.live(); h != nil {
		return h.IsCubemap()
	}
	return false
}

// IsCompressed reports whether the image data is block-compressed.
func (t *Texture) IsCompressed() bool {
	if h := t.live(); h != nil {
		return h.IsCompressed()
	}
	return false
}

// Orientation returns the logical orientation in X, Y and Z.
func (t *Texture) Orientation() Orientation {
	if h := t.live(); h != nil {
		return h.Orientation()
	}
	return Orientation{}
}

// ElementSize returns the size in bytes of one image element.
func (t *Texture) ElementSize() uint32 {
	if h := t.live(); h != nil {
		return h.ElementSize()
	}
	return 0
}

// RowPitch returns the byte pitch of an image row at the given level.
func (t *Texture) RowPitch(level uint32) uint32 {
	if h := t.live(); h != nil {
		return h.RowPitch(level)
	}
	return 0
}

// DataSize returns the total size of image data in bytes.
func (t *Texture) DataSize() (uint64, error) {
	h, err := t.h("DataSize")
	if err != nil {
		return 0, err
	}
	return h.DataSize(), nil
}

// Data returns a view of the texture's image data. The slice borrows memory
// owned by the native texture object: it is valid only until Destroy and must
// not be retained beyond it.
//
// Data returns ErrInvalidValue when no image data is loaded; see
// LoadImageData and CreateFlagLoadImageData.
func (t *Texture) Data() ([]byte, error) {
	h, err := t.h("Data")
	if err != nil {
		return nil, err
	}
	data := h.Data()
	if data == nil {
		return nil, &Error{Op: "Data", Code: InvalidValue}
	}
	return data, nil
}

// DataSizeUncompressed returns the size the image data would have once
// inflated from any supercompression.
func (t *Texture) DataSizeUncompressed() (uint64, error) {
	h, err := t.h("DataSizeUncompressed")
	if err != nil {
		return 0, err
	}
	n, code := h.DataSizeUncompressed()
	return n, errFromCode("DataSizeUncompressed", code)
}

// SetImageFromMemory copies data into the storage for the image at the given
// mip level, array layer and face or depth slice. The texture must have been
// created with AllocStorage.
func (t *Texture) SetImageFromMemory(level, layer, faceSlice uint32, data []byte) error {
	h, err := t.h("SetImageFromMemory")
	if err != nil {
		return err
	}
	return errFromCode("SetImageFromMemory", h.SetImageFromMemory(level, layer, faceSlice, data))
}
