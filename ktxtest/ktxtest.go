// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package ktxtest provides an in-memory ktx.Binding for testing code that
// consumes KTX textures without linking the native library.
//
// The binding stores image data in plain Go memory and honors the same error
// contracts as the real binding: format sniffing on real container
// identifiers, deferred image loading, exactly-once destroy. Install it for
// the duration of a test:
//
//	b := ktxtest.NewBinding()
//	b.Install(t)
package ktxtest

import (
	"bytes"
	"encoding/gob"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gogpu/ktx"
)

// Container identifiers, as they appear in the first 12 bytes of a file.
var (
	ktx1Magic = []byte{0xAB, 0x4B, 0x54, 0x58, 0x20, 0x31, 0x31, 0xBB, 0x0D, 0x0A, 0x1A, 0x0A}
	ktx2Magic = []byte{0xAB, 0x4B, 0x54, 0x58, 0x20, 0x32, 0x30, 0xBB, 0x0D, 0x0A, 0x1A, 0x0A}
)

// container is the serialized form a texture round-trips through.
type container struct {
	Class      int
	Width      uint32
	Height     uint32
	Depth      uint32
	Dims       uint32
	Levels     uint32
	Layers     uint32
	Faces      uint32
	VkFormat   uint32
	GLInternal uint32
	Scheme     uint32
	NeedsTC    bool
	Data       []byte
	Meta       map[string][]byte
}

// Binding is an in-memory ktx.Binding.
//
// FailCode, when non-zero, makes every create call fail with that code.
type Binding struct {
	created   atomic.Int32
	destroyed atomic.Int32

	// mu guards files.
	mu sync.Mutex

	// files backs CreateFromNamedFile and WriteToNamedFile.
	files map[string][]byte

	FailCode ktx.Code
}

// NewBinding returns an empty in-memory binding.
func NewBinding() *Binding {
	return &Binding{files: map[string][]byte{}}
}

// Install registers the binding for the duration of the test and restores
// the previous binding afterwards.
func (b *Binding) Install(tb testing.TB) {
	tb.Helper()
	prev := ktx.ActiveBinding()
	ktx.RegisterBinding(b)
	tb.Cleanup(func() { ktx.RegisterBinding(prev) })
}

// CreatedCount returns the number of texture handles created so far.
func (b *Binding) CreatedCount() int32 { return b.created.Load() }

// DestroyedCount returns the number of texture handles destroyed so far.
func (b *Binding) DestroyedCount() int32 { return b.destroyed.Load() }

// AddFile seeds the in-memory file system backing CreateFromNamedFile.
func (b *Binding) AddFile(path string, data []byte) {
	b.mu.Lock()
	b.files[path] = data
	b.mu.Unlock()
}

// File returns a file written via WriteToNamedFile (or seeded with AddFile).
func (b *Binding) File(path string) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.files[path]
	return data, ok
}

// Name implements ktx.Binding.
func (b *Binding) Name() string { return "ktxtest" }

// CreateFromNamedFile implements ktx.Binding over the in-memory file map.
func (b *Binding) CreateFromNamedFile(path string, flags ktx.CreateFlags) (ktx.TextureHandle, ktx.Code) {
	b.mu.Lock()
	data, ok := b.files[path]
	b.mu.Unlock()
	if !ok {
		return nil, ktx.FileOpenFailed
	}
	return b.CreateFromMemory(data, flags)
}

// CreateFromMemory implements ktx.Binding. The first 12 bytes must carry a
// real KTX container identifier.
func (b *Binding) CreateFromMemory(data []byte, flags ktx.CreateFlags) (ktx.TextureHandle, ktx.Code) {
	if b.FailCode != ktx.Success {
		return nil, b.FailCode
	}
	if len(data) < len(ktx2Magic) {
		return nil, ktx.UnknownFileFormat
	}
	magic := data[:12]
	if !bytes.Equal(magic, ktx1Magic) && !bytes.Equal(magic, ktx2Magic) {
		return nil, ktx.UnknownFileFormat
	}
	var c container
	if err := gob.NewDecoder(bytes.NewReader(data[12:])).Decode(&c); err != nil {
		return nil, ktx.FileDataError
	}
	h := b.handleFromContainer(&c)
	if flags&ktx.CreateFlagLoadImageData == 0 {
		h.pending = h.data
		h.data = nil
	}
	if flags&ktx.CreateFlagSkipKVData != 0 {
		h.meta = map[string][]byte{}
	}
	b.created.Add(1)
	return h, ktx.Success
}

// CreateFromStream implements ktx.Binding by draining the stream.
func (b *Binding) CreateFromStream(s *ktx.Stream, flags ktx.CreateFlags) (ktx.TextureHandle, ktx.Code) {
	size, code := s.Size()
	if code != ktx.Success {
		return nil, code
	}
	if code := s.SetPos(0); code != ktx.Success {
		return nil, code
	}
	buf := make([]byte, size)
	if code := s.Read(buf); code != ktx.Success {
		return nil, code
	}
	return b.CreateFromMemory(buf, flags)
}

// CreateKTX1 implements ktx.Binding.
func (b *Binding) CreateKTX1(info *ktx.KTX1CreateInfo, storage ktx.StorageAllocation) (ktx.TextureHandle, ktx.Code) {
	if b.FailCode != ktx.Success {
		return nil, b.FailCode
	}
	if code := validateCreateInfo(&info.CommonCreateInfo); code != ktx.Success {
		return nil, code
	}
	h := b.handleFromContainer(&container{
		Class:      int(ktx.ClassKTX1),
		Width:      info.BaseWidth,
		Height:     info.BaseHeight,
		Depth:      info.BaseDepth,
		Dims:       info.NumDimensions,
		Levels:     info.NumLevels,
		Layers:     info.NumLayers,
		Faces:      info.NumFaces,
		GLInternal: info.GLInternalFormat,
		Meta:       map[string][]byte{},
	})
	if storage == ktx.AllocStorage {
		h.data = make([]byte, h.totalSize())
	}
	b.created.Add(1)
	return h, ktx.Success
}

// CreateKTX2 implements ktx.Binding.
func (b *Binding) CreateKTX2(info *ktx.KTX2CreateInfo, storage ktx.StorageAllocation) (ktx.TextureHandle, ktx.Code) {
	if b.FailCode != ktx.Success {
		return nil, b.FailCode
	}
	if code := validateCreateInfo(&info.CommonCreateInfo); code != ktx.Success {
		return nil, code
	}
	h := b.handleFromContainer(&container{
		Class:    int(ktx.ClassKTX2),
		Width:    info.BaseWidth,
		Height:   info.BaseHeight,
		Depth:    info.BaseDepth,
		Dims:     info.NumDimensions,
		Levels:   info.NumLevels,
		Layers:   info.NumLayers,
		Faces:    info.NumFaces,
		VkFormat: info.VkFormat,
		Meta:     map[string][]byte{},
	})
	if storage == ktx.AllocStorage {
		h.data = make([]byte, h.totalSize())
	}
	b.created.Add(1)
	return h, ktx.Success
}

func validateCreateInfo(ci *ktx.CommonCreateInfo) ktx.Code {
	if ci.BaseWidth == 0 || ci.NumLevels == 0 || ci.NumLayers == 0 {
		return ktx.InvalidValue
	}
	if ci.NumDimensions < 1 || ci.NumDimensions > 3 {
		return ktx.InvalidValue
	}
	if ci.NumFaces != 1 && ci.NumFaces != 6 {
		return ktx.InvalidValue
	}
	if ci.NumFaces == 6 && ci.BaseWidth != ci.BaseHeight {
		return ktx.InvalidOperation
	}
	return ktx.Success
}

func (b *Binding) handleFromContainer(c *container) *handle {
	meta := c.Meta
	if meta == nil {
		meta = map[string][]byte{}
	}
	return &handle{
		binding: b,
		class:   ktx.TextureClass(c.Class),
		width:   c.Width, height: c.Height, depth: c.Depth,
		dims: c.Dims, levels: c.Levels, layers: c.Layers, faces: c.Faces,
		vkFormat: c.VkFormat, glInternal: c.GLInternal,
		scheme:  ktx.SupercompressionScheme(c.Scheme),
		needsTC: c.NeedsTC,
		data:    c.Data,
		meta:    meta,
	}
}

// handle implements ktx.TextureHandle plus the KTX1 and KTX2 surfaces over
// plain Go memory. All levels are stored at 4 bytes per texel.
type handle struct {
	binding *Binding

	class  ktx.TextureClass
	width  uint32
	height uint32
	depth  uint32
	dims   uint32
	levels uint32
	layers uint32
	faces  uint32

	vkFormat   uint32
	glInternal uint32
	scheme     ktx.SupercompressionScheme
	needsTC    bool

	data    []byte
	pending []byte // deferred image data, loaded by LoadImageData
	meta    map[string][]byte
}

const bytesPerTexel = 4

func (h *handle) levelSize(level uint32) uint64 {
	mip := func(v uint32) uint64 {
		r := uint64(v >> level)
		if r < 1 {
			r = 1
		}
		return r
	}
	d := mip(h.depth)
	if h.depth == 0 {
		d = 1
	}
	return mip(h.width) * mip(h.height) * d * bytesPerTexel
}

func (h *handle) totalSize() uint64 {
	var n uint64
	for l := uint32(0); l < h.levels; l++ {
		n += h.levelSize(l) * uint64(h.layers) * uint64(h.faces)
	}
	return n
}

func (h *handle) Class() ktx.TextureClass { return h.class }

func (h *handle) Destroy() { h.binding.destroyed.Add(1) }

func (h *handle) DataSize() uint64 { return uint64(len(h.data)) }

func (h *handle) Data() []byte { return h.data }

func (h *handle) DataSizeUncompressed() (uint64, ktx.Code) {
	if h.scheme != ktx.SupercompressionNone {
		return h.totalSize(), ktx.Success
	}
	return uint64(len(h.data)), ktx.Success
}

func (h *handle) RowPitch(level uint32) uint32 {
	w := h.width >> level
	if w < 1 {
		w = 1
	}
	return w * bytesPerTexel
}

func (h *handle) ElementSize() uint32 { return bytesPerTexel }

func (h *handle) BaseWidth() uint32     { return h.width }
func (h *handle) BaseHeight() uint32    { return h.height }
func (h *handle) BaseDepth() uint32     { return h.depth }
func (h *handle) NumDimensions() uint32 { return h.dims }
func (h *handle) NumLevels() uint32     { return h.levels }
func (h *handle) NumLayers() uint32     { return h.layers }
func (h *handle) NumFaces() uint32      { return h.faces }
func (h *handle) IsArray() bool         { return h.layers > 1 }
func (h *handle) IsCubemap() bool       { return h.faces == 6 }
func (h *handle) IsCompressed() bool    { return h.needsTC }

func (h *handle) Orientation() ktx.Orientation {
	if v, ok := h.meta[ktx.MetaOrientation]; ok && len(v) >= 2 {
		o := ktx.Orientation{X: ktx.OrientationX(v[0]), Y: ktx.OrientationY(v[1])}
		if len(v) >= 3 && v[2] != 0 {
			o.Z = ktx.OrientationZ(v[2])
		}
		return o
	}
	return ktx.Orientation{X: ktx.OrientationXRight, Y: ktx.OrientationYDown}
}

func (h *handle) ImageOffset(level, layer, faceSlice uint32) (uint64, ktx.Code) {
	if level >= h.levels || layer >= h.layers || faceSlice >= h.faces {
		return 0, ktx.InvalidOperation
	}
	var off uint64
	for l := uint32(0); l < level; l++ {
		off += h.levelSize(l) * uint64(h.layers) * uint64(h.faces)
	}
	off += h.levelSize(level) * uint64(layer*h.faces+faceSlice)
	return off, ktx.Success
}

func (h *handle) ImageSize(level uint32) (uint64, ktx.Code) {
	if level >= h.levels {
		return 0, ktx.InvalidOperation
	}
	return h.levelSize(level), ktx.Success
}

func (h *handle) LoadImageData() ktx.Code {
	if h.pending == nil {
		return ktx.InvalidOperation
	}
	h.data = h.pending
	h.pending = nil
	return ktx.Success
}

func (h *handle) IterateLevels(visit ktx.LevelVisitor) ktx.Code {
	if h.data == nil {
		return ktx.InvalidOperation
	}
	for l := uint32(0); l < h.levels; l++ {
		for f := uint32(0); f < h.faces; f++ {
			off, code := h.ImageOffset(l, 0, f)
			if code != ktx.Success {
				return code
			}
			size := h.levelSize(l)
			w := h.width >> l
			if w < 1 {
				w = 1
			}
			hh := h.height >> l
			if hh < 1 {
				hh = 1
			}
			d := h.depth >> l
			if d < 1 {
				d = 1
			}
			if code := visit(int32(l), int32(f), int32(w), int32(hh), int32(d),
				h.data[off:off+size]); code != ktx.Success {
				return code
			}
		}
	}
	return ktx.Success
}

func (h *handle) SetImageFromMemory(level, layer, faceSlice uint32, data []byte) ktx.Code {
	if h.data == nil {
		return ktx.InvalidOperation
	}
	off, code := h.ImageOffset(level, layer, faceSlice)
	if code != ktx.Success {
		return code
	}
	size, code := h.ImageSize(level)
	if code != ktx.Success {
		return code
	}
	if uint64(len(data)) != size {
		return ktx.InvalidValue
	}
	copy(h.data[off:off+size], data)
	return ktx.Success
}

func (h *handle) container() *container {
	return &container{
		Class:      int(h.class),
		Width:      h.width,
		Height:     h.height,
		Depth:      h.depth,
		Dims:       h.dims,
		Levels:     h.levels,
		Layers:     h.layers,
		Faces:      h.faces,
		VkFormat:   h.vkFormat,
		GLInternal: h.glInternal,
		Scheme:     uint32(h.scheme),
		NeedsTC:    h.needsTC,
		Data:       h.data,
		Meta:       h.meta,
	}
}

func (h *handle) WriteToMemory() ([]byte, ktx.Code) {
	var buf bytes.Buffer
	if h.class == ktx.ClassKTX1 {
		buf.Write(ktx1Magic)
	} else {
		buf.Write(ktx2Magic)
	}
	if err := gob.NewEncoder(&buf).Encode(h.container()); err != nil {
		return nil, ktx.FileWriteError
	}
	return buf.Bytes(), ktx.Success
}

func (h *handle) WriteToNamedFile(path string) ktx.Code {
	data, code := h.WriteToMemory()
	if code != ktx.Success {
		return code
	}
	h.binding.AddFile(path, data)
	return ktx.Success
}

func (h *handle) WriteToStream(s *ktx.Stream) ktx.Code {
	data, code := h.WriteToMemory()
	if code != ktx.Success {
		return code
	}
	return s.Write(data)
}

func (h *handle) FindMetadata(key string) ([]byte, ktx.Code) {
	v, ok := h.meta[key]
	if !ok {
		return nil, ktx.NotFound
	}
	return append([]byte(nil), v...), ktx.Success
}

func (h *handle) SetMetadata(key string, value []byte) ktx.Code {
	h.meta[key] = append([]byte(nil), value...)
	return ktx.Success
}

func (h *handle) DeleteMetadata(key string) ktx.Code {
	if _, ok := h.meta[key]; !ok {
		return ktx.NotFound
	}
	delete(h.meta, key)
	return ktx.Success
}

// KTX1 surface.

func (h *handle) GLFormat() uint32             { return 0x1908 } // GL_RGBA
func (h *handle) GLInternalFormat() uint32     { return h.glInternal }
func (h *handle) GLBaseInternalFormat() uint32 { return 0x1908 }
func (h *handle) GLType() uint32               { return 0x1401 } // GL_UNSIGNED_BYTE

func (h *handle) NeedsTranscoding() bool { return h.needsTC }

// KTX2 surface.

func (h *handle) VkFormat() uint32 { return h.vkFormat }

func (h *handle) SupercompressionScheme() ktx.SupercompressionScheme { return h.scheme }

func (h *handle) TranscodeBasis(format ktx.TranscodeFormat, flags ktx.TranscodeFlags) ktx.Code {
	if !h.needsTC || h.data == nil {
		return ktx.InvalidOperation
	}
	if format == ktx.TranscodeNoSelection {
		return ktx.InvalidValue
	}
	h.needsTC = false
	h.scheme = ktx.SupercompressionNone
	h.data = make([]byte, h.totalSize())
	h.vkFormat = 37 // VK_FORMAT_R8G8B8A8_UNORM
	return ktx.Success
}

func (h *handle) CompressBasisEx(params *ktx.BasisParams) ktx.Code {
	if h.needsTC || h.data == nil {
		return ktx.InvalidOperation
	}
	if params.QualityLevel > 255 {
		return ktx.InvalidValue
	}
	h.needsTC = true
	if params.UASTC {
		h.scheme = ktx.SupercompressionNone
	} else {
		h.scheme = ktx.SupercompressionBasisLZ
	}
	h.data = h.data[:len(h.data)/2]
	return ktx.Success
}

func (h *handle) CompressAstcEx(params *ktx.AstcParams) ktx.Code {
	if h.data == nil {
		return ktx.InvalidOperation
	}
	if params.QualityLevel > 100 {
		return ktx.InvalidValue
	}
	h.data = h.data[:len(h.data)/2]
	return ktx.Success
}

func (h *handle) DeflateZstd(level uint32) ktx.Code {
	if h.scheme != ktx.SupercompressionNone {
		return ktx.InvalidOperation
	}
	if level < 1 || level > 22 {
		return ktx.InvalidValue
	}
	h.scheme = ktx.SupercompressionZstd
	return ktx.Success
}

func (h *handle) DeflateZLIB(level uint32) ktx.Code {
	if h.scheme != ktx.SupercompressionNone {
		return ktx.InvalidOperation
	}
	if level < 1 || level > 9 {
		return ktx.InvalidValue
	}
	h.scheme = ktx.SupercompressionZLIB
	return ktx.Success
}

func (h *handle) NumComponents() uint32 { return 4 }

func (h *handle) ComponentInfo() (numComponents, componentByteLength uint32) {
	return 4, 1
}

func (h *handle) OETF() uint32 { return 0 }

func (h *handle) PremultipliedAlpha() bool { return false }

func (h *handle) IsVideo() bool     { return false }
func (h *handle) Duration() uint32  { return 0 }
func (h *handle) Timescale() uint32 { return 0 }
func (h *handle) LoopCount() uint32 { return 0 }

// EncodeKTX2 builds a serialized KTX2 container with a full RGBA8 mip chain,
// each byte of level l set to l+1. Useful as OpenMemory input in tests.
func EncodeKTX2(tb testing.TB, width, height uint32) []byte {
	tb.Helper()
	b := NewBinding()
	levels := ktx.MaxLevels(width, height, 1)
	h := b.handleFromContainer(&container{
		Class:    int(ktx.ClassKTX2),
		Width:    width,
		Height:   height,
		Dims:     2,
		Levels:   levels,
		Layers:   1,
		Faces:    1,
		VkFormat: 37,
		Meta:     map[string][]byte{},
	})
	h.data = make([]byte, h.totalSize())
	for l := uint32(0); l < levels; l++ {
		off, _ := h.ImageOffset(l, 0, 0)
		size, _ := h.ImageSize(l)
		for i := uint64(0); i < size; i++ {
			h.data[off+i] = byte(l + 1)
		}
	}
	data, code := h.WriteToMemory()
	if code != ktx.Success {
		tb.Fatalf("WriteToMemory() code = %v", code)
	}
	return data
}
