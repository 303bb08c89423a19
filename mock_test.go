package ktx

import (
	"bytes"
	"encoding/gob"
	"sync/atomic"
	"testing"
)

// Container identifiers, as they appear in the first 12 bytes of a file.
var (
	ktx1Magic = []byte{0xAB, 0x4B, 0x54, 0x58, 0x20, 0x31, 0x31, 0xBB, 0x0D, 0x0A, 0x1A, 0x0A}
	ktx2Magic = []byte{0xAB, 0x4B, 0x54, 0x58, 0x20, 0x32, 0x30, 0xBB, 0x0D, 0x0A, 0x1A, 0x0A}
)

// mockContainer is the serialized form a mock texture round-trips through.
type mockContainer struct {
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

// mockBinding is an in-memory Binding double. It parses and produces real
// container identifiers so format sniffing behaves like the native library,
// and tracks create/destroy calls so tests can assert exactly-once release.
type mockBinding struct {
	created   atomic.Int32
	destroyed atomic.Int32

	// files backs CreateFromNamedFile and WriteToNamedFile.
	files map[string][]byte

	// failCode, when non-zero, makes every create call fail with it.
	failCode Code
}

func newMockBinding() *mockBinding {
	return &mockBinding{files: map[string][]byte{}}
}

// install registers the mock for the duration of the test and restores the
// previous binding afterwards.
func (b *mockBinding) install(t *testing.T) {
	t.Helper()
	prev := ActiveBinding()
	RegisterBinding(b)
	t.Cleanup(func() { RegisterBinding(prev) })
}

func (b *mockBinding) Name() string { return "mock" }

func (b *mockBinding) CreateFromNamedFile(path string, flags CreateFlags) (TextureHandle, Code) {
	data, ok := b.files[path]
	if !ok {
		return nil, FileOpenFailed
	}
	return b.CreateFromMemory(data, flags)
}

func (b *mockBinding) CreateFromMemory(data []byte, flags CreateFlags) (TextureHandle, Code) {
	if b.failCode != Success {
		return nil, b.failCode
	}
	if len(data) < len(ktx2Magic) {
		return nil, UnknownFileFormat
	}
	magic := data[:12]
	if !bytes.Equal(magic, ktx1Magic) && !bytes.Equal(magic, ktx2Magic) {
		return nil, UnknownFileFormat
	}
	var c mockContainer
	if err := gob.NewDecoder(bytes.NewReader(data[12:])).Decode(&c); err != nil {
		return nil, FileDataError
	}
	h := b.handleFromContainer(&c)
	if flags&CreateFlagLoadImageData == 0 {
		h.pending = h.data
		h.data = nil
	}
	if flags&CreateFlagSkipKVData != 0 {
		h.meta = map[string][]byte{}
	}
	b.created.Add(1)
	return h, Success
}

func (b *mockBinding) CreateFromStream(s *Stream, flags CreateFlags) (TextureHandle, Code) {
	size, code := s.Size()
	if code != Success {
		return nil, code
	}
	if code := s.SetPos(0); code != Success {
		return nil, code
	}
	buf := make([]byte, size)
	if code := s.Read(buf); code != Success {
		return nil, code
	}
	return b.CreateFromMemory(buf, flags)
}

func (b *mockBinding) CreateKTX1(info *KTX1CreateInfo, storage StorageAllocation) (TextureHandle, Code) {
	if b.failCode != Success {
		return nil, b.failCode
	}
	if code := validateCreateInfo(&info.CommonCreateInfo); code != Success {
		return nil, code
	}
	h := b.handleFromContainer(&mockContainer{
		Class:      int(ClassKTX1),
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
	if storage == AllocStorage {
		h.data = make([]byte, h.totalSize())
	}
	b.created.Add(1)
	return h, Success
}

func (b *mockBinding) CreateKTX2(info *KTX2CreateInfo, storage StorageAllocation) (TextureHandle, Code) {
	if b.failCode != Success {
		return nil, b.failCode
	}
	if code := validateCreateInfo(&info.CommonCreateInfo); code != Success {
		return nil, code
	}
	h := b.handleFromContainer(&mockContainer{
		Class:    int(ClassKTX2),
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
	if storage == AllocStorage {
		h.data = make([]byte, h.totalSize())
	}
	b.created.Add(1)
	return h, Success
}

func validateCreateInfo(ci *CommonCreateInfo) Code {
	if ci.BaseWidth == 0 || ci.NumLevels == 0 || ci.NumLayers == 0 {
		return InvalidValue
	}
	if ci.NumDimensions < 1 || ci.NumDimensions > 3 {
		return InvalidValue
	}
	if ci.NumFaces != 1 && ci.NumFaces != 6 {
		return InvalidValue
	}
	if ci.NumFaces == 6 && ci.BaseWidth != ci.BaseHeight {
		return InvalidOperation
	}
	return Success
}

func (b *mockBinding) handleFromContainer(c *mockContainer) *mockHandle {
	meta := c.Meta
	if meta == nil {
		meta = map[string][]byte{}
	}
	return &mockHandle{
		binding: b,
		class:   TextureClass(c.Class),
		width:   c.Width, height: c.Height, depth: c.Depth,
		dims: c.Dims, levels: c.Levels, layers: c.Layers, faces: c.Faces,
		vkFormat: c.VkFormat, glInternal: c.GLInternal,
		scheme:  SupercompressionScheme(c.Scheme),
		needsTC: c.NeedsTC,
		data:    c.Data,
		meta:    meta,
	}
}

// mockHandle implements TextureHandle plus KTX1Handle and KTX2Handle over
// plain Go memory.
type mockHandle struct {
	binding *mockBinding

	class  TextureClass
	width  uint32
	height uint32
	depth  uint32
	dims   uint32
	levels uint32
	layers uint32
	faces  uint32

	vkFormat   uint32
	glInternal uint32
	scheme     SupercompressionScheme
	needsTC    bool

	isVideo   bool
	duration  uint32
	timescale uint32
	loopCount uint32

	data    []byte
	pending []byte // deferred image data, loaded by LoadImageData
	meta    map[string][]byte

	destroyCalls atomic.Int32
}

const mockBytesPerTexel = 4

func (h *mockHandle) levelSize(level uint32) uint64 {
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
	return mip(h.width) * mip(h.height) * d * mockBytesPerTexel
}

func (h *mockHandle) totalSize() uint64 {
	var n uint64
	for l := uint32(0); l < h.levels; l++ {
		n += h.levelSize(l) * uint64(h.layers) * uint64(h.faces)
	}
	return n
}

func (h *mockHandle) Class() TextureClass { return h.class }

func (h *mockHandle) Destroy() { h.destroyCalls.Add(1); h.binding.destroyed.Add(1) }

func (h *mockHandle) DataSize() uint64 { return uint64(len(h.data)) }

func (h *mockHandle) Data() []byte { return h.data }

func (h *mockHandle) DataSizeUncompressed() (uint64, Code) {
	if h.scheme != SupercompressionNone {
		return h.totalSize(), Success
	}
	return uint64(len(h.data)), Success
}

func (h *mockHandle) RowPitch(level uint32) uint32 {
	w := h.width >> level
	if w < 1 {
		w = 1
	}
	return w * mockBytesPerTexel
}

func (h *mockHandle) ElementSize() uint32 { return mockBytesPerTexel }

func (h *mockHandle) BaseWidth() uint32     { return h.width }
func (h *mockHandle) BaseHeight() uint32    { return h.height }
func (h *mockHandle) BaseDepth() uint32     { return h.depth }
func (h *mockHandle) NumDimensions() uint32 { return h.dims }
func (h *mockHandle) NumLevels() uint32     { return h.levels }
func (h *mockHandle) NumLayers() uint32     { return h.layers }
func (h *mockHandle) NumFaces() uint32      { return h.faces }
func (h *mockHandle) IsArray() bool         { return h.layers > 1 }
func (h *mockHandle) IsCubemap() bool       { return h.faces == 6 }
func (h *mockHandle) IsCompressed() bool    { return h.needsTC }

func (h *mockHandle) Orientation() Orientation {
	if v, ok := h.meta[MetaOrientation]; ok && len(v) >= 2 {
		o := Orientation{X: OrientationX(v[0]), Y: OrientationY(v[1])}
		if len(v) >= 3 && v[2] != 0 {
			o.Z = OrientationZ(v[2])
		}
		return o
	}
	return Orientation{X: OrientationXRight, Y: OrientationYDown}
}

func (h *mockHandle) ImageOffset(level, layer, faceSlice uint32) (uint64, Code) {
	if level >= h.levels || layer >= h.layers || faceSlice >= h.faces {
		return 0, InvalidOperation
	}
	var off uint64
	for l := uint32(0); l < level; l++ {
		off += h.levelSize(l) * uint64(h.layers) * uint64(h.faces)
	}
	off += h.levelSize(level) * uint64(layer*h.faces+faceSlice)
	return off, Success
}

func (h *mockHandle) ImageSize(level uint32) (uint64, Code) {
	if level >= h.levels {
		return 0, InvalidOperation
	}
	return h.levelSize(level), Success
}

func (h *mockHandle) LoadImageData() Code {
	if h.pending == nil {
		return InvalidOperation
	}
	h.data = h.pending
	h.pending = nil
	return Success
}

func (h *mockHandle) IterateLevels(visit LevelVisitor) Code {
	if h.data == nil {
		return InvalidOperation
	}
	for l := uint32(0); l < h.levels; l++ {
		for f := uint32(0); f < h.faces; f++ {
			off, code := h.ImageOffset(l, 0, f)
			if code != Success {
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
				h.data[off:off+size]); code != Success {
				return code
			}
		}
	}
	return Success
}

func (h *mockHandle) SetImageFromMemory(level, layer, faceSlice uint32, data []byte) Code {
	if h.data == nil {
		return InvalidOperation
	}
	off, code := h.ImageOffset(level, layer, faceSlice)
	if code != Success {
		return code
	}
	size, code := h.ImageSize(level)
	if code != Success {
		return code
	}
	if uint64(len(data)) != size {
		return InvalidValue
	}
	copy(h.data[off:off+size], data)
	return Success
}

func (h *mockHandle) container() *mockContainer {
	return &mockContainer{
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

func (h *mockHandle) WriteToMemory() ([]byte, Code) {
	var buf bytes.Buffer
	if h.class == ClassKTX1 {
		buf.Write(ktx1Magic)
	} else {
		buf.Write(ktx2Magic)
	}
	if err := gob.NewEncoder(&buf).Encode(h.container()); err != nil {
		return nil, FileWriteError
	}
	return buf.Bytes(), Success
}

func (h *mockHandle) WriteToNamedFile(path string) Code {
	data, code := h.WriteToMemory()
	if code != Success {
		return code
	}
	h.binding.files[path] = data
	return Success
}

func (h *mockHandle) WriteToStream(s *Stream) Code {
	data, code := h.WriteToMemory()
	if code != Success {
		return code
	}
	return s.Write(data)
}

func (h *mockHandle) FindMetadata(key string) ([]byte, Code) {
	v, ok := h.meta[key]
	if !ok {
		return nil, NotFound
	}
	return append([]byte(nil), v...), Success
}

func (h *mockHandle) SetMetadata(key string, value []byte) Code {
	h.meta[key] = append([]byte(nil), value...)
	return Success
}

func (h *mockHandle) DeleteMetadata(key string) Code {
	if _, ok := h.meta[key]; !ok {
		return NotFound
	}
	delete(h.meta, key)
	return Success
}

// KTX1Handle surface.

func (h *mockHandle) GLFormat() uint32             { return 0x1908 } // GL_RGBA
func (h *mockHandle) GLInternalFormat() uint32     { return h.glInternal }
func (h *mockHandle) GLBaseInternalFormat() uint32 { return 0x1908 }
func (h *mockHandle) GLType() uint32               { return 0x1401 } // GL_UNSIGNED_BYTE

func (h *mockHandle) NeedsTranscoding() bool { return h.needsTC }

// KTX2Handle surface.

func (h *mockHandle) VkFormat() uint32 { return h.vkFormat }

func (h *mockHandle) SupercompressionScheme() SupercompressionScheme { return h.scheme }

func (h *mockHandle) TranscodeBasis(format TranscodeFormat, flags TranscodeFlags) Code {
	if !h.needsTC {
		return InvalidOperation
	}
	if h.data == nil {
		return InvalidOperation
	}
	if format == TranscodeNoSelection {
		return InvalidValue
	}
	h.needsTC = false
	h.scheme = SupercompressionNone
	h.data = make([]byte, h.totalSize())
	h.vkFormat = 37 // VK_FORMAT_R8G8B8A8_UNORM, close enough for a double
	return Success
}

func (h *mockHandle) CompressBasisEx(params *BasisParams) Code {
	if h.needsTC {
		return InvalidOperation
	}
	if h.data == nil {
		return InvalidOperation
	}
	if params.QualityLevel > 255 {
		return InvalidValue
	}
	h.needsTC = true
	if params.UASTC {
		h.scheme = SupercompressionNone
	} else {
		h.scheme = SupercompressionBasisLZ
	}
	h.data = h.data[:len(h.data)/2]
	return Success
}

func (h *mockHandle) CompressAstcEx(params *AstcParams) Code {
	if h.data == nil {
		return InvalidOperation
	}
	if params.QualityLevel > 100 {
		return InvalidValue
	}
	h.data = h.data[:len(h.data)/2]
	return Success
}

func (h *mockHandle) DeflateZstd(level uint32) Code {
	if h.scheme != SupercompressionNone {
		return InvalidOperation
	}
	if level < 1 || level > 22 {
		return InvalidValue
	}
	h.scheme = SupercompressionZstd
	return Success
}

func (h *mockHandle) DeflateZLIB(level uint32) Code {
	if h.scheme != SupercompressionNone {
		return InvalidOperation
	}
	if level < 1 || level > 9 {
		return InvalidValue
	}
	h.scheme = SupercompressionZLIB
	return Success
}

func (h *mockHandle) NumComponents() uint32 { return 4 }

func (h *mockHandle) ComponentInfo() (numComponents, componentByteLength uint32) {
	return 4, 1
}

func (h *mockHandle) OETF() uint32 { return 0 }

func (h *mockHandle) PremultipliedAlpha() bool { return false }

func (h *mockHandle) IsVideo() bool     { return h.isVideo }
func (h *mockHandle) Duration() uint32  { return h.duration }
func (h *mockHandle) Timescale() uint32 { return h.timescale }
func (h *mockHandle) LoopCount() uint32 { return h.loopCount }

// mockKTX2Bytes builds a serialized KTX2 container with a full mip chain of
// RGBA8 data, each byte of level l set to l+1.
func mockKTX2Bytes(t *testing.T, width, height uint32) []byte {
	t.Helper()
	b := newMockBinding()
	levels := MaxLevels(width, height, 1)
	h := b.handleFromContainer(&mockContainer{
		Class:    int(ClassKTX2),
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
	if code != Success {
		t.Fatalf("WriteToMemory() code = %v", code)
	}
	return data
}
