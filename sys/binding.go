// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build cgo && !ktx_nonative

package sys

/*
#cgo pkg-config: ktx

#include <stdlib.h>
#include <string.h>
#include "shim.h"
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"

	"github.com/gogpu/ktx"
)

// Enabled reports whether the native binding is compiled into this build.
func Enabled() bool { return true }

func init() {
	ktx.RegisterBinding(&binding{})
}

// binding implements ktx.Binding over libktx.
type binding struct{}

func (binding) Name() string { return "libktx" }

func codeOf(c C.KTX_error_code) ktx.Code {
	return ktx.Code(uint32(c))
}

// wrap builds the class-specific handle for a freshly created native texture.
func wrap(p *C.ktxTexture, streamHandle cgo.Handle, mem unsafe.Pointer) ktx.TextureHandle {
	t := texture{p: p, streamHandle: streamHandle, mem: mem}
	switch p.classId {
	case C.ktxTexture1_c:
		return &texture1{texture: t}
	case C.ktxTexture2_c:
		return &texture2{texture: t}
	default:
		return &t
	}
}

func (binding) CreateFromNamedFile(path string, flags ktx.CreateFlags) (ktx.TextureHandle, ktx.Code) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	var p *C.ktxTexture
	code := C.ktxTexture_CreateFromNamedFile(cpath, C.ktxTextureCreateFlags(flags), &p)
	if code != C.KTX_SUCCESS {
		return nil, codeOf(code)
	}
	return wrap(p, 0, nil), ktx.Success
}

func (binding) CreateFromMemory(data []byte, flags ktx.CreateFlags) (ktx.TextureHandle, ktx.Code) {
	if len(data) == 0 {
		return nil, ktx.InvalidValue
	}
	// Without CreateFlagLoadImageData the library builds a memory stream
	// over the buffer and reads through it on a later LoadImageData, so the
	// bytes must stay valid for the texture's whole lifetime. Copy them into
	// C memory owned by the handle; the Go slice goes back to the caller.
	mem := C.CBytes(data)
	var p *C.ktxTexture
	code := C.ktxTexture_CreateFromMemory(
		(*C.ktx_uint8_t)(mem),
		C.ktx_size_t(len(data)),
		C.ktxTextureCreateFlags(flags), &p)
	if code != C.KTX_SUCCESS {
		C.free(mem)
		return nil, codeOf(code)
	}
	return wrap(p, 0, mem), ktx.Success
}

func (binding) CreateFromStream(s *ktx.Stream, flags ktx.CreateFlags) (ktx.TextureHandle, ktx.Code) {
	h := cgo.NewHandle(s)

	// The library copies the ktxStream struct into the texture object, so
	// the C struct itself only has to live for the duration of the call.
	// The handle inside stays live until the texture is destroyed: the
	// library reads through it for deferred image loading.
	cs := (*C.ktxStream)(C.malloc(C.size_t(unsafe.Sizeof(C.ktxStream{}))))
	defer C.free(unsafe.Pointer(cs))
	C.gogpuStreamInit(cs, unsafe.Pointer(uintptr(h)))

	var p *C.ktxTexture
	code := C.ktxTexture_createFromStream(cs, C.ktxTextureCreateFlags(flags), &p)
	if code != C.KTX_SUCCESS {
		h.Delete()
		return nil, codeOf(code)
	}
	return wrap(p, h, nil), ktx.Success
}

func commonCreateInfo(ci *ktx.CommonCreateInfo) C.ktxTextureCreateInfo {
	var info C.ktxTextureCreateInfo
	info.baseWidth = C.ktx_uint32_t(ci.BaseWidth)
	info.baseHeight = C.ktx_uint32_t(ci.BaseHeight)
	info.baseDepth = C.ktx_uint32_t(ci.BaseDepth)
	info.numDimensions = C.ktx_uint32_t(ci.NumDimensions)
	info.numLevels = C.ktx_uint32_t(ci.NumLevels)
	info.numLayers = C.ktx_uint32_t(ci.NumLayers)
	info.numFaces = C.ktx_uint32_t(ci.NumFaces)
	info.isArray = cbool(ci.IsArray)
	info.generateMipmaps = cbool(ci.GenerateMipmaps)
	return info
}

func cbool(b bool) C.ktx_bool_t {
	if b {
		return C.KTX_TRUE
	}
	return C.KTX_FALSE
}

func (binding) CreateKTX1(info *ktx.KTX1CreateInfo, storage ktx.StorageAllocation) (ktx.TextureHandle, ktx.Code) {
	ci := commonCreateInfo(&info.CommonCreateInfo)
	ci.glInternalformat = C.ktx_uint32_t(info.GLInternalFormat)

	var p *C.ktxTexture1
	code := C.ktxTexture1_Create(&ci, C.ktxTextureCreateStorageEnum(storage), &p)
	if code != C.KTX_SUCCESS {
		return nil, codeOf(code)
	}
	return wrap((*C.ktxTexture)(unsafe.Pointer(p)), 0, nil), ktx.Success
}

func (binding) CreateKTX2(info *ktx.KTX2CreateInfo, storage ktx.StorageAllocation) (ktx.TextureHandle, ktx.Code) {
	ci := commonCreateInfo(&info.CommonCreateInfo)
	ci.vkFormat = C.ktx_uint32_t(info.VkFormat)

	var p *C.ktxTexture2
	code := C.ktxTexture2_Create(&ci, C.ktxTextureCreateStorageEnum(storage), &p)
	if code != C.KTX_SUCCESS {
		return nil, codeOf(code)
	}
	return wrap((*C.ktxTexture)(unsafe.Pointer(p)), 0, nil), ktx.Success
}

// texture implements ktx.TextureHandle over a *ktxTexture. The wrapper above
// it guarantees Destroy runs at most once.
type texture struct {
	p *C.ktxTexture

	// streamHandle pins the Go stream a texture was created from. Zero for
	// file and memory textures.
	streamHandle cgo.Handle

	// mem is the C copy of the source buffer for memory textures; the
	// native memory stream reads from it until the texture is destroyed.
	// Nil for other sources.
	mem unsafe.Pointer
}

func (t *texture) Class() ktx.TextureClass {
	switch t.p.classId {
	case C.ktxTexture1_c:
		return ktx.ClassKTX1
	case C.ktxTexture2_c:
		return ktx.ClassKTX2
	default:
		return ktx.ClassUnknown
	}
}

func (t *texture) Destroy() {
	C.gogpuTextureDestroy(t.p)
	t.p = nil
	if t.streamHandle != 0 {
		t.streamHandle.Delete()
		t.streamHandle = 0
	}
	if t.mem != nil {
		C.free(t.mem)
		t.mem = nil
	}
}

func (t *texture) DataSize() uint64 {
	return uint64(C.gogpuGetDataSize(t.p))
}

func (t *texture) Data() []byte {
	p := C.gogpuGetData(t.p)
	if p == nil {
		return nil
	}
	n := C.gogpuGetDataSize(t.p)
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), int(n))
}

func (t *texture) DataSizeUncompressed() (uint64, ktx.Code) {
	return uint64(C.gogpuGetDataSizeUncompressed(t.p)), ktx.Success
}

func (t *texture) RowPitch(level uint32) uint32 {
	return uint32(C.gogpuGetRowPitch(t.p, C.ktx_uint32_t(level)))
}

func (t *texture) ElementSize() uint32 {
	return uint32(C.gogpuGetElementSize(t.p))
}

func (t *texture) BaseWidth() uint32     { return uint32(t.p.baseWidth) }
func (t *texture) BaseHeight() uint32    { return uint32(t.p.baseHeight) }
func (t *texture) BaseDepth() uint32     { return uint32(t.p.baseDepth) }
func (t *texture) NumDimensions() uint32 { return uint32(t.p.numDimensions) }
func (t *texture) NumLevels() uint32     { return uint32(t.p.numLevels) }
func (t *texture) NumLayers() uint32     { return uint32(t.p.numLayers) }
func (t *texture) NumFaces() uint32      { return uint32(t.p.numFaces) }
func (t *texture) IsArray() bool         { return t.p.isArray == C.KTX_TRUE }
func (t *texture) IsCubemap() bool       { return t.p.isCubemap == C.KTX_TRUE }
func (t *texture) IsCompressed() bool    { return t.p.isCompressed == C.KTX_TRUE }

func (t *texture) Orientation() ktx.Orientation {
	return ktx.Orientation{
		X: ktx.OrientationX(t.p.orientation.x),
		Y: ktx.OrientationY(t.p.orientation.y),
		Z: ktx.OrientationZ(t.p.orientation.z),
	}
}

func (t *texture) ImageOffset(level, layer, faceSlice uint32) (uint64, ktx.Code) {
	var off C.ktx_size_t
	code := C.gogpuGetImageOffset(t.p, C.ktx_uint32_t(level), C.ktx_uint32_t(layer),
		C.ktx_uint32_t(faceSlice), &off)
	return uint64(off), codeOf(code)
}

func (t *texture) ImageSize(level uint32) (uint64, ktx.Code) {
	if level >= uint32(t.p.numLevels) {
		return 0, ktx.InvalidOperation
	}
	return uint64(C.gogpuGetImageSize(t.p, C.ktx_uint32_t(level))), ktx.Success
}

func (t *texture) LoadImageData() ktx.Code {
	return codeOf(C.gogpuLoadImageData(t.p))
}

func (t *texture) IterateLevels(visit ktx.LevelVisitor) ktx.Code {
	h := cgo.NewHandle(visit)
	defer h.Delete()
	return codeOf(C.gogpuIterateLevelFaces(t.p, unsafe.Pointer(uintptr(h))))
}

func (t *texture) SetImageFromMemory(level, layer, faceSlice uint32, data []byte) ktx.Code {
	if len(data) == 0 {
		return ktx.InvalidValue
	}
	return codeOf(C.gogpuSetImageFromMemory(t.p,
		C.ktx_uint32_t(level), C.ktx_uint32_t(layer), C.ktx_uint32_t(faceSlice),
		(*C.ktx_uint8_t)(unsafe.Pointer(&data[0])), C.ktx_size_t(len(data))))
}

func (t *texture) WriteToNamedFile(path string) ktx.Code {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	return codeOf(C.gogpuWriteToNamedFile(t.p, cpath))
}

func (t *texture) WriteToMemory() ([]byte, ktx.Code) {
	var bytes *C.ktx_uint8_t
	var size C.ktx_size_t
	code := C.gogpuWriteToMemory(t.p, &bytes, &size)
	if code != C.KTX_SUCCESS {
		return nil, codeOf(code)
	}
	out := C.GoBytes(unsafe.Pointer(bytes), C.int(size))
	C.free(unsafe.Pointer(bytes))
	return out, ktx.Success
}

func (t *texture) WriteToStream(s *ktx.Stream) ktx.Code {
	h := cgo.NewHandle(s)
	defer h.Delete()

	cs := (*C.ktxStream)(C.malloc(C.size_t(unsafe.Sizeof(C.ktxStream{}))))
	defer C.free(unsafe.Pointer(cs))
	C.gogpuStreamInit(cs, unsafe.Pointer(uintptr(h)))

	return codeOf(C.gogpuWriteToStream(t.p, cs))
}

func (t *texture) FindMetadata(key string) ([]byte, ktx.Code) {
	ckey := C.CString(key)
	defer C.free(unsafe.Pointer(ckey))

	var valueLen C.uint
	var value unsafe.Pointer
	code := C.ktxHashList_FindValue(&t.p.kvDataHead, ckey, &valueLen, &value)
	if code != C.KTX_SUCCESS {
		return nil, codeOf(code)
	}
	return C.GoBytes(value, C.int(valueLen)), ktx.Success
}

func (t *texture) SetMetadata(key string, value []byte) ktx.Code {
	ckey := C.CString(key)
	defer C.free(unsafe.Pointer(ckey))

	// Replace semantics: drop any existing pair first.
	C.ktxHashList_DeleteKVPair(&t.p.kvDataHead, ckey)

	var vp unsafe.Pointer
	if len(value) > 0 {
		vp = unsafe.Pointer(&value[0])
	}
	return codeOf(C.ktxHashList_AddKVPair(&t.p.kvDataHead, ckey, C.uint(len(value)), vp))
}

func (t *texture) DeleteMetadata(key string) ktx.Code {
	ckey := C.CString(key)
	defer C.free(unsafe.Pointer(ckey))

	// The native delete reports success for absent keys; probe first so the
	// caller can distinguish.
	var valueLen C.uint
	var value unsafe.Pointer
	if C.ktxHashList_FindValue(&t.p.kvDataHead, ckey, &valueLen, &value) != C.KTX_SUCCESS {
		return ktx.NotFound
	}
	return codeOf(C.ktxHashList_DeleteKVPair(&t.p.kvDataHead, ckey))
}

// texture1 adds the KTX1 surface.
type texture1 struct {
	texture
}

func (t *texture1) p1() *C.ktxTexture1 {
	return (*C.ktxTexture1)(unsafe.Pointer(t.p))
}

func (t *texture1) GLFormat() uint32             { return uint32(t.p1().glFormat) }
func (t *texture1) GLInternalFormat() uint32     { return uint32(t.p1().glInternalformat) }
func (t *texture1) GLBaseInternalFormat() uint32 { return uint32(t.p1().glBaseInternalformat) }
func (t *texture1) GLType() uint32               { return uint32(t.p1().glType) }

func (t *texture1) NeedsTranscoding() bool {
	return C.gogpuNeedsTranscoding(t.p) == C.KTX_TRUE
}

// texture2 adds the KTX2 surface.
type texture2 struct {
	texture
}

func (t *texture2) p2() *C.ktxTexture2 {
	return (*C.ktxTexture2)(unsafe.Pointer(t.p))
}

func (t *texture2) VkFormat() uint32 { return uint32(t.p2().vkFormat) }

func (t *texture2) SupercompressionScheme() ktx.SupercompressionScheme {
	return ktx.SupercompressionScheme(t.p2().supercompressionScheme)
}

func (t *texture2) NeedsTranscoding() bool {
	return C.gogpuNeedsTranscoding(t.p) == C.KTX_TRUE
}

func (t *texture2) TranscodeBasis(format ktx.TranscodeFormat, flags ktx.TranscodeFlags) ktx.Code {
	return codeOf(C.ktxTexture2_TranscodeBasis(t.p2(),
		C.ktx_transcode_fmt_e(format), C.ktx_transcode_flags(flags)))
}

func (t *texture2) CompressBasisEx(params *ktx.BasisParams) ktx.Code {
	var cp C.ktxBasisParams
	cp.structSize = C.ktx_uint32_t(unsafe.Sizeof(cp))
	cp.uastc = cbool(params.UASTC)
	cp.threadCount = C.ktx_uint32_t(params.ThreadCount)
	cp.compressionLevel = C.ktx_uint32_t(params.CompressionLevel)
	cp.qualityLevel = C.ktx_uint32_t(params.QualityLevel)
	cp.normalMap = cbool(params.NormalMap)
	cp.uastcRDO = cbool(params.UASTCRDO)
	cp.uastcRDOQualityScalar = C.float(params.UASTCRDOQualityScalar)
	return codeOf(C.ktxTexture2_CompressBasisEx(t.p2(), &cp))
}

func (t *texture2) CompressAstcEx(params *ktx.AstcParams) ktx.Code {
	var cp C.ktxAstcParams
	cp.structSize = C.ktx_uint32_t(unsafe.Sizeof(cp))
	cp.verbose = cbool(params.Verbose)
	cp.threadCount = C.ktx_uint32_t(params.ThreadCount)
	cp.blockDimension = C.ktx_uint32_t(params.BlockDimension)
	cp.mode = C.ktx_uint32_t(params.Mode)
	cp.qualityLevel = C.ktx_uint32_t(params.QualityLevel)
	cp.normalMap = cbool(params.NormalMap)
	for i, c := range params.InputSwizzle {
		cp.inputSwizzle[i] = C.char(c)
	}
	return codeOf(C.ktxTexture2_CompressAstcEx(t.p2(), &cp))
}

func (t *texture2) DeflateZstd(level uint32) ktx.Code {
	return codeOf(C.ktxTexture2_DeflateZstd(t.p2(), C.ktx_uint32_t(level)))
}

func (t *texture2) DeflateZLIB(level uint32) ktx.Code {
	return codeOf(C.ktxTexture2_DeflateZLIB(t.p2(), C.ktx_uint32_t(level)))
}

func (t *texture2) NumComponents() uint32 {
	return uint32(C.ktxTexture2_GetNumComponents(t.p2()))
}

func (t *texture2) ComponentInfo() (numComponents, componentByteLength uint32) {
	var n, l C.ktx_uint32_t
	C.ktxTexture2_GetComponentInfo(t.p2(), &n, &l)
	return uint32(n), uint32(l)
}

func (t *texture2) OETF() uint32 {
	return uint32(C.ktxTexture2_GetOETF_e(t.p2()))
}

func (t *texture2) PremultipliedAlpha() bool {
	return C.ktxTexture2_GetPremultipliedAlpha(t.p2()) == C.KTX_TRUE
}

func (t *texture2) IsVideo() bool {
	return t.p2().isVideo == C.KTX_TRUE
}

func (t *texture2) Duration() uint32  { return uint32(t.p2().duration) }
func (t *texture2) Timescale() uint32 { return uint32(t.p2().timescale) }
func (t *texture2) LoopCount() uint32 { return uint32(t.p2().loopcount) }
