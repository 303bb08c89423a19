// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ktx

import "fmt"

// TranscodeFormat selects the target block-compressed (or uncompressed)
// format when transcoding Basis Universal data. Values mirror
// ktx_transcode_fmt_e.
type TranscodeFormat uint32

const (
	TranscodeETC1RGB     TranscodeFormat = 0
	TranscodeETC2RGBA    TranscodeFormat = 1
	TranscodeBC1RGB      TranscodeFormat = 2
	TranscodeBC3RGBA     TranscodeFormat = 3
	TranscodeBC4R        TranscodeFormat = 4
	TranscodeBC5RG       TranscodeFormat = 5
	TranscodeBC7RGBA     TranscodeFormat = 6
	TranscodePVRTC14RGB  TranscodeFormat = 8
	TranscodePVRTC14RGBA TranscodeFormat = 9
	TranscodeASTC4x4RGBA TranscodeFormat = 10
	TranscodeRGBA32      TranscodeFormat = 13
	TranscodeRGB565      TranscodeFormat = 14
	TranscodeBGR565      TranscodeFormat = 15
	TranscodeRGBA4444    TranscodeFormat = 16
	TranscodePVRTC24RGB  TranscodeFormat = 18
	TranscodePVRTC24RGBA TranscodeFormat = 19
	TranscodeETC2EACR11  TranscodeFormat = 20
	TranscodeETC2EACRG11 TranscodeFormat = 21
	TranscodeETC         TranscodeFormat = 22
	TranscodeBC1OrBC3    TranscodeFormat = 23
	TranscodeNoSelection TranscodeFormat = 0x7FFFFFFF
)

// String returns the native enumerator spelling.
func (f TranscodeFormat) String() string {
	switch f {
	case TranscodeETC1RGB:
		return "ETC1_RGB"
	case TranscodeETC2RGBA:
		return "ETC2_RGBA"
	case TranscodeBC1RGB:
		return "BC1_RGB"
	case TranscodeBC3RGBA:
		return "BC3_RGBA"
	case TranscodeBC4R:
		return "BC4_R"
	case TranscodeBC5RG:
		return "BC5_RG"
	case TranscodeBC7RGBA:
		return "BC7_RGBA"
	case TranscodePVRTC14RGB:
		return "PVRTC1_4_RGB"
	case TranscodePVRTC14RGBA:
		return "PVRTC1_4_RGBA"
	case TranscodeASTC4x4RGBA:
		return "ASTC_4x4_RGBA"
	case TranscodeRGBA32:
		return "RGBA32"
	case TranscodeRGB565:
		return "RGB565"
	case TranscodeBGR565:
		return "BGR565"
	case TranscodeRGBA4444:
		return "RGBA4444"
	case TranscodePVRTC24RGB:
		return "PVRTC2_4_RGB"
	case TranscodePVRTC24RGBA:
		return "PVRTC2_4_RGBA"
	case TranscodeETC2EACR11:
		return "ETC2_EAC_R11"
	case TranscodeETC2EACRG11:
		return "ETC2_EAC_RG11"
	case TranscodeETC:
		return "ETC"
	case TranscodeBC1OrBC3:
		return "BC1_OR_3"
	case TranscodeNoSelection:
		return "NOSELECTION"
	default:
		return fmt.Sprintf("TranscodeFormat(%d)", uint32(f))
	}
}

// TranscodeFlags modify transcoding behavior. Values mirror
// ktx_transcode_flag_bits_e.
type TranscodeFlags uint32

const (
	// TranscodePVRTCDecodeToNextPow2 decodes PVRTC targets whose dimensions
	// are not a power of two to the next larger power of two.
	TranscodePVRTCDecodeToNextPow2 TranscodeFlags = 2

	// TranscodeAlphaDataToOpaqueFormats transcodes the alpha slice of
	// two-slice data into formats without alpha, instead of the color slice.
	TranscodeAlphaDataToOpaqueFormats TranscodeFlags = 4

	// TranscodeHighQuality favors quality over speed where the transcoder
	// offers the choice.
	TranscodeHighQuality TranscodeFlags = 32
)

// SupercompressionScheme identifies the KTX2 supercompression applied to the
// image data. Values mirror ktxSupercmpScheme.
type SupercompressionScheme uint32

const (
	SupercompressionNone    SupercompressionScheme = 0
	SupercompressionBasisLZ SupercompressionScheme = 1
	SupercompressionZstd    SupercompressionScheme = 2
	SupercompressionZLIB    SupercompressionScheme = 3
)

// String returns the scheme name.
func (s SupercompressionScheme) String() string {
	switch s {
	case SupercompressionNone:
		return "None"
	case SupercompressionBasisLZ:
		return "BasisLZ"
	case SupercompressionZstd:
		return "Zstd"
	case SupercompressionZLIB:
		return "ZLIB"
	default:
		return fmt.Sprintf("SupercompressionScheme(%d)", uint32(s))
	}
}

// BasisParams configure Basis Universal encoding for KTX2.CompressBasisEx.
// The zero value selects ETC1S at the encoder's default quality.
type BasisParams struct {
	// UASTC selects the UASTC codec instead of ETC1S.
	UASTC bool

	// QualityLevel is the ETC1S quality in [1, 255]. 0 means encoder default.
	QualityLevel uint32

	// CompressionLevel is the ETC1S effort level in [0, 5].
	CompressionLevel uint32

	// ThreadCount is the number of encoder threads. 0 means one thread.
	ThreadCount uint32

	// NormalMap tunes the encoder for two-component normal maps.
	NormalMap bool

	// UASTCRDO enables rate-distortion optimization for UASTC output.
	UASTCRDO bool

	// UASTCRDOQualityScalar is the RDO quality scalar (lambda). 0 means
	// encoder default.
	UASTCRDOQualityScalar float32
}

// Astc block dimensions for AstcParams.BlockDimension. Values mirror
// ktx_pack_astc_block_dimension_e (2D dimensions).
const (
	AstcBlockDimension4x4 uint32 = iota
	AstcBlockDimension5x4
	AstcBlockDimension5x5
	AstcBlockDimension6x5
	AstcBlockDimension6x6
	AstcBlockDimension8x5
	AstcBlockDimension8x6
	AstcBlockDimension10x5
	AstcBlockDimension10x6
	AstcBlockDimension8x8
	AstcBlockDimension10x8
	AstcBlockDimension10x10
	AstcBlockDimension12x10
	AstcBlockDimension12x12
)

// Astc quality presets for AstcParams.QualityLevel. Values mirror
// ktx_pack_astc_quality_levels_e.
const (
	AstcQualityFastest    uint32 = 0
	AstcQualityFast       uint32 = 10
	AstcQualityMedium     uint32 = 60
	AstcQualityThorough   uint32 = 98
	AstcQualityExhaustive uint32 = 100
)

// Astc encoding modes for AstcParams.Mode.
const (
	AstcModeDefault uint32 = iota
	AstcModeLDR
	AstcModeHDR
)

// AstcParams configure ASTC encoding for KTX2.CompressAstcEx. The zero value
// selects a 4x4 block at the fastest quality.
type AstcParams struct {
	// Verbose prints encoder progress to stdout.
	Verbose bool

	// ThreadCount is the number of encoder threads. 0 means one thread.
	ThreadCount uint32

	// BlockDimension is one of the AstcBlockDimension constants.
	BlockDimension uint32

	// Mode is one of the AstcMode constants.
	Mode uint32

	// QualityLevel is one of the AstcQuality constants, or any value in
	// [0, 100].
	QualityLevel uint32

	// NormalMap tunes the encoder for normal maps.
	NormalMap bool

	// InputSwizzle remaps input components before encoding, e.g. "rgba".
	// Empty means no swizzle.
	InputSwizzle [4]byte
}

// KTX1 is the KTX1-specific view of a Texture, obtained from Texture.KTX1.
// It shares the underlying handle: destroying the Texture invalidates the
// view.
type KTX1 struct {
	t *Texture
	h KTX1Handle
}

// KTX1 returns the KTX1 view of the texture, or false when the texture is a
// KTX2 texture or has been destroyed.
func (t *Texture) KTX1() (*KTX1, bool) {
	h := t.live()
	if h == nil || h.Class() != ClassKTX1 {
		return nil, false
	}
	k1, ok := h.(KTX1Handle)
	if !ok {
		return nil, false
	}
	return &KTX1{t: t, h: k1}, true
}

// GLFormat returns the OpenGL format, e.g. GL_RGBA.
func (k *KTX1) GLFormat() uint32 {
	if k.t.Destroyed() {
		return 0
	}
	return k.h.GLFormat()
}

// GLInternalFormat returns the OpenGL internalformat, e.g. GL_RGBA8.
func (k *KTX1) GLInternalFormat() uint32 {
	if k.t.Destroyed() {
		return 0
	}
	return k.h.GLInternalFormat()
}

// GLBaseInternalFormat returns the OpenGL base internalformat.
func (k *KTX1) GLBaseInternalFormat() uint32 {
	if k.t.Destroyed() {
		return 0
	}
	return k.h.GLBaseInternalFormat()
}

// GLType returns the OpenGL type, e.g. GL_UNSIGNED_BYTE.
func (k *KTX1) GLType() uint32 {
	if k.t.Destroyed() {
		return 0
	}
	return k.h.GLType()
}

// NeedsTranscoding reports whether the image data must be transcoded before
// a GPU can consume it.
func (k *KTX1) NeedsTranscoding() bool {
	if k.t.Destroyed() {
		return false
	}
	return k.h.NeedsTranscoding()
}

// KTX2 is the KTX2-specific view of a Texture, obtained from Texture.KTX2.
// It shares the underlying handle: destroying the Texture invalidates the
// view.
type KTX2 struct {
	t *Texture
	h KTX2Handle
}

// KTX2 returns the KTX2 view of the texture, or false when the texture is a
// KTX1 texture or has been destroyed.
func (t *Texture) KTX2() (*KTX2, bool) {
	h := t.live()
	if h == nil || h.Class() != ClassKTX2 {
		return nil, false
	}
	k2, ok := h.(KTX2Handle)
	if !ok {
		return nil, false
	}
	return &KTX2{t: t, h: k2}, true
}

// VkFormat returns the VkFormat of the image data.
func (k *KTX2) VkFormat() uint32 {
	if k.t.Destroyed() {
		return 0
	}
	return k.h.VkFormat()
}

// SupercompressionScheme returns the supercompression applied to the data.
func (k *KTX2) SupercompressionScheme() SupercompressionScheme {
	if k.t.Destroyed() {
		return SupercompressionNone
	}
	return k.h.SupercompressionScheme()
}

// NeedsTranscoding reports whether the image data holds Basis Universal
// intermediate data that must be transcoded before a GPU can consume it.
func (k *KTX2) NeedsTranscoding() bool {
	if k.t.Destroyed() {
		return false
	}
	return k.h.NeedsTranscoding()
}

// NumComponents returns the number of components in the image data format.
func (k *KTX2) NumComponents() uint32 {
	if k.t.Destroyed() {
		return 0
	}
	return k.h.NumComponents()
}

// ComponentInfo returns the number of components and the byte length of each.
func (k *KTX2) ComponentInfo() (numComponents, componentByteLength uint32) {
	if k.t.Destroyed() {
		return 0, 0
	}
	return k.h.ComponentInfo()
}

// OETF returns the opto-electrical transfer function of the image data, as a
// khr_df_transfer_e value.
func (k *KTX2) OETF() uint32 {
	if k.t.Destroyed() {
		return 0
	}
	return k.h.OETF()
}

// PremultipliedAlpha reports whether the image alpha is premultiplied.
func (k *KTX2) PremultipliedAlpha() bool {
	if k.t.Destroyed() {
		return false
	}
	return k.h.PremultipliedAlpha()
}

// IsVideo reports whether the array layers hold video frames.
func (k *KTX2) IsVideo() bool {
	if k.t.Destroyed() {
		return false
	}
	return k.h.IsVideo()
}

// Duration returns the video duration in units of Timescale. Zero for
// non-video textures.
func (k *KTX2) Duration() uint32 {
	if k.t.Destroyed() {
		return 0
	}
	return k.h.Duration()
}

// Timescale returns the number of time units per second for Duration.
func (k *KTX2) Timescale() uint32 {
	if k.t.Destroyed() {
		return 0
	}
	return k.h.Timescale()
}

// LoopCount returns the number of times the video repeats; 0 means forever.
func (k *KTX2) LoopCount() uint32 {
	if k.t.Destroyed() {
		return 0
	}
	return k.h.LoopCount()
}

// TranscodeBasis transcodes Basis Universal image data to the given target
// format in place. The texture must need transcoding; image data must be
// loaded. On success VkFormat, DataSize and the data itself reflect the
// target format and NeedsTranscoding reports false.
func (k *KTX2) TranscodeBasis(format TranscodeFormat, flags TranscodeFlags) error {
	if _, err := k.t.h("TranscodeBasis"); err != nil {
		return err
	}
	Logger().Debug("ktx: transcoding", "format", format.String(), "flags", uint32(flags))
	return errFromCode("TranscodeBasis", k.h.TranscodeBasis(format, flags))
}

// CompressBasis encodes the image data to Basis Universal ETC1S with the
// given quality in [1, 255] (0 selects the encoder default). It is
// CompressBasisEx with only the quality set.
func (k *KTX2) CompressBasis(quality uint32) error {
	return k.CompressBasisEx(&BasisParams{QualityLevel: quality})
}

// CompressBasisEx encodes the image data to Basis Universal, either ETC1S or
// UASTC per params. The texture must hold uncompressed pixel data.
func (k *KTX2) CompressBasisEx(params *BasisParams) error {
	if _, err := k.t.h("CompressBasisEx"); err != nil {
		return err
	}
	if params == nil {
		return &Error{Op: "CompressBasisEx", Code: InvalidValue}
	}
	return errFromCode("CompressBasisEx", k.h.CompressBasisEx(params))
}

// CompressAstcEx encodes the image data to ASTC per params. The texture must
// hold uncompressed pixel data.
func (k *KTX2) CompressAstcEx(params *AstcParams) error {
	if _, err := k.t.h("CompressAstcEx"); err != nil {
		return err
	}
	if params == nil {
		return &Error{Op: "CompressAstcEx", Code: InvalidValue}
	}
	return errFromCode("CompressAstcEx", k.h.CompressAstcEx(params))
}

// DeflateZstd supercompresses the image data with Zstandard at the given
// level in [1, 22].
func (k *KTX2) DeflateZstd(level uint32) error {
	if _, err := k.t.h("DeflateZstd"); err != nil {
		return err
	}
	return errFromCode("DeflateZstd", k.h.DeflateZstd(level))
}

// DeflateZLIB supercompresses the image data with ZLIB at the given level in
// [1, 9].
func (k *KTX2) DeflateZLIB(level uint32) error {
	if _, err := k.t.h("DeflateZLIB"); err != nil {
		return err
	}
	return errFromCode("DeflateZLIB", k.h.DeflateZLIB(level))
}
