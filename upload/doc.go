// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package upload transfers KTX texture data into GPU textures.
//
// It speaks two GPU surfaces:
//
//   - gogpu/wgpu/hal for full control: Uploader creates a hal.Texture with
//     the right format and mip count and writes every level through the
//     queue. Use this from engine code that already owns a hal.Device.
//
//   - gogpu/gpucontext for the simple case: RGBA8ToContext feeds the base
//     level of an RGBA8 texture to a gpucontext.TextureCreator, the
//     integration surface application frameworks expose.
//
// Textures holding Basis Universal intermediate data must be transcoded to a
// GPU format first; Uploader rejects them with ErrNeedsTranscode.
package upload
