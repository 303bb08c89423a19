// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ktx

import "io"

// OpenFile loads a KTX1 or KTX2 texture from a file on disk. The container
// class is detected from the file identifier; a file that is neither fails
// with UnknownFileFormat.
//
// The returned texture owns a native object; call Destroy when done.
func OpenFile(path string, flags CreateFlags) (*Texture, error) {
	b, err := binding("OpenFile")
	if err != nil {
		return nil, err
	}
	handle, code := b.CreateFromNamedFile(path, flags)
	if code != Success {
		return nil, &Error{Op: "OpenFile", Path: path, Code: code}
	}
	Logger().Debug("ktx: opened file", "path", path, "class", handle.Class().String())
	return newTexture(handle, nil), nil
}

// OpenMemory loads a KTX1 or KTX2 texture from an in-memory container. The
// binding copies whatever it needs, including the source bytes a deferred
// LoadImageData reads later: the caller keeps ownership of data and may
// modify or discard it as soon as OpenMemory returns.
func OpenMemory(data []byte, flags CreateFlags) (*Texture, error) {
	b, err := binding("OpenMemory")
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, &Error{Op: "OpenMemory", Code: InvalidValue}
	}
	handle, code := b.CreateFromMemory(data, flags)
	if code != Success {
		return nil, &Error{Op: "OpenMemory", Code: code}
	}
	return newTexture(handle, nil), nil
}

// OpenStream loads a KTX1 or KTX2 texture through a Stream. The texture
// takes ownership of the stream: it stays alive for the texture's lifetime
// (the native object may read from it lazily, see CreateFlagLoadImageData)
// and is destroyed together with the texture.
//
// On failure the stream is destroyed before returning.
func OpenStream(s *Stream, flags CreateFlags) (*Texture, error) {
	b, err := binding("OpenStream")
	if err != nil {
		return nil, err
	}
	if s == nil || s.Destroyed() {
		return nil, &Error{Op: "OpenStream", Code: InvalidValue}
	}
	handle, code := b.CreateFromStream(s, flags)
	if code != Success {
		s.Destroy()
		return nil, &Error{Op: "OpenStream", Code: code}
	}
	return newTexture(handle, s), nil
}

// OpenReader loads a texture from an io.ReadSeeker. It is OpenStream with the
// stream wrapping done for the caller. When r implements io.Closer it is
// closed when the texture is destroyed.
func OpenReader(r io.ReadSeeker, flags CreateFlags) (*Texture, error) {
	s := NewReadStream(r)
	if _, ok := r.(io.Closer); ok {
		s.SetCloseOnDestroy(true)
	}
	return OpenStream(s, flags)
}
