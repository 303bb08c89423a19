// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ktx

import "io"

// WriteFile serializes the texture container to a file on disk, in the same
// class (KTX1 or KTX2) the texture has in memory.
func (t *Texture) WriteFile(path string) error {
	h, err := t.h("WriteFile")
	if err != nil {
		return err
	}
	if err := errFromCodePath("WriteFile", path, h.WriteToNamedFile(path)); err != nil {
		return err
	}
	Logger().Debug("ktx: wrote file", "path", path)
	return nil
}

// WriteMemory serializes the texture container to a fresh byte slice owned by
// the caller.
func (t *Texture) WriteMemory() ([]byte, error) {
	h, err := t.h("WriteMemory")
	if err != nil {
		return nil, err
	}
	data, code := h.WriteToMemory()
	if code != Success {
		return nil, &Error{Op: "WriteMemory", Code: code}
	}
	return data, nil
}

// WriteStream serializes the texture container through s. The stream is only
// used for the duration of the call; the caller keeps ownership.
func (t *Texture) WriteStream(s *Stream) error {
	h, err := t.h("WriteStream")
	if err != nil {
		return err
	}
	if s == nil || s.Destroyed() {
		return &Error{Op: "WriteStream", Code: InvalidValue}
	}
	return errFromCode("WriteStream", h.WriteToStream(s))
}

// WriteTo serializes the texture container to w. It is WriteStream for plain
// writers: output is staged in memory first, so w does not need to seek.
// WriteTo implements io.WriterTo.
func (t *Texture) WriteTo(w io.Writer) (int64, error) {
	data, err := t.WriteMemory()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}
