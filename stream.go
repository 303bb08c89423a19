// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ktx

import (
	"io"
	"sync"
)

// Stream adapts a host-side seekable byte source to the native library's
// abstract stream interface. The native side sees a table of callbacks (read,
// skip, write, setpos, getpos, getsize, destruct); each callback forwards to
// the corresponding method here, so the semantics below are exactly what the
// native library observes.
//
// Ownership: the Stream (and its inner source) must stay alive for as long as
// the native side holds the stream handle. The wrapper types in this package
// take care of that — a Texture created from a Stream keeps it referenced, and
// a write call holds it for the duration of the call. Destroy releases the
// stream exactly once; every operation after Destroy fails with
// InvalidOperation and never touches the inner source.
//
// Stream is not safe for concurrent use.
type Stream struct {
	mu sync.Mutex

	r io.Reader
	w io.Writer
	s io.Seeker

	// closeOnDestroy closes the inner source on Destroy when it implements
	// io.Closer.
	closeOnDestroy bool

	destroyed bool
}

// NewStream wraps a read/write seekable source, usable for both loading and
// saving textures.
func NewStream(rws io.ReadWriteSeeker) *Stream {
	return &Stream{r: rws, w: rws, s: rws}
}

// NewReadStream wraps a read-only seekable source, usable for loading.
func NewReadStream(rs io.ReadSeeker) *Stream {
	return &Stream{r: rs, s: rs}
}

// NewWriteStream wraps a write-only seekable source, usable for saving.
func NewWriteStream(ws io.WriteSeeker) *Stream {
	return &Stream{w: ws, s: ws}
}

// SetCloseOnDestroy configures whether Destroy also closes the inner source
// (when it implements io.Closer). Off by default: the stream does not own the
// source unless told so.
func (s *Stream) SetCloseOnDestroy(close bool) {
	s.mu.Lock()
	s.closeOnDestroy = close
	s.mu.Unlock()
}

// Destroyed reports whether Destroy has been called.
func (s *Stream) Destroyed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destroyed
}

// Destroy releases the stream. It is idempotent: only the first call has any
// effect. If close-on-destroy is set and the inner source is an io.Closer, it
// is closed exactly once.
func (s *Stream) Destroy() {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return
	}
	s.destroyed = true
	closeInner := s.closeOnDestroy
	r, w := s.r, s.w
	s.mu.Unlock()

	if !closeInner {
		return
	}
	if c, ok := r.(io.Closer); ok {
		if err := c.Close(); err != nil {
			Logger().Warn("ktx: stream close failed", "error", err)
		}
		return
	}
	if c, ok := w.(io.Closer); ok {
		if err := c.Close(); err != nil {
			Logger().Warn("ktx: stream close failed", "error", err)
		}
	}
}

// guard returns InvalidOperation for destroyed streams, Success otherwise.
func (s *Stream) guard() Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return InvalidOperation
	}
	return Success
}

// Read fills dst completely from the source. A short read maps to
// FileUnexpectedEOF and any other failure to FileReadError, matching the
// exact-read contract of the native read callback.
func (s *Stream) Read(dst []byte) Code {
	if c := s.guard(); c != Success {
		return c
	}
	if s.r == nil {
		return FileReadError
	}
	if _, err := io.ReadFull(s.r, dst); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			Logger().Debug("ktx: stream read hit EOF", "want", len(dst))
			return FileUnexpectedEOF
		}
		Logger().Warn("ktx: stream read failed", "error", err)
		return FileReadError
	}
	return Success
}

// Skip advances the position by count bytes. Skipping before the start or,
// for readable streams, past the end fails with FileSeekError — the position
// is never silently clamped.
func (s *Stream) Skip(count int64) Code {
	if c := s.guard(); c != Success {
		return c
	}
	pos, code := s.Pos()
	if code != Success {
		return code
	}
	return s.Seek(pos+count, io.SeekStart)
}

// Seek moves the position to offset relative to whence (io.SeekStart,
// io.SeekCurrent or io.SeekEnd). Targets before the start fail. For readable
// streams, targets past the end fail as well; write streams may seek past the
// current end to extend the destination.
func (s *Stream) Seek(offset int64, whence int) Code {
	if c := s.guard(); c != Success {
		return c
	}
	if s.s == nil {
		return FileSeekError
	}

	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		pos, code := s.Pos()
		if code != Success {
			return code
		}
		target = pos + offset
	case io.SeekEnd:
		size, code := s.Size()
		if code != Success {
			return code
		}
		target = size + offset
	default:
		return FileSeekError
	}

	if target < 0 {
		Logger().Debug("ktx: stream seek before start", "target", target)
		return FileSeekError
	}
	if s.r != nil {
		size, code := s.Size()
		if code != Success {
			return code
		}
		if target > size {
			Logger().Debug("ktx: stream seek past end", "target", target, "size", size)
			return FileSeekError
		}
	}

	if _, err := s.s.Seek(target, io.SeekStart); err != nil {
		Logger().Warn("ktx: stream seek failed", "error", err)
		return FileSeekError
	}
	return Success
}

// SetPos moves the position to an absolute offset. This is the native setpos
// callback; it is Seek with begin addressing.
func (s *Stream) SetPos(offset int64) Code {
	return s.Seek(offset, io.SeekStart)
}

// Pos returns the current position.
func (s *Stream) Pos() (int64, Code) {
	if c := s.guard(); c != Success {
		return 0, c
	}
	if s.s == nil {
		return 0, FileSeekError
	}
	pos, err := s.s.Seek(0, io.SeekCurrent)
	if err != nil {
		Logger().Warn("ktx: stream position query failed", "error", err)
		return 0, FileSeekError
	}
	return pos, Success
}

// Size returns the total size of the source, determined by seeking to the
// end and restoring the position.
func (s *Stream) Size() (int64, Code) {
	if c := s.guard(); c != Success {
		return 0, c
	}
	if s.s == nil {
		return 0, FileSeekError
	}
	pos, err := s.s.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, FileSeekError
	}
	size, err := s.s.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, FileSeekError
	}
	if _, err := s.s.Seek(pos, io.SeekStart); err != nil {
		return 0, FileSeekError
	}
	return size, Success
}

// Write writes all of src to the destination, mapping any failure to
// FileWriteError.
func (s *Stream) Write(src []byte) Code {
	if c := s.guard(); c != Success {
		return c
	}
	if s.w == nil {
		return FileWriteError
	}
	if _, err := s.w.Write(src); err != nil {
		Logger().Warn("ktx: stream write failed", "error", err)
		return FileWriteError
	}
	return Success
}
