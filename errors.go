// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ktx

import (
	"errors"
	"fmt"
)

// Code is a native libktx status code (ktx_error_code_e).
//
// The numeric values mirror the native enumeration exactly; they cross the
// call boundary unchanged. Codes the native library may add in the future are
// carried through as-is and render as "ktx error N".
type Code uint32

// Native status codes.
const (
	// Success is the native KTX_SUCCESS code.
	Success Code = iota

	// FileDataError: the data in the file is inconsistent with the spec.
	FileDataError

	// FileIsPipe: the file is a pipe or named pipe.
	FileIsPipe

	// FileOpenFailed: the target file could not be opened.
	FileOpenFailed

	// FileOverflow: the operation would exceed the max file size.
	FileOverflow

	// FileReadError: an error occurred while reading from the file.
	FileReadError

	// FileSeekError: an error occurred while seeking in the file.
	FileSeekError

	// FileUnexpectedEOF: the file did not contain enough data.
	FileUnexpectedEOF

	// FileWriteError: an error occurred while writing to the file.
	FileWriteError

	// GLError: a GL error was raised by a GL upload.
	GLError

	// InvalidOperation: the operation is not allowed in the current state.
	InvalidOperation

	// InvalidValue: a parameter value was not valid.
	InvalidValue

	// NotFound: the requested key was not found.
	NotFound

	// OutOfMemory: not enough memory to complete the operation.
	OutOfMemory

	// TranscodeFailed: transcoding of block-compressed data failed.
	TranscodeFailed

	// UnknownFileFormat: the file is not a KTX file.
	UnknownFileFormat

	// UnsupportedTextureType: the KTX file specifies an unsupported texture type.
	UnsupportedTextureType

	// UnsupportedFeature: the feature is not available in this library build.
	UnsupportedFeature

	// LibraryNotLinked: the necessary library component was not linked in.
	LibraryNotLinked
)

// codeStrings holds the message for each documented code, indexed by value.
// The texts match ktxErrorString in the native library.
var codeStrings = [...]string{
	Success:                "Operation was successful",
	FileDataError:          "The data in the file is inconsistent with the spec",
	FileIsPipe:             "The file is a pipe or named pipe",
	FileOpenFailed:         "The target file could not be opened",
	FileOverflow:           "The operation would exceed the max file size",
	FileReadError:          "An error occurred while reading from the file",
	FileSeekError:          "An error occurred while seeking in the file",
	FileUnexpectedEOF:      "File does not have enough data to satisfy request",
	FileWriteError:         "An error occurred while writing to the file",
	GLError:                "GL operations resulted in an error",
	InvalidOperation:       "The operation is not allowed in the current state",
	InvalidValue:           "A parameter value was not valid",
	NotFound:               "Requested key was not found",
	OutOfMemory:            "Not enough memory to complete the operation",
	TranscodeFailed:        "Transcoding of block compressed texture failed",
	UnknownFileFormat:      "The file not a KTX file",
	UnsupportedTextureType: "The KTX file specifies an unsupported texture type",
	UnsupportedFeature:     "Feature not included in in-use library or not yet implemented",
	LibraryNotLinked:       "Library dependency (OpenGL or Vulkan) not linked into application",
}

// String returns the native message for documented codes, or "ktx error N"
// for codes this wrapper does not know about.
func (c Code) String() string {
	if int(c) < len(codeStrings) {
		return codeStrings[c]
	}
	return fmt.Sprintf("ktx error %d", uint32(c))
}

// Known reports whether c is one of the documented native codes.
func (c Code) Known() bool {
	return int(c) < len(codeStrings)
}

// Error is a structured error carrying the native status code plus enough
// context to log or branch on: the failing operation and, where applicable,
// the file path involved.
//
// Error supports errors.Is against the package sentinels:
//
//	if errors.Is(err, ktx.ErrUnknownFileFormat) { ... }
type Error struct {
	// Op is the name of the failing operation, e.g. "OpenFile" or "TranscodeBasis".
	Op string

	// Path is the file path involved, if any.
	Path string

	// Code is the native status code, preserved verbatim.
	Code Code
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Path != "":
		return fmt.Sprintf("ktx: %s %s: %s", e.Op, e.Path, e.Code)
	case e.Op != "":
		return fmt.Sprintf("ktx: %s: %s", e.Op, e.Code)
	default:
		return "ktx: " + e.Code.String()
	}
}

// Is matches two Errors by code alone, so the context-free sentinels below
// match any error carrying the same native code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code && (t.Op == "" || t.Op == e.Op)
}

// Sentinel errors, one per documented native code. Match with errors.Is.
var (
	ErrFileDataError          = &Error{Code: FileDataError}
	ErrFileIsPipe             = &Error{Code: FileIsPipe}
	ErrFileOpenFailed         = &Error{Code: FileOpenFailed}
	ErrFileOverflow           = &Error{Code: FileOverflow}
	ErrFileReadError          = &Error{Code: FileReadError}
	ErrFileSeekError          = &Error{Code: FileSeekError}
	ErrFileUnexpectedEOF      = &Error{Code: FileUnexpectedEOF}
	ErrFileWriteError         = &Error{Code: FileWriteError}
	ErrGLError                = &Error{Code: GLError}
	ErrInvalidOperation       = &Error{Code: InvalidOperation}
	ErrInvalidValue           = &Error{Code: InvalidValue}
	ErrNotFound               = &Error{Code: NotFound}
	ErrOutOfMemory            = &Error{Code: OutOfMemory}
	ErrTranscodeFailed        = &Error{Code: TranscodeFailed}
	ErrUnknownFileFormat      = &Error{Code: UnknownFileFormat}
	ErrUnsupportedTextureType = &Error{Code: UnsupportedTextureType}
	ErrUnsupportedFeature     = &Error{Code: UnsupportedFeature}
	ErrLibraryNotLinked       = &Error{Code: LibraryNotLinked}

	// ErrTextureDestroyed is returned when operating on a destroyed texture.
	// It carries the InvalidOperation code, so errors.Is against
	// ErrInvalidOperation matches it too; the reverse does not hold for
	// InvalidOperation errors from live textures.
	ErrTextureDestroyed = &Error{Op: "destroyed texture", Code: InvalidOperation}
)

// errFromCode translates a native status code into an error for the given
// operation. Success translates to nil.
func errFromCode(op string, code Code) error {
	if code == Success {
		return nil
	}
	return &Error{Op: op, Code: code}
}

// errFromCodePath is errFromCode with a file path attached.
func errFromCodePath(op, path string, code Code) error {
	if code == Success {
		return nil
	}
	return &Error{Op: op, Path: path, Code: code}
}

// CodeOf extracts the native code from an error produced by this package.
// It returns Success, false when err is nil or not a ktx error.
func CodeOf(err error) (Code, bool) {
	if err == nil {
		return Success, false
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return Success, false
}
