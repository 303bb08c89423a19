// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ktx

// Well-known metadata keys. Keys prefixed "KTX" or "ktx" are reserved by the
// format specification.
const (
	// MetaOrientation is the logical orientation key, e.g. "rd" or "ru".
	MetaOrientation = "KTXorientation"

	// MetaWriter identifies the tool that wrote the file.
	MetaWriter = "KTXwriter"

	// MetaWriterScParams records the supercompression parameters used by
	// the writer.
	MetaWriterScParams = "KTXwriterScParams"

	// MetaSwizzle is the component swizzle key, e.g. "rgba".
	MetaSwizzle = "KTXswizzle"
)

// Metadata looks up a key in the texture's key/value data block. A missing
// key fails with NotFound. The returned bytes are a copy owned by the caller.
//
// Values written by common tools are NUL-terminated strings; the terminator
// is included in the returned bytes.
func (t *Texture) Metadata(key string) ([]byte, error) {
	h, err := t.h("Metadata")
	if err != nil {
		return nil, err
	}
	value, code := h.FindMetadata(key)
	if code != Success {
		return nil, &Error{Op: "Metadata", Code: code}
	}
	return value, nil
}

// MetadataString is Metadata with a trailing NUL stripped, for the common
// case of string-valued keys.
func (t *Texture) MetadataString(key string) (string, error) {
	value, err := t.Metadata(key)
	if err != nil {
		return "", err
	}
	if n := len(value); n > 0 && value[n-1] == 0 {
		value = value[:n-1]
	}
	return string(value), nil
}

// SetMetadata adds or replaces a key/value pair in the key/value data block.
// An empty key fails with InvalidValue.
func (t *Texture) SetMetadata(key string, value []byte) error {
	h, err := t.h("SetMetadata")
	if err != nil {
		return err
	}
	if key == "" {
		return &Error{Op: "SetMetadata", Code: InvalidValue}
	}
	return errFromCode("SetMetadata", h.SetMetadata(key, value))
}

// SetMetadataString stores value as a NUL-terminated string, the convention
// used by KTX tooling for string-valued keys.
func (t *Texture) SetMetadataString(key, value string) error {
	return t.SetMetadata(key, append([]byte(value), 0))
}

// DeleteMetadata removes a key/value pair. A missing key fails with NotFound.
func (t *Texture) DeleteMetadata(key string) error {
	h, err := t.h("DeleteMetadata")
	if err != nil {
		return err
	}
	return errFromCode("DeleteMetadata", h.DeleteMetadata(key))
}
