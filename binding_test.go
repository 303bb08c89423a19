package ktx

import (
	"errors"
	"testing"
)

func TestRegisterBinding(t *testing.T) {
	prev := ActiveBinding()
	t.Cleanup(func() { RegisterBinding(prev) })

	b := newMockBinding()
	RegisterBinding(b)
	if got := ActiveBinding(); got != Binding(b) {
		t.Errorf("ActiveBinding() = %v, want the registered mock", got)
	}

	// nil uninstalls.
	RegisterBinding(nil)
	if got := ActiveBinding(); got != nil {
		t.Errorf("ActiveBinding() after nil register = %v, want nil", got)
	}
}

func TestNoBindingLibraryNotLinked(t *testing.T) {
	prev := ActiveBinding()
	RegisterBinding(nil)
	t.Cleanup(func() { RegisterBinding(prev) })

	if _, err := OpenMemory([]byte{1}, 0); !errors.Is(err, ErrLibraryNotLinked) {
		t.Errorf("OpenMemory() error = %v, want LibraryNotLinked", err)
	}
	if _, err := OpenFile("missing.ktx2", 0); !errors.Is(err, ErrLibraryNotLinked) {
		t.Errorf("OpenFile() error = %v, want LibraryNotLinked", err)
	}
	if _, err := NewTexture(&KTX2CreateInfo{}, NoStorage); !errors.Is(err, ErrLibraryNotLinked) {
		t.Errorf("NewTexture() error = %v, want LibraryNotLinked", err)
	}

	s := NewReadStream(&seekBuffer{})
	defer s.Destroy()
	if _, err := OpenStream(s, 0); !errors.Is(err, ErrLibraryNotLinked) {
		t.Errorf("OpenStream() error = %v, want LibraryNotLinked", err)
	}
}

func TestBindingName(t *testing.T) {
	b := newMockBinding()
	b.install(t)
	if got := ActiveBinding().Name(); got != "mock" {
		t.Errorf("Name() = %q, want %q", got, "mock")
	}
}
