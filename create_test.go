package ktx

import (
	"errors"
	"testing"
)

func rgba8CreateInfo(w, h uint32) *KTX2CreateInfo {
	return &KTX2CreateInfo{
		CommonCreateInfo: CommonCreateInfo{
			BaseWidth:     w,
			BaseHeight:    h,
			BaseDepth:     1,
			NumDimensions: 2,
			NumLevels:     1,
			NumLayers:     1,
			NumFaces:      1,
		},
		VkFormat: 37, // VK_FORMAT_R8G8B8A8_UNORM
	}
}

func TestNewTextureKTX2(t *testing.T) {
	newMockBinding().install(t)

	tex, err := NewTexture(rgba8CreateInfo(8, 8), AllocStorage)
	if err != nil {
		t.Fatalf("NewTexture() error = %v", err)
	}
	defer tex.Destroy()

	if got := tex.Class(); got != ClassKTX2 {
		t.Errorf("Class() = %v, want KTX2", got)
	}
	size, err := tex.DataSize()
	if err != nil {
		t.Fatalf("DataSize() error = %v", err)
	}
	if size != 8*8*4 {
		t.Errorf("DataSize() = %d, want %d", size, 8*8*4)
	}
}

func TestNewTextureKTX1(t *testing.T) {
	newMockBinding().install(t)

	info := &KTX1CreateInfo{
		CommonCreateInfo: CommonCreateInfo{
			BaseWidth:     4,
			BaseHeight:    4,
			BaseDepth:     1,
			NumDimensions: 2,
			NumLevels:     1,
			NumLayers:     1,
			NumFaces:      1,
		},
		GLInternalFormat: 0x8058, // GL_RGBA8
	}
	tex, err := NewTexture(info, AllocStorage)
	if err != nil {
		t.Fatalf("NewTexture() error = %v", err)
	}
	defer tex.Destroy()

	k1, ok := tex.KTX1()
	if !ok {
		t.Fatal("KTX1() ok = false, want true")
	}
	if got := k1.GLInternalFormat(); got != 0x8058 {
		t.Errorf("GLInternalFormat() = %#x, want 0x8058", got)
	}
	if _, ok := tex.KTX2(); ok {
		t.Error("KTX2() on a KTX1 texture ok = true, want false")
	}
}

func TestNewTextureBadInfoType(t *testing.T) {
	newMockBinding().install(t)

	_, err := NewTexture("not a create info", NoStorage)
	if !errors.Is(err, ErrInvalidValue) {
		t.Errorf("NewTexture(string) error = %v, want InvalidValue", err)
	}
}

func TestNewTextureInvalidGeometry(t *testing.T) {
	newMockBinding().install(t)

	tests := []struct {
		name   string
		mutate func(*KTX2CreateInfo)
	}{
		{"zero width", func(ci *KTX2CreateInfo) { ci.BaseWidth = 0 }},
		{"zero levels", func(ci *KTX2CreateInfo) { ci.NumLevels = 0 }},
		{"zero layers", func(ci *KTX2CreateInfo) { ci.NumLayers = 0 }},
		{"bad dims", func(ci *KTX2CreateInfo) { ci.NumDimensions = 4 }},
		{"bad faces", func(ci *KTX2CreateInfo) { ci.NumFaces = 3 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := rgba8CreateInfo(8, 8)
			tt.mutate(info)
			if _, err := NewTexture(info, NoStorage); err == nil {
				t.Error("NewTexture() error = nil, want error")
			}
		})
	}
}

func TestNewTextureNonSquareCubemap(t *testing.T) {
	newMockBinding().install(t)

	info := rgba8CreateInfo(8, 4)
	info.NumFaces = 6
	_, err := NewTexture(info, NoStorage)
	if !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("NewTexture(non-square cubemap) error = %v, want InvalidOperation", err)
	}
}

func TestSetImageFromMemory(t *testing.T) {
	newMockBinding().install(t)

	tex, err := NewTexture(rgba8CreateInfo(2, 2), AllocStorage)
	if err != nil {
		t.Fatalf("NewTexture() error = %v", err)
	}
	defer tex.Destroy()

	pixels := make([]byte, 2*2*4)
	for i := range pixels {
		pixels[i] = 0x7F
	}
	if err := tex.SetImageFromMemory(0, 0, 0, pixels); err != nil {
		t.Fatalf("SetImageFromMemory() error = %v", err)
	}

	data, err := tex.Data()
	if err != nil {
		t.Fatalf("Data() error = %v", err)
	}
	if data[0] != 0x7F || data[len(data)-1] != 0x7F {
		t.Error("SetImageFromMemory() did not fill level data")
	}
}

func TestSetImageFromMemoryWrongSize(t *testing.T) {
	newMockBinding().install(t)

	tex, err := NewTexture(rgba8CreateInfo(2, 2), AllocStorage)
	if err != nil {
		t.Fatalf("NewTexture() error = %v", err)
	}
	defer tex.Destroy()

	if err := tex.SetImageFromMemory(0, 0, 0, make([]byte, 3)); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("SetImageFromMemory(short) error = %v, want InvalidValue", err)
	}
}

func TestSetImageFromMemoryNoStorage(t *testing.T) {
	newMockBinding().install(t)

	tex, err := NewTexture(rgba8CreateInfo(2, 2), NoStorage)
	if err != nil {
		t.Fatalf("NewTexture() error = %v", err)
	}
	defer tex.Destroy()

	err = tex.SetImageFromMemory(0, 0, 0, make([]byte, 2*2*4))
	if !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("SetImageFromMemory() without storage error = %v, want InvalidOperation", err)
	}
}

func TestMaxLevels(t *testing.T) {
	tests := []struct {
		w, h, d uint32
		want    uint32
	}{
		{1, 1, 1, 1},
		{2, 2, 1, 2},
		{8, 4, 1, 4},
		{256, 256, 1, 9},
		{1024, 1, 1, 11},
		{0, 0, 0, 1},
		{100, 100, 1, 7},
	}
	for _, tt := range tests {
		if got := MaxLevels(tt.w, tt.h, tt.d); got != tt.want {
			t.Errorf("MaxLevels(%d, %d, %d) = %d, want %d", tt.w, tt.h, tt.d, got, tt.want)
		}
	}
}
