package ktx

import (
	"errors"
	"testing"
)

func TestIterateLevels(t *testing.T) {
	newMockBinding().install(t)

	tex, err := OpenMemory(mockKTX2Bytes(t, 8, 8), CreateFlagLoadImageData)
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	defer tex.Destroy()

	var visited []int32
	err = tex.IterateLevels(func(img LevelImage) error {
		visited = append(visited, img.Level)
		// The fixture tags every byte of level l with l+1.
		want := byte(img.Level + 1)
		for _, b := range img.Pixels {
			if b != want {
				t.Errorf("level %d pixel = %d, want %d", img.Level, b, want)
				break
			}
		}
		wantW := int32(8 >> img.Level)
		if wantW < 1 {
			wantW = 1
		}
		if img.Width != wantW {
			t.Errorf("level %d width = %d, want %d", img.Level, img.Width, wantW)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("IterateLevels() error = %v", err)
	}

	want := []int32{0, 1, 2, 3}
	if len(visited) != len(want) {
		t.Fatalf("visited %d levels, want %d", len(visited), len(want))
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Errorf("visit order = %v, want %v", visited, want)
			break
		}
	}
}

func TestIterateLevelsAbort(t *testing.T) {
	newMockBinding().install(t)

	tex, err := OpenMemory(mockKTX2Bytes(t, 8, 8), CreateFlagLoadImageData)
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	defer tex.Destroy()

	sentinel := errors.New("stop after base level")
	var visits int
	err = tex.IterateLevels(func(img LevelImage) error {
		visits++
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("IterateLevels() error = %v, want the visitor's error", err)
	}
	if visits != 1 {
		t.Errorf("visits = %d, want 1 (walk aborted)", visits)
	}
}

func TestIterateLevelsNativeErrorFromVisitor(t *testing.T) {
	newMockBinding().install(t)

	tex, err := OpenMemory(mockKTX2Bytes(t, 8, 8), CreateFlagLoadImageData)
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	defer tex.Destroy()

	err = tex.IterateLevels(func(img LevelImage) error {
		return errFromCode("visit", OutOfMemory)
	})
	if !errors.Is(err, ErrOutOfMemory) {
		t.Errorf("IterateLevels() error = %v, want OutOfMemory preserved", err)
	}
}

func TestIterateLevelsNotLoaded(t *testing.T) {
	newMockBinding().install(t)

	tex, err := OpenMemory(mockKTX2Bytes(t, 8, 8), 0)
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	defer tex.Destroy()

	err = tex.IterateLevels(func(LevelImage) error { return nil })
	if !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("IterateLevels() without data error = %v, want InvalidOperation", err)
	}
}

func TestLoadImageDataDeferred(t *testing.T) {
	newMockBinding().install(t)

	tex, err := OpenMemory(mockKTX2Bytes(t, 4, 4), 0)
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	defer tex.Destroy()

	if _, err := tex.Data(); err == nil {
		t.Fatal("Data() before LoadImageData error = nil, want error")
	}
	if err := tex.LoadImageData(); err != nil {
		t.Fatalf("LoadImageData() error = %v", err)
	}
	if _, err := tex.Data(); err != nil {
		t.Errorf("Data() after LoadImageData error = %v", err)
	}
	// Loading twice is an error.
	if err := tex.LoadImageData(); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("second LoadImageData() error = %v, want InvalidOperation", err)
	}
}

func TestImageOffsetAndSize(t *testing.T) {
	newMockBinding().install(t)

	tex, err := OpenMemory(mockKTX2Bytes(t, 8, 8), CreateFlagLoadImageData)
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	defer tex.Destroy()

	off0, err := tex.ImageOffset(0, 0, 0)
	if err != nil {
		t.Fatalf("ImageOffset(0) error = %v", err)
	}
	if off0 != 0 {
		t.Errorf("ImageOffset(0) = %d, want 0", off0)
	}

	size0, err := tex.ImageSize(0)
	if err != nil {
		t.Fatalf("ImageSize(0) error = %v", err)
	}
	if size0 != 8*8*4 {
		t.Errorf("ImageSize(0) = %d, want %d", size0, 8*8*4)
	}

	// Level 1 starts where level 0 ends.
	off1, err := tex.ImageOffset(1, 0, 0)
	if err != nil {
		t.Fatalf("ImageOffset(1) error = %v", err)
	}
	if off1 != size0 {
		t.Errorf("ImageOffset(1) = %d, want %d", off1, size0)
	}
}

func TestImageOffsetOutOfRange(t *testing.T) {
	newMockBinding().install(t)

	tex, err := OpenMemory(mockKTX2Bytes(t, 8, 8), CreateFlagLoadImageData)
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	defer tex.Destroy()

	if _, err := tex.ImageOffset(99, 0, 0); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("ImageOffset(99) error = %v, want InvalidOperation", err)
	}
	if _, err := tex.ImageOffset(0, 5, 0); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("ImageOffset(layer 5) error = %v, want InvalidOperation", err)
	}
	if _, err := tex.ImageSize(99); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("ImageSize(99) error = %v, want InvalidOperation", err)
	}
}

func TestImage(t *testing.T) {
	newMockBinding().install(t)

	tex, err := OpenMemory(mockKTX2Bytes(t, 8, 8), CreateFlagLoadImageData)
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	defer tex.Destroy()

	img, err := tex.Image(2, 0, 0)
	if err != nil {
		t.Fatalf("Image(2) error = %v", err)
	}
	if len(img) != 2*2*4 {
		t.Errorf("len(Image(2)) = %d, want %d", len(img), 2*2*4)
	}
	for _, b := range img {
		if b != 3 {
			t.Errorf("Image(2) pixel = %d, want 3", b)
			break
		}
	}
}

func TestLevels(t *testing.T) {
	newMockBinding().install(t)

	tex, err := OpenMemory(mockKTX2Bytes(t, 8, 8), CreateFlagLoadImageData)
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	defer tex.Destroy()

	levels, err := tex.Levels()
	if err != nil {
		t.Fatalf("Levels() error = %v", err)
	}
	if len(levels) != 4 {
		t.Fatalf("len(Levels()) = %d, want 4", len(levels))
	}

	var off uint64
	for i, info := range levels {
		if info.Level != uint32(i) {
			t.Errorf("levels[%d].Level = %d, want %d", i, info.Level, i)
		}
		wantW := uint32(8 >> i)
		if wantW < 1 {
			wantW = 1
		}
		if info.Width != wantW || info.Height != wantW {
			t.Errorf("levels[%d] = %dx%d, want %dx%d", i, info.Width, info.Height, wantW, wantW)
		}
		if info.Offset != off {
			t.Errorf("levels[%d].Offset = %d, want %d", i, info.Offset, off)
		}
		if info.Size != uint64(wantW*wantW*4) {
			t.Errorf("levels[%d].Size = %d, want %d", i, info.Size, wantW*wantW*4)
		}
		off += info.Size
	}

	// Descriptors work without loaded image data too.
	deferred, err := OpenMemory(mockKTX2Bytes(t, 8, 8), 0)
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	defer deferred.Destroy()
	if _, err := deferred.Levels(); err != nil {
		t.Errorf("Levels() without image data error = %v", err)
	}

	tex.Destroy()
	if _, err := tex.Levels(); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("Levels() after Destroy error = %v, want InvalidOperation", err)
	}
}

func TestLevelDimensions(t *testing.T) {
	newMockBinding().install(t)

	tex, err := OpenMemory(mockKTX2Bytes(t, 8, 4), CreateFlagLoadImageData)
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	defer tex.Destroy()

	tests := []struct {
		level   uint32
		w, h, d uint32
	}{
		{0, 8, 4, 1},
		{1, 4, 2, 1},
		{2, 2, 1, 1},
		{3, 1, 1, 1},
	}
	for _, tt := range tests {
		w, h, d := tex.LevelDimensions(tt.level)
		if w != tt.w || h != tt.h || d != tt.d {
			t.Errorf("LevelDimensions(%d) = %d,%d,%d, want %d,%d,%d",
				tt.level, w, h, d, tt.w, tt.h, tt.d)
		}
	}
}

func TestRowPitch(t *testing.T) {
	newMockBinding().install(t)

	tex, err := OpenMemory(mockKTX2Bytes(t, 8, 8), CreateFlagLoadImageData)
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	defer tex.Destroy()

	if got := tex.RowPitch(0); got != 8*4 {
		t.Errorf("RowPitch(0) = %d, want %d", got, 8*4)
	}
	if got := tex.RowPitch(3); got != 4 {
		t.Errorf("RowPitch(3) = %d, want 4", got)
	}
	if got := tex.ElementSize(); got != 4 {
		t.Errorf("ElementSize() = %d, want 4", got)
	}
}
