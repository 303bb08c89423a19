// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command ktxinfo inspects and converts KTX texture containers.
package main

import (
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/gogpu/ktx"
	"github.com/gogpu/ktx/imageutil"
	_ "github.com/gogpu/ktx/sys"
)

// CLI defines the command-line interface using Kong.
var CLI struct {
	Verbose bool `name:"verbose" short:"v" help:"Enable debug logging"`

	Info      InfoCmd      `cmd:"" help:"Print container information"`
	Transcode TranscodeCmd `cmd:"" help:"Transcode Basis Universal data to a GPU format"`
	Create    CreateCmd    `cmd:"" help:"Create a KTX2 container from a PNG image"`
}

// transcodeFormats maps CLI spellings to transcode targets.
var transcodeFormats = map[string]ktx.TranscodeFormat{
	"etc1":     ktx.TranscodeETC1RGB,
	"etc2":     ktx.TranscodeETC2RGBA,
	"bc1":      ktx.TranscodeBC1RGB,
	"bc3":      ktx.TranscodeBC3RGBA,
	"bc4":      ktx.TranscodeBC4R,
	"bc5":      ktx.TranscodeBC5RG,
	"bc7":      ktx.TranscodeBC7RGBA,
	"astc":     ktx.TranscodeASTC4x4RGBA,
	"rgba32":   ktx.TranscodeRGBA32,
	"rgb565":   ktx.TranscodeRGB565,
	"bgr565":   ktx.TranscodeBGR565,
	"rgba4444": ktx.TranscodeRGBA4444,
}

// InfoCmd prints header fields and metadata of a container.
type InfoCmd struct {
	Path string `arg:"" type:"existingfile" help:"KTX1 or KTX2 file"`
}

func (c *InfoCmd) Run() error {
	tex, err := ktx.OpenFile(c.Path, 0)
	if err != nil {
		return err
	}
	defer tex.Destroy()

	fmt.Printf("%s: %s\n", c.Path, tex.Class())
	fmt.Printf("  size:       %dx%dx%d (%dD)\n",
		tex.BaseWidth(), tex.BaseHeight(), max(tex.BaseDepth(), 1), tex.NumDimensions())
	fmt.Printf("  levels:     %d\n", tex.NumLevels())
	fmt.Printf("  layers:     %d\n", tex.NumLayers())
	fmt.Printf("  faces:      %d\n", tex.NumFaces())
	fmt.Printf("  array:      %v\n", tex.IsArray())
	fmt.Printf("  cubemap:    %v\n", tex.IsCubemap())
	fmt.Printf("  compressed: %v\n", tex.IsCompressed())

	o := tex.Orientation()
	fmt.Printf("  orientation: %c%c\n", o.X, o.Y)

	if k2, ok := tex.KTX2(); ok {
		fmt.Printf("  vkFormat:   %d\n", k2.VkFormat())
		fmt.Printf("  scheme:     %s\n", k2.SupercompressionScheme())
		fmt.Printf("  transcode:  %v\n", k2.NeedsTranscoding())
		n, bytes := k2.ComponentInfo()
		fmt.Printf("  components: %d x %d bytes\n", n, bytes)
		if k2.IsVideo() {
			fmt.Printf("  video:      %d/%d s, loop %d\n",
				k2.Duration(), k2.Timescale(), k2.LoopCount())
		}
	}
	if k1, ok := tex.KTX1(); ok {
		fmt.Printf("  glInternalformat: %#x\n", k1.GLInternalFormat())
		fmt.Printf("  glFormat:         %#x\n", k1.GLFormat())
		fmt.Printf("  glType:           %#x\n", k1.GLType())
	}

	if writer, err := tex.MetadataString(ktx.MetaWriter); err == nil {
		fmt.Printf("  writer:     %s\n", writer)
	}
	return nil
}

// TranscodeCmd transcodes a Basis-encoded KTX2 file in one pass.
type TranscodeCmd struct {
	Input       string `arg:"" type:"existingfile" help:"Basis-encoded KTX2 file"`
	Output      string `arg:"" help:"Destination file"`
	Format      string `name:"format" short:"f" default:"bc7" help:"Target format: ${formats}"`
	HighQuality bool   `name:"high-quality" help:"Favor quality over speed"`
}

func (c *TranscodeCmd) Run() error {
	format, ok := transcodeFormats[strings.ToLower(c.Format)]
	if !ok {
		return fmt.Errorf("unknown format %q (want one of %s)", c.Format, formatNames())
	}

	tex, err := ktx.OpenFile(c.Input, ktx.CreateFlagLoadImageData)
	if err != nil {
		return err
	}
	defer tex.Destroy()

	k2, ok := tex.KTX2()
	if !ok {
		return fmt.Errorf("%s: transcoding requires a KTX2 container", c.Input)
	}
	if !k2.NeedsTranscoding() {
		return fmt.Errorf("%s: no Basis data to transcode", c.Input)
	}

	var flags ktx.TranscodeFlags
	if c.HighQuality {
		flags |= ktx.TranscodeHighQuality
	}
	if err := k2.TranscodeBasis(format, flags); err != nil {
		return err
	}
	if err := tex.WriteFile(c.Output); err != nil {
		return err
	}
	fmt.Printf("%s -> %s (%s)\n", c.Input, c.Output, format)
	return nil
}

// CreateCmd builds a KTX2 container from a PNG, optionally mipmapped and
// Basis-encoded.
type CreateCmd struct {
	Input   string `arg:"" type:"existingfile" help:"PNG image"`
	Output  string `arg:"" help:"Destination .ktx2 file"`
	Mipmaps bool   `name:"mipmaps" short:"m" help:"Generate the full mip chain"`
	SRGB    bool   `name:"srgb" help:"Mark the texture as sRGB-encoded"`
	Basis   uint32 `name:"basis" help:"Basis ETC1S quality in [1, 255]; 0 disables encoding"`
	Zstd    uint32 `name:"zstd" help:"Zstandard supercompression level in [1, 22]; 0 disables"`
}

func (c *CreateCmd) Run() error {
	f, err := os.Open(c.Input)
	if err != nil {
		return err
	}
	img, err := png.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("decode %s: %w", c.Input, err)
	}

	tex, err := imageutil.FromImage(img, imageutil.FromImageOptions{
		SRGB:            c.SRGB,
		GenerateMipmaps: c.Mipmaps,
	})
	if err != nil {
		return err
	}
	defer tex.Destroy()

	if err := tex.SetMetadataString(ktx.MetaWriter, "ktxinfo"); err != nil {
		return err
	}

	if c.Basis > 0 || c.Zstd > 0 {
		k2, ok := tex.KTX2()
		if !ok {
			return fmt.Errorf("internal: created texture is not KTX2")
		}
		if c.Basis > 0 {
			if err := k2.CompressBasis(c.Basis); err != nil {
				return err
			}
		}
		if c.Zstd > 0 {
			if err := k2.DeflateZstd(c.Zstd); err != nil {
				return err
			}
		}
	}

	if err := tex.WriteFile(c.Output); err != nil {
		return err
	}
	fmt.Printf("%s -> %s (%dx%d, %d levels)\n",
		c.Input, c.Output, tex.BaseWidth(), tex.BaseHeight(), tex.NumLevels())
	return nil
}

func formatNames() string {
	names := make([]string, 0, len(transcodeFormats))
	for name := range transcodeFormats {
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("ktxinfo"),
		kong.Description("Inspect, transcode and create KTX texture containers"),
		kong.UsageOnError(),
		kong.Vars{"formats": formatNames()},
	)

	if CLI.Verbose {
		ktx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	ctx.FatalIfErrorf(ctx.Run())
}
