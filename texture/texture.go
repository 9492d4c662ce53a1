// Package texture decodes images and uploads them as 2D textures.
package texture

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/richinsley/goglharness/graphics"
)

// Options controls sampling and orientation of an uploaded texture.
type Options struct {
	Wrap   graphics.TextureWrap
	Filter graphics.TextureFilter
	// FlipY stores the image bottom row first, matching GL texture space.
	FlipY bool
}

// DefaultOptions repeats, filters with mipmaps and flips to GL orientation.
func DefaultOptions() Options {
	return Options{Wrap: graphics.WrapRepeat, Filter: graphics.FilterMipmap, FlipY: true}
}

// Texture is an uploaded 2D texture.
type Texture struct {
	device graphics.TextureDevice
	id     uint32
	width  int
	height int
}

// vflip vertically flips the provided RGBA image.
func vflip(src *image.RGBA) *image.RGBA {
	bounds := src.Bounds()
	flipped := image.NewRGBA(bounds)
	height := bounds.Dy()

	rowSize := bounds.Dx() * 4
	for y := 0; y < height; y++ {
		srcRow := src.Pix[((height-1)-y)*src.Stride:]
		dstRow := flipped.Pix[y*flipped.Stride:]
		copy(dstRow, srcRow[:rowSize])
	}
	return flipped
}

// toRGBA converts img to a tightly packed RGBA image anchored at the origin.
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(rgba, rgba.Bounds(), img, b.Min, xdraw.Src)
	return rgba
}

// Decode reads an image file in any registered format (png, jpeg, gif, bmp,
// tiff, webp).
func Decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	log.Printf("Decoded %s image %s (%dx%d)", format, path, img.Bounds().Dx(), img.Bounds().Dy())
	return img, nil
}

// New uploads img to a new texture and leaves it unbound.
func New(d graphics.TextureDevice, img image.Image, opts Options) (*Texture, error) {
	if img == nil {
		return nil, fmt.Errorf("texture image is nil")
	}
	rgba := toRGBA(img)
	width, height := rgba.Rect.Dx(), rgba.Rect.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("texture image is empty (%dx%d)", width, height)
	}
	if opts.FlipY {
		rgba = vflip(rgba)
	}

	id := d.GenTexture()
	d.BindTexture(id)
	d.SetTextureWrap(opts.Wrap)
	d.SetTextureFilter(opts.Filter)
	d.TexImage2D(int32(width), int32(height), rgba.Pix)
	if opts.Filter == graphics.FilterMipmap {
		d.GenerateMipmap()
	}
	d.BindTexture(0)

	return &Texture{device: d, id: id, width: width, height: height}, nil
}

// Load decodes path and uploads it.
func Load(d graphics.TextureDevice, path string, opts Options) (*Texture, error) {
	img, err := Decode(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load texture: %w", err)
	}
	return New(d, img, opts)
}

// Checkerboard returns a size x size image of cells x cells alternating squares.
func Checkerboard(size, cells int, a, b color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	if cells <= 0 {
		cells = 1
	}
	cell := size / cells
	if cell == 0 {
		cell = 1
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func (t *Texture) ID() uint32 {
	return t.id
}

func (t *Texture) Size() (int, int) {
	return t.width, t.height
}

// Bind makes t the texture on unit.
func (t *Texture) Bind(unit uint32) {
	t.device.ActiveTexture(unit)
	t.device.BindTexture(t.id)
}

// Delete releases the texture.
func (t *Texture) Delete() {
	if t.id == 0 {
		return
	}
	t.device.DeleteTexture(t.id)
	t.id = 0
}
