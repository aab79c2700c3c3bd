package badge

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"landlord_rep/internal/adapters/observability"
	"landlord_rep/internal/reputation"
)

var (
	starOn  = color.RGBA{0xff, 0xb3, 0x00, 0xff}
	starOff = color.RGBA{0xe0, 0xe0, 0xe0, 0xff}

	fontOnce sync.Once
	fontTTF  *truetype.Font
	fontErr  error
)

func loadFont() (*truetype.Font, error) {
	fontOnce.Do(func() {
		fontTTF, fontErr = truetype.Parse(goregular.TTF)
	})
	return fontTTF, fontErr
}

// RenderPNG writes a PNG badge with the same star fill as RenderSVG.
func RenderPNG(w io.Writer, in Input) error {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	fill := in.Reputation.Stars
	for i := 0; i < reputation.StarCount; i++ {
		drawStar(img, starX(i), fill[i])
	}

	f, err := loadFont()
	if err != nil {
		return fmt.Errorf("parse badge font: %w", err)
	}
	face := truetype.NewFace(f, &truetype.Options{Size: 12, DPI: 72, Hinting: font.HintingFull})
	defer face.Close()

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(parseHex(tierColor(in.Reputation.Tier))),
		Face: face,
		Dot:  fixed.P(textX, padding+starSize-5),
	}
	d.DrawString(in.Caption())

	if err := png.Encode(w, img); err != nil {
		return err
	}
	observability.ObserveBadge("png")
	return nil
}

// drawStar paints the whole star grey, then the left fill fraction gold.
func drawStar(dst *image.RGBA, x, fill float64) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	pts := starPoints(x, padding)
	z.MoveTo(float32(pts[0][0]), float32(pts[0][1]))
	for _, p := range pts[1:] {
		z.LineTo(float32(p[0]), float32(p[1]))
	}
	z.ClosePath()

	mask := image.NewAlpha(b)
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	draw.DrawMask(dst, b, image.NewUniform(starOff), image.Point{}, mask, image.Point{}, draw.Over)
	if fill <= 0 {
		return
	}
	clip := image.Rect(int(x), 0, int(x+fill*starSize+0.5), b.Dy())
	draw.DrawMask(dst, clip, image.NewUniform(starOn), image.Point{}, mask, clip.Min, draw.Over)
}

func parseHex(s string) color.RGBA {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{0, 0, 0, 0xff}
	}
	return color.RGBA{r, g, b, 0xff}
}
