package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/phanxgames/palvideo"
)

func quantizeCommand() *cli.Command {
	return &cli.Command{
		Name:      "quantize",
		Usage:     "Reduce an image to a paletted sprite and write a PNG preview",
		ArgsUsage: "INPUT OUTPUT",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "colors",
				Value: palvideo.PaletteSize,
				Usage: "maximum palette entries",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
			}
			img, err := readImage(c.Args().Get(0))
			if err != nil {
				return cli.Exit(err, 1)
			}
			s := palvideo.QuantizeImage(img, c.Int("colors"))
			if err := writePaletted(c.Args().Get(1), spriteImage(s)); err != nil {
				return cli.Exit(err, 1)
			}
			fmt.Fprintf(c.App.Writer, "%dx%d, %d colors\n", s.Width, s.Height, usedColors(s))
			return nil
		},
	}
}

// spriteImage converts a paletted sprite back to an image for encoding.
func spriteImage(s *palvideo.Sprite) *image.Paletted {
	pal := make(color.Palette, palvideo.PaletteSize)
	for i, c := range s.Palette() {
		pal[i] = color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
	}
	img := image.NewPaletted(image.Rect(0, 0, s.Width, s.Height), pal)
	copy(img.Pix, s.Pixels)
	return img
}

// usedColors counts distinct indices referenced by the sprite.
func usedColors(s *palvideo.Sprite) int {
	var seen [palvideo.PaletteSize]bool
	n := 0
	for _, idx := range s.Pixels[:s.Width*s.Height] {
		if !seen[idx] {
			seen[idx] = true
			n++
		}
	}
	return n
}

func writePaletted(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
