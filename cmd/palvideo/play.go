package main

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/urfave/cli/v2"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/phanxgames/palvideo"
	"github.com/phanxgames/palvideo/ebitenvideo"
	"github.com/phanxgames/palvideo/sdlvideo"
)

func playFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "image",
			Usage: "image to quantize and show as the demo sprite",
		},
		&cli.IntFlag{
			Name:  "colors",
			Value: 64,
			Usage: "palette size for --image",
		},
		&cli.BoolFlag{
			Name:  "fullscreen",
			Usage: "start fullscreen",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "start with debug stats enabled",
		},
	}
}

// playSetup loads the config and builds the demo scene shared by both
// backends.
func playSetup(c *cli.Context) (palvideo.Config, *demoScene, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return cfg, nil, cli.Exit(err, 1)
	}
	if c.Bool("fullscreen") {
		cfg.Fullscreen = true
	}
	if c.Bool("debug") {
		cfg.Debug = true
	}

	var img image.Image
	if path := c.String("image"); path != "" {
		if img, err = readImage(path); err != nil {
			return cfg, nil, cli.Exit(err, 1)
		}
	}
	return cfg, newDemoScene(cfg, img, c.Int("colors")), nil
}

func readImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

func playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Run the demo scene on Ebitengine",
		Flags: playFlags(),
		Action: func(c *cli.Context) error {
			cfg, scene, err := playSetup(c)
			if err != nil {
				return err
			}
			g, err := ebitenvideo.NewGame(cfg, scene.env, scene)
			if err != nil {
				return cli.Exit(err, 1)
			}
			g.OnUpdate = func() error {
				scene.Update()
				scene.Paint(g.Compositor().Backbuffer())
				return g.Compositor().SwapBuffers()
			}
			g.OnDraw = func() {
				scene.Draw(g.Sprites())
				g.Sprites().EndFrame()
			}
			scene.compositor = g.Compositor()
			if err := ebitenvideo.Run(g); err != nil {
				return cli.Exit(err, 1)
			}
			return nil
		},
	}
}

func playSDLCommand() *cli.Command {
	return &cli.Command{
		Name:  "play-sdl",
		Usage: "Run the demo scene on SDL2 and OpenGL",
		Flags: playFlags(),
		Action: func(c *cli.Context) error {
			cfg, scene, err := playSetup(c)
			if err != nil {
				return err
			}
			var runErr error
			sdl.Main(func() {
				s, err := sdlvideo.NewSession(cfg, scene.env, scene)
				if err != nil {
					runErr = err
					return
				}
				defer s.Close()
				scene.compositor = s.Compositor()
				s.OnUpdate = func() error {
					scene.Update()
					scene.Paint(s.Compositor().Backbuffer())
					return nil
				}
				s.OnDraw = func() { scene.Draw(s.Sprites()) }
				runErr = s.Run()
			})
			if runErr != nil {
				return cli.Exit(runErr, 1)
			}
			return nil
		},
	}
}
