// Command palvideo runs the video driver demos and its offline tools.
package main

import (
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/phanxgames/palvideo"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	app := cli.NewApp()

	app.Name = "palvideo"
	app.Usage = "Paletted video driver demos and tools"
	app.Version = "0.1.0"
	app.Writer = stdout
	app.ErrWriter = stderr

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			EnvVars: []string{"PALVIDEO_CONFIG"},
			Usage:   "path to a JSON driver config",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "log at debug level",
		},
	}
	app.Before = func(c *cli.Context) error {
		level := slog.LevelInfo
		if c.Bool("verbose") {
			level = slog.LevelDebug
		}
		palvideo.SetLogger(slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: level})))
		return nil
	}

	app.Commands = []*cli.Command{
		playCommand(),
		playSDLCommand(),
		replayCommand(),
		quantizeCommand(),
	}
	return app
}

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// loadConfig reads --config, falling back to the defaults.
func loadConfig(c *cli.Context) (palvideo.Config, error) {
	path := c.String("config")
	if path == "" {
		return palvideo.DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return palvideo.Config{}, err
	}
	return palvideo.LoadConfig(data)
}
