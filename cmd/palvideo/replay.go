package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/phanxgames/palvideo"
)

func replayCommand() *cli.Command {
	return &cli.Command{
		Name:        "replay",
		Usage:       "Replay a JSON gesture script and print the classified events",
		Description: "Each line is the classifier clock in milliseconds followed by the event.",
		ArgsUsage:   "SCRIPT",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
			}
			data, err := os.ReadFile(c.Args().First())
			if err != nil {
				return cli.Exit(err, 1)
			}
			if err := replay(data, c.App.Writer); err != nil {
				return cli.Exit(err, 1)
			}
			return nil
		},
	}
}

// replay runs the whole script and writes one line per classified event.
func replay(script []byte, w io.Writer) error {
	runner, err := palvideo.LoadGestureScript(script)
	if err != nil {
		return err
	}
	var (
		c      *palvideo.TouchGestureClassifier
		werr   error
		events int
	)
	c, err = runner.NewClassifier(palvideo.EventSinkFunc(func(e palvideo.InputEvent) {
		events++
		if werr == nil {
			_, werr = fmt.Fprintf(w, "%6d  %s\n", c.Now(), e)
		}
	}))
	if err != nil {
		return err
	}
	runner.Run(c)
	palvideo.Logger().Debug("replay done", "events", events)
	return werr
}
