package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/reoring/skemagen/internal/logging"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "skemagen",
		Usage: "generate Go models and JSON codecs from schema documents",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to skemagen.yaml"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log debug output"},
			&cli.BoolFlag{Name: "no-color", Usage: "disable colored output"},
		},
		Before: func(c *cli.Context) error {
			c.Context = logging.Setup(c.Context, c.App.ErrWriter, c.Bool("verbose"), !c.Bool("no-color"))
			return nil
		},
		Commands: []*cli.Command{
			compileCommand(),
			inspectCommand(),
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "skemagen: %s\n", err)
		os.Exit(1)
	}
}
