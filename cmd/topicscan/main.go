// Command topicscan discovers topics in a running ROS environment and
// reports their schemas, peers and message rates.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/topicscan/go/ros"
)

func main() {
	app := &cli.App{
		Name:  "topicscan",
		Usage: "discover ROS topics and report schemas, peers and rates",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log command invocations to stderr",
			},
			&cli.StringFlag{
				Name:  "rostopic",
				Usage: "path to the rostopic tool",
			},
			&cli.StringFlag{
				Name:  "rosmsg",
				Usage: "path to the rosmsg tool",
			},
		},
		Commands: []*cli.Command{
			listCommand(),
			showCommand(),
			infoCommand(),
			hzCommand(),
			scanCommand(),
			snapshotsCommand(),
			diffCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds the stderr logger; data output stays on stdout.
func newLogger(c *cli.Context) zerolog.Logger {
	level := zerolog.WarnLevel
	if c.Bool("verbose") {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

// newRuntime builds the middleware adapter from the global flags.
func newRuntime(c *cli.Context) *ros.Runtime {
	rt := ros.NewRuntime().WithLogger(newLogger(c))
	if c.String("rostopic") != "" || c.String("rosmsg") != "" {
		rostopic := c.String("rostopic")
		rosmsg := c.String("rosmsg")
		if rostopic == "" {
			rostopic = "rostopic"
		}
		if rosmsg == "" {
			rosmsg = "rosmsg"
		}
		rt = rt.WithToolPaths(rostopic, rosmsg)
	}
	return rt
}
