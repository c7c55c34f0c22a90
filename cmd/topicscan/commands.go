package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	topicscan "github.com/topicscan/go"
	"github.com/topicscan/go/report"
	"github.com/topicscan/go/store"
)

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "print registered topic names",
		Action: func(c *cli.Context) error {
			topics, err := newRuntime(c).Topics(c.Context)
			if err != nil {
				return err
			}
			for _, topic := range topics {
				fmt.Println(topic)
			}
			return nil
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "parse one message type's schema and print it as JSON",
		ArgsUsage: "<type>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("message type required")
			}
			typeName := c.Args().First()

			text, err := newRuntime(c).SchemaText(c.Context, typeName)
			if err != nil {
				return err
			}

			schema := topicscan.NewParser().ParseSchemaString(text)
			return printJSON(schema)
		},
	}
}

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "print one topic's type, publishers and subscribers",
		ArgsUsage: "<topic>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("topic required")
			}

			info, err := newRuntime(c).Info(c.Context, c.Args().First())
			if err != nil {
				return err
			}
			return printJSON(info)
		},
	}
}

func hzCommand() *cli.Command {
	return &cli.Command{
		Name:      "hz",
		Usage:     "measure one topic's message rate",
		ArgsUsage: "<topic>",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "window",
				Value: 5 * time.Second,
				Usage: "how long to sample the topic",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("topic required")
			}
			topic := c.Args().First()

			rt := newRuntime(c).WithRateWindow(c.Duration("window"))
			rate, err := rt.MeasureRate(c.Context, topic)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %.3f Hz\n", topic, rate)
			return nil
		},
	}
}

func scanCommand() *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "run a full discovery pass and print the document",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "parallel",
				Value: 4,
				Usage: "topics inspected concurrently",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 30 * time.Second,
				Usage: "per-topic deadline",
			},
			&cli.BoolFlag{
				Name:  "no-rates",
				Usage: "skip rate measurement",
			},
			&cli.StringSliceFlag{
				Name:  "topic",
				Usage: "restrict the scan to the given topics",
			},
			&cli.StringFlag{
				Name:  "save",
				Usage: "also save the document to the snapshot database at `PATH`",
			},
		},
		Action: func(c *cli.Context) error {
			builder := report.NewBuilder(newRuntime(c)).
				WithParallelism(c.Int("parallel")).
				WithTopicTimeout(c.Duration("timeout")).
				WithRates(!c.Bool("no-rates")).
				WithLogger(newLogger(c))

			doc, err := builder.BuildTopics(c.Context, c.StringSlice("topic"))
			if err != nil {
				return err
			}

			if path := c.String("save"); path != "" {
				s, err := store.Open(path)
				if err != nil {
					return err
				}
				defer s.Close()
				if err := s.Save(doc); err != nil {
					return err
				}
			}

			return printJSON(doc)
		},
	}
}

func snapshotsCommand() *cli.Command {
	return &cli.Command{
		Name:  "snapshots",
		Usage: "list saved discovery documents",
		Flags: []cli.Flag{snapshotDBFlag()},
		Action: func(c *cli.Context) error {
			s, err := store.Open(c.String("db"))
			if err != nil {
				return err
			}
			defer s.Close()

			infos, err := s.List()
			if err != nil {
				return err
			}
			for _, info := range infos {
				fmt.Printf("%s  %s  %d topics\n",
					info.ID, info.CapturedAt.Format(time.RFC3339), info.TopicCount)
			}
			return nil
		},
	}
}

func diffCommand() *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "compare two saved discovery documents",
		ArgsUsage: "<old-id> <new-id>",
		Flags:     []cli.Flag{snapshotDBFlag()},
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return fmt.Errorf("two document ids required")
			}

			s, err := store.Open(c.String("db"))
			if err != nil {
				return err
			}
			defer s.Close()

			older, err := s.Get(c.Args().Get(0))
			if err != nil {
				return err
			}
			newer, err := s.Get(c.Args().Get(1))
			if err != nil {
				return err
			}

			diff := report.Diff(older, newer)
			if diff.Empty() {
				fmt.Println("no changes")
				return nil
			}
			return printJSON(diff)
		},
	}
}

func snapshotDBFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "db",
		Value: "topicscan.db",
		Usage: "snapshot database `PATH`",
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
