package main

import (
	"fmt"
	"strings"

	"github.com/danmuck/packetctl/internal/config"
	"github.com/danmuck/packetctl/internal/packet"
	"github.com/danmuck/packetctl/internal/source"
	"github.com/danmuck/packetctl/internal/transmission"
	"github.com/urfave/cli/v2"
)

var inputFlag = &cli.StringFlag{
	Name:    "input",
	Aliases: []string{"i"},
	Usage:   "file holding the hex transmission (default stdin)",
}

var versionsCommand = &cli.Command{
	Name:   "versions",
	Usage:  "Print the sum of all packet versions",
	Flags:  []cli.Flag{inputFlag},
	Action: func(c *cli.Context) error { return runMode(c, transmission.ModeVersionSum) },
}

var evalCommand = &cli.Command{
	Name:    "eval",
	Aliases: []string{"evaluate"},
	Usage:   "Print the value of the root packet expression",
	Flags:   []cli.Flag{inputFlag},
	Action:  func(c *cli.Context) error { return runMode(c, transmission.ModeEvaluate) },
}

var runCommand = &cli.Command{
	Name:  "run",
	Usage: "Print the result selected by --mode (version_sum|evaluate)",
	Flags: []cli.Flag{
		inputFlag,
		&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: string(transmission.ModeEvaluate), Usage: "version_sum|evaluate"},
	},
	Action: func(c *cli.Context) error {
		mode, err := transmission.ParseMode(c.String("mode"))
		if err != nil {
			return err
		}
		return runMode(c, mode)
	},
}

var inspectCommand = &cli.Command{
	Name:   "inspect",
	Usage:  "Print the decoded packet tree as YAML",
	Flags:  []cli.Flag{inputFlag},
	Action: inspect,
}

var configCommand = &cli.Command{
	Name:  "config",
	Usage: "Manage packetctl.toml",
	Subcommands: []*cli.Command{
		{
			Name:  "init",
			Usage: "Write a config template with every default",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: "packetctl.toml", Usage: "template path"},
				&cli.BoolFlag{Name: "force", Usage: "overwrite an existing file"},
			},
			Action: func(c *cli.Context) error {
				path := c.String("output")
				if err := config.WriteTemplate(path, c.Bool("force")); err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "wrote %s\n", path)
				return nil
			},
		},
		{
			Name:      "validate",
			Usage:     "Load a config file and report errors",
			ArgsUsage: "<path>",
			Action: func(c *cli.Context) error {
				path := c.Args().First()
				if path == "" {
					return fmt.Errorf("config validate: path required")
				}
				if _, err := config.Load(path); err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "validated %s\n", path)
				return nil
			},
		},
	},
}

func newRunner(c *cli.Context) *transmission.Runner {
	cfg := runtimeConfig(c)
	return transmission.NewRunner(packet.NewDecoder(cfg.Strategy, cfg.Limits()))
}

func textSource(c *cli.Context) source.TextSource {
	cfg := runtimeConfig(c)
	path := strings.TrimSpace(c.String(inputFlag.Name))
	if path == "" || path == "-" {
		return source.ReaderSource{R: c.App.Reader, Label: "stdin", MaxBytes: cfg.MaxInputBytes}
	}
	return source.FileSource{Path: path, MaxBytes: cfg.MaxInputBytes}
}

func runMode(c *cli.Context, mode transmission.Mode) error {
	if c.Args().Present() {
		return fmt.Errorf("invalid arguments: %v", c.Args().Slice())
	}
	res, err := newRunner(c).Run(c.Context, textSource(c), mode)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, res.Value)
	return nil
}

func inspect(c *cli.Context) error {
	report, err := newRunner(c).Inspect(c.Context, textSource(c))
	if err != nil {
		return err
	}
	out, err := report.YAML()
	if err != nil {
		return err
	}
	_, err = c.App.Writer.Write(out)
	return err
}
