package main

import (
	"fmt"
	"io"
	"os"

	"github.com/danmuck/packetctl/internal/logging"
	"github.com/urfave/cli/v2"
)

func main() {
	logging.ConfigureRuntime()
	if err := newApp(os.Stdin, os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "packetctl: %v\n", err)
		os.Exit(1)
	}
}

func newApp(stdin io.Reader, stdout io.Writer) *cli.App {
	return &cli.App{
		Name:  "packetctl",
		Usage: "decode and evaluate hex transmission packets",
		Description: "Reads one line of hex from --input (or stdin), decodes the packet tree, " +
			"and prints the version sum or the evaluated value as decimal text.",
		Flags:  globalFlags,
		Before: loadRuntime,
		After:  writeMetrics,
		Reader: stdin,
		Writer: stdout,
		Commands: []*cli.Command{
			versionsCommand,
			evalCommand,
			runCommand,
			inspectCommand,
			configCommand,
		},
		HideVersion: true,
	}
}
