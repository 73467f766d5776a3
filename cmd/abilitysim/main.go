package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

var (
	characterPath string
	tracePath     string
	strictMode    bool
	yamlReport    bool
)

var replayFlags = []cli.Flag{
	cli.StringFlag{
		Name:        "trace, t",
		Usage:       "yaml input trace to replay",
		Destination: &tracePath,
	},
	cli.StringFlag{
		Name:        "character, c",
		Usage:       "character prefab (defaults to the trace's character)",
		Destination: &characterPath,
	},
	cli.BoolFlag{
		Name:        "strict",
		Usage:       "panic on precondition violations",
		Destination: &strictMode,
	},
	cli.BoolFlag{
		Name:        "yaml",
		Usage:       "print the run report as yaml",
		Destination: &yamlReport,
	},
}

var validateFlags = []cli.Flag{
	cli.StringFlag{
		Name:        "character, c",
		Usage:       "character prefab to validate",
		Destination: &characterPath,
	},
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("abilitysim: %s\n", err.Error())
		os.Exit(1)
	}

	app := cli.App{
		Name:      "abilitysim",
		Usage:     "headless replay of ability input traces",
		UsageText: "abilitysim <command> [arguments...]",
		Commands: []cli.Command{
			{
				Name:    "replay",
				Aliases: []string{"r"},
				Usage:   "replays an input trace tick by tick and prints the ability trace",
				Action: func(ctx *cli.Context) error {
					return replay(ctx, cfg)
				},
				Flags: replayFlags,
			},
			{
				Name:    "validate",
				Aliases: []string{"v"},
				Usage:   "loads a character prefab and compiles its ability scripts",
				Action: func(ctx *cli.Context) error {
					return validate(ctx, cfg)
				},
				Flags: validateFlags,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Printf("abilitysim: %s\n", err.Error())
		os.Exit(1)
	}
}
