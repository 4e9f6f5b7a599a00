package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

const configFilePath = "./configs/config.yaml"

var (
	configPath = flag.String("config", configFilePath, "Path to the YAML configuration file")
	verbose    = flag.Bool("v", false, "Enable debug logging")
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&analyzeCmd{}, "")
	commander.Register(&chatCmd{}, "")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
