package main

import (
	"context"
	"flag"
	"os"

	"github.com/resohub/console/internal/platform/config"
	"github.com/resohub/console/internal/tools/statedump"
)

func main() {
	cfg, err := statedump.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	if err := statedump.Run(context.Background(), cfg, os.Stdout); err != nil {
		config.Exitf("Error: %v", err)
	}
}
