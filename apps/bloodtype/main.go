//
// main.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

// Command bloodtype evaluates blood type compatibility between two
// parties with the Beaver triple GMW protocol.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

const (
	version = "0.1.0"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&tableCmd{}, "")
	subcommands.Register(&evalCmd{}, "")
	subcommands.Register(&dumpCmd{}, "")
	subcommands.Register(&dealerCmd{}, "network")
	subcommands.Register(&partyCmd{}, "network")
	subcommands.Register(&versionCmd{}, "")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}
