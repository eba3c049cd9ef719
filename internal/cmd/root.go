package cmd

import (
	"github.com/alecthomas/kong"
)

type CLI struct {
	Color   string `help:"Color output: auto, always, never." enum:"auto,always,never" default:"auto"`
	JSON    bool   `help:"JSON output to stdout; disables colors."`
	Verbose bool   `help:"Enable debug logging."`

	VersionFlag kong.VersionFlag `help:"Print version."`

	Version  VersionCmd  `cmd:"" help:"Print version."`
	Config   ConfigCmd   `cmd:"" help:"Manage configuration."`
	Collect  CollectCmd  `cmd:"" help:"Collect Sakani housing data."`
	Proxy    ProxyCmd    `cmd:"" help:"Proxy gateway utilities."`
	Snapshot SnapshotCmd `cmd:"" help:"Dataset snapshot utilities."`
}

func NewCLI() *CLI {
	return &CLI{}
}
