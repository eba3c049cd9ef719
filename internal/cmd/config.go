package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/jimezsa/sakani/internal/config"
)

type ConfigCmd struct {
	Init InitConfigCmd `cmd:"" help:"Write the default settings file."`
	Path PathConfigCmd `cmd:"" help:"Print config directory."`
	Env  EnvConfigCmd  `cmd:"" help:"Print the proxy environment variables as seen by the process."`
}

type InitConfigCmd struct{}

type PathConfigCmd struct{}

type EnvConfigCmd struct{}

func (c *InitConfigCmd) Run(ctx *Context) error {
	paths, err := config.Init()
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		ctx.UI.Infof("Config already initialized at %s", ctx.ConfigDir)
		return nil
	}
	ctx.UI.Infof("Created: %s", strings.Join(paths, ", "))
	return nil
}

func (c *PathConfigCmd) Run(ctx *Context) error {
	_, err := fmt.Fprintln(ctx.Out, ctx.ConfigDir)
	return err
}

func (c *EnvConfigCmd) Run(ctx *Context) error {
	tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "variable\tvalue")
	fmt.Fprintf(tw, "%s\t%s\n", config.EnvProxyEndpoint, os.Getenv(config.EnvProxyEndpoint))
	fmt.Fprintf(tw, "%s\t%s\n", config.EnvProxyUsername, os.Getenv(config.EnvProxyUsername))
	fmt.Fprintf(tw, "%s\t%s\n", config.EnvProxyPassword, maskSecret(os.Getenv(config.EnvProxyPassword)))
	fmt.Fprintf(tw, "%s\t%s\n", config.EnvUseProxy, os.Getenv(config.EnvUseProxy))
	if err := tw.Flush(); err != nil {
		return err
	}

	if _, err := config.LoadProxy(); err != nil {
		ctx.UI.Warnf("%v", err)
	}
	return nil
}

func maskSecret(value string) string {
	if value == "" {
		return ""
	}
	return "********"
}
