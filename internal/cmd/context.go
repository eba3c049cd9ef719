package cmd

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/jimezsa/sakani/internal/config"
	"github.com/jimezsa/sakani/internal/ui"
)

type Context struct {
	Out        io.Writer
	Err        io.Writer
	UI         *ui.UI
	Settings   config.Settings
	ConfigDir  string
	Logger     zerolog.Logger
	Verbose    bool
	JSONOutput bool
	Version    string
	ColorMode  ui.ColorMode
}
