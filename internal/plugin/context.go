package plugin

import (
	"log/slog"

	"github.com/marcus/notehub/internal/config"
	"github.com/marcus/notehub/internal/keymap"
)

// Context carries shared dependencies into plugins.
type Context struct {
	ConfigDir string
	Config    *config.Config
	Keymap    *keymap.Registry
	Logger    *slog.Logger

	// Epoch is bumped when plugins are reinitialized; async results carry
	// the epoch they were started under.
	Epoch uint64
}
