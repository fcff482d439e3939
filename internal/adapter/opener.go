package adapter

import (
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mmcdole/shelf/internal/domain"
)

// Opener opens the store page of a catalog entry in a browser or the Steam client
type Opener struct {
	command     string   // configured command, empty for system default
	args        []string // additional arguments for the command
	steamClient bool     // use steam:// URLs instead of the web store
	logger      *slog.Logger

	start func(cmd *exec.Cmd) error
}

// NewOpener creates an Opener from the open config section
func NewOpener(cfg OpenConfig, logger *slog.Logger) *Opener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Opener{
		command:     cfg.Command,
		args:        cfg.Args,
		steamClient: cfg.SteamClient,
		logger:      logger,
		start:       (*exec.Cmd).Start,
	}
}

// StoreURL returns the store page URL for id
func (o *Opener) StoreURL(id int) string {
	if o.steamClient {
		return fmt.Sprintf("steam://store/%d", id)
	}
	return fmt.Sprintf("https://store.steampowered.com/app/%d/", id)
}

// Open launches the store page for id without waiting for the handler to exit
func (o *Opener) Open(id int) error {
	if id <= 0 {
		return domain.ErrInvalidID
	}
	url := o.StoreURL(id)

	if o.command != "" {
		o.logger.Info("opening with configured command", "command", o.command, "url", url)
		return o.start(o.configuredCmd(url))
	}

	o.logger.Info("opening with system default", "os", runtime.GOOS, "url", url)
	return o.start(defaultCmd(runtime.GOOS, url))
}

// configuredCmd builds the command for a configured handler. On macOS a GUI
// app that is not in PATH is started through "open -a".
func (o *Opener) configuredCmd(url string) *exec.Cmd {
	args := append([]string{}, o.args...)

	if runtime.GOOS == "darwin" {
		if _, err := exec.LookPath(o.command); err != nil {
			app := strings.TrimSuffix(filepath.Base(o.command), filepath.Ext(o.command))
			cmdArgs := []string{"-a", app}
			if len(args) > 0 {
				cmdArgs = append(cmdArgs, "--args")
				cmdArgs = append(cmdArgs, args...)
			}
			cmdArgs = append(cmdArgs, url)
			o.logger.Debug("using macOS 'open -a'", "app", app, "args", cmdArgs)
			return exec.Command("open", cmdArgs...)
		}
	}

	// URL goes at the end
	args = append(args, url)
	return exec.Command(o.command, args...)
}

// defaultCmd opens url with the system default handler for goos
func defaultCmd(goos, url string) *exec.Cmd {
	switch goos {
	case "darwin":
		return exec.Command("open", url)
	case "windows":
		return exec.Command("cmd", "/c", "start", "", url)
	default:
		// Linux and other Unix-like systems
		return exec.Command("xdg-open", url)
	}
}
