package adapter

import (
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// Opener opens result pages in a web browser
type Opener struct {
	command string   // configured browser command, empty for system default
	args    []string // additional arguments for the browser
	logger  *slog.Logger

	// start launches a process without waiting for it; replaced in tests
	start func(name string, args ...string) error
}

// NewOpener creates a new Opener
func NewOpener(command string, args []string, logger *slog.Logger) *Opener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Opener{
		command: command,
		args:    args,
		logger:  logger,
		start:   startCommand,
	}
}

func startCommand(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Open opens rawURL in the configured browser or the system default
func (o *Opener) Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid page URL: %q", rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
	}

	name, args := o.commandFor(u.String())
	o.logger.Info("opening page", "command", name, "args", args)

	if err := o.start(name, args...); err != nil {
		o.logger.Error("failed to open page", "command", name, "error", err)
		return fmt.Errorf("failed to open %s: %w", u.String(), err)
	}
	return nil
}

// commandFor returns the command line used to open target
func (o *Opener) commandFor(target string) (string, []string) {
	if o.command != "" {
		args := append([]string{}, o.args...)
		return o.command, append(args, target)
	}
	return defaultOpenCommand(runtime.GOOS, target)
}

// defaultOpenCommand returns the system default handler for goos
func defaultOpenCommand(goos, target string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{target}
	case "windows":
		// "start" treats & as a command separator; the protocol handler doesn't
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	default:
		// Linux and other Unix-like systems
		return "xdg-open", []string{strings.TrimSpace(target)}
	}
}
