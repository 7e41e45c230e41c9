package cli

import (
	"bufio"
	"context"
	"log"
	"os"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/dmitrijs2005/s3drop/internal/client/client"
	"github.com/dmitrijs2005/s3drop/internal/client/config"
	"github.com/dmitrijs2005/s3drop/internal/client/uploader"
	"github.com/dmitrijs2005/s3drop/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// pinger is the part of client.HealthPinger the watcher uses.
type pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	config       *config.Config
	orchestrator *uploader.Orchestrator
	pinger       pinger
	closeFn      func() error

	modeMu sync.Mutex
	mode   Mode
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stderr, "error")

	httpClient, err := client.NewHTTPClient(c, logger)
	if err != nil {
		return nil, err
	}

	hp, err := client.NewHealthPinger(c.HealthAddr)
	if err != nil {
		return nil, err
	}

	o := uploader.NewOrchestrator(httpClient, c.Concurrency, uploader.NewLogObserver(logger.With("module", "uploader")))

	return &App{config: c, orchestrator: o, pinger: hp, closeFn: hp.Close}, nil
}

func (a *App) Mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		log.Printf("Switched to %s mode\n", mode)
	}
}

// Run starts the online watcher and blocks in the REPL until the user exits
// or stdin is exhausted.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer func() {
		if a.closeFn != nil {
			_ = a.closeFn()
		}
	}()

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		printlnFn("Welcome to s3drop CLI (type 'help' for commands)")
	}

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin), interactive)
}

// StartOnlineStatusWatcher probes the server right away and then every
// interval until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := a.pinger.Ping(pctx)
		cancel()

		if ctx.Err() != nil {
			return
		}
		if err != nil {
			a.setMode(ModeOffline)
		} else {
			a.setMode(ModeOnline)
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}
