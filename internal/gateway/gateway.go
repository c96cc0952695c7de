package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/sellerdesk/pddcs/internal/account"
	"github.com/sellerdesk/pddcs/internal/bus"
	"github.com/sellerdesk/pddcs/internal/config"
	"github.com/sellerdesk/pddcs/internal/dispatch"
	"github.com/sellerdesk/pddcs/internal/hours"
	"github.com/sellerdesk/pddcs/internal/sender"
	"github.com/sellerdesk/pddcs/internal/stream"
)

// Options allow swapping collaborators in tests.
type Options struct {
	Replier dispatch.Replier
	Sender  dispatch.Sender
	Stdin   *os.File
}

// Gateway wires one operator session end to end: session provider →
// streaming loop → event queue → dispatch loop, plus the local ops HTTP
// endpoint and the business-hours announcements.
type Gateway struct {
	cfg      *config.Config
	acct     *account.Account
	store    *account.Store
	sessions *account.Service
	queue    *bus.Queue
	stream   *stream.Client
	disp     *dispatch.Dispatcher
	notifier *hours.Notifier
	opsSrv   *http.Server
}

func New(cfg *config.Config, acct *account.Account) (*Gateway, error) {
	return NewWithOptions(cfg, acct, Options{})
}

func NewWithOptions(cfg *config.Config, acct *account.Account, opts Options) (*Gateway, error) {
	g := &Gateway{
		cfg:      cfg,
		acct:     acct,
		store:    account.NewStore(),
		sessions: account.NewService(cfg),
		queue:    bus.NewQueue(),
	}

	g.stream = stream.NewClient(cfg.Stream, g.queue)

	snd := opts.Sender
	if snd == nil {
		snd = sender.NewSender(cfg, acct)
	}

	replier := opts.Replier
	if replier == nil {
		var err error
		replier, err = newReplier(cfg, opts)
		if err != nil {
			return nil, err
		}
	}

	g.disp = dispatch.NewDispatcher(g.queue, snd, replier, os.Stdout)

	if cfg.Hours.Start != "" && cfg.Hours.End != "" {
		window, err := hours.ParseWindow(cfg.Hours.Start, cfg.Hours.End)
		if err != nil {
			return nil, err
		}
		g.disp.SetBusinessHours(window)
		g.notifier = hours.NewNotifier(window)
	}

	return g, nil
}

func newReplier(cfg *config.Config, opts Options) (dispatch.Replier, error) {
	switch cfg.Replier.Mode {
	case "", "console":
		stdin := opts.Stdin
		if stdin == nil {
			stdin = os.Stdin
		}
		return dispatch.NewConsoleReplier(stdin, os.Stdout), nil
	case "openai":
		return dispatch.NewOpenAIReplier(cfg.Replier)
	default:
		return nil, fmt.Errorf("unknown replier mode %q", cfg.Replier.Mode)
	}
}

// Run logs in, starts the receive loop and runs the dispatch loop in the
// foreground until cancellation, operator exit or a transport failure.
func (g *Gateway) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Printf("[gateway] fetching user info...")
	token, err := g.sessions.Login(ctx, g.acct)
	if err != nil {
		return err
	}
	g.store.UpsertAccount(g.acct)
	g.store.SaveShop(account.Shop{ShopID: g.acct.ShopID, Name: g.acct.ShopName, Logo: g.acct.MallLogo})
	log.Printf("[gateway] logged in as %s, shop %s (%s)", g.acct.Username, g.acct.ShopName, g.acct.ShopID)

	if g.cfg.Gateway.Enabled {
		g.startOpsServer()
	}
	if g.notifier != nil {
		if err := g.notifier.Start(ctx); err != nil {
			log.Printf("[gateway] business-hours announcements disabled: %v", err)
		}
	}

	streamErr := make(chan error, 1)
	go func() {
		err := g.stream.Run(ctx, g.acct.ShopID, token)
		// the producer is done either way; let the dispatcher drain and stop
		g.queue.Close()
		streamErr <- err
	}()

	log.Printf("[gateway] connected, waiting for buyer messages (Ctrl+C to quit)")

	dispErr := g.disp.Run(ctx)
	cancel()

	sErr := <-streamErr
	g.shutdown()

	if errors.Is(dispErr, dispatch.ErrOperatorExit) {
		log.Printf("[gateway] operator exit, shutting down")
		return nil
	}
	if dispErr != nil && !errors.Is(dispErr, context.Canceled) {
		return dispErr
	}
	if sErr != nil && !errors.Is(sErr, context.Canceled) {
		return sErr
	}
	return nil
}

func (g *Gateway) shutdown() {
	if g.notifier != nil {
		g.notifier.Stop()
	}
	if g.opsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := g.opsSrv.Shutdown(ctx); err != nil {
			log.Printf("[gateway] ops server shutdown error: %v", err)
		}
	}
}
