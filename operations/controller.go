// Package operations runs the tester's three operations (connectivity probe, webhook dispatch
// and pending listing) in the background against a Session. The caller is never blocked: Start
// returns immediately and every outcome reaches the operator through the session log and the
// operation's status slot.
package operations

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JeffreyRichter/pixtester/session"
	"github.com/JeffreyRichter/pixtester/transport"
)

// Separator closes every invocation's block in the log.
var Separator = strings.Repeat("=", 80)

// Doer issues one HTTP call; *transport.Client implements it.
type Doer interface {
	Do(ctx context.Context, r transport.Request) (*transport.HTTPTransaction, error)
}

type Options struct {
	Logger *slog.Logger
	// ProbeTimeout bounds the connectivity probe's calls; RequestTimeout bounds everything else.
	ProbeTimeout   time.Duration
	RequestTimeout time.Duration
	Now            func() time.Time
	NewRunID       func() string
}

type Controller struct {
	session *session.Session
	doer    Doer
	opts    Options
	group   errgroup.Group
}

func New(s *session.Session, d Doer, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = 5 * time.Second
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = transport.DefaultTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewRunID == nil {
		opts.NewRunID = uuid.NewString
	}
	return &Controller{session: s, doer: d, opts: opts}
}

// Result describes one finished invocation.
type Result struct {
	Kind      session.Kind
	RunID     string
	Status    session.Status
	Err       error
	Exchanges []*transport.HTTPTransaction
	Duration  time.Duration
}

// Task is a handle on an invocation started with Start.
type Task struct {
	Kind  session.Kind
	RunID string

	done   chan struct{}
	result Result
}

func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the invocation reaches a terminal state.
func (t *Task) Wait() Result {
	<-t.done
	return t.result
}

// Start launches an invocation of kind on its own goroutine. If kind is already running, the
// operator is told so in the log and session.ErrBusy is returned.
func (c *Controller) Start(kind session.Kind) (*Task, error) {
	t, err := c.begin(kind)
	if err != nil {
		return nil, err
	}
	c.group.Go(func() error {
		c.execute(context.Background(), t)
		return nil
	})
	return t, nil
}

// Run executes an invocation of kind on the calling goroutine.
func (c *Controller) Run(ctx context.Context, kind session.Kind) (Result, error) {
	t, err := c.begin(kind)
	if err != nil {
		return Result{}, err
	}
	c.execute(ctx, t)
	return t.result, nil
}

// Drain waits for every invocation started with Start to finish.
func (c *Controller) Drain() { _ = c.group.Wait() }

func (c *Controller) begin(kind session.Kind) (*Task, error) {
	if err := c.session.Begin(kind); err != nil {
		c.session.Appendf("⏳ %s is already running, wait for it to finish", title(kind))
		return nil, err
	}
	return &Task{Kind: kind, RunID: c.opts.NewRunID(), done: make(chan struct{})}, nil
}

func (c *Controller) execute(ctx context.Context, t *Task) {
	defer close(t.done)
	r := &run{c: c, kind: t.Kind, id: t.RunID, cfg: c.session.Config()}
	logger := c.opts.Logger.With(slog.String("op", t.Kind.String()), slog.String("run_id", t.RunID))
	logger.LogAttrs(ctx, slog.LevelInfo, "operation start", slog.String("base_url", r.cfg.BaseURL))
	start := time.Now()

	summary, err := c.invoke(ctx, r)
	c.session.Append(Separator)
	st := session.Status{State: session.Succeeded, Detail: summary}
	if err != nil {
		st = session.Status{State: session.Failed, Detail: reasonFor(err)}
		c.session.Fail(t.Kind, st.Detail)
	} else {
		c.session.Succeed(t.Kind, summary)
	}

	r.mu.Lock()
	t.result = Result{Kind: t.Kind, RunID: t.RunID, Status: st, Err: err, Exchanges: r.exchanges, Duration: time.Since(start)}
	r.mu.Unlock()
	level := slog.LevelInfo
	if err != nil {
		level = slog.LevelWarn
	}
	logger.LogAttrs(ctx, level, "operation end", slog.String("status", st.String()), slog.Duration("duration", t.result.Duration))
}

// invoke runs the operation body; a panic becomes an ordinary failure.
func (c *Controller) invoke(ctx context.Context, r *run) (summary string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
			c.session.Appendf("❌ UNEXPECTED ERROR: %v", p)
			c.opts.Logger.LogAttrs(ctx, slog.LevelError, "operation panicked", slog.String("op", r.kind.String()),
				slog.String("run_id", r.id), slog.Any("panic", p))
		}
	}()
	switch r.kind {
	case session.ConnectivityProbe:
		return c.probe(ctx, r)
	case session.WebhookDispatch:
		return c.dispatch(ctx, r)
	case session.PendingList:
		return c.listPending(ctx, r)
	default:
		panic(fmt.Sprintf("unknown operation %v", r.kind))
	}
}

// run is the state of one invocation. cfg is snapshotted when the invocation starts, so edits made
// while it is in flight apply to the next one.
type run struct {
	c    *Controller
	kind session.Kind
	id   string
	cfg  session.Configuration

	mu        sync.Mutex
	exchanges []*transport.HTTPTransaction
}

func (r *run) log(format string, a ...any) { r.c.session.Appendf(format, a...) }

func (r *run) do(ctx context.Context, req transport.Request) (*transport.HTTPTransaction, error) {
	if req.Header == nil {
		req.Header = http.Header{}
	}
	req.Header.Set("X-Request-Id", r.id)
	txn, err := r.c.doer.Do(ctx, req)
	if txn != nil {
		r.mu.Lock()
		r.exchanges = append(r.exchanges, txn)
		r.mu.Unlock()
	}
	return txn, err
}

// authHeader carries the configured bearer token, if any.
func (r *run) authHeader() http.Header {
	token := strings.TrimSpace(r.cfg.AuthToken)
	if token == "" {
		return nil
	}
	if !strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = "Bearer " + token
	}
	return http.Header{"Authorization": {token}}
}

func title(kind session.Kind) string {
	switch kind {
	case session.ConnectivityProbe:
		return "Connection test"
	case session.WebhookDispatch:
		return "Webhook dispatch"
	case session.PendingList:
		return "Pending check"
	default:
		return kind.String()
	}
}
