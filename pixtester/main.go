package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"golang.org/x/term"

	"github.com/JeffreyRichter/pixtester/config"
	"github.com/JeffreyRichter/pixtester/internal/aids"
	"github.com/JeffreyRichter/pixtester/internal/fakebackend"
	"github.com/JeffreyRichter/pixtester/operations"
	"github.com/JeffreyRichter/pixtester/session"
	"github.com/JeffreyRichter/pixtester/transport"
)

func main() {
	debugViewFlag := flag.String("debug-view", "", "Render a specific component with test data and exit. Available components: main, request, response, quit")
	logFileFlag := flag.String("log-file", "", "Write diagnostic logs (JSON) to this file; overrides PIXTESTER_LOG_FILE")
	fakeBackendFlag := flag.Bool("fake-backend", false, "Start an in-process stub PIX backend and point the base URL at it")
	flag.Parse()

	cfg, err := config.Load()
	if aids.IsError(err) {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(2)
	}
	if *logFileFlag != "" {
		cfg.LogFile = *logFileFlag
	}

	logger, closeLog, err := newLogger(cfg.LogFile)
	if aids.IsError(err) {
		fmt.Fprintf(os.Stderr, "Cannot open log file: %v\n", err)
		os.Exit(2)
	}
	defer closeLog()

	if *fakeBackendFlag {
		url, stop, err := startFakeBackend(logger)
		if aids.IsError(err) {
			fmt.Fprintf(os.Stderr, "Cannot start the stub backend: %v\n", err)
			os.Exit(1)
		}
		defer stop()
		cfg.BaseURL = url
	}

	sess := session.New(session.Options{
		DefaultBaseURL: cfg.BaseURL,
		Initial: session.Configuration{
			BaseURL:       cfg.BaseURL,
			TransactionID: cfg.TransactionID,
			PaidAmount:    cfg.Amount,
			AuthToken:     cfg.AuthToken,
		},
		OnStatus: func(k session.Kind, st session.Status) {
			logger.LogAttrs(context.Background(), slog.LevelDebug, "status", slog.String("op", k.String()), slog.String("status", st.String()))
		},
	})
	greet(sess)
	ctl := operations.New(sess, transport.NewClient(logger), operations.Options{
		Logger:         logger,
		ProbeTimeout:   cfg.ProbeTimeout,
		RequestTimeout: cfg.RequestTimeout,
	})
	model := newModel(sess, ctl, logger)

	if v := *debugViewFlag; v != "" {
		model = setupDebugModel(model, v)
		// Get terminal size and apply the same logic as tea.WindowSizeMsg handling
		if width, height, err := term.GetSize(int(os.Stdout.Fd())); !aids.IsError(err) {
			model.setWindowSize(width, height)
			model.initOrResizeViewports()
			model.syncLogViewportContent()
			model.syncExchangeViewportContent()
		}
		fmt.Print(model.View())
		return
	}

	logger.LogAttrs(context.Background(), slog.LevelInfo, "pixtester starting", slog.String("base_url", cfg.BaseURL))
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); aids.IsError(err) {
		fmt.Printf("Error running program: %v", err)
		os.Exit(1)
	}
}

// greet writes the opening hints every session starts with.
func greet(s *session.Session) {
	s.Append("🎯 PIX Webhook Tester started!")
	s.Append("💡 FIRST: press ctrl+t to check that the backend is running")
	s.Append("💡 Tip: create a R$ 500 PIX without paying it, then send a webhook for R$ 35 to see the special logic")
	s.Append(operations.Separator)
}

// newLogger returns a JSON logger writing to path, or a discarding logger when path is empty. The
// terminal belongs to the UI, so diagnostics never go to stderr.
func newLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if aids.IsError(err) {
		return nil, nil, err
	}
	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { _ = f.Close() }, nil
}

// startFakeBackend serves the stub backend on a free loopback port, seeded so the special logic
// can be seen right away.
func startFakeBackend(logger *slog.Logger) (string, func(), error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if aids.IsError(err) {
		return "", nil, err
	}
	b := fakebackend.New()
	now := time.Now()
	b.AddPending(decimal.NewFromInt(500), now.Add(-10*time.Minute))
	b.AddPending(decimal.NewFromInt(100), now.Add(-5*time.Minute))
	srv := &http.Server{Handler: b.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogAttrs(context.Background(), slog.LevelError, "stub backend stopped", slog.String("error", err.Error()))
		}
	}()
	url := "http://" + l.Addr().String()
	logger.LogAttrs(context.Background(), slog.LevelInfo, "stub backend listening", slog.String("url", url))
	return url, func() { _ = srv.Close() }, nil
}

// setupDebugModel configures the model for debug/view mode with test data
func setupDebugModel(model Model, viewMode string) Model {
	sample := &transport.HTTPTransaction{
		Method:         http.MethodPost,
		URL:            "http://localhost:3000/api/pix/webhook",
		RequestBody:    `{"requestBody":{"status":"PAID","transactionId":"68408742b3b670ec101b757e","amount":35}}`,
		RequestHeaders: http.Header{"Content-Type": {"application/json"}, "X-Request-Id": {"5f0c6f0e-debug"}},
		StatusCode:     http.StatusOK,
		ResponseHeaders: http.Header{
			"Content-Type": {"application/json; charset=utf-8"},
		},
		Timestamp: time.Now().Add(-5 * time.Second),
		Duration:  150 * time.Millisecond,
	}
	sample.ResponseBody = `{"success":true,"data":{"specialLogicApplied":true,"originalAmount":500,"actualPaymentAmount":35,"cancelledTransactions":1,"totalCredited":500}}`
	sample.Body = transport.Decode([]byte(sample.ResponseBody), sample.ResponseHeaders.Get("Content-Type"))
	model.lastExchange = sample

	switch viewMode {
	case "main":
		model.activePanel = PanelLog
		model.session.Append("🔗 Testing connection to http://localhost:3000 ...")
		model.session.Append("✅ SERVER ONLINE!")
		model.session.Append("⚠️ PIX routes may not be loaded (HTTP 404 on /api/pix/special-logic-stats)")
		model.session.Append("🔥 SPECIAL LOGIC APPLIED!")
		model.session.Append("❌ SERVER OFFLINE!")
		model.session.Append(operations.Separator)
	case "request":
		model.activePanel = PanelRequest
	case "response":
		model.activePanel = PanelResponse
	case "quit":
		model.modal.Show(2)
	default:
		fmt.Printf("Unknown view mode: %s\n", viewMode)
		fmt.Println("Available views: main, request, response, quit")
		os.Exit(1)
	}
	model.syncLogViewportContent()
	model.syncExchangeViewportContent()
	return model
}
