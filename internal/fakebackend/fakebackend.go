// Package fakebackend is an in-memory stand-in for the PIX backend: it serves the greeting,
// the special-logic statistics and the payment webhook, applying the "credit the largest pending
// deposit, cancel the rest" rule.
package fakebackend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JeffreyRichter/pixtester/internal/aids"
	"github.com/JeffreyRichter/pixtester/pix"
)

const Greeting = "PIX backend (stub) running!"

type txStatus string

const (
	statusPending   txStatus = "PENDING"
	statusCompleted txStatus = "COMPLETED"
	statusCancelled txStatus = "CANCELLED"
)

type transaction struct {
	id        string
	amount    decimal.Decimal
	createdAt time.Time
	status    txStatus
	special   bool
}

// Backend is safe for concurrent use.
type Backend struct {
	// Token, when non-empty, is the bearer token the statistics route demands.
	Token string
	Now   func() time.Time

	mu           sync.Mutex
	transactions []*transaction
	webhookCalls atomic.Int64
}

func New() *Backend { return &Backend{Now: time.Now} }

// AddPending registers a pending PIX deposit and returns its id.
func (b *Backend) AddPending(amount decimal.Decimal, createdAt time.Time) string {
	id := strings.ReplaceAll(aids.Must(uuid.NewRandom()).String(), "-", "")[:24]
	b.mu.Lock()
	defer b.mu.Unlock()
	b.transactions = append(b.transactions, &transaction{id: id, amount: amount, createdAt: createdAt, status: statusPending})
	return id
}

// WebhookCalls reports how many webhook requests reached the backend.
func (b *Backend) WebhookCalls() int { return int(b.webhookCalls.Load()) }

func (b *Backend) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", b.greeting)
	r.Route("/api/pix", func(r chi.Router) {
		r.With(b.requireToken).Get("/special-logic-stats", b.stats)
		r.Post("/webhook", b.webhook)
	})
	return r
}

func (b *Backend) greeting(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, pix.Greeting{Message: pix.VerbatimOf(Greeting)})
}

func (b *Backend) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if b.Token != "" && r.Header.Get("Authorization") != "Bearer "+b.Token {
			writeJSON(w, http.StatusUnauthorized, pix.ErrorResponse{Message: "Token not provided"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) stats(w http.ResponseWriter, _ *http.Request) {
	now := b.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	week, month := now.AddDate(0, 0, -7), now.AddDate(0, -1, 0)

	b.mu.Lock()
	var total, todayN, weekN, monthN int
	credited := decimal.Zero
	var pending []*transaction
	for _, t := range b.transactions {
		if t.special {
			total++
			credited = credited.Add(t.amount)
			todayN += count(!t.createdAt.Before(today))
			weekN += count(!t.createdAt.Before(week))
			monthN += count(!t.createdAt.Before(month))
		}
		if t.status == statusPending {
			pending = append(pending, t)
		}
	}
	b.mu.Unlock()

	sortLargestFirst(pending)
	resp := pix.StatsResponse{Success: true, Data: pix.StatsData{
		SpecialLogicStats: &pix.SpecialLogicStats{
			Total:               pix.VerbatimOf(total),
			Today:               pix.VerbatimOf(todayN),
			ThisWeek:            pix.VerbatimOf(weekN),
			ThisMonth:           pix.VerbatimOf(monthN),
			TotalAmountCredited: pix.VerbatimOf(credited),
		},
		PendingTransactions: make([]pix.PendingTransaction, 0, len(pending)),
	}}
	for _, t := range pending {
		resp.Data.PendingTransactions = append(resp.Data.PendingTransactions, pix.PendingTransaction{
			ID:        t.id,
			Amount:    pix.VerbatimOf(t.amount),
			CreatedAt: t.createdAt.UTC().Format("2006-01-02T15:04:05.000Z"),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (b *Backend) webhook(w http.ResponseWriter, r *http.Request) {
	b.webhookCalls.Add(1)
	var payload pix.WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.RequestBody.Status != pix.StatusPaid {
		writeJSON(w, http.StatusBadRequest, pix.ErrorResponse{Message: "Invalid webhook data"})
		return
	}

	b.mu.Lock()
	var pending []*transaction
	for _, t := range b.transactions {
		if t.status == statusPending {
			pending = append(pending, t)
		}
	}
	if len(pending) == 0 {
		b.mu.Unlock()
		writeJSON(w, http.StatusNotFound, pix.ErrorResponse{Message: "No pending PIX transaction found"})
		return
	}
	sortLargestFirst(pending)
	largest := pending[0]
	largest.status, largest.special = statusCompleted, true
	for _, t := range pending[1:] {
		t.status = statusCancelled
	}
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, pix.WebhookResponse{
		Success: true,
		Message: "Payment processed - special logic applied",
		Data: pix.WebhookResult{
			SpecialLogicApplied:   true,
			OriginalAmount:        pix.VerbatimOf(largest.amount),
			ActualPaymentAmount:   pix.VerbatimOf(payload.RequestBody.Amount.Decimal),
			CancelledTransactions: pix.VerbatimOf(len(pending) - 1),
			TotalCredited:         pix.VerbatimOf(largest.amount),
			Note:                  "Only the largest amount was credited; other pending transactions were cancelled",
		},
	})
}

func sortLargestFirst(ts []*transaction) {
	slices.SortStableFunc(ts, func(a, b *transaction) int {
		if c := b.amount.Cmp(a.amount); c != 0 {
			return c
		}
		return b.createdAt.Compare(a.createdAt)
	})
}

func count(ok bool) int {
	if ok {
		return 1
	}
	return 0
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		panic(fmt.Errorf("encode response: %w", err))
	}
}
