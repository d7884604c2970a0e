package fakebackend

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/JeffreyRichter/pixtester/pix"
)

func postWebhook(t *testing.T, url string, status string) *http.Response {
	payload := pix.NewWebhookPayload("tx", decimal.RequireFromString("35.00"), time.Now())
	payload.RequestBody.Status = status
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := http.Post(url+pix.WebhookPath, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestGreeting(t *testing.T) {
	srv := httptest.NewServer(New().Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + pix.RootPath)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var g pix.Greeting
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&g))
	require.Equal(t, Greeting, g.Message.String())
}

func TestWebhookCreditsLargestPending(t *testing.T) {
	b := New()
	now := time.Now()
	b.AddPending(decimal.RequireFromString("100"), now.Add(-time.Minute))
	big := b.AddPending(decimal.RequireFromString("500"), now.Add(-2*time.Minute))
	b.AddPending(decimal.RequireFromString("50"), now)
	srv := httptest.NewServer(b.Handler())
	defer srv.Close()

	resp := postWebhook(t, srv.URL, pix.StatusPaid)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var wr pix.WebhookResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&wr))
	require.True(t, wr.Data.SpecialLogicApplied)
	require.Equal(t, "500", wr.Data.OriginalAmount.String())
	require.Equal(t, "35", wr.Data.ActualPaymentAmount.String())
	require.Equal(t, "2", wr.Data.CancelledTransactions.String())
	require.Equal(t, 1, b.WebhookCalls())

	// Nothing is pending any more.
	resp = postWebhook(t, srv.URL, pix.StatusPaid)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	stats := getStats(t, srv.URL, "")
	require.Equal(t, "1", stats.Data.SpecialLogicStats.Total.String())
	require.Equal(t, "500", stats.Data.SpecialLogicStats.TotalAmountCredited.String())
	require.Empty(t, stats.Data.PendingTransactions)
	require.NotEmpty(t, big)
}

func TestAddPendingIDs(t *testing.T) {
	b := New()
	srv := httptest.NewServer(b.Handler())
	defer srv.Close()

	stats := getStats(t, srv.URL, "")
	require.NotNil(t, stats.Data.SpecialLogicStats)
	require.NotNil(t, stats.Data.PendingTransactions, "an empty list is still sent")

	first := b.AddPending(decimal.RequireFromString("1"), time.Now())
	second := b.AddPending(decimal.RequireFromString("2"), time.Now())
	require.Len(t, first, 24)
	require.Regexp(t, `^[0-9a-f]{24}$`, first)
	require.NotEqual(t, first, second)
}

func TestWebhookRejectsUnpaid(t *testing.T) {
	b := New()
	b.AddPending(decimal.RequireFromString("10"), time.Now())
	srv := httptest.NewServer(b.Handler())
	defer srv.Close()

	resp := postWebhook(t, srv.URL, "CANCELLED")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var e pix.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	require.Equal(t, "Invalid webhook data", e.Message)
}

func getStats(t *testing.T, url, token string) pix.StatsResponse {
	req, err := http.NewRequest(http.MethodGet, url+pix.StatsPath, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var s pix.StatsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&s))
	return s
}

func TestStatsRequiresToken(t *testing.T) {
	b := New()
	b.Token = "s3cret"
	b.AddPending(decimal.RequireFromString("20.50"), time.Now())
	srv := httptest.NewServer(b.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + pix.StatsPath)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	stats := getStats(t, srv.URL, "s3cret")
	require.Len(t, stats.Data.PendingTransactions, 1)
	require.Equal(t, "20.5", stats.Data.PendingTransactions[0].Amount.String())
	require.Len(t, stats.Data.PendingTransactions[0].ID, 24)
}
