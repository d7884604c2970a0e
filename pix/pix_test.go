package pix

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNewWebhookPayload(t *testing.T) {
	now := time.Date(2026, 10, 19, 14, 30, 0, 0, time.UTC)
	p := NewWebhookPayload("abc123", decimal.RequireFromString("35.00"), now)

	var wire map[string]map[string]any
	require.NoError(t, json.Unmarshal(must(json.Marshal(p)), &wire))
	body := wire["requestBody"]
	require.Equal(t, "PAID", body["status"])
	require.Equal(t, "abc123", body["transactionId"])
	require.Equal(t, 35.00, body["amount"])
	require.Equal(t, "2026-10-19T14:30:00Z", body["dateApproval"])
	require.Equal(t, WebhookDescription, body["description"])
	require.Equal(t, "260 - Nubank", body["creditParty"].(map[string]any)["bank"])
}

func TestAmountRoundTrip(t *testing.T) {
	var req WebhookRequest
	require.NoError(t, json.Unmarshal([]byte(`{"amount":35.5}`), &req))
	require.True(t, req.Amount.Equal(decimal.RequireFromString("35.5")))
}

func TestVerbatim(t *testing.T) {
	var r WebhookResult
	require.NoError(t, json.Unmarshal([]byte(`{
		"specialLogicApplied": true,
		"originalAmount": 500,
		"actualPaymentAmount": "unknown",
		"cancelledTransactions": 2,
		"totalCredited": 500.50
	}`), &r))
	require.Equal(t, "500", r.OriginalAmount.String())
	require.Equal(t, "unknown", r.ActualPaymentAmount.String())
	require.Equal(t, "500.50", r.TotalCredited.String())
	n, ok := r.CancelledTransactions.Int()
	require.True(t, ok)
	require.EqualValues(t, 2, n)
	require.False(t, r.UserID.IsSet())

	b, err := json.Marshal(r)
	require.NoError(t, err)
	require.Contains(t, string(b), `"actualPaymentAmount":"unknown"`)
	require.Contains(t, string(b), `"totalCredited":500.50`)
	require.NotContains(t, string(b), "userId")
}

func TestURL(t *testing.T) {
	require.Equal(t, "http://h:3000/api/pix/webhook", URL("http://h:3000/", WebhookPath))
	require.Equal(t, "http://h:3000/", URL("http://h:3000", RootPath))
}

func must(b []byte, err error) []byte {
	if err != nil {
		panic(err)
	}
	return b
}
