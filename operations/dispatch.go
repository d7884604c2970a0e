package operations

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/JeffreyRichter/pixtester/internal/aids"
	"github.com/JeffreyRichter/pixtester/pix"
	"github.com/JeffreyRichter/pixtester/transport"
)

var errNegativeAmount = errors.New("must not be negative")

// ParseAmount turns operator text into a payment amount.
func ParseAmount(text string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return decimal.Decimal{}, &ValidationError{Field: "amount", Value: text, Err: err}
	}
	if d.IsNegative() {
		return decimal.Decimal{}, &ValidationError{Field: "amount", Value: text, Err: errNegativeAmount}
	}
	return d, nil
}

// dispatch posts a PAID webhook for the configured transaction and amount.
func (c *Controller) dispatch(ctx context.Context, r *run) (string, error) {
	r.log("🚀 Sending PIX webhook...")
	amount, err := ParseAmount(r.cfg.PaidAmount)
	if err != nil {
		r.log("❌ Invalid amount %q: enter a non-negative decimal such as 35.00", r.cfg.PaidAmount)
		return "", err
	}
	r.log("💰 Amount: R$ %s", amount.StringFixed(2))
	r.log("🆔 Transaction ID: %s", r.cfg.TransactionID)

	payload := pix.NewWebhookPayload(r.cfg.TransactionID, amount, c.opts.Now())
	pretty, err := aids.MarshalIndent(payload)
	if err != nil {
		return "", err
	}
	r.log("📤 Payload:\n%s", pretty)

	txn, err := r.do(ctx, transport.Request{
		Method:  http.MethodPost,
		URL:     pix.URL(r.cfg.BaseURL, pix.WebhookPath),
		Body:    payload,
		Timeout: c.opts.RequestTimeout,
	})
	if err != nil {
		r.log("❌ CONNECTION ERROR: %v", err)
		return "", err
	}
	r.log("📥 Response: HTTP %d", txn.StatusCode)

	if txn.StatusCode != http.StatusOK {
		r.log("❌ ERROR!")
		if body := txn.Body.String(); body != "" {
			r.log("%s", body)
		}
		if _, ok := txn.Body.(transport.JSONBody); !ok {
			return "", &ProtocolError{StatusCode: txn.StatusCode}
		}
		aerr, err := r.applicationError(txn)
		if err != nil {
			return "", err
		}
		return "", aerr
	}

	var resp pix.WebhookResponse
	if err := txn.Unmarshal(&resp); err != nil {
		r.log("❌ Could not read the response: %v", err)
		r.log("%s", txn.ResponseBody)
		return "", &ProtocolError{StatusCode: txn.StatusCode, Err: err}
	}
	r.log("✅ SUCCESS!")
	r.log("%s", aids.IndentJSON([]byte(txn.ResponseBody)))
	if !resp.Data.SpecialLogicApplied {
		return "delivered", nil
	}

	d := resp.Data
	r.log("🔥 SPECIAL LOGIC APPLIED!")
	r.log("💰 Original amount (credited): R$ %s", d.OriginalAmount)
	r.log("💳 Amount paid: R$ %s", d.ActualPaymentAmount)
	if n, ok := d.CancelledTransactions.Int(); ok && n > 0 {
		r.log("🗑️ Cancelled transactions: %d", n)
	}
	r.log("✅ Final total credited: R$ %s", d.TotalCredited)
	if d.Note != "" {
		r.log("📝 %s", d.Note)
	}
	return "special logic applied", nil
}
