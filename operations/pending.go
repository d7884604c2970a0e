package operations

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/JeffreyRichter/pixtester/internal/aids"
	"github.com/JeffreyRichter/pixtester/pix"
	"github.com/JeffreyRichter/pixtester/transport"
)

var errMissingStats = errors.New("response has no data.specialLogicStats or data.pendingTransactions")

// maxListed caps how many pending transactions are written to the log individually.
const maxListed = 5

// listPending fetches the special-logic statistics and the pending PIX deposits.
func (c *Controller) listPending(ctx context.Context, r *run) (string, error) {
	r.log("📊 Checking pending PIX transactions...")
	txn, err := r.do(ctx, transport.Request{
		Method:  http.MethodGet,
		URL:     pix.URL(r.cfg.BaseURL, pix.StatsPath),
		Header:  r.authHeader(),
		Timeout: c.opts.RequestTimeout,
	})
	if err != nil {
		r.log("❌ ERROR: %v", err)
		return "", err
	}
	if txn.StatusCode != http.StatusOK {
		r.log("❌ Check failed: HTTP %d", txn.StatusCode)
		if _, ok := txn.Body.(transport.JSONBody); !ok {
			if txn.ResponseBody != "" {
				r.log("%s", txn.ResponseBody)
			}
			return "", &ProtocolError{StatusCode: txn.StatusCode}
		}
		aerr, err := r.applicationError(txn)
		if err != nil {
			return "", err
		}
		if aerr.Message != "" {
			r.log("📝 %s", aerr.Message)
		}
		if txn.StatusCode == http.StatusUnauthorized && r.authHeader() == nil {
			r.log("💡 Set an auth token to read the statistics")
		}
		return "", aerr
	}

	var resp pix.StatsResponse
	if err := txn.Unmarshal(&resp); err != nil {
		r.log("❌ Could not read the response: %v", err)
		return "", &ProtocolError{StatusCode: txn.StatusCode, Err: err}
	}
	if resp.Data.SpecialLogicStats == nil || resp.Data.PendingTransactions == nil {
		r.log("❌ Could not read the response: %v", errMissingStats)
		r.log("%s", txn.Body.String())
		return "", &ProtocolError{StatusCode: txn.StatusCode, Err: errMissingStats}
	}
	s := resp.Data.SpecialLogicStats
	r.log("✅ Statistics:")
	r.log("🔥 Special logic applications: %s", orDash(s.Total))
	r.log("📈 Today: %s | This week: %s | This month: %s", orDash(s.Today), orDash(s.ThisWeek), orDash(s.ThisMonth))
	r.log("💰 Total credited: R$ %s", orDash(s.TotalAmountCredited))

	pending := resp.Data.PendingTransactions
	r.log("📋 Pending PIX transactions: %d", len(pending))
	if len(pending) == 0 {
		r.log("   No pending PIX transactions found")
	}
	for i, p := range pending[:min(len(pending), maxListed)] {
		r.log("   %d. ID: %s... | Amount: R$ %s | Date: %s", i+1, aids.Truncate(p.ID, 8), orDash(p.Amount), aids.Truncate(p.CreatedAt, 19))
	}
	if len(pending) > maxListed {
		r.log("   ... +%d more", len(pending)-maxListed)
	}
	return fmt.Sprintf("%d pending", len(pending)), nil
}

func orDash(v pix.Verbatim) string { return aids.Iif(v.IsSet(), v.String(), "-") }
