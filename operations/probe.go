package operations

import (
	"context"
	"fmt"
	"net/http"

	"github.com/JeffreyRichter/pixtester/internal/aids"
	"github.com/JeffreyRichter/pixtester/pix"
	"github.com/JeffreyRichter/pixtester/transport"
)

// probe checks that the backend is up, then that its PIX routes are mounted. Only the first call
// decides the outcome; the route check merely adds a note to the log.
func (c *Controller) probe(ctx context.Context, r *run) (string, error) {
	r.log("🔗 Testing connection to %s ...", r.cfg.BaseURL)
	txn, err := r.do(ctx, transport.Request{
		Method:  http.MethodGet,
		URL:     pix.URL(r.cfg.BaseURL, pix.RootPath),
		Timeout: c.opts.ProbeTimeout,
	})
	if err != nil {
		kind, _ := transport.KindOf(err)
		switch kind {
		case transport.ConnectionRefused:
			r.log("❌ SERVER OFFLINE!")
			r.log("💡 Start the backend first: cd backend && npm start")
		case transport.Timeout:
			r.log("⏰ TIMEOUT: the server took longer than %s to respond", c.opts.ProbeTimeout)
		default:
			r.log("❌ CONNECTION ERROR: %v", err)
		}
		return "", err
	}
	if txn.StatusCode != http.StatusOK {
		r.log("⚠️ Server answered with HTTP %d", txn.StatusCode)
		if body := txn.Body.String(); body != "" {
			r.log("%s", body)
		}
		return "", &ProtocolError{StatusCode: txn.StatusCode}
	}

	if _, ok := txn.Body.(transport.JSONBody); !ok {
		err := fmt.Errorf("response is not JSON (Content-Type %q)", txn.ResponseHeaders.Get("Content-Type"))
		r.log("❌ ERROR: %v", err)
		return "", &ProtocolError{StatusCode: txn.StatusCode, Err: err}
	}
	var greeting pix.Greeting
	if err := txn.Unmarshal(&greeting); err != nil {
		r.log("❌ ERROR: %v", err)
		return "", &ProtocolError{StatusCode: txn.StatusCode, Err: err}
	}
	r.log("✅ SERVER ONLINE!")
	r.log("📡 Response: %s", aids.Iif(greeting.Message.IsSet(), greeting.Message.String(), "OK"))
	c.probeRoutes(ctx, r)
	return "online", nil
}

func (c *Controller) probeRoutes(ctx context.Context, r *run) {
	txn, err := r.do(ctx, transport.Request{
		Method:  http.MethodGet,
		URL:     pix.URL(r.cfg.BaseURL, pix.StatsPath),
		Header:  r.authHeader(),
		Timeout: c.opts.ProbeTimeout,
	})
	switch {
	case err != nil:
		r.log("⚠️ Could not check the PIX routes: %v", err)
	case txn.StatusCode == http.StatusOK:
		r.log("✅ PIX routes loaded")
	case txn.StatusCode == http.StatusUnauthorized:
		r.log("✅ PIX routes loaded (statistics require a token)")
	default:
		r.log("⚠️ PIX routes may not be loaded (HTTP %d on %s)", txn.StatusCode, pix.StatsPath)
	}
}

