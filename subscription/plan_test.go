package subscription

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/zllovesuki/payments/external"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// rewriteTransport sends every request to target instead of api.stripe.com
type rewriteTransport struct {
	target *url.URL
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = t.target.Scheme
	req.URL.Host = t.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func newTestLister(t *testing.T, handler http.HandlerFunc) *StripePlanLister {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	target, err := url.Parse(srv.URL)
	require.NoError(t, err)

	sc := external.NewStripeClient("sk_test_123", zap.NewNop(), &http.Client{
		Transport: &rewriteTransport{target: target},
	})
	lister, err := NewStripePlanLister(sc)
	require.NoError(t, err)
	return lister
}

func TestStripePlanLister_ListPlans(t *testing.T) {
	lister := newTestLister(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/plans", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("active"))
		query, err := url.QueryUnescape(r.URL.RawQuery)
		assert.NoError(t, err)
		assert.Contains(t, query, "data.product")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"object": "list",
			"url": "/v1/plans",
			"has_more": false,
			"data": [
				{"id": "plan_vpn", "object": "plan", "nickname": "VPN monthly", "interval": "month", "interval_count": 1,
				 "product": {"id": "prod_vpn", "object": "product", "name": "Mozilla VPN"}},
				{"id": "plan_relay", "object": "plan", "interval": "year", "interval_count": 1, "product": "prod_relay"}
			]
		}`))
	})

	plans, err := lister.ListPlans(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 2)
	require.Equal(t, "plan_vpn", plans[0].ID)
	require.Equal(t, "Mozilla VPN", plans[0].Product.Name)
	require.Equal(t, "prod_relay", plans[1].Product.ID)
}

func TestStripePlanLister_ListPlans_Error(t *testing.T) {
	lister := newTestLister(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"type": "invalid_request_error", "message": "No such plan"}}`))
	})

	plans, err := lister.ListPlans(context.Background())
	require.Error(t, err)
	require.Nil(t, plans)
	require.Contains(t, err.Error(), "Cannot list Plans on Stripe")
}
