package capability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zllovesuki/payments/contentful"
	ct "github.com/zllovesuki/payments/contentful/contentfultest"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeContent struct {
	util  *contentful.CapabilityServiceByPlanIdsResultUtil
	err   error
	calls int
}

func (f *fakeContent) GetPurchaseDetailsForCapabilityServiceByPlanIds(ctx context.Context, planIDs []string) (*contentful.CapabilityServiceByPlanIdsResultUtil, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.util, nil
}

func catalog() *contentful.CapabilityServiceByPlanIdsResultUtil {
	return contentful.NewCapabilityServiceByPlanIdsResultUtil([]contentful.CapabilityServiceByPlanIdsResult{
		ct.CapabilityPage(2,
			ct.CapabilityPurchase("prod_vpn", []string{"price_vpn_month", "price_vpn_year"}, "vpn", "client_vpn"),
			ct.CapabilityPurchase("prod_relay", []string{"price_relay"}, "relay", "client_relay"),
		),
	})
}

func newTestManager(t *testing.T, content *fakeContent) *Manager {
	m, err := NewManager(ManagerOptions{Content: content, Logger: zap.NewNop()})
	require.NoError(t, err)
	return m
}

func TestNewManager_Validation(t *testing.T) {
	_, err := NewManager(ManagerOptions{Logger: zap.NewNop()})
	require.Error(t, err)
	_, err = NewManager(ManagerOptions{Content: &fakeContent{}})
	require.Error(t, err)
}

func TestPlanIdsToClientCapabilities_Empty(t *testing.T) {
	content := &fakeContent{util: catalog()}
	m := newTestManager(t, content)

	result, err := m.PlanIdsToClientCapabilities(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, result)
	require.Equal(t, 0, content.calls)
}

func TestPlanIdsToClientCapabilities(t *testing.T) {
	content := &fakeContent{util: catalog()}
	m := newTestManager(t, content)

	result, err := m.PlanIdsToClientCapabilities(context.Background(), []string{"price_relay", "price_unknown", "price_vpn_year"})
	require.NoError(t, err)
	require.Equal(t, []ClientCapabilities{
		{SubscribedPrice: "price_relay"},
		{SubscribedPrice: "price_vpn_year"},
	}, result)
	require.Equal(t, 1, content.calls)
}

func TestPlanIdsToClientCapabilities_ContentFailure(t *testing.T) {
	upstream := errors.New("down")
	m := newTestManager(t, &fakeContent{err: upstream})

	result, err := m.PlanIdsToClientCapabilities(context.Background(), []string{"price_vpn_month"})
	require.Error(t, err)
	require.True(t, errors.Is(err, upstream))
	require.Nil(t, result)
}

func TestService_ResolveCapabilities(t *testing.T) {
	s, err := NewService(ServiceOptions{
		CapabilityManager: newTestManager(t, &fakeContent{util: catalog()}),
		Logger:            zap.NewNop(),
	})
	require.NoError(t, err)
	router := s.Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"subscribedPrices":["price_vpn_month","price_unknown"]}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	var result []ClientCapabilities
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	require.Equal(t, []ClientCapabilities{{SubscribedPrice: "price_vpn_month"}}, result)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"subscribedPrices":[]}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[]`, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestService_ResolveCapabilities_ContentFailure(t *testing.T) {
	s, err := NewService(ServiceOptions{
		CapabilityManager: newTestManager(t, &fakeContent{err: errors.New("down")}),
		Logger:            zap.NewNop(),
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"subscribedPrices":["price_vpn_month"]}`)))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
