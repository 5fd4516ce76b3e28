package subscription

import (
	"fmt"
	"net/http"

	"github.com/zllovesuki/payments/contentful"
	resp "github.com/zllovesuki/payments/response"

	"github.com/go-chi/chi"
	"github.com/stripe/stripe-go/v72"
	"go.uber.org/zap"
)

// ServiceOptions contains the configuration for Service router
type ServiceOptions struct {
	Lister PlanLister
	Mapper *contentful.StripeMapper
	Logger *zap.Logger
}

// Service is the subscription API router
type Service struct {
	ServiceOptions
}

// NewService will create an instance of the subscription API router
func NewService(option ServiceOptions) (*Service, error) {
	if option.Lister == nil {
		return nil, fmt.Errorf("nil Lister is invalid")
	}
	if option.Mapper == nil {
		return nil, fmt.Errorf("nil Mapper is invalid")
	}
	if option.Logger == nil {
		return nil, fmt.Errorf("nil Logger is invalid")
	}
	return &Service{
		ServiceOptions: option,
	}, nil
}

func (s *Service) listPlans(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := resp.Logger(ctx, s.Logger)

	plans, err := s.Lister.ListPlans(ctx)
	if err != nil {
		logger.Error("Unable to list plans",
			zap.Error(err),
		)
		resp.WriteError(w, r, resp.ErrUnexpected().AddMessages("Unable to list plans"))
		return
	}

	report, err := s.Mapper.MapContentfulToStripePlans(ctx, plans, r.Header.Get("Accept-Language"))
	if err != nil {
		logger.Error("Unable to apply content to plans",
			zap.Error(err),
		)
		resp.WriteError(w, r, resp.ErrContentUnavailable().AddMessages("Unable to load plan content"))
		return
	}

	if nonMatching := report.NonMatchingPlans(); len(nonMatching) > 0 {
		logger.Warn("Stripe metadata does not match content",
			zap.Strings("Plans", nonMatching),
		)
	}

	mapped := report.MappedPlans()
	if mapped == nil {
		mapped = []*stripe.Plan{}
	}
	resp.WriteResponse(w, r, mapped)
}

// Router will return the routes under subscription API
func (s *Service) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/plans", s.listPlans)

	return r
}
