package capability

import (
	"encoding/json"
	"fmt"
	"net/http"

	resp "github.com/zllovesuki/payments/response"

	"github.com/go-chi/chi"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate *validator.Validate = validator.New()

// ServiceOptions contains the configuration for Service router
type ServiceOptions struct {
	CapabilityManager *Manager
	Logger            *zap.Logger
}

// Service is the capability API router
type Service struct {
	ServiceOptions
}

// NewService will create an instance of the capability API router
func NewService(option ServiceOptions) (*Service, error) {
	if option.CapabilityManager == nil {
		return nil, fmt.Errorf("nil CapabilityManager is invalid")
	}
	if option.Logger == nil {
		return nil, fmt.Errorf("nil Logger is invalid")
	}
	return &Service{
		ServiceOptions: option,
	}, nil
}

// ResolveRequest is the model of a request to resolve capabilities for subscribed prices
type ResolveRequest struct {
	SubscribedPrices []string `json:"subscribedPrices" validate:"dive,required"`
}

func (s *Service) resolveCapabilities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		resp.WriteError(w, r, resp.ErrInvalidJson())
		return
	}
	if err := validate.Struct(&req); err != nil {
		resp.WriteError(w, r, resp.ErrValidation(err))
		return
	}

	capabilities, err := s.CapabilityManager.PlanIdsToClientCapabilities(ctx, req.SubscribedPrices)
	if err != nil {
		resp.Logger(ctx, s.Logger).Error("Unable to resolve capabilities",
			zap.Strings("SubscribedPrices", req.SubscribedPrices),
			zap.Error(err),
		)
		resp.WriteError(w, r, resp.ErrContentUnavailable().AddMessages("Cannot resolve capabilities"))
		return
	}

	resp.WriteResponse(w, r, capabilities)
}

// Router will return the routes under capability API
func (s *Service) Router() http.Handler {
	r := chi.NewRouter()

	r.Post("/", s.resolveCapabilities)

	return r
}
