package eligibility

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
	EligibilityManager *Manager
	Logger             *zap.Logger
}

// Service is the eligibility API router
type Service struct {
	ServiceOptions
}

// NewService will create an instance of the eligibility API router
func NewService(option ServiceOptions) (*Service, error) {
	if option.EligibilityManager == nil {
		return nil, fmt.Errorf("nil EligibilityManager is invalid")
	}
	if option.Logger == nil {
		return nil, fmt.Errorf("nil Logger is invalid")
	}
	return &Service{
		ServiceOptions: option,
	}, nil
}

// CheckRequest is the model of a request to check the eligibility of a target plan
type CheckRequest struct {
	WebPlanIDs   []string `json:"webPlanIds" validate:"dive,required"`
	IAPPlanIDs   []string `json:"iapPlanIds" validate:"dive,required"`
	TargetPlanID string   `json:"targetPlanId" validate:"required"`
}

// CheckResponse is the outcome of an eligibility check
type CheckResponse struct {
	Eligibility    Result `json:"eligibility"`
	ExistingPlanID string `json:"existingPlanId,omitempty"`
}

func (s *Service) checkEligibility(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		resp.WriteError(w, r, resp.ErrInvalidJson())
		return
	}
	if err := validate.Struct(&req); err != nil {
		resp.WriteError(w, r, resp.ErrValidation(err))
		return
	}

	logger := resp.Logger(ctx, s.Logger).With(zap.String("TargetPlanID", req.TargetPlanID))

	result, existingPlanID, err := s.EligibilityManager.GetPlanEligibility(ctx, req.WebPlanIDs, req.IAPPlanIDs, req.TargetPlanID)
	if err != nil {
		logger.Error("Unable to determine plan eligibility",
			zap.Error(err),
		)
		resp.WriteError(w, r, resp.ErrContentUnavailable().AddMessages("Cannot determine eligibility for plan"))
		return
	}

	logger.Debug("Plan eligibility determined",
		zap.String("Eligibility", string(result)),
		zap.String("ExistingPlanID", existingPlanID),
	)

	resp.WriteResponse(w, r, CheckResponse{
		Eligibility:    result,
		ExistingPlanID: existingPlanID,
	})
}

// Router will return the routes under eligibility API
func (s *Service) Router() http.Handler {
	r := chi.NewRouter()

	r.Post("/", s.checkEligibility)

	return r
}
