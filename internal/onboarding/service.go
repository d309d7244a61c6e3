// File: internal/onboarding/service.go
package onboarding

import (
	"context"
	"fmt"
	"net/http"

	"bazaar_onboarding_backend/internal/buyer"
	"bazaar_onboarding_backend/internal/common"
	"bazaar_onboarding_backend/internal/config"
	"bazaar_onboarding_backend/internal/seller"
	"bazaar_onboarding_backend/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Step action names handed to clients in next_step descriptors.
const (
	ActionAcceptTerms = "accept_terms"
	ActionSelectDay   = "select_day"
)

// Result is the outcome of an onboarding operation: a human-readable
// message, the current profile representation, and (when the flow is not
// finished) the next required action.
type Result struct {
	Message  string
	Data     interface{}
	NextStep *common.NextStep
}

// Service drives the onboarding state machine. Status is derived from the
// stored flags on every call, never from a stored state column, so it
// cannot desynchronize from the data.
//
// Buyer flow:  new -> terms_pending -> complete.
// Seller flow: new -> terms_pending -> day_pending -> complete.
type Service interface {
	// ProcessUser ensures a User and matching profile exist for username
	// and reports the current status plus the next required action.
	ProcessUser(ctx context.Context, userType, username string) (*Result, error)
	AcceptBuyerTerms(ctx context.Context, profileID uuid.UUID, accepted bool) (*Result, error)
	AcceptSellerTerms(ctx context.Context, profileID uuid.UUID, accepted bool) (*Result, error)
	SelectSellerDay(ctx context.Context, profileID uuid.UUID, day string) (*Result, error)
}

type service struct {
	users   user.Repository
	buyers  buyer.Repository
	sellers seller.Repository
	cfg     *config.Config
	logger  *zap.Logger
}

// NewService creates a new onboarding service.
func NewService(
	users user.Repository,
	buyers buyer.Repository,
	sellers seller.Repository,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	return &service{
		users:   users,
		buyers:  buyers,
		sellers: sellers,
		cfg:     cfg,
		logger:  logger.Named("OnboardingService"),
	}
}

func (s *service) acceptTermsStep(kind string, profileID uuid.UUID) *common.NextStep {
	return &common.NextStep{
		Action:  ActionAcceptTerms,
		URL:     fmt.Sprintf("%s/%s/%s/accept_terms", s.cfg.PublicBaseURL, kind, profileID),
		Method:  http.MethodPost,
		Payload: map[string]interface{}{"terms_accepted": true},
	}
}

func (s *service) selectDayStep(profileID uuid.UUID) *common.NextStep {
	return &common.NextStep{
		Action:  ActionSelectDay,
		URL:     fmt.Sprintf("%s/sellers/%s/select_day", s.cfg.PublicBaseURL, profileID),
		Method:  http.MethodPost,
		Payload: map[string]interface{}{"selected_day": "monday"},
	}
}

func (s *service) ProcessUser(ctx context.Context, userType, username string) (*Result, error) {
	if username == "" {
		return nil, common.ErrBadRequest.WithDetails("user_type and username are required")
	}
	if !user.IsValidType(userType) {
		return nil, common.ErrBadRequest.WithDetails("Invalid user_type")
	}

	u, created, err := s.users.GetOrCreate(ctx, username, userType)
	if err != nil {
		s.logger.Error("Failed to get or create user", zap.Error(err), zap.String("username", username))
		return nil, err
	}
	// A repeated username keeps its original type; re-submitting with the
	// other type is a conflict, not a silent reclassification.
	if u.UserType != userType {
		return nil, common.ErrConflict.WithDetails(
			fmt.Sprintf("Username %q is already registered as a %s.", username, u.UserType))
	}
	if created {
		s.logger.Info("User created", zap.String("username", username), zap.String("user_type", userType))
	}

	switch userType {
	case user.TypeBuyer:
		return s.buyerStatus(ctx, u)
	default:
		return s.sellerStatus(ctx, u)
	}
}

func (s *service) buyerStatus(ctx context.Context, u *user.User) (*Result, error) {
	profile, _, err := s.buyers.GetOrCreateByUserID(ctx, u.ID)
	if err != nil {
		s.logger.Error("Failed to get or create buyer profile", zap.Error(err), zap.String("userID", u.ID.String()))
		return nil, err
	}
	if !profile.TermsAccepted {
		return &Result{
			Message:  "Buyer profile created. Please accept terms and conditions.",
			Data:     buyer.ToResponse(profile),
			NextStep: s.acceptTermsStep("buyers", profile.ID),
		}, nil
	}
	return &Result{
		Message: "Buyer API executed. Terms already accepted.",
		Data:    buyer.ToResponse(profile),
	}, nil
}

func (s *service) sellerStatus(ctx context.Context, u *user.User) (*Result, error) {
	profile, _, err := s.sellers.GetOrCreateByUserID(ctx, u.ID)
	if err != nil {
		s.logger.Error("Failed to get or create seller profile", zap.Error(err), zap.String("userID", u.ID.String()))
		return nil, err
	}
	switch {
	case !profile.TermsAccepted:
		return &Result{
			Message:  "Seller profile created. Please accept terms and conditions.",
			Data:     seller.ToResponse(profile),
			NextStep: s.acceptTermsStep("sellers", profile.ID),
		}, nil
	case profile.SelectedDay == nil:
		return &Result{
			Message:  "Seller terms accepted. Please select a day.",
			Data:     seller.ToResponse(profile),
			NextStep: s.selectDayStep(profile.ID),
		}, nil
	default:
		return &Result{
			Message: "Seller API executed. Terms already accepted.",
			Data:    seller.ToResponse(profile),
		}, nil
	}
}

func (s *service) AcceptBuyerTerms(ctx context.Context, profileID uuid.UUID, accepted bool) (*Result, error) {
	profile, err := s.buyers.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	profile.TermsAccepted = accepted
	if err := s.buyers.Update(ctx, profile); err != nil {
		s.logger.Error("Failed to update buyer terms acceptance", zap.Error(err), zap.String("profileID", profileID.String()))
		return nil, err
	}

	return &Result{
		Message: "Terms acceptance updated. Buyer process completed.",
		Data:    buyer.ToResponse(profile),
	}, nil
}

func (s *service) AcceptSellerTerms(ctx context.Context, profileID uuid.UUID, accepted bool) (*Result, error) {
	profile, err := s.sellers.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	profile.TermsAccepted = accepted
	if err := s.sellers.Update(ctx, profile); err != nil {
		s.logger.Error("Failed to update seller terms acceptance", zap.Error(err), zap.String("profileID", profileID.String()))
		return nil, err
	}

	// One-shot transition: only a truthy acceptance chains into day
	// selection; a falsy update reports completion of the step alone.
	if accepted {
		return &Result{
			Message:  "Terms acceptance updated. Please select a day.",
			Data:     seller.ToResponse(profile),
			NextStep: s.selectDayStep(profile.ID),
		}, nil
	}
	return &Result{
		Message: "Terms acceptance updated.",
		Data:    seller.ToResponse(profile),
	}, nil
}

func (s *service) SelectSellerDay(ctx context.Context, profileID uuid.UUID, day string) (*Result, error) {
	profile, err := s.sellers.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	// Checked before any mutation so a rejected value leaves the stored
	// selected_day untouched.
	if !seller.IsValidDay(day) {
		return nil, common.ErrBadRequest.WithDetails("Invalid day")
	}

	profile.SelectedDay = &day
	if err := s.sellers.Update(ctx, profile); err != nil {
		s.logger.Error("Failed to update seller selected day", zap.Error(err), zap.String("profileID", profileID.String()))
		return nil, err
	}

	return &Result{
		Message: "Day selected. Seller process completed.",
		Data:    seller.ToResponse(profile),
	}, nil
}
