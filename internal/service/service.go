// Package service is the calling layer in front of the engine. It loads
// data from the store, runs the resolver or the composer, and turns read
// failures into generic load errors.
package service

import (
	"context"
	"errors"
	"time"

	"aptfee/internal/apperror"
	"aptfee/internal/dashboard"
	"aptfee/internal/feestatus"
	"aptfee/internal/logging"
	"aptfee/internal/models"
	"aptfee/internal/period"
	"aptfee/internal/revenue"
	"aptfee/internal/store"
)

// HouseholdStatus is the fee status list of one household.
type HouseholdStatus struct {
	Household models.Household      `json:"household"`
	Period    string                `json:"period"`
	Fees      []feestatus.FeeStatus `json:"fees"`
}

// Service answers fee status, dashboard and duplicate queries.
type Service struct {
	store      store.Store
	normalizer *period.Normalizer
	resolver   *feestatus.Resolver
	composer   *dashboard.Composer
	logger     logging.Logger
}

// New creates a Service.
func New(s store.Store, normalizer *period.Normalizer, resolver *feestatus.Resolver, composer *dashboard.Composer, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{
		store:      s,
		normalizer: normalizer,
		resolver:   resolver,
		composer:   composer,
		logger:     logger.WithField(logging.FieldComponent, logging.ComponentService),
	}
}

// FeeStatus resolves the active fees of one household for the month
// containing at. An unknown household yields an error matching
// apperror.ErrNotFound; any other read failure is a *apperror.LoadError.
func (s *Service) FeeStatus(ctx context.Context, householdID string, at time.Time) (*HouseholdStatus, error) {
	log := s.logger.WithField(logging.FieldHouseholdID, householdID)

	household, err := s.store.GetHousehold(ctx, householdID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		log.WithError(err).Error("Failed to load household")
		return nil, &apperror.LoadError{What: "status", Err: err}
	}

	fees, err := s.store.ListFees(ctx, true)
	if err != nil {
		log.WithError(err).Error("Failed to load fees")
		return nil, &apperror.LoadError{What: "status", Err: err}
	}

	payments, err := s.store.FindPayments(ctx, store.PaymentFilter{HouseholdID: household.ID})
	if err != nil {
		log.WithError(err).Error("Failed to load payments")
		return nil, &apperror.LoadError{What: "status", Err: err}
	}

	ref := s.normalizer.Reference(at)
	return &HouseholdStatus{
		Household: household,
		Period:    ref.Current.String(),
		Fees:      s.resolver.Resolve(household, fees, payments, ref),
	}, nil
}

// Dashboard builds a snapshot for at. Failures are *apperror.LoadError.
func (s *Service) Dashboard(ctx context.Context, at time.Time, dayMonth period.Month) (*dashboard.Snapshot, error) {
	snap, err := s.composer.Snapshot(ctx, at, dayMonth)
	if err != nil {
		s.logger.WithError(err).Error("Failed to build dashboard")
		return nil, &apperror.LoadError{What: "dashboard", Err: err}
	}
	return snap, nil
}

// Revenue returns the revenue summary for the trend of months months ending
// at the month containing at. A non-positive months uses the configured
// trend length.
func (s *Service) Revenue(ctx context.Context, at time.Time, months int) (revenue.Summary, error) {
	snap, err := s.composer.WithTrendMonths(months).Snapshot(ctx, at, period.Month{})
	if err != nil {
		s.logger.WithError(err).Error("Failed to build revenue report")
		return revenue.Summary{}, &apperror.LoadError{What: "revenue", Err: err}
	}
	return snap.Revenue, nil
}

// Duplicates lists every fee, household and period with more than one
// paid payment.
func (s *Service) Duplicates(ctx context.Context) ([]feestatus.Duplicate, error) {
	payments, err := s.store.FindPayments(ctx, store.PaymentFilter{Status: models.PaymentPaid})
	if err != nil {
		s.logger.WithError(err).Error("Failed to load payments")
		return nil, &apperror.LoadError{What: "payments", Err: err}
	}
	dups := feestatus.FindDuplicates(payments, s.normalizer)
	if len(dups) > 0 {
		s.logger.Warn("Duplicate paid payments found",
			logging.Field{Key: logging.FieldCount, Value: len(dups)})
	}
	return dups, nil
}
