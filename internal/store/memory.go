package store

import (
	"context"
	"fmt"
	"sync"

	"aptfee/internal/apperror"
	"aptfee/internal/models"
	"aptfee/internal/period"
)

// MemoryStore keeps everything in process memory. It backs the "memory"
// database backend and most tests.
type MemoryStore struct {
	mu         sync.RWMutex
	normalizer *period.Normalizer
	households []models.Household
	fees       []models.Fee
	payments   []models.Payment
}

// NewMemoryStore creates an empty MemoryStore. normalizer decides period
// attribution for the duplicate check; nil means UTC.
func NewMemoryStore(normalizer *period.Normalizer) *MemoryStore {
	if normalizer == nil {
		normalizer = period.NewNormalizer(nil)
	}
	return &MemoryStore{normalizer: normalizer}
}

// GetHousehold implements Store.
func (s *MemoryStore) GetHousehold(_ context.Context, id string) (models.Household, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, h := range s.households {
		if h.ID == id {
			return h, nil
		}
	}
	return models.Household{}, &apperror.NotFoundError{Entity: "household", ID: id}
}

// CountHouseholds implements Store.
func (s *MemoryStore) CountHouseholds(_ context.Context, activeOnly bool) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, h := range s.households {
		if !activeOnly || h.Active {
			n++
		}
	}
	return n, nil
}

// ListFees implements Store.
func (s *MemoryStore) ListFees(_ context.Context, activeOnly bool) ([]models.Fee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fees := make([]models.Fee, 0, len(s.fees))
	for _, f := range s.fees {
		if !activeOnly || f.Active {
			fees = append(fees, f)
		}
	}
	return fees, nil
}

// FindPayments implements Store.
func (s *MemoryStore) FindPayments(_ context.Context, filter PaymentFilter) ([]models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Payment
	for _, p := range s.payments {
		if filter.Match(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

// InsertFee implements Store.
func (s *MemoryStore) InsertFee(_ context.Context, fee *models.Fee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fee.ID == "" {
		fee.ID = newID()
	}
	for _, f := range s.fees {
		if f.ID == fee.ID {
			return fmt.Errorf("fee %s already exists", fee.ID)
		}
	}
	s.fees = append(s.fees, *fee)
	return nil
}

// InsertHousehold implements Store.
func (s *MemoryStore) InsertHousehold(_ context.Context, household *models.Household) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if household.ID == "" {
		household.ID = newID()
	}
	for _, h := range s.households {
		if h.ID == household.ID {
			return fmt.Errorf("household %s already exists", household.ID)
		}
		if h.ApartmentNumber == household.ApartmentNumber {
			return fmt.Errorf("apartment %s already registered to household %s", household.ApartmentNumber, h.ID)
		}
	}
	s.households = append(s.households, *household)
	return nil
}

// InsertPayment implements Store.
func (s *MemoryStore) InsertPayment(_ context.Context, payment *models.Payment) error {
	if err := validatePayment(payment); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if payment.ID == "" {
		payment.ID = newID()
	}
	for _, p := range s.payments {
		if p.ID == payment.ID {
			return fmt.Errorf("payment %s already exists", payment.ID)
		}
	}
	if existing, dup := duplicateOf(s.normalizer, s.payments, *payment); dup {
		return duplicateError(s.normalizer, *payment, existing)
	}
	s.payments = append(s.payments, *payment)
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	return nil
}
