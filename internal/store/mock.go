package store

import (
	"context"

	"aptfee/internal/models"
)

// MockStore wraps a MemoryStore and fails selected reads with the configured
// errors. It is used to exercise error paths in callers.
type MockStore struct {
	*MemoryStore

	// Error flags for testing error conditions
	GetHouseholdError    error
	CountHouseholdsError error
	ListFeesError        error
	FindPaymentsError    error
}

// NewMockStore creates a MockStore over an empty MemoryStore.
func NewMockStore() *MockStore {
	return &MockStore{MemoryStore: NewMemoryStore(nil)}
}

// GetHousehold returns GetHouseholdError when set.
func (m *MockStore) GetHousehold(ctx context.Context, id string) (models.Household, error) {
	if m.GetHouseholdError != nil {
		return models.Household{}, m.GetHouseholdError
	}
	return m.MemoryStore.GetHousehold(ctx, id)
}

// CountHouseholds returns CountHouseholdsError when set.
func (m *MockStore) CountHouseholds(ctx context.Context, activeOnly bool) (int, error) {
	if m.CountHouseholdsError != nil {
		return 0, m.CountHouseholdsError
	}
	return m.MemoryStore.CountHouseholds(ctx, activeOnly)
}

// ListFees returns ListFeesError when set.
func (m *MockStore) ListFees(ctx context.Context, activeOnly bool) ([]models.Fee, error) {
	if m.ListFeesError != nil {
		return nil, m.ListFeesError
	}
	return m.MemoryStore.ListFees(ctx, activeOnly)
}

// FindPayments returns FindPaymentsError when set.
func (m *MockStore) FindPayments(ctx context.Context, filter PaymentFilter) ([]models.Payment, error) {
	if m.FindPaymentsError != nil {
		return nil, m.FindPaymentsError
	}
	return m.MemoryStore.FindPayments(ctx, filter)
}
