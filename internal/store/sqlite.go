package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"aptfee/internal/apperror"
	"aptfee/internal/logging"
	"aptfee/internal/models"
	"aptfee/internal/period"

	_ "modernc.org/sqlite"
)

// storedTimeLayout keeps stored instants in UTC with a fixed width whose
// first ten characters are the UTC calendar day.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const dateLayout = "2006-01-02"

// SQLiteStore persists records in a SQLite database file.
type SQLiteStore struct {
	db         *sql.DB
	normalizer *period.Normalizer
	logger     logging.Logger
}

// NewSQLiteStore opens (creating if needed) the database at dbPath and
// applies migrations.
func NewSQLiteStore(dbPath string, normalizer *period.Normalizer, logger logging.Logger) (*SQLiteStore, error) {
	if normalizer == nil {
		normalizer = period.NewNormalizer(nil)
	}
	if logger == nil {
		logger = logging.Discard()
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), models.PermissionDirectory); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("Opened SQLite store",
		logging.Field{Key: logging.FieldFile, Value: dbPath})

	return &SQLiteStore{
		db:         db,
		normalizer: normalizer,
		logger:     logger.WithField(logging.FieldComponent, logging.ComponentStore),
	}, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetHousehold implements Store.
func (s *SQLiteStore) GetHousehold(ctx context.Context, id string) (models.Household, error) {
	var h models.Household
	err := s.db.QueryRowContext(ctx,
		`SELECT id, apartment_number, head_resident_id, active FROM households WHERE id = ?`, id,
	).Scan(&h.ID, &h.ApartmentNumber, &h.HeadResidentID, &h.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Household{}, &apperror.NotFoundError{Entity: "household", ID: id}
	}
	if err != nil {
		return models.Household{}, fmt.Errorf("get household %s: %w", id, err)
	}
	return h, nil
}

// CountHouseholds implements Store.
func (s *SQLiteStore) CountHouseholds(ctx context.Context, activeOnly bool) (int, error) {
	query := `SELECT COUNT(*) FROM households`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	var n int
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count households: %w", err)
	}
	return n, nil
}

// ListFees implements Store.
func (s *SQLiteStore) ListFees(ctx context.Context, activeOnly bool) ([]models.Fee, error) {
	query := `SELECT id, code, name, amount, fee_type, start_date, end_date, active FROM fees`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY rowid`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list fees: %w", err)
	}
	defer rows.Close()

	var fees []models.Fee
	for rows.Next() {
		var (
			f          models.Fee
			feeType    string
			start, end sql.NullString
		)
		if err := rows.Scan(&f.ID, &f.Code, &f.Name, &f.Amount, &feeType, &start, &end, &f.Active); err != nil {
			return nil, fmt.Errorf("scan fee: %w", err)
		}
		f.FeeType = models.FeeType(feeType)
		f.StartDate = s.readTime(start, f.ID, "start_date")
		f.EndDate = s.readTime(end, f.ID, "end_date")
		fees = append(fees, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list fees: %w", err)
	}
	return fees, nil
}

// FindPayments implements Store.
func (s *SQLiteStore) FindPayments(ctx context.Context, filter PaymentFilter) ([]models.Payment, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.HouseholdID != "" {
		where = append(where, "household_id = ?")
		args = append(args, filter.HouseholdID)
	}
	if filter.FeeID != "" {
		where = append(where, "fee_id = ?")
		args = append(args, filter.FeeID)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	// Stored dates may be date-only or carry an offset, so the SQL range is
	// widened to whole UTC days and Match makes the exact cut.
	if filter.PaidFrom != nil {
		where = append(where, "substr(payment_date, 1, 10) >= ?")
		args = append(args, filter.PaidFrom.UTC().AddDate(0, 0, -1).Format(dateLayout))
	}
	if filter.PaidTo != nil {
		where = append(where, "substr(payment_date, 1, 10) <= ?")
		args = append(args, filter.PaidTo.UTC().AddDate(0, 0, 1).Format(dateLayout))
	}

	query := `SELECT id, fee_id, household_id, amount, status, payment_date, period, method, note FROM payments`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY seq"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find payments: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var (
			p            models.Payment
			status       string
			paid, billed sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.FeeID, &p.HouseholdID, &p.Amount, &status, &paid, &billed, &p.Method, &p.Note); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		p.Status = models.PaymentStatus(status)
		p.PaymentDate = s.readTime(paid, p.ID, "payment_date")
		p.Period = s.readTime(billed, p.ID, "period")
		if filter.Match(p) {
			payments = append(payments, p)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find payments: %w", err)
	}
	return payments, nil
}

// InsertFee implements Store.
func (s *SQLiteStore) InsertFee(ctx context.Context, fee *models.Fee) error {
	if fee.ID == "" {
		fee.ID = newID()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO fees (id, code, name, amount, fee_type, start_date, end_date, active) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		fee.ID, fee.Code, fee.Name, fee.Amount.String(), string(fee.FeeType),
		nullTime(fee.StartDate), nullTime(fee.EndDate), fee.Active)
	if err != nil {
		return fmt.Errorf("insert fee %s: %w", fee.ID, err)
	}
	return nil
}

// InsertHousehold implements Store.
func (s *SQLiteStore) InsertHousehold(ctx context.Context, household *models.Household) error {
	if household.ID == "" {
		household.ID = newID()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO households (id, apartment_number, head_resident_id, active) VALUES (?, ?, ?, ?)`,
		household.ID, household.ApartmentNumber, household.HeadResidentID, household.Active)
	if err != nil {
		return fmt.Errorf("insert household %s: %w", household.ID, err)
	}
	return nil
}

// InsertPayment implements Store.
func (s *SQLiteStore) InsertPayment(ctx context.Context, payment *models.Payment) error {
	if err := validatePayment(payment); err != nil {
		return err
	}
	if payment.ID == "" {
		payment.ID = newID()
	}

	if payment.IsPaid() {
		existing, err := s.FindPayments(ctx, PaymentFilter{
			HouseholdID: payment.HouseholdID,
			FeeID:       payment.FeeID,
			Status:      models.PaymentPaid,
		})
		if err != nil {
			return fmt.Errorf("insert payment %s: %w", payment.ID, err)
		}
		if dup, found := duplicateOf(s.normalizer, existing, *payment); found {
			return duplicateError(s.normalizer, *payment, dup)
		}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payments (id, fee_id, household_id, amount, status, payment_date, period, method, note) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID, payment.FeeID, payment.HouseholdID, payment.Amount.String(), string(payment.Status),
		nullTime(payment.PaymentDate), nullTime(payment.Period), payment.Method, payment.Note)
	if err != nil {
		return fmt.Errorf("insert payment %s: %w", payment.ID, err)
	}
	return nil
}

// readTime parses a stored date. Malformed values read back as nil.
func (s *SQLiteStore) readTime(v sql.NullString, id, column string) *time.Time {
	if !v.Valid || v.String == "" {
		return nil
	}
	t, err := time.Parse(storedTimeLayout, v.String)
	if err != nil {
		t, err = time.Parse(time.RFC3339Nano, v.String)
	}
	if err != nil {
		t, err = time.ParseInLocation(dateLayout, v.String, s.normalizer.Location())
	}
	if err != nil {
		s.logger.Warn("Ignoring malformed stored date",
			logging.Field{Key: "id", Value: id},
			logging.Field{Key: "column", Value: column},
			logging.Field{Key: "value", Value: v.String})
		return nil
	}
	return &t
}

func formatTime(t time.Time) string {
	return t.UTC().Format(storedTimeLayout)
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil || t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}
