// Package ledger holds the in-memory budget ledger: categories, debts, budget
// rows, revenues and investments.
//
// Every mutation copies the current snapshot, edits the copy and publishes it
// under a mutex, so readers always observe a complete state. Category and debt
// changes re-run recurrence materialization for the current year inside the
// same mutation.
package ledger

import (
	"sync"
	"time"

	"fjacquet/budgetmaster/internal/logging"
	"fjacquet/budgetmaster/internal/models"
	"fjacquet/budgetmaster/internal/recurrence"

	"github.com/google/uuid"
)

// Store is the ledger repository.
type Store struct {
	mu           sync.Mutex
	current      Snapshot
	materializer *recurrence.Materializer
	logger       logging.Logger
	newID        func() string
}

// NewStore creates an empty ledger positioned on year. A zero year means the
// current calendar year.
func NewStore(year int, materializer *recurrence.Materializer, logger logging.Logger) *Store {
	logger = logging.OrDefault(logger)
	if materializer == nil {
		materializer = recurrence.NewMaterializer(logger)
	}
	if year == 0 {
		year = time.Now().Year()
	}
	return &Store{
		current:      Snapshot{Year: year},
		materializer: materializer,
		logger:       logger,
		newID:        uuid.NewString,
	}
}

// Snapshot returns a copy of the current ledger state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Restore replaces the whole ledger with snap and reconciles its year.
func (s *Store) Restore(snap Snapshot) error {
	return s.mutate("restore", func(next *Snapshot) error {
		*next = snap.Clone()
		if next.Year == 0 {
			next.Year = time.Now().Year()
		}
		s.reconcileLocked(next, next.Year)
		return nil
	})
}

// mutate applies fn to a copy of the current snapshot and publishes the copy
// when fn succeeds. On error the current snapshot is left untouched.
func (s *Store) mutate(op string, fn func(next *Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.Clone()
	if err := fn(&next); err != nil {
		s.logger.Debug("Ledger mutation rejected",
			logging.F(logging.FieldOperation, op),
			logging.F(logging.FieldError, err.Error()))
		return err
	}
	s.current = next
	return nil
}

// Year returns the year the ledger is positioned on.
func (s *Store) Year() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Year
}

// SetYear moves the ledger to year and materializes its recurring rows. It
// returns the number of rows added.
func (s *Store) SetYear(year int) (int, error) {
	var added int
	err := s.mutate("set_year", func(next *Snapshot) error {
		if year <= 0 {
			return invalid("year must be positive")
		}
		next.Year = year
		added = s.reconcileLocked(next, year)
		return nil
	})
	return added, err
}

// Reconcile materializes the recurring rows missing for year and returns the
// rows it added. Running it twice adds nothing the second time.
func (s *Store) Reconcile(year int) ([]models.BudgetRow, error) {
	var added []models.BudgetRow
	err := s.mutate("reconcile", func(next *Snapshot) error {
		if year <= 0 {
			return invalid("year must be positive")
		}
		before := len(next.BudgetRows)
		s.reconcileLocked(next, year)
		added = append(added, next.BudgetRows[before:]...)
		return nil
	})
	return added, err
}

func (s *Store) reconcileLocked(next *Snapshot, year int) int {
	rows := s.materializer.Materialize(next.Categories, next.BudgetRows, year)
	next.BudgetRows = append(next.BudgetRows, rows...)
	if len(rows) > 0 {
		s.logger.Info("Reconciled recurring rows",
			logging.F(logging.FieldYear, year),
			logging.F(logging.FieldCount, len(rows)))
	}
	return len(rows)
}

func (s *Store) id(candidate string) string {
	if candidate != "" {
		return candidate
	}
	return s.newID()
}
