package usecase

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/okwaro/sokopesa/internal/pkg/models"
)

var (
	// ErrConfirmationOrder means a stage was submitted before its
	// predecessor was recorded.
	ErrConfirmationOrder = errors.New("confirmation stage out of order")
	// ErrConfirmationExists means the stage was already recorded for the
	// transaction; the audit trail is append-only.
	ErrConfirmationExists = errors.New("confirmation stage already recorded")
)

// ConfirmationLog tracks which acknowledgment stages have been recorded
// per transaction, enforcing collection order. Stages fail closed: an
// unknown stage or a skipped predecessor is rejected locally before any
// request is made.
type ConfirmationLog struct {
	mu      sync.Mutex
	records map[int64]map[models.ConfirmationStage]models.BuyerConfirmation
}

// NewConfirmationLog creates an empty log
func NewConfirmationLog() *ConfirmationLog {
	return &ConfirmationLog{
		records: make(map[int64]map[models.ConfirmationStage]models.BuyerConfirmation),
	}
}

// Validate checks that stage may be recorded next for the transaction.
func (l *ConfirmationLog) Validate(transactionID int64, stage models.ConfirmationStage) error {
	if !stage.Valid() {
		return fmt.Errorf("unknown confirmation stage: %q", stage)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	recorded := l.records[transactionID]
	if _, ok := recorded[stage]; ok {
		return ErrConfirmationExists
	}
	if prev, ok := stage.Prev(); ok {
		if _, done := recorded[prev]; !done {
			return fmt.Errorf("%w: %s requires %s first", ErrConfirmationOrder, stage, prev)
		}
	}
	return nil
}

// Record stores an accepted confirmation.
func (l *ConfirmationLog) Record(c models.BuyerConfirmation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.records[c.TransactionID] == nil {
		l.records[c.TransactionID] = make(map[models.ConfirmationStage]models.BuyerConfirmation)
	}
	l.records[c.TransactionID][c.Stage] = c
}

// List returns the recorded confirmations for a transaction in collection
// order.
func (l *ConfirmationLog) List(transactionID int64) []models.BuyerConfirmation {
	l.mu.Lock()
	defer l.mu.Unlock()

	recorded := l.records[transactionID]
	out := make([]models.BuyerConfirmation, 0, len(recorded))
	for _, c := range recorded {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Stage.Index() < out[j].Stage.Index()
	})
	return out
}
