package models

import (
	"fmt"
	"time"
)

// TransactionState represents the escrow lifecycle state of a purchase
type TransactionState string

const (
	TransactionPending             TransactionState = "pending"
	TransactionFundsHeld           TransactionState = "funds_held"
	TransactionContractSigned      TransactionState = "contract_signed"
	TransactionCredentialsReleased TransactionState = "credentials_released"
	TransactionCompleted           TransactionState = "completed"
	TransactionRefunded            TransactionState = "refunded"
	TransactionDisputed            TransactionState = "disputed"
)

// transactionTransitions is the single source of truth for legal state
// transitions. The forward path never skips a stage, terminal states have
// no exits, and nothing returns to pending.
var transactionTransitions = map[TransactionState][]TransactionState{
	TransactionPending:             {TransactionFundsHeld},
	TransactionFundsHeld:           {TransactionContractSigned, TransactionRefunded, TransactionDisputed},
	TransactionContractSigned:      {TransactionCredentialsReleased, TransactionRefunded, TransactionDisputed},
	TransactionCredentialsReleased: {TransactionCompleted, TransactionRefunded, TransactionDisputed},
	TransactionDisputed:            {TransactionCompleted, TransactionRefunded},
	TransactionCompleted:           {},
	TransactionRefunded:            {},
}

// transactionForwardPath is the happy-path ordering used for the
// per-transition timestamp invariant.
var transactionForwardPath = []TransactionState{
	TransactionPending,
	TransactionFundsHeld,
	TransactionContractSigned,
	TransactionCredentialsReleased,
	TransactionCompleted,
}

// CanTransitionTo reports whether moving from s to next is a legal
// transition. Self-loops are never legal.
func (s TransactionState) CanTransitionTo(next TransactionState) bool {
	for _, allowed := range transactionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known transaction state.
func (s TransactionState) Valid() bool {
	_, ok := transactionTransitions[s]
	return ok
}

// Terminal reports whether s has no outgoing transitions. Disputed is
// terminal-pending-resolution and is not considered terminal here.
func (s TransactionState) Terminal() bool {
	return s.Valid() && len(transactionTransitions[s]) == 0
}

// TransactionStates returns all known states in lifecycle order.
func TransactionStates() []TransactionState {
	return []TransactionState{
		TransactionPending,
		TransactionFundsHeld,
		TransactionContractSigned,
		TransactionCredentialsReleased,
		TransactionCompleted,
		TransactionRefunded,
		TransactionDisputed,
	}
}

// ParseTransactionState converts a raw string (e.g. an admin filter value)
// into a TransactionState, failing closed on unknown values.
func ParseTransactionState(raw string) (TransactionState, error) {
	s := TransactionState(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown transaction state: %q", raw)
	}
	return s, nil
}

// Transaction represents one escrow purchase as seen by the client.
// Amount is in minor currency units (cents).
type Transaction struct {
	ID        int64            `json:"id"`
	ListingID int64            `json:"listing_id"`
	BuyerID   int64            `json:"buyer_id"`
	SellerID  int64            `json:"seller_id"`
	Amount    int64            `json:"amount"`
	State     TransactionState `json:"state"`

	FundsHeldAt           *time.Time `json:"funds_held_at"`
	ContractSignedAt      *time.Time `json:"contract_signed_at"`
	CredentialsReleasedAt *time.Time `json:"credentials_released_at"`
	AccessConfirmedAt     *time.Time `json:"access_confirmed_at"`
	CompletedAt           *time.Time `json:"completed_at"`
	RefundedAt            *time.Time `json:"refunded_at"`

	BuyerConfirmedAccess bool   `json:"buyer_confirmed_access"`
	Notes                string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListingSummary is the slice of listing data embedded in transaction views.
type ListingSummary struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Platform string `json:"platform"`
	Price    int64  `json:"price"`
}

// ContractSummary describes the signed contract attached to a transaction.
type ContractSummary struct {
	ID           int64      `json:"id"`
	PDFURL       string     `json:"pdf_url"`
	SignedByName string     `json:"signed_by_name,omitempty"`
	SignedAt     *time.Time `json:"signed_at"`
}

// TransactionDetail is the full buyer-facing view of a transaction.
type TransactionDetail struct {
	Transaction
	Listing  ListingSummary   `json:"listing"`
	Contract *ContractSummary `json:"contract,omitempty"`
}

// timestampFor returns a pointer to the timestamp slot for the given state,
// or nil when the state carries no timestamp (pending, disputed).
func (t *Transaction) timestampFor(s TransactionState) **time.Time {
	switch s {
	case TransactionFundsHeld:
		return &t.FundsHeldAt
	case TransactionContractSigned:
		return &t.ContractSignedAt
	case TransactionCredentialsReleased:
		return &t.CredentialsReleasedAt
	case TransactionCompleted:
		return &t.CompletedAt
	case TransactionRefunded:
		return &t.RefundedAt
	}
	return nil
}

// ApplyTransition moves the transaction to next at the given time,
// stamping the reached-state timestamp. It fails closed on illegal
// transitions and leaves the transaction untouched.
func (t *Transaction) ApplyTransition(next TransactionState, at time.Time) error {
	if !t.State.CanTransitionTo(next) {
		return fmt.Errorf("illegal transition %s -> %s", t.State, next)
	}
	t.State = next
	if slot := t.timestampFor(next); slot != nil {
		stamped := at
		*slot = &stamped
	}
	t.UpdatedAt = at
	return nil
}

// ValidateTimestamps checks the per-transition timestamp invariant: every
// forward-path state strictly before the current one carries a non-null
// timestamp, and every state after it is still null.
func (t *Transaction) ValidateTimestamps() error {
	pos := -1
	for i, s := range transactionForwardPath {
		if s == t.State {
			pos = i
			break
		}
	}
	if pos == -1 {
		// refunded/disputed sit off the forward path; nothing to check
		// beyond their own stamps.
		return nil
	}
	for i, s := range transactionForwardPath {
		slot := t.timestampFor(s)
		if slot == nil {
			continue
		}
		if i < pos && *slot == nil {
			return fmt.Errorf("state %s reached but timestamp missing", s)
		}
		if i > pos && *slot != nil {
			return fmt.Errorf("state %s not reached but timestamp set", s)
		}
	}
	return nil
}

// Clone returns a deep copy suitable as a rollback snapshot.
func (t *Transaction) Clone() *Transaction {
	cp := *t
	cp.FundsHeldAt = copyTime(t.FundsHeldAt)
	cp.ContractSignedAt = copyTime(t.ContractSignedAt)
	cp.CredentialsReleasedAt = copyTime(t.CredentialsReleasedAt)
	cp.AccessConfirmedAt = copyTime(t.AccessConfirmedAt)
	cp.CompletedAt = copyTime(t.CompletedAt)
	cp.RefundedAt = copyTime(t.RefundedAt)
	return &cp
}

// Clone returns a deep copy of the detail view.
func (d *TransactionDetail) Clone() *TransactionDetail {
	cp := *d
	cp.Transaction = *d.Transaction.Clone()
	if d.Contract != nil {
		contract := *d.Contract
		contract.SignedAt = copyTime(d.Contract.SignedAt)
		cp.Contract = &contract
	}
	return &cp
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}
