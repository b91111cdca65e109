package models

import (
	"fmt"
	"time"
)

// ConfirmationStage identifies the lifecycle checkpoint a buyer
// acknowledgment was collected at.
type ConfirmationStage string

const (
	StagePaymentComplete     ConfirmationStage = "payment_complete"
	StageContractSigning     ConfirmationStage = "contract_signing"
	StageCredentialReveal    ConfirmationStage = "credential_reveal"
	StageAccessConfirmation  ConfirmationStage = "access_confirmation"
	StageTransactionComplete ConfirmationStage = "transaction_complete"
)

// confirmationStageOrder maps 1:1 onto the forward path of the transaction
// state machine; stages must be collected in this order.
var confirmationStageOrder = []ConfirmationStage{
	StagePaymentComplete,
	StageContractSigning,
	StageCredentialReveal,
	StageAccessConfirmation,
	StageTransactionComplete,
}

// ConfirmationStages returns all stages in collection order.
func ConfirmationStages() []ConfirmationStage {
	out := make([]ConfirmationStage, len(confirmationStageOrder))
	copy(out, confirmationStageOrder)
	return out
}

// Index returns the stage's position in collection order, or -1 for an
// unknown stage.
func (s ConfirmationStage) Index() int {
	for i, stage := range confirmationStageOrder {
		if stage == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is a known stage.
func (s ConfirmationStage) Valid() bool {
	return s.Index() >= 0
}

// Prev returns the stage that must already be recorded before s, and false
// when s is the first stage.
func (s ConfirmationStage) Prev() (ConfirmationStage, bool) {
	i := s.Index()
	if i <= 0 {
		return "", false
	}
	return confirmationStageOrder[i-1], true
}

// ParseConfirmationStage converts a raw string into a ConfirmationStage,
// failing closed on unknown values.
func ParseConfirmationStage(raw string) (ConfirmationStage, error) {
	s := ConfirmationStage(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown confirmation stage: %q", raw)
	}
	return s, nil
}

// BuyerConfirmation is an append-only audit record of one buyer
// acknowledgment. It is never mutated or deleted after creation.
type BuyerConfirmation struct {
	ID               string            `json:"id"`
	TransactionID    int64             `json:"transaction_id"`
	BuyerID          int64             `json:"buyer_id"`
	Stage            ConfirmationStage `json:"stage"`
	ConfirmationText string            `json:"confirmation_text"`
	CheckboxLabel    string            `json:"checkbox_label"`
	IPAddress        string            `json:"ip_address,omitempty"`
	UserAgent        string            `json:"user_agent,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}

// BuyerConfirmationCreate carries the literal texts shown to the buyer at
// acknowledgment time.
type BuyerConfirmationCreate struct {
	Stage            ConfirmationStage `json:"stage"`
	ConfirmationText string            `json:"confirmation_text"`
	CheckboxLabel    string            `json:"checkbox_label"`
	IPAddress        string            `json:"ip_address,omitempty"`
	UserAgent        string            `json:"user_agent,omitempty"`
}
