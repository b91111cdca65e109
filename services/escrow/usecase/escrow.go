package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/okwaro/sokopesa/internal/pkg/affordance"
	"github.com/okwaro/sokopesa/internal/pkg/cache"
	"github.com/okwaro/sokopesa/internal/pkg/logger"
	"github.com/okwaro/sokopesa/internal/pkg/models"
	"github.com/okwaro/sokopesa/internal/pkg/mutation"
	"github.com/okwaro/sokopesa/services/escrow"
	"github.com/sirupsen/logrus"
)

// EscrowUC implements the escrow.EscrowUC interface
type EscrowUC struct {
	gw            escrow.EscrowGW
	controller    *mutation.Controller
	cache         *cache.Coordinator
	vault         *Vault
	confirmations *ConfirmationLog
	affordances   *affordance.Set
	log           *logrus.Entry
}

// NewEscrowUC creates the buyer escrow use case
func NewEscrowUC(gw escrow.EscrowGW, controller *mutation.Controller, c *cache.Coordinator, log *logger.AppLogger) escrow.EscrowUC {
	return &EscrowUC{
		gw:            gw,
		controller:    controller,
		cache:         c,
		vault:         NewVault(),
		confirmations: NewConfirmationLog(),
		affordances:   affordance.NewSet(),
		log:           log.WithComponent("escrow_usecase"),
	}
}

// purchaseKey serializes purchase attempts per listing; transactionKey
// serializes all actions on one transaction, which is why a transaction's
// buttons share a single affordance.
func purchaseKey(listingID int64) string {
	return fmt.Sprintf("purchase:%d", listingID)
}

func transactionKey(transactionID int64) string {
	return fmt.Sprintf("transaction:%d", transactionID)
}

// track runs one mutation under the affordance for key: loading while the
// request is in flight, then success or error. A call rejected because the
// key is busy never touches the in-flight cycle's affordance.
func (uc *EscrowUC) track(key string, run func() mutation.Outcome) mutation.Outcome {
	tr := uc.affordances.Get(key)
	if tr.IsLoading() {
		return run()
	}
	tr.SetLoading()
	out := run()
	if out.OK() {
		tr.SetSuccess()
	} else {
		tr.SetError(out.Failure)
	}
	return out
}

// PurchaseState reports the buy affordance for a listing.
func (uc *EscrowUC) PurchaseState(listingID int64) affordance.State {
	return uc.affordances.State(purchaseKey(listingID))
}

// ActionState reports the affordance of the active action on a transaction.
func (uc *EscrowUC) ActionState(transactionID int64) affordance.State {
	return uc.affordances.State(transactionKey(transactionID))
}

// MyPurchases returns the buyer's transactions, read through the cache.
func (uc *EscrowUC) MyPurchases(ctx context.Context) ([]models.TransactionDetail, error) {
	var cached []models.TransactionDetail
	if ok, err := uc.cache.Read(ctx, cache.MyPurchasesKey(), &cached); err != nil {
		uc.log.WithError(err).Warn("purchase list cache read failed")
	} else if ok {
		return cached, nil
	}

	fresh, err := uc.gw.ListPurchases(ctx)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.Write(ctx, cache.MyPurchasesKey(), fresh); err != nil {
		uc.log.WithError(err).Warn("purchase list cache write failed")
	}
	return fresh, nil
}

// Transaction returns one transaction detail view, read through the cache.
func (uc *EscrowUC) Transaction(ctx context.Context, id int64) (*models.TransactionDetail, error) {
	key := cache.TransactionDetailKey(id)

	var cached models.TransactionDetail
	if ok, err := uc.cache.Read(ctx, key, &cached); err != nil {
		uc.log.WithError(err).Warn("transaction cache read failed")
	} else if ok {
		return &cached, nil
	}

	fresh, err := uc.gw.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.Write(ctx, key, fresh); err != nil {
		uc.log.WithError(err).Warn("transaction cache write failed")
	}
	return fresh, nil
}

// InitiatePurchase starts the escrow flow for a listing. There is no local
// state to apply optimistically; the transaction does not exist until the
// remote creates it.
func (uc *EscrowUC) InitiatePurchase(ctx context.Context, listingID int64) mutation.Outcome {
	return uc.track(purchaseKey(listingID), func() mutation.Outcome {
		return uc.controller.Mutate(ctx, mutation.Mutation{
			Key: purchaseKey(listingID),
			Request: func(ctx context.Context) (interface{}, error) {
				resp, err := uc.gw.InitiatePurchase(ctx, listingID)
				if err != nil {
					return nil, err
				}
				return resp, nil
			},
			Invalidates:    []cache.Key{cache.TransactionsKey(), cache.CatalogKey()},
			SuccessTitle:   "Purchase initiated",
			SuccessMessage: "Purchase initiated! Redirecting to payment...",
			ErrorTitle:     "Purchase failed",
			Fallback:       "Failed to initiate purchase",
		})
	})
}

// SignContract signs the transaction's contract, optimistically advancing
// the cached view to contract_signed.
func (uc *EscrowUC) SignContract(ctx context.Context, transactionID, contractID int64, fullName string) mutation.Outcome {
	guard, apply, rollback := uc.optimisticTransition(ctx, transactionID, models.TransactionContractSigned)
	return uc.track(transactionKey(transactionID), func() mutation.Outcome {
		return uc.controller.Mutate(ctx, mutation.Mutation{
			Key:      transactionKey(transactionID),
			Guard:    guard,
			Apply:    apply,
			Rollback: rollback,
			Request: func(ctx context.Context) (interface{}, error) {
				detail, err := uc.gw.SignContract(ctx, contractID, fullName)
				if err != nil {
					return nil, err
				}
				return detail, nil
			},
			Invalidates:    []cache.Key{cache.TransactionsKey()},
			SuccessTitle:   "Contract signed",
			SuccessMessage: "Contract signed successfully!",
			ErrorTitle:     "Signing failed",
			Fallback:       "Failed to sign contract",
		})
	})
}

// RevealCredentials performs the one-time credential release. There is no
// optimistic apply: nothing local changes until the payload arrives, and
// the payload goes only into the vault, never the cache.
func (uc *EscrowUC) RevealCredentials(ctx context.Context, transactionID int64, userPassword string) mutation.Outcome {
	out := uc.track(transactionKey(transactionID), func() mutation.Outcome {
		return uc.controller.Mutate(ctx, mutation.Mutation{
			Key: transactionKey(transactionID),
			Request: func(ctx context.Context) (interface{}, error) {
				reveal, err := uc.gw.RevealCredentials(ctx, transactionID, userPassword)
				if err != nil {
					return nil, err
				}
				return reveal, nil
			},
			Invalidates: []cache.Key{cache.TransactionsKey()},
			ErrorTitle:  "Reveal failed",
			Fallback:    "Failed to reveal credentials",
		})
	})
	if out.OK() {
		if reveal, ok := out.Payload.(*models.CredentialReveal); ok {
			uc.vault.Store(transactionID, reveal)
		}
	}
	return out
}

// ConfirmAccess acknowledges verified access and releases the escrowed
// funds, optimistically completing the cached view.
func (uc *EscrowUC) ConfirmAccess(ctx context.Context, transactionID int64) mutation.Outcome {
	guard, apply, rollback := uc.optimisticTransition(ctx, transactionID, models.TransactionCompleted)
	out := uc.track(transactionKey(transactionID), func() mutation.Outcome {
		return uc.controller.Mutate(ctx, mutation.Mutation{
			Key:      transactionKey(transactionID),
			Guard:    guard,
			Apply:    apply,
			Rollback: rollback,
			Request: func(ctx context.Context) (interface{}, error) {
				resp, err := uc.gw.ConfirmAccess(ctx, transactionID)
				if err != nil {
					return nil, err
				}
				return resp, nil
			},
			Invalidates:    []cache.Key{cache.TransactionsKey()},
			SuccessTitle:   "Access confirmed",
			SuccessMessage: "Access confirmed! Funds released to seller.",
			ErrorTitle:     "Confirmation failed",
			Fallback:       "Failed to confirm access",
		})
	})
	if out.OK() {
		// Credentials have served their purpose once access is confirmed.
		uc.vault.Purge(transactionID)
	}
	return out
}

// Credentials returns the vaulted reveal payload if its self-destruct
// window has not lapsed.
func (uc *EscrowUC) Credentials(transactionID int64) (*models.CredentialReveal, bool) {
	return uc.vault.Get(transactionID)
}

// RecordConfirmation validates stage order locally, persists the
// acknowledgment remotely, then records it in the local log.
func (uc *EscrowUC) RecordConfirmation(ctx context.Context, transactionID int64, create *models.BuyerConfirmationCreate) (*models.BuyerConfirmation, error) {
	if err := uc.confirmations.Validate(transactionID, create.Stage); err != nil {
		return nil, err
	}
	created, err := uc.gw.CreateConfirmation(ctx, transactionID, create)
	if err != nil {
		return nil, err
	}
	uc.confirmations.Record(*created)
	return created, nil
}

// Confirmations lists the recorded acknowledgments for a transaction.
func (uc *EscrowUC) Confirmations(transactionID int64) []models.BuyerConfirmation {
	return uc.confirmations.List(transactionID)
}

// optimisticTransition builds the guard/apply/rollback triple for advancing
// the cached transaction view to next. With no cached view there is nothing
// to apply; the remote remains authoritative and the guard passes. Apply
// and rollback run on the context the controller supplies, which outlives
// the caller's, so the rollback write cannot be lost to a navigation away.
func (uc *EscrowUC) optimisticTransition(ctx context.Context, transactionID int64, next models.TransactionState) (guard func() error, apply func(context.Context) interface{}, rollback func(context.Context, interface{})) {
	key := cache.TransactionDetailKey(transactionID)

	load := func(ctx context.Context) *models.TransactionDetail {
		var detail models.TransactionDetail
		ok, err := uc.cache.Read(ctx, key, &detail)
		if err != nil {
			uc.log.WithError(err).Warn("transaction cache read failed")
			return nil
		}
		if !ok {
			return nil
		}
		return &detail
	}

	guard = func() error {
		detail := load(ctx)
		if detail == nil {
			return nil
		}
		if !detail.State.CanTransitionTo(next) {
			return fmt.Errorf("transaction is %s and cannot move to %s", detail.State, next)
		}
		return nil
	}

	apply = func(opCtx context.Context) interface{} {
		detail := load(opCtx)
		if detail == nil {
			return nil
		}
		snapshot := detail.Clone()
		if err := detail.ApplyTransition(next, time.Now()); err != nil {
			return nil
		}
		if next == models.TransactionCompleted {
			detail.BuyerConfirmedAccess = true
		}
		if err := uc.cache.Write(opCtx, key, detail); err != nil {
			uc.log.WithError(err).Warn("optimistic cache write failed")
			return nil
		}
		return snapshot
	}

	rollback = func(opCtx context.Context, snapshot interface{}) {
		prev, ok := snapshot.(*models.TransactionDetail)
		if !ok || prev == nil {
			return
		}
		if err := uc.cache.Write(opCtx, key, prev); err != nil {
			uc.log.WithError(err).Error("optimistic rollback write failed")
		}
	}

	return guard, apply, rollback
}
