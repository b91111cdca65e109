package gateway_http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okwaro/sokopesa/internal/pkg/models"
	"github.com/okwaro/sokopesa/internal/pkg/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitiatePurchase(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/buyer/purchase/initiate", r.URL.Path)

		var req models.PurchaseInitiateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(42), req.ListingID)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.PurchaseInitiateResponse{TransactionID: 101})
	}))
	defer server.Close()

	gw := NewEscrowGateway(remote.NewClient(server.URL, 5*time.Second))
	resp, err := gw.InitiatePurchase(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(101), resp.TransactionID)
}

func TestRevealCredentials(t *testing.T) {
	t.Run("success decodes the payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/transactions/101/reveal", r.URL.Path)

			var req models.CredentialRevealRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "correct", req.UserPassword)

			json.NewEncoder(w).Encode(models.CredentialReveal{
				Username:            "seller@example.com",
				Password:            "hunter2",
				SelfDestructMinutes: 5,
				RevealedAt:          time.Now().UTC(),
			})
		}))
		defer server.Close()

		gw := NewEscrowGateway(remote.NewClient(server.URL, 5*time.Second))
		reveal, err := gw.RevealCredentials(context.Background(), 101, "correct")
		require.NoError(t, err)
		assert.Equal(t, "hunter2", reveal.Password)
		assert.Equal(t, 5, reveal.SelfDestructMinutes)
	})

	t.Run("wrong password keeps the remote detail", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Invalid password"}`))
		}))
		defer server.Close()

		gw := NewEscrowGateway(remote.NewClient(server.URL, 5*time.Second))
		_, err := gw.RevealCredentials(context.Background(), 101, "wrong")
		require.Error(t, err)

		f, ok := remote.AsFailure(err)
		require.True(t, ok)
		assert.Equal(t, remote.ClassClientError, f.Class)
		assert.Equal(t, "Invalid password", f.Detail)
	})
}

func TestConfirmAccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions/101/confirm-access", r.URL.Path)

		var req models.AccessConfirmRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Confirmed)

		json.NewEncoder(w).Encode(models.AccessConfirmResponse{
			Transaction: models.TransactionDetail{Transaction: models.Transaction{ID: 101, State: models.TransactionCompleted}},
			Message:     "Access confirmed! Funds released to seller.",
		})
	}))
	defer server.Close()

	gw := NewEscrowGateway(remote.NewClient(server.URL, 5*time.Second))
	resp, err := gw.ConfirmAccess(context.Background(), 101)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionCompleted, resp.Transaction.State)
	assert.Equal(t, "Access confirmed! Funds released to seller.", resp.Message)
}

func TestSignContract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/contracts/3/sign", r.URL.Path)

		var req models.ContractSignRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Amina Okwaro", req.FullName)

		json.NewEncoder(w).Encode(models.TransactionDetail{Transaction: models.Transaction{ID: 101, State: models.TransactionContractSigned}})
	}))
	defer server.Close()

	gw := NewEscrowGateway(remote.NewClient(server.URL, 5*time.Second))
	detail, err := gw.SignContract(context.Background(), 3, "Amina Okwaro")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionContractSigned, detail.State)
}

func TestListPurchases(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/buyer/transactions", r.URL.Path)
		json.NewEncoder(w).Encode([]models.TransactionDetail{
			{Transaction: models.Transaction{ID: 101, State: models.TransactionFundsHeld}},
			{Transaction: models.Transaction{ID: 102, State: models.TransactionCompleted}},
		})
	}))
	defer server.Close()

	gw := NewEscrowGateway(remote.NewClient(server.URL, 5*time.Second))
	purchases, err := gw.ListPurchases(context.Background())
	require.NoError(t, err)
	require.Len(t, purchases, 2)
	assert.Equal(t, int64(101), purchases[0].ID)
}
