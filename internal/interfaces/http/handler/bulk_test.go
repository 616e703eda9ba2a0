package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bulkapp "github.com/sfa/backend/internal/application/bulk"
	salesapp "github.com/sfa/backend/internal/application/sales"
	"github.com/sfa/backend/internal/domain/bulk"
	"github.com/sfa/backend/internal/interfaces/http/dto"
)

func TestBulkHandler_Edit(t *testing.T) {
	s := newTestServer(t)
	a := createAccount(t, s, "Edit One")
	b := createAccount(t, s, "Edit Two")

	w := s.do(t, http.MethodPut, "/api/v1/accounts/bulk-edit", testActor, map[string]any{
		"ids":   []uuid.UUID{a.ID, b.ID, a.ID},
		"patch": map[string]string{"status": "Inactive", "area": "East"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decodeData[bulkapp.Result](t, w)
	assert.Equal(t, 2, result.Requested)
	assert.Equal(t, 2, result.Affected)
	require.NotNil(t, result.OperationID)

	w = s.do(t, http.MethodGet, "/api/v1/accounts/"+b.ID.String(), testActor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeData[salesapp.AccountResponse](t, w)
	assert.Equal(t, "Inactive", updated.Status)
	assert.Equal(t, "East", updated.Area)

	w = s.do(t, http.MethodGet, "/api/v1/bulk-operations?target=accounts", testActor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := decodeData[[]bulkapp.OperationResponse](t, w)
	require.Len(t, history, 1)
	assert.Equal(t, bulk.ActionEdit, history[0].Action)
	assert.Equal(t, bulk.StatusCompleted, history[0].Status)
	assert.Equal(t, testActor, history[0].Actor)
}

func TestBulkHandler_EditEmptySelection(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPut, "/api/v1/accounts/bulk-edit", testActor, map[string]any{
		"ids":   []uuid.UUID{},
		"patch": map[string]string{"status": "Inactive"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decodeData[bulkapp.Result](t, w)
	assert.Zero(t, result.Affected)
	assert.Nil(t, result.OperationID)
}

func TestBulkHandler_EditRejectsColumnOutsideWhitelist(t *testing.T) {
	s := newTestServer(t)
	a := createAccount(t, s, "Whitelist Co")

	w := s.do(t, http.MethodPut, "/api/v1/accounts/bulk-edit", testActor, map[string]any{
		"ids":   []uuid.UUID{a.ID},
		"patch": map[string]string{"referenceid": "XX-TSA-000001"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidInput, errorCode(t, w))
}

func TestBulkHandler_EditWhileAnotherRuns(t *testing.T) {
	s := newTestServer(t)
	a := createAccount(t, s, "Busy Co")

	lease, err := s.locker.Obtain(context.Background(),
		bulkapp.LockKey(bulk.ActionEdit, bulk.TargetAccounts, testActor), time.Minute)
	require.NoError(t, err)
	defer func() { _ = lease.Release(context.Background()) }()

	w := s.do(t, http.MethodPut, "/api/v1/accounts/bulk-edit", testActor, map[string]any{
		"ids":   []uuid.UUID{a.ID},
		"patch": map[string]string{"area": "West"},
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, dto.ErrCodeBulkInProgress, errorCode(t, w))
}

func TestBulkHandler_Delete(t *testing.T) {
	s := newTestServer(t)
	a := createAccount(t, s, "Delete Me")
	createAccount(t, s, "Keep Me")

	w := s.do(t, http.MethodDelete, "/api/v1/accounts/bulk-delete", testActor, map[string]any{
		"ids": []uuid.UUID{a.ID, uuid.New()},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decodeData[bulkapp.Result](t, w)
	assert.Equal(t, 2, result.Requested)
	assert.Equal(t, 1, result.Affected)

	w = s.do(t, http.MethodGet, "/api/v1/accounts", testActor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decode(t, w).Meta.Total)
}

func TestBulkHandler_Transfer(t *testing.T) {
	s := newTestServer(t)
	a := createAccount(t, s, "Move Me")

	t.Run("unknown agent", func(t *testing.T) {
		w := s.do(t, http.MethodPut, "/api/v1/accounts/bulk-transfer", testActor, map[string]any{
			"ids":           []uuid.UUID{a.ID},
			"toreferenceid": "ZZ-TSA-999999",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeNotFound, errorCode(t, w))
	})

	t.Run("invalid reference ID", func(t *testing.T) {
		w := s.do(t, http.MethodPut, "/api/v1/accounts/bulk-transfer", testActor, map[string]any{
			"ids":           []uuid.UUID{a.ID},
			"toreferenceid": "!",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, errorCode(t, w))
	})

	t.Run("to a registered agent", func(t *testing.T) {
		agent := createUser(t, s, "Tina", "Santos", "tina@example.com", "Territory Sales Associate", "MN-MAN-000001")

		w := s.do(t, http.MethodPut, "/api/v1/accounts/bulk-transfer", testActor, map[string]any{
			"ids":           []uuid.UUID{a.ID},
			"toreferenceid": agent.ReferenceID,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, 1, decodeData[bulkapp.Result](t, w).Affected)

		w = s.do(t, http.MethodGet, "/api/v1/accounts/"+a.ID.String(), testActor, nil)
		require.Equal(t, http.StatusOK, w.Code)
		moved := decodeData[salesapp.AccountResponse](t, w)
		assert.Equal(t, agent.ReferenceID, moved.ReferenceID)
		assert.Equal(t, "MN-MAN-000001", moved.Manager)
	})
}

func TestBulkHandler_NoCaller(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodDelete, "/api/v1/accounts/bulk-delete", "", map[string]any{"ids": []uuid.UUID{uuid.New()}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
