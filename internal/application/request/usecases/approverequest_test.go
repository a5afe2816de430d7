package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsyosefali/saas-package-management/internal/domain/request"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

func pendingRequest(t *testing.T, repo *memRequestRepo) *request.CustomerRequest {
	t.Helper()
	req, err := request.NewCustomerRequest("Acme Corp", "ops@acme.example", 1, "Standard", "", "", time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), req))
	return req
}

func TestApproveRequestUseCase_ApprovesAndCreatesSite(t *testing.T) {
	requestRepo := newMemRequestRepo()
	req := pendingRequest(t, requestRepo)
	provisioner := &fakeProvisioner{siteName: "acme-corp"}

	uc := NewApproveRequestUseCase(requestRepo, provisioner, logger.NewLogger())

	result, err := uc.Execute(context.Background(), ApproveRequestCommand{RequestID: req.ID(), AdminNotes: "verified"})
	require.NoError(t, err)

	assert.Equal(t, "Approved", result.Status)
	assert.Equal(t, "acme-corp", result.SiteName)
	assert.Empty(t, result.CapacityError)
	assert.Equal(t, []uint{req.ID()}, provisioner.calls)
}

func TestApproveRequestUseCase_NoCapacityKeepsRequestApproved(t *testing.T) {
	requestRepo := newMemRequestRepo()
	req := pendingRequest(t, requestRepo)
	provisioner := &fakeProvisioner{err: errors.NewNoCapacityError("no available instances found for this package")}

	uc := NewApproveRequestUseCase(requestRepo, provisioner, logger.NewLogger())

	result, err := uc.Execute(context.Background(), ApproveRequestCommand{RequestID: req.ID()})
	require.NoError(t, err)

	assert.Equal(t, "Approved", result.Status)
	assert.Empty(t, result.SiteName)
	assert.Contains(t, result.CapacityError, "no available instances")

	stored, err := requestRepo.GetByID(context.Background(), req.ID())
	require.NoError(t, err)
	assert.Equal(t, request.StatusApproved, stored.Status())
}

func TestApproveRequestUseCase_ExistingSiteIsTolerated(t *testing.T) {
	requestRepo := newMemRequestRepo()
	req := pendingRequest(t, requestRepo)
	provisioner := &fakeProvisioner{err: errors.NewAlreadyExistsError("Customer Site already exists for this request")}

	uc := NewApproveRequestUseCase(requestRepo, provisioner, logger.NewLogger())

	result, err := uc.Execute(context.Background(), ApproveRequestCommand{RequestID: req.ID()})
	require.NoError(t, err)
	assert.Equal(t, "Approved", result.Status)
	assert.Empty(t, result.SiteName)
}

func TestApproveRequestUseCase_AlreadyApprovedFails(t *testing.T) {
	requestRepo := newMemRequestRepo()
	req := pendingRequest(t, requestRepo)
	require.NoError(t, req.Approve(""))

	uc := NewApproveRequestUseCase(requestRepo, &fakeProvisioner{}, logger.NewLogger())

	_, err := uc.Execute(context.Background(), ApproveRequestCommand{RequestID: req.ID()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot transition")
}

func TestApproveRequestUseCase_ConflictAsksForRefresh(t *testing.T) {
	requestRepo := newMemRequestRepo()
	req := pendingRequest(t, requestRepo)
	requestRepo.conflictsLeft = 1
	provisioner := &fakeProvisioner{siteName: "acme-corp"}

	uc := NewApproveRequestUseCase(requestRepo, provisioner, logger.NewLogger())

	_, err := uc.Execute(context.Background(), ApproveRequestCommand{RequestID: req.ID()})
	require.Error(t, err)
	assert.True(t, errors.IsConflictError(err))
	assert.Contains(t, err.Error(), "Please refresh and try again")
	assert.Empty(t, provisioner.calls)
}

func TestApproveRequestUseCase_UnknownRequest(t *testing.T) {
	uc := NewApproveRequestUseCase(newMemRequestRepo(), &fakeProvisioner{}, logger.NewLogger())

	_, err := uc.Execute(context.Background(), ApproveRequestCommand{RequestID: 42})
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}
