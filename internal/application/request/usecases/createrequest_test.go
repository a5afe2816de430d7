package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsyosefali/saas-package-management/internal/domain/catalog"
	"github.com/itsyosefali/saas-package-management/internal/domain/request"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

func standardPackage(t *testing.T) *catalog.Package {
	t.Helper()
	pkg, err := catalog.ReconstructPackage(1, "Standard", 100.0, 10, 1000, 500, "- Up to 10 users", true, time.Now(), time.Now())
	require.NoError(t, err)
	return pkg
}

func TestCreateRequestUseCase_Execute(t *testing.T) {
	requestRepo := newMemRequestRepo()
	notifier := &recordingNotifier{}
	uc := NewCreateRequestUseCase(requestRepo, newFakePackageRepo(standardPackage(t)), notifier, logger.NewLogger())

	result, err := uc.Execute(context.Background(), CreateRequestCommand{
		CustomerName: "Acme Corp",
		Email:        "ops@acme.example",
		PackageName:  "Standard",
		RequestDate:  time.Now(),
		Notes:        "please expedite",
	})
	require.NoError(t, err)

	assert.NotZero(t, result.RequestID)
	assert.Equal(t, "Acme Corp", result.CustomerName)
	assert.Equal(t, "Standard", result.PackageName)
	assert.Equal(t, "Pending", result.Status)
	assert.Equal(t, []uint{result.RequestID}, notifier.received)

	stored, err := requestRepo.GetByID(context.Background(), result.RequestID)
	require.NoError(t, err)
	assert.Equal(t, uint(1), stored.PackageID())
}

func TestCreateRequestUseCase_UnknownPackage(t *testing.T) {
	uc := NewCreateRequestUseCase(newMemRequestRepo(), newFakePackageRepo(), &recordingNotifier{}, logger.NewLogger())

	_, err := uc.Execute(context.Background(), CreateRequestCommand{
		CustomerName: "Acme Corp",
		PackageName:  "Nonexistent",
		RequestDate:  time.Now(),
	})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.Contains(t, err.Error(), "Package does not exist")
}

func TestCreateRequestUseCase_InactivePackage(t *testing.T) {
	pkg, err := catalog.ReconstructPackage(2, "Retired", 50.0, 5, 100, 50, "", false, time.Now(), time.Now())
	require.NoError(t, err)
	uc := NewCreateRequestUseCase(newMemRequestRepo(), newFakePackageRepo(pkg), &recordingNotifier{}, logger.NewLogger())

	_, err = uc.Execute(context.Background(), CreateRequestCommand{
		CustomerName: "Acme Corp",
		PackageName:  "Retired",
		RequestDate:  time.Now(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not active")
}

func TestCreateRequestUseCase_SanitizesNotes(t *testing.T) {
	requestRepo := newMemRequestRepo()
	uc := NewCreateRequestUseCase(requestRepo, newFakePackageRepo(standardPackage(t)), &recordingNotifier{}, logger.NewLogger())

	result, err := uc.Execute(context.Background(), CreateRequestCommand{
		CustomerName: "Acme Corp",
		PackageName:  "Standard",
		RequestDate:  time.Now(),
		Notes:        `<script>alert("x")</script>needs SSO`,
	})
	require.NoError(t, err)

	stored, err := requestRepo.GetByID(context.Background(), result.RequestID)
	require.NoError(t, err)
	assert.NotContains(t, stored.Notes(), "<script>")
	assert.Contains(t, stored.Notes(), "needs SSO")
}

func TestCreateRequestUseCase_ValidatesCommand(t *testing.T) {
	uc := NewCreateRequestUseCase(newMemRequestRepo(), newFakePackageRepo(standardPackage(t)), &recordingNotifier{}, logger.NewLogger())

	tests := []struct {
		name string
		cmd  CreateRequestCommand
	}{
		{"missing customer name", CreateRequestCommand{PackageName: "Standard", RequestDate: time.Now()}},
		{"missing package", CreateRequestCommand{CustomerName: "Acme", RequestDate: time.Now()}},
		{"missing request date", CreateRequestCommand{CustomerName: "Acme", PackageName: "Standard"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.cmd)
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
		})
	}
}

func TestUpdateRequestStatusUseCase_Execute(t *testing.T) {
	requestRepo := newMemRequestRepo()
	req, err := request.NewCustomerRequest("Acme Corp", "ops@acme.example", 1, "Standard", "", "", time.Now())
	require.NoError(t, err)
	require.NoError(t, requestRepo.Create(context.Background(), req))

	uc := NewUpdateRequestStatusUseCase(requestRepo, logger.NewLogger())

	dto, err := uc.Execute(context.Background(), UpdateRequestStatusCommand{
		RequestID:  req.ID(),
		Status:     "Rejected",
		AdminNotes: "duplicate request",
	})
	require.NoError(t, err)
	assert.Equal(t, "Rejected", dto.Status)
}

func TestUpdateRequestStatusUseCase_RejectsInvalidTransition(t *testing.T) {
	requestRepo := newMemRequestRepo()
	req, err := request.NewCustomerRequest("Acme Corp", "", 1, "Standard", "", "", time.Now())
	require.NoError(t, err)
	require.NoError(t, req.Approve(""))
	require.NoError(t, requestRepo.Create(context.Background(), req))

	uc := NewUpdateRequestStatusUseCase(requestRepo, logger.NewLogger())

	_, err = uc.Execute(context.Background(), UpdateRequestStatusCommand{RequestID: req.ID(), Status: "Pending"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot transition")
}

func TestUpdateRequestStatusUseCase_ConflictAsksForRefresh(t *testing.T) {
	requestRepo := newMemRequestRepo()
	req, err := request.NewCustomerRequest("Acme Corp", "", 1, "Standard", "", "", time.Now())
	require.NoError(t, err)
	require.NoError(t, requestRepo.Create(context.Background(), req))
	requestRepo.conflictsLeft = 1

	uc := NewUpdateRequestStatusUseCase(requestRepo, logger.NewLogger())

	_, err = uc.Execute(context.Background(), UpdateRequestStatusCommand{RequestID: req.ID(), Status: "Cancelled"})
	require.Error(t, err)
	assert.True(t, errors.IsConflictError(err))
	assert.Contains(t, err.Error(), "Please refresh and try again")
}
