package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsyosefali/saas-package-management/internal/domain/instance"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

func validCreateCommand() CreateInstanceCommand {
	return CreateInstanceCommand{
		Name:           "bench-01",
		Host:           "10.0.0.5",
		Port:           22,
		Username:       "frappe",
		SSHPassword:    "ssh-pass",
		DBRootPassword: "db-pass",
		RAMGB:          16,
		CPUCores:       8,
		StorageGB:      200,
		BenchPath:      "/home/frappe/frappe-bench",
		PackageID:      2,
	}
}

func TestCreateInstanceUseCase_StoresEncryptedSecrets(t *testing.T) {
	repo := newMemInstanceRepo()
	uc := NewCreateInstanceUseCase(repo, newMemGroupRepo(), &fakeCipher{}, logger.NewLogger())

	result, err := uc.Execute(context.Background(), validCreateCommand())
	require.NoError(t, err)

	assert.NotZero(t, result.InstanceID)
	assert.Equal(t, "bench-01", result.Name)

	stored, err := repo.GetByID(context.Background(), result.InstanceID)
	require.NoError(t, err)
	creds := stored.Credentials()
	assert.Equal(t, "enc:ssh-pass", creds.EncryptedPassword())
	assert.Equal(t, "enc:db-pass", creds.EncryptedDBPassword())
	assert.NotEqual(t, "ssh-pass", creds.EncryptedPassword())
}

func TestCreateInstanceUseCase_RequiresSecrets(t *testing.T) {
	uc := NewCreateInstanceUseCase(newMemInstanceRepo(), newMemGroupRepo(), &fakeCipher{}, logger.NewLogger())

	cmd := validCreateCommand()
	cmd.SSHPassword = ""
	_, err := uc.Execute(context.Background(), cmd)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	cmd = validCreateCommand()
	cmd.DBRootPassword = ""
	_, err = uc.Execute(context.Background(), cmd)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestCreateInstanceUseCase_EncryptionFailureAborts(t *testing.T) {
	repo := newMemInstanceRepo()
	uc := NewCreateInstanceUseCase(repo, newMemGroupRepo(), &fakeCipher{failEncrypt: true}, logger.NewLogger())

	_, err := uc.Execute(context.Background(), validCreateCommand())
	require.Error(t, err)
	assert.Empty(t, repo.instances)
}

func TestCreateInstanceUseCase_GroupAffinityMustMatch(t *testing.T) {
	groupRepo := newMemGroupRepo()
	group, err := instance.NewGroup("ultimate-pool", 1, "Ultimate tier hosts")
	require.NoError(t, err)
	require.NoError(t, groupRepo.Create(context.Background(), group))

	uc := NewCreateInstanceUseCase(newMemInstanceRepo(), groupRepo, &fakeCipher{}, logger.NewLogger())

	cmd := validCreateCommand()
	groupID := group.ID()
	cmd.GroupID = &groupID
	cmd.PackageID = 2

	_, err = uc.Execute(context.Background(), cmd)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestDeactivateInstanceUseCase_Execute(t *testing.T) {
	repo := newMemInstanceRepo()
	createUC := NewCreateInstanceUseCase(repo, newMemGroupRepo(), &fakeCipher{}, logger.NewLogger())
	created, err := createUC.Execute(context.Background(), validCreateCommand())
	require.NoError(t, err)

	uc := NewDeactivateInstanceUseCase(repo, logger.NewLogger())
	require.NoError(t, uc.Execute(context.Background(), created.InstanceID))

	stored, err := repo.GetByID(context.Background(), created.InstanceID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive())
	assert.False(t, stored.IsEligibleFor(stored.PackageID()))
}

func TestListInstancesUseCase_OmitsSecrets(t *testing.T) {
	repo := newMemInstanceRepo()
	createUC := NewCreateInstanceUseCase(repo, newMemGroupRepo(), &fakeCipher{}, logger.NewLogger())
	_, err := createUC.Execute(context.Background(), validCreateCommand())
	require.NoError(t, err)

	uc := NewListInstancesUseCase(repo, logger.NewLogger())
	dtos, err := uc.Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, dtos, 1)

	assert.Equal(t, "10.0.0.5", dtos[0].Host)
	assert.Equal(t, "frappe", dtos[0].Username)
	assert.Equal(t, "Running", dtos[0].DeploymentStatus)
}

func TestTestConnectionUseCase_Success(t *testing.T) {
	repo := newMemInstanceRepo()
	createUC := NewCreateInstanceUseCase(repo, newMemGroupRepo(), &fakeCipher{}, logger.NewLogger())
	created, err := createUC.Execute(context.Background(), validCreateCommand())
	require.NoError(t, err)

	executor := &fakeExecutor{output: "frappe\n"}
	uc := NewTestConnectionUseCase(repo, executor, &fakeCipher{}, logger.NewLogger())

	result, err := uc.Execute(context.Background(), created.InstanceID)
	require.NoError(t, err)
	assert.True(t, result.Reachable)
	assert.True(t, result.Authenticated)
	assert.Empty(t, result.Error)
	assert.Equal(t, "whoami", executor.commandRun)
}

func TestTestConnectionUseCase_SecretFailureIsReported(t *testing.T) {
	repo := newMemInstanceRepo()
	createUC := NewCreateInstanceUseCase(repo, newMemGroupRepo(), &fakeCipher{}, logger.NewLogger())
	created, err := createUC.Execute(context.Background(), validCreateCommand())
	require.NoError(t, err)

	uc := NewTestConnectionUseCase(repo, &fakeExecutor{}, &fakeCipher{failResolve: true}, logger.NewLogger())

	result, err := uc.Execute(context.Background(), created.InstanceID)
	require.NoError(t, err)
	assert.False(t, result.Reachable)
	assert.False(t, result.Authenticated)
	assert.Contains(t, result.Error, "decrypt")
}

func TestTestConnectionUseCase_UnreachableHost(t *testing.T) {
	repo := newMemInstanceRepo()
	createUC := NewCreateInstanceUseCase(repo, newMemGroupRepo(), &fakeCipher{}, logger.NewLogger())
	created, err := createUC.Execute(context.Background(), validCreateCommand())
	require.NoError(t, err)

	executor := &fakeExecutor{probeErr: errors.NewUnreachableError("connection refused")}
	uc := NewTestConnectionUseCase(repo, executor, &fakeCipher{}, logger.NewLogger())

	result, err := uc.Execute(context.Background(), created.InstanceID)
	require.NoError(t, err)
	assert.False(t, result.Reachable)
	assert.Contains(t, result.Error, "connection refused")
}
