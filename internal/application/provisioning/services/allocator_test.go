package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsyosefali/saas-package-management/internal/domain/instance"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

func TestAllocator_EarliestEligibleWins(t *testing.T) {
	repo := &memInstanceRepo{}
	repo.instances = []*instance.Instance{
		testInstance(1, "first", 7),
		testInstance(2, "second", 7),
		testInstance(3, "other-package", 9),
	}
	lock := &fakeLock{}
	allocator := NewAllocator(repo, lock, logger.NewLogger())

	chosen, err := allocator.Allocate(context.Background(), 7, "https://acme.spm.cloud")
	require.NoError(t, err)

	assert.Equal(t, uint(1), chosen.ID())
	assert.Equal(t, instance.DeploymentStatusDeployed, chosen.DeploymentStatus())
	assert.Equal(t, "https://acme.spm.cloud", chosen.ServerURL())
	assert.Equal(t, 1, lock.acquired)
	assert.Equal(t, 1, lock.released)
}

func TestAllocator_NoCapacity(t *testing.T) {
	repo := &memInstanceRepo{}
	repo.instances = []*instance.Instance{
		testInstance(1, "wrong-package", 9),
	}
	allocator := NewAllocator(repo, &fakeLock{}, logger.NewLogger())

	_, err := allocator.Allocate(context.Background(), 7, "https://acme.spm.cloud")
	assert.True(t, errors.IsNoCapacityError(err))
}

func TestAllocator_SkipsInactiveAndFailed(t *testing.T) {
	inactive := testInstance(1, "inactive", 7)
	inactive.Deactivate()
	failed := testInstance(2, "failed", 7)
	failed.MarkFailed()

	repo := &memInstanceRepo{}
	repo.instances = []*instance.Instance{inactive, failed, testInstance(3, "healthy", 7)}
	allocator := NewAllocator(repo, &fakeLock{}, logger.NewLogger())

	chosen, err := allocator.Allocate(context.Background(), 7, "https://acme.spm.cloud")
	require.NoError(t, err)
	assert.Equal(t, uint(3), chosen.ID())
}

func TestAllocator_RetriesOnceOnVersionRace(t *testing.T) {
	repo := &memInstanceRepo{conflictsLeft: 1}
	repo.instances = []*instance.Instance{testInstance(1, "first", 7)}
	allocator := NewAllocator(repo, &fakeLock{}, logger.NewLogger())

	chosen, err := allocator.Allocate(context.Background(), 7, "https://acme.spm.cloud")
	require.NoError(t, err)
	assert.Equal(t, uint(1), chosen.ID())
	assert.Equal(t, 1, repo.updates)
}

func TestAllocator_LockDenied(t *testing.T) {
	repo := &memInstanceRepo{}
	repo.instances = []*instance.Instance{testInstance(1, "first", 7)}
	allocator := NewAllocator(repo, &fakeLock{denied: true}, logger.NewLogger())

	_, err := allocator.Allocate(context.Background(), 7, "https://acme.spm.cloud")
	assert.True(t, errors.IsConflictError(err))
}
