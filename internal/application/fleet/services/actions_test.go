package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsyosefali/saas-package-management/internal/domain/action"
	"github.com/itsyosefali/saas-package-management/internal/domain/instance"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

type memActionRepo struct {
	mu      sync.Mutex
	actions map[string]*action.InstanceAction
}

func (r *memActionRepo) Create(ctx context.Context, a *action.InstanceAction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.actions == nil {
		r.actions = map[string]*action.InstanceAction{}
	}
	r.actions[a.ID()] = a
	return nil
}

func (r *memActionRepo) GetByID(ctx context.Context, id string) (*action.InstanceAction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.actions[id]; ok {
		return a, nil
	}
	return nil, errors.NewNotFoundError("instance action not found")
}

func (r *memActionRepo) Update(ctx context.Context, a *action.InstanceAction) error {
	return r.Create(ctx, a)
}

func (r *memActionRepo) List(ctx context.Context, filter action.Filter) ([]*action.InstanceAction, int64, error) {
	return nil, 0, nil
}

func newTestActionRunner(executor *scriptedExecutor, instanceRepo *memInstanceRepo) (*ActionRunner, *memActionRepo) {
	actionRepo := &memActionRepo{}
	inspector := newTestInspector(executor, instanceRepo, nil, nil)
	secrets := &fakeSecrets{values: map[string]string{"enc-ssh": "ssh-pass", "enc-db": "db-pass"}}
	runner := NewActionRunner(actionRepo, instanceRepo, inspector, executor, secrets, testSSHConfig(), logger.NewLogger())
	return runner, actionRepo
}

func TestActionRunner_RestartInstance(t *testing.T) {
	executor := newScriptedExecutor()
	executor.respond("supervisorctl restart all", "restarted all processes", nil)

	inst := testInstance(1, "host-1", 7)
	instanceRepo := &memInstanceRepo{instances: []*instance.Instance{inst}}
	runner, _ := newTestActionRunner(executor, instanceRepo)

	act, err := runner.Submit(context.Background(), 1, action.TypeRestartInstance, "")
	require.NoError(t, err)
	assert.Equal(t, action.StatusPending, act.Status())

	require.NoError(t, runner.Execute(context.Background(), act.ID()))

	assert.Equal(t, action.StatusCompleted, act.Status())
	assert.Contains(t, act.ExecutionLog(), "restarted all processes")
	require.Len(t, executor.commandsMatching("sudo supervisorctl restart all"), 1)
}

func TestActionRunner_BackupRecordsTimestamp(t *testing.T) {
	executor := newScriptedExecutor()
	executor.respond("bench --site all backup", "backup complete", nil)

	inst := testInstance(1, "host-1", 7)
	require.Nil(t, inst.LastBackupAt())
	instanceRepo := &memInstanceRepo{instances: []*instance.Instance{inst}}
	runner, _ := newTestActionRunner(executor, instanceRepo)

	act, err := runner.Submit(context.Background(), 1, action.TypeBackupInstance, "")
	require.NoError(t, err)
	require.NoError(t, runner.Execute(context.Background(), act.ID()))

	assert.Equal(t, action.StatusCompleted, act.Status())
	assert.NotNil(t, inst.LastBackupAt())
}

func TestActionRunner_CommandFailureMarksActionFailed(t *testing.T) {
	executor := newScriptedExecutor()
	executor.respond("supervisorctl stop all", "error: refused", errors.NewCommandFailedError(1, "error: refused"))

	inst := testInstance(1, "host-1", 7)
	instanceRepo := &memInstanceRepo{instances: []*instance.Instance{inst}}
	runner, _ := newTestActionRunner(executor, instanceRepo)

	act, err := runner.Submit(context.Background(), 1, action.TypeStopInstance, "")
	require.NoError(t, err)

	err = runner.Execute(context.Background(), act.ID())
	assert.Error(t, err)
	assert.Equal(t, action.StatusFailed, act.Status())
	assert.Contains(t, act.ExecutionLog(), "error: refused")
}

func TestActionRunner_MonitorBuildsStatusReport(t *testing.T) {
	executor := newScriptedExecutor()
	executor.respond("uptime && free -h && df -h",
		"12:00 up 5 days, load average: 0.1\nMem: 15Gi 8Gi\n/dev/vda1 78G 41G 34G 55% /", nil)

	inst := testInstance(1, "host-1", 7)
	instanceRepo := &memInstanceRepo{instances: []*instance.Instance{inst}}
	runner, _ := newTestActionRunner(executor, instanceRepo)

	act, err := runner.Submit(context.Background(), 1, action.TypeMonitorInstance, "")
	require.NoError(t, err)
	require.NoError(t, runner.Execute(context.Background(), act.ID()))

	assert.Contains(t, act.ExecutionLog(), "=== INSTANCE STATUS REPORT ===")
	assert.Contains(t, act.ExecutionLog(), "=== SYSTEM STATUS ===")
	assert.Contains(t, act.ExecutionLog(), "Connection Status: Connected")
	assert.Contains(t, act.ExecutionInfo(), `"connection_status":"Connected"`)
}

func TestActionRunner_SiteManagementRunsVerbPerSite(t *testing.T) {
	executor := newScriptedExecutor()
	executor.respond("BENCH_PATH",
		"BENCH_PATH:/home/frappe/frappe-bench\nSITE:acme.spm.cloud\nSTATUS:acme.spm.cloud:Active", nil)
	executor.respond("bench --site acme.spm.cloud backup", "backup saved to private/backups", nil)

	inst := testInstance(1, "host-1", 7)
	instanceRepo := &memInstanceRepo{instances: []*instance.Instance{inst}}
	runner, _ := newTestActionRunner(executor, instanceRepo)

	act, err := runner.Submit(context.Background(), 1, action.TypeSiteManagement, action.SiteVerbBackup)
	require.NoError(t, err)
	require.NoError(t, runner.Execute(context.Background(), act.ID()))

	require.Len(t, executor.commandsMatching("bench --site acme.spm.cloud backup"), 1)
	require.Len(t, act.SiteActions(), 1)
	assert.Equal(t, "acme.spm.cloud", act.SiteActions()[0].SiteName)
	assert.Equal(t, "backup", act.SiteActions()[0].Action)
	assert.Equal(t, action.StatusCompleted, act.SiteActions()[0].Status)
	assert.Contains(t, act.SiteActions()[0].Detail, "backup saved")
}

func TestActionRunner_SiteManagementRecordsPerSiteFailures(t *testing.T) {
	executor := newScriptedExecutor()
	executor.respond("BENCH_PATH",
		"BENCH_PATH:/home/frappe/frappe-bench\n"+
			"SITE:acme.spm.cloud\nSTATUS:acme.spm.cloud:Active\n"+
			"SITE:beta.spm.cloud\nSTATUS:beta.spm.cloud:Active", nil)
	executor.respond("bench --site acme.spm.cloud migrate", "", errors.NewCommandFailedError(1, "migration locked"))
	executor.respond("bench --site beta.spm.cloud migrate", "migrated", nil)

	inst := testInstance(1, "host-1", 7)
	instanceRepo := &memInstanceRepo{instances: []*instance.Instance{inst}}
	runner, _ := newTestActionRunner(executor, instanceRepo)

	act, err := runner.Submit(context.Background(), 1, action.TypeSiteManagement, action.SiteVerbUpdate)
	require.NoError(t, err)
	require.NoError(t, runner.Execute(context.Background(), act.ID()))

	// The action itself completes; the failure lives on the child row.
	assert.Equal(t, action.StatusCompleted, act.Status())
	require.Len(t, act.SiteActions(), 2)

	byName := map[string]action.SiteAction{}
	for _, sa := range act.SiteActions() {
		byName[sa.SiteName] = sa
	}
	assert.Equal(t, action.StatusFailed, byName["acme.spm.cloud"].Status)
	assert.Contains(t, byName["acme.spm.cloud"].Detail, "migration locked")
	assert.Equal(t, action.StatusCompleted, byName["beta.spm.cloud"].Status)
	assert.Equal(t, "update", byName["beta.spm.cloud"].Action)
}

func TestActionRunner_SiteManagementRequiresVerb(t *testing.T) {
	inst := testInstance(1, "host-1", 7)
	instanceRepo := &memInstanceRepo{instances: []*instance.Instance{inst}}
	runner, _ := newTestActionRunner(newScriptedExecutor(), instanceRepo)

	_, err := runner.Submit(context.Background(), 1, action.TypeSiteManagement, "")
	assert.True(t, errors.IsValidationError(err))

	_, err = runner.Submit(context.Background(), 1, action.TypeRestartInstance, action.SiteVerbBackup)
	assert.True(t, errors.IsValidationError(err))
}

func TestActionRunner_SubmitUnknownInstanceFails(t *testing.T) {
	runner, _ := newTestActionRunner(newScriptedExecutor(), &memInstanceRepo{})

	_, err := runner.Submit(context.Background(), 42, action.TypeStartInstance, "")
	assert.True(t, errors.IsNotFoundError(err))
}
