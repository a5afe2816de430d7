package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsyosefali/saas-package-management/internal/domain/instance"
	"github.com/itsyosefali/saas-package-management/internal/domain/site"
	"github.com/itsyosefali/saas-package-management/internal/shared/config"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

func testSSHConfig() *config.SSHConfig {
	return &config.SSHConfig{Port: 22, ProbeTimeoutSec: 1, DialTimeoutSec: 1, CommandTimeoutSec: 30}
}

func newTestInspector(executor *scriptedExecutor, instanceRepo *memInstanceRepo, known *fakeKnownSites, customers *fakeCustomers) *Inspector {
	secrets := &fakeSecrets{values: map[string]string{"enc-ssh": "ssh-pass", "enc-db": "db-pass"}}
	if known == nil {
		known = &fakeKnownSites{sites: map[string]*site.Site{}}
	}
	if customers == nil {
		customers = &fakeCustomers{names: map[uint]string{}}
	}
	return NewInspector(executor, secrets, instanceRepo, known, customers, testSSHConfig(), logger.NewLogger())
}

func TestInspector_ProbeFailureYieldsDegradedReport(t *testing.T) {
	executor := newScriptedExecutor()
	executor.probeErr = errors.NewUnreachableError("connection refused")

	inst := testInstance(1, "host-1", 7)
	repo := &memInstanceRepo{instances: []*instance.Instance{inst}}

	report := newTestInspector(executor, repo, nil, nil).Inspect(context.Background(), inst)

	assert.Equal(t, "Failed to connect", report.ConnectionStatus)
	assert.Contains(t, report.ConnectionError, "connection refused")
	assert.Empty(t, executor.commands)
	assert.Equal(t, instance.DeploymentStatusFailed, inst.DeploymentStatus())
	assert.Equal(t, 1, repo.updates)
}

func TestInspector_UnresolvableSecretYieldsDegradedReport(t *testing.T) {
	executor := newScriptedExecutor()
	inst := testInstance(1, "host-1", 7)
	repo := &memInstanceRepo{instances: []*instance.Instance{inst}}

	inspector := NewInspector(executor, &fakeSecrets{values: map[string]string{}}, repo,
		&fakeKnownSites{}, &fakeCustomers{}, testSSHConfig(), logger.NewLogger())
	report := inspector.Inspect(context.Background(), inst)

	assert.Equal(t, "Failed to connect", report.ConnectionStatus)
	assert.NotEmpty(t, report.ConnectionError)
	assert.Empty(t, executor.commands)
}

func TestInspector_AggregatesAllSections(t *testing.T) {
	executor := newScriptedExecutor()
	executor.respond("uptime && free -h && df -h",
		"12:00 up 5 days, load average: 0.1\nMem: 15Gi 8Gi\n/dev/vda1 78G 41G 34G 55% /", nil)
	executor.respond("bench version", "erpnext 15.23.0\nweb RUNNING pid 1", nil)
	executor.respond("BENCH_PATH",
		"BENCH_PATH:/home/frappe/frappe-bench\nSITE:acme.spm.cloud\nSTATUS:acme.spm.cloud:Active", nil)
	executor.respond("&& cat sites/", `{"maintenance_mode": 1}`, nil)

	inst := testInstance(1, "host-1", 7)
	repo := &memInstanceRepo{instances: []*instance.Instance{inst}}
	known := &fakeKnownSites{sites: map[string]*site.Site{
		"acme.spm.cloud": knownSite(4, 11, "acme", "acme.spm.cloud"),
	}}
	customers := &fakeCustomers{names: map[uint]string{11: "Acme Corp"}}

	report := newTestInspector(executor, repo, known, customers).Inspect(context.Background(), inst)

	assert.Equal(t, "Connected", report.ConnectionStatus)
	assert.Contains(t, report.System.Uptime, "up 5 days")
	assert.Contains(t, report.App.BenchVersion, "erpnext")

	require.Len(t, report.Sites, 1)
	assert.True(t, report.Sites[0].IsKnown)
	assert.Equal(t, uint(4), report.Sites[0].SiteID)
	assert.Equal(t, "Acme Corp", report.Sites[0].CustomerName)
	assert.Equal(t, "Active", report.Sites[0].Status)

	assert.Equal(t, 1, report.TotalSites)
	assert.Equal(t, 1, report.ActiveSites)
	assert.Equal(t, 0, report.InactiveSites)
	assert.Equal(t, instance.DeploymentStatusRunning, inst.DeploymentStatus())
}

func TestInspector_ActiveSiteGetsMaintenanceDisabled(t *testing.T) {
	executor := newScriptedExecutor()
	executor.respond("BENCH_PATH",
		"BENCH_PATH:/home/frappe/frappe-bench\nSITE:acme.spm.cloud\nSTATUS:acme.spm.cloud:Active", nil)
	executor.respond("&& cat sites/", `{"db_name": "_abc", "maintenance_mode": 1}`, nil)

	inst := testInstance(1, "host-1", 7)
	repo := &memInstanceRepo{instances: []*instance.Instance{inst}}

	newTestInspector(executor, repo, nil, nil).Inspect(context.Background(), inst)

	writes := executor.commandsMatching("cat > sites/acme.spm.cloud/site_config.json")
	require.Len(t, writes, 1)
	assert.Contains(t, writes[0], `"maintenance_mode": 0`)
	assert.Contains(t, writes[0], `"db_name": "_abc"`)
}

func TestInspector_UnknownStatusSkipsMaintenanceToggle(t *testing.T) {
	executor := newScriptedExecutor()
	executor.respond("BENCH_PATH",
		"BENCH_PATH:/home/frappe/frappe-bench\nSITE:beta.spm.cloud\nSTATUS:beta.spm.cloud:Unknown", nil)

	inst := testInstance(1, "host-1", 7)
	repo := &memInstanceRepo{instances: []*instance.Instance{inst}}

	newTestInspector(executor, repo, nil, nil).Inspect(context.Background(), inst)

	assert.Empty(t, executor.commandsMatching("cat > sites/"))
}

func TestInspector_FailedSectionDegradesThatSectionOnly(t *testing.T) {
	executor := newScriptedExecutor()
	executor.respond("uptime && free -h && df -h", "", errors.NewTimeoutError("command timed out"))
	executor.respond("bench version", "erpnext 15.23.0", nil)
	executor.respond("BENCH_PATH", "BENCH_PATH:/home/frappe/frappe-bench", nil)

	inst := testInstance(1, "host-1", 7)
	repo := &memInstanceRepo{instances: []*instance.Instance{inst}}

	report := newTestInspector(executor, repo, nil, nil).Inspect(context.Background(), inst)

	assert.NotEmpty(t, report.SystemError)
	assert.Contains(t, report.App.BenchVersion, "erpnext")
	assert.Empty(t, report.SitesError)
	assert.Equal(t, "Connected", report.ConnectionStatus)
}

func TestSweeper_CachesReportPerInstance(t *testing.T) {
	executor := newScriptedExecutor()
	inst1 := testInstance(1, "host-1", 7)
	inst2 := testInstance(2, "host-2", 7)
	repo := &memInstanceRepo{instances: []*instance.Instance{inst1, inst2}}

	inspector := newTestInspector(executor, repo, nil, nil)
	cache := &memReportCache{}
	sweeper := NewSweeper(repo, inspector, cache, &config.FleetConfig{SweepWorkers: 2}, logger.NewLogger())

	reports, err := sweeper.SweepOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Len(t, cache.reports, 2)
	assert.Contains(t, cache.reports, uint(1))
	assert.Contains(t, cache.reports, uint(2))
}
