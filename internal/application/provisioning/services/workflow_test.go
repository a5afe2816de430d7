package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsyosefali/saas-package-management/internal/domain/site"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/sshexec"
	"github.com/itsyosefali/saas-package-management/internal/shared/config"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

func testProvisionConfig() *config.ProvisionConfig {
	return &config.ProvisionConfig{
		DomainSuffix:     "spm.cloud",
		BaseApp:          "erpnext",
		QuotaApp:         "quota",
		AdminPassword:    "admin-secret",
		SiteValidityDays: 365,
	}
}

func testSSHConfig() *config.SSHConfig {
	return &config.SSHConfig{Port: 22, ProbeTimeoutSec: 1, DialTimeoutSec: 1, CommandTimeoutSec: 30}
}

type progressRecorder struct {
	mu     sync.Mutex
	events []ProgressEvent
}

func (r *progressRecorder) record(siteID uint, event ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *progressRecorder) percents() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Percent)
	}
	return out
}

func testSite(t *testing.T) *site.Site {
	t.Helper()
	name, err := site.NewSiteName("acme")
	require.NoError(t, err)
	domain, err := site.NewDomainName("acme.spm.cloud")
	require.NoError(t, err)
	s, err := site.NewSite(11, 1, name, domain, time.Now(), 365)
	require.NoError(t, err)
	s.SetID(1)
	return s
}

func newTestWorkflow(t *testing.T, executor *scriptedExecutor, siteRepo *memSiteRepo, notifier *recordingNotifier, recorder *progressRecorder) *Workflow {
	t.Helper()
	secrets := &fakeSecrets{values: map[string]string{"enc-ssh": "ssh-pass", "enc-db": "db-pass"}}
	return NewWorkflow(siteRepo, executor, secrets, notifier, recorder.record, testProvisionConfig(), testSSHConfig(), logger.NewLogger())
}

func TestWorkflow_SuccessfulRunHitsEveryCheckpoint(t *testing.T) {
	executor := newScriptedExecutor()
	executor.respond("&& cat sites/", `{"db_name": "_abc"}`, nil)
	executor.respond("grep -q", "QUOTA_OK", nil)

	siteRepo := &memSiteRepo{}
	notifier := &recordingNotifier{}
	recorder := &progressRecorder{}
	workflow := newTestWorkflow(t, executor, siteRepo, notifier, recorder)

	s := testSite(t)
	workflow.Run(context.Background(), s, testInstance(1, "host-1", 7), testPackage(t, 10, 1000, 500), "Acme Corp", "ops@acme.example")

	assert.Equal(t, []int{0, 5, 10, 30, 40, 60, 70, 80, 85, 90, 100}, recorder.percents())
	assert.Equal(t, site.StatusActive, s.Status())
	assert.Contains(t, s.ProvisionLog(), "=== SITE PROVISIONED ===")
	assert.Contains(t, s.ProvisionLog(), "https://acme.spm.cloud")
	assert.Len(t, notifier.readyCalls, 1)

	assert.True(t, executor.sawCommand("bench new-site acme.spm.cloud"))
	assert.True(t, executor.sawCommand("install-app erpnext"))
	assert.True(t, executor.sawCommand("install-app quota"))
	assert.True(t, executor.sawCommand("lets-encrypt"))
}

func TestWorkflow_TLSFailureIsNonFatal(t *testing.T) {
	executor := newScriptedExecutor()
	executor.respond("&& cat sites/", `{}`, nil)
	executor.respond("grep -q", "QUOTA_OK", nil)
	executor.respond("lets-encrypt", "", errors.NewCommandFailedError(1, "challenge failed"))

	siteRepo := &memSiteRepo{}
	notifier := &recordingNotifier{}
	recorder := &progressRecorder{}
	workflow := newTestWorkflow(t, executor, siteRepo, notifier, recorder)

	s := testSite(t)
	workflow.Run(context.Background(), s, testInstance(1, "host-1", 7), testPackage(t, 10, 1000, 500), "Acme Corp", "ops@acme.example")

	assert.Equal(t, site.StatusActive, s.Status())
	assert.Contains(t, s.ProvisionLog(), "TLS setup failed (non-fatal)")
	assert.Equal(t, 100, recorder.percents()[len(recorder.percents())-1])
}

func TestWorkflow_CreateSiteFailureIsFatal(t *testing.T) {
	executor := newScriptedExecutor()
	executor.respond("bench new-site", "", errors.NewCommandFailedError(1, "site exists"))

	siteRepo := &memSiteRepo{}
	notifier := &recordingNotifier{}
	recorder := &progressRecorder{}
	workflow := newTestWorkflow(t, executor, siteRepo, notifier, recorder)

	s := testSite(t)
	workflow.Run(context.Background(), s, testInstance(1, "host-1", 7), testPackage(t, 10, 1000, 500), "Acme Corp", "ops@acme.example")

	assert.Equal(t, site.StatusFailed, s.Status())
	assert.Contains(t, s.ProvisionLog(), "site creation failed")
	assert.Len(t, notifier.failCalls, 1)
	assert.False(t, executor.sawCommand("install-app erpnext"))
}

func TestWorkflow_TimeoutMidCommandIsFatal(t *testing.T) {
	executor := newScriptedExecutor()
	executor.respond("install-app erpnext", "partial output"+sshexec.TimeoutMarker,
		errors.NewTimeoutError("command timed out", "partial output"+sshexec.TimeoutMarker))

	siteRepo := &memSiteRepo{}
	notifier := &recordingNotifier{}
	recorder := &progressRecorder{}
	workflow := newTestWorkflow(t, executor, siteRepo, notifier, recorder)

	s := testSite(t)
	workflow.Run(context.Background(), s, testInstance(1, "host-1", 7), testPackage(t, 10, 1000, 500), "Acme Corp", "ops@acme.example")

	assert.Equal(t, site.StatusFailed, s.Status())
	assert.Contains(t, s.ProvisionLog(), "base application install failed")
	assert.Contains(t, s.ProvisionLog(), "[Timeout Exceeded]")
}

func TestWorkflow_UnresolvableSecretAbortsBeforeAnyCommand(t *testing.T) {
	executor := newScriptedExecutor()
	siteRepo := &memSiteRepo{}
	notifier := &recordingNotifier{}
	recorder := &progressRecorder{}

	secrets := &fakeSecrets{values: map[string]string{}}
	workflow := NewWorkflow(siteRepo, executor, secrets, notifier, recorder.record, testProvisionConfig(), testSSHConfig(), logger.NewLogger())

	s := testSite(t)
	workflow.Run(context.Background(), s, testInstance(1, "host-1", 7), testPackage(t, 10, 1000, 500), "Acme Corp", "ops@acme.example")

	assert.Equal(t, site.StatusFailed, s.Status())
	assert.Contains(t, s.ProvisionLog(), "credential resolution failed")
	assert.Empty(t, executor.commands)
	assert.Len(t, notifier.failCalls, 1)
}

func TestWorkflow_SecretsNeverReachProvisionLog(t *testing.T) {
	executor := newScriptedExecutor()
	executor.respond("&& cat sites/", `{}`, nil)
	executor.respond("grep -q", "QUOTA_OK", nil)

	siteRepo := &memSiteRepo{}
	workflow := newTestWorkflow(t, executor, siteRepo, &recordingNotifier{}, &progressRecorder{})

	s := testSite(t)
	workflow.Run(context.Background(), s, testInstance(1, "host-1", 7), testPackage(t, 10, 1000, 500), "Acme Corp", "ops@acme.example")

	assert.NotContains(t, s.ProvisionLog(), "ssh-pass")
	assert.NotContains(t, s.ProvisionLog(), "db-pass")
}
