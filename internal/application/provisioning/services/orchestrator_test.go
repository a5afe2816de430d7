package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsyosefali/saas-package-management/internal/domain/catalog"
	"github.com/itsyosefali/saas-package-management/internal/domain/instance"
	"github.com/itsyosefali/saas-package-management/internal/domain/request"
	"github.com/itsyosefali/saas-package-management/internal/domain/site"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

type memPackageRepo struct {
	packages map[uint]*catalog.Package
}

func (r *memPackageRepo) Create(ctx context.Context, pkg *catalog.Package) error { return nil }
func (r *memPackageRepo) GetByID(ctx context.Context, id uint) (*catalog.Package, error) {
	if pkg, ok := r.packages[id]; ok {
		return pkg, nil
	}
	return nil, errors.NewNotFoundError("package not found")
}
func (r *memPackageRepo) GetByName(ctx context.Context, name string) (*catalog.Package, error) {
	for _, pkg := range r.packages {
		if pkg.Name() == name {
			return pkg, nil
		}
	}
	return nil, errors.NewNotFoundError("package not found")
}
func (r *memPackageRepo) Update(ctx context.Context, pkg *catalog.Package) error { return nil }
func (r *memPackageRepo) List(ctx context.Context, activeOnly bool) ([]*catalog.Package, error) {
	return nil, nil
}
func (r *memPackageRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	_, err := r.GetByName(ctx, name)
	return err == nil, nil
}

func approvedRequest(t *testing.T, repo *memRequestRepo, customerName, customDomain string) *request.CustomerRequest {
	t.Helper()
	req, err := request.NewCustomerRequest(customerName, "ops@acme.example", 7, "Standard", customDomain, "", time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), req))
	require.NoError(t, req.Approve(""))
	return req
}

func newTestOrchestrator(t *testing.T, requestRepo *memRequestRepo, siteRepo *memSiteRepo, instanceRepo *memInstanceRepo) *Orchestrator {
	t.Helper()
	pkg, err := catalog.ReconstructPackage(7, "Standard", 100, 10, 1000, 500, "- features", true, time.Now(), time.Now())
	require.NoError(t, err)

	packageRepo := &memPackageRepo{packages: map[uint]*catalog.Package{7: pkg}}
	log := logger.NewLogger()
	allocator := NewAllocator(instanceRepo, &fakeLock{}, log)

	executor := newScriptedExecutor()
	executor.respond("&& cat sites/", `{}`, nil)
	executor.respond("grep -q", "QUOTA_OK", nil)
	secrets := &fakeSecrets{values: map[string]string{"enc-ssh": "ssh-pass", "enc-db": "db-pass"}}
	workflow := NewWorkflow(siteRepo, executor, secrets, &recordingNotifier{}, nil, testProvisionConfig(), testSSHConfig(), log)

	return NewOrchestrator(requestRepo, packageRepo, siteRepo, allocator, workflow, testProvisionConfig(), log)
}

func TestOrchestrator_CreatesSiteFromApprovedRequest(t *testing.T) {
	requestRepo := &memRequestRepo{}
	siteRepo := &memSiteRepo{}
	instanceRepo := &memInstanceRepo{}
	instanceRepo.instances = []*instance.Instance{testInstance(1, "host-1", 7)}

	orchestrator := newTestOrchestrator(t, requestRepo, siteRepo, instanceRepo)
	req := approvedRequest(t, requestRepo, "Acme Corp", "")

	siteName, err := orchestrator.CreateSiteFromRequest(context.Background(), req.ID())
	require.NoError(t, err)
	assert.Equal(t, "acme-corp", siteName)

	created, err := siteRepo.GetByRequestID(context.Background(), req.ID())
	require.NoError(t, err)
	assert.Equal(t, "acme-corp.spm.cloud", created.CustomDomain().String())
	assert.Equal(t, instance.DeploymentStatusDeployed, instanceRepo.instances[0].DeploymentStatus())
	assert.Equal(t, "https://acme-corp.spm.cloud", instanceRepo.instances[0].ServerURL())
	assert.Contains(t, req.AdminNotes(), "Customer Site created: acme-corp")
}

func TestOrchestrator_SecondCallIsAlreadyExists(t *testing.T) {
	requestRepo := &memRequestRepo{}
	siteRepo := &memSiteRepo{}
	instanceRepo := &memInstanceRepo{}
	instanceRepo.instances = []*instance.Instance{testInstance(1, "host-1", 7)}

	orchestrator := newTestOrchestrator(t, requestRepo, siteRepo, instanceRepo)
	req := approvedRequest(t, requestRepo, "Acme Corp", "")

	_, err := orchestrator.CreateSiteFromRequest(context.Background(), req.ID())
	require.NoError(t, err)

	_, err = orchestrator.CreateSiteFromRequest(context.Background(), req.ID())
	assert.True(t, errors.IsAlreadyExistsError(err))

	sites, _, err := siteRepo.List(context.Background(), site.Filter{})
	require.NoError(t, err)
	assert.Len(t, sites, 1)
}

func TestOrchestrator_NoCapacityCreatesNoSite(t *testing.T) {
	requestRepo := &memRequestRepo{}
	siteRepo := &memSiteRepo{}
	instanceRepo := &memInstanceRepo{}

	orchestrator := newTestOrchestrator(t, requestRepo, siteRepo, instanceRepo)
	req := approvedRequest(t, requestRepo, "Acme Corp", "")

	_, err := orchestrator.CreateSiteFromRequest(context.Background(), req.ID())
	assert.True(t, errors.IsNoCapacityError(err))

	sites, _, err := siteRepo.List(context.Background(), site.Filter{})
	require.NoError(t, err)
	assert.Empty(t, sites)
}

func TestOrchestrator_PendingRequestIsRejected(t *testing.T) {
	requestRepo := &memRequestRepo{}
	req, err := request.NewCustomerRequest("Acme Corp", "", 7, "Standard", "", "", time.Now())
	require.NoError(t, err)
	require.NoError(t, requestRepo.Create(context.Background(), req))

	orchestrator := newTestOrchestrator(t, requestRepo, &memSiteRepo{}, &memInstanceRepo{})

	_, err = orchestrator.CreateSiteFromRequest(context.Background(), req.ID())
	assert.True(t, errors.IsValidationError(err))
}

func TestOrchestrator_SiteNameCollisionGetsSuffix(t *testing.T) {
	requestRepo := &memRequestRepo{}
	siteRepo := &memSiteRepo{}
	instanceRepo := &memInstanceRepo{}
	instanceRepo.instances = []*instance.Instance{
		testInstance(1, "host-1", 7),
		testInstance(2, "host-2", 7),
	}

	orchestrator := newTestOrchestrator(t, requestRepo, siteRepo, instanceRepo)

	first := approvedRequest(t, requestRepo, "Acme Corp", "")
	second := approvedRequest(t, requestRepo, "Acme. Corp", "")

	name1, err := orchestrator.CreateSiteFromRequest(context.Background(), first.ID())
	require.NoError(t, err)
	name2, err := orchestrator.CreateSiteFromRequest(context.Background(), second.ID())
	require.NoError(t, err)

	assert.Equal(t, "acme-corp", name1)
	assert.Equal(t, "acme-corp-1", name2)
}

func TestOrchestrator_CustomDomainGetsPlatformSuffix(t *testing.T) {
	requestRepo := &memRequestRepo{}
	siteRepo := &memSiteRepo{}
	instanceRepo := &memInstanceRepo{}
	instanceRepo.instances = []*instance.Instance{testInstance(1, "host-1", 7)}

	orchestrator := newTestOrchestrator(t, requestRepo, siteRepo, instanceRepo)
	req := approvedRequest(t, requestRepo, "Acme Corp", "portal")

	_, err := orchestrator.CreateSiteFromRequest(context.Background(), req.ID())
	require.NoError(t, err)

	created, err := siteRepo.GetByRequestID(context.Background(), req.ID())
	require.NoError(t, err)
	assert.Equal(t, "portal.spm.cloud", created.CustomDomain().String())
}
