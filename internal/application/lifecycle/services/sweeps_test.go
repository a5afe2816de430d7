package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsyosefali/saas-package-management/internal/domain/site"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

type memSiteRepo struct {
	mu            sync.Mutex
	sites         []*site.Site
	conflictsLeft int
	updates       int
	seq           uint
	expiryCutoff  time.Time
}

func (r *memSiteRepo) Create(ctx context.Context, s *site.Site) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	s.SetID(r.seq)
	r.sites = append(r.sites, s)
	return nil
}

func (r *memSiteRepo) GetByID(ctx context.Context, id uint) (*site.Site, error) {
	return nil, errors.NewNotFoundError("site not found")
}

func (r *memSiteRepo) GetByRequestID(ctx context.Context, requestID uint) (*site.Site, error) {
	return nil, errors.NewNotFoundError("site not found")
}

func (r *memSiteRepo) Update(ctx context.Context, s *site.Site) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflictsLeft > 0 {
		r.conflictsLeft--
		return errors.NewConflictError("site was modified concurrently")
	}
	r.updates++
	return nil
}

func (r *memSiteRepo) List(ctx context.Context, filter site.Filter) ([]*site.Site, int64, error) {
	return nil, 0, nil
}

func (r *memSiteRepo) ExistsByRequestID(ctx context.Context, requestID uint) (bool, error) {
	return false, nil
}

func (r *memSiteRepo) ExistsBySiteName(ctx context.Context, name string) (bool, error) {
	return false, nil
}

func (r *memSiteRepo) ListByInstanceID(ctx context.Context, instanceID uint) ([]*site.Site, error) {
	return nil, nil
}

func (r *memSiteRepo) GetByCustomDomains(ctx context.Context, domains []string) (map[string]*site.Site, error) {
	return map[string]*site.Site{}, nil
}

func (r *memSiteRepo) ListExpired(ctx context.Context, now time.Time) ([]*site.Site, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expiryCutoff = now
	var expired []*site.Site
	for _, s := range r.sites {
		if s.IsExpiredAt(now) {
			expired = append(expired, s)
		}
	}
	return expired, nil
}

func (r *memSiteRepo) ListStuckCreating(ctx context.Context, cutoff time.Time) ([]*site.Site, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var stuck []*site.Site
	for _, s := range r.sites {
		if s.Status() == site.StatusCreating && s.CreationDate().Before(cutoff) {
			stuck = append(stuck, s)
		}
	}
	return stuck, nil
}

// backdatedSite builds a site whose dates are in the past, which NewSite
// would reject.
func backdatedSite(t *testing.T, repo *memSiteRepo, name string, status site.Status, created, expiry time.Time) *site.Site {
	t.Helper()
	siteName, err := site.NewSiteName(name)
	require.NoError(t, err)
	domain, err := site.NewDomainName(name + ".spm.cloud")
	require.NoError(t, err)
	s := site.ReconstructSite(
		uint(len(repo.sites)+1), uint(len(repo.sites)+1), 1,
		siteName, domain, status,
		created, created, expiry,
		"", "", 1, created, created,
	)
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.sites = append(repo.sites, s)
	return s
}

func TestExpirySweep_ExpiresPastDueActiveSites(t *testing.T) {
	repo := &memSiteRepo{}
	now := time.Now()

	pastDue := backdatedSite(t, repo, "old", site.StatusActive,
		now.AddDate(0, 0, -400), now.AddDate(0, 0, -35))
	current := backdatedSite(t, repo, "fresh", site.StatusActive,
		now.AddDate(0, 0, -10), now.AddDate(0, 0, 355))
	stillCreating := backdatedSite(t, repo, "creating", site.StatusCreating,
		now.AddDate(0, 0, -400), now.AddDate(0, 0, -35))

	count, err := NewExpirySweep(repo, logger.NewLogger()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, count)
	assert.Equal(t, site.StatusExpired, pastDue.Status())
	assert.Equal(t, site.StatusActive, current.Status())
	assert.Equal(t, site.StatusCreating, stillCreating.Status())
	assert.Equal(t, 1, repo.updates)
}

func TestExpirySweep_UsesDayBoundaryCutoff(t *testing.T) {
	repo := &memSiteRepo{}

	_, err := NewExpirySweep(repo, logger.NewLogger()).Run(context.Background())
	require.NoError(t, err)

	cutoff := repo.expiryCutoff
	assert.Equal(t, time.UTC, cutoff.Location())
	h, m, s := cutoff.Clock()
	assert.Zero(t, h)
	assert.Zero(t, m)
	assert.Zero(t, s)
}

func TestExpirySweep_ConflictSkipsSiteForNextSweep(t *testing.T) {
	now := time.Now()
	repo := &memSiteRepo{conflictsLeft: 1}
	backdatedSite(t, repo, "old", site.StatusActive,
		now.AddDate(0, 0, -400), now.AddDate(0, 0, -35))

	count, err := NewExpirySweep(repo, logger.NewLogger()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, repo.updates)
}

func TestRecoverySweep_FailsStuckSites(t *testing.T) {
	repo := &memSiteRepo{}
	now := time.Now()

	stuck := backdatedSite(t, repo, "stuck", site.StatusCreating,
		now.Add(-2*time.Hour), now.AddDate(0, 0, 365))
	fresh := backdatedSite(t, repo, "fresh", site.StatusCreating,
		now.Add(-5*time.Minute), now.AddDate(0, 0, 365))

	count, err := NewRecoverySweep(repo, time.Hour, logger.NewLogger()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, count)
	assert.Equal(t, site.StatusFailed, stuck.Status())
	assert.Contains(t, stuck.ProvisionLog(), "recovery sweep")
	assert.Equal(t, site.StatusCreating, fresh.Status())
}

func TestRecoverySweep_ConflictMeansWorkflowFinished(t *testing.T) {
	now := time.Now()
	repo := &memSiteRepo{conflictsLeft: 1}
	backdatedSite(t, repo, "stuck", site.StatusCreating,
		now.Add(-2*time.Hour), now.AddDate(0, 0, 365))

	count, err := NewRecoverySweep(repo, time.Hour, logger.NewLogger()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
