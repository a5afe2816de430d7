package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/itsyosefali/saas-package-management/internal/domain/instance"
	"github.com/itsyosefali/saas-package-management/internal/domain/request"
	"github.com/itsyosefali/saas-package-management/internal/domain/site"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/sshexec"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
)

type fakeLock struct {
	mu       sync.Mutex
	acquired int
	released int
	denied   bool
}

func (l *fakeLock) Acquire(ctx context.Context, packageID uint) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.denied {
		return "", errors.NewConflictError("another allocation is in progress")
	}
	l.acquired++
	return "token", nil
}

func (l *fakeLock) Release(ctx context.Context, packageID uint, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.released++
	return nil
}

type memInstanceRepo struct {
	mu            sync.Mutex
	instances     []*instance.Instance
	conflictsLeft int
	updates       int
}

func (r *memInstanceRepo) Create(ctx context.Context, inst *instance.Instance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instances = append(r.instances, inst)
	return nil
}

func (r *memInstanceRepo) GetByID(ctx context.Context, id uint) (*instance.Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inst := range r.instances {
		if inst.ID() == id {
			return inst, nil
		}
	}
	return nil, errors.NewNotFoundError("instance not found")
}

func (r *memInstanceRepo) Update(ctx context.Context, inst *instance.Instance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflictsLeft > 0 {
		r.conflictsLeft--
		return errors.NewConflictError("instance was modified concurrently")
	}
	r.updates++
	return nil
}

func (r *memInstanceRepo) List(ctx context.Context) ([]*instance.Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*instance.Instance(nil), r.instances...), nil
}

func (r *memInstanceRepo) ListEligible(ctx context.Context, packageID uint) ([]*instance.Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var eligible []*instance.Instance
	for _, inst := range r.instances {
		if inst.IsEligibleFor(packageID) {
			eligible = append(eligible, inst)
		}
	}
	return eligible, nil
}

type memSiteRepo struct {
	mu    sync.Mutex
	sites []*site.Site
	seq   uint
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
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sites {
		if s.ID() == id {
			return s, nil
		}
	}
	return nil, errors.NewNotFoundError("site not found")
}

func (r *memSiteRepo) GetByRequestID(ctx context.Context, requestID uint) (*site.Site, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sites {
		if s.RequestID() == requestID {
			return s, nil
		}
	}
	return nil, errors.NewNotFoundError("site not found")
}

func (r *memSiteRepo) Update(ctx context.Context, s *site.Site) error {
	return nil
}

func (r *memSiteRepo) List(ctx context.Context, filter site.Filter) ([]*site.Site, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*site.Site(nil), r.sites...), int64(len(r.sites)), nil
}

func (r *memSiteRepo) ExistsByRequestID(ctx context.Context, requestID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sites {
		if s.RequestID() == requestID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memSiteRepo) ExistsBySiteName(ctx context.Context, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sites {
		if s.SiteName().String() == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *memSiteRepo) ListByInstanceID(ctx context.Context, instanceID uint) ([]*site.Site, error) {
	return nil, nil
}

func (r *memSiteRepo) GetByCustomDomains(ctx context.Context, domains []string) (map[string]*site.Site, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := map[string]*site.Site{}
	for _, s := range r.sites {
		for _, d := range domains {
			if s.CustomDomain().String() == d {
				result[d] = s
			}
		}
	}
	return result, nil
}

func (r *memSiteRepo) ListExpired(ctx context.Context, now time.Time) ([]*site.Site, error) {
	return nil, nil
}

func (r *memSiteRepo) ListStuckCreating(ctx context.Context, cutoff time.Time) ([]*site.Site, error) {
	return nil, nil
}

type memRequestRepo struct {
	mu       sync.Mutex
	requests []*request.CustomerRequest
}

func (r *memRequestRepo) Create(ctx context.Context, req *request.CustomerRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req.SetID(uint(len(r.requests) + 1))
	r.requests = append(r.requests, req)
	return nil
}

func (r *memRequestRepo) GetByID(ctx context.Context, id uint) (*request.CustomerRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if req.ID() == id {
			return req, nil
		}
	}
	return nil, errors.NewNotFoundError("customer request not found")
}

func (r *memRequestRepo) Update(ctx context.Context, req *request.CustomerRequest) error {
	return nil
}

func (r *memRequestRepo) List(ctx context.Context, filter request.Filter) ([]*request.CustomerRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*request.CustomerRequest(nil), r.requests...), int64(len(r.requests)), nil
}

// scriptedExecutor matches commands by substring and replays canned
// results, recording every command it sees.
type scriptedExecutor struct {
	mu        sync.Mutex
	responses map[string]scriptedResponse
	commands  []string
	probeErr  error
}

type scriptedResponse struct {
	output string
	err    error
}

func newScriptedExecutor() *scriptedExecutor {
	return &scriptedExecutor{responses: map[string]scriptedResponse{}}
}

func (e *scriptedExecutor) respond(substr, output string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.responses[substr] = scriptedResponse{output: output, err: err}
}

func (e *scriptedExecutor) Probe(ctx context.Context, target sshexec.Target) error {
	return e.probeErr
}

func (e *scriptedExecutor) Run(ctx context.Context, target sshexec.Target, command string, timeout time.Duration) (sshexec.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commands = append(e.commands, command)
	for substr, resp := range e.responses {
		if strings.Contains(command, substr) {
			return sshexec.Result{Output: resp.output}, resp.err
		}
	}
	return sshexec.Result{Output: ""}, nil
}

func (e *scriptedExecutor) sawCommand(substr string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, cmd := range e.commands {
		if strings.Contains(cmd, substr) {
			return true
		}
	}
	return false
}

type fakeSecrets struct {
	values map[string]string
}

func (f *fakeSecrets) Resolve(encrypted string) (string, error) {
	if plain, ok := f.values[encrypted]; ok {
		return plain, nil
	}
	return "", errors.NewSecretUnavailableError("failed to decrypt secret")
}

type recordingNotifier struct {
	mu         sync.Mutex
	readyCalls []string
	failCalls  []string
}

func (n *recordingNotifier) NotifySiteReady(to, customerName, siteURL string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.readyCalls = append(n.readyCalls, siteURL)
}

func (n *recordingNotifier) NotifyProvisioningFailed(siteName string, requestID uint) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failCalls = append(n.failCalls, siteName)
}

func testInstance(id uint, name string, packageID uint) *instance.Instance {
	creds, _ := instance.NewCredentials("10.0.0.1", 22, "frappe", "enc-ssh", "enc-db")
	inst, _ := instance.NewInstance(name, creds, 8, 4, 100, "/home/frappe/frappe-bench", packageID, nil)
	_ = inst.SetID(id)
	return inst
}
