package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/itsyosefali/saas-package-management/internal/domain/instance"
	"github.com/itsyosefali/saas-package-management/internal/domain/site"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/sshexec"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
)

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

func (e *scriptedExecutor) commandsMatching(substr string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var matched []string
	for _, cmd := range e.commands {
		if strings.Contains(cmd, substr) {
			matched = append(matched, cmd)
		}
	}
	return matched
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

type memInstanceRepo struct {
	mu        sync.Mutex
	instances []*instance.Instance
	updates   int
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
	r.updates++
	return nil
}

func (r *memInstanceRepo) List(ctx context.Context) ([]*instance.Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*instance.Instance(nil), r.instances...), nil
}

func (r *memInstanceRepo) ListEligible(ctx context.Context, packageID uint) ([]*instance.Instance, error) {
	return nil, nil
}

type fakeKnownSites struct {
	sites map[string]*site.Site
}

func (f *fakeKnownSites) GetByCustomDomains(ctx context.Context, domains []string) (map[string]*site.Site, error) {
	result := map[string]*site.Site{}
	for _, d := range domains {
		if s, ok := f.sites[d]; ok {
			result[d] = s
		}
	}
	return result, nil
}

type fakeCustomers struct {
	names map[uint]string
}

func (f *fakeCustomers) CustomerNameForRequest(ctx context.Context, requestID uint) (string, error) {
	if name, ok := f.names[requestID]; ok {
		return name, nil
	}
	return "", errors.NewNotFoundError("customer request not found")
}

type memReportCache struct {
	mu      sync.Mutex
	reports map[uint]any
}

func (c *memReportCache) Set(ctx context.Context, instanceID uint, report any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reports == nil {
		c.reports = map[uint]any{}
	}
	c.reports[instanceID] = report
	return nil
}

func testInstance(id uint, name string, packageID uint) *instance.Instance {
	creds, _ := instance.NewCredentials("10.0.0.1", 22, "frappe", "enc-ssh", "enc-db")
	inst, _ := instance.NewInstance(name, creds, 8, 4, 100, "/home/frappe/frappe-bench", packageID, nil)
	_ = inst.SetID(id)
	return inst
}

func knownSite(id, requestID uint, name, domain string) *site.Site {
	siteName, _ := site.NewSiteName(name)
	domainName, _ := site.NewDomainName(domain)
	s, _ := site.NewSite(requestID, 1, siteName, domainName, time.Now(), 365)
	s.SetID(id)
	return s
}
