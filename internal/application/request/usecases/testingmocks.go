package usecases

import (
	"context"
	"sync"

	"github.com/itsyosefali/saas-package-management/internal/domain/catalog"
	"github.com/itsyosefali/saas-package-management/internal/domain/request"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
)

// In-memory fakes shared by the tests in this package.

type memRequestRepo struct {
	mu            sync.Mutex
	requests      map[uint]*request.CustomerRequest
	conflictsLeft int
	updates       int
	seq           uint
}

func newMemRequestRepo() *memRequestRepo {
	return &memRequestRepo{requests: make(map[uint]*request.CustomerRequest)}
}

func (r *memRequestRepo) Create(ctx context.Context, req *request.CustomerRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if err := req.SetID(r.seq); err != nil {
		return err
	}
	r.requests[req.ID()] = req
	return nil
}

func (r *memRequestRepo) GetByID(ctx context.Context, id uint) (*request.CustomerRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, errors.NewNotFoundError("customer request not found")
	}
	return req, nil
}

func (r *memRequestRepo) Update(ctx context.Context, req *request.CustomerRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflictsLeft > 0 {
		r.conflictsLeft--
		return errors.NewConflictError("request was modified concurrently")
	}
	r.requests[req.ID()] = req
	r.updates++
	return nil
}

func (r *memRequestRepo) List(ctx context.Context, filter request.Filter) ([]*request.CustomerRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*request.CustomerRequest
	for _, req := range r.requests {
		if filter.Status != nil && req.Status() != *filter.Status {
			continue
		}
		if filter.CustomerName != nil && req.CustomerName() != *filter.CustomerName {
			continue
		}
		out = append(out, req)
	}
	return out, int64(len(out)), nil
}

type fakePackageRepo struct {
	mu       sync.Mutex
	packages map[string]*catalog.Package
}

func newFakePackageRepo(packages ...*catalog.Package) *fakePackageRepo {
	r := &fakePackageRepo{packages: make(map[string]*catalog.Package)}
	for _, pkg := range packages {
		r.packages[pkg.Name()] = pkg
	}
	return r
}

func (r *fakePackageRepo) Create(ctx context.Context, pkg *catalog.Package) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.packages[pkg.Name()] = pkg
	return nil
}

func (r *fakePackageRepo) GetByID(ctx context.Context, id uint) (*catalog.Package, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, pkg := range r.packages {
		if pkg.ID() == id {
			return pkg, nil
		}
	}
	return nil, errors.NewNotFoundError("package not found")
}

func (r *fakePackageRepo) GetByName(ctx context.Context, name string) (*catalog.Package, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pkg, ok := r.packages[name]
	if !ok {
		return nil, errors.NewNotFoundError("package not found")
	}
	return pkg, nil
}

func (r *fakePackageRepo) Update(ctx context.Context, pkg *catalog.Package) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.packages[pkg.Name()] = pkg
	return nil
}

func (r *fakePackageRepo) List(ctx context.Context, activeOnly bool) ([]*catalog.Package, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*catalog.Package
	for _, pkg := range r.packages {
		if activeOnly && !pkg.IsActive() {
			continue
		}
		out = append(out, pkg)
	}
	return out, nil
}

func (r *fakePackageRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.packages[name]
	return ok, nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	received []uint
}

func (n *recordingNotifier) NotifyRequestReceived(customerName, packageName string, requestID uint) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.received = append(n.received, requestID)
}

type fakeProvisioner struct {
	mu       sync.Mutex
	siteName string
	err      error
	calls    []uint
}

func (p *fakeProvisioner) CreateSiteFromRequest(ctx context.Context, requestID uint) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, requestID)
	if p.err != nil {
		return "", p.err
	}
	return p.siteName, nil
}
