package usecases

import (
	"context"
	"sync"

	"github.com/itsyosefali/saas-package-management/internal/domain/catalog"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
)

// In-memory fake shared by the tests in this package.

type memPackageRepo struct {
	mu       sync.Mutex
	packages map[string]*catalog.Package
	seq      uint
}

func newMemPackageRepo() *memPackageRepo {
	return &memPackageRepo{packages: make(map[string]*catalog.Package)}
}

func (r *memPackageRepo) Create(ctx context.Context, pkg *catalog.Package) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if err := pkg.SetID(r.seq); err != nil {
		return err
	}
	r.packages[pkg.Name()] = pkg
	return nil
}

func (r *memPackageRepo) GetByID(ctx context.Context, id uint) (*catalog.Package, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, pkg := range r.packages {
		if pkg.ID() == id {
			return pkg, nil
		}
	}
	return nil, errors.NewNotFoundError("package not found")
}

func (r *memPackageRepo) GetByName(ctx context.Context, name string) (*catalog.Package, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pkg, ok := r.packages[name]
	if !ok {
		return nil, errors.NewNotFoundError("package not found")
	}
	return pkg, nil
}

func (r *memPackageRepo) Update(ctx context.Context, pkg *catalog.Package) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.packages[pkg.Name()] = pkg
	return nil
}

func (r *memPackageRepo) List(ctx context.Context, activeOnly bool) ([]*catalog.Package, error) {
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

func (r *memPackageRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.packages[name]
	return ok, nil
}
