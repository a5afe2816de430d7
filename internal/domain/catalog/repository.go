package catalog

import "context"

type PackageRepository interface {
	Create(ctx context.Context, pkg *Package) error
	GetByID(ctx context.Context, id uint) (*Package, error)
	GetByName(ctx context.Context, name string) (*Package, error)
	Update(ctx context.Context, pkg *Package) error
	List(ctx context.Context, activeOnly bool) ([]*Package, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
}
