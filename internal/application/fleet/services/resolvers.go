package services

import (
	"context"

	"github.com/itsyosefali/saas-package-management/internal/domain/request"
)

type requestCustomerResolver struct {
	requestRepo request.Repository
}

// NewCustomerNameResolver resolves customer names through the request
// records that originated each site.
func NewCustomerNameResolver(requestRepo request.Repository) CustomerNameResolver {
	return &requestCustomerResolver{requestRepo: requestRepo}
}

func (r *requestCustomerResolver) CustomerNameForRequest(ctx context.Context, requestID uint) (string, error) {
	req, err := r.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return "", err
	}
	return req.CustomerName(), nil
}
