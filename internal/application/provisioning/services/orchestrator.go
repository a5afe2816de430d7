package services

import (
	"context"
	"fmt"
	"time"

	"github.com/itsyosefali/saas-package-management/internal/domain/catalog"
	"github.com/itsyosefali/saas-package-management/internal/domain/request"
	"github.com/itsyosefali/saas-package-management/internal/domain/site"
	"github.com/itsyosefali/saas-package-management/internal/shared/config"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
	"github.com/itsyosefali/saas-package-management/internal/shared/goroutine"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

// Orchestrator turns an approved customer request into a tenant site:
// it claims capacity, creates the site record, and fires the
// provisioning workflow in the background. The trigger returns as soon
// as the record exists; progress lands on the record afterwards.
type Orchestrator struct {
	requestRepo request.Repository
	packageRepo catalog.PackageRepository
	siteRepo    site.Repository
	allocator   *Allocator
	workflow    *Workflow
	provision   *config.ProvisionConfig
	logger      logger.Interface
}

func NewOrchestrator(
	requestRepo request.Repository,
	packageRepo catalog.PackageRepository,
	siteRepo site.Repository,
	allocator *Allocator,
	workflow *Workflow,
	provision *config.ProvisionConfig,
	logger logger.Interface,
) *Orchestrator {
	return &Orchestrator{
		requestRepo: requestRepo,
		packageRepo: packageRepo,
		siteRepo:    siteRepo,
		allocator:   allocator,
		workflow:    workflow,
		provision:   provision,
		logger:      logger,
	}
}

// CreateSiteFromRequest creates a site for an approved request. A second
// call for the same request is a safe no-op reported as already-exists.
// Returns the site name of the created record.
func (o *Orchestrator) CreateSiteFromRequest(ctx context.Context, requestID uint) (string, error) {
	req, err := o.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return "", err
	}
	if !req.Status().IsApproved() {
		return "", errors.NewValidationError("Customer Request must be approved before creating a Customer Site")
	}

	exists, err := o.siteRepo.ExistsByRequestID(ctx, requestID)
	if err != nil {
		return "", err
	}
	if exists {
		return "", errors.NewAlreadyExistsError("Customer Site already exists for this request")
	}

	pkg, err := o.packageRepo.GetByID(ctx, req.PackageID())
	if err != nil {
		return "", err
	}

	siteName, err := o.uniqueSiteName(ctx, req.CustomerName())
	if err != nil {
		return "", err
	}

	domain, err := o.resolveDomain(req, siteName)
	if err != nil {
		return "", err
	}
	serverURL := "https://" + domain.String()

	inst, err := o.allocator.Allocate(ctx, pkg.ID(), serverURL)
	if err != nil {
		return "", err
	}

	now := time.Now()
	s, err := site.NewSite(req.ID(), inst.ID(), siteName, domain, now, o.provision.SiteValidityDays)
	if err != nil {
		return "", err
	}
	if err := o.siteRepo.Create(ctx, s); err != nil {
		return "", err
	}

	req.AnnotateSiteCreated(siteName.String(), now)
	if err := o.requestRepo.Update(ctx, req); err != nil {
		// The site exists; a lost annotation is not worth failing the
		// trigger over.
		o.logger.Warnw("failed to annotate request with site creation", "request_id", req.ID(), "error", err)
	}

	customerName := req.CustomerName()
	customerEmail := req.Email()
	goroutine.SafeGo(o.logger, fmt.Sprintf("provision-site-%d", s.ID()), func() {
		o.workflow.Run(context.Background(), s, inst, pkg, customerName, customerEmail)
	})

	o.logger.Infow("site record created, provisioning started",
		"site_id", s.ID(), "site_name", siteName.String(), "request_id", req.ID(), "instance_id", inst.ID())
	return siteName.String(), nil
}

// uniqueSiteName derives a site name from the customer name and appends
// a numeric suffix until it is free.
func (o *Orchestrator) uniqueSiteName(ctx context.Context, customerName string) (site.SiteName, error) {
	base, err := site.DeriveSiteName(customerName)
	if err != nil {
		return site.SiteName{}, err
	}

	candidate := base
	for i := 1; ; i++ {
		taken, err := o.siteRepo.ExistsBySiteName(ctx, candidate.String())
		if err != nil {
			return site.SiteName{}, err
		}
		if !taken {
			return candidate, nil
		}
		candidate = base.WithSuffix(i)
	}
}

func (o *Orchestrator) resolveDomain(req *request.CustomerRequest, siteName site.SiteName) (site.DomainName, error) {
	if req.CustomDomain() != "" {
		domain, err := site.NewDomainName(req.CustomDomain())
		if err != nil {
			return site.DomainName{}, err
		}
		return domain.EnsureSuffix(o.provision.DomainSuffix), nil
	}
	return site.NewDomainName(siteName.String() + "." + o.provision.DomainSuffix)
}
