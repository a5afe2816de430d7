package http

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	cataloguc "github.com/itsyosefali/saas-package-management/internal/application/catalog/usecases"
	fleetservices "github.com/itsyosefali/saas-package-management/internal/application/fleet/services"
	instanceuc "github.com/itsyosefali/saas-package-management/internal/application/instance/usecases"
	lifecycleservices "github.com/itsyosefali/saas-package-management/internal/application/lifecycle/services"
	provisioningservices "github.com/itsyosefali/saas-package-management/internal/application/provisioning/services"
	requestuc "github.com/itsyosefali/saas-package-management/internal/application/request/usecases"
	siteuc "github.com/itsyosefali/saas-package-management/internal/application/site/usecases"
	"github.com/itsyosefali/saas-package-management/internal/domain/action"
	"github.com/itsyosefali/saas-package-management/internal/domain/catalog"
	"github.com/itsyosefali/saas-package-management/internal/domain/instance"
	"github.com/itsyosefali/saas-package-management/internal/domain/request"
	"github.com/itsyosefali/saas-package-management/internal/domain/site"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/auth"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/cache"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/config"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/email"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/permission"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/pubsub"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/repository"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/secrets"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/sshexec"
	"github.com/itsyosefali/saas-package-management/internal/interfaces/http/handlers"
	"github.com/itsyosefali/saas-package-management/internal/interfaces/http/middleware"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
	markdownsvc "github.com/itsyosefali/saas-package-management/internal/shared/services/markdown"
)

// Container wires repositories, domain services, use cases, handlers and
// middleware together for the HTTP server.
type Container struct {
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	// Repositories
	packageRepo  catalog.PackageRepository
	requestRepo  request.Repository
	siteRepo     site.Repository
	instanceRepo instance.Repository
	groupRepo    instance.GroupRepository
	actionRepo   action.Repository

	// Infrastructure services
	cipher      *secrets.Cipher
	executor    *sshexec.SSHExecutor
	jwtService  *auth.JWTService
	enforcer    *permission.Enforcer
	notifier    *email.Notifier
	healthCache *cache.HealthReportCache
	allocLock   *cache.AllocationLock
	progressBus *pubsub.RedisProvisionProgressBus

	// Domain services
	allocator    *provisioningservices.Allocator
	workflow     *provisioningservices.Workflow
	orchestrator *provisioningservices.Orchestrator
	inspector    *fleetservices.Inspector
	sweeper      *fleetservices.Sweeper
	actionRunner *fleetservices.ActionRunner
	expirySweep  *lifecycleservices.ExpirySweep
	recovery     *lifecycleservices.RecoverySweep

	// Handlers
	packageHandler  *handlers.PackageHandler
	requestHandler  *handlers.RequestHandler
	siteHandler     *handlers.SiteHandler
	instanceHandler *handlers.InstanceHandler
	actionHandler   *handlers.ActionHandler

	// Middleware
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	rateLimiter          *middleware.RateLimiter
}

// NewContainer builds the full dependency graph. Construction order is
// infrastructure, repositories, domain services, use cases, handlers.
func NewContainer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
		redis:  redisClient,
	}

	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}
	c.initRepositories()
	c.initDomainServices()
	if err := c.initHandlers(); err != nil {
		return nil, err
	}
	c.initMiddleware()

	return c, nil
}

func (c *Container) initInfrastructure() error {
	cipher, err := secrets.NewCipher(c.cfg.Secrets.EncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to initialize secrets cipher: %w", err)
	}
	c.cipher = cipher

	c.executor = sshexec.NewSSHExecutor(&c.cfg.SSH, c.log)
	c.jwtService = auth.NewJWTService(c.cfg.Auth.JWT.Secret, c.cfg.Auth.JWT.AccessExpMinutes)

	enforcer, err := permission.NewEnforcer(c.db, c.cfg.Auth.CasbinModelPath, c.log)
	if err != nil {
		return fmt.Errorf("failed to initialize permission enforcer: %w", err)
	}
	if err := permission.InitFleetPermissions(enforcer.Raw(), c.log); err != nil {
		return fmt.Errorf("failed to seed permissions: %w", err)
	}
	c.enforcer = enforcer

	c.notifier = email.NewNotifier(&c.cfg.Email, c.log)
	c.healthCache = cache.NewHealthReportCache(c.redis, c.cfg.Fleet.ReportCacheTTL())
	c.allocLock = cache.NewAllocationLock(c.redis, c.cfg.Provision.AllocationLockTTL())
	c.progressBus = pubsub.NewRedisProvisionProgressBus(c.redis, c.log)

	return nil
}

func (c *Container) initRepositories() {
	c.packageRepo = repository.NewPackageRepository(c.db, c.log)
	c.requestRepo = repository.NewRequestRepository(c.db, c.log)
	c.siteRepo = repository.NewSiteRepository(c.db, c.log)
	c.instanceRepo = repository.NewInstanceRepository(c.db, c.log)
	c.groupRepo = repository.NewGroupRepository(c.db, c.log)
	c.actionRepo = repository.NewActionRepository(c.db, c.log)
}

func (c *Container) initDomainServices() {
	c.allocator = provisioningservices.NewAllocator(c.instanceRepo, c.allocLock, c.log)
	c.workflow = provisioningservices.NewWorkflow(
		c.siteRepo,
		c.executor,
		c.cipher,
		c.notifier,
		func(siteID uint, event provisioningservices.ProgressEvent) {
			c.progressBus.Publish(siteID, event.Percent, event.Message)
		},
		&c.cfg.Provision,
		&c.cfg.SSH,
		c.log,
	)
	c.orchestrator = provisioningservices.NewOrchestrator(
		c.requestRepo,
		c.packageRepo,
		c.siteRepo,
		c.allocator,
		c.workflow,
		&c.cfg.Provision,
		c.log,
	)

	c.inspector = fleetservices.NewInspector(
		c.executor,
		c.cipher,
		c.instanceRepo,
		c.siteRepo,
		fleetservices.NewCustomerNameResolver(c.requestRepo),
		&c.cfg.SSH,
		c.log,
	)
	c.sweeper = fleetservices.NewSweeper(c.instanceRepo, c.inspector, c.healthCache, &c.cfg.Fleet, c.log)
	c.actionRunner = fleetservices.NewActionRunner(
		c.actionRepo,
		c.instanceRepo,
		c.inspector,
		c.executor,
		c.cipher,
		&c.cfg.SSH,
		c.log,
	)

	c.expirySweep = lifecycleservices.NewExpirySweep(c.siteRepo, c.log)
	c.recovery = lifecycleservices.NewRecoverySweep(c.siteRepo, c.cfg.Provision.StuckGrace(), c.log)
}

func (c *Container) initHandlers() error {
	markdownService := markdownsvc.NewService()

	c.packageHandler = handlers.NewPackageHandler(
		cataloguc.NewCreatePackageUseCase(c.packageRepo, c.log),
		cataloguc.NewUpdatePackageUseCase(c.packageRepo, c.log),
		cataloguc.NewListPackagesUseCase(c.packageRepo, markdownService, c.log),
	)

	c.requestHandler = handlers.NewRequestHandler(
		requestuc.NewCreateRequestUseCase(c.requestRepo, c.packageRepo, c.notifier, c.log),
		requestuc.NewListRequestsUseCase(c.requestRepo, c.log),
		requestuc.NewUpdateRequestStatusUseCase(c.requestRepo, c.log),
		requestuc.NewApproveRequestUseCase(c.requestRepo, c.orchestrator, c.log),
	)

	c.siteHandler = handlers.NewSiteHandler(
		siteuc.NewListSitesUseCase(c.siteRepo, c.log),
		siteuc.NewGetSiteUseCase(c.siteRepo, c.log),
		c.orchestrator,
		c.inspector,
	)

	c.instanceHandler = handlers.NewInstanceHandler(
		instanceuc.NewCreateInstanceUseCase(c.instanceRepo, c.groupRepo, c.cipher, c.log),
		instanceuc.NewListInstancesUseCase(c.instanceRepo, c.log),
		instanceuc.NewGetInstanceUseCase(c.instanceRepo, c.log),
		instanceuc.NewDeactivateInstanceUseCase(c.instanceRepo, c.log),
		instanceuc.NewTestConnectionUseCase(c.instanceRepo, c.executor, c.cipher, c.log),
		instanceuc.NewManageGroupsUseCase(c.groupRepo, c.log),
		c.sweeper,
		c.healthCache,
	)

	c.actionHandler = handlers.NewActionHandler(c.actionRunner, c.actionRepo)

	return nil
}

func (c *Container) initMiddleware() {
	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtService, c.log)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.enforcer, c.log)
	c.rateLimiter = middleware.NewRateLimiter(c.redis, 30, requestRateWindow)
}

// Sweeper exposes the fleet sweeper for background scheduling.
func (c *Container) Sweeper() *fleetservices.Sweeper {
	return c.sweeper
}

// ExpirySweep exposes the site expiry sweep for background scheduling.
func (c *Container) ExpirySweep() *lifecycleservices.ExpirySweep {
	return c.expirySweep
}

// RecoverySweep exposes the stuck-site recovery sweep for background
// scheduling.
func (c *Container) RecoverySweep() *lifecycleservices.RecoverySweep {
	return c.recovery
}
