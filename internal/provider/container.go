package provider

import (
	"github.com/bakehouse-next/internal/cache"
	"github.com/bakehouse-next/internal/config"
	"github.com/bakehouse-next/internal/logger"
	"github.com/bakehouse-next/internal/models"
	"github.com/bakehouse-next/internal/queue"
	"github.com/bakehouse-next/internal/repository"
	"github.com/bakehouse-next/internal/service"
)

// Container wires repositories and services once at startup. Handlers and
// workers hold the container, never a bare *gorm.DB.
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo      repository.UserRepository
	ProductRepo   repository.ProductRepository
	CartRepo      repository.CartRepository
	OrderRepo     repository.OrderRepository
	DashboardRepo repository.DashboardRepository

	// Services
	UserAuthService  *service.UserAuthService
	ProductService   *service.ProductService
	CartService      *service.CartService
	OrderService     *service.OrderService
	PaymentService   *service.PaymentService
	EmailService     *service.EmailService
	UploadService    *service.UploadService
	DashboardService *service.DashboardService
}

// NewContainer initializes the cache, queue client, repositories and
// services. models.DB must be initialized before calling this.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}
	c.initRepositories()
	c.initServices()
	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

func (c *Container) initServices() {
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.Config.Store.ProductCacheTTL)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ProductRepo, c.CartRepo, c.QueueClient)
	c.PaymentService = service.NewPaymentService(c.OrderRepo, c.OrderService, c.Config.Stripe)
	c.EmailService = service.NewEmailService(c.Config.Email, c.Config.Store.Name)
	c.UploadService = service.NewUploadService(c.Config)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo)
}

// Close releases long-lived resources held by the container.
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
}
