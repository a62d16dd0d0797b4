package cmd

import (
	"fmt"
	"log/slog"

	httpin "ridehail/internal/adapters/in/http"
	"ridehail/internal/adapters/out/notify"
	"ridehail/internal/adapters/out/postgres"
	"ridehail/internal/adapters/out/redisgeo"
	"ridehail/internal/adapters/out/routing"
	"ridehail/internal/core/application/usecases/commands"
	"ridehail/internal/core/application/usecases/queries"
	"ridehail/internal/core/domain/services"
	"ridehail/internal/jobs"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot builds and holds the application's object graph.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	registry   *redisgeo.Registry
	matchmaker *services.Matchmaker
	pricing    services.PricingService
	routes     *routing.Client
	hub        *notify.WebSocketHub
	kafkaSink  *notify.KafkaSink
	notifier   notify.MultiSink
	logger     *slog.Logger

	pickupRadiusMeters float64
}

// NewCompositionRoot assembles the dependency graph from the loaded
// configuration and the shared database and Redis connections.
func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	redisClient *redis.Client,
	logger *slog.Logger,
) (*CompositionRoot, error) {
	registry, err := redisgeo.NewRegistry(redisClient)
	if err != nil {
		return nil, fmt.Errorf("build driver registry: %w", err)
	}

	matchingConfig, err := services.NewMatchingConfig(
		config.MatchBaseRadiusKm,
		config.MatchMaxRadiusKm,
		config.MatchCandidateLimit,
		config.MatchClaimTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("build matching config: %w", err)
	}

	matchmaker, err := services.NewMatchmaker(registry, matchingConfig)
	if err != nil {
		return nil, fmt.Errorf("build matchmaker: %w", err)
	}

	tariff, err := services.NewTariff(
		config.TariffBaseFare,
		config.TariffPerKm,
		config.TariffPerMinute,
		config.TariffSurgeMultiplier,
	)
	if err != nil {
		return nil, fmt.Errorf("build tariff: %w", err)
	}

	hub := notify.NewWebSocketHub(logger)
	notifier := notify.MultiSink{hub}

	var kafkaSink *notify.KafkaSink
	if len(config.KafkaBrokers) > 0 {
		kafkaSink = notify.NewKafkaSink(config.KafkaBrokers, config.KafkaOrderUpdateTopic)
		notifier = append(notifier, kafkaSink)
	}

	return &CompositionRoot{
		gormDB:             gormDB,
		uowFactory:         *postgres.NewGormUnitOfWorkFactory(gormDB),
		registry:           registry,
		matchmaker:         matchmaker,
		pricing:            services.NewPricingService(tariff),
		routes:             routing.NewClient(config.RoutingProviderURL, config.RoutingCacheTTL),
		hub:                hub,
		kafkaSink:          kafkaSink,
		notifier:           notifier,
		logger:             logger,
		pickupRadiusMeters: config.PickupRadiusMeters,
	}, nil
}

// Close releases resources held by outbound adapters.
func (c *CompositionRoot) Close() error {
	if c.kafkaSink != nil {
		return c.kafkaSink.Close()
	}
	return nil
}

// Registry exposes the driver registry for jobs and diagnostics.
func (c *CompositionRoot) Registry() *redisgeo.Registry {
	return c.registry
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(
		c.orderUoWFactory(), c.routes, c.pricing, c.notifier, c.logger,
	)
}

func (c *CompositionRoot) CreateSearchDriverCommandHandler() commands.SearchDriverCommandHandler {
	return commands.NewSearchDriverCommandHandler(
		c.orderUoWFactory(), c.matchmaker, c.notifier, c.logger,
	)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	return commands.NewUpdateOrderStatusCommandHandler(
		c.orderUoWFactory(), c.registry, c.matchmaker, c.notifier, c.logger, c.pickupRadiusMeters,
	)
}

func (c *CompositionRoot) CreateUpdateDriverLocationCommandHandler() commands.UpdateDriverLocationCommandHandler {
	return commands.NewUpdateDriverLocationCommandHandler(c.registry)
}

func (c *CompositionRoot) CreateSetDriverAvailabilityCommandHandler() commands.SetDriverAvailabilityCommandHandler {
	return commands.NewSetDriverAvailabilityCommandHandler(c.registry)
}

func (c *CompositionRoot) CreateDispatchPendingOrdersCommandHandler() commands.DispatchPendingOrdersCommandHandler {
	return commands.NewDispatchPendingOrdersCommandHandler(
		c.orderUoWFactory(), c.matchmaker, c.notifier, c.logger,
	)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListNearbyDriversQueryHandler() queries.ListNearbyDriversQueryHandler {
	return queries.NewListNearbyDriversQueryHandler(c.registry)
}

// CreateHTTPServer wires every route handler into the REST server.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateSearchDriverCommandHandler(),
		c.CreateUpdateOrderStatusCommandHandler(),
		c.CreateUpdateDriverLocationCommandHandler(),
		c.CreateSetDriverAvailabilityCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateListOrdersQueryHandler(),
		c.CreateListNearbyDriversQueryHandler(),
		c.routes,
		c.hub,
	)
}

// CreateJobManager wires the scheduled background jobs.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateDispatchPendingOrdersCommandHandler(),
		c.registry,
		c.logger,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
