package api

import (
	"os"
	"time"

	"skyreserve/backend/internal/auth"
	"skyreserve/backend/internal/common"
	"skyreserve/backend/internal/db"
	"skyreserve/backend/internal/db/repositories"
	"skyreserve/backend/internal/logging"
	"skyreserve/backend/internal/metrics"
	"skyreserve/backend/internal/services"
)

type Repositories struct {
	Booking    *repositories.BookingRepository
	Flights    *repositories.FlightRepository
	Reports    *repositories.ReportingRepository
	Accounts   *repositories.AccountRepository
	References *repositories.ReferenceRepository
	Perms      *repositories.PermissionRepository
}

type Services struct {
	Cache        common.CacheInterface
	TokenIssuer  *auth.TokenIssuer
	Registration *services.RegistrationService
	Booking      *services.BookingService
	Flights      *services.FlightsService
	Fleet        *services.FleetService
	Reporting    *services.ReportingService
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
	Metrics  *metrics.MetricsRegistry
}

func InitDependencies() (*Dependencies, error) {
	repos := &Repositories{
		Booking:    repositories.NewBookingRepository(db.DB),
		Flights:    repositories.NewFlightRepository(db.DB),
		Reports:    repositories.NewReportingRepository(db.DB),
		Accounts:   repositories.NewAccountRepository(db.PgDB),
		References: repositories.NewReferenceRepository(db.PgDB),
		Perms:      repositories.NewPermissionRepository(db.PgDB),
	}

	registry := metrics.NewMetricsRegistry()

	// CACHE_BACKEND=redis switches the cache to Redis; anything else runs
	// the in-process cache.
	var cacheSvc common.CacheInterface
	if os.Getenv("CACHE_BACKEND") == "redis" {
		redisCache, err := common.NewRedisCacheService()
		if err != nil {
			logging.Warn("Redis cache unavailable, falling back to in-memory", "error", err)
			cacheSvc = common.NewCacheService(60, 120)
		} else {
			cacheSvc = redisCache
		}
	} else {
		cacheSvc = common.NewCacheService(60, 120)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret-do-not-use-in-production"
		logging.Warn("JWT_SECRET not set, using development secret")
	}
	issuer := auth.NewTokenIssuer([]byte(secret), 24*time.Hour)

	svcs := &Services{
		Cache:        cacheSvc,
		TokenIssuer:  issuer,
		Registration: services.NewRegistrationService(repos.Accounts, repos.References, issuer),
		Booking:      services.NewBookingService(services.NewSQLBookingStore(repos.Booking), registry),
		Flights:      services.NewFlightsService(repos.Flights, repos.References, repos.Accounts, cacheSvc, registry),
		Fleet:        services.NewFleetService(repos.Flights, repos.References, repos.Perms, repos.Accounts, cacheSvc),
		Reporting:    services.NewReportingService(repos.Reports, repos.Accounts),
	}

	return &Dependencies{
		Repo:     repos,
		Services: svcs,
		Metrics:  registry,
	}, nil
}
