package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/joho/godotenv"
	"github.com/maxaizer/jobmarket/internal/api"
	"github.com/maxaizer/jobmarket/internal/auth"
	"github.com/maxaizer/jobmarket/internal/clients/local"
	"github.com/maxaizer/jobmarket/internal/clients/supabase"
	"github.com/maxaizer/jobmarket/internal/config"
	"github.com/maxaizer/jobmarket/internal/logger"
	"github.com/maxaizer/jobmarket/internal/metrics"
	"github.com/maxaizer/jobmarket/internal/repositories"
	"github.com/maxaizer/jobmarket/internal/services"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const listingsCacheTTL = 5 * time.Minute

func newAuthProvider(ctx context.Context, cfg config.AuthConfig, db *repositories.DbContext) services.AuthProvider {
	switch cfg.Provider {
	case config.ProviderSupabase:
		client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseKey)
		if err != nil {
			log.Fatalf("can't create supabase client: %v", err)
		}
		if cfg.RemoteRequestsPerSecond > 0 {
			client.SetRateLimit(rate.Limit(cfg.RemoteRequestsPerSecond), 1)
		}
		return client
	default:
		localProvider := local.NewProvider(repositories.NewCredentialsRepository(db.DB),
			repositories.NewIdentitiesRepository(db.DB), cfg.TokenTTL)
		for _, account := range repositories.DemoAccounts {
			err := localProvider.EnsureAccount(ctx, account.Identity.ID, account.Identity.Email, account.Password)
			if err != nil {
				log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
					Errorf("can't create demo account %s: %v", account.Identity.Email, err)
			}
		}
		return localProvider
	}
}

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env file loaded: %v", err)
	}

	cfg := config.Get()

	logger.Setup(ctx, cfg.Logger)
	defer logger.Cleanup()

	metrics.Register()

	dbContext, err := repositories.NewDbContext(cfg.DB.Driver, cfg.DB.ConnectionString)
	if err != nil {
		log.Fatalf("can't create db context: %v", err)
	}
	defer dbContext.Close()

	if err = dbContext.Migrate(); err != nil {
		log.Fatalf("can't migrate db context: %v", err)
	}
	if cfg.DB.SeedDemoData {
		if err = dbContext.SeedIfEmpty(); err != nil {
			log.Fatalf("can't seed db: %v", err)
		}
	}

	authProvider := newAuthProvider(ctx, cfg.Auth, dbContext)

	identities := repositories.NewIdentitiesRepository(dbContext.DB)
	registrations := repositories.NewRegistrationsRepository(dbContext.DB)
	workers := repositories.NewCachedWorkers(repositories.NewWorkersRepository(dbContext.DB), listingsCacheTTL)
	employers := repositories.NewCachedEmployers(repositories.NewEmployersRepository(dbContext.DB), listingsCacheTTL)

	bus := EventBus.New()

	if _, err = services.NewNotifier(bus, identities, workers, employers); err != nil {
		log.Fatalf("can't create notifier: %v", err)
	}

	remediator, err := services.NewRegistrationRemediator(registrations, authProvider,
		cfg.Auth.RemediationSchedule, cfg.Auth.RemediationMaxAttempts)
	if err != nil {
		log.Fatalf("can't create registration remediator: %v", err)
	}
	remediator.Start()
	defer remediator.Stop()

	tokens, err := auth.NewTokenIssuer(cfg.Auth.JwtSecret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatalf("can't create token issuer: %v", err)
	}

	router := api.NewRouter(cfg.Server, api.Dependencies{
		Sessions: services.NewSessions(authProvider, repositories.NewDataRepository(dbContext.DB),
			registrations, bus, cfg.Auth.SessionIdleTTL),
		Listings: services.NewListings(repositories.NewJobsRepository(dbContext.DB), workers, employers, bus),
		Messaging: services.NewMessaging(repositories.NewConversationsRepository(dbContext.DB),
			repositories.NewMessagesRepository(dbContext.DB),
			services.NewDirectory(workers, employers, identities), bus),
		Tokens: tokens,
	})

	server := api.NewServer(cfg.Server, router)
	go server.Run()

	<-ctx.Done()

	log.Info("Shutting down services...")
	server.Stop()
	log.Info("Services stopped.")
}
