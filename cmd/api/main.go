package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/zllovesuki/payments/auth"
	"github.com/zllovesuki/payments/capability"
	"github.com/zllovesuki/payments/contentful"
	"github.com/zllovesuki/payments/eligibility"
	"github.com/zllovesuki/payments/external"
	resp "github.com/zllovesuki/payments/response"
	"github.com/zllovesuki/payments/subscription"

	"github.com/TheZeroSlave/zapsentry"
	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi"
	"github.com/go-chi/cors"
	"github.com/go-redis/redis/v7"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Build-time injected variables
var (
	Version = ""
)

func main() {
	var logger *zap.Logger
	var dotFile string
	var err error

	// Determine running environment and initialize structural logger
	env := os.Getenv("ENV")
	production := "production" == env
	if production {
		dotFile = ".env.production"
		logger, err = zap.NewProduction()
	} else {
		dotFile = ".env.development"
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		log.Fatalf("Cannot initialize logger: %v\n", err)
	}
	logger = logger.With(zap.String("Version", Version))

	// Initialize sentry for error reporting
	sentryEnvironment := "development"
	if production {
		sentryEnvironment = "production"
	}
	if err := sentry.Init(sentry.ClientOptions{
		Environment: sentryEnvironment,
		Debug:       !production,
	}); err != nil {
		logger.Fatal("Cannot initialize sentry",
			zap.Error(err),
		)
	}
	defer sentry.Flush(time.Second * 2)

	// Attach sentry to zap so we can do automatic error capturing
	cfg := zapsentry.Configuration{
		Level: zapcore.ErrorLevel,
		Tags: map[string]string{
			"component": "api",
		},
	}
	core, err := zapsentry.NewCore(cfg, zapsentry.NewSentryClientFromClient(sentry.CurrentHub().Client()))
	if err != nil {
		logger.Fatal("Cannot attach sentry to logger",
			zap.Error(err),
		)
	}
	logger = zapsentry.AttachCoreToLogger(core, logger)

	defer logger.Sync()

	// Load configurations from dotFile
	if err := godotenv.Load(dotFile); err != nil {
		logger.Fatal("Cannot load configurations from .env",
			zap.Error(err),
		)
	}

	localeTTL := time.Minute * 5
	if raw := os.Getenv("CONTENTFUL_LOCALE_TTL"); raw != "" {
		localeTTL, err = time.ParseDuration(raw)
		if err != nil {
			logger.Fatal("Invalid CONTENTFUL_LOCALE_TTL",
				zap.Error(err),
			)
		}
	}

	// Locales are shared between instances through Redis when it is configured
	var localeCache contentful.LocaleCache
	if redisURI := os.Getenv("REDIS_URI"); redisURI != "" {
		rdb := redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:    []string{redisURI},
			Password: os.Getenv("REDIS_PW"),
			DB:       0,
		})
		if _, err := rdb.Ping().Result(); err != nil {
			logger.Fatal("Cannot connect to Redis",
				zap.Error(err),
			)
		}
		defer rdb.Close()
		localeCache = contentful.NewRedisLocaleCache(rdb, "", localeTTL)
	} else {
		logger.Info("REDIS_URI is not set, caching locales in memory")
		localeCache = contentful.NewMemoryLocaleCache(localeTTL, nil)
	}

	contentClient, err := contentful.NewClient(contentful.ClientOptions{
		GraphQLURL:  os.Getenv("CONTENTFUL_GRAPHQL_URL"),
		CDNURL:      os.Getenv("CONTENTFUL_CDN_URL"),
		SpaceID:     os.Getenv("CONTENTFUL_SPACE_ID"),
		Environment: os.Getenv("CONTENTFUL_ENVIRONMENT"),
		AccessToken: os.Getenv("CONTENTFUL_ACCESS_TOKEN"),
		LocaleCache: localeCache,
		Logger:      logger,
	})
	if err != nil {
		logger.Fatal("Cannot initialize Contentful client",
			zap.Error(err),
		)
	}

	contentManager, err := contentful.NewManager(contentful.ManagerOptions{
		Client: contentClient,
		Stats:  external.NewLogTimer(logger, "payments."),
		Logger: logger,
	})
	if err != nil {
		logger.Fatal("Cannot initialize ContentfulManager",
			zap.Error(err),
		)
	}

	authenticator, err := auth.New(auth.Options{
		Logger:        logger,
		JWTSigningKey: os.Getenv("JWT_SIGNING_KEY"),
	})
	if err != nil {
		logger.Fatal("Cannot initialize Auth",
			zap.Error(err),
		)
	}

	eligibilityManager, err := eligibility.NewManager(eligibility.ManagerOptions{
		Content: contentManager,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal("Cannot initialize EligibilityManager",
			zap.Error(err),
		)
	}
	eligibilityRouter, err := eligibility.NewService(eligibility.ServiceOptions{
		EligibilityManager: eligibilityManager,
		Logger:             logger,
	})
	if err != nil {
		logger.Fatal("Cannot initialize Eligibility Service Router",
			zap.Error(err),
		)
	}

	capabilityManager, err := capability.NewManager(capability.ManagerOptions{
		Content: contentManager,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal("Cannot initialize CapabilityManager",
			zap.Error(err),
		)
	}
	capabilityRouter, err := capability.NewService(capability.ServiceOptions{
		CapabilityManager: capabilityManager,
		Logger:            logger,
	})
	if err != nil {
		logger.Fatal("Cannot initialize Capability Service Router",
			zap.Error(err),
		)
	}

	stripeClient := external.NewStripeClient(os.Getenv("STRIPE_KEY"), logger, nil)
	planLister, err := subscription.NewStripePlanLister(stripeClient)
	if err != nil {
		logger.Fatal("Cannot initialize StripePlanLister",
			zap.Error(err),
		)
	}
	stripeMapper, err := contentful.NewStripeMapper(contentManager, contentClient)
	if err != nil {
		logger.Fatal("Cannot initialize StripeMapper",
			zap.Error(err),
		)
	}
	subscriptionRouter, err := subscription.NewService(subscription.ServiceOptions{
		Lister: planLister,
		Mapper: stripeMapper,
		Logger: logger,
	})
	if err != nil {
		logger.Fatal("Cannot initialize Subscription Service Router",
			zap.Error(err),
		)
	}

	rootRouter := chi.NewRouter()

	rootRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins:   strings.Split(os.Getenv("CORS_ORIGIN"), ","),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type", resp.RequestIDHeader},
		ExposedHeaders:   []string{resp.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	rootRouter.Use(resp.RequestLogger(logger))

	rootRouter.Group(func(r chi.Router) {
		r.Use(authenticator.Middleware())
		r.Use(authenticator.ClaimCheck())
		r.Mount("/eligibility", eligibilityRouter.Router())
		r.Mount("/capabilities", capabilityRouter.Router())
	})
	rootRouter.Mount("/subscriptions", subscriptionRouter.Router())

	rootRouter.NotFound(func(w http.ResponseWriter, r *http.Request) {
		resp.WriteError(w, r, resp.ErrNotFound())
	})
	rootRouter.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		resp.WriteError(w, r, resp.ErrMethodNotAllowed())
	})

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":42069"
	}
	srv := &http.Server{
		Handler:      rootRouter,
		Addr:         addr,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("API server started",
			zap.String("Addr", addr),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Cannot serve API",
				zap.Error(err),
			)
		}
	}()

	<-c

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Cannot shutdown API server gracefully",
			zap.Error(err),
		)
	}
}
