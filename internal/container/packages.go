package container

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/danielgtaylor/huma/v2"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jaevor/go-nanoid"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/shorturl/internal/analytics"
	analyticsrecorder "github.com/serroba/shorturl/internal/analytics/recorder"
	"github.com/serroba/shorturl/internal/handlers"
	"github.com/serroba/shorturl/internal/health"
	"github.com/serroba/shorturl/internal/messaging"
	"github.com/serroba/shorturl/internal/metrics"
	"github.com/serroba/shorturl/internal/middleware"
	"github.com/serroba/shorturl/internal/shortener"
	"github.com/serroba/shorturl/internal/store"
	"github.com/serroba/shorturl/internal/validate"
	"go.uber.org/zap"
)

const (
	requestIDLength     = 12
	eventHandlerTimeout = 10 * time.Second
)

var errRedisNotConfigured = errors.New("redis address is not configured")

// RedisClient owns the Redis connection so the injector can close it on shutdown.
type RedisClient struct {
	client *redis.Client
}

// Client returns the underlying go-redis client.
func (c *RedisClient) Client() *redis.Client {
	return c.client
}

func (c *RedisClient) Shutdown() error {
	return c.client.Close()
}

func LoggerPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*zap.Logger, error) {
		opts := do.MustInvoke[*Options](i)

		return NewLogger(opts.LogFormat)
	})
}

func MetricsPackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (*metrics.Metrics, error) {
		return metrics.New(), nil
	})
}

func RedisPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*RedisClient, error) {
		opts := do.MustInvoke[*Options](i)
		if opts.RedisAddr == "" {
			return nil, errRedisNotConfigured
		}

		return &RedisClient{client: redis.NewClient(&redis.Options{Addr: opts.RedisAddr})}, nil
	})
}

func StorePackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (*store.MemoryStore, error) {
		return store.NewMemoryStore(), nil
	})
	do.Provide(i, func(_ *do.Injector) (*store.Counter, error) {
		return store.NewCounter(), nil
	})
}

func ValidatorPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*validate.Validator, error) {
		opts := do.MustInvoke[*Options](i)
		m := do.MustInvoke[*metrics.Metrics](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return validate.New(logger,
			validate.WithTimeout(opts.LookupTimeout()),
			validate.WithLookupObserver(m.ObserveLookup),
		), nil
	})
}

func ShortenerPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*shortener.Service, error) {
		return shortener.NewService(
			do.MustInvoke[*validate.Validator](i),
			do.MustInvoke[*store.MemoryStore](i),
			do.MustInvoke[*store.Counter](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}

// EventsPackage provides the analytics publishers. Without a Redis address
// events travel over an in-process channel.
func EventsPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*gochannel.GoChannel, error) {
		logger := do.MustInvoke[*zap.Logger](i)

		return gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, messaging.NewZapLogger(logger)), nil
	})

	do.Provide(i, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		opts := do.MustInvoke[*Options](i)
		if opts.InProcessEvents() {
			return messaging.NewPublisherGroup(do.MustInvoke[*gochannel.GoChannel](i)), nil
		}

		client := do.MustInvoke[*RedisClient](i)
		logger := do.MustInvoke[*zap.Logger](i)

		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{Client: client.Client()},
			messaging.NewZapLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("create redis stream publisher: %w", err)
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(i, func(i *do.Injector) (analytics.Publishers, error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return analytics.NewPublishers(group.Publisher()), nil
	})
}

// ConsumerGroupPackage provides the analytics consumers over the configured transport.
func ConsumerGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		var subscriber message.Subscriber

		if opts.InProcessEvents() {
			subscriber = do.MustInvoke[*gochannel.GoChannel](i)
		} else {
			client := do.MustInvoke[*RedisClient](i)

			sub, err := redisstream.NewSubscriber(
				redisstream.SubscriberConfig{
					Client:        client.Client(),
					ConsumerGroup: opts.EventsGroup,
				},
				messaging.NewZapLogger(logger),
			)
			if err != nil {
				return nil, fmt.Errorf("create redis stream subscriber: %w", err)
			}

			subscriber = sub
		}

		m := do.MustInvoke[*metrics.Metrics](i)

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(analytics.NewConsumers(
			subscriber,
			analyticsrecorder.NewLog(logger),
			logger,
			messaging.WithHandlerTimeout(eventHandlerTimeout),
			messaging.WithProcessedHook(m.ObserveEvent),
		)...)

		return group, nil
	})
}

func HealthPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*health.Handler, error) {
		opts := do.MustInvoke[*Options](i)

		checkers := map[string]health.Checker{
			"store": do.MustInvoke[*store.MemoryStore](i),
		}

		if !opts.InProcessEvents() {
			checkers["redis"] = health.NewRedisChecker(do.MustInvoke[*RedisClient](i).Client())
		}

		return health.NewHandler(checkers), nil
	})
}

// HTTPPackage provides the router with pages and metrics mounted, and the
// huma API with every operation registered on it.
func HTTPPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*chi.Mux, error) {
		opts := do.MustInvoke[*Options](i)
		m := do.MustInvoke[*metrics.Metrics](i)

		router := chi.NewMux()
		router.Use(chimiddleware.Recoverer)
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"*"},
			ExposedHeaders: []string{middleware.RequestIDHeader},
		}))

		handlers.RegisterPages(router, opts.ViewsDir, opts.PublicDir)
		router.Handle("/metrics", m.Handler())

		return router, nil
	})

	do.Provide(i, func(i *do.Injector) (huma.API, error) {
		router := do.MustInvoke[*chi.Mux](i)
		m := do.MustInvoke[*metrics.Metrics](i)
		logger := do.MustInvoke[*zap.Logger](i)

		generateID, err := nanoid.Standard(requestIDLength)
		if err != nil {
			return nil, fmt.Errorf("create request id generator: %w", err)
		}

		api := handlers.NewAPI(router)
		api.UseMiddleware(
			middleware.RequestMeta(api, generateID),
			middleware.AccessLog(api, m, logger),
		)

		urlHandler := handlers.NewURLHandler(
			do.MustInvoke[*shortener.Service](i),
			do.MustInvoke[analytics.Publishers](i),
			m,
			logger,
		)

		handlers.RegisterRoutes(api, urlHandler)
		health.RegisterRoutes(api, do.MustInvoke[*health.Handler](i))

		return api, nil
	})
}
