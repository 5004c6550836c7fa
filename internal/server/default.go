package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"

	"github.com/transmedic-it-sg/tm-case-booking/pkg/application"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/configuration"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/constants"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/httpapi"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/middleware"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/server"
)

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Application   application.Application
	Pool          *pgxpool.Pool
}

func Default(options *DefaultOptions) (*server.HTTPServer, error) {
	app := options.Application

	middlewares := []mux.MiddlewareFunc{
		middleware.WithLogger(options.Logger),
		middleware.Provide(constants.AppKey, app),
		middleware.Provide(constants.PoolKey, options.Pool),
		middleware.Cors(options.Configuration.AllowedOrigins...),
	}

	if options.Configuration.RateLimit.Enabled {
		var store limiter.Store
		var err error

		switch options.Configuration.RateLimit.Storage {
		case "redis":
			store, err = middleware.NewRedisStore(options.Configuration.RateLimit.RedisURL)
			if err != nil {
				options.Logger.WithError(err).Warn("failed to create redis store for rate limiting, falling back to memory")
				store = middleware.NewMemoryStore()
			}
		default:
			store = middleware.NewMemoryStore()
		}

		middlewares = append(middlewares, middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerPeriod: options.Configuration.RateLimit.GlobalRPS,
			Store:             store,
		}))
	}

	middlewares = append(middlewares,
		middleware.RequestParams(),
		middleware.WithTransaction(),
	)

	app.RegisterMiddleware(middlewares...)

	serverInstance := server.NewHTTPServer(
		app,
		notFound(),
		methodNotAllowed(),
	)
	return serverInstance, nil
}

func notFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "no such endpoint", nil)
	})
}

func methodNotAllowed() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed for this endpoint", nil)
	})
}
