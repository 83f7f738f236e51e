package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/graphql-go/graphql"
	"github.com/hako/durafmt"
	"github.com/ironstar-io/chizerolog"
	"github.com/rs/zerolog"

	"github.com/jd-116/gadget-graphql-api/db"
	"github.com/jd-116/gadget-graphql-api/db/mongo"
	"github.com/jd-116/gadget-graphql-api/env"
	"github.com/jd-116/gadget-graphql-api/gadgets"
	"github.com/jd-116/gadget-graphql-api/gql"
	"github.com/jd-116/gadget-graphql-api/util"
)

const (
	defaultMaxBodySize = 1 * datasize.MB
	shutdownTimeout    = 5 * time.Second
)

// APIServer is a struct that bundles together the various server-wide
// resources used at runtime that each have
// a lifecycle of initialization, connection, and disconnection
type APIServer struct {
	dbProvider     db.Provider
	schema         graphql.Schema
	maxBodySize    datasize.ByteSize
	allowedOrigins string
	logger         zerolog.Logger
}

// NewAPIServer initializes the struct and all constituent components
func NewAPIServer(logger zerolog.Logger) (*APIServer, error) {
	// Initialize the MongoDB handler
	dbProvider, err := mongo.NewProvider(logger)
	if err != nil {
		return nil, err
	}

	maxBodySize := defaultMaxBodySize
	if env.IsSet("GRAPHQL_MAX_BODY_SIZE") {
		maxBodySize, err = env.GetBytesEnv("max GraphQL request body size", "GRAPHQL_MAX_BODY_SIZE")
		if err != nil {
			return nil, err
		}
	}

	// See if the CORS_ALLOWED_ORIGINS environment variable was set
	allowedOrigins := "*"
	if env.IsSet("CORS_ALLOWED_ORIGINS") {
		allowedOrigins, err = env.GetEnv("CORS allowed origins", "CORS_ALLOWED_ORIGINS")
		if err != nil {
			return nil, err
		}
	}

	return newAPIServer(dbProvider, maxBodySize, allowedOrigins, logger)
}

func newAPIServer(dbProvider db.Provider, maxBodySize datasize.ByteSize,
	allowedOrigins string, logger zerolog.Logger) (*APIServer, error) {

	schema, err := gql.NewSchema(dbProvider)
	if err != nil {
		return nil, err
	}

	return &APIServer{
		dbProvider:     dbProvider,
		schema:         schema,
		maxBodySize:    maxBodySize,
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}, nil
}

// Connect initializes the struct and all constituent components
func (a *APIServer) Connect(ctx context.Context) error {
	// Connect to the MongoDB database
	a.logger.Info().Msg("initializing MongoDB database provider")
	err := a.dbProvider.Connect(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("could not connect to the database")
		return err
	}

	return nil
}

// Disconnect initializes the struct and all constituent components
func (a *APIServer) Disconnect(ctx context.Context) error {
	err := a.dbProvider.Disconnect(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("could not disconnect from the database")
		return err
	}
	a.logger.Info().Msg("disconnected from the database")

	return nil
}

// Serve runs the main API server until it's cancelled for some reason,
// in which case it attempts to gracefully shutdown.
// This function blocks.
func (a *APIServer) Serve(ctx context.Context, port int) {
	router := a.routes()
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Fatal().Err(err).Msg("listen failed")
		}
	}()
	a.logger.Info().Int("port", port).Msg("API server started")

	<-ctx.Done()
	a.logger.Info().
		Str("timeout", durafmt.Parse(shutdownTimeout).String()).
		Msg("API server stopping")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		a.logger.Fatal().Err(err).Msg("API server shutdown failed")
	}
	a.logger.Info().Msg("API server exited properly")
}

func (a *APIServer) routes() *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		middleware.Recoverer,                          // Recover from panics without crashing the server
		util.RequestLogger(a.logger),                  // Tag requests with an ID and a request-scoped logger
		chizerolog.LoggerMiddleware(&a.logger),        // Log API request calls
		middleware.RedirectSlashes,                    // Redirect slashes to no slash URL versions
		render.SetContentType(render.ContentTypeJSON), // Set content-type headers to application/json
		middleware.Compress(5),                        // Compress results, mostly gzipping json
		middleware.NoCache,                            // Prevent clients from caching the results
		a.corsMiddleware(),                            // Create cors middleware from go-chi/cors
	)

	router.Route("/v1", func(r chi.Router) {
		// Can be used for health checks
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})

		graphqlHandler := gql.Handler(a.schema, int64(a.maxBodySize.Bytes()))
		r.Get("/graphql", graphqlHandler)
		r.Post("/graphql", graphqlHandler)

		r.Mount("/gadgets", gadgets.Routes(a.dbProvider))
	})

	return router
}

func (a *APIServer) corsMiddleware() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{a.allowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", util.RequestIDHeader},
		ExposedHeaders:   []string{util.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
