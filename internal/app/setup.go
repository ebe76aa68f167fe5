// Package app contains the application setup for the catalog service.
package app

import (
	"log/slog"
	"net/http"

	"github.com/evergreen/nursery/internal/catalog/service"
	"github.com/evergreen/nursery/internal/catalog/store"
	"github.com/evergreen/nursery/internal/config"
	"github.com/evergreen/nursery/internal/transport/rest"
	"github.com/evergreen/nursery/pkg/server"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
)

type Dependencies struct {
	Products   service.ProductService
	Categories service.CategoryService
	Logger     *slog.Logger
}

func SetupDependencies(db *mongo.Database, logger *slog.Logger) *Dependencies {
	return &Dependencies{
		Products:   service.NewService(store.NewMongoProductStore(db)),
		Categories: service.NewCategoryService(store.NewMongoCategoryStore(db)),
		Logger:     logger,
	}
}

// SetupHttpHandler initializes the HTTP router and routes for the catalog service.
// Also used by handler-level tests to build the full middleware stack.
func SetupHttpHandler(deps *Dependencies, allowedOrigins []string) http.Handler {
	mux := server.NewChiRouter(deps.Logger, allowedOrigins)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the catalog service.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	catalogHandler := rest.NewHandler(deps.Products, deps.Categories, deps.Logger)
	catalogHandler.RegisterRoutes(mux)
}

// SetupHttpServer creates and configures an HTTP server for the catalog service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps, cfg.CORS.AllowedOrigins)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}
