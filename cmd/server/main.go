package main

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"parent-products/internal/admin"
	"parent-products/internal/adminurl"
	"parent-products/internal/auth"
	"parent-products/internal/catalog"
	"parent-products/internal/config"
	"parent-products/internal/form"
	"parent-products/internal/i18n"
	"parent-products/internal/media"
	"parent-products/internal/parents"
	"parent-products/internal/scopeconfig"
	"parent-products/internal/storage"
	"parent-products/internal/store"
)

// catalogResource guards the product admin endpoints.
const catalogResource = "Magento_Catalog::products"

func main() {
	ctx := context.Background()

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.WithFields(log.Fields{
		"port":   cfg.Server.Port,
		"driver": cfg.Database.Driver,
		"db":     cfg.Database.Name,
	}).Info("Config loaded")

	// 2. Connect to database
	db, err := store.New(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.WithField("dialect", db.Dialect.Name()).Info("Database connected")

	// 3. Bootstrap catalog, config and admin tables
	if err := db.Bootstrap(ctx); err != nil {
		log.Fatalf("Failed to bootstrap tables: %v", err)
	}
	log.Info("Tables ready")

	// 4. Collaborators
	repo := catalog.NewRepository(db.DB, db.Dialect)
	scope := scopeconfig.NewReader(db.DB, db.Dialect, cfg.Store.ID, cfg.Store.WebsiteID, cfg.ScopeDefaults)
	acl, err := auth.NewAuthorizer(cfg.ACL.Resources)
	if err != nil {
		log.Fatalf("Failed to compile ACL rules: %v", err)
	}

	var files media.FileChecker
	if cfg.Media.VerifyFiles {
		files = storage.NewLocalStorage(cfg.Media.LocalPath)
	}
	images := media.NewResolver(cfg.Media, files)

	translator, err := i18n.NewTranslator(scope)
	if err != nil {
		log.Fatalf("Failed to load translations: %v", err)
	}

	provider := parents.NewProvider(repo, repo, adminurl.NewBuilder(cfg.Admin))
	pool := form.NewPool(form.PoolEntry{
		Name:      "parent_products",
		SortOrder: form.FieldsetSortOrder,
		Modifier:  form.NewParentProducts(scope, acl, catalog.ContextLocator{}, provider, repo, images, translator),
	})
	for _, e := range pool.Entries() {
		log.WithFields(log.Fields{"modifier": e.Name, "sort_order": e.SortOrder}).Info("Form modifier registered")
	}

	// 5. Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: admin.ErrorHandler,
	})
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))

	// 6. Health check and metrics
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// 7. Auth routes (no auth required)
	auth.RegisterAuthRoutes(app, auth.NewAuthHandler(db, cfg.JWTSecret))

	// 8. Catalog admin routes (auth + catalog ACL required)
	adminHandler := admin.NewHandler(repo, provider, acl, pool)
	admin.RegisterAdminRoutes(app, adminHandler,
		auth.AuthMiddleware(cfg.JWTSecret), auth.RequireResource(acl, catalogResource))

	// 9. Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Infof("Starting server on %s", addr)
	log.Fatal(app.Listen(addr))
}
