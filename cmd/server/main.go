package main

import (
	"context"
	"fmt"
	stdlog "log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"ndt-portal-backend/internal/auth"
	"ndt-portal-backend/internal/config"
	"ndt-portal-backend/internal/database"
	"ndt-portal-backend/internal/demo"
	"ndt-portal-backend/internal/gateway"
	"ndt-portal-backend/internal/handlers"
	"ndt-portal-backend/internal/logger"
	"ndt-portal-backend/internal/middleware"
	"ndt-portal-backend/internal/mirror"
	"ndt-portal-backend/internal/models"
	"ndt-portal-backend/internal/services"
	"ndt-portal-backend/internal/supabase"
)

// Demo-mode back-office credentials. The demo store has no user_profiles
// collection; staff sign-in is a single fixed admin account.
const (
	demoAdminEmail    = "admin@demo.example"
	demoAdminPassword = "admin123"
)

type apiHandlers struct {
	auth          *handlers.AuthHandler
	organizations *handlers.OrganizationsHandler
	profiles      *handlers.ProfilesHandler
	customers     *handlers.CustomersHandler
	projects      *handlers.ProjectsHandler
	jobs          *handlers.JobsHandler
	documents     *handlers.DocumentsHandler
}

// mirrorRunner is what main needs from every mirror instantiation: an initial
// fill and a push subscription.
type mirrorRunner interface {
	Refresh(ctx context.Context) error
	Subscribe(ctx context.Context, notifier gateway.Notifier) error
}

func main() {
	if err := godotenv.Load(); err != nil {
		stdlog.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(cfg.Environment)
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var h apiHandlers
	if cfg.DemoMode() {
		log.Infow("starting in demo mode", "data_file", cfg.DemoDataFile)
		h = buildDemoHandlers(ctx, cfg, log)
	} else {
		log.Infow("starting against hosted backend", "supabase_url", cfg.SupabaseURL)
		h = buildLiveHandlers(ctx, cfg, log)
	}

	router := setupRouter(cfg, h)
	log.Infow("server listening", "port", cfg.Port, "environment", cfg.Environment)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalw("server stopped", "error", err)
	}
}

func buildLiveHandlers(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) apiHandlers {
	migrator, err := database.NewMigrator(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatalw("failed to connect for migrations", "error", err)
	}
	if err := migrator.Run(); err != nil {
		log.Fatalw("failed to run migrations", "error", err)
	}
	migrator.Close()

	db, err := supabase.NewDatabaseClient(cfg.DatabaseURL)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}

	blobs, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseStorageBucket)
	if err != nil {
		log.Fatalw("failed to create storage client", "error", err)
	}

	sb, err := supabase.NewClient(cfg)
	if err != nil {
		log.Fatalw("failed to create supabase client", "error", err)
	}

	realtime := supabase.NewRealtimeClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, log)
	go realtime.Run(ctx)

	docSvc := services.NewDocumentService(db.Documents(), db.Versions(), blobs, log, cfg.MaxUploadSize)

	customerMirror, projectMirror, documentMirror := buildMirrors(
		ctx, log, realtime, db.Customers(), db.Projects(), db.Documents())

	staffSignIn := func(ctx context.Context, email, password string) (models.UserProfile, error) {
		if _, err := sb.SignIn(email, password); err != nil {
			return models.UserProfile{}, err
		}
		return db.Profiles().GetByEmail(ctx, email)
	}
	customerAuth := func(ctx context.Context, email, password string) (models.Customer, bool) {
		customer, err := db.Customers().GetByEmail(ctx, email)
		if err != nil {
			return models.Customer{}, false
		}
		if auth.CheckPassword(customer.PasswordHash, password) != nil {
			return models.Customer{}, false
		}
		return customer, true
	}

	return apiHandlers{
		auth:          handlers.NewAuthHandler(cfg.JWTSecret, staffSignIn, customerAuth),
		organizations: handlers.NewOrganizationsHandler(db.Organizations()),
		profiles:      handlers.NewProfilesHandler(db.Profiles()),
		customers:     handlers.NewCustomersHandler(db.Customers(), customerMirror),
		projects:      handlers.NewProjectsHandler(db.Projects(), projectMirror),
		jobs:          handlers.NewJobsHandler(db.Jobs()),
		documents:     handlers.NewDocumentsHandler(db.Documents(), docSvc, documentMirror),
	}
}

// buildDemoHandlers wires the in-process fallback: the demo store stands in
// for the database, object store and push channel at once. Organizations,
// profiles and jobs have no demo collections, so their routes stay off.
func buildDemoHandlers(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) apiHandlers {
	store := demo.NewStore(cfg.DemoDataFile, log)

	docSvc := services.NewDocumentService(store.Documents(), store.Versions(), store, log, cfg.MaxUploadSize)

	customerMirror, projectMirror, documentMirror := buildMirrors(
		ctx, log, store, store.Customers(), store.Projects(), store.Documents())

	staffSignIn := func(ctx context.Context, email, password string) (models.UserProfile, error) {
		if email != demoAdminEmail || password != demoAdminPassword {
			return models.UserProfile{}, fmt.Errorf("invalid credentials")
		}
		return models.UserProfile{
			ID:       "demo-admin",
			Email:    demoAdminEmail,
			FullName: "Demo Admin",
			Role:     models.RoleAdmin,
			IsActive: true,
		}, nil
	}
	customerAuth := func(ctx context.Context, email, password string) (models.Customer, bool) {
		return store.Authenticate(email, password)
	}

	return apiHandlers{
		auth:      handlers.NewAuthHandler(cfg.JWTSecret, staffSignIn, customerAuth),
		customers: handlers.NewCustomersHandler(store.Customers(), customerMirror),
		projects:  handlers.NewProjectsHandler(store.Projects(), projectMirror),
		documents: handlers.NewDocumentsHandler(store.Documents(), docSvc, documentMirror),
	}
}

func buildMirrors(
	ctx context.Context,
	log *zap.SugaredLogger,
	notifier gateway.Notifier,
	customers gateway.CustomerStore,
	projects gateway.ProjectStore,
	documents gateway.DocumentStore,
) (*handlers.CustomerMirror, *handlers.ProjectMirror, *handlers.DocumentMirror) {
	customerMirror := mirror.New[models.Customer, models.CustomerFilter, models.NewCustomer, models.CustomerPatch](
		customers, models.FamilyCustomers, models.CustomerFilter{}, log)
	projectMirror := mirror.New[models.Project, models.ProjectFilter, models.NewProject, models.ProjectPatch](
		projects, models.FamilyProjects, models.ProjectFilter{}, log)
	documentMirror := mirror.New[models.Document, models.DocumentFilter, models.NewDocument, models.DocumentPatch](
		documents, models.FamilyDocuments, models.DocumentFilter{}, log)

	for _, m := range []mirrorRunner{customerMirror, projectMirror, documentMirror} {
		if err := m.Refresh(ctx); err != nil {
			log.Warnw("initial mirror fill failed", "error", err)
		}
		if err := m.Subscribe(ctx, notifier); err != nil {
			log.Warnw("mirror subscription failed", "error", err)
		}
	}

	return customerMirror, projectMirror, documentMirror
}

func setupRouter(cfg *config.Config, h apiHandlers) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.MaxMultipartMemory = cfg.MaxUploadSize

	router.GET("/health", handlers.HealthHandler)

	api := router.Group("/api/v1")

	api.POST("/auth/login", h.auth.Login)
	api.POST("/auth/customer-login", h.auth.CustomerLogin)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	staff := protected.Group("")
	staff.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleManager, models.RoleEditor))

	admin := protected.Group("")
	admin.Use(middleware.RequireRoles(models.RoleAdmin))

	if h.organizations != nil {
		admin.GET("/organizations", h.organizations.List)
		admin.GET("/organizations/:organization_id", h.organizations.Get)
		admin.POST("/organizations", h.organizations.Create)
		admin.PATCH("/organizations/:organization_id", h.organizations.Update)
		admin.DELETE("/organizations/:organization_id", h.organizations.Delete)
	}

	if h.profiles != nil {
		admin.GET("/profiles", h.profiles.List)
		admin.GET("/profiles/:profile_id", h.profiles.Get)
		admin.POST("/profiles", h.profiles.Create)
		admin.PATCH("/profiles/:profile_id", h.profiles.Update)
		admin.DELETE("/profiles/:profile_id", h.profiles.Delete)
	}

	staff.GET("/customers", h.customers.List)
	staff.GET("/customers/:customer_id", h.customers.Get)
	staff.POST("/customers", h.customers.Create)
	staff.PATCH("/customers/:customer_id", h.customers.Update)
	staff.DELETE("/customers/:customer_id", h.customers.Delete)

	// Projects are visible to customers too; the handler scopes the result to
	// the caller's own records.
	protected.GET("/projects", h.projects.List)
	protected.GET("/projects/:project_id", h.projects.Get)
	staff.POST("/projects", h.projects.Create)
	staff.PATCH("/projects/:project_id", h.projects.Update)
	staff.DELETE("/projects/:project_id", h.projects.Delete)

	if h.jobs != nil {
		staff.GET("/jobs", h.jobs.List)
		staff.GET("/jobs/:job_id", h.jobs.Get)
		staff.POST("/jobs", h.jobs.Create)
		staff.PATCH("/jobs/:job_id", h.jobs.Update)
		staff.DELETE("/jobs/:job_id", h.jobs.Delete)
	}

	protected.GET("/documents", h.documents.List)
	protected.GET("/documents/:document_id", h.documents.Get)
	protected.GET("/documents/:document_id/url", h.documents.URL)
	protected.GET("/documents/:document_id/versions", h.documents.Versions)
	staff.POST("/documents", h.documents.Upload)
	staff.PATCH("/documents/:document_id", h.documents.Update)
	staff.DELETE("/documents/:document_id", h.documents.Delete)
	staff.POST("/documents/:document_id/versions", h.documents.UploadVersion)

	return router
}
