package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	googleauth "handnotes-backend/internal/auth"
	"handnotes-backend/internal/classify"
	"handnotes-backend/internal/documents"
	"handnotes-backend/internal/llm"
	"handnotes-backend/internal/llm/gemini"
	"handnotes-backend/internal/llm/openai"
	"handnotes-backend/internal/notes"
	"handnotes-backend/internal/ocr"
	"handnotes-backend/internal/pipeline"
	"handnotes-backend/internal/services/health"
	"handnotes-backend/internal/settings"
	"handnotes-backend/internal/shared/auth"
	"handnotes-backend/internal/shared/config"
	"handnotes-backend/internal/shared/server"
	"handnotes-backend/internal/shared/storage/db"
	"handnotes-backend/internal/shared/storage/object"
	localstore "handnotes-backend/internal/shared/storage/object/local"
	s3store "handnotes-backend/internal/shared/storage/object/s3"
	"handnotes-backend/internal/shared/telemetry"
	"handnotes-backend/internal/tasks"
	"handnotes-backend/internal/users"
)

// App holds shared dependencies.
type App struct {
	Config   config.Config
	Router   *gin.Engine
	DB       *sql.DB
	Store    object.ObjectStore
	Sessions *auth.Sessions

	Documents *documents.Service
	Tasks     *tasks.Service
	Notes     *notes.Service
	Settings  *settings.Service
	Users     *users.Service
	OCR       *ocr.Gateway
	Classify  *classify.Gateway
	Pipeline  *pipeline.Pipeline
}

// Build prepares dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	return BuildContext(context.Background(), cfg)
}

// BuildContext is Build with a caller-supplied context for connection setup.
func BuildContext(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	sessions, err := auth.NewSessions(cfg.JWTSecret, cfg.Env, time.Duration(cfg.SessionTTLHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, DB: sqlDB, Store: store, Sessions: sessions}
	if err := buildServices(app); err != nil {
		return nil, err
	}
	ocrClient, err := buildLLM(cfg, cfg.OCRModel)
	if err != nil {
		return nil, err
	}
	classifyClient, err := buildLLM(cfg, cfg.ClassifyModel)
	if err != nil {
		return nil, err
	}
	if err := buildGateways(app, ocrClient, classifyClient); err != nil {
		return nil, err
	}

	_, placeholder := classifyClient.(llm.PlaceholderClient)
	var pinger health.Pinger
	if sqlDB != nil {
		pinger = sqlDB
	}
	deps := server.RouterDeps{
		Config:   cfg,
		Verifier: sessions,
		Health:   health.NewService(pinger, cfg.ObjectStoreType, cfg.LLMProvider, !placeholder),
		GoogleAuth: googleauth.NewGoogleService(googleauth.GoogleOptions{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			UIRedirect:   cfg.FrontendURL,
			SecureCookie: cfg.Env == "production",
		}, sessions, app.Users),
		Documents: documents.NewHandler(app.Documents, app.Tasks, app.Notes),
		OCR:       ocr.NewHandler(app.OCR),
		Classify:  classify.NewHandler(app.Classify, app.Settings),
		Pipeline:  pipeline.NewHandler(app.Pipeline),
		Tasks:     tasks.NewHandler(app.Tasks),
		Notes:     notes.NewHandler(app.Notes),
		Settings:  settings.NewHandler(app.Settings),
		Users:     users.NewHandler(app.Users),
	}
	if cfg.ObjectStoreType == "local" {
		deps.LocalFiles = store
	}
	app.Router = server.NewRouter(deps)

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":          cfg.Env,
		"store":        cfg.ObjectStoreType,
		"database":     sqlDB != nil,
		"llm_provider": cfg.LLMProvider,
		"llm_ready":    !placeholder,
		"ocr_engine":   cfg.OCREngine,
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "connect failed", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, s3store.Options{
			Region:        cfg.AWSRegion,
			Bucket:        cfg.S3Bucket,
			Prefix:        cfg.S3Prefix,
			KMSKeyID:      cfg.SSEKMSKeyID,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
	default:
		return localstore.New(cfg.LocalStoreDir, cfg.PublicBaseURL), nil
	}
}

// buildLLM returns a placeholder when the provider key is missing, so the
// gateways answer "not configured" instead of the process refusing to start.
func buildLLM(cfg config.Config, model string) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "gemini":
		if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
			return llm.PlaceholderClient{}, nil
		}
		return gemini.NewClient(cfg.GeminiAPIKey, model)
	default:
		if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
			return llm.PlaceholderClient{}, nil
		}
		return openai.NewClient(cfg.OpenAIAPIKey, model, cfg.OpenAIBaseURL)
	}
}

func buildServices(app *App) error {
	var (
		docRepo      documents.Repo
		taskRepo     tasks.Repo
		noteRepo     notes.Repo
		settingsRepo settings.Repo
		userRepo     users.Repo
	)
	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
		taskRepo = &tasks.PGRepo{DB: app.DB}
		noteRepo = &notes.PGRepo{DB: app.DB}
		settingsRepo = &settings.PGRepo{DB: app.DB}
		userRepo = &users.PGRepo{DB: app.DB}
	} else {
		docRepo = documents.NewMemoryRepo()
		taskRepo = tasks.NewMemoryRepo()
		noteRepo = notes.NewMemoryRepo()
		settingsRepo = settings.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
	}

	app.Settings = settings.NewService(settingsRepo, app.Config.DefaultLocale)
	app.Documents = documents.NewService(app.Store, docRepo)
	app.Tasks = tasks.NewService(taskRepo, app.Settings)
	app.Notes = notes.NewService(noteRepo)
	app.Users = users.NewService(userRepo)
	return nil
}

func buildGateways(app *App, ocrClient, classifyClient llm.Client) error {
	engine, err := ocrEngine(app.Config.OCREngine, ocrClient)
	if err != nil {
		return err
	}
	var fetcher ocr.Fetcher = ocr.NewHTTPFetcher()
	if app.Config.ObjectStoreType == "local" {
		fetcher = &ocr.StoreFetcher{
			Store:  app.Store,
			Prefix: app.Config.PublicBaseURL + strings.TrimSuffix(localstore.FilesRoute, "/"),
			Next:   fetcher,
		}
	}
	app.OCR = &ocr.Gateway{
		Fetcher:      fetcher,
		Engine:       engine,
		MaxDimension: app.Config.OCRMaxDimension,
		AllowedHosts: app.Config.OCRAllowedHosts,
	}
	app.Classify = &classify.Gateway{LLM: classifyClient}
	app.Pipeline = &pipeline.Pipeline{
		Storage:    app.Documents,
		OCR:        app.OCR,
		Classifier: app.Classify,
		Documents:  app.Documents,
		Tasks:      app.Tasks,
		Notes:      app.Notes,
		Locales:    app.Settings,
	}
	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}
