package main

import (
	"context"
	"log"
	"net/http"
	"time"

	api "github.com/vnexam/autograde/internal/api/http"
	"github.com/vnexam/autograde/internal/audit"
	auth "github.com/vnexam/autograde/internal/auth/middleware"
	"github.com/vnexam/autograde/internal/config"
	"github.com/vnexam/autograde/internal/db"
	"github.com/vnexam/autograde/internal/grading"
	"github.com/vnexam/autograde/internal/grading/pattern"
	"github.com/vnexam/autograde/internal/nlp"
	rbac "github.com/vnexam/autograde/internal/rbac"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()

	// --- DB (correction audit trail) ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	auditRepo := audit.NewRepo(dbh)

	// --- Grading engine ---
	// Store and engine share one normalizer so pattern keys agree.
	norm := grading.NewNormalizer(grading.DefaultLexicon())
	store := pattern.NewStore(cfg.PatternPath, norm.NormalizeKey)
	if err := store.Load(); err != nil {
		log.Fatalf("pattern store: %v", err)
	}

	model := nlp.NewClient(cfg.ModelBaseURL)
	engine := grading.NewEngine(model, model,
		grading.WithSegmenter(model),
		grading.WithPatternSource(store))

	// --- Auth (local JWT) ---
	authSvc := auth.NewAuthService(cfg.AuthSecret)
	users := []auth.LocalUser{
		{Username: cfg.InstructorUser, PassHash: cfg.InstructorPassHash, Role: "instructor"},
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.EnableLocalAuth {
		r.Post("/auth/login", auth.LoginHandler(authSvc, users))
	}

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("grade:run")).
			Post("/grade", api.GradeHandler(engine))

		pr.With(rbac.Require("correction:record")).
			Post("/corrections", api.RecordCorrectionHandler(store, engine.Normalizer().NormalizeKey, auditRepo))
		pr.With(rbac.RequireAny("learning:view", "correction:record")).
			Get("/corrections", api.ListCorrectionsHandler(auditRepo))

		pr.With(rbac.Require("learning:view")).
			Get("/learning/stats", api.LearningStatsHandler(store))
		pr.With(rbac.Require("learning:clear")).
			Delete("/learning/patterns", api.ClearPatternsHandler(store))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
