package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/Shruthi057/Clinigoal-project-sub001/internal/api/http"
	auth "github.com/Shruthi057/Clinigoal-project-sub001/internal/auth/middleware"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/certificate"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/config"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/course"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/db"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/enrollment"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/progress"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/quiz"
	syncx "github.com/Shruthi057/Clinigoal-project-sub001/internal/sync"
)

func main() {
	cfg := config.Load()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	defer dbh.Close()

	// --- Catalog: local tables, or a remote catalog service ---
	// Quizzes come from the same place as the courses listing them.
	var catalog course.Catalog
	var catalogWriter course.Writer
	var quizzes quiz.Source
	if cfg.CatalogURL != "" {
		remote := course.NewRemoteCatalog(cfg.CatalogURL, cfg.CatalogTimeout)
		catalog, quizzes = remote, remote
	} else {
		sqlCat := course.NewSQLCatalog(dbh)
		catalog, catalogWriter = sqlCat, sqlCat
		quizzes = quiz.NewSQLStore(dbh)
	}

	// --- Core services ---
	events := syncx.NewEventRepo(dbh, string(cfg.Mode))
	progRepo := progress.NewSQLRepository(dbh)
	enrollments := enrollment.NewService(enrollment.NewSQLRepository(dbh), catalog, progRepo,
		certificate.NewIssuer(certificate.NewSQLRepository(dbh)), events)
	progStore := progress.NewStore(progRepo, enrollments)
	sessions := quiz.NewManager(quizzes, enrollment.NewQuizRecorder(enrollments, progStore),
		quiz.RequireAllAnswered(cfg.QuizRequireAllAnswers),
		quiz.WithDefaultPassingScore(cfg.QuizDefaultPassingScore))
	defer sessions.Close()

	sweeper, err := quiz.NewSweeper(sessions, cfg.SessionSweepSpec)
	if err != nil {
		log.Fatalf("session sweeper: %v", err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	authSvc := auth.NewAuthService(cfg.AuthHMACSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	api.Mount(r, api.Deps{
		Auth:            authSvc,
		Catalog:         catalog,
		CatalogWriter:   catalogWriter,
		Progress:        progStore,
		Enrollments:     enrollments,
		Sessions:        sessions,
		Events:          events,
		EnableDevTokens: cfg.EnableDevTokens,
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.Printf("listening on %s (mode=%s, db=%s, remote catalog=%t)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver, cfg.CatalogURL != "")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
