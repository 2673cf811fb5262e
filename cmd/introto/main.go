package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pavelanni/introto/internal/auth"
	"github.com/pavelanni/introto/internal/catalog"
	"github.com/pavelanni/introto/internal/certificate"
	"github.com/pavelanni/introto/internal/handler"
	appI18n "github.com/pavelanni/introto/internal/i18n"
	"github.com/pavelanni/introto/internal/metrics"
	"github.com/pavelanni/introto/internal/model"
	"github.com/pavelanni/introto/internal/progress"
	"github.com/pavelanni/introto/internal/store"
)

//go:generate templ generate -path ../../internal/certificate

const (
	shutdownTimeout = 10 * time.Second
	cleanupInterval = time.Hour
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "introto",
		Short: "Course catalog and sequential learning server",
	}

	serve := serveCmd()
	root.AddCommand(serve, coursesCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `introto --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP learning server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.StringP("catalog", "c", "", "Path to a courses JSON file (default: built-in catalog)")
	f.String("db", store.MemoryDSN, "SQLite database path for accounts, enrollments and certificates")
	f.StringP("lang", "l", "en", "Fallback message language (en, ru)")
	f.Bool("secure-cookies", true, "Set Secure flag on session cookies")
	f.Float64("login-rate", 1, "Login attempts per second allowed per client IP (0 = unlimited)")
	f.Int("login-burst", 5, "Login attempts a client IP may burst before being limited")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func coursesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "courses",
		Short: "List the courses in the catalog",
		RunE:  runCourses,
	}
	f := cmd.Flags()
	f.StringP("catalog", "c", "", "Path to a courses JSON file (default: built-in catalog)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("INTROTO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("introto")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/introto")
	v.AddConfigPath("/etc/introto")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	cat, err := loadCatalog(v.GetString("catalog"))
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	slog.Info("loaded catalog", "courses", len(cat.List()))

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	learners, err := db.LearnerCount(cmd.Context())
	if err != nil {
		return fmt.Errorf("count learners: %w", err)
	}
	slog.Info("opened database", "path", v.GetString("db"), "learners", learners)

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	cfg := model.AppConfig{
		Lang:          lang,
		SecureCookies: v.GetBool("secure-cookies"),
		LoginRate:     v.GetFloat64("login-rate"),
		LoginBurst:    v.GetInt("login-burst"),
	}

	m := metrics.New()
	h := handler.New(cat, progress.NewTracker(), auth.New(db), certificate.New(db), m, cfg)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(m.Middleware)
	r.Use(appI18n.Middleware(lang))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok\n")
	})
	r.Handle("/metrics", m.Handler())
	h.Routes(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go cleanupSessions(ctx, db)

	addr := v.GetString("addr")
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	slog.Info("starting server",
		"addr", addr,
		"db", v.GetString("db"),
		"lang", lang,
		"secure_cookies", cfg.SecureCookies,
		"login_rate", cfg.LoginRate,
		"login_burst", cfg.LoginBurst,
	)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// cleanupSessions deletes expired auth sessions until ctx is done.
func cleanupSessions(ctx context.Context, db *store.Store) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := db.CleanupExpiredSessions(ctx); err != nil {
				slog.Warn("cleanup expired sessions", "error", err)
			}
		}
	}
}

func runCourses(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	cat, err := loadCatalog(v.GetString("catalog"))
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	return printCourses(cmd.OutOrStdout(), cat.List())
}

func printCourses(w io.Writer, courses []model.Course) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSEGMENT\tLEVEL\tMODULES\tPRICE")
	for _, c := range courses {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t$%d\n", c.ID, c.Title, c.Segment, c.Level, len(c.Modules), c.Price)
	}
	return tw.Flush()
}
