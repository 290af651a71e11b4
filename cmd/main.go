package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tmeduca/investigacion-portal/internal/api/http/router"
	"github.com/tmeduca/investigacion-portal/internal/config"
	"github.com/tmeduca/investigacion-portal/internal/logger"
	"github.com/tmeduca/investigacion-portal/internal/mail"
	"github.com/tmeduca/investigacion-portal/internal/model"
	"github.com/tmeduca/investigacion-portal/internal/repository/file"
	"github.com/tmeduca/investigacion-portal/internal/server"
	"github.com/tmeduca/investigacion-portal/internal/service"
	"github.com/tmeduca/investigacion-portal/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded")
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	userStore, err := file.NewUserStore(cfg.Data.UsersDir, cfg.Users.DefaultPassword, logger)
	if err != nil {
		logger.Fatal("failed to initialize user store", "error", err)
	}

	ledger, err := file.NewRevocationLedger(filepath.Join(cfg.Data.UsersDir, "invalidated_tokens.json"), cfg.JWT.TTL, logger)
	if err != nil {
		logger.Fatal("failed to initialize revocation ledger", "error", err)
	}

	requestStore, err := file.NewRequestStore(cfg.Data.RequestsDir, logger)
	if err != nil {
		logger.Fatal("failed to initialize request store", "error", err)
	}

	profileStore, err := file.NewProfileStore(cfg.Data.ProfilesDir, logger)
	if err != nil {
		logger.Fatal("failed to initialize profile store", "error", err)
	}

	if cfg.Users.SeedDefaults {
		seedDefaultUsers(ctx, userStore, logger)
	}

	var notifier model.Notifier
	if cfg.SMTP.Host != "" {
		notifier = mail.NewSMTPNotifier(cfg.SMTP, cfg.AppName, logger)
	} else {
		logger.Info("SMTP host not configured, notifications go to the log only")
		notifier = mail.NewLogNotifier(logger)
	}

	tokenCodec := token.NewJWT(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)

	authService := service.NewAuth(userStore, tokenCodec, ledger, logger)
	userService := service.NewUsers(userStore, cfg.Users.DefaultPassword, logger)
	requestService := service.NewRequests(requestStore, userStore, notifier, cfg.Users.DefaultPassword, logger)
	profileService := service.NewProfiles(profileStore, logger)

	r := router.New(authService, userService, requestService, profileService, cfg.AppName, cfg.HTTP.AllowedOrigins, logger)
	httpServer := server.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		compactLedger(ctx, ledger, logger)
	}()

	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

// compactLedger periodically drops expired fingerprints from the
// revocation ledger so the file tracks only tokens that could still be
// presented.
func compactLedger(ctx context.Context, ledger *file.RevocationLedger, logger *logger.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := ledger.Compact(ctx)
			if err != nil {
				logger.Error("ledger compaction failed", "error", err)
				continue
			}
			if removed > 0 {
				logger.Info("ledger compacted", "removed", removed)
			}
		}
	}
}

// seedDefaultUsers provisions the demo accounts on an empty data
// directory. Existing records are left untouched.
func seedDefaultUsers(ctx context.Context, store model.UserStore, logger *logger.Logger) {
	seeds := []struct {
		email string
		role  model.Role
	}{
		{"admin@uach.cl", model.RoleAdmin},
		{"juan.perez@uach.cl", model.RoleProfessor},
		{"ana.martinez@uach.cl", model.RoleResearcher},
		{"carlos.rodriguez@uach.cl", model.RoleStudent},
	}

	for _, seed := range seeds {
		if _, err := store.Create(ctx, seed.email, "", seed.role); err != nil {
			if errors.Is(err, model.ErrAlreadyExists) {
				continue
			}
			logger.Error("failed to seed user", "email", seed.email, "error", err)
			continue
		}
		logger.Info("seeded default user", "email", seed.email, "role", seed.role)
	}
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
