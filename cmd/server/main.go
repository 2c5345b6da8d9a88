package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio_api/internal/api"
	"portfolio_api/internal/app/service"
	"portfolio_api/internal/app/worker"
	"portfolio_api/internal/common/security"
	"portfolio_api/internal/domain/repository"
	"portfolio_api/internal/notify"
	"portfolio_api/internal/platform/config"
	"portfolio_api/internal/platform/database"
	"portfolio_api/internal/platform/logger"
	"portfolio_api/internal/platform/queue"
	"portfolio_api/internal/storage"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

func main() {
	// 1. Load Configuration
	config.Load()
	log := logger.New(0)
	log.Info("configuration loaded")

	// 2. Initialize JWT
	security.InitJWT()

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	if err := database.Migrate(); err != nil {
		log.Fatal("failed to run migrations", "error", err)
	}
	log.Info("database ready")

	// 4. Initialize Redis
	queue.ConnectRedis()
	defer queue.CloseRedis()

	// 5. Initialize image storage
	images, err := newImageStore(log)
	if err != nil {
		log.Fatal("failed to initialize image storage", "error", err)
	}

	// 6. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	projectRepo := repository.NewPgProjectRepository(database.DB)
	contactRepo := repository.NewPgContactRepository(database.DB)

	// 7. Initialize Services
	authService := service.NewAuthService(userRepo)
	projectService := service.NewProjectService(projectRepo, images)
	dispatcher := notify.NewQueueDispatcher(queue.RDB, config.AppConfig.NotificationQueueName)
	contactService := service.NewContactService(contactRepo, dispatcher, log)

	// 8. Seed the administrator account
	if err := authService.EnsureAdminUser(context.Background(),
		config.AppConfig.AdminUsername, config.AppConfig.AdminPassword, config.AppConfig.AdminEmail); err != nil {
		log.Fatal("failed to seed admin user", "error", err)
	}

	// 9. Initialize Notification Worker (as a goroutine)
	mailer := newMailer(log)
	notificationWorker := worker.NewNotificationWorker(queue.RDB, config.AppConfig.NotificationQueueName, mailer, log)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go notificationWorker.Start(workerCtx)

	// 10. Initialize Router & HTTP Server
	router := api.NewRouter(authService, projectService, contactService, images)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 11. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("server starting", "port", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("could not listen", "port", config.AppConfig.APIPort, "error", err)
		}
	}()

	<-stop // Wait for interrupt signal

	log.Info("shutting down server")
	workerCancel() // Signal worker to stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server shutdown failed", "error", err)
	}

	log.Info("server and worker stopped gracefully")
}

func newImageStore(log *logger.Logger) (storage.Store, error) {
	cfg := config.AppConfig
	if cfg.StorageDriver == "minio" {
		client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
			Secure: cfg.MinioUseSSL,
		})
		if err != nil {
			return nil, err
		}
		log.Info("using minio image storage", "endpoint", cfg.MinioEndpoint, "bucket", cfg.MinioBucket)
		return storage.NewMinioStore(context.Background(), client, cfg.MinioBucket)
	}
	log.Info("using disk image storage", "dir", cfg.UploadDir)
	return storage.NewDiskStore(cfg.UploadDir)
}

func newMailer(log *logger.Logger) notify.Mailer {
	cfg := config.AppConfig
	if cfg.SMTPHost == "" || cfg.MailFrom == "" || cfg.MailTo == "" {
		log.Warn("SMTP not configured, contact notifications will only be logged")
		return notify.NewLogMailer(log)
	}
	mailer, err := notify.NewSMTPMailer(notify.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
		To:       cfg.MailTo,
	})
	if err != nil {
		log.Warn("failed to configure SMTP mailer, falling back to log-only notifications", "error", err)
		return notify.NewLogMailer(log)
	}
	return mailer
}
