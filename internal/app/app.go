package app

import (
	"context"
	"fmt"

	"github.com/semmidev/zabbix-backup/internal/adapter/compressor"
	"github.com/semmidev/zabbix-backup/internal/adapter/database"
	"github.com/semmidev/zabbix-backup/internal/adapter/resolver"
	"github.com/semmidev/zabbix-backup/internal/adapter/storage"
	"github.com/semmidev/zabbix-backup/internal/config"
	"github.com/semmidev/zabbix-backup/internal/domain"
	"github.com/semmidev/zabbix-backup/internal/infrastructure/logger"
	"github.com/semmidev/zabbix-backup/internal/infrastructure/scheduler"
	"github.com/semmidev/zabbix-backup/internal/registry"
	"github.com/semmidev/zabbix-backup/internal/usecase"
)

type App struct {
	config        *config.Config
	logger        *logger.Logger
	db            domain.Database
	scheduler     *scheduler.Scheduler
	uploadTargets []usecase.UploadTarget
	notifiers     []domain.Notifier
	backupUC      *usecase.Backup
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize logger
	log, err := logger.New(cfg.App.LogLevel, cfg.App.LogFile, cfg.App.Quiet)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to initialize logger: %v", domain.ErrConfig, err)
	}

	if cfg.Schedule != "" {
		if err := scheduler.Validate(cfg.Schedule); err != nil {
			return nil, fmt.Errorf("%w: invalid schedule %q: %v", domain.ErrConfig, cfg.Schedule, err)
		}
	}

	// Initialize local storage
	localStorage, err := storage.NewLocal(cfg.Backup.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfig, err)
	}

	comp, err := compressor.New(cfg.Backup.Compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfig, err)
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfig, err)
	}

	uploadTargets, err := initializeUploadTargets(ctx, cfg, log)
	if err != nil {
		db.Close()
		return nil, err
	}

	var notifiers []domain.Notifier
	for _, t := range uploadTargets {
		if n, ok := t.Storage.(domain.Notifier); ok {
			notifiers = append(notifiers, n)
		}
	}

	var hostResolver domain.HostResolver = resolver.NewReverseDNS()
	if cfg.Backup.NoResolve {
		hostResolver = resolver.Literal{}
	}

	backupUC := usecase.NewBackup(
		db,
		registry.Zabbix(),
		localStorage,
		uploadTargets,
		comp,
		hostResolver,
		usecase.NewRetention(log, cfg.Backup.Retention),
		log,
		usecase.Options{
			Host:        cfg.Database.Host,
			DumpTimeout: cfg.Backup.DumpTimeout,
		},
	)

	a := &App{
		config:        cfg,
		logger:        log,
		db:            db,
		uploadTargets: uploadTargets,
		notifiers:     notifiers,
		backupUC:      backupUC,
	}
	a.scheduler = scheduler.New(a.reportFailure)

	return a, nil
}

func initializeUploadTargets(ctx context.Context, cfg *config.Config, log *logger.Logger) ([]usecase.UploadTarget, error) {
	var targets []usecase.UploadTarget

	for _, targetCfg := range cfg.GetEnabledUploadTargets() {
		var stor domain.Storage
		var err error

		switch targetCfg.Type {
		case "gdrive":
			stor, err = storage.NewGDrive(ctx, &targetCfg)
			if err == nil {
				log.Infof("✓ Google Drive upload enabled")
			}

		case "s3":
			stor, err = storage.NewS3(ctx, &targetCfg)
			if err == nil {
				log.Infof("✓ AWS S3 upload enabled (bucket: %s)", targetCfg.Bucket)
			}

		case "telegram":
			stor, err = storage.NewTelegram(&targetCfg)
			if err == nil {
				log.Infof("✓ Telegram upload enabled")
			}

		default:
			err = fmt.Errorf("unknown upload target type: %s", targetCfg.Type)
		}

		if err != nil {
			return nil, fmt.Errorf("%w: upload target %s: %v", domain.ErrConfig, targetCfg.Type, err)
		}

		targets = append(targets, usecase.UploadTarget{
			Name:    targetCfg.Type,
			Storage: stor,
		})
	}

	return targets, nil
}

// Run performs a single backup, or keeps running scheduled backups until
// ctx is cancelled when a schedule is configured.
func (a *App) Run(ctx context.Context) error {
	if a.config.Schedule == "" {
		if _, err := a.backupUC.Run(ctx); err != nil {
			a.reportFailure(err)
			return err
		}
		return nil
	}

	if err := a.scheduler.AddJob(a.config.Schedule, func(ctx context.Context) error {
		a.logger.Infof("=== Triggered scheduled backup of %s ===", a.db.GetName())
		return a.backupUC.Execute(ctx)
	}); err != nil {
		return fmt.Errorf("%w: failed to schedule backup: %v", domain.ErrConfig, err)
	}

	a.scheduler.Start(ctx)
	a.logger.Infof("Scheduler started: %s", a.config.Schedule)
	a.logger.Infof("Backup destinations: local + %d remote target(s)", len(a.uploadTargets))

	// Keep running until context is cancelled
	<-ctx.Done()
	return nil
}

func (a *App) reportFailure(err error) {
	a.logger.Errorf("Backup of %s failed: %v", a.db.GetName(), err)

	message := fmt.Sprintf("❌ Zabbix configuration backup of %s@%s failed\n\n%v",
		a.config.Database.Database, a.config.Database.Host, err)
	for _, n := range a.notifiers {
		if nerr := n.SendNotification(message); nerr != nil {
			a.logger.Warnf("Failed to send failure notification: %v", nerr)
		}
	}
}

func (a *App) Shutdown() {
	a.logger.Debugf("Shutting down...")
	a.scheduler.Stop()
	if err := a.db.Close(); err != nil {
		a.logger.Warnf("Failed to close database connection: %v", err)
	}
	a.logger.Close()
}
