package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/semmidev/zabbix-backup/internal/domain"
	"github.com/semmidev/zabbix-backup/internal/registry"
)

type Backup struct {
	db            domain.Database
	registry      *registry.Registry
	localStorage  LocalStorage
	uploadTargets []UploadTarget
	compressor    domain.Compressor
	resolver      domain.HostResolver
	retention     *Retention
	logger        Logger
	opts          Options
	now           func() time.Time
}

// Options carries the per-run settings that do not belong to a collaborator.
type Options struct {
	Host        string
	DumpTimeout time.Duration
}

type UploadTarget struct {
	Name    string
	Storage domain.Storage
}

type LocalStorage interface {
	domain.Catalog
	GetPath(filename string) string
}

type Logger interface {
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	Warnf(template string, args ...interface{})
}

func NewBackup(
	db domain.Database,
	reg *registry.Registry,
	localStorage LocalStorage,
	uploadTargets []UploadTarget,
	compressor domain.Compressor,
	resolver domain.HostResolver,
	retention *Retention,
	logger Logger,
	opts Options,
) *Backup {
	return &Backup{
		db:            db,
		registry:      reg,
		localStorage:  localStorage,
		uploadTargets: uploadTargets,
		compressor:    compressor,
		resolver:      resolver,
		retention:     retention,
		logger:        logger,
		opts:          opts,
		now:           time.Now,
	}
}

func (uc *Backup) Execute(ctx context.Context) error {
	_, err := uc.Run(ctx)
	return err
}

// Run executes one backup. Every error it returns wraps one of the domain
// sentinels. Nothing is rotated unless the dump, compression and uploads all
// succeeded.
func (uc *Backup) Run(ctx context.Context) (*domain.BackupRun, error) {
	start := uc.now()

	if err := uc.registry.Validate(); err != nil {
		return nil, err
	}
	if err := uc.db.CheckDumpTool(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEnvironment, err)
	}

	run := &domain.BackupRun{
		HostIdentifier: uc.resolver.Resolve(ctx, uc.opts.Host),
		Timestamp:      start,
	}
	if run.HostIdentifier != uc.opts.Host {
		uc.logger.Debugf("Host %s resolved to %s", uc.opts.Host, run.HostIdentifier)
	}

	dumpPath := uc.localStorage.GetPath(backupFilename(run.HostIdentifier, start))
	uc.logger.Infof("[%s] Starting configuration backup of %s to %s",
		uc.db.GetName(), run.HostIdentifier, dumpPath)

	tables, err := uc.db.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEnumerate, err)
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("%w: database %s has no tables", domain.ErrEnumerate, uc.db.GetName())
	}
	sort.Strings(tables)

	if snap, ok := uc.db.(domain.Snapshotter); ok {
		id, err := snap.BeginSnapshot(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrEnumerate, err)
		}
		defer func() {
			if err := snap.EndSnapshot(); err != nil {
				uc.logger.Warnf("[%s] %v", uc.db.GetName(), err)
			}
		}()
		uc.logger.Debugf("[%s] Dumping from snapshot %s", uc.db.GetName(), id)
	}

	run.Tables, err = uc.dumpTables(ctx, tables, dumpPath)
	if err != nil {
		return nil, err
	}

	run.OutputPath, run.Size, err = uc.compress(dumpPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPostProcess, err)
	}

	remoteName := filepath.Base(run.OutputPath)
	if err := uc.uploadToTargets(ctx, run.OutputPath, remoteName); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPostProcess, err)
	}

	if err := uc.rotate(ctx, run.HostIdentifier); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPostProcess, err)
	}

	run.Duration = uc.now().Sub(start)
	uc.logger.Infof("[%s] Backup completed in %s: %s (%d tables, %d schema-only, %.2f MB)",
		uc.db.GetName(), run.Duration.Round(time.Second), run.OutputPath,
		len(run.Tables), len(run.SchemaOnlyTables()), formatMB(run.Size))

	return run, nil
}

// dumpTables appends every table to dumpPath in order. On failure the
// partial file is removed.
func (uc *Backup) dumpTables(ctx context.Context, tables []string, dumpPath string) (results []domain.TableResult, err error) {
	out, err := os.OpenFile(dumpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", domain.ErrDump, dumpPath, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close %s: %v", domain.ErrDump, dumpPath, cerr)
		}
		if err != nil {
			os.Remove(dumpPath)
		}
	}()

	results = make([]domain.TableResult, 0, len(tables))
	for i, table := range tables {
		category := uc.registry.Classify(table)
		mode := domain.ModeFor(category)
		if !uc.registry.Known(table) {
			uc.logger.Debugf("Table %s is not in the registry, dumping it in full", table)
		}

		if err := uc.dumpTable(ctx, table, mode, out); err != nil {
			return nil, fmt.Errorf("%w: table %s: %w", domain.ErrDump, table, err)
		}
		results = append(results, domain.TableResult{Name: table, Category: category})

		uc.logger.Infof("[%3d%%] %s (%s)", (i+1)*100/len(tables), table, mode)
	}

	return results, nil
}

func (uc *Backup) dumpTable(ctx context.Context, table string, mode domain.DumpMode, out *os.File) error {
	if uc.opts.DumpTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.opts.DumpTimeout)
		defer cancel()
	}

	err := uc.db.DumpTable(ctx, table, mode, out)
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("timed out after %s: %w", uc.opts.DumpTimeout, err)
	}
	return err
}

// compress replaces dumpPath by its compressed form and returns the new path
// and size. Neither file is left behind when compression fails.
func (uc *Backup) compress(dumpPath string) (string, int64, error) {
	dumpInfo, err := os.Stat(dumpPath)
	if err != nil {
		return "", 0, fmt.Errorf("stat backup file: %w", err)
	}

	compressedPath := dumpPath + uc.compressor.Extension()
	if err := uc.compressor.Compress(dumpPath, compressedPath); err != nil {
		os.Remove(compressedPath)
		os.Remove(dumpPath)
		return "", 0, fmt.Errorf("compression: %w", err)
	}
	if err := os.Remove(dumpPath); err != nil {
		return "", 0, fmt.Errorf("remove uncompressed dump: %w", err)
	}

	compressedInfo, err := os.Stat(compressedPath)
	if err != nil {
		return "", 0, fmt.Errorf("stat compressed file: %w", err)
	}

	ratio := 100.0
	if dumpInfo.Size() > 0 {
		ratio = float64(compressedInfo.Size()) / float64(dumpInfo.Size()) * 100
	}
	uc.logger.Infof("[%s] Compression complete, size: %.2f MB (%.1f%% of original)",
		uc.db.GetName(), formatMB(compressedInfo.Size()), ratio)

	return compressedPath, compressedInfo.Size(), nil
}

func (uc *Backup) uploadToTargets(ctx context.Context, filePath, filename string) error {
	for _, t := range uc.uploadTargets {
		uc.logger.Infof("[%s] Uploading to %s...", uc.db.GetName(), t.Name)
		if err := t.Storage.Upload(ctx, filePath, filename); err != nil {
			return fmt.Errorf("upload to %s: %w", t.Name, err)
		}
		uc.logger.Infof("[%s] Successfully uploaded to %s", uc.db.GetName(), t.Name)
	}
	return nil
}

func (uc *Backup) rotate(ctx context.Context, host string) error {
	if uc.retention == nil {
		return nil
	}

	if _, err := uc.retention.Apply(ctx, "local", uc.localStorage, host); err != nil {
		return err
	}
	for _, t := range uc.uploadTargets {
		if _, err := uc.retention.Apply(ctx, t.Name, t.Storage, host); err != nil {
			return err
		}
	}
	return nil
}
