package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/semmidev/zabbix-backup/internal/adapter/compressor"
	"github.com/semmidev/zabbix-backup/internal/adapter/storage"
	"github.com/semmidev/zabbix-backup/internal/domain"
	"github.com/semmidev/zabbix-backup/internal/registry"
	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var runTime = time.Date(2026, 10, 18, 9, 30, 0, 0, time.Local)

type backupFixture struct {
	dir      string
	db       *fakeDB
	reg      *registry.Registry
	local    *storage.LocalStorage
	targets  []UploadTarget
	resolver domain.HostResolver
	keep     int
	opts     Options
}

func newFixture(dir string) *backupFixture {
	local, err := storage.NewLocal(dir)
	So(err, ShouldBeNil)
	return &backupFixture{
		dir:      dir,
		db:       &fakeDB{tables: []string{"items", "trends", "hosts", "widget_field", "history"}},
		reg:      registry.Zabbix(),
		local:    local,
		resolver: fakeResolver{names: map[string]string{"10.0.0.5": "zbx-db.example.org"}},
		opts:     Options{Host: "10.0.0.5"},
	}
}

func (f *backupFixture) build(db domain.Database) *Backup {
	comp, err := compressor.New("gzip")
	So(err, ShouldBeNil)
	log := zap.NewNop().Sugar()
	uc := NewBackup(db, f.reg, f.local, f.targets, comp, f.resolver, NewRetention(log, f.keep), log, f.opts)
	uc.now = func() time.Time { return runTime }
	return uc
}

func listNames(dir string) []string {
	entries, err := os.ReadDir(dir)
	So(err, ShouldBeNil)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func writeAged(dir, name string, age time.Duration) {
	path := filepath.Join(dir, name)
	So(os.WriteFile(path, []byte("old"), 0644), ShouldBeNil)
	ts := time.Now().Add(-age)
	So(os.Chtimes(path, ts, ts), ShouldBeNil)
}

func TestBackupRun(t *testing.T) {
	Convey("Given a backup use case over a fake database", t, func() {
		dir, err := os.MkdirTemp("", "backup_test")
		So(err, ShouldBeNil)
		defer os.RemoveAll(dir)

		f := newFixture(dir)
		ctx := context.Background()

		Convey("When the run succeeds", func() {
			run, err := f.build(f.db).Run(ctx)
			So(err, ShouldBeNil)

			Convey("It should name the artifact after the resolved host and minute", func() {
				So(run.HostIdentifier, ShouldEqual, "zbx-db.example.org")
				So(run.OutputPath, ShouldEqual, filepath.Join(dir, "zabbix_cfg_zbx-db.example.org_20261018-0930.sql.gz"))
				So(listNames(dir), ShouldResemble, []string{"zabbix_cfg_zbx-db.example.org_20261018-0930.sql.gz"})
				So(run.Size, ShouldBeGreaterThan, 0)
			})

			Convey("It should dump exactly the data tables schema-only", func() {
				So(f.db.schemaOnly(), ShouldResemble, []string{"history", "trends"})
				So(run.SchemaOnlyTables(), ShouldResemble, []string{"history", "trends"})
				So(len(run.Tables), ShouldEqual, 5)
			})

			Convey("It should dump tables in sorted order", func() {
				var order []string
				for _, c := range f.db.dumped {
					order = append(order, c.table)
				}
				So(order, ShouldResemble, []string{"history", "hosts", "items", "trends", "widget_field"})
			})

			Convey("Decompressing should give back the per-table dumps in order", func() {
				comp, _ := compressor.New("gzip")
				restored := filepath.Join(dir, "restored.sql")
				So(comp.Decompress(run.OutputPath, restored), ShouldBeNil)

				var want strings.Builder
				for _, c := range f.db.dumped {
					want.WriteString(fakeDump(c.table, c.mode))
				}
				got, err := os.ReadFile(restored)
				So(err, ShouldBeNil)
				So(string(got), ShouldEqual, want.String())
			})
		})

		Convey("When reverse resolution fails", func() {
			f.opts.Host = "192.0.2.10"
			run, err := f.build(f.db).Run(ctx)

			Convey("It should use the literal host and still succeed", func() {
				So(err, ShouldBeNil)
				So(filepath.Base(run.OutputPath), ShouldEqual, "zabbix_cfg_192.0.2.10_20261018-0930.sql.gz")
			})
		})

		Convey("When the registry holds fewer than five data tables", func() {
			f.reg = registry.New([]domain.TableEntry{
				{Name: "history", Category: domain.CategoryData},
				{Name: "trends", Category: domain.CategoryData},
				{Name: "hosts", Category: domain.CategoryConfig},
			})
			_, err := f.build(f.db).Run(ctx)

			Convey("It should abort before enumerating tables", func() {
				So(errors.Is(err, domain.ErrRegistry), ShouldBeTrue)
				So(f.db.listed, ShouldBeFalse)
				So(listNames(dir), ShouldBeEmpty)
			})
		})

		Convey("When the dump utility is missing", func() {
			f.db.toolErr = errors.New("dump utility mysqldump not found")
			_, err := f.build(f.db).Run(ctx)

			Convey("It should fail with an environment error before enumeration", func() {
				So(errors.Is(err, domain.ErrEnvironment), ShouldBeTrue)
				So(f.db.listed, ShouldBeFalse)
			})
		})

		Convey("When enumeration fails", func() {
			f.db.listErr = errors.New("Error 1045 (28000): Access denied for user 'zabbix'@'10.0.0.1'")
			_, err := f.build(f.db).Run(ctx)

			Convey("It should surface the client error", func() {
				So(errors.Is(err, domain.ErrEnumerate), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "Access denied")
				So(f.db.dumped, ShouldBeEmpty)
			})
		})

		Convey("When the database has no tables", func() {
			f.db.tables = nil
			_, err := f.build(f.db).Run(ctx)
			So(errors.Is(err, domain.ErrEnumerate), ShouldBeTrue)
		})

		Convey("When one table fails to dump", func() {
			for i, name := range []string{"20261017", "20261016", "20261015"} {
				writeAged(dir, "zabbix_cfg_zbx-db.example.org_"+name+"-0200.sql.gz", time.Duration(i+1)*time.Hour)
			}
			remote := &memStorage{files: []domain.FileInfo{
				{Name: "zabbix_cfg_zbx-db.example.org_20261018-0830.sql.gz", ModTime: runTime.Add(-time.Hour)},
				{Name: "zabbix_cfg_zbx-db.example.org_20261018-0730.sql.gz", ModTime: runTime.Add(-2 * time.Hour)},
			}}
			f.targets = []UploadTarget{{Name: "s3", Storage: remote}}
			f.keep = 1
			f.db.failTable = "items"

			_, err := f.build(f.db).Run(ctx)

			Convey("It should abort with a dump error naming the table", func() {
				So(errors.Is(err, domain.ErrDump), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "table items")
			})

			Convey("It should stop at the failing table", func() {
				So(f.db.dumped[len(f.db.dumped)-1].table, ShouldEqual, "items")
				So(len(f.db.dumped), ShouldEqual, 3)
			})

			Convey("It should neither rotate nor upload nor leave a partial file", func() {
				So(len(listNames(dir)), ShouldEqual, 3)
				So(remote.uploads, ShouldBeEmpty)
				So(remote.deleted, ShouldBeEmpty)
			})
		})

		Convey("When a table dump exceeds the timeout", func() {
			f.db.tables = append(f.db.tables, "slow")
			f.opts.DumpTimeout = 20 * time.Millisecond
			_, err := f.build(f.db).Run(ctx)

			Convey("It should fail the run", func() {
				So(errors.Is(err, domain.ErrDump), ShouldBeTrue)
				So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "timed out after 20ms")
			})
		})

		Convey("When retention keeps three backups", func() {
			for i, name := range []string{"20261017", "20261016", "20261015", "20261014"} {
				writeAged(dir, "zabbix_cfg_zbx-db.example.org_"+name+"-0200.sql.gz", time.Duration(i+1)*24*time.Hour)
			}
			writeAged(dir, "zabbix_cfg_other-host_20260101-0000.sql.gz", 90*24*time.Hour)
			f.keep = 3

			_, err := f.build(f.db).Run(ctx)

			Convey("It should keep the new backup and the two newest old ones", func() {
				So(err, ShouldBeNil)
				So(listNames(dir), ShouldResemble, []string{
					"zabbix_cfg_other-host_20260101-0000.sql.gz",
					"zabbix_cfg_zbx-db.example.org_20261016-0200.sql.gz",
					"zabbix_cfg_zbx-db.example.org_20261017-0200.sql.gz",
					"zabbix_cfg_zbx-db.example.org_20261018-0930.sql.gz",
				})
			})
		})

		Convey("When another host's name extends this host's name", func() {
			f.opts.Host = "db"
			writeAged(dir, "zabbix_cfg_db_replica_20260101-0000.sql.gz", 24*time.Hour)
			writeAged(dir, "zabbix_cfg_db_replica_20260102-0000.sql.gz", 20*time.Hour)
			writeAged(dir, "zabbix_cfg_db_20261001-0200.sql.gz", 48*time.Hour)
			writeAged(dir, "zabbix_cfg_db_restore-notes.txt", 72*time.Hour)
			f.keep = 1

			_, err := f.build(f.db).Run(ctx)

			Convey("Rotation should only delete this host's own backups", func() {
				So(err, ShouldBeNil)
				So(listNames(dir), ShouldResemble, []string{
					"zabbix_cfg_db_20261018-0930.sql.gz",
					"zabbix_cfg_db_replica_20260101-0000.sql.gz",
					"zabbix_cfg_db_replica_20260102-0000.sql.gz",
					"zabbix_cfg_db_restore-notes.txt",
				})
			})
		})

		Convey("When compression fails", func() {
			writeAged(dir, "zabbix_cfg_zbx-db.example.org_20261017-0200.sql.gz", time.Hour)
			f.keep = 1
			uc := f.build(f.db)
			uc.compressor = failingCompressor{}

			_, err := uc.Run(ctx)

			Convey("It should fail without leaving the uncompressed dump behind", func() {
				So(errors.Is(err, domain.ErrPostProcess), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "compression")
				So(listNames(dir), ShouldResemble, []string{"zabbix_cfg_zbx-db.example.org_20261017-0200.sql.gz"})
			})
		})

		Convey("When a table is missing from the registry", func() {
			core, logs := observer.New(zapcore.DebugLevel)
			uc := f.build(f.db)
			uc.logger = zap.New(core).Sugar()

			_, err := uc.Run(ctx)

			Convey("It should be dumped in full and reported", func() {
				So(err, ShouldBeNil)
				So(logs.FilterMessageSnippet("widget_field is not in the registry").Len(), ShouldEqual, 1)
				So(logs.FilterMessageSnippet("hosts is not in the registry").Len(), ShouldEqual, 0)
				for _, c := range f.db.dumped {
					if c.table == "widget_field" {
						So(c.mode, ShouldEqual, domain.DumpFull)
					}
				}
			})
		})

		Convey("With upload targets", func() {
			remote := &memStorage{files: []domain.FileInfo{
				{Name: "zabbix_cfg_zbx-db.example.org_20261018-0830.sql.gz", ModTime: runTime.Add(-time.Hour)},
				{Name: "zabbix_cfg_zbx-db.example.org_20261018-0730.sql.gz", ModTime: runTime.Add(-2 * time.Hour)},
			}}
			f.targets = []UploadTarget{{Name: "s3", Storage: remote}}
			f.keep = 2

			Convey("It should upload the compressed artifact and rotate remotely", func() {
				f.keep = 1
				_, err := f.build(f.db).Run(ctx)
				So(err, ShouldBeNil)
				So(remote.uploads, ShouldResemble, []string{"zabbix_cfg_zbx-db.example.org_20261018-0930.sql.gz"})
				So(remote.deleted, ShouldResemble, []string{"zabbix_cfg_zbx-db.example.org_20261018-0730.sql.gz"})
			})

			Convey("Remote rotation should leave targets within the limit alone", func() {
				_, err := f.build(f.db).Run(ctx)
				So(err, ShouldBeNil)
				So(remote.deleted, ShouldBeEmpty)
			})

			Convey("An upload failure should be fatal and skip rotation", func() {
				remote.uploadErr = errors.New("AccessDenied")
				f.keep = 1
				writeAged(dir, "zabbix_cfg_zbx-db.example.org_20261017-0200.sql.gz", time.Hour)

				_, err := f.build(f.db).Run(ctx)
				So(errors.Is(err, domain.ErrPostProcess), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "upload to s3")
				So(remote.deleted, ShouldBeEmpty)
				So(len(listNames(dir)), ShouldEqual, 2)
			})

			Convey("A remote delete failure should be fatal", func() {
				remote.deleteErr = errors.New("permission denied")
				f.keep = 1

				_, err := f.build(f.db).Run(ctx)
				So(errors.Is(err, domain.ErrPostProcess), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "from s3")
			})
		})

		Convey("With a database that supports snapshots", func() {
			db := &snapshotDB{fakeDB: f.db}
			_, err := f.build(db).Run(ctx)

			Convey("It should open exactly one snapshot", func() {
				So(err, ShouldBeNil)
				So(db.snapshots, ShouldEqual, 1)
				So(db.released, ShouldEqual, 1)
				So(len(db.dumped), ShouldEqual, 5)
			})
		})
	})
}
