package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/semmidev/zabbix-backup/internal/domain"
)

type fakeDB struct {
	tables    []string
	listErr   error
	toolErr   error
	failTable string

	mu     sync.Mutex
	listed bool
	dumped []dumpCall
}

type dumpCall struct {
	table string
	mode  domain.DumpMode
}

func (f *fakeDB) CheckDumpTool() error { return f.toolErr }

func (f *fakeDB) ListTables(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listed = true
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]string(nil), f.tables...), nil
}

func (f *fakeDB) DumpTable(ctx context.Context, table string, mode domain.DumpMode, w io.Writer) error {
	f.mu.Lock()
	f.dumped = append(f.dumped, dumpCall{table: table, mode: mode})
	f.mu.Unlock()

	if table == f.failTable {
		return errors.New("mysqldump: Got error: 1146: Table doesn't exist")
	}
	if table == "slow" {
		<-ctx.Done()
		return ctx.Err()
	}
	_, err := io.WriteString(w, fakeDump(table, mode))
	return err
}

func (f *fakeDB) GetName() string { return "zabbix" }
func (f *fakeDB) GetType() string { return "mysql" }
func (f *fakeDB) Close() error    { return nil }

func (f *fakeDB) schemaOnly() []string {
	var names []string
	for _, c := range f.dumped {
		if c.mode == domain.DumpSchemaOnly {
			names = append(names, c.table)
		}
	}
	return names
}

func fakeDump(table string, mode domain.DumpMode) string {
	return fmt.Sprintf("-- %s %s\nCREATE TABLE `%s` (id int);\n", mode, table, table)
}

type snapshotDB struct {
	*fakeDB
	snapshots int
	released  int
}

func (s *snapshotDB) BeginSnapshot(ctx context.Context) (string, error) {
	s.snapshots++
	return "00000003-00000002-1", nil
}

func (s *snapshotDB) EndSnapshot() error {
	s.released++
	return nil
}

type fakeResolver struct {
	names map[string]string
}

func (r fakeResolver) Resolve(ctx context.Context, host string) string {
	if name, ok := r.names[host]; ok {
		return name
	}
	return host
}

// memStorage is an upload target held in memory.
type memStorage struct {
	uploads   []string
	files     []domain.FileInfo
	uploadErr error
	deleteErr error
	deleted   []string
}

func (m *memStorage) Upload(ctx context.Context, localPath, remoteName string) error {
	if m.uploadErr != nil {
		return m.uploadErr
	}
	m.uploads = append(m.uploads, remoteName)
	return nil
}

func (m *memStorage) List(ctx context.Context, prefix string) ([]domain.FileInfo, error) {
	var out []domain.FileInfo
	for _, f := range m.files {
		if strings.HasPrefix(f.Name, prefix) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *memStorage) Delete(ctx context.Context, remoteName string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, remoteName)
	return nil
}

type failingCompressor struct{}

func (failingCompressor) Compress(src, dst string) error {
	if err := os.WriteFile(dst, []byte("trunc"), 0600); err != nil {
		return err
	}
	return errors.New("failed to compress: no space left on device")
}

func (failingCompressor) Decompress(src, dst string) error { return nil }
func (failingCompressor) Extension() string                { return ".gz" }
