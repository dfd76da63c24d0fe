// Package backup takes timestamped full-file snapshots of the catalog store
// and keeps only the most recent ones.
package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	applog "github.com/mesh-intelligence/livraria/internal/log"
	"github.com/mesh-intelligence/livraria/pkg/types"
)

// RetentionCount is the number of snapshots kept after every backup.
const RetentionCount = 5

// Snapshot naming: backup_livraria_<stamp><store extension>.
const (
	snapshotPrefix = "backup_livraria_"
	stampLayout    = "2006-01-02_15-04-05"
)

// Manager snapshots the store file at source into dir.
type Manager struct {
	source string
	dir    string
	keep   int
	now    func() time.Time
	log    *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces time.Now for snapshot naming.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a Manager that copies source into dir.
func NewManager(source, dir string, opts ...Option) *Manager {
	m := &Manager{
		source: source,
		dir:    dir,
		keep:   RetentionCount,
		now:    time.Now,
		log:    applog.WithComponent("backup"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dir returns the snapshot directory.
func (m *Manager) Dir() string { return m.dir }

// Backup copies the store verbatim into a new snapshot and then prunes old
// snapshots. A missing store returns ErrNotFound and prunes nothing.
// Two backups within the same second share a name; the later one overwrites
// the earlier.
func (m *Manager) Backup(ctx context.Context) (types.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return types.Snapshot{}, err
	}
	l := applog.WithOperation(m.log, "backup")

	info, err := os.Stat(m.source)
	if errors.Is(err, fs.ErrNotExist) {
		return types.Snapshot{}, fmt.Errorf("%w: store %s", types.ErrNotFound, m.source)
	}
	if err != nil {
		return types.Snapshot{}, fmt.Errorf("%w: stat store: %v", types.ErrIO, err)
	}

	ts := m.now().Truncate(time.Second)
	name := snapshotName(ts, filepath.Ext(m.source))
	dst := filepath.Join(m.dir, name)
	if _, err := os.Stat(dst); err == nil {
		l.Info("snapshot name collision, overwriting", slog.String("path", dst))
	}

	if err := copyFile(m.source, dst); err != nil {
		return types.Snapshot{}, fmt.Errorf("%w: copy store: %v", types.ErrIO, err)
	}
	// Retention orders by modification time; pin it to the snapshot stamp.
	if err := os.Chtimes(dst, ts, ts); err != nil {
		return types.Snapshot{}, fmt.Errorf("%w: stamp snapshot: %v", types.ErrIO, err)
	}

	removed, err := m.Prune()
	if err != nil {
		return types.Snapshot{}, err
	}
	l.Info("snapshot written", slog.String("path", dst), slog.Int("pruned", len(removed)))

	return types.Snapshot{
		Name:      name,
		Path:      dst,
		Source:    m.source,
		CreatedAt: ts,
		Size:      info.Size(),
	}, nil
}

// Prune deletes every snapshot beyond the newest RetentionCount and returns
// the removed paths.
func (m *Manager) Prune() ([]string, error) {
	snaps, err := m.List()
	if err != nil {
		return nil, err
	}
	if len(snaps) <= m.keep {
		return nil, nil
	}
	var removed []string
	for _, s := range snaps[m.keep:] {
		if err := os.Remove(s.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, fmt.Errorf("%w: remove snapshot: %v", types.ErrIO, err)
		}
		removed = append(removed, s.Path)
	}
	return removed, nil
}

// List returns the snapshots in the backup directory, newest modification
// time first. Ties are broken by name, newest stamp first. A missing
// directory yields no snapshots.
func (m *Manager) List() ([]types.Snapshot, error) {
	pattern := filepath.Join(m.dir, snapshotPrefix+"*"+filepath.Ext(m.source))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	type entry struct {
		snap  types.Snapshot
		mtime time.Time
	}
	entries := make([]entry, 0, len(matches))
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("%w: stat snapshot: %v", types.ErrIO, err)
		}
		if info.IsDir() {
			continue
		}
		name := filepath.Base(path)
		created, ok := parseSnapshotName(name)
		if !ok {
			created = info.ModTime()
		}
		entries = append(entries, entry{
			snap: types.Snapshot{
				Name:      name,
				Path:      path,
				Source:    m.source,
				CreatedAt: created,
				Size:      info.Size(),
			},
			mtime: info.ModTime(),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].mtime.Equal(entries[j].mtime) {
			return entries[i].mtime.After(entries[j].mtime)
		}
		return entries[i].snap.Name > entries[j].snap.Name
	})

	out := make([]types.Snapshot, len(entries))
	for i, e := range entries {
		out[i] = e.snap
	}
	return out, nil
}

func snapshotName(ts time.Time, ext string) string {
	return snapshotPrefix + ts.Format(stampLayout) + ext
}

// parseSnapshotName extracts the local-time stamp from a snapshot file name.
func parseSnapshotName(name string) (time.Time, bool) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	stamp, ok := strings.CutPrefix(stem, snapshotPrefix)
	if !ok {
		return time.Time{}, false
	}
	ts, err := time.ParseInLocation(stampLayout, stamp, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// copyFile copies src to dst, overwriting dst, and syncs it to disk.
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	return df.Sync()
}
