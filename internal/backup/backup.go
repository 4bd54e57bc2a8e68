// Package backup keeps timestamped copies of a .env file in a backup
// directory and restores them on request.
//
// Backups are plain files named env_YYYY-MM-DD_HHMMSS. The creation time
// is read back from the name; files dropped into the directory by hand
// fall back to their modification time.
package backup

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"envedit/internal/dotenv"
	"envedit/internal/envfile"

	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("envedit.backup")

const (
	namePrefix = "env_"
	nameLayout = "2006-01-02_150405"
)

// Backup describes one backup file.
type Backup struct {
	Name       string         `json:"name" yaml:"name"`
	Path       string         `json:"path" yaml:"path"`
	CreatedAt  time.Time      `json:"created_at" yaml:"created_at"`
	ModifiedAt time.Time      `json:"modified_at" yaml:"modified_at"`
	Size       int64          `json:"size" yaml:"size"`
	Content    string         `json:"raw_content" yaml:"raw_content"`
	Entries    dotenv.Entries `json:"parsed_content" yaml:"parsed_content"`

	seq int // collision suffix, orders backups taken in the same second
}

// Options configures a Manager.
type Options struct {
	Dir     string // backup directory
	EnvFile string // the .env file being backed up
	Keep    int    // newest backups to keep after Create and Upload; 0 keeps all

	// File, if set, is used instead of opening EnvFile, so writes made by
	// Restore and Upload go through its hooks.
	File *envfile.File
}

// Manager creates, lists, restores and deletes backups of one env file.
type Manager struct {
	dir  string
	env  *envfile.File
	keep int
	now  func() time.Time
}

// New creates a Manager, creating the backup directory if needed.
func New(opts Options) (*Manager, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("backup directory is not configured")
	}
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("creating backup directory: %w", err)
	}
	env := opts.File
	if env == nil {
		env = envfile.New(opts.EnvFile)
	}
	return &Manager{
		dir:  opts.Dir,
		env:  env,
		keep: opts.Keep,
		now:  time.Now,
	}, nil
}

// Dir returns the backup directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Name returns the backup file name for a backup taken at t.
func Name(t time.Time) string {
	return namePrefix + t.Format(nameLayout)
}

// parseName extracts the creation time and collision suffix encoded in a
// backup name. The base name of a second has suffix 0.
func parseName(name string) (time.Time, int, bool) {
	if !strings.HasPrefix(name, namePrefix) {
		return time.Time{}, 0, false
	}
	stamp := strings.TrimPrefix(name, namePrefix)
	if len(stamp) < len(nameLayout) {
		return time.Time{}, 0, false
	}
	t, err := time.ParseInLocation(nameLayout, stamp[:len(nameLayout)], time.Local)
	if err != nil {
		return time.Time{}, 0, false
	}
	rest := stamp[len(nameLayout):]
	if rest == "" {
		return t, 0, true
	}
	seq, err := strconv.Atoi(strings.TrimPrefix(rest, "_"))
	if err != nil || !strings.HasPrefix(rest, "_") || seq < 1 {
		return time.Time{}, 0, false
	}
	return t, seq, true
}

// nextName returns a name for a backup taken now. Within one second the
// suffix goes one past the highest in use, so a name freed by pruning is
// never handed out again.
func (m *Manager) nextName() (string, error) {
	base := Name(m.now())
	dirEntries, err := os.ReadDir(m.dir)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("reading backup directory: %w", err)
	}
	next := 0
	for _, de := range dirEntries {
		if !strings.HasPrefix(de.Name(), base) {
			continue
		}
		if _, seq, ok := parseName(de.Name()); ok && seq+1 > next {
			next = seq + 1
		}
	}
	if next == 0 {
		return base, nil
	}
	return base + "_" + strconv.Itoa(next), nil
}

// Create copies the current env file into a new backup.
func (m *Manager) Create(ctx context.Context) (Backup, error) {
	raw, err := m.env.ReadRaw(ctx)
	if err != nil {
		return Backup{}, err
	}
	name, err := m.store(raw)
	if err != nil {
		return Backup{}, err
	}
	logger.Infof("backed up %s to %s", m.env.Path(), name)

	if err := m.prune(ctx, name); err != nil {
		return Backup{}, err
	}
	return m.Get(ctx, name)
}

func (m *Manager) store(content string) (string, error) {
	name, err := m.nextName()
	if err != nil {
		return "", err
	}
	if err := envfile.AtomicWrite(filepath.Join(m.dir, name), []byte(content)); err != nil {
		return "", fmt.Errorf("writing backup %s: %w", name, err)
	}
	return name, nil
}

// prune deletes the oldest backups beyond the keep limit. The backup
// named fresh was just written and always survives.
func (m *Manager) prune(ctx context.Context, fresh string) error {
	if m.keep <= 0 {
		return nil
	}
	all, err := m.List(ctx)
	if err != nil {
		return err
	}
	kept := 1
	for _, b := range all {
		if b.Name == fresh {
			continue
		}
		if kept < m.keep {
			kept++
			continue
		}
		if err := os.Remove(b.Path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("pruning backup %s: %w", b.Name, err)
		}
		logger.Debugf("pruned backup %s", b.Name)
	}
	return nil
}

// byCreatedDesc orders backups newest first. Backups from the same second
// are ordered by collision suffix, then by name.
func byCreatedDesc(bs []Backup) func(i, j int) bool {
	return func(i, j int) bool {
		if !bs[i].CreatedAt.Equal(bs[j].CreatedAt) {
			return bs[i].CreatedAt.After(bs[j].CreatedAt)
		}
		if bs[i].seq != bs[j].seq {
			return bs[i].seq > bs[j].seq
		}
		return bs[i].Name > bs[j].Name
	}
}

// List returns every backup, newest first.
func (m *Manager) List(ctx context.Context) ([]Backup, error) {
	dirEntries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading backup directory: %w", err)
	}

	var backups []Backup
	for _, de := range dirEntries {
		if !de.Type().IsRegular() || isScratch(de.Name()) {
			continue
		}
		b, err := m.load(de.Name())
		if err != nil {
			return nil, err
		}
		backups = append(backups, b)
	}
	sort.Slice(backups, byCreatedDesc(backups))
	return backups, nil
}

// isScratch reports whether name is a lock or temporary file.
func isScratch(name string) bool {
	return strings.HasSuffix(name, ".lock") || strings.Contains(name, ".tmp.")
}

// Get returns a single backup by name.
func (m *Manager) Get(ctx context.Context, name string) (Backup, error) {
	if err := validateName(name); err != nil {
		return Backup{}, err
	}
	return m.load(name)
}

func (m *Manager) load(name string) (Backup, error) {
	path := filepath.Join(m.dir, name)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Backup{}, fmt.Errorf("%s: %w", name, ErrBackupNotFound)
		}
		return Backup{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Backup{}, fmt.Errorf("reading backup %s: %w", name, err)
	}

	created, seq, ok := parseName(name)
	if !ok {
		created = info.ModTime()
	}
	return Backup{
		Name:       name,
		Path:       path,
		CreatedAt:  created,
		ModifiedAt: info.ModTime(),
		Size:       info.Size(),
		Content:    string(data),
		Entries:    dotenv.Parse(string(data)),
		seq:        seq,
	}, nil
}

// Restore replaces the env file with the named backup.
func (m *Manager) Restore(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	b, err := m.load(name)
	if err != nil {
		return err
	}
	if err := m.env.Write(ctx, []byte(b.Content)); err != nil {
		return err
	}
	logger.Infof("restored %s from %s", m.env.Path(), name)
	return nil
}

// Delete removes the named backup.
func (m *Manager) Delete(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(m.dir, name)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", name, ErrBackupNotFound)
		}
		return fmt.Errorf("deleting backup %s: %w", name, err)
	}
	logger.Infof("deleted backup %s", name)
	return nil
}

// Upload stores the content of r either as the env file itself or as a new
// backup, and returns the path it was written to.
func (m *Manager) Upload(ctx context.Context, r io.Reader, replaceCurrent bool) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading upload: %w", err)
	}
	if replaceCurrent {
		if err := m.env.Write(ctx, data); err != nil {
			return "", err
		}
		logger.Infof("replaced %s with uploaded file", m.env.Path())
		return m.env.Path(), nil
	}
	name, err := m.store(string(data))
	if err != nil {
		return "", err
	}
	logger.Infof("stored uploaded file as backup %s", name)
	if err := m.prune(ctx, name); err != nil {
		return "", err
	}
	return filepath.Join(m.dir, name), nil
}

// Path returns the location of the named backup, or of the env file when
// name is empty. The file must exist.
func (m *Manager) Path(name string) (string, error) {
	path := m.env.Path()
	if name != "" {
		if err := validateName(name); err != nil {
			return "", err
		}
		path = filepath.Join(m.dir, name)
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s: %w", path, ErrFileNotExists)
		}
		return "", err
	}
	return path, nil
}

// validateName checks that a name is non-empty and stays inside the
// backup directory.
func validateName(name string) error {
	if name == "" {
		return ErrNameRequired
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	return nil
}
