package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"
)

const (
	upSuffix      = ".up.sql"
	downSuffix    = ".down.sql"
	versionDigits = 6
)

var upTemplate = template.Must(template.New("up").Parse(`-- {{.Name}}
-- Created: {{.Timestamp}}
{{- if .Description}}
-- {{.Description}}
{{- end}}

`))

var downTemplate = template.Must(template.New("down").Parse(`-- Rollback of {{.Name}}
-- Created: {{.Timestamp}}

`))

// MigrationFile describes a newly created up/down pair
type MigrationFile struct {
	Version     uint
	Name        string
	Description string
	Timestamp   string
	UpPath      string
	DownPath    string
}

// CreateMigration writes the next sequentially numbered migration pair
// into dir, creating the directory when missing.
func CreateMigration(dir, name, description string) (*MigrationFile, error) {
	slug := sanitizeName(name)
	if slug == "" {
		return nil, errors.New("migration name must contain letters or digits")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	existing, err := ListMigrations(os.DirFS(dir))
	if err != nil {
		return nil, err
	}
	version := uint(1)
	if n := len(existing); n > 0 {
		version = existing[n-1].Version + 1
	}

	base := fmt.Sprintf("%0*d_%s", versionDigits, version, slug)
	mf := &MigrationFile{
		Version:     version,
		Name:        name,
		Description: description,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		UpPath:      filepath.Join(dir, base+upSuffix),
		DownPath:    filepath.Join(dir, base+downSuffix),
	}

	if err := writeTemplate(mf.UpPath, upTemplate, mf); err != nil {
		return nil, fmt.Errorf("failed to create up migration: %w", err)
	}
	if err := writeTemplate(mf.DownPath, downTemplate, mf); err != nil {
		_ = os.Remove(mf.UpPath)
		return nil, fmt.Errorf("failed to create down migration: %w", err)
	}
	return mf, nil
}

func writeTemplate(path string, tmpl *template.Template, data *MigrationFile) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	return tmpl.Execute(f, data)
}

// sanitizeName lowercases name and collapses separators into single underscores
func sanitizeName(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, c := range strings.ToLower(name) {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(c)
		case c == ' ' || c == '-' || c == '_':
			pendingSep = true
		}
	}
	return b.String()
}

// Entry is one migration found in a source
type Entry struct {
	Version uint
	Name    string
	HasDown bool
}

// ListMigrations returns the migrations in fsys ordered by version.
// A missing directory yields an empty list.
func ListMigrations(fsys fs.FS) ([]Entry, error) {
	files, err := fs.ReadDir(fsys, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	byVersion := make(map[uint]*Entry)
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		version, name, down, ok := parseFileName(f.Name())
		if !ok {
			continue
		}
		e, found := byVersion[version]
		if !found {
			e = &Entry{Version: version, Name: name}
			byVersion[version] = e
		}
		if down {
			e.HasDown = true
		}
	}

	entries := make([]Entry, 0, len(byVersion))
	for _, e := range byVersion {
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Version < entries[j].Version })
	return entries, nil
}

func parseFileName(fileName string) (version uint, name string, down bool, ok bool) {
	var base string
	switch {
	case strings.HasSuffix(fileName, upSuffix):
		base = strings.TrimSuffix(fileName, upSuffix)
	case strings.HasSuffix(fileName, downSuffix):
		base = strings.TrimSuffix(fileName, downSuffix)
		down = true
	default:
		return 0, "", false, false
	}
	prefix, name, found := strings.Cut(base, "_")
	if !found {
		return 0, "", false, false
	}
	v, err := strconv.ParseUint(prefix, 10, 64)
	if err != nil {
		return 0, "", false, false
	}
	return uint(v), name, down, true
}
