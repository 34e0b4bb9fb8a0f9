// Package fontdir provides the font directory service: it enumerates font
// faces from the system font directories, matches them by family name or
// predicate, and loads font programs once, caching them by face ID.
package fontdir

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/image/font/sfnt"
)

// ID identifies one enumerated font face.
type ID = uuid.UUID

// Face is one enumerated font face. The font program itself is loaded
// lazily through Database.Load.
type Face struct {
	ID     ID
	Family string
	Path   string
	// Index is the face index inside a collection file. Zero for plain
	// font files.
	Index int
}

// Database enumerates and caches fonts.
type Database struct {
	mu       sync.RWMutex
	dirs     []string
	faces    []Face
	cache    map[ID]*Font
	fallback *Font

	watcher *watcher
}

// Option configures a Database.
type Option func(*Database)

// WithDirs replaces the scanned directories.
func WithDirs(dirs ...string) Option {
	return func(db *Database) { db.dirs = dirs }
}

// WithFallback installs a fallback face from raw font bytes. The fallback
// is used when no enumerated face matches the requested family.
func WithFallback(family string, data []byte) Option {
	return func(db *Database) {
		f, err := newFont(uuid.New(), family, data)
		if err != nil {
			panic(fmt.Sprintf("fontdir: invalid fallback font %q: %v", family, err))
		}
		db.fallback = f
	}
}

// WithFallbackFace installs an already-built fallback font.
func WithFallbackFace(f *Font) Option {
	return func(db *Database) { db.fallback = f }
}

// New creates a Database over the default system font directories.
// Call Scan before querying.
func New(opts ...Option) *Database {
	db := &Database{
		dirs:  DefaultDirs(),
		cache: make(map[ID]*Font),
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Scan walks the configured directories and rebuilds the face list.
// Unreadable or unparseable files are skipped. Loaded fonts stay cached;
// their IDs remain valid across rescans.
func (db *Database) Scan() error {
	var faces []Face
	for _, dir := range db.dirs {
		err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return nil // skip unreadable entries
			}
			if d.IsDir() || !isFontFile(path) {
				return nil
			}
			fs, err := enumerateFile(path)
			if err != nil {
				slog.Debug("skipping font file", "path", path, "err", err)
				return nil
			}
			faces = append(faces, fs...)
			return nil
		})
		if err != nil {
			return fmt.Errorf("scanning font dir %s: %w", dir, err)
		}
	}

	db.mu.Lock()
	db.faces = faces
	db.mu.Unlock()
	return nil
}

// Faces returns a snapshot of the enumerated faces.
func (db *Database) Faces() []Face {
	db.mu.RLock()
	defer db.mu.RUnlock()
	out := make([]Face, len(db.faces))
	copy(out, db.faces)
	return out
}

// FindFamily returns the IDs of every face whose family name equals
// family exactly (case-sensitive).
func (db *Database) FindFamily(family string) []ID {
	return db.FindFunc(func(f Face) bool { return f.Family == family })
}

// FindFunc returns the IDs of every face matching the predicate.
func (db *Database) FindFunc(pred func(Face) bool) []ID {
	db.mu.RLock()
	defer db.mu.RUnlock()
	var ids []ID
	for _, f := range db.faces {
		if pred(f) {
			ids = append(ids, f.ID)
		}
	}
	return ids
}

// Load returns the font for a face ID, reading and parsing the font
// program on first use and caching it afterwards.
func (db *Database) Load(id ID) (*Font, error) {
	db.mu.RLock()
	if f, ok := db.cache[id]; ok {
		db.mu.RUnlock()
		return f, nil
	}
	var face *Face
	for i := range db.faces {
		if db.faces[i].ID == id {
			face = &db.faces[i]
			break
		}
	}
	db.mu.RUnlock()

	if face == nil {
		return nil, fmt.Errorf("fontdir: unknown face %s", id)
	}

	data, err := os.ReadFile(face.Path)
	if err != nil {
		return nil, fmt.Errorf("reading font %s: %w", face.Path, err)
	}
	f, err := newCollectionFont(face.ID, face.Family, data, face.Index)
	if err != nil {
		return nil, fmt.Errorf("parsing font %s: %w", face.Path, err)
	}

	db.mu.Lock()
	db.cache[id] = f
	db.mu.Unlock()
	return f, nil
}

// Fallback returns the configured fallback font, or nil.
func (db *Database) Fallback() *Font {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.fallback
}

// addFaces is used by tests to seed a database without touching the
// filesystem.
func (db *Database) addFaces(faces ...Face) {
	db.mu.Lock()
	db.faces = append(db.faces, faces...)
	db.mu.Unlock()
}

func isFontFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttf", ".otf", ".ttc", ".otc":
		return true
	}
	return false
}

// enumerateFile parses a font file far enough to read its family names.
func enumerateFile(path string) ([]Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	coll, err := sfnt.ParseCollection(data)
	if err != nil {
		return nil, err
	}

	var buf sfnt.Buffer
	var faces []Face
	for i := 0; i < coll.NumFonts(); i++ {
		f, err := coll.Font(i)
		if err != nil {
			continue
		}
		family, err := f.Name(&buf, sfnt.NameIDFamily)
		if err != nil {
			continue
		}
		faces = append(faces, Face{
			ID:     uuid.New(),
			Family: family,
			Path:   path,
			Index:  i,
		})
	}
	return faces, nil
}
