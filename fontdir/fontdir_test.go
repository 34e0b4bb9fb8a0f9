package fontdir

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func seededDB(families ...string) *Database {
	db := New(WithDirs()) // no directories, faces are seeded directly
	for _, fam := range families {
		db.addFaces(Face{ID: uuid.New(), Family: fam, Path: "/dev/null"})
	}
	return db
}

func TestFindFamilyExactMatch(t *testing.T) {
	db := seededDB("JetBrains Mono", "Fira Code", "JetBrains Mono")

	if got := db.FindFamily("JetBrains Mono"); len(got) != 2 {
		t.Fatalf("matches = %d, want 2", len(got))
	}
	// Case-sensitive: a lowercase query must not match.
	if got := db.FindFamily("jetbrains mono"); len(got) != 0 {
		t.Fatalf("case-insensitive match returned %d faces", len(got))
	}
	if got := db.FindFamily("Comic Sans"); len(got) != 0 {
		t.Fatalf("unknown family returned %d faces", len(got))
	}
}

func TestFindFunc(t *testing.T) {
	db := seededDB("JetBrains Mono", "Fira Code", "Fira Sans")

	ids := db.FindFunc(func(f Face) bool {
		return strings.HasPrefix(f.Family, "Fira")
	})
	if len(ids) != 2 {
		t.Fatalf("predicate matches = %d, want 2", len(ids))
	}
}

func TestLoadUnknownFace(t *testing.T) {
	db := seededDB()
	if _, err := db.Load(uuid.New()); err == nil {
		t.Fatal("loading an unknown face should fail")
	}
}

func TestFallback(t *testing.T) {
	db := New(WithDirs(), WithFallbackFace(NewStatic("builtin")))
	fb := db.Fallback()
	if fb == nil || fb.Family != "builtin" {
		t.Fatalf("fallback = %+v", fb)
	}
	if New(WithDirs()).Fallback() != nil {
		t.Fatal("fallback should default to nil")
	}
}

func TestStaticFontMetrics(t *testing.T) {
	f := NewStatic("mono")
	m1, err := f.Metrics(16)
	if err != nil {
		t.Fatal(err)
	}
	m2, _ := f.Metrics(16)
	if m1 != m2 {
		t.Fatalf("metrics not idempotent: %+v vs %+v", m1, m2)
	}
	if m1.Height != 16 || m1.Width != 8 {
		t.Fatalf("metrics = %+v, want 8x16", m1)
	}
}

func TestIsFontFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/usr/share/fonts/mono.ttf", true},
		{"/usr/share/fonts/Mono.OTF", true},
		{"/usr/share/fonts/pack.ttc", true},
		{"/usr/share/fonts/readme.txt", false},
		{"/usr/share/fonts/mono.woff2", false},
	}
	for _, tt := range tests {
		if got := isFontFile(tt.path); got != tt.want {
			t.Errorf("isFontFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestScanEmptyDirs(t *testing.T) {
	db := New(WithDirs(t.TempDir()))
	if err := db.Scan(); err != nil {
		t.Fatal(err)
	}
	if len(db.Faces()) != 0 {
		t.Fatalf("faces = %d, want 0", len(db.Faces()))
	}
}

func TestDefaultDirsNotEmpty(t *testing.T) {
	if len(DefaultDirs()) == 0 {
		t.Fatal("every platform should have default font directories")
	}
}
