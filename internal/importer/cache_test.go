package importer

import "testing"

type countingBackend struct {
	imports  int
	releases int
}

func (b *countingBackend) Name() string { return "counting" }

func (b *countingBackend) Import(req Request) (*Texture, error) {
	b.imports++
	return &Texture{Width: req.DestWidth, Height: req.DestHeight}, nil
}

func (b *countingBackend) Release(id Identity) error {
	b.releases++
	return nil
}

func TestCacheReusesImportedTexture(t *testing.T) {
	backend := &countingBackend{}
	cache := NewCache(backend)

	req := Request{Identity: 1, DestWidth: 100, DestHeight: 100}
	tex1, err := cache.Import(req)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	tex2, err := cache.Import(req)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if tex1 != tex2 {
		t.Fatal("Import() should return the cached texture pointer on a re-commit")
	}
	if backend.imports != 1 {
		t.Fatalf("backend.imports = %d, want 1", backend.imports)
	}
}

func TestCacheReleaseFreesAndDrops(t *testing.T) {
	backend := &countingBackend{}
	cache := NewCache(backend)

	req := Request{Identity: 1, DestWidth: 100, DestHeight: 100}
	if _, err := cache.Import(req); err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if err := cache.Release(1); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if backend.releases != 1 {
		t.Fatalf("backend.releases = %d, want 1", backend.releases)
	}
	if cache.Len() != 0 {
		t.Fatalf("cache.Len() = %d, want 0 after release", cache.Len())
	}

	if _, err := cache.Import(req); err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if backend.imports != 2 {
		t.Fatalf("backend.imports = %d, want 2 after re-import following release", backend.imports)
	}
}
