package git

import (
	"os"
	"path/filepath"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
)

func resolved(t *testing.T, path string) string {
	t.Helper()
	p, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("Failed to resolve %s: %v", path, err)
	}
	return p
}

func TestFindRootFromSubdirectory(t *testing.T) {
	root := t.TempDir()
	if _, err := gogit.PlainInit(root, false); err != nil {
		t.Fatalf("Failed to init repository: %v", err)
	}

	sub := filepath.Join(root, "pkg", "inner")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("Failed to create subdirectory: %v", err)
	}

	got, err := FindRoot(sub)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if resolved(t, got) != resolved(t, root) {
		t.Errorf("Expected root %s, got %s", root, got)
	}
}

func TestFindRootOutsideRepository(t *testing.T) {
	if _, err := FindRoot(t.TempDir()); err == nil {
		t.Fatal("Expected an error outside of a repository")
	}
}

func TestRemoteURL(t *testing.T) {
	root := t.TempDir()
	repo, err := gogit.PlainInit(root, false)
	if err != nil {
		t.Fatalf("Failed to init repository: %v", err)
	}

	_, err = repo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{"git@github.com:acme/widgets.git"},
	})
	if err != nil {
		t.Fatalf("Failed to create remote: %v", err)
	}

	url, err := RemoteURL(root, "origin")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if url != "git@github.com:acme/widgets.git" {
		t.Errorf("Unexpected remote URL %s", url)
	}

	if _, err := RemoteURL(root, "upstream"); err == nil {
		t.Error("Expected an error for a missing remote")
	}
}
