package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/RaiVaibhav/IGitt/pkg/hosting"
)

func TestNew(t *testing.T) {
	sess, err := New(hosting.GitLab, "tok", Account{ID: 7, Login: "sils"}, time.Hour)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if sess.ID == "" {
		t.Error("ID is empty")
	}
	if sess.IsExpired() {
		t.Error("fresh session reported expired")
	}
	if got := sess.UserID(); got != "gitlab:7" {
		t.Errorf("UserID() = %q, want gitlab:7", got)
	}

	other, _ := New(hosting.GitLab, "tok", Account{}, time.Hour)
	if other.ID == sess.ID {
		t.Error("session IDs collide")
	}
	if got := other.UserID(); got != "" {
		t.Errorf("UserID() without account = %q, want empty", got)
	}
	if _, err := uuid.Parse(sess.ID); err != nil {
		t.Errorf("ID %q is not a UUID: %v", sess.ID, err)
	}
}

func TestFileStoreRejectsPathIDs(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"", "..", "../escape", `a\b`} {
		if _, err := store.Get(ctx, id); err == nil {
			t.Errorf("Get(%q) should fail", id)
		}
		if err := store.Set(ctx, &Session{ID: id}); err == nil {
			t.Errorf("Set(%q) should fail", id)
		}
	}
}

func TestDefaultDirHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
	dir, err := DefaultDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg-config", "igitt", "sessions") {
		t.Errorf("DefaultDir() = %q", dir)
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if sess, err := store.Get(ctx, "missing"); sess != nil || err != nil {
		t.Fatalf("Get(missing) = %v, %v", sess, err)
	}

	sess, _ := New(hosting.GitHub, "gho_x", Account{ID: 1, Login: "octocat"}, time.Hour)
	if err := store.Set(ctx, sess); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := store.Get(ctx, sess.ID)
	if err != nil || got == nil {
		t.Fatalf("Get: %v, %v", got, err)
	}
	if got.AccessToken != "gho_x" || got.User.Login != "octocat" || got.Provider != hosting.GitHub {
		t.Errorf("Get = %+v", got)
	}

	info, err := os.Stat(filepath.Join(store.Path(), sess.ID+".json"))
	if err != nil {
		t.Fatalf("stat session file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("session file mode = %o, want 600", perm)
	}

	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Errorf("second Delete: %v", err)
	}
	if got, _ := store.Get(ctx, sess.ID); got != nil {
		t.Error("Get after Delete returned a session")
	}
}

func TestFileStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	expired, _ := New(hosting.GitHub, "old", Account{ID: 1}, -time.Minute)
	live, _ := New(hosting.GitHub, "new", Account{ID: 2}, time.Hour)
	for _, s := range []*Session{expired, live} {
		if err := store.Set(ctx, s); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}

	if err := os.WriteFile(filepath.Join(store.Path(), "garbage.json"), []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}
	removed, err := store.Cleanup(ctx)
	if err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if removed != 2 {
		t.Errorf("Cleanup() removed %d files, want 2", removed)
	}
	if _, err := os.Stat(filepath.Join(store.Path(), expired.ID+".json")); !os.IsNotExist(err) {
		t.Errorf("expired session file still present: %v", err)
	}
	if got, _ := store.Get(ctx, live.ID); got == nil {
		t.Error("Cleanup removed a live session")
	}

	if err := store.Set(ctx, expired); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got, err := store.Get(ctx, expired.ID); got != nil || err != nil {
		t.Errorf("Get(expired) = %v, %v, want nil, nil", got, err)
	}
}

func TestCLIStorePerProvider(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	gh, err := NewCLIStoreAt(dir, hosting.GitHub)
	if err != nil {
		t.Fatalf("NewCLIStoreAt: %v", err)
	}
	gl, err := NewCLIStoreAt(dir, hosting.GitLab)
	if err != nil {
		t.Fatalf("NewCLIStoreAt: %v", err)
	}

	sess, _ := New(hosting.GitHub, "gho_x", Account{ID: 1, Login: "octocat"}, time.Hour)
	if err := gh.SaveSession(ctx, sess); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	if sess.ID != "github" {
		t.Errorf("session ID = %q, want github", sess.ID)
	}
	if gh.Path() != filepath.Join(dir, "github.json") {
		t.Errorf("Path() = %q", gh.Path())
	}

	if got, _ := gl.GetSession(ctx); got != nil {
		t.Errorf("GitLab store sees %+v", got)
	}
	got, err := gh.GetSession(ctx)
	if err != nil || got == nil || got.AccessToken != "gho_x" {
		t.Fatalf("GetSession = %+v, %v", got, err)
	}

	if err := gh.DeleteSession(ctx); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if got, _ := gh.GetSession(ctx); got != nil {
		t.Error("session survived DeleteSession")
	}
}
