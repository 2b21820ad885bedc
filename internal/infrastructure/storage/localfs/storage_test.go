package localfs

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestStorageRoundTrip(t *testing.T) {
	storage, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	if err := storage.Save(ctx, "doc-1_rentroll.xlsx", strings.NewReader("payload")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	reader, err := storage.Open(ctx, "doc-1_rentroll.xlsx")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reader.Close()
	b, _ := io.ReadAll(reader)
	if string(b) != "payload" {
		t.Fatalf("read %q", b)
	}

	if err := storage.Remove(ctx, "doc-1_rentroll.xlsx"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := storage.Open(ctx, "doc-1_rentroll.xlsx"); err == nil {
		t.Fatal("file must be gone after Remove")
	}
	// Removing a missing key is a no-op.
	if err := storage.Remove(ctx, "doc-1_rentroll.xlsx"); err != nil {
		t.Fatalf("second Remove: %v", err)
	}
}

func TestStorageFlattensKeys(t *testing.T) {
	storage, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	if err := storage.Save(ctx, "../escape.txt", strings.NewReader("x")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := storage.Open(ctx, "escape.txt"); err != nil {
		t.Fatalf("key must be flattened to its base name: %v", err)
	}
}
