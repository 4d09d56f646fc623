package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/smithy-go"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	st, err := New(ctx, Config{Driver: "local", LocalPath: dir, BaseURL: "http://localhost:8080/files/"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	key := "statements/u1/report.xlsx"
	if err := st.Save(ctx, key, strings.NewReader("payload"), "application/octet-stream"); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "statements", "u1", "report.xlsx"))
	if err != nil || string(data) != "payload" {
		t.Fatalf("unexpected file content %q, err %v", data, err)
	}

	ok, err := st.Exists(ctx, key)
	if err != nil || !ok {
		t.Fatalf("expected file to exist, got %v %v", ok, err)
	}

	if got := st.GetURL(key); got != "http://localhost:8080/files/statements/u1/report.xlsx" {
		t.Fatalf("unexpected url %s", got)
	}

	if err := st.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := st.Delete(ctx, key); err != nil {
		t.Fatalf("deleting a missing file must succeed, got %v", err)
	}
	if ok, _ := st.Exists(ctx, key); ok {
		t.Fatal("file must be gone")
	}
}

func TestLocalStorageRejectsEscapingPaths(t *testing.T) {
	st, err := NewLocalStorage(t.TempDir(), "http://x")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := st.Save(context.Background(), "../outside.txt", strings.NewReader("x"), "text/plain"); err == nil {
		t.Fatal("expected path outside base to be rejected")
	}
}

func TestNewUnknownDriver(t *testing.T) {
	if _, err := New(context.Background(), Config{Driver: "ftp"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(&smithy.GenericAPIError{Code: "NotFound"}) {
		t.Fatal("NotFound must be detected")
	}
	if !isNotFound(errors.Join(errors.New("wrapped"), &smithy.GenericAPIError{Code: "NoSuchKey"})) {
		t.Fatal("wrapped NoSuchKey must be detected")
	}
	if isNotFound(&smithy.GenericAPIError{Code: "AccessDenied"}) {
		t.Fatal("AccessDenied is not a not-found error")
	}
	if isNotFound(errors.New("plain")) {
		t.Fatal("plain errors are not API errors")
	}
}
