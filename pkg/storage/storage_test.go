package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"slices"
	"testing"
)

func writeFile(t *testing.T, s FileStore, path, data string) {
	t.Helper()
	w, err := s.Write(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := io.WriteString(w, data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, s FileStore, path string) string {
	t.Helper()
	r, err := s.Read(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// testFileStore runs the behaviour every FileStore must share.
func testFileStore(t *testing.T, s FileStore) {
	ctx := context.Background()

	t.Run("WriteAndRead", func(t *testing.T) {
		writeFile(t, s, "sounds/gentlerain.wav", "rain")
		if got := readFile(t, s, "sounds/gentlerain.wav"); got != "rain" {
			t.Fatalf("got %q, want %q", got, "rain")
		}
	})

	t.Run("WriteTruncates", func(t *testing.T) {
		writeFile(t, s, "trunc.txt", "a much longer first version")
		writeFile(t, s, "trunc.txt", "short")
		if got := readFile(t, s, "trunc.txt"); got != "short" {
			t.Fatalf("got %q, want %q", got, "short")
		}
	})

	t.Run("ReadNotExist", func(t *testing.T) {
		_, err := s.Read(ctx, "missing.wav")
		if !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("err = %v, want os.ErrNotExist", err)
		}
	})

	t.Run("ExistsAndDelete", func(t *testing.T) {
		writeFile(t, s, "gone.txt", "x")
		ok, err := s.Exists(ctx, "gone.txt")
		if err != nil || !ok {
			t.Fatalf("Exists = %v, %v", ok, err)
		}
		if err := s.Delete(ctx, "gone.txt"); err != nil {
			t.Fatal(err)
		}
		if err := s.Delete(ctx, "gone.txt"); err != nil {
			t.Fatalf("second Delete: %v", err)
		}
		ok, err = s.Exists(ctx, "gone.txt")
		if err != nil || ok {
			t.Fatalf("Exists after delete = %v, %v", ok, err)
		}
	})

	t.Run("List", func(t *testing.T) {
		writeFile(t, s, "list/b.wav", "b")
		writeFile(t, s, "list/a.wav", "a")
		writeFile(t, s, "list/nested/c.wav", "c")
		writeFile(t, s, "listing.txt", "not in the directory")

		got, err := s.List(ctx, "list/")
		if err != nil {
			t.Fatal(err)
		}
		want := []string{"list/a.wav", "list/b.wav", "list/nested/c.wav"}
		if !slices.Equal(got, want) {
			t.Fatalf("List = %v, want %v", got, want)
		}
	})

	t.Run("PathsStayInRoot", func(t *testing.T) {
		writeFile(t, s, "../../escape.txt", "contained")
		if got := readFile(t, s, "escape.txt"); got != "contained" {
			t.Fatalf("got %q", got)
		}
		if _, err := s.Write(ctx, ""); err == nil {
			t.Fatal("Write with an empty path succeeded")
		}
	})
}

func TestLocal(t *testing.T) {
	s, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	testFileStore(t, s)
}

func TestMemory(t *testing.T) {
	testFileStore(t, NewMemory())
}

func TestS3(t *testing.T) {
	testFileStore(t, NewS3(newMockS3(), "test-bucket", ""))
}

func TestS3WithPrefix(t *testing.T) {
	testFileStore(t, NewS3(newMockS3(), "test-bucket", "/paz/"))
}

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"a/b.wav", "a/b.wav", true},
		{"/a//b.wav", "a/b.wav", true},
		{"../a.wav", "a.wav", true},
		{`sounds\rain.wav`, "sounds/rain.wav", true},
		{"", "", false},
		{"..", "", false},
	}
	for _, tt := range tests {
		got, ok := Clean(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Clean(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
