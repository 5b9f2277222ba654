package kv_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/pazhealth/paz/pkg/kv"
)

func newBadgerStore(t *testing.T, opts *kv.Options) kv.Store {
	t.Helper()
	s, err := kv.NewBadger(kv.BadgerOptions{Options: opts, InMemory: true})
	if err != nil {
		t.Fatalf("NewBadger: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newMemoryStore(t *testing.T, opts *kv.Options) kv.Store {
	t.Helper()
	s := kv.NewMemory(opts)
	t.Cleanup(func() { s.Close() })
	return s
}

var backends = []struct {
	name string
	open func(*testing.T, *kv.Options) kv.Store
}{
	{"memory", newMemoryStore},
	{"badger", newBadgerStore},
}

func forEachBackend(t *testing.T, fn func(t *testing.T, s kv.Store)) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			fn(t, b.open(t, nil))
		})
	}
}

func keys(t *testing.T, s kv.Store, prefix kv.Key, opts ...kv.ListOption) []string {
	t.Helper()
	entries, err := kv.Collect(s.List(context.Background(), prefix, opts...))
	if err != nil {
		t.Fatalf("List(%v): %v", prefix, err)
	}
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Key.String() + "=" + string(e.Value)
	}
	return out
}

func TestGetSetDelete(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s kv.Store) {
		ctx := context.Background()
		key := kv.Key{"profile", "u1"}

		if _, err := s.Get(ctx, key); !errors.Is(err, kv.ErrNotFound) {
			t.Fatalf("Get missing = %v, want ErrNotFound", err)
		}
		if err := s.Set(ctx, key, []byte("hello")); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if err := s.Set(ctx, key, []byte("world")); err != nil {
			t.Fatalf("Set overwrite: %v", err)
		}
		got, err := s.Get(ctx, key)
		if err != nil || string(got) != "world" {
			t.Fatalf("Get = %q, %v", got, err)
		}
		got[0] = 'X'
		again, _ := s.Get(ctx, key)
		if string(again) != "world" {
			t.Fatalf("stored value aliased caller buffer: %q", again)
		}
		if err := s.Delete(ctx, key); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := s.Get(ctx, key); !errors.Is(err, kv.ErrNotFound) {
			t.Fatalf("Get after Delete = %v", err)
		}
		if err := s.Delete(ctx, kv.Key{"no", "such"}); err != nil {
			t.Fatalf("Delete missing: %v", err)
		}
	})
}

func TestList(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s kv.Store) {
		ctx := context.Background()
		err := s.BatchSet(ctx, []kv.Entry{
			{Key: kv.Key{"mood", "u1", "0003"}, Value: []byte("c")},
			{Key: kv.Key{"mood", "u1", "0001"}, Value: []byte("a")},
			{Key: kv.Key{"mood", "u1", "0002"}, Value: []byte("b")},
			{Key: kv.Key{"mood", "u10", "0001"}, Value: []byte("x")},
			{Key: kv.Key{"journal", "u1", "0001"}, Value: []byte("j")},
		})
		if err != nil {
			t.Fatalf("BatchSet: %v", err)
		}

		got := keys(t, s, kv.Key{"mood", "u1"})
		want := []string{"mood:u1:0001=a", "mood:u1:0002=b", "mood:u1:0003=c"}
		if !slices.Equal(got, want) {
			t.Fatalf("List = %v, want %v", got, want)
		}

		got = keys(t, s, kv.Key{"mood", "u1"}, kv.Reverse())
		slices.Reverse(want)
		if !slices.Equal(got, want) {
			t.Fatalf("List reverse = %v, want %v", got, want)
		}

		got = keys(t, s, kv.Key{"mood", "u1"}, kv.Reverse(), kv.Limit(2))
		if !slices.Equal(got, want[:2]) {
			t.Fatalf("List reverse limit = %v, want %v", got, want[:2])
		}

		got = keys(t, s, kv.Key{"mood", "u1"}, kv.Limit(1))
		if !slices.Equal(got, []string{"mood:u1:0001=a"}) {
			t.Fatalf("List limit = %v", got)
		}

		if got := keys(t, s, nil); len(got) != 5 {
			t.Fatalf("List all = %v", got)
		}
		if got := keys(t, s, kv.Key{"chat"}); len(got) != 0 {
			t.Fatalf("List chat = %v", got)
		}
	})
}

func TestListEarlyBreak(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s kv.Store) {
		ctx := context.Background()
		for _, id := range []string{"a", "b", "c"} {
			if err := s.Set(ctx, kv.Key{"k", id}, []byte(id)); err != nil {
				t.Fatal(err)
			}
		}
		n := 0
		for _, err := range s.List(ctx, kv.Key{"k"}) {
			if err != nil {
				t.Fatal(err)
			}
			n++
			if n == 2 {
				break
			}
		}
		if n != 2 {
			t.Fatalf("n = %d", n)
		}
	})
}

func TestBatchDelete(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s kv.Store) {
		ctx := context.Background()
		for _, id := range []string{"a", "b", "c"} {
			if err := s.Set(ctx, kv.Key{"k", id}, []byte(id)); err != nil {
				t.Fatal(err)
			}
		}
		if err := s.BatchDelete(ctx, []kv.Key{{"k", "a"}, {"k", "c"}, {"k", "zz"}}); err != nil {
			t.Fatalf("BatchDelete: %v", err)
		}
		if got := keys(t, s, kv.Key{"k"}); !slices.Equal(got, []string{"k:b=b"}) {
			t.Fatalf("after BatchDelete = %v", got)
		}
	})
}

func TestInvalidKey(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s kv.Store) {
		ctx := context.Background()
		if err := s.Set(ctx, kv.Key{"a:b"}, nil); !errors.Is(err, kv.ErrInvalidKey) {
			t.Fatalf("Set separator segment = %v", err)
		}
		if _, err := s.Get(ctx, nil); !errors.Is(err, kv.ErrInvalidKey) {
			t.Fatalf("Get empty key = %v", err)
		}
		if err := s.BatchSet(ctx, []kv.Entry{{Key: kv.Key{"ok"}}, {Key: kv.Key{"x:y"}}}); !errors.Is(err, kv.ErrInvalidKey) {
			t.Fatalf("BatchSet = %v", err)
		}
	})
}

func TestCustomSeparator(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			s := b.open(t, &kv.Options{Separator: '/'})
			if err := s.Set(ctx, kv.Key{"a:b", "c"}, []byte("v")); err != nil {
				t.Fatalf("Set: %v", err)
			}
			entries, err := kv.Collect(s.List(ctx, kv.Key{"a:b"}))
			if err != nil || len(entries) != 1 {
				t.Fatalf("List = %v, %v", entries, err)
			}
			if !slices.Equal(entries[0].Key, kv.Key{"a:b", "c"}) {
				t.Fatalf("key = %v", entries[0].Key)
			}
		})
	}
}

func TestKeyAppend(t *testing.T) {
	base := make(kv.Key, 1, 4)
	base[0] = "mood"
	a := base.Append("u1")
	b := base.Append("u2")
	if a.String() != "mood:u1" || b.String() != "mood:u2" {
		t.Fatalf("Append aliased: %v %v", a, b)
	}
}
