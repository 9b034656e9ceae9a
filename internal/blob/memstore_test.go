package blob

import (
	"context"
	"testing"

	"github.com/docvault-ai/docvault/internal/model"
)

func TestMemStore_PutGetStat(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	if err := s.Put(ctx, "alice/notes/a.txt", []byte("hello"), "text/plain"); err != nil {
		t.Fatalf("put: %v", err)
	}

	data, ct, err := s.Get(ctx, "alice/notes/a.txt")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(data) != "hello" || ct != "text/plain" {
		t.Fatalf("unexpected get result: %q %q", data, ct)
	}

	info, err := s.Stat(ctx, "alice/notes/a.txt")
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size != 5 {
		t.Fatalf("expected size 5, got %d", info.Size)
	}
}

func TestMemStore_GetMissingIsNotFound(t *testing.T) {
	s := NewMemStore()
	_, _, err := s.Get(context.Background(), "nope")
	if !model.IsNotFoundError(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if _, err := s.Stat(context.Background(), "nope"); !model.IsNotFoundError(err) {
		t.Fatalf("expected NotFoundError from stat, got %v", err)
	}
}

func TestMemStore_DeleteMissingIsNoop(t *testing.T) {
	s := NewMemStore()
	if err := s.Delete(context.Background(), "nope"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}

func TestMemStore_DelimitedList(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()
	for _, k := range []string{
		"alice/notes/",
		"alice/notes/a.txt",
		"alice/recipes/",
		"bob/other/",
	} {
		if err := s.Put(ctx, k, nil, ""); err != nil {
			t.Fatalf("put %s: %v", k, err)
		}
	}

	l, err := s.List(ctx, ListOptions{Prefix: "alice/", Delimited: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"alice/notes/", "alice/recipes/"}
	if len(l.CommonPrefixes) != len(want) {
		t.Fatalf("expected %d prefixes, got %v", len(want), l.CommonPrefixes)
	}
	for i, p := range want {
		if l.CommonPrefixes[i] != p {
			t.Fatalf("prefix %d: want %s, got %s", i, p, l.CommonPrefixes[i])
		}
	}
	if len(l.Objects) != 0 {
		t.Fatalf("expected no direct objects, got %v", l.Objects)
	}
}

func TestMemStore_RecursiveListInKeyOrder(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()
	for _, k := range []string{"u/f/b.txt", "u/f/", "u/f/a.txt"} {
		if err := s.Put(ctx, k, []byte("x"), ""); err != nil {
			t.Fatalf("put %s: %v", k, err)
		}
	}

	l, err := s.List(ctx, ListOptions{Prefix: "u/f/"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := make([]string, len(l.Objects))
	for i, o := range l.Objects {
		got[i] = o.Key
	}
	want := []string{"u/f/", "u/f/a.txt", "u/f/b.txt"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order mismatch: want %v, got %v", want, got)
		}
	}
}
