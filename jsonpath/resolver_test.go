package jsonpath

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/nebulamap/nebulamap/maperr"
)

func mustParse(t *testing.T, data string) any {
	t.Helper()
	doc, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

// TestSplitPath verifies path decomposition into key and index segments.
func TestSplitPath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "single key", in: "id", want: []string{"id"}},
		{name: "leading slash", in: "/users", want: []string{"users"}},
		{name: "nested keys", in: "/a/b/c", want: []string{"a", "b", "c"}},
		{name: "glued index", in: "/users[0]", want: []string{"users", "[0]"}},
		{name: "index then key", in: "/users[0]/name", want: []string{"users", "[0]", "name"}},
		{name: "bare index", in: "[2]", want: []string{"[2]"}},
		{name: "double index", in: "/m[1][2]", want: []string{"m", "[1]", "[2]"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitPath(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitPath(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// TestResolve verifies navigation across objects and arrays.
func TestResolve(t *testing.T) {
	doc := mustParse(t, `{
		"users": [
			{"id": "u1", "name": "Ada", "tags": ["x", "y"]},
			{"id": "u2", "name": "Grace"}
		],
		"meta": {"count": 2}
	}`)
	r := NewResolver()

	tests := []struct {
		path string
		want any
	}{
		{path: "/users[0]/id", want: "u1"},
		{path: "/users[1]/name", want: "Grace"},
		{path: "/users[0]/tags[1]", want: "y"},
		{path: "meta/count", want: mustParse(t, "2")},
	}

	for _, tt := range tests {
		got, err := r.Resolve(doc, tt.path)
		if err != nil {
			t.Errorf("Resolve(%q) error: %v", tt.path, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Resolve(%q) = %v (%T), want %v", tt.path, got, got, tt.want)
		}
	}
}

// TestResolveErrors verifies failure classification: missing keys vs
// structural mismatches.
func TestResolveErrors(t *testing.T) {
	doc := mustParse(t, `{"users": [{"id": "u1"}], "name": "top"}`)
	r := NewResolver()

	tests := []struct {
		name     string
		path     string
		sentinel error
	}{
		{name: "missing property", path: "/missing", sentinel: maperr.ErrNotFound},
		{name: "missing nested property", path: "/users[0]/email", sentinel: maperr.ErrNotFound},
		{name: "index out of bounds", path: "/users[5]", sentinel: maperr.ErrTypeMismatch},
		{name: "key lookup on array", path: "/users/id", sentinel: maperr.ErrTypeMismatch},
		{name: "index into scalar", path: "/name[0]", sentinel: maperr.ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(doc, tt.path)
			if err == nil {
				t.Fatalf("Resolve(%q) succeeded, want error", tt.path)
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("Resolve(%q) error = %v, want %v", tt.path, err, tt.sentinel)
			}
		})
	}
}

// TestResolveDefault verifies the lone lenient entry point.
func TestResolveDefault(t *testing.T) {
	doc := mustParse(t, `{"a": "x"}`)
	r := NewResolver()

	if got := r.ResolveDefault(doc, "/a", "fallback"); got != "x" {
		t.Errorf("ResolveDefault hit = %v, want x", got)
	}
	if got := r.ResolveDefault(doc, "/missing", "fallback"); got != "fallback" {
		t.Errorf("ResolveDefault miss = %v, want fallback", got)
	}
}

// TestCacheTransparency verifies resolution results are identical with a
// cold and warm segment cache, and that maintenance operations behave.
func TestCacheTransparency(t *testing.T) {
	doc := mustParse(t, `{"a": {"b": [{"c": 1}]}}`)
	r := NewResolver()

	cold, err := r.Resolve(doc, "/a/b[0]/c")
	if err != nil {
		t.Fatalf("cold resolve: %v", err)
	}
	warm, err := r.Resolve(doc, "/a/b[0]/c")
	if err != nil {
		t.Fatalf("warm resolve: %v", err)
	}
	if !reflect.DeepEqual(cold, warm) {
		t.Errorf("cold = %v, warm = %v", cold, warm)
	}

	if r.CacheSize() == 0 {
		t.Error("expected a memoized path after resolution")
	}
	r.ClearCache()
	if r.CacheSize() != 0 {
		t.Errorf("CacheSize after clear = %d, want 0", r.CacheSize())
	}

	cleared, err := r.Resolve(doc, "/a/b[0]/c")
	if err != nil {
		t.Fatalf("post-clear resolve: %v", err)
	}
	if !reflect.DeepEqual(cold, cleared) {
		t.Errorf("cold = %v, post-clear = %v", cold, cleared)
	}
}

// TestConcurrentResolve exercises the shared segment cache from many
// goroutines; run with -race.
func TestConcurrentResolve(t *testing.T) {
	doc := mustParse(t, `{"users": [{"id": "u1"}, {"id": "u2"}]}`)
	r := NewResolver()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			path := fmt.Sprintf("/users[%d]/id", n%2)
			want := fmt.Sprintf("u%d", n%2+1)
			for j := 0; j < 100; j++ {
				got, err := r.Resolve(doc, path)
				if err != nil {
					t.Errorf("Resolve(%q): %v", path, err)
					return
				}
				if got != want {
					t.Errorf("Resolve(%q) = %v, want %q", path, got, want)
					return
				}
			}
		}(i)
	}
	wg.Wait()
}

// TestHas verifies presence probing.
func TestHas(t *testing.T) {
	doc := mustParse(t, `{"a": null}`)
	r := NewResolver()

	if !r.Has(doc, "/a") {
		t.Error("Has(/a) = false, want true for explicit null")
	}
	if r.Has(doc, "/b") {
		t.Error("Has(/b) = true, want false")
	}
}
