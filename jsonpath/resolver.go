package jsonpath

import (
	"fmt"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/nebulamap/nebulamap/maperr"
)

// DefaultCacheSize bounds the number of memoized path segment lists.
// Mapping files declare at most a few hundred distinct paths, so evictions
// only occur under pathological churn.
const DefaultCacheSize = 4096

// Resolver navigates decoded JSON documents by path, memoizing parsed path
// segments. A single Resolver may be shared by concurrent generation runs;
// the segment cache is internally synchronized.
type Resolver struct {
	segments *lru.Cache[string, []string]
}

// NewResolver creates a Resolver with the default cache capacity.
func NewResolver() *Resolver {
	cache, err := lru.New[string, []string](DefaultCacheSize)
	if err != nil {
		// Only reachable with a non-positive size constant.
		panic(err)
	}
	return &Resolver{segments: cache}
}

// parsedPath returns the memoized segment list for path, splitting it on a
// cache miss. PeekOrAdd keeps the insert race benign: when two goroutines
// split the same path, the first insertion wins and both use it.
func (r *Resolver) parsedPath(path string) []string {
	if segs, ok := r.segments.Get(path); ok {
		return segs
	}
	segs := splitPath(path)
	if prev, ok, _ := r.segments.PeekOrAdd(path, segs); ok {
		return prev
	}
	return segs
}

// Resolve navigates doc along path and returns the value it addresses.
// Failures distinguish missing keys (maperr.ErrNotFound) from structural
// mismatches such as key lookups on arrays or indexes out of bounds
// (maperr.ErrTypeMismatch). Nothing is silently defaulted.
func (r *Resolver) Resolve(doc any, path string) (any, error) {
	current := doc
	for _, seg := range r.parsedPath(path) {
		if idx, ok := indexSegment(seg); ok {
			arr, isArr := current.([]any)
			if !isArr {
				return nil, maperr.NewDataError("Resolver.Resolve",
					fmt.Errorf("%w: expected array at path segment: %s", maperr.ErrTypeMismatch, seg))
			}
			if idx >= len(arr) {
				return nil, maperr.NewDataError("Resolver.Resolve",
					fmt.Errorf("%w: array index out of bounds: %s", maperr.ErrTypeMismatch, seg))
			}
			current = arr[idx]
			continue
		}

		obj, isObj := current.(map[string]any)
		if !isObj {
			return nil, maperr.NewDataError("Resolver.Resolve",
				fmt.Errorf("%w: expected object at path segment: %s", maperr.ErrTypeMismatch, seg))
		}
		val, found := obj[seg]
		if !found {
			return nil, maperr.NewDataError("Resolver.Resolve",
				fmt.Errorf("%w: property not found: %s", maperr.ErrNotFound, seg))
		}
		current = val
	}
	return current, nil
}

// ResolveDefault resolves path and maps any failure to the supplied default.
// This is the single lenient entry point; every other caller propagates
// resolution errors.
func (r *Resolver) ResolveDefault(doc any, path string, def any) any {
	v, err := r.Resolve(doc, path)
	if err != nil {
		return def
	}
	return v
}

// Has reports whether path resolves against doc.
func (r *Resolver) Has(doc any, path string) bool {
	_, err := r.Resolve(doc, path)
	return err == nil
}

// CacheSize reports the number of memoized paths.
func (r *Resolver) CacheSize() int {
	return r.segments.Len()
}

// ClearCache drops all memoized paths. Maintenance operation; resolution
// results are identical with a cold or warm cache.
func (r *Resolver) ClearCache() {
	r.segments.Purge()
}

// indexSegment recognizes the "[n]" array-index segment form.
func indexSegment(seg string) (int, bool) {
	if len(seg) < 3 || seg[0] != '[' || seg[len(seg)-1] != ']' {
		return 0, false
	}
	n, err := strconv.Atoi(seg[1 : len(seg)-1])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// splitPath breaks a path string into key and index segments. A leading
// slash is skipped, and "[n]" is split out wherever it appears, including
// glued to the preceding key.
func splitPath(path string) []string {
	if path == "" {
		return nil
	}

	var segments []string
	start := 0
	if path[0] == '/' {
		start = 1
	}

	pos := start
	for pos < len(path) {
		if path[pos] == '[' {
			if end := strings.IndexByte(path[pos:], ']'); end >= 0 {
				end += pos
				if pos > start {
					segments = append(segments, path[start:pos])
				}
				segments = append(segments, path[pos:end+1])
				pos = end + 1
				start = pos
				if pos < len(path) && path[pos] == '/' {
					pos++
					start = pos
				}
				continue
			}
		}
		if path[pos] == '/' {
			if pos > start {
				segments = append(segments, path[start:pos])
			}
			start = pos + 1
		}
		pos++
	}

	if start < len(path) {
		segments = append(segments, path[start:])
	}
	return segments
}
