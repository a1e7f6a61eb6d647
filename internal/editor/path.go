// Package editor walks an inferred field schema against a section data
// object, producing a renderable widget tree and new data objects on every
// edit. The caller's data is never mutated in place: writes rebuild the
// containers along the edited path and share everything else.
package editor

import (
	"strconv"
	"strings"
)

type segment struct {
	key   string
	index int // -1 when the segment is not numeric
}

func parsePath(path string) []segment {
	parts := strings.Split(path, ".")
	segs := make([]segment, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		idx := -1
		if n, err := strconv.Atoi(part); err == nil && n >= 0 {
			idx = n
		}
		segs = append(segs, segment{key: part, index: idx})
	}
	return segs
}

// ValueAt reads the value at a dot-delimited path. Numeric segments index
// arrays. Missing paths return nil.
func ValueAt(data map[string]any, path string) any {
	var current any = data
	for _, seg := range parsePath(path) {
		switch c := current.(type) {
		case map[string]any:
			v, ok := c[seg.key]
			if !ok {
				return nil
			}
			current = v
		case []any:
			if seg.index < 0 || seg.index >= len(c) {
				return nil
			}
			current = c[seg.index]
		default:
			return nil
		}
	}
	return current
}

// SetPath returns a new data object with value written at path. Containers
// along the path are copied; intermediate containers that do not exist yet
// are created (objects for name segments, arrays grown for index segments).
// A non-container found where a container is expected is replaced.
func SetPath(data map[string]any, path string, value any) map[string]any {
	segs := parsePath(path)
	if len(segs) == 0 {
		return cloneMap(data)
	}
	out, _ := writeSegs(data, segs, value).(map[string]any)
	if out == nil {
		out = map[string]any{}
	}
	return out
}

func writeSegs(current any, segs []segment, value any) any {
	if len(segs) == 0 {
		return value
	}
	seg := segs[0]
	if seg.index >= 0 {
		arr, _ := current.([]any)
		next := make([]any, len(arr))
		copy(next, arr)
		for len(next) <= seg.index {
			next = append(next, nil)
		}
		next[seg.index] = writeSegs(next[seg.index], segs[1:], value)
		return next
	}
	m, _ := current.(map[string]any)
	next := cloneMap(m)
	next[seg.key] = writeSegs(next[seg.key], segs[1:], value)
	return next
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
