package dotpath

import (
	"regexp"
	"strconv"
	"strings"
)

// MaxIndex is the largest array index a path may address. Segments with a
// larger index are stored as literal keys.
const MaxIndex = 1 << 16

var (
	escapedPath  = regexp.MustCompile(`^\[(.*)\]$`)
	indexedField = regexp.MustCompile(`^([^\[\]]+)((?:\[\d+\])+)$`)
	indexToken   = regexp.MustCompile(`\[(\d+)\]`)
)

type step struct {
	container map[string]any
	segments  []string
}

// Assemble writes value at path inside acc and returns acc.
// A nil acc is replaced by a new map. An empty path leaves acc unchanged.
// Existing non-container values on the way are replaced by containers.
func Assemble(acc map[string]any, path string, value any) map[string]any {
	if acc == nil {
		acc = make(map[string]any)
	}
	if path == "" {
		return acc
	}

	if m := escapedPath.FindStringSubmatch(path); m != nil {
		acc[m[1]] = value
		return acc
	}

	queue := []step{{container: acc, segments: strings.Split(path, ".")}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		seg, rest := cur.segments[0], cur.segments[1:]

		if name, indexes, ok := splitIndexed(seg); ok {
			arr, _ := cur.container[name].([]any)
			var next map[string]any
			cur.container[name] = fill(arr, indexes, len(rest) == 0, value, &next)
			if len(rest) > 0 {
				queue = append(queue, step{container: next, segments: rest})
			}
			continue
		}

		if len(rest) == 0 {
			cur.container[seg] = value
			continue
		}

		child, ok := cur.container[seg].(map[string]any)
		if !ok {
			child = make(map[string]any)
			cur.container[seg] = child
		}
		queue = append(queue, step{container: child, segments: rest})
	}

	return acc
}

// Pair is a path with its value.
type Pair struct {
	Path  string
	Value any
}

// Build assembles all pairs into a fresh map, in order.
func Build(pairs ...Pair) map[string]any {
	acc := make(map[string]any, len(pairs))
	for _, p := range pairs {
		acc = Assemble(acc, p.Path, p.Value)
	}
	return acc
}

// splitIndexed splits "name[1][2]" into "name" and [1 2].
func splitIndexed(seg string) (string, []int, bool) {
	m := indexedField.FindStringSubmatch(seg)
	if m == nil {
		return "", nil, false
	}
	tokens := indexToken.FindAllStringSubmatch(m[2], -1)
	indexes := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		n, err := strconv.Atoi(tok[1])
		if err != nil || n > MaxIndex {
			return "", nil, false
		}
		indexes = append(indexes, n)
	}
	return m[1], indexes, true
}

// fill walks indexes into arr, creating nested arrays as needed. At the last
// index it stores value when leaf is true, otherwise it ensures an object and
// reports it through next. It returns the possibly grown array.
func fill(arr []any, indexes []int, leaf bool, value any, next *map[string]any) []any {
	i := indexes[0]
	if len(arr) <= i {
		arr = append(arr, make([]any, i+1-len(arr))...)
	}

	if len(indexes) == 1 {
		if leaf {
			arr[i] = value
			return arr
		}
		obj, ok := arr[i].(map[string]any)
		if !ok {
			obj = make(map[string]any)
			arr[i] = obj
		}
		*next = obj
		return arr
	}

	sub, _ := arr[i].([]any)
	arr[i] = fill(sub, indexes[1:], leaf, value, next)
	return arr
}
