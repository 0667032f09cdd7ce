package crawler

import "sort"

// URLSet is a set of canonical URLs.
// Both the visited set and the frontier are URLSets.
type URLSet map[string]struct{}

// NewURLSet returns a set containing urls.
func NewURLSet(urls ...string) URLSet {
	s := make(URLSet, len(urls))
	for _, u := range urls {
		s[u] = struct{}{}
	}
	return s
}

// Add inserts u into the set.
func (s URLSet) Add(u string) {
	s[u] = struct{}{}
}

// Contains reports whether u is in the set.
func (s URLSet) Contains(u string) bool {
	_, ok := s[u]
	return ok
}

// Len returns the number of URLs in the set.
func (s URLSet) Len() int {
	return len(s)
}

// Sorted returns the members in lexical order.
func (s URLSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for u := range s {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// ComputeNext returns the URLs in discovered that are not in visited.
// Neither argument is modified.
func ComputeNext(discovered, visited URLSet) URLSet {
	next := make(URLSet)
	for u := range discovered {
		if !visited.Contains(u) {
			next.Add(u)
		}
	}
	return next
}

// MergeVisited returns visited ∪ batch as a new set.
// The previous snapshot stays untouched so tasks still reading it are safe.
func MergeVisited(visited, batch URLSet) URLSet {
	merged := make(URLSet, len(visited)+len(batch))
	for u := range visited {
		merged.Add(u)
	}
	for u := range batch {
		merged.Add(u)
	}
	return merged
}

// union adds every member of src to dst.
func union(dst, src URLSet) {
	for u := range src {
		dst.Add(u)
	}
}
