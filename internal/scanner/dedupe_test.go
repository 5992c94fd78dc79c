package scanner

import (
	"reflect"
	"testing"
)

func item(path string, size int64) ScanItem {
	return ScanItem{Path: path, Category: CategorySystemCache, Size: size, IsDir: true}
}

func paths(items []ScanItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Path
	}
	return out
}

func TestDedupeDropsNestedCandidates(t *testing.T) {
	in := []ScanItem{
		item("/home/u/project/node_modules/foo/node_modules", 1),
		item("/home/u/project/node_modules", 10),
	}

	got := paths(Dedupe(in))
	want := []string{"/home/u/project/node_modules"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Dedupe = %v, want %v", got, want)
	}
}

func TestDedupeKeepsSiblings(t *testing.T) {
	in := []ScanItem{
		item("/home/u/a/node_modules", 1),
		item("/home/u/b/node_modules", 2),
		item("/home/u/c/target", 3),
	}

	got := Dedupe(in)
	if len(got) != 3 {
		t.Fatalf("Dedupe dropped siblings: %v", paths(got))
	}
}

// Prefix similarity is not ancestry: /a/bc is not inside /a/b.
func TestDedupeIsPathAware(t *testing.T) {
	in := []ScanItem{
		item("/home/u/cache", 1),
		item("/home/u/cache2", 2),
	}

	got := Dedupe(in)
	if len(got) != 2 {
		t.Fatalf("Dedupe treated /home/u/cache2 as nested in /home/u/cache: %v", paths(got))
	}
}

func TestDedupeIsIdempotent(t *testing.T) {
	in := []ScanItem{
		item("/home/u/project/node_modules", 10),
		item("/home/u/project/node_modules/x/dist", 1),
		item("/home/u/other/target", 5),
	}

	once := Dedupe(in)
	twice := Dedupe(once)
	if !reflect.DeepEqual(paths(once), paths(twice)) {
		t.Errorf("Dedupe not idempotent: %v then %v", paths(once), paths(twice))
	}
}

func TestDedupeDeepChain(t *testing.T) {
	in := []ScanItem{
		item("/a/b/c/d/node_modules", 1),
		item("/a/b/c/d/node_modules/e/f/node_modules", 1),
		item("/a/b", 100),
	}

	got := paths(Dedupe(in))
	want := []string{"/a/b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Dedupe = %v, want %v", got, want)
	}
}

// Overlapping scan roots report the same candidate once per root.
func TestDedupeCollapsesIdenticalPaths(t *testing.T) {
	in := []ScanItem{
		item("/home/u/app/node_modules", 10),
		item("/home/u/app/node_modules", 10),
	}

	got := Dedupe(in)
	if len(got) != 1 {
		t.Errorf("identical paths not collapsed: %v", paths(got))
	}
}

func TestDedupeEmpty(t *testing.T) {
	if got := Dedupe(nil); len(got) != 0 {
		t.Errorf("Dedupe(nil) = %v, want empty", got)
	}
}
