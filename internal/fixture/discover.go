package fixture

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Fixture kinds live in fixed subdirectories of the html5lib-tests checkout,
// each with its own file extension.
const (
	treeSubdir       = "tree-construction"
	tokenizerSubdir  = "tokenizer"
	serializerSubdir = "serializer"
)

// DiscoverTreeFiles collects all .dat fixtures under <root>/tree-construction,
// recursively, sorted lexicographically. A missing subdirectory yields an
// empty list rather than an error; any other I/O failure aborts discovery.
func DiscoverTreeFiles(root string) ([]string, error) {
	return discover(filepath.Join(root, treeSubdir), ".dat")
}

// DiscoverTokenizerFiles collects all .test fixtures under <root>/tokenizer.
func DiscoverTokenizerFiles(root string) ([]string, error) {
	return discover(filepath.Join(root, tokenizerSubdir), ".test")
}

// DiscoverSerializerFiles collects all .test fixtures under <root>/serializer.
func DiscoverSerializerFiles(root string) ([]string, error) {
	return discover(filepath.Join(root, serializerSubdir), ".test")
}

func discover(dir, ext string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, nil
	}

	var out []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ext) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}
