// Package dataset reads locally stored, split-partitioned parquet datasets
// and writes converted training records.
package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var ErrLoad = errors.New("loading dataset")

const (
	SplitTrain      = "train"
	SplitTest       = "test"
	SplitValidation = "validation"
)

var splitKeywords = []struct {
	split    string
	keywords []string
}{
	{SplitTrain, []string{"train", "training"}},
	{SplitTest, []string{"test", "testing", "eval", "evaluation"}},
	{SplitValidation, []string{"validation", "valid", "val", "dev"}},
}

var splitPatterns = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp)
	for _, s := range splitKeywords {
		m[s.split] = regexp.MustCompile(`(?i)(^|[-._ 0-9])(` + strings.Join(s.keywords, "|") + `)([-._ 0-9]|$)`)
	}
	return m
}()

// Splits maps a split name to its parquet files, in read order.
type Splits map[string][]string

func (s Splits) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Discover finds the parquet files under dir and groups them by split.
// When no file name or directory carries a split keyword, everything is train.
func Discover(dir string) (Splits, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrLoad, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w %s: not a directory", ErrLoad, dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".parquet") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrLoad, dir, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w %s: no parquet files found", ErrLoad, dir)
	}
	sort.Strings(files)

	splits := make(Splits)
	var unassigned []string
	for _, f := range files {
		rel, err := filepath.Rel(dir, f)
		if err != nil {
			rel = filepath.Base(f)
		}
		if name := SplitOf(rel); name != "" {
			splits[name] = append(splits[name], f)
		} else {
			unassigned = append(unassigned, f)
		}
	}
	if len(splits) == 0 {
		splits[SplitTrain] = unassigned
	}
	return splits, nil
}

// SplitOf returns the split a dataset-relative file path belongs to, or "".
// A directory or file name matches when it carries a split keyword between
// delimiters, as in "train_data/" or "train-00000-of-00001.parquet". The
// deepest matching directory wins over the file name.
func SplitOf(rel string) string {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	dirs, base := parts[:len(parts)-1], parts[len(parts)-1]
	for i := len(dirs) - 1; i >= 0; i-- {
		if split := matchSplit(dirs[i]); split != "" {
			return split
		}
	}
	return matchSplit(strings.TrimSuffix(base, filepath.Ext(base)))
}

func matchSplit(name string) string {
	for _, s := range splitKeywords {
		if splitPatterns[s.split].MatchString(name) {
			return s.split
		}
	}
	return ""
}
