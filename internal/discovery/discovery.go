// Package discovery locates rotated log files and orders them from newest to
// oldest using the numeric rotation suffix convention (access.log,
// access.log.1, access.log.2.gz, ...).
package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/tinytelemetry/logcheck/internal/model"
)

// ErrDuplicateRotation is returned under DuplicateReject when two files share
// the same rotation index.
var ErrDuplicateRotation = errors.New("discovery: duplicate rotation index")

// DuplicatePolicy controls what happens when several files map to the same
// rotation index.
type DuplicatePolicy string

const (
	DuplicateWarn   DuplicatePolicy = "warn"
	DuplicateReject DuplicatePolicy = "reject"
)

// ParseDuplicatePolicy validates a configured policy name. Empty means warn.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch p := DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", DuplicateWarn:
		return DuplicateWarn, nil
	case DuplicateReject:
		return p, nil
	default:
		return "", fmt.Errorf("invalid duplicate-rotations policy %q (want warn or reject)", s)
	}
}

// Options tunes discovery.
type Options struct {
	Duplicates DuplicatePolicy
}

// Discover expands pattern and returns the matched files ordered newest first.
// A pattern matching nothing yields an empty set and no error.
func Discover(pattern string, opts Options) (model.FileSet, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("discovery: bad pattern %q: %w", pattern, err)
	}

	files := make(model.FileSet, 0, len(matches))
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("discovery: stat %s: %w", path, err)
		}
		if info.IsDir() {
			log.Warnf("discovery: skipping directory %s", path)
			continue
		}
		files = append(files, model.LogFile{
			Path:     path,
			Rotation: ParseRotation(filepath.Base(path)),
		})
	}

	if len(files) == 0 {
		log.Infof("discovery: no log files match %q", pattern)
		return files, nil
	}

	if err := Order(files, opts); err != nil {
		return nil, err
	}
	return files, nil
}

// Order sorts files newest first in place. Files sharing a rotation index are
// kept, ordered by descending path so that ascending paths are read first.
func Order(files model.FileSet, opts Options) error {
	sort.SliceStable(files, func(i, j int) bool {
		a, b := files[i], files[j]
		if a.Rotation != b.Rotation {
			return a.Rotation.Newer(b.Rotation)
		}
		return a.Path > b.Path
	})

	for i := 1; i < len(files); i++ {
		prev, cur := files[i-1], files[i]
		if prev.Rotation != cur.Rotation {
			continue
		}
		if opts.Duplicates == DuplicateReject {
			return fmt.Errorf("%w %s: %s and %s", ErrDuplicateRotation, cur.Rotation, cur.Path, prev.Path)
		}
		log.WithFields(log.Fields{
			"rotation": cur.Rotation.String(),
		}).Warnf("discovery: %s and %s share a rotation index, reading %s first", cur.Path, prev.Path, cur.Path)
	}
	return nil
}

// ParseRotation extracts the numeric rotation suffix from a file name: the
// part after the last '.', ignoring a trailing ".gz". Names without a
// numeric suffix return an invalid index, meaning the current file.
func ParseRotation(name string) model.RotationIndex {
	name = strings.TrimSuffix(name, ".gz")
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 || dot == len(name)-1 {
		return model.RotationIndex{}
	}
	n, err := strconv.ParseUint(name[dot+1:], 10, 64)
	if err != nil {
		return model.RotationIndex{}
	}
	return model.Rotation(n)
}
