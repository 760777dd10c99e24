package model

import "strconv"

// RotationIndex is the numeric rotation suffix of a log file name.
// Valid is false for files without a numeric suffix (the live file).
type RotationIndex struct {
	N     uint64
	Valid bool
}

// Rotation returns a valid RotationIndex for n.
func Rotation(n uint64) RotationIndex {
	return RotationIndex{N: n, Valid: true}
}

// Newer reports whether r denotes a more recent file than o.
// An unsuffixed file is newer than any suffixed one.
func (r RotationIndex) Newer(o RotationIndex) bool {
	if r.Valid != o.Valid {
		return !r.Valid
	}
	return r.N < o.N
}

func (r RotationIndex) String() string {
	if !r.Valid {
		return "-"
	}
	return strconv.FormatUint(r.N, 10)
}

// LogFile is one discovered log file.
type LogFile struct {
	Path     string        `json:"path" yaml:"path"`
	Rotation RotationIndex `json:"-" yaml:"-"`
}

// FileSet is an ordered list of log files, newest first.
type FileSet []LogFile

// Oldest returns the files in reading order, oldest first.
func (s FileSet) Oldest() []LogFile {
	out := make([]LogFile, len(s))
	for i, f := range s {
		out[len(s)-1-i] = f
	}
	return out
}

// Paths returns the file paths, newest first.
func (s FileSet) Paths() []string {
	out := make([]string, len(s))
	for i, f := range s {
		out[i] = f.Path
	}
	return out
}
