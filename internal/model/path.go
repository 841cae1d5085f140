package model

import (
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// PathSeparator delimits segments in the external form of a Path.
const PathSeparator = ":"

var (
	ErrEmptyPath    = errors.New("empty path")
	ErrNotFound     = errors.New("no such object")
	ErrNotContainer = errors.New("not a container")
	ErrNotLeaf      = errors.New("path names a container, not a leaf")
)

// Path is an ordered list of segments from the root to an object.
type Path []string

// ParsePath splits the colon-delimited form. The empty string is the empty path.
func ParsePath(s string) Path {
	if s == "" {
		return nil
	}
	return Path(strings.Split(s, PathSeparator))
}

func (p Path) String() string { return strings.Join(p, PathSeparator) }

// Join returns a new path with name appended.
func (p Path) Join(name string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, name)
}

// ResolutionError reports which segment of a path could not be applied.
type ResolutionError struct {
	Path    Path
	Index   int // offending segment, -1 for an empty path
	Segment string
	Err     error
}

func (e *ResolutionError) Error() string {
	if e.Index < 0 {
		return "resolve: " + e.Err.Error()
	}
	return fmt.Sprintf("resolve %q: segment %d %q: %v", e.Path.String(), e.Index, e.Segment, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// Resolve applies path to root left to right and returns the leaf it names.
// Every segment but the last must name a Container; the last must name a
// non-container object. Failures are *ResolutionError carrying the stack
// of the call.
func Resolve(root Container, path Path) (Object, error) {
	if len(path) == 0 {
		return nil, pkgerrors.WithStack(&ResolutionError{Path: path, Index: -1, Err: ErrEmptyPath})
	}

	var cur Container = root
	for i, seg := range path {
		obj, ok := cur.Child(seg)
		if !ok {
			return nil, pkgerrors.WithStack(&ResolutionError{Path: path, Index: i, Segment: seg, Err: ErrNotFound})
		}

		last := i == len(path)-1
		c, isContainer := obj.(Container)
		switch {
		case last && isContainer:
			return nil, pkgerrors.WithStack(&ResolutionError{Path: path, Index: i, Segment: seg, Err: ErrNotLeaf})
		case last:
			return obj, nil
		case !isContainer:
			return nil, pkgerrors.WithStack(&ResolutionError{Path: path, Index: i, Segment: seg, Err: ErrNotContainer})
		}
		cur = c
	}
	// unreachable: the loop returns on the last segment
	return nil, pkgerrors.WithStack(&ResolutionError{Path: path, Index: -1, Err: ErrEmptyPath})
}
