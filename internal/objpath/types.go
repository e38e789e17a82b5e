package objpath

// Segment represents a single component of a path, e.g. `name` or `name[index]`.
type Segment struct {
	Name  string
	Index int // -1 indicates no index is present.
}

// NewSegment creates a new path segment without an index.
func NewSegment(name string) Segment {
	return Segment{Name: name, Index: -1}
}

// NewSegmentWithIndex creates a new path segment that includes an index.
func NewSegmentWithIndex(name string, index int) Segment {
	return Segment{Name: name, Index: index}
}

// HasIndex returns true if the path segment has an explicit index.
func (s Segment) HasIndex() bool {
	return s.Index != -1
}

// Path is the location of an object relative to the top-level receiver.
type Path struct {
	segments []Segment
}

// Root returns the path of the top-level receiver.
func Root() Path {
	return Path{}
}

// New builds a path from the given segments.
func New(segments ...Segment) Path {
	return Path{segments: append([]Segment(nil), segments...)}
}

// Segments returns a copy of the path's segments.
func (p Path) Segments() []Segment {
	return append([]Segment(nil), p.segments...)
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.segments)
}

// IsRoot reports whether p denotes the top-level receiver.
func (p Path) IsRoot() bool {
	return len(p.segments) == 0
}

// Child returns the path of the nested object held by property name.
func (p Path) Child(name string) Path {
	return p.with(NewSegment(name))
}

// Element returns the path of the index-th element of container property name.
func (p Path) Element(name string, index int) Path {
	return p.with(NewSegmentWithIndex(name, index))
}

// Parent returns the path without its last segment. The parent of the root is the root.
func (p Path) Parent() Path {
	if len(p.segments) == 0 {
		return p
	}
	return New(p.segments[:len(p.segments)-1]...)
}

// Last returns the final segment and false for the root path.
func (p Path) Last() (Segment, bool) {
	if len(p.segments) == 0 {
		return Segment{}, false
	}
	return p.segments[len(p.segments)-1], true
}

func (p Path) with(s Segment) Path {
	next := make([]Segment, len(p.segments), len(p.segments)+1)
	copy(next, p.segments)
	return Path{segments: append(next, s)}
}
