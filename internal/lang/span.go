package lang

import "fmt"

// Span is a half-open byte range [Start, End) into one file's source buffer.
// Offsets are aligned with the tree-sitter node ranges produced by the frontend.
type Span struct {
	Start uint32
	End   uint32
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

// Text slices the span out of src. It returns "" when the span no longer
// fits the buffer, which callers treat as drift.
func (s Span) Text(src []byte) string {
	if int(s.End) > len(src) || s.Start > s.End {
		return ""
	}
	return string(src[s.Start:s.End])
}

func (s Span) String() string {
	return fmt.Sprintf("%d-%d", s.Start, s.End)
}
