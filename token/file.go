package token

import (
	"strconv"
	"strings"
)

// File owns the UTF-8 source text of a single compilation unit and maps
// byte offsets back to 1-based (line, column) positions.
type File struct {
	Name       string
	Src        []byte
	lineStarts []int // byte offset of the first character of each line
}

// NewFile builds a File over src, precomputing line start offsets so that
// Position and Line are O(log n) and O(1) respectively.
func NewFile(name string, src []byte) *File {
	f := &File{Name: name, Src: src}
	f.lineStarts = []int{0}
	for i, b := range src {
		if b == '\n' {
			f.lineStarts = append(f.lineStarts, i+1)
		}
	}
	return f
}

// Position computes the Pos for a byte offset into the file.
func (f *File) Position(offset int) Pos {
	line := f.lineForOffset(offset)
	col := offset - f.lineStarts[line] + 1
	return Pos{File: f, Offset: offset, Line: line + 1, Column: col}
}

func (f *File) lineForOffset(offset int) int {
	lo, hi := 0, len(f.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if f.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// Line returns the source text of the given 1-based line number, without
// its trailing newline.
func (f *File) Line(n int) string {
	if n < 1 || n > len(f.lineStarts) {
		return ""
	}
	start := f.lineStarts[n-1]
	end := len(f.Src)
	if n < len(f.lineStarts) {
		end = f.lineStarts[n] - 1
	}
	if end > start && f.Src[end-1] == '\r' {
		end--
	}
	return strings.TrimRight(string(f.Src[start:end]), "\r\n")
}

// LineCount returns the number of lines in the file.
func (f *File) LineCount() int {
	return len(f.lineStarts)
}

// Pos is a source position: a byte offset plus its 1-based line and column,
// tied back to the File it was resolved against.
type Pos struct {
	File   *File
	Offset int
	Line   int
	Column int
}

func (p Pos) String() string {
	name := "<input>"
	if p.File != nil && p.File.Name != "" {
		name = p.File.Name
	}
	return name + ":" + strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}
