package ast

import "fmt"

// Location points at a span of the compilation unit's source text.
// The text itself is carried along so that line/column positions can be
// recovered lazily when an error is printed.
type Location struct {
	filePath    string
	fileContent []rune
	start       uint32
	end         uint32
}

func NewLocation(filePath string, content []rune, start uint32, end uint32) Location {
	return Location{
		filePath:    filePath,
		fileContent: content,
		start:       start,
		end:         end,
	}
}

func NewLocationCursor(filePath string, content []rune, start uint32) Location {
	return NewLocation(filePath, content, start, start)
}

func (loc Location) EqualsTo(other Location) bool {
	return loc.filePath == other.filePath && loc.start == other.start && loc.end == other.end
}

func (loc Location) IsEmpty() bool {
	return loc.filePath == ""
}

func (loc Location) CursorString() string {
	if loc.IsEmpty() {
		return ""
	}
	line, col := loc.LineAndColumn()
	return fmt.Sprintf("%s:%d:%d", loc.filePath, line, col)
}

func (loc Location) LineAndColumn() (line, column int) {
	line = 1
	column = 1
	for i := uint32(0); i < uint32(len(loc.fileContent)) && i < loc.start; i++ {
		if '\n' == loc.fileContent[i] {
			line++
			column = 1
		} else {
			column++
		}
	}
	return
}

func (loc Location) FilePath() string {
	return loc.filePath
}

func (loc Location) Text() string {
	if loc.end > uint32(len(loc.fileContent)) {
		return ""
	}
	return string(loc.fileContent[loc.start:loc.end])
}

func (loc Location) Start() uint32 {
	return loc.start
}

func (loc Location) End() uint32 {
	return loc.end
}
