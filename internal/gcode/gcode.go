package gcode

import (
	"strconv"
	"strings"

	"github.com/iley/gpost/internal/util"
)

// Line is a single output line. Op is the command (or several modal
// commands, e.g. "G90 G17 G91.1"), followed by address words. A Line with
// only a Comment renders as a comment line in the dialect's syntax.
type Line struct {
	Op      string
	Words   []Word
	Comment string
	Blank   bool
}

type Word struct {
	Letter string
	Value  string
}

func (w Word) String() string {
	return w.Letter + w.Value
}

// Code returns the command part of the line without any comment.
func (l Line) Code() string {
	if l.Op == "" {
		return ""
	}
	sb := strings.Builder{}
	sb.WriteString(l.Op)
	for _, w := range l.Words {
		sb.WriteString(" ")
		sb.WriteString(w.String())
	}
	return sb.String()
}

func Op(op string, words ...Word) Line {
	return Line{Op: op, Words: words}
}

func Comment(text string) Line {
	return Line{Comment: text}
}

func Blank() Line {
	return Line{Blank: true}
}

func Raw(letter, value string) Word {
	return Word{Letter: letter, Value: value}
}

func Int(letter string, value int) Word {
	return Word{Letter: letter, Value: strconv.Itoa(value)}
}

// Emitter is the append-only buffer dialect hooks write into. It knows the
// job's two precision settings so that coordinates and feedrates are always
// rendered with the right one. The first formatting failure is kept and all
// later writes are dropped; callers check Err after each hook.
type Emitter struct {
	coordDecimals int
	feedDecimals  int
	lines         []Line
	err           error
}

func NewEmitter(coordDecimals, feedDecimals int) *Emitter {
	return &Emitter{coordDecimals: coordDecimals, feedDecimals: feedDecimals}
}

func (e *Emitter) Emit(line Line) {
	if e.err != nil {
		return
	}
	e.lines = append(e.lines, line)
}

func (e *Emitter) Op(op string, words ...Word) {
	e.Emit(Op(op, words...))
}

func (e *Emitter) Comment(text string) {
	e.Emit(Comment(text))
}

func (e *Emitter) Blank() {
	e.Emit(Blank())
}

// Coord returns a word whose value uses coordinate precision.
func (e *Emitter) Coord(letter string, v float64) Word {
	return Word{Letter: letter, Value: e.CoordText(v)}
}

// Feed returns a word whose value uses feedrate precision.
func (e *Emitter) Feed(letter string, v float64) Word {
	return Word{Letter: letter, Value: e.FeedText(v)}
}

func (e *Emitter) CoordText(v float64) string {
	return e.fixed(v, e.coordDecimals)
}

func (e *Emitter) FeedText(v float64) string {
	return e.fixed(v, e.feedDecimals)
}

// ShortText renders v in its shortest form, for header comments that echo
// job parameters back to the operator.
func (e *Emitter) ShortText(v float64) string {
	s, err := util.FormatShort(v)
	if err != nil {
		e.Fail(err)
		return ""
	}
	return s
}

func (e *Emitter) fixed(v float64, decimals int) string {
	s, err := util.FormatFixed(v, decimals)
	if err != nil {
		e.Fail(err)
		return ""
	}
	return s
}

func (e *Emitter) Fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

func (e *Emitter) Err() error {
	return e.err
}

func (e *Emitter) Lines() []Line {
	return e.lines
}

func (e *Emitter) Len() int {
	return len(e.lines)
}
