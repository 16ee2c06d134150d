package hunk

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	ErrIndexOutOfRange = errors.New("hunk index out of range")
	ErrEmptyHunk       = errors.New("hunk is empty")
)

// Kind classifies a hunk by the production that emitted it.
type Kind string

const (
	KindParagraph Kind = "paragraph"
	KindCode      Kind = "code"
	KindMath      Kind = "math"
)

// Classify reports which production a hunk came from.
func Classify(h string) Kind {
	switch d, _ := opaqueDelimiter(h); d {
	case "```", "~~~":
		return KindCode
	case "$$":
		return KindMath
	}
	return KindParagraph
}

// List is the ordered hunk list an editor works on. Its zero value is empty
// and ready to use. A List is not safe for concurrent use.
type List struct {
	hunks []string
}

// NewList segments source into a new list.
func NewList(source string) *List {
	return &List{hunks: Segment(source)}
}

// FromHunks builds a list from already-segmented hunks.
func FromHunks(hunks []string) *List {
	return &List{hunks: slices.Clone(hunks)}
}

// Hunks returns a copy of the current hunks.
func (l *List) Hunks() []string {
	if l.hunks == nil {
		return []string{}
	}
	return slices.Clone(l.hunks)
}

func (l *List) Len() int { return len(l.hunks) }

// At returns hunk i.
func (l *List) At(i int) (string, error) {
	if err := l.check(i); err != nil {
		return "", err
	}
	return l.hunks[i], nil
}

// InsertAfter inserts text after hunk i. i == -1 inserts at the front.
func (l *List) InsertAfter(i int, text string) error {
	if i != -1 {
		if err := l.check(i); err != nil {
			return err
		}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyHunk
	}
	l.hunks = slices.Insert(l.hunks, i+1, text)
	return nil
}

// Delete removes hunk i.
func (l *List) Delete(i int) error {
	if err := l.check(i); err != nil {
		return err
	}
	l.hunks = slices.Delete(l.hunks, i, i+1)
	return nil
}

// Replace overwrites hunk i with text.
func (l *List) Replace(i int, text string) error {
	if err := l.check(i); err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyHunk
	}
	l.hunks[i] = text
	return nil
}

// Move relocates hunk from to index to, shifting the hunks between.
func (l *List) Move(from, to int) error {
	if err := l.check(from); err != nil {
		return err
	}
	if err := l.check(to); err != nil {
		return err
	}
	h := l.hunks[from]
	l.hunks = slices.Delete(l.hunks, from, from+1)
	l.hunks = slices.Insert(l.hunks, to, h)
	return nil
}

// Commit segments text and appends the resulting hunks, returning how many
// were added.
func (l *List) Commit(text string) int {
	added := Segment(text)
	l.hunks = append(l.hunks, added...)
	return len(added)
}

// Content joins the list back into document content.
func (l *List) Content() string {
	return Join(l.hunks)
}

func (l *List) check(i int) error {
	if i < 0 || i >= len(l.hunks) {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, i, len(l.hunks))
	}
	return nil
}
