package cursor

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/dshills/caret/internal/engine/buffer"
	"github.com/dshills/caret/internal/engine/history"
	"github.com/dshills/caret/internal/syntax"
)

func pos(line, col int) buffer.Position {
	return buffer.NewPosition(line, col)
}

func newCursor(t *testing.T, s *buffer.Store, line, col int) *Cursor {
	t.Helper()
	c, err := New(s, pos(line, col))
	if err != nil {
		t.Fatalf("New(%d, %d): %v", line, col, err)
	}
	return c
}

func TestNewInvalid(t *testing.T) {
	s := buffer.New("abc")
	if _, err := New(s, pos(0, 4)); err == nil {
		t.Error("expected error for column past the line")
	}
	if _, err := New(s, pos(1, 0)); err == nil {
		t.Error("expected error for missing line")
	}
}

func TestShiftLeftRight(t *testing.T) {
	s := buffer.New("ab\ncd")

	c := newCursor(t, s, 1, 0)
	if !c.ShiftLeft() || c.Position() != pos(0, 2) {
		t.Errorf("expected (C:2, L:0), got %v", c.Position())
	}
	if !c.ShiftRight() || c.Position() != pos(1, 0) {
		t.Errorf("expected (C:0, L:1), got %v", c.Position())
	}

	start := newCursor(t, s, 0, 0)
	if start.ShiftLeft() {
		t.Error("ShiftLeft at document start should report no movement")
	}
	end := newCursor(t, s, 1, 2)
	if end.ShiftRight() {
		t.Error("ShiftRight at document end should report no movement")
	}
}

func TestShiftUpDown(t *testing.T) {
	s := buffer.New("long line\nab\nlonger line")
	c := newCursor(t, s, 0, 7)

	if !c.ShiftDown() || c.Position() != pos(1, 2) {
		t.Errorf("expected column clamped to (C:2, L:1), got %v", c.Position())
	}
	if !c.ShiftDown() || c.Position() != pos(2, 2) {
		t.Errorf("expected (C:2, L:2), got %v", c.Position())
	}
	if c.ShiftDown() {
		t.Error("ShiftDown on the last line should report no movement")
	}
	if !c.ShiftUp() || !c.ShiftUp() || c.Position() != pos(0, 2) {
		t.Errorf("expected (C:2, L:0), got %v", c.Position())
	}
	if c.ShiftUp() {
		t.Error("ShiftUp on the first line should report no movement")
	}
}

func TestShiftHomeEnd(t *testing.T) {
	s := buffer.New("abc\ndef")
	c := newCursor(t, s, 0, 1)

	if !c.ShiftEnd() || c.Column() != 3 {
		t.Errorf("expected column 3, got %d", c.Column())
	}
	if c.ShiftEnd() {
		t.Error("second ShiftEnd should report no movement")
	}
	if !c.ShiftHome() || c.Column() != 0 {
		t.Errorf("expected column 0, got %d", c.Column())
	}
	if !c.ShiftDocumentEnd() || c.Position() != pos(1, 3) {
		t.Errorf("expected document end, got %v", c.Position())
	}
	if !c.ShiftDocumentStart() || c.Position() != pos(0, 0) {
		t.Errorf("expected document start, got %v", c.Position())
	}
	if c.ShiftDocumentStart() {
		t.Error("second ShiftDocumentStart should report no movement")
	}
}

func TestShiftWord(t *testing.T) {
	s := buffer.New("int result = 2 / 1[;]")

	c := newCursor(t, s, 0, 6)
	for _, want := range []int{4, 0} {
		if !c.ShiftWordLeft(nil) || c.Column() != want {
			t.Fatalf("expected column %d, got %d", want, c.Column())
		}
	}
	if c.ShiftWordLeft(nil) {
		t.Error("ShiftWordLeft at document start should report no movement")
	}

	for _, want := range []int{4, 11, 13, 15, 17, 18, 19, 20, 21} {
		if !c.ShiftWordRight(nil) || c.Column() != want {
			t.Fatalf("expected column %d, got %d", want, c.Column())
		}
	}
	if c.ShiftWordRight(nil) {
		t.Error("ShiftWordRight at document end should report no movement")
	}
}

func TestShiftWordAcrossLines(t *testing.T) {
	s := buffer.New("alpha\n  beta")
	hl := syntax.NewPlain()
	hl.Update(s.Lines())

	c := newCursor(t, s, 0, 5)
	if !c.ShiftWordRight(hl) || c.Position() != pos(1, 2) {
		t.Errorf("expected (C:2, L:1), got %v", c.Position())
	}
	if !c.ShiftWordLeft(hl) || c.Position() != pos(0, 0) {
		t.Errorf("expected (C:0, L:0), got %v", c.Position())
	}
}

func TestShiftWordInverse(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lines := rapid.SliceOfN(rapid.StringMatching(`[a-z0-9_ ;\[\]=/.]{0,12}`), 1, 4).Draw(t, "lines")
		s := buffer.New("")
		h := s.First()
		for i, line := range lines {
			if i > 0 {
				h = s.AddLast("")
			}
			if err := s.InsertText(h, 0, line); err != nil {
				t.Fatal(err)
			}
		}

		offsets := buffer.NewOffsets(s.Lines())
		index := rapid.IntRange(0, offsets.Len()).Draw(t, "index")
		p, err := offsets.Position(index)
		if err != nil {
			t.Fatal(err)
		}
		c, err := New(s, p)
		if err != nil {
			t.Fatal(err)
		}

		c.ShiftWordLeft(nil)
		c.ShiftWordRight(nil)

		back, err := offsets.Index(c.Position())
		if err != nil {
			t.Fatal(err)
		}
		if back < index {
			t.Fatalf("word left then right moved from %d back to %d", index, back)
		}
	})
}

func TestInsertTextAndLineBreak(t *testing.T) {
	s := buffer.New("hello")
	c := newCursor(t, s, 0, 2)

	a, err := c.InsertText("XY")
	if err != nil {
		t.Fatal(err)
	}
	if s.String() != "heXYllo" || c.Position() != pos(0, 4) {
		t.Errorf("unexpected state %q %v", s.String(), c.Position())
	}
	if a.Kind != history.InsertCharacter || a.At != pos(0, 2) || a.Text != "XY" {
		t.Errorf("unexpected action %v", a)
	}

	a, err = c.InsertLineBreak()
	if err != nil {
		t.Fatal(err)
	}
	if s.String() != "heXY\nllo" || c.Position() != pos(1, 0) {
		t.Errorf("unexpected state %q %v", s.String(), c.Position())
	}
	if a.Kind != history.InsertLineBreak || a.At != pos(0, 4) {
		t.Errorf("unexpected action %v", a)
	}
}

func TestRemoveCharacterBefore(t *testing.T) {
	s := buffer.New("ab\ncd")

	c := newCursor(t, s, 1, 1)
	a, ok, err := c.RemoveCharacterBefore()
	if err != nil || !ok {
		t.Fatalf("unexpected result %v %v", ok, err)
	}
	if s.String() != "ab\nd" || a.Text != "c" || a.At != pos(1, 0) {
		t.Errorf("unexpected state %q %v", s.String(), a)
	}

	a, ok, err = c.RemoveCharacterBefore()
	if err != nil || !ok {
		t.Fatalf("unexpected result %v %v", ok, err)
	}
	if s.String() != "abd" || c.Position() != pos(0, 2) {
		t.Errorf("unexpected state %q %v", s.String(), c.Position())
	}
	if a.Kind != history.DeleteLineBreak || a.At != pos(0, 2) {
		t.Errorf("unexpected action %v", a)
	}

	start := newCursor(t, s, 0, 0)
	if _, ok, err := start.RemoveCharacterBefore(); ok || err != nil {
		t.Errorf("backspace at document start should be a no-op, got %v %v", ok, err)
	}
}

func TestRemoveCharacterAfter(t *testing.T) {
	s := buffer.New("ab\ncd")

	c := newCursor(t, s, 0, 2)
	a, ok, err := c.RemoveCharacterAfter()
	if err != nil || !ok {
		t.Fatalf("unexpected result %v %v", ok, err)
	}
	if s.String() != "abcd" || c.Position() != pos(0, 2) {
		t.Errorf("unexpected state %q %v", s.String(), c.Position())
	}
	if a.Kind != history.DeleteLineBreak || a.At != pos(0, 2) {
		t.Errorf("unexpected action %v", a)
	}

	end := newCursor(t, s, 0, 4)
	if _, ok, err := end.RemoveCharacterAfter(); ok || err != nil {
		t.Errorf("delete at document end should be a no-op, got %v %v", ok, err)
	}
}

func TestDecreaseIndent(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"single space", " ", "", true},
		{"empty", "", "", false},
		{"no indent", "x", "x", false},
		{"tab", "\t\tx", "\tx", true},
		{"wide spaces", "      x", "  x", true},
		{"short spaces", "  x", "x", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := buffer.New(tt.text)
			c := newCursor(t, s, 0, s.RuneLen(s.First()))

			_, ok, err := c.DecreaseIndent(4)
			if err != nil {
				t.Fatal(err)
			}
			if ok != tt.ok || s.String() != tt.want {
				t.Errorf("expected %q (%v), got %q (%v)", tt.want, tt.ok, s.String(), ok)
			}
			if c.Column() < 0 || c.Column() > s.RuneLen(s.First()) {
				t.Errorf("column %d out of line", c.Column())
			}
		})
	}
}

func TestDecreaseIndentIdempotent(t *testing.T) {
	s := buffer.New("  ")
	c := newCursor(t, s, 0, 2)

	for i := 0; i < 3; i++ {
		if _, _, err := c.DecreaseIndent(4); err != nil {
			t.Fatal(err)
		}
		if s.String() != "" || c.Column() != 0 {
			t.Fatalf("pass %d: expected empty line at column 0, got %q %d", i, s.String(), c.Column())
		}
	}
}

func TestPartialIncreaseIndent(t *testing.T) {
	s := buffer.New("ab")
	c := newCursor(t, s, 0, 0)

	a, ok, err := c.PartialIncreaseIndent(3)
	if err != nil || !ok {
		t.Fatalf("unexpected result %v %v", ok, err)
	}
	if s.String() != "   ab" || a.Kind != history.InsertTab {
		t.Errorf("unexpected state %q %v", s.String(), a)
	}
	if _, ok, _ := c.PartialIncreaseIndent(0); ok {
		t.Error("zero width indent should be a no-op")
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		text string
		at   buffer.Position
		edit func(s *buffer.Store)
		want buffer.Position
	}{
		{"insert before", "abcdef", pos(0, 3), func(s *buffer.Store) { _ = s.InsertText(s.First(), 1, "XY") }, pos(0, 5)},
		{"insert at", "abcdef", pos(0, 3), func(s *buffer.Store) { _ = s.InsertText(s.First(), 3, "XY") }, pos(0, 5)},
		{"insert after", "abcdef", pos(0, 3), func(s *buffer.Store) { _ = s.InsertText(s.First(), 4, "XY") }, pos(0, 3)},
		{"delete covering", "abcdef", pos(0, 3), func(s *buffer.Store) { _, _ = s.DeleteText(s.First(), 2, 3) }, pos(0, 2)},
		{"delete before", "abcdef", pos(0, 3), func(s *buffer.Store) { _, _ = s.DeleteText(s.First(), 0, 2) }, pos(0, 1)},
		{"delete after", "abcdef", pos(0, 3), func(s *buffer.Store) { _, _ = s.DeleteText(s.First(), 3, 2) }, pos(0, 3)},
		{"split before", "abcdef", pos(0, 3), func(s *buffer.Store) { _, _ = s.Split(s.First(), 1) }, pos(1, 2)},
		{"split after", "abcdef", pos(0, 3), func(s *buffer.Store) { _, _ = s.Split(s.First(), 4) }, pos(0, 3)},
		{"join", "ab\ncdef", pos(1, 1), func(s *buffer.Store) { _ = s.Join(s.First()) }, pos(0, 3)},
		{"remove line", "ab\ncd", pos(1, 1), func(s *buffer.Store) { _ = s.Remove(s.Last()) }, pos(0, 2)},
		{"line added above", "ab", pos(0, 1), func(s *buffer.Store) { s.AddFirst("new") }, pos(1, 1)},
		{"swap", "ab\ncd", pos(0, 1), func(s *buffer.Store) { _ = s.SwapWithNext(s.First()) }, pos(1, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := buffer.New(tt.text)
			c, err := New(s, tt.at)
			if err != nil {
				t.Fatal(err)
			}
			s.Subscribe(c.Apply)

			tt.edit(s)
			if !c.Valid() {
				t.Fatal("cursor should stay valid")
			}
			if c.Position() != tt.want {
				t.Errorf("expected %v, got %v", tt.want, c.Position())
			}
		})
	}
}

func TestStaleCursor(t *testing.T) {
	s := buffer.New("ab\ncd")
	c := newCursor(t, s, 1, 1)
	if err := s.Remove(s.Last()); err != nil {
		t.Fatal(err)
	}

	if c.Valid() {
		t.Error("unsubscribed cursor on a removed line must be invalid")
	}
	if _, err := c.InsertText("x"); err == nil {
		t.Error("expected error inserting through a stale cursor")
	}
}
