package appstate

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/mobile/event/key"

	"github.com/example/doodlepad/internal/tools"
)

// KeyShortcut describes a keyboard combination that triggers an action.
// Shortcuts with a Rune match the produced character regardless of Shift;
// shortcuts with a Code match the physical key with exactly Modifiers held.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

func (s KeyShortcut) String() string {
	var parts []string
	if s.Modifiers&key.ModControl != 0 {
		parts = append(parts, "ctrl")
	}
	if s.Modifiers&key.ModAlt != 0 {
		parts = append(parts, "alt")
	}
	if s.Modifiers&key.ModShift != 0 {
		parts = append(parts, "shift")
	}
	switch {
	case s.Rune != 0:
		parts = append(parts, string(s.Rune))
	default:
		parts = append(parts, codeName(s.Code))
	}
	return strings.Join(parts, "+")
}

// Binding ties an action to its shortcuts.
type Binding struct {
	Action string
	Keys   []KeyShortcut
	// Accessible bindings only fire while keyboard pen control is on.
	Accessible bool
	run        func(*Engine) error
}

// Bindings returns the keyboard map.
func Bindings() []Binding { return append([]Binding(nil), bindings...) }

var bindings = defaultBindings()

var (
	codeIndex = map[KeyShortcut]int{}
	runeIndex = map[rune]int{}
)

func init() {
	for i, b := range bindings {
		for _, k := range b.Keys {
			if k.Rune != 0 {
				runeIndex[k.Rune] = i
			} else {
				codeIndex[k] = i
			}
		}
	}
}

func selectTool(t tools.Tool) func(*Engine) error {
	return func(e *Engine) error { e.SelectTool(t); return nil }
}

func selectShape(s tools.Shape) func(*Engine) error {
	return func(e *Engine) error { e.SelectShape(s); return nil }
}

func movePen(dx, dy int, large bool) func(*Engine) error {
	return func(e *Engine) error {
		step := e.penStep
		if large {
			step = e.penStepLarge
		}
		return e.MovePen(dx*step, dy*step)
	}
}

func defaultBindings() []Binding {
	bs := []Binding{
		{Action: "undo", Keys: []KeyShortcut{{Code: key.CodeZ, Modifiers: key.ModControl}}, run: (*Engine).Undo},
		{Action: "redo", Keys: []KeyShortcut{
			{Code: key.CodeZ, Modifiers: key.ModControl | key.ModShift},
			{Code: key.CodeY, Modifiers: key.ModControl},
		}, run: (*Engine).Redo},
		{Action: "save", Keys: []KeyShortcut{{Code: key.CodeS, Modifiers: key.ModControl}}, run: (*Engine).Save},
		{Action: "cancel", Keys: []KeyShortcut{{Code: key.CodeEscape}}, run: func(e *Engine) error { return e.CancelGesture() }},
		{Action: "pencil", Keys: []KeyShortcut{{Rune: 'p'}}, run: selectTool(tools.Pencil)},
		{Action: "brush", Keys: []KeyShortcut{{Rune: 'b'}}, run: selectTool(tools.Brush)},
		{Action: "eraser", Keys: []KeyShortcut{{Rune: 'e'}}, run: selectTool(tools.Eraser)},
		{Action: "text", Keys: []KeyShortcut{{Rune: 't'}}, run: selectTool(tools.Text)},
		{Action: "shapes", Keys: []KeyShortcut{{Rune: 's'}}, run: selectTool(tools.Shapes)},
		{Action: "line", Keys: []KeyShortcut{{Rune: 'l'}}, run: selectShape(tools.Line)},
		{Action: "rectangle", Keys: []KeyShortcut{{Rune: 'r'}}, run: selectShape(tools.Rectangle)},
		{Action: "circle", Keys: []KeyShortcut{{Rune: 'c'}}, run: selectShape(tools.Circle)},
		{Action: "triangle", Keys: []KeyShortcut{{Rune: 'v'}}, run: selectShape(tools.Triangle)},
		{Action: "accessibility", Keys: []KeyShortcut{{Rune: 'a'}}, run: func(e *Engine) error { return e.SetAccessible(!e.accessible) }},
	}
	for i := 0; i < 9; i++ {
		idx := i
		bs = append(bs, Binding{
			Action: fmt.Sprintf("thickness-%d", i+1),
			Keys:   []KeyShortcut{{Rune: rune('1' + i)}},
			run:    func(e *Engine) error { e.SelectThicknessIndex(idx); return nil },
		})
	}
	arrows := []struct {
		name   string
		code   key.Code
		dx, dy int
	}{
		{"left", key.CodeLeftArrow, -1, 0},
		{"right", key.CodeRightArrow, 1, 0},
		{"up", key.CodeUpArrow, 0, -1},
		{"down", key.CodeDownArrow, 0, 1},
	}
	for _, a := range arrows {
		bs = append(bs,
			Binding{Action: "pen-" + a.name, Keys: []KeyShortcut{{Code: a.code}}, Accessible: true, run: movePen(a.dx, a.dy, false)},
			Binding{Action: "pen-" + a.name + "-far", Keys: []KeyShortcut{{Code: a.code, Modifiers: key.ModShift}}, Accessible: true, run: movePen(a.dx, a.dy, true)},
		)
	}
	bs = append(bs, Binding{Action: "pen-toggle", Keys: []KeyShortcut{{Code: key.CodeSpacebar}}, Accessible: true, run: (*Engine).TogglePen})
	return bs
}

// HandleKey applies a key event and reports whether it was consumed. While
// text is being composed, unmodified keys edit the text; Enter commits and
// Escape cancels.
func (e *Engine) HandleKey(k key.Event) (bool, error) {
	if k.Direction == key.DirRelease {
		return false, nil
	}
	if e.composing(k) {
		return e.composeKey(k)
	}
	b, ok := e.lookup(k)
	if !ok {
		return false, nil
	}
	return true, b.run(e)
}

// KeyAction names the binding k would run, or returns false when k is
// unbound or edits the pending text.
func (e *Engine) KeyAction(k key.Event) (string, bool) {
	if k.Direction == key.DirRelease || e.composing(k) {
		return "", false
	}
	b, ok := e.lookup(k)
	return b.Action, ok
}

func keyMods(k key.Event) key.Modifiers {
	mods := k.Modifiers & (key.ModShift | key.ModControl | key.ModAlt | key.ModMeta)
	if mods&key.ModMeta != 0 {
		mods = mods&^key.ModMeta | key.ModControl
	}
	return mods
}

func (e *Engine) composing(k key.Event) bool {
	return e.text != nil && keyMods(k)&(key.ModControl|key.ModAlt) == 0
}

func (e *Engine) lookup(k key.Event) (Binding, bool) {
	mods := keyMods(k)
	idx, ok := codeIndex[KeyShortcut{Code: k.Code, Modifiers: mods}]
	if !ok && k.Rune > 0 && mods&(key.ModControl|key.ModAlt) == 0 {
		idx, ok = runeIndex[unicode.ToLower(k.Rune)]
	}
	if !ok {
		return Binding{}, false
	}
	b := bindings[idx]
	if b.Accessible && !e.accessible {
		return Binding{}, false
	}
	return b, true
}

func (e *Engine) composeKey(k key.Event) (bool, error) {
	switch k.Code {
	case key.CodeReturnEnter, key.CodeKeypadEnter:
		return true, e.CommitText()
	case key.CodeEscape:
		e.CancelText()
		return true, nil
	case key.CodeDeleteBackspace:
		e.Backspace()
		return true, nil
	}
	if k.Rune > 0 && e.TypeRune(k.Rune) {
		return true, nil
	}
	return false, nil
}

// CancelGesture abandons a stroke or shape drag in progress and restores the
// last committed surface. The release that follows is ignored.
func (e *Engine) CancelGesture() error {
	if !e.gesture.active {
		return nil
	}
	e.gesture = gesture{}
	e.vpen.down = false
	e.mode = ModeIdle
	if err := e.history.Restore(e.surface); err != nil {
		return fmt.Errorf("cancel: %w", err)
	}
	e.announce("cancelled")
	return nil
}

// ParseShortcut parses forms like "ctrl+shift+z", "p" or "space".
func ParseShortcut(s string) (key.Event, error) {
	ev := key.Event{Direction: key.DirPress}
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")
	for _, p := range parts[:len(parts)-1] {
		switch p {
		case "ctrl", "control", "cmd", "meta":
			ev.Modifiers |= key.ModControl
		case "shift":
			ev.Modifiers |= key.ModShift
		case "alt":
			ev.Modifiers |= key.ModAlt
		default:
			return key.Event{}, fmt.Errorf("unknown modifier %q", p)
		}
	}
	last := parts[len(parts)-1]
	for code, name := range codeNames {
		if name == last {
			ev.Code = code
			if code == key.CodeSpacebar {
				ev.Rune = ' '
			}
			return ev, nil
		}
	}
	r := []rune(last)
	if len(r) != 1 {
		return key.Event{}, fmt.Errorf("unknown key %q", last)
	}
	ev.Rune = r[0]
	if r[0] >= 'a' && r[0] <= 'z' {
		ev.Code = key.CodeA + key.Code(r[0]-'a')
	}
	if ev.Modifiers&key.ModShift != 0 {
		ev.Rune = unicode.ToUpper(ev.Rune)
	}
	return ev, nil
}

var codeNames = map[key.Code]string{
	key.CodeReturnEnter:     "enter",
	key.CodeEscape:          "escape",
	key.CodeDeleteBackspace: "backspace",
	key.CodeSpacebar:        "space",
	key.CodeLeftArrow:       "left",
	key.CodeRightArrow:      "right",
	key.CodeUpArrow:         "up",
	key.CodeDownArrow:       "down",
}

func codeName(c key.Code) string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	if c >= key.CodeA && c <= key.CodeZ {
		return string(rune('a' + (c - key.CodeA)))
	}
	return c.String()
}
