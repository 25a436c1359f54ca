// Package history keeps a linear undo/redo stack of whole-surface snapshots.
//
// Entry 0 is the blank surface. Every commit appends the post-commit state,
// so N commits produce N+1 entries and undoing all of them lands on blank.
package history

import (
	"fmt"
	"image"
)

// Snapshot is an opaque saved surface state.
type Snapshot struct {
	data  []byte
	codec string
	size  image.Point
}

// Bytes reports the encoded size of the snapshot.
func (s Snapshot) Bytes() int { return len(s.data) }

// Manager owns the snapshot stack and its cursor.
// The zero value is not usable; call New.
type Manager struct {
	codec   Codec
	entries []Snapshot
	index   int
	limit   int
}

// Option configures a Manager.
type Option func(*Manager)

// WithLimit bounds the number of retained entries. Values below 2 mean no
// limit.
func WithLimit(n int) Option {
	return func(m *Manager) {
		if n >= 2 {
			m.limit = n
		}
	}
}

// New creates a Manager whose only entry is blank.
func New(codec Codec, blank *image.RGBA, opts ...Option) (*Manager, error) {
	if codec == nil {
		codec = PNGCodec{}
	}
	m := &Manager{codec: codec}
	for _, o := range opts {
		o(m)
	}
	if err := m.Reset(blank); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) snapshot(img *image.RGBA) (Snapshot, error) {
	data, err := m.codec.Encode(img)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{data: data, codec: m.codec.Name(), size: img.Rect.Size()}, nil
}

// Record appends the state of img. Entries past the cursor are discarded
// first, so a draw after undo drops the redo branch.
func (m *Manager) Record(img *image.RGBA) error {
	s, err := m.snapshot(img)
	if err != nil {
		return err
	}
	m.entries = append(m.entries[:m.index+1], s)
	m.index = len(m.entries) - 1
	if m.limit > 0 && len(m.entries) > m.limit {
		drop := len(m.entries) - m.limit
		m.entries = append([]Snapshot(nil), m.entries[drop:]...)
		m.index -= drop
	}
	return nil
}

// Undo moves the cursor back one entry and paints that state into dst. It
// returns false without touching dst when already at the oldest entry.
func (m *Manager) Undo(dst *image.RGBA) (bool, error) {
	if !m.CanUndo() {
		return false, nil
	}
	if err := m.restore(m.index-1, dst); err != nil {
		return false, err
	}
	m.index--
	return true, nil
}

// Redo moves the cursor forward one entry and paints that state into dst. It
// returns false without touching dst when already at the newest entry.
func (m *Manager) Redo(dst *image.RGBA) (bool, error) {
	if !m.CanRedo() {
		return false, nil
	}
	if err := m.restore(m.index+1, dst); err != nil {
		return false, err
	}
	m.index++
	return true, nil
}

// Restore paints the entry under the cursor into dst.
func (m *Manager) Restore(dst *image.RGBA) error { return m.restore(m.index, dst) }

func (m *Manager) restore(i int, dst *image.RGBA) error {
	s := m.entries[i]
	if s.size != dst.Rect.Size() {
		return fmt.Errorf("history entry %d: size %v does not match surface %v", i, s.size, dst.Rect.Size())
	}
	if err := m.codec.Decode(s.data, dst); err != nil {
		return fmt.Errorf("history entry %d: %w", i, err)
	}
	return nil
}

// Reset collapses the stack to a single entry holding blank.
func (m *Manager) Reset(blank *image.RGBA) error {
	s, err := m.snapshot(blank)
	if err != nil {
		return err
	}
	m.entries = []Snapshot{s}
	m.index = 0
	return nil
}

// CanUndo reports whether an older entry exists.
func (m *Manager) CanUndo() bool { return m.index > 0 }

// CanRedo reports whether a newer entry exists.
func (m *Manager) CanRedo() bool { return m.index < len(m.entries)-1 }

// Len returns the number of entries.
func (m *Manager) Len() int { return len(m.entries) }

// Index returns the cursor position.
func (m *Manager) Index() int { return m.index }

// Current returns the snapshot under the cursor.
func (m *Manager) Current() Snapshot { return m.entries[m.index] }

// Codec returns the storage encoding in use.
func (m *Manager) Codec() Codec { return m.codec }
