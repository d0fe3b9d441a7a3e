package block

import (
	"fmt"
	"slices"
)

type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

func (d Direction) Valid() bool {
	return d == DirectionUp || d == DirectionDown
}

// Sequence is the ordered block collection of a portfolio. Every operation
// returns a new slice and leaves the receiver untouched, so a caller holding
// an older value never observes a change.
type Sequence []Block

func (s Sequence) clone() Sequence {
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

func (s Sequence) IndexOf(id string) int {
	return slices.IndexFunc(s, func(b Block) bool { return b.ID == id })
}

func (s Sequence) IDs() []string {
	ids := make([]string, len(s))
	for i, b := range s {
		ids[i] = b.ID
	}
	return ids
}

// Add appends a new block of type t.
func (s Sequence) Add(t Type) (Sequence, Block) {
	b := New(t)
	out := make(Sequence, len(s), len(s)+1)
	copy(out, s)
	return append(out, b), b
}

// Append adds an already built block, used when restoring or importing content.
func (s Sequence) Append(b Block) Sequence {
	out := make(Sequence, len(s), len(s)+1)
	copy(out, s)
	return append(out, b.Normalize())
}

func (s Sequence) modify(id string, fn func(*Block)) Sequence {
	out := s.clone()
	if i := out.IndexOf(id); i >= 0 {
		fn(&out[i])
	}
	return out
}

func (s Sequence) Update(id, content string) Sequence {
	return s.modify(id, func(b *Block) { b.Content = content })
}

func (s Sequence) UpdateWidth(id string, w Width) Sequence {
	return s.modify(id, func(b *Block) { b.Width = w })
}

func (s Sequence) UpdateAlign(id string, a Align) Sequence {
	return s.modify(id, func(b *Block) { b.Align = a })
}

func (s Sequence) Remove(id string) Sequence {
	out := make(Sequence, 0, len(s))
	for _, b := range s {
		if b.ID != id {
			out = append(out, b)
		}
	}
	return out
}

// MoveAdjacent swaps the block with its neighbour in the given direction.
// Blocks already at the boundary, and unknown ids, are left in place.
func (s Sequence) MoveAdjacent(id string, d Direction) Sequence {
	i := s.IndexOf(id)
	switch {
	case i < 0:
		return s.clone()
	case d == DirectionUp && i > 0:
		return s.Reorder(i, i-1)
	case d == DirectionDown && i < len(s)-1:
		return s.Reorder(i, i+1)
	}
	return s.clone()
}

// Reorder removes the block at source and reinserts it at target.
func (s Sequence) Reorder(source, target int) Sequence {
	out := s.clone()
	if source == target || source < 0 || target < 0 || source >= len(s) || target >= len(s) {
		return out
	}
	moved := out[source]
	out = slices.Delete(out, source, source+1)
	return slices.Insert(out, target, moved)
}

func (s Sequence) Validate() error {
	seen := make(map[string]struct{}, len(s))
	for i, b := range s {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
		if _, dup := seen[b.ID]; dup {
			return fmt.Errorf("block %d: %w: %s", i, ErrDuplicateID, b.ID)
		}
		seen[b.ID] = struct{}{}
	}
	return nil
}
