package block

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type Type string

const (
	TypeText     Type = "text"
	TypeHeading1 Type = "heading1"
	TypeHeading2 Type = "heading2"
	TypeImage    Type = "image"
	TypeLink     Type = "link"
)

type Width string

const (
	WidthFull   Width = "full"
	WidthMedium Width = "medium"
	WidthSmall  Width = "small"
)

type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// PlaceholderImage is the content of a freshly added image block.
const PlaceholderImage = "/placeholder.svg"

var (
	ErrInvalidType  = errors.New("invalid block type")
	ErrInvalidWidth = errors.New("invalid block width")
	ErrInvalidAlign = errors.New("invalid block alignment")
	ErrDuplicateID  = errors.New("duplicate block id")
	ErrMissingID    = errors.New("block id is required")
)

// Block is one content unit of a portfolio page. Content holds plain text,
// an image URL or data URI, or a link URL depending on Type.
type Block struct {
	ID      string `json:"id"`
	Type    Type   `json:"type"`
	Content string `json:"content"`
	Width   Width  `json:"width"`
	Align   Align  `json:"align"`
}

func (t Type) Valid() bool {
	switch t {
	case TypeText, TypeHeading1, TypeHeading2, TypeImage, TypeLink:
		return true
	}
	return false
}

func (w Width) Valid() bool {
	switch w {
	case WidthFull, WidthMedium, WidthSmall:
		return true
	}
	return false
}

func (a Align) Valid() bool {
	switch a {
	case AlignLeft, AlignCenter, AlignRight:
		return true
	}
	return false
}

// New creates a block of the given type with a fresh id and default attributes.
func New(t Type) Block {
	content := ""
	if t == TypeImage {
		content = PlaceholderImage
	}
	return Block{
		ID:      uuid.NewString(),
		Type:    t,
		Content: content,
		Width:   WidthFull,
		Align:   AlignLeft,
	}
}

// Normalize fills empty presentation attributes with their defaults.
func (b Block) Normalize() Block {
	if b.Width == "" {
		b.Width = WidthFull
	}
	if b.Align == "" {
		b.Align = AlignLeft
	}
	return b
}

func (b Block) Validate() error {
	if b.ID == "" {
		return ErrMissingID
	}
	if !b.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, b.Type)
	}
	if !b.Width.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidWidth, b.Width)
	}
	if !b.Align.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidAlign, b.Align)
	}
	return nil
}
