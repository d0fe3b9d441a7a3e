package editor

import (
	"fmt"

	"github.com/khoahotran/folio/internal/domain/block"
	"github.com/khoahotran/folio/internal/domain/portfolio"
)

// Command is one editor action. Apply returns the edited copy and leaves p
// untouched.
type Command interface {
	Apply(p portfolio.Portfolio) (portfolio.Portfolio, error)
}

type SetField struct {
	Field portfolio.Field
	Value string
}

func (c SetField) Apply(p portfolio.Portfolio) (portfolio.Portfolio, error) {
	return p.WithField(c.Field, c.Value)
}

type AddBlock struct {
	Type block.Type
}

func (c AddBlock) Apply(p portfolio.Portfolio) (portfolio.Portfolio, error) {
	if !c.Type.Valid() {
		return p, fmt.Errorf("%w: %q", block.ErrInvalidType, c.Type)
	}
	seq, _ := p.Blocks.Add(c.Type)
	return p.WithBlocks(seq), nil
}

type UpdateBlock struct {
	ID      string
	Content string
}

func (c UpdateBlock) Apply(p portfolio.Portfolio) (portfolio.Portfolio, error) {
	return p.WithBlocks(p.Blocks.Update(c.ID, c.Content)), nil
}

type SetBlockWidth struct {
	ID    string
	Width block.Width
}

func (c SetBlockWidth) Apply(p portfolio.Portfolio) (portfolio.Portfolio, error) {
	if !c.Width.Valid() {
		return p, fmt.Errorf("%w: %q", block.ErrInvalidWidth, c.Width)
	}
	return p.WithBlocks(p.Blocks.UpdateWidth(c.ID, c.Width)), nil
}

type SetBlockAlign struct {
	ID    string
	Align block.Align
}

func (c SetBlockAlign) Apply(p portfolio.Portfolio) (portfolio.Portfolio, error) {
	if !c.Align.Valid() {
		return p, fmt.Errorf("%w: %q", block.ErrInvalidAlign, c.Align)
	}
	return p.WithBlocks(p.Blocks.UpdateAlign(c.ID, c.Align)), nil
}

type RemoveBlock struct {
	ID string
}

func (c RemoveBlock) Apply(p portfolio.Portfolio) (portfolio.Portfolio, error) {
	return p.WithBlocks(p.Blocks.Remove(c.ID)), nil
}

type MoveBlock struct {
	ID        string
	Direction block.Direction
}

func (c MoveBlock) Apply(p portfolio.Portfolio) (portfolio.Portfolio, error) {
	if !c.Direction.Valid() {
		return p, fmt.Errorf("invalid move direction %q", c.Direction)
	}
	return p.WithBlocks(p.Blocks.MoveAdjacent(c.ID, c.Direction)), nil
}

// DropBlock finishes a drag gesture.
type DropBlock struct {
	Event block.DragEvent
}

func (c DropBlock) Apply(p portfolio.Portfolio) (portfolio.Portfolio, error) {
	return p.WithBlocks(block.ApplyDrag(p.Blocks, c.Event)), nil
}

type ReorderBlock struct {
	Source int
	Target int
}

func (c ReorderBlock) Apply(p portfolio.Portfolio) (portfolio.Portfolio, error) {
	return p.WithBlocks(p.Blocks.Reorder(c.Source, c.Target)), nil
}

type AddSocialLink struct{}

func (AddSocialLink) Apply(p portfolio.Portfolio) (portfolio.Portfolio, error) {
	links, _ := p.SocialLinks.Add()
	return p.WithSocialLinks(links), nil
}

type UpdateSocialLink struct {
	ID    string
	Field portfolio.LinkField
	Value string
}

func (c UpdateSocialLink) Apply(p portfolio.Portfolio) (portfolio.Portfolio, error) {
	links, err := p.SocialLinks.Update(c.ID, c.Field, c.Value)
	if err != nil {
		return p, err
	}
	return p.WithSocialLinks(links), nil
}

type RemoveSocialLink struct {
	ID string
}

func (c RemoveSocialLink) Apply(p portfolio.Portfolio) (portfolio.Portfolio, error) {
	return p.WithSocialLinks(p.SocialLinks.Remove(c.ID)), nil
}
