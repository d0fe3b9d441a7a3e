package http

import (
	"fmt"
	"time"

	"github.com/khoahotran/folio/internal/application/editor"
	portfolioUC "github.com/khoahotran/folio/internal/application/usecase/portfolio"
	"github.com/khoahotran/folio/internal/domain/block"
	"github.com/khoahotran/folio/internal/domain/portfolio"
	"github.com/khoahotran/folio/internal/domain/user"
)

// Auth DTOs

type SignUpRequest struct {
	Name     string `json:"name" binding:"required,notblank,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func ToUserDTO(u *user.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

type SessionResponse struct {
	User        UserDTO `json:"user"`
	AccessToken string  `json:"access_token"`
}

// Portfolio DTOs

type BlockRequest struct {
	ID      string `json:"id" binding:"required"`
	Type    string `json:"type" binding:"required,oneof=text heading1 heading2 image link"`
	Content string `json:"content"`
	Width   string `json:"width" binding:"omitempty,oneof=full medium small"`
	Align   string `json:"align" binding:"omitempty,oneof=left center right"`
}

type SocialLinkRequest struct {
	ID       string `json:"id" binding:"required"`
	Platform string `json:"platform" binding:"max=50"`
	URL      string `json:"url" binding:"omitempty,url"`
}

type SavePortfolioRequest struct {
	Title       string              `json:"title" binding:"max=200"`
	Tagline     string              `json:"tagline" binding:"max=300"`
	Description string              `json:"description"`
	Thumbnail   string              `json:"thumbnail"`
	SocialLinks []SocialLinkRequest `json:"social_links" binding:"dive"`
	Blocks      []BlockRequest      `json:"blocks" binding:"dive"`
}

func (r *SavePortfolioRequest) ToDomain(id string) portfolio.Portfolio {
	p := portfolio.Portfolio{
		ID:          id,
		Title:       r.Title,
		Tagline:     r.Tagline,
		Description: r.Description,
		Thumbnail:   r.Thumbnail,
		SocialLinks: make(portfolio.SocialLinks, len(r.SocialLinks)),
		Blocks:      make(block.Sequence, len(r.Blocks)),
	}
	for i, l := range r.SocialLinks {
		p.SocialLinks[i] = portfolio.SocialLink{ID: l.ID, Platform: l.Platform, URL: l.URL}
	}
	for i, b := range r.Blocks {
		p.Blocks[i] = block.Block{
			ID:      b.ID,
			Type:    block.Type(b.Type),
			Content: b.Content,
			Width:   block.Width(b.Width),
			Align:   block.Align(b.Align),
		}
	}
	return p
}

const (
	OpSetField         = "set_field"
	OpAddBlock         = "add_block"
	OpUpdateBlock      = "update_block"
	OpSetBlockWidth    = "set_block_width"
	OpSetBlockAlign    = "set_block_align"
	OpRemoveBlock      = "remove_block"
	OpMoveBlock        = "move_block"
	OpDropBlock        = "drop_block"
	OpReorderBlock     = "reorder_block"
	OpAddSocialLink    = "add_social_link"
	OpUpdateSocialLink = "update_social_link"
	OpRemoveSocialLink = "remove_social_link"
)

// CommandRequest is one editor action. Which of the optional fields are read
// depends on Op.
type CommandRequest struct {
	Op        string `json:"op" binding:"required,oneof=set_field add_block update_block set_block_width set_block_align remove_block move_block drop_block reorder_block add_social_link update_social_link remove_social_link"`
	ID        string `json:"id"`
	Field     string `json:"field"`
	Value     string `json:"value"`
	Type      string `json:"type"`
	Width     string `json:"width"`
	Align     string `json:"align"`
	Direction string `json:"direction"`
	ActiveID  string `json:"active_id"`
	OverID    string `json:"over_id"`
	Source    *int   `json:"source"`
	Target    *int   `json:"target"`
}

type EditPortfolioRequest struct {
	Commands []CommandRequest `json:"commands" binding:"required,min=1,max=100,dive"`
}

func (r CommandRequest) ToCommand() (editor.Command, error) {
	switch r.Op {
	case OpSetField:
		return editor.SetField{Field: portfolio.Field(r.Field), Value: r.Value}, nil
	case OpAddBlock:
		return editor.AddBlock{Type: block.Type(r.Type)}, nil
	case OpUpdateBlock:
		return editor.UpdateBlock{ID: r.ID, Content: r.Value}, nil
	case OpSetBlockWidth:
		return editor.SetBlockWidth{ID: r.ID, Width: block.Width(r.Width)}, nil
	case OpSetBlockAlign:
		return editor.SetBlockAlign{ID: r.ID, Align: block.Align(r.Align)}, nil
	case OpRemoveBlock:
		return editor.RemoveBlock{ID: r.ID}, nil
	case OpMoveBlock:
		return editor.MoveBlock{ID: r.ID, Direction: block.Direction(r.Direction)}, nil
	case OpDropBlock:
		return editor.DropBlock{Event: block.DragEvent{ActiveID: r.ActiveID, OverID: r.OverID}}, nil
	case OpReorderBlock:
		if r.Source == nil || r.Target == nil {
			return nil, fmt.Errorf("%s needs source and target", r.Op)
		}
		return editor.ReorderBlock{Source: *r.Source, Target: *r.Target}, nil
	case OpAddSocialLink:
		return editor.AddSocialLink{}, nil
	case OpUpdateSocialLink:
		return editor.UpdateSocialLink{ID: r.ID, Field: portfolio.LinkField(r.Field), Value: r.Value}, nil
	case OpRemoveSocialLink:
		return editor.RemoveSocialLink{ID: r.ID}, nil
	}
	return nil, fmt.Errorf("unknown op %q", r.Op)
}

func (r *EditPortfolioRequest) ToCommands() ([]editor.Command, error) {
	cmds := make([]editor.Command, 0, len(r.Commands))
	for i, req := range r.Commands {
		cmd, err := req.ToCommand()
		if err != nil {
			return nil, fmt.Errorf("command %d: %w", i, err)
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

type VoteRequest struct {
	VoteType string `json:"vote_type" binding:"required,oneof=upvote downvote"`
}

type ListPortfoliosQuery struct {
	Q      string `form:"q" binding:"max=100"`
	UserID string `form:"user_id"`
	Page   int    `form:"page,default=1" binding:"min=1"`
	Limit  int    `form:"limit,default=20" binding:"min=0,max=100"`
}

type TallyDTO struct {
	Upvotes         int    `json:"upvotes"`
	Downvotes       int    `json:"downvotes"`
	CurrentUserVote string `json:"current_user_vote"`
}

type PortfolioDTO struct {
	ID          string                 `json:"id"`
	UserID      string                 `json:"user_id"`
	Title       string                 `json:"title"`
	Tagline     string                 `json:"tagline"`
	Description string                 `json:"description"`
	Thumbnail   string                 `json:"thumbnail"`
	SocialLinks []portfolio.SocialLink `json:"social_links"`
	Blocks      []block.Block          `json:"blocks"`
	Votes       TallyDTO               `json:"votes"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

type PortfolioSummaryDTO struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Tagline   string    `json:"tagline"`
	Thumbnail string    `json:"thumbnail"`
	Upvotes   int       `json:"upvotes"`
	Downvotes int       `json:"downvotes"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToTallyDTO(v *portfolioUC.View) TallyDTO {
	return TallyDTO{
		Upvotes:         v.Tally.Upvotes,
		Downvotes:       v.Tally.Downvotes,
		CurrentUserVote: string(v.CurrentUserVote),
	}
}

func ToPortfolioDTO(v *portfolioUC.View) PortfolioDTO {
	p := v.Portfolio
	return PortfolioDTO{
		ID:          p.ID,
		UserID:      p.UserID,
		Title:       p.Title,
		Tagline:     p.Tagline,
		Description: p.Description,
		Thumbnail:   p.Thumbnail,
		SocialLinks: append([]portfolio.SocialLink{}, p.SocialLinks...),
		Blocks:      append([]block.Block{}, p.Blocks...),
		Votes:       ToTallyDTO(v),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToPortfolioSummaryDTO(p *portfolio.Portfolio) PortfolioSummaryDTO {
	t := p.Tally()
	return PortfolioSummaryDTO{
		ID:        p.ID,
		UserID:    p.UserID,
		Title:     p.Title,
		Tagline:   p.Tagline,
		Thumbnail: p.Thumbnail,
		Upvotes:   t.Upvotes,
		Downvotes: t.Downvotes,
		UpdatedAt: p.UpdatedAt,
	}
}
