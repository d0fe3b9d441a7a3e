package portfolio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/folio/internal/domain/block"
	"github.com/khoahotran/folio/internal/domain/vote"
)

const (
	DefaultTitle       = "New Portfolio"
	DefaultTagline     = "Your Tagline Here"
	DefaultDescription = "Describe your portfolio..."
	DefaultThumbnail   = block.PlaceholderImage

	MaxTitleLength = 200
)

// Portfolio is the aggregate root: it owns its blocks, social links and votes.
// UserID only points at the creator.
type Portfolio struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	Title       string         `json:"title"`
	Tagline     string         `json:"tagline"`
	Description string         `json:"description"`
	Thumbnail   string         `json:"thumbnail"`
	SocialLinks SocialLinks    `json:"social_links"`
	Blocks      block.Sequence `json:"blocks"`
	Votes       vote.Ledger    `json:"votes"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

var (
	ErrMissingID     = errors.New("portfolio id is required")
	ErrMissingOwner  = errors.New("portfolio owner is required")
	ErrTitleTooLong  = fmt.Errorf("title must be at most %d characters", MaxTitleLength)
	ErrUnknownField  = errors.New("unknown portfolio field")
	ErrDuplicateLink = errors.New("duplicate social link id")
)

// NewDraft returns an unsaved portfolio with placeholder content. An empty
// userID gets a generated placeholder.
func NewDraft(userID string) Portfolio {
	if userID == "" {
		userID = uuid.NewString()
	}
	now := time.Now().UTC()
	return Portfolio{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       DefaultTitle,
		Tagline:     DefaultTagline,
		Description: DefaultDescription,
		Thumbnail:   DefaultThumbnail,
		SocialLinks: SocialLinks{},
		Blocks:      block.Sequence{},
		Votes:       vote.Ledger{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Clone copies the aggregate including its collections.
func (p Portfolio) Clone() Portfolio {
	p.SocialLinks = append(SocialLinks{}, p.SocialLinks...)
	p.Blocks = append(block.Sequence{}, p.Blocks...)
	p.Votes = append(vote.Ledger{}, p.Votes...)
	return p
}

func (p *Portfolio) Validate() error {
	if p.ID == "" {
		return ErrMissingID
	}
	if p.UserID == "" {
		return ErrMissingOwner
	}
	if len([]rune(p.Title)) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if err := p.Blocks.Validate(); err != nil {
		return err
	}
	if err := p.Votes.Validate(); err != nil {
		return err
	}
	return p.SocialLinks.Validate()
}

// SharePath is the public page path encoded in share links and QR codes.
func (p Portfolio) SharePath() string {
	return "/portfolio/" + p.ID + "/" + p.UserID
}

func (p Portfolio) Tally() vote.Tally {
	return p.Votes.Tally()
}

// Field names an editable scalar of the aggregate.
type Field string

const (
	FieldTitle       Field = "title"
	FieldTagline     Field = "tagline"
	FieldDescription Field = "description"
	FieldThumbnail   Field = "thumbnail"
)

// WithField returns a copy with one scalar field replaced. Collections are
// shared with the receiver, which is safe because their operations never
// mutate in place.
func (p Portfolio) WithField(f Field, value string) (Portfolio, error) {
	switch f {
	case FieldTitle:
		p.Title = value
	case FieldTagline:
		p.Tagline = value
	case FieldDescription:
		p.Description = value
	case FieldThumbnail:
		p.Thumbnail = value
	default:
		return p, fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	return p, nil
}

func (p Portfolio) WithBlocks(s block.Sequence) Portfolio {
	p.Blocks = s
	return p
}

func (p Portfolio) WithSocialLinks(l SocialLinks) Portfolio {
	p.SocialLinks = l
	return p
}

func (p Portfolio) WithVotes(l vote.Ledger) Portfolio {
	p.Votes = l
	return p
}

type ListFilter struct {
	UserID string
	// Query matches title or tagline, case-insensitively.
	Query  string
	Limit  int
	Offset int
}

// Repository is the persistence gateway for portfolios.
type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]*Portfolio, error)
	FindByID(ctx context.Context, id string) (*Portfolio, error)
	// Upsert inserts p, or replaces the stored portfolio with the same id.
	// On replace the stored votes and CreatedAt are kept: Vote is the only
	// writer of an existing ledger.
	Upsert(ctx context.Context, p *Portfolio) (*Portfolio, error)
	// Delete removes the portfolio. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
	// Vote records userID's vote, replacing any earlier one. It fails with a
	// not-found error when the portfolio does not exist.
	Vote(ctx context.Context, portfolioID, userID string, t vote.Type) (*Portfolio, error)
}
