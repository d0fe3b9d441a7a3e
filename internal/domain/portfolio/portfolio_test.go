package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/folio/internal/domain/block"
	"github.com/khoahotran/folio/internal/domain/vote"
)

func TestNewDraft_Defaults(t *testing.T) {
	p := NewDraft("u1")

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, DefaultTitle, p.Title)
	assert.Equal(t, DefaultTagline, p.Tagline)
	assert.Equal(t, DefaultDescription, p.Description)
	assert.Equal(t, DefaultThumbnail, p.Thumbnail)
	assert.Empty(t, p.Blocks)
	assert.Empty(t, p.SocialLinks)
	assert.Empty(t, p.Votes)
	assert.NoError(t, p.Validate())
}

func TestNewDraft_PlaceholderOwner(t *testing.T) {
	a, b := NewDraft(""), NewDraft("")
	assert.NotEmpty(t, a.UserID)
	assert.NotEqual(t, a.UserID, b.UserID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestWithField_LeavesSiblingsAlone(t *testing.T) {
	p := NewDraft("u1")
	p.Blocks, _ = p.Blocks.Add(block.TypeText)
	p.Blocks, _ = p.Blocks.Add(block.TypeImage)
	order := p.Blocks.IDs()

	edited, err := p.WithField(FieldTitle, "Jane's work")
	require.NoError(t, err)

	assert.Equal(t, "Jane's work", edited.Title)
	assert.Equal(t, p.Tagline, edited.Tagline)
	assert.Equal(t, order, edited.Blocks.IDs())
	assert.Equal(t, DefaultTitle, p.Title, "receiver unchanged")
}

func TestWithField_Unknown(t *testing.T) {
	_, err := NewDraft("u1").WithField("votes", "x")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestClone_IsDeep(t *testing.T) {
	p := NewDraft("u1")
	p.Votes = p.Votes.Cast("u2", vote.Upvote)

	c := p.Clone()
	c.Votes[0].VoteType = vote.Downvote

	assert.Equal(t, vote.Upvote, p.Votes[0].VoteType)
}

func TestValidate(t *testing.T) {
	p := NewDraft("u1")
	p.ID = ""
	assert.ErrorIs(t, p.Validate(), ErrMissingID)

	p = NewDraft("u1")
	p.UserID = ""
	assert.ErrorIs(t, p.Validate(), ErrMissingOwner)

	p = NewDraft("u1")
	long := make([]rune, MaxTitleLength+1)
	for i := range long {
		long[i] = 'x'
	}
	p.Title = string(long)
	assert.ErrorIs(t, p.Validate(), ErrTitleTooLong)

	p = NewDraft("u1")
	p.Blocks = block.Sequence{{ID: "b", Type: "video", Width: block.WidthFull, Align: block.AlignLeft}}
	assert.ErrorIs(t, p.Validate(), block.ErrInvalidType)

	p = NewDraft("u1")
	p.Votes = vote.Ledger{{UserID: "u1", VoteType: vote.Upvote}, {UserID: "u1", VoteType: vote.Upvote}}
	assert.ErrorIs(t, p.Validate(), vote.ErrDuplicateVote)

	p = NewDraft("u1")
	p.Votes = vote.Ledger{{UserID: "u2", VoteType: "meh"}}
	assert.ErrorIs(t, p.Validate(), vote.ErrInvalidType)
}

func TestSocialLinks(t *testing.T) {
	var l SocialLinks
	l, first := l.Add()
	l, second := l.Add()

	l, err := l.Update(first.ID, LinkFieldPlatform, "github")
	require.NoError(t, err)
	l, err = l.Update(first.ID, LinkFieldURL, "https://github.com/jane")
	require.NoError(t, err)

	assert.Equal(t, SocialLink{ID: first.ID, Platform: "github", URL: "https://github.com/jane"}, l[0])
	assert.Equal(t, second.ID, l[1].ID)

	_, err = l.Update(first.ID, "icon", "x")
	assert.ErrorIs(t, err, ErrUnknownField)

	l = l.Remove(first.ID)
	require.Len(t, l, 1)
	assert.Equal(t, second.ID, l[0].ID)
	assert.NoError(t, l.Validate())

	dup := SocialLinks{{ID: "x"}, {ID: "x"}}
	assert.ErrorIs(t, dup.Validate(), ErrDuplicateLink)
}

func TestSharePath(t *testing.T) {
	p := Portfolio{ID: "p1", UserID: "u1"}
	assert.Equal(t, "/portfolio/p1/u1", p.SharePath())
}
