package editor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/folio/adapters/persistence"
	"github.com/khoahotran/folio/internal/domain/block"
	"github.com/khoahotran/folio/internal/domain/portfolio"
	"github.com/khoahotran/folio/internal/domain/vote"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

// failingRepo wraps a real store and fails the writes it is told to.
type failingRepo struct {
	portfolio.Repository
	failUpsert bool
	failDelete bool
}

var errStoreDown = errors.New("store is down")

func (r *failingRepo) Upsert(ctx context.Context, p *portfolio.Portfolio) (*portfolio.Portfolio, error) {
	if r.failUpsert {
		return nil, errStoreDown
	}
	return r.Repository.Upsert(ctx, p)
}

func (r *failingRepo) Delete(ctx context.Context, id string) error {
	if r.failDelete {
		return errStoreDown
	}
	return r.Repository.Delete(ctx, id)
}

func newEditor(repo portfolio.Repository) *Editor {
	return New(repo, logger.NewNop())
}

func TestEditor_CreateAddSaveGet(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewMemoryPortfolioRepo(0)
	e := newEditor(repo)

	draft := e.Create("u1")
	assert.Equal(t, StateDraft, e.State())
	assert.Equal(t, portfolio.DefaultTitle, draft.Title)

	p, err := e.Apply(AddBlock{Type: block.TypeText})
	require.NoError(t, err)
	require.Len(t, p.Blocks, 1)

	_, err = e.Apply(UpdateBlock{ID: p.Blocks[0].ID, Content: "Hello"})
	require.NoError(t, err)

	_, err = e.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatePersisted, e.State())

	got, err := repo.FindByID(ctx, draft.ID)
	require.NoError(t, err)
	require.Len(t, got.Blocks, 1)
	assert.Equal(t, "Hello", got.Blocks[0].Content)
}

func TestEditor_SaveExistingReplacesNewAppends(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewMemoryPortfolioRepo(0)

	first := newEditor(repo)
	first.Create("u1")
	_, err := first.Save(ctx)
	require.NoError(t, err)

	_, err = first.Apply(SetField{Field: portfolio.FieldTitle, Value: "Renamed"})
	require.NoError(t, err)
	_, err = first.Save(ctx)
	require.NoError(t, err)

	all, err := repo.List(ctx, portfolio.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, "Renamed", all[0].Title)

	second := newEditor(repo)
	second.Create("u1")
	_, err = second.Save(ctx)
	require.NoError(t, err)

	all, err = repo.List(ctx, portfolio.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestEditor_LoadNotFoundBlocks(t *testing.T) {
	ctx := context.Background()
	e := newEditor(persistence.NewMemoryPortfolioRepo(0))

	err := e.Load(ctx, "missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.True(t, e.Blocked())
	assert.Empty(t, e.Portfolio().Title, "no default substitution")

	_, err = e.Apply(SetField{Field: portfolio.FieldTitle, Value: "x"})
	assert.ErrorIs(t, err, ErrBlocked)
	_, err = e.Save(ctx)
	assert.ErrorIs(t, err, ErrBlocked)
	assert.ErrorIs(t, e.Delete(ctx), ErrBlocked)
}

func TestEditor_LoadPersisted(t *testing.T) {
	ctx := context.Background()
	stored := portfolio.NewDraft("u1")
	stored.Votes = stored.Votes.Cast("u2", vote.Upvote)
	e := newEditor(persistence.NewMemoryPortfolioRepo(0, stored))

	require.NoError(t, e.Load(ctx, stored.ID))
	assert.Equal(t, StatePersisted, e.State())
	assert.Equal(t, stored.Votes, e.Portfolio().Votes)

	_, err := e.Apply(SetField{Field: portfolio.FieldTagline, Value: "Hi"})
	require.NoError(t, err)
	assert.Equal(t, StatePersisted, e.State())
}

func TestEditor_ApplyIsAllOrNothing(t *testing.T) {
	e := newEditor(persistence.NewMemoryPortfolioRepo(0))
	e.Create("u1")

	_, err := e.Apply(
		SetField{Field: portfolio.FieldTitle, Value: "Changed"},
		AddBlock{Type: "video"},
	)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	assert.ErrorIs(t, err, block.ErrInvalidType)
	assert.Equal(t, portfolio.DefaultTitle, e.Portfolio().Title)
	assert.Empty(t, e.Portfolio().Blocks)
}

func TestEditor_FieldEditKeepsSiblings(t *testing.T) {
	e := newEditor(persistence.NewMemoryPortfolioRepo(0))
	e.Create("u1")

	p, err := e.Apply(
		AddBlock{Type: block.TypeHeading1},
		AddBlock{Type: block.TypeImage},
		AddBlock{Type: block.TypeLink},
		AddSocialLink{},
	)
	require.NoError(t, err)
	blockIDs := p.Blocks.IDs()

	p, err = e.Apply(
		SetField{Field: portfolio.FieldDescription, Value: "About me"},
		UpdateSocialLink{ID: p.SocialLinks[0].ID, Field: portfolio.LinkFieldURL, Value: "https://example.com"},
		SetBlockWidth{ID: blockIDs[1], Width: block.WidthSmall},
		SetBlockAlign{ID: blockIDs[1], Align: block.AlignCenter},
	)
	require.NoError(t, err)

	assert.Equal(t, blockIDs, p.Blocks.IDs())
	assert.Equal(t, portfolio.DefaultTitle, p.Title)
	assert.Equal(t, "About me", p.Description)
	assert.Equal(t, block.WidthSmall, p.Blocks[1].Width)
	assert.Equal(t, block.AlignCenter, p.Blocks[1].Align)
	assert.Equal(t, block.PlaceholderImage, p.Blocks[1].Content)
	assert.Equal(t, "https://example.com", p.SocialLinks[0].URL)
}

func TestEditor_MoveDropReorderRemove(t *testing.T) {
	e := newEditor(persistence.NewMemoryPortfolioRepo(0))
	e.Create("u1")
	p, err := e.Apply(AddBlock{Type: block.TypeText}, AddBlock{Type: block.TypeText}, AddBlock{Type: block.TypeText})
	require.NoError(t, err)
	a, b, c := p.Blocks[0].ID, p.Blocks[1].ID, p.Blocks[2].ID

	p, err = e.Apply(MoveBlock{ID: a, Direction: block.DirectionDown})
	require.NoError(t, err)
	assert.Equal(t, []string{b, a, c}, p.Blocks.IDs())

	p, err = e.Apply(DropBlock{Event: block.DragEvent{ActiveID: c, OverID: b}})
	require.NoError(t, err)
	assert.Equal(t, []string{c, b, a}, p.Blocks.IDs())

	p, err = e.Apply(DropBlock{Event: block.DragEvent{ActiveID: c}})
	require.NoError(t, err)
	assert.Equal(t, []string{c, b, a}, p.Blocks.IDs(), "cancelled drag")

	p, err = e.Apply(ReorderBlock{Source: 2, Target: 0}, RemoveBlock{ID: b})
	require.NoError(t, err)
	assert.Equal(t, []string{a, c}, p.Blocks.IDs())

	_, err = e.Apply(MoveBlock{ID: a, Direction: "sideways"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestEditor_SaveFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	repo := &failingRepo{Repository: persistence.NewMemoryPortfolioRepo(0), failUpsert: true}
	e := newEditor(repo)
	e.Create("u1")
	_, err := e.Apply(SetField{Field: portfolio.FieldTitle, Value: "Unsaved"})
	require.NoError(t, err)

	_, err = e.Save(ctx)
	assert.ErrorIs(t, err, apperror.ErrInternal)
	assert.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, StateDraft, e.State())
	assert.Equal(t, "Unsaved", e.Portfolio().Title)
}

func TestEditor_Delete(t *testing.T) {
	ctx := context.Background()
	stored := portfolio.NewDraft("u1")
	repo := &failingRepo{Repository: persistence.NewMemoryPortfolioRepo(0, stored), failDelete: true}
	e := newEditor(repo)
	require.NoError(t, e.Load(ctx, stored.ID))

	assert.ErrorIs(t, e.Delete(ctx), apperror.ErrInternal)
	assert.Equal(t, StatePersisted, e.State())

	repo.failDelete = false
	require.NoError(t, e.Delete(ctx))
	assert.Equal(t, StateDeleted, e.State())

	_, err := repo.FindByID(ctx, stored.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = e.Apply(AddSocialLink{})
	assert.ErrorIs(t, err, ErrDeleted)
}

func TestEditor_EmptyRejectsEdits(t *testing.T) {
	e := newEditor(persistence.NewMemoryPortfolioRepo(0))
	_, err := e.Apply(AddSocialLink{})
	assert.ErrorIs(t, err, ErrNotOpen)
}
