package portfolio

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/folio/adapters/event"
	"github.com/khoahotran/folio/adapters/persistence"
	"github.com/khoahotran/folio/internal/application/editor"
	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/internal/domain/block"
	"github.com/khoahotran/folio/internal/domain/portfolio"
	"github.com/khoahotran/folio/internal/domain/vote"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.PortfolioEventPayload
}

func (r *recordingPublisher) PublishPortfolioEvent(_ context.Context, p event.PortfolioEventPayload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, p)
	return nil
}

func (r *recordingPublisher) has(t event.PortfolioEventType, portfolioID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.EventType == t && e.PortfolioID == portfolioID {
			return true
		}
	}
	return false
}

type fixture struct {
	repo      portfolio.Repository
	cache     service.ListingCache
	publisher *recordingPublisher
	log       logger.Logger
}

func newFixture(seed ...portfolio.Portfolio) *fixture {
	return &fixture{
		repo:      persistence.NewMemoryPortfolioRepo(0, seed...),
		cache:     persistence.NewMemoryListingCache(time.Minute),
		publisher: &recordingPublisher{},
		log:       logger.NewNop(),
	}
}

func (f *fixture) save() *SavePortfolioUseCase {
	return NewSavePortfolioUseCase(f.repo, f.cache, f.publisher, f.log)
}

func (f *fixture) cached(t *testing.T) bool {
	_, ok, err := f.cache.GetListing(context.Background())
	require.NoError(t, err)
	return ok
}

func TestCreateDraft(t *testing.T) {
	f := newFixture()
	uc := NewCreateDraftUseCase(f.repo, f.log)

	_, err := uc.Execute(context.Background(), CreateDraftInput{})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	draft, err := uc.Execute(context.Background(), CreateDraftInput{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "u1", draft.UserID)
	assert.Equal(t, portfolio.DefaultTitle, draft.Title)

	_, err = f.repo.FindByID(context.Background(), draft.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound, "drafts are not stored")
}

func TestSavePortfolio_NewThenGet(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	_, err := f.cache.SetListing(ctx, 0, nil)
	require.NoError(t, err)

	draft := portfolio.NewDraft("u1")
	draft.Blocks = block.Sequence{{ID: "b1", Type: block.TypeText, Content: "Hello"}}

	view, err := f.save().Execute(ctx, SavePortfolioInput{UserID: "u1", Portfolio: draft})
	require.NoError(t, err)
	assert.Equal(t, block.WidthFull, view.Portfolio.Blocks[0].Width, "attributes are defaulted")

	got, err := NewGetPortfolioUseCase(f.repo, f.log).Execute(ctx, GetPortfolioInput{PortfolioID: draft.ID})
	require.NoError(t, err)
	require.Len(t, got.Portfolio.Blocks, 1)
	assert.Equal(t, "Hello", got.Portfolio.Blocks[0].Content)

	assert.False(t, f.cached(t), "listing cache invalidated")
	assert.Eventually(t, func() bool {
		return f.publisher.has(event.PortfolioEventTypeSaved, draft.ID)
	}, time.Second, 10*time.Millisecond)
}

func TestSavePortfolio_Rules(t *testing.T) {
	ctx := context.Background()
	stored := portfolio.NewDraft("owner")
	stored.Votes = stored.Votes.Cast("fan", vote.Upvote)
	f := newFixture(stored)

	_, err := f.save().Execute(ctx, SavePortfolioInput{Portfolio: stored})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = f.save().Execute(ctx, SavePortfolioInput{UserID: "intruder", Portfolio: stored})
	assert.ErrorIs(t, err, apperror.ErrPermission)

	edited := stored.Clone()
	edited.Title = "Updated"
	edited.Votes = nil
	view, err := f.save().Execute(ctx, SavePortfolioInput{UserID: "owner", Portfolio: edited})
	require.NoError(t, err)
	assert.Equal(t, "Updated", view.Portfolio.Title)
	assert.Equal(t, vote.Tally{Upvotes: 1}, view.Tally, "stored votes survive a save")

	bad := stored.Clone()
	bad.Blocks = block.Sequence{{ID: "x", Type: "video"}}
	_, err = f.save().Execute(ctx, SavePortfolioInput{UserID: "owner", Portfolio: bad})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	all, err := f.repo.List(ctx, portfolio.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestEditPortfolio(t *testing.T) {
	ctx := context.Background()
	stored := portfolio.NewDraft("owner")
	f := newFixture(stored)
	uc := NewEditPortfolioUseCase(f.repo, f.cache, f.publisher, f.log)

	view, err := uc.Execute(ctx, EditPortfolioInput{
		UserID:      "owner",
		PortfolioID: stored.ID,
		Commands: []editor.Command{
			editor.SetField{Field: portfolio.FieldTitle, Value: "Jane Doe"},
			editor.AddBlock{Type: block.TypeImage},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", view.Portfolio.Title)

	got, err := f.repo.FindByID(ctx, stored.ID)
	require.NoError(t, err)
	require.Len(t, got.Blocks, 1)
	assert.Equal(t, block.PlaceholderImage, got.Blocks[0].Content)

	_, err = uc.Execute(ctx, EditPortfolioInput{UserID: "owner", PortfolioID: "missing"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = uc.Execute(ctx, EditPortfolioInput{UserID: "someone", PortfolioID: stored.ID})
	assert.ErrorIs(t, err, apperror.ErrPermission)
}

func TestDeletePortfolio(t *testing.T) {
	ctx := context.Background()
	stored := portfolio.NewDraft("owner")
	f := newFixture(stored)
	uc := NewDeletePortfolioUseCase(f.repo, f.cache, f.publisher, f.log)

	assert.ErrorIs(t, uc.Execute(ctx, DeletePortfolioInput{UserID: "someone", PortfolioID: stored.ID}), apperror.ErrPermission)

	require.NoError(t, uc.Execute(ctx, DeletePortfolioInput{UserID: "owner", PortfolioID: stored.ID}))
	require.NoError(t, uc.Execute(ctx, DeletePortfolioInput{UserID: "owner", PortfolioID: stored.ID}))

	_, err := NewGetPortfolioUseCase(f.repo, f.log).Execute(ctx, GetPortfolioInput{PortfolioID: stored.ID})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Eventually(t, func() bool {
		return f.publisher.has(event.PortfolioEventTypeDeleted, stored.ID)
	}, time.Second, 10*time.Millisecond)
}

func TestVotePortfolio(t *testing.T) {
	ctx := context.Background()
	stored := portfolio.NewDraft("owner")
	stored.ID = "p1"
	f := newFixture(stored)
	uc := NewVotePortfolioUseCase(f.repo, f.cache, f.publisher, f.log)

	_, err := uc.Execute(ctx, VotePortfolioInput{PortfolioID: "p1", VoteType: vote.Upvote})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = uc.Execute(ctx, VotePortfolioInput{UserID: "u1", PortfolioID: "p1", VoteType: "meh"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = uc.Execute(ctx, VotePortfolioInput{UserID: "u1", PortfolioID: "nope", VoteType: vote.Upvote})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	view, err := uc.Execute(ctx, VotePortfolioInput{UserID: "u1", PortfolioID: "p1", VoteType: vote.Upvote})
	require.NoError(t, err)
	assert.Equal(t, vote.Ledger{{UserID: "u1", VoteType: vote.Upvote}}, view.Portfolio.Votes)
	assert.Equal(t, vote.Upvote, view.CurrentUserVote)

	view, err = uc.Execute(ctx, VotePortfolioInput{UserID: "u1", PortfolioID: "p1", VoteType: vote.Downvote})
	require.NoError(t, err)
	assert.Equal(t, vote.Ledger{{UserID: "u1", VoteType: vote.Downvote}}, view.Portfolio.Votes)
	assert.Equal(t, vote.Tally{Downvotes: 1}, view.Tally)
}

func TestEditPortfolio_ConcurrentVoteSurvives(t *testing.T) {
	ctx := context.Background()
	stored := portfolio.NewDraft("owner")
	f := newFixture()
	f.repo = persistence.NewMemoryPortfolioRepo(100*time.Millisecond, stored)
	edit := NewEditPortfolioUseCase(f.repo, f.cache, f.publisher, f.log)
	voteUC := NewVotePortfolioUseCase(f.repo, f.cache, f.publisher, f.log)

	var wg sync.WaitGroup
	var edited *View
	var editErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		edited, editErr = edit.Execute(ctx, EditPortfolioInput{
			UserID:      "owner",
			PortfolioID: stored.ID,
			Commands:    []editor.Command{editor.SetField{Field: portfolio.FieldTitle, Value: "Edited"}},
		})
	}()

	// The edit has loaded the aggregate but not written it yet.
	time.Sleep(50 * time.Millisecond)
	_, err := voteUC.Execute(ctx, VotePortfolioInput{UserID: "voter", PortfolioID: stored.ID, VoteType: vote.Upvote})
	require.NoError(t, err)

	wg.Wait()
	require.NoError(t, editErr)
	assert.Equal(t, vote.Upvote, edited.Portfolio.Votes.CurrentUserVote("voter"))

	got, err := f.repo.FindByID(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, "Edited", got.Title)
	assert.Equal(t, vote.Upvote, got.Votes.CurrentUserVote("voter"))
}

func TestSavePortfolio_ConcurrentVoteSurvives(t *testing.T) {
	ctx := context.Background()
	stored := portfolio.NewDraft("owner")
	f := newFixture()
	f.repo = persistence.NewMemoryPortfolioRepo(100*time.Millisecond, stored)
	voteUC := NewVotePortfolioUseCase(f.repo, f.cache, f.publisher, f.log)

	next := stored.Clone()
	next.Title = "Saved"
	var wg sync.WaitGroup
	var saveErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, saveErr = f.save().Execute(ctx, SavePortfolioInput{UserID: "owner", Portfolio: next})
	}()

	time.Sleep(50 * time.Millisecond)
	_, err := voteUC.Execute(ctx, VotePortfolioInput{UserID: "voter", PortfolioID: stored.ID, VoteType: vote.Downvote})
	require.NoError(t, err)

	wg.Wait()
	require.NoError(t, saveErr)

	got, err := f.repo.FindByID(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, "Saved", got.Title)
	assert.Equal(t, vote.Tally{Downvotes: 1}, got.Tally())
}

func TestListPortfolios(t *testing.T) {
	ctx := context.Background()
	a := portfolio.NewDraft("u1")
	a.Title = "Alpha Studio"
	b := portfolio.NewDraft("u2")
	c := portfolio.NewDraft("u1")
	f := newFixture(a, b, c)
	uc := NewListPortfoliosUseCase(f.repo, f.cache, f.log)

	out, err := uc.Execute(ctx, ListPortfoliosInput{})
	require.NoError(t, err)
	assert.Len(t, out.Portfolios, 3)
	assert.True(t, f.cached(t))

	out, err = uc.Execute(ctx, ListPortfoliosInput{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, out.Portfolios, 1)
	assert.Equal(t, c.ID, out.Portfolios[0].ID)

	out, err = uc.Execute(ctx, ListPortfoliosInput{Page: 5, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, out.Portfolios)

	out, err = uc.Execute(ctx, ListPortfoliosInput{Query: "studio"})
	require.NoError(t, err)
	require.Len(t, out.Portfolios, 1)
	assert.Equal(t, a.ID, out.Portfolios[0].ID)

	out, err = uc.Execute(ctx, ListPortfoliosInput{UserID: "u1"})
	require.NoError(t, err)
	assert.Len(t, out.Portfolios, 2)
}

func TestRSSUseCase(t *testing.T) {
	a := portfolio.NewDraft("u1")
	a.Title = "First"
	b := portfolio.NewDraft("u2")
	b.Title = "Second"
	f := newFixture(a, b)

	feed, err := NewRSSUseCase(f.repo, "https://folio.example/", f.log).Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, feed.Items, 2)
	assert.Equal(t, "Second", feed.Items[0].Title)
	assert.Equal(t, "https://folio.example/portfolio/"+a.ID+"/u1", feed.Items[1].Link.Href)
}
