// Package editor drives one portfolio through its lifecycle: a fresh draft or
// a loaded portfolio is edited with commands, saved, and eventually deleted.
package editor

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/folio/internal/domain/portfolio"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

type State int

const (
	StateEmpty State = iota
	StateDraft
	StatePersisted
	StateDeleted
)

func (s State) String() string {
	switch s {
	case StateDraft:
		return "draft"
	case StatePersisted:
		return "persisted"
	case StateDeleted:
		return "deleted"
	}
	return "empty"
}

var (
	ErrNotOpen = errors.New("editor has no portfolio open")
	ErrBlocked = errors.New("portfolio failed to load")
	ErrDeleted = errors.New("portfolio was deleted")
)

// Editor is not safe for concurrent use; each request or session owns one.
type Editor struct {
	repo    portfolio.Repository
	logger  logger.Logger
	now     func() time.Time
	state   State
	blocked bool
	current portfolio.Portfolio
}

func New(repo portfolio.Repository, log logger.Logger) *Editor {
	return &Editor{
		repo:   repo,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (e *Editor) State() State { return e.state }

func (e *Editor) Blocked() bool { return e.blocked }

// Portfolio returns a copy of the aggregate being edited.
func (e *Editor) Portfolio() portfolio.Portfolio {
	return e.current.Clone()
}

// Create starts a new draft. It is not stored until Save.
func (e *Editor) Create(userID string) portfolio.Portfolio {
	e.current = portfolio.NewDraft(userID)
	e.state = StateDraft
	e.blocked = false
	return e.Portfolio()
}

// Open starts editing an existing aggregate without a round trip, for callers
// that already hold it.
func (e *Editor) Open(p portfolio.Portfolio, persisted bool) {
	e.current = p.Clone()
	e.blocked = false
	e.state = StateDraft
	if persisted {
		e.state = StatePersisted
	}
}

// Load fetches id from the store. When that fails the editor is blocked: no
// placeholder is substituted and later edits are refused.
func (e *Editor) Load(ctx context.Context, id string) error {
	p, err := e.repo.FindByID(ctx, id)
	if err != nil {
		e.blocked = true
		e.current = portfolio.Portfolio{}
		e.state = StateEmpty
		return err
	}
	e.current = p.Clone()
	e.state = StatePersisted
	e.blocked = false
	return nil
}

func (e *Editor) usable() error {
	switch {
	case e.blocked:
		return apperror.NewAppError(apperror.ErrConflict, "Portfolio is not editable", "the portfolio could not be loaded", ErrBlocked)
	case e.state == StateDeleted:
		return apperror.NewAppError(apperror.ErrConflict, "Portfolio is not editable", "the portfolio has been deleted", ErrDeleted)
	case e.state == StateEmpty:
		return apperror.NewAppError(apperror.ErrConflict, "Portfolio is not editable", "no portfolio is open", ErrNotOpen)
	}
	return nil
}

// Apply runs cmds in order against a working copy. Either every command
// succeeds and the aggregate is replaced, or nothing changes.
func (e *Editor) Apply(cmds ...Command) (portfolio.Portfolio, error) {
	if err := e.usable(); err != nil {
		return e.Portfolio(), err
	}

	next := e.current
	for _, cmd := range cmds {
		edited, err := cmd.Apply(next)
		if err != nil {
			return e.Portfolio(), apperror.NewInvalidInput("editor command rejected", err)
		}
		next = edited
	}

	e.current = next
	return e.Portfolio(), nil
}

// Save hands the whole aggregate to the store. A failure is logged and the
// edited state is kept as is; nothing is retried.
func (e *Editor) Save(ctx context.Context) (portfolio.Portfolio, error) {
	if err := e.usable(); err != nil {
		return e.Portfolio(), err
	}

	candidate := e.current.Clone()
	if err := candidate.Validate(); err != nil {
		return e.Portfolio(), apperror.NewInvalidInput("portfolio is not valid", err)
	}
	candidate.UpdatedAt = e.now()

	saved, err := e.repo.Upsert(ctx, &candidate)
	if err != nil {
		e.logger.Error("Failed to save portfolio", err, zap.String("portfolio_id", candidate.ID))
		if errors.Is(err, apperror.ErrInternal) || !isAppError(err) {
			return e.Portfolio(), apperror.NewGatewayFailure("save portfolio", err)
		}
		return e.Portfolio(), err
	}

	e.current = saved.Clone()
	e.state = StatePersisted
	return e.Portfolio(), nil
}

// Delete removes the portfolio from the store. On failure the editor keeps
// its state.
func (e *Editor) Delete(ctx context.Context) error {
	if err := e.usable(); err != nil {
		return err
	}

	if err := e.repo.Delete(ctx, e.current.ID); err != nil {
		e.logger.Error("Failed to delete portfolio", err, zap.String("portfolio_id", e.current.ID))
		return apperror.NewGatewayFailure("delete portfolio", err)
	}
	e.state = StateDeleted
	return nil
}

func isAppError(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr)
}
