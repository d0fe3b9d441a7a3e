package persistence

import (
	"context"
	"encoding/json"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/folio/internal/domain/block"
	"github.com/khoahotran/folio/internal/domain/portfolio"
	"github.com/khoahotran/folio/internal/domain/vote"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

type postgresPortfolioRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresPortfolioRepo(db *pgxpool.Pool, logger logger.Logger) portfolio.Repository {
	return &postgresPortfolioRepo{db: db, logger: logger}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const portfolioColumns = "id, user_id, title, tagline, description, thumbnail, social_links, blocks, votes, created_at, updated_at"

func scanPortfolio(row pgx.Row, l logger.Logger) (*portfolio.Portfolio, error) {
	p := &portfolio.Portfolio{}
	var linksBytes, blocksBytes, votesBytes []byte

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Title,
		&p.Tagline,
		&p.Description,
		&p.Thumbnail,
		&linksBytes,
		&blocksBytes,
		&votesBytes,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("portfolio", "")
		}
		return nil, apperror.NewInternal("failed to scan portfolio row", err)
	}

	if err := json.Unmarshal(linksBytes, &p.SocialLinks); err != nil {
		l.Warn("Failed to unmarshal social_links", zap.String("portfolio_id", p.ID), zap.Error(err))
		p.SocialLinks = portfolio.SocialLinks{}
	}
	if err := json.Unmarshal(blocksBytes, &p.Blocks); err != nil {
		l.Warn("Failed to unmarshal blocks", zap.String("portfolio_id", p.ID), zap.Error(err))
		p.Blocks = block.Sequence{}
	}
	if err := json.Unmarshal(votesBytes, &p.Votes); err != nil {
		l.Warn("Failed to unmarshal votes", zap.String("portfolio_id", p.ID), zap.Error(err))
		p.Votes = vote.Ledger{}
	}

	return p, nil
}

func scanPortfolios(rows pgx.Rows, l logger.Logger) ([]*portfolio.Portfolio, error) {
	defer rows.Close()
	portfolios := make([]*portfolio.Portfolio, 0)

	for rows.Next() {
		p, err := scanPortfolio(rows, l)
		if err != nil {
			return nil, err
		}
		portfolios = append(portfolios, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating portfolio rows", err)
	}
	return portfolios, nil
}

// marshalList encodes a nil slice as [] so the NOT NULL jsonb columns stay arrays.
func marshalList[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}

func (r *postgresPortfolioRepo) List(ctx context.Context, f portfolio.ListFilter) ([]*portfolio.Portfolio, error) {
	builder := psql.Select(portfolioColumns).
		From("portfolios").
		OrderBy("created_at ASC", "id ASC")

	if f.UserID != "" {
		builder = builder.Where(sq.Eq{"user_id": f.UserID})
	}
	if f.Query != "" {
		pattern := "%" + f.Query + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"tagline": pattern},
		})
	}
	if f.Limit > 0 {
		builder = builder.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		builder = builder.Offset(uint64(f.Offset))
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list portfolios query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query portfolios", err)
	}

	return scanPortfolios(rows, r.logger)
}

func (r *postgresPortfolioRepo) FindByID(ctx context.Context, id string) (*portfolio.Portfolio, error) {
	query := `SELECT ` + portfolioColumns + ` FROM portfolios WHERE id = $1`
	p, err := scanPortfolio(r.db.QueryRow(ctx, query, id), r.logger)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.NewNotFound("portfolio", id)
	}
	return p, err
}

// Upsert never touches the votes of an existing row; only Vote writes them.
func (r *postgresPortfolioRepo) Upsert(ctx context.Context, p *portfolio.Portfolio) (*portfolio.Portfolio, error) {
	linksBytes, err := marshalList(p.SocialLinks)
	if err != nil {
		return nil, apperror.NewInternal("failed to marshal social links", err)
	}
	blocksBytes, err := marshalList(p.Blocks)
	if err != nil {
		return nil, apperror.NewInternal("failed to marshal blocks", err)
	}
	votesBytes, err := marshalList(p.Votes)
	if err != nil {
		return nil, apperror.NewInternal("failed to marshal votes", err)
	}

	query := `
		INSERT INTO portfolios (id, user_id, title, tagline, description, thumbnail, social_links, blocks, votes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			title = EXCLUDED.title,
			tagline = EXCLUDED.tagline,
			description = EXCLUDED.description,
			thumbnail = EXCLUDED.thumbnail,
			social_links = EXCLUDED.social_links,
			blocks = EXCLUDED.blocks,
			updated_at = EXCLUDED.updated_at
		RETURNING created_at, votes
	`
	saved := p.Clone()
	var storedVotes []byte
	err = r.db.QueryRow(ctx, query,
		p.ID, p.UserID, p.Title, p.Tagline, p.Description, p.Thumbnail,
		linksBytes, blocksBytes, votesBytes,
		p.CreatedAt, p.UpdatedAt,
	).Scan(&saved.CreatedAt, &storedVotes)
	if err != nil {
		return nil, apperror.NewInternal("failed to upsert portfolio", err)
	}
	if err := json.Unmarshal(storedVotes, &saved.Votes); err != nil {
		r.logger.Warn("Failed to unmarshal votes", zap.String("portfolio_id", p.ID), zap.Error(err))
		saved.Votes = nil
	}
	if saved.Votes == nil {
		saved.Votes = vote.Ledger{}
	}
	return &saved, nil
}

func (r *postgresPortfolioRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM portfolios WHERE id = $1`, id); err != nil {
		return apperror.NewInternal("failed to delete portfolio", err)
	}
	return nil
}

// Vote locks the row so two voters never overwrite each other's ledger entry.
func (r *postgresPortfolioRepo) Vote(ctx context.Context, portfolioID, userID string, t vote.Type) (*portfolio.Portfolio, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, apperror.NewInternal("failed to begin vote transaction", err)
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + portfolioColumns + ` FROM portfolios WHERE id = $1 FOR UPDATE`
	p, err := scanPortfolio(tx.QueryRow(ctx, query, portfolioID), r.logger)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NewNotFound("portfolio", portfolioID)
		}
		return nil, err
	}

	p.Votes = p.Votes.Cast(userID, t)
	votesBytes, err := marshalList(p.Votes)
	if err != nil {
		return nil, apperror.NewInternal("failed to marshal votes", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE portfolios SET votes = $2 WHERE id = $1`, portfolioID, votesBytes); err != nil {
		return nil, apperror.NewInternal("failed to store vote", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.NewInternal("failed to commit vote", err)
	}
	return p, nil
}
