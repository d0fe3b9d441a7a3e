package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/internal/domain/portfolio"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

const backupFolder = "backups/portfolios"

// Snapshot is the on-disk form of a full export.
type Snapshot struct {
	TakenAt    time.Time              `json:"taken_at"`
	Portfolios []*portfolio.Portfolio `json:"portfolios"`
}

type BackupUseCase struct {
	repo     portfolio.Repository
	uploader service.Uploader
	logger   logger.Logger
	now      func() time.Time
}

// NewBackupUseCase builds the export/restore use case. uploader may be nil,
// in which case Export only returns the snapshot.
func NewBackupUseCase(repo portfolio.Repository, uploader service.Uploader, log logger.Logger) *BackupUseCase {
	return &BackupUseCase{
		repo:     repo,
		uploader: uploader,
		logger:   log,
		now:      time.Now,
	}
}

type ExportOutput struct {
	FileName string
	Data     []byte
	Count    int
	// URL is set when the snapshot was uploaded.
	URL string
}

// Export dumps every portfolio, votes included, as one JSON document and
// uploads it when upload is set.
func (uc *BackupUseCase) Export(ctx context.Context, upload bool) (*ExportOutput, error) {
	uc.logger.Info("Starting portfolio backup...")

	items, err := uc.repo.List(ctx, portfolio.ListFilter{})
	if err != nil {
		return nil, err
	}

	taken := uc.now().UTC()
	data, err := json.MarshalIndent(Snapshot{TakenAt: taken, Portfolios: items}, "", "  ")
	if err != nil {
		return nil, apperror.NewInternal("failed to encode snapshot", err)
	}

	name := fmt.Sprintf("portfolios-%s", taken.Format("2006-01-02_15-04-05"))
	out := &ExportOutput{FileName: name + ".json", Data: data, Count: len(items)}

	if upload {
		if uc.uploader == nil {
			return nil, apperror.NewInvalidInput("no media storage configured for upload", nil)
		}
		url, err := uc.uploader.Upload(ctx, bytes.NewReader(data), backupFolder, name)
		if err != nil {
			uc.logger.Error("Failed to upload backup", err)
			return nil, apperror.NewInternal("failed to upload backup", err)
		}
		out.URL = url
	}

	uc.logger.Info("Portfolio backup completed",
		zap.Int("count", out.Count),
		zap.String("file", out.FileName),
		zap.String("url", out.URL),
	)
	return out, nil
}

// Restore upserts every portfolio of a snapshot and returns how many were
// written, also when it stops on an error. Null entries are skipped.
// Portfolios not in the snapshot are left alone, and one that already exists
// keeps its stored votes.
func (uc *BackupUseCase) Restore(ctx context.Context, data []byte) (int, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return 0, apperror.NewInvalidInput("snapshot is not valid JSON", err)
	}

	written := 0
	for i, p := range snap.Portfolios {
		if p == nil {
			continue
		}
		if err := p.Validate(); err != nil {
			return written, apperror.NewInvalidInput(fmt.Sprintf("portfolio %d is invalid", i), err)
		}
		if _, err := uc.repo.Upsert(ctx, p); err != nil {
			return written, err
		}
		written++
	}

	uc.logger.Info("Portfolio restore completed", zap.Int("count", written), zap.Time("taken_at", snap.TakenAt))
	return written, nil
}
