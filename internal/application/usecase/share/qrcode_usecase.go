package share

import (
	"context"
	"strings"

	"github.com/khoahotran/folio/internal/domain/portfolio"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
	"github.com/khoahotran/folio/pkg/qrcode"
)

type QRCodeUseCase struct {
	repo    portfolio.Repository
	baseURL string
	size    int
	logger  logger.Logger
}

func NewQRCodeUseCase(repo portfolio.Repository, baseURL string, size int, log logger.Logger) *QRCodeUseCase {
	return &QRCodeUseCase{
		repo:    repo,
		baseURL: strings.TrimRight(baseURL, "/"),
		size:    size,
		logger:  log,
	}
}

type QRCodeOutput struct {
	URL      string
	FileName string
	PNG      []byte
}

// ShareURL is the public address of p.
func (uc *QRCodeUseCase) ShareURL(p *portfolio.Portfolio) string {
	return uc.baseURL + p.SharePath()
}

func (uc *QRCodeUseCase) Execute(ctx context.Context, portfolioID string) (*QRCodeOutput, error) {
	p, err := uc.repo.FindByID(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	return uc.Render(p)
}

// Render encodes the share URL of an already loaded portfolio.
func (uc *QRCodeUseCase) Render(p *portfolio.Portfolio) (*QRCodeOutput, error) {
	url := uc.ShareURL(p)
	png, err := qrcode.PNG(url, uc.size)
	if err != nil {
		return nil, apperror.NewInternal("failed to render QR code", err)
	}
	return &QRCodeOutput{
		URL:      url,
		FileName: qrcode.FileName(p.ID),
		PNG:      png,
	}, nil
}
