package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/hiredeck/scheduling-api/internal/models"
	appErrors "github.com/hiredeck/scheduling-api/pkg/errors"
)

type billingRecordReader interface {
	ListRecords(ctx context.Context, filter models.BillingRecordFilter) ([]models.BillingRecord, int, error)
}

// BillingService exposes the monthly billing aggregates.
type BillingService struct {
	repo   billingRecordReader
	logger *zap.Logger
}

// NewBillingService constructs the service.
func NewBillingService(repo billingRecordReader, logger *zap.Logger) *BillingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BillingService{repo: repo, logger: logger}
}

// ListRecords returns billing records plus pagination data.
func (s *BillingService) ListRecords(ctx context.Context, filter models.BillingRecordFilter) ([]models.BillingRecord, *models.Pagination, error) {
	records, total, err := s.repo.ListRecords(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list billing records")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size < 1 {
		size = 20
	}
	return records, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}
