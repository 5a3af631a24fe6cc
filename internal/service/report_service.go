package service

import (
	"context"
	"io"
	"slices"
	"strings"
	"time"

	"tourlog/internal/apperr"
	"tourlog/internal/importer"
	"tourlog/internal/model"
	"tourlog/internal/repository"
)

// topGovernorates is the number of governorates shown on the dashboard
const topGovernorates = 5

type SummaryResponse struct {
	GroupBy string             `json:"groupBy"`
	Total   int64              `json:"total"`
	Rows    []model.GroupCount `json:"rows"`
}

type ReportService interface {
	Summary(ctx context.Context, groupBy string, q RecordQuery) (*SummaryResponse, error)
	Export(ctx context.Context, q RecordQuery, w io.Writer) error
	Dashboard(ctx context.Context) (*model.DashboardStats, error)
}

type reportService struct {
	recordRepo  repository.RecordRepository
	userRepo    repository.UserRepository
	stationRepo repository.StationRepository
	portRepo    repository.PortRepository
	now         func() time.Time
}

func NewReportService(
	recordRepo repository.RecordRepository,
	userRepo repository.UserRepository,
	stationRepo repository.StationRepository,
	portRepo repository.PortRepository,
) ReportService {
	return &reportService{
		recordRepo:  recordRepo,
		userRepo:    userRepo,
		stationRepo: stationRepo,
		portRepo:    portRepo,
		now:         time.Now,
	}
}

func (s *reportService) Summary(ctx context.Context, groupBy string, q RecordQuery) (*SummaryResponse, error) {
	groupBy = strings.TrimSpace(groupBy)
	if groupBy == "" {
		groupBy = "governorate"
	}
	if !slices.Contains(repository.GroupKeys(), groupBy) {
		return nil, apperr.Validation("Invalid groupBy", apperr.FieldError{
			Field:   "groupBy",
			Message: "groupBy must be one of: " + strings.Join(repository.GroupKeys(), ", "),
		})
	}

	filter, err := BuildRecordFilter(q)
	if err != nil {
		return nil, err
	}
	total, err := s.recordRepo.Count(ctx, filter)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	rows, err := s.recordRepo.CountGrouped(ctx, groupBy, filter, 0)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &SummaryResponse{GroupBy: groupBy, Total: total, Rows: rows}, nil
}

func (s *reportService) Export(ctx context.Context, q RecordQuery, w io.Writer) error {
	filter, err := BuildRecordFilter(q)
	if err != nil {
		return err
	}
	records, err := s.recordRepo.Search(ctx, filter)
	if err != nil {
		return apperr.Internal(err)
	}
	if err := importer.WriteWorkbook(w, records); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *reportService) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var stats model.DashboardStats
	var err error
	if stats.TotalRecords, err = s.recordRepo.Count(ctx, repository.RecordFilter{}); err != nil {
		return nil, apperr.Internal(err)
	}
	if stats.RecordsThisMonth, err = s.recordRepo.CountCreatedSince(ctx, monthStart); err != nil {
		return nil, apperr.Internal(err)
	}
	if stats.TotalUsers, err = s.userRepo.Count(ctx); err != nil {
		return nil, apperr.Internal(err)
	}
	if stats.TotalStations, err = s.stationRepo.Count(ctx); err != nil {
		return nil, apperr.Internal(err)
	}
	if stats.TotalPorts, err = s.portRepo.Count(ctx); err != nil {
		return nil, apperr.Internal(err)
	}
	if stats.TopGovernorates, err = s.recordRepo.CountGrouped(ctx, "governorate", repository.RecordFilter{}, topGovernorates); err != nil {
		return nil, apperr.Internal(err)
	}
	return &stats, nil
}
