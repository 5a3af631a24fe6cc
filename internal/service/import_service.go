package service

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog/log"

	"tourlog/internal/apperr"
	"tourlog/internal/importer"
	"tourlog/internal/metrics"
	"tourlog/internal/model"
	"tourlog/internal/repository"
)

// RowError reports why one data row (1-based) was rejected
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResult is the outcome of a partial-success batch
type ImportResult struct {
	Success int        `json:"success"`
	Failed  int        `json:"failed"`
	Errors  []RowError `json:"errors"`
}

type ImportService interface {
	// ImportFile parses an xlsx upload and imports every data row
	ImportFile(ctx context.Context, actor Actor, r io.Reader) (*ImportResult, error)
	// ImportBatch imports rows the client already mapped. Each row stands alone;
	// one failure never stops the batch.
	ImportBatch(ctx context.Context, actor Actor, rows []importer.CandidateRecord) (*ImportResult, error)
}

type importService struct {
	records   RecordService
	auditRepo repository.AuditRepository
	events    EventPublisher
}

func NewImportService(records RecordService, auditRepo repository.AuditRepository, events EventPublisher) ImportService {
	return &importService{records: records, auditRepo: auditRepo, events: publisherOrNoop(events)}
}

func (s *importService) ImportFile(ctx context.Context, actor Actor, r io.Reader) (*ImportResult, error) {
	rows, err := importer.Parse(r)
	if errors.Is(err, importer.ErrNoDataRows) {
		return nil, apperr.Validation("The spreadsheet contains no data rows")
	}
	if err != nil {
		log.Warn().Err(err).Msg("rejected spreadsheet upload")
		return nil, apperr.Validation("Unable to read the spreadsheet; upload an .xlsx file")
	}
	return s.ImportBatch(ctx, actor, importer.MapRows(rows))
}

func (s *importService) ImportBatch(ctx context.Context, actor Actor, rows []importer.CandidateRecord) (*ImportResult, error) {
	if len(rows) == 0 {
		return nil, apperr.Validation("The spreadsheet contains no data rows")
	}

	result := &ImportResult{Errors: make([]RowError, 0)}
	quiet := withoutEvents(ctx)
	for i, row := range rows {
		if _, err := s.records.Create(quiet, actor, CreateRecordRequest(row)); err != nil {
			if apperr.As(err) == nil || apperr.Is(err, apperr.KindInternal) {
				log.Error().Err(err).Int("row", i+1).Msg("import row failed")
			}
			result.Failed++
			result.Errors = append(result.Errors, RowError{Row: i + 1, Reason: describe(err)})
			continue
		}
		result.Success++
	}

	metrics.ImportRowsTotal.WithLabelValues("success").Add(float64(result.Success))
	metrics.ImportRowsTotal.WithLabelValues("failed").Add(float64(result.Failed))

	audit := newAuditEntry(actor, model.ActionImportRecords, "", "", map[string]int{
		"rows":    len(rows),
		"success": result.Success,
		"failed":  result.Failed,
	})
	if err := s.auditRepo.Log(ctx, audit); err != nil {
		log.Error().Err(err).Msg("failed to write import audit log")
	}

	log.Info().
		Str("actor", actor.Username).
		Int("success", result.Success).
		Int("failed", result.Failed).
		Msg("import completed")
	s.events.Publish(EventImportCompleted, result)
	return result, nil
}
