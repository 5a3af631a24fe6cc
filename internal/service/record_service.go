package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"tourlog/internal/apperr"
	"tourlog/internal/model"
	"tourlog/internal/repository"
)

// --- DTOs ---

// CreateRecordRequest mirrors importer.CandidateRecord field for field
type CreateRecordRequest struct {
	OutgoingNumber string `json:"outgoingNumber" validate:"required,max=100"`
	FirstName      string `json:"firstName" validate:"required,max=100"`
	SecondName     string `json:"secondName" validate:"required,max=100"`
	ThirdName      string `json:"thirdName" validate:"required,max=100"`
	FourthName     string `json:"fourthName" validate:"required,max=100"`
	TourDate       string `json:"tourDate" validate:"required"`
	Rank           string `json:"rank" validate:"required,max=100"`
	Governorate    string `json:"governorate" validate:"required,max=100"`
	MilitaryNumber string `json:"militaryNumber" validate:"max=100"`
	ActionType     string `json:"actionType" validate:"max=255"`
	Ports          string `json:"ports"`
	RecordedNotes  string `json:"recordedNotes"`
	Office         string `json:"office" validate:"max=255"`
	PoliceStation  string `json:"policeStation" validate:"max=255"`
}

// UpdateRecordRequest carries only the fields to change; nil means untouched
type UpdateRecordRequest struct {
	OutgoingNumber *string `json:"outgoingNumber" validate:"omitnil,min=1,max=100"`
	FirstName      *string `json:"firstName" validate:"omitnil,min=1,max=100"`
	SecondName     *string `json:"secondName" validate:"omitnil,min=1,max=100"`
	ThirdName      *string `json:"thirdName" validate:"omitnil,min=1,max=100"`
	FourthName     *string `json:"fourthName" validate:"omitnil,min=1,max=100"`
	TourDate       *string `json:"tourDate" validate:"omitnil,min=1"`
	Rank           *string `json:"rank" validate:"omitnil,min=1,max=100"`
	Governorate    *string `json:"governorate" validate:"omitnil,min=1,max=100"`
	MilitaryNumber *string `json:"militaryNumber" validate:"omitnil,max=100"`
	ActionType     *string `json:"actionType" validate:"omitnil,max=255"`
	Ports          *string `json:"ports"`
	RecordedNotes  *string `json:"recordedNotes"`
	Office         *string `json:"office" validate:"omitnil,max=255"`
	PoliceStation  *string `json:"policeStation" validate:"omitnil,max=255"`
}

// RecordQuery is the raw search form as received on the query string
type RecordQuery struct {
	Governorate    *string `form:"governorate"`
	Rank           *string `form:"rank"`
	Office         *string `form:"office"`
	PoliceStation  *string `form:"policeStation"`
	RecordNumber   *string `form:"recordNumber"`
	FirstName      *string `form:"firstName"`
	SecondName     *string `form:"secondName"`
	ThirdName      *string `form:"thirdName"`
	FourthName     *string `form:"fourthName"`
	OutgoingNumber *string `form:"outgoingNumber"`
	MilitaryNumber *string `form:"militaryNumber"`
	RecordedNotes  *string `form:"recordedNotes"`
	StartDate      *string `form:"startDate"`
	EndDate        *string `form:"endDate"`
}

type RecordResponse struct {
	ID             string  `json:"id"`
	RecordNumber   int64   `json:"recordNumber"`
	OutgoingNumber string  `json:"outgoingNumber"`
	FirstName      string  `json:"firstName"`
	SecondName     string  `json:"secondName"`
	ThirdName      string  `json:"thirdName"`
	FourthName     string  `json:"fourthName"`
	FullName       string  `json:"fullName"`
	TourDate       string  `json:"tourDate"`
	Rank           string  `json:"rank"`
	Governorate    string  `json:"governorate"`
	MilitaryNumber string  `json:"militaryNumber"`
	ActionType     string  `json:"actionType"`
	Ports          string  `json:"ports"`
	RecordedNotes  string  `json:"recordedNotes"`
	Office         string  `json:"office"`
	PoliceStation  string  `json:"policeStation"`
	CreatedBy      *string `json:"createdBy,omitempty"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
}

// --- Interface ---

type RecordService interface {
	List(ctx context.Context) ([]RecordResponse, error)
	Search(ctx context.Context, q RecordQuery) ([]RecordResponse, error)
	Get(ctx context.Context, id string) (*RecordResponse, error)
	Create(ctx context.Context, actor Actor, req CreateRecordRequest) (*RecordResponse, error)
	Update(ctx context.Context, actor Actor, id string, req UpdateRecordRequest) (*RecordResponse, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

// --- Implementation ---

type recordService struct {
	recordRepo repository.RecordRepository
	auditRepo  repository.AuditRepository
	txManager  repository.TransactionManager
	events     EventPublisher
}

func NewRecordService(
	recordRepo repository.RecordRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	events EventPublisher,
) RecordService {
	return &recordService{
		recordRepo: recordRepo,
		auditRepo:  auditRepo,
		txManager:  txManager,
		events:     publisherOrNoop(events),
	}
}

func toRecordResponse(r *model.Record) RecordResponse {
	resp := RecordResponse{
		ID:             r.ID.String(),
		RecordNumber:   r.RecordNumber,
		OutgoingNumber: r.OutgoingNumber,
		FirstName:      r.FirstName,
		SecondName:     r.SecondName,
		ThirdName:      r.ThirdName,
		FourthName:     r.FourthName,
		FullName:       r.FullName(),
		TourDate:       r.TourDate.Format(model.DateLayout),
		Rank:           r.Rank,
		Governorate:    r.Governorate,
		MilitaryNumber: r.MilitaryNumber,
		ActionType:     r.ActionType,
		Ports:          r.Ports,
		RecordedNotes:  r.RecordedNotes,
		Office:         r.Office,
		PoliceStation:  r.PoliceStation,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      r.UpdatedAt.Format(time.RFC3339),
	}
	if r.CreatedBy != nil {
		s := r.CreatedBy.String()
		resp.CreatedBy = &s
	}
	return resp
}

func toRecordResponses(records []model.Record) []RecordResponse {
	out := make([]RecordResponse, 0, len(records))
	for i := range records {
		out = append(out, toRecordResponse(&records[i]))
	}
	return out
}

func (s *recordService) List(ctx context.Context) ([]RecordResponse, error) {
	records, err := s.recordRepo.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return toRecordResponses(records), nil
}

func (s *recordService) Search(ctx context.Context, q RecordQuery) ([]RecordResponse, error) {
	filter, err := BuildRecordFilter(q)
	if err != nil {
		return nil, err
	}
	records, err := s.recordRepo.Search(ctx, filter)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return toRecordResponses(records), nil
}

func (s *recordService) Get(ctx context.Context, id string) (*RecordResponse, error) {
	record, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toRecordResponse(record)
	return &resp, nil
}

func (s *recordService) find(ctx context.Context, id string) (*model.Record, error) {
	rid, err := parseID(id, "Record")
	if err != nil {
		return nil, err
	}
	record, err := s.recordRepo.FindByID(ctx, rid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("Record")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return record, nil
}

func (s *recordService) Create(ctx context.Context, actor Actor, req CreateRecordRequest) (*RecordResponse, error) {
	req = trimCreate(req)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	tourDate, ok := parseDate(req.TourDate)
	if !ok {
		return nil, invalidTourDate()
	}

	record := model.Record{
		OutgoingNumber: req.OutgoingNumber,
		FirstName:      req.FirstName,
		SecondName:     req.SecondName,
		ThirdName:      req.ThirdName,
		FourthName:     req.FourthName,
		TourDate:       tourDate,
		Rank:           req.Rank,
		Governorate:    req.Governorate,
		MilitaryNumber: req.MilitaryNumber,
		ActionType:     req.ActionType,
		Ports:          req.Ports,
		RecordedNotes:  req.RecordedNotes,
		Office:         req.Office,
		PoliceStation:  req.PoliceStation,
		CreatedBy:      actor.ID,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.recordRepo.Create(txCtx, &record); err != nil {
			return fmt.Errorf("failed to create record: %w", err)
		}
		audit := newAuditEntry(actor, model.ActionCreateRecord, record.ID.String(), record.FullName(), req)
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}

	resp := toRecordResponse(&record)
	if !eventsSuppressed(ctx) {
		s.events.Publish(EventRecordCreated, resp)
	}
	return &resp, nil
}

func (s *recordService) Update(ctx context.Context, actor Actor, id string, req UpdateRecordRequest) (*RecordResponse, error) {
	req = trimUpdate(req)
	fields, err := updateColumns(req)
	if err != nil {
		return nil, err
	}
	rid, err := parseID(id, "Record")
	if err != nil {
		return nil, err
	}

	var updated *model.Record
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		found, err := s.recordRepo.Update(txCtx, rid, fields)
		if err != nil {
			return fmt.Errorf("failed to update record: %w", err)
		}
		if !found {
			return apperr.NotFound("Record")
		}
		updated, err = s.recordRepo.FindByID(txCtx, rid)
		if err != nil {
			return fmt.Errorf("failed to reload record: %w", err)
		}
		audit := newAuditEntry(actor, model.ActionUpdateRecord, rid.String(), updated.FullName(), fields)
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		if apperr.As(err) != nil {
			return nil, err
		}
		return nil, apperr.Internal(err)
	}

	resp := toRecordResponse(updated)
	s.events.Publish(EventRecordUpdated, resp)
	return &resp, nil
}

func (s *recordService) Delete(ctx context.Context, actor Actor, id string) error {
	rid, err := parseID(id, "Record")
	if err != nil {
		return err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		deleted, err := s.recordRepo.Delete(txCtx, rid)
		if err != nil {
			return fmt.Errorf("failed to delete record: %w", err)
		}
		if !deleted {
			return apperr.NotFound("Record")
		}
		audit := newAuditEntry(actor, model.ActionDeleteRecord, rid.String(), "", map[string]string{"deleted_id": rid.String()})
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		if apperr.As(err) != nil {
			return err
		}
		return apperr.Internal(err)
	}

	log.Info().Str("record_id", rid.String()).Str("actor", actor.Username).Msg("record deleted")
	s.events.Publish(EventRecordDeleted, map[string]string{"id": rid.String()})
	return nil
}

// --- Helpers ---

func invalidTourDate() error {
	return apperr.Validation("Validation failed", apperr.FieldError{
		Field:   "tourDate",
		Message: "tourDate must be a valid date (YYYY-MM-DD)",
	})
}

func trimCreate(req CreateRecordRequest) CreateRecordRequest {
	for _, f := range []*string{
		&req.OutgoingNumber, &req.FirstName, &req.SecondName, &req.ThirdName, &req.FourthName,
		&req.TourDate, &req.Rank, &req.Governorate, &req.MilitaryNumber, &req.ActionType,
		&req.Ports, &req.RecordedNotes, &req.Office, &req.PoliceStation,
	} {
		*f = strings.TrimSpace(*f)
	}
	return req
}

func trimUpdate(req UpdateRecordRequest) UpdateRecordRequest {
	for _, f := range []**string{
		&req.OutgoingNumber, &req.FirstName, &req.SecondName, &req.ThirdName, &req.FourthName,
		&req.TourDate, &req.Rank, &req.Governorate, &req.MilitaryNumber, &req.ActionType,
		&req.Ports, &req.RecordedNotes, &req.Office, &req.PoliceStation,
	} {
		if *f != nil {
			v := strings.TrimSpace(**f)
			*f = &v
		}
	}
	return req
}

// updateColumns validates the supplied fields and maps them to column names
func updateColumns(req UpdateRecordRequest) (map[string]interface{}, error) {
	fields := make(map[string]interface{})
	set := func(column string, v *string) {
		if v != nil {
			fields[column] = *v
		}
	}
	set("outgoing_number", req.OutgoingNumber)
	set("first_name", req.FirstName)
	set("second_name", req.SecondName)
	set("third_name", req.ThirdName)
	set("fourth_name", req.FourthName)
	set("rank", req.Rank)
	set("governorate", req.Governorate)
	set("military_number", req.MilitaryNumber)
	set("action_type", req.ActionType)
	set("ports", req.Ports)
	set("recorded_notes", req.RecordedNotes)
	set("office", req.Office)
	set("police_station", req.PoliceStation)

	if len(fields) == 0 && req.TourDate == nil {
		return nil, apperr.Validation("no fields supplied")
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if req.TourDate != nil {
		t, ok := parseDate(*req.TourDate)
		if !ok {
			return nil, invalidTourDate()
		}
		fields["tour_date"] = t
	}
	return fields, nil
}

// BuildRecordFilter converts the raw query form into a repository filter
func BuildRecordFilter(q RecordQuery) (repository.RecordFilter, error) {
	f := repository.RecordFilter{
		Governorate:    q.Governorate,
		Rank:           q.Rank,
		Office:         q.Office,
		PoliceStation:  q.PoliceStation,
		FirstName:      q.FirstName,
		SecondName:     q.SecondName,
		ThirdName:      q.ThirdName,
		FourthName:     q.FourthName,
		OutgoingNumber: q.OutgoingNumber,
		MilitaryNumber: q.MilitaryNumber,
		RecordedNotes:  q.RecordedNotes,
	}

	var details []apperr.FieldError
	if v := nonBlank(q.RecordNumber); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			details = append(details, apperr.FieldError{Field: "recordNumber", Message: "recordNumber must be a whole number"})
		} else {
			f.RecordNumber = &n
		}
	}
	if v := nonBlank(q.StartDate); v != "" {
		if t, ok := parseDate(v); ok {
			f.StartDate = &t
		} else {
			details = append(details, apperr.FieldError{Field: "startDate", Message: "startDate must be a valid date (YYYY-MM-DD)"})
		}
	}
	if v := nonBlank(q.EndDate); v != "" {
		if t, ok := parseDate(v); ok {
			f.EndDate = &t
		} else {
			details = append(details, apperr.FieldError{Field: "endDate", Message: "endDate must be a valid date (YYYY-MM-DD)"})
		}
	}
	if len(details) > 0 {
		return repository.RecordFilter{}, apperr.Validation("Invalid search filter", details...)
	}
	return f, nil
}

func nonBlank(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
