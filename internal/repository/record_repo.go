package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tourlog/internal/model"
)

// Report grouping keys and the SQL expression each one groups by
var groupExpressions = map[string]string{
	"governorate":   "governorate",
	"rank":          "rank",
	"office":        "office",
	"policeStation": "police_station",
	"actionType":    "action_type",
	"month":         "to_char(tour_date, 'YYYY-MM')",
}

// GroupKeys lists the accepted report grouping keys
func GroupKeys() []string {
	return []string{"governorate", "rank", "office", "policeStation", "actionType", "month"}
}

// RecordRepository defines data access for inspection records.
// List and Search are unbounded; volumes are expected to stay in the thousands.
type RecordRepository interface {
	Create(ctx context.Context, record *model.Record) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Record, error)
	List(ctx context.Context) ([]model.Record, error)
	Search(ctx context.Context, filter RecordFilter) ([]model.Record, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context, filter RecordFilter) (int64, error)
	CountGrouped(ctx context.Context, groupBy string, filter RecordFilter, limit int) ([]model.GroupCount, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

type recordRepository struct {
	db *gorm.DB
}

// NewRecordRepository returns a gorm-backed RecordRepository
func NewRecordRepository(db *gorm.DB) RecordRepository {
	return &recordRepository{db: db}
}

func (r *recordRepository) Create(ctx context.Context, record *model.Record) error {
	return translate(GetDB(ctx, r.db).Create(record).Error)
}

func (r *recordRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Record, error) {
	var record model.Record
	if err := GetDB(ctx, r.db).First(&record, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &record, nil
}

func (r *recordRepository) List(ctx context.Context) ([]model.Record, error) {
	return r.Search(ctx, RecordFilter{})
}

func (r *recordRepository) Search(ctx context.Context, filter RecordFilter) ([]model.Record, error) {
	records := make([]model.Record, 0)
	query := applyFilter(GetDB(ctx, r.db).Model(&model.Record{}), filter)
	if err := query.Order("created_at asc, record_number asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	return records, nil
}

func (r *recordRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (bool, error) {
	result := GetDB(ctx, r.db).Model(&model.Record{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *recordRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Record{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *recordRepository) Count(ctx context.Context, filter RecordFilter) (int64, error) {
	var total int64
	err := applyFilter(GetDB(ctx, r.db).Model(&model.Record{}), filter).Count(&total).Error
	return total, err
}

func (r *recordRepository) CountGrouped(ctx context.Context, groupBy string, filter RecordFilter, limit int) ([]model.GroupCount, error) {
	expr, ok := groupExpressions[groupBy]
	if !ok {
		return nil, fmt.Errorf("unsupported grouping %q", groupBy)
	}

	rows := make([]model.GroupCount, 0)
	query := applyFilter(GetDB(ctx, r.db).Model(&model.Record{}), filter).
		Select(`COALESCE(` + expr + `, '') AS "key", COUNT(*) AS "count"`).
		Group(expr).
		Order(`"count" DESC, "key" ASC`)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to group records by %s: %w", groupBy, err)
	}
	return rows, nil
}

func (r *recordRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var total int64
	err := GetDB(ctx, r.db).Model(&model.Record{}).Where("created_at >= ?", since).Count(&total).Error
	return total, err
}

func applyFilter(db *gorm.DB, filter RecordFilter) *gorm.DB {
	for _, c := range filter.Conditions() {
		db = db.Where(c.Query, c.Args...)
	}
	return db
}
