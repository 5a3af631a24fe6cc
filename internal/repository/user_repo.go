package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tourlog/internal/model"
)

// UserRepository defines data access for identities
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Count(ctx context.Context) (int64, error)
	// LockRegistration serializes self-registration until the surrounding
	// transaction ends. It must be called inside RunInTx.
	LockRegistration(ctx context.Context) error
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// registrationLockKey is the postgres advisory lock id guarding the first-user rule
const registrationLockKey int64 = 0x746f75726c6f67

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a gorm-backed UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return translate(GetDB(ctx, r.db).Create(user).Error)
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := GetDB(ctx, r.db).Order("created_at asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := GetDB(ctx, r.db).Model(&model.User{}).Count(&total).Error
	return total, err
}

func (r *userRepository) LockRegistration(ctx context.Context) error {
	return GetDB(ctx, r.db).Exec("SELECT pg_advisory_xact_lock(?)", registrationLockKey).Error
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return translate(GetDB(ctx, r.db).Save(user).Error)
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.User{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
