package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/27100340/chat-app-backend-v1/internal/models"
)

// storageErr re-raises a collaborator failure as the storage error kind.
// Callers decide what to do; repositories never retry.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", models.ErrStorage, op, err)
}

// UserRepository persists users.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Save(ctx context.Context, u *models.User) error {
	if err := r.db.WithContext(ctx).Create(userToRecord(u)).Error; err != nil {
		return storageErr("save user", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var rec userRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, storageErr("get user", err)
	}
	return userFromRecord(&rec), nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var rec userRecord
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, storageErr("get user by username", err)
	}
	return userFromRecord(&rec), nil
}

func (r *UserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	var recs []userRecord
	if err := r.db.WithContext(ctx).Order("username asc").Find(&recs).Error; err != nil {
		return nil, storageErr("list users", err)
	}
	users := make([]models.User, 0, len(recs))
	for i := range recs {
		users = append(users, *userFromRecord(&recs[i]))
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, id string, u *models.User) error {
	if err := r.db.WithContext(ctx).Save(userToRecord(u)).Error; err != nil {
		return storageErr("update user", err)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&userRecord{}, "id = ?", id).Error; err != nil {
		return storageErr("delete user", err)
	}
	return nil
}
