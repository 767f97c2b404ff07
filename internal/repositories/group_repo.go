package repositories

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"github.com/27100340/chat-app-backend-v1/internal/models"
)

// GroupRepository persists groups. The member set is stored document-style
// as a jsonb column, so membership queries use a containment match.
type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

func (r *GroupRepository) Save(ctx context.Context, g *models.Group) error {
	if err := r.db.WithContext(ctx).Create(groupToRecord(g)).Error; err != nil {
		return storageErr("save group", err)
	}
	return nil
}

func (r *GroupRepository) GetByID(ctx context.Context, id string) (*models.Group, error) {
	var rec groupRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrGroupNotFound
	}
	if err != nil {
		return nil, storageErr("get group", err)
	}
	return groupFromRecord(&rec), nil
}

// memberContainment builds the jsonb containment operand for a member id.
// Marshalling keeps ids with quotes or backslashes from breaking the JSON.
func memberContainment(memberID string) string {
	needle, err := json.Marshal([]string{memberID})
	if err != nil {
		// A string slice cannot fail to marshal.
		panic(err)
	}
	return string(needle)
}

func (r *GroupRepository) GetByMember(ctx context.Context, memberID string) ([]models.Group, error) {
	var recs []groupRecord
	err := r.db.WithContext(ctx).
		Where("members @> ?", memberContainment(memberID)).
		Find(&recs).Error
	if err != nil {
		return nil, storageErr("get groups by member", err)
	}
	groups := make([]models.Group, 0, len(recs))
	for i := range recs {
		groups = append(groups, *groupFromRecord(&recs[i]))
	}
	return groups, nil
}

func (r *GroupRepository) Update(ctx context.Context, id string, g *models.Group) error {
	if err := r.db.WithContext(ctx).Save(groupToRecord(g)).Error; err != nil {
		return storageErr("update group", err)
	}
	return nil
}

func (r *GroupRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&groupRecord{}, "id = ?", id).Error; err != nil {
		return storageErr("delete group", err)
	}
	return nil
}
