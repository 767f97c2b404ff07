package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/27100340/chat-app-backend-v1/internal/models"
	"github.com/27100340/chat-app-backend-v1/internal/uow"
)

type GroupService struct {
	runner uow.Runner
	clock  func() time.Time
}

func NewGroupService(runner uow.Runner) *GroupService {
	return &GroupService{
		runner: runner,
		clock:  time.Now,
	}
}

type CreateGroupRequest struct {
	Name        string `json:"group_name" binding:"required"`
	Description string `json:"group_description"`
	AdminID     string `json:"admin_id" binding:"required"`
}

// Create builds a group and seeds the member set with the admin, so a
// fresh group always has exactly one member.
func (s *GroupService) Create(ctx context.Context, req *CreateGroupRequest) (*models.Group, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: group name is required", models.ErrValidation)
	}

	var group *models.Group
	err := s.runner.Do(ctx, func(u *uow.UnitOfWork) error {
		if _, err := u.Users.GetByID(ctx, req.AdminID); err != nil {
			return err
		}

		now := s.clock()
		group = models.NewGroup(req.Name, req.Description, req.AdminID, now)
		if err := group.AddMember(req.AdminID, now); err != nil {
			return err
		}
		return u.Groups.Save(ctx, group)
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

// Update applies a partial update to the group's name and description.
func (s *GroupService) Update(ctx context.Context, groupID string, name, description *string) (*models.Group, error) {
	var group *models.Group
	err := s.runner.Do(ctx, func(u *uow.UnitOfWork) error {
		var err error
		group, err = u.Groups.GetByID(ctx, groupID)
		if err != nil {
			return err
		}
		group.UpdateDetails(name, description, s.clock())
		return u.Groups.Update(ctx, groupID, group)
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) AddMember(ctx context.Context, groupID, memberID string) (*models.Group, error) {
	var group *models.Group
	err := s.runner.Do(ctx, func(u *uow.UnitOfWork) error {
		var err error
		group, err = u.Groups.GetByID(ctx, groupID)
		if err != nil {
			return err
		}
		if _, err := u.Users.GetByID(ctx, memberID); err != nil {
			return err
		}
		if err := group.AddMember(memberID, s.clock()); err != nil {
			return err
		}
		return u.Groups.Update(ctx, groupID, group)
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) RemoveMember(ctx context.Context, groupID, memberID string) (*models.Group, error) {
	var group *models.Group
	err := s.runner.Do(ctx, func(u *uow.UnitOfWork) error {
		var err error
		group, err = u.Groups.GetByID(ctx, groupID)
		if err != nil {
			return err
		}
		if err := group.RemoveMember(memberID, s.clock()); err != nil {
			return err
		}
		return u.Groups.Update(ctx, groupID, group)
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

// ChangeAdmin hands the group to a new admin. The new admin is added to
// the member set if not already present.
func (s *GroupService) ChangeAdmin(ctx context.Context, groupID, newAdminID string) (*models.Group, error) {
	var group *models.Group
	err := s.runner.Do(ctx, func(u *uow.UnitOfWork) error {
		var err error
		group, err = u.Groups.GetByID(ctx, groupID)
		if err != nil {
			return err
		}
		if _, err := u.Users.GetByID(ctx, newAdminID); err != nil {
			return err
		}

		now := s.clock()
		if !group.HasMember(newAdminID) {
			if err := group.AddMember(newAdminID, now); err != nil && !errors.Is(err, models.ErrDuplicateMember) {
				return err
			}
		}
		group.AdminID = newAdminID
		group.UpdatedAt = now
		return u.Groups.Update(ctx, groupID, group)
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) Delete(ctx context.Context, groupID string) error {
	return s.runner.Do(ctx, func(u *uow.UnitOfWork) error {
		if _, err := u.Groups.GetByID(ctx, groupID); err != nil {
			return err
		}
		return u.Groups.Delete(ctx, groupID)
	})
}

func (s *GroupService) GetByID(ctx context.Context, groupID string) (*models.Group, error) {
	var group *models.Group
	err := s.runner.Do(ctx, func(u *uow.UnitOfWork) error {
		var err error
		group, err = u.Groups.GetByID(ctx, groupID)
		return err
	})
	return group, err
}

// GetByMember returns every group the user belongs to.
func (s *GroupService) GetByMember(ctx context.Context, memberID string) ([]models.Group, error) {
	var groups []models.Group
	err := s.runner.Do(ctx, func(u *uow.UnitOfWork) error {
		var err error
		groups, err = u.Groups.GetByMember(ctx, memberID)
		return err
	})
	return groups, err
}
