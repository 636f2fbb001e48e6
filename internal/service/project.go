package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"agilemate/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectService struct{ db *gorm.DB }

func NewProjectService(db *gorm.DB) *ProjectService { return &ProjectService{db: db} }

// Create stores a project owned by the caller, who also becomes its only member.
func (s *ProjectService) Create(ctx context.Context, owner model.Identity, name, description string) (*model.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, InvalidInput("Project name is required.")
	}
	p := model.Project{
		ID:          newID(),
		Name:        name,
		Description: strings.TrimSpace(description),
		OwnerID:     owner.ID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&p).Error; err != nil {
			return fmt.Errorf("insert project: %w", err)
		}
		if err := tx.Create(&model.ProjectMember{ProjectID: p.ID, UserID: owner.ID}).Error; err != nil {
			return fmt.Errorf("insert owner membership: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, Internal("Failed to create project", err)
	}
	p.Members = []string{owner.ID}
	return &p, nil
}

// ListForMember returns every project whose member set contains uid, newest first.
func (s *ProjectService) ListForMember(ctx context.Context, uid string) ([]model.Project, error) {
	var projects []model.Project
	err := s.db.WithContext(ctx).
		Joins("JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.user_id = ?", uid).
		Order("projects.created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, Internal("Failed to fetch projects", fmt.Errorf("query projects: %w", err))
	}
	if len(projects) == 0 {
		return []model.Project{}, nil
	}

	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	var rows []model.ProjectMember
	if err := s.db.WithContext(ctx).Where("project_id IN ?", ids).Order("created_at").Find(&rows).Error; err != nil {
		return nil, Internal("Failed to fetch projects", fmt.Errorf("query members: %w", err))
	}
	members := make(map[string][]string, len(projects))
	for _, r := range rows {
		members[r.ProjectID] = append(members[r.ProjectID], r.UserID)
	}
	for i := range projects {
		projects[i].Members = members[projects[i].ID]
		if projects[i].Members == nil {
			projects[i].Members = []string{}
		}
	}
	return projects, nil
}

// Authorize loads a project and checks uid is a member. A missing project is reported
// exactly like a non-member.
func (s *ProjectService) Authorize(ctx context.Context, projectID, uid string) (*model.Project, error) {
	var p model.Project
	if err := s.db.WithContext(ctx).Where("id = ?", projectID).Take(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotMember
		}
		return nil, Internal("Failed to load project", fmt.Errorf("query project: %w", err))
	}
	if err := s.db.WithContext(ctx).Model(&model.ProjectMember{}).
		Where("project_id = ?", projectID).
		Order("created_at").
		Pluck("user_id", &p.Members).Error; err != nil {
		return nil, Internal("Failed to load project", fmt.Errorf("query members: %w", err))
	}
	if !p.HasMember(uid) {
		return nil, errNotMember
	}
	return &p, nil
}

// newID returns a time-ordered UUID.
func newID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
