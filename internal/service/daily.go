package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agilemate/internal/model"

	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type DailyService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDailyService(db *gorm.DB) *DailyService { return &DailyService{db: db, now: time.Now} }

// Today is the server's current calendar day, used when a submission carries no date.
func (s *DailyService) Today() string { return s.now().Format(dateLayout) }

// Create validates and stores one stand-up submission for the caller.
func (s *DailyService) Create(ctx context.Context, caller model.Identity, req model.CreateDailyUpdateRequest) (*model.DailyUpdate, error) {
	u, err := s.build(caller, req)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, Internal("Failed to submit daily update", fmt.Errorf("insert daily update: %w", err))
	}
	return u, nil
}

// NormalizeDailyUpdate trims a submission and checks its required fields.
func NormalizeDailyUpdate(req model.CreateDailyUpdateRequest) (model.CreateDailyUpdateRequest, error) {
	req.ProjectID = strings.TrimSpace(req.ProjectID)
	req.WhatDidYesterday = strings.TrimSpace(req.WhatDidYesterday)
	req.WhatWillDoToday = strings.TrimSpace(req.WhatWillDoToday)
	req.Blockers = strings.TrimSpace(req.Blockers)
	req.Date = strings.TrimSpace(req.Date)
	if req.ProjectID == "" || req.WhatDidYesterday == "" || req.WhatWillDoToday == "" {
		return req, InvalidInput("Missing required fields: projectId, whatDidI_Yesterday, whatWillI_Today.")
	}
	if req.Date != "" {
		if _, err := time.Parse(dateLayout, req.Date); err != nil {
			return req, InvalidInput("Date must be formatted as YYYY-MM-DD.")
		}
	}
	return req, nil
}

func (s *DailyService) build(caller model.Identity, req model.CreateDailyUpdateRequest) (*model.DailyUpdate, error) {
	req, err := NormalizeDailyUpdate(req)
	if err != nil {
		return nil, err
	}
	u := &model.DailyUpdate{
		ID:               newID(),
		ProjectID:        req.ProjectID,
		UserID:           caller.ID,
		UserName:         caller.Name(),
		DailyDate:        req.Date,
		WhatDidYesterday: req.WhatDidYesterday,
		WhatWillDoToday:  req.WhatWillDoToday,
		Blockers:         req.Blockers,
	}
	if u.DailyDate == "" {
		u.DailyDate = s.Today()
	}
	return u, nil
}

// ListByProjectDate returns all updates for one project and day in submission order.
func (s *DailyService) ListByProjectDate(ctx context.Context, projectID, date string) ([]model.DailyUpdate, error) {
	var updates []model.DailyUpdate
	err := s.db.WithContext(ctx).
		Where("project_id = ? AND daily_date = ?", projectID, date).
		Order("created_at").Order("id").
		Find(&updates).Error
	if err != nil {
		return nil, Internal("Failed to fetch daily updates", fmt.Errorf("query daily updates: %w", err))
	}
	return updates, nil
}
