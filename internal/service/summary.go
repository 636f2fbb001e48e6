package service

import (
	"context"
	"fmt"
	"strings"

	"agilemate/internal/logger"
	"agilemate/internal/model"

	"golang.org/x/sync/singleflight"
)

const (
	NoUpdatesSummary = "No daily updates found for this date and project."

	summarySystemPrompt = "You are a helpful Scrum Master assistant that summarizes daily standups."
	summaryPreamble     = "Here are today's daily standup updates from the team. Each block is one member's update:"
	summaryClosing      = "Please provide a concise summary of the team's overall progress, the next steps planned for today, and any impediments or blockers that need attention."
)

type ProjectAuthorizer interface {
	Authorize(ctx context.Context, projectID, uid string) (*model.Project, error)
}

type UpdateLister interface {
	ListByProjectDate(ctx context.Context, projectID, date string) ([]model.DailyUpdate, error)
}

type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// SummaryService folds one project's updates for one day into a single completion request.
type SummaryService struct {
	projects ProjectAuthorizer
	updates  UpdateLister
	ai       Completer
	coalesce bool
	flights  singleflight.Group
}

func NewSummaryService(projects ProjectAuthorizer, updates UpdateLister, ai Completer, coalesce bool) *SummaryService {
	return &SummaryService{projects: projects, updates: updates, ai: ai, coalesce: coalesce}
}

// Summarize checks the caller's membership, then builds the summary. With coalescing on,
// concurrent callers for the same (project, date) share one query and one completion;
// the membership check always runs per caller.
func (s *SummaryService) Summarize(ctx context.Context, projectID, date string, caller model.Identity) (*model.SummaryResponse, error) {
	if _, err := s.projects.Authorize(ctx, projectID, caller.ID); err != nil {
		return nil, err
	}
	if !s.coalesce {
		return s.generate(ctx, projectID, date)
	}

	v, err, shared := s.flights.Do(projectID+"\x00"+date, func() (interface{}, error) {
		return s.generate(context.WithoutCancel(ctx), projectID, date)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.Debug("summary.shared", "project_id", projectID, "date", date, "uid", caller.ID)
	}
	res := v.(*model.SummaryResponse)
	// callers must not share one Details backing array
	details := make([]model.DailyUpdate, len(res.Details))
	copy(details, res.Details)
	return &model.SummaryResponse{Summary: res.Summary, Details: details}, nil
}

func (s *SummaryService) generate(ctx context.Context, projectID, date string) (*model.SummaryResponse, error) {
	updates, err := s.updates.ListByProjectDate(ctx, projectID, date)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return &model.SummaryResponse{Summary: NoUpdatesSummary, Details: []model.DailyUpdate{}}, nil
	}

	logger.Info("summary.generate", "project_id", projectID, "date", date, "updates", len(updates))
	text, err := s.ai.Complete(ctx, []Message{
		{Role: "system", Content: summarySystemPrompt},
		{Role: "user", Content: BuildSummaryPrompt(updates)},
	})
	if err != nil {
		return nil, err
	}
	return &model.SummaryResponse{Summary: text, Details: updates}, nil
}

// BuildSummaryPrompt renders the updates, in the given order, into one prompt.
func BuildSummaryPrompt(updates []model.DailyUpdate) string {
	blocks := make([]string, len(updates))
	for i, u := range updates {
		blockers := u.Blockers
		if strings.TrimSpace(blockers) == "" {
			blockers = "None"
		}
		blocks[i] = fmt.Sprintf("Member: %s\nYesterday: %s\nToday: %s\nBlockers: %s",
			u.UserName, u.WhatDidYesterday, u.WhatWillDoToday, blockers)
	}

	var sb strings.Builder
	sb.WriteString(summaryPreamble)
	sb.WriteString("\n\n")
	sb.WriteString(strings.Join(blocks, "\n\n"))
	sb.WriteString("\n\n")
	sb.WriteString(summaryClosing)
	return sb.String()
}
