package main

import (
	"context"

	"agilemate/internal/logger"

	sdk "github.com/matrixorigin/moi-go-sdk"
)

var knowledge = []sdk.NL2SQLKnowledgeCreateRequest{
	{Type: "glossary", Key: "stand-up", Value: []string{"one row of daily_updates: what a member did yesterday, plans today, and what blocks them"}},
	{Type: "glossary", Key: "blocker", Value: []string{"daily_updates.blockers, an impediment reported by a member; empty means none"}},
	{Type: "glossary", Key: "project", Value: []string{"a row of projects; updates always belong to exactly one project"}},

	{Type: "synonyms", Key: "who/member/person/teammate", Value: []string{"author of an update"}, AssociateTables: []string{"daily_updates,user_name"}},
	{Type: "synonyms", Key: "day/date/when", Value: []string{"stand-up day"}, AssociateTables: []string{"daily_updates,daily_date"}},
	{Type: "synonyms", Key: "impediment/blocked/stuck", Value: []string{"reported blockers"}, AssociateTables: []string{"daily_updates,blockers"}},
	{Type: "synonyms", Key: "plan/today/next step", Value: []string{"planned work"}, AssociateTables: []string{"daily_updates,what_will_do_today"}},

	{Type: "logic", Key: "to name the project of an update join daily_updates.project_id to projects.id", Value: []string{"JOIN projects p ON du.project_id = p.id"}},
	{Type: "logic", Key: "today is CURDATE(); this week runs from Monday to today", Value: []string{"date range rules"}},
	{Type: "logic", Key: "an update has a blocker when TRIM(blockers) is not empty", Value: []string{"blocker filter"}},

	{Type: "case_library", Key: "who is blocked today", Value: []string{"SELECT p.name, du.user_name, du.blockers FROM daily_updates du JOIN projects p ON du.project_id = p.id WHERE du.daily_date = CURDATE() AND TRIM(du.blockers) != ''"}},
	{Type: "case_library", Key: "how many updates were submitted per day this week", Value: []string{"SELECT du.daily_date, COUNT(*) AS submitted FROM daily_updates du WHERE du.daily_date >= DATE_SUB(CURDATE(), INTERVAL WEEKDAY(CURDATE()) DAY) GROUP BY du.daily_date ORDER BY du.daily_date"}},
	{Type: "case_library", Key: "what did Alice plan this week", Value: []string{"SELECT du.daily_date, du.what_will_do_today FROM daily_updates du WHERE du.user_name = 'Alice' AND du.daily_date >= DATE_SUB(CURDATE(), INTERVAL WEEKDAY(CURDATE()) DAY) ORDER BY du.daily_date"}},
}

func initKnowledge(ctx context.Context, client *sdk.RawClient) error {
	for _, k := range knowledge {
		resp, err := client.CreateKnowledge(ctx, &k)
		if err != nil {
			if isDuplicate(err) {
				logger.Info("knowledge: already exists, skipping", "type", k.Type, "key", k.Key)
				continue
			}
			return err
		}
		logger.Info("knowledge: created", "type", k.Type, "key", k.Key, "id", resp.ID)
	}
	return nil
}
