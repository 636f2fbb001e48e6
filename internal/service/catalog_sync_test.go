package service

import (
	"testing"
	"time"

	"agilemate/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestEsc(t *testing.T) {
	assert.Equal(t, "plain", esc("plain"))
	assert.Equal(t, `"a,b"`, esc("a,b"))
	assert.Equal(t, `"say ""hi"""`, esc(`say "hi"`))
	assert.Equal(t, "\"line1\nline2\"", esc("line1\nline2"))
}

func TestDailyUpdateRow(t *testing.T) {
	at := time.Date(2026, 10, 19, 9, 15, 0, 0, time.UTC)
	row := dailyUpdateRow(&model.DailyUpdate{
		ID: "d-1", ProjectID: "p-1", UserID: "u-1", UserName: "Alice", DailyDate: "2026-10-19",
		WhatDidYesterday: "fixed bug, refactored", WhatWillDoToday: "write tests", Blockers: "", CreatedAt: at,
	})
	assert.Equal(t, `d-1,p-1,u-1,Alice,2026-10-19,"fixed bug, refactored",write tests,,2026-10-19 09:15:00`+"\n", row)
}

func TestProjectRow(t *testing.T) {
	at := time.Date(2026, 10, 19, 9, 15, 0, 0, time.UTC)
	row := projectRow(&model.Project{ID: "p-1", Name: "Apollo", Description: "to the \"moon\"", OwnerID: "u-1", CreatedAt: at})
	assert.Equal(t, `p-1,Apollo,"to the ""moon""",u-1,2026-10-19 09:15:00`+"\n", row)
}
