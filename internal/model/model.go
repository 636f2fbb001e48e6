package model

import "time"

// Member is a sign-in account. Only the identity issuer reads this table.
type Member struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Email       string    `gorm:"uniqueIndex;size:255" json:"email"`
	Password    string    `json:"-"`
	DisplayName string    `gorm:"size:100" json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Project struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"size:200" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	OwnerID     string    `gorm:"size:64;index" json:"ownerId"`
	Members     []string  `gorm:"-" json:"members"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProjectMember is one row of a project's member set.
type ProjectMember struct {
	ProjectID string    `gorm:"primaryKey;size:36"`
	UserID    string    `gorm:"primaryKey;size:64;index"`
	CreatedAt time.Time
}

// HasMember reports whether uid is in the project's member set.
func (p *Project) HasMember(uid string) bool {
	for _, m := range p.Members {
		if m == uid {
			return true
		}
	}
	return false
}

// DailyUpdate is one stand-up submission. DailyDate is stored as a YYYY-MM-DD string so the
// summary query is a plain equality filter.
type DailyUpdate struct {
	ID               string    `gorm:"primaryKey;size:36" json:"id"`
	ProjectID        string    `gorm:"size:36;index:idx_project_date" json:"projectId"`
	UserID           string    `gorm:"size:64" json:"userId"`
	UserName         string    `gorm:"size:100" json:"userName"`
	DailyDate        string    `gorm:"size:10;index:idx_project_date" json:"date"`
	WhatDidYesterday string    `gorm:"type:text" json:"whatDidI_Yesterday"`
	WhatWillDoToday  string    `gorm:"type:text" json:"whatWillI_Today"`
	Blockers         string    `gorm:"type:text" json:"blockers"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (Member) TableName() string        { return "members" }
func (Project) TableName() string       { return "projects" }
func (ProjectMember) TableName() string { return "project_members" }
func (DailyUpdate) TableName() string   { return "daily_updates" }

// All lists the tables created at startup.
func All() []any {
	return []any{&Member{}, &Project{}, &ProjectMember{}, &DailyUpdate{}}
}
