package model

// Identity is the verified caller of one request. It is never persisted.
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// Name is the label used for the caller in stand-up records.
func (i Identity) Name() string {
	if i.DisplayName != "" {
		return i.DisplayName
	}
	return i.Email
}

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  Identity `json:"user"`
}

type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateDailyUpdateRequest struct {
	ProjectID        string `json:"projectId"`
	WhatDidYesterday string `json:"whatDidI_Yesterday"`
	WhatWillDoToday  string `json:"whatWillI_Today"`
	Blockers         string `json:"blockers"`
	Date             string `json:"date,omitempty"`
}

type SummaryResponse struct {
	Summary string        `json:"summary"`
	Details []DailyUpdate `json:"details"`
}

type StatusResponse struct {
	Status            string `json:"status"`
	Service           string `json:"service"`
	Version           string `json:"version"`
	Environment       string `json:"environment"`
	FirebaseConnected bool   `json:"firebaseConnected"`
	ProjectID         string `json:"projectId"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
