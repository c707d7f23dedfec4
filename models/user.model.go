package models

import (
	"encoding/json"
)

// User represents the authenticated account as the backend reports it.
type User struct {
	ID           string `json:"userId"`
	Username     string `json:"username,omitempty"`
	Name         string `json:"name,omitempty"`
	Email        string `json:"email"`
	Role         string `json:"role"` // "user", "vendor" or "admin"
	ReferralCode string `json:"referralCode,omitempty"`
}

func (u *User) UnmarshalJSON(data []byte) error {
	var raw struct {
		UserID       flexID `json:"userId"`
		ID           flexID `json:"id"`
		Username     string `json:"username"`
		Name         string `json:"name"`
		Email        string `json:"email"`
		Role         string `json:"role"`
		ReferralCode string `json:"referralCode"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	id := raw.UserID
	if id == "" {
		id = raw.ID
	}
	*u = User{
		ID:           string(id),
		Username:     raw.Username,
		Name:         raw.Name,
		Email:        raw.Email,
		Role:         raw.Role,
		ReferralCode: raw.ReferralCode,
	}
	return nil
}
