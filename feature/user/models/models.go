package models

import (
	"team-sync/core/client"
)

// User is the local persisted counterpart of a remote user profile.
// Roles is kept as the server's space-separated role-name string; role
// definitions themselves live in the role feature.
type User struct {
	Id                string `gorm:"primaryKey;size:26" json:"id"`
	Username          string `gorm:"index" json:"username"`
	Email             string `json:"email"`
	Nickname          string `json:"nickname"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	Position          string `json:"position"`
	Roles             string `json:"roles"`
	Locale            string `json:"locale"`
	DeleteAt          int64  `json:"delete_at"`
	UpdateAt          int64  `json:"update_at"`
	LastPictureUpdate int64  `json:"last_picture_update"`
}

// UserFromProfile maps a remote profile payload onto a local user row.
func UserFromProfile(p client.UserProfile) User {
	return User{
		Id:                p.Id,
		Username:          p.Username,
		Email:             p.Email,
		Nickname:          p.Nickname,
		FirstName:         p.FirstName,
		LastName:          p.LastName,
		Position:          p.Position,
		Roles:             p.Roles,
		Locale:            p.Locale,
		DeleteAt:          p.DeleteAt,
		UpdateAt:          p.UpdateAt,
		LastPictureUpdate: p.LastPictureUpdate,
	}
}

// Preference is a single user preference row.
type Preference struct {
	UserId   string `gorm:"primaryKey;size:26" json:"user_id"`
	Category string `gorm:"primaryKey;size:32" json:"category"`
	Name     string `gorm:"primaryKey;size:32" json:"name"`
	Value    string `json:"value"`
}

// PreferenceFromRemote maps a remote preference payload onto a local row.
func PreferenceFromRemote(p client.Preference) Preference {
	return Preference{
		UserId:   p.UserId,
		Category: p.Category,
		Name:     p.Name,
		Value:    p.Value,
	}
}
