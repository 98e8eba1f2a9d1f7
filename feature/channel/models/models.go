package models

import (
	"team-sync/core/client"
)

// Channel is the local persisted channel row. It owns at most one
// ChannelInfo, which is removed together with the channel.
type Channel struct {
	Id          string `gorm:"primaryKey;size:26" json:"id"`
	TeamId      string `gorm:"index" json:"team_id"`
	Type        string `json:"type"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	CreatorId   string `json:"creator_id"`
	DeleteAt    int64  `json:"delete_at"`

	Info *ChannelInfo `gorm:"foreignKey:ChannelId;references:Id;constraint:OnDelete:CASCADE" json:"info,omitempty"`
}

// ChannelInfo holds the extended metadata of one channel (1:1).
type ChannelInfo struct {
	ChannelId       string `gorm:"primaryKey;size:26" json:"channel_id"`
	GuestCount      int64  `json:"guest_count"`
	MemberCount     int64  `json:"member_count"`
	PinnedPostCount int64  `json:"pinned_post_count"`
	Header          string `json:"header"`
	Purpose         string `json:"purpose"`
}

// InfoFromRemote maps a remote channel-info payload onto a local row.
func InfoFromRemote(i client.ChannelInfo) ChannelInfo {
	return ChannelInfo{
		ChannelId:       i.ChannelId,
		GuestCount:      i.GuestCount,
		MemberCount:     i.MemberCount,
		PinnedPostCount: i.PinnedPostCount,
		Header:          i.Header,
		Purpose:         i.Purpose,
	}
}
