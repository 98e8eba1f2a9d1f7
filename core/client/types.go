package client

// UserProfile is the server-side representation of a user account.
// Roles is a space-separated list of role names.
type UserProfile struct {
	Id                string `json:"id"`
	Username          string `json:"username"`
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

// UserPatch carries raw changes submitted to the server for the current user.
// Pointer fields distinguish "unset" from "set to empty".
type UserPatch struct {
	Username  *string `json:"username,omitempty"`
	Email     *string `json:"email,omitempty"`
	Nickname  *string `json:"nickname,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Position  *string `json:"position,omitempty"`
	Locale    *string `json:"locale,omitempty"`
}

// Team is the server-side representation of a team.
type Team struct {
	Id                 string `json:"id"`
	Name               string `json:"name"`
	DisplayName        string `json:"display_name"`
	Description        string `json:"description"`
	Type               string `json:"type"`
	AllowOpenInvite    bool   `json:"allow_open_invite"`
	LastTeamIconUpdate int64  `json:"last_team_icon_update"`
	UpdateAt           int64  `json:"update_at"`
	DeleteAt           int64  `json:"delete_at"`
}

// TeamMembership links the current user to a team with a space-separated
// role string.
type TeamMembership struct {
	TeamId   string `json:"team_id"`
	UserId   string `json:"user_id"`
	Roles    string `json:"roles"`
	DeleteAt int64  `json:"delete_at"`
}

// TeamUnread carries per-team unread and mention counters.
type TeamUnread struct {
	TeamId       string `json:"team_id"`
	MsgCount     int64  `json:"msg_count"`
	MentionCount int64  `json:"mention_count"`
}

// Preference is a single user preference row.
type Preference struct {
	UserId   string `json:"user_id"`
	Category string `json:"category"`
	Name     string `json:"name"`
	Value    string `json:"value"`
}

// Role is a named permission bundle.
type Role struct {
	Id          string   `json:"id"`
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Permissions []string `json:"permissions"`
}

// ChannelInfo is the extended metadata payload for a single channel.
type ChannelInfo struct {
	ChannelId       string `json:"channel_id"`
	GuestCount      int64  `json:"guest_count"`
	MemberCount     int64  `json:"member_count"`
	PinnedPostCount int64  `json:"pinned_post_count"`
	Header          string `json:"header"`
	Purpose         string `json:"purpose"`
}
