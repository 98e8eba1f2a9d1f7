package models

import (
	"team-sync/core/client"
)

// Team is the local persisted counterpart of a remote team.
type Team struct {
	Id                 string `gorm:"primaryKey;size:26" json:"id"`
	Name               string `gorm:"index" json:"name"`
	DisplayName        string `json:"display_name"`
	Description        string `json:"description"`
	Type               string `json:"type"`
	AllowOpenInvite    bool   `json:"allow_open_invite"`
	LastTeamIconUpdate int64  `json:"last_team_icon_update"`
	UpdateAt           int64  `json:"update_at"`
	DeleteAt           int64  `json:"delete_at"`
}

// TeamFromRemote maps a remote team payload onto a local row.
func TeamFromRemote(t client.Team) Team {
	return Team{
		Id:                 t.Id,
		Name:               t.Name,
		DisplayName:        t.DisplayName,
		Description:        t.Description,
		Type:               t.Type,
		AllowOpenInvite:    t.AllowOpenInvite,
		LastTeamIconUpdate: t.LastTeamIconUpdate,
		UpdateAt:           t.UpdateAt,
		DeleteAt:           t.DeleteAt,
	}
}

// TeamMembership links the current user to a team with a
// space-separated role string.
type TeamMembership struct {
	TeamId   string `gorm:"primaryKey;size:26" json:"team_id"`
	UserId   string `gorm:"primaryKey;size:26" json:"user_id"`
	Roles    string `json:"roles"`
	DeleteAt int64  `json:"delete_at"`
}

// MembershipFromRemote maps a remote membership payload onto a local row.
func MembershipFromRemote(m client.TeamMembership) TeamMembership {
	return TeamMembership{
		TeamId:   m.TeamId,
		UserId:   m.UserId,
		Roles:    m.Roles,
		DeleteAt: m.DeleteAt,
	}
}

// MyTeam is the derived record joining a team-unread entry with the
// matching membership's role string. Exactly one row exists per
// team-unread entry received; Roles is empty when no membership matched.
type MyTeam struct {
	TeamId       string `gorm:"primaryKey;size:26" json:"team_id"`
	Roles        string `json:"roles"`
	MsgCount     int64  `json:"msg_count"`
	MentionCount int64  `json:"mention_count"`
}

// DeriveMyTeams left-joins team-unread entries with memberships on team
// id. Every unread entry yields one MyTeam row.
func DeriveMyTeams(unreads []client.TeamUnread, memberships []client.TeamMembership) []MyTeam {
	rolesByTeam := make(map[string]string, len(memberships))
	for _, m := range memberships {
		rolesByTeam[m.TeamId] = m.Roles
	}

	myTeams := make([]MyTeam, 0, len(unreads))
	for _, u := range unreads {
		myTeams = append(myTeams, MyTeam{
			TeamId:       u.TeamId,
			Roles:        rolesByTeam[u.TeamId],
			MsgCount:     u.MsgCount,
			MentionCount: u.MentionCount,
		})
	}
	return myTeams
}
