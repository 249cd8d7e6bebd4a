package model

import "time"

// Team groups users for the shared leaderboard.
type Team struct {
	Key         string    `json:"key"`
	ID          string    `json:"id"`
	Name        string    `json:"name" validate:"required,max=100"`
	InviteCode  string    `json:"invite_code"`
	CreatedByID string    `json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// SetKey sets the database key for this team.
func (t *Team) SetKey(key string) {
	t.Key = key
}

// GetKey returns the database key for this team.
func (t *Team) GetKey() string {
	return t.Key
}

// NewTeam creates a team record.
func NewTeam(id, name, inviteCode, createdByID string) *Team {
	return &Team{
		Key:         GenerateTeamKey(id),
		ID:          id,
		Name:        name,
		InviteCode:  inviteCode,
		CreatedByID: createdByID,
		CreatedAt:   time.Now(),
	}
}

// ShortID returns the first 8 characters of the team id.
func (t *Team) ShortID() string {
	if len(t.ID) > 8 {
		return t.ID[:8]
	}
	return t.ID
}

// TeamMember links a user to a team. The key embeds both ids, so a user
// appears at most once per team.
type TeamMember struct {
	Key      string    `json:"key"`
	TeamID   string    `json:"team_id"`
	UserID   string    `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}

// SetKey sets the database key for this membership.
func (m *TeamMember) SetKey(key string) {
	m.Key = key
}

// GetKey returns the database key for this membership.
func (m *TeamMember) GetKey() string {
	return m.Key
}

// NewTeamMember creates a membership record.
func NewTeamMember(teamID, userID string) *TeamMember {
	return &TeamMember{
		Key:      GenerateMemberKey(teamID, userID),
		TeamID:   teamID,
		UserID:   userID,
		JoinedAt: time.Now(),
	}
}

// GenerateTeamKey builds "team:<id>".
func GenerateTeamKey(id string) string {
	return PrefixTeam + ":" + id
}

// GenerateMemberKey builds "member:<team>:<user>".
func GenerateMemberKey(teamID, userID string) string {
	return PrefixMember + ":" + teamID + ":" + userID
}

// MemberPrefixForTeam returns the key prefix for a team's memberships.
func MemberPrefixForTeam(teamID string) string {
	return PrefixMember + ":" + teamID + ":"
}

// GenerateInviteKey builds "invite:<code>".
func GenerateInviteKey(code string) string {
	return PrefixInvite + ":" + code
}
