package storage

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	errs "github.com/deskercise/deskercise/internal/errors"
	"github.com/deskercise/deskercise/internal/model"
)

// inviteAttempts bounds the retry loop on invite code collisions.
const inviteAttempts = 5

// AmbiguousMatchError is returned when more than one team matches a short id.
type AmbiguousMatchError struct {
	Matches int
}

func (e *AmbiguousMatchError) Error() string {
	return "multiple teams match the given ID"
}

// TeamRepo provides operations for teams and memberships. Invite codes are
// indexed under invite:<code> so joins do not scan.
type TeamRepo struct {
	db *DB
}

// NewTeamRepo creates a new team repository.
func NewTeamRepo(db *DB) *TeamRepo {
	return &TeamRepo{db: db}
}

// GenerateInviteCode returns 8 random bytes as lowercase hex.
func GenerateInviteCode() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Create stores a new team with a unique invite code. The creator joins
// in the same transaction.
func (r *TeamRepo) Create(name, creatorID string) (*model.Team, error) {
	for attempt := 0; attempt < inviteAttempts; attempt++ {
		code, err := GenerateInviteCode()
		if err != nil {
			return nil, err
		}

		team := model.NewTeam(uuid.New().String(), strings.TrimSpace(name), code, creatorID)
		member := model.NewTeamMember(team.ID, creatorID)

		err = r.db.db.Update(func(txn *badger.Txn) error {
			inviteKey := []byte(model.GenerateInviteKey(code))
			if _, err := txn.Get(inviteKey); err == nil {
				return errInviteTaken
			} else if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			teamRef, err := json.Marshal(team.ID)
			if err != nil {
				return err
			}
			if err := txn.Set(inviteKey, teamRef); err != nil {
				return err
			}
			if err := setJSON(txn, team); err != nil {
				return err
			}
			return setJSON(txn, member)
		})
		if errors.Is(err, errInviteTaken) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return team, nil
	}
	return nil, errs.NewSystemError("could not allocate a unique invite code", errInviteTaken)
}

var errInviteTaken = errors.New("invite code already in use")

func setJSON(txn *badger.Txn, m model.Model) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return txn.Set([]byte(m.GetKey()), data)
}

// Get retrieves a team by full id.
func (r *TeamRepo) Get(id string) (*model.Team, error) {
	team := &model.Team{}
	if err := r.db.Get(model.GenerateTeamKey(id), team); err != nil {
		if IsErrKeyNotFound(err) {
			return nil, errs.ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

// Resolve finds a team by full id, id prefix, or exact name.
func (r *TeamRepo) Resolve(ref string) (*model.Team, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errs.ErrTeamNotFound
	}
	if team, err := r.Get(ref); err == nil {
		return team, nil
	} else if !errors.Is(err, errs.ErrTeamNotFound) {
		return nil, err
	}

	teams, err := r.List()
	if err != nil {
		return nil, err
	}
	var matches []*model.Team
	for _, t := range teams {
		if strings.HasPrefix(t.ID, ref) || strings.EqualFold(t.Name, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return nil, errs.ErrTeamNotFound
	case 1:
		return matches[0], nil
	default:
		return nil, &AmbiguousMatchError{Matches: len(matches)}
	}
}

// List returns every team.
func (r *TeamRepo) List() ([]*model.Team, error) {
	return GetAllByPrefix(r.db, model.PrefixTeam+":", func() *model.Team {
		return &model.Team{}
	})
}

// ListForUser returns the teams userID belongs to.
func (r *TeamRepo) ListForUser(userID string) ([]*model.Team, error) {
	members, err := GetAllByPrefix(r.db, model.PrefixMember+":", func() *model.TeamMember {
		return &model.TeamMember{}
	})
	if err != nil {
		return nil, err
	}

	var teams []*model.Team
	for _, m := range members {
		if m.UserID != userID {
			continue
		}
		team, err := r.Get(m.TeamID)
		if errors.Is(err, errs.ErrTeamNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, nil
}

// Join adds userID to the team owning code.
func (r *TeamRepo) Join(code, userID string) (*model.Team, error) {
	var teamID string
	if err := r.db.GetRaw(model.GenerateInviteKey(code), &teamID); err != nil {
		if IsErrKeyNotFound(err) {
			return nil, errs.ErrInvalidInviteCode
		}
		return nil, err
	}

	team, err := r.Get(teamID)
	if err != nil {
		if errors.Is(err, errs.ErrTeamNotFound) {
			return nil, errs.ErrInvalidInviteCode
		}
		return nil, err
	}

	member := model.NewTeamMember(team.ID, userID)
	exists, err := r.db.Exists(member.Key)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errs.ErrAlreadyMember
	}
	if err := r.db.Set(member); err != nil {
		return nil, err
	}
	return team, nil
}

// Leave removes userID from the team.
func (r *TeamRepo) Leave(teamID, userID string) error {
	key := model.GenerateMemberKey(teamID, userID)
	exists, err := r.db.Exists(key)
	if err != nil {
		return err
	}
	if !exists {
		return errs.ErrNotMember
	}
	return r.db.Delete(key)
}

// IsMember reports whether userID belongs to teamID.
func (r *TeamRepo) IsMember(teamID, userID string) (bool, error) {
	return r.db.Exists(model.GenerateMemberKey(teamID, userID))
}

// Members returns the memberships of teamID.
func (r *TeamRepo) Members(teamID string) ([]*model.TeamMember, error) {
	return GetAllByPrefix(r.db, model.MemberPrefixForTeam(teamID), func() *model.TeamMember {
		return &model.TeamMember{}
	})
}

// MemberIDs returns the user ids of teamID's members.
func (r *TeamRepo) MemberIDs(teamID string) ([]string, error) {
	members, err := r.Members(teamID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.UserID
	}
	return ids, nil
}

// Logs returns the most recent events of every member, newest first.
func (r *TeamRepo) Logs(teamID string, limit int) ([]*model.ExerciseEvent, error) {
	ids, err := r.MemberIDs(teamID)
	if err != nil {
		return nil, err
	}
	return NewEventRepo(r.db).ListForUsers(ids, limit)
}
