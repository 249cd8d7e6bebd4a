package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deskercise/deskercise/internal/config"
	errs "github.com/deskercise/deskercise/internal/errors"
	"github.com/deskercise/deskercise/internal/model"
	"github.com/deskercise/deskercise/internal/output"
	"github.com/deskercise/deskercise/internal/stats"
	"github.com/deskercise/deskercise/internal/storage"
	"github.com/deskercise/deskercise/internal/validate"
)

// Team command flags.
var teamLogsFlagLimit int

// teamCmd represents the team command.
var teamCmd = &cobra.Command{
	Use:     "team [command]",
	Aliases: []string{"teams"},
	Short:   "Exercise together with a team",
	Long: `Create or join teams to share an exercise log and a leaderboard.
Teams are identified by name or by the short id shown in 'team list'.
You must be signed in (see 'deskercise login').

Examples:
  deskercise team create "Platform Squad"
  deskercise team join 3f9a0c1b2d4e5f60
  deskercise team board platform
  deskercise team logs 1a2b3c4d --limit 20`,
	Args: cobra.NoArgs,
	RunE: runTeamList,
}

// teamCreateCmd creates a team.
var teamCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a team and join it",
	Args:  cobra.ExactArgs(1),
	RunE:  runTeamCreate,
}

// teamJoinCmd joins a team by invite code.
var teamJoinCmd = &cobra.Command{
	Use:   "join INVITE-CODE",
	Short: "Join a team with its invite code",
	Args:  cobra.ExactArgs(1),
	RunE:  runTeamJoin,
}

// teamLeaveCmd leaves a team.
var teamLeaveCmd = &cobra.Command{
	Use:               "leave TEAM",
	Short:             "Leave a team",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTeams,
	RunE:              runTeamLeave,
}

// teamListCmd lists the signed-in user's teams.
var teamListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List your teams",
	Args:    cobra.NoArgs,
	RunE:    runTeamList,
}

// teamShowCmd shows a team and its members.
var teamShowCmd = &cobra.Command{
	Use:               "show TEAM",
	Short:             "Show a team, its invite code and members",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTeams,
	RunE:              runTeamShow,
}

// teamLogsCmd shows the team's combined exercise log.
var teamLogsCmd = &cobra.Command{
	Use:               "logs TEAM",
	Short:             "Show the team's recent exercises",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTeams,
	RunE:              runTeamLogs,
}

// teamBoardCmd shows the team leaderboard.
var teamBoardCmd = &cobra.Command{
	Use:               "board TEAM",
	Aliases:           []string{"leaderboard"},
	Short:             "Show the team leaderboard",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTeams,
	RunE:              runTeamBoard,
}

func init() {
	teamLogsCmd.Flags().IntVarP(&teamLogsFlagLimit, "limit", "n", 0,
		"Maximum number of entries (default from DESKERCISE_TEAM_LOG_LIMIT)")

	teamCmd.AddCommand(teamCreateCmd)
	teamCmd.AddCommand(teamJoinCmd)
	teamCmd.AddCommand(teamLeaveCmd)
	teamCmd.AddCommand(teamListCmd)
	teamCmd.AddCommand(teamShowCmd)
	teamCmd.AddCommand(teamLogsCmd)
	teamCmd.AddCommand(teamBoardCmd)

	rootCmd.AddCommand(teamCmd)
}

// runTeamCreate handles the team create command.
func runTeamCreate(cmd *cobra.Command, args []string) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	name := validate.CleanName(args[0])
	if err := validate.TeamName(name); err != nil {
		return err
	}

	team, err := ctx.TeamRepo.Create(name, user.ID)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.PrintJSON(output.NewTeamOutput(team, []*model.User{user}))
	}
	cli := ctx.CLIFormatter()
	cli.Success("Created team " + team.Name)
	cli.PrintTeam(team)
	cli.Muted("Share the invite code so teammates can run 'deskercise team join <code>'.")
	return nil
}

// runTeamJoin handles the team join command.
func runTeamJoin(cmd *cobra.Command, args []string) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	code, err := validate.InviteCode(args[0])
	if err != nil {
		return err
	}

	team, err := ctx.TeamRepo.Join(code, user.ID)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.PrintJSON(output.NewTeamOutput(team, nil))
	}
	ctx.CLIFormatter().Success("Joined " + team.Name)
	return nil
}

// runTeamLeave handles the team leave command.
func runTeamLeave(cmd *cobra.Command, args []string) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	team, err := resolveTeam(args[0])
	if err != nil {
		return err
	}

	if err := ctx.TeamRepo.Leave(team.ID, user.ID); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.PrintJSON(map[string]any{"status": "left", "team_id": team.ID})
	}
	ctx.CLIFormatter().Success("Left " + team.Name)
	return nil
}

// runTeamList handles the team list command.
func runTeamList(cmd *cobra.Command, args []string) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	teams, err := ctx.TeamRepo.ListForUser(user.ID)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		list := make([]*output.TeamOutput, len(teams))
		for i, t := range teams {
			list[i] = output.NewTeamOutput(t, nil)
		}
		return ctx.Formatter.PrintJSON(list)
	}

	cli := ctx.CLIFormatter()
	if len(teams) == 0 {
		cli.Muted("You are not in any team yet.")
		cli.Muted("Create one with 'deskercise team create <name>'.")
		return nil
	}
	rows := make([]output.TableRow, len(teams))
	for i, t := range teams {
		rows[i] = output.TableRow{Columns: []string{t.ShortID(), t.Name, t.InviteCode}}
	}
	cli.PrintTable([]string{"ID", "NAME", "INVITE CODE"}, rows)
	return nil
}

// runTeamShow handles the team show command.
func runTeamShow(cmd *cobra.Command, args []string) error {
	team, err := resolveTeam(args[0])
	if err != nil {
		return err
	}
	members, err := teamMembers(team.ID)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.PrintJSON(output.NewTeamOutput(team, members))
	}

	cli := ctx.CLIFormatter()
	cli.PrintTeam(team)
	cli.Println()
	cli.Title(fmt.Sprintf("Members (%d)", len(members)))
	for _, u := range members {
		name := u.DisplayName()
		if u.AvatarEmoji != "" {
			name = u.AvatarEmoji + " " + name
		}
		cli.Printf("  %s\n", name)
	}
	return nil
}

// runTeamLogs handles the team logs command.
func runTeamLogs(cmd *cobra.Command, args []string) error {
	team, err := resolveMemberTeam(args[0])
	if err != nil {
		return err
	}

	limit := teamLogsFlagLimit
	if limit <= 0 {
		limit = config.Global.History.TeamLogLimit
	}
	events, err := ctx.TeamRepo.Logs(team.ID, limit)
	if err != nil {
		return err
	}
	members, err := teamMemberIndex(team.ID)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		list := make([]*output.TeamLogOutput, len(events))
		for i, ev := range events {
			entry := &output.TeamLogOutput{EventOutput: output.NewEventOutput(ev)}
			u := members[ev.UserID]
			entry.DisplayName = u.DisplayName()
			if u != nil {
				entry.AvatarEmoji = u.AvatarEmoji
			}
			list[i] = entry
		}
		return ctx.Formatter.PrintJSON(list)
	}

	cli := ctx.CLIFormatter()
	if len(events) == 0 {
		cli.Muted("No exercises logged by this team yet.")
		return nil
	}
	cli.Title(team.Name)
	for _, ev := range events {
		cli.Printf("  %s\n", cli.Bold(members[ev.UserID].DisplayName()))
		cli.PrintEvent(ev)
	}
	return nil
}

// runTeamBoard handles the team board command.
func runTeamBoard(cmd *cobra.Command, args []string) error {
	team, err := resolveMemberTeam(args[0])
	if err != nil {
		return err
	}
	members, err := teamMembers(team.ID)
	if err != nil {
		return err
	}
	events, err := ctx.TeamRepo.Logs(team.ID, 0)
	if err != nil {
		return err
	}

	rows := stats.Leaderboard(members, events, ctx.Clock.Now())

	if ctx.IsJSON() {
		return ctx.Formatter.PrintJSON(output.LeaderboardResponse{TeamID: team.ID, Rows: rows})
	}
	cli := ctx.CLIFormatter()
	cli.Title(team.Name)
	cli.PrintLeaderboard(rows)
	return nil
}

// resolveTeam finds a team by id, id prefix or name.
func resolveTeam(ref string) (*model.Team, error) {
	team, err := ctx.TeamRepo.Resolve(ref)
	var ambiguous *storage.AmbiguousMatchError
	if errors.As(err, &ambiguous) {
		return nil, errs.NewUserErrorWithField("team", ref,
			fmt.Sprintf("%d teams match", ambiguous.Matches),
			"Use more characters of the team id.")
	}
	return team, err
}

// resolveMemberTeam resolves ref and checks the signed-in user belongs to it.
func resolveMemberTeam(ref string) (*model.Team, error) {
	user, err := ctx.RequireUser()
	if err != nil {
		return nil, err
	}
	team, err := resolveTeam(ref)
	if err != nil {
		return nil, err
	}
	ok, err := ctx.TeamRepo.IsMember(team.ID, user.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.ErrNotMember
	}
	return team, nil
}

// teamMembers returns the users of a team that still have a profile.
func teamMembers(teamID string) ([]*model.User, error) {
	index, err := teamMemberIndex(teamID)
	if err != nil {
		return nil, err
	}
	ids, err := ctx.TeamRepo.MemberIDs(teamID)
	if err != nil {
		return nil, err
	}
	var users []*model.User
	for _, id := range ids {
		if u := index[id]; u != nil {
			users = append(users, u)
		}
	}
	return users, nil
}

func teamMemberIndex(teamID string) (map[string]*model.User, error) {
	ids, err := ctx.TeamRepo.MemberIDs(teamID)
	if err != nil {
		return nil, err
	}
	return ctx.UserRepo.GetMany(ids)
}
