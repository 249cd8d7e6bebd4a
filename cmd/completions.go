package cmd

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deskercise/deskercise/internal/catalog"
	"github.com/deskercise/deskercise/internal/model"
)

// completeExerciseIDs completes catalog ids, described by exercise name.
func completeExerciseIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var completions []string
	for _, ex := range catalog.All() {
		if strings.HasPrefix(ex.ID, toComplete) {
			completions = append(completions, ex.ID+"\t"+ex.Name)
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeDifficulties completes difficulty levels.
func completeDifficulties(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var completions []string
	for _, d := range catalog.Difficulties {
		if strings.HasPrefix(string(d), toComplete) {
			completions = append(completions, string(d))
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeTeams completes the signed-in user's teams by short id.
func completeTeams(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 || ctx == nil || ctx.TeamRepo == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	user, err := ctx.CurrentUser()
	if err != nil || user == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	teams, err := ctx.TeamRepo.ListForUser(user.ID)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var completions []string
	for _, t := range teams {
		if strings.HasPrefix(t.ShortID(), toComplete) {
			completions = append(completions, t.ShortID()+"\t"+t.Name)
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeSettingArgs completes settings set: the key, then its values.
func completeSettingArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return filterPrefix(settingKeys, toComplete), cobra.ShellCompDirectiveNoFileComp
	case 1:
		switch args[0] {
		case "interval":
			var values []string
			for _, n := range model.ReminderIntervals {
				values = append(values, strconv.Itoa(n))
			}
			return filterPrefix(values, toComplete), cobra.ShellCompDirectiveNoFileComp
		case "difficulty":
			return completeDifficulties(cmd, nil, toComplete)
		case "notifications":
			return filterPrefix([]string{"on", "off"}, toComplete), cobra.ShellCompDirectiveNoFileComp
		case "webhook-type":
			return filterPrefix([]string{model.WebhookTypeSlack, model.WebhookTypeDiscord, model.WebhookTypeGeneric}, toComplete),
				cobra.ShellCompDirectiveNoFileComp
		}
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func filterPrefix(values []string, prefix string) []string {
	var matches []string
	for _, v := range values {
		if strings.HasPrefix(v, prefix) {
			matches = append(matches, v)
		}
	}
	return matches
}
