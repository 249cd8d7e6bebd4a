package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCmd represents the completion command.
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for deskercise.

To load completions:

Bash:
  $ source <(deskercise completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ deskercise completion bash > /etc/bash_completion.d/deskercise
  # macOS:
  $ deskercise completion bash > $(brew --prefix)/etc/bash_completion.d/deskercise

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ deskercise completion zsh > "${fpath[1]}/_deskercise"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ deskercise completion fish | source

  # To load completions for each session, execute once:
  $ deskercise completion fish > ~/.config/fish/completions/deskercise.fish
`,
	DisableFlagsInUseLine: true,
	Annotations:           map[string]string{annotationNoStore: "true"},
	ValidArgs:             []string{"bash", "zsh", "fish"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
