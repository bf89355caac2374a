package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seatmap/pkg/records"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for seatmap.

To load completions:

Bash:
  $ source <(seatmap completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ seatmap completion bash > /etc/bash_completion.d/seatmap
  # macOS:
  $ seatmap completion bash > $(brew --prefix)/etc/bash_completion.d/seatmap

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ seatmap completion zsh > "${fpath[1]}/_seatmap"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ seatmap completion fish | source

  # To load completions for each session, execute once:
  $ seatmap completion fish > ~/.config/fish/completions/seatmap.fish

PowerShell:
  PS> seatmap completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> seatmap completion powershell > seatmap.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}

// completeLayoutIDs completes the first argument with stored layout ids.
// Store errors yield no suggestions.
func (c *CLI) completeLayoutIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	if err := c.loadConfig(); err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := records.Open(ctx, c.cfg.Records())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer s.Close()

	ids, err := s.List(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	matches := ids[:0]
	for _, id := range ids {
		if strings.HasPrefix(id, toComplete) {
			matches = append(matches, id)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}
