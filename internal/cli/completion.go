package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for rondel.

To load completions:

Bash:
  $ source <(rondel completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ rondel completion bash > /etc/bash_completion.d/rondel
  # macOS:
  $ rondel completion bash > $(brew --prefix)/etc/bash_completion.d/rondel

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ rondel completion zsh > "${fpath[1]}/_rondel"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ rondel completion fish | source

  # To load completions for each session, execute once:
  $ rondel completion fish > ~/.config/fish/completions/rondel.fish

PowerShell:
  PS> rondel completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> rondel completion powershell > rondel.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}
