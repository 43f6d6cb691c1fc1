package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion <shell>",
		Short: "Print a shell completion script",
		Long: `Print a completion script for bash, zsh, fish or PowerShell.

Besides flag names, the script completes --strategy with the strategy
names and their descriptions, --format with pretty or json, and --dir
with directories only.

Load it for the current shell:

  bash        source <(patterntool completion bash)
  zsh         source <(patterntool completion zsh)
  fish        patterntool completion fish | source
  powershell  patterntool completion powershell | Out-String | Invoke-Expression

To keep it, write the script where your shell looks for completions,
for example:

  patterntool completion bash > ~/.local/share/bash-completion/completions/patterntool
  patterntool completion zsh > "${fpath[1]}/_patterntool"
  patterntool completion fish > ~/.config/fish/completions/patterntool.fish
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeCompletion(cmd.Root(), args[0], cmd.OutOrStdout())
		},
	}
}

// writeCompletion writes the completion script for shell, with descriptions
// enabled for every shell that supports them.
func writeCompletion(root *cobra.Command, shell string, w io.Writer) error {
	switch shell {
	case "bash":
		return root.GenBashCompletionV2(w, true)
	case "zsh":
		return root.GenZshCompletion(w)
	case "fish":
		return root.GenFishCompletion(w, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(w)
	default:
		return fmt.Errorf("unsupported shell %q", shell)
	}
}
