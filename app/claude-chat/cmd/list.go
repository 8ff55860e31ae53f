package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecalloway/claude-chat/internal/cli"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored conversations",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	summaries, err := st.List()
	if err != nil {
		return err
	}

	fmt.Print(cli.FormatList(summaries))
	return nil
}
