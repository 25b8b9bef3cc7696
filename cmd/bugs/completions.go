package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bugsdev/bugs/internal/types"
)

// issueIDCompletion offers open issue ids with their titles as shell
// completions for ref arguments.
func issueIDCompletion(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	if store == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	open, err := store.List(types.PartitionOpen)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	completions := make([]string, 0, len(open))
	for _, issue := range open {
		completions = append(completions, fmt.Sprintf("%d\t%s", issue.ID, issue.Title))
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}
