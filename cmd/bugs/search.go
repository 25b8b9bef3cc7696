package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bugsdev/bugs/internal/search"
	"github.com/bugsdev/bugs/internal/types"
	"github.com/bugsdev/bugs/internal/ui"
)

var searchCmd = &cobra.Command{
	Use:     "search <query>",
	GroupID: "views",
	Short:   "Full-text search across all issues",
	Long: `Full-text search across titles, bodies, checkpoints, and close notes
of open and closed issues.

The index is derived data under the cache directory and is rebuilt
from the records on every search, so results never go stale and the
index is safe to delete.

A trailing * matches by prefix: 'auth*' finds authentication.

Examples:
  bugs search timeout
  bugs search "login session"
  bugs search auth* --limit 5`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		query := strings.Join(args, " ")

		open, closed, err := store.All()
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}

		ix, err := search.Open(filepath.Join(store.CacheDir(), "search.db"))
		if err != nil {
			FatalErrorRespectJSON("opening search index: %v", err)
		}
		defer ix.Close()

		if err := ix.Rebuild(append(open, closed...)); err != nil {
			FatalErrorRespectJSON("indexing: %v", err)
		}
		matches, err := ix.Query(query, limit)
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}

		if jsonOutput {
			type jsonMatch struct {
				ID       int            `json:"id"`
				Status   types.Status   `json:"status"`
				Priority types.Priority `json:"priority"`
				Title    string         `json:"title"`
				Snippet  string         `json:"snippet,omitempty"`
			}
			out := make([]jsonMatch, 0, len(matches))
			for _, m := range matches {
				out = append(out, jsonMatch(m))
			}
			outputJSON(out)
			return
		}

		results := make([]ui.SearchResultItem, 0, len(matches))
		for _, m := range matches {
			results = append(results, ui.SearchResultItem{
				Ref:      types.Ref(m.ID),
				Title:    m.Title,
				Status:   string(m.Status),
				Priority: string(m.Priority),
				Snippet:  m.Snippet,
			})
		}
		if ui.IsTerminal() {
			fmt.Println(ui.RenderSearchResults(query, results, ui.GetWidth()))
		} else {
			fmt.Println(ui.RenderSearchResultsPlain(results))
		}
	},
}

func init() {
	searchCmd.Flags().IntP("limit", "l", 20, "Maximum number of results")
	rootCmd.AddCommand(searchCmd)
}
