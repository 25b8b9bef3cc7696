package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/bugsdev/bugs/internal/config"
	"github.com/bugsdev/bugs/internal/duration"
	"github.com/bugsdev/bugs/internal/types"
)

// createFormInput holds the raw string values bound to the form fields
// before parsing.
type createFormInput struct {
	Title      string
	Priority   string
	Issue      string
	Impact     string
	Acceptance string
	Context    string
	Effort     string
	Tags       string
	DependsOn  string
}

// runCreateForm drives the interactive creation form shown when
// 'bugs create' runs without a title.
func runCreateForm() {
	raw := &createFormInput{Priority: config.DefaultPriority()}
	if raw.Priority == "" {
		raw.Priority = string(types.PriorityMedium)
	}
	confirmed := true

	required := func(name string) func(string) error {
		return func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s is required", name)
			}
			return nil
		}
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Description("One line naming the problem (required)").
				Placeholder("e.g. Login fails on Safari 17").
				Value(&raw.Title).
				Validate(required("title")),

			huh.NewSelect[string]().
				Title("Priority").
				Options(
					huh.NewOption("Critical", string(types.PriorityCritical)),
					huh.NewOption("High", string(types.PriorityHigh)),
					huh.NewOption("Medium", string(types.PriorityMedium)),
					huh.NewOption("Low", string(types.PriorityLow)),
				).
				Value(&raw.Priority),
		),

		huh.NewGroup(
			huh.NewText().
				Title("Issue").
				Description("What goes wrong (required)").
				Placeholder("Describe the failure, not the fix...").
				CharLimit(5000).
				Value(&raw.Issue).
				Validate(required("issue")),

			huh.NewText().
				Title("Impact").
				Description("Who it hurts and how badly (required)").
				CharLimit(5000).
				Value(&raw.Impact).
				Validate(required("impact")),

			huh.NewText().
				Title("Acceptance").
				Description("When this counts as fixed (required)").
				CharLimit(5000).
				Value(&raw.Acceptance).
				Validate(required("acceptance")),

			huh.NewText().
				Title("Context").
				Description("Paths, reproduction notes, links (optional)").
				CharLimit(5000).
				Value(&raw.Context),
		),

		huh.NewGroup(
			huh.NewInput().
				Title("Effort").
				Description("Estimate like 30m, 2h, 1d (optional)").
				Value(&raw.Effort).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					_, err := duration.Parse(s)
					return err
				}),

			huh.NewInput().
				Title("Tags").
				Description("Comma-separated (optional)").
				Placeholder("e.g. auth, frontend").
				Value(&raw.Tags),

			huh.NewInput().
				Title("Depends on").
				Description("Comma-separated issue ids (optional)").
				Placeholder("e.g. 3, 7").
				Value(&raw.DependsOn).
				Validate(func(s string) error {
					_, err := parseIDList(s)
					return err
				}),

			huh.NewConfirm().
				Title("Create this issue?").
				Affirmative("Create").
				Negative("Cancel").
				Value(&confirmed),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Fprintln(os.Stderr, "Issue creation canceled.")
			os.Exit(0)
		}
		FatalError("form error: %v", err)
	}
	if !confirmed {
		fmt.Fprintln(os.Stderr, "Issue creation canceled.")
		os.Exit(0)
	}

	issue := &types.Issue{
		Title:       strings.TrimSpace(raw.Title),
		Description: strings.TrimSpace(raw.Issue),
		Impact:      strings.TrimSpace(raw.Impact),
		Acceptance:  strings.TrimSpace(raw.Acceptance),
		Context:     strings.TrimSpace(raw.Context),
		Tags:        splitCommaList(raw.Tags),
	}
	if pr, err := types.ParsePriority(raw.Priority); err == nil {
		issue.Priority = pr
	}
	if strings.TrimSpace(raw.Effort) != "" {
		// Validated by the form; a parse failure here cannot happen.
		issue.EffortMinutes, _ = duration.Parse(raw.Effort)
	}
	deps, _ := parseIDList(raw.DependsOn)

	created := createIssueWithDeps(issue, deps)
	if jsonOutput {
		outputJSON(created)
		return
	}
	printCreatedIssue(created)
}

func splitCommaList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseIDList(s string) ([]int, error) {
	var out []int
	for _, part := range splitCommaList(s) {
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("not an issue id: %q", part)
		}
		out = append(out, id)
	}
	return out, nil
}
