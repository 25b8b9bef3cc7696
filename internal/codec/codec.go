// Package codec serializes issues to and from their on-disk record form:
// a YAML frontmatter block followed by a markdown body with labeled
// sections and an append-only checkpoint log.
package codec

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bugsdev/bugs/internal/types"
)

// CheckpointTimeLayout is the timestamp format carried by checkpoint
// lines. Minute precision.
const CheckpointTimeLayout = "2006-01-02 15:04"

// CloseDateLayout is the date format carried by close annotations.
const CloseDateLayout = "2006-01-02"

// ErrMalformed reports a record whose frontmatter block is absent or not
// parseable as key-value YAML.
var ErrMalformed = errors.New("malformed record")

// MissingFieldError reports a record lacking one of the required fields.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

var (
	frontmatterRe = regexp.MustCompile(`(?s)^---\s*\n(.*?)\n---\s*\n?(.*)$`)
	checkpointRe  = regexp.MustCompile(`^\*\*Checkpoint\*\* \((\d{4}-\d{2}-\d{2} \d{2}:\d{2})\): ?(.*)$`)
	closedRe      = regexp.MustCompile(`^\*\*Closed\*\* \((\d{4}-\d{2}-\d{2})\): ?(.*)$`)
	sectionRe     = regexp.MustCompile(`^\*\*(Issue|Impact|Acceptance|Context)\*\*: ?(.*)$`)
)

// Encode renders an issue as a record document. The metadata block is
// emitted first, then the body heading and the labeled sections in fixed
// order, then the checkpoint log and any close annotations.
func Encode(issue *types.Issue) ([]byte, error) {
	meta, err := yaml.Marshal(issue)
	if err != nil {
		return nil, fmt.Errorf("encoding metadata: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(meta)
	b.WriteString("---\n\n")

	fmt.Fprintf(&b, "# %s: %s\n\n", types.Ref(issue.ID), issue.Title)
	fmt.Fprintf(&b, "**Issue**: %s\n\n", issue.Description)
	fmt.Fprintf(&b, "**Impact**: %s\n\n", issue.Impact)
	fmt.Fprintf(&b, "**Acceptance**: %s\n\n", issue.Acceptance)
	if issue.Context != "" {
		fmt.Fprintf(&b, "**Context**: %s\n\n", issue.Context)
	}
	for _, cp := range issue.Checkpoints {
		fmt.Fprintf(&b, "**Checkpoint** (%s): %s\n", cp.At.Format(CheckpointTimeLayout), cp.Note)
	}
	for _, cn := range issue.CloseNotes {
		fmt.Fprintf(&b, "**Closed** (%s): %s\n", cn.On.Format(CloseDateLayout), cn.Note)
	}

	return []byte(b.String()), nil
}

// Decode parses a record document back into an issue. The metadata block
// tolerates any key order; body sections are recovered by label rather
// than position so records touched up by hand or by agents still parse.
func Decode(doc []byte) (*types.Issue, error) {
	m := frontmatterRe.FindSubmatch(doc)
	if m == nil {
		return nil, fmt.Errorf("%w: no frontmatter block", ErrMalformed)
	}

	var issue types.Issue
	if err := yaml.Unmarshal(m[1], &issue); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if strings.TrimSpace(issue.Title) == "" {
		return nil, &MissingFieldError{Field: "title"}
	}

	if err := decodeBody(string(m[2]), &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// decodeBody walks the body line by line. A section label opens a capture
// that runs until the next label, heading, or log line; checkpoint and
// close lines are parsed individually and keep their original order.
func decodeBody(body string, issue *types.Issue) error {
	sections := map[string]*string{
		"Issue":      &issue.Description,
		"Impact":     &issue.Impact,
		"Acceptance": &issue.Acceptance,
		"Context":    &issue.Context,
	}
	seen := make(map[string]bool)

	var current *string
	var buf []string

	flush := func() {
		if current != nil {
			*current = strings.TrimSpace(strings.Join(buf, "\n"))
		}
		current = nil
		buf = nil
	}

	for _, line := range strings.Split(body, "\n") {
		if m := sectionRe.FindStringSubmatch(line); m != nil {
			flush()
			current = sections[m[1]]
			seen[m[1]] = true
			buf = append(buf, m[2])
			continue
		}
		if m := checkpointRe.FindStringSubmatch(line); m != nil {
			flush()
			at, err := time.ParseInLocation(CheckpointTimeLayout, m[1], time.Local)
			if err != nil {
				return fmt.Errorf("%w: bad checkpoint timestamp %q", ErrMalformed, m[1])
			}
			issue.Checkpoints = append(issue.Checkpoints, types.Checkpoint{At: at, Note: m[2]})
			continue
		}
		if m := closedRe.FindStringSubmatch(line); m != nil {
			flush()
			on, err := time.ParseInLocation(CloseDateLayout, m[1], time.Local)
			if err != nil {
				return fmt.Errorf("%w: bad close date %q", ErrMalformed, m[1])
			}
			issue.CloseNotes = append(issue.CloseNotes, types.CloseNote{On: on, Note: m[2]})
			continue
		}
		if strings.HasPrefix(line, "# ") {
			// Heading carries id and title redundantly; metadata wins.
			flush()
			continue
		}
		if current != nil {
			buf = append(buf, line)
			continue
		}
	}
	flush()

	for _, field := range []string{"Issue", "Impact", "Acceptance"} {
		if !seen[field] {
			return &MissingFieldError{Field: field}
		}
	}
	return nil
}

// SanitizeNote flattens a note to a single line so it cannot break the
// line-oriented checkpoint log.
func SanitizeNote(note string) string {
	note = strings.ReplaceAll(note, "\r\n", " ")
	note = strings.ReplaceAll(note, "\n", " ")
	return strings.TrimSpace(note)
}
