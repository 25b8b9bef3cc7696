// Package importer loads batches of issues from YAML files.
package importer

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/bugsdev/bugs/internal/duration"
	"github.com/bugsdev/bugs/internal/storage"
	"github.com/bugsdev/bugs/internal/types"
)

// SupportedFormatMajor is the newest batch file format this build reads.
const SupportedFormatMajor = "v1"

// DepRef is one depends_on entry: a bare issue id, or the title of an
// issue defined earlier in the same batch.
type DepRef struct {
	ID    int
	Title string
}

func (d *DepRef) UnmarshalYAML(value *yaml.Node) error {
	var n int
	if err := value.Decode(&n); err == nil {
		d.ID = n
		return nil
	}
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("depends_on entry must be an id or a title")
	}
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		d.ID = n
		return nil
	}
	d.Title = s
	return nil
}

// Entry is one issue in a batch file.
type Entry struct {
	Title      string   `yaml:"title"`
	Issue      string   `yaml:"issue"`
	Impact     string   `yaml:"impact"`
	Acceptance string   `yaml:"acceptance"`
	Context    string   `yaml:"context,omitempty"`
	Priority   string   `yaml:"priority,omitempty"`
	Effort     string   `yaml:"effort,omitempty"`
	Files      []string `yaml:"files,omitempty"`
	Tags       []string `yaml:"tags,omitempty"`
	DependsOn  []DepRef `yaml:"depends_on,omitempty"`
}

// File is a parsed batch file.
type File struct {
	FormatVersion string  `yaml:"format_version,omitempty"`
	Issues        []Entry `yaml:"issues"`
}

// Outcome reports what happened to one entry. ID is zero when the item
// failed before creation.
type Outcome struct {
	Title string `json:"title"`
	ID    int    `json:"id,omitempty"`
	Err   error  `json:"-"`
}

// Result summarizes a batch run.
type Result struct {
	Created  int       `json:"created"`
	Failed   int       `json:"failed"`
	Outcomes []Outcome `json:"outcomes"`
}

// Parse reads a batch file and checks its format version.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	if err := checkFormatVersion(f.FormatVersion); err != nil {
		return nil, err
	}
	if len(f.Issues) == 0 {
		return nil, fmt.Errorf("import file has no issues")
	}
	return &f, nil
}

func checkFormatVersion(ver string) error {
	if ver == "" {
		return nil
	}
	v := ver
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("invalid format_version %q", ver)
	}
	if semver.Compare(semver.Major(v), SupportedFormatMajor) > 0 {
		return fmt.Errorf("import file format %s is newer than this build supports (%s); upgrade bugs", ver, SupportedFormatMajor)
	}
	return nil
}

// Run creates the batch's issues in order. Each item either fully
// succeeds or is reported failed; later items are attempted regardless.
// depends_on titles must refer to items earlier in the batch.
func Run(s *storage.Store, f *File) Result {
	res := Result{Outcomes: make([]Outcome, 0, len(f.Issues))}
	byTitle := make(map[string]int)

	for _, entry := range f.Issues {
		id, err := runOne(s, entry, byTitle)
		out := Outcome{Title: entry.Title, ID: id, Err: err}
		if err != nil {
			res.Failed++
		} else {
			res.Created++
			byTitle[entry.Title] = id
		}
		res.Outcomes = append(res.Outcomes, out)
	}
	return res
}

func runOne(s *storage.Store, entry Entry, byTitle map[string]int) (int, error) {
	issue := &types.Issue{
		Title:       strings.TrimSpace(entry.Title),
		Description: entry.Issue,
		Impact:      entry.Impact,
		Acceptance:  entry.Acceptance,
		Context:     entry.Context,
		Files:       entry.Files,
		Tags:        entry.Tags,
	}
	if entry.Priority != "" {
		issue.Priority = types.Priority(entry.Priority)
	}
	if entry.Effort != "" {
		minutes, err := duration.Parse(entry.Effort)
		if err != nil {
			return 0, err
		}
		issue.EffortMinutes = minutes
	}

	// Resolve dependencies up front so a bad reference fails the item
	// before anything is written.
	deps := make([]int, 0, len(entry.DependsOn))
	for _, ref := range entry.DependsOn {
		switch {
		case ref.Title != "":
			id, ok := byTitle[ref.Title]
			if !ok {
				return 0, fmt.Errorf("depends_on %q does not match an earlier issue in the batch", ref.Title)
			}
			deps = append(deps, id)
		default:
			if _, err := s.Get(strconv.Itoa(ref.ID)); err != nil {
				return 0, fmt.Errorf("depends_on %d: %w", ref.ID, err)
			}
			deps = append(deps, ref.ID)
		}
	}

	created, err := s.Create(issue)
	if err != nil {
		return 0, err
	}
	for _, dep := range deps {
		if _, err := s.AddDependency(strconv.Itoa(created.ID), strconv.Itoa(dep)); err != nil {
			return created.ID, fmt.Errorf("adding dependency on %d: %w", dep, err)
		}
	}
	return created.ID, nil
}
