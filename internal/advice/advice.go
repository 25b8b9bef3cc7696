// Package advice asks Claude for next-step suggestions on an issue.
// It is read-only: suggestions are printed, never written back.
package advice

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/bugsdev/bugs/internal/codec"
	"github.com/bugsdev/bugs/internal/types"
)

const (
	defaultModel   = "claude-3-5-haiku-20241022"
	maxRetries     = 3
	initialBackoff = 1 * time.Second
)

// ErrAPIKeyRequired is returned when ANTHROPIC_API_KEY is not set.
var ErrAPIKeyRequired = errors.New("API key required")

// Client wraps the Anthropic API for issue advice.
type Client struct {
	client         anthropic.Client
	model          anthropic.Model
	tmpl           *template.Template
	maxRetries     int
	initialBackoff time.Duration
}

// NewClient creates an advice client. model overrides the default when
// non-empty (config key suggest.model).
func NewClient(model string) (*Client, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set ANTHROPIC_API_KEY", ErrAPIKeyRequired)
	}
	if model == "" {
		model = defaultModel
	}

	tmpl, err := template.New("suggest").Parse(suggestPromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing suggest template: %w", err)
	}

	return &Client{
		client:         anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:          anthropic.Model(model),
		tmpl:           tmpl,
		maxRetries:     maxRetries,
		initialBackoff: initialBackoff,
	}, nil
}

// Suggest returns next-step advice for the issue based on its narrative
// and checkpoint history.
func (c *Client) Suggest(ctx context.Context, issue *types.Issue, blockers []string) (string, error) {
	prompt, err := c.renderPrompt(issue, blockers)
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return c.callWithRetry(ctx, prompt)
}

func (c *Client) callWithRetry(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.initialBackoff * time.Duration(math.Pow(2, float64(attempt-1)))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		message, err := c.client.Messages.New(ctx, params)
		if err == nil {
			if len(message.Content) == 0 {
				return "", fmt.Errorf("unexpected response format: no content blocks")
			}
			content := message.Content[0]
			if content.Type != "text" {
				return "", fmt.Errorf("unexpected response format: not a text block (type=%s)", content.Type)
			}
			return content.Text, nil
		}

		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !isRetryable(err) {
			return "", fmt.Errorf("non-retryable error: %w", err)
		}
	}

	return "", fmt.Errorf("failed after %d retries: %w", c.maxRetries+1, lastErr)
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}
	return false
}

type promptData struct {
	Ref         string
	Title       string
	Status      string
	Priority    string
	Issue       string
	Impact      string
	Acceptance  string
	Context     string
	Checkpoints []string
	Blockers    []string
}

func (c *Client) renderPrompt(issue *types.Issue, blockers []string) (string, error) {
	data := promptData{
		Ref:        types.Ref(issue.ID),
		Title:      issue.Title,
		Status:     string(issue.Status),
		Priority:   string(issue.Priority),
		Issue:      issue.Description,
		Impact:     issue.Impact,
		Acceptance: issue.Acceptance,
		Context:    issue.Context,
		Blockers:   blockers,
	}
	for _, cp := range issue.Checkpoints {
		data.Checkpoints = append(data.Checkpoints, fmt.Sprintf("%s: %s", cp.At.Format(codec.CheckpointTimeLayout), cp.Note))
	}

	var b strings.Builder
	if err := c.tmpl.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

const suggestPromptTemplate = `You are advising a developer on the next steps for an open issue in their tracker. Be concrete and brief.

**{{.Ref}}: {{.Title}}** (status: {{.Status}}, priority: {{.Priority}})

**Issue:**
{{.Issue}}

**Impact:**
{{.Impact}}

**Acceptance:**
{{.Acceptance}}

{{if .Context}}**Context:**
{{.Context}}
{{end}}

{{if .Checkpoints}}**Checkpoints so far:**
{{range .Checkpoints}}- {{.}}
{{end}}{{end}}

{{if .Blockers}}**Unresolved dependencies:**
{{range .Blockers}}- {{.}}
{{end}}{{end}}

Respond in this exact format:

**Next steps:** [2-4 numbered, concrete actions in order]

**Acceptance gaps:** [anything the acceptance criteria leave unverified, or "none"]

**Risks:** [one or two things likely to bite, or "none"]`
