// Package rpc serves the tracker's operations to agent hosts over a
// line-delimited JSON-RPC stdio transport.
package rpc

import "encoding/json"

// Protocol methods.
const (
	MethodInitialize  = "initialize"
	MethodInitialized = "notifications/initialized"
	MethodToolsList   = "tools/list"
	MethodToolsCall   = "tools/call"
	MethodPing        = "ping"
	MethodShutdown    = "shutdown"
)

// Tool names for tools/call.
const (
	OpList       = "list"
	OpShow       = "show"
	OpCreate     = "create"
	OpStart      = "start"
	OpBlock      = "block"
	OpDone       = "done"
	OpClose      = "close"
	OpReopen     = "reopen"
	OpDefer      = "defer"
	OpActivate   = "activate"
	OpCheckpoint = "checkpoint"
	OpContext    = "context"
	OpFocus      = "focus"
	OpReady      = "ready"
	OpBlocked    = "blocked"
	OpWins       = "wins"
	OpDepAdd     = "dep_add"
	OpDepRemove  = "dep_remove"
	OpDepTree    = "dep_tree"
	OpAliasAdd   = "alias_add"
	OpImport     = "import"
	OpSummary    = "summary"
	OpMetrics    = "metrics"
	OpSearch     = "search"
)

// JSON-RPC 2.0 error codes.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// notification reports requests that carry no id and expect no reply.
func (r *request) notification() bool {
	return len(r.ID) == 0 || string(r.ID) == "null"
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// initializeResult answers the initialize handshake.
type initializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    capabilities `json:"capabilities"`
	ServerInfo      serverInfo   `json:"serverInfo"`
}

type capabilities struct {
	Tools struct{} `json:"tools"`
}

type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Tool describes one callable operation for tools/list.
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema interface{} `json:"inputSchema"`
}

type toolsListResult struct {
	Tools []Tool `json:"tools"`
}

type toolsCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// toolResult is the payload returned from tools/call. Text carries the
// operation's JSON output; IsError marks domain failures so the host
// shows them to the model instead of failing the call.
type toolResult struct {
	Content []toolContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

type toolContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Args structs for tools/call arguments.

// RefArgs addresses one issue by id or alias.
type RefArgs struct {
	Ref string `json:"ref"`
}

// RefsArgs addresses several issues for bulk operations.
type RefsArgs struct {
	Refs []string `json:"refs"`
}

// CreateArgs mirrors bugs create.
type CreateArgs struct {
	Title      string   `json:"title"`
	Issue      string   `json:"issue"`
	Impact     string   `json:"impact"`
	Acceptance string   `json:"acceptance"`
	Context    string   `json:"context,omitempty"`
	Priority   string   `json:"priority,omitempty"`
	Effort     string   `json:"effort,omitempty"`
	Files      []string `json:"files,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	DependsOn  []int    `json:"depends_on,omitempty"`
}

// BlockArgs carries the required reason.
type BlockArgs struct {
	Ref    string `json:"ref"`
	Reason string `json:"reason"`
}

// CloseArgs optionally annotates the closed records.
type CloseArgs struct {
	Refs []string `json:"refs"`
	Note string   `json:"note,omitempty"`
}

// CheckpointArgs appends a progress note.
type CheckpointArgs struct {
	Ref  string `json:"ref"`
	Note string `json:"note"`
}

// ListArgs filters the listing.
type ListArgs struct {
	Status     string `json:"status,omitempty"`
	Priority   string `json:"priority,omitempty"`
	Tag        string `json:"tag,omitempty"`
	MaxEffort  string `json:"max_effort,omitempty"`
	AllRecords bool   `json:"all,omitempty"`
}

// DepArgs names a dependency edge.
type DepArgs struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// AliasArgs binds a name to an issue.
type AliasArgs struct {
	Alias string `json:"alias"`
	Ref   string `json:"ref"`
}

// WinsArgs bounds quick wins by effort.
type WinsArgs struct {
	Threshold string `json:"threshold,omitempty"`
}

// ImportArgs carries a YAML batch inline.
type ImportArgs struct {
	Content string `json:"content"`
}

// SummaryArgs scopes the recap window.
type SummaryArgs struct {
	Since string `json:"since,omitempty"`
}

// MetricsArgs picks the aggregation period.
type MetricsArgs struct {
	Period string `json:"period,omitempty"`
}

// SearchArgs runs a full-text query.
type SearchArgs struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}
