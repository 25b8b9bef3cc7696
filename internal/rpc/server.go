package rpc

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/bugsdev/bugs/internal/debug"
	"github.com/bugsdev/bugs/internal/search"
	"github.com/bugsdev/bugs/internal/storage"
)

// ServerVersion is reported in the initialize handshake. The serve
// command overrides it with the build version before starting.
var ServerVersion = "0.0.0"

// protocolVersion is the handshake revision this server speaks.
const protocolVersion = "2024-11-05"

// maxLineBytes bounds a single request line. Import payloads ride
// inside requests, so the cap is generous.
const maxLineBytes = 4 * 1024 * 1024

// Server answers JSON-RPC requests over a line-delimited stream. One
// request per line, one response per line; notifications get none.
type Server struct {
	store *storage.Store
	index *search.Index
}

// NewServer wires the tool handlers to a store. index may be nil when
// the full-text index could not be opened; search then reports
// unavailable instead of failing the whole server.
func NewServer(store *storage.Store, index *search.Index) *Server {
	return &Server{store: store, index: index}
}

// Reindex rebuilds the full-text index from the records on disk. The
// file watcher calls this after external edits.
func (s *Server) Reindex() error {
	if s.index == nil {
		return nil
	}
	open, closed, err := s.store.All()
	if err != nil {
		return err
	}
	return s.index.Rebuild(append(open, closed...))
}

// Serve reads requests from r until EOF, ctx cancellation, or a
// shutdown request. Responses are written to w in request order.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			resp := response{
				JSONRPC: "2.0",
				ID:      json.RawMessage("null"),
				Error:   &rpcError{Code: codeParseError, Message: fmt.Sprintf("parse error: %v", err)},
			}
			if err := enc.Encode(resp); err != nil {
				return err
			}
			continue
		}

		if req.notification() {
			s.handleNotification(&req)
			continue
		}

		resp := s.dispatch(&req)
		if err := enc.Encode(resp); err != nil {
			return err
		}
		if req.Method == MethodShutdown {
			return nil
		}
	}
	return scanner.Err()
}

// handleNotification absorbs id-less requests. Only the initialized
// notification is expected; anything else is logged and dropped.
func (s *Server) handleNotification(req *request) {
	switch req.Method {
	case MethodInitialized:
	default:
		debug.Logf("rpc: ignoring notification %q", req.Method)
	}
}

func (s *Server) dispatch(req *request) response {
	resp := response{JSONRPC: "2.0", ID: req.ID}
	if req.JSONRPC != "" && req.JSONRPC != "2.0" {
		resp.Error = &rpcError{Code: codeInvalidRequest, Message: fmt.Sprintf("unsupported jsonrpc version %q", req.JSONRPC)}
		return resp
	}

	switch req.Method {
	case MethodInitialize:
		resp.Result = initializeResult{
			ProtocolVersion: protocolVersion,
			ServerInfo:      serverInfo{Name: "bugs", Version: ServerVersion},
		}
	case MethodPing:
		resp.Result = struct{}{}
	case MethodShutdown:
		resp.Result = struct{}{}
	case MethodToolsList:
		resp.Result = toolsListResult{Tools: toolCatalog()}
	case MethodToolsCall:
		var params toolsCallParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			resp.Error = &rpcError{Code: codeInvalidParams, Message: fmt.Sprintf("invalid tools/call params: %v", err)}
			return resp
		}
		result, rerr := s.callTool(params.Name, params.Arguments)
		if rerr != nil {
			resp.Error = rerr
			return resp
		}
		resp.Result = result
	default:
		resp.Error = &rpcError{Code: codeMethodNotFound, Message: fmt.Sprintf("unknown method: %s", req.Method)}
	}
	return resp
}

// callTool routes one tools/call to its handler. Domain failures come
// back as tool results with IsError set, so the host relays them to
// the model; only an unknown tool name is a protocol error.
func (s *Server) callTool(name string, args json.RawMessage) (*toolResult, *rpcError) {
	debug.Logf("rpc: tools/call %s", name)
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	var res toolResult
	switch name {
	case OpList:
		res = s.handleList(args)
	case OpShow:
		res = s.handleShow(args)
	case OpCreate:
		res = s.handleCreate(args)
	case OpStart:
		res = s.handleStart(args)
	case OpBlock:
		res = s.handleBlock(args)
	case OpDone:
		res = s.handleDone(args)
	case OpClose:
		res = s.handleClose(args)
	case OpReopen:
		res = s.handleReopen(args)
	case OpDefer:
		res = s.handleDefer(args)
	case OpActivate:
		res = s.handleActivate(args)
	case OpCheckpoint:
		res = s.handleCheckpoint(args)
	case OpContext:
		res = s.handleContext(args)
	case OpFocus:
		res = s.handleFocus(args)
	case OpReady:
		res = s.handleReady(args)
	case OpBlocked:
		res = s.handleBlocked(args)
	case OpWins:
		res = s.handleWins(args)
	case OpDepAdd:
		res = s.handleDepAdd(args)
	case OpDepRemove:
		res = s.handleDepRemove(args)
	case OpDepTree:
		res = s.handleDepTree(args)
	case OpAliasAdd:
		res = s.handleAliasAdd(args)
	case OpImport:
		res = s.handleImport(args)
	case OpSummary:
		res = s.handleSummary(args)
	case OpMetrics:
		res = s.handleMetrics(args)
	case OpSearch:
		res = s.handleSearch(args)
	default:
		return nil, &rpcError{Code: codeInvalidParams, Message: fmt.Sprintf("unknown tool: %s", name)}
	}
	return &res, nil
}

// textResult wraps an operation's output as an indented JSON text block.
func textResult(v interface{}) toolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encoding result: %w", err))
	}
	return toolResult{Content: []toolContent{{Type: "text", Text: string(data)}}}
}

func errorResult(err error) toolResult {
	return toolResult{
		Content: []toolContent{{Type: "text", Text: err.Error()}},
		IsError: true,
	}
}
