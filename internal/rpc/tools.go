package rpc

// Schema fragments for the tool catalog. Descriptions are written for
// the agent reading tools/list, not for humans.

func schema(props map[string]interface{}, required ...string) map[string]interface{} {
	s := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func str(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": desc}
}

func strList(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": "string"},
		"description": desc,
	}
}

func intList(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": "integer"},
		"description": desc,
	}
}

func boolean(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "boolean", "description": desc}
}

func integer(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": desc}
}

func refProp() map[string]interface{} {
	return str("Issue reference: a numeric id, BUG-n, or an alias")
}

func toolCatalog() []Tool {
	return []Tool{
		{
			Name:        OpList,
			Description: "List issues, open partition by default. Filters combine.",
			InputSchema: schema(map[string]interface{}{
				"status":     str("Filter by status: open, active, blocked, done, closed, or backlog"),
				"priority":   str("Filter by priority: critical, high, medium, or low"),
				"tag":        str("Filter by tag"),
				"max_effort": str("Keep only issues with an estimate at or under this duration, e.g. 2h"),
				"all":        boolean("Include the closed partition"),
			}),
		},
		{
			Name:        OpShow,
			Description: "Show one issue in full, including narrative sections and logs.",
			InputSchema: schema(map[string]interface{}{"ref": refProp()}, "ref"),
		},
		{
			Name:        OpCreate,
			Description: "Create an issue. Title, issue, impact, and acceptance are required.",
			InputSchema: schema(map[string]interface{}{
				"title":      str("One-line summary"),
				"issue":      str("What is wrong"),
				"impact":     str("Why it matters"),
				"acceptance": str("What done looks like"),
				"context":    str("Optional background"),
				"priority":   str("critical, high, medium, or low (default medium)"),
				"effort":     str("Estimate such as 30m, 2h, 1d, or 1w"),
				"files":      strList("Related file paths"),
				"tags":       strList("Labels, normalized to lowercase"),
				"depends_on": intList("Ids of issues this one depends on"),
			}, "title", "issue", "impact", "acceptance"),
		},
		{
			Name:        OpStart,
			Description: "Mark an issue active.",
			InputSchema: schema(map[string]interface{}{"ref": refProp()}, "ref"),
		},
		{
			Name:        OpBlock,
			Description: "Mark an issue blocked. The reason is recorded on the record.",
			InputSchema: schema(map[string]interface{}{
				"ref":    refProp(),
				"reason": str("What it is waiting on"),
			}, "ref", "reason"),
		},
		{
			Name:        OpDone,
			Description: "Mark an issue's work finished. The record stays in the open partition until closed.",
			InputSchema: schema(map[string]interface{}{"ref": refProp()}, "ref"),
		},
		{
			Name:        OpClose,
			Description: "Close one or more issues, each independently. An optional note is appended to every record.",
			InputSchema: schema(map[string]interface{}{
				"refs": strList("Issue references"),
				"note": str("Closing note shared by all refs"),
			}, "refs"),
		},
		{
			Name:        OpReopen,
			Description: "Reopen a closed issue back into the open partition.",
			InputSchema: schema(map[string]interface{}{"ref": refProp()}, "ref"),
		},
		{
			Name:        OpDefer,
			Description: "Park an open issue in the backlog.",
			InputSchema: schema(map[string]interface{}{"ref": refProp()}, "ref"),
		},
		{
			Name:        OpActivate,
			Description: "Pull a backlog issue back to open.",
			InputSchema: schema(map[string]interface{}{"ref": refProp()}, "ref"),
		},
		{
			Name:        OpCheckpoint,
			Description: "Append a timestamped progress note. Prefixes BLOCKED:, FIXED:, and DONE: also move the status.",
			InputSchema: schema(map[string]interface{}{
				"ref":  refProp(),
				"note": str("Progress note"),
			}, "ref", "note"),
		},
		{
			Name:        OpContext,
			Description: "Situation report: in progress, blocked, high priority, and ready to start.",
			InputSchema: schema(map[string]interface{}{}),
		},
		{
			Name:        OpFocus,
			Description: "The top five issues to work on next.",
			InputSchema: schema(map[string]interface{}{}),
		},
		{
			Name:        OpReady,
			Description: "Open issues whose dependencies are all resolved.",
			InputSchema: schema(map[string]interface{}{}),
		},
		{
			Name:        OpBlocked,
			Description: "Blocked issues with their reasons.",
			InputSchema: schema(map[string]interface{}{}),
		},
		{
			Name:        OpWins,
			Description: "Open issues with an effort estimate at or under a threshold.",
			InputSchema: schema(map[string]interface{}{
				"threshold": str("Effort ceiling, default 1h"),
			}),
		},
		{
			Name:        OpDepAdd,
			Description: "Record that one issue depends on another. Self-references and cycles are refused.",
			InputSchema: schema(map[string]interface{}{
				"from": str("Issue that depends"),
				"to":   str("Issue it depends on"),
			}, "from", "to"),
		},
		{
			Name:        OpDepRemove,
			Description: "Remove a dependency edge.",
			InputSchema: schema(map[string]interface{}{
				"from": str("Issue that depends"),
				"to":   str("Issue it depends on"),
			}, "from", "to"),
		},
		{
			Name:        OpDepTree,
			Description: "The dependency tree under one issue.",
			InputSchema: schema(map[string]interface{}{"ref": refProp()}, "ref"),
		},
		{
			Name:        OpAliasAdd,
			Description: "Bind a memorable name to an issue. Purely numeric aliases are refused.",
			InputSchema: schema(map[string]interface{}{
				"alias": str("Name to bind"),
				"ref":   refProp(),
			}, "alias", "ref"),
		},
		{
			Name:        OpImport,
			Description: "Create a batch of issues from YAML. Items may reference earlier items in the batch by title.",
			InputSchema: schema(map[string]interface{}{
				"content": str("YAML batch document"),
			}, "content"),
		},
		{
			Name:        OpSummary,
			Description: "What was started, closed, and checkpointed since a cutoff.",
			InputSchema: schema(map[string]interface{}{
				"since": str("Cutoff such as 'yesterday' or '2 hours ago', default 24h back"),
			}),
		},
		{
			Name:        OpMetrics,
			Description: "Counts and close-time statistics for a period.",
			InputSchema: schema(map[string]interface{}{
				"period": str("day, week, month, or all (default week)"),
			}),
		},
		{
			Name:        OpSearch,
			Description: "Full-text search over titles, narrative sections, notes, and tags.",
			InputSchema: schema(map[string]interface{}{
				"query": str("Search terms; a trailing * matches prefixes"),
				"limit": integer("Maximum results, default 20"),
			}, "query"),
		},
	}
}
