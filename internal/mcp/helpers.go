// Package mcp provides the agent-facing tool surface. Each tool follows
// the same pattern:
// - A struct with the board service injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a result
//
// Tools call into the same service layer as the HTTP handlers, so rate
// limiting, validation, and events behave identically across surfaces.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"taskboard/internal/ratelimit"
	"taskboard/internal/response"
	"taskboard/internal/service"
)

// mcpClientID keys all tool calls of one server process into a single
// rate-limit bucket.
const mcpClientID = "mcp"

func withClient(ctx context.Context) context.Context {
	return service.WithClient(ctx, mcpClientID)
}

// toolError translates service errors into tool results. Rate-limit
// rejections surface the retry hint so the agent can back off.
func toolError(err error) *mcp.CallToolResult {
	var rlErr *ratelimit.Error
	if errors.As(err, &rlErr) {
		return mcp.NewToolResultError(fmt.Sprintf(
			"%s: %s limit of %d reached, retry after %s",
			response.ErrCodeRateLimited, rlErr.Class, rlErr.Limit, rlErr.RetryAfter.Round(time.Second),
		))
	}

	var appErr *response.AppError
	if errors.As(err, &appErr) {
		if appErr.Details != "" {
			return mcp.NewToolResultError(fmt.Sprintf("%s: %s (%s)", appErr.Code, appErr.Message, appErr.Details))
		}
		return mcp.NewToolResultError(fmt.Sprintf("%s: %s", appErr.Code, appErr.Message))
	}

	return mcp.NewToolResultError(err.Error())
}

// jsonResult renders v as indented JSON text.
func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}

// intArg extracts an integer argument, returning defaultVal if the key
// is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// boolArg extracts a boolean argument.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// stringSliceArg extracts a string-array argument. Non-string elements
// are skipped.
func stringSliceArg(req mcp.CallToolRequest, key string) ([]string, bool) {
	raw, ok := req.GetArguments()[key].([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out, true
}

// timeArg parses an RFC3339 timestamp argument.
func timeArg(req mcp.CallToolRequest, key string) (*time.Time, error) {
	s, ok := req.GetArguments()[key].(string)
	if !ok || s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("'%s' must be RFC3339: %w", key, err)
	}
	return &t, nil
}

// hasArg reports whether the argument was provided at all, so optional
// updates can distinguish "absent" from "empty".
func hasArg(req mcp.CallToolRequest, key string) bool {
	_, ok := req.GetArguments()[key]
	return ok
}
