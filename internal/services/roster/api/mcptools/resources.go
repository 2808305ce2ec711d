package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const rosterURIPrefix = "roster://events/"

// rosterURI addresses the roster resource of eventID.
func rosterURI(eventID string) string {
	return rosterURIPrefix + eventID
}

func parseEventIDFromURI(uri string) (string, error) {
	eventID, ok := strings.CutPrefix(uri, rosterURIPrefix)
	eventID = strings.TrimSpace(eventID)
	if !ok || eventID == "" || strings.Contains(eventID, "/") {
		return "", fmt.Errorf("invalid URI format: expected roster://events/{event_id}, got %q", uri)
	}
	return eventID, nil
}

func (h *handlers) eventListResource() mcp.ResourceHandler {
	return func(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri := EventListResource().URI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}
		payload := EventListPayload{Events: []EventSummary{}}
		for _, eventID := range h.roster.Events() {
			event, err := h.roster.Event(eventID)
			if err != nil {
				continue
			}
			payload.Events = append(payload.Events, eventSummary(event))
		}
		return jsonResource(uri, payload)
	}
}

func (h *handlers) rosterResource() mcp.ResourceHandler {
	return func(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if req == nil || req.Params == nil || req.Params.URI == "" {
			return nil, fmt.Errorf("event ID is required; use URI format roster://events/{event_id}")
		}
		eventID, err := parseEventIDFromURI(req.Params.URI)
		if err != nil {
			return nil, err
		}
		view, err := h.roster.View(eventID)
		if err != nil {
			return nil, fmt.Errorf("read roster %s: %w", eventID, err)
		}
		return jsonResource(req.Params.URI, view)
	}
}

func jsonResource(uri string, payload any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal resource %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}
