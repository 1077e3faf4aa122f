package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerSessionsResource(srv, svc)
	registerRoomsResource(srv, svc)
	registerSessionTemplate(srv, svc)
}

func registerSessionsResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"harmonizer://sessions",
		"Sessions",
		mcp.WithResourceDescription("Every scheduled session of the week in grid order."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		sessions, err := svc.ListSessions(ctx, ListOptions{})
		if err != nil {
			return nil, err
		}
		payload := map[string]any{
			"sessions": sessions,
			"count":    len(sessions),
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerRoomsResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"harmonizer://rooms",
		"Rooms",
		mcp.WithResourceDescription("Every known room."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		rooms := svc.Rooms(ctx)
		payload := map[string]any{
			"rooms": rooms,
			"count": len(rooms),
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerSessionTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"harmonizer://sessions/{id}",
		"Session Details",
		mcp.WithTemplateDescription("A single scheduled session."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id := templateArg(request.Params.Arguments["id"])
		if id == "" {
			return nil, fmt.Errorf("session id is required")
		}

		dto, err := svc.SessionByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{"session": dto})
	})
}

// templateArg accepts both a plain value and the single-element list some
// clients send for URI template variables.
func templateArg(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []string:
		if len(t) > 0 {
			return t[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
