package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/harmonizer/pkg/session"
)

var dayNames = func() []string {
	var out []string
	for _, d := range session.Days() {
		out = append(out, string(d))
	}
	return out
}()

func registerTools(srv *server.MCPServer, svc *Service) {
	registerListSessionsTool(srv, svc)
	registerGetSessionTool(srv, svc)
	registerFindConflictTool(srv, svc)
	registerListConflictsTool(srv, svc)
	registerCandidateRoomsTool(srv, svc)
	registerListRoomsTool(srv, svc)
	registerMoveSessionTool(srv, svc)
}

func withCell() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("day",
			mcp.Required(),
			mcp.Description("Target day of the week."),
			mcp.Enum(dayNames...),
		),
		mcp.WithNumber("slot",
			mcp.Required(),
			mcp.Description("Target time slot, 1 (08:30) to 4 (16:00)."),
			mcp.Min(float64(session.FirstSlot)),
			mcp.Max(float64(session.LastSlot)),
		),
	}
}

func registerListSessionsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_sessions",
		mcp.WithDescription("List scheduled sessions, optionally filtered by teacher, group, room or day."),
		mcp.WithString("teacher", mcp.Description("Exact teacher name (formateur).")),
		mcp.WithString("group", mcp.Description("Exact group name (groupe).")),
		mcp.WithString("room", mcp.Description("Exact room name (salle).")),
		mcp.WithString("day", mcp.Description("Only sessions on this day."), mcp.Enum(dayNames...)),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		opts := ListOptions{
			Teacher: request.GetString("teacher", ""),
			Group:   request.GetString("group", ""),
			Room:    request.GetString("room", ""),
			Day:     request.GetString("day", ""),
		}
		sessions, err := svc.ListSessions(ctx, opts)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"sessions": sessions,
			"count":    len(sessions),
		})
	})
}

func registerGetSessionTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_session",
		mcp.WithDescription("Fetch a single session by identifier."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Session identifier to fetch."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.SessionByID(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerFindConflictTool(srv *server.MCPServer, svc *Service) {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Return the first session that would collide with moving a session to a cell, or null."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Session that would move."),
		),
	}, withCell()...)
	tool := mcp.NewTool("find_conflict", opts...)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args cellArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		conflict, err := svc.FindConflict(ctx, args.ID, args.Day, args.Slot)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"id":       args.ID,
			"conflict": conflict,
		})
	})
}

func registerListConflictsTool(srv *server.MCPServer, svc *Service) {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("List every session that would collide with moving a session to a cell, with the shared resources."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Session that would move."),
		),
	}, withCell()...)
	tool := mcp.NewTool("list_conflicts", opts...)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args cellArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		conflicts, err := svc.ListConflicts(ctx, args.ID, args.Day, args.Slot)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"conflicts": conflicts,
			"count":     len(conflicts),
		})
	})
}

func registerCandidateRoomsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool("candidate_rooms",
		append([]mcp.ToolOption{
			mcp.WithDescription("List the rooms free at a cell."),
		}, withCell()...)...,
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args cellArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		rooms, err := svc.CandidateRooms(ctx, args.Day, args.Slot)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"rooms": rooms,
			"count": len(rooms),
		})
	})
}

func registerListRoomsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_rooms",
		mcp.WithDescription("List every known room."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rooms := svc.Rooms(ctx)
		return toJSONResult(map[string]any{
			"rooms": rooms,
			"count": len(rooms),
		})
	})
}

func registerMoveSessionTool(srv *server.MCPServer, svc *Service) {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Move a session to a cell. When the cell collides, pass one of the reported candidate rooms to move it there; otherwise the move is cancelled."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Session to move."),
		),
	}, withCell()...)
	opts = append(opts, mcp.WithString("room",
		mcp.Description("Room to use when the target cell collides."),
	))
	tool := mcp.NewTool("move_session", opts...)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			cellArgs
			Room string `json:"room"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		res, err := svc.MoveSession(ctx, MoveOptions{
			ID:   args.ID,
			Day:  args.Day,
			Slot: args.Slot,
			Room: args.Room,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(res)
	})
}

type cellArgs struct {
	ID   string `json:"id"`
	Day  string `json:"day"`
	Slot int    `json:"slot"`
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
