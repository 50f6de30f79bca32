package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/smazurov/launcher/internal/api/models"
	"github.com/smazurov/launcher/internal/events"
	"github.com/smazurov/launcher/internal/logging"
)

var levelRank = map[string]int{"debug": 0, "info": 1, "warn": 2, "error": 3}

func (s *Server) registerLogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-logs",
		Method:      http.MethodGet,
		Path:        "/api/logs",
		Summary:     "Recent Logs",
		Description: "Get buffered log entries, optionally filtered by level and module",
		Tags:        []string{"logs"},
		Security:    withAuth(),
		Errors:      []int{401, 422},
	}, func(_ context.Context, input *models.LogsRequest) (*models.LogsResponse, error) {
		resp := &models.LogsResponse{}
		resp.Body.Entries = []models.LogEntryData{}

		buffer := logging.GetBuffer()
		if buffer == nil {
			return resp, nil
		}

		var filtered []logging.LogEntry
		for _, e := range buffer.Tail(0) {
			if input.Module != "" && e.Module != input.Module {
				continue
			}
			if input.Level != "" && levelRank[e.Level] < levelRank[input.Level] {
				continue
			}
			filtered = append(filtered, e)
		}
		if input.Limit > 0 && len(filtered) > input.Limit {
			filtered = filtered[len(filtered)-input.Limit:]
		}

		for _, e := range filtered {
			resp.Body.Entries = append(resp.Body.Entries, toLogEntry(e))
		}
		resp.Body.Count = len(resp.Body.Entries)
		return resp, nil
	})

	sse.Register(s.api, huma.Operation{
		OperationID: "logs-stream",
		Method:      http.MethodGet,
		Path:        "/api/logs/stream",
		Summary:     "Log Stream",
		Description: "Buffered log entries followed by new entries as they are written",
		Tags:        []string{"logs"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, map[string]any{
		"message": events.LogEntryEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		fwd := events.NewForwarder(100)
		events.Forward[events.LogEntryEvent](s.eventBus, fwd)
		defer s.closeForwarder(fwd, "/api/logs/stream")

		if buffer := logging.GetBuffer(); buffer != nil {
			for _, e := range buffer.Tail(0) {
				d := toLogEntry(e)
				if err := send.Data(events.LogEntryEvent{
					Timestamp:  d.Timestamp,
					Level:      d.Level,
					Module:     d.Module,
					Message:    d.Message,
					Attributes: d.Attributes,
				}); err != nil {
					return
				}
			}
		}

		forward(ctx, fwd.C(), send)
	})
}

func toLogEntry(e logging.LogEntry) models.LogEntryData {
	return models.LogEntryData{
		Timestamp:  e.Timestamp.Format(time.RFC3339Nano),
		Level:      e.Level,
		Module:     e.Module,
		Message:    e.Message,
		Attributes: e.Attributes,
	}
}
