package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/smazurov/launcher/internal/api/models"
	"github.com/smazurov/launcher/internal/events"
)

// registerSSERoutes registers GET /api/events.
func (s *Server) registerSSERoutes() {
	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Event Stream",
		Description: "Server-Sent Events for pointer input, state toggles, LED writes and carousel movement. The current state is sent first.",
		Tags:        []string{"events"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, map[string]any{
		"launcher-state":   models.LauncherStateData{},
		"pointer":          events.PointerEvent{},
		"active-changed":   events.ActiveChangedEvent{},
		"led-changed":      events.LEDChangedEvent{},
		"carousel-shifted": events.CarouselShiftedEvent{},
		"carousel-reset":   events.CarouselResetEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		fwd := events.NewForwarder(32)
		events.Forward[events.PointerEvent](s.eventBus, fwd)
		events.Forward[events.ActiveChangedEvent](s.eventBus, fwd)
		events.Forward[events.LEDChangedEvent](s.eventBus, fwd)
		events.Forward[events.CarouselShiftedEvent](s.eventBus, fwd)
		events.Forward[events.CarouselResetEvent](s.eventBus, fwd)
		defer s.closeForwarder(fwd, "/api/events")

		snapCtx, cancel := context.WithTimeout(ctx, s.options.RequestTimeout)
		snap, err := s.launcher.Snapshot(snapCtx)
		cancel()
		if err == nil {
			if err := send.Data(toLauncherState(snap)); err != nil {
				return
			}
		}

		forward(ctx, fwd.C(), send)
	})
}

// forward relays channel events to the client until it disconnects.
func forward(ctx context.Context, ch <-chan any, send sse.Sender) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-ch:
			if err := send.Data(ev); err != nil {
				return
			}
		}
	}
}

// closeForwarder unsubscribes an SSE client and reports events it missed.
func (s *Server) closeForwarder(fwd *events.Forwarder, path string) {
	fwd.Close()
	if n := fwd.Dropped(); n > 0 {
		s.logger.Debug("SSE client fell behind, events dropped", "path", path, "dropped", n)
	}
}
