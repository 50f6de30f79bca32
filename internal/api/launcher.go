package api

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/launcher/internal/api/models"
	"github.com/smazurov/launcher/internal/launcher"
	"github.com/smazurov/launcher/internal/led"
	"github.com/smazurov/launcher/internal/loop"
)

func (s *Server) registerLauncherRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-launcher",
		Method:      http.MethodGet,
		Path:        "/api/launcher",
		Summary:     "Launcher State",
		Description: "Get the launcher state, LED status and carousel layout",
		Tags:        []string{"launcher"},
		Security:    withAuth(),
		Errors:      []int{401, 503},
	}, func(ctx context.Context, _ *struct{}) (*models.LauncherStateResponse, error) {
		return s.respond(ctx, s.launcher.Snapshot)
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "click-launcher",
		Method:      http.MethodPost,
		Path:        "/api/launcher/click",
		Summary:     "Click",
		Description: "Inject a pointer click: toggles the LED and auto-scroll",
		Tags:        []string{"launcher"},
		Security:    withAuth(),
		Errors:      []int{401, 503},
	}, func(ctx context.Context, _ *struct{}) (*models.LauncherStateResponse, error) {
		return s.respond(ctx, func(ctx context.Context) (launcher.Snapshot, error) {
			return s.launcher.Click(ctx, "api")
		})
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "shift-carousel",
		Method:      http.MethodPost,
		Path:        "/api/carousel/shift",
		Summary:     "Shift Carousel",
		Description: "Move the carousel by a number of pixels, with the same clamping and wrap-around as auto-scroll",
		Tags:        []string{"carousel"},
		Security:    withAuth(),
		Errors:      []int{401, 422, 503},
	}, func(ctx context.Context, input *models.ShiftRequest) (*models.LauncherStateResponse, error) {
		return s.respond(ctx, func(ctx context.Context) (launcher.Snapshot, error) {
			return s.launcher.Shift(ctx, input.Body.Delta)
		})
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-carousel-frame",
		Method:      http.MethodGet,
		Path:        "/api/carousel/frame",
		Summary:     "Carousel Frame",
		Description: "Get the most recently rendered frame as PNG",
		Tags:        []string{"carousel"},
		Security:    withAuth(),
		Errors:      []int{401, 404, 500},
		Responses: map[string]*huma.Response{
			"200": {
				Description: "Rendered frame",
				Content:     map[string]*huma.MediaType{"image/png": {}},
			},
		},
	}, func(_ context.Context, _ *struct{}) (*models.FrameResponse, error) {
		frame := s.launcher.Frame()
		if frame == nil {
			return nil, huma.Error404NotFound("No frame rendered yet")
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, frame); err != nil {
			return nil, huma.Error500InternalServerError("Failed to encode frame", err)
		}
		return &models.FrameResponse{
			ContentType:  "image/png",
			CacheControl: "no-store",
			Body:         buf.Bytes(),
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-led",
		Method:      http.MethodPut,
		Path:        "/api/led",
		Summary:     "Set LED",
		Description: "Write the LED directly. Does not change the launcher state.",
		Tags:        []string{"led"},
		Security:    withAuth(),
		Errors:      []int{401, 500, 503},
	}, func(ctx context.Context, input *models.LEDRequest) (*models.LauncherStateResponse, error) {
		return s.respond(ctx, func(ctx context.Context) (launcher.Snapshot, error) {
			return s.launcher.SetLED(ctx, input.Body.On)
		})
	})
}

// respond runs a launcher call with the request timeout and maps its error.
func (s *Server) respond(ctx context.Context, call func(context.Context) (launcher.Snapshot, error)) (*models.LauncherStateResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.options.RequestTimeout)
	defer cancel()

	snap, err := call(ctx)
	if err != nil {
		return nil, launcherError(err)
	}
	return &models.LauncherStateResponse{Body: toLauncherState(snap)}, nil
}

func launcherError(err error) error {
	switch {
	case errors.Is(err, loop.ErrStopped):
		return huma.Error503ServiceUnavailable("Launcher is shutting down", err)
	case errors.Is(err, context.DeadlineExceeded):
		return huma.Error503ServiceUnavailable("Launcher did not respond in time", err)
	case errors.Is(err, led.ErrUnavailable):
		return huma.Error503ServiceUnavailable("LED device unavailable", err)
	default:
		return huma.Error500InternalServerError("Launcher operation failed", err)
	}
}

func toLauncherState(snap launcher.Snapshot) models.LauncherStateData {
	data := models.LauncherStateData{
		State:  snap.State.String(),
		Active: snap.State == launcher.Active,
		LED: models.LEDData{
			On:     snap.LED.On,
			Device: snap.LED.Device,
		},
		Carousel: models.CarouselData{
			Start:  snap.Carousel.Start,
			Width:  snap.Carousel.Width,
			Height: snap.Carousel.Height,
			Panels: make([]models.PanelData, 0, len(snap.Carousel.Panels)),
		},
		Frames: snap.Frames,
	}
	if snap.LED.Err != nil {
		data.LED.Error = snap.LED.Err.Error()
	}
	for _, p := range snap.Carousel.Panels {
		data.Carousel.Panels = append(data.Carousel.Panels, models.PanelData{
			Index:    p.Index,
			X:        p.X,
			Y:        p.Y,
			Width:    p.Width,
			Height:   p.Height,
			HasImage: p.Image != nil,
		})
	}
	return data
}
