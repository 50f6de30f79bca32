// Package models holds request and response bodies of the HTTP API.
package models

// HealthData is the body of GET /api/health.
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"API is healthy" doc:"Status message"`
}

type HealthResponse struct {
	Body HealthData
}

// VersionData is the body of GET /api/version.
type VersionData struct {
	Version   string `json:"version" example:"v1.2.0" doc:"Release version"`
	GitCommit string `json:"git_commit" example:"3f2a9c1" doc:"Source revision"`
	BuildDate string `json:"build_date" example:"2025-01-27T10:30:00Z" doc:"Build timestamp"`
	GoVersion string `json:"go_version" example:"go1.24.11" doc:"Go toolchain"`
	Platform  string `json:"platform" example:"linux/arm64" doc:"GOOS/GOARCH"`
}

type VersionResponse struct {
	Body VersionData
}

// LEDData describes the LED as last written.
type LEDData struct {
	On     bool   `json:"on" example:"true" doc:"Last successfully written LED state"`
	Device string `json:"device" example:"/sys/class/leds/red/brightness" doc:"LED control file, empty when LED control is disabled"`
	Error  string `json:"error,omitempty" example:"led device unavailable" doc:"Error from the most recent write"`
}

// PanelData is one carousel panel.
type PanelData struct {
	Index    int  `json:"index" example:"9" doc:"Image number the panel was loaded from"`
	X        int  `json:"x" example:"0" doc:"Horizontal offset in pixels"`
	Y        int  `json:"y" example:"0" doc:"Vertical offset in pixels"`
	Width    int  `json:"width" example:"800" doc:"Panel width in pixels"`
	Height   int  `json:"height" example:"480" doc:"Panel height in pixels"`
	HasImage bool `json:"has_image" example:"true" doc:"False when the image file was missing"`
}

// CarouselData is the carousel layout in stored order.
type CarouselData struct {
	Start  int         `json:"start" example:"-1600" doc:"Cumulative scroll offset"`
	Width  int         `json:"width" example:"800" doc:"Display width"`
	Height int         `json:"height" example:"480" doc:"Display height"`
	Panels []PanelData `json:"panels" doc:"Panels in stored order, last loaded image first"`
}

// LauncherStateData is a snapshot of the launcher.
type LauncherStateData struct {
	State    string       `json:"state" example:"active" enum:"idle,active" doc:"Launcher state"`
	Active   bool         `json:"active" example:"true" doc:"Whether auto-scroll is running"`
	LED      LEDData      `json:"led" doc:"LED status"`
	Carousel CarouselData `json:"carousel" doc:"Carousel layout"`
	Frames   uint64       `json:"frames" example:"42" doc:"Frames rendered since startup"`
}

type LauncherStateResponse struct {
	Body LauncherStateData
}

// ShiftRequest is the body of POST /api/carousel/shift.
type ShiftRequest struct {
	Body struct {
		Delta int `json:"delta" example:"-800" minimum:"-100000" maximum:"100000" doc:"Horizontal shift in pixels, negative scrolls left"`
	}
}

// LEDRequest is the body of PUT /api/led.
type LEDRequest struct {
	Body struct {
		On bool `json:"on" example:"true" doc:"Whether the LED should be lit"`
	}
}

// FrameResponse carries the last rendered frame as PNG.
type FrameResponse struct {
	ContentType  string `header:"Content-Type"`
	CacheControl string `header:"Cache-Control"`
	Body         []byte
}

// LogsRequest filters GET /api/logs.
type LogsRequest struct {
	Limit  int    `query:"limit" default:"100" minimum:"0" maximum:"500" doc:"Maximum number of entries, newest last. 0 returns everything buffered"`
	Level  string `query:"level" enum:"debug,info,warn,error" doc:"Minimum level"`
	Module string `query:"module" example:"launcher" doc:"Only entries from this module"`
}

// LogEntryData is one buffered log line.
type LogEntryData struct {
	Timestamp  string         `json:"timestamp" example:"2025-01-09T10:30:00.123Z" doc:"Log timestamp"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"launcher" doc:"Source module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured log attributes"`
}

type LogsResponse struct {
	Body struct {
		Entries []LogEntryData `json:"entries" doc:"Buffered log entries, oldest first"`
		Count   int            `json:"count" example:"12" doc:"Number of entries returned"`
	}
}
