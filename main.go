package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/smazurov/launcher/cmd"
	"github.com/smazurov/launcher/internal/api"
	"github.com/smazurov/launcher/internal/carousel"
	"github.com/smazurov/launcher/internal/config"
	"github.com/smazurov/launcher/internal/display"
	"github.com/smazurov/launcher/internal/events"
	"github.com/smazurov/launcher/internal/input"
	"github.com/smazurov/launcher/internal/launcher"
	"github.com/smazurov/launcher/internal/led"
	"github.com/smazurov/launcher/internal/logging"
	"github.com/smazurov/launcher/internal/loop"
	"github.com/smazurov/launcher/internal/metrics"
	"github.com/smazurov/launcher/internal/mqtt"
	"github.com/smazurov/launcher/internal/systemd"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"launcher.toml"`

	// Server settings
	Port string `help:"HTTP listen address" short:"p" default:":8090" toml:"server.port" env:"SERVER_PORT"`

	// Display settings
	DisplayWidth        int    `help:"Display width in pixels" default:"800" toml:"display.width" env:"DISPLAY_WIDTH"`
	DisplayHeight       int    `help:"Display height in pixels" default:"480" toml:"display.height" env:"DISPLAY_HEIGHT"`
	DisplayFramebuffer  string `help:"Framebuffer device, empty to render off-screen only" default:"" toml:"display.framebuffer" env:"DISPLAY_FRAMEBUFFER"`
	DisplayBitsPerPixel int    `help:"Framebuffer depth (16 or 32)" default:"32" toml:"display.bits_per_pixel" env:"DISPLAY_BITS_PER_PIXEL"`

	// Image settings
	ImagesPaths string `help:"Comma-separated directories containing images/" default:"." toml:"images.paths" env:"IMAGES_PATHS"`
	ImagesCount int    `help:"Number of carousel images (image0.png ...)" default:"10" toml:"images.count" env:"IMAGES_COUNT"`

	// Launcher timing
	LauncherStep      int    `help:"Pixels scrolled per tick" default:"800" toml:"launcher.step" env:"LAUNCHER_STEP"`
	LauncherTick      string `help:"Auto-scroll interval" default:"5s" toml:"launcher.tick" env:"LAUNCHER_TICK"`
	AnimationDelay    string `help:"Delay before the startup animation" default:"2s" toml:"animation.delay" env:"ANIMATION_DELAY"`
	AnimationDuration string `help:"Startup animation duration" default:"2s" toml:"animation.duration" env:"ANIMATION_DURATION"`
	AnimationEnd      int    `help:"Startup animation end offset in pixels" default:"0" toml:"animation.end" env:"ANIMATION_END"`
	AnimationEasing   string `help:"Easing curve (cubic-out, cubic-in-out, linear)" default:"cubic-out" toml:"animation.easing" env:"ANIMATION_EASING"`
	AnimationFPS      int    `help:"Animation frame rate" default:"30" toml:"animation.fps" env:"ANIMATION_FPS"`

	// LED settings
	LEDEnabled bool   `help:"Drive the LED on clicks" default:"true" toml:"led.enabled" env:"LED_ENABLED"`
	LEDDevice  string `help:"LED brightness file, or auto to detect from the board" default:"/sys/class/leds/red/brightness" toml:"led.device" env:"LED_DEVICE"`

	// Input settings
	InputEvdev            string `help:"Touchscreen evdev device, e.g. /dev/input/event0" default:"" toml:"input.evdev" env:"INPUT_EVDEV"`
	InputButtonChip       string `help:"GPIO chip of a push button, empty to disable" default:"" toml:"input.button_chip" env:"INPUT_BUTTON_CHIP"`
	InputButtonLine       int    `help:"GPIO line offset of the push button" default:"0" toml:"input.button_line" env:"INPUT_BUTTON_LINE"`
	InputButtonDebounce   string `help:"Push button debounce period" default:"20ms" toml:"input.button_debounce" env:"INPUT_BUTTON_DEBOUNCE"`
	InputButtonActiveHigh bool   `help:"Push button pulls the line high when pressed" default:"false" toml:"input.button_active_high" env:"INPUT_BUTTON_ACTIVE_HIGH"`

	// MQTT settings
	MQTTBroker      string `help:"MQTT broker URL, empty to disable" default:"" toml:"mqtt.broker" env:"MQTT_BROKER"`
	MQTTTopicPrefix string `help:"MQTT topic prefix" default:"launcher" toml:"mqtt.topic_prefix" env:"MQTT_TOPIC_PREFIX"`
	MQTTUsername    string `help:"MQTT username" default:"" toml:"mqtt.username" env:"MQTT_USERNAME"`
	MQTTPassword    string `help:"MQTT password" default:"" toml:"mqtt.password" env:"MQTT_PASSWORD"`

	// Auth settings
	AuthUsername string `help:"Basic auth username" default:"admin" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"password" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Logging settings
	LoggingLevel    string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat   string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingLauncher string `help:"Launcher logging level" default:"info" toml:"logging.launcher" env:"LOGGING_LAUNCHER"`
	LoggingLED      string `help:"LED logging level" default:"info" toml:"logging.led" env:"LOGGING_LED"`
	LoggingInput    string `help:"Input logging level" default:"info" toml:"logging.input" env:"LOGGING_INPUT"`
	LoggingAPI      string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
}

func main() {
	var cli humacli.CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		if err := config.LoadConfig(opts, cli.Root()); err != nil {
			slog.Warn("Failed to load config", "error", err)
		}

		logging.Initialize(loggingConfig(opts))
		logger := logging.GetLogger("main")

		eventBus := events.New()
		logging.SetLogCallback(func(e logging.LogEntry) {
			eventBus.Publish(events.LogEntryEvent{
				Timestamp:  e.Timestamp.Format(time.RFC3339Nano),
				Level:      e.Level,
				Module:     e.Module,
				Message:    e.Message,
				Attributes: e.Attributes,
			})
		})

		cfg, err := launcherConfig(opts)
		if err != nil {
			logger.Error("Invalid launcher settings", "error", err)
			os.Exit(1)
		}

		// Carousel and display
		loader := &carousel.Loader{
			SearchPaths: splitList(opts.ImagesPaths),
			Width:       opts.DisplayWidth,
			Height:      opts.DisplayHeight,
			Logger:      logging.GetLogger("carousel"),
		}
		strip := carousel.New(opts.DisplayWidth, opts.DisplayHeight)
		strip.Load(loader.Panels(opts.ImagesCount))
		background, err := loader.Background()
		if err != nil {
			logger.Warn("No background image, using black", "error", err)
		}
		renderer := display.NewRenderer(opts.DisplayWidth, opts.DisplayHeight, background, displaySink(opts, logger))

		ledController := led.New(led.Config{Enabled: opts.LEDEnabled, Device: opts.LEDDevice}, logging.GetLogger("led"))

		l := launcher.New(cfg, strip, ledController, renderer, eventBus, logging.GetLogger("launcher"))
		svc := launcher.NewService(l, loop.New(logging.GetLogger("loop")), inputSources(opts, logger), logging.GetLogger("launcher"))

		// Optional MQTT state publishing
		var bridge *mqtt.Bridge
		if opts.MQTTBroker != "" {
			pub, pubErr := mqtt.NewRealPublisher(mqtt.Config{
				Broker:      opts.MQTTBroker,
				TopicPrefix: opts.MQTTTopicPrefix,
				Username:    opts.MQTTUsername,
				Password:    opts.MQTTPassword,
			})
			if pubErr != nil {
				logger.Warn("MQTT disabled", "broker", opts.MQTTBroker, "error", pubErr)
			} else {
				bridge = mqtt.NewBridge(pub, logging.GetLogger("mqtt"))
			}
		}

		notifier := systemd.NewNotifier(logging.GetLogger("systemd"))
		eventBus.Subscribe(func(e events.ActiveChangedEvent) {
			notifier.Status("launcher " + e.State)
		})

		// Config file watcher reapplies log levels on change
		var watcher *config.Watcher[logging.Config]
		if _, statErr := os.Stat(opts.Config); statErr == nil {
			watcher = config.NewWatcher(opts.Config, config.LoadLogging, logging.GetLogger("config"))
			watcher.OnReload(logging.ApplyLevels)
		}

		server := api.NewServer(&api.Options{
			AuthUsername:      opts.AuthUsername,
			AuthPassword:      opts.AuthPassword,
			Launcher:          svc,
			EventBus:          eventBus,
			PrometheusHandler: metrics.Handler(),
		})

		ctx, cancel := context.WithCancel(context.Background())
		launcherDone := make(chan struct{})

		hooks.OnStart(func() {
			go func() {
				svc.Run(ctx)
				close(launcherDone)
			}()

			if bridge != nil {
				bridge.Start(eventBus)
			}
			if watcher != nil {
				if startErr := watcher.Start(); startErr != nil {
					logger.Warn("Config watcher disabled", "error", startErr)
				}
			}
			go notifier.Watchdog(ctx)
			notifier.Ready()

			if startErr := server.Start(opts.Port); startErr != nil {
				logger.Error("Failed to start HTTP server", "error", startErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down")
			notifier.Stopping()

			if stopErr := server.Stop(); stopErr != nil {
				logger.Error("Error stopping HTTP server", "error", stopErr)
			}

			cancel()
			<-launcherDone

			if bridge != nil {
				bridge.Stop()
			}
			if watcher != nil {
				if stopErr := watcher.Stop(); stopErr != nil {
					logger.Warn("Error stopping config watcher", "error", stopErr)
				}
			}
		})
	})

	cli.Root().AddCommand(cmd.CreateLEDCmd())
	cli.Root().AddCommand(cmd.CreateLayoutCmd())

	cli.Run()
}

func loggingConfig(opts *Options) logging.Config {
	return logging.Config{
		Level:  opts.LoggingLevel,
		Format: opts.LoggingFormat,
		Modules: map[string]string{
			"launcher": opts.LoggingLauncher,
			"led":      opts.LoggingLED,
			"input":    opts.LoggingInput,
			"api":      opts.LoggingAPI,
		},
	}
}

// launcherConfig converts the flat options into launcher timing.
func launcherConfig(opts *Options) (launcher.Config, error) {
	cfg := launcher.DefaultConfig()
	cfg.Step = opts.LauncherStep
	cfg.Animation.To = float64(opts.AnimationEnd)
	cfg.Animation.Easing = opts.AnimationEasing

	durations := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"launcher.tick", opts.LauncherTick, &cfg.TickInterval},
		{"animation.delay", opts.AnimationDelay, &cfg.Animation.Delay},
		{"animation.duration", opts.AnimationDuration, &cfg.Animation.Duration},
	}
	for _, d := range durations {
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", d.name, err)
		}
		*d.dst = parsed
	}

	if opts.AnimationFPS <= 0 {
		return cfg, fmt.Errorf("animation.fps must be positive, got %d", opts.AnimationFPS)
	}
	cfg.FrameInterval = time.Second / time.Duration(opts.AnimationFPS)

	return cfg, cfg.Validate()
}

func displaySink(opts *Options, logger *slog.Logger) display.Sink {
	if opts.DisplayFramebuffer == "" {
		return display.Discard{}
	}
	fb, err := display.OpenFramebuffer(display.FramebufferConfig{
		Device:       opts.DisplayFramebuffer,
		BitsPerPixel: opts.DisplayBitsPerPixel,
	})
	if err != nil {
		logger.Warn("Framebuffer disabled, rendering off-screen only", "error", err)
		return display.Discard{}
	}
	return fb
}

func inputSources(opts *Options, logger *slog.Logger) []input.Source {
	var sources []input.Source
	inputLogger := logging.GetLogger("input")

	if opts.InputEvdev != "" {
		sources = append(sources, input.NewEvdev(opts.InputEvdev, inputLogger))
	}

	if opts.InputButtonChip != "" {
		debounce, err := time.ParseDuration(opts.InputButtonDebounce)
		if err != nil {
			logger.Warn("Invalid button debounce, disabling debounce", "value", opts.InputButtonDebounce, "error", err)
			debounce = 0
		}
		sources = append(sources, input.NewButton(input.ButtonConfig{
			Chip:       opts.InputButtonChip,
			Line:       opts.InputButtonLine,
			Debounce:   debounce,
			ActiveHigh: opts.InputButtonActiveHigh,
		}, inputLogger))
	}

	return sources
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
