package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/caarlos0/env/v11"

	"github.com/renderix/triggerhand/internal/app"
	"github.com/renderix/triggerhand/internal/gesture"
	"github.com/renderix/triggerhand/internal/server"
	"github.com/renderix/triggerhand/internal/store"
	"github.com/renderix/triggerhand/internal/tray"
)

// config holds the process configuration, read from the environment.
type config struct {
	Addr         string  `env:"TRIGGERHAND_ADDR" envDefault:":8080"`
	CameraID     int     `env:"TRIGGERHAND_CAMERA_ID" envDefault:"0"`
	DBPath       string  `env:"TRIGGERHAND_DB_PATH"`
	PluginDir    string  `env:"TRIGGERHAND_PLUGIN_DIR"`
	StaticDir    string  `env:"TRIGGERHAND_STATIC_DIR"`
	MotionThresh float64 `env:"TRIGGERHAND_MOTION_THRESHOLD" envDefault:"1.0"`
	NoTray       bool    `env:"TRIGGERHAND_NO_TRAY"`
}

func main() {
	fmt.Println("Triggerhand - Finger Gun Trigger Detection")

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("Failed to parse configuration: %v", err)
	}

	dataDir, err := ensureDataDir()
	if err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(dataDir, "triggerhand.db")
	}
	if cfg.PluginDir == "" {
		cfg.PluginDir = findPluginDir(dataDir)
	}
	if cfg.StaticDir == "" {
		cfg.StaticDir = findWebDir(dataDir)
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	application := app.New(app.Config{
		Store:        st,
		PluginDir:    cfg.PluginDir,
		CameraID:     cfg.CameraID,
		MotionThresh: cfg.MotionThresh,
	})

	if err := application.LoadThresholds(); err != nil {
		log.Printf("Failed to load threshold settings: %v", err)
	}
	if err := application.DiscoverPlugins(); err != nil {
		log.Printf("Plugin discovery failed: %v", err)
	}

	// Live updates fan out to WebSocket clients and the tray menu.
	hub := server.NewEventHub()
	application.AddEventSink(hub)

	if cfg.StaticDir != "" {
		fmt.Printf("Serving static files from: %s\n", cfg.StaticDir)
	}

	srv := server.New(server.Config{
		StaticDir:  cfg.StaticDir,
		Store:      st,
		Camera:     application.Camera(),
		Thresholds: application,
		Hub:        hub,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Addr)
		if err := srv.ListenAndServe(cfg.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if err := application.Start(); err != nil {
		log.Fatalf("Failed to start detection pipeline: %v", err)
	}
	application.SetEnabled(true)

	if cfg.NoTray {
		runHeadless(application)
		return
	}
	runTray(application, cfg.Addr)
}

// runTray blocks in the system tray event loop until Quit is chosen.
func runTray(application *app.App, addr string) {
	t := tray.New()
	application.AddEventSink(&traySink{tray: t})

	t.OnToggle(func(enabled bool) {
		application.SetEnabled(enabled)
	})
	t.OnSettings(func() {
		if err := openBrowser(settingsURL(addr)); err != nil {
			log.Printf("Failed to open settings page: %v", err)
		}
	})
	t.OnQuit(func() {
		application.Stop()
	})

	t.Run()
}

// runHeadless blocks until SIGINT or SIGTERM, for environments without a
// desktop session.
func runHeadless(application *app.App) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	application.Stop()
}

// traySink mirrors pipeline output into the tray menu.
type traySink struct {
	tray *tray.Tray
}

func (s *traySink) BroadcastTrigger(event gesture.TriggerEvent) {
	s.tray.SetLastTrigger(string(event.Kind))
}

func (s *traySink) BroadcastPose(isPose bool, anchor *gesture.Point2D) {
	s.tray.SetPoseHeld(isPose)
}

// ensureDataDir creates and returns ~/.triggerhand.
func ensureDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dataDir := filepath.Join(homeDir, ".triggerhand")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}

// findPluginDir searches for the plugin directory in common locations.
// It checks "plugins" relative to the working directory, then
// ~/.triggerhand/plugins. A missing directory is not an error; discovery
// just finds no plugins.
func findPluginDir(dataDir string) string {
	if info, err := os.Stat("plugins"); err == nil && info.IsDir() {
		if absPath, err := filepath.Abs("plugins"); err == nil {
			return absPath
		}
		return "plugins"
	}
	return filepath.Join(dataDir, "plugins")
}

// findWebDir searches for the web directory in common locations.
// It checks "web", "../web", "../../web", and ~/.triggerhand/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeWebDir := filepath.Join(dataDir, "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}

// settingsURL turns a listen address into a browser URL.
func settingsURL(addr string) string {
	if addr != "" && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
