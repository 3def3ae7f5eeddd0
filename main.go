package main

import (
	"embed"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/wailsapp/wails/v3/pkg/application"
	"github.com/wailsapp/wails/v3/pkg/events"

	"go.aimuz.me/whispertype/config"
	"go.aimuz.me/whispertype/internal/app"
)

//go:embed all:frontend/dist
var assets embed.FS

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const appTitle = "Whisper Type"

func setupLogger(level string) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      l,
		TimeFormat: time.TimeOnly,
	})))
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		setupLogger(config.DefaultLogLevel)
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg.LogLevel)

	slog.Info("starting app", "version", version, "commit", commit, "date", date)
	appService := app.New(version, cfg)

	wailsApp := application.New(application.Options{
		Name:        appTitle,
		Description: "Hold a hotkey to dictate into any application",
		Services: []application.Service{
			application.NewService(appService),
		},
		Assets: application.AssetOptions{
			Handler: application.BundledAssetFileServer(assets),
		},
		Mac: application.MacOptions{
			// Don't quit when all windows are closed (we have a system tray)
			ApplicationShouldTerminateAfterLastWindowClosed: false,
		},
	})

	mainWindow := wailsApp.Window.NewWithOptions(application.WebviewWindowOptions{
		Title:         appTitle,
		Width:         400,
		Height:        500,
		URL:           "/",
		Frameless:     true,
		DisableResize: true,
	})

	// Intercept window close: hide instead of destroy so tray can reopen
	mainWindow.RegisterHook(events.Common.WindowClosing, func(e *application.WindowEvent) {
		e.Cancel()
		appService.MinimizeToTray()
	})

	systemTray := wailsApp.SystemTray.New()
	systemTray.SetTooltip(fmt.Sprintf("%s (Hold %s)", appTitle, appService.GetStatus().Hotkey))
	systemTray.OnClick(appService.ToggleWindow)

	// Init sets the initial (idle) tray icon and starts the hotkey listener.
	appService.Init(wailsApp, mainWindow, systemTray)

	trayMenu := wailsApp.NewMenu()
	trayMenu.Add("Show/Hide").OnClick(func(ctx *application.Context) {
		appService.ToggleWindow()
	})
	trayMenu.Add("Copy Last").OnClick(func(ctx *application.Context) {
		// Failures are logged by the service.
		_ = appService.CopyLastTranscription()
	})
	trayMenu.AddSeparator()
	trayMenu.Add("Exit").
		SetAccelerator("CmdOrCtrl+Q").
		OnClick(func(ctx *application.Context) {
			appService.Shutdown()
			wailsApp.Quit()
		})

	systemTray.SetMenu(trayMenu)

	if err := wailsApp.Run(); err != nil {
		slog.Error("run app", "error", err)
	}
	appService.Shutdown()
}
