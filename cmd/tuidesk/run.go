package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"

	"github.com/Gaurav-Gosain/tuidesk/internal/app"
	"github.com/Gaurav-Gosain/tuidesk/internal/config"
	"github.com/Gaurav-Gosain/tuidesk/internal/server"
	"github.com/Gaurav-Gosain/tuidesk/internal/terminal"
)

// filterMouseMotion drops pointer motion unless the shell is dragging a
// window or tracking menu hover.
func filterMouseMotion(model tea.Model, msg tea.Msg) tea.Msg {
	if _, ok := msg.(tea.MouseMotionMsg); !ok {
		return msg
	}
	shell, ok := model.(*app.Shell)
	if !ok || shell.WantsMotion() {
		return msg
	}
	return nil
}

func overrides() config.Overrides {
	return config.Overrides{
		Theme:         themeName,
		ASCIIOnly:     asciiOnly,
		Wallpaper:     wallpaperPath,
		WallpaperMode: wallpaperMode,
		HideClock:     hideClock,
	}
}

func runLocal(openTools []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("tuidesk needs an interactive terminal")
	}

	userConfig, err := config.LoadUserConfig()
	if err != nil {
		log.Printf("Warning: Failed to load config, using defaults: %v", err)
		userConfig = config.DefaultConfig()
	}
	ov := overrides()
	config.ApplyOverrides(ov, userConfig)

	if cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil {
				log.Printf("Warning: failed to close CPU profile file: %v", closeErr)
			}
		}()

		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := app.Options{
		Config:    userConfig,
		Context:   ctx,
		Overrides: ov,
	}
	for _, id := range openTools {
		opts.Startup = append(opts.Startup, app.ActionLaunch+":"+id)
	}
	if configPath, err := config.GetConfigPath(); err == nil {
		if w, err := config.Watch(ctx, configPath); err != nil {
			log.Printf("Warning: config changes will not be picked up: %v", err)
		} else {
			defer func() { _ = w.Close() }()
			opts.Reloads = w.Reloads()
		}
	}

	shell := app.NewShell(opts)
	p := tea.NewProgram(
		shell,
		tea.WithFPS(config.NormalFPS),
		tea.WithoutSignalHandler(),
		tea.WithFilter(filterMouseMotion),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			p.Send(tea.QuitMsg{})
		case <-ctx.Done():
		}
	}()

	finalModel, err := p.Run()

	if final, ok := finalModel.(*app.Shell); ok {
		final.Cleanup()
		if debugMode {
			if logErr := writeDebugLog(final.Logs()); logErr != nil {
				log.Printf("Warning: failed to write debug log: %v", logErr)
			}
		}
	}

	terminal.ResetTerminal(os.Stdout)

	if err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

// writeDebugLog appends the desktop log to the log file.
func writeDebugLog(logs []app.LogMessage) error {
	path, err := config.GetLogPath()
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = f.Close() }()
	for _, m := range logs {
		if _, err := fmt.Fprintf(f, "%s %-5s %s\n", m.Time.Format("2006-01-02 15:04:05.000"), m.Level, m.Message); err != nil {
			return fmt.Errorf("write log file: %w", err)
		}
	}
	fmt.Printf("Debug log written to %s\n", path)
	return nil
}

func runSSHServer(sshHost, sshPort, sshKeyPath string) error {
	if debugMode {
		fmt.Println("Debug mode enabled")
	}

	log.Printf("Starting tuidesk SSH server on %s:%s", sshHost, sshPort)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		cancel()
	}()

	cfg := &server.SSHServerConfig{
		Host:      sshHost,
		Port:      sshPort,
		KeyPath:   sshKeyPath,
		Overrides: overrides(),
	}
	if err := server.StartSSHServer(ctx, cfg); err != nil {
		return fmt.Errorf("SSH server error: %w", err)
	}
	return nil
}
