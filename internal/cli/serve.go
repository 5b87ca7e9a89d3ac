package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/amterp/flagmaker/internal/api"
	"github.com/amterp/ra"
)

func registerServe(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("serve")
	cmd.SetDescription("Start the flag editor in the browser")

	ctx.ServePort, _ = ra.NewInt("port").
		SetOptional(true).
		SetDefault(0).
		SetShort("p").
		SetFlagOnly(true).
		SetUsage("Port to listen on (default from config, 3000; will try incrementally if in use)").
		Register(cmd)

	ctx.ServeNoOpen, _ = ra.NewBool("no-open").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Don't open browser automatically").
		Register(cmd)

	ctx.ServeUsed, _ = parent.RegisterCmd(cmd)
}

func runServe(port int, noOpen bool) {
	app, err := NewApp(false)
	if err != nil {
		Fatal(err)
	}

	// The config watcher needs the file to exist
	if err := app.ConfigStore.EnsureExists(); err != nil {
		PrintWarning("Config hot-reload disabled: %v", err)
	}

	if port <= 0 {
		port = app.Config.Port
	}

	session := api.NewSession(app.Config, nil)
	handler := api.NewHandler(session, app.Config)

	// Find an available port starting from the requested one
	actualPort := findAvailablePort(port)

	server := api.NewServer(handler, actualPort, app.ConfigStore)

	url := fmt.Sprintf("http://localhost:%d", actualPort)
	PrintSuccess("Flag Maker running at %s", RenderURL(url))
	PrintInfo("Press Ctrl+C to stop")

	if !noOpen {
		openBrowser(url)
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			Fatal(err)
		}
	case <-sigCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			Fatal(err)
		}
		fmt.Println()
		PrintInfo("Stopped")
	}
}

// findAvailablePort tries ports starting from startPort until it finds one that's available.
func findAvailablePort(startPort int) int {
	maxAttempts := 100
	for i := 0; i < maxAttempts; i++ {
		port := startPort + i
		if isPortAvailable(port) {
			return port
		}
	}
	// If we couldn't find a port after maxAttempts, return the original and let it fail naturally
	return startPort
}

// isPortAvailable checks if a port is available by attempting to listen on it.
func isPortAvailable(port int) bool {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	listener.Close()
	return true
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	}
	if cmd != nil {
		_ = cmd.Start()
	}
}
