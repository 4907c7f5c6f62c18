package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/luinbytes/media-control-raycast/internal/config"
	"github.com/luinbytes/media-control-raycast/internal/daemon"
	"github.com/luinbytes/media-control-raycast/internal/database"
	"github.com/luinbytes/media-control-raycast/internal/poller"
	"github.com/luinbytes/media-control-raycast/internal/reporter"
	"github.com/luinbytes/media-control-raycast/internal/web"
	"github.com/luinbytes/media-control-raycast/pkg/discovery"
	"github.com/luinbytes/media-control-raycast/pkg/grammar"
	"github.com/luinbytes/media-control-raycast/pkg/session"
	"github.com/luinbytes/media-control-raycast/pkg/utils"
)

var (
	version = "0.3.0"
	date    = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "now":
		showNow()
	case "dispatch":
		dispatchAction()
	case "start":
		startDaemon()
	case "serve":
		serveDaemon()
	case "stop":
		stopDaemon()
	case "status":
		showStatus()
	case "report":
		generateReport()
	case "clear":
		clearDatabase()
	case "version":
		showVersion()
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`mediactl - Media session discovery and control

Usage:
  mediactl <command> [options]

Commands:
  now [--json]       Discover and rank media sessions, print the current one
  dispatch <action>  Send a playback action (play, pause, toggle, next, previous)
  start              Start the discovery daemon
  serve              Start daemon with web API server
  stop               Stop the daemon
  status             Show daemon status and source availability
  report [period]    Generate activity report (period: day, week, month)
  clear              Clear all diagnostic data from database
  version            Show version information
  help               Show this help message

Examples:
  mediactl now
  mediactl now --json
  mediactl dispatch toggle
  mediactl serve
  mediactl report week
  mediactl stop

Environment Variables:
  MEDIACTL_DB_PATH               Database file path
  MEDIACTL_POLL_INTERVAL         Poll interval in seconds (1-60)
  MEDIACTL_TRANSPORT_TIMEOUT_MS  Whole-transport discovery timeout
  MEDIACTL_SESSION_TIMEOUT_MS    Per-session metadata timeout
  MEDIACTL_WINDOW_TIMEOUT_MS     Window enumeration timeout
  MEDIACTL_GRAMMAR_FILE          Extra app grammars (TOML)
  MEDIACTL_PID_FILE              PID file path

Version: %s
`, version)
}

// buildStack loads the grammar registry and assembles the discovery
// stack from the config timeouts.
func buildStack(cfg *config.Config) (*discovery.Stack, error) {
	registry, err := grammar.Load(cfg.Registry.GrammarFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load grammar file: %w", err)
	}

	return discovery.New(discovery.Options{
		Registry:         registry,
		TransportTimeout: cfg.Discovery.TransportTimeout,
		SessionTimeout:   cfg.Discovery.SessionTimeout,
		WindowTimeout:    cfg.Discovery.WindowTimeout,
	}), nil
}

func showNow() {
	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	stack, err := buildStack(cfg)
	if err != nil {
		log.Fatalf("Failed to assemble discovery stack: %v", err)
	}
	defer stack.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result := stack.Engine.Discover(ctx)

	jsonOutput := len(os.Args) > 2 && os.Args[2] == "--json"
	if jsonOutput {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Fatalf("Failed to encode result: %v", err)
		}
		fmt.Println(string(data))
		return
	}

	if !result.Active() {
		fmt.Println("No active media session")
		return
	}

	c := result.Winner
	state := "Paused"
	if c.IsPlaying {
		state = "Playing"
	}
	fmt.Printf("%s\n", c.Title)
	if c.Artist != "" {
		fmt.Printf("  Artist: %s\n", c.Artist)
	}
	if c.Album != "" {
		fmt.Printf("  Album:  %s\n", c.Album)
	}
	fmt.Printf("  State:  %s\n", state)
	fmt.Printf("  App:    %s\n", c.SourceAppID)
	fmt.Printf("  Type:   %s\n", c.SourceType)
	fmt.Printf("  Score:  %d\n", c.Score)
	if c.Duration > 0 {
		fmt.Printf("  Time:   %s\n", utils.FormatProgress(c.Position, c.Duration))
	}
	if c.IsLive {
		fmt.Println("  Live:   yes")
	}
	if c.VideoID != "" {
		fmt.Printf("  Video:  %s\n", c.VideoID)
	}
}

func dispatchAction() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: mediactl dispatch <play|pause|toggle|next|previous>")
		os.Exit(1)
	}

	action, ok := session.ParseAction(os.Args[2])
	if !ok {
		log.Fatalf("Invalid action: %q", os.Args[2])
	}

	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	stack, err := buildStack(cfg)
	if err != nil {
		log.Fatalf("Failed to assemble discovery stack: %v", err)
	}
	defer stack.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result := stack.Dispatcher.Dispatch(ctx, action)
	if result.Success() {
		target := result.TargetAppID
		if target == "" {
			target = "media keys"
		}
		fmt.Printf("Dispatched %s to %s\n", result.Action, target)
	} else {
		fmt.Printf("Failed to dispatch %s: no transport player and no key injector\n", result.Action)
		os.Exit(1)
	}
}

func startDaemon() {
	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	dm := daemon.New(cfg.Daemon.PIDFile)
	running, pid, err := dm.IsRunning()
	if err != nil {
		log.Fatalf("Failed to check daemon status: %v", err)
	}
	if running {
		log.Fatalf("Daemon is already running (PID: %d)", pid)
	}

	if os.Getenv("MEDIACTL_DAEMON_CHILD") != "1" {
		daemonize(false)
		return
	}

	runStartDaemon(cfg, dm)
}

func runStartDaemon(cfg *config.Config, dm *daemon.Daemon) {
	logPath := fmt.Sprintf("/tmp/mediactl-%d.log", os.Getuid())
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err == nil {
		log.SetOutput(logFile)
		defer logFile.Close()
	}

	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	stack, err := buildStack(cfg)
	if err != nil {
		log.Fatalf("Failed to assemble discovery stack: %v", err)
	}
	defer stack.Close()

	log.Printf("Display server: %s", discovery.DetectDisplayServer())

	if err := dm.WritePID(); err != nil {
		log.Fatalf("Failed to write PID file: %v", err)
	}
	defer dm.RemovePID()

	repo := database.NewRepository(db)
	pollerSvc := poller.NewService(cfg, repo, stack.Engine)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
		pollerSvc.Stop()
	}()

	log.Println("Starting mediactl daemon...")
	log.Printf("Configuration:\n%s", cfg.String())

	if err := pollerSvc.Start(ctx); err != nil && err != context.Canceled {
		log.Fatalf("Poller error: %v", err)
	}

	log.Println("Daemon stopped successfully")
}

func stopDaemon() {
	cfg := config.New()
	dm := daemon.New(cfg.Daemon.PIDFile)
	running, pid, err := dm.IsRunning()
	if err != nil {
		log.Fatalf("Failed to check daemon status: %v", err)
	}
	if !running {
		fmt.Println("Daemon is not running")
		return
	}
	fmt.Printf("Stopping daemon (PID: %d)...\n", pid)
	if err := dm.Stop(); err != nil {
		log.Fatalf("Failed to stop daemon: %v", err)
	}
	fmt.Println("Daemon stopped successfully")
}

func showStatus() {
	cfg := config.New()
	dm := daemon.New(cfg.Daemon.PIDFile)
	running, pid, err := dm.IsRunning()
	if err != nil {
		log.Fatalf("Failed to check daemon status: %v", err)
	}
	if !running {
		fmt.Println("Status: Not running")
	} else {
		fmt.Printf("Status: Running (PID: %d)\n", pid)
		fmt.Printf("Poll Interval: %v\n", cfg.Discovery.PollInterval)
		fmt.Printf("Database: %s\n", cfg.Database.Path)
	}

	fmt.Printf("\nDisplay Server: %s\n", discovery.DetectDisplayServer())

	stack, err := buildStack(cfg)
	if err != nil {
		fmt.Printf("Could not assemble discovery stack: %v\n", err)
		return
	}
	defer stack.Close()

	fmt.Println("\nSources:")
	for _, src := range stack.Engine.Sources() {
		state := "unavailable"
		if src.Available {
			state = "available"
		}
		fmt.Printf("  %-10s %s\n", src.Name, state)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result := stack.Engine.Discover(ctx)
	if result.Active() {
		fmt.Printf("\nCurrent Session:\n")
		fmt.Printf("  Title: %s\n", result.Winner.Title)
		fmt.Printf("  App:   %s\n", result.Winner.SourceAppID)
		fmt.Printf("  Score: %d\n", result.Winner.Score)
	} else {
		fmt.Println("\nNo active media session")
	}
}

func generateReport() {
	periodType := "day"
	if len(os.Args) > 2 {
		periodType = os.Args[2]
	}
	cfg := config.New()
	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	repo := database.NewRepository(db)
	rep := reporter.New(cfg, repo)

	jsonOutput := false
	if len(os.Args) > 3 && os.Args[3] == "--json" {
		jsonOutput = true
	}
	report, err := rep.GenerateReport(periodType)
	if err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	if jsonOutput {
		jsonStr, err := rep.FormatReportJSON(report)
		if err != nil {
			log.Fatalf("Failed to format JSON: %v", err)
		}
		fmt.Println(jsonStr)
	} else {
		fmt.Println(rep.FormatReportText(report))
	}
}

func clearDatabase() {
	cfg := config.New()
	fmt.Print("This will delete all diagnostic data. Are you sure? (yes/no): ")
	var response string
	fmt.Scanln(&response)
	if response != "yes" && response != "y" {
		fmt.Println("Operation cancelled")
		return
	}
	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	repo := database.NewRepository(db)
	if err := repo.Clear(); err != nil {
		log.Fatalf("Failed to clear database: %v", err)
	}
	fmt.Println("Database cleared successfully")
}

func serveDaemon() {
	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	dm := daemon.New(cfg.Daemon.PIDFile)
	running, pid, err := dm.IsRunning()
	if err != nil {
		log.Fatalf("Failed to check daemon status: %v", err)
	}
	if running {
		log.Fatalf("Daemon is already running (PID: %d)", pid)
	}
	if os.Getenv("MEDIACTL_DAEMON_CHILD") != "1" {
		daemonize(true)
		return
	}
	runServeDaemon(cfg, dm)
}

func runServeDaemon(cfg *config.Config, dm *daemon.Daemon) {
	logPath := fmt.Sprintf("/tmp/mediactl-%d.log", os.Getuid())
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err == nil {
		log.SetOutput(logFile)
		defer logFile.Close()
	}
	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Initialize(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	stack, err := buildStack(cfg)
	if err != nil {
		log.Fatalf("Failed to assemble discovery stack: %v", err)
	}
	defer stack.Close()
	log.Printf("Display server: %s", discovery.DetectDisplayServer())
	if err := dm.WritePID(); err != nil {
		log.Fatalf("Failed to write PID file: %v", err)
	}
	defer dm.RemovePID()
	repo := database.NewRepository(db)
	pollerSvc := poller.NewService(cfg, repo, stack.Engine)
	webServer := web.NewServer(cfg, repo, stack, pollerSvc)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		if err := webServer.Start(); err != nil && err != http.ErrServerClosed {
			log.Printf("Web server error: %v", err)
		}
	}()
	go func() {
		if err := pollerSvc.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("Poller error: %v", err)
			cancel()
		}
	}()
	log.Println("Starting mediactl daemon with web API...")
	log.Printf("Web API available at: http://%s", webServer.GetAddress())
	log.Printf("Configuration:\n%s", cfg.String())
	<-sigChan
	log.Println("Received shutdown signal")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	cancel()
	pollerSvc.Stop()
	if err := webServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down web server: %v", err)
	}
	log.Println("Daemon stopped successfully")
}

func daemonize(withWeb bool) {
	env := os.Environ()
	env = append(env, "MEDIACTL_DAEMON_CHILD=1")
	args := os.Args
	procAttr := &os.ProcAttr{
		Env:   env,
		Files: []*os.File{nil, nil, nil},
		Sys:   &syscall.SysProcAttr{Setsid: true},
	}
	process, err := os.StartProcess(args[0], args, procAttr)
	if err != nil {
		log.Fatalf("Failed to start daemon process: %v", err)
	}
	logPath := fmt.Sprintf("/tmp/mediactl-%d.log", os.Getuid())
	fmt.Printf("Daemon started successfully (PID: %d)\n", process.Pid)
	if withWeb {
		cfg := config.New()
		fmt.Printf("Web API available at: http://%s:%d\n", cfg.Web.Host, cfg.Web.Port)
	}
	fmt.Printf("Logs: %s\n", logPath)
}

func showVersion() {
	fmt.Printf("version: %s\n", version)
	fmt.Printf("built  : %s\n", date)
}
