package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/luinbytes/media-control-raycast/internal/config"
	"github.com/luinbytes/media-control-raycast/pkg/discovery"
	"github.com/luinbytes/media-control-raycast/pkg/grammar"
)

// probe is a debugging tool: it runs discovery cycles against the live
// desktop and prints every candidate each source produced, not just the
// winner. Useful for tuning app grammars.
func main() {
	fmt.Println("Media Session Probe")
	fmt.Println("===================")

	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	registry, err := grammar.Load(cfg.Registry.GrammarFile)
	if err != nil {
		log.Fatalf("Failed to load grammar file: %v", err)
	}
	fmt.Printf("\nGrammars loaded: %d\n", registry.Len())

	stack := discovery.New(discovery.Options{
		Registry:         registry,
		TransportTimeout: cfg.Discovery.TransportTimeout,
		SessionTimeout:   cfg.Discovery.SessionTimeout,
		WindowTimeout:    cfg.Discovery.WindowTimeout,
	})
	defer stack.Close()

	fmt.Printf("Display Server: %s\n\n", discovery.DetectDisplayServer())
	for _, src := range stack.Engine.Sources() {
		state := "unavailable"
		if src.Available {
			state = "available"
		}
		fmt.Printf("Source %-10s %s\n", src.Name, state)
	}

	if len(os.Args) > 2 && os.Args[1] == "match" {
		probeTitle(registry, os.Args[2:])
		return
	}

	fmt.Println("\nMonitoring media sessions for 30 seconds...")
	fmt.Println("Start, pause, and switch players to test discovery")
	fmt.Println()

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	timeout := time.After(30 * time.Second)
	count := 0

	for {
		select {
		case <-timeout:
			fmt.Println("\nProbe completed!")
			return

		case <-ticker.C:
			count++
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			result := stack.Engine.Discover(ctx)
			cancel()

			if !result.Active() {
				fmt.Printf("[%d] No active media session\n", count)
				continue
			}

			c := result.Winner
			state := "paused"
			if c.IsPlaying {
				state = "playing"
			}
			fmt.Printf("[%d] App: %-15s | Title: %-45s | State: %-7s | Score: %d | Origin: %s\n",
				count,
				truncate(c.SourceAppID, 15),
				truncate(c.Title, 45),
				state,
				c.Score,
				c.Origin,
			)
		}
	}
}

// probeTitle runs window titles through the grammar registry and prints
// how each one parses, without touching the desktop.
func probeTitle(registry *grammar.Registry, args []string) {
	processKey := args[0]
	g, ok := registry.Lookup(processKey)
	if !ok {
		fmt.Printf("\nNo grammar for process %q\n", processKey)
		return
	}

	fmt.Printf("\nGrammar: %s (base score %d)\n", g.DisplayName, g.BaseScore)
	for _, title := range args[1:] {
		m := g.Match(title)
		switch m.Kind {
		case grammar.MatchPlaying:
			fmt.Printf("  playing  %q -> title=%q artist=%q\n", title, m.Title, m.Artist)
		case grammar.MatchPaused:
			fmt.Printf("  paused   %q\n", title)
		default:
			fmt.Printf("  no match %q\n", title)
		}
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
