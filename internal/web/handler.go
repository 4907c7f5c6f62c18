package web

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/luinbytes/media-control-raycast/internal/config"
	"github.com/luinbytes/media-control-raycast/internal/database"
	"github.com/luinbytes/media-control-raycast/internal/models"
	"github.com/luinbytes/media-control-raycast/internal/poller"
	"github.com/luinbytes/media-control-raycast/internal/reporter"
	"github.com/luinbytes/media-control-raycast/pkg/discovery"
	"github.com/luinbytes/media-control-raycast/pkg/session"
)

type Handler struct {
	config   *config.Config
	repo     *database.Repository
	reporter *reporter.Reporter
	stack    *discovery.Stack
	poller   *poller.Service
}

func NewHandler(cfg *config.Config, repo *database.Repository, stack *discovery.Stack, svc *poller.Service) *Handler {
	return &Handler{
		config:   cfg,
		repo:     repo,
		reporter: reporter.New(cfg, repo),
		stack:    stack,
		poller:   svc,
	}
}

func (h *Handler) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/now", h.handleNow)
	mux.HandleFunc("/api/dispatch", h.handleDispatch)
	mux.HandleFunc("/api/selections", h.handleSelections)
	mux.HandleFunc("/api/report", h.handleReport)
	mux.HandleFunc("/api/status", h.handleStatus)

	mux.HandleFunc("/health", h.handleHealth)

	mux.HandleFunc("/", h.handleIndex)
}

func (h *Handler) handleNow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result := h.stack.Engine.Discover(ctx)

	if r.Header.Get("HX-Request") == "true" {
		h.respondNowHTML(w, result)
		return
	}

	respondJSON(w, result)
}

func (h *Handler) respondNowHTML(w http.ResponseWriter, result session.SelectionResult) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if !result.Active() {
		w.Write([]byte(`<div class="loading">No active media session</div>`))
		return
	}

	c := result.Winner
	state := "Paused"
	if c.IsPlaying {
		state = "Playing"
	}

	html := fmt.Sprintf(`
	<div class="now-playing">
		<span class="now-title">%s</span>
		<span class="now-artist">%s</span>
		<div>
			<span class="now-state">%s</span>
			<span class="now-app">%s</span>
		</div>
	</div>`, template.HTMLEscapeString(c.Title), template.HTMLEscapeString(c.Artist), state, template.HTMLEscapeString(c.SourceAppID))

	w.Write([]byte(html))
}

func (h *Handler) handleDispatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	actionStr := r.URL.Query().Get("action")
	if actionStr == "" {
		var body struct {
			Action string `json:"action"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			actionStr = body.Action
		}
	}

	action, ok := session.ParseAction(actionStr)
	if !ok {
		http.Error(w, fmt.Sprintf("invalid action: %q", actionStr), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result := h.stack.Dispatcher.Dispatch(ctx, action)
	if h.poller != nil {
		h.poller.RecordDispatch(result.Action, result.TargetAppID, result.NativeOK, result.KeyOK)
	}

	respondJSON(w, map[string]interface{}{
		"action":    string(result.Action),
		"target":    result.TargetAppID,
		"native_ok": result.NativeOK,
		"key_ok":    result.KeyOK,
		"success":   result.Success(),
	})
}

func (h *Handler) handleSelections(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	limitStr := query.Get("limit")
	periodType := query.Get("period") // day, week, month

	var events []*models.SelectionEvent

	if periodType != "" {
		period, err := h.reporter.GetPeriod(periodType)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		events, err = h.repo.GetSelectionsSince(period.Start)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to fetch selections: %v", err), http.StatusInternalServerError)
			return
		}
	} else {
		start := time.Now().Add(-24 * time.Hour)
		allEvents, err := h.repo.GetSelectionsSince(start)
		if err == nil {
			limit := 100 // default
			if limitStr != "" {
				if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
					limit = l
				}
			}

			if len(allEvents) > limit {
				events = allEvents[len(allEvents)-limit:]
			} else {
				events = allEvents
			}
		}
	}

	respondJSON(w, events)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	periodType := r.URL.Query().Get("period")
	if periodType == "" {
		periodType = "day"
	}

	report, err := h.reporter.GenerateReport(periodType)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to generate report: %v", err), http.StatusInternalServerError)
		return
	}

	if r.Header.Get("HX-Request") == "true" {
		h.respondReportHTML(w, report)
		return
	}

	respondJSON(w, report)
}

func (h *Handler) respondReportHTML(w http.ResponseWriter, report *models.Report) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if len(report.Apps) == 0 {
		w.Write([]byte(`<div class="loading">No data available</div>`))
		return
	}

	html := `<div class="listing">`
	for _, app := range report.Apps {
		percentStr := fmt.Sprintf("%.1f%%", app.Percentage)
		if app.Percentage < 10 {
			percentStr = "&nbsp;&nbsp;" + percentStr
		} else if app.Percentage < 100 {
			percentStr = "&nbsp;" + percentStr
		}

		html += fmt.Sprintf(`
		<div class="app-item" style="--bar-width: %.1f%%">
			<span class="app-name">%s</span>
			<div>
				<span class="app-wins">%d wins</span>
				<span class="app-percentage">%s</span>
			</div>
		</div>`, app.Percentage, template.HTMLEscapeString(app.AppID), app.WinCount, percentStr)
	}
	html += `</div>`

	html += fmt.Sprintf(`<div class="total">Total: %d selections</div>`, report.TotalSelections)

	w.Write([]byte(html))
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status := map[string]interface{}{
		"running":       true,
		"poll_interval": h.config.Discovery.PollInterval.String(),
		"database_path": h.config.Database.Path,
		"sources":       h.stack.Engine.Sources(),
	}

	if h.poller != nil {
		if latest := h.poller.Latest(); latest != nil && latest.Active() {
			status["current_session"] = latest.Winner
		}
	} else if event, _ := h.repo.GetLatestSelection(); event != nil {
		status["last_selection"] = map[string]interface{}{
			"app_id":    event.AppID,
			"title":     event.Title,
			"timestamp": event.Timestamp,
		}
	}

	respondJSON(w, status)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	html := `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Mediactl Dashboard</title>
    <script src="https://unpkg.com/htmx.org@1.9.10"></script>
    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        :root {
            --bg-primary: #f5f5f5;
            --bg-secondary: white;
            --text-primary: #333;
            --text-secondary: #1a1a1a;
            --text-muted: #7f8c8d;
            --border-color: #eee;
            --border-strong: #ecf0f1;
            --accent-color: #3498db;
            --heading-color: #2c3e50;
            --shadow: rgba(0,0,0,0.1);
        }

        [data-theme="dark"] {
            --bg-primary: #1a1a1a;
            --bg-secondary: #2d2d2d;
            --text-primary: #e0e0e0;
            --text-secondary: #ffffff;
            --text-muted: #a0a0a0;
            --border-color: #404040;
            --border-strong: #4a4a4a;
            --accent-color: #5dade2;
            --heading-color: #5dade2;
            --shadow: rgba(0,0,0,0.3);
        }

        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background: var(--bg-primary);
            padding: 20px;
            color: var(--text-primary);
            transition: background-color 0.3s ease, color 0.3s ease;
        }

        .header {
            display: flex;
            justify-content: space-between;
            align-items: center;
            margin-bottom: 30px;
        }

        h1 {
            color: var(--text-secondary);
            font-size: 2rem;
            margin: 0;
        }

        .header-btn {
            background: var(--bg-secondary);
            border: 2px solid var(--border-color);
            border-radius: 50px;
            padding: 8px 16px;
            cursor: pointer;
            font-size: 1.2rem;
            transition: all 0.3s ease;
        }

        .header-btn:hover {
            border-color: var(--accent-color);
            transform: scale(1.05);
        }

        .dashboard {
            display: flex;
            gap: 20px;
            flex-wrap: wrap;
        }

        .report-box {
            flex: 1;
            min-width: 300px;
            background: var(--bg-secondary);
            border-radius: 8px;
            box-shadow: 0 2px 4px var(--shadow);
            padding: 24px;
            transition: background-color 0.3s ease, box-shadow 0.3s ease;
        }

        .report-box h2 {
            font-size: 1.5rem;
            margin-bottom: 20px;
            color: var(--heading-color);
            border-bottom: 2px solid var(--accent-color);
            padding-bottom: 10px;
        }

        .now-playing {
            display: flex;
            flex-direction: column;
            gap: 6px;
        }

        .now-title {
            font-weight: 600;
            font-size: 1.2rem;
            color: var(--text-secondary);
        }

        .now-artist {
            color: var(--text-muted);
        }

        .now-state {
            color: var(--accent-color);
            font-weight: 600;
        }

        .now-app {
            color: var(--text-muted);
            margin-left: 10px;
            font-size: 0.9rem;
        }

        .controls {
            display: flex;
            gap: 10px;
            margin-top: 20px;
        }

        .control-btn {
            background: var(--bg-secondary);
            border: 2px solid var(--border-color);
            border-radius: 8px;
            padding: 8px 16px;
            cursor: pointer;
            font-size: 1.2rem;
            color: var(--text-primary);
            transition: all 0.3s ease;
        }

        .control-btn:hover {
            border-color: var(--accent-color);
        }

        .app-item {
            display: flex;
            justify-content: space-between;
            align-items: center;
            padding: 12px 8px;
            border-bottom: 1px solid var(--border-color);
            position: relative;
            border-radius: 4px;
        }

        .app-item::before {
            content: '';
            position: absolute;
            left: 0;
            top: 0;
            height: 100%;
            width: var(--bar-width, 0%);
            background: var(--accent-color);
            opacity: 0.2;
            border-radius: 4px;
            z-index: 0;
        }

        .app-item > * {
            position: relative;
            z-index: 1;
        }

        .app-item:last-child {
            border-bottom: none;
        }

        .app-name {
            font-weight: 500;
            color: var(--text-primary);
        }

        .app-wins {
            color: var(--text-muted);
            font-size: 0.9rem;
        }

        .app-percentage {
            color: var(--accent-color);
            font-weight: 600;
            margin-left: 10px;
            display: inline-block;
            min-width: 5em;
            text-align: right;
        }

        .loading {
            color: var(--text-muted);
            font-style: italic;
        }

        .total {
            margin-top: 20px;
            padding-top: 15px;
            border-top: 2px solid var(--border-strong);
            font-weight: 600;
            font-size: 1.1rem;
            color: var(--heading-color);
        }

        .listing {
            overflow-y: auto;
            overflow-x: hidden;
            max-height: calc(100vh - 320px);
            scrollbar-width: thin;
            scrollbar-color: var(--accent-color) var(--bg-secondary);
        }

        @media (max-width: 1024px) {
            .dashboard {
                flex-direction: column;
            }

            .report-box {
                min-width: 100%;
            }
        }
    </style>
</head>
<body>
    <div class="header">
        <h1>Mediactl Dashboard</h1>
        <button class="header-btn" onclick="toggleTheme()" title="Toggle theme">
            <span id="theme-icon">&#127769;</span>
        </button>
    </div>
    <div class="dashboard">
        <div class="report-box">
            <h2>Now Playing</h2>
            <div hx-get="/api/now" hx-trigger="load, every 5s" hx-swap="innerHTML">
                <div class="loading">Loading...</div>
            </div>
            <div class="controls">
                <button class="control-btn" onclick="dispatch('previous')">&#9198;</button>
                <button class="control-btn" onclick="dispatch('toggle')">&#9199;</button>
                <button class="control-btn" onclick="dispatch('next')">&#9197;</button>
            </div>
        </div>

        <div class="report-box">
            <h2>Today</h2>
            <div hx-get="/api/report?period=today" hx-trigger="load, every 30s" hx-swap="innerHTML">
                <div class="loading">Loading...</div>
            </div>
        </div>

        <div class="report-box">
            <h2>This Week</h2>
            <div hx-get="/api/report?period=week" hx-trigger="load, every 30s" hx-swap="innerHTML">
                <div class="loading">Loading...</div>
            </div>
        </div>
    </div>
    <script>
        function dispatch(action) {
            fetch('/api/dispatch?action=' + action, {method: 'POST'});
        }

        function initTheme() {
            const savedTheme = localStorage.getItem('theme');
            const prefersDark = window.matchMedia('(prefers-color-scheme: dark)').matches;
            const theme = savedTheme || (prefersDark ? 'dark' : 'light');
            setTheme(theme);
        }

        function setTheme(theme) {
            document.documentElement.setAttribute('data-theme', theme);
            document.getElementById('theme-icon').innerHTML = theme === 'dark' ? '&#9728;&#65039;' : '&#127769;';
            localStorage.setItem('theme', theme);
        }

        function toggleTheme() {
            const currentTheme = document.documentElement.getAttribute('data-theme');
            const newTheme = currentTheme === 'dark' ? 'light' : 'dark';
            setTheme(newTheme);
        }

        initTheme();
    </script>
</body>
</html>`

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

func respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
