package poller

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/luinbytes/media-control-raycast/internal/config"
	"github.com/luinbytes/media-control-raycast/internal/database"
	"github.com/luinbytes/media-control-raycast/internal/models"
	"github.com/luinbytes/media-control-raycast/pkg/selector"
	"github.com/luinbytes/media-control-raycast/pkg/session"
)

// Service drives the discovery engine on a fixed interval. Each tick is
// a self-contained discovery cycle; the service only caches the latest
// result for the status surfaces and records outcomes for reports.
type Service struct {
	config   *config.Config
	repo     *database.Repository
	engine   *selector.Engine
	stopChan chan struct{}
	running  bool

	mu     sync.RWMutex
	latest *session.SelectionResult
}

func NewService(cfg *config.Config, repo *database.Repository, engine *selector.Engine) *Service {
	return &Service{
		config:   cfg,
		repo:     repo,
		engine:   engine,
		stopChan: make(chan struct{}),
		running:  false,
	}
}

func (s *Service) Start(ctx context.Context) error {
	if s.running {
		return fmt.Errorf("poller is already running")
	}

	s.running = true
	log.Printf("Starting poller with %v interval", s.config.Discovery.PollInterval)

	ticker := time.NewTicker(s.config.Discovery.PollInterval)
	defer ticker.Stop()

	s.pollOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("Poller stopped by context")
			s.running = false
			return ctx.Err()

		case <-s.stopChan:
			log.Println("Poller stopped")
			s.running = false
			return nil

		case <-ticker.C:
			s.pollOnce(ctx)
		}
	}
}

func (s *Service) Stop() {
	if s.running {
		close(s.stopChan)
	}
}

func (s *Service) IsRunning() bool {
	return s.running
}

// Latest returns the most recent discovery result, or nil before the
// first cycle completes.
func (s *Service) Latest() *session.SelectionResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

func (s *Service) pollOnce(ctx context.Context) {
	result := s.engine.Discover(ctx)

	s.mu.Lock()
	s.latest = &result
	s.mu.Unlock()

	if !result.Active() {
		return
	}

	winner := result.Winner
	log.Printf("Selected: %s - %s (app: %s, playing: %v, score: %d)",
		winner.Artist, winner.Title, winner.SourceAppID, winner.IsPlaying, winner.Score)

	event := &models.SelectionEvent{
		Timestamp:  time.Now(),
		CycleID:    result.CycleID,
		AppID:      winner.SourceAppID,
		Title:      winner.Title,
		Artist:     winner.Artist,
		SourceType: string(winner.SourceType),
		Origin:     winner.Origin,
		IsPlaying:  winner.IsPlaying,
		Score:      winner.Score,
		CreatedAt:  time.Now(),
	}

	if err := s.repo.CreateSelectionEvent(event); err != nil {
		s.storeError("poller", err)
	}
}

// RecordDispatch stores one dispatch outcome.
func (s *Service) RecordDispatch(action session.PlaybackAction, target string, nativeOK, keyOK bool) {
	entry := &models.DispatchLog{
		Timestamp:   time.Now(),
		Action:      string(action),
		TargetAppID: target,
		NativeOK:    nativeOK,
		KeyOK:       keyOK,
		Success:     nativeOK || keyOK,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.CreateDispatchLog(entry); err != nil {
		s.storeError("dispatch", err)
	}
}

func (s *Service) storeError(component string, err error) {
	errorLog := &models.ErrorLog{
		Timestamp: time.Now(),
		Component: component,
		ErrorMsg:  err.Error(),
		CreatedAt: time.Now(),
	}

	if dbErr := s.repo.CreateErrorLog(errorLog); dbErr != nil {
		log.Printf("Failed to store error in database: %v (original error: %v)", dbErr, err)
	} else {
		log.Printf("Error logged to database: %v", err)
	}
}
