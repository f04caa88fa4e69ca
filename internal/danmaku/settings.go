package danmaku

import (
	"fmt"
	"sync"

	"github.com/vmunix/anirange/internal/config"
)

// Settings exposes the danmaku switch backed by the config file.
type Settings struct {
	mu   sync.Mutex
	cfg  *config.Config
	path string
}

// NewSettings wraps cfg. When path is empty changes are kept in memory.
func NewSettings(cfg *config.Config, path string) *Settings {
	return &Settings{cfg: cfg, path: path}
}

// Enabled reports whether danmaku loading is on.
func (s *Settings) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Danmaku.Enabled
}

// SetEnabled switches danmaku loading and saves the config.
func (s *Settings) SetEnabled(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.cfg.Danmaku.Enabled
	s.cfg.Danmaku.Enabled = enabled
	if s.path == "" {
		return nil
	}
	if err := s.cfg.Write(s.path); err != nil {
		s.cfg.Danmaku.Enabled = prev
		return fmt.Errorf("save danmaku setting: %w", err)
	}
	return nil
}
