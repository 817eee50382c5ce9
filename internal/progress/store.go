package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	ErrInsufficientGems = errors.New("not enough gems")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrNoSavePoint      = errors.New("no save point for stage")
)

// Store owns the progress blob and writes it through on every mutation.
// It is safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	path string // empty keeps progress in memory only
	p    Progress
	now  func() time.Time
}

// Open loads progress from path. A missing file yields defaults; a corrupt
// file is an error so it is never silently overwritten.
func Open(path string) (*Store, error) {
	s := &Store{path: path, p: Default(), now: time.Now}
	if path == "" {
		return s, nil
	}

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("💾 No progress at %s, starting fresh", path)
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read progress: %w", err)
	}

	var p Progress
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("failed to parse progress %s: %w", path, err)
	}
	p.normalize()
	s.p = p
	return s, nil
}

// Path returns the backing file, empty for memory-only stores.
func (s *Store) Path() string {
	return s.path
}

// Snapshot returns a deep copy of the current progress.
func (s *Store) Snapshot() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.clone()
}

// update applies fn to a copy, persists it, and only then commits it.
// A failing fn or write leaves the stored progress untouched.
func (s *Store) update(fn func(p *Progress) error) (Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.p.clone()
	if err := fn(&next); err != nil {
		return s.p.clone(), err
	}
	if err := s.save(next); err != nil {
		return s.p.clone(), err
	}
	s.p = next
	return next.clone(), nil
}

// save writes p atomically via a temp file and rename.
func (s *Store) save(p Progress) error {
	if s.path == "" {
		return nil
	}

	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create progress dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("failed to write progress: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace progress: %w", err)
	}
	return nil
}

// SpendGems deducts amount, failing with ErrInsufficientGems if short.
func (s *Store) SpendGems(amount int) (Progress, error) {
	return s.update(func(p *Progress) error {
		return spend(p, amount)
	})
}

func spend(p *Progress, amount int) error {
	if amount < 0 {
		return ErrInvalidAmount
	}
	if p.Gems < amount {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientGems, p.Gems, amount)
	}
	p.Gems -= amount
	return nil
}

// EarnGems adds amount.
func (s *Store) EarnGems(amount int) (Progress, error) {
	return s.update(func(p *Progress) error {
		if amount < 0 {
			return ErrInvalidAmount
		}
		p.Gems += amount
		return nil
	})
}

// UnlockCharacter adds id to the unlocked set. Unlocking twice is a no-op.
func (s *Store) UnlockCharacter(id string) (Progress, error) {
	return s.update(func(p *Progress) error {
		unlock(p, id)
		return nil
	})
}

func unlock(p *Progress, id string) {
	if !p.IsCharacterUnlocked(id) {
		p.UnlockedCharacters = append(p.UnlockedCharacters, id)
	}
}

// PurchaseUpgrade raises an upgrade by one level without charging gems.
func (s *Store) PurchaseUpgrade(id string) (Progress, error) {
	return s.update(func(p *Progress) error {
		p.PurchasedUpgrades[id]++
		return nil
	})
}

// PurchaseArtifact records ownership without charging gems.
func (s *Store) PurchaseArtifact(id string) (Progress, error) {
	return s.update(func(p *Progress) error {
		if !p.HasArtifact(id) {
			p.OwnedArtifacts = append(p.OwnedArtifacts, id)
		}
		return nil
	})
}

// BuyLife refills one life up to the maximum.
func (s *Store) BuyLife() (Progress, error) {
	return s.update(func(p *Progress) error {
		if p.Lives < p.MaxLives {
			p.Lives++
		}
		return nil
	})
}

// IncreaseMaxLives raises both the cap and the current lives by one.
func (s *Store) IncreaseMaxLives() (Progress, error) {
	return s.update(func(p *Progress) error {
		p.MaxLives++
		p.Lives++
		return nil
	})
}

// LoseLife removes one life, never going below zero.
func (s *Store) LoseLife() (Progress, error) {
	return s.update(func(p *Progress) error {
		p.Lives = max(0, p.Lives-1)
		return nil
	})
}

// CreateSavePoint records gems and lives for stage and bumps the highest stage.
func (s *Store) CreateSavePoint(stage, round int) (Progress, error) {
	return s.update(func(p *Progress) error {
		p.SavePoints[stage] = SavePoint{
			Stage:     stage,
			Round:     round,
			Timestamp: s.now().UnixMilli(),
			Gems:      p.Gems,
			Lives:     p.Lives,
		}
		p.HighestStage = max(p.HighestStage, stage)
		return nil
	})
}

// LoadSavePoint restores stage, round, gems and lives from a save point.
func (s *Store) LoadSavePoint(stage int) (Progress, error) {
	return s.update(func(p *Progress) error {
		sp, ok := p.SavePoints[stage]
		if !ok {
			return fmt.Errorf("%w %d", ErrNoSavePoint, stage)
		}
		p.CurrentStage = sp.Stage
		p.CurrentRound = sp.Round
		p.Gems = sp.Gems
		p.Lives = sp.Lives
		return nil
	})
}

// SetCurrentStageRound moves the player to stage/round.
func (s *Store) SetCurrentStageRound(stage, round int) (Progress, error) {
	return s.update(func(p *Progress) error {
		p.CurrentStage = stage
		p.CurrentRound = round
		return nil
	})
}

// Reset replaces everything with defaults.
func (s *Store) Reset() (Progress, error) {
	return s.update(func(p *Progress) error {
		*p = Default()
		return nil
	})
}

// IsCharacterUnlocked reports whether id can be picked for a run.
func (s *Store) IsCharacterUnlocked(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.IsCharacterUnlocked(id)
}

// UpgradeLevel returns the purchased level of an upgrade.
func (s *Store) UpgradeLevel(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.UpgradeLevel(id)
}

// HasArtifact reports whether the artifact is owned.
func (s *Store) HasArtifact(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.HasArtifact(id)
}
