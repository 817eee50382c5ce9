package progress

import (
	"log"

	"tensura-arena/internal/game"
)

// Gem rewards folded in from a finished run.
const (
	GemsPerKill  = 5
	GemsPerLevel = 20
)

// RunReward is the gem payout for a run result.
func RunReward(res game.RunResult) int {
	return GemsPerKill*res.Kills + GemsPerLevel*max(0, res.Level-1)
}

// ApplyRunResult folds a finished run into progress: gems for kills and
// levels gained, and one life lost on defeat. It returns the gems earned.
func (s *Store) ApplyRunResult(res game.RunResult) (int, Progress, error) {
	earned := RunReward(res)
	p, err := s.update(func(p *Progress) error {
		p.Gems += earned
		if res.Defeated {
			p.Lives = max(0, p.Lives-1)
		}
		return nil
	})
	if err != nil {
		return 0, p, err
	}

	log.Printf("💎 Run %s folded: +%d gems (level %d, %d kills), lives %d/%d",
		res.CharacterID, earned, res.Level, res.Kills, p.Lives, p.MaxLives)
	return earned, p, nil
}
