package game

// checkEvolution advances at most one evolution tier when the next tier's
// level and kill requirements are both met. Tiers are never skipped and the
// index never decreases.
func (r *RunState) checkEvolution() bool {
	next := r.Evolution + 1
	if next >= len(r.character.Evolutions) {
		return false
	}

	req := r.character.Evolutions[next].Requirements
	if r.Level < req.Level || r.Kills < req.Kills {
		return false
	}

	r.Evolution = next
	r.burst(r.PlayerX, r.PlayerY, EvolutionColor, EvolutionBurstCount, ParticleAura)

	evo := r.character.Evolutions[next]
	r.emit(EventTypeEvolve, EvolvePayload{Tier: next, Name: evo.Name, Multiplier: evo.StatsMultiplier})
	return true
}
