package catalog

// Default returns the built-in roster.
func Default() *Catalog {
	c, err := New(defaultRoster())
	if err != nil {
		panic("catalog: invalid built-in roster: " + err.Error())
	}
	return c
}

func defaultRoster() []Character {
	return []Character{
		{
			ID:          "rimuru",
			Name:        "Rimuru Tempest",
			Description: "A slime reborn with the power to devour and mimic.",
			Element:     ElementWater,
			Rarity:      RarityLegendary,
			Category:    "Tensura",
			BaseStats:   Stats{HP: 100, MP: 100, Speed: 5, Power: 10, Defense: 8, Range: 120, CritChance: 0.1},
			Evolutions: []Evolution{
				{Name: "Slime", Requirements: Requirements{Level: 1}, StatsMultiplier: 1.0},
				{Name: "Demon Slime", Requirements: Requirements{Level: 5, Kills: 10}, StatsMultiplier: 1.5, Benefits: "Water Blade range up"},
				{Name: "True Demon Lord", Requirements: Requirements{Level: 10, Kills: 30}, StatsMultiplier: 2.2},
				{Name: "Ultimate Slime", Requirements: Requirements{Level: 20, Kills: 80}, StatsMultiplier: 3.5, Lore: "A being beyond the Storm Dragon."},
			},
			Moves: []Move{
				{ID: "rimuru-water-blade", Name: "Water Blade", Type: MoveBasic, Cooldown: 0.5, Damage: 15, Range: 120, MPCost: 0},
				{ID: "rimuru-predator", Name: "Predator Consume", Type: MoveCharge, Cooldown: 3, Damage: 30, Range: 100, MPCost: 10},
				{ID: "rimuru-black-lightning", Name: "Black Lightning", Type: MoveSpecial, Cooldown: 6, Damage: 60, Range: 200, MPCost: 25},
				{ID: "rimuru-megiddo", Name: "Megiddo", Type: MoveUltimate, Cooldown: 15, Damage: 150, Range: 300, MPCost: 60},
			},
		},
		{
			ID:          "benimaru",
			Name:        "Benimaru",
			Description: "Samurai general wielding black flames.",
			Element:     ElementFire,
			Rarity:      RarityEpic,
			Category:    "Tensura",
			BaseStats:   Stats{HP: 90, MP: 80, Speed: 6, Power: 12, Defense: 6, Range: 110},
			Evolutions: []Evolution{
				{Name: "Ogre", Requirements: Requirements{Level: 1}, StatsMultiplier: 1.0},
				{Name: "Kijin", Requirements: Requirements{Level: 4, Kills: 8}, StatsMultiplier: 1.4},
				{Name: "Flame Spirit", Requirements: Requirements{Level: 12, Kills: 40}, StatsMultiplier: 2.4},
			},
			Moves: []Move{
				{ID: "benimaru-slash", Name: "Flame Slash", Type: MoveBasic, Cooldown: 0.4, Damage: 18, Range: 100, MPCost: 0},
				{ID: "benimaru-black-flame", Name: "Black Flame", Type: MoveCharge, Cooldown: 2.5, Damage: 35, Range: 130, MPCost: 12},
				{ID: "benimaru-hell-flare", Name: "Hell Flare", Type: MoveSpecial, Cooldown: 7, Damage: 70, Range: 180, MPCost: 30},
				{ID: "benimaru-crimson-flame", Name: "Crimson Flame Dance", Type: MoveUltimate, Cooldown: 18, Damage: 170, Range: 260, MPCost: 65},
			},
		},
		{
			ID:          "milim",
			Name:        "Milim Nava",
			Description: "The Destroyer, oldest of the Demon Lords.",
			Element:     ElementStorm,
			Rarity:      RarityLegendary,
			Category:    "True Dragons",
			BaseStats:   Stats{HP: 120, MP: 120, Speed: 7, Power: 15, Defense: 10, Range: 140, Attack: 20},
			Evolutions: []Evolution{
				{Name: "Destroyer", Requirements: Requirements{Level: 1}, StatsMultiplier: 1.0},
				{Name: "Dragonoid", Requirements: Requirements{Level: 6, Kills: 15}, StatsMultiplier: 1.6},
				{Name: "Stampede", Requirements: Requirements{Level: 15, Kills: 60}, StatsMultiplier: 3.0},
			},
			Moves: []Move{
				{ID: "milim-punch", Name: "Dragon Punch", Type: MoveBasic, Cooldown: 0.3, Damage: 20, Range: 90, MPCost: 0},
				{ID: "milim-drago-buster", Name: "Drago Buster", Type: MoveCharge, Cooldown: 3, Damage: 45, Range: 150, MPCost: 15},
				{ID: "milim-nova", Name: "Drago Nova", Type: MoveSpecial, Cooldown: 8, Damage: 90, Range: 220, MPCost: 35},
				{ID: "milim-stampede", Name: "Stampede", Type: MoveUltimate, Cooldown: 20, Damage: 220, Range: 320, MPCost: 80},
			},
		},
		{
			ID:          "shion",
			Name:        "Shion",
			Description: "Secretary and bodyguard with a giant blade.",
			Element:     ElementDarkness,
			Rarity:      RarityRare,
			Category:    "Tensura",
			BaseStats:   Stats{HP: 130, MP: 60, Speed: 4, Power: 14, Defense: 12, Range: 90},
			Evolutions: []Evolution{
				{Name: "Ogre", Requirements: Requirements{Level: 1}, StatsMultiplier: 1.0},
				{Name: "Kijin", Requirements: Requirements{Level: 5, Kills: 12}, StatsMultiplier: 1.4},
				{Name: "Wrath Oni", Requirements: Requirements{Level: 11, Kills: 35}, StatsMultiplier: 2.1},
			},
			Moves: []Move{
				{ID: "shion-cleave", Name: "Cleave", Type: MoveBasic, Cooldown: 0.6, Damage: 22, Range: 90, MPCost: 0},
				{ID: "shion-sweep", Name: "Great Sweep", Type: MoveCharge, Cooldown: 3, Damage: 40, Range: 120, MPCost: 10},
				{ID: "shion-cooking", Name: "Deadly Cooking", Type: MoveSpecial, Cooldown: 9, Damage: 75, Range: 160, MPCost: 25},
				{ID: "shion-tenacity", Name: "Absolute Tenacity", Type: MoveUltimate, Cooldown: 16, Damage: 160, Range: 240, MPCost: 50},
			},
		},
		{
			ID:          "diablo",
			Name:        "Diablo",
			Description: "Primordial of Black, a butler who revels in chaos.",
			Element:     ElementDarkness,
			Rarity:      RarityLegendary,
			Category:    "Primordials",
			BaseStats:   Stats{HP: 110, MP: 140, Speed: 6, Power: 16, Defense: 9, Range: 150, CritChance: 0.15},
			Evolutions: []Evolution{
				{Name: "Greater Demon", Requirements: Requirements{Level: 1}, StatsMultiplier: 1.0},
				{Name: "Arch Demon", Requirements: Requirements{Level: 5, Kills: 10}, StatsMultiplier: 1.5},
				{Name: "Demon Peer", Requirements: Requirements{Level: 10, Kills: 30}, StatsMultiplier: 2.3},
				{Name: "Demon God", Requirements: Requirements{Level: 18, Kills: 70}, StatsMultiplier: 3.2},
			},
			Moves: []Move{
				{ID: "diablo-claw", Name: "Shadow Claw", Type: MoveBasic, Cooldown: 0.5, Damage: 16, Range: 130, MPCost: 0},
				{ID: "diablo-nuclear", Name: "Nuclear Flame", Type: MoveCharge, Cooldown: 3, Damage: 38, Range: 160, MPCost: 14},
				{ID: "diablo-temptation", Name: "Temptation World", Type: MoveSpecial, Cooldown: 8, Damage: 80, Range: 240, MPCost: 40},
				{ID: "diablo-genesis", Name: "Gravity Collapse", Type: MoveUltimate, Cooldown: 18, Damage: 200, Range: 330, MPCost: 90},
			},
		},
	}
}
