package models

// StatBlock is an adventurer's full set of combat, exploration and sustain
// numbers. CurrentHP stays within [0, MaxHP] wherever a mutator touches it.
type StatBlock struct {
	Attack        int `yaml:"attack" json:"attack"`
	Defense       int `yaml:"defense" json:"defense"`
	Magic         int `yaml:"magic" json:"magic"`
	Support       int `yaml:"support" json:"support"`
	Detection     int `yaml:"detection" json:"detection"`
	Mobility      int `yaml:"mobility" json:"mobility"`
	Survival      int `yaml:"survival" json:"survival"`
	Morale        int `yaml:"morale" json:"morale"`
	MaxHP         int `yaml:"max_hp" json:"max_hp"`
	CurrentHP     int `yaml:"current_hp" json:"current_hp"`
	Stamina       int `yaml:"stamina" json:"stamina"`
	StressResist  int `yaml:"stress_resist" json:"stress_resist"`
	InjuryResist  int `yaml:"injury_resist" json:"injury_resist"`
	CarryCapacity int `yaml:"carry_capacity" json:"carry_capacity"`
}

// Add returns the field-wise sum of s and o.
func (s StatBlock) Add(o StatBlock) StatBlock {
	return StatBlock{
		Attack:        s.Attack + o.Attack,
		Defense:       s.Defense + o.Defense,
		Magic:         s.Magic + o.Magic,
		Support:       s.Support + o.Support,
		Detection:     s.Detection + o.Detection,
		Mobility:      s.Mobility + o.Mobility,
		Survival:      s.Survival + o.Survival,
		Morale:        s.Morale + o.Morale,
		MaxHP:         s.MaxHP + o.MaxHP,
		CurrentHP:     s.CurrentHP + o.CurrentHP,
		Stamina:       s.Stamina + o.Stamina,
		StressResist:  s.StressResist + o.StressResist,
		InjuryResist:  s.InjuryResist + o.InjuryResist,
		CarryCapacity: s.CarryCapacity + o.CarryCapacity,
	}
}

// Scale returns every field multiplied by f and rounded to the nearest int.
func (s StatBlock) Scale(f float64) StatBlock {
	r := func(v int) int { return RoundInt(float64(v) * f) }
	return StatBlock{
		Attack:        r(s.Attack),
		Defense:       r(s.Defense),
		Magic:         r(s.Magic),
		Support:       r(s.Support),
		Detection:     r(s.Detection),
		Mobility:      r(s.Mobility),
		Survival:      r(s.Survival),
		Morale:        r(s.Morale),
		MaxHP:         r(s.MaxHP),
		CurrentHP:     r(s.CurrentHP),
		Stamina:       r(s.Stamina),
		StressResist:  r(s.StressResist),
		InjuryResist:  r(s.InjuryResist),
		CarryCapacity: r(s.CarryCapacity),
	}
}

// WithCurrentHP returns a copy with CurrentHP clamped into [0, MaxHP].
func (s StatBlock) WithCurrentHP(hp int) StatBlock {
	s.CurrentHP = ClampInt(hp, 0, s.MaxHP)
	return s
}

// InjuryStatus is an adventurer's current injury. Severity 0 means uninjured.
type InjuryStatus struct {
	Injured  bool
	Severity int
}

// TraitRuntime is a trait attached to an adventurer. Bonus is added to the
// adventurer's stats (scaled by 1+Magnitude) when trait effects are enabled.
type TraitRuntime struct {
	TraitID   string
	Magnitude float64
	Bonus     StatBlock
}

// EffectiveBonus returns the trait's bonus scaled by its magnitude.
func (t TraitRuntime) EffectiveBonus() StatBlock {
	return t.Bonus.Scale(1 + t.Magnitude)
}
