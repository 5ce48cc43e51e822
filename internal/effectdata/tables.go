package effectdata

// Tables is the loaded, read-only set of effect rows, indexed by normalized
// composite keys. Build it once per process with NewTables or LoadDir and
// share it between matches.
type Tables struct {
	moves         map[string]Row
	abilities     map[string]Row // set-number|ability name
	abilityByCard map[string]Row // set-number, first ability row of the card
	passives      map[string][]Row
	trainers      map[string]Row
	trainerByName map[string]Row
}

// NewTables indexes the given rows. When two rows share a key the first one
// wins, matching the encounter-order scan of the source tables.
func NewTables(moves, abilities, trainers []Row) *Tables {
	t := &Tables{
		moves:         make(map[string]Row, len(moves)),
		abilities:     make(map[string]Row, len(abilities)),
		abilityByCard: make(map[string]Row, len(abilities)),
		passives:      make(map[string][]Row),
		trainers:      make(map[string]Row, len(trainers)),
		trainerByName: make(map[string]Row, len(trainers)),
	}
	for _, r := range moves {
		k := moveKey(r.PokemonName, r.Name)
		if _, dup := t.moves[k]; !dup {
			t.moves[k] = r
		}
	}
	for _, r := range abilities {
		card := CardKey(r.Set, r.Number)
		if _, dup := t.abilityByCard[card]; !dup {
			t.abilityByCard[card] = r
		}
		k := abilityKey(r.Set, r.Number, r.Name)
		if _, dup := t.abilities[k]; !dup {
			t.abilities[k] = r
		}
		if r.AbilityType == AbilityPassive {
			t.passives[card] = append(t.passives[card], r)
		}
	}
	for _, r := range trainers {
		card := CardKey(r.Set, r.Number)
		if _, dup := t.trainers[card]; !dup {
			t.trainers[card] = r
		}
		name := NormalizeName(r.Name)
		if _, dup := t.trainerByName[name]; !dup {
			t.trainerByName[name] = r
		}
	}
	return t
}

// Empty returns tables with no rows. Every lookup misses.
func Empty() *Tables {
	return NewTables(nil, nil, nil)
}

// LookupMove resolves the row for an attack on a card.
func (t *Tables) LookupMove(cardName, attackName string) (Row, bool) {
	if t == nil {
		return Row{}, false
	}
	r, ok := t.moves[moveKey(cardName, attackName)]
	return r, ok
}

// LookupAbility resolves an ability row. The composite key with the ability
// name is tried first so a card with two abilities resolves the right one;
// when abilityName is empty or unknown the card's first ability row is used.
func (t *Tables) LookupAbility(set, number, abilityName string) (Row, bool) {
	if t == nil {
		return Row{}, false
	}
	if abilityName != "" {
		if r, ok := t.abilities[abilityKey(set, number, abilityName)]; ok {
			return r, true
		}
	}
	r, ok := t.abilityByCard[CardKey(set, number)]
	return r, ok
}

// PassiveAbilities returns all passive ability rows printed on a card.
func (t *Tables) PassiveAbilities(set, number string) []Row {
	if t == nil {
		return nil
	}
	return t.passives[CardKey(set, number)]
}

// PassiveOfKind returns the card's passive ability row of the given kind.
func (t *Tables) PassiveOfKind(set, number, kind string) (Row, bool) {
	for _, r := range t.PassiveAbilities(set, number) {
		if r.Kind == kind {
			return r, true
		}
	}
	return Row{}, false
}

// LookupTrainer resolves the row for a printed trainer card.
func (t *Tables) LookupTrainer(set, number string) (Row, bool) {
	if t == nil {
		return Row{}, false
	}
	r, ok := t.trainers[CardKey(set, number)]
	return r, ok
}

// LookupTrainerByName resolves a trainer row by card name, for decklists
// that reprint the same trainer under several set numbers.
func (t *Tables) LookupTrainerByName(name string) (Row, bool) {
	if t == nil {
		return Row{}, false
	}
	r, ok := t.trainerByName[NormalizeName(name)]
	return r, ok
}

// Counts returns the number of indexed rows per table.
func (t *Tables) Counts() map[TableKind]int {
	return map[TableKind]int{
		TableMoves:     len(t.moves),
		TableAbilities: len(t.abilities),
		TableTrainers:  len(t.trainers),
	}
}
