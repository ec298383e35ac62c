package multiplayer

// OverrideLedger counts override placements. Against the automated
// opponent every player draws from one shared pool.
type OverrideLedger struct {
	budget int
	shared bool
	used   map[PlayerID]int
}

// NewOverrideLedger creates a ledger granting budget overrides per key.
func NewOverrideLedger(budget int, shared bool) *OverrideLedger {
	return &OverrideLedger{
		budget: budget,
		shared: shared,
		used:   make(map[PlayerID]int),
	}
}

func (l *OverrideLedger) key(p PlayerID) PlayerID {
	if l.shared {
		return ""
	}
	return p
}

// Budget returns the per-key allowance.
func (l *OverrideLedger) Budget() int {
	return l.budget
}

// Shared reports whether all players draw from one pool.
func (l *OverrideLedger) Shared() bool {
	return l.shared
}

// Used returns how many overrides p's pool has consumed.
func (l *OverrideLedger) Used(p PlayerID) int {
	return l.used[l.key(p)]
}

// Remaining returns the overrides left in p's pool, never below zero.
func (l *OverrideLedger) Remaining(p PlayerID) int {
	return max(0, l.budget-l.Used(p))
}

// CanSpend reports whether p's pool has an override left.
func (l *OverrideLedger) CanSpend(p PlayerID) bool {
	return l.Used(p) < l.budget
}

// Spend consumes one override or fails without changing the count.
func (l *OverrideLedger) Spend(p PlayerID) error {
	if !l.CanSpend(p) {
		return ErrOverrideBudgetExceeded
	}
	l.used[l.key(p)]++
	return nil
}

// Charge records an override without enforcing the budget.
func (l *OverrideLedger) Charge(p PlayerID) {
	l.used[l.key(p)]++
}

// Total returns overrides consumed across all pools.
func (l *OverrideLedger) Total() int {
	n := 0
	for _, v := range l.used {
		n += v
	}
	return n
}
