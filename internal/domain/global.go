package domain

import "slices"

// GlobalLedgerID is the fixed identity of the single GlobalLedger.
const GlobalLedgerID = "1"

// GlobalLedger aggregates every account operation and holds the
// administrative state of the billing contract.
type GlobalLedger struct {
	ID         string
	Governor   string
	Collectors []string
	Counters
	DailyLinks
}

// NewGlobalLedger returns the bootstrap ledger with the given governor.
func NewGlobalLedger(governor string) *GlobalLedger {
	return &GlobalLedger{
		ID:         GlobalLedgerID,
		Governor:   governor,
		Collectors: []string{},
	}
}

func (g *GlobalLedger) SnapshotScope() SnapshotScope { return ScopeGlobal }
func (g *GlobalLedger) OwnerID() string              { return g.ID }
func (g *GlobalLedger) Totals() Counters             { return g.Counters }
func (g *GlobalLedger) Links() *DailyLinks           { return &g.DailyLinks }

// HasCollector reports whether collector is currently authorized.
func (g *GlobalLedger) HasCollector(collector string) bool {
	return slices.Contains(g.Collectors, collector)
}

// SetCollector adds or removes collector from the authorized set and reports
// whether the set changed. Enabling a member or disabling a non-member is a no-op.
func (g *GlobalLedger) SetCollector(collector string, enabled bool) bool {
	member := g.HasCollector(collector)

	switch {
	case enabled && !member:
		g.Collectors = append(g.Collectors, collector)
		return true
	case !enabled && member:
		g.Collectors = slices.DeleteFunc(g.Collectors, func(c string) bool { return c == collector })
		return true
	default:
		return false
	}
}

// SetGovernor replaces the governor address.
func (g *GlobalLedger) SetGovernor(governor string) {
	g.Governor = governor
}
