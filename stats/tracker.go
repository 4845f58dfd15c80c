// Package stats tracks per-agent outcomes across hands and produces the
// game-level ranking order.
package stats

import "sort"

// Record holds the running statistics for a single agent.
type Record struct {
	AgentID        string         `json:"agentId"`
	Name           string         `json:"name"`
	HandsPlayed    int            `json:"handsPlayed"`
	HandsWon       int            `json:"handsWon"`
	Chips          int            `json:"chips"`
	StartingChips  int            `json:"startingChips"`
	NetProfit      int            `json:"netProfit"`
	WinRate        float64        `json:"winRate"`
	AvgWinStrength float64        `json:"avgWinStrength"`
	winningHands   int            // hands contributing to AvgWinStrength
	ActionCounts   map[string]int `json:"actionCounts"`
}

// Tracker accumulates outcome records for all agents in a game. It is not
// safe for concurrent use; the orchestration loop is its single writer.
type Tracker struct {
	records []*Record
	byID    map[string]*Record
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		byID: make(map[string]*Record),
	}
}

// Initialize seeds a zeroed record for an agent. Calling it twice for the
// same agent resets the record.
func (t *Tracker) Initialize(agentID, name string, startingChips int) {
	record := &Record{
		AgentID:       agentID,
		Name:          name,
		Chips:         startingChips,
		StartingChips: startingChips,
		ActionCounts:  make(map[string]int),
	}

	if existing, ok := t.byID[agentID]; ok {
		*existing = *record
		return
	}

	t.records = append(t.records, record)
	t.byID[agentID] = record
}

// RecordAction increments the per-kind action counter for an agent.
func (t *Tracker) RecordAction(agentID, actionKind string) {
	if record, ok := t.byID[agentID]; ok {
		record.ActionCounts[actionKind]++
	}
}

// RecordHandResult updates an agent's record at hand completion. The hand
// strength only contributes when the agent won with an evaluated hand; the
// running mean is maintained incrementally so no history is retained.
func (t *Tracker) RecordHandResult(agentID string, won bool, finalChips int, handStrength float64) {
	record, ok := t.byID[agentID]
	if !ok {
		return
	}

	record.HandsPlayed++
	if won {
		record.HandsWon++
		if handStrength > 0 {
			record.winningHands++
			record.AvgWinStrength += (handStrength - record.AvgWinStrength) / float64(record.winningHands)
		}
	}

	record.Chips = finalChips
	record.NetProfit = finalChips - record.StartingChips
	record.WinRate = float64(record.HandsWon) / float64(record.HandsPlayed)
}

// Record returns a copy of an agent's record.
func (t *Tracker) Record(agentID string) (Record, bool) {
	if record, ok := t.byID[agentID]; ok {
		return cloneRecord(record), true
	}
	return Record{}, false
}

// Ranking returns all records ordered by net profit, then win rate, then
// chip total, all descending. The sort is stable so agents equal on all
// three keep their seating order.
func (t *Tracker) Ranking() []Record {
	out := make([]Record, len(t.records))
	for i, record := range t.records {
		out[i] = cloneRecord(record)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].NetProfit != out[j].NetProfit {
			return out[i].NetProfit > out[j].NetProfit
		}
		if out[i].WinRate != out[j].WinRate {
			return out[i].WinRate > out[j].WinRate
		}
		return out[i].Chips > out[j].Chips
	})

	return out
}

func cloneRecord(record *Record) Record {
	out := *record
	out.ActionCounts = make(map[string]int, len(record.ActionCounts))
	for k, v := range record.ActionCounts {
		out.ActionCounts[k] = v
	}
	return out
}
