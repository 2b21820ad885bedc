package domain

import (
	"strconv"
	"strings"
	"time"
)

// ChecklistItem is one static entry of the sale-readiness catalog.
// IDs follow the "<phase>-<ordinal>" convention, e.g. "3-1".
type ChecklistItem struct {
	ID       string `json:"id" yaml:"id"`
	Text     string `json:"text" yaml:"text"`
	Critical bool   `json:"critical" yaml:"critical"`
}

// Phase groups catalog items into an ordered stage of the sale process.
type Phase struct {
	ID          int             `json:"id" yaml:"id"`
	Title       string          `json:"title" yaml:"title"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Items       []ChecklistItem `json:"items" yaml:"items"`
}

// Catalog is the read-only phase/item taxonomy supplied at startup.
type Catalog struct {
	Phases []Phase `json:"phases" yaml:"phases"`

	byID map[string]ChecklistItem
}

func NewCatalog(phases []Phase) *Catalog {
	byID := make(map[string]ChecklistItem)
	for _, phase := range phases {
		for _, item := range phase.Items {
			byID[item.ID] = item
		}
	}
	return &Catalog{Phases: phases, byID: byID}
}

// HasItem reports whether id names a catalog item.
func (c *Catalog) HasItem(id string) bool {
	_, ok := c.byID[id]
	return ok
}

func (c *Catalog) Item(id string) (ChecklistItem, bool) {
	item, ok := c.byID[id]
	return item, ok
}

func (c *Catalog) TotalItems() int {
	return len(c.byID)
}

func (c *Catalog) CriticalItems() int {
	n := 0
	for _, item := range c.byID {
		if item.Critical {
			n++
		}
	}
	return n
}

// PhaseIDForItem derives the numeric phase from an item id prefix.
// Returns 0 when the id does not carry a numeric prefix.
func PhaseIDForItem(itemID string) int {
	prefix, _, ok := strings.Cut(itemID, "-")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(prefix)
	if err != nil {
		return 0
	}
	return n
}

// ChecklistEntry is one row of the batched checklist upsert, keyed by
// (owner, property, item) at the persistence boundary.
type ChecklistEntry struct {
	ItemID    string
	PhaseID   int
	Checked   bool
	CheckedAt *time.Time
}

// ReadinessLevel bands the critical-item completion percentage.
type ReadinessLevel string

const (
	ReadinessReady       ReadinessLevel = "ready_to_list"
	ReadinessNearlyReady ReadinessLevel = "nearly_ready"
	ReadinessNotReady    ReadinessLevel = "not_ready"
)

// ReadinessScore summarizes checklist completion for one session.
type ReadinessScore struct {
	Level           ReadinessLevel `json:"level"`
	OverallPercent  int            `json:"overall_percent"`
	CriticalPercent int            `json:"critical_percent"`
	Done            int            `json:"done"`
	Total           int            `json:"total"`
	CriticalDone    int            `json:"critical_done"`
	CriticalTotal   int            `json:"critical_total"`
}

// ScoreReadiness computes completion against the catalog. Critical items
// gate the readiness band: >=90% ready, >=70% nearly ready.
func ScoreReadiness(catalog *Catalog, checked map[string]bool) ReadinessScore {
	score := ReadinessScore{
		Total:         catalog.TotalItems(),
		CriticalTotal: catalog.CriticalItems(),
	}
	for id, isChecked := range checked {
		if !isChecked {
			continue
		}
		item, ok := catalog.Item(id)
		if !ok {
			continue
		}
		score.Done++
		if item.Critical {
			score.CriticalDone++
		}
	}
	if score.Total > 0 {
		score.OverallPercent = score.Done * 100 / score.Total
	}
	if score.CriticalTotal > 0 {
		score.CriticalPercent = score.CriticalDone * 100 / score.CriticalTotal
	}
	switch {
	case score.CriticalPercent >= 90:
		score.Level = ReadinessReady
	case score.CriticalPercent >= 70:
		score.Level = ReadinessNearlyReady
	default:
		score.Level = ReadinessNotReady
	}
	return score
}
