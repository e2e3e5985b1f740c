package refdata

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/tidwall/gjson"
)

// Buff is one buff status and its icon URL.
type Buff struct {
	Status string
	Icon   string
}

// BuffSet maps a buff status to the icon first seen for it.
type BuffSet map[string]string

// Sorted returns the buffs ordered by status.
func (b BuffSet) Sorted() []Buff {
	out := make([]Buff, 0, len(b))
	for status, icon := range b {
		out = append(out, Buff{Status: status, Icon: icon})
	}
	slices.SortFunc(out, func(x, y Buff) int {
		return strings.Compare(x.Status, y.Status)
	})
	return out
}

// ExtractBuffs collects the buff facts nested in full trait records. Only
// facts typed "Buff" count. When a status repeats, the first icon is kept.
func ExtractBuffs(traitRecords []json.RawMessage) (BuffSet, error) {
	buffs := make(BuffSet)
	for i, raw := range traitRecords {
		rec, err := object(raw, "traits", i)
		if err != nil {
			return nil, err
		}

		facts := rec.Get("facts")
		if !facts.Exists() {
			continue
		}
		if !facts.IsArray() {
			return nil, &ShapeError{Category: "traits", Index: i, Field: "facts", Reason: "is not an array"}
		}

		for _, fact := range facts.Array() {
			if typ := fact.Get("type"); typ.Str != "Buff" {
				continue
			}
			status, err := factString(fact, i, "status")
			if err != nil {
				return nil, err
			}
			icon, err := factString(fact, i, "icon")
			if err != nil {
				return nil, err
			}
			if _, seen := buffs[status]; !seen {
				buffs[status] = icon
			}
		}
	}
	return buffs, nil
}

func factString(fact gjson.Result, i int, field string) (string, error) {
	s, err := stringField(fact, "traits", i, field)
	if se, ok := err.(*ShapeError); ok {
		se.Field = "facts[]." + field
	}
	return s, err
}
