// Package refdata turns raw API records into the typed reference entries
// the markdown sheets are rendered from.
package refdata

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Skill is a skill record reduced to the fields the reference sheet needs.
type Skill struct {
	Name       string
	Icon       string
	Type       string
	Profession string
}

// Trait is a trait record reduced to its name, icon and specialization.
// Profession and SpecName stay empty until Enrich fills them in.
type Trait struct {
	Name           string
	Icon           string
	Specialization uint64
	Profession     string
	SpecName       string
}

// ProjectSkills keeps the skills that belong to exactly one profession and
// have a type. Skills shared between professions are left out of the sheet.
func ProjectSkills(records []json.RawMessage) ([]Skill, error) {
	skills := make([]Skill, 0, len(records))
	for i, raw := range records {
		rec, err := object(raw, "skills", i)
		if err != nil {
			return nil, err
		}

		profs := rec.Get("professions")
		if !profs.IsArray() {
			continue
		}
		elems := profs.Array()
		if len(elems) != 1 {
			continue
		}
		if typ := rec.Get("type"); !typ.Exists() || typ.Type == gjson.Null {
			continue
		}

		if elems[0].Type != gjson.String {
			return nil, &ShapeError{Category: "skills", Index: i, Field: "professions", Reason: "element is not a string"}
		}
		s := Skill{Profession: elems[0].Str}
		if s.Type, err = stringField(rec, "skills", i, "type"); err != nil {
			return nil, err
		}
		if s.Name, err = stringField(rec, "skills", i, "name"); err != nil {
			return nil, err
		}
		if s.Icon, err = stringField(rec, "skills", i, "icon"); err != nil {
			return nil, err
		}
		skills = append(skills, s)
	}
	return skills, nil
}

// ProjectTraits reduces every trait record. Nothing is filtered out.
func ProjectTraits(records []json.RawMessage) ([]Trait, error) {
	traits := make([]Trait, 0, len(records))
	for i, raw := range records {
		rec, err := object(raw, "traits", i)
		if err != nil {
			return nil, err
		}

		var t Trait
		if t.Name, err = stringField(rec, "traits", i, "name"); err != nil {
			return nil, err
		}
		if t.Icon, err = stringField(rec, "traits", i, "icon"); err != nil {
			return nil, err
		}
		if t.Specialization, err = uintField(rec, "traits", i, "specialization"); err != nil {
			return nil, err
		}
		traits = append(traits, t)
	}
	return traits, nil
}
