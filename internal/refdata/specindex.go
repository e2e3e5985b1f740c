package refdata

import "encoding/json"

// Specialization is the profession and display name of one specialization.
type Specialization struct {
	Profession string
	Name       string
}

// SpecIndex maps specialization ids to their profession and name.
// It is not modified after BuildSpecIndex returns.
type SpecIndex map[uint64]Specialization

// BuildSpecIndex indexes full specialization records by id. Every record
// must carry id, name and profession. A repeated id overwrites the earlier entry.
func BuildSpecIndex(records []json.RawMessage) (SpecIndex, error) {
	idx := make(SpecIndex, len(records))
	for i, raw := range records {
		rec, err := object(raw, "specializations", i)
		if err != nil {
			return nil, err
		}

		id, err := uintField(rec, "specializations", i, "id")
		if err != nil {
			return nil, err
		}
		name, err := stringField(rec, "specializations", i, "name")
		if err != nil {
			return nil, err
		}
		prof, err := stringField(rec, "specializations", i, "profession")
		if err != nil {
			return nil, err
		}
		idx[id] = Specialization{Profession: prof, Name: name}
	}
	return idx, nil
}

// Enrich sets Profession and SpecName on every trait from idx. A trait whose
// specialization is unknown fails the whole call with a *JoinError.
func Enrich(traits []Trait, idx SpecIndex) error {
	for i := range traits {
		spec, ok := idx[traits[i].Specialization]
		if !ok {
			return &JoinError{Trait: traits[i].Name, Specialization: traits[i].Specialization}
		}
		traits[i].Profession = spec.Profession
		traits[i].SpecName = spec.Name
	}
	return nil
}
