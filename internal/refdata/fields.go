package refdata

import (
	"encoding/json"
	"strconv"

	"github.com/tidwall/gjson"
)

// object parses raw as a JSON object.
func object(raw json.RawMessage, category string, i int) (gjson.Result, error) {
	rec := gjson.ParseBytes(raw)
	if !rec.IsObject() {
		return gjson.Result{}, &ShapeError{Category: category, Index: i, Reason: "is not an object"}
	}
	return rec, nil
}

func stringField(rec gjson.Result, category string, i int, field string) (string, error) {
	v := rec.Get(field)
	if !v.Exists() {
		return "", &ShapeError{Category: category, Index: i, Field: field, Reason: "is missing"}
	}
	if v.Type != gjson.String {
		return "", &ShapeError{Category: category, Index: i, Field: field, Reason: "is not a string"}
	}
	return v.Str, nil
}

func uintField(rec gjson.Result, category string, i int, field string) (uint64, error) {
	v := rec.Get(field)
	if !v.Exists() {
		return 0, &ShapeError{Category: category, Index: i, Field: field, Reason: "is missing"}
	}
	if v.Type != gjson.Number {
		return 0, &ShapeError{Category: category, Index: i, Field: field, Reason: "is not a number"}
	}
	n, err := strconv.ParseUint(v.Raw, 10, 64)
	if err != nil {
		return 0, &ShapeError{Category: category, Index: i, Field: field, Reason: "is not an unsigned integer"}
	}
	return n, nil
}
