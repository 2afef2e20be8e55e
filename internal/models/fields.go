package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// requestFields are the JSON keys every PlayerRequest must carry.
var requestFields = []string{
	"firstName",
	"middleName",
	"lastName",
	"dateOfBirth",
	"squadNumber",
	"position",
	"abbrPosition",
	"team",
	"league",
	"starting11",
}

// MissingFields returns the required keys that are absent or null in obj,
// in declaration order. withID adds "id", which stored players must have.
func MissingFields(obj map[string]json.RawMessage, withID bool) []string {
	var missing []string
	if withID && isAbsent(obj, "id") {
		missing = append(missing, "id")
	}
	for _, f := range requestFields {
		if isAbsent(obj, f) {
			missing = append(missing, f)
		}
	}
	return missing
}

func isAbsent(obj map[string]json.RawMessage, key string) bool {
	v, ok := obj[key]
	return !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// RequestFromFields builds a PlayerRequest from a decoded JSON object using
// exact key matches only. encoding/json folds case when filling structs, so a
// key like "SQUADNUMBER" would otherwise overwrite "squadNumber".
func RequestFromFields(obj map[string]json.RawMessage) (PlayerRequest, error) {
	var r PlayerRequest
	err := decodeFields(obj,
		field{"firstName", &r.FirstName},
		field{"middleName", &r.MiddleName},
		field{"lastName", &r.LastName},
		field{"dateOfBirth", &r.DateOfBirth},
		field{"squadNumber", &r.SquadNumber},
		field{"position", &r.Position},
		field{"abbrPosition", &r.AbbrPosition},
		field{"team", &r.Team},
		field{"league", &r.League},
		field{"starting11", &r.Starting11},
	)
	return r, err
}

// PlayerFromFields is RequestFromFields for stored players, id included.
func PlayerFromFields(obj map[string]json.RawMessage) (Player, error) {
	var id uint32
	if err := decodeFields(obj, field{"id", &id}); err != nil {
		return Player{}, err
	}
	req, err := RequestFromFields(obj)
	if err != nil {
		return Player{}, err
	}
	return req.ToPlayer(id), nil
}

type field struct {
	key string
	dst any
}

// decodeFields unmarshals each present key into its destination.
func decodeFields(obj map[string]json.RawMessage, fields ...field) error {
	for _, f := range fields {
		raw, ok := obj[f.key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, f.dst); err != nil {
			return fmt.Errorf("field %s: %w", f.key, err)
		}
	}
	return nil
}
