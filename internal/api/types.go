package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"pyball/internal/domain"
)

// PositionResponse is the position endpoint's body: an object of records
// keyed by player. Records keep the order the keys appear in the body.
type PositionResponse struct {
	Records []domain.PlayerStatRecord
}

func (p *PositionResponse) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	open, ok := tok.(json.Delim)
	if !ok || (open != '{' && open != '[') {
		return fmt.Errorf("position response: expected object or array, got %v", tok)
	}

	p.Records = make([]domain.PlayerStatRecord, 0)
	for dec.More() {
		if open == '{' {
			if _, err := dec.Token(); err != nil {
				return err
			}
		}
		var rec domain.PlayerStatRecord
		if err := dec.Decode(&rec); err != nil {
			return fmt.Errorf("position response: %w", err)
		}
		p.Records = append(p.Records, rec)
	}

	_, err = dec.Token()
	return err
}
