package compare

import (
	"pyball/internal/domain"
	"pyball/internal/table"
)

// ValidResultKeyThreshold is the key count a player result must exceed to be
// shown. The stats API answers unknown players with a near-empty object.
const ValidResultKeyThreshold = 2

const placeholderHeadshotURL = "https://pdtxar.com/wp-content/uploads/2019/04/person-placeholder.jpg"

var StatsByPosition = map[string][]string{
	"QB": {"passing_yards", "passing_tds", "rushing_yards", "interceptions"},
	"RB": {"rushing_yards", "rushing_tds", "receptions", "receiving_yards", "receiving_tds"},
	"WR": {"receptions", "receiving_yards", "receiving_tds"},
}

var StatLabels = map[string]string{
	"passing_yards":   "PASSING YD",
	"passing_tds":     "PASSING TD",
	"interceptions":   "INT",
	"rushing_yards":   "RUSHING YD",
	"rushing_tds":     "RUSHING TD",
	"receptions":      "REC",
	"receiving_yards": "RECEIVING YD",
	"receiving_tds":   "RECEIVING TD",
}

func IsValidResult(result domain.PlayerResult) bool {
	return len(result) > ValidResultKeyThreshold
}

// EmptyPlayer is shown in place of a player that has no valid result yet.
func EmptyPlayer() domain.PlayerResult {
	return domain.PlayerResult{
		"full_name":    []any{""},
		"headshot_url": []any{placeholderHeadshotURL},
	}
}

type StatValue struct {
	Total   float64 `json:"total"`
	Average int     `json:"average"`
}

type Row struct {
	Stat    string    `json:"stat"`
	Label   string    `json:"label"`
	Player1 StatValue `json:"player1"`
	Player2 StatValue `json:"player2"`
}

type Table struct {
	Player1 string `json:"player1"`
	Player2 string `json:"player2"`
	Rows    []Row  `json:"rows"`
}

// BuildTable lines up the two players' stats: player 1's position first,
// then whatever player 2's position adds.
func BuildTable(p1, p2 domain.PlayerResult) Table {
	t := Table{
		Player1: Text(p1, "full_name"),
		Player2: Text(p2, "full_name"),
		Rows:    make([]Row, 0),
	}

	seen := make(map[string]bool)
	for _, pos := range []string{Text(p1, "position"), Text(p2, "position")} {
		for _, stat := range StatsByPosition[pos] {
			if seen[stat] {
				continue
			}
			seen[stat] = true

			s1, s2 := Series(p1, stat), Series(p2, stat)
			t.Rows = append(t.Rows, Row{
				Stat:    stat,
				Label:   StatLabels[stat],
				Player1: StatValue{Total: table.Sum(s1), Average: table.Average(s1)},
				Player2: StatValue{Total: table.Sum(s2), Average: table.Average(s2)},
			})
		}
	}
	return t
}

// Text reads a string field. The stats API wraps scalars in one-element
// arrays, so both shapes are accepted.
func Text(result domain.PlayerResult, key string) string {
	switch v := result[key].(type) {
	case string:
		return v
	case []any:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return s
			}
		}
	}
	return ""
}

// Series reads a numeric field as a series. A bare number is a series of one.
func Series(result domain.PlayerResult, key string) []float64 {
	switch v := result[key].(type) {
	case float64:
		return []float64{v}
	case []any:
		out := make([]float64, 0, len(v))
		for _, item := range v {
			if f, ok := item.(float64); ok {
				out = append(out, f)
			}
		}
		return out
	}
	return nil
}
