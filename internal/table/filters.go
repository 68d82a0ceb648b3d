package table

import (
	"fmt"
	"pyball/internal/domain"
	"strconv"
	"strings"
)

const (
	FilterStartsWith        = "startswith"
	FilterAnyWordStartsWith = "any_word_startswith"
)

// Column describes one table column and the filter applied to it.
type Column struct {
	Header      string `json:"header"`
	Accessor    string `json:"accessor"`
	Filter      string `json:"filter"`
	Formattable bool   `json:"formattable"`
}

// Columns lists the position table columns in display order.
var Columns = []Column{
	{Header: "Player", Accessor: "full_name", Filter: FilterAnyWordStartsWith, Formattable: false},
	{Header: "Passing Yard Avg", Accessor: "passing_yd_avg", Filter: FilterStartsWith, Formattable: true},
	{Header: "Rushing Yard Avg", Accessor: "rushing_yd_avg", Filter: FilterStartsWith, Formattable: true},
	{Header: "Receiving Yard Avg", Accessor: "receiving_yd_avg", Filter: FilterStartsWith, Formattable: true},
}

// ColumnByAccessor finds the column keyed by accessor.
func ColumnByAccessor(accessor string) (Column, bool) {
	for _, c := range Columns {
		if c.Accessor == accessor {
			return c, true
		}
	}
	return Column{}, false
}

// Row maps a column accessor to its display value. A missing key is an
// undefined cell.
type Row map[string]string

// NewRow renders a derived row as display strings keyed by accessor.
func NewRow(d domain.DerivedRow) Row {
	return Row{
		"full_name":        d.FullName,
		"passing_yd_avg":   strconv.Itoa(d.PassingYdAvg),
		"rushing_yd_avg":   strconv.Itoa(d.RushingYdAvg),
		"receiving_yd_avg": strconv.Itoa(d.ReceivingYdAvg),
	}
}

// NewRows converts derived rows in order.
func NewRows(derived []domain.DerivedRow) []Row {
	rows := make([]Row, len(derived))
	for i, d := range derived {
		rows[i] = NewRow(d)
	}
	return rows
}

// StartsWith reports whether value begins with filter, ignoring case.
func StartsWith(value, filter string) bool {
	return strings.HasPrefix(strings.ToLower(value), strings.ToLower(filter))
}

// AnyWordStartsWith reports whether value, or any word of value after the
// first, begins with filter, ignoring case. The first word is only reached
// through the whole-value check.
func AnyWordStartsWith(value, filter string) bool {
	v := strings.ToLower(value)
	f := strings.ToLower(filter)
	if strings.HasPrefix(v, f) {
		return true
	}
	words := strings.Split(v, " ")
	for i := 1; i < len(words); i++ {
		if strings.HasPrefix(words[i], f) {
			return true
		}
	}
	return false
}

// FilterFunc keeps the rows whose column id matches filterValue.
type FilterFunc func(rows []Row, id, filterValue string) []Row

func predicateFilter(match func(value, filter string) bool) FilterFunc {
	return func(rows []Row, id, filterValue string) []Row {
		out := make([]Row, 0, len(rows))
		for _, row := range rows {
			value, ok := row[id]
			if !ok || match(value, filterValue) {
				out = append(out, row)
			}
		}
		return out
	}
}

// FilterTypes maps filter type names to their implementations.
var FilterTypes = map[string]FilterFunc{
	FilterStartsWith:        predicateFilter(StartsWith),
	FilterAnyWordStartsWith: predicateFilter(AnyWordStartsWith),
}

// ApplyFilters narrows rows by each non-empty column filter, in column order.
func ApplyFilters(rows []Row, filters map[string]string) ([]Row, error) {
	for accessor := range filters {
		if _, ok := ColumnByAccessor(accessor); !ok {
			return nil, fmt.Errorf("unknown column %q", accessor)
		}
	}

	for _, col := range Columns {
		value, ok := filters[col.Accessor]
		if !ok || value == "" {
			continue
		}
		filter, ok := FilterTypes[col.Filter]
		if !ok {
			return nil, fmt.Errorf("column %q has unknown filter type %q", col.Accessor, col.Filter)
		}
		rows = filter(rows, col.Accessor, value)
	}
	return rows, nil
}
