package table

import (
	"math"
	"pyball/internal/domain"
	"strconv"
)

// Average returns the mean of series rounded to two decimals and then
// truncated toward zero, so 149.5 becomes 149 and 149.999 becomes 150.
// An empty series averages to 0.
func Average(series []float64) int {
	if len(series) == 0 {
		return 0
	}

	var sum float64
	for _, v := range series {
		sum += v
	}
	mean := sum / float64(len(series))
	if math.IsNaN(mean) || math.IsInf(mean, 0) {
		return 0
	}

	fixed, err := strconv.ParseFloat(strconv.FormatFloat(mean, 'f', 2, 64), 64)
	if err != nil {
		return 0
	}
	return int(math.Trunc(fixed))
}

// Sum totals a series. Used by the comparison view next to Average.
func Sum(series []float64) float64 {
	var sum float64
	for _, v := range series {
		sum += v
	}
	return sum
}

// DeriveRows flattens stat records into table rows, one per named record,
// keeping input order.
func DeriveRows(records []domain.PlayerStatRecord) []domain.DerivedRow {
	rows := make([]domain.DerivedRow, 0, len(records))
	for _, r := range records {
		if r.FullName == nil {
			continue
		}
		rows = append(rows, domain.DerivedRow{
			FullName:       *r.FullName,
			PassingYdAvg:   Average(r.PassingYards),
			RushingYdAvg:   Average(r.RushingYards),
			ReceivingYdAvg: Average(r.ReceivingYards),
		})
	}
	return rows
}
