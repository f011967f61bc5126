package finance

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// RevenueEntry is the slice of an invoice the revenue aggregation reads.
type RevenueEntry struct {
	Paid          bool
	IssueDate     time.Time
	AmountInclTax decimal.Decimal
}

// RevenueBucket is one point of a revenue time series.
type RevenueBucket struct {
	Label string          `json:"bucket"`
	Date  time.Time       `json:"date"`
	Total decimal.Decimal `json:"total"`
}

// RevenueSeries is the result of a revenue aggregation.
type RevenueSeries struct {
	Buckets    []RevenueBucket `json:"buckets"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	Count      int             `json:"count"`
}

const (
	dayLabel   = "02/01"
	monthLabel = "01/2006"
)

// AggregateRevenue sums the tax-inclusive amount of paid invoices issued in rng,
// one bucket per calendar day labelled "dd/mm". Buckets are ordered by date and
// days without revenue are absent. Entries with no issue date are skipped.
func AggregateRevenue(entries []RevenueEntry, rng DateRange) RevenueSeries {
	return aggregate(entries, rng, func(t time.Time, loc *time.Location) time.Time {
		return Day(t, loc)
	}, dayLabel)
}

// MonthlyRevenue applies the same selection as AggregateRevenue but buckets by
// calendar month ("mm/yyyy").
func MonthlyRevenue(entries []RevenueEntry, rng DateRange) RevenueSeries {
	return aggregate(entries, rng, func(t time.Time, loc *time.Location) time.Time {
		t = t.In(loc)
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	}, monthLabel)
}

func aggregate(entries []RevenueEntry, rng DateRange, key func(time.Time, *time.Location) time.Time, layout string) RevenueSeries {
	loc := rng.loc()
	series := RevenueSeries{Buckets: []RevenueBucket{}, GrandTotal: decimal.Zero}
	index := map[time.Time]int{}
	for _, e := range entries {
		if !e.Paid || !rng.Contains(e.IssueDate) {
			continue
		}
		k := key(e.IssueDate, loc)
		i, ok := index[k]
		if !ok {
			i = len(series.Buckets)
			index[k] = i
			series.Buckets = append(series.Buckets, RevenueBucket{Label: k.Format(layout), Date: k, Total: decimal.Zero})
		}
		series.Buckets[i].Total = series.Buckets[i].Total.Add(e.AmountInclTax)
		series.GrandTotal = series.GrandTotal.Add(e.AmountInclTax)
		series.Count++
	}
	sort.SliceStable(series.Buckets, func(a, b int) bool {
		return series.Buckets[a].Date.Before(series.Buckets[b].Date)
	})
	return series
}
