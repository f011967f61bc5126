package finance

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func day(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.Local)
}

func TestAggregateRevenue_SameDayScenario(t *testing.T) {
	entries := []RevenueEntry{
		{Paid: true, IssueDate: day(2025, 3, 14, 9), AmountInclTax: dec("50.00")},
		{Paid: true, IssueDate: day(2025, 3, 14, 17), AmountInclTax: dec("70.00")},
		{Paid: false, IssueDate: day(2025, 3, 14, 10), AmountInclTax: dec("1000.00")},
	}
	got := AggregateRevenue(entries, DateRange{Start: day(2025, 3, 14, 0), End: day(2025, 3, 14, 0)})

	if len(got.Buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(got.Buckets))
	}
	if got.Buckets[0].Label != "14/03" {
		t.Errorf("label = %q, want 14/03", got.Buckets[0].Label)
	}
	if !got.Buckets[0].Total.Equal(dec("120")) {
		t.Errorf("bucket total = %s, want 120", got.Buckets[0].Total)
	}
	if !got.GrandTotal.Equal(dec("120")) {
		t.Errorf("grand total = %s, want 120", got.GrandTotal)
	}
	if got.Count != 2 {
		t.Errorf("count = %d, want 2", got.Count)
	}
}

func TestAggregateRevenue_ExcludesUnpaid(t *testing.T) {
	entries := []RevenueEntry{
		{Paid: true, IssueDate: day(2025, 1, 5, 12), AmountInclTax: dec("80")},
		{Paid: false, IssueDate: day(2025, 1, 5, 12), AmountInclTax: dec("80")},
	}
	got := AggregateRevenue(entries, DateRange{})
	if !got.GrandTotal.Equal(dec("80")) {
		t.Errorf("grand total = %s, want 80", got.GrandTotal)
	}
}

func TestAggregateRevenue_InclusiveBoundsAndOrdering(t *testing.T) {
	entries := []RevenueEntry{
		{Paid: true, IssueDate: day(2025, 2, 28, 23), AmountInclTax: dec("10")},
		{Paid: true, IssueDate: day(2025, 2, 1, 0), AmountInclTax: dec("5")},
		{Paid: true, IssueDate: day(2025, 1, 31, 23), AmountInclTax: dec("99")},
		{Paid: true, IssueDate: day(2025, 3, 1, 0), AmountInclTax: dec("99")},
		{Paid: true, IssueDate: day(2025, 2, 10, 8), AmountInclTax: dec("7")},
	}
	got := AggregateRevenue(entries, DateRange{Start: day(2025, 2, 1, 0), End: day(2025, 2, 28, 0)})

	var labels []string
	for _, b := range got.Buckets {
		labels = append(labels, b.Label)
	}
	want := []string{"01/02", "10/02", "28/02"}
	if !reflect.DeepEqual(labels, want) {
		t.Errorf("labels = %v, want %v", labels, want)
	}
	if !got.GrandTotal.Equal(dec("22")) || got.Count != 3 {
		t.Errorf("grand total = %s count = %d, want 22 and 3", got.GrandTotal, got.Count)
	}
}

func TestAggregateRevenue_SkipsMissingDate(t *testing.T) {
	entries := []RevenueEntry{
		{Paid: true, AmountInclTax: dec("42")},
		{Paid: true, IssueDate: day(2025, 6, 1, 12), AmountInclTax: dec("8")},
	}
	got := AggregateRevenue(entries, DateRange{})
	if got.Count != 1 || !got.GrandTotal.Equal(dec("8")) {
		t.Errorf("got count=%d total=%s, want 1 and 8", got.Count, got.GrandTotal)
	}
}

func TestAggregateRevenue_Empty(t *testing.T) {
	got := AggregateRevenue(nil, DateRange{})
	if len(got.Buckets) != 0 || !got.GrandTotal.IsZero() || got.Count != 0 {
		t.Errorf("unexpected result for empty input: %+v", got)
	}
	if got.Buckets == nil {
		t.Error("buckets should be an empty slice, not nil")
	}
}

func TestAggregateRevenue_Idempotent(t *testing.T) {
	entries := []RevenueEntry{
		{Paid: true, IssueDate: day(2025, 4, 2, 9), AmountInclTax: dec("12.5")},
		{Paid: true, IssueDate: day(2025, 4, 1, 9), AmountInclTax: dec("7.25")},
		{Paid: false, IssueDate: day(2025, 4, 1, 9), AmountInclTax: dec("3")},
	}
	rng := DateRange{Start: day(2025, 4, 1, 0), End: day(2025, 4, 30, 0)}
	first := AggregateRevenue(entries, rng)
	second := AggregateRevenue(entries, rng)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("aggregation not idempotent:\n%+v\n%+v", first, second)
	}
}

func TestMonthlyRevenue(t *testing.T) {
	entries := []RevenueEntry{
		{Paid: true, IssueDate: day(2025, 5, 3, 9), AmountInclTax: decimal.NewFromInt(100)},
		{Paid: true, IssueDate: day(2025, 5, 20, 9), AmountInclTax: decimal.NewFromInt(50)},
		{Paid: true, IssueDate: day(2025, 4, 30, 9), AmountInclTax: decimal.NewFromInt(25)},
	}
	got := MonthlyRevenue(entries, DateRange{})
	if len(got.Buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(got.Buckets))
	}
	if got.Buckets[0].Label != "04/2025" || got.Buckets[1].Label != "05/2025" {
		t.Errorf("labels = %q, %q", got.Buckets[0].Label, got.Buckets[1].Label)
	}
	if !got.Buckets[1].Total.Equal(dec("150")) {
		t.Errorf("May total = %s, want 150", got.Buckets[1].Total)
	}
}

func TestDateRange_Contains(t *testing.T) {
	rng := MonthRange(day(2025, 2, 14, 0))
	if !rng.Contains(day(2025, 2, 28, 23)) {
		t.Error("last day of month should be contained")
	}
	if rng.Contains(day(2025, 3, 1, 0)) {
		t.Error("first day of next month should not be contained")
	}
	if (DateRange{}).Contains(time.Time{}) {
		t.Error("zero time is never contained")
	}
}
