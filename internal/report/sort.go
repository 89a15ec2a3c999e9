package report

import (
	"sort"

	"aptfee/internal/revenue"

	"github.com/shopspring/decimal"
)

// KeyedTotal is one entry of a grouped breakdown.
type KeyedTotal struct {
	Key   string
	Total decimal.Decimal
	Count int
}

// SortBuckets orders a grouped breakdown by descending total, then key.
func SortBuckets(m map[string]revenue.Bucket) []KeyedTotal {
	out := make([]KeyedTotal, 0, len(m))
	for k, b := range m {
		out = append(out, KeyedTotal{Key: k, Total: b.Amount, Count: b.Count})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// SortCategories orders category totals by descending revenue, then name.
func SortCategories(m map[string]decimal.Decimal) []KeyedTotal {
	out := make([]KeyedTotal, 0, len(m))
	for k, v := range m {
		out = append(out, KeyedTotal{Key: k, Total: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// SortDays returns the days of a day breakdown in calendar order.
func SortDays(m map[int]revenue.Bucket) []int {
	days := make([]int, 0, len(m))
	for d := range m {
		days = append(days, d)
	}
	sort.Ints(days)
	return days
}
