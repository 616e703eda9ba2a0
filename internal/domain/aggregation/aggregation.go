// Package aggregation implements the keyed reductions behind every dashboard:
// records are partitioned by a key into an associative map of accumulators,
// derived metrics are computed, and the map is flattened back into a sorted
// slice for rendering.
package aggregation

import (
	"cmp"
	"slices"

	"github.com/sfa/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Number reads any scalar as a decimal, missing or non-numeric values read as zero
func Number(v any) decimal.Decimal {
	return shared.ParseAmount(v).Decimal()
}

// GroupBy partitions items by key. Every item lands in exactly one group and
// the order of items inside a group follows the input order.
func GroupBy[T any, K comparable](items []T, key func(T) K) map[K][]T {
	groups := make(map[K][]T)
	for _, item := range items {
		k := key(item)
		groups[k] = append(groups[k], item)
	}
	return groups
}

// Accumulate folds items into one accumulator per key
func Accumulate[T any, K comparable, A any](items []T, key func(T) K, newAcc func(K) *A, update func(*A, T)) map[K]*A {
	accs := make(map[K]*A)
	for _, item := range items {
		k := key(item)
		acc, ok := accs[k]
		if !ok {
			acc = newAcc(k)
			accs[k] = acc
		}
		update(acc, item)
	}
	return accs
}

// Sum adds up value(item) over items
func Sum[T any](items []T, value func(T) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(value(item))
	}
	return total
}

// CountWhere counts the items matching pred
func CountWhere[T any](items []T, pred func(T) bool) int {
	n := 0
	for _, item := range items {
		if pred(item) {
			n++
		}
	}
	return n
}

// Filter returns the items matching pred
func Filter[T any](items []T, pred func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

// Percent returns part/whole*100 rounded to two places, zero when whole is zero
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(2)
}

// PercentOf is Percent for counts
func PercentOf(part, whole int) decimal.Decimal {
	return Percent(decimal.NewFromInt(int64(part)), decimal.NewFromInt(int64(whole)))
}

// ConversionRate is the share of total that converted, as a percentage
func ConversionRate(converted, total int) decimal.Decimal {
	return PercentOf(converted, total)
}

// Entry is one flattened group
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// SortedKeys returns the map keys in ascending order
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Entries flattens m into entries ordered by key
func Entries[K cmp.Ordered, V any](m map[K]V) []Entry[K, V] {
	out := make([]Entry[K, V], 0, len(m))
	for _, k := range SortedKeys(m) {
		out = append(out, Entry[K, V]{Key: k, Value: m[k]})
	}
	return out
}

// Values flattens m and orders the values with cmpFn. Ties are broken by key
// so the output is deterministic.
func Values[K cmp.Ordered, V any](m map[K]*V, cmpFn func(a, b *V) int) []V {
	keys := SortedKeys(m)
	slices.SortStableFunc(keys, func(a, b K) int {
		return cmpFn(m[a], m[b])
	})
	out := make([]V, 0, len(keys))
	for _, k := range keys {
		out = append(out, *m[k])
	}
	return out
}
