package checkout

import (
	"errors"
	"strings"
	"testing"

	"bookstore-api/internal/domain"
)

type fakeCache map[int64]domain.Book

func (f fakeCache) Lookup(id int64) (domain.Book, bool) {
	b, ok := f[id]
	return b, ok
}

func testCache() fakeCache {
	return fakeCache{
		1: {ID: 1, Title: "Go in Action", Price: 45000},
		2: {ID: 2, Title: "Learning Go", Price: 22000},
		3: {ID: 3, Title: "The Go Programming Language", Price: 8100},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name         string
		lines        []Line
		claimed      int64
		wantTotal    int64
		wantDetail   string
		wantComputed int64
	}{
		{
			name:       "empty line list",
			lines:      nil,
			claimed:    1000,
			wantDetail: "no line items",
		},
		{
			name:       "missing book id",
			lines:      []Line{{Quantity: 1, Price: 45000}},
			claimed:    48000,
			wantDetail: "invalid line item",
		},
		{
			name:       "zero quantity",
			lines:      []Line{{BookID: 1, Quantity: 0, Price: 45000}},
			claimed:    48000,
			wantDetail: "invalid line item",
		},
		{
			name:       "negative quantity",
			lines:      []Line{{BookID: 1, Quantity: -2, Price: 45000}},
			claimed:    48000,
			wantDetail: "invalid line item",
		},
		{
			name:       "unknown book regardless of amount",
			lines:      []Line{{BookID: 999, Quantity: 1, Price: 45000}},
			claimed:    48000,
			wantDetail: "book 999 does not exist",
		},
		{
			name:       "price mismatch even when total would match",
			lines:      []Line{{BookID: 1, Quantity: 1, Price: 44999}, {BookID: 3, Quantity: 1, Price: 8101}},
			claimed:    45000 + 8100, // 53100, free shipping; coincidentally equals masters' sum
			wantDetail: "price mismatch for book 1",
		},
		{
			name:         "tampered total rejected with computed amount",
			lines:        []Line{{BookID: 1, Quantity: 1, Price: 45000}},
			claimed:      1000,
			wantDetail:   "amount mismatch: requested 1000, computed 48000",
			wantComputed: 48000,
		},
		{
			name:         "shipping fee omitted by client",
			lines:        []Line{{BookID: 3, Quantity: 1, Price: 8100}},
			claimed:      8100,
			wantDetail:   "amount mismatch: requested 8100, computed 11100",
			wantComputed: 11100,
		},
		{
			name:      "free shipping boundary is inclusive at 30000",
			lines:     []Line{{BookID: 2, Quantity: 1, Price: 22000}, {BookID: 3, Quantity: 1, Price: 8100}},
			claimed:   30100,
			wantTotal: 30100,
		},
		{
			name:      "below threshold pays the surcharge",
			lines:     []Line{{BookID: 3, Quantity: 3, Price: 8100}},
			claimed:   8100*3 + 3000,
			wantTotal: 27300,
		},
		{
			name:      "above threshold ships free",
			lines:     []Line{{BookID: 1, Quantity: 2, Price: 45000}},
			claimed:   90000,
			wantTotal: 90000,
		},
	}

	v := NewValidator(testCache())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, err := v.Validate(tt.lines, tt.claimed)
			if tt.wantDetail != "" {
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				if !strings.Contains(vErr.Detail, tt.wantDetail) {
					t.Fatalf("detail %q does not contain %q", vErr.Detail, tt.wantDetail)
				}
				if tt.wantComputed != 0 && vErr.Computed != tt.wantComputed {
					t.Fatalf("computed %d, want %d", vErr.Computed, tt.wantComputed)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if total != tt.wantTotal {
				t.Fatalf("total %d, want %d", total, tt.wantTotal)
			}
		})
	}
}

func TestValidateExactThreshold(t *testing.T) {
	// Two lines summing to exactly 30000 get free shipping.
	cache := fakeCache{
		10: {ID: 10, Price: 18000},
		11: {ID: 11, Price: 12000},
	}
	v := NewValidator(cache)
	total, err := v.Validate([]Line{
		{BookID: 10, Quantity: 1, Price: 18000},
		{BookID: 11, Quantity: 1, Price: 12000},
	}, 30000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 30000 {
		t.Fatalf("total %d, want 30000", total)
	}
}

func TestValidateIdempotent(t *testing.T) {
	v := NewValidator(testCache())
	lines := []Line{{BookID: 1, Quantity: 1, Price: 45000}, {BookID: 3, Quantity: 2, Price: 8100}}
	claimed := int64(45000 + 8100*2) // 61200, free shipping

	first, err := v.Validate(lines, claimed)
	if err != nil {
		t.Fatalf("first validation: %v", err)
	}
	second, err := v.Validate(lines, claimed)
	if err != nil {
		t.Fatalf("second validation: %v", err)
	}
	if first != second {
		t.Fatalf("totals differ: %d vs %d", first, second)
	}
}

func TestSnapshotUsesMasterData(t *testing.T) {
	v := NewValidator(testCache())
	items := v.snapshot([]Line{{BookID: 1, Quantity: 2, Price: 45000}})
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Title != "Go in Action" || items[0].Price != 45000 || items[0].Quantity != 2 {
		t.Fatalf("unexpected snapshot %+v", items[0])
	}
}
