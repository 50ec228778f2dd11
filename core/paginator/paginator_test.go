package paginator

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"inventory-tracker/core/inventory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// fakeVendor serves a fixed catalog page by page and records every request.
type fakeVendor struct {
	total    int
	failAt   map[int]error
	badParse map[int]bool
	offsets  []int
}

func (f *fakeVendor) FetchPage(ctx context.Context, req inventory.PageRequest) (inventory.RawPage, error) {
	f.offsets = append(f.offsets, req.Offset)
	if err, ok := f.failAt[req.Offset]; ok {
		return inventory.RawPage{}, err
	}
	body := fmt.Sprintf("%d:%d", req.Offset, req.PageSize)
	return inventory.RawPage{Body: []byte(body)}, nil
}

func (f *fakeVendor) Parse(page inventory.RawPage) ([]inventory.Record, int, error) {
	if f.badParse[page.Offset] {
		return nil, 0, errors.New("unexpected payload")
	}
	var offset, size int
	if _, err := fmt.Sscanf(string(page.Body), "%d:%d", &offset, &size); err != nil {
		return nil, 0, err
	}
	var records []inventory.Record
	for i := offset; i < offset+size && i < f.total; i++ {
		records = append(records, inventory.Record{ID: fmt.Sprintf("VIN%04d", i), Location: "NSW"})
	}
	return records, f.total, nil
}

type waitRecorder struct {
	calls []time.Duration
	err   error
}

func (w *waitRecorder) wait(ctx context.Context, d time.Duration) error {
	w.calls = append(w.calls, d)
	return w.err
}

func newTestPaginator(v *fakeVendor, w *waitRecorder) *Paginator {
	return New(v, v, Config{PageSize: 50, PageDelay: 5 * time.Second}, nil).WithWait(w.wait)
}

func TestFetchAll_OneHundredTwentyMatches(t *testing.T) {
	v := &fakeVendor{total: 120}
	w := &waitRecorder{}

	records, err := newTestPaginator(v, w).FetchAll(context.Background(), inventory.Query{Model: "m3"})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 50, 100}, v.offsets)
	assert.Len(t, records, 120)
	assert.Equal(t, []time.Duration{5 * time.Second, 5 * time.Second}, w.calls, "delay precedes every page after the first")
}

func TestFetchAll_SinglePage(t *testing.T) {
	tests := []struct {
		name  string
		total int
	}{
		{"Empty", 0},
		{"Partial", 7},
		{"ExactlyOnePage", 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &fakeVendor{total: tt.total}
			w := &waitRecorder{}

			records, err := newTestPaginator(v, w).FetchAll(context.Background(), inventory.Query{})
			require.NoError(t, err)
			assert.Equal(t, []int{0}, v.offsets)
			assert.Len(t, records, tt.total)
			assert.Empty(t, w.calls)
		})
	}
}

func TestFetchAll_TransportErrorOnSecondPage(t *testing.T) {
	cause := errors.New("connection reset by peer")
	v := &fakeVendor{total: 120, failAt: map[int]error{50: cause}}

	records, err := newTestPaginator(v, &waitRecorder{}).FetchAll(context.Background(), inventory.Query{})

	assert.Nil(t, records, "no partial result on failure")
	var te *inventory.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 50, te.Offset)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, []int{0, 50}, v.offsets, "no page is requested after a failure")
}

func TestFetchAll_ParseError(t *testing.T) {
	v := &fakeVendor{total: 120, badParse: map[int]bool{100: true}}

	records, err := newTestPaginator(v, &waitRecorder{}).FetchAll(context.Background(), inventory.Query{})

	assert.Nil(t, records)
	var pe *inventory.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 100, pe.Offset)
}

func TestFetchAll_NegativeTotal(t *testing.T) {
	v := &fakeVendor{total: -1}

	_, err := newTestPaginator(v, &waitRecorder{}).FetchAll(context.Background(), inventory.Query{})

	var pe *inventory.ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestFetchAll_CancelledBetweenPages(t *testing.T) {
	v := &fakeVendor{total: 500}
	w := &waitRecorder{err: context.Canceled}

	records, err := newTestPaginator(v, w).FetchAll(context.Background(), inventory.Query{})

	assert.Nil(t, records)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []int{0}, v.offsets)
}

func TestFetchAll_HugeTotalAllocatesOnlyWhatArrived(t *testing.T) {
	v := &fakeVendor{total: 1 << 40}
	stop := errors.New("stop after first page")
	w := &waitRecorder{err: stop}

	records, err := newTestPaginator(v, w).FetchAll(context.Background(), inventory.Query{})

	assert.Nil(t, records)
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, []int{0}, v.offsets)
}

func TestFetchAll_CancelledBeforeStart(t *testing.T) {
	v := &fakeVendor{total: 10}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestPaginator(v, &waitRecorder{}).FetchAll(ctx, inventory.Query{})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, v.offsets)
}

func TestNew_DefaultPageSize(t *testing.T) {
	p := New(&fakeVendor{}, &fakeVendor{}, Config{}, nil)
	assert.Equal(t, DefaultPageSize, p.PageSize())
}

func TestPagesNeeded(t *testing.T) {
	assert.Equal(t, 0, PagesNeeded(0, 50))
	assert.Equal(t, 1, PagesNeeded(1, 50))
	assert.Equal(t, 1, PagesNeeded(50, 50))
	assert.Equal(t, 2, PagesNeeded(51, 50))
	assert.Equal(t, 3, PagesNeeded(120, 50))
	assert.Equal(t, 0, PagesNeeded(10, 0))
}

func TestFetchAll_PaginationCompleteness(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		total := rapid.IntRange(1, 2000).Draw(t, "total")
		v := &fakeVendor{total: total}

		records, err := newTestPaginator(v, &waitRecorder{}).FetchAll(context.Background(), inventory.Query{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := (total + 49) / 50
		if len(v.offsets) != want {
			t.Fatalf("total=%d: got %d requests, want %d", total, len(v.offsets), want)
		}
		for k, off := range v.offsets {
			if off != k*50 {
				t.Fatalf("request %d at offset %d, want %d", k, off, k*50)
			}
		}
		if len(records) != total {
			t.Fatalf("got %d records, want %d", len(records), total)
		}
	})
}

func TestSleep(t *testing.T) {
	t.Run("Elapses", func(t *testing.T) {
		assert.NoError(t, Sleep(context.Background(), time.Millisecond))
	})

	t.Run("Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
	})

	t.Run("ZeroDelay", func(t *testing.T) {
		assert.NoError(t, Sleep(context.Background(), 0))
	})
}
