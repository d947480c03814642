package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/tianjianchn/stas/state"
	"github.com/tianjianchn/stas/store"
)

func newTestStore(t *testing.T) (*store.Store, *Metrics) {
	t.Helper()
	m := New(prometheus.NewRegistry())
	s, err := store.New(map[string]any{"n": 0}, store.WithObserver(m))
	if err != nil {
		t.Fatal(err)
	}
	return s, m
}

func TestMetricsResults(t *testing.T) {
	s, m := newTestStore(t)

	if err := s.Mutate(func(root *state.Node) error {
		_, err := root.Set("n", 1)
		return err
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.Mutate(func(*state.Node) error { return nil }); err != nil {
		t.Fatal(err)
	}
	boom := errors.New("boom")
	if err := s.Mutate(func(*state.Node) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("got %v", err)
	}
	func() {
		defer func() { recover() }()
		s.Mutate(func(*state.Node) error { panic("boom") })
	}()

	want := map[string]float64{
		ResultCommitted:  1,
		ResultUnchanged:  1,
		ResultRolledBack: 2,
	}
	for result, n := range want {
		if got := testutil.ToFloat64(m.TransactionsTotal.WithLabelValues(result)); got != n {
			t.Errorf("transactions_total{result=%q} = %v, want %v", result, got, n)
		}
	}
	if got := testutil.ToFloat64(m.PanicsTotal); got != 1 {
		t.Errorf("panics_total = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.TransactionDurationSeconds); got != 3 {
		t.Errorf("duration series = %d, want 3", got)
	}
}

func TestMetricsLastCommitted(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.Committed(42, 0)
	if got := testutil.ToFloat64(m.LastCommittedTx); got != 42 {
		t.Errorf("last_committed_tx = %v, want 42", got)
	}
}

func TestMetricsRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.Unchanged(1, 0)
	n, err := testutil.GatherAndCount(reg, "stas_store_transactions_total")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("got %d series, want 1", n)
	}
}
