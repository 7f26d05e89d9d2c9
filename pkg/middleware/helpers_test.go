package middleware

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/vango-dev/hive/pkg/observe"
	"github.com/vango-dev/hive/pkg/store"
)

var errBoom = errors.New("boom")

// testConfig has a counter, a failing setter, a panicking setter, a getter
// and an action that calls the setter through its bound methods.
func testConfig() store.Config {
	return store.Config{
		State: map[string]any{"count": 0},
		Getters: map[string]store.Getter{
			"count": func(state *observe.Object) any { return state.Get("count") },
		},
		Setters: map[string]store.Setter{
			"incr": func(state *observe.Object, _ any, _ store.Methods) (any, error) {
				n, _ := state.Get("count").(int)
				state.Set("count", n+1)
				return n + 1, nil
			},
			"fail": func(*observe.Object, any, store.Methods) (any, error) {
				return nil, errBoom
			},
			"explode": func(*observe.Object, any, store.Methods) (any, error) {
				panic("kaboom")
			},
		},
		Actions: map[string]store.Action{
			"bump": func(args store.ActionArgs, payload any) (any, error) {
				return args.Change("incr", payload)
			},
		},
	}
}

type patchCounter struct {
	patches int
}

func (p *patchCounter) ApplyPatch(map[string]any) {
	p.patches++
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	if m.Gauge == nil {
		t.Fatal("expected gauge metric to have Gauge field")
	}
	return m.GetGauge().GetValue()
}

func histogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}
