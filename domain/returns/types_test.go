package returns

import (
	"errors"
	"testing"

	"sharpestat/domain/core"
)

func TestPanelAdd(t *testing.T) {
	p := NewPanel()

	if err := p.Add("a", Series{0.01, -0.02, 0.03}); err != nil {
		t.Fatalf("add a: %v", err)
	}
	if err := p.Add("b", Series{0.02, 0.01, -0.01}); err != nil {
		t.Fatalf("add b: %v", err)
	}

	if p.NumStrategies() != 2 {
		t.Fatalf("expected 2 strategies, got %d", p.NumStrategies())
	}
	if p.Length() != 3 {
		t.Fatalf("expected length 3, got %d", p.Length())
	}

	keys := p.Strategies()
	if keys[0] != "a" || keys[1] != "b" {
		t.Fatalf("expected insertion order [a b], got %v", keys)
	}

	if _, ok := p.Series("a"); !ok {
		t.Fatal("expected series for a")
	}
	if _, ok := p.Series("missing"); ok {
		t.Fatal("unexpected series for unknown strategy")
	}
}

func TestPanelAdd_Duplicate(t *testing.T) {
	p := NewPanel()
	if err := p.Add("a", Series{0.01, 0.02}); err != nil {
		t.Fatalf("add a: %v", err)
	}

	if err := p.Add("a", Series{0.03, 0.04}); !errors.Is(err, core.ErrDuplicateStrategy) {
		t.Fatalf("expected ErrDuplicateStrategy, got %v", err)
	}
}

func TestPanelAdd_TooShort(t *testing.T) {
	p := NewPanel()

	for _, s := range []Series{nil, {}, {0.01}} {
		if err := p.Add("a", s); !errors.Is(err, core.ErrSeriesTooShort) {
			t.Fatalf("expected ErrSeriesTooShort for length %d, got %v", len(s), err)
		}
	}
}

func TestPanelAdd_Ragged(t *testing.T) {
	p := NewPanel()
	if err := p.Add("a", Series{0.01, 0.02, 0.03}); err != nil {
		t.Fatalf("add a: %v", err)
	}

	err := p.Add("b", Series{0.01, 0.02})
	if !errors.Is(err, core.ErrRaggedPanel) {
		t.Fatalf("expected ErrRaggedPanel, got %v", err)
	}
}

func TestPanelAdd_DefensiveCopy(t *testing.T) {
	p := NewPanel()

	src := Series{0.01, 0.02}
	if err := p.Add("a", src); err != nil {
		t.Fatalf("add a: %v", err)
	}

	src[0] = 99
	got, _ := p.Series("a")
	if got[0] != 0.01 {
		t.Fatalf("panel must own its series; mutation leaked: %v", got)
	}
}

func TestPanelValidate_Empty(t *testing.T) {
	if err := NewPanel().Validate(); !errors.Is(err, core.ErrEmptyPanel) {
		t.Fatalf("expected ErrEmptyPanel, got %v", err)
	}
}

func TestSeriesIsAllZero(t *testing.T) {
	if !(Series{0, 0, 0}).IsAllZero() {
		t.Fatal("expected all-zero")
	}
	if (Series{0, 1e-12, 0}).IsAllZero() {
		t.Fatal("expected non-zero")
	}
	if !(Series{}).IsAllZero() {
		t.Fatal("empty series is vacuously all-zero")
	}
}
