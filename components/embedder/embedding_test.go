package embedder

import (
	"errors"
	"testing"
)

func TestEmbeddingUUIDIsStable(t *testing.T) {
	a := Embedding{Object: "went to the gym", Meta: map[string]string{"date": "2024-07-28", "user_id": "u1"}}
	b := Embedding{Object: "went to the gym", Meta: map[string]string{"user_id": "u1", "date": "2024-07-28"}}
	if a.UUID() != b.UUID() {
		t.Errorf("expect same uuid for same content, got %s and %s", a.UUID(), b.UUID())
	}
	c := Embedding{Object: "went to the gym", Meta: map[string]string{"date": "2024-07-29", "user_id": "u1"}}
	if a.UUID() == c.UUID() {
		t.Error("expect different uuid for different metadata")
	}
}

func TestDotProduct(t *testing.T) {
	a := &Embedding{Embedding: []float64{1, 2, 3}}
	b := &Embedding{Embedding: []float64{4, 5, 6}}
	got, err := a.DotProduct(b)
	if err != nil {
		t.Fatal(err)
	}
	if got != 32 {
		t.Errorf("expect 32, but got %f", got)
	}
	if _, err := a.DotProduct(&Embedding{Embedding: []float64{1}}); !errors.Is(err, ErrVectorLengthMismatch) {
		t.Errorf("expect ErrVectorLengthMismatch, but got %v", err)
	}
}
