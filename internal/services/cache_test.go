package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"npv-risk-web/internal/config"
	"npv-risk-web/internal/models"
)

func TestCache_SetGetExpire(t *testing.T) {
	c := NewCache[string, int](time.Minute)
	defer c.Stop()

	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %v, %v", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) should miss")
	}

	c.sweep(time.Now().Add(2 * time.Minute))
	if c.Len() != 0 {
		t.Errorf("Len() = %d after sweep, want 0", c.Len())
	}
}

func TestCache_ExpiredEntryMisses(t *testing.T) {
	c := NewCache[string, int](-time.Second)
	defer c.Stop()

	c.Set("a", 1)
	if _, ok := c.Get("a"); ok {
		t.Error("expired entry should miss")
	}
	c.Stop()
}

func TestAssessmentStore_InMemory(t *testing.T) {
	store := NewAssessmentStore(&config.Config{AssessmentTTL: time.Hour}, quietLogger())
	defer store.Close()

	if store.Persistent() {
		t.Fatal("store without project should be in-memory")
	}
	if err := store.Ready(context.Background()); err != nil {
		t.Errorf("Ready() = %v", err)
	}

	req := models.SimulationRequest{Duration: 5, NumSimulations: 100}
	saved, err := store.Save(context.Background(), req, models.SimulationResult{MeanNPV: 42})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if saved.ID == "" || saved.CreatedAt.IsZero() {
		t.Errorf("saved = %+v", saved)
	}

	got, err := store.Get(context.Background(), saved.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Result.MeanNPV != 42 || got.Request.Duration != 5 {
		t.Errorf("Get() = %+v", got)
	}

	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, ErrAssessmentNotFound) {
		t.Errorf("Get(nope) error = %v, want ErrAssessmentNotFound", err)
	}
}
