package model

import (
	"bytes"
	"path/filepath"
	"testing"
)

type snapshotPayload struct {
	Name    string
	Weights []float64
	Means   [][]float64
	Fitted  bool
}

func TestSaveLoadModel_File(t *testing.T) {
	original := snapshotPayload{
		Name:    "mixture",
		Weights: []float64{0.3, 0.7},
		Means:   [][]float64{{0, 0}, {6, 6}},
		Fitted:  true,
	}

	path := filepath.Join(t.TempDir(), "model.gob")
	if err := SaveModel(original, path); err != nil {
		t.Fatalf("SaveModel failed: %v", err)
	}

	var restored snapshotPayload
	if err := LoadModel(&restored, path); err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}

	if restored.Name != original.Name || !restored.Fitted {
		t.Errorf("scalar fields not restored: %+v", restored)
	}
	if len(restored.Weights) != 2 || restored.Weights[0] != 0.3 {
		t.Errorf("weights not restored: %v", restored.Weights)
	}
	if len(restored.Means) != 2 || restored.Means[1][0] != 6 {
		t.Errorf("means not restored: %v", restored.Means)
	}
}

func TestSaveLoadModel_WriterReader(t *testing.T) {
	original := snapshotPayload{Name: "stream", Weights: []float64{1}}

	var buf bytes.Buffer
	if err := SaveModelToWriter(original, &buf); err != nil {
		t.Fatalf("SaveModelToWriter failed: %v", err)
	}

	var restored snapshotPayload
	if err := LoadModelFromReader(&restored, &buf); err != nil {
		t.Fatalf("LoadModelFromReader failed: %v", err)
	}
	if restored.Name != "stream" {
		t.Errorf("Name = %v, want stream", restored.Name)
	}
}

func TestLoadModel_MissingFile(t *testing.T) {
	var restored snapshotPayload
	if err := LoadModel(&restored, filepath.Join(t.TempDir(), "missing.gob")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestStateManager(t *testing.T) {
	sm := NewStateManager()

	if sm.IsFitted() {
		t.Error("new StateManager must not be fitted")
	}
	if err := sm.RequireFitted(); err == nil {
		t.Error("RequireFitted must fail before fitting")
	}

	sm.SetDimensions(4, 100)
	sm.SetFitted()

	if !sm.IsFitted() {
		t.Error("SetFitted did not take effect")
	}
	if err := sm.RequireFitted(); err != nil {
		t.Errorf("RequireFitted failed after fitting: %v", err)
	}
	if f, n := sm.GetDimensions(); f != 4 || n != 100 {
		t.Errorf("GetDimensions() = (%d, %d), want (4, 100)", f, n)
	}

	sm.Reset()
	if sm.IsFitted() {
		t.Error("Reset did not clear the fitted flag")
	}
	if f, n := sm.GetDimensions(); f != 0 || n != 0 {
		t.Errorf("Reset did not clear dimensions: (%d, %d)", f, n)
	}
}
