package storage

import (
	"errors"
	"testing"
)

func TestNewMemoryStorageUsesDefaults(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage()

	got, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings returned error: %v", err)
	}
	if got != DefaultSettings() {
		t.Fatalf("expected default settings %+v, got %+v", DefaultSettings(), got)
	}
}

func TestSetSettings(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage()
	want := Settings{DefaultBins: 5, MaxItems: 500}

	if err := store.SetSettings(want); err != nil {
		t.Fatalf("SetSettings returned error: %v", err)
	}

	got, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings returned error: %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestSetSettingsValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		settings Settings
	}{
		{name: "ZeroBins", settings: Settings{DefaultBins: 0, MaxItems: 100}},
		{name: "TooManyBins", settings: Settings{DefaultBins: 65, MaxItems: 100}},
		{name: "ZeroMaxItems", settings: Settings{DefaultBins: 2, MaxItems: 0}},
		{name: "ExcessiveMaxItems", settings: Settings{DefaultBins: 2, MaxItems: 2_000_000}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			store := NewMemoryStorage()
			if err := store.SetSettings(tc.settings); !errors.Is(err, ErrInvalidSettings) {
				t.Fatalf("expected ErrInvalidSettings, got %v", err)
			}

			got, err := store.GetSettings()
			if err != nil {
				t.Fatalf("GetSettings returned error: %v", err)
			}
			if got != DefaultSettings() {
				t.Fatalf("rejected settings should not be stored, got %+v", got)
			}
		})
	}
}
