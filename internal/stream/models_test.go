package stream

import "testing"

func TestAvailableModels(t *testing.T) {
	t.Run("empty filter yields full catalog", func(t *testing.T) {
		got := AvailableModels(nil)
		if len(got) != len(AllModels) {
			t.Errorf("got %d models, want %d", len(got), len(AllModels))
		}
	})

	t.Run("filter restricts catalog", func(t *testing.T) {
		got := AvailableModels([]string{"o3-2025-04-16", "gpt-4o-2024-08-06"})
		if len(got) != 2 {
			t.Errorf("got %v", got)
		}
	})

	t.Run("unknown names dropped", func(t *testing.T) {
		got := AvailableModels([]string{"o3-2025-04-16", "made-up-model"})
		if len(got) != 1 || got[0] != "o3-2025-04-16" {
			t.Errorf("got %v", got)
		}
	})

	t.Run("fully invalid filter falls back to catalog", func(t *testing.T) {
		got := AvailableModels([]string{"made-up-model"})
		if len(got) != len(AllModels) {
			t.Errorf("got %d models, want full catalog", len(got))
		}
	})
}

func TestDefaultModel(t *testing.T) {
	if got := DefaultModel(nil); got != "gpt-4.1-2025-04-14" {
		t.Errorf("DefaultModel(nil) = %q, want the highest-priority model", got)
	}

	got := DefaultModel([]string{"gpt-3.5-turbo-0125", "o4-mini-2025-04-16"})
	if got != "o4-mini-2025-04-16" {
		t.Errorf("DefaultModel(filtered) = %q, want the best of the filter", got)
	}
}

func TestBestAvailableModel(t *testing.T) {
	if got := BestAvailableModel("o3-2025-04-16", nil); got != "o3-2025-04-16" {
		t.Errorf("available preference ignored: %q", got)
	}

	got := BestAvailableModel("o3-2025-04-16", []string{"gpt-3.5-turbo-0125"})
	if got != "gpt-3.5-turbo-0125" {
		t.Errorf("unavailable preference should fall back to default, got %q", got)
	}
}

func TestValidModel(t *testing.T) {
	if !ValidModel("gpt-4o-2024-08-06", nil) {
		t.Error("catalog model should be valid")
	}
	if ValidModel("made-up-model", nil) {
		t.Error("unknown model should be invalid")
	}
	if ValidModel("gpt-4o-2024-08-06", []string{"o3-2025-04-16"}) {
		t.Error("model outside the filter should be invalid")
	}
}
