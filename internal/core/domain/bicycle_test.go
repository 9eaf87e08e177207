package domain

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestParseColor(t *testing.T) {
	for _, c := range Colors() {
		got, err := ParseColor(c.String())
		if err != nil {
			t.Fatalf("ParseColor(%q) error: %v", c, err)
		}
		if got != c {
			t.Errorf("ParseColor(%q) = %q", c, got)
		}
	}

	for _, text := range []string{"", "blue", "BLUE", "Green", " Blue"} {
		if _, err := ParseColor(text); !errors.Is(err, ErrInvalidColor) {
			t.Errorf("ParseColor(%q) error = %v, want ErrInvalidColor", text, err)
		}
	}
}

func TestColors_ReturnsCopy(t *testing.T) {
	got := Colors()
	got[0] = "Pink"
	if Colors()[0] != Blue {
		t.Error("Colors() exposed its backing array")
	}
}

func TestNewBicycle(t *testing.T) {
	tests := []struct {
		name    string
		model   string
		color   string
		wantErr error
	}{
		{"valid", "Roadster", "Blue", nil},
		{"empty model", "", "Blue", ErrInvalidModel},
		{"blank model", "   ", "Blue", ErrInvalidModel},
		{"bad color", "Roadster", "Green", ErrInvalidColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bike, err := NewBicycle(7, tt.model, tt.color)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if bike.ID != 7 || bike.Model != tt.model || bike.Color != Blue {
				t.Errorf("NewBicycle() = %+v", bike)
			}
		})
	}
}

func TestBicycleJSON(t *testing.T) {
	data, err := json.Marshal(Bicycle{ID: 3, Model: "Roadster", Color: Gray})
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"id":3,"model":"Roadster","color":"Gray"}`; string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	var bike Bicycle
	err = json.Unmarshal([]byte(`{"model":"Roadster","color":"purple"}`), &bike)
	if !errors.Is(err, ErrInvalidColor) {
		t.Errorf("Unmarshal bad color error = %v, want ErrInvalidColor", err)
	}

	if _, err := json.Marshal(Bicycle{Model: "Roadster", Color: "Teal"}); !errors.Is(err, ErrInvalidColor) {
		t.Errorf("Marshal bad color error = %v, want ErrInvalidColor", err)
	}
}

func TestBicyclePatch_Apply(t *testing.T) {
	prev := Bicycle{ID: 1, Model: "Roadster", Color: Blue}
	model := "Tourer"
	color := Red

	tests := []struct {
		name  string
		patch BicyclePatch
		want  Bicycle
	}{
		{"empty", BicyclePatch{}, prev},
		{"model", BicyclePatch{Model: &model}, Bicycle{ID: 1, Model: "Tourer", Color: Blue}},
		{"color", BicyclePatch{Color: &color}, Bicycle{ID: 1, Model: "Roadster", Color: Red}},
		{"both", BicyclePatch{Model: &model, Color: &color}, Bicycle{ID: 1, Model: "Tourer", Color: Red}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.patch.Apply(prev); got != tt.want {
				t.Errorf("Apply() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRepositoryError(t *testing.T) {
	cause := io.ErrUnexpectedEOF
	err := NewRepositoryError("postgres.Get", ErrStorage, cause)

	if !errors.Is(err, ErrStorage) {
		t.Error("errors.Is(err, ErrStorage) = false")
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("cause is not reachable through Unwrap")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("storage error matched ErrNotFound")
	}
	if !strings.HasPrefix(err.Error(), "postgres.Get: storage error") {
		t.Errorf("Error() = %q", err.Error())
	}

	missing := NewRepositoryError("postgres.Update", ErrIDDoesNotExist, nil)
	if !errors.Is(missing, ErrNotFound) {
		t.Error("ErrIDDoesNotExist does not match ErrNotFound")
	}
	if missing.Error() != "postgres.Update: bicycle not found" {
		t.Errorf("Error() = %q", missing.Error())
	}
}
