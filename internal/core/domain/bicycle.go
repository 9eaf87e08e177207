package domain

import (
	"fmt"
	"strings"
)

// swagger:model domain.Bicycle
type Bicycle struct {
	ID    int64  `json:"id"`
	Model string `json:"model" validate:"required,max=255"`
	Color Color  `json:"color" validate:"bicycle_color"`
}

type Color string

const (
	Blue  Color = "Blue"
	Red   Color = "Red"
	White Color = "White"
	Black Color = "Black"
	Gray  Color = "Gray"
)

var colors = []Color{Blue, Red, White, Black, Gray}

// Colors returns every valid color in declaration order.
func Colors() []Color {
	out := make([]Color, len(colors))
	copy(out, colors)
	return out
}

// ParseColor matches text against the color names exactly, case included.
func ParseColor(text string) (Color, error) {
	for _, c := range colors {
		if string(c) == text {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidColor, text)
}

func (c Color) String() string {
	return string(c)
}

func (c Color) Valid() bool {
	_, err := ParseColor(string(c))
	return err == nil
}

func (c Color) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidColor, string(c))
	}
	return []byte(c), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// NewBicycle builds a Bicycle from raw fields.
func NewBicycle(id int64, model, color string) (Bicycle, error) {
	if strings.TrimSpace(model) == "" {
		return Bicycle{}, ErrInvalidModel
	}
	c, err := ParseColor(color)
	if err != nil {
		return Bicycle{}, err
	}
	return Bicycle{ID: id, Model: model, Color: c}, nil
}

// TransformFunc computes the next value of a record from its current value,
// or from nil when the record does not exist yet. It must not have side
// effects: it runs inside a store transaction and is called exactly once.
type TransformFunc func(prev *Bicycle) (Bicycle, error)

// BicyclePatch carries the fields of a partial update; nil fields keep
// their current value.
type BicyclePatch struct {
	Model *string `json:"model,omitempty" validate:"omitempty,min=1,max=255"`
	Color *Color  `json:"color,omitempty" validate:"omitempty,bicycle_color"`
}

// Apply returns prev with the patch fields written over it.
func (p BicyclePatch) Apply(prev Bicycle) Bicycle {
	next := prev
	if p.Model != nil {
		next.Model = *p.Model
	}
	if p.Color != nil {
		next.Color = *p.Color
	}
	return next
}
