package models

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

const DefaultCategoryColor = "#6b7280"

// Category groups transactions. A nil UserID marks a global category that
// every user can see; only admins may change those.
type Category struct {
	ID        int             `json:"id" db:"id"`
	UserID    *int            `json:"user_id" db:"user_id"`
	Name      string          `json:"name" db:"name"`
	Type      TransactionType `json:"type" db:"type"`
	Color     string          `json:"color" db:"color"`
	Icon      string          `json:"icon" db:"icon"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

func (c *Category) Global() bool { return c.UserID == nil }

type CategoryInput struct {
	Name   *string          `json:"name"`
	Type   *TransactionType `json:"type"`
	Color  *string          `json:"color"`
	Icon   *string          `json:"icon"`
	Global *bool            `json:"global"`
}

func (in *CategoryInput) validateFields() error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return required("name")
		}
		if utf8.RuneCountInString(name) > 100 {
			return invalid("name", "must be at most 100 characters")
		}
	}
	if in.Type != nil && !in.Type.Valid() {
		return invalid("type", "must be income or expense")
	}
	if in.Color != nil && *in.Color != "" && !colorPattern.MatchString(*in.Color) {
		return invalid("color", "must be a hex color like #1a2b3c")
	}
	if in.Icon != nil && utf8.RuneCountInString(*in.Icon) > 50 {
		return invalid("icon", "must be at most 50 characters")
	}
	return nil
}

func (in *CategoryInput) ValidateCreate() error {
	if in.Name == nil {
		return required("name")
	}
	if in.Type == nil {
		return required("type")
	}
	return in.validateFields()
}

func (in *CategoryInput) ValidateUpdate() error {
	if in.Global != nil {
		return invalid("global", "cannot be changed after creation")
	}
	return in.validateFields()
}

func (in *CategoryInput) NewCategory(owner *int) Category {
	c := Category{UserID: owner, Color: DefaultCategoryColor}
	in.Apply(&c)
	return c
}

func (in *CategoryInput) Apply(c *Category) {
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Type != nil {
		c.Type = *in.Type
	}
	if in.Color != nil && *in.Color != "" {
		c.Color = strings.ToLower(*in.Color)
	}
	if in.Icon != nil {
		c.Icon = strings.TrimSpace(*in.Icon)
	}
}
