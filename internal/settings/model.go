package settings

import "time"

const (
	LocalePtBR = "pt-BR"
	LocaleEnUS = "en-US"

	FilterAll       = "all"
	FilterPending   = "pending"
	FilterCompleted = "completed"
)

// Settings are per-user UI preferences.
type Settings struct {
	UserID     string    `json:"-"`
	Locale     string    `json:"locale"`
	TaskFilter string    `json:"taskFilter"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Locale     *string `json:"locale"`
	TaskFilter *string `json:"taskFilter"`
}

func validLocale(v string) bool {
	return v == LocalePtBR || v == LocaleEnUS
}

func validFilter(v string) bool {
	return v == FilterAll || v == FilterPending || v == FilterCompleted
}
