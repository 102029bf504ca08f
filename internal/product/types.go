package product

import "time"

// Product represents a catalogue entry. OwnerID is set at creation and
// never changes afterwards, including across admin edits. CreatorName is
// joined in from the owning user on reads; it is never stored.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	OwnerID     string    `json:"owner_id"`
	CreatorName string    `json:"creator_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Update is a partial-update patch. Nil fields are left untouched;
// OwnerID is deliberately absent because ownership never transfers.
type Update struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (u Update) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil && u.Stock == nil
}

// ListFilter controls catalogue listings. Search matches name and
// description case-insensitively; Page is 1-based.
type ListFilter struct {
	Search string
	Page   int
	Limit  int
}

// Pagination defaults and caps.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// normalize clamps the filter to sane bounds.
func (f ListFilter) normalize() ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	return f
}

// Page is one page of catalogue results plus the totals clients need to
// build pagination controls.
type Page struct {
	Products   []Product `json:"products"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"total_pages"`
}
