package model

// SortOrder is the listing order carried in the `sort` query parameter.
type SortOrder string

const (
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"

	DefaultSortOrder = SortAscending
)

// ParseSortOrder resolves a raw query value. Anything other than the two
// known values, including an empty string, yields the default.
func ParseSortOrder(raw string) SortOrder {
	switch SortOrder(raw) {
	case SortAscending, SortDescending:
		return SortOrder(raw)
	default:
		return DefaultSortOrder
	}
}

func (s SortOrder) Toggle() SortOrder {
	if s == SortDescending {
		return SortAscending
	}
	return SortDescending
}

// LabelID returns the message id of the toggle label.
func (s SortOrder) LabelID() string {
	if s == SortDescending {
		return "SortDescending"
	}
	return "SortAscending"
}

func (s SortOrder) String() string {
	return string(s)
}
