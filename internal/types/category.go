package types

const (
	TypeCategory    = "category"
	TypeSubCategory = "subCategory"
)

type Category struct {
	ID          string `json:"_id,omitempty"`
	Type        string `json:"_type"`
	Name        string `json:"name"`
	Slug        Slug   `json:"slug"`
	Description string `json:"description,omitempty"`
}

type SubCategory struct {
	ID          string    `json:"_id,omitempty"`
	Type        string    `json:"_type"`
	Name        string    `json:"name"`
	Slug        Slug      `json:"slug"`
	Category    Reference `json:"category"`
	Description string    `json:"description,omitempty"`
}
