package types

const TypeCourseTag = "courseTag"

// CourseTag holds a normalized lowercase tag name. At most one document exists
// per normalized name; tag ids are derived from the name so concurrent
// creations converge on the same document.
type CourseTag struct {
	ID          string `json:"_id,omitempty"`
	Type        string `json:"_type"`
	Name        string `json:"name"`
	Slug        Slug   `json:"slug"`
	Description string `json:"description,omitempty"`
}
