package domain

// Column is a pipeline stage of a board.
type Column struct {
	ID          string `json:"id" yaml:"id" validate:"required,max=64,stage_id"`
	Title       string `json:"title" yaml:"title" validate:"required,max=120"`
	Color       string `json:"color,omitempty" yaml:"color"`
	Icon        string `json:"icon,omitempty" yaml:"icon"`
	Order       int    `json:"order" yaml:"order" validate:"gte=0"`
	Description string `json:"description,omitempty" yaml:"description"`
}

// BoundColumn is a column together with the tasks currently placed in it.
type BoundColumn struct {
	Column
	Tasks []Task `json:"tasks"`
}
