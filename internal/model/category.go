package model

// Category groups products. Categories are never deleted.
type Category struct {
	BaseModel
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
}

type CategoryView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func (c *Category) ToView() CategoryView {
	return CategoryView{ID: c.ID, Name: c.Name}
}

// CategoryInput is the create/rename payload for categories
type CategoryInput struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}
