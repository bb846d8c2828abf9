package model

// Service is a catalog item. Duration is the sole input the availability
// checker needs to compute an appointment's end instant.
type Service struct {
	Base
	Name        string  `db:"name" json:"name"`
	Description string  `db:"description" json:"description"`
	Duration    int     `db:"duration" json:"duration"` // in minutes
	Price       float64 `db:"price" json:"price"`
	Hidden      bool    `db:"hidden" json:"hidden"`
}

type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required,max=200"`
	Description string  `json:"description" binding:"max=1000"`
	Duration    int     `json:"duration" binding:"required,gt=0"`
	Price       float64 `json:"price" binding:"required,gt=0"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Duration    *int     `json:"duration" binding:"omitempty,gt=0"`
	Price       *float64 `json:"price" binding:"omitempty,gt=0"`
}
