package dto

type CreateGeoFenceDTO struct {
	Name      string   `json:"name" validate:"required,min=2,max=120"`
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
	Radius    float64  `json:"radius" validate:"gte=0,lte=50000"` // meters, 0 means the default
	Active    *bool    `json:"active"`
}
