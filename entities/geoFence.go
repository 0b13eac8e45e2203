package entities

import (
	"time"

	"rollcall.io/application/utils"
)

const DefaultGeoFenceRadius float64 = 300

// A circular region, radius in meters.
type GeoFence struct {
	Name      string  `bson:"name" json:"name"`
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
	Radius    float64 `bson:"radius" json:"radius"`
	Active    bool    `bson:"active" json:"active"`

	ID            string     `bson:"_id" json:"id"`
	CreatedAt     time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt     *time.Time `bson:"deletedAt" json:"deletedAt"`
	DeletedReason *string    `bson:"deletedReason" json:"deletedReason"`
}

func (model GeoFence) ParseModel() any {
	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
		if model.ID == "" {
			model.ID = utils.GenerateUULDString()
		}
	}
	if model.Radius <= 0 {
		model.Radius = DefaultGeoFenceRadius
	}
	model.UpdatedAt = now
	return &model
}
