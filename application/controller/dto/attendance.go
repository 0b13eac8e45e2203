package dto

import "rollcall.io/application/services/geofence"

type MarkAttendanceDTO struct {
	SessionID string   `json:"sessionID" validate:"required,ulid"`
	Image     string   `json:"image" validate:"required"` // base64 or data URL
	Latitude  *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
}

// Coordinate is nil unless both axes were sent.
func (m MarkAttendanceDTO) Coordinate() *geofence.Coordinate {
	if m.Latitude == nil || m.Longitude == nil {
		return nil
	}
	return &geofence.Coordinate{Latitude: *m.Latitude, Longitude: *m.Longitude}
}

type MarkAttendanceResponse struct {
	RecordID     string   `json:"recordID"`
	SessionID    string   `json:"sessionID"`
	SessionName  string   `json:"sessionName"`
	FaceDistance *float64 `json:"faceDistance,omitempty"`
	MarkedAt     string   `json:"markedAt"`
}
