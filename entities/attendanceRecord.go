package entities

import (
	"time"

	"rollcall.io/application/utils"
)

type VerificationMethod string

const (
	VerificationFace   VerificationMethod = "face"
	VerificationManual VerificationMethod = "manual"
)

type CaptureDevice struct {
	Name      string `bson:"name" json:"name"`
	OS        string `bson:"os" json:"os"`
	OSVersion string `bson:"osVersion" json:"osVersion"`
	Device    string `bson:"device" json:"device"`
}

// One per (PersonID, SessionID). Timestamp is server time at commit.
type AttendanceRecord struct {
	PersonID           string             `bson:"personID" json:"personID"`
	SessionID          string             `bson:"sessionID" json:"sessionID"`
	Timestamp          time.Time          `bson:"timestamp" json:"timestamp"`
	Latitude           *float64           `bson:"latitude" json:"latitude,omitempty"`
	Longitude          *float64           `bson:"longitude" json:"longitude,omitempty"`
	VerificationMethod VerificationMethod `bson:"verificationMethod" json:"verificationMethod"`
	FaceDistance       *float64           `bson:"faceDistance" json:"faceDistance,omitempty"`
	Device             *CaptureDevice     `bson:"device" json:"device,omitempty"`

	ID            string     `bson:"_id" json:"id"`
	CreatedAt     time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt     *time.Time `bson:"deletedAt" json:"deletedAt"`
	DeletedReason *string    `bson:"deletedReason" json:"deletedReason"`
}

func (model AttendanceRecord) ParseModel() any {
	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
		if model.ID == "" {
			model.ID = utils.GenerateUULDString()
		}
	}
	if model.VerificationMethod == "" {
		model.VerificationMethod = VerificationFace
	}
	model.UpdatedAt = now
	return &model
}
