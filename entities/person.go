package entities

import (
	"time"

	"rollcall.io/application/utils"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleHOD       Role = "hod"
	RoleFaculty   Role = "faculty"
	RolePrincipal Role = "principal"
	RoleStudent   Role = "student"
)

var Roles = []Role{RoleAdmin, RoleHOD, RoleFaculty, RolePrincipal, RoleStudent}

func (r Role) Valid() bool {
	for _, role := range Roles {
		if role == r {
			return true
		}
	}
	return false
}

type Level string

const (
	LevelUG Level = "UG"
	LevelPG Level = "PG"
)

// A person who can convene sessions or have their attendance recorded.
type Person struct {
	RollNumber   string    `bson:"rollNumber" json:"rollNumber"`
	Email        string    `bson:"email" json:"email"`
	FirstName    string    `bson:"firstName" json:"firstName"`
	LastName     string    `bson:"lastName" json:"lastName"`
	Role         Role      `bson:"role" json:"role"`
	Level        *Level    `bson:"level" json:"level,omitempty"`
	Year         *string   `bson:"year" json:"year,omitempty"`
	Department   *string   `bson:"department" json:"department,omitempty"`
	FaceTemplate []float64 `bson:"faceTemplate" json:"-"`
	FaceImageURL *string   `bson:"faceImageURL" json:"faceImageURL,omitempty"`
	Active       bool      `bson:"active" json:"active"`

	ID            string     `bson:"_id" json:"id"`
	CreatedAt     time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt     *time.Time `bson:"deletedAt" json:"deletedAt"`
	DeletedReason *string    `bson:"deletedReason" json:"deletedReason"`
}

func (model Person) FullName() string {
	if model.LastName == "" {
		return model.FirstName
	}
	return model.FirstName + " " + model.LastName
}

func (model Person) Enrolled() bool {
	return len(model.FaceTemplate) > 0
}

func (model Person) ParseModel() any {
	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
		if model.ID == "" {
			model.ID = utils.GenerateUULDString()
		}
	}
	model.UpdatedAt = now
	return &model
}
