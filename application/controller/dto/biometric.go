package dto

type EnrollFaceDTO struct {
	Image string `json:"image" validate:"required"`
}

type EnrollFaceResponse struct {
	PersonID     string  `json:"personID"`
	Dimensions   int     `json:"dimensions"`
	FaceImageURL *string `json:"faceImageURL,omitempty"`
}
