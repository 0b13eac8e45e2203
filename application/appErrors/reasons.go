package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"rollcall.io/application/constants"
)

// Reason is the machine readable cause of a rejected attendance attempt.
type Reason string

const (
	LocationUnavailable Reason = "LocationUnavailable"
	OutsideFence        Reason = "OutsideFence"
	SessionNotActive    Reason = "SessionNotActive"
	NotEligible         Reason = "NotEligible"
	Forbidden           Reason = "Forbidden"
	NotFound            Reason = "NotFound"
	TooBlurry           Reason = "TooBlurry"
	NoFaceDetected      Reason = "NoFaceDetected"
	NoLandmarks         Reason = "NoLandmarks"
	MultipleFaces       Reason = "MultipleFaces"
	LowColorVariance    Reason = "LowColorVariance"
	ScreenMoirePattern  Reason = "ScreenMoirePattern"
	UnnaturalBrightness Reason = "UnnaturalBrightness"
	EncodingFailed      Reason = "EncodingFailed"
	TemplateMismatch    Reason = "TemplateMismatch"
	NoMatch             Reason = "NoMatch"
	AlreadyMarked       Reason = "AlreadyMarked"
	InvalidImage        Reason = "InvalidImage"
	Internal            Reason = "Internal"
)

var reasonMessages = map[Reason]string{
	LocationUnavailable: "Location is required to mark attendance.",
	OutsideFence:        "You are outside the allowed area for this session.",
	SessionNotActive:    "This session is not active.",
	NotEligible:         "You are not eligible for this session.",
	Forbidden:           "You are not allowed to perform this action.",
	NotFound:            "The requested resource was not found.",
	TooBlurry:           "The image is too blurry. Please hold the camera steady.",
	NoFaceDetected:      "No face detected. Please look at the camera.",
	NoLandmarks:         "Facial features could not be located. Please face the camera directly.",
	MultipleFaces:       "Multiple faces detected. Only one person should be in frame.",
	LowColorVariance:    "The image looks like a printed photo. Please use a live capture.",
	ScreenMoirePattern:  "The image looks like it was taken of a screen. Please use a live capture.",
	UnnaturalBrightness: "Lighting is too dark or too bright. Please adjust and retry.",
	EncodingFailed:      "Your face could not be processed. Please retry.",
	TemplateMismatch:    "No usable face enrollment found. Please enroll your face first.",
	NoMatch:             "Face does not match the enrolled face.",
	AlreadyMarked:       "Attendance already marked for this session.",
	InvalidImage:        "The image could not be read.",
	Internal:            "Something went wrong while marking attendance. Please retry.",
}

func (r Reason) Message() string {
	if msg, ok := reasonMessages[r]; ok {
		return msg
	}
	return string(r)
}

// HTTPStatus maps a reason to the status controllers respond with.
func (r Reason) HTTPStatus() int {
	switch r {
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case AlreadyMarked:
		return http.StatusConflict
	case NoMatch, TemplateMismatch:
		return http.StatusUnauthorized
	case Internal:
		return http.StatusInternalServerError
	case InvalidImage:
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}

// ResponseCode tells clients which screen to show. Nil when the message is
// enough.
func (r Reason) ResponseCode() *uint {
	switch r {
	case TemplateMismatch:
		return &constants.ENROLLMENT_REQUIRED
	case LocationUnavailable:
		return &constants.LOCATION_PERMISSION_REQUIRED
	case TooBlurry, NoFaceDetected, NoLandmarks, MultipleFaces, LowColorVariance, ScreenMoirePattern, UnnaturalBrightness, InvalidImage:
		return &constants.RECAPTURE_FACE
	default:
		return nil
	}
}

// Failure is the error every pipeline component returns on rejection.
// Measurement carries the offending metric when there is one (distance,
// variance, brightness).
type Failure struct {
	Reason      Reason
	Detail      string
	Measurement *float64
}

func (f *Failure) Error() string {
	if f.Detail == "" {
		return string(f.Reason)
	}
	return fmt.Sprintf("%s: %s", f.Reason, f.Detail)
}

func NewFailure(reason Reason, detail string) *Failure {
	return &Failure{Reason: reason, Detail: detail}
}

func NewMeasuredFailure(reason Reason, measurement float64, format string, args ...any) *Failure {
	return &Failure{Reason: reason, Detail: fmt.Sprintf(format, args...), Measurement: &measurement}
}

// AsFailure unwraps err into a *Failure. Anything else becomes Internal.
func AsFailure(err error) *Failure {
	if err == nil {
		return nil
	}
	var failure *Failure
	if errors.As(err, &failure) {
		return failure
	}
	return &Failure{Reason: Internal, Detail: err.Error()}
}

// HasReason reports whether err is a *Failure carrying reason.
func HasReason(err error, reason Reason) bool {
	var failure *Failure
	return errors.As(err, &failure) && failure.Reason == reason
}
