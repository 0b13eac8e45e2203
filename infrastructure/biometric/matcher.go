package biometric

import (
	"math"

	"gonum.org/v1/gonum/floats"
	apperrors "rollcall.io/application/appErrors"
	"rollcall.io/infrastructure/biometric/types"
)

const DefaultMatchTolerance = 0.4

type FaceMatcher struct {
	Tolerance float64
}

// Compare accepts only when the euclidean distance is within tolerance.
// Similarity is the cosine similarity, reported for diagnostics only.
func (fm FaceMatcher) Compare(enrolled types.Template, live types.Template) (*types.MatchResult, error) {
	if len(enrolled) == 0 || len(live) == 0 {
		return nil, apperrors.NewFailure(apperrors.TemplateMismatch, "template missing")
	}
	if len(enrolled) != len(live) {
		return nil, apperrors.NewFailure(apperrors.TemplateMismatch, "template dimensions differ")
	}
	tolerance := fm.Tolerance
	if tolerance <= 0 {
		tolerance = DefaultMatchTolerance
	}

	distance := floats.Distance(enrolled, live, 2)
	similarity := 0.0
	if norm := floats.Norm(enrolled, 2) * floats.Norm(live, 2); norm > 0 {
		similarity = floats.Dot(enrolled, live) / norm
	}
	if math.IsNaN(distance) {
		return nil, apperrors.NewFailure(apperrors.TemplateMismatch, "template contains invalid values")
	}
	return &types.MatchResult{
		IsMatch:    distance <= tolerance,
		Distance:   distance,
		Similarity: similarity,
	}, nil
}
