package biometric

import (
	"rollcall.io/infrastructure/biometric/types"
	"rollcall.io/infrastructure/env"
	"rollcall.io/infrastructure/logger"
)

// Service bundles liveness, encoding and matching over one backend.
type Service struct {
	Codec    *FaceCodec
	Liveness *LivenessEvaluator
	Matcher  FaceMatcher
	backend  types.Backend
}

var BiometricService *Service

func NewService(backend types.Backend, thresholds LivenessThresholds, tolerance float64) *Service {
	return &Service{
		Codec:    NewFaceCodec(backend),
		Liveness: &LivenessEvaluator{Detector: backend.FastDetector(), Thresholds: thresholds},
		Matcher:  FaceMatcher{Tolerance: tolerance},
		backend:  backend,
	}
}

// Wires BiometricService over backend using thresholds from the environment.
func InitialiseBiometricService(backend types.Backend) {
	tolerance := env.GetFloat("FACE_MATCH_TOLERANCE", backend.DefaultTolerance())
	BiometricService = NewService(backend, LoadLivenessThresholds(), tolerance)
	logger.Info("biometric service initialised", logger.LoggerOptions{
		Key:  "tolerance",
		Data: tolerance,
	}, logger.LoggerOptions{
		Key:  "thresholds",
		Data: BiometricService.Liveness.Thresholds,
	})
}

func (s *Service) CheckLiveness(frame *types.Frame) (*types.LivenessReport, error) {
	return s.Liveness.Evaluate(frame)
}

func (s *Service) Encode(frame *types.Frame) (types.Template, error) {
	return s.Codec.Encode(frame)
}

func (s *Service) Compare(enrolled types.Template, live types.Template) (*types.MatchResult, error) {
	return s.Matcher.Compare(enrolled, live)
}

func (s *Service) Close() error {
	if s.backend == nil {
		return nil
	}
	return s.backend.Close()
}
