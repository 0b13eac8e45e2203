package startup

import (
	"fmt"

	"rollcall.io/infrastructure/biometric"
	"rollcall.io/infrastructure/biometric/dlib"
	"rollcall.io/infrastructure/biometric/opencv"
	"rollcall.io/infrastructure/biometric/types"
	"rollcall.io/infrastructure/database"
	"rollcall.io/infrastructure/database/connection/datastore"
	"rollcall.io/infrastructure/env"
	fileupload "rollcall.io/infrastructure/file_upload"
	"rollcall.io/infrastructure/logger"
	messagequeue "rollcall.io/infrastructure/message_queue"
	"rollcall.io/infrastructure/messaging/emails"
)

// Used to start services such as loggers, databases, queues, etc.
func StartServices() {
	logger.InitializeLogger()
	database.SetUpDatabase()
	backend, err := faceBackend()
	if err != nil {
		logger.Error("could not load face backend", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		panic(err)
	}
	biometric.InitialiseBiometricService(backend)
	emails.InitialiseEmailService()
	fileupload.InitialiseFileUploader()
}

func faceBackend() (types.Backend, error) {
	switch name := env.GetString("FACE_BACKEND", "dlib"); name {
	case "dlib":
		return dlib.NewBackend(env.GetString("DLIB_MODELS_PATH", "models"))
	case "opencv":
		return opencv.NewBackend(opencv.Config{
			CascadeDir:   env.GetString("OPENCV_CASCADE_PATH", "models/haarcascades"),
			YuNetModel:   env.GetString("YUNET_MODEL_PATH", "models/face_detection_yunet_2023mar.onnx"),
			ArcFaceModel: env.GetString("ARCFACE_MODEL_PATH", "models/arcface.onnx"),
		})
	default:
		return nil, fmt.Errorf("unknown FACE_BACKEND %q", name)
	}
}

// Used to clean up after services that have been shutdown.
func CleanUpServices() {
	if err := messagequeue.TaskQueue.Close(); err != nil {
		logger.Error("could not close task queue", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
	}
	if biometric.BiometricService != nil {
		biometric.BiometricService.Close()
	}
	datastore.CleanUp()
	logger.Sync()
}
