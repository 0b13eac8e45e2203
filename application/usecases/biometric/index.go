package biometric_usecase

import (
	"context"
	"errors"
	"fmt"

	apperrors "rollcall.io/application/appErrors"
	"rollcall.io/application/repository"
	"rollcall.io/entities"
	"rollcall.io/infrastructure/biometric"
	"rollcall.io/infrastructure/biometric/types"
	fileupload "rollcall.io/infrastructure/file_upload"
	file_upload_types "rollcall.io/infrastructure/file_upload/types"
	"rollcall.io/infrastructure/logger"
)

type FaceEncoder interface {
	Encode(frame *types.Frame) (types.Template, error)
}

type Enroller struct {
	Persons  repository.PersonRepository
	Encoder  FaceEncoder
	Uploader file_upload_types.FileUploaderType
}

func NewEnroller() *Enroller {
	return &Enroller{
		Persons:  repository.PersonRepo(),
		Encoder:  biometric.BiometricService,
		Uploader: fileupload.FileUploader,
	}
}

func snapshotName(personID string) string {
	return fmt.Sprintf("faces/%s.jpg", personID)
}

// EnrollFace replaces the person's template with one encoded from frame. The
// snapshot upload is best effort and never fails enrollment.
func (e *Enroller) EnrollFace(ctx context.Context, personID string, frame *types.Frame) (*entities.Person, error) {
	if _, err := e.findPerson(ctx, personID); err != nil {
		return nil, err
	}
	if frame == nil {
		return nil, apperrors.NewFailure(apperrors.InvalidImage, "no capture provided")
	}
	template, err := e.Encoder.Encode(frame)
	if err != nil {
		return nil, err
	}
	person, err := e.Persons.UpdateFaceTemplate(ctx, personID, template, e.uploadSnapshot(ctx, personID, frame))
	if err != nil {
		return nil, err
	}
	logger.Info("face enrolled", logger.LoggerOptions{
		Key:  "personID",
		Data: personID,
	}, logger.LoggerOptions{
		Key:  "dimensions",
		Data: len(template),
	})
	return person, nil
}

func (e *Enroller) DeleteFace(ctx context.Context, personID string) (*entities.Person, error) {
	existing, err := e.findPerson(ctx, personID)
	if err != nil {
		return nil, err
	}
	person, err := e.Persons.UpdateFaceTemplate(ctx, personID, nil, nil)
	if err != nil {
		return nil, err
	}
	if existing.FaceImageURL != nil && e.Uploader != nil {
		if err := e.Uploader.DeleteFile(ctx, snapshotName(personID)); err != nil {
			logger.Error("could not delete enrollment snapshot", logger.LoggerOptions{
				Key:  "error",
				Data: err,
			}, logger.LoggerOptions{
				Key:  "personID",
				Data: personID,
			})
		}
	}
	logger.Info("face enrollment removed", logger.LoggerOptions{
		Key:  "personID",
		Data: personID,
	})
	return person, nil
}

func (e *Enroller) findPerson(ctx context.Context, personID string) (*entities.Person, error) {
	person, err := e.Persons.FindByID(ctx, personID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewFailure(apperrors.NotFound, "person does not exist")
		}
		return nil, err
	}
	return person, nil
}

func (e *Enroller) uploadSnapshot(ctx context.Context, personID string, frame *types.Frame) *string {
	if e.Uploader == nil {
		return nil
	}
	data, err := frame.JPEG()
	if err != nil {
		logger.Error("could not encode enrollment snapshot", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return nil
	}
	location, err := e.Uploader.UploadFile(ctx, snapshotName(personID), data, "image/jpeg")
	if err != nil {
		return nil
	}
	return location
}
