package biometric_usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "rollcall.io/application/appErrors"
	"rollcall.io/application/repository"
	"rollcall.io/entities"
	"rollcall.io/infrastructure/biometric"
	"rollcall.io/infrastructure/biometric/biometrictest"
	"rollcall.io/infrastructure/biometric/types"
)

type memoryUploader struct {
	mu      sync.Mutex
	files   map[string][]byte
	failing bool
}

func (u *memoryUploader) UploadFile(ctx context.Context, fileName string, data []byte, contentType string) (*string, error) {
	if u.failing {
		return nil, errors.New("storage unavailable")
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.files[fileName] = data
	location := "blob://" + fileName
	return &location, nil
}

func (u *memoryUploader) GenerateDownloadURL(fileName string) (*string, error) {
	location := "blob://" + fileName
	return &location, nil
}

func (u *memoryUploader) DeleteFile(ctx context.Context, fileName string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.files, fileName)
	return nil
}

func newEnroller(t *testing.T, detector *biometrictest.FakeDetector) (*Enroller, *entities.Person, *memoryUploader) {
	t.Helper()
	persons := repository.NewMemoryPersonRepository()
	person, err := persons.Create(context.Background(), entities.Person{Email: "ada@rollcall.io", RollNumber: "CS-001", Role: entities.RoleStudent, Active: true})
	require.NoError(t, err)
	backend := &biometrictest.FakeBackend{
		Fast:  detector,
		Slow:  &biometrictest.FakeDetector{},
		Embed: &biometrictest.FakeEmbedder{Template: types.Template{0.1, 0.2, 0.3}},
	}
	uploader := &memoryUploader{files: map[string][]byte{}}
	return &Enroller{
		Persons:  persons,
		Encoder:  biometric.NewFaceCodec(backend),
		Uploader: uploader,
	}, person, uploader
}

func TestEnrollAndDeleteFace(t *testing.T) {
	enroller, person, uploader := newEnroller(t, &biometrictest.FakeDetector{Regions: biometrictest.OneFace()})

	enrolled, err := enroller.EnrollFace(context.Background(), person.ID, biometrictest.LiveLikeFrame())
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, enrolled.FaceTemplate)
	require.NotNil(t, enrolled.FaceImageURL)
	assert.Contains(t, uploader.files, snapshotName(person.ID))

	cleared, err := enroller.DeleteFace(context.Background(), person.ID)
	require.NoError(t, err)
	assert.False(t, cleared.Enrolled())
	assert.Nil(t, cleared.FaceImageURL)
	assert.Empty(t, uploader.files)
}

func TestEnrollFaceFailures(t *testing.T) {
	enroller, person, uploader := newEnroller(t, &biometrictest.FakeDetector{})

	_, err := enroller.EnrollFace(context.Background(), person.ID, biometrictest.LiveLikeFrame())
	assert.True(t, apperrors.HasReason(err, apperrors.NoFaceDetected))

	_, err = enroller.EnrollFace(context.Background(), "missing", biometrictest.LiveLikeFrame())
	assert.True(t, apperrors.HasReason(err, apperrors.NotFound))

	_, err = enroller.EnrollFace(context.Background(), person.ID, nil)
	assert.True(t, apperrors.HasReason(err, apperrors.InvalidImage))
	assert.Empty(t, uploader.files)
}

func TestEnrollSurvivesUploadFailure(t *testing.T) {
	enroller, person, uploader := newEnroller(t, &biometrictest.FakeDetector{Regions: biometrictest.OneFace()})
	uploader.failing = true

	enrolled, err := enroller.EnrollFace(context.Background(), person.ID, biometrictest.LiveLikeFrame())
	require.NoError(t, err)
	assert.True(t, enrolled.Enrolled())
	assert.Nil(t, enrolled.FaceImageURL)
}
