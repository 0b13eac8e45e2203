package geofence_usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "rollcall.io/application/appErrors"
	"rollcall.io/application/controller/dto"
	"rollcall.io/application/repository"
	"rollcall.io/application/utils"
	"rollcall.io/entities"
)

func TestCreateGeoFence(t *testing.T) {
	fences := repository.NewMemoryGeoFenceRepository()
	lat, lon := 6.5244, 3.3792
	hod := entities.Person{ID: "hod", Role: entities.RoleHOD}

	fence, err := CreateGeoFenceUseCase(context.Background(), fences, hod, &dto.CreateGeoFenceDTO{Name: "Library", Latitude: &lat, Longitude: &lon})
	require.NoError(t, err)
	assert.True(t, fence.Active)
	assert.Equal(t, entities.DefaultGeoFenceRadius, fence.Radius)

	_, err = CreateGeoFenceUseCase(context.Background(), fences, hod, &dto.CreateGeoFenceDTO{Name: "Annex", Latitude: &lat, Longitude: &lon, Radius: 50, Active: utils.GetBooleanPointer(false)})
	require.NoError(t, err)

	_, err = CreateGeoFenceUseCase(context.Background(), fences, entities.Person{Role: entities.RoleStudent}, &dto.CreateGeoFenceDTO{Name: "Dorm", Latitude: &lat, Longitude: &lon})
	assert.True(t, apperrors.HasReason(err, apperrors.Forbidden))

	all, err := ListGeoFencesUseCase(context.Background(), fences)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Annex", all[0].Name)
	assert.False(t, all[0].Active)
}
