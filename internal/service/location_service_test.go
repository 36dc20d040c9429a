package service

import (
	"context"
	"testing"

	"github.com/danieln3m0/POSLas4as/internal/dto"
	"github.com/danieln3m0/POSLas4as/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLocation(t *testing.T) {
	svc := NewLocationService(newStubLocationRepo())

	resp, err := svc.CreateLocation(context.Background(), dto.CreateLocationRequest{Name: " Central ", Type: "warehouse"})
	require.NoError(t, err)
	assert.Equal(t, "Central", resp.Name)
	assert.Equal(t, "WAREHOUSE", resp.Type)
	assert.True(t, resp.Active)

	list, err := svc.ListLocations(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreateLocation_Rejects(t *testing.T) {
	repo := newStubLocationRepo()
	svc := NewLocationService(repo)
	_, err := svc.CreateLocation(context.Background(), dto.CreateLocationRequest{Name: "Central", Type: "STORE"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		req     dto.CreateLocationRequest
		wantErr error
	}{
		{"unknown type", dto.CreateLocationRequest{Name: "Kiosk", Type: "KIOSK"}, model.ErrValidation},
		{"duplicate name", dto.CreateLocationRequest{Name: "Central", Type: "WAREHOUSE"}, model.ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateLocation(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Len(t, repo.locations, 1)
}
