package auth_test

import (
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toffycaluga/tienda-backend/internal/auth"
)

func TestActor_Require(t *testing.T) {
	manager := auth.NewActor(uuid.Must(uuid.NewV4()), "manager", auth.CapAddProduct, auth.CapMarkInactive)
	viewer := auth.NewActor(uuid.Must(uuid.NewV4()), "viewer", auth.CapViewProduct)

	require.NoError(t, manager.Require(auth.CapAddProduct))
	require.NoError(t, manager.Require(auth.CapMarkInactive))
	require.ErrorIs(t, manager.Require(auth.CapDeleteProduct), auth.ErrPermissionDenied)

	// mark-inactive is not implied by any other capability
	require.ErrorIs(t, viewer.Require(auth.CapMarkInactive), auth.ErrPermissionDenied)

	anon := auth.Anonymous()
	require.ErrorIs(t, anon.Require(auth.CapViewProduct), auth.ErrUnauthenticated)
	require.ErrorIs(t, anon.RequireAuthenticated(), auth.ErrUnauthenticated)
	assert.False(t, anon.Can(auth.CapViewProduct))
}
