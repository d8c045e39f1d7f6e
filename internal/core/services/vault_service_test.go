package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aloftly/aloftly_app/internal/adapters/vault"
	"github.com/aloftly/aloftly_app/internal/apperrors"
	"github.com/aloftly/aloftly_app/internal/core/services"
)

func TestVaultService_RoundTrip(t *testing.T) {
	backend, err := vault.NewSealedVault("")
	require.NoError(t, err)
	svc := services.NewVaultService(backend)
	ctx := context.Background()

	id, err := svc.StoreCredential(ctx, "gorgias-api-key", "gorgias:org-1:store-1", "credential")
	require.NoError(t, err)

	secret, err := svc.GetCredential(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "gorgias-api-key", secret)

	_, err = svc.GetCredential(ctx, "00000000-0000-0000-0000-000000000000")
	var notFound *apperrors.VaultNotFoundError
	assert.True(t, errors.As(err, &notFound))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestVaultService_WriteFailure(t *testing.T) {
	backend := new(MockSecretVault)
	backend.On("StoreSecret", mock.Anything, "s", "n", "d").Return("", errUpstream).Once()
	svc := services.NewVaultService(backend)

	_, err := svc.StoreCredential(context.Background(), "s", "n", "d")

	var writeErr *apperrors.VaultWriteError
	require.True(t, errors.As(err, &writeErr))
	assert.Equal(t, "n", writeErr.Name)
	assert.ErrorIs(t, err, errUpstream)
	backend.AssertNumberOfCalls(t, "StoreSecret", 1)
}

func TestVaultService_EmptyIdentifierIsAWriteFailure(t *testing.T) {
	backend := new(MockSecretVault)
	backend.On("StoreSecret", mock.Anything, "s", "n", "d").Return("", nil).Once()

	_, err := services.NewVaultService(backend).StoreCredential(context.Background(), "s", "n", "d")

	var writeErr *apperrors.VaultWriteError
	assert.True(t, errors.As(err, &writeErr))
}

func TestVaultService_RejectsEmptyInput(t *testing.T) {
	backend := new(MockSecretVault)
	_, err := services.NewVaultService(backend).StoreCredential(context.Background(), "", "n", "d")

	var writeErr *apperrors.VaultWriteError
	assert.True(t, errors.As(err, &writeErr))
	backend.AssertNotCalled(t, "StoreSecret", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestVaultService_ReadFailure(t *testing.T) {
	backend := new(MockSecretVault)
	backend.On("GetSecret", mock.Anything, "id-1").Return("", false, errUpstream).Once()

	_, err := services.NewVaultService(backend).GetCredential(context.Background(), "id-1")

	var readErr *apperrors.VaultReadError
	require.True(t, errors.As(err, &readErr))
	assert.Equal(t, "id-1", readErr.SecretID)
	assert.ErrorIs(t, err, errUpstream)
}
