package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/ssokit/pkg/claims"
	"github.com/dmitrymomot/ssokit/pkg/identity"
)

func TestRevalidator_Revalidate(t *testing.T) {
	t.Parallel()

	t.Run("empty token is no session", func(t *testing.T) {
		t.Parallel()

		store := new(MockIdentityStore)
		rev := NewRevalidator(store, testCodec(t, time.Hour), "reports")

		res, err := rev.Revalidate(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, StatusNoSession, res.Status)
		store.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("undecodable token invalidates without store lookup", func(t *testing.T) {
		t.Parallel()

		store := new(MockIdentityStore)
		rev := NewRevalidator(store, testCodec(t, time.Hour), "reports")

		res, err := rev.Revalidate(context.Background(), "not.a.token")
		require.NoError(t, err)
		assert.Equal(t, StatusInvalidated, res.Status)
		assert.True(t, res.Claims.IsZero())
		store.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("expired token invalidates", func(t *testing.T) {
		t.Parallel()

		codec := testCodec(t, time.Millisecond)
		token, err := codec.Encode(claims.SessionClaims{UserID: bson.NewObjectID().Hex()})
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)

		store := new(MockIdentityStore)
		rev := NewRevalidator(store, codec, "reports")

		res, err := rev.Revalidate(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, StatusInvalidated, res.Status)
	})

	t.Run("refresh re-derives claims from the store record", func(t *testing.T) {
		t.Parallel()

		ident := testIdentity(t)
		codec := testCodec(t, time.Hour)

		// Token minted before the user changed their name and email.
		stale := claims.SessionClaims{
			UserID: ident.ID.Hex(),
			Name:   "Old Name",
			Email:  "old@example.com",
		}
		token, err := codec.Encode(stale)
		require.NoError(t, err)

		store := new(MockIdentityStore)
		store.On("FindByID", mock.Anything, ident.ID.Hex()).Return(ident, nil)
		store.On("RecordUsage", mock.Anything, ident.ID.Hex(), "reports").Return(ident, nil)

		rev := NewRevalidator(store, codec, "reports")

		res, err := rev.Revalidate(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, StatusRefreshed, res.Status)
		assert.Equal(t, ident.Name, res.Claims.Name)
		assert.Equal(t, ident.Email, res.Claims.Email)
		assert.NotEqual(t, token, res.Token)

		decoded, err := codec.Decode(res.Token)
		require.NoError(t, err)
		assert.Equal(t, ident.Email, decoded.Email)
		store.AssertExpectations(t)
	})

	t.Run("refresh is repeatable", func(t *testing.T) {
		t.Parallel()

		ident := testIdentity(t)
		codec := testCodec(t, time.Hour)
		token, err := codec.Encode(claimsFrom(ident))
		require.NoError(t, err)

		store := new(MockIdentityStore)
		store.On("FindByID", mock.Anything, ident.ID.Hex()).Return(ident, nil)
		store.On("RecordUsage", mock.Anything, ident.ID.Hex(), "reports").Return(ident, nil)

		rev := NewRevalidator(store, codec, "reports")

		first, err := rev.Revalidate(context.Background(), token)
		require.NoError(t, err)
		require.Equal(t, StatusRefreshed, first.Status)

		second, err := rev.Revalidate(context.Background(), first.Token)
		require.NoError(t, err)
		require.Equal(t, StatusRefreshed, second.Status)
		assert.Equal(t, first.Claims, second.Claims)
	})

	t.Run("deleted identity invalidates", func(t *testing.T) {
		t.Parallel()

		codec := testCodec(t, time.Hour)
		id := bson.NewObjectID().Hex()
		token, err := codec.Encode(claims.SessionClaims{UserID: id})
		require.NoError(t, err)

		store := new(MockIdentityStore)
		store.On("FindByID", mock.Anything, id).Return(nil, identity.ErrNotFound)

		rev := NewRevalidator(store, codec, "reports")

		res, err := rev.Revalidate(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, StatusInvalidated, res.Status)
	})

	t.Run("malformed subject invalidates", func(t *testing.T) {
		t.Parallel()

		codec := testCodec(t, time.Hour)
		token, err := codec.Encode(claims.SessionClaims{UserID: "not-a-hex-id"})
		require.NoError(t, err)

		store := new(MockIdentityStore)
		store.On("FindByID", mock.Anything, "not-a-hex-id").Return(nil, identity.ErrInvalidID)

		rev := NewRevalidator(store, codec, "reports")

		res, err := rev.Revalidate(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, StatusInvalidated, res.Status)
	})

	t.Run("outage fails closed by default", func(t *testing.T) {
		t.Parallel()

		codec := testCodec(t, time.Hour)
		id := bson.NewObjectID().Hex()
		token, err := codec.Encode(claims.SessionClaims{UserID: id})
		require.NoError(t, err)

		store := new(MockIdentityStore)
		store.On("FindByID", mock.Anything, id).Return(nil, identity.ErrStoreUnavailable)

		rev := NewRevalidator(store, codec, "reports")

		_, err = rev.Revalidate(context.Background(), token)
		assert.ErrorIs(t, err, identity.ErrStoreUnavailable)
	})

	t.Run("outage fails open when configured", func(t *testing.T) {
		t.Parallel()

		codec := testCodec(t, time.Hour)
		sc := claims.SessionClaims{UserID: bson.NewObjectID().Hex(), Email: "jane@example.com"}
		token, err := codec.Encode(sc)
		require.NoError(t, err)

		store := new(MockIdentityStore)
		store.On("FindByID", mock.Anything, sc.UserID).Return(nil, identity.ErrStoreUnavailable)

		rev := NewRevalidator(store, codec, "reports", WithOutagePolicy(FailOpen))

		res, err := rev.Revalidate(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, StatusRetained, res.Status)
		assert.Equal(t, sc.UserID, res.Claims.UserID)
		assert.Equal(t, token, res.Token)
	})

	t.Run("outage during usage stamp follows the same policy", func(t *testing.T) {
		t.Parallel()

		ident := testIdentity(t)
		codec := testCodec(t, time.Hour)
		token, err := codec.Encode(claimsFrom(ident))
		require.NoError(t, err)

		store := new(MockIdentityStore)
		store.On("FindByID", mock.Anything, ident.ID.Hex()).Return(ident, nil)
		store.On("RecordUsage", mock.Anything, ident.ID.Hex(), "reports").Return(nil, identity.ErrStoreUnavailable)

		rev := NewRevalidator(store, codec, "reports", WithOutagePolicy(FailOpen))

		res, err := rev.Revalidate(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, StatusRetained, res.Status)
	})
}

func TestStatus_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "no_session", StatusNoSession.String())
	assert.Equal(t, "refreshed", StatusRefreshed.String())
	assert.Equal(t, "invalidated", StatusInvalidated.String())
	assert.Equal(t, "retained", StatusRetained.String())
	assert.Equal(t, "unknown", Status(99).String())
}

func TestConfig_OutagePolicy(t *testing.T) {
	t.Parallel()

	assert.Equal(t, FailOpen, Config{OutageMode: "fail-open"}.OutagePolicy())
	assert.Equal(t, FailClosed, Config{OutageMode: "fail-closed"}.OutagePolicy())
	assert.Equal(t, FailClosed, Config{OutageMode: "bogus"}.OutagePolicy())
}
