package session

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/ssokit/pkg/identity"
)

// MockIdentityStore is a mock implementation of IdentityStore.
type MockIdentityStore struct {
	mock.Mock
}

func (m *MockIdentityStore) FindByEmail(ctx context.Context, email string) (*identity.Identity, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Identity), args.Error(1)
}

func (m *MockIdentityStore) FindByID(ctx context.Context, id string) (*identity.Identity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Identity), args.Error(1)
}

func (m *MockIdentityStore) VerifyPassword(plain, hash string) bool {
	args := m.Called(plain, hash)
	return args.Bool(0)
}

func (m *MockIdentityStore) RecordUsage(ctx context.Context, id, serviceName string) (*identity.Identity, error) {
	args := m.Called(ctx, id, serviceName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Identity), args.Error(1)
}
