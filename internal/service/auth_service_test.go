package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/billsplit/pkg/api"
)

func TestRegisterAndLogin(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	alice := env.register(t, "9876543210", "Alice")
	assert.NotEmpty(t, alice.Token)

	resp, err := env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Phone: "9876543210", Password: "password123"}))
	require.NoError(t, err)
	assert.Equal(t, alice.ID, resp.Msg.User.ID)
	assert.NotEmpty(t, resp.Msg.Token)

	_, err = env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Phone: "9876543210", Password: "wrong-password"}))
	requireCode(t, err, connect.CodeUnauthenticated)
}

func TestRegister_Validation(t *testing.T) {
	env := setupTestServer(t)
	env.register(t, "9876543210", "Alice")

	tests := []struct {
		name string
		req  *api.RegisterRequest
		code connect.Code
	}{
		{"duplicate phone", &api.RegisterRequest{Phone: "9876543210", DisplayName: "Eve", Password: "password123"}, connect.CodeAlreadyExists},
		{"nine digits", &api.RegisterRequest{Phone: "987654321", DisplayName: "Eve", Password: "password123"}, connect.CodeInvalidArgument},
		{"weak password", &api.RegisterRequest{Phone: "9000000000", DisplayName: "Eve", Password: "short"}, connect.CodeInvalidArgument},
		{"no name", &api.RegisterRequest{Phone: "9000000000", Password: "password123"}, connect.CodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Register(context.Background(), connect.NewRequest(tt.req))
			requireCode(t, err, tt.code)
		})
	}
}

func TestGetCurrentUserAndPayoutAddress(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.register(t, "9876543210", "Alice")

	_, err := env.auth.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
	requireCode(t, err, connect.CodeUnauthenticated)

	me, err := env.auth.GetCurrentUser(ctx, as(alice, &api.GetCurrentUserRequest{}))
	require.NoError(t, err)
	assert.Equal(t, "Alice", me.Msg.User.DisplayName)
	assert.Empty(t, me.Msg.User.PayoutAddress)

	_, err = env.auth.UpdatePayoutAddress(ctx, as(alice, &api.UpdatePayoutAddressRequest{PayoutAddress: "not a upi id"}))
	requireCode(t, err, connect.CodeInvalidArgument)

	updated, err := env.auth.UpdatePayoutAddress(ctx, as(alice, &api.UpdatePayoutAddressRequest{PayoutAddress: "alice@okaxis"}))
	require.NoError(t, err)
	assert.Equal(t, "alice@okaxis", updated.Msg.User.PayoutAddress)
}
