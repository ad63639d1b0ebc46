package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth struct{}

func (stubAuth) Register(_ context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error) {
	return connect.NewResponse(&RegisterResponse{
		User:  &User{ID: "u1", Phone: req.Msg.Phone, DisplayName: req.Msg.DisplayName},
		Token: "t",
	}), nil
}

func (stubAuth) Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("invalid phone number or password"))
}

func (stubAuth) GetCurrentUser(context.Context, *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error) {
	return connect.NewResponse(&GetCurrentUserResponse{User: &User{ID: "u1"}}), nil
}

func (stubAuth) UpdatePayoutAddress(_ context.Context, req *connect.Request[UpdatePayoutAddressRequest]) (*connect.Response[UpdatePayoutAddressResponse], error) {
	return connect.NewResponse(&UpdatePayoutAddressResponse{User: &User{ID: "u1", PayoutAddress: req.Msg.PayoutAddress}}), nil
}

func newStubServer(t *testing.T) *AuthServiceClient {
	t.Helper()
	mux := http.NewServeMux()
	mux.Handle(NewAuthServiceHandler(stubAuth{}))
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return NewAuthServiceClient(server.Client(), server.URL+"/")
}

func TestAuthServiceRoundTrip(t *testing.T) {
	client := newStubServer(t)
	ctx := context.Background()

	resp, err := client.Register(ctx, connect.NewRequest(&RegisterRequest{
		Phone:       "9876543210",
		DisplayName: "Alice",
		Password:    "password123",
	}))
	require.NoError(t, err)
	assert.Equal(t, "9876543210", resp.Msg.User.Phone)
	assert.Equal(t, "Alice", resp.Msg.User.DisplayName)

	updated, err := client.UpdatePayoutAddress(ctx, connect.NewRequest(&UpdatePayoutAddressRequest{PayoutAddress: "alice@okaxis"}))
	require.NoError(t, err)
	assert.Equal(t, "alice@okaxis", updated.Msg.User.PayoutAddress)

	_, err = client.Login(ctx, connect.NewRequest(&LoginRequest{Phone: "9876543210"}))
	require.Error(t, err)
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
}

func TestJSONCodecKeepsDecimalPrecision(t *testing.T) {
	codec := JSONCodec{}
	in := &Tax{Name: "GST", Amount: decimal.RequireFromString("20.10")}

	data, err := codec.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"GST","amount":"20.1"}`, string(data))

	var out Tax
	require.NoError(t, codec.Unmarshal(data, &out))
	assert.True(t, in.Amount.Equal(out.Amount))

	require.NoError(t, codec.Unmarshal(nil, &out))
	assert.Error(t, codec.Unmarshal([]byte("{"), &out))
}

func TestUnknownProcedure(t *testing.T) {
	path, handler := NewAuthServiceHandler(stubAuth{})
	assert.Equal(t, "/billsplit.v1.AuthService/", path)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/billsplit.v1.AuthService/Logout", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
