package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const AuthServiceName = "billsplit.v1.AuthService"

const (
	AuthServiceRegisterProcedure            = "/billsplit.v1.AuthService/Register"
	AuthServiceLoginProcedure               = "/billsplit.v1.AuthService/Login"
	AuthServiceGetCurrentUserProcedure      = "/billsplit.v1.AuthService/GetCurrentUser"
	AuthServiceUpdatePayoutAddressProcedure = "/billsplit.v1.AuthService/UpdatePayoutAddress"
)

// AuthServiceHandler is implemented by the server.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error)
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error)
	GetCurrentUser(context.Context, *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error)
	UpdatePayoutAddress(context.Context, *connect.Request[UpdatePayoutAddressRequest]) (*connect.Response[UpdatePayoutAddressResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler for svc and returns the path
// to mount it on.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	routes := map[string]http.Handler{
		AuthServiceRegisterProcedure:            connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...),
		AuthServiceLoginProcedure:               connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...),
		AuthServiceGetCurrentUserProcedure:      connect.NewUnaryHandler(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts...),
		AuthServiceUpdatePayoutAddressProcedure: connect.NewUnaryHandler(AuthServiceUpdatePayoutAddressProcedure, svc.UpdatePayoutAddress, opts...),
	}
	return "/" + AuthServiceName + "/", route(routes)
}

// AuthServiceClient calls a remote AuthService.
type AuthServiceClient struct {
	register            *connect.Client[RegisterRequest, RegisterResponse]
	login               *connect.Client[LoginRequest, LoginResponse]
	getCurrentUser      *connect.Client[GetCurrentUserRequest, GetCurrentUserResponse]
	updatePayoutAddress *connect.Client[UpdatePayoutAddressRequest, UpdatePayoutAddressResponse]
}

// NewAuthServiceClient creates a client for the server at baseURL.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &AuthServiceClient{
		register:            connect.NewClient[RegisterRequest, RegisterResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		login:               connect.NewClient[LoginRequest, LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		getCurrentUser:      connect.NewClient[GetCurrentUserRequest, GetCurrentUserResponse](httpClient, baseURL+AuthServiceGetCurrentUserProcedure, opts...),
		updatePayoutAddress: connect.NewClient[UpdatePayoutAddressRequest, UpdatePayoutAddressResponse](httpClient, baseURL+AuthServiceUpdatePayoutAddressProcedure, opts...),
	}
}

func (c *AuthServiceClient) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *AuthServiceClient) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *AuthServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}

func (c *AuthServiceClient) UpdatePayoutAddress(ctx context.Context, req *connect.Request[UpdatePayoutAddressRequest]) (*connect.Response[UpdatePayoutAddressResponse], error) {
	return c.updatePayoutAddress.CallUnary(ctx, req)
}

// route dispatches on the full procedure path.
func route(routes map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := routes[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}
