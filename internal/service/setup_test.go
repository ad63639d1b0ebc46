package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/billsplit/internal/auth"
	"github.com/mmynk/billsplit/internal/extraction"
	"github.com/mmynk/billsplit/internal/middleware"
	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/storage/sqlite"
	"github.com/mmynk/billsplit/pkg/api"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

// fakeExtractor returns a canned result and counts calls.
type fakeExtractor struct {
	mu     sync.Mutex
	result *extraction.Result
	err    error
	calls  int
}

func (f *fakeExtractor) Extract(ctx context.Context, image []byte) (*extraction.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeExtractor) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeExtractor) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// restaurantBill has three items and one tax line.
func restaurantBill() *extraction.Result {
	return &extraction.Result{
		Items: []models.Item{
			{Index: 0, Name: "Paneer Tikka", Quantity: 1, PricePerUnit: decimal.NewFromInt(200)},
			{Index: 1, Name: "Naan", Quantity: 4, PricePerUnit: decimal.NewFromInt(30)},
			{Index: 2, Name: "Lassi", Quantity: 2, PricePerUnit: decimal.NewFromInt(60)},
		},
		Taxes: []models.Tax{{Name: "GST", Amount: decimal.NewFromInt(30)}},
	}
}

type testEnv struct {
	auth      *api.AuthServiceClient
	groups    *api.GroupServiceClient
	bills     *api.BillServiceClient
	extractor *fakeExtractor
}

type testUser struct {
	ID    string
	Token string
}

// setupTestServer wires the services the way the server binary does,
// against a SQLite file in a temp dir.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	extractor := &fakeExtractor{result: restaurantBill()}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	public := connect.WithInterceptors(middleware.OptionalAuth(jwtManager))
	private := connect.WithInterceptors(middleware.RequireAuth(jwtManager))

	mux := http.NewServeMux()
	mux.Handle(api.NewAuthServiceHandler(NewAuthService(authenticator, jwtManager, store, logger), public))
	mux.Handle(api.NewGroupServiceHandler(NewGroupService(store), private))
	mux.Handle(api.NewBillServiceHandler(NewBillService(store, extractor), private))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testEnv{
		auth:      api.NewAuthServiceClient(server.Client(), server.URL),
		groups:    api.NewGroupServiceClient(server.Client(), server.URL),
		bills:     api.NewBillServiceClient(server.Client(), server.URL),
		extractor: extractor,
	}
}

func (e *testEnv) register(t *testing.T, phone, name string) testUser {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Phone:       phone,
		DisplayName: name,
		Password:    "password123",
	}))
	require.NoError(t, err)
	return testUser{ID: resp.Msg.User.ID, Token: resp.Msg.Token}
}

// as attaches the user's token to a request.
func as[T any](u testUser, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+u.Token)
	return req
}

// newGroup creates a group owned by owner and adds the users with the given
// phones in order.
func (e *testEnv) newGroup(t *testing.T, owner testUser, phones ...string) string {
	t.Helper()
	ctx := context.Background()
	resp, err := e.groups.CreateGroup(ctx, as(owner, &api.CreateGroupRequest{Name: "Dinner"}))
	require.NoError(t, err)

	groupID := resp.Msg.Group.ID
	for _, phone := range phones {
		_, err := e.groups.AddMember(ctx, as(owner, &api.AddMemberRequest{GroupID: groupID, Phone: phone}))
		require.NoError(t, err)
	}
	return groupID
}

func requireCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, want, connect.CodeOf(err), "error: %v", err)
}

func errMessage(err error) string {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr.Message()
	}
	return err.Error()
}
