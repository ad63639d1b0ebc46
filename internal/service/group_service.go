package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/billsplit/internal/auth"
	"github.com/mmynk/billsplit/internal/middleware"
	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/storage"
	"github.com/mmynk/billsplit/pkg/api"
)

// GroupService implements api.GroupServiceHandler.
type GroupService struct {
	store storage.Store
}

var _ api.GroupServiceHandler = (*GroupService)(nil)

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroup creates a group owned by the caller.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	userID := middleware.GetUserID(ctx)
	name := strings.TrimSpace(req.Msg.Name)
	slog.Info("CreateGroup request received", "name", name, "user_id", userID)

	if name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("group name required"))
	}

	group := &models.Group{Name: name, OwnerID: userID}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	created, err := s.store.GetGroup(ctx, group.ID)
	if err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("Group created", "group_id", group.ID)
	return connect.NewResponse(&api.CreateGroupResponse{Group: groupToAPI(created)}), nil
}

// AddMember adds a registered user, looked up by phone, to the group.
// Only the owner may add members.
func (s *GroupService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	userID := middleware.GetUserID(ctx)
	slog.Info("AddMember request received", "group_id", req.Msg.GroupID, "user_id", userID)

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if group.OwnerID != userID {
		return nil, toConnectError(errNotOwner)
	}

	phone := auth.NormalizePhone(req.Msg.Phone)
	if err := auth.ValidatePhone(phone); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	user, err := s.store.GetUserByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("no user registered with phone %s", phone))
		}
		return nil, toConnectError(err)
	}

	if err := s.store.AddGroupMember(ctx, group.ID, user.ID); err != nil {
		slog.Warn("AddMember failed", "group_id", group.ID, "member_id", user.ID, "error", err)
		return nil, toConnectError(err)
	}

	updated, err := s.store.GetGroup(ctx, group.ID)
	if err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("Member added", "group_id", group.ID, "member_id", user.ID)
	return connect.NewResponse(&api.AddMemberResponse{Group: groupToAPI(updated)}), nil
}

// ListGroups returns the caller's groups without members.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	userID := middleware.GetUserID(ctx)

	groups, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		slog.Error("ListGroups failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Group, len(groups))
	for i, g := range groups {
		out[i] = groupToAPI(g)
	}
	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// GetGroup returns a group with its members. Only members may view it.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	group, err := memberGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetGroupResponse{Group: groupToAPI(group)}), nil
}

// memberGroup loads the group and checks the caller belongs to it. The
// returned error is already a Connect error.
func memberGroup(ctx context.Context, store storage.GroupStore, groupID string) (*models.Group, error) {
	if groupID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("group_id required"))
	}
	group, err := store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if !group.HasMember(middleware.GetUserID(ctx)) {
		return nil, toConnectError(errNotMember)
	}
	return group, nil
}
