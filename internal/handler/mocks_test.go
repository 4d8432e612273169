package handler_test

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"refineboard/internal/middleware"
	"refineboard/internal/model"
	"refineboard/internal/refine"
)

func withUser(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	}
}

func newRouter(userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(withUser(userID))
	return r
}

type MockWorkspaceStore struct {
	mock.Mock
}

func (m *MockWorkspaceStore) Create(ctx context.Context, w *model.Workspace) error {
	return m.Called(ctx, w).Error(0)
}

func (m *MockWorkspaceStore) ListVisible(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]model.Workspace, error) {
	args := m.Called(ctx, userID, includeArchived)
	return args.Get(0).([]model.Workspace), args.Error(1)
}

func (m *MockWorkspaceStore) GetVisibleByID(ctx context.Context, id, userID uuid.UUID) (*model.Workspace, error) {
	args := m.Called(ctx, id, userID)
	w := args.Get(0)
	if w == nil {
		return nil, args.Error(1)
	}
	return w.(*model.Workspace), args.Error(1)
}

func (m *MockWorkspaceStore) Update(ctx context.Context, w *model.Workspace) error {
	return m.Called(ctx, w).Error(0)
}

func (m *MockWorkspaceStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockWorkspaceStore) AddMember(ctx context.Context, workspaceID, userID uuid.UUID) error {
	return m.Called(ctx, workspaceID, userID).Error(0)
}

func (m *MockWorkspaceStore) RemoveMember(ctx context.Context, workspaceID, userID uuid.UUID) error {
	return m.Called(ctx, workspaceID, userID).Error(0)
}

func (m *MockWorkspaceStore) ListMembers(ctx context.Context, workspaceID uuid.UUID) ([]model.User, error) {
	args := m.Called(ctx, workspaceID)
	return args.Get(0).([]model.User), args.Error(1)
}

type MockCardStore struct {
	mock.Mock
}

func (m *MockCardStore) Create(ctx context.Context, card *model.Card) error {
	return m.Called(ctx, card).Error(0)
}

func (m *MockCardStore) GetVisibleByID(ctx context.Context, id, userID uuid.UUID) (*model.Card, error) {
	args := m.Called(ctx, id, userID)
	card := args.Get(0)
	if card == nil {
		return nil, args.Error(1)
	}
	return card.(*model.Card), args.Error(1)
}

func (m *MockCardStore) ListVisible(ctx context.Context, userID uuid.UUID) ([]model.Card, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.Card), args.Error(1)
}

func (m *MockCardStore) GetByColumnID(ctx context.Context, columnID uuid.UUID) ([]model.Card, error) {
	args := m.Called(ctx, columnID)
	return args.Get(0).([]model.Card), args.Error(1)
}

func (m *MockCardStore) Update(ctx context.Context, card *model.Card) error {
	return m.Called(ctx, card).Error(0)
}

func (m *MockCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCardStore) Move(ctx context.Context, cardID uuid.UUID, targetColumnID *uuid.UUID, position int) error {
	return m.Called(ctx, cardID, targetColumnID, position).Error(0)
}

type MockColumnLookup struct {
	mock.Mock
}

func (m *MockColumnLookup) GetVisibleByID(ctx context.Context, id, userID uuid.UUID) (*model.Column, error) {
	args := m.Called(ctx, id, userID)
	col := args.Get(0)
	if col == nil {
		return nil, args.Error(1)
	}
	return col.(*model.Column), args.Error(1)
}

type MockRefiner struct {
	mock.Mock
}

func (m *MockRefiner) Run(ctx context.Context, userID, cardID, personaID uuid.UUID) (*refine.Result, error) {
	args := m.Called(ctx, userID, cardID, personaID)
	res := args.Get(0)
	if res == nil {
		return nil, args.Error(1)
	}
	return res.(*refine.Result), args.Error(1)
}
