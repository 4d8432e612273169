package repository_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"refineboard/internal/model"
	"refineboard/internal/repository"
)

const visibleWorkspaceQuery = `SELECT count\(\*\) FROM "workspaces" WHERE id = .* AND id IN \(SELECT "id" FROM "workspaces" WHERE owner_id = .* OR id IN \(SELECT "workspace_id" FROM "workspace_members" WHERE user_id = .*\)\)`

func TestWorkspaceRepository_CanAccess(t *testing.T) {
	workspaceID := uuid.New()
	owner, member, stranger := uuid.New(), uuid.New(), uuid.New()

	tests := []struct {
		name   string
		userID uuid.UUID
		count  int
		want   bool
	}{
		{name: "owner", userID: owner, count: 1, want: true},
		{name: "member", userID: member, count: 1, want: true},
		{name: "stranger", userID: stranger, count: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gormDB, mock := setupMockDB(t)
			repo := repository.NewWorkspaceRepository(gormDB)

			mock.ExpectQuery(visibleWorkspaceQuery).
				WithArgs(workspaceID.String(), tt.userID.String(), tt.userID.String()).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(tt.count))

			ok, err := repo.CanAccess(context.Background(), workspaceID, tt.userID)

			assert.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestWorkspaceRepository_Delete_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewWorkspaceRepository(gormDB)

	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "workspaces" WHERE id = .*`).
		WithArgs(id.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), id)

	assert.ErrorIs(t, err, repository.ErrWorkspaceNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkspaceRepository_AddMember_IgnoresDuplicates(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewWorkspaceRepository(gormDB)

	workspaceID, userID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "workspace_members" \("workspace_id","user_id"\) VALUES \(.*\) ON CONFLICT DO NOTHING`).
		WithArgs(workspaceID.String(), userID.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.AddMember(context.Background(), workspaceID, userID)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkspaceRepository_Update_RefreshesUpdatedAt(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewWorkspaceRepository(gormDB)

	workspace := &model.Workspace{ID: uuid.New(), Title: "Roadmap", OwnerID: uuid.New()}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "workspaces" SET "title"=.*,"description"=.*,"archived"=.*,"updated_at"=.* WHERE "id" = .*`).
		WithArgs("Roadmap", "", false, sqlmock.AnyArg(), workspace.ID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), workspace)

	assert.NoError(t, err)
	assert.False(t, workspace.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
