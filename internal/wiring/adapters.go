package wiring

import (
	"context"

	"github.com/example/housekeeping/internal/application"
	"github.com/example/housekeeping/internal/persistence"
)

type userRepositoryAdapter struct {
	repo persistence.UserRepository
}

func newUserRepositoryAdapter(repo persistence.UserRepository) *userRepositoryAdapter {
	return &userRepositoryAdapter{repo: repo}
}

func (a *userRepositoryAdapter) CreateUser(ctx context.Context, user application.User) (application.User, error) {
	stored, err := a.repo.CreateUser(ctx, toPersistenceUser(user))
	if err != nil {
		return application.User{}, err
	}
	return toApplicationUser(stored), nil
}

func (a *userRepositoryAdapter) GetUser(ctx context.Context, id int64) (application.User, error) {
	stored, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.User{}, err
	}
	return toApplicationUser(stored), nil
}

func (a *userRepositoryAdapter) GetUserByEmail(ctx context.Context, email string) (application.User, error) {
	stored, err := a.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return application.User{}, err
	}
	return toApplicationUser(stored), nil
}

func (a *userRepositoryAdapter) UpdateUser(ctx context.Context, user application.User) (application.User, error) {
	if err := a.repo.UpdateUser(ctx, toPersistenceUser(user)); err != nil {
		return application.User{}, err
	}
	return a.GetUser(ctx, user.ID)
}

func (a *userRepositoryAdapter) DeleteUser(ctx context.Context, id int64) error {
	return a.repo.DeleteUser(ctx, id)
}

func (a *userRepositoryAdapter) ListUsers(ctx context.Context) ([]application.User, error) {
	models, err := a.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	users := make([]application.User, 0, len(models))
	for _, model := range models {
		users = append(users, toApplicationUser(model))
	}
	return users, nil
}

type roomRepositoryAdapter struct {
	repo persistence.RoomRepository
}

func newRoomRepositoryAdapter(repo persistence.RoomRepository) *roomRepositoryAdapter {
	return &roomRepositoryAdapter{repo: repo}
}

func (a *roomRepositoryAdapter) CreateRoom(ctx context.Context, room application.Room) (application.Room, error) {
	stored, err := a.repo.CreateRoom(ctx, toPersistenceRoom(room))
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *roomRepositoryAdapter) GetRoom(ctx context.Context, id int64) (application.Room, error) {
	stored, err := a.repo.GetRoom(ctx, id)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *roomRepositoryAdapter) GetRoomByNumber(ctx context.Context, roomNumber string) (application.Room, error) {
	stored, err := a.repo.GetRoomByNumber(ctx, roomNumber)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *roomRepositoryAdapter) UpdateRoom(ctx context.Context, room application.Room) (application.Room, error) {
	if err := a.repo.UpdateRoom(ctx, toPersistenceRoom(room)); err != nil {
		return application.Room{}, err
	}
	return a.GetRoom(ctx, room.ID)
}

func (a *roomRepositoryAdapter) DeleteRoom(ctx context.Context, id int64) error {
	return a.repo.DeleteRoom(ctx, id)
}

func (a *roomRepositoryAdapter) ListRooms(ctx context.Context) ([]application.Room, error) {
	models, err := a.repo.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	rooms := make([]application.Room, 0, len(models))
	for _, model := range models {
		rooms = append(rooms, toApplicationRoom(model))
	}
	return rooms, nil
}

type logRepositoryAdapter struct {
	repo persistence.LogRepository
}

func newLogRepositoryAdapter(repo persistence.LogRepository) *logRepositoryAdapter {
	return &logRepositoryAdapter{repo: repo}
}

func (a *logRepositoryAdapter) AppendLog(ctx context.Context, entry application.LogEntry) (application.LogEntry, error) {
	stored, err := a.repo.AppendLog(ctx, persistence.LogEntry{
		Activity:    entry.Activity,
		ActorUserID: entry.ActorUserID,
		RoomID:      entry.RoomID,
		CreatedAt:   entry.CreatedAt,
	})
	if err != nil {
		return application.LogEntry{}, err
	}
	return toApplicationLogEntry(stored), nil
}

func (a *logRepositoryAdapter) ListLogs(ctx context.Context, query application.LogQuery) ([]application.LogEntry, int, error) {
	models, total, err := a.repo.ListLogs(ctx, persistence.LogFilter{Limit: query.Limit, Offset: query.Offset})
	if err != nil {
		return nil, 0, err
	}
	entries := make([]application.LogEntry, 0, len(models))
	for _, model := range models {
		entries = append(entries, toApplicationLogEntry(model))
	}
	return entries, total, nil
}

func toPersistenceUser(user application.User) persistence.User {
	return persistence.User{
		ID:           user.ID,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

func toApplicationUser(model persistence.User) application.User {
	return application.User{
		ID:           model.ID,
		Email:        model.Email,
		PasswordHash: model.PasswordHash,
		Role:         application.Role(model.Role),
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

func toPersistenceRoom(room application.Room) persistence.Room {
	return persistence.Room{
		ID:         room.ID,
		RoomNumber: room.RoomNumber,
		Category:   string(room.Category),
		Type:       string(room.Type),
		Floor:      room.Floor,
		CreatedAt:  room.CreatedAt,
		UpdatedAt:  room.UpdatedAt,
	}
}

func toApplicationRoom(model persistence.Room) application.Room {
	return application.Room{
		ID:         model.ID,
		RoomNumber: model.RoomNumber,
		Category:   application.Category(model.Category),
		Type:       application.RoomType(model.Type),
		Floor:      model.Floor,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

func toApplicationLogEntry(model persistence.LogEntry) application.LogEntry {
	var roomID *int64
	if model.RoomID != nil {
		id := *model.RoomID
		roomID = &id
	}
	return application.LogEntry{
		ID:          model.ID,
		Activity:    model.Activity,
		ActorUserID: model.ActorUserID,
		RoomID:      roomID,
		CreatedAt:   model.CreatedAt,
		ActorEmail:  model.ActorEmail,
		RoomNumber:  model.RoomNumber,
	}
}
