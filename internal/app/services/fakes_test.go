package services

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/thankiuday/dreamlink/internal/app/models"
	"github.com/thankiuday/dreamlink/internal/pkg/apperrors"
	"github.com/thankiuday/dreamlink/internal/pkg/chatgateway"
)

// fakeUsers implements the user lookup surfaces against an in-memory map.
type fakeUsers struct {
	users    map[int64]*models.User
	getErr   error
	batchErr error
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	m := make(map[int64]*models.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeUsers{users: m}
}

func (f *fakeUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	user, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d not found", id)
	}
	return user, nil
}

func (f *fakeUsers) GetByIDs(ctx context.Context, ids []int64) ([]*models.User, error) {
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	var out []*models.User
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			out = append(out, user)
		}
	}
	return out, nil
}

func (f *fakeUsers) GetAllActiveIDs(ctx context.Context, excludeID int64) ([]int64, error) {
	var ids []int64
	for id := range f.users {
		if id != excludeID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeUsers) GetChildren(ctx context.Context, parentID int64) ([]*models.User, error) {
	var out []*models.User
	for _, user := range f.users {
		if user.ParentID != nil && *user.ParentID == parentID {
			out = append(out, user)
		}
	}
	return out, nil
}

func (f *fakeUsers) IsParentOf(ctx context.Context, parentID, childID int64) (bool, error) {
	child, ok := f.users[childID]
	if !ok || child.ParentID == nil {
		return false, nil
	}
	return *child.ParentID == parentID, nil
}

// static id-list sources for the reconciler

type fakeFriendEdges struct {
	ids       []int64
	linkedIDs []int64
	err       error
}

func (f *fakeFriendEdges) GetFriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	return f.ids, f.err
}

func (f *fakeFriendEdges) GetLinkedAccountIDs(ctx context.Context, userID int64) ([]int64, error) {
	return f.linkedIDs, nil
}

type fakeRoomEdges struct {
	ids []int64
	err error
}

func (f *fakeRoomEdges) GetCoMemberIDs(ctx context.Context, userID int64) ([]int64, error) {
	return f.ids, f.err
}

type fakeLogEdges struct {
	ids []int64
	err error
}

func (f *fakeLogEdges) GetCounterpartyIDs(ctx context.Context, userID int64) ([]int64, error) {
	return f.ids, f.err
}

// fakeGateway is a provider double with per-operation overrides.
type fakeGateway struct {
	mu sync.Mutex

	channels        []string
	channelsErr     error
	hasMessages     map[string]bool
	hasMessagesErr  error
	ensureUsersErr  error
	ensureChanErr   error
	sendErr         func(channelID string, recipientCalls int) error
	onSend          func()
	sendCalls       []string
	ensureUserCalls int
}

func (f *fakeGateway) EnsureUsers(ctx context.Context, users []chatgateway.UserRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensureUserCalls++
	return f.ensureUsersErr
}

func (f *fakeGateway) EnsureChannel(ctx context.Context, userA, userB int64) (string, error) {
	if f.ensureChanErr != nil {
		return "", f.ensureChanErr
	}
	return chatgateway.ChannelID(userA, userB), nil
}

func (f *fakeGateway) Send(ctx context.Context, channelID string, senderID int64, text string) (string, error) {
	f.mu.Lock()
	f.sendCalls = append(f.sendCalls, channelID)
	calls := len(f.sendCalls)
	onSend := f.onSend
	f.mu.Unlock()

	if onSend != nil {
		onSend()
	}
	if f.sendErr != nil {
		if err := f.sendErr(channelID, calls); err != nil {
			return "", err
		}
	}
	return "ext_" + channelID, nil
}

func (f *fakeGateway) ChannelsForMember(ctx context.Context, userID int64) ([]string, error) {
	if f.channelsErr != nil {
		return nil, f.channelsErr
	}
	return f.channels, nil
}

func (f *fakeGateway) ChannelHasMessages(ctx context.Context, channelID string) (bool, error) {
	if f.hasMessagesErr != nil {
		return false, f.hasMessagesErr
	}
	return f.hasMessages[channelID], nil
}

// fakeRooms holds rooms by id and join code.
type fakeRooms struct {
	rooms      map[int64]*models.Room
	getErr     error
	createErr  error
	codeExists func(code string) bool
	nextID     int64
}

func newFakeRooms(rooms ...*models.Room) *fakeRooms {
	m := make(map[int64]*models.Room, len(rooms))
	for _, r := range rooms {
		m[r.ID] = r
	}
	return &fakeRooms{rooms: m, nextID: 100}
}

func (f *fakeRooms) Create(ctx context.Context, room *models.Room) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	room.ID = f.nextID
	f.rooms[room.ID] = room
	return nil
}

func (f *fakeRooms) GetByID(ctx context.Context, id int64) (*models.Room, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	room, ok := f.rooms[id]
	if !ok {
		return nil, fmt.Errorf("room %d not found", id)
	}
	return room, nil
}

func (f *fakeRooms) GetByJoinCode(ctx context.Context, joinCode string) (*models.Room, error) {
	for _, room := range f.rooms {
		if room.JoinCode == joinCode {
			return room, nil
		}
	}
	return nil, fmt.Errorf("room with code %q not found", joinCode)
}

func (f *fakeRooms) JoinCodeExists(ctx context.Context, joinCode string) (bool, error) {
	if f.codeExists != nil {
		return f.codeExists(joinCode), nil
	}
	_, err := f.GetByJoinCode(ctx, joinCode)
	return err == nil, nil
}

func (f *fakeRooms) GetByOwnerID(ctx context.Context, ownerID int64) ([]*models.Room, error) {
	var out []*models.Room
	for _, room := range f.rooms {
		if room.OwnerID == ownerID {
			out = append(out, room)
		}
	}
	return out, nil
}

func (f *fakeRooms) Delete(ctx context.Context, id int64) error {
	delete(f.rooms, id)
	return nil
}

// fakeMembers tracks room membership in memory.
type fakeMembers struct {
	byRoom map[int64][]int64
	addErr error
	users  *fakeUsers
}

func newFakeMembers(users *fakeUsers) *fakeMembers {
	return &fakeMembers{byRoom: make(map[int64][]int64), users: users}
}

func (f *fakeMembers) GetMemberIDsByRoomID(ctx context.Context, roomID int64) ([]int64, error) {
	return f.byRoom[roomID], nil
}

func (f *fakeMembers) GetMembersByRoomID(ctx context.Context, roomID int64) ([]*models.User, error) {
	return f.users.GetByIDs(ctx, f.byRoom[roomID])
}

func (f *fakeMembers) GetRoomIDsByUserID(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	for roomID, members := range f.byRoom {
		for _, id := range members {
			if id == userID {
				ids = append(ids, roomID)
				break
			}
		}
	}
	return ids, nil
}

func (f *fakeMembers) IsMember(ctx context.Context, roomID, userID int64) (bool, error) {
	for _, id := range f.byRoom[roomID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeMembers) AddMember(ctx context.Context, roomID, userID int64) (int64, error) {
	if f.addErr != nil {
		return 0, f.addErr
	}
	f.byRoom[roomID] = append(f.byRoom[roomID], userID)
	return int64(len(f.byRoom[roomID])), nil
}

func (f *fakeMembers) RemoveMember(ctx context.Context, roomID, userID int64) error {
	members := f.byRoom[roomID]
	for i, id := range members {
		if id == userID {
			f.byRoom[roomID] = append(members[:i], members[i+1:]...)
			return nil
		}
	}
	return apperrors.NewResourceNotFoundError("User is not a member of this room")
}

// fakeMessageLog records appended messages and can fail selectively.
type fakeMessageLog struct {
	mu        sync.Mutex
	messages  []*models.Message
	createErr func(m *models.Message) error
}

func (f *fakeMessageLog) Create(ctx context.Context, message *models.Message) error {
	if f.createErr != nil {
		if err := f.createErr(message); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	message.ID = int64(len(f.messages) + 1)
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeMessageLog) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.messages {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, apperrors.ErrMessageNotFound
}

func (f *fakeMessageLog) GetConversation(ctx context.Context, userA, userB int64, before *time.Time, limit int) ([]*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Message
	for i := len(f.messages) - 1; i >= 0 && len(out) < limit; i-- {
		m := f.messages[i]
		paired := (m.SenderID == userA && m.RecipientID == userB) ||
			(m.SenderID == userB && m.RecipientID == userA)
		if !paired {
			continue
		}
		if before != nil && !m.CreatedAt.Before(*before) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeMessageLog) MarkRead(ctx context.Context, messageID, recipientID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.messages {
		if m.ID == messageID && m.RecipientID == recipientID {
			m.IsRead = true
			now := time.Now()
			m.ReadAt = &now
			return nil
		}
	}
	return apperrors.ErrMessageNotFound
}

func (f *fakeMessageLog) rowsFor(senderID, recipientID int64) []*models.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Message
	for _, m := range f.messages {
		if m.SenderID == senderID && m.RecipientID == recipientID {
			out = append(out, m)
		}
	}
	return out
}

// fakeStorage records uploads and returns a predictable URL.
type fakeStorage struct {
	uploads   int
	uploadErr error
}

func (f *fakeStorage) Upload(ctx context.Context, r io.Reader, filename, contentType string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.uploads++
	return "https://files.example.com/" + filename, nil
}
