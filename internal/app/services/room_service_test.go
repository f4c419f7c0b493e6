package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/thankiuday/dreamlink/internal/app/models"
	"github.com/thankiuday/dreamlink/internal/app/models/dto"
	"github.com/thankiuday/dreamlink/internal/pkg/apperrors"
)

func TestCreateRoomGeneratesJoinCodeAndEnrollsOwner(t *testing.T) {
	users := newFakeUsers(testUser(100, "Taylor", "Teacher", models.RoleFaculty))
	rooms := newFakeRooms()
	members := newFakeMembers(users)
	svc := NewRoomService(rooms, members, zerolog.Nop())

	resp, err := svc.CreateRoom(context.Background(), 100, models.RoleFaculty, &dto.CreateRoomRequest{Name: "Grade 7 Science"})
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	if len(resp.JoinCode) != joinCodeLength {
		t.Errorf("expected %d-character join code, got %q", joinCodeLength, resp.JoinCode)
	}
	if resp.OwnerID != 100 {
		t.Errorf("unexpected owner: %+v", resp)
	}

	isMember, err := members.IsMember(context.Background(), resp.ID, 100)
	if err != nil || !isMember {
		t.Errorf("owner must be enrolled on creation, isMember=%v err=%v", isMember, err)
	}
}

func TestCreateRoomRejectsNonFaculty(t *testing.T) {
	users := newFakeUsers(testUser(1, "Casey", "Student", models.RoleStudent))
	svc := NewRoomService(newFakeRooms(), newFakeMembers(users), zerolog.Nop())

	for _, role := range []models.RoleType{models.RoleStudent, models.RoleParent} {
		_, err := svc.CreateRoom(context.Background(), 1, role, &dto.CreateRoomRequest{Name: "Nope"})
		if !errors.Is(err, apperrors.ErrPermissionDenied) {
			t.Errorf("role %s: expected permission denied, got %v", role, err)
		}
	}
}

func TestCreateRoomExhaustedJoinCodes(t *testing.T) {
	users := newFakeUsers(testUser(100, "Taylor", "Teacher", models.RoleFaculty))
	rooms := newFakeRooms()
	rooms.codeExists = func(string) bool { return true }
	svc := NewRoomService(rooms, newFakeMembers(users), zerolog.Nop())

	_, err := svc.CreateRoom(context.Background(), 100, models.RoleFaculty, &dto.CreateRoomRequest{Name: "Science"})
	if !errors.Is(err, apperrors.ErrJoinCodeExhausted) {
		t.Fatalf("expected join code exhaustion, got %v", err)
	}
}

func TestJoinRoomByCode(t *testing.T) {
	users := newFakeUsers(
		testUser(100, "Taylor", "Teacher", models.RoleFaculty),
		testUser(1, "Casey", "Student", models.RoleStudent),
	)
	room := &models.Room{ID: 5, Name: "Science", OwnerID: 100, JoinCode: "K7PQ2M"}
	members := newFakeMembers(users)
	svc := NewRoomService(newFakeRooms(room), members, zerolog.Nop())

	resp, err := svc.JoinRoom(context.Background(), 1, &dto.JoinRoomRequest{JoinCode: "K7PQ2M"})
	if err != nil {
		t.Fatalf("JoinRoom: %v", err)
	}
	if resp.ID != 5 {
		t.Fatalf("joined wrong room: %+v", resp)
	}
	if resp.JoinCode != "" {
		t.Errorf("join code must not leak to joiners, got %q", resp.JoinCode)
	}

	isMember, _ := members.IsMember(context.Background(), 5, 1)
	if !isMember {
		t.Error("user must be a member after joining")
	}
}

func TestJoinRoomRejectsUnknownCodeAndDuplicates(t *testing.T) {
	users := newFakeUsers(testUser(1, "Casey", "Student", models.RoleStudent))
	room := &models.Room{ID: 5, Name: "Science", OwnerID: 100, JoinCode: "K7PQ2M"}
	members := newFakeMembers(users)
	svc := NewRoomService(newFakeRooms(room), members, zerolog.Nop())

	if _, err := svc.JoinRoom(context.Background(), 1, &dto.JoinRoomRequest{JoinCode: "WRONG1"}); !errors.Is(err, apperrors.ErrInvalidJoinCode) {
		t.Fatalf("expected invalid join code, got %v", err)
	}

	members.addErr = apperrors.ErrAlreadyRoomMember
	if _, err := svc.JoinRoom(context.Background(), 1, &dto.JoinRoomRequest{JoinCode: "K7PQ2M"}); !errors.Is(err, apperrors.ErrAlreadyRoomMember) {
		t.Fatalf("expected duplicate-member rejection, got %v", err)
	}
}

func TestGetRoomMembersRequiresMembership(t *testing.T) {
	users := newFakeUsers(
		testUser(100, "Taylor", "Teacher", models.RoleFaculty),
		testUser(1, "Casey", "Student", models.RoleStudent),
		testUser(2, "Alex", "Outsider", models.RoleStudent),
	)
	room := &models.Room{ID: 5, Name: "Science", OwnerID: 100, JoinCode: "K7PQ2M"}
	members := newFakeMembers(users)
	members.byRoom[5] = []int64{100, 1}
	svc := NewRoomService(newFakeRooms(room), members, zerolog.Nop())

	list, err := svc.GetRoomMembers(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("GetRoomMembers: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 members, got %+v", list)
	}

	if _, err := svc.GetRoomMembers(context.Background(), 2, 5); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("expected permission denied for non-member, got %v", err)
	}
}

func TestLeaveRoomRemovesMember(t *testing.T) {
	users := newFakeUsers(
		testUser(100, "Taylor", "Teacher", models.RoleFaculty),
		testUser(1, "Casey", "Student", models.RoleStudent),
	)
	room := &models.Room{ID: 5, Name: "Science", OwnerID: 100, JoinCode: "K7PQ2M"}
	rooms := newFakeRooms(room)
	members := newFakeMembers(users)
	members.byRoom[5] = []int64{100, 1}
	svc := NewRoomService(rooms, members, zerolog.Nop())

	if err := svc.LeaveRoom(context.Background(), 1, 5); err != nil {
		t.Fatalf("LeaveRoom: %v", err)
	}

	isMember, err := members.IsMember(context.Background(), 5, 1)
	if err != nil || isMember {
		t.Errorf("user must be removed after leaving, isMember=%v err=%v", isMember, err)
	}

	if err := svc.LeaveRoom(context.Background(), 100, 5); !errors.Is(err, apperrors.ErrBadRequest) {
		t.Errorf("owner must not be able to leave their own room, got %v", err)
	}

	if err := svc.LeaveRoom(context.Background(), 1, 5); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Errorf("leaving a room twice must fail, got %v", err)
	}
}

func TestDeleteRoomOnlyOwner(t *testing.T) {
	users := newFakeUsers(testUser(100, "Taylor", "Teacher", models.RoleFaculty))
	room := &models.Room{ID: 5, Name: "Science", OwnerID: 100, JoinCode: "K7PQ2M"}
	rooms := newFakeRooms(room)
	svc := NewRoomService(rooms, newFakeMembers(users), zerolog.Nop())

	if err := svc.DeleteRoom(context.Background(), 1, 5); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}

	if err := svc.DeleteRoom(context.Background(), 100, 5); err != nil {
		t.Fatalf("DeleteRoom: %v", err)
	}
	if _, err := rooms.GetByID(context.Background(), 5); err == nil {
		t.Error("room must be gone after deletion")
	}
}
