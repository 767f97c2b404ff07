package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/27100340/chat-app-backend-v1/internal/models"
	"github.com/27100340/chat-app-backend-v1/internal/repositories"
	"github.com/27100340/chat-app-backend-v1/internal/services"
	"github.com/27100340/chat-app-backend-v1/internal/uow"
	"github.com/27100340/chat-app-backend-v1/middleware/jwt"
	logger "github.com/27100340/chat-app-backend-v1/middleware/log"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type stubRunner struct {
	u *uow.UnitOfWork
}

func (r stubRunner) Do(_ context.Context, fn func(*uow.UnitOfWork) error) error {
	return fn(r.u)
}

func (r stubRunner) TestConnection(context.Context) bool { return true }

type fakeSender struct {
	mu     sync.Mutex
	frames []*ServerFrame
	full   bool
}

func (f *fakeSender) Send(fr *ServerFrame) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.full {
		return false
	}
	f.frames = append(f.frames, fr)
	return true
}

func (f *fakeSender) received() []*ServerFrame {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*ServerFrame(nil), f.frames...)
}

type recordingPresence struct {
	mu      sync.Mutex
	online  map[string]bool
	failAll bool
}

func newRecordingPresence() *recordingPresence {
	return &recordingPresence{online: make(map[string]bool)}
}

func (p *recordingPresence) SetOnline(_ context.Context, userID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failAll {
		return fmt.Errorf("presence store down")
	}
	p.online[userID] = true
	return nil
}

func (p *recordingPresence) SetOffline(_ context.Context, userID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failAll {
		return fmt.Errorf("presence store down")
	}
	delete(p.online, userID)
	return nil
}

func (p *recordingPresence) isOnline(userID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online[userID]
}

type testEnv struct {
	u          *uow.UnitOfWork
	dispatcher *Dispatcher
	presence   *recordingPresence
}

func newTestEnv() *testEnv {
	u := uow.New(
		repositories.NewMemoryUserRepository(),
		repositories.NewMemoryMessageRepository(),
		repositories.NewMemoryGroupRepository(),
		repositories.NewMemoryDirectMessageRepository(),
	)
	runner := stubRunner{u: u}
	presence := newRecordingPresence()

	registry := NewRegistry()
	d := NewDispatcher(
		registry,
		services.NewUserService(runner, jwt.NewTokenManager("test-secret", 24), nil),
		services.NewMessageService(runner, nil),
		services.NewGroupService(runner),
		services.NewDirectMessageService(runner),
		presence,
		logger.NewNop(),
	)
	return &testEnv{u: u, dispatcher: d, presence: presence}
}

func (e *testEnv) seedUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := models.NewUser(username, username+"@example.com", "hash", t0)
	if err := e.u.Users.Save(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func frame(t *testing.T, action string, payload any) []byte {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	data, err := json.Marshal(ClientFrame{Action: action, Payload: raw})
	if err != nil {
		t.Fatalf("marshal frame: %v", err)
	}
	return data
}

func authenticate(t *testing.T, s *Session, userID string) {
	t.Helper()
	reply := s.Handle(context.Background(), frame(t, ActionAuthenticate, AuthenticatePayload{UserID: userID}))
	if reply.Action != ActionAuthenticated || reply.Status != StatusSuccess {
		t.Fatalf("authenticate failed: %+v", reply)
	}
}

func TestSession_RequiresAuthentication(t *testing.T) {
	env := newTestEnv()
	sender := &fakeSender{}
	session := env.dispatcher.NewSession(sender)

	reply := session.Handle(context.Background(), frame(t, ActionCreateMessage, CreateMessagePayload{
		SenderID: "u1", Content: "hi", ReceiverUserID: "u2",
	}))
	if reply.Status != StatusError {
		t.Fatalf("expected error reply, got %+v", reply)
	}
	if reply.Error != "not authenticated" {
		t.Errorf("expected not authenticated, got %q", reply.Error)
	}

	// The session survives and can authenticate afterwards.
	user := env.seedUser(t, "alice")
	authenticate(t, session, user.ID)
}

func TestSession_Authenticate(t *testing.T) {
	env := newTestEnv()
	sender := &fakeSender{}
	session := env.dispatcher.NewSession(sender)
	user := env.seedUser(t, "alice")

	authenticate(t, session, user.ID)

	if got := env.dispatcher.registry.Lookup(user.ID); got != Sender(sender) {
		t.Error("authenticate did not register the connection")
	}
	if !env.presence.isOnline(user.ID) {
		t.Error("authenticate did not mark the user online")
	}
}

func TestSession_Authenticate_EmptyUserID(t *testing.T) {
	env := newTestEnv()
	session := env.dispatcher.NewSession(&fakeSender{})

	reply := session.Handle(context.Background(), frame(t, ActionAuthenticate, AuthenticatePayload{}))
	if reply.Status != StatusError {
		t.Fatalf("expected error reply, got %+v", reply)
	}
	if session.UserID() != "" {
		t.Error("session must stay unauthenticated")
	}
}

func TestSession_Authenticate_PresenceFailureTolerated(t *testing.T) {
	env := newTestEnv()
	env.presence.failAll = true
	session := env.dispatcher.NewSession(&fakeSender{})
	user := env.seedUser(t, "alice")

	// A presence store outage must not block authentication.
	authenticate(t, session, user.ID)
}

func TestSession_UnknownAction(t *testing.T) {
	env := newTestEnv()
	session := env.dispatcher.NewSession(&fakeSender{})
	user := env.seedUser(t, "alice")
	authenticate(t, session, user.ID)

	reply := session.Handle(context.Background(), []byte(`{"action":"fly_to_moon","payload":{}}`))
	if reply.Status != StatusError {
		t.Fatalf("expected error reply, got %+v", reply)
	}
	if reply.Action != "fly_to_moon" {
		t.Errorf("error reply should echo the action, got %q", reply.Action)
	}

	// Connection survives: a valid action still works.
	got := session.Handle(context.Background(), frame(t, ActionGetUser, GetUserPayload{UserID: user.ID}))
	if got.Status != StatusSuccess {
		t.Errorf("expected success after unknown action, got %+v", got)
	}
}

func TestSession_MalformedFrame(t *testing.T) {
	env := newTestEnv()
	session := env.dispatcher.NewSession(&fakeSender{})

	reply := session.Handle(context.Background(), []byte(`{not json`))
	if reply.Status != StatusError {
		t.Fatalf("expected error reply, got %+v", reply)
	}
}

func TestSession_CreateMessage_PushesToReceiver(t *testing.T) {
	env := newTestEnv()
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")

	aliceSender := &fakeSender{}
	bobSender := &fakeSender{}
	aliceSession := env.dispatcher.NewSession(aliceSender)
	bobSession := env.dispatcher.NewSession(bobSender)
	authenticate(t, aliceSession, alice.ID)
	authenticate(t, bobSession, bob.ID)

	reply := aliceSession.Handle(context.Background(), frame(t, ActionCreateMessage, CreateMessagePayload{
		SenderID:       alice.ID,
		Content:        "hello bob",
		ReceiverUserID: bob.ID,
	}))
	if reply.Status != StatusSuccess {
		t.Fatalf("create_message failed: %+v", reply)
	}

	pushes := bobSender.received()
	if len(pushes) != 1 {
		t.Fatalf("expected 1 push to bob, got %d", len(pushes))
	}
	push := pushes[0]
	if push.Action != ActionNewMessage {
		t.Errorf("expected new_message push, got %q", push.Action)
	}
	payload, ok := push.Payload.(*NewMessagePush)
	if !ok {
		t.Fatalf("unexpected push payload type %T", push.Payload)
	}
	if payload.SenderID != alice.ID || payload.Content != "hello bob" || payload.ReceiverUserID != bob.ID {
		t.Errorf("bad push payload: %+v", payload)
	}

	// The sender's own channel got nothing; the reply is returned, not pushed.
	if len(aliceSender.received()) != 0 {
		t.Error("sender should not receive a push for their own message")
	}
}

func TestSession_CreateMessage_ReceiverOffline(t *testing.T) {
	env := newTestEnv()
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")

	session := env.dispatcher.NewSession(&fakeSender{})
	authenticate(t, session, alice.ID)

	reply := session.Handle(context.Background(), frame(t, ActionCreateMessage, CreateMessagePayload{
		SenderID:       alice.ID,
		Content:        "hello bob",
		ReceiverUserID: bob.ID,
	}))
	if reply.Status != StatusSuccess {
		t.Fatalf("send to offline receiver must still succeed: %+v", reply)
	}
}

func TestSession_CreateMessage_SlowReceiverDoesNotFailSender(t *testing.T) {
	env := newTestEnv()
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")

	aliceSession := env.dispatcher.NewSession(&fakeSender{})
	bobSender := &fakeSender{full: true}
	bobSession := env.dispatcher.NewSession(bobSender)
	authenticate(t, aliceSession, alice.ID)
	authenticate(t, bobSession, bob.ID)

	reply := aliceSession.Handle(context.Background(), frame(t, ActionCreateMessage, CreateMessagePayload{
		SenderID:       alice.ID,
		Content:        "hello bob",
		ReceiverUserID: bob.ID,
	}))
	if reply.Status != StatusSuccess {
		t.Fatalf("dropped push must not fail the sender: %+v", reply)
	}
}

func TestSession_CreateMessage_GroupNoPush(t *testing.T) {
	env := newTestEnv()
	alice := env.seedUser(t, "alice")

	session := env.dispatcher.NewSession(&fakeSender{})
	authenticate(t, session, alice.ID)

	reply := session.Handle(context.Background(), frame(t, ActionCreateGroup, CreateGroupPayload{
		GroupName: "gophers",
		AdminID:   alice.ID,
	}))
	if reply.Status != StatusSuccess {
		t.Fatalf("create_group failed: %+v", reply)
	}
	group, ok := reply.Data.(*models.Group)
	if !ok {
		t.Fatalf("unexpected data type %T", reply.Data)
	}

	reply = session.Handle(context.Background(), frame(t, ActionCreateMessage, CreateMessagePayload{
		SenderID:        alice.ID,
		Content:         "hello group",
		ReceiverGroupID: group.ID,
	}))
	if reply.Status != StatusSuccess {
		t.Fatalf("group message failed: %+v", reply)
	}
}

func TestSession_GroupMembership(t *testing.T) {
	env := newTestEnv()
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")

	session := env.dispatcher.NewSession(&fakeSender{})
	authenticate(t, session, alice.ID)

	reply := session.Handle(context.Background(), frame(t, ActionCreateGroup, CreateGroupPayload{
		GroupName: "gophers",
		AdminID:   alice.ID,
	}))
	if reply.Status != StatusSuccess {
		t.Fatalf("create_group failed: %+v", reply)
	}
	group := reply.Data.(*models.Group)
	if len(group.Members) != 1 || group.Members[0] != alice.ID {
		t.Fatalf("admin should be the sole initial member, got %v", group.Members)
	}

	reply = session.Handle(context.Background(), frame(t, ActionAddGroupMember, GroupMemberPayload{
		GroupID: group.ID, MemberID: bob.ID,
	}))
	if reply.Status != StatusSuccess {
		t.Fatalf("add_group_member failed: %+v", reply)
	}

	// Duplicate add is rejected but the connection lives on.
	reply = session.Handle(context.Background(), frame(t, ActionAddGroupMember, GroupMemberPayload{
		GroupID: group.ID, MemberID: bob.ID,
	}))
	if reply.Status != StatusError {
		t.Fatalf("expected duplicate member rejection, got %+v", reply)
	}

	reply = session.Handle(context.Background(), frame(t, ActionRemoveGroupMember, GroupMemberPayload{
		GroupID: group.ID, MemberID: bob.ID,
	}))
	if reply.Status != StatusSuccess {
		t.Fatalf("remove_group_member failed: %+v", reply)
	}
}

func TestSession_Disconnect(t *testing.T) {
	env := newTestEnv()
	alice := env.seedUser(t, "alice")

	sender := &fakeSender{}
	session := env.dispatcher.NewSession(sender)
	authenticate(t, session, alice.ID)

	session.Disconnect(context.Background())

	if got := env.dispatcher.registry.Lookup(alice.ID); got != nil {
		t.Error("disconnect should unregister the identity")
	}
	if env.presence.isOnline(alice.ID) {
		t.Error("disconnect should mark the user offline")
	}
}

func TestSession_Disconnect_SupersededSession(t *testing.T) {
	env := newTestEnv()
	alice := env.seedUser(t, "alice")

	firstSender := &fakeSender{}
	secondSender := &fakeSender{}
	first := env.dispatcher.NewSession(firstSender)
	second := env.dispatcher.NewSession(secondSender)

	authenticate(t, first, alice.ID)
	authenticate(t, second, alice.ID)

	// The older session disconnecting must not evict the newer one.
	first.Disconnect(context.Background())
	if got := env.dispatcher.registry.Lookup(alice.ID); got != Sender(secondSender) {
		t.Error("superseded disconnect removed the live registration")
	}
}

func TestSession_Reauthenticate_ReleasesPreviousIdentity(t *testing.T) {
	env := newTestEnv()
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")

	sender := &fakeSender{}
	session := env.dispatcher.NewSession(sender)

	authenticate(t, session, alice.ID)
	authenticate(t, session, bob.ID)

	if got := env.dispatcher.registry.Lookup(alice.ID); got != nil {
		t.Error("previous identity should be unregistered on re-auth")
	}
	if env.presence.isOnline(alice.ID) {
		t.Error("previous identity should be marked offline on re-auth")
	}
	if got := env.dispatcher.registry.Lookup(bob.ID); got != Sender(sender) {
		t.Error("new identity should be registered")
	}

	// Disconnect cleans up the identity currently held.
	session.Disconnect(context.Background())
	if got := env.dispatcher.registry.Lookup(bob.ID); got != nil {
		t.Error("disconnect should unregister the current identity")
	}
}

func TestSession_GetAllUserStatuses(t *testing.T) {
	env := newTestEnv()
	alice := env.seedUser(t, "alice")

	session := env.dispatcher.NewSession(&fakeSender{})
	authenticate(t, session, alice.ID)

	reply := session.Handle(context.Background(), []byte(`{"action":"get_all_user_statuses"}`))
	if reply.Status != StatusSuccess {
		t.Fatalf("get_all_user_statuses failed: %+v", reply)
	}
	statuses, ok := reply.Data.([]services.UserStatus)
	if !ok {
		t.Fatalf("unexpected data type %T", reply.Data)
	}
	if len(statuses) != 1 || statuses[0].UserID != alice.ID {
		t.Errorf("unexpected statuses: %+v", statuses)
	}
}
