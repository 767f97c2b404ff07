package ws

import (
	"context"

	"go.uber.org/zap"

	"github.com/27100340/chat-app-backend-v1/internal/services"
	logger "github.com/27100340/chat-app-backend-v1/middleware/log"
)

// Presence records which users hold a live connection.
type Presence interface {
	SetOnline(ctx context.Context, userID string) error
	SetOffline(ctx context.Context, userID string) error
}

// Dispatcher routes decoded commands to the services and delivers pushes
// through the registry. It is shared by all connections; per-connection
// state lives in Session.
type Dispatcher struct {
	registry *Registry
	users    *services.UserService
	messages *services.MessageService
	groups   *services.GroupService
	chats    *services.DirectMessageService
	presence Presence
	log      *logger.Logger
}

func NewDispatcher(
	registry *Registry,
	users *services.UserService,
	messages *services.MessageService,
	groups *services.GroupService,
	chats *services.DirectMessageService,
	presence Presence,
	log *logger.Logger,
) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		users:    users,
		messages: messages,
		groups:   groups,
		chats:    chats,
		presence: presence,
		log:      log,
	}
}

// Session is the per-connection state machine. A session starts
// unauthenticated; the only transition is a well-formed authenticate
// frame, and the only exit is Disconnect.
type Session struct {
	d      *Dispatcher
	sender Sender
	userID string
}

func (d *Dispatcher) NewSession(sender Sender) *Session {
	return &Session{d: d, sender: sender}
}

// UserID returns the authenticated identity, or "" before authentication.
func (s *Session) UserID() string {
	return s.userID
}

func errorFrame(action, msg string) *ServerFrame {
	return &ServerFrame{Action: action, Status: StatusError, Error: msg}
}

func successFrame(action string, data any) *ServerFrame {
	return &ServerFrame{Action: action, Status: StatusSuccess, Data: data}
}

// Handle processes one inbound frame and returns exactly one reply.
// Malformed input and rejected commands produce error replies; the
// connection itself always survives Handle.
func (s *Session) Handle(ctx context.Context, data []byte) *ServerFrame {
	cmd, err := DecodeCommand(data)
	if err != nil {
		action := ""
		if cmd != nil {
			action = cmd.Action
		}
		return errorFrame(action, err.Error())
	}

	if cmd.Authenticate != nil {
		return s.authenticate(ctx, cmd.Authenticate)
	}
	if s.userID == "" {
		return errorFrame(cmd.Action, "not authenticated")
	}

	switch {
	case cmd.CreateMessage != nil:
		return s.createMessage(ctx, cmd.CreateMessage)
	case cmd.UpdateMessage != nil:
		msg, err := s.d.messages.Update(ctx, cmd.UpdateMessage.MessageID, cmd.UpdateMessage.NewContent)
		if err != nil {
			return errorFrame(cmd.Action, err.Error())
		}
		return successFrame(cmd.Action, msg)
	case cmd.DeleteMessage != nil:
		if err := s.d.messages.Delete(ctx, cmd.DeleteMessage.MessageID); err != nil {
			return errorFrame(cmd.Action, err.Error())
		}
		return successFrame(cmd.Action, map[string]string{"message_id": cmd.DeleteMessage.MessageID})
	case cmd.GetMessage != nil:
		msg, err := s.d.messages.GetByID(ctx, cmd.GetMessage.MessageID)
		if err != nil {
			return errorFrame(cmd.Action, err.Error())
		}
		return successFrame(cmd.Action, msg)
	case cmd.GetBySender != nil:
		msgs, err := s.d.messages.GetBySender(ctx, cmd.GetBySender.SenderID)
		if err != nil {
			return errorFrame(cmd.Action, err.Error())
		}
		return successFrame(cmd.Action, msgs)
	case cmd.CreateGroup != nil:
		group, err := s.d.groups.Create(ctx, &services.CreateGroupRequest{
			Name:        cmd.CreateGroup.GroupName,
			Description: cmd.CreateGroup.GroupDescription,
			AdminID:     cmd.CreateGroup.AdminID,
		})
		if err != nil {
			return errorFrame(cmd.Action, err.Error())
		}
		return successFrame(cmd.Action, group)
	case cmd.UpdateGroup != nil:
		group, err := s.d.groups.Update(ctx, cmd.UpdateGroup.GroupID, cmd.UpdateGroup.GroupName, cmd.UpdateGroup.GroupDescription)
		if err != nil {
			return errorFrame(cmd.Action, err.Error())
		}
		return successFrame(cmd.Action, group)
	case cmd.AddGroupMember != nil:
		group, err := s.d.groups.AddMember(ctx, cmd.AddGroupMember.GroupID, cmd.AddGroupMember.MemberID)
		if err != nil {
			return errorFrame(cmd.Action, err.Error())
		}
		return successFrame(cmd.Action, group)
	case cmd.RemoveGroupMember != nil:
		group, err := s.d.groups.RemoveMember(ctx, cmd.RemoveGroupMember.GroupID, cmd.RemoveGroupMember.MemberID)
		if err != nil {
			return errorFrame(cmd.Action, err.Error())
		}
		return successFrame(cmd.Action, group)
	case cmd.CreateDMChat != nil:
		chat, err := s.d.chats.Create(ctx, &services.CreateChatRequest{
			User1ID: cmd.CreateDMChat.User1ID,
			User2ID: cmd.CreateDMChat.User2ID,
		})
		if err != nil {
			return errorFrame(cmd.Action, err.Error())
		}
		return successFrame(cmd.Action, chat)
	case cmd.GetUser != nil:
		user, err := s.d.users.GetByID(ctx, cmd.GetUser.UserID)
		if err != nil {
			return errorFrame(cmd.Action, err.Error())
		}
		return successFrame(cmd.Action, user)
	case cmd.GetAllStatuses != nil:
		statuses, err := s.d.users.GetAllStatuses(ctx)
		if err != nil {
			return errorFrame(cmd.Action, err.Error())
		}
		return successFrame(cmd.Action, statuses)
	}

	// DecodeCommand guarantees one variant is set; this is unreachable.
	return errorFrame(cmd.Action, ErrUnknownAction.Error())
}

func (s *Session) authenticate(ctx context.Context, p *AuthenticatePayload) *ServerFrame {
	if p.UserID == "" {
		return errorFrame(ActionAuthenticate, "user_id is required")
	}

	// Re-authenticating as someone else releases the previous identity,
	// otherwise it would stay registered and online until its TTL lapsed.
	if s.userID != "" && s.userID != p.UserID {
		s.d.registry.Unregister(s.userID, s.sender)
		if s.d.presence != nil {
			if err := s.d.presence.SetOffline(ctx, s.userID); err != nil {
				s.d.log.Warn("failed to mark user offline",
					zap.String("user_id", s.userID), zap.Error(err))
			}
		}
	}

	s.userID = p.UserID
	s.d.registry.Register(p.UserID, s.sender)
	if s.d.presence != nil {
		if err := s.d.presence.SetOnline(ctx, p.UserID); err != nil {
			s.d.log.Warn("failed to mark user online",
				zap.String("user_id", p.UserID), zap.Error(err))
		}
	}
	return &ServerFrame{Action: ActionAuthenticated, Status: StatusSuccess}
}

func (s *Session) createMessage(ctx context.Context, p *CreateMessagePayload) *ServerFrame {
	msg, err := s.d.messages.Create(ctx, &services.CreateMessageRequest{
		SenderID:        p.SenderID,
		Content:         p.Content,
		ReceiverUserID:  p.ReceiverUserID,
		ReceiverGroupID: p.ReceiverGroupID,
	})
	if err != nil {
		return errorFrame(ActionCreateMessage, err.Error())
	}

	// Push to the receiver if they are connected. Delivery is best
	// effort and never affects the sender's acknowledgement.
	if msg.ReceiverUserID != "" {
		if receiver := s.d.registry.Lookup(msg.ReceiverUserID); receiver != nil {
			delivered := receiver.Send(&ServerFrame{
				Action: ActionNewMessage,
				Payload: &NewMessagePush{
					SenderID:       msg.SenderID,
					Content:        msg.Content,
					ReceiverUserID: msg.ReceiverUserID,
					Timestamp:      msg.SentAt,
				},
			})
			if !delivered {
				s.d.log.Warn("dropped push to slow receiver",
					zap.String("receiver_id", msg.ReceiverUserID),
					zap.String("message_id", msg.ID))
			}
		}
	}
	return successFrame(ActionCreateMessage, msg)
}

// RefreshPresence renews the user's online marker so its TTL does not
// lapse mid-connection. Called from the heartbeat path; a no-op before
// authentication.
func (s *Session) RefreshPresence(ctx context.Context) {
	if s.userID == "" || s.d.presence == nil {
		return
	}
	if err := s.d.presence.SetOnline(ctx, s.userID); err != nil {
		s.d.log.Warn("failed to refresh presence",
			zap.String("user_id", s.userID), zap.Error(err))
	}
}

// Disconnect tears the session down: the identity is unregistered (only
// if this session still owns it) and presence is cleared. Safe to call
// for sessions that never authenticated.
func (s *Session) Disconnect(ctx context.Context) {
	if s.userID == "" {
		return
	}
	s.d.registry.Unregister(s.userID, s.sender)
	if s.d.presence != nil {
		if err := s.d.presence.SetOffline(ctx, s.userID); err != nil {
			s.d.log.Warn("failed to mark user offline",
				zap.String("user_id", s.userID), zap.Error(err))
		}
	}
}
