package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Wire actions accepted from clients.
const (
	ActionAuthenticate       = "authenticate"
	ActionCreateMessage      = "create_message"
	ActionUpdateMessage      = "update_message"
	ActionDeleteMessage      = "delete_message"
	ActionGetMessageByID     = "get_message_by_id"
	ActionGetMessagesSender  = "get_messages_by_sender"
	ActionCreateGroup        = "create_group"
	ActionUpdateGroup        = "update_group"
	ActionAddGroupMember     = "add_group_member"
	ActionRemoveGroupMember  = "remove_group_member"
	ActionCreateDMChat       = "create_dm_chat"
	ActionGetUser            = "get_user"
	ActionGetAllUserStatuses = "get_all_user_statuses"
)

// Server-originated actions.
const (
	ActionAuthenticated = "authenticated"
	ActionNewMessage    = "new_message"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

var (
	ErrMalformedFrame = errors.New("malformed frame")
	ErrUnknownAction  = errors.New("unknown action")
)

// ClientFrame is the envelope every inbound websocket message uses.
type ClientFrame struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

// ServerFrame is the envelope for replies and pushes. Replies carry
// Status plus Data or Error; pushes carry Payload.
type ServerFrame struct {
	Action  string `json:"action"`
	Status  string `json:"status,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// NewMessagePush is the payload delivered to a message's receiver. The
// receiver field keeps the wire spelling the frontend expects.
type NewMessagePush struct {
	SenderID       string    `json:"sender_id"`
	Content        string    `json:"content"`
	ReceiverUserID string    `json:"reciever_user_id"`
	Timestamp      time.Time `json:"timestamp"`
}

type AuthenticatePayload struct {
	UserID string `json:"user_id"`
}

type CreateMessagePayload struct {
	SenderID        string `json:"sender_id"`
	Content         string `json:"content"`
	ReceiverUserID  string `json:"reciever_user_id"`
	ReceiverGroupID string `json:"reciever_group_id"`
}

type UpdateMessagePayload struct {
	MessageID  string `json:"message_id"`
	NewContent string `json:"new_content"`
}

type DeleteMessagePayload struct {
	MessageID string `json:"message_id"`
}

type GetMessagePayload struct {
	MessageID string `json:"message_id"`
}

type GetMessagesBySenderPayload struct {
	SenderID string `json:"sender_id"`
}

type CreateGroupPayload struct {
	GroupName        string `json:"group_name"`
	GroupDescription string `json:"group_description"`
	AdminID          string `json:"admin_id"`
}

type UpdateGroupPayload struct {
	GroupID          string  `json:"group_id"`
	GroupName        *string `json:"group_name"`
	GroupDescription *string `json:"group_description"`
}

type GroupMemberPayload struct {
	GroupID  string `json:"group_id"`
	MemberID string `json:"member_id"`
}

type CreateDMChatPayload struct {
	User1ID string `json:"user1_id"`
	User2ID string `json:"user2_id"`
}

type GetUserPayload struct {
	UserID string `json:"user_id"`
}

type GetAllUserStatusesPayload struct{}

// Command is the decoded form of a client frame. Exactly one variant is
// non-nil for a known action; decoding is the only place raw JSON is
// touched, everything past this point works with typed payloads.
type Command struct {
	Action string

	Authenticate      *AuthenticatePayload
	CreateMessage     *CreateMessagePayload
	UpdateMessage     *UpdateMessagePayload
	DeleteMessage     *DeleteMessagePayload
	GetMessage        *GetMessagePayload
	GetBySender       *GetMessagesBySenderPayload
	CreateGroup       *CreateGroupPayload
	UpdateGroup       *UpdateGroupPayload
	AddGroupMember    *GroupMemberPayload
	RemoveGroupMember *GroupMemberPayload
	CreateDMChat      *CreateDMChatPayload
	GetUser           *GetUserPayload
	GetAllStatuses    *GetAllUserStatusesPayload
}

// DecodeCommand parses a raw frame into a Command. For an unknown action
// the returned Command still carries the action name so the caller can
// address its error reply.
func DecodeCommand(data []byte) (*Command, error) {
	var f ClientFrame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	payload := f.Payload
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	cmd := &Command{Action: f.Action}
	var dst any
	switch f.Action {
	case ActionAuthenticate:
		cmd.Authenticate = &AuthenticatePayload{}
		dst = cmd.Authenticate
	case ActionCreateMessage:
		cmd.CreateMessage = &CreateMessagePayload{}
		dst = cmd.CreateMessage
	case ActionUpdateMessage:
		cmd.UpdateMessage = &UpdateMessagePayload{}
		dst = cmd.UpdateMessage
	case ActionDeleteMessage:
		cmd.DeleteMessage = &DeleteMessagePayload{}
		dst = cmd.DeleteMessage
	case ActionGetMessageByID:
		cmd.GetMessage = &GetMessagePayload{}
		dst = cmd.GetMessage
	case ActionGetMessagesSender:
		cmd.GetBySender = &GetMessagesBySenderPayload{}
		dst = cmd.GetBySender
	case ActionCreateGroup:
		cmd.CreateGroup = &CreateGroupPayload{}
		dst = cmd.CreateGroup
	case ActionUpdateGroup:
		cmd.UpdateGroup = &UpdateGroupPayload{}
		dst = cmd.UpdateGroup
	case ActionAddGroupMember:
		cmd.AddGroupMember = &GroupMemberPayload{}
		dst = cmd.AddGroupMember
	case ActionRemoveGroupMember:
		cmd.RemoveGroupMember = &GroupMemberPayload{}
		dst = cmd.RemoveGroupMember
	case ActionCreateDMChat:
		cmd.CreateDMChat = &CreateDMChatPayload{}
		dst = cmd.CreateDMChat
	case ActionGetUser:
		cmd.GetUser = &GetUserPayload{}
		dst = cmd.GetUser
	case ActionGetAllUserStatuses:
		cmd.GetAllStatuses = &GetAllUserStatusesPayload{}
		dst = cmd.GetAllStatuses
	default:
		return cmd, ErrUnknownAction
	}

	if err := json.Unmarshal(payload, dst); err != nil {
		return cmd, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	return cmd, nil
}
