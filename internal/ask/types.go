package ask

// ListMode selects which conversation collection the pane shows.
type ListMode string

const (
	ModeMine     ListMode = "mine"
	ModeShared   ListMode = "shared"
	ModeArchived ListMode = "archived"
)

// ParseListMode maps a query value onto a ListMode. Unknown values fall back to mine.
func ParseListMode(s string) (ListMode, bool) {
	switch ListMode(s) {
	case ModeMine, ModeShared, ModeArchived:
		return ListMode(s), true
	case "":
		return ModeMine, true
	default:
		return ModeMine, false
	}
}

type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityServer  Visibility = "server"
	VisibilityPublic  Visibility = "public"
)

// Valid reports whether v is one of the three known visibilities.
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPrivate, VisibilityServer, VisibilityPublic:
		return true
	}
	return false
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

const (
	// PendingConversationID marks a conversation that only exists locally.
	PendingConversationID = "pending"
	// ThinkingMessageID marks the transient "awaiting answer" placeholder.
	ThinkingMessageID = "thinking"
	// OptimisticMessagePrefix prefixes ids of locally synthesized user messages.
	OptimisticMessagePrefix = "optimistic-"
)

// Conversation is a full replace unit: callers never patch single fields
// of a cached conversation.
type Conversation struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Summary          string     `json:"summary"`
	CreatedAt        string     `json:"createdAt"`
	UpdatedAt        string     `json:"updatedAt"`
	Visibility       Visibility `json:"visibility,omitempty"`
	ArchivedAt       string     `json:"archivedAt,omitempty"`
	ArchivedByUserID string     `json:"archivedByUserId,omitempty"`
	SharedAt         string     `json:"sharedAt,omitempty"`
	SharedByUserID   string     `json:"sharedByUserId,omitempty"`
	SharedByTag      string     `json:"sharedByTag,omitempty"`
}

func (c Conversation) Archived() bool {
	return c.ArchivedAt != ""
}

// EffectiveVisibility treats a missing visibility as private.
func (c Conversation) EffectiveVisibility() Visibility {
	if c.Visibility == "" {
		return VisibilityPrivate
	}
	return c.Visibility
}

type Message struct {
	ID        string `json:"id"`
	Role      Role   `json:"role"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
	// ClientRequestID is echoed by servers that support request correlation.
	ClientRequestID string `json:"clientRequestId,omitempty"`
}

func (m Message) IsThinking() bool {
	return m.ID == ThinkingMessageID
}

// SharedConversationSummary is the read-only row shown in the shared list.
type SharedConversationSummary struct {
	ConversationID string `json:"conversationId"`
	Title          string `json:"title"`
	Summary        string `json:"summary"`
	UpdatedAt      string `json:"updatedAt"`
	OwnerTag       string `json:"ownerTag"`
}

// Thread is a conversation together with its persisted messages.
type Thread struct {
	Conversation Conversation `json:"conversation"`
	Messages     []Message    `json:"messages"`
}
