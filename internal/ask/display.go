package ask

import "strings"

// DefaultTitle is shown when neither a real nor an optimistic conversation exists.
const DefaultTitle = "New chat"

// DisplayTitle picks the active title, then the optimistic one, then DefaultTitle.
func DisplayTitle(active, optimistic *Conversation) string {
	if active != nil && strings.TrimSpace(active.Title) != "" {
		return active.Title
	}
	if optimistic != nil && strings.TrimSpace(optimistic.Title) != "" {
		return optimistic.Title
	}
	return DefaultTitle
}

// ResolveShareDisplayVisibility demotes public to server when public sharing
// is off for the server.
func ResolveShareDisplayVisibility(v Visibility, publicSharingEnabled bool) Visibility {
	if v == "" {
		return VisibilityPrivate
	}
	if v == VisibilityPublic && !publicSharingEnabled {
		return VisibilityServer
	}
	return v
}

func ShareBadgeLabel(display Visibility) string {
	if display == VisibilityPublic {
		return "Public"
	}
	return "Shared"
}

// ThinkingPlaceholder builds the transient assistant message.
func ThinkingPlaceholder(createdAt string) Message {
	return Message{
		ID:        ThinkingMessageID,
		Role:      RoleAssistant,
		Text:      "Thinking...",
		CreatedAt: createdAt,
	}
}

// DisplayMessages composes what the transcript shows. The placeholder only
// appears while a request is pending and optimistic messages exist.
func DisplayMessages(confirmed, optimistic []Message, pending bool, placeholder Message) []Message {
	out := make([]Message, 0, len(confirmed)+len(optimistic)+1)
	out = append(out, confirmed...)
	if len(optimistic) == 0 {
		return DedupeMessages(out)
	}
	caughtUp := false
	for _, m := range optimistic {
		if HasConfirmedEcho(confirmed, m) {
			caughtUp = true
			break
		}
	}
	if !caughtUp {
		out = append(out, optimistic...)
	}
	if pending {
		out = append(out, placeholder)
	}
	return DedupeMessages(out)
}
