package usecase

import "strings"

const DefaultAvatarBaseURL = "https://sleepercdn.com/avatars/thumbs"

// AvatarURL turns an upstream avatar id into an image URL. Full URLs pass through.
func AvatarURL(baseURL, avatarID string) string {
	avatarID = strings.TrimSpace(avatarID)
	if avatarID == "" {
		return ""
	}
	if strings.HasPrefix(avatarID, "http://") || strings.HasPrefix(avatarID, "https://") {
		return avatarID
	}

	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultAvatarBaseURL
	}
	return baseURL + "/" + avatarID
}
