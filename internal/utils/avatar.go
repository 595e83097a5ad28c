package utils

import (
	"fmt"
	"net/url"
)

// AvatarURL builds the generated-avatar URL for a display name.
func AvatarURL(name string) string {
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=15a970&color=fff",
		url.QueryEscape(name))
}
