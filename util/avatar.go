package util

import "fmt"

// GenerateAvatarUrl builds a deterministic generated avatar for a handle.
func GenerateAvatarUrl(seed string, size int) string {
	return fmt.Sprintf("https://avatars.dicebear.com/api/bottts/%v.svg?size=%v", seed, size)
}
