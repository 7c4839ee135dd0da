package service

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strings"
)

const gravatarBase = "//www.gravatar.com/avatar/"

// AvatarURL returns the gravatar image URL for email: 200px, rated PG,
// falling back to the "mystery man" silhouette.
func AvatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	q := url.Values{}
	q.Set("s", "200")
	q.Set("r", "pg")
	q.Set("d", "mm")
	return gravatarBase + hex.EncodeToString(sum[:]) + "?" + q.Encode()
}
