package common

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"regexp"
	"strings"

	"github.com/bwmarrin/snowflake"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var snowflakeNode *snowflake.Node

func init() {
	var err error
	snowflakeNode, err = snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
}

// UUIDint64 returns a new snowflake id.
func UUIDint64() int64 {
	return snowflakeNode.Generate().Int64()
}

// UUID returns a new snowflake id as a string.
func UUID() string {
	return snowflakeNode.Generate().String()
}

func GetSecretSalt() string {
	salt := os.Getenv("TOUGHSTORE_SECRET_SALT")
	if salt == "" {
		salt = "toughstore"
	}
	return salt
}

// Sha256HashWithSalt hashes value with the given salt appended.
func Sha256HashWithSalt(value, salt string) string {
	h := sha256.New()
	h.Write([]byte(value + salt))
	return hex.EncodeToString(h.Sum(nil))
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a display name into a URL-safe slug.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugInvalid.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
