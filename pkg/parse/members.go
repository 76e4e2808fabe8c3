package parse

import (
	"errors"
	"regexp"
	"time"
)

var (
	// ErrMemberNotFound means the token was well-formed but no member matched.
	ErrMemberNotFound = errors.New("member not found")
	// ErrInvalidMemberFormat means the token is not a mention, tag or id.
	ErrInvalidMemberFormat = errors.New("invalid member format")
)

var (
	mentionPattern = regexp.MustCompile(`^<@!?([0-9]+)>$`)
	// Snowflake ids are 2-32 digits; anything else is not worth a lookup.
	idPattern  = regexp.MustCompile(`^[0-9]{2,32}$`)
	tagPattern = regexp.MustCompile(`^.{2,32}#[0-9]{4}$`)
)

// Member is the transport-independent view of a guild member.
type Member struct {
	ID        string
	Tag       string
	Nick      string
	AvatarURL string
	Color     int
	Bot       bool
	JoinedAt  time.Time
	CreatedAt time.Time
	BoostedAt *time.Time
	// RoleMentions holds the member's role mention strings, highest first.
	RoleMentions []string
}

// MemberSource resolves members within one guild. Implementations must
// return ErrMemberNotFound (possibly wrapped) when no member matches.
type MemberSource interface {
	MemberByID(id string) (*Member, error)
	MemberByTag(tag string) (*Member, error)
}

// ResolveMember resolves a single token to a member, trying mention syntax,
// then an exact name#1234 tag, then a bare numeric id. The returned error is
// ErrInvalidMemberFormat or ErrMemberNotFound (or a wrapped source failure),
// so callers can produce a precise warning.
func ResolveMember(src MemberSource, token string) (*Member, error) {
	if m := mentionPattern.FindStringSubmatch(token); m != nil {
		return src.MemberByID(m[1])
	}
	if tagPattern.MatchString(token) {
		return src.MemberByTag(token)
	}
	if idPattern.MatchString(token) {
		return src.MemberByID(token)
	}
	return nil, ErrInvalidMemberFormat
}

// IsID reports whether token looks like a platform id.
func IsID(token string) bool {
	return idPattern.MatchString(token)
}
