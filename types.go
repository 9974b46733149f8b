package learnhub

import (
	"context"
	"slices"
	"time"
)

// Role gates access to admin-only routes.
type Role string

const (
	// RoleUser is assigned to every account created through activation or social auth.
	RoleUser Role = "user"
	// RoleAdmin grants course, order, layout, notification, and analytics management.
	RoleAdmin Role = "admin"
)

// AssetRef points at an image held by the asset host.
type AssetRef struct {
	PublicID string `json:"public_id" bson:"public_id"`
	URL      string `json:"url" bson:"url"`
}

// Identity is the account record. The same struct is stored durably and
// mirrored into the credential store; PasswordHash never leaves the durable
// store because its JSON tag is "-".
type Identity struct {
	ID           string    `json:"_id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password,omitempty"`
	Role         Role      `json:"role" bson:"role"`
	Avatar       *AssetRef `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Courses      []string  `json:"courses" bson:"courses"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// HasCourse reports whether courseID is among the identity's purchases.
func (i *Identity) HasCourse(courseID string) bool {
	if i == nil {
		return false
	}
	return slices.Contains(i.Courses, courseID)
}

// Clone returns a deep copy.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	out := *i
	if i.Avatar != nil {
		avatar := *i.Avatar
		out.Avatar = &avatar
	}
	out.Courses = slices.Clone(i.Courses)
	return &out
}

// Candidate is the registration payload embedded in an activation ticket.
// The password is hashed before the ticket is signed, since ticket claims
// are readable by anyone holding the ticket.
type Candidate struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}

// TokenClass selects the secret and TTL used by [Engine.Verify].
type TokenClass uint8

const (
	TokenAccess TokenClass = iota
	TokenRefresh
	TokenActivation
)

func (c TokenClass) String() string {
	switch c {
	case TokenAccess:
		return "access"
	case TokenRefresh:
		return "refresh"
	case TokenActivation:
		return "activation"
	default:
		return "unknown"
	}
}

// TokenPair is an access token and a refresh token minted together.
type TokenPair struct {
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

// LoginResult is returned by Login, Activate-then-login flows, and SocialAuth.
type LoginResult struct {
	Identity *Identity
	Tokens   TokenPair
}

// RefreshResult is returned by [Engine.Refresh].
type RefreshResult struct {
	Identity *Identity
	Tokens   TokenPair
}

// RegisterInput is the self-service registration request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// SocialProfile is the identity asserted by an external sign-in provider.
type SocialProfile struct {
	Email  string
	Name   string
	Avatar string
}

// ProfileUpdate carries the optional fields of a self profile edit. Nil
// fields are left untouched.
type ProfileUpdate struct {
	Name  *string
	Email *string
}

// IdentityStore is the durable account store.
//
// Implementations return [ErrNotFound] for missing records and
// [ErrConflict] when an email is already taken.
type IdentityStore interface {
	CreateIdentity(ctx context.Context, identity *Identity) error
	FindIdentityByID(ctx context.Context, id string) (*Identity, error)
	FindIdentityByEmail(ctx context.Context, email string) (*Identity, error)
	UpdateIdentity(ctx context.Context, identity *Identity) error
	CountIdentitiesCreated(ctx context.Context, from, to time.Time) (int, error)
}

// AssetHost uploads and destroys hosted images. payload is a data URI or a
// remote URL, exactly as received from the client.
type AssetHost interface {
	Upload(ctx context.Context, payload, folder string) (AssetRef, error)
	Destroy(ctx context.Context, publicID string) error
}

// Mailer sends templated transactional mail.
type Mailer interface {
	Send(ctx context.Context, to, subject, template string, data map[string]any) error
}

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
	NeedsUpgrade(encodedHash string) (bool, error)
}
