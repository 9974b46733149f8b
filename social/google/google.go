// Package google verifies Google Sign-In ID tokens and turns them into a
// learnhub.SocialProfile.
package google

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/learnhub"
	"google.golang.org/api/idtoken"
)

var (
	ErrInvalidIDToken   = errors.New("invalid google id token")
	ErrEmailNotVerified = errors.New("google account email is not verified")
)

type validateFunc func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// Verifier checks ID tokens issued for one OAuth client id.
type Verifier struct {
	clientID string
	validate validateFunc
}

func NewVerifier(clientID string) (*Verifier, error) {
	if clientID == "" {
		return nil, errors.New("google: client id is required")
	}
	return &Verifier{clientID: clientID, validate: idtoken.Validate}, nil
}

// Profile validates token and extracts the account email, name and picture.
func (v *Verifier) Profile(ctx context.Context, token string) (learnhub.SocialProfile, error) {
	if token == "" {
		return learnhub.SocialProfile{}, ErrInvalidIDToken
	}
	payload, err := v.validate(ctx, token, v.clientID)
	if err != nil {
		return learnhub.SocialProfile{}, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return learnhub.SocialProfile{}, fmt.Errorf("%w: no email claim", ErrInvalidIDToken)
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return learnhub.SocialProfile{}, ErrEmailNotVerified
	}
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)
	return learnhub.SocialProfile{Email: email, Name: name, Avatar: picture}, nil
}
