package jwt

import (
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SigningMethod selects the JWS algorithm used by a [Manager].
type SigningMethod string

const (
	// MethodHS256 signs with a shared secret. This is the default for every token class.
	MethodHS256 SigningMethod = "hs256"
	// MethodEd25519 signs with an Ed25519 key pair.
	MethodEd25519 SigningMethod = "ed25519"
)

var (
	// ErrExpired is returned when a token is well formed and correctly signed but past its expiry.
	ErrExpired = errors.New("token expired")
	// ErrInvalid is returned for every other verification failure.
	ErrInvalid = errors.New("token invalid")
)

// Config configures one token class. Each class (access, refresh,
// activation) gets its own Manager so secrets and TTLs never mix.
type Config struct {
	TTL           time.Duration
	SigningMethod SigningMethod
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Audience      string
	Leeway        time.Duration

	// Now overrides the clock used for issuing and verifying. Nil means time.Now.
	Now func() time.Time
}

// Manager signs and verifies tokens of a single class.
//
// Manager is immutable after construction and safe for concurrent use.
type Manager struct {
	config Config
}

// SessionClaims is carried by access and refresh tokens. Only the identity id
// is embedded; role and profile are always loaded from the credential store.
type SessionClaims struct {
	ID string `json:"id"`
	jwt.RegisteredClaims
}

// ActivationClaims is carried by activation tickets: the candidate account
// fields and the code delivered out of band.
type ActivationClaims struct {
	User           json.RawMessage `json:"user"`
	ActivationCode string          `json:"activationCode"`
	jwt.RegisteredClaims
}

// NewManager validates cfg and returns a Manager for it.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.TTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	if cfg.SigningMethod == "" {
		cfg.SigningMethod = MethodHS256
	}
	cfg.Issuer = strings.TrimSpace(cfg.Issuer)

	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.PrivateKey) == 0 {
			return nil, errors.New("hs256 requires a secret")
		}
	case MethodEd25519:
		if len(cfg.PrivateKey) > 0 {
			if _, err := parseEdPrivateKey(cfg.PrivateKey); err != nil {
				return nil, err
			}
		}
		if len(cfg.PublicKey) == 0 {
			return nil, errors.New("ed25519 requires public key")
		}
		if _, err := parseEdPublicKey(cfg.PublicKey); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("unsupported signing method")
	}

	return &Manager{config: cfg}, nil
}

// TTL returns the lifetime stamped on issued tokens.
func (m *Manager) TTL() time.Duration {
	return m.config.TTL
}

func (m *Manager) now() time.Time {
	if m.config.Now != nil {
		return m.config.Now()
	}
	return time.Now()
}

// CreateSession issues a token carrying id and returns it together with its
// expiry instant.
func (m *Manager) CreateSession(id string) (string, time.Time, error) {
	if id == "" {
		return "", time.Time{}, errors.New("empty identity id")
	}

	now := m.now()
	expiresAt := now.Add(m.config.TTL)
	claims := SessionClaims{
		ID:               id,
		RegisteredClaims: m.registered(now, expiresAt),
	}

	token, err := m.sign(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// ParseSession verifies signature, algorithm, and expiry and returns the
// embedded claims. Failures wrap [ErrExpired] or [ErrInvalid].
func (m *Manager) ParseSession(tokenStr string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := m.parse(tokenStr, claims); err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("%w: missing id claim", ErrInvalid)
	}
	return claims, nil
}

// CreateActivation issues an activation ticket embedding user and code.
func (m *Manager) CreateActivation(user json.RawMessage, code string) (string, error) {
	if len(user) == 0 || code == "" {
		return "", errors.New("activation ticket requires user and code")
	}

	now := m.now()
	claims := ActivationClaims{
		User:             user,
		ActivationCode:   code,
		RegisteredClaims: m.registered(now, now.Add(m.config.TTL)),
	}
	return m.sign(claims)
}

// ParseActivation verifies an activation ticket. Failures wrap [ErrExpired]
// or [ErrInvalid].
func (m *Manager) ParseActivation(tokenStr string) (*ActivationClaims, error) {
	claims := &ActivationClaims{}
	if err := m.parse(tokenStr, claims); err != nil {
		return nil, err
	}
	if len(claims.User) == 0 || claims.ActivationCode == "" {
		return nil, fmt.Errorf("%w: incomplete activation claims", ErrInvalid)
	}
	return claims, nil
}

func (m *Manager) registered(now, expiresAt time.Time) jwt.RegisteredClaims {
	rc := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    m.config.Issuer,
	}
	if m.config.Audience != "" {
		rc.Audience = jwt.ClaimStrings{m.config.Audience}
	}
	return rc
}

func (m *Manager) sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(m.getMethod(), claims)

	signKey, err := m.getSignKey()
	if err != nil {
		return "", err
	}
	return token.SignedString(signKey)
}

func (m *Manager) parse(tokenStr string, claims jwt.Claims) error {
	if tokenStr == "" {
		return fmt.Errorf("%w: empty token", ErrInvalid)
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{m.getMethod().Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}
	if m.config.Audience != "" {
		options = append(options, jwt.WithAudience(m.config.Audience))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != m.getMethod().Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return m.getVerifyKey()
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return fmt.Errorf("%w: %v", ErrExpired, err)
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !token.Valid {
		return fmt.Errorf("%w: %v", ErrInvalid, jwt.ErrTokenInvalidClaims)
	}
	return nil
}

func (m *Manager) getMethod() jwt.SigningMethod {
	switch m.config.SigningMethod {
	case MethodEd25519:
		return jwt.SigningMethodEdDSA
	default:
		return jwt.SigningMethodHS256
	}
}

func (m *Manager) getSignKey() (interface{}, error) {
	switch m.config.SigningMethod {
	case MethodEd25519:
		if len(m.config.PrivateKey) == 0 {
			return nil, errors.New("manager is verify-only")
		}
		return parseEdPrivateKey(m.config.PrivateKey)
	default:
		return m.config.PrivateKey, nil
	}
}

func (m *Manager) getVerifyKey() (interface{}, error) {
	switch m.config.SigningMethod {
	case MethodEd25519:
		return parseEdPublicKey(m.config.PublicKey)
	default:
		return m.config.PrivateKey, nil
	}
}

func parseEdPrivateKey(key []byte) (ed25519.PrivateKey, error) {
	if len(key) == ed25519.PrivateKeySize {
		return ed25519.PrivateKey(key), nil
	}
	parsed, err := jwt.ParseEdPrivateKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 private key")
	}
	edKey, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("invalid ed25519 private key type")
	}
	return edKey, nil
}

func parseEdPublicKey(key []byte) (ed25519.PublicKey, error) {
	if len(key) == ed25519.PublicKeySize {
		return ed25519.PublicKey(key), nil
	}
	parsed, err := jwt.ParseEdPublicKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 public key")
	}
	edKey, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("invalid ed25519 public key type")
	}
	return edKey, nil
}
