package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	appErrors "github.com/hiredeck/scheduling-api/pkg/errors"
)

const issuer = "scheduling-api"

// Action is the decision encoded into a confirmation token.
type Action string

const (
	ActionAccept Action = "accept"
	ActionReject Action = "reject"
)

// Claims is the signed payload carried by a confirmation link. The attempt ID
// fences the token to one scheduling round; expiry is enforced by the JWT
// registered claims.
type Claims struct {
	SlotID      string    `json:"slot_id"`
	CandidateID string    `json:"candidate_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	RequestedBy string    `json:"requested_by"`
	AttemptID   string    `json:"attempt_id"`
	Action      Action    `json:"action"`
	jwt.RegisteredClaims
}

// Codec signs and verifies confirmation tokens.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec constructs a codec with the provided secret and token TTL.
func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// Encode mints a signed token for one (slot, candidate, action) pairing.
func (c *Codec) Encode(slotID, candidateID, requestedBy, attemptID string, scheduledAt time.Time, action Action) (string, time.Time, error) {
	if len(c.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	if slotID == "" || candidateID == "" || attemptID == "" {
		return "", time.Time{}, fmt.Errorf("slot, candidate and attempt ids required")
	}

	now := time.Now().UTC()
	expiresAt := now.Add(c.ttl)
	claims := Claims{
		SlotID:      slotID,
		CandidateID: candidateID,
		ScheduledAt: scheduledAt.UTC(),
		RequestedBy: requestedBy,
		AttemptID:   attemptID,
		Action:      action,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign confirmation token: %w", err)
	}
	return signed, expiresAt, nil
}

// Decode verifies a token's signature and expiry and returns the claims.
// Expired tokens are distinguished from malformed or tampered ones.
func (c *Codec) Decode(raw string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return c.secret, nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, appErrors.Wrap(err, appErrors.ErrTokenExpired.Code, appErrors.ErrTokenExpired.Status, appErrors.ErrTokenExpired.Message)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrTokenMalformed.Code, appErrors.ErrTokenMalformed.Status, appErrors.ErrTokenMalformed.Message)
	}
	if !parsed.Valid {
		return nil, appErrors.Clone(appErrors.ErrTokenMalformed, "")
	}
	if claims.Action != ActionAccept && claims.Action != ActionReject {
		return nil, appErrors.Clone(appErrors.ErrTokenMalformed, "unknown confirmation action")
	}
	return claims, nil
}
