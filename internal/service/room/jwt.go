package room

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims identify a display name previously used in a room. They never carry
// host status.
type Claims struct {
	RoomId string `json:"room_id"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

func (s *service) generateJWT(roomId, name string) (string, error) {
	now := s.now()
	claims := Claims{
		RoomId: roomId,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(s.secret)
}

func (s *service) parseJWT(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// tokenName returns the display name carried by tokenString if it was issued
// for roomId. Any failure yields an empty name.
func (s *service) tokenName(tokenString, roomId string) string {
	if tokenString == "" {
		return ""
	}

	claims, err := s.parseJWT(tokenString)
	if err != nil || claims.RoomId != roomId {
		return ""
	}

	return claims.Name
}

