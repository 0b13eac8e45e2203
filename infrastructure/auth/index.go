package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"rollcall.io/infrastructure/logger"
)

var ErrInvalidToken = errors.New("invalid token used")

func signingKey() []byte {
	return []byte(os.Getenv("JWT_SIGNING_KEY"))
}

func GenerateAuthToken(claimsData ClaimsData) (*string, error) {
	if claimsData.Issuer == "" {
		claimsData.Issuer = os.Getenv("JWT_ISSUER")
	}
	if claimsData.IssuedAt == 0 {
		claimsData.IssuedAt = time.Now().Unix()
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss":      claimsData.Issuer,
		"personID": claimsData.PersonID,
		"email":    claimsData.Email,
		"role":     claimsData.Role,
		"exp":      claimsData.ExpiresAt,
		"iat":      claimsData.IssuedAt,
	}).SignedString(signingKey())
	if err != nil {
		return nil, err
	}
	return &tokenString, nil
}

func DecodeAuthToken(tokenString string) (*ClaimsData, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return signingKey(), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrSignatureInvalid) {
			return nil, errors.New("invalid token signature used")
		}
		logger.Error("error decoding jwt", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !token.Valid || !ok {
		return nil, ErrInvalidToken
	}
	if issuer := os.Getenv("JWT_ISSUER"); issuer != "" && !claims.VerifyIssuer(issuer, true) {
		return nil, ErrInvalidToken
	}
	personID, _ := claims["personID"].(string)
	if personID == "" {
		return nil, ErrInvalidToken
	}
	data := &ClaimsData{PersonID: personID}
	data.Issuer, _ = claims["iss"].(string)
	data.Email, _ = claims["email"].(string)
	data.Role, _ = claims["role"].(string)
	if exp, ok := claims["exp"].(float64); ok {
		data.ExpiresAt = int64(exp)
	}
	if iat, ok := claims["iat"].(float64); ok {
		data.IssuedAt = int64(iat)
	}
	return data, nil
}
