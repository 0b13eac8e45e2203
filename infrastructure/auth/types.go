package auth

type ClaimsData struct {
	Issuer    string
	PersonID  string
	Email     string
	Role      string
	ExpiresAt int64
	IssuedAt  int64
}
