package model

import "fmt"

// Credentials holds the two session tokens that authenticate requests
// as the account owner. The zero value is unusable; construct one with
// NewCredentials.
type Credentials struct {
	tokenA string
	tokenB string
}

// NewCredentials returns Credentials for already-validated tokens.
func NewCredentials(tokenA, tokenB string) Credentials {
	return Credentials{tokenA: tokenA, tokenB: tokenB}
}

// TokenA returns the "a" session cookie value.
func (c Credentials) TokenA() string { return c.tokenA }

// TokenB returns the "b" session cookie value.
func (c Credentials) TokenB() string { return c.tokenB }

// IsZero reports whether no tokens are set.
func (c Credentials) IsZero() bool {
	return c.tokenA == "" && c.tokenB == ""
}

// Cookie returns the Cookie header value selecting folder.
func (c Credentials) Cookie(folder Folder) string {
	return fmt.Sprintf("a=%s; b=%s; folder=%s", c.tokenA, c.tokenB, folder)
}
