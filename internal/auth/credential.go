package auth

import (
	"time"

	"golang.org/x/oauth2"

	"github.com/alexanderramin/meetmeter/internal/domain"
)

// TokenFromCredential rebuilds the OAuth token stored for a user.
func TokenFromCredential(c *domain.UserCredential) *oauth2.Token {
	if c == nil {
		return nil
	}
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    c.TokenType,
		Expiry:       c.Expiry,
	}
}

// CredentialFromToken converts tok into a storable credential for email.
// Google omits the refresh token on most exchanges and refreshes, so the
// previous one is carried over when tok has none.
func CredentialFromToken(email string, tok *oauth2.Token, prev *domain.UserCredential) *domain.UserCredential {
	cred := &domain.UserCredential{
		Email:        email,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Expiry:       tok.Expiry.UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if cred.RefreshToken == "" && prev != nil {
		cred.RefreshToken = prev.RefreshToken
	}
	return cred
}
