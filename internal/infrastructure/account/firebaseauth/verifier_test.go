package firebaseauth

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/auth"

	"github.com/riskibarqy/petanque-league/internal/platform/logging"
	"github.com/riskibarqy/petanque-league/internal/usecase"
)

type fakeClient struct {
	token         *auth.Token
	err           error
	plainCalls    int
	revokedCalls  int
	lastSeenToken string
}

func (f *fakeClient) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	f.plainCalls++
	f.lastSeenToken = idToken
	return f.token, f.err
}

func (f *fakeClient) VerifyIDTokenAndCheckRevoked(_ context.Context, idToken string) (*auth.Token, error) {
	f.revokedCalls++
	f.lastSeenToken = idToken
	return f.token, f.err
}

func TestVerifier_MapsClaimsToPrincipal(t *testing.T) {
	t.Parallel()

	client := &fakeClient{token: &auth.Token{
		UID:    "uid-1",
		Claims: map[string]interface{}{"email": "tireur@boules.nl"},
	}}
	verifier := newVerifier(client, false, logging.NewNop())

	principal, err := verifier.VerifyAccessToken(context.Background(), " id-token ")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if principal.UserID != "uid-1" || principal.Email != "tireur@boules.nl" || principal.Name != "tireur" {
		t.Fatalf("unexpected principal: %+v", principal)
	}
	if client.lastSeenToken != "id-token" || client.plainCalls != 1 || client.revokedCalls != 0 {
		t.Fatalf("unexpected client usage: %+v", client)
	}
}

func TestVerifier_PrefersNameClaim(t *testing.T) {
	t.Parallel()

	client := &fakeClient{token: &auth.Token{
		UID:    "uid-2",
		Claims: map[string]interface{}{"email": "a@b.nl", "name": "Marie Pointeuse"},
	}}
	principal, err := newVerifier(client, false, nil).VerifyAccessToken(context.Background(), "t")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if principal.Name != "Marie Pointeuse" {
		t.Fatalf("expected name claim, got %q", principal.Name)
	}
}

func TestVerifier_CheckRevokedUsesRevocationCheck(t *testing.T) {
	t.Parallel()

	client := &fakeClient{token: &auth.Token{UID: "uid-3"}}
	if _, err := newVerifier(client, true, nil).VerifyAccessToken(context.Background(), "t"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if client.revokedCalls != 1 || client.plainCalls != 0 {
		t.Fatalf("expected revocation check, got plain=%d revoked=%d", client.plainCalls, client.revokedCalls)
	}
}

func TestVerifier_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		token  string
		client *fakeClient
		want   error
	}{
		{name: "empty token", token: " ", client: &fakeClient{}, want: usecase.ErrUnauthorized},
		{name: "no subject", token: "t", client: &fakeClient{token: &auth.Token{}}, want: usecase.ErrUnauthorized},
		{name: "upstream failure", token: "t", client: &fakeClient{err: errors.New("fetch public keys: timeout")}, want: usecase.ErrDependencyUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := newVerifier(tt.client, false, logging.NewNop()).VerifyAccessToken(context.Background(), tt.token)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
