package firebaseauth

import (
	"context"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/riskibarqy/petanque-league/internal/domain/user"
	"github.com/riskibarqy/petanque-league/internal/platform/logging"
	"github.com/riskibarqy/petanque-league/internal/usecase"
)

type Config struct {
	ProjectID       string
	CredentialsJSON string
	CheckRevoked    bool
}

// idTokenVerifier is the part of *auth.Client the verifier depends on.
type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*auth.Token, error)
}

// Verifier resolves Firebase ID tokens into captain principals.
type Verifier struct {
	client       idTokenVerifier
	checkRevoked bool
	logger       *logging.Logger
}

func NewVerifier(ctx context.Context, cfg Config, logger *logging.Logger) (*Verifier, error) {
	var opts []option.ClientOption
	if creds := strings.TrimSpace(cfg.CredentialsJSON); creds != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(creds)))
	}

	var appCfg *firebase.Config
	if projectID := strings.TrimSpace(cfg.ProjectID); projectID != "" {
		appCfg = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, appCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase auth: %w", err)
	}

	return newVerifier(client, cfg.CheckRevoked, logger), nil
}

func newVerifier(client idTokenVerifier, checkRevoked bool, logger *logging.Logger) *Verifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &Verifier{client: client, checkRevoked: checkRevoked, logger: logger}
}

func (v *Verifier) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	var (
		decoded *auth.Token
		err     error
	)
	if v.checkRevoked {
		decoded, err = v.client.VerifyIDTokenAndCheckRevoked(ctx, token)
	} else {
		decoded, err = v.client.VerifyIDToken(ctx, token)
	}
	if err != nil {
		if isTokenRejection(err) {
			return user.Principal{}, fmt.Errorf("%w: %w", usecase.ErrUnauthorized, err)
		}
		v.logger.WarnContext(ctx, "firebase token verification failed", "error", err)
		return user.Principal{}, fmt.Errorf("%w: verify firebase token: %w", usecase.ErrDependencyUnavailable, err)
	}
	if decoded == nil || decoded.UID == "" {
		return user.Principal{}, fmt.Errorf("%w: token has no subject", usecase.ErrUnauthorized)
	}

	email := claimString(decoded.Claims, "email")
	name := claimString(decoded.Claims, "name")
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	return user.Principal{UserID: decoded.UID, Email: email, Name: name}, nil
}

func isTokenRejection(err error) bool {
	return auth.IsIDTokenInvalid(err) ||
		auth.IsIDTokenExpired(err) ||
		auth.IsIDTokenRevoked(err) ||
		auth.IsUserDisabled(err)
}

func claimString(claims map[string]interface{}, key string) string {
	value, _ := claims[key].(string)
	return strings.TrimSpace(value)
}
