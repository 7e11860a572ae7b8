package services

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/happyhourhq/happyhour-core/internal/app/errors"
	"github.com/happyhourhq/happyhour-core/internal/app/models"
	"github.com/happyhourhq/happyhour-core/internal/infrastructures"
)

// IdentityProvider resolves a bearer token to the authenticated principal.
// Authentication itself is delegated to the external identity service.
type IdentityProvider interface {
	GetCurrentUser(accessToken string) (*models.Principal, error)
}

type SessionService struct {
	httpClient *http.Client
}

func NewSessionService() *SessionService {
	return &SessionService{
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *SessionService) GetCurrentUser(accessToken string) (*models.Principal, error) {
	if accessToken == "" {
		return nil, errors.NewUnauthorizedError("Access token is required")
	}

	req, err := http.NewRequest(http.MethodGet, infrastructures.Config.IDENTITY_BASE_URL+"/users/me", nil)
	if err != nil {
		return nil, err
	}

	// Check if accessToken is Bearer token
	if strings.HasPrefix(accessToken, "Bearer ") {
		req.Header.Set("Authorization", accessToken)
	} else {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var webResponse models.WebResponse[models.Principal]
	if err := json.NewDecoder(resp.Body).Decode(&webResponse); err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to decode identity response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewUnauthorizedError(webResponse.Message)
	}

	return &webResponse.Data, nil
}
