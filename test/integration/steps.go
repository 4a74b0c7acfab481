package integration

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/doodlesbykumbi/conjur-authn/pkg/identity"
	"github.com/doodlesbykumbi/conjur-authn/pkg/model"
	"github.com/doodlesbykumbi/conjur-authn/pkg/password"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	bearer       string
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{tc: tc}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, s.tc.Reset()
	})

	// Background steps
	sc.Step(`^the authentication server is running$`, s.theServerIsRunning)
	sc.Step(`^a user "([^"]*)" with password "([^"]*)" exists$`, s.aUserExists)
	sc.Step(`^a user "([^"]*)" with password "([^"]*)" and authorities "([^"]*)" exists$`, s.aUserWithAuthoritiesExists)
	sc.Step(`^the user "([^"]*)" is (locked|disabled|expired|credentials expired)$`, s.theUserIs)

	// Password steps
	sc.Step(`^I log in as "([^"]*)" with password "([^"]*)"$`, s.iLogIn)

	// Token steps
	sc.Step(`^I hold a bearer token for "([^"]*)"$`, s.iHoldABearerToken)
	sc.Step(`^I hold a bearer token for "([^"]*)" with groups "([^"]*)" and perms "([^"]*)"$`, s.iHoldABearerTokenWithGroups)
	sc.Step(`^I hold an expired bearer token for "([^"]*)"$`, s.iHoldAnExpiredBearerToken)
	sc.Step(`^I hold a bearer token for "([^"]*)" signed by an unknown key$`, s.iHoldAForeignBearerToken)
	sc.Step(`^I call whoami$`, s.iCallWhoami)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the principal username should be "([^"]*)"$`, s.thePrincipalUsernameShouldBe)
	sc.Step(`^the principal should have authority "([^"]*)"$`, s.thePrincipalShouldHaveAuthority)
	sc.Step(`^the error code should be "([^"]*)"$`, s.theErrorCodeShouldBe)
}

func (s *StepsContext) theServerIsRunning() error {
	return nil
}

func (s *StepsContext) aUserExists(username, plain string) error {
	return s.aUserWithAuthoritiesExists(username, plain, "")
}

func (s *StepsContext) aUserWithAuthoritiesExists(username, plain, authorities string) error {
	hash, err := password.Hash(plain, 4)
	if err != nil {
		return err
	}
	user := &model.User{
		UserID:       uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Enabled:      true,
	}
	for _, a := range strings.Split(authorities, ",") {
		if a = strings.TrimSpace(a); a != "" {
			user.Authorities = append(user.Authorities, model.UserAuthority{Authority: a})
		}
	}
	return s.tc.Users.Create(context.Background(), user)
}

func (s *StepsContext) theUserIs(username, state string) error {
	column := map[string]string{
		"locked":              "locked = true",
		"disabled":            "enabled = false",
		"expired":             "expired = true",
		"credentials expired": "credentials_expired = true",
	}[state]
	return s.tc.DB.Exec("UPDATE users SET "+column+" WHERE username = ?", username).Error
}

func (s *StepsContext) iLogIn(username, plain string) error {
	req, err := http.NewRequest("POST", s.tc.Server.URL+"/authn/login", nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(username, plain)
	return s.do(req)
}

func (s *StepsContext) iHoldABearerToken(subject string) error {
	return s.sign(s.tc.SigningKey, jwt.MapClaims{"sub": subject})
}

func (s *StepsContext) iHoldABearerTokenWithGroups(subject, groups, perms string) error {
	return s.sign(s.tc.SigningKey, jwt.MapClaims{
		"sub":    subject,
		"groups": strings.Split(groups, ","),
		"perms":  perms,
	})
}

func (s *StepsContext) iHoldAnExpiredBearerToken(subject string) error {
	return s.sign(s.tc.SigningKey, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
}

func (s *StepsContext) iHoldAForeignBearerToken(subject string) error {
	wrongKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return err
	}
	return s.sign(wrongKey, jwt.MapClaims{"sub": subject})
}

func (s *StepsContext) sign(key *rsa.PrivateKey, claims jwt.MapClaims) error {
	claims["iss"] = testIssuer
	claims["jti"] = uuid.NewString()
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	t := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	t.Header["kid"] = testKeyID

	signed, err := t.SignedString(key)
	if err != nil {
		return err
	}
	s.bearer = signed
	return nil
}

func (s *StepsContext) iCallWhoami() error {
	req, err := http.NewRequest("GET", s.tc.Server.URL+"/whoami", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.bearer)
	return s.do(req)
}

func (s *StepsContext) do(req *http.Request) error {
	var err error
	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = s.response.Body.Close() }()
	s.responseBody, err = io.ReadAll(s.response.Body)
	return err
}

func (s *StepsContext) theResponseStatusShouldBe(status int) error {
	if s.response.StatusCode != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) principal() (*identity.Principal, error) {
	var body struct {
		Principal *identity.Principal `json:"principal"`
	}
	if err := json.Unmarshal(s.responseBody, &body); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if body.Principal == nil {
		return nil, fmt.Errorf("response has no principal: %s", string(s.responseBody))
	}
	return body.Principal, nil
}

func (s *StepsContext) thePrincipalUsernameShouldBe(username string) error {
	p, err := s.principal()
	if err != nil {
		return err
	}
	if p.Username != username {
		return fmt.Errorf("expected username %q, got %q", username, p.Username)
	}
	return nil
}

func (s *StepsContext) thePrincipalShouldHaveAuthority(authority string) error {
	p, err := s.principal()
	if err != nil {
		return err
	}
	if !p.HasAuthority(authority) {
		return fmt.Errorf("authority %q not in %v", authority, p.Authorities.Slice())
	}
	return nil
}

func (s *StepsContext) theErrorCodeShouldBe(code string) error {
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(s.responseBody, &body); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if body.Error.Code != code {
		return fmt.Errorf("expected error code %q, got %q", code, body.Error.Code)
	}
	return nil
}
