//go:build integration

// Package steps holds the godog step definitions for the API feature tests.
package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"

	"github.com/multibook/backend/config"
	"github.com/multibook/backend/internal/infra/dependency"
	"github.com/multibook/backend/internal/integration/adapters"
	"github.com/multibook/backend/internal/integration/email"
	"github.com/multibook/backend/internal/integration/persistence/model"
	"github.com/multibook/backend/test/integration/mock"
)

const testPassword = "Sup3rSecret!"

var (
	placeholderPattern = regexp.MustCompile(`\{\{([a-z_]+)\}\}`)
	confirmPattern     = regexp.MustCompile(`token=([0-9a-f]+)`)
)

var (
	dbMock    *mock.Db
	redisConn *redis.Client
	googleApi *mock.ApiMock
)

type testContext struct {
	cfg      *config.Config
	injector *dependency.Injector
	sender   *email.RecordingSender
	server   *httptest.Server
	client   *http.Client

	lastStatus int
	lastBody   []byte
	lastJSON   any

	accessToken string
	vars        map[string]string
}

// InitializeTestSuite prepares the shared database, Redis and fake Google server.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		for key, value := range map[string]string{
			"ENV":             "test",
			"JWT_SECRET":      "integration-secret",
			"LEDGER_CURRENCY": "USD",
			"APP_BASE_URL":    "http://app.test",
		} {
			_ = os.Setenv(key, value)
		}

		dbMock = mock.NewDb("multibook_integration", model.AllModels())
		redisConn = mock.NewRedis()

		googleApi = mock.NewApiServer()
		googleApi.Start()
	})

	ctx.AfterSuite(func() {
		googleApi.Close()
	})
}

// InitializeScenario registers the steps and gives every scenario a fresh server.
func InitializeScenario(sc *godog.ScenarioContext) {
	tc := &testContext{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, tc.reset()
	})

	sc.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		if tc.server != nil {
			tc.server.Close()
		}
		return ctx, nil
	})

	sc.Step(`^the API is running$`, tc.theAPIIsRunning)
	sc.Step(`^I am signed in as "([^"]*)"$`, tc.iAmSignedInAs)
	sc.Step(`^I send a "(GET|POST|PUT|PATCH|DELETE)" request to "([^"]*)"$`, tc.iSendARequestTo)
	sc.Step(`^I send a "(GET|POST|PUT|PATCH|DELETE)" request to "([^"]*)" with body:$`, tc.iSendARequestToWithBody)
	sc.Step(`^I create a business "([^"]*)" with color "([^"]*)" as "([^"]*)"$`, tc.iCreateABusiness)
	sc.Step(`^I record an? "(income|expense)" of "([^"]*)" for "([^"]*)" in "([^"]*)" on "([^"]*)" as "([^"]*)"$`, tc.iRecordATransaction)
	sc.Step(`^the response status should be (\d+)$`, tc.theResponseStatusShouldBe)
	sc.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, tc.theResponseFieldShouldBe)
	sc.Step(`^the response field "([^"]*)" should have (\d+) items?$`, tc.theResponseFieldShouldHaveItems)
	sc.Step(`^the response field "([^"]*)" should not be empty$`, tc.theResponseFieldShouldNotBeEmpty)
	sc.Step(`^I store the response field "([^"]*)" as "([^"]*)"$`, tc.iStoreTheResponseFieldAs)
	sc.Step(`^the table "([^"]*)" should contain (\d+) rows?$`, tc.theTableShouldContainRows)
	sc.Step(`^a confirmation email should have been sent to "([^"]*)"$`, tc.aConfirmationEmailShouldHaveBeenSentTo)
	sc.Step(`^Google signs in "([^"]*)" with subject "([^"]*)" and name "([^"]*)"$`, tc.googleSignsIn)
	sc.Step(`^Google rejects the authorization code$`, tc.googleRejectsTheCode)
	sc.Step(`^the ledger snapshot cache should hold (\d+) entr(?:y|ies)$`, tc.theSnapshotCacheShouldHold)
}

func (tc *testContext) reset() error {
	if err := dbMock.ClearDB(); err != nil {
		return err
	}
	if err := mock.ClearRedis(redisConn); err != nil {
		return err
	}
	googleApi.Reset()

	tc.cfg = config.Load()
	tc.sender = email.NewRecordingSender()

	google := adapters.NewGoogleOAuthProvider(adapters.GoogleOAuthConfig{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		RedirectURL:  "http://app.test/auth/google/callback",
	}, adapters.WithGoogleEndpoints(oauth2.Endpoint{
		AuthURL:  googleApi.GetUrl() + "/auth",
		TokenURL: googleApi.GetUrl() + "/token",
	}, googleApi.GetUrl()+"/"))

	injector, err := dependency.NewInjector(tc.cfg, dbMock.DbConn,
		dependency.WithRedis(redisConn),
		dependency.WithEmailSender(tc.sender),
		dependency.WithOAuthProvider(google),
	)
	if err != nil {
		return fmt.Errorf("failed to build injector: %w", err)
	}
	tc.injector = injector
	tc.server = httptest.NewServer(injector.Router.Setup("test"))

	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	tc.client = &http.Client{Jar: jar}

	tc.lastStatus = 0
	tc.lastBody = nil
	tc.lastJSON = nil
	tc.accessToken = ""
	tc.vars = map[string]string{}
	return nil
}

func (tc *testContext) theAPIIsRunning() error {
	if err := tc.send(http.MethodGet, "/health", ""); err != nil {
		return err
	}
	if tc.lastStatus != http.StatusOK {
		return fmt.Errorf("expected health status 200, got %d", tc.lastStatus)
	}
	return nil
}

// iAmSignedInAs registers, confirms and signs in a user through the public endpoints.
func (tc *testContext) iAmSignedInAs(address string) error {
	body := fmt.Sprintf(`{"email":%q,"name":"Test User","password":%q,"confirm_password":%q}`, address, testPassword, testPassword)
	if err := tc.send(http.MethodPost, "/api/v1/auth/register", body); err != nil {
		return err
	}
	if tc.lastStatus != http.StatusCreated {
		return fmt.Errorf("register failed with %d: %s", tc.lastStatus, tc.lastBody)
	}
	if err := tc.aConfirmationEmailShouldHaveBeenSentTo(address); err != nil {
		return err
	}
	if err := tc.send(http.MethodGet, "/api/v1/auth/confirm?token="+tc.vars["confirmation_token"], ""); err != nil {
		return err
	}
	if tc.lastStatus != http.StatusOK {
		return fmt.Errorf("confirmation failed with %d: %s", tc.lastStatus, tc.lastBody)
	}
	return tc.storeTokens()
}

func (tc *testContext) storeTokens() error {
	access, err := tc.field("access_token")
	if err != nil {
		return err
	}
	tc.accessToken = access
	tc.vars["access_token"] = access
	if refresh, err := tc.field("refresh_token"); err == nil {
		tc.vars["refresh_token"] = refresh
	}
	return nil
}

func (tc *testContext) iSendARequestTo(method, path string) error {
	return tc.send(method, path, "")
}

func (tc *testContext) iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	if err := tc.send(method, path, body.Content); err != nil {
		return err
	}
	if strings.HasSuffix(path, "/auth/login") || strings.HasSuffix(path, "/auth/google/callback") {
		if tc.lastStatus == http.StatusOK || tc.lastStatus == http.StatusCreated {
			return tc.storeTokens()
		}
	}
	return nil
}

func (tc *testContext) iCreateABusiness(name, color, alias string) error {
	body := fmt.Sprintf(`{"name":%q,"color":%q}`, name, color)
	if err := tc.send(http.MethodPost, "/api/v1/businesses", body); err != nil {
		return err
	}
	if tc.lastStatus != http.StatusCreated {
		return fmt.Errorf("create business failed with %d: %s", tc.lastStatus, tc.lastBody)
	}
	return tc.iStoreTheResponseFieldAs("id", alias)
}

func (tc *testContext) iRecordATransaction(kind, amount, description, business, date, alias string) error {
	businessID, ok := tc.vars[business]
	if !ok {
		return fmt.Errorf("unknown business alias %q", business)
	}
	body := fmt.Sprintf(`{"date":%q,"description":%q,"category":"General","type":%q,"amount":%s,"business_id":%q}`,
		date, description, kind, amount, businessID)
	if err := tc.send(http.MethodPost, "/api/v1/transactions", body); err != nil {
		return err
	}
	if tc.lastStatus != http.StatusCreated {
		return fmt.Errorf("create transaction failed with %d: %s", tc.lastStatus, tc.lastBody)
	}
	return tc.iStoreTheResponseFieldAs("id", alias)
}

func (tc *testContext) send(method, path, body string) error {
	path = tc.expand(path)
	body = tc.expand(body)

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, tc.server.URL+path, reader)
	if err != nil {
		return err
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if tc.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+tc.accessToken)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	tc.lastStatus = resp.StatusCode
	tc.lastBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	tc.lastJSON = nil
	if len(tc.lastBody) > 0 {
		_ = json.Unmarshal(tc.lastBody, &tc.lastJSON)
	}
	return nil
}

func (tc *testContext) expand(s string) string {
	return placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		if value, ok := tc.vars[name]; ok {
			return value
		}
		return match
	})
}

func (tc *testContext) theResponseStatusShouldBe(expected int) error {
	if tc.lastStatus != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, tc.lastStatus, tc.lastBody)
	}
	return nil
}

func (tc *testContext) theResponseFieldShouldBe(path, expected string) error {
	actual, err := tc.field(path)
	if err != nil {
		return err
	}
	if actual != tc.expand(expected) {
		return fmt.Errorf("expected %s to be %q, got %q", path, tc.expand(expected), actual)
	}
	return nil
}

func (tc *testContext) theResponseFieldShouldHaveItems(path string, expected int) error {
	value, err := tc.lookup(path)
	if err != nil {
		return err
	}
	items, ok := value.([]any)
	if !ok {
		if value == nil && expected == 0 {
			return nil
		}
		return fmt.Errorf("expected %s to be a list, got %T", path, value)
	}
	if len(items) != expected {
		return fmt.Errorf("expected %s to have %d items, got %d", path, expected, len(items))
	}
	return nil
}

func (tc *testContext) theResponseFieldShouldNotBeEmpty(path string) error {
	actual, err := tc.field(path)
	if err != nil {
		return err
	}
	if actual == "" || actual == "null" {
		return fmt.Errorf("expected %s to be set", path)
	}
	return nil
}

func (tc *testContext) iStoreTheResponseFieldAs(path, name string) error {
	value, err := tc.field(path)
	if err != nil {
		return err
	}
	tc.vars[name] = value
	return nil
}

func (tc *testContext) field(path string) (string, error) {
	value, err := tc.lookup(path)
	if err != nil {
		return "", err
	}
	switch v := value.(type) {
	case nil:
		return "null", nil
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		encoded, _ := json.Marshal(v)
		return string(encoded), nil
	}
}

// lookup walks a dotted path such as "businesses.0.name" through the last JSON body.
func (tc *testContext) lookup(path string) (any, error) {
	current := tc.lastJSON
	for _, part := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("field %q not found in %s", path, tc.lastBody)
			}
			current = next
		case []any:
			index, err := strconv.Atoi(part)
			if err != nil || index < 0 || index >= len(node) {
				return nil, fmt.Errorf("index %q out of range in %q", part, path)
			}
			current = node[index]
		default:
			return nil, fmt.Errorf("cannot descend into %q of %q", part, path)
		}
	}
	return current, nil
}

func (tc *testContext) theTableShouldContainRows(table string, expected int) error {
	m, ok := dbMock.GetModel(table)
	if !ok {
		return fmt.Errorf("unknown table %q", table)
	}
	var count int64
	if err := dbMock.DbConn.Model(m).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(expected) {
		return fmt.Errorf("expected %d rows in %s, got %d", expected, table, count)
	}
	return nil
}

func (tc *testContext) aConfirmationEmailShouldHaveBeenSentTo(address string) error {
	tc.injector.EmailWorker.ProcessNow(context.Background())

	for _, sent := range tc.sender.Sent() {
		if sent.To != address {
			continue
		}
		match := confirmPattern.FindStringSubmatch(sent.Text)
		if match == nil {
			return fmt.Errorf("confirmation email to %s has no token link", address)
		}
		tc.vars["confirmation_token"] = match[1]
		return nil
	}
	return fmt.Errorf("no email was sent to %s", address)
}

func (tc *testContext) googleSignsIn(address, subject, name string) error {
	googleApi.SetResponse(http.MethodPost, "/token", http.StatusOK, map[string]any{
		"access_token": "google-access-token",
		"token_type":   "Bearer",
		"expires_in":   3600,
	})
	googleApi.SetResponse(http.MethodGet, "/oauth2/v2/userinfo", http.StatusOK, map[string]any{
		"id":             subject,
		"email":          address,
		"verified_email": true,
		"name":           name,
	})
	return nil
}

func (tc *testContext) googleRejectsTheCode() error {
	googleApi.SetResponse(http.MethodPost, "/token", http.StatusBadRequest, map[string]any{
		"error":             "invalid_grant",
		"error_description": "Bad Request",
	})
	return nil
}

func (tc *testContext) theSnapshotCacheShouldHold(expected int) error {
	count := 0
	for _, key := range mock.RedisKeys() {
		if strings.HasPrefix(key, "ledger:snapshot:") {
			count++
		}
	}
	if count != expected {
		return fmt.Errorf("expected %d cached snapshots, got %d", expected, count)
	}
	return nil
}
