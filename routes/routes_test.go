package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"persian-pages/config"
	"persian-pages/database/dbtest"
	"persian-pages/logger"
	"persian-pages/models/category"
	"persian-pages/models/listing"
	"persian-pages/models/user"
	"persian-pages/services/claim"
	otpService "persian-pages/services/otp"
	"persian-pages/services/scrape"
	"persian-pages/services/verification"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const (
	testSecret    = "route-test-secret"
	testScrapeKey = "scrape-key"
	listingPhone  = "+14167360123"
)

type captureMessenger struct {
	mu    sync.Mutex
	codes map[string]string
}

func (m *captureMessenger) SendSMS(_ context.Context, to, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[to] = code
	return nil
}

func (m *captureMessenger) SendVoiceCall(ctx context.Context, to, code string) error {
	return m.SendSMS(ctx, to, code)
}

func (m *captureMessenger) last(to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[to]
}

type envelope struct {
	Message string          `json:"message"`
	Status  int             `json:"status"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	app  *fiber.App
	db   *gorm.DB
	msgr *captureMessenger
	svc  *Services
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := dbtest.New(t)
	cfg := config.Config{JWTSecret: testSecret, ScrapeAPIKey: testScrapeKey}

	msgr := &captureMessenger{codes: map[string]string{}}
	verifier := verification.NewService(db, otpService.NewOTPService(msgr), verification.NewTokenIssuer(testSecret))
	svc := &Services{
		Verification: verifier,
		Claims:       claim.NewService(db, verifier),
		Jobs: scrape.NewJobRunner(scrape.NewMemoryJobStore(), func(ctx context.Context, opts scrape.Options) (*scrape.Result, error) {
			return &scrape.Result{City: "Toronto", Listings: []string{}}, nil
		}),
		AsyncLogger: logger.NewAsyncLogger(db),
	}

	app := fiber.New()
	SetupRoutes(app, db, cfg, svc)
	t.Cleanup(svc.Shutdown)

	return &testServer{app: app, db: db, msgr: msgr, svc: svc}
}

func (s *testServer) user(t *testing.T, name string) (*user.User, string) {
	t.Helper()
	u := &user.User{Name: name}
	if err := s.db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  u.ID,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign session token: %v", err)
	}
	return u, token
}

func (s *testServer) scrapedListing(t *testing.T) *listing.Listing {
	t.Helper()
	var cat category.Category
	if err := s.db.Where("slug = ?", "restaurant").First(&cat).Error; err != nil {
		t.Fatalf("load category: %v", err)
	}
	phone := listingPhone
	l := &listing.Listing{
		Slug:       "shandiz-toronto",
		Title:      "شاندیز",
		CategoryID: cat.ID,
		City:       "تورنتو",
		Country:    "کانادا",
		Phone:      &phone,
		Source:     "scraped",
	}
	if err := s.db.Create(l).Error; err != nil {
		t.Fatalf("create listing: %v", err)
	}
	return l
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}, headers ...string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, raw, err)
		}
	}
	return resp.StatusCode, env
}

func TestVerifyAndClaimFlow(t *testing.T) {
	s := newTestServer(t)
	l := s.scrapedListing(t)
	_, token := s.user(t, "owner")
	_, rivalToken := s.user(t, "rival")

	status, env := s.do(t, http.MethodGet, "/api/verification/phone-hint/"+l.ID, token, nil)
	if status != http.StatusOK {
		t.Fatalf("phone hint: status %d %+v", status, env)
	}
	var hint struct {
		MaskedPhone string `json:"maskedPhone"`
	}
	json.Unmarshal(env.Data, &hint)
	if hint.MaskedPhone != "********0123" {
		t.Fatalf("unexpected masked phone %q", hint.MaskedPhone)
	}

	status, env = s.do(t, http.MethodPost, "/api/verification/send", token, map[string]string{
		"phone": "+1 416 736 0123", "channel": "sms", "listingId": l.ID,
	})
	if status != http.StatusOK {
		t.Fatalf("send: status %d %+v", status, env)
	}
	var sent struct {
		ExpiresAt string `json:"expiresAt"`
	}
	json.Unmarshal(env.Data, &sent)
	if _, err := time.Parse(time.RFC3339, sent.ExpiresAt); err != nil {
		t.Fatalf("expiresAt is not RFC3339: %q", sent.ExpiresAt)
	}

	status, _ = s.do(t, http.MethodPost, "/api/verification/confirm", token, map[string]string{
		"phone": listingPhone, "code": "000000x",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("wrong code: expected 400, got %d", status)
	}

	status, env = s.do(t, http.MethodPost, "/api/verification/confirm", token, map[string]string{
		"phone": listingPhone, "code": s.msgr.last(listingPhone),
	})
	if status != http.StatusOK {
		t.Fatalf("confirm: status %d %+v", status, env)
	}
	var confirmed struct {
		VerificationToken string `json:"verificationToken"`
	}
	json.Unmarshal(env.Data, &confirmed)
	if confirmed.VerificationToken == "" {
		t.Fatalf("no verification token returned")
	}

	status, _ = s.do(t, http.MethodPost, "/api/listings/"+l.ID+"/claim", rivalToken, map[string]string{
		"verificationToken": confirmed.VerificationToken,
	})
	if status != http.StatusForbidden {
		t.Fatalf("claim with another user's token: expected 403, got %d", status)
	}

	status, env = s.do(t, http.MethodPost, "/api/listings/"+l.ID+"/claim", token, map[string]string{
		"verificationToken": confirmed.VerificationToken,
	})
	if status != http.StatusOK {
		t.Fatalf("claim: status %d %+v", status, env)
	}
	var claimed listing.Listing
	json.Unmarshal(env.Data, &claimed)
	if !claimed.IsClaimed || claimed.UserID == nil {
		t.Fatalf("claim response does not show ownership: %+v", claimed)
	}

	status, _ = s.do(t, http.MethodPost, "/api/listings/"+l.ID+"/claim", token, map[string]string{
		"verificationToken": confirmed.VerificationToken,
	})
	if status != http.StatusConflict {
		t.Fatalf("second claim: expected 409, got %d", status)
	}

	status, env = s.do(t, http.MethodGet, "/api/listings/user/me", token, nil)
	if status != http.StatusOK {
		t.Fatalf("mine: status %d", status)
	}
	var mine []listing.Listing
	json.Unmarshal(env.Data, &mine)
	if len(mine) != 1 || mine[0].ID != l.ID {
		t.Fatalf("unexpected listings for owner %+v", mine)
	}
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)
	l := s.scrapedListing(t)

	if status, _ := s.do(t, http.MethodPost, "/api/listings/"+l.ID+"/claim", "", map[string]string{}); status != http.StatusUnauthorized {
		t.Fatalf("missing token: expected 401, got %d", status)
	}
	if status, _ := s.do(t, http.MethodPost, "/api/verification/send", "not-a-jwt", map[string]string{}); status != http.StatusUnauthorized {
		t.Fatalf("bad token: expected 401, got %d", status)
	}

	ghost, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "missing-user"}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if status, _ := s.do(t, http.MethodGet, "/api/listings/user/me", ghost, nil); status != http.StatusUnauthorized {
		t.Fatalf("unknown user: expected 401, got %d", status)
	}

	status, env := s.do(t, http.MethodGet, "/api/listings/"+l.Slug, "", nil)
	if status != http.StatusOK {
		t.Fatalf("public show by slug: status %d %+v", status, env)
	}
}

func TestScrapeRoutes(t *testing.T) {
	s := newTestServer(t)

	if status, _ := s.do(t, http.MethodPost, "/api/scrape", "", map[string]string{}); status != http.StatusUnauthorized {
		t.Fatalf("missing key: expected 401, got %d", status)
	}
	if status, _ := s.do(t, http.MethodPost, "/api/scrape", "", map[string]string{"city": "Atlantis"}, "X-Scrape-Key", testScrapeKey); status != http.StatusBadRequest {
		t.Fatalf("unknown city: expected 400, got %d", status)
	}

	status, env := s.do(t, http.MethodPost, "/api/scrape", "", map[string]interface{}{"city": "Toronto", "dryRun": true}, "X-Scrape-Key", testScrapeKey)
	if status != http.StatusAccepted {
		t.Fatalf("start: status %d %+v", status, env)
	}
	var started struct {
		JobID  string `json:"jobId"`
		Status string `json:"status"`
		City   string `json:"city"`
	}
	json.Unmarshal(env.Data, &started)
	if started.JobID == "" || started.Status != "started" || started.City != "Toronto" {
		t.Fatalf("unexpected start response %+v", started)
	}

	s.svc.Jobs.Wait()
	status, env = s.do(t, http.MethodGet, "/api/scrape/"+started.JobID, "", nil, "X-Scrape-Key", testScrapeKey)
	if status != http.StatusOK {
		t.Fatalf("status: %d %+v", status, env)
	}
	var job scrape.JobState
	json.Unmarshal(env.Data, &job)
	if job.Status != "completed" || job.Result == nil {
		t.Fatalf("unexpected job %+v", job)
	}

	if status, _ := s.do(t, http.MethodGet, "/api/scrape/scrape-unknown", "", nil, "X-Scrape-Key", testScrapeKey); status != http.StatusNotFound {
		t.Fatalf("unknown job: expected 404, got %d", status)
	}
	if status, _ := s.do(t, http.MethodGet, "/api/scrape/stats", "", nil, "X-Scrape-Key", testScrapeKey); status != http.StatusOK {
		t.Fatalf("stats: expected 200, got %d", status)
	}
	if status, _ := s.do(t, http.MethodPost, "/api/scrape/fix-phones", "", map[string]bool{"dryRun": true}, "X-Scrape-Key", testScrapeKey); status != http.StatusOK {
		t.Fatalf("fix-phones: expected 200, got %d", status)
	}
}

func TestCategoriesAndHealth(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, http.MethodGet, "/api/categories", "", nil)
	if status != http.StatusOK {
		t.Fatalf("categories: status %d", status)
	}
	var cats []category.Category
	json.Unmarshal(env.Data, &cats)
	if len(cats) != len(category.Slugs) || cats[0].Slug != "restaurant" {
		t.Fatalf("unexpected categories %+v", cats)
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", resp.StatusCode)
	}
}
