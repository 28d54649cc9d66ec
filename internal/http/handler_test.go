package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lancebay/contracts-service/internal/excel"
	"github.com/lancebay/contracts-service/internal/http/middleware"
	"github.com/lancebay/contracts-service/internal/model"
	"github.com/lancebay/contracts-service/internal/pdf"
	"github.com/lancebay/contracts-service/internal/repository"
	"github.com/lancebay/contracts-service/internal/service"
)

// testEnv wires the real services over an in-memory database, with the auth
// middleware swapped for a principal set per request.
type testEnv struct {
	db         *gorm.DB
	router     *gin.Engine
	principal  model.Principal
	employer   model.User
	freelancer model.User
	project    model.Project
	proposal   model.Proposal
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "handler_test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.Proposal{},
		&model.Contract{},
		&model.Notification{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	env := &testEnv{db: db}

	store := repository.NewStore(db)
	contracts := service.NewContractService(store, pdf.NewGenerator(), excel.NewGenerator())
	notifications := service.NewNotificationService(store)
	handler := NewHandler(contracts, notifications, zerolog.Nop())

	router := gin.New()
	handler.Register(router, func(c *gin.Context) {
		middleware.SetPrincipal(c, env.principal)
		c.Next()
	})
	env.router = router

	env.employer = model.User{ID: uuid.New(), Email: "boss@example.com", Role: model.RoleEmployer}
	env.freelancer = model.User{ID: uuid.New(), Email: "dev@example.com", Role: model.RoleFreelancer}
	budgetMax := 4200.0
	deadline := time.Now().AddDate(0, 1, 0)
	env.project = model.Project{
		ID:                 uuid.New(),
		EmployerID:         env.employer.ID,
		Title:              "Mobile app",
		Description:        "Ship the companion app.",
		Status:             model.ProjectStatusRecruiting,
		BudgetMax:          &budgetMax,
		CompletionDeadline: &deadline,
	}
	env.proposal = model.Proposal{
		ID:           uuid.New(),
		ProjectID:    env.project.ID,
		FreelancerID: env.freelancer.ID,
		Status:       model.ProposalStatusAccepted,
	}
	for _, row := range []interface{}{&env.employer, &env.freelancer, &env.project, &env.proposal} {
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	env.asEmployer()
	return env
}

func (e *testEnv) asEmployer() {
	e.principal = model.Principal{UserID: e.employer.ID, Role: model.RoleEmployer}
}

func (e *testEnv) asFreelancer() {
	e.principal = model.Principal{UserID: e.freelancer.ID, Role: model.RoleFreelancer}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeContract(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return payload
}

func (e *testEnv) createContract(t *testing.T) string {
	t.Helper()
	e.asEmployer()
	rec := e.do(t, http.MethodPost, "/contracts", gin.H{"proposal_id": e.proposal.ID.String()})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create contract: status %d: %s", rec.Code, rec.Body.String())
	}
	payload := decodeContract(t, rec)
	id, _ := payload["contract_id"].(string)
	if id == "" {
		t.Fatal("response has no contract_id")
	}
	return id
}

func TestCreateContractEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/contracts", gin.H{"proposal_id": env.proposal.ID.String()})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	payload := decodeContract(t, rec)
	if payload["status"] != string(model.ContractStatusNegotiating) {
		t.Errorf("status = %v", payload["status"])
	}
	if payload["amount"] != 4200.0 {
		t.Errorf("amount = %v", payload["amount"])
	}

	// Same proposal again conflicts.
	rec = env.do(t, http.MethodPost, "/contracts", gin.H{"proposal_id": env.proposal.ID.String()})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/contracts", gin.H{"proposal_id": "not-a-uuid"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad proposal id status = %d, want 400", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/contracts", gin.H{"proposal_id": uuid.NewString()})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown proposal status = %d, want 404", rec.Code)
	}
}

func TestStatusEndpointDrivesLifecycle(t *testing.T) {
	env := newTestEnv(t)
	contractID := env.createContract(t)
	path := "/contracts/" + contractID + "/status"

	// The employer cannot sign their own draft.
	rec := env.do(t, http.MethodPatch, path, gin.H{"status": "ACTIVE"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("employer signing status = %d, want 403: %s", rec.Code, rec.Body.String())
	}

	env.asFreelancer()
	rec = env.do(t, http.MethodPatch, path, gin.H{"status": "active"})
	if rec.Code != http.StatusOK {
		t.Fatalf("freelancer signing status = %d: %s", rec.Code, rec.Body.String())
	}
	if payload := decodeContract(t, rec); payload["status"] != string(model.ContractStatusActive) {
		t.Errorf("status = %v", payload["status"])
	}

	var project model.Project
	if err := env.db.First(&project, "id = ?", env.project.ID).Error; err != nil {
		t.Fatalf("reload project: %v", err)
	}
	if project.Status != model.ProjectStatusStaffed {
		t.Errorf("project status = %s, want %s", project.Status, model.ProjectStatusStaffed)
	}

	// Re-signing is no longer a legal edge.
	rec = env.do(t, http.MethodPatch, path, gin.H{"status": "ACTIVE"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("re-sign status = %d, want 400", rec.Code)
	}

	rec = env.do(t, http.MethodPatch, path, gin.H{"status": "NOT_A_STATUS"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown status = %d, want 400", rec.Code)
	}

	// The counter-party got a signing notification.
	env.asEmployer()
	rec = env.do(t, http.MethodGet, "/notifications/my", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list notifications: %d", rec.Code)
	}
	var notifications []model.Notification
	if err := json.Unmarshal(rec.Body.Bytes(), &notifications); err != nil {
		t.Fatalf("decode notifications: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("employer notifications = %d, want 1", len(notifications))
	}
	if !strings.Contains(notifications[0].Title, "signed") {
		t.Errorf("notification title = %q", notifications[0].Title)
	}
}

func TestDraftEndpoints(t *testing.T) {
	env := newTestEnv(t)
	contractID := env.createContract(t)
	path := "/contracts/" + contractID

	rec := env.do(t, http.MethodPut, path, gin.H{"amount": 9000, "end_date": "2026-12-31"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update draft status = %d: %s", rec.Code, rec.Body.String())
	}
	payload := decodeContract(t, rec)
	if payload["amount"] != 9000.0 {
		t.Errorf("amount = %v", payload["amount"])
	}
	if payload["version"] != 2.0 {
		t.Errorf("version = %v, want 2", payload["version"])
	}

	rec = env.do(t, http.MethodPut, path, gin.H{"end_date": "31/12/2026"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad date status = %d, want 400", rec.Code)
	}

	env.asFreelancer()
	rec = env.do(t, http.MethodPut, path, gin.H{"amount": 1})
	if rec.Code != http.StatusForbidden {
		t.Errorf("freelancer edit status = %d, want 403", rec.Code)
	}

	env.asEmployer()
	rec = env.do(t, http.MethodDelete, path, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete draft status = %d", rec.Code)
	}
	rec = env.do(t, http.MethodGet, path, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status after delete = %d, want 404", rec.Code)
	}
}

func TestGetAndListEndpoints(t *testing.T) {
	env := newTestEnv(t)
	contractID := env.createContract(t)

	for _, as := range []func(){env.asEmployer, env.asFreelancer} {
		as()
		rec := env.do(t, http.MethodGet, "/contracts/"+contractID, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("party read status = %d", rec.Code)
		}

		rec = env.do(t, http.MethodGet, "/contracts/my", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("list status = %d", rec.Code)
		}
		var contracts []model.Contract
		if err := json.Unmarshal(rec.Body.Bytes(), &contracts); err != nil {
			t.Fatalf("decode list: %v", err)
		}
		if len(contracts) != 1 {
			t.Errorf("listed contracts = %d, want 1", len(contracts))
		}
	}

	env.principal = model.Principal{UserID: uuid.New(), Role: model.RoleEmployer}
	rec := env.do(t, http.MethodGet, "/contracts/"+contractID, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("stranger read status = %d, want 403", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/contracts/not-a-uuid", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed id status = %d, want 400", rec.Code)
	}
}

func TestExportEndpoints(t *testing.T) {
	env := newTestEnv(t)
	contractID := env.createContract(t)

	rec := env.do(t, http.MethodGet, "/contracts/"+contractID+"/pdf", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("pdf status = %d: %s", rec.Code, rec.Body.String())
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Error("pdf response does not start with a PDF header")
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, ".pdf") {
		t.Errorf("content disposition = %q", got)
	}

	rec = env.do(t, http.MethodGet, "/contracts/my/export", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("excel status = %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.Len() == 0 {
		t.Error("empty workbook response")
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, ".xlsx") {
		t.Errorf("content disposition = %q", got)
	}
}

func TestNotificationEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.createContract(t)

	// Draft creation notifies the freelancer.
	env.asFreelancer()
	rec := env.do(t, http.MethodGet, "/notifications/my", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var notifications []model.Notification
	if err := json.Unmarshal(rec.Body.Bytes(), &notifications); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifications))
	}
	notificationID := notifications[0].ID.String()

	// The employer may not mark the freelancer's notification.
	env.asEmployer()
	rec = env.do(t, http.MethodPatch, "/notifications/"+notificationID+"/read", nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("foreign mark-read status = %d, want 403", rec.Code)
	}

	env.asFreelancer()
	rec = env.do(t, http.MethodPatch, "/notifications/"+notificationID+"/read", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("mark-read status = %d: %s", rec.Code, rec.Body.String())
	}
	var marked model.Notification
	if err := json.Unmarshal(rec.Body.Bytes(), &marked); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !marked.IsRead {
		t.Error("notification not marked read")
	}

	// Marking again is idempotent.
	rec = env.do(t, http.MethodPatch, "/notifications/"+notificationID+"/read", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("repeat mark-read status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodPatch, "/notifications/"+uuid.NewString()+"/read", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown notification status = %d, want 404", rec.Code)
	}
}
