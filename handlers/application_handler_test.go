package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cod31nvictus/selfky/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const testJWTSecret = "test-jwt-secret"

func signTestToken(t *testing.T, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": uuid.New().String(),
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

func newApplicationTestApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("JWT_SECRET", testJWTSecret)

	app := fiber.New()
	app.Post("/api/v1/applications", middleware.Protected(), CreateApplication)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, token string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestCreateApplicationRejectsMissingDocuments(t *testing.T) {
	app := newApplicationTestApp(t)
	token := signTestToken(t, "applicant")

	tests := []struct {
		name string
		body CreateApplicationRequest
	}{
		{"missing photo", CreateApplicationRequest{
			CourseType: "bpharm", FullName: "Asha Verma", FathersName: "Ramesh Verma",
			Category: "General", DateOfBirth: "2004-03-12", SignatureKey: "selfky_documents/sig1",
		}},
		{"missing signature", CreateApplicationRequest{
			CourseType: "bpharm", FullName: "Asha Verma", FathersName: "Ramesh Verma",
			Category: "General", DateOfBirth: "2004-03-12", PhotoKey: "selfky_documents/photo1",
		}},
	}

	for _, tt := range tests {
		resp := postJSON(t, app, "/api/v1/applications", token, tt.body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tt.name, resp.StatusCode)
		}
	}
}

func TestCreateApplicationRejectsUnknownEnumValues(t *testing.T) {
	app := newApplicationTestApp(t)
	token := signTestToken(t, "applicant")

	valid := CreateApplicationRequest{
		CourseType: "bpharm", FullName: "Asha Verma", FathersName: "Ramesh Verma",
		Category: "General", DateOfBirth: "2004-03-12",
		PhotoKey: "selfky_documents/photo1", SignatureKey: "selfky_documents/sig1",
	}

	badCourse := valid
	badCourse.CourseType = "dpharm"
	if resp := postJSON(t, app, "/api/v1/applications", token, badCourse); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown course: status = %d, want 400", resp.StatusCode)
	}

	// The stale category set is rejected, never mapped to a fallback fee.
	badCategory := valid
	badCategory.Category = "PH"
	if resp := postJSON(t, app, "/api/v1/applications", token, badCategory); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown category: status = %d, want 400", resp.StatusCode)
	}

	badDate := valid
	badDate.DateOfBirth = "12-03-2004"
	if resp := postJSON(t, app, "/api/v1/applications", token, badDate); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad date: status = %d, want 400", resp.StatusCode)
	}
}

func TestCreateApplicationRequiresToken(t *testing.T) {
	app := newApplicationTestApp(t)

	resp := postJSON(t, app, "/api/v1/applications", "", CreateApplicationRequest{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for missing JWT", resp.StatusCode)
	}
}
