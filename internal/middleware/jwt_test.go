package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"docshub/internal/reqctx"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("не удалось подписать токен: %v", err)
	}
	return token
}

func TestJWTAuth_ExtractsRoleAndUserID(t *testing.T) {
	userID := uuid.New()
	token := signToken(t, jwt.MapClaims{"role": "admin", "sub": userID.String()})

	var gotRole string
	var gotUserID uuid.UUID
	var called bool

	handler := JWTAuth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		gotRole, _ = reqctx.GetRole(r.Context())
		gotUserID, _ = reqctx.GetUserID(r.Context())
	}))

	req := httptest.NewRequest("GET", "/api/admin/documents", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Fatalf("валидный токен не пропущен: статус %d", rec.Code)
	}
	if gotRole != "admin" {
		t.Fatalf("роль не попала в контекст: %q", gotRole)
	}
	if gotUserID != userID {
		t.Fatalf("id пользователя не попал в контекст: %s", gotUserID)
	}
}

func TestJWTAuth_Rejects(t *testing.T) {
	userID := uuid.New().String()

	cases := []struct {
		name   string
		header string
	}{
		{"без заголовка", ""},
		{"не bearer", "Basic abc"},
		{"мусор вместо токена", "Bearer not-a-token"},
		{"без роли", "Bearer " + signToken(t, jwt.MapClaims{"sub": userID})},
		{"без sub", "Bearer " + signToken(t, jwt.MapClaims{"role": "admin"})},
		{"sub не uuid", "Bearer " + signToken(t, jwt.MapClaims{"role": "admin", "sub": "42"})},
	}

	for _, tc := range cases {
		handler := JWTAuth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatalf("%s: запрос не должен был пройти", tc.name)
		}))

		req := httptest.NewRequest("GET", "/api/admin/documents", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: ожидался 401, получен %d", tc.name, rec.Code)
		}
	}
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256,
		jwt.MapClaims{"role": "admin", "sub": uuid.New().String()},
	).SignedString([]byte("другой-секрет"))
	if err != nil {
		t.Fatalf("не удалось подписать токен: %v", err)
	}

	handler := JWTAuth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("токен с чужой подписью не должен был пройти")
	}))

	req := httptest.NewRequest("GET", "/api/admin/documents", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("ожидался 401, получен %d", rec.Code)
	}
}
