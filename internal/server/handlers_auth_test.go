package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"boxd/internal/api"
)

func TestCreateUser(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/users", "", api.CreateUserRequest{Email: "bob@dylan.com", Password: "toto1234!"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	var user api.UserResponse
	if err := json.Unmarshal(w.Body.Bytes(), &user); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected user id")
	}
	if user.Email != "bob@dylan.com" {
		t.Fatalf("expected email echoed back, got %q", user.Email)
	}
}

func TestCreateUserValidation(t *testing.T) {
	ts := newTestServer(t)
	ts.registerAndConnect(t, "bob@dylan.com", "toto1234!")

	cases := []struct {
		name    string
		payload api.CreateUserRequest
		wantMsg string
	}{
		{"missing email", api.CreateUserRequest{Password: "pw"}, "Missing email"},
		{"missing password", api.CreateUserRequest{Email: "a@b.com"}, "Missing password"},
		{"duplicate email", api.CreateUserRequest{Email: "bob@dylan.com", Password: "pw"}, "Already exists"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/users", "", tc.payload)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d (%s)", w.Code, w.Body.String())
			}
			var resp api.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode error: %v", err)
			}
			if resp.Error != tc.wantMsg {
				t.Fatalf("expected error %q, got %q", tc.wantMsg, resp.Error)
			}
		})
	}
}

func TestConnectRejectsBadCredentials(t *testing.T) {
	ts := newTestServer(t)
	ts.registerAndConnect(t, "bob@dylan.com", "toto1234!")

	cases := []struct {
		name     string
		email    string
		password string
		basic    bool
	}{
		{"no credentials", "", "", false},
		{"wrong password", "bob@dylan.com", "nope", true},
		{"unknown user", "ghost@dylan.com", "toto1234!", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/connect", nil)
			if tc.basic {
				req.SetBasicAuth(tc.email, tc.password)
			}
			w := httptest.NewRecorder()
			ts.handler.ServeHTTP(w, req)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d (%s)", w.Code, w.Body.String())
			}
		})
	}
}

func TestDisconnectInvalidatesToken(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerAndConnect(t, "bob@dylan.com", "toto1234!")

	if w := ts.do(t, http.MethodGet, "/users/me", token, nil); w.Code != http.StatusOK {
		t.Fatalf("me before disconnect: expected 200, got %d", w.Code)
	}
	if w := ts.do(t, http.MethodGet, "/disconnect", token, nil); w.Code != http.StatusNoContent {
		t.Fatalf("disconnect: expected 204, got %d (%s)", w.Code, w.Body.String())
	}
	if w := ts.do(t, http.MethodGet, "/users/me", token, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("me after disconnect: expected 401, got %d", w.Code)
	}
	if w := ts.do(t, http.MethodGet, "/disconnect", token, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("second disconnect: expected 401, got %d", w.Code)
	}
}

func TestUsersMe(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerAndConnect(t, "bob@dylan.com", "toto1234!")

	w := ts.do(t, http.MethodGet, "/users/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var user api.UserResponse
	if err := json.Unmarshal(w.Body.Bytes(), &user); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if user.Email != "bob@dylan.com" {
		t.Fatalf("expected email, got %q", user.Email)
	}

	if w := ts.do(t, http.MethodGet, "/users/me", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: expected 401, got %d", w.Code)
	}
	if w := ts.do(t, http.MethodGet, "/users/me", "bogus", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: expected 401, got %d", w.Code)
	}
}

func TestStatusAndStats(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/status", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: expected 200, got %d", w.Code)
	}
	var status api.StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if !status.DB || !status.Sessions {
		t.Fatalf("expected both backends alive, got %+v", status)
	}

	token := ts.registerAndConnect(t, "bob@dylan.com", "toto1234!")
	cw := ts.do(t, http.MethodPost, "/files", token, api.CreateEntryRequest{Name: "docs", Type: "folder"})
	if cw.Code != http.StatusCreated {
		t.Fatalf("create folder: expected 201, got %d (%s)", cw.Code, cw.Body.String())
	}

	sw := ts.do(t, http.MethodGet, "/stats", "", nil)
	if sw.Code != http.StatusOK {
		t.Fatalf("stats: expected 200, got %d", sw.Code)
	}
	var stats api.StatsResponse
	if err := json.Unmarshal(sw.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Users != 1 || stats.Files != 1 {
		t.Fatalf("expected 1 user and 1 file, got %+v", stats)
	}
}
