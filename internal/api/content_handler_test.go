package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Collabnest-tech/CN-Project-sub000/internal/api"
	"github.com/Collabnest-tech/CN-Project-sub000/internal/auth"
	"github.com/gorilla/mux"
)

type fakeGate struct {
	unlocked map[string]bool
}

func (f *fakeGate) Unlocked(ctx context.Context, userID string) (bool, error) {
	return f.unlocked[userID], nil
}

func moduleAccessRequest(moduleID string, user *auth.User) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/modules/"+moduleID+"/access", nil)
	req = mux.SetURLVars(req, map[string]string{"moduleID": moduleID})
	if user != nil {
		req = req.WithContext(auth.WithUser(req.Context(), user))
	}
	return req
}

func TestModuleAccess(t *testing.T) {
	handler := api.NewContentHandler(&fakeGate{unlocked: map[string]bool{"paid-user": true}})

	tests := []struct {
		name         string
		user         *auth.User
		wantStatus   int
		wantUnlocked bool
	}{
		{name: "paid user unlocked", user: &auth.User{ID: "paid-user"}, wantStatus: http.StatusOK, wantUnlocked: true},
		{name: "unpaid user locked", user: &auth.User{ID: "free-user"}, wantStatus: http.StatusOK, wantUnlocked: false},
		{name: "anonymous rejected", user: nil, wantStatus: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ModuleAccess(rec, moduleAccessRequest("module-1", tt.user))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var body api.ModuleAccessResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal response: %v", err)
			}
			if body.Unlocked != tt.wantUnlocked {
				t.Errorf("unlocked = %v, want %v", body.Unlocked, tt.wantUnlocked)
			}
			if body.ModuleID != "module-1" {
				t.Errorf("module_id = %q, want module-1", body.ModuleID)
			}
		})
	}
}
