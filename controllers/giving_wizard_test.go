package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	wizardpkg "github.com/penielchurch/site-backend/wizard"
)

func wizardRouter(store *wizardpkg.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/giving/wizard", StartWizard(store))
	r.GET("/api/giving/wizard/:id", GetWizard(store))
	r.PUT("/api/giving/wizard/:id/form", WizardForm(store))
	r.POST("/api/giving/wizard/:id/back", WizardBack(store))
	r.DELETE("/api/giving/wizard/:id", WizardClose(store))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode %s %s response: %v (%s)", method, path, err, w.Body.String())
		}
	}
	return w, decoded
}

func TestWizardFlowOverHTTP(t *testing.T) {
	store := wizardpkg.NewStore(time.Minute)
	r := wizardRouter(store)

	w, created := doJSON(t, r, http.MethodPost, "/api/giving/wizard", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("start: status = %d", w.Code)
	}
	id, _ := created["id"].(string)
	if id == "" {
		t.Fatal("start: no session id")
	}

	// Missing phone: stays on form.
	w, _ = doJSON(t, r, http.MethodPut, "/api/giving/wizard/"+id+"/form", `{"name":"Jane Doe"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("form without phone: status = %d, want 400", w.Code)
	}

	w, sess := doJSON(t, r, http.MethodPut, "/api/giving/wizard/"+id+"/form",
		`{"name":"Jane Doe","phone":"+910000000000","address":"12 Chapel Road","purpose":"Missions"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("form: status = %d (%v)", w.Code, sess)
	}
	if step := sess["step"]; step != "payment" {
		t.Errorf("step = %v, want payment", step)
	}

	// Back to the form: address and purpose survive.
	w, sess = doJSON(t, r, http.MethodPost, "/api/giving/wizard/"+id+"/back", "")
	if w.Code != http.StatusOK {
		t.Fatalf("back: status = %d", w.Code)
	}
	form, _ := sess["form"].(map[string]interface{})
	if form["address"] != "12 Chapel Road" || form["purpose"] != "Missions" {
		t.Errorf("form after back = %v, want address and purpose retained", form)
	}

	// Closing discards the session.
	w, _ = doJSON(t, r, http.MethodDelete, "/api/giving/wizard/"+id, "")
	if w.Code != http.StatusNoContent {
		t.Errorf("close: status = %d, want 204", w.Code)
	}
	w, _ = doJSON(t, r, http.MethodGet, "/api/giving/wizard/"+id, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("get closed session: status = %d, want 404", w.Code)
	}
}
