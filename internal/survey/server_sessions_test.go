package survey

import (
	"net/http"
	"testing"
)

func createSession(t *testing.T, h http.Handler) string {
	t.Helper()
	rr := do(t, h, http.MethodPost, "/api/sessions", nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	id, _ := decode(t, rr)["id"].(string)
	if id == "" {
		t.Fatal("expected session id")
	}
	return id
}

func demographicsBody() map[string]string {
	return map[string]string{
		"nameSurname": "Ayşe Can",
		"age":         "34",
		"profession":  "Mühendis",
		"gender":      "Kadın",
		"education":   "Lisans",
	}
}

func scoreAll(t *testing.T, h http.Handler, id string) {
	t.Helper()
	for group, n := range map[string]int{"main": 2, "economic": 2, "social": 2, "environmental": 3} {
		for i := 0; i < n; i++ {
			rr := do(t, h, http.MethodPut, "/api/sessions/"+id+"/scores/"+group+"/"+string(rune('0'+i)), map[string]string{"value": "FI"})
			if rr.Code != 200 {
				t.Fatalf("score %s/%d: %d %s", group, i, rr.Code, rr.Body.String())
			}
		}
	}
}

func TestSessionFlowSubmits(t *testing.T) {
	handler, up, _ := setupServer(t)
	id := createSession(t, handler)
	base := "/api/sessions/" + id

	if rr := do(t, handler, http.MethodPut, base+"/demographics", demographicsBody()); rr.Code != 200 {
		t.Fatalf("demographics: %d %s", rr.Code, rr.Body.String())
	}
	if rr := do(t, handler, http.MethodPost, base+"/step", map[string]int{"step": 2}); rr.Code != 200 {
		t.Fatalf("step 2: %d %s", rr.Code, rr.Body.String())
	}
	rr := do(t, handler, http.MethodPut, base+"/orderings/main", map[string]any{"ids": []string{"main-3", "main-1", "main-2"}})
	if rr.Code != 200 {
		t.Fatalf("reorder: %d %s", rr.Code, rr.Body.String())
	}
	if rr := do(t, handler, http.MethodPut, base+"/orderings/environmental", map[string]int{"from": 3, "to": 0}); rr.Code != 200 {
		t.Fatalf("move: %d %s", rr.Code, rr.Body.String())
	}
	rr = do(t, handler, http.MethodPost, base+"/step", map[string]int{"step": 3})
	if rr.Code != 200 {
		t.Fatalf("step 3: %d %s", rr.Code, rr.Body.String())
	}
	view := decode(t, rr)
	if view["stepName"] != "scoring" || view["complete"] != false {
		t.Fatalf("unexpected view %v", view)
	}
	resp := view["response"].(map[string]any)
	first := resp["mainComparisons"].([]any)[0].(map[string]any)
	if first["first"] != "C3" || first["second"] != "C1" {
		t.Fatalf("comparisons must follow the new ordering, got %v", first)
	}

	if rr := do(t, handler, http.MethodPut, base+"/orderings/main", map[string]any{"ids": []string{"main-1", "main-2", "main-3"}}); rr.Code != http.StatusConflict {
		t.Fatalf("reorder while scoring: expected 409, got %d", rr.Code)
	}

	if rr := do(t, handler, http.MethodPost, base+"/submit", nil); rr.Code != 400 {
		t.Fatalf("incomplete submit: expected 400, got %d", rr.Code)
	}
	scoreAll(t, handler, id)

	rr = do(t, handler, http.MethodPost, base+"/submit", nil)
	if rr.Code != 200 {
		t.Fatalf("submit: %d %s", rr.Code, rr.Body.String())
	}
	if decode(t, rr)["fileName"] != "FUCOM-AyşeCan.xlsx" {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}
	if up.count() != 1 {
		t.Fatalf("expected one upload, got %d", up.count())
	}

	if rr := do(t, handler, http.MethodPost, base+"/submit", nil); rr.Code != http.StatusConflict {
		t.Fatalf("second submit: expected 409, got %d", rr.Code)
	}
	if up.count() != 1 {
		t.Fatal("a session is submitted at most once")
	}
}

func TestSessionStepRequiresDemographics(t *testing.T) {
	handler, _, _ := setupServer(t)
	id := createSession(t, handler)
	rr := do(t, handler, http.MethodPost, "/api/sessions/"+id+"/step", map[string]int{"step": 2})
	if rr.Code != 400 {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if decode(t, rr)["field"] != "demographics.nameSurname" {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}
}

func TestSessionScoreOutsideScoringStep(t *testing.T) {
	handler, _, _ := setupServer(t)
	id := createSession(t, handler)
	rr := do(t, handler, http.MethodPut, "/api/sessions/"+id+"/scores/main/0", map[string]string{"value": "VI"})
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func TestSessionRejectsBadInput(t *testing.T) {
	handler, _, _ := setupServer(t)
	id := createSession(t, handler)
	base := "/api/sessions/" + id

	cases := []struct {
		method, path string
		body         any
		want         int
	}{
		{http.MethodGet, "/api/sessions/unknown", nil, 404},
		{http.MethodPut, base + "/orderings/unknown", map[string]any{"ids": []string{"a"}}, 400},
		{http.MethodPut, base + "/orderings/main", map[string]any{}, 400},
		{http.MethodPut, base + "/orderings/main", map[string]any{"ids": []string{"main-1", "main-1", "main-2"}}, 400},
		{http.MethodPut, base + "/orderings/main", map[string]int{"from": 0, "to": 9}, 400},
		{http.MethodPost, base + "/step", map[string]int{"step": 9}, 400},
		{http.MethodPut, base + "/scores/main/x", map[string]string{"value": "VI"}, 400},
	}
	for _, tc := range cases {
		rr := do(t, handler, tc.method, tc.path, tc.body)
		if rr.Code != tc.want {
			t.Fatalf("%s %s: expected %d, got %d body=%s", tc.method, tc.path, tc.want, rr.Code, rr.Body.String())
		}
	}
}

func TestGetSession(t *testing.T) {
	handler, _, _ := setupServer(t)
	id := createSession(t, handler)
	rr := do(t, handler, http.MethodGet, "/api/sessions/"+id, nil)
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	view := decode(t, rr)
	if view["id"] != id || view["stepName"] != "demographics" {
		t.Fatalf("unexpected view %v", view)
	}
}
