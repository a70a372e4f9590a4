package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// fakeTokens is a mutable TokenSource standing in for auth.Manager.
type fakeTokens struct {
	mu     sync.Mutex
	header string
}

func (f *fakeTokens) set(h string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.header = h
}

func (f *fakeTokens) AuthHeader() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.header, f.header != ""
}

func TestTransport_AttachesTokenAtSendTime(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer srv.Close()

	tokens := &fakeTokens{}
	client := NewClient(srv.URL, time.Second, tokens)
	ctx := context.Background()

	// no session: no Authorization header
	if _, err := client.Login(ctx, "a@x.com", "pw"); err != nil {
		t.Fatalf("request error = %v", err)
	}

	// the same client picks up a token saved after construction
	tokens.set("Bearer fresh")
	if err := client.VerifyEmail(ctx, "tok"); err != nil {
		t.Fatalf("request error = %v", err)
	}

	// and drops it again after logout
	tokens.set("")
	if err := client.VerifyEmail(ctx, "tok"); err != nil {
		t.Fatalf("request error = %v", err)
	}

	want := []string{"", "Bearer fresh", ""}
	for i, header := range want {
		if seen[i] != header {
			t.Errorf("request %d Authorization = %q, want %q", i, seen[i], header)
		}
	}
}

func TestTransport_AlwaysSetsContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil)
	if _, err := client.Login(context.Background(), "a@x.com", "pw"); err != nil {
		t.Fatalf("request error = %v", err)
	}
}

func TestClient_RemoteRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":"error","statusCode":401,"message":"bad credentials"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil)
	_, err := client.Login(context.Background(), "a@x.com", "wrong")
	if err == nil {
		t.Fatal("Login error = nil, want RemoteError")
	}

	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("error type = %T, want *RemoteError", err)
	}
	if remote.StatusCode != 401 {
		t.Errorf("StatusCode = %d, want 401", remote.StatusCode)
	}
	if remote.Message != "bad credentials" {
		t.Errorf("Message = %q, want the remote message passed through", remote.Message)
	}
}

func TestClient_EnvelopeErrorOn200(t *testing.T) {
	// some backend versions report failures inside a 200 envelope
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","message":"account disabled"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil)
	_, err := client.Login(context.Background(), "a@x.com", "pw")

	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("error type = %T, want *RemoteError", err)
	}
	if remote.Message != "account disabled" {
		t.Errorf("Message = %q, want \"account disabled\"", remote.Message)
	}
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nobody listening anymore

	client := NewClient(srv.URL, time.Second, nil)
	_, err := client.Login(context.Background(), "a@x.com", "pw")

	var network *NetworkError
	if !errors.As(err, &network) {
		t.Fatalf("error type = %T, want *NetworkError", err)
	}
}

func TestClient_DecodeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil)
	_, err := client.MyProjects(context.Background())

	var decode *DecodeError
	if !errors.As(err, &decode) {
		t.Fatalf("error type = %T, want *DecodeError", err)
	}
}

func TestClient_LoginEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("path = %q, want /auth/login", r.URL.Path)
		}
		w.Write([]byte(`{
			"status": "success",
			"token": "jwt-123",
			"user": {"id": "7", "email": "a@x.com", "nom": "Jribi", "prenom": "Eya"}
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil)
	env, err := client.Login(context.Background(), "a@x.com", "pw")
	if err != nil {
		t.Fatalf("Login error = %v", err)
	}
	if env.Token != "jwt-123" {
		t.Errorf("Token = %q, want \"jwt-123\"", env.Token)
	}
	if env.User == nil || env.User.Email != "a@x.com" || env.User.LastName != "Jribi" {
		t.Errorf("User = %+v, want the decoded profile", env.User)
	}
}

func TestClient_MyProjects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/etudiants/projets" {
			t.Errorf("path = %q, want /api/etudiants/projets", r.URL.Path)
		}
		w.Write([]byte(`[
			{"id":"p1","titre":"Projet tutoré","statut":"EN_COURS"},
			{"id":"p2","titre":"PFE","statut":"TODO"}
		]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil)
	projects, err := client.MyProjects(context.Background())
	if err != nil {
		t.Fatalf("MyProjects error = %v", err)
	}
	if len(projects) != 2 || projects[0].Title != "Projet tutoré" {
		t.Errorf("projects = %+v, want the two decoded projects", projects)
	}
}

func TestClient_UpdateTaskStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %q, want PUT", r.Method)
		}
		if r.URL.Path != "/api/etudiants/taches/t1/statut" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("statut"); got != "DONE" {
			t.Errorf("statut query = %q, want DONE", got)
		}
		w.Write([]byte(`{"id":"t1","titre":"rapport","statut":"DONE"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil)
	task, err := client.UpdateTaskStatus(context.Background(), "t1", "DONE")
	if err != nil {
		t.Fatalf("UpdateTaskStatus error = %v", err)
	}
	if task.Status != "DONE" {
		t.Errorf("Status = %q, want DONE", task.Status)
	}
}
