package rest_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rai/userdirectory/modules/directory/domain"
	"github.com/rai/userdirectory/modules/directory/infrastructure/rest"
	"github.com/rai/userdirectory/modules/shared/types"
)

type recordedRequest struct {
	method string
	path   string
	body   map[string]any
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*rest.Client, *[]recordedRequest) {
	t.Helper()

	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{method: r.Method, path: r.URL.EscapedPath()}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			assert.NoError(t, json.Unmarshal(data, &rec.body))
		}
		requests = append(requests, rec)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := rest.NewClient(rest.Config{BaseURL: srv.URL + "/"})
	require.NoError(t, err)
	return client, &requests
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	_, err := rest.NewClient(rest.Config{BaseURL: "localhost"})
	assert.Error(t, err)
}

func TestClient_List(t *testing.T) {
	client, requests := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id": 1, "name": "Алексеев Алексей", "email": "a@example.com", "phone": "1", "company": {"name": "Tech Corp"}},
			{"id": "x9", "name": "Дмитриев Дмитрий", "email": "d@example.com", "phone": "2", "website": "d.example"}
		]`))
	})

	users, err := client.List(context.Background())
	require.NoError(t, err)

	require.Len(t, users, 2)
	assert.True(t, users[0].ID.IsNumeric())
	assert.Equal(t, "x9", users[1].ID.String())
	name, ok := users[0].CompanyName()
	assert.True(t, ok)
	assert.Equal(t, "Tech Corp", name)
	_, ok = users[1].CompanyName()
	assert.False(t, ok)

	assert.Equal(t, []recordedRequest{{method: http.MethodGet, path: "/users"}}, *requests)
}

func TestClient_List_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, domain.ErrFetchFailed},
		{"not found", http.StatusNotFound, ``, domain.ErrFetchFailed},
		{"not json", http.StatusOK, `<html>`, domain.ErrInvalidData},
		{"object instead of array", http.StatusOK, `{"users": []}`, domain.ErrInvalidData},
		{"null", http.StatusOK, `null`, domain.ErrInvalidData},
		{"wrong field type", http.StatusOK, `[{"id": 1, "name": 42}]`, domain.ErrInvalidData},
		{"record without id", http.StatusOK, `[{"name": "A"}]`, domain.ErrInvalidData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			users, err := client.List(context.Background())

			assert.Nil(t, users)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_List_StatusErrorIsExposed(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.List(context.Background())

	assert.True(t, rest.IsStatus(err, http.StatusServiceUnavailable))
}

func TestClient_List_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	client, err := rest.NewClient(rest.Config{BaseURL: base})
	require.NoError(t, err)

	_, err = client.List(context.Background())
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
}

func TestClient_Create(t *testing.T) {
	client, requests := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 6, "name": "New", "email": "new@example.com", "phone": "123", "company": {}}`))
	})

	stale := types.NumericUserID(99)
	created, err := client.Create(context.Background(), types.UserRecord{
		ID:    &stale,
		Name:  "New",
		Email: "new@example.com",
		Phone: "123",
	})
	require.NoError(t, err)

	assert.Equal(t, "6", created.ID.String())
	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/users", req.path)
	assert.NotContains(t, req.body, "id")
	assert.Equal(t, map[string]any{}, req.body["company"])
}

func TestClient_Create_ResponseWithoutID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"name": "New"}`))
	})

	_, err := client.Create(context.Background(), types.UserRecord{Name: "New"})

	assert.ErrorIs(t, err, domain.ErrInvalidData)
}

func TestClient_Create_Rejected(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := client.Create(context.Background(), types.UserRecord{Name: "New"})

	assert.ErrorIs(t, err, domain.ErrWriteFailed)
	assert.True(t, rest.IsStatus(err, http.StatusBadRequest))
}

func TestClient_Update(t *testing.T) {
	client, requests := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	id := types.NumericUserID(3)
	err := client.Update(context.Background(), types.UserRecord{
		ID:      &id,
		Name:    "Васильев Василий",
		Email:   "v@example.com",
		Phone:   "+7-555-456-7890",
		Company: types.NewCompany("Tech Corp"),
	})
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, http.MethodPut, req.method)
	assert.Equal(t, "/users/3", req.path)
	assert.Equal(t, float64(3), req.body["id"])
	assert.Equal(t, map[string]any{"name": "Tech Corp"}, req.body["company"])
}

func TestClient_Update_RequiresID(t *testing.T) {
	client, requests := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	err := client.Update(context.Background(), types.UserRecord{Name: "x"})

	assert.ErrorIs(t, err, domain.ErrIDRequired)
	assert.Empty(t, *requests)
}

func TestClient_Delete(t *testing.T) {
	client, requests := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	id, err := types.ParseUserID("a b")
	require.NoError(t, err)

	require.NoError(t, client.Delete(context.Background(), id))
	assert.Equal(t, []recordedRequest{{method: http.MethodDelete, path: "/users/a%20b"}}, *requests)
}

func TestClient_Delete_Failure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	err := client.Delete(context.Background(), types.NumericUserID(1))

	assert.ErrorIs(t, err, domain.ErrWriteFailed)
}

func TestClient_ContextCancel(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
