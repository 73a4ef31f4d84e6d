package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specforge/api"
)

func TestHandler_signature(t *testing.T) {
	t.Parallel()

	type Req struct {
		Name string `json:"name"`
	}
	type Resp struct {
		Greeting string `json:"greeting"`
	}

	var h api.Handler[Req, Resp] = func(_ context.Context, req *Req) (*Resp, error) {
		return &Resp{Greeting: "hello " + req.Name}, nil
	}

	resp, err := h(context.Background(), &Req{Name: "world"})
	require.NoError(t, err)
	assert.Equal(t, "hello world", resp.Greeting)
}

func TestVoid_is_zero_size(t *testing.T) {
	t.Parallel()

	var v api.Void
	_ = v
}

func TestResult_unwraps_on_the_wire(t *testing.T) {
	t.Parallel()

	type Order struct {
		ID string `json:"id"`
	}

	r := api.New()
	api.Get(r, "/orders/{id}", func(_ context.Context, _ *api.Void) (*api.Result[Order], error) {
		return api.OK(Order{ID: "o1"}), nil
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/o1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	// The wrapper never reaches the wire; clients see the inner value.
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, map[string]any{"id": "o1"}, got)
}

func TestResult_lookup_failure_is_problem_response(t *testing.T) {
	t.Parallel()

	type Order struct {
		ID string `json:"id"`
	}

	r := api.New()
	api.Get(r, "/orders/{id}", func(_ context.Context, _ *api.Void) (*api.Result[Order], error) {
		return nil, api.Error(http.StatusNotFound, "no such order")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/missing", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var pd api.ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pd))
	assert.Equal(t, http.StatusNotFound, pd.Status)
	assert.Equal(t, "no such order", pd.Detail)
}
