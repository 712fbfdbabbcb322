package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFail(t *testing.T) {
	testCases := []struct {
		name         string
		err          error
		expectedCode int
		expectedBody string
	}{
		{"Bad request", BadRequest("invalid %s", "id"), http.StatusBadRequest, `{"success":false,"message":"invalid id"}`},
		{"Not found", NotFound("product not found"), http.StatusNotFound, `{"success":false,"message":"product not found"}`},
		{"Conflict", Conflict("taken"), http.StatusConflict, `{"success":false,"message":"taken"}`},
		{"Wrapped", fmt.Errorf("import: %w", BadRequest("row 2: bad")), http.StatusBadRequest, `{"success":false,"message":"row 2: bad"}`},
		{"Unexpected", errors.New("pq: connection refused"), http.StatusInternalServerError, `{"success":false,"message":"internal server error"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Fail(rec, httptest.NewRequest(http.MethodGet, "/", nil), tc.err)

			assert.Equal(t, tc.expectedCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tc.expectedBody, rec.Body.String())
		})
	}
}

func TestOKAndMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, http.StatusCreated, map[string]int{"id": 1})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"id":1}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	Message(rec, http.StatusOK, "deleted")
	assert.JSONEq(t, `{"success":true,"message":"deleted"}`, rec.Body.String())
}

type payload struct {
	Name  string  `json:"name" validate:"max=5"`
	Code  *string `json:"code" validate:"omitempty,max=3"`
	Count int     `json:"count" validate:"min=1"`
}

func TestDecode(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		message string
	}{
		{"Valid", `{"name":"abc","count":2}`, ""},
		{"Malformed", `{"name":`, "invalid JSON body"},
		{"Wrong type", `{"name":5}`, "invalid JSON body"},
		{"Too long", `{"name":"abcdef","count":1}`, "name must be at most 5 characters"},
		{"Several fields", `{"name":"abcdef","code":"abcd","count":0}`, "code must be at most 3 characters; count must be at least 1; name must be at most 5 characters"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var p payload
			err := Decode(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body)), &p)
			if tc.message == "" {
				require.NoError(t, err)
				assert.Equal(t, "abc", p.Name)
				return
			}
			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusBadRequest, apiErr.Status)
			assert.Equal(t, tc.message, apiErr.Message)
		})
	}
}

type trimmed struct {
	Name string `json:"name" validate:"max=3"`
}

func (p *trimmed) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
}

func TestDecodeNormalizesBeforeValidating(t *testing.T) {
	var p trimmed
	require.NoError(t, Decode(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"  abc  "}`)), &p))
	assert.Equal(t, "abc", p.Name)

	err := Decode(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":" abcd "}`)), &p)
	assert.EqualError(t, err, "name must be at most 3 characters")
}

func TestPathID(t *testing.T) {
	testCases := []struct {
		value string
		id    uint
		ok    bool
	}{
		{"42", 42, true},
		{"0", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.SetPathValue("id", tc.value)
			id, err := PathID(req, "id")
			assert.Equal(t, tc.id, id)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, "invalid id")
			}
		})
	}
}
