package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/pipeline/internal"
)

// mockDelegate records calls to Process.
type mockDelegate struct {
	mock.Mock
}

func (m *mockDelegate) Process(r *http.Request) (*internal.Response, error) {
	args := m.Called(r)
	resp, _ := args.Get(0).(*internal.Response)
	return resp, args.Error(1)
}

// answering returns a delegate that answers every call with 200 "ok".
func answering() *mockDelegate {
	d := &mockDelegate{}
	d.On("Process", mock.Anything).Return(internal.Text(http.StatusOK, "ok"), nil)
	return d
}

// delegateFunc adapts a function to internal.Delegate.
type delegateFunc func(r *http.Request) (*internal.Response, error)

func (f delegateFunc) Process(r *http.Request) (*internal.Response, error) { return f(r) }

// formRequest builds a request whose body is already parsed into PostForm.
// A nil form leaves the body unparsed.
func formRequest(method string, form url.Values) *http.Request {
	r := httptest.NewRequest(method, "/", nil)
	r.PostForm = form
	return r
}

// encodedRequest builds a request with an urlencoded body that is not yet parsed.
func encodedRequest(method, target string, form url.Values) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}
