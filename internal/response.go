package internal

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
)

// Response is the answer produced by a Handler.
// It is written to the client by Server, so handlers stay free of
// http.ResponseWriter and can be tested by inspecting the returned value.
type Response struct {
	Header http.Header
	Body   []byte
	Status int
}

// NewResponse creates a Response with the given status code and body.
func NewResponse(status int, body []byte) *Response {
	return &Response{
		Status: status,
		Header: make(http.Header),
		Body:   body,
	}
}

// Text creates a plain text Response.
func Text(status int, s string) *Response {
	resp := NewResponse(status, []byte(s))
	resp.Header.Set("Content-Type", "text/plain; charset=utf-8")
	return resp
}

// HTML creates an HTML Response.
func HTML(status int, s string) *Response {
	resp := NewResponse(status, []byte(s))
	resp.Header.Set("Content-Type", "text/html; charset=utf-8")
	return resp
}

// JSON creates a Response with v encoded as JSON.
func JSON(status int, v any) (*Response, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrEncodeResponse, err)
	}
	resp := NewResponse(status, data)
	resp.Header.Set("Content-Type", "application/json")
	return resp, nil
}

// Redirect creates a redirect Response pointing at location.
func Redirect(status int, location string) *Response {
	resp := NewResponse(status, nil)
	resp.Header.Set("Location", location)
	return resp
}

// SetCookie appends a Set-Cookie header to the response.
// Invalid cookies are dropped silently, same as http.SetCookie.
func (r *Response) SetCookie(c *http.Cookie) {
	if v := c.String(); v != "" {
		r.headers().Add("Set-Cookie", v)
	}
}

// Write sends the response to w.
func (r *Response) Write(w http.ResponseWriter) error {
	h := w.Header()
	for k, vv := range r.Header {
		for _, v := range vv {
			h.Add(k, v)
		}
	}
	if len(r.Body) > 0 && h.Get("Content-Length") == "" {
		h.Set("Content-Length", strconv.Itoa(len(r.Body)))
	}

	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	if len(r.Body) == 0 {
		return nil
	}
	_, err := w.Write(r.Body)
	return err
}

func (r *Response) headers() http.Header {
	if r.Header == nil {
		r.Header = make(http.Header)
	}
	return r.Header
}
