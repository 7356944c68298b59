package apify

import (
	"fmt"
	"net/http"

	"github.com/vitalk/apify/serializer"
)

// Envelope is the normalized (payload, status, headers) triple a view may
// return. Views that only care about the payload can return it bare; the
// pipeline wraps it with status 200 and no extra headers.
type Envelope struct {
	Payload any
	Code    int
	Header  http.Header
}

// Reply wraps payload into an Envelope with status 200.
func Reply(payload any) *Envelope {
	return &Envelope{Payload: payload, Code: http.StatusOK}
}

// WithCode sets the response status code and returns the envelope for
// chaining.
func (e *Envelope) WithCode(code int) *Envelope {
	e.Code = code
	return e
}

// WithHeader adds a response header and returns the envelope for chaining.
func (e *Envelope) WithHeader(key, value string) *Envelope {
	if e.Header == nil {
		e.Header = make(http.Header)
	}
	e.Header.Add(key, value)
	return e
}

// unpack normalizes a view's return value. Accepted shapes are a bare
// payload, an Envelope, or an *Envelope; missing status codes default to 200.
func unpack(raw any) *Envelope {
	switch v := raw.(type) {
	case *Envelope:
		if v == nil {
			return &Envelope{Code: http.StatusOK}
		}
		if v.Code == 0 {
			v.Code = http.StatusOK
		}
		return v
	case Envelope:
		if v.Code == 0 {
			v.Code = http.StatusOK
		}
		return &v
	default:
		return &Envelope{Payload: raw, Code: http.StatusOK}
	}
}

// Response is the wire-ready API response handed to finalizers before it is
// written out.
type Response struct {
	Code     int
	Mimetype string
	Header   http.Header
	Body     []byte
}

// buildResponse serializes the envelope payload with the already-resolved
// serializer and stamps the resolved mimetype as the content type. No content
// negotiation happens here.
func buildResponse(env *Envelope, mimetype string, serialize serializer.Func) (*Response, error) {
	body, err := serialize(env.Payload)
	if err != nil {
		return nil, fmt.Errorf("apify: serialize response: %w", err)
	}

	header := make(http.Header, len(env.Header))
	for key, values := range env.Header {
		header[key] = append([]string(nil), values...)
	}

	return &Response{
		Code:     env.Code,
		Mimetype: mimetype,
		Header:   header,
		Body:     body,
	}, nil
}

func (res *Response) write(w http.ResponseWriter) error {
	for key, values := range res.Header {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
	w.Header().Set("Content-Type", res.Mimetype)
	w.WriteHeader(res.Code)
	_, err := w.Write(res.Body)
	return err
}
