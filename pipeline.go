package apify

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/vitalk/apify/apierr"
)

// wrap builds the request pipeline around a view: resolve the serializer,
// run preprocessors, invoke the view, build the response envelope, and run
// finalizers. API errors raised anywhere along the way replace the response
// with a translated error envelope.
func (a *Apify) wrap(view ViewFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc, err := a.resolveSerializer(r)
		if rc == nil {
			// The default mimetype has no serializer. Setup-level failure,
			// nothing client-facing can be rendered.
			a.errorHandler(w, r, err)
			return
		}
		r = r.WithContext(withRequestContext(r.Context(), rc))
		if err != nil {
			a.finishWithError(w, r, rc, err)
			return
		}

		res, err := a.execute(r, view, rc)
		if err != nil {
			a.finishWithError(w, r, rc, err)
			return
		}
		a.send(w, r, res)
	}
}

// resolveSerializer is the fixed first preprocessing step. When negotiation
// fails the default pair is still stored so the error envelope can be
// rendered, but the failure is returned: the default never satisfies the
// original request.
func (a *Apify) resolveSerializer(r *http.Request) (*RequestContext, error) {
	mimetype, fn, err := a.serializers.Negotiate(r.Header.Get("Accept"))
	if err == nil {
		return &RequestContext{Mimetype: mimetype, Serializer: fn}, nil
	}

	defMimetype, defFn, defErr := a.serializers.Default()
	if defErr != nil {
		return nil, defErr
	}
	return &RequestContext{Mimetype: defMimetype, Serializer: defFn}, err
}

func (a *Apify) execute(r *http.Request, view ViewFunc, rc *RequestContext) (*Response, error) {
	fn := view
	var err error
	for _, pre := range a.preprocessors {
		if pre == nil {
			continue
		}
		if fn, err = pre(r, fn); err != nil {
			return nil, err
		}
		if fn == nil {
			return nil, errors.New("apify: preprocessor returned nil view")
		}
	}

	raw, err := fn(r)
	if err != nil {
		return nil, err
	}

	res, err := buildResponse(unpack(raw), rc.Mimetype, rc.Serializer)
	if err != nil {
		return nil, err
	}

	for _, fin := range a.finalizers {
		if fin == nil {
			continue
		}
		if res, err = fin(r, res); err != nil {
			return nil, err
		}
		if res == nil {
			return nil, errors.New("apify: finalizer returned nil response")
		}
	}
	return res, nil
}

// finishWithError renders err through the error translator when it is an API
// error; everything else goes to the fallback handler. The serializer in rc
// is already the negotiated one, or the default pair when negotiation
// failed, so a second negotiation failure cannot occur here.
func (a *Apify) finishWithError(w http.ResponseWriter, r *http.Request, rc *RequestContext, err error) {
	apiErr, ok := apierr.From(err)
	if !ok {
		a.errorHandler(w, r, err)
		return
	}

	res, buildErr := buildResponse(translate(apiErr), rc.Mimetype, rc.Serializer)
	if buildErr != nil {
		a.errorHandler(w, r, buildErr)
		return
	}

	a.logAPIError(r, apiErr)
	a.send(w, r, res)
}

// translate maps an API error to its wire envelope.
func translate(e *apierr.Error) *Envelope {
	return &Envelope{
		Payload: map[string]string{
			"error":   e.Name,
			"message": e.Description,
		},
		Code: e.Code,
	}
}

func (a *Apify) send(w http.ResponseWriter, r *http.Request, res *Response) {
	if err := res.write(w); err != nil {
		a.log.ErrorContext(r.Context(), "failed to write response",
			"error", err,
			"traceId", TraceID(r.Context()))
	}
}

func (a *Apify) defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	a.log.ErrorContext(r.Context(), "unhandled view error",
		"error", err,
		"path", r.URL.Path,
		"traceId", TraceID(r.Context()))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (a *Apify) logAPIError(r *http.Request, e *apierr.Error) {
	level := slog.LevelWarn
	if e.Code >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	a.log.Log(r.Context(), level, "api error",
		"status", e.Code,
		"error", e.Name,
		"path", r.URL.Path,
		"traceId", TraceID(r.Context()))
}
