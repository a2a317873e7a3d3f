package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"

	"github.com/ticketx-lab/backend/pkg/errorx"
	"github.com/ticketx-lab/backend/pkg/xcontext"
)

// Middleware runs before the handler and can enrich the request context; an
// error aborts the request.
type Middleware func(ctx context.Context, r *http.Request) (context.Context, error)

// Endpoint binds one domain operation to a route. The base context given to
// Register carries the process-wide values (configs, logger, db, token
// engine); each request derives from it.
type Endpoint[Request, Response any] struct {
	Method string
	Path   string
	Before []Middleware
	Handle func(ctx context.Context, req *Request) (*Response, error)
}

func (e *Endpoint[Request, Response]) Register(mux *http.ServeMux, base context.Context) {
	mux.HandleFunc(e.Path, func(w http.ResponseWriter, r *http.Request) {
		if e.Method != "" && r.Method != e.Method {
			writeError(w, errorx.New(errorx.BadRequest, "Method is not allowed"))
			return
		}

		ctx := base
		for _, m := range e.Before {
			var err error
			if ctx, err = m(ctx, r); err != nil {
				writeError(w, err)
				return
			}
		}

		var req Request
		if err := e.decode(r, &req); err != nil {
			writeError(w, errorx.New(errorx.BadRequest, "Cannot parse request"))
			return
		}

		resp, err := e.Handle(ctx, &req)
		if err != nil {
			writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot encode response of %s: %v", e.Path, err)
		}
	})
}

func (e *Endpoint[Request, Response]) decode(r *http.Request, req any) error {
	switch e.Method {
	case http.MethodGet, http.MethodDelete:
		return decodeQuery(r, req)

	default:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return err
		}

		if len(body) == 0 {
			return nil
		}

		return json.Unmarshal(body, req)
	}
}

// decodeQuery fills string and integer fields from query parameters, keyed
// by the json tag. Missing parameters leave the zero value.
func decodeQuery(r *http.Request, req any) error {
	v := reflect.ValueOf(req).Elem()
	for i := 0; i < v.NumField(); i++ {
		name := v.Type().Field(i).Tag.Get("json")
		queryVal := r.URL.Query().Get(name)
		if queryVal == "" {
			continue
		}

		switch v.Field(i).Kind() {
		case reflect.String:
			v.Field(i).SetString(queryVal)

		case reflect.Int, reflect.Int64:
			n, err := strconv.ParseInt(queryVal, 10, 64)
			if err != nil {
				return err
			}

			v.Field(i).SetInt(n)
		}
	}

	return nil
}

func writeError(w http.ResponseWriter, err error) {
	var xerr errorx.Error
	if !errors.As(err, &xerr) {
		xerr = errorx.Unknown
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus(xerr.Code))
	_ = json.NewEncoder(w).Encode(map[string]any{
		"code":  int(xerr.Code),
		"error": xerr.Message,
	})
}

func httpStatus(code errorx.Code) int {
	switch code {
	case errorx.BadRequest:
		return http.StatusBadRequest
	case errorx.Unauthenticated:
		return http.StatusUnauthorized
	case errorx.PermissionDenied:
		return http.StatusForbidden
	case errorx.NotFound:
		return http.StatusNotFound
	case errorx.AlreadyExists, errorx.Unavailable:
		return http.StatusConflict
	case errorx.TooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
