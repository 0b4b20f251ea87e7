package web

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// Context carries the request scoped values across the handler chain. Ctx is
// the request context and is where auth claims are stored.
type Context struct {
	*gin.Context
	Ctx context.Context

	queryErrs []error
	paramErrs []error
}

// GetQueryFunc reads an optional query parameter and converts it to the
// requested kind. A missing parameter yields a typed nil so callers can use
// the two-value type assertion idiom. Malformed values are collected and
// reported by ValidQuery.
func (c *Context) GetQueryFunc(kind reflect.Kind, name string) interface{} {
	value, ok := c.GetQuery(name)
	if !ok || value == "" {
		switch kind {
		case reflect.Int:
			return (*int)(nil)
		case reflect.Bool:
			return (*bool)(nil)
		default:
			return (*string)(nil)
		}
	}

	switch kind {
	case reflect.Int:
		v, err := strconv.Atoi(value)
		if err != nil {
			c.queryErrs = append(c.queryErrs, errors.Wrapf(err, "query parameter %q", name))
			return (*int)(nil)
		}
		return &v
	case reflect.Bool:
		v, err := strconv.ParseBool(value)
		if err != nil {
			c.queryErrs = append(c.queryErrs, errors.Wrapf(err, "query parameter %q", name))
			return (*bool)(nil)
		}
		return &v
	default:
		return &value
	}
}

// GetParam reads a path parameter and converts it to the requested kind.
// Conversion failures are collected and reported by ValidParam.
func (c *Context) GetParam(kind reflect.Kind, name string) interface{} {
	value := c.Param(name)

	switch kind {
	case reflect.Int:
		v, err := strconv.Atoi(value)
		if err != nil {
			c.paramErrs = append(c.paramErrs, errors.Wrapf(err, "path parameter %q", name))
			return 0
		}
		return v
	default:
		return value
	}
}

// ValidQuery reports any query parameter conversion error collected so far.
func (c *Context) ValidQuery() error {
	if len(c.queryErrs) > 0 {
		return NewRequestError(c.queryErrs[0], http.StatusBadRequest)
	}
	return nil
}

// ValidParam reports any path parameter conversion error collected so far.
func (c *Context) ValidParam() error {
	if len(c.paramErrs) > 0 {
		return NewRequestError(c.paramErrs[0], http.StatusBadRequest)
	}
	return nil
}

// BindFunc binds the request body into data and enforces that the named
// struct fields are present. Pointer fields must be non-nil and value fields
// must be non-zero.
func (c *Context) BindFunc(data interface{}, requiredFields ...string) error {
	if err := c.ShouldBind(data); err != nil {
		return NewRequestError(errors.Wrap(err, "parsing request body"), http.StatusBadRequest)
	}

	v := reflect.Indirect(reflect.ValueOf(data))
	for _, name := range requiredFields {
		field := v.FieldByName(name)
		if !field.IsValid() {
			continue
		}
		if field.Kind() == reflect.Ptr {
			if field.IsNil() {
				return NewRequestError(fmt.Errorf("field %s is required", name), http.StatusBadRequest)
			}
			continue
		}
		if field.IsZero() {
			return NewRequestError(fmt.Errorf("field %s is required", name), http.StatusBadRequest)
		}
	}

	return nil
}

// Respond converts a Go value to JSON and sends it to the client.
func (c *Context) Respond(data interface{}, statusCode int) error {
	c.JSON(statusCode, data)
	return nil
}

// RespondError sends an error response back to the client. Trusted *Error
// values keep their status code, everything else becomes a 500.
func (c *Context) RespondError(err error) error {
	if webErr, ok := err.(*Error); ok {
		return c.Respond(map[string]interface{}{
			"error":  webErr.Error(),
			"fields": webErr.Fields,
			"status": false,
		}, webErr.Status)
	}

	return c.Respond(map[string]interface{}{
		"error":  err.Error(),
		"status": false,
	}, http.StatusInternalServerError)
}
