package binder

import (
	"bytes"
	"fmt"
	"mime"
	"mime/multipart"
	"net/url"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/dbonates/quark/core/message"
)

const (
	// DefaultMaxFormSize is the largest form body Form accepts (10MB).
	DefaultMaxFormSize = 10 << 20
	// DefaultMaxMemory is how much of a multipart body is kept in memory;
	// larger file parts are spooled to temporary files.
	DefaultMaxMemory = 10 << 20

	maxBoundaryLength = 100
)

var fileHeaderType = reflect.TypeOf((*multipart.FileHeader)(nil))

// Form binds an application/x-www-form-urlencoded or multipart/form-data
// body. Values use `form` tags; uploaded files bind to *multipart.FileHeader
// or []*multipart.FileHeader fields tagged `file`. Unlike the other binders,
// untagged fields are ignored.
func Form() Binder {
	return func(req *message.Request, v any) error {
		contentType := req.ContentType()
		if contentType == "" {
			return fmt.Errorf("%w: expected application/x-www-form-urlencoded or multipart/form-data", ErrMissingContentType)
		}

		var (
			values map[string][]string
			files  map[string][]*multipart.FileHeader
		)

		switch contentType {
		case "application/x-www-form-urlencoded":
			body, err := readBody(req, DefaultMaxFormSize, ErrFailedToParseForm)
			if err != nil {
				return err
			}
			parsed, err := url.ParseQuery(string(body))
			if err != nil {
				return fmt.Errorf("%w: %v", ErrFailedToParseForm, err)
			}
			values = parsed

		case "multipart/form-data":
			_, params, err := mime.ParseMediaType(req.Headers.Get("Content-Type"))
			if err != nil {
				return fmt.Errorf("%w: malformed content type", ErrFailedToParseForm)
			}
			boundary := params["boundary"]
			if !validBoundary(boundary) {
				return fmt.Errorf("%w: invalid boundary parameter", ErrFailedToParseForm)
			}

			body, err := readBody(req, DefaultMaxFormSize, ErrFailedToParseForm)
			if err != nil {
				return err
			}
			form, err := multipart.NewReader(bytes.NewReader(body), boundary).ReadForm(DefaultMaxMemory)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrFailedToParseForm, err)
			}
			values, files = form.Value, form.File

		default:
			return fmt.Errorf("%w: got %s, expected application/x-www-form-urlencoded or multipart/form-data", ErrUnsupportedMediaType, contentType)
		}

		return bindForm(v, values, files)
	}
}

func bindForm(v any, values map[string][]string, files map[string][]*multipart.FileHeader) error {
	rv, err := structTarget(v, ErrFailedToParseForm)
	if err != nil {
		return err
	}
	rt := rv.Type()

	for i := range rv.NumField() {
		field := rv.Field(i)
		sf := rt.Field(i)
		if !field.CanSet() {
			continue
		}

		if name, _, _ := strings.Cut(sf.Tag.Get("form"), ","); name != "" && name != "-" {
			if vals := values[name]; len(vals) > 0 {
				if err := setFieldValue(field, sf.Type, vals); err != nil {
					return fmt.Errorf("%w: field %s: %v", ErrFailedToParseForm, sf.Name, err)
				}
			}
		}

		if name := sf.Tag.Get("file"); name != "" && name != "-" {
			if fhs := files[name]; len(fhs) > 0 {
				if err := setFileField(field, sf.Type, fhs); err != nil {
					return fmt.Errorf("%w: field %s: %v", ErrFailedToParseForm, sf.Name, err)
				}
			}
		}
	}
	return nil
}

func setFileField(field reflect.Value, typ reflect.Type, fhs []*multipart.FileHeader) error {
	for _, fh := range fhs {
		fh.Filename = sanitizeFilename(fh.Filename)
	}

	switch {
	case typ == fileHeaderType:
		field.Set(reflect.ValueOf(fhs[0]))
	case typ.Kind() == reflect.Slice && typ.Elem() == fileHeaderType:
		field.Set(reflect.ValueOf(fhs))
	default:
		return fmt.Errorf("unsupported type for file field: %v", typ)
	}
	return nil
}

// sanitizeFilename keeps the base name of an uploaded file, without
// separators or control characters.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = sanitizeString(name)
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}

func validBoundary(b string) bool {
	return b != "" && len(b) <= maxBoundaryLength && !strings.ContainsAny(b, "\x00\r\n")
}
