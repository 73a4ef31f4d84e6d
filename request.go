package api

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"reflect"
	"strconv"
	"time"
)

// maxMultipartMemory caps the in-memory portion of a parsed multipart
// form at 32 MB. Larger uploads spill to temporary files.
const maxMultipartMemory = 32 << 20

// bindMode selects the decode strategy for a request type.
type bindMode int

const (
	modeVoid   bindMode = iota // Void, nothing to bind
	modeBody                   // whole struct decoded from the body
	modeParams                 // tagged fields only, no body
	modeMixed                  // tagged fields plus a Body field
	modeForm                   // multipart form fields
)

// requestMode picks the decode strategy for a request type. Form tags
// win over a Body field, and a Body field wins over bare param tags.
func requestMode(t reflect.Type) bindMode {
	switch {
	case t == reflect.TypeFor[Void]():
		return modeVoid
	case hasFormTags(t):
		return modeForm
	case hasBodyField(t):
		return modeMixed
	case hasParamTags(t) || hasRawRequest(t):
		return modeParams
	default:
		return modeBody
	}
}

// decodeRequest builds a Req value from the incoming HTTP request.
func decodeRequest[Req any](r *http.Request, codecs *codecRegistry) (*Req, error) {
	req := new(Req)
	mode := requestMode(reflect.TypeFor[Req]())
	if mode == modeVoid {
		return req, nil
	}

	// Tagged fields and RawRequest injection apply in every mode.
	if err := bindParams(req, r); err != nil {
		return nil, err
	}

	switch mode {
	case modeBody:
		if err := decodeBody(r, req, codecs); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBindBody, err)
		}
	case modeMixed:
		body := reflect.ValueOf(req).Elem().FieldByName("Body").Addr().Interface()
		if err := decodeBody(r, body, codecs); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBindBody, err)
		}
	case modeForm:
		if err := bindFormFields(req, r); err != nil {
			return nil, err
		}
	}

	return req, nil
}

// paramSource describes one place a tagged field can be filled from.
type paramSource struct {
	tag          string
	sentinel     error
	allowDefault bool
	lookup       func(*http.Request, string) string
}

// paramSources lists the binding sources in the order they apply. Path
// values never fall back to the default tag because the mux only
// dispatches here when every path segment matched.
var paramSources = []paramSource{
	{tag: "path", sentinel: ErrBindPath, lookup: (*http.Request).PathValue},
	{tag: "query", sentinel: ErrBindQuery, allowDefault: true, lookup: queryValue},
	{tag: "header", sentinel: ErrBindHeader, allowDefault: true, lookup: headerValue},
	{tag: "cookie", sentinel: ErrBindCookie, allowDefault: true, lookup: cookieValue},
}

func queryValue(r *http.Request, name string) string {
	return r.URL.Query().Get(name)
}

func headerValue(r *http.Request, name string) string {
	return r.Header.Get(name)
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

// structValue unwraps a pointer-to-struct into its element value.
func structValue(target any) reflect.Value {
	v := reflect.ValueOf(target)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	return v
}

// eachField visits every exported field of the struct behind target,
// stopping at the first error.
func eachField(target any, fn func(f reflect.StructField, field reflect.Value) error) error {
	v := structValue(target)
	t := v.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if err := fn(f, v.Field(i)); err != nil {
			return err
		}
	}
	return nil
}

// bindParams fills path, query, header, and cookie fields and injects
// the raw request into an embedded RawRequest. A source that produces
// no value leaves the field at its zero value.
func bindParams(target any, r *http.Request) error {
	return eachField(target, func(f reflect.StructField, field reflect.Value) error {
		if f.Name == "Body" {
			return nil
		}

		for _, src := range paramSources {
			name := f.Tag.Get(src.tag)
			if name == "" {
				continue
			}
			val := src.lookup(r, name)
			if val == "" && src.allowDefault {
				val = f.Tag.Get("default")
			}
			if val == "" {
				continue
			}
			if err := setFieldValue(field, val); err != nil {
				return fmt.Errorf("%w: %s: %w", src.sentinel, name, err)
			}
		}

		if f.Type == reflect.TypeFor[RawRequest]() {
			field.Set(reflect.ValueOf(RawRequest{Request: r}))
		}
		return nil
	})
}

// bindFormFields fills form-tagged fields from a multipart request.
// FileUpload and []FileUpload fields receive the uploaded files; every
// other field is converted from its first form value.
func bindFormFields(target any, r *http.Request) error {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return fmt.Errorf("%w: %w", ErrBindForm, err)
	}

	return eachField(target, func(f reflect.StructField, field reflect.Value) error {
		name := f.Tag.Get("form")
		if name == "" {
			return nil
		}

		if f.Type == reflect.TypeFor[FileUpload]() || f.Type == reflect.TypeFor[[]FileUpload]() {
			if err := bindUploads(field, f.Type, r, name); err != nil {
				return fmt.Errorf("%w: %s: %w", ErrBindForm, name, err)
			}
			return nil
		}

		val := r.FormValue(name)
		if val == "" {
			return nil
		}
		if err := setFieldValue(field, val); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrBindForm, name, err)
		}
		return nil
	})
}

// bindUploads sets a FileUpload or []FileUpload field from the parsed
// multipart form. Absent files leave the field at its zero value so
// uploads stay optional.
func bindUploads(field reflect.Value, t reflect.Type, r *http.Request, name string) error {
	if r.MultipartForm == nil {
		return nil
	}
	headers := r.MultipartForm.File[name]
	if len(headers) == 0 {
		return nil
	}

	if t == reflect.TypeFor[FileUpload]() {
		upload, err := openUpload(headers[0])
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(upload))
		return nil
	}

	uploads := make([]FileUpload, 0, len(headers))
	for _, header := range headers {
		upload, err := openUpload(header)
		if err != nil {
			return err
		}
		uploads = append(uploads, upload)
	}
	field.Set(reflect.ValueOf(uploads))
	return nil
}

func openUpload(header *multipart.FileHeader) (FileUpload, error) {
	file, err := header.Open()
	if err != nil {
		return FileUpload{}, err
	}
	return FileUpload{
		Filename: header.Filename,
		Size:     header.Size,
		Header:   header,
		file:     file,
	}, nil
}

// setFieldValue converts a wire string into a struct field. The
// convertible types mirror what the schema layer can describe, so an
// unsupported field type surfaces as a binding error.
func setFieldValue(field reflect.Value, value string) error {
	if field.Type() == reflect.TypeFor[time.Duration]() {
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}

	//exhaustive:ignore
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
		return nil
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)
		return nil
	case reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)
		return nil
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
		return nil
	default:
		return fmt.Errorf("unsupported type: %s", field.Type())
	}
}

// decodeBody decodes the request body into target using the decoder
// matching the Content-Type header. An empty body is not an error.
func decodeBody(r *http.Request, target any, codecs *codecRegistry) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec, ok := codecs.decoderFor(r.Header.Get("Content-Type"))
	if !ok {
		return fmt.Errorf("unsupported content type %q", r.Header.Get("Content-Type"))
	}
	return dec.Decode(r.Body, target)
}
