package api

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"io"
	"mime"
	"slices"
	"strconv"
	"strings"
)

// Encoder renders response values in one wire format. Encoders are
// selected per request by Accept header negotiation.
type Encoder interface {
	ContentType() string
	Encode(w io.Writer, v any) error
}

// Decoder reads request bodies in one wire format. Decoders are
// selected per request by the Content-Type header.
type Decoder interface {
	ContentType() string
	Decode(r io.Reader, v any) error
}

// tolerateEOF maps a bare EOF to nil so an empty body decodes to the
// zero value instead of failing.
func tolerateEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

type jsonCodec struct{}

func (jsonCodec) ContentType() string { return "application/json" }

func (jsonCodec) Encode(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

func (jsonCodec) Decode(r io.Reader, v any) error {
	return tolerateEOF(json.NewDecoder(r).Decode(v))
}

type xmlCodec struct{}

func (xmlCodec) ContentType() string { return "application/xml" }

func (xmlCodec) Encode(w io.Writer, v any) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(v)
}

func (xmlCodec) Decode(r io.Reader, v any) error {
	return tolerateEOF(xml.NewDecoder(r).Decode(v))
}

// codecRegistry holds the router's encoders and decoders in priority
// order. The first entry is the default format.
type codecRegistry struct {
	encoders []Encoder
	decoders []Decoder
}

// newCodecRegistry assembles the codec set. JSON leads so it serves as
// the default for missing Accept and Content-Type headers, XML follows,
// then any user-registered codecs in registration order.
func newCodecRegistry(userEncoders []Encoder, userDecoders []Decoder) *codecRegistry {
	return &codecRegistry{
		encoders: append([]Encoder{jsonCodec{}, xmlCodec{}}, userEncoders...),
		decoders: append([]Decoder{jsonCodec{}, xmlCodec{}}, userDecoders...),
	}
}

// negotiate picks the response encoder for an Accept header. An empty
// header means the default encoder. Among the acceptable types the
// highest quality wins, with earlier entries breaking ties. A header
// that names only unsupported types yields no encoder, which the
// response path turns into 406.
func (cr *codecRegistry) negotiate(accept string) (Encoder, bool) {
	if accept == "" {
		return cr.encoders[0], true
	}

	var best Encoder
	bestQ := -1.0

	for part := range strings.SplitSeq(accept, ",") {
		mediaType, q, ok := parseAcceptPart(part)
		if !ok || q <= bestQ {
			continue
		}
		if enc, ok := cr.encoderFor(mediaType); ok {
			best, bestQ = enc, q
		}
	}

	if best == nil {
		return nil, false
	}
	return best, true
}

// parseAcceptPart splits one comma-separated Accept entry into its
// media type and quality. Entries without a parseable q default to 1.
func parseAcceptPart(part string) (mediaType string, q float64, ok bool) {
	mediaType, params, err := mime.ParseMediaType(strings.TrimSpace(part))
	if err != nil {
		return "", 0, false
	}
	q = 1.0
	if qs, present := params["q"]; present {
		if parsed, err := strconv.ParseFloat(qs, 64); err == nil {
			q = parsed
		}
	}
	return mediaType, q, true
}

// encoderFor resolves a concrete media type to an encoder. The
// wildcard resolves to the default.
func (cr *codecRegistry) encoderFor(mediaType string) (Encoder, bool) {
	if mediaType == "*/*" {
		return cr.encoders[0], true
	}
	i := slices.IndexFunc(cr.encoders, func(e Encoder) bool { return e.ContentType() == mediaType })
	if i < 0 {
		return nil, false
	}
	return cr.encoders[i], true
}

// decoderFor resolves a Content-Type header to a decoder. An absent
// header means the default decoder; an unrecognized one means no
// decoder, which the binding path turns into 400.
func (cr *codecRegistry) decoderFor(contentType string) (Decoder, bool) {
	if contentType == "" {
		return cr.decoders[0], true
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, false
	}

	i := slices.IndexFunc(cr.decoders, func(d Decoder) bool { return d.ContentType() == mediaType })
	if i < 0 {
		return nil, false
	}
	return cr.decoders[i], true
}

// contentTypes lists every response media type for the document.
func (cr *codecRegistry) contentTypes() []string {
	cts := make([]string, len(cr.encoders))
	for i, enc := range cr.encoders {
		cts[i] = enc.ContentType()
	}
	return cts
}

// decoderContentTypes lists every request media type for the document.
func (cr *codecRegistry) decoderContentTypes() []string {
	cts := make([]string, len(cr.decoders))
	for i, dec := range cr.decoders {
		cts[i] = dec.ContentType()
	}
	return cts
}
