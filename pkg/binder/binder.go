package binder

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/labstack/echo/v4"
	"github.com/libradesk/circulation/pkg/errcodes"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
)

var unknownFieldsRE = regexp.MustCompile(`^json: unknown field "(.*)"$`)

// Binder is a custom struct that implements the Echo Binder interface. It binds
// to a struct and uses validator to validate it.
type Binder struct {
	queryDecoder *schema.Decoder
	formDecoder  *schema.Decoder
	validate     *validator.Validate

	disallowUnknownFields bool
	disallowEmptyBody     bool
}

// Option changes the default behavior of a Binder. Per-request overrides can
// still be set on the echo context ("disallow_unknown_fields",
// "disallow_empty_body").
type Option func(*Binder)

// AllowUnknownFields makes the Binder ignore JSON fields that don't exist on
// the target struct instead of rejecting the request.
func AllowUnknownFields() Option {
	return func(b *Binder) {
		b.disallowUnknownFields = false
	}
}

// AllowEmptyBody lets POST/PUT/PATCH requests without a body through, leaving
// the target struct at its zero values.
func AllowEmptyBody() Option {
	return func(b *Binder) {
		b.disallowEmptyBody = false
	}
}

// New initializes a new Binder instance.
func New(opts ...Option) (*Binder, error) {
	queryDecoder := schema.NewDecoder()
	queryDecoder.SetAliasTag("query")
	formDecoder := schema.NewDecoder()
	formDecoder.SetAliasTag("form")
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	b := &Binder{
		queryDecoder:          queryDecoder,
		formDecoder:           formDecoder,
		validate:              validate,
		disallowUnknownFields: true,
		disallowEmptyBody:     true,
	}
	for _, opt := range opts {
		opt(b)
	}
	if !b.disallowUnknownFields {
		b.queryDecoder.IgnoreUnknownKeys(true)
		b.formDecoder.IgnoreUnknownKeys(true)
	}
	return b, nil
}

// Bind binds and validates payloads against the given struct.
func (b *Binder) Bind(i interface{}, c echo.Context) error {
	req := c.Request()
	log := logger.FromEchoContext(c)

	disallowEmptyBody := b.disallowEmptyBody
	if disallow, ok := c.Get("disallow_empty_body").(bool); ok {
		disallowEmptyBody = disallow
	}

	// A chunked request reports a ContentLength of -1, so only a known zero
	// length means there's no body.
	hasBody := req.ContentLength != 0 && req.Body != nil && req.Body != http.NoBody

	if hasBody {
		ctype := req.Header.Get(echo.HeaderContentType)
		switch {
		// allow application/json
		case strings.HasPrefix(ctype, echo.MIMEApplicationJSON):
			dec := json.NewDecoder(req.Body)
			disallowUnknownFields := b.disallowUnknownFields
			if disallow, ok := c.Get("disallow_unknown_fields").(bool); ok {
				disallowUnknownFields = disallow
			}
			if disallowUnknownFields {
				dec.DisallowUnknownFields()
			}
			defer req.Body.Close()
			if err := dec.Decode(i); err != nil {
				if errors.Is(err, io.EOF) {
					// chunked request whose body turned out to be empty
					hasBody = false
					break
				}

				// return better error message when there are unknown fields
				if matches := unknownFieldsRE.FindAllStringSubmatch(err.Error(), -1); len(matches) > 0 && len(matches[0]) > 1 {
					return errcodes.UnknownParameter(matches[0][1])
				}

				// return better error message on type errors
				if err, ok := err.(*json.UnmarshalTypeError); ok {
					msg := formatUnmarshalTypeError(err)
					return errcodes.ValidationTypeError(msg)
				}

				log.Err(err).Error("unknown json decode error")

				return errcodes.MalformedPayload()
			}
		case strings.HasPrefix(ctype, echo.MIMEApplicationForm), strings.HasPrefix(ctype, echo.MIMEMultipartForm):
			params, err := c.FormParams()
			if err != nil {
				return errcodes.MalformedPayload()
			}
			if err := b.decodeQuery(i, params, b.formDecoder); err != nil {
				return errors.WithStack(err)
			}
		default:
			return errcodes.UnsupportedMediaType()
		}
	}

	if !hasBody {
		if req.Method == http.MethodGet || req.Method == http.MethodDelete {
			if err := b.decodeQuery(i, c.QueryParams(), b.queryDecoder); err != nil {
				return errors.WithStack(err)
			}
		} else if disallowEmptyBody {
			return errcodes.EmptyRequestBody()
		}
	}

	if err := b.validate.Struct(i); err != nil {
		errs := err.(validator.ValidationErrors)
		msg := formatValidationError(errs[0])
		return errcodes.ValidationError(msg)
	}
	return nil
}

func (b *Binder) decodeQuery(i interface{}, params url.Values, decoder *schema.Decoder) error {
	if err := decoder.Decode(i, params); err != nil {
		if errs, ok := err.(schema.MultiError); ok {
			var err error
			for _, err = range errs {
				break
			}

			if err, ok := err.(schema.ConversionError); ok {
				msg := formatSchemaConversionError(err)
				return errcodes.ValidationTypeError(msg)
			}
			if err, ok := err.(schema.UnknownKeyError); ok {
				return errcodes.UnknownParameter(err.Key)
			}

			return errors.WithStack(err)
		}
		return errors.WithStack(err)
	}
	return nil
}
