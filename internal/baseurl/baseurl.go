package baseurl

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Error reports why a raw value was rejected.
type Error struct {
	Detail string
}

func (e *Error) Error() string {
	return "invalid url: " + e.Detail
}

// Normalize trims whitespace and trailing slashes from raw and checks that
// what remains is an absolute http or https URL with a host. The trimmed
// input is returned as-is; it is never re-serialized.
func Normalize(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimRightFunc(s, func(r rune) bool {
		return r == '/' || unicode.IsSpace(r)
	})

	err := validation.Validate(s,
		validation.Required.Error("empty url"),
		validation.By(validateHTTPURL),
	)
	if err != nil {
		return "", &Error{Detail: err.Error()}
	}

	return s, nil
}

// Join appends an absolute path to a normalized base URL.
func Join(base, path string) string {
	return base + "/" + strings.TrimLeft(path, "/")
}

func validateHTTPURL(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	parsedURL, err := url.Parse(s)
	if err != nil {
		return validation.NewError("validation_invalid_url", parseDetail(err))
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return validation.NewError("validation_invalid_scheme",
			fmt.Sprintf("unsupported scheme: %s", parsedURL.Scheme))
	}

	if parsedURL.Hostname() == "" {
		return validation.NewError("validation_missing_host", "missing host")
	}

	return nil
}

// parseDetail drops the quoted input that url.Error carries so the message
// reads like the other validation failures.
func parseDetail(err error) string {
	if ue, ok := err.(*url.Error); ok {
		return ue.Err.Error()
	}
	return err.Error()
}
