package configstore

import "errors"

// Kind classifies a store failure.
type Kind int

const (
	KindMissingHomeDir Kind = iota + 1
	KindInvalidURL
	KindIO
	KindJSON
)

func (k Kind) String() string {
	switch k {
	case KindMissingHomeDir:
		return "missing_home_dir"
	case KindInvalidURL:
		return "invalid_url"
	case KindIO:
		return "io"
	case KindJSON:
		return "json"
	default:
		return "unknown"
	}
}

var (
	// ErrMissingHomeDir is matched by errors.Is for KindMissingHomeDir failures.
	ErrMissingHomeDir = errors.New("missing user home directory")

	// ErrNotConfigured is returned by Resolve when neither an override nor a
	// saved configuration provides a server URL.
	ErrNotConfigured = errors.New("server url is not configured: run `antihook config set` or set ANTIHOOK_SERVER_URL")
)

// Error is the tagged error returned by every Store operation.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindMissingHomeDir:
		return ErrMissingHomeDir.Error()
	case KindIO:
		return "io error: " + e.Err.Error()
	case KindJSON:
		return "json error: " + e.Err.Error()
	default:
		return e.Err.Error()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports a match against ErrMissingHomeDir for KindMissingHomeDir errors.
func (e *Error) Is(target error) bool {
	return e.Kind == KindMissingHomeDir && target == ErrMissingHomeDir
}

// IsKind reports whether err is a store Error of kind k.
func IsKind(err error, k Kind) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind == k
	}
	return false
}

func wrap(kind Kind, err error) error {
	return &Error{Kind: kind, Err: err}
}
