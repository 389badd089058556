package preprocess

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"

	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/book"
	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/errors"
	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/logfields"
)

// Sentinel causes for protocol failures.
var (
	ErrMalformedInput       = stderrors.New("malformed preprocessor input")
	ErrRendererNotSupported = stderrors.New("renderer not supported")
)

// ReadInput decodes the host's [context, book] array. Numbers inside the
// context are kept as json.Number so integer settings survive untouched.
func ReadInput(r io.Reader) (*Context, *book.Book, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, errors.WrapError(err, errors.CategoryProtocol, "failed to read preprocessor input").Build()
	}

	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return nil, nil, malformed("input is not a JSON array", err)
	}
	if len(pair) != 2 {
		return nil, nil, malformed("input must be a [context, book] pair", nil).
			WithContext("elements", len(pair))
	}

	dec := json.NewDecoder(bytes.NewReader(pair[0]))
	dec.UseNumber()
	var ctx Context
	if err := dec.Decode(&ctx); err != nil {
		return nil, nil, malformed("invalid preprocessor context", err)
	}

	var b book.Book
	if err := json.Unmarshal(pair[1], &b); err != nil {
		return nil, nil, malformed("invalid book", err)
	}

	return &ctx, &b, nil
}

// WriteOutput encodes the processed book for the host.
func WriteOutput(w io.Writer, b *book.Book) error {
	data, err := json.Marshal(b)
	if err != nil {
		return errors.WrapError(err, errors.CategoryProtocol, "failed to encode book").Build()
	}
	if _, err := w.Write(data); err != nil {
		return errors.WrapError(err, errors.CategoryProtocol, "failed to write book").Build()
	}
	return nil
}

// Handle performs one host round trip: read input, run p, write the book.
// Nothing is written when p fails, so the host never sees a partial book.
func Handle(p Preprocessor, r io.Reader, w io.Writer, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if err := p.Metadata().Validate(); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "invalid preprocessor metadata").Build()
	}

	ctx, b, err := ReadInput(r)
	if err != nil {
		return err
	}

	logger = logger.With(logfields.Renderer(ctx.Renderer))
	if !ctx.VersionMatches() {
		logger.Warn("mdbook version differs from the version this preprocessor was built against",
			logfields.MDBookVersion(ctx.MDBookVersion),
			slog.String("expected", ProtocolVersion))
	}

	if err := p.Run(ctx, b); err != nil {
		return err
	}
	return WriteOutput(w, b)
}

// Supports answers the host's "supports <renderer>" query. It returns nil
// when p supports the renderer and a classified unsupported error otherwise.
func Supports(p Preprocessor, renderer string) error {
	if p.SupportsRenderer(renderer) {
		return nil
	}
	return errors.UnsupportedError("renderer " + renderer + " is not supported by " + p.Metadata().Name).
		WithContext("renderer", renderer).
		WithCause(ErrRendererNotSupported).
		Build()
}

func malformed(message string, cause error) *errors.ClassifiedError {
	if cause == nil {
		cause = ErrMalformedInput
	} else {
		cause = stderrors.Join(ErrMalformedInput, cause)
	}
	return errors.ProtocolError(message).WithCause(cause).Build()
}
