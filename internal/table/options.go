package table

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"

	"atscli/internal/config"
	apperrors "atscli/internal/errors"
)

// MissingFieldPolicy decides what happens to rows shorter than the header
type MissingFieldPolicy string

const (
	// MissingFieldsError rejects short rows with a parse error
	MissingFieldsError MissingFieldPolicy = config.MissingFieldsError
	// MissingFieldsFill pads short rows with nulls
	MissingFieldsFill MissingFieldPolicy = config.MissingFieldsFill
)

// LoadOptions controls parsing of delimited text and spreadsheets
type LoadOptions struct {
	Delimiter     rune
	Comment       rune
	Encoding      string
	TrimSpace     bool
	MissingFields MissingFieldPolicy
	NullValues    []string
	InferTypes    bool
	ColumnTypes   map[string]ColumnType
	// Sheet selects the spreadsheet sheet; empty means the first one
	Sheet string
}

// DefaultLoadOptions returns comma-delimited UTF-8 parsing with type
// inference and strict field counts.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Delimiter:     ',',
		Encoding:      config.DefaultEncoding,
		MissingFields: MissingFieldsError,
		NullValues:    append([]string(nil), config.DefaultNullValues...),
		InferTypes:    true,
	}
}

// OptionsFromConfig converts the loader section of the configuration
func OptionsFromConfig(cfg config.LoaderConfig) (LoadOptions, error) {
	opts := DefaultLoadOptions()

	if cfg.Delimiter != "" {
		r, _ := utf8.DecodeRuneInString(cfg.Delimiter)
		opts.Delimiter = r
	}
	if cfg.Comment != "" {
		r, _ := utf8.DecodeRuneInString(cfg.Comment)
		opts.Comment = r
	}
	if cfg.Encoding != "" {
		if _, err := decoderFor(cfg.Encoding); err != nil {
			return LoadOptions{}, apperrors.NewConfigError("unsupported encoding", err).
				WithContext("encoding", cfg.Encoding)
		}
		opts.Encoding = cfg.Encoding
	}
	if cfg.MissingFields != "" {
		opts.MissingFields = MissingFieldPolicy(cfg.MissingFields)
	}
	if cfg.NullValues != nil {
		opts.NullValues = append([]string(nil), cfg.NullValues...)
	}
	opts.TrimSpace = cfg.TrimSpace
	opts.InferTypes = cfg.InferTypes

	if len(cfg.ColumnTypes) > 0 {
		opts.ColumnTypes = make(map[string]ColumnType, len(cfg.ColumnTypes))
		for name, typeName := range cfg.ColumnTypes {
			ct, err := ParseColumnType(typeName)
			if err != nil {
				return LoadOptions{}, apperrors.NewConfigError("invalid column type", err).
					WithContext("column", name)
			}
			opts.ColumnTypes[name] = ct
		}
	}

	return opts, nil
}

func (o LoadOptions) nullSet() map[string]struct{} {
	set := make(map[string]struct{}, len(o.NullValues))
	for _, v := range o.NullValues {
		set[v] = struct{}{}
	}
	return set
}

// decoderFor returns a decoder for the named encoding. UTF-8 strips a
// leading byte order mark.
func decoderFor(name string) (*encoding.Decoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return unicode.UTF8BOM.NewDecoder(), nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return enc.NewDecoder(), nil
}
