package feed

import "fmt"

// ParseErrorKind discriminates the structural failures of Parser.Run.
type ParseErrorKind string

const (
	ParseErrorMalformedXML   ParseErrorKind = "malformed_xml"
	ParseErrorMissingRoot    ParseErrorKind = "missing_root"
	ParseErrorMissingChannel ParseErrorKind = "missing_channel"
)

// ParseError is returned when a document cannot be parsed at all. Field
// level problems never produce a ParseError; they degrade to absent values.
type ParseError struct {
	Kind    ParseErrorKind
	Message string
	Excerpt string
}

func (e *ParseError) Error() string {
	if e.Excerpt != "" {
		return fmt.Sprintf("%s: %s (near %q)", e.Kind, e.Message, e.Excerpt)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}
