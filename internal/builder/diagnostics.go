package builder

import (
	stderrors "errors"
	"fmt"

	"github.com/toyz/apidoc/internal/errors"
)

// Severity ranks a diagnostic
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Diagnostic reports a route, content type or schema problem found while
// building. Errors mean the entry was left out of the document.
type Diagnostic struct {
	Severity Severity
	Location errors.Location
	Message  string
	Err      error
}

func (d Diagnostic) String() string {
	msg := d.Message
	if d.Err != nil {
		msg = d.Err.Error()
		var docErr errors.DocError
		if stderrors.As(d.Err, &docErr) && !docErr.Location().IsEmpty() {
			return fmt.Sprintf("%s: %s", d.Severity, msg)
		}
	}
	if d.Location.IsEmpty() {
		return fmt.Sprintf("%s: %s", d.Severity, msg)
	}
	return fmt.Sprintf("%s: %s: %s", d.Severity, d.Location, msg)
}

// Code returns the error code of an error diagnostic
func (d Diagnostic) Code() errors.ErrorCode {
	return errors.CodeOf(d.Err)
}

func errorDiagnostic(loc errors.Location, err error) Diagnostic {
	return Diagnostic{Severity: SeverityError, Location: loc, Message: "skipped", Err: err}
}

func warningDiagnostic(loc errors.Location, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Severity: SeverityWarning, Location: loc, Message: fmt.Sprintf(format, args...)}
}
