package errors

import (
	stderrors "errors"
	"fmt"
)

// NewInvalidRouteDescriptor reports a route or route group missing a required field
func NewInvalidRouteDescriptor(field string, loc Location) *BaseError {
	return Newf(InvalidRouteDescriptorCode, "invalid route descriptor: missing %s", field).
		WithLocation(loc).
		WithContext("field", field).
		WithSuggestion(fmt.Sprintf("Declare '%s' on every route of the registry manifest", field))
}

// NewUnsupportedMethod reports a route whose verb has no OpenAPI operation
func NewUnsupportedMethod(method string, loc Location) *BaseError {
	return Newf(InvalidRouteDescriptorCode, "invalid route descriptor: unsupported method '%s'", method).
		WithLocation(loc).
		WithContext("method", method).
		WithSuggestion("Use one of GET, POST, PUT, PATCH, DELETE, HEAD, OPTIONS, TRACE or CONNECT")
}

// NewUnresolvedSchemaReference reports a component or content type uid the registry does not know
func NewUnresolvedSchemaReference(kind, uid, attribute string) *BaseError {
	return Newf(UnresolvedSchemaReferenceCode, "unresolved %s reference '%s' on attribute '%s'", kind, uid, attribute).
		WithContext("kind", kind).
		WithContext("uid", uid).
		WithContext("attribute", attribute).
		WithSuggestion(fmt.Sprintf("Register the %s '%s' in the manifest", kind, uid))
}

// NewInvalidAttribute reports an attribute whose type tag cannot be documented
func NewInvalidAttribute(name, attrType string) *BaseError {
	return Newf(InvalidAttributeCode, "invalid type '%s' on attribute '%s' while generating open api schema", attrType, name).
		WithContext("attribute", name).
		WithContext("type", attrType)
}

// WrapPathTemplateError wraps a failure to tokenize a route path
func WrapPathTemplateError(path string, cause error) *BaseError {
	return Wrapf(PathTemplateErrorCode, cause, "failed to parse path template '%s'", path).
		WithContext("path", path).
		WithSuggestion("Path parameters use the ':name' syntax, optionally followed by '(pattern)' and one of '?', '*', '+'")
}

// WrapRegistryError wraps failures while loading or reading the registry
func WrapRegistryError(operation, item string, cause error) *BaseError {
	return Wrapf(RegistryErrorCode, cause, "failed to %s %s", operation, item).
		WithContext("operation", operation).
		WithContext("item", item)
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s file '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(setting string, cause error) *BaseError {
	message := fmt.Sprintf("invalid configuration '%s'", setting)
	return Wrap(ConfigurationErrorCode, message, cause).
		WithContext("setting", setting)
}

// WrapValidationError wraps a failed self-check of a generated document
func WrapValidationError(item string, cause error) *BaseError {
	return Wrap(ValidationErrorCode, fmt.Sprintf("failed to validate %s", item), cause)
}

// CodeOf returns the code of the first DocError in err's chain
func CodeOf(err error) ErrorCode {
	var docErr DocError
	if stderrors.As(err, &docErr) {
		return docErr.ErrorCode()
	}
	return UnknownErrorCode
}

// Is reports whether err's chain contains a DocError with the given code
func Is(err error, code ErrorCode) bool {
	var multi *MultipleErrors
	if stderrors.As(err, &multi) {
		return multi.HasCode(code)
	}
	return CodeOf(err) == code
}
