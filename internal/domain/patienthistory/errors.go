package patienthistory

import (
	"errors"
	"fmt"
)

// ErrorKind classifies codec failures.
type ErrorKind string

const (
	KindDecode    ErrorKind = "DECODE_ERROR"
	KindFieldType ErrorKind = "FIELD_TYPE_ERROR"
)

var (
	// ErrDecode matches any DECODE_ERROR: the discriminator is missing, null,
	// not a string or not registered for the target hierarchy.
	ErrDecode = errors.New("patient history: decode error")
	// ErrFieldType matches any FIELD_TYPE_ERROR: a property has the wrong JSON
	// type for the resolved variant.
	ErrFieldType = errors.New("patient history: field type error")

	ErrNotFound        = errors.New("patient history item not found")
	ErrNotDeletable    = errors.New("patient history item has no deleted flag")
	ErrTypeMismatch    = errors.New("patient history item type does not match request")
	ErrMultipleCurrent = errors.New("tracking lineage has more than one current snapshot")
	ErrMixedLineage    = errors.New("tracking lineage mixes snapshots of different tracking items")
	ErrInvalid         = errors.New("invalid patient history item")
	ErrPatientChanged  = errors.New("patient history item cannot move to another patient")
)

// DecodeError is returned by every decode function in this package.
type DecodeError struct {
	Kind      ErrorKind
	Hierarchy Hierarchy
	Tag       string
	Err       error
}

func (e *DecodeError) Error() string {
	if e.Kind == KindFieldType {
		return fmt.Sprintf("%s: %s %s payload: %v", e.Kind, e.Hierarchy, e.Tag, e.Err)
	}
	return fmt.Sprintf("%s: %s payload: %v", e.Kind, e.Hierarchy, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool {
	switch target {
	case ErrDecode:
		return e.Kind == KindDecode
	case ErrFieldType:
		return e.Kind == KindFieldType
	}
	return false
}

func decodeErr(h Hierarchy, tag string, err error) *DecodeError {
	return &DecodeError{Kind: KindDecode, Hierarchy: h, Tag: tag, Err: err}
}

func unknownTagErr(h Hierarchy, tag HistoryType) *DecodeError {
	return decodeErr(h, string(tag), fmt.Errorf("unknown %s %q", DiscriminatorField, string(tag)))
}

func fieldTypeErr(h Hierarchy, tag HistoryType, err error) *DecodeError {
	return &DecodeError{Kind: KindFieldType, Hierarchy: h, Tag: string(tag), Err: err}
}
