package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound matches every NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument marks malformed paging, projection, sort or identifier input.
	ErrInvalidArgument = errors.New("invalid argument")
)

// NotFoundError is the hard failure raised when a mandatory reference entity is missing.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// Is lets errors.Is(err, ErrNotFound) match any entity kind.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func StudyNotFound(studyID string) error {
	return &NotFoundError{Entity: "study", ID: studyID}
}

func SampleNotFound(studyID, sampleID string) error {
	return &NotFoundError{Entity: "sample", ID: studyID + "/" + sampleID}
}

func GeneNotFound(geneID string) error {
	return &NotFoundError{Entity: "gene", ID: geneID}
}
