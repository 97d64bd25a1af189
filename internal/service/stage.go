package service

import (
	"errors"
	"fmt"
)

// Stage names one discrete step of the upload or delete sequence. Errors
// are always tagged with the stage that produced them so callers can
// tell which rows exist when a later step fails
type Stage string

const (
	StageStorage     Stage = "storage"
	StageRecord      Stage = "record"
	StageVisibility  Stage = "visibility"
	StageInfo        Stage = "info"
	StageDescription Stage = "description"
)

var (
	ErrNotFound          = errors.New("photo not found")
	ErrUploadInFlight    = errors.New("another upload is already running for this user")
	ErrPartialCoordinate = errors.New("latitude and longitude must be provided together")
)

type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed, %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Message returns the user-facing explanation of what state the upload
// was left in when this stage failed
func (e *StageError) Message() string {
	switch e.Stage {
	case StageStorage:
		return "Error during upload"
	case StageRecord:
		return "Media stored, but the record could not be saved"
	case StageVisibility:
		return "Media uploaded, but the privacy setting could not be saved"
	case StageInfo:
		return "Media uploaded, but the tags could not be saved"
	case StageDescription:
		return "Media uploaded, but the description could not be saved"
	}

	return "Upload failed"
}

func stageErr(s Stage, err error) *StageError {
	return &StageError{Stage: s, Err: err}
}
