package youtube

import (
	"errors"
	"fmt"
)

// Reason classifies why a transcript could not be fetched.
type Reason int

const (
	ReasonUnknown Reason = iota
	ReasonDisabled
	ReasonNotFound
)

func (r Reason) String() string {
	switch r {
	case ReasonDisabled:
		return "disabled"
	case ReasonNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

var (
	ErrTranscriptsDisabled = errors.New("transcripts are disabled for this video")
	ErrNoTranscript        = errors.New("no transcript found for this video")
)

// TranscriptError is returned by FetchTranscript for every failure.
type TranscriptError struct {
	VideoID string
	Reason  Reason
	Err     error
}

func (e *TranscriptError) Error() string {
	switch e.Reason {
	case ReasonDisabled:
		return "Transcripts are disabled for this video."
	case ReasonNotFound:
		return "No transcript found for this video."
	default:
		return fmt.Sprintf("%v", e.Err)
	}
}

func (e *TranscriptError) Unwrap() error {
	return e.Err
}

func disabled(videoID string) *TranscriptError {
	return &TranscriptError{VideoID: videoID, Reason: ReasonDisabled, Err: ErrTranscriptsDisabled}
}

func notFound(videoID string, err error) *TranscriptError {
	if err == nil {
		err = ErrNoTranscript
	} else {
		err = fmt.Errorf("%w: %v", ErrNoTranscript, err)
	}
	return &TranscriptError{VideoID: videoID, Reason: ReasonNotFound, Err: err}
}

func unknown(videoID string, err error) *TranscriptError {
	return &TranscriptError{VideoID: videoID, Reason: ReasonUnknown, Err: err}
}
