package entity

import "fmt"

// Status is the processing state of an album candidate:
// > Pending -> BackedUp -> CatalogResolved -> Matched -> Finalized
// any non terminal state can also fall into one of the failures.
type Status int

const (
	Pending Status = iota
	BackedUp
	CatalogResolved
	Matched
	Finalized
	BackupFailed
	CatalogNotFound
	ProcessingError
)

func (status Status) String() string {
	switch status {
	case Pending:
		return "pending"
	case BackedUp:
		return "backed-up"
	case CatalogResolved:
		return "catalog-resolved"
	case Matched:
		return "matched"
	case Finalized:
		return "finalized"
	case BackupFailed:
		return "backup-failed"
	case CatalogNotFound:
		return "catalog-not-found"
	case ProcessingError:
		return "processing-error"
	default:
		return fmt.Sprintf("status(%d)", int(status))
	}
}

// Label is the user facing outcome of a status.
func (status Status) Label() string {
	switch status {
	case Finalized:
		return "Success"
	case BackupFailed:
		return "Backup Error"
	case CatalogNotFound:
		return "Not Found"
	case ProcessingError:
		return "Error"
	default:
		return "Processing"
	}
}

func (status Status) Terminal() bool {
	return status == Finalized || status.Failed()
}

func (status Status) Failed() bool {
	return status == BackupFailed || status == CatalogNotFound || status == ProcessingError
}

func (status Status) MarshalText() ([]byte, error) {
	return []byte(status.String()), nil
}

func (status *Status) UnmarshalText(text []byte) error {
	for candidate := Pending; candidate <= ProcessingError; candidate++ {
		if candidate.String() == string(text) {
			*status = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// TagError reports a failure reading or writing the metadata of a file.
type TagError struct {
	Path string
	Op   string
	Err  error
}

func (e *TagError) Error() string {
	return fmt.Sprintf("cannot %s tags of %s: %v", e.Op, e.Path, e.Err)
}

func (e *TagError) Unwrap() error { return e.Err }
