package reports

import "errors"

// Sentinel errors for the reports module.
var (
	ErrReportNotFound  = errors.New("report not found")
	ErrIntakeDisabled  = errors.New("report intake is disabled")
	ErrUploadsDisabled = errors.New("screenshot uploads are disabled")
	ErrFileTooLarge    = errors.New("screenshot exceeds the size limit")
	ErrUnsupportedFile = errors.New("screenshot must be a png, jpeg or gif image")
)
