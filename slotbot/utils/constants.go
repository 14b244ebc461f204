package utils

const (
	ErrorColor   = 0xFF0000
	SuccessColor = 0x00FF00
	InfoColor    = 0x0099FF
	WarningColor = 0xFFAA00
	VIPColor     = 0xFFD700
	FreeColor    = 0x00AE86

	// EntriesPerPage is the page size of paginated lists.
	EntriesPerPage = 10
)

func Ptr[T any](v T) *T {
	return &v
}
