package types

import "context"

type FileUploaderType interface {
	// UploadFile stores data under fileName and returns its location.
	UploadFile(ctx context.Context, fileName string, data []byte, contentType string) (*string, error)
	GenerateDownloadURL(fileName string) (*string, error)
	DeleteFile(ctx context.Context, fileName string) error
}

type SignedURLPermission struct {
	Read   bool `json:"read"`
	Write  bool `json:"write"`
	Delete bool `json:"delete"`
}
