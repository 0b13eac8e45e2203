package fileupload

import (
	"os"

	"rollcall.io/infrastructure/file_upload/azure"
	"rollcall.io/infrastructure/file_upload/types"
	"rollcall.io/infrastructure/logger"
)

// FileUploader stays nil when blob storage is not configured.
var FileUploader types.FileUploaderType

func InitialiseFileUploader() {
	account := os.Getenv("AZURE_STORAGE_ACCOUNT")
	if account == "" {
		logger.Warning("AZURE_STORAGE_ACCOUNT not set, enrollment snapshots will not be stored")
		return
	}
	service, err := azure.NewAzureBlobService(account, os.Getenv("AZURE_STORAGE_KEY"), os.Getenv("AZURE_STORAGE_CONTAINER"))
	if err != nil {
		return
	}
	FileUploader = service
}
