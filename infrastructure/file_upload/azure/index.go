package azure

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	azblob_sas "github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"
	"rollcall.io/infrastructure/file_upload/types"
	"rollcall.io/infrastructure/logger"
)

type AzureBlobService struct {
	AccountName   string
	ContainerName string
	AccountKey    string

	credential *azblob.SharedKeyCredential
	client     *azblob.Client
}

func NewAzureBlobService(accountName string, accountKey string, containerName string) (*AzureBlobService, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		logger.Error("error generated azblob shared key credential", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return nil, err
	}
	client, err := azblob.NewClientWithSharedKeyCredential(fmt.Sprintf("https://%s.blob.core.windows.net/", accountName), credential, nil)
	if err != nil {
		logger.Error("error creating azblob client", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return nil, err
	}
	return &AzureBlobService{
		AccountName:   accountName,
		AccountKey:    accountKey,
		ContainerName: containerName,
		credential:    credential,
		client:        client,
	}, nil
}

func (azservice *AzureBlobService) blobURL(fileName string) string {
	return fmt.Sprintf("https://%s.blob.core.windows.net/%s/%s", azservice.AccountName, azservice.ContainerName, fileName)
}

func (azservice *AzureBlobService) UploadFile(ctx context.Context, fileName string, data []byte, contentType string) (*string, error) {
	_, err := azservice.client.UploadBuffer(ctx, azservice.ContainerName, fileName, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	if err != nil {
		logger.Error("error uploading blob", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "fileName",
			Data: fileName,
		})
		return nil, err
	}
	location := azservice.blobURL(fileName)
	return &location, nil
}

// GenerateDownloadURL signs a read-only URL valid for five minutes.
func (azservice *AzureBlobService) GenerateDownloadURL(fileName string) (*string, error) {
	return azservice.generateSignedURL(fileName, types.SignedURLPermission{Read: true})
}

func (azservice *AzureBlobService) generateSignedURL(fileName string, permission types.SignedURLPermission) (*string, error) {
	if permission.Read == permission.Write {
		return nil, errors.New("permission must be either read or write")
	}
	sasQueryParams, err := azblob_sas.BlobSignatureValues{
		Protocol:      azblob_sas.ProtocolHTTPS,
		StartTime:     time.Now().UTC(),
		ExpiryTime:    time.Now().UTC().Add(5 * time.Minute),
		Permissions:   (&azblob_sas.BlobPermissions{Read: permission.Read, Write: permission.Write, Delete: permission.Delete}).String(),
		ContainerName: azservice.ContainerName,
		BlobName:      fileName,
	}.SignWithSharedKey(azservice.credential)
	if err != nil {
		logger.Error("error blob signature values", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return nil, err
	}
	sasURL := fmt.Sprintf("%s?%s", azservice.blobURL(fileName), sasQueryParams.Encode())
	return &sasURL, nil
}

func (azservice *AzureBlobService) DeleteFile(ctx context.Context, fileName string) error {
	_, err := azservice.client.DeleteBlob(ctx, azservice.ContainerName, fileName, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil
		}
		logger.Error("error deleting blob", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "fileName",
			Data: fileName,
		})
		return err
	}
	return nil
}
