package drive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	driveapi "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"gallerysync/internal/catalog"
	"gallerysync/internal/logging"
	"gallerysync/internal/services"
)

const (
	folderMIMEType  = "application/vnd.google-apps.folder"
	listFields      = "nextPageToken, files(id, name, mimeType, modifiedTime, size)"
	listPageSize    = 1000
	defaultTimeout  = 60 * time.Second
	maxDownloadSize = 256 << 20
)

// Options configures a Drive client.
type Options struct {
	// CredentialsFile is a service account key with at least read-only Drive scope.
	CredentialsFile string
	// Timeout bounds every HTTP request.
	Timeout time.Duration
	// Endpoint overrides the API base URL.
	Endpoint string
	// HTTPClient bypasses credential loading when set.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client reads folders and files from Google Drive with read-only scope. It
// implements catalog.Source.
type Client struct {
	svc    *driveapi.Service
	logger *slog.Logger
}

var _ catalog.Source = (*Client)(nil)

// New builds a Drive client. Credential problems are reported as
// configuration errors so callers can treat them as fatal.
func New(ctx context.Context, opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		var err error
		httpClient, err = serviceAccountClient(ctx, opts.CredentialsFile, opts.Timeout)
		if err != nil {
			return nil, err
		}
	}

	clientOpts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if endpoint := strings.TrimSpace(opts.Endpoint); endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(endpoint))
	}
	svc, err := driveapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "drive", "init", "create drive service", err)
	}
	return &Client{svc: svc, logger: logging.NewComponentLogger(opts.Logger, "drive")}, nil
}

func serviceAccountClient(ctx context.Context, path string, timeout time.Duration) (*http.Client, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, services.Wrap(services.ErrConfiguration, "drive", "load credentials", "credentials file not configured", nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "drive", "load credentials", fmt.Sprintf("read %s", path), err)
	}
	creds, err := google.CredentialsFromJSON(ctx, data, driveapi.DriveReadonlyScope)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "drive", "load credentials", fmt.Sprintf("parse %s", path), err)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := oauth2.NewClient(ctx, creds.TokenSource)
	client.Timeout = timeout
	return client, nil
}

// ListFolders returns the non-trashed folders directly under parentID.
func (c *Client) ListFolders(ctx context.Context, parentID string) ([]catalog.Folder, error) {
	query := fmt.Sprintf("'%s' in parents and mimeType = '%s' and trashed = false", escapeQuery(parentID), folderMIMEType)
	var folders []catalog.Folder
	err := c.list(ctx, query, func(file *driveapi.File) {
		folders = append(folders, catalog.Folder{ID: file.Id, Name: file.Name})
	})
	if err != nil {
		return nil, classify("list folders", err)
	}
	return folders, nil
}

// ListFiles returns the non-trashed files directly inside folderID whose MIME
// type is one of mimeTypes.
func (c *Client) ListFiles(ctx context.Context, folderID string, mimeTypes []string) ([]catalog.RemoteAsset, error) {
	query := fmt.Sprintf("'%s' in parents and trashed = false", escapeQuery(folderID))
	if len(mimeTypes) > 0 {
		clauses := make([]string, 0, len(mimeTypes))
		for _, mimeType := range mimeTypes {
			clauses = append(clauses, fmt.Sprintf("mimeType = '%s'", escapeQuery(mimeType)))
		}
		query += " and (" + strings.Join(clauses, " or ") + ")"
	}

	var assets []catalog.RemoteAsset
	err := c.list(ctx, query, func(file *driveapi.File) {
		asset := catalog.RemoteAsset{
			ID:       file.Id,
			Name:     file.Name,
			MimeType: file.MimeType,
			Size:     file.Size,
		}
		if ts, err := time.Parse(time.RFC3339, file.ModifiedTime); err == nil {
			asset.ModifiedTime = ts
		}
		assets = append(assets, asset)
	})
	if err != nil {
		return nil, classify("list files", err)
	}
	return assets, nil
}

func (c *Client) list(ctx context.Context, query string, visit func(*driveapi.File)) error {
	pages := 0
	call := c.svc.Files.List().
		Q(query).
		Fields(listFields).
		OrderBy("name").
		PageSize(listPageSize).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true)
	err := call.Pages(ctx, func(page *driveapi.FileList) error {
		pages++
		for _, file := range page.Files {
			visit(file)
		}
		return nil
	})
	c.logger.Debug("drive list complete", logging.String("query", query), logging.Int("pages", pages))
	return err
}

// Download returns the raw media bytes of fileID.
func (c *Client) Download(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := c.svc.Files.Get(fileID).SupportsAllDrives(true).Context(ctx).Download()
	if err != nil {
		return nil, classify("download", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize+1))
	if err != nil {
		return nil, classify("download", err)
	}
	if len(data) > maxDownloadSize {
		return nil, services.Wrap(services.ErrValidation, "drive", "download", fmt.Sprintf("file %s exceeds %d bytes", fileID, maxDownloadSize), nil)
	}
	return data, nil
}

func escapeQuery(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	return strings.ReplaceAll(value, `'`, `\'`)
}
