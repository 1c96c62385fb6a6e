// Package gdrive implements filestore.FileStore on top of the Google
// Drive v3 API, authenticated with the caller's delegated access token.
package gdrive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	apperr "github.com/MrSnakeDoc/drivemark/internal/errors"
	"github.com/MrSnakeDoc/drivemark/internal/filestore"
	"github.com/MrSnakeDoc/drivemark/internal/logger"
)

const (
	contentType = "application/json"
	fileFields  = "id, name, createdTime, modifiedTime, size"
)

// tokenLifetime is the synthetic expiry given to delegated tokens. The
// real expiry is owned by the identity provider.
const tokenLifetime = time.Hour

type Options struct {
	// Endpoint overrides the Drive API base URL (tests, proxies).
	Endpoint string

	// HTTPClient is the base transport under the OAuth2 layer.
	HTTPClient *http.Client

	UserAgent string
}

// Client is a stateless Drive adapter; every call builds a service
// bound to the credential it receives.
type Client struct {
	opts Options
	log  logger.Logger
}

func New(opts Options, log logger.Logger) *Client {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{opts: opts, log: log}
}

func (c *Client) service(ctx context.Context, cred filestore.Credential) (*drive.Service, error) {
	if !cred.Valid() {
		return nil, apperr.StoreUnavailable("drive: no delegated credential")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cred.AccessToken,
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(tokenLifetime),
	})
	hc := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, c.opts.HTTPClient), ts)

	opts := []option.ClientOption{option.WithHTTPClient(hc)}
	if c.opts.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.opts.Endpoint))
	}

	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, apperr.StoreUnavailable(fmt.Sprintf("drive: init service: %v", err))
	}
	if c.opts.UserAgent != "" {
		svc.UserAgent = c.opts.UserAgent
	}
	return svc, nil
}

func (c *Client) EnsureContainer(ctx context.Context, cred filestore.Credential, name string) (string, error) {
	svc, err := c.service(ctx, cred)
	if err != nil {
		return "", err
	}

	q := fmt.Sprintf("name='%s' and mimeType='%s' and trashed=false", escape(name), filestore.FolderMimeType)
	list, err := svc.Files.List().Q(q).Spaces("drive").Fields("files(id, name)").Context(ctx).Do()
	if err != nil {
		return "", wrap("search container", err)
	}
	if len(list.Files) > 0 {
		return list.Files[0].Id, nil
	}

	created, err := svc.Files.Create(&drive.File{
		Name:     name,
		MimeType: filestore.FolderMimeType,
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", wrap("create container", err)
	}

	c.log.Info("drive container created", logger.String("name", name), logger.String("id", created.Id))
	return created.Id, nil
}

func (c *Client) ReadFile(ctx context.Context, cred filestore.Credential, name, containerID string) (string, bool, error) {
	svc, err := c.service(ctx, cred)
	if err != nil {
		return "", false, err
	}

	id, err := findFile(ctx, svc, name, containerID)
	if err != nil {
		return "", false, err
	}
	if id == "" {
		return "", false, nil
	}

	resp, err := svc.Files.Get(id).Context(ctx).Download()
	if err != nil {
		return "", false, wrap("download "+name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, apperr.RemoteCallFailed("drive: read "+name, err)
	}
	return string(data), true, nil
}

func (c *Client) WriteFile(ctx context.Context, cred filestore.Credential, name, content, containerID string) error {
	svc, err := c.service(ctx, cred)
	if err != nil {
		return err
	}

	id, err := findFile(ctx, svc, name, containerID)
	if err != nil {
		return err
	}

	media := googleapi.ContentType(contentType)
	if id != "" {
		_, err = svc.Files.Update(id, &drive.File{}).
			Media(strings.NewReader(content), media).
			Fields("id").Context(ctx).Do()
		return wrap("update "+name, err)
	}

	_, err = svc.Files.Create(&drive.File{
		Name:     name,
		MimeType: contentType,
		Parents:  []string{containerID},
	}).Media(strings.NewReader(content), media).Fields("id").Context(ctx).Do()
	return wrap("create "+name, err)
}

func (c *Client) DeleteFile(ctx context.Context, cred filestore.Credential, name, containerID string) error {
	svc, err := c.service(ctx, cred)
	if err != nil {
		return err
	}

	id, err := findFile(ctx, svc, name, containerID)
	if err != nil || id == "" {
		return err
	}
	return wrap("delete "+name, svc.Files.Delete(id).Context(ctx).Do())
}

func (c *Client) ListFiles(ctx context.Context, cred filestore.Credential, containerID string) ([]filestore.FileInfo, error) {
	svc, err := c.service(ctx, cred)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf("'%s' in parents and trashed=false", escape(containerID))
	files := make([]filestore.FileInfo, 0)
	err = svc.Files.List().Q(q).Spaces("drive").
		Fields(googleapi.Field("nextPageToken, files("+fileFields+")")).
		Pages(ctx, func(page *drive.FileList) error {
			for _, f := range page.Files {
				files = append(files, filestore.FileInfo{
					ID:         f.Id,
					Name:       f.Name,
					CreatedAt:  parseTime(f.CreatedTime),
					ModifiedAt: parseTime(f.ModifiedTime),
					Size:       f.Size,
				})
			}
			return nil
		})
	if err != nil {
		return nil, wrap("list files", err)
	}
	return files, nil
}

// findFile returns the id of the first non-trashed file called name in
// the container, or "" when there is none.
func findFile(ctx context.Context, svc *drive.Service, name, containerID string) (string, error) {
	q := fmt.Sprintf("name='%s' and '%s' in parents and trashed=false", escape(name), escape(containerID))
	list, err := svc.Files.List().Q(q).Spaces("drive").Fields("files(id, name)").Context(ctx).Do()
	if err != nil {
		return "", wrap("search "+name, err)
	}
	if len(list.Files) == 0 {
		return "", nil
	}
	return list.Files[0].Id, nil
}

// escape quotes a value for use inside a Drive query string literal.
func escape(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `'`, `\'`)
}

func parseTime(v string) time.Time {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}
	}
	return t
}

// wrap maps Drive API failures onto coded errors. A rejected credential
// makes the store unavailable; anything else is a failed remote call.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusUnauthorized {
		return apperr.StoreUnavailable(fmt.Sprintf("drive: %s: credential rejected", op))
	}
	return apperr.RemoteCallFailed("drive: "+op, err)
}

var _ filestore.FileStore = (*Client)(nil)
