package sheet

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	getter "github.com/hashicorp/go-getter"
)

// GetterSource fetches the sheet through go-getter, which covers local
// paths, file://, s3::, gcs:: and git:: sources as well as checksummed URLs.
type GetterSource struct {
	src     string
	timeout time.Duration
	logger  *slog.Logger
}

// NewGetterSource creates a source for any go-getter address. A positive
// timeout bounds each Fetch.
func NewGetterSource(src string, timeout time.Duration, logger *slog.Logger) *GetterSource {
	return &GetterSource{src: src, timeout: timeout, logger: logger}
}

// Kind names the transport for metrics.
func (s *GetterSource) Kind() string { return "getter" }

// Fetch copies the document into a scratch directory and reads it back.
func (s *GetterSource) Fetch(ctx context.Context) ([]byte, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	pwd, err := os.Getwd()
	if err != nil {
		pwd = "."
	}

	tempDir, err := os.MkdirTemp("", "gnss-sheet-*")
	if err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	dst := filepath.Join(tempDir, "sheet.csv")
	client := &getter.Client{
		Ctx:     ctx,
		Src:     s.src,
		Dst:     dst,
		Pwd:     pwd,
		Mode:    getter.ClientModeFile,
		Getters: getter.Getters,
	}
	if err := client.Get(); err != nil {
		return nil, fmt.Errorf("fetch sheet: %w", err)
	}

	info, err := os.Stat(dst)
	if err != nil {
		return nil, fmt.Errorf("stat fetched sheet: %w", err)
	}
	if info.Size() > maxDocumentBytes {
		return nil, fmt.Errorf("fetch sheet: document exceeds %d bytes", maxDocumentBytes)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		return nil, fmt.Errorf("read fetched sheet: %w", err)
	}

	s.logger.Debug("sheet fetched", "src", s.src, "bytes", len(data))
	return data, nil
}
