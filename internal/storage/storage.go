package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxImageSize 單張圖片上限
const MaxImageSize = 5 << 20

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("image exceeds size limit")
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var newName = func() string { return uuid.NewString() }

// Storage 保存上傳檔案並回傳可存入資料庫的參照
type Storage interface {
	Save(ctx context.Context, dir string, r io.Reader) (string, error)
	URL(ref string) string
	Delete(ctx context.Context, ref string) error
}

// Local 將檔案寫入本機目錄，並由 baseURL 對外提供
type Local struct {
	root    string
	baseURL string
}

func NewLocal(root, baseURL string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	return &Local{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Root 本機根目錄，供靜態路由使用
func (l *Local) Root() string {
	return l.root
}

// Save 以內容判斷圖片類型，使用隨機檔名寫入 dir 之下
func (l *Local) Save(ctx context.Context, dir string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	br := bufio.NewReaderSize(r, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	ext, ok := imageExtensions[http.DetectContentType(head)]
	if !ok {
		return "", ErrUnsupportedType
	}

	dir = path.Clean("/" + dir)[1:]
	ref := path.Join(dir, newName()+ext)
	full := filepath.Join(l.root, filepath.FromSlash(ref))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	n, err := io.Copy(f, io.LimitReader(br, MaxImageSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > MaxImageSize {
		err = ErrTooLarge
	}
	if err != nil {
		_ = os.Remove(full)
		if errors.Is(err, ErrTooLarge) {
			return "", err
		}
		return "", fmt.Errorf("write file: %w", err)
	}
	return ref, nil
}

func (l *Local) URL(ref string) string {
	return l.baseURL + "/" + strings.TrimLeft(ref, "/")
}

// Delete 移除檔案；檔案不存在不視為錯誤
func (l *Local) Delete(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	full := filepath.Join(l.root, filepath.FromSlash(path.Clean("/"+ref)))
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}
