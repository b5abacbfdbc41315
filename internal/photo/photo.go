package photo

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode"

	"github.com/letsssgooo/checklist/internal/domain/models"
)

// Ошибки загрузки фотографий
var (
	ErrTooLarge   = errors.New("photo is too large")
	ErrNotRegular = errors.New("not a regular file")
)

// Loader читает выбранные пользователем файлы фотографий.
type Loader struct {
	maxSize int64 // 0 - без ограничения
}

// NewLoader создаёт Loader. maxSize ограничивает размер одной фотографии в байтах,
// 0 или отрицательное значение снимает ограничение.
func NewLoader(maxSize int64) *Loader {
	return &Loader{maxSize: max(maxSize, 0)}
}

// LoadAll читает файлы в порядке перечисления. Порядок результата совпадает
// с порядком paths. При первой ошибке возвращает её и ничего не выбирает.
func (l *Loader) LoadAll(paths []string) ([]models.Photo, error) {
	photos := make([]models.Photo, 0, len(paths))
	for i, path := range paths {
		photo, err := l.Load(path, i+1)
		if err != nil {
			return nil, err
		}
		photos = append(photos, photo)
	}
	return photos, nil
}

// Load читает один файл. uniqueNum используется для имени файла без названия.
func (l *Loader) Load(path string, uniqueNum int) (models.Photo, error) {
	log := slog.With("op", "loadPhoto", "path", path)

	f, err := os.Open(path)
	if err != nil {
		return models.Photo{}, fmt.Errorf("open photo failed: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return models.Photo{}, fmt.Errorf("stat photo failed: %w", err)
	}
	if !info.Mode().IsRegular() {
		return models.Photo{}, fmt.Errorf("%w: %s", ErrNotRegular, path)
	}
	if l.maxSize > 0 && info.Size() > l.maxSize {
		return models.Photo{}, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrTooLarge, path, info.Size(), l.maxSize)
	}

	var r io.Reader = f
	if l.maxSize > 0 {
		// файл мог вырасти после Stat
		r = io.LimitReader(f, l.maxSize+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return models.Photo{}, fmt.Errorf("read photo failed: %w", err)
	}
	if l.maxSize > 0 && int64(len(data)) > l.maxSize {
		return models.Photo{}, fmt.Errorf("%w: %s, limit %d", ErrTooLarge, path, l.maxSize)
	}

	photo := models.Photo{
		Name:        SanitizeName(path, uniqueNum),
		ContentType: detectContentType(data),
		Data:        data,
	}

	log.Debug("photo loaded", "name", photo.Name, "contentType", photo.ContentType, "size", len(data))
	return photo, nil
}

// SplitPaths разбирает строку со списком путей. Разделители - запятые и
// пробельные символы, пути с пробелами берутся в одинарные или двойные кавычки.
func SplitPaths(input string) []string {
	var (
		paths []string
		sb    strings.Builder
		quote rune
		inTok bool
	)

	flush := func() {
		if inTok {
			paths = append(paths, sb.String())
		}
		sb.Reset()
		inTok = false
	}

	for _, r := range input {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			sb.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			inTok = true
		case r == ',' || unicode.IsSpace(r):
			flush()
		default:
			sb.WriteRune(r)
			inTok = true
		}
	}
	flush()

	// пустые кавычки не дают пути
	result := paths[:0]
	for _, p := range paths {
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
