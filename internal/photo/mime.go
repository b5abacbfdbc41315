package photo

import (
	"bytes"
)

// DefaultContentType отдается для файлов с неизвестной сигнатурой.
const DefaultContentType = "application/octet-stream"

type fileType struct {
	mimeType string
	offset   int    // смещение сигнатуры от начала файла
	magic    []byte // сигнатура файла
}

var fileTypes = []fileType{
	{
		mimeType: "image/jpeg",
		magic:    []byte{0xFF, 0xD8, 0xFF}, // ÿØÿ
	},
	{
		mimeType: "image/png",
		magic:    []byte{0x89, 0x50, 0x4E, 0x47}, // ‰PNG
	},
	{
		mimeType: "image/gif",
		magic:    []byte{0x47, 0x49, 0x46, 0x38}, // GIF8
	},
	{
		mimeType: "image/webp",
		offset:   8,
		magic:    []byte("WEBP"), // после RIFF????
	},
	{
		mimeType: "image/heic",
		offset:   4,
		magic:    []byte("ftypheic"),
	},
	{
		mimeType: "image/heic",
		offset:   4,
		magic:    []byte("ftypmif1"),
	},
	{
		mimeType: "application/pdf",
		magic:    []byte{0x25, 0x50, 0x44, 0x46}, // %PDF
	},
}

// magicLen сколько первых байт нужно для определения типа.
const magicLen = 12

// detectContentType определяет MIME тип по сигнатуре файла.
func detectContentType(data []byte) string {
	head := data[:min(magicLen, len(data))]
	for _, ft := range fileTypes {
		if len(head) < ft.offset {
			continue
		}
		if bytes.HasPrefix(head[ft.offset:], ft.magic) {
			return ft.mimeType
		}
	}
	return DefaultContentType
}
