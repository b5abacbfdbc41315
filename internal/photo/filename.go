package photo

import (
	"strconv"
	"strings"
	"unicode"
)

const (
	defaultFileName = "photo"
	maxBaseNameLen  = 100
	maxExtLen       = 10
)

// SanitizeName строит безопасное имя файла для отправки на бэкенд,
// который сохраняет фотографию под этим именем:
//
//   - обрезает путь;
//   - удаляет управляющие и неграфические символы;
//   - заменяет запрещенные и проблемные символы на '-';
//   - последовательные '-' заменяются на один;
//   - пустое имя заменяется на "photo-<uniqueNum>".
//
// Расширение сохраняется, если оно состоит из букв и цифр.
//
// Примеры:
//
//	"/some/path/IMG 001.jpg", 1 -> "IMG-001.jpg"
//	"..\\..\\evil.png", 2 -> "evil.png"
//	"", 3 -> "photo-3"
func SanitizeName(fileName string, uniqueNum int) string {
	// Удалить путь
	if p := strings.LastIndexAny(fileName, `/\`); p != -1 {
		fileName = fileName[p+1:]
	}

	ext := ""
	if p := strings.LastIndexByte(fileName, '.'); p > 0 {
		if e := fileName[p+1:]; isSafeExt(e) {
			ext = "." + strings.ToLower(e)
			fileName = fileName[:p]
		}
	}

	baseName := sanitize(fileName, maxBaseNameLen)
	if baseName == "" {
		baseName = defaultFileName + "-" + strconv.Itoa(uniqueNum)
	}

	return baseName + ext
}

func isSafeExt(ext string) bool {
	if ext == "" || len(ext) > maxExtLen {
		return false
	}
	for _, r := range ext {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return false
		}
	}
	return true
}

// ASCII опасные символы
const asciiProblem = `<>:"/\|?*~.;#$%&'(){}[]!` + "`"

// Fullwidth неопасные символы, но вводят в заблуждение
const fullwidthProblem = "＜＞：＂／＼｜？＊～；＃＄％＆＇（）｛｝［］！"

func sanitize(s string, maxLen int) string {
	var sb strings.Builder

	prev := '-' // чтобы не писать лидирующий '-'
	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}

		switch {
		case unicode.IsSpace(r):
			r = '-'
		case unicode.IsControl(r) || !unicode.IsPrint(r):
			continue
		case strings.ContainsRune(asciiProblem, r), strings.ContainsRune(fullwidthProblem, r):
			r = '-'
		}

		if r == '-' && prev == '-' {
			continue
		}

		sb.WriteRune(r)
		prev = r
		n++
	}

	return strings.TrimSuffix(sb.String(), "-")
}
