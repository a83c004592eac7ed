package source

import (
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"
)

// normalizeCRLF заменяет все \r\n на \n, не трогая одиночные \r.
// Возвращает новый слайс и флаг: были ли замены (true, если хотя бы одна).
func normalizeCRLF(content []byte) ([]byte, bool) {
	// Быстрый путь: если нет \r, возвращаем как есть.
	if !slices.Contains(content, '\r') {
		return content, false
	}

	// Новый слайс для результата (максимум такой же длины, может быть короче).
	out := make([]byte, 0, len(content))
	changed := false

	i := 0
	for i < len(content) {
		// Если встретили \r\n — заменяем на \n.
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}

	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}

	return content, false
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content))
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

func toLineCol(content []byte, lineIdx []uint32, off uint32) LineCol {
	// Если LineIdx пустой, то весь файл - одна строка
	if len(lineIdx) == 0 {
		return LineCol{Line: 1, Col: runeColumn(content, 0, off)}
	}

	// бинпоиск: находим наибольший lineIdx[i] < off (последний перевод строки перед off)
	lo, hi := 0, len(lineIdx)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}

	// Если перед off нет ни одного перевода строки, то это первая строка
	if hi < 0 {
		return LineCol{Line: 1, Col: runeColumn(content, 0, off)}
	}

	// Строка начинается сразу после \n с индексом hi
	startOff := lineIdx[hi] + 1
	return LineCol{Line: uint32(hi + 2), Col: runeColumn(content, startOff, off)}
}

// runeColumn counts code points, not bytes, from startOff up to off on
// the same line, returning a 1-based column. Multi-byte UTF-8
// sequences before off on the line must only advance the column by
// one, per the column invariant every later diagnostic-location
// consumer (pretty, JSON, SARIF) relies on.
func runeColumn(content []byte, startOff, off uint32) uint32 {
	col := uint32(1)
	i := startOff
	for i < off && int(i) < len(content) {
		_, size := utf8.DecodeRune(content[i:])
		if size <= 0 {
			size = 1
		}
		i += uint32(size)
		col++
	}
	return col
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}

// AbsolutePath возвращает абсолютный, нормализованный путь.
func AbsolutePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return normalizePath(abs), nil
}

// RelativePath возвращает путь относительно baseDir, если path находится
// внутри baseDir; иначе возвращает нормализованный абсолютный путь.
func RelativePath(path, baseDir string) (string, error) {
	rel, err := filepath.Rel(baseDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return normalizePath(path), nil
	}
	return normalizePath(rel), nil
}

// BaseName возвращает последний компонент пути.
func BaseName(path string) string {
	return filepath.Base(path)
}
