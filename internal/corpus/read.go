package corpus

import (
	"fmt"
	"os"
	"slices"

	"golang.org/x/text/encoding/unicode"
)

// ReadText loads a fixture or golden file as UTF-8 text. A leading BOM is
// dropped and Windows line endings are folded to \n, so marker parsing and
// golden comparison see the same text on every platform the corpus was
// checked out on.
func ReadText(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	clean, err := unicode.UTF8BOM.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", path, err)
	}
	return string(normalizeCRLF(clean)), nil
}

// normalizeCRLF заменяет все \r\n на \n, не трогая одиночные \r.
func normalizeCRLF(content []byte) []byte {
	// Быстрый путь: если нет \r, возвращаем как есть.
	if !slices.Contains(content, '\r') {
		return content
	}

	out := make([]byte, 0, len(content))
	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out
}
