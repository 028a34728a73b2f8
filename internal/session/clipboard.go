package session

import "github.com/atotto/clipboard"

// SystemClipboard writes to the host clipboard.
type SystemClipboard struct{}

// WriteAll copies text to the host clipboard.
func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}
