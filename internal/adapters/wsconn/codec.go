package wsconn

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Subprotocol is negotiated on every session; frames carry base64 text.
const Subprotocol = "base64"

// EncodeLine frames one outbound line, newline included.
func EncodeLine(line string) []byte {
	return []byte(base64.StdEncoding.EncodeToString([]byte(line + "\n")))
}

// DecodeMessage unwraps an inbound frame into its lines. The final newline
// terminates the last line and does not produce an empty one.
func DecodeMessage(data []byte) ([]string, error) {
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("decode base64 frame: %w", err)
	}

	text := strings.TrimSuffix(string(decoded), "\n")
	return strings.Split(text, "\n"), nil
}
