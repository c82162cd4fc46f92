package editpage

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
)

// Placeholder marks where the buffer is inlined as a string literal.
const Placeholder = "<<<CODE>>>"

//go:embed page.html
var pageTemplate []byte

// Render inlines code into the edit page. json.Marshal escapes <, > and &,
// so a buffer containing "</script>" cannot end the script element.
func Render(code string) ([]byte, error) {
	literal, err := json.Marshal(code)
	if err != nil {
		return nil, fmt.Errorf("encode code literal: %w", err)
	}

	return bytes.Replace(pageTemplate, []byte(Placeholder), literal, 1), nil
}
