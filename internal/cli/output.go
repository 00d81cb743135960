package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// textSurface draws scene lines to a writer.
type textSurface struct {
	w io.Writer
}

func (t textSurface) DrawText(line string) {
	fmt.Fprintln(t.w, line)
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
