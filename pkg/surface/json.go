package surface

import (
	"encoding/json"
	"io"
)

// JSONRenderer marshals a RankingView to indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(w io.Writer, view *RankingView) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}
