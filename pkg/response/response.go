package response

import (
	"encoding/json"
	"io"

	"github.com/Scriprto/steal-brainrot-shop/pkg/apierror"
)

// Response represents a standard command response.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta contains pagination metadata.
type Meta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// JSON writes a success envelope around data.
func JSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Response{
		Success: true,
		Data:    data,
	})
}

// JSONWithMeta writes a success envelope with pagination metadata.
func JSONWithMeta(w io.Writer, data interface{}, page, limit int, total int64) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Response{
		Success: true,
		Data:    data,
		Meta: &Meta{
			Page:  page,
			Limit: limit,
			Total: total,
		},
	})
}

// Error writes an error envelope. Non-API errors are reported as internal errors.
func Error(w io.Writer, err error) error {
	apiErr := apierror.From(err)
	if apiErr == nil {
		return nil
	}
	data := apiErr.ToJSON()
	data = append(data, '\n')
	_, werr := w.Write(data)
	return werr
}
