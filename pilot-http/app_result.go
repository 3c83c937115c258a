package pilot_http

import (
	"bytes"
	"encoding/json"
)

type ResultKind int

const (
	ResultContent ResultKind = iota
	ResultCreated
	ResultNoContent
)

// Result is the success half of a handler outcome. A Content result with a
// zero length is treated as No Content.
type Result struct {
	Kind   ResultKind
	Length int
}

func Ok(n int) Result {
	if n <= 0 {
		return NoContent()
	}
	return Result{Kind: ResultContent, Length: n}
}

func Created() Result {
	return Result{Kind: ResultCreated}
}

func NoContent() Result {
	return Result{Kind: ResultNoContent}
}

// Status maps a successful result to its response status.
func (r Result) Status() StatusCode {
	switch r.Kind {
	case ResultCreated:
		return StatusCreated
	case ResultContent:
		if r.Length > 0 {
			return StatusOK
		}
	}
	return StatusNoContent
}

// JsonResult encodes value into body and returns Ok with the number of
// bytes written.
func JsonResult(body *bytes.Buffer, value any) (Result, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return Result{}, err
	}
	n, _ := body.Write(data)
	return Ok(n), nil
}
