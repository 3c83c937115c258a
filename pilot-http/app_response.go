package pilot_http

import (
	"encoding/json"
	"io"
	"sort"
	"strconv"
	"strings"
)

type errorDetail struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type errorResponse struct {
	Error errorDetail `json:"error"`
}

type HttpResponse struct {
	StatusCode  StatusCode
	ContentType string
	Headers     map[string]string
	Body        []byte
	HeadOnly    bool
}

func NewHttpResponse() *HttpResponse {
	return &HttpResponse{
		StatusCode:  StatusOK,
		ContentType: MimeJson,
		Headers:     make(map[string]string),
		Body:        []byte{},
	}
}

// ErrorBody renders the JSON body sent with every 4xx and 5xx response.
func ErrorBody(status StatusCode) []byte {
	body, _ := json.Marshal(errorResponse{
		Error: errorDetail{
			Message: status.Text(),
			Code:    int(status),
		},
	})
	return body
}

// ComposeResponse turns a handler or dispatch outcome into a response.
// body is the slot's body buffer; only result.Length bytes of it are used.
func ComposeResponse(method HttpMethod, result Result, err error, body []byte) *HttpResponse {
	res := NewHttpResponse()
	res.HeadOnly = method == Head
	if err != nil {
		res.StatusCode = StatusForError(err)
	} else {
		res.StatusCode = result.Status()
	}
	switch {
	case res.StatusCode.IsError():
		res.Body = ErrorBody(res.StatusCode)
	case res.StatusCode == StatusOK:
		n := result.Length
		if n > len(body) {
			n = len(body)
		}
		res.Body = body[:n]
	}
	return res
}

func (self *HttpResponse) SetHeader(key string, value string) {
	self.Headers[key] = value
}

// Header renders the status line and header block, including the blank line.
// Content-Length always reflects the body, even when HeadOnly drops it.
func (self *HttpResponse) Header() []byte {
	var output strings.Builder
	output.WriteString("HTTP/1.1 ")
	output.WriteString(strconv.Itoa(int(self.StatusCode)))
	output.WriteString(" ")
	output.WriteString(self.StatusCode.Text())
	output.WriteString("\r\n")
	output.WriteString("Content-Type: ")
	output.WriteString(self.ContentType)
	output.WriteString("\r\n")
	output.WriteString("Content-Length: ")
	output.WriteString(strconv.Itoa(len(self.Body)))
	output.WriteString("\r\n")
	keys := make([]string, 0, len(self.Headers))
	for key := range self.Headers {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		output.WriteString(key)
		output.WriteString(": ")
		output.WriteString(self.Headers[key])
		output.WriteString("\r\n")
	}
	output.WriteString("Connection: close\r\n\r\n")
	return []byte(output.String())
}

// Payload is the body that goes on the wire.
func (self *HttpResponse) Payload() []byte {
	if self.HeadOnly {
		return nil
	}
	return self.Body
}

func (self *HttpResponse) Write(stream io.Writer) error {
	if err := writeAll(stream, self.Header()); err != nil {
		return err
	}
	return writeAll(stream, self.Payload())
}

func writeAll(stream io.Writer, data []byte) error {
	write := 0
	for write < len(data) {
		n, err := stream.Write(data[write:])
		if err != nil {
			return err
		}
		write += n
	}
	return nil
}
